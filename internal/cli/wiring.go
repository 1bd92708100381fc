package cli

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"go.uber.org/zap"

	"quizcoach/internal/analysis"
	"quizcoach/internal/app"
	"quizcoach/internal/config"
	"quizcoach/internal/llm"
	"quizcoach/internal/logger"
)

// loadConfig reads path, falling back to defaults when the file is absent.
func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

func loadConfigAndLogger(path string) (config.Config, *zap.Logger, error) {
	cfg, err := loadConfig(path)
	if err != nil {
		return cfg, nil, err
	}
	log, err := logger.New(cfg)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, log, nil
}

func llmConfig(cfg config.Config) llm.Config {
	out := llm.DefaultConfig()
	if cfg.LLM.Provider != "" {
		out.Provider = cfg.LLM.Provider
	}
	out.APIKey = cfg.LLM.APIKey
	out.Model = cfg.LLM.Model
	out.BaseURL = cfg.LLM.BaseURL
	out.Timeout = config.TTLDuration(cfg.LLM.Timeout, out.Timeout)
	if cfg.LLM.MaxAttempts > 0 {
		out.Retry.MaxAttempts = cfg.LLM.MaxAttempts
	}
	return out
}

// buildAnalyzer prefers a remote analyze-quiz endpoint when one is configured
// and otherwise calls the LLM provider in-process. With neither it returns a
// nil analyzer, so analysis reports unavailable.
func buildAnalyzer(ctx context.Context, cfg config.Config, log *zap.Logger) (app.Analyzer, error) {
	if cfg.Analysis.URL != "" {
		log.Info("using remote analysis service", zap.String("url", cfg.Analysis.URL))
		return analysis.NewRemoteAnalyzer(cfg.Analysis.URL, config.TTLDuration(cfg.Analysis.Timeout, 60*time.Second)), nil
	}
	lc := llmConfig(cfg)
	if lc.Provider == "" {
		log.Warn("analysis disabled: set llm.provider or an API key such as OPENAI_API_KEY")
		return nil, nil
	}
	provider, err := llm.NewProvider(ctx, lc, log)
	if err != nil {
		return nil, err
	}
	log.Info("using in-process analysis", zap.String("provider", lc.Provider), zap.String("model", provider.ModelID()))
	return analysis.NewLLMAnalyzer(provider, log), nil
}
