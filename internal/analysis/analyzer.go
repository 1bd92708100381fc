package analysis

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"quizcoach/internal/domain"
	"quizcoach/internal/llm"
)

// LLMAnalyzer runs the analysis in-process against an llm.Provider.
type LLMAnalyzer struct {
	provider llm.Provider
	logger   *zap.Logger
}

func NewLLMAnalyzer(provider llm.Provider, logger *zap.Logger) *LLMAnalyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMAnalyzer{provider: provider, logger: logger}
}

func (a *LLMAnalyzer) Analyze(ctx context.Context, req domain.AnalysisRequest) (domain.AnalysisResult, error) {
	prompt := BuildPrompt(req)

	resp, err := a.provider.Generate(llm.WithCall(ctx, llm.Call{Purpose: "quiz-analysis", Subject: req.CategoryName}), llm.Request{
		System:      prompt.System,
		Prompt:      prompt.User,
		JSON:        true,
		MaxTokens:   MaxTokens,
		Temperature: Temperature,
	})
	if err != nil {
		return domain.AnalysisResult{}, classify(err)
	}

	result, err := ParseAnalysis(resp.Content)
	if err != nil {
		a.logger.Warn("unusable analysis reply",
			zap.String("model", resp.Model),
			zap.Int("bytes", len(resp.Content)),
			zap.Error(err),
		)
		return domain.AnalysisResult{}, err
	}
	return result, nil
}

func classify(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &domain.AnalysisError{Kind: domain.AnalysisNetwork, Err: err}
	}
	switch llm.KindOf(err) {
	case llm.Malformed, llm.Truncated:
		return &domain.AnalysisError{Kind: domain.AnalysisMalformed, Err: err}
	case llm.Unreachable:
		return &domain.AnalysisError{Kind: domain.AnalysisNetwork, Err: err}
	default:
		return &domain.AnalysisError{Kind: domain.AnalysisUpstream, Err: err}
	}
}
