package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// NewProvider builds the configured provider wrapped as
// caller → timeout → retry → logging → base.
// The mock provider answers with a fixed, minimal analysis and is only built
// when selected explicitly. An empty provider yields ErrNoProvider.
func NewProvider(ctx context.Context, cfg Config, logger *zap.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error
	switch cfg.Provider {
	case "openai":
		base, err = NewOpenAIProvider(cfg.ProviderConfig)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.ProviderConfig)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.ProviderConfig)
	case "mock":
		mock := NewMockProvider()
		mock.Default = []byte(`{"weakAreas":[],"studyRecommendations":[],"overallFeedback":"Analysis is running in offline mode.","nextSteps":["Configure an LLM provider for personalised recommendations."]}`)
		base = mock
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	logged := WithLogging(base, logger)
	retried := WithRetry(logged, cfg.Retry)
	return WithTimeout(retried, cfg.Timeout), nil
}
