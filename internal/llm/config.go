package llm

import (
	"fmt"
	"time"
)

// Config selects and configures the analysis model.
type Config struct {
	// Provider is one of "openai", "anthropic", "gemini" or "mock". Empty
	// disables analysis.
	Provider string
	ProviderConfig
	Retry   RetryConfig
	Timeout time.Duration
}

// ProviderConfig holds the credentials and model of the selected provider.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

func DefaultConfig() Config {
	return Config{
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 45 * time.Second,
	}
}

// Validate checks that the selected provider has what it needs.
func (c Config) Validate() error {
	switch c.Provider {
	case "":
		return ErrNoProvider
	case "openai", "anthropic", "gemini":
		if c.APIKey == "" {
			return fmt.Errorf("an API key is required for the %s provider", c.Provider)
		}
	case "mock":
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
