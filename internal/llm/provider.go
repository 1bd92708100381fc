// Package llm wraps the chat-completion providers used for quiz analysis
// behind one single-turn, JSON-producing interface.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates a completion for one prompt.
type Provider interface {
	// Generate sends req and returns the raw model output. Content is not
	// validated here; callers decide how strict to be.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request is a single-turn prompt.
type Request struct {
	System string
	Prompt string

	// JSON asks the provider for a JSON object reply using its native
	// response-format switch where one exists.
	JSON bool

	MaxTokens   int
	Temperature float64
}

// Response holds the model output.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Schema names a JSON Schema used by ValidateJSON.
type Schema struct {
	Name       string
	Definition map[string]any
}

// resolveModel maps a friendly model name to a provider model ID.
// Unknown names pass through so full model IDs work too.
func resolveModel(name string, models map[string]string, fallback string) string {
	if name == "" {
		name = fallback
	}
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
