package llm

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// LoggingProvider logs every request with its call tag, latency and token usage.
type LoggingProvider struct {
	inner  Provider
	logger *zap.Logger
}

func WithLogging(p Provider, logger *zap.Logger) Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingProvider{inner: p, logger: logger}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	call := CallFrom(ctx)
	fields := []zap.Field{
		zap.String("model", l.inner.ModelID()),
		zap.String("purpose", call.Purpose),
		zap.Duration("latency", time.Since(start)),
		zap.Int("prompt_chars", len(req.Prompt)),
	}
	if call.Subject != "" {
		fields = append(fields, zap.String("subject", call.Subject))
	}
	if resp != nil {
		fields = append(fields,
			zap.String("served_by", resp.Model),
			zap.Int("input_tokens", resp.Usage.InputTokens),
			zap.Int("output_tokens", resp.Usage.OutputTokens),
		)
	}
	if err != nil {
		l.logger.Warn("llm request failed", append(fields, zap.Error(err))...)
		return resp, err
	}
	l.logger.Debug("llm request", fields...)
	return resp, nil
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
