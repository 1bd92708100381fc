package llm

import "context"

// Call tags a model request in the request log.
type Call struct {
	Purpose string
	// Subject is what the request is about, e.g. a quiz category.
	Subject string
}

type callKey struct{}

func WithCall(ctx context.Context, call Call) context.Context {
	return context.WithValue(ctx, callKey{}, call)
}

// CallFrom returns the tag attached by WithCall. Untagged calls report
// purpose "unknown".
func CallFrom(ctx context.Context) Call {
	call, _ := ctx.Value(callKey{}).(Call)
	if call.Purpose == "" {
		call.Purpose = "unknown"
	}
	return call
}
