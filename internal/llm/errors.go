package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrNoProvider is returned by NewProvider when no provider is selected.
var ErrNoProvider = errors.New("no LLM provider configured")

// Kind classifies a failed model call.
type Kind int

const (
	// Unreachable: the request never got an HTTP answer.
	Unreachable Kind = iota + 1
	// Rejected: the provider answered with an error status other than 429.
	Rejected
	RateLimited
	// Malformed: the reply is not JSON or does not match the schema.
	Malformed
	// Truncated: the reply was cut off at MaxTokens.
	Truncated
)

func (k Kind) String() string {
	switch k {
	case Unreachable:
		return "unreachable"
	case Rejected:
		return "rejected"
	case RateLimited:
		return "rate limited"
	case Malformed:
		return "malformed reply"
	case Truncated:
		return "truncated reply"
	default:
		return "unknown"
	}
}

// Error is returned by the provider adapters and by ValidateJSON.
// Caller cancellation is passed through unwrapped.
type Error struct {
	Kind       Kind
	StatusCode int
	RetryAfter time.Duration
	Content    json.RawMessage
	Err        error
}

func (e *Error) Error() string {
	msg := "llm: " + e.Kind.String()
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// fromSDK maps an SDK failure given the HTTP status it reported (0 if none).
func fromSDK(err error, status int) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	switch {
	case status == 0:
		return &Error{Kind: Unreachable, Err: err}
	case status == http.StatusTooManyRequests:
		return &Error{Kind: RateLimited, StatusCode: status, Err: err}
	default:
		return &Error{Kind: Rejected, StatusCode: status, Err: err}
	}
}
