package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned for out-of-range selections; no state changes.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidState is returned when an action is not allowed in the current quiz state.
	ErrInvalidState = errors.New("invalid quiz state")
	// ErrNotFound indicates an unknown category or a category without questions.
	ErrNotFound = errors.New("not found")
	// ErrSessionNotFound is returned when a quiz session is not registered.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrAnalysisUnavailable is the recoverable "recommendations unavailable" state.
	ErrAnalysisUnavailable = errors.New("analysis unavailable")
	// ErrMalformedResponse indicates the analysis service returned unusable content.
	ErrMalformedResponse = errors.New("malformed analysis response")
)

// RecordErrorKind classifies attempt persistence failures.
type RecordErrorKind string

const (
	RecordConnectivity RecordErrorKind = "connectivity"
	RecordValidation   RecordErrorKind = "validation"
)

// RecordError is returned by attempt recorders. It is never fatal to the quiz flow.
type RecordError struct {
	Kind RecordErrorKind
	Err  error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record attempt (%s): %v", e.Kind, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// AnalysisErrorKind classifies analysis pipeline failures.
type AnalysisErrorKind string

const (
	AnalysisMalformed AnalysisErrorKind = "malformed_response"
	AnalysisNetwork   AnalysisErrorKind = "network"
	AnalysisUpstream  AnalysisErrorKind = "upstream"
)

// AnalysisError wraps any failure of the analysis pipeline. Every AnalysisError
// matches ErrAnalysisUnavailable; malformed ones also match ErrMalformedResponse.
type AnalysisError struct {
	Kind AnalysisErrorKind
	Err  error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis %s: %v", e.Kind, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

func (e *AnalysisError) Is(target error) bool {
	switch target {
	case ErrAnalysisUnavailable:
		return true
	case ErrMalformedResponse:
		return e.Kind == AnalysisMalformed
	}
	return false
}
