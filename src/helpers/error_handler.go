package helpers

import (
	"errors"
	"fmt"
)

// -----------------------------------------------------------------------------
// Custom Error Types
// -----------------------------------------------------------------------------

type LiveIndicesError struct {
	Message string
	Cause   error
}

func (e *LiveIndicesError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *LiveIndicesError) Unwrap() error {
	return e.Cause
}

// Distinct error types for errors.As checks
type NetworkError struct{ LiveIndicesError }    // transport failure or non-2xx
type PayloadError struct{ LiveIndicesError }    // unparsable body, success=false, missing keys
type ValidationError struct{ LiveIndicesError } // bad config or command input

// ErrUnknownEntity is returned when a key is not among the tracked entities.
var ErrUnknownEntity = errors.New("unknown entity")

// -----------------------------------------------------------------------------

func NewNetworkError(msg string, cause error) error {
	return &NetworkError{LiveIndicesError{Message: msg, Cause: cause}}
}

func NewPayloadError(msg string, cause error) error {
	return &PayloadError{LiveIndicesError{Message: msg, Cause: cause}}
}

func NewValidationError(msg string, cause error) error {
	return &ValidationError{LiveIndicesError{Message: msg, Cause: cause}}
}

// -----------------------------------------------------------------------------

// Category names an error for logs and metric labels.
func Category(err error) string {
	var netErr *NetworkError
	var payloadErr *PayloadError
	var validationErr *ValidationError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &netErr):
		return "network"
	case errors.As(err, &payloadErr):
		return "payload"
	case errors.As(err, &validationErr):
		return "validation"
	default:
		return "other"
	}
}
