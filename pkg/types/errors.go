package types

import (
	"errors"
)

// AbortError is the single fatal channel of the audit: any condition that must
// terminate the run immediately (runtime unreachable, failed update check,
// failed image pull, malformed probe result) is wrapped in an AbortError
// carrying the severity the process must exit with.
//
// It is propagated up to one top-level handler that performs the severity
// mapping and process termination exactly once, keeping the engine itself free
// of exit side effects.
type AbortError struct {
	Severity Severity // Severity the run terminates with.
	Message  string   // Human-readable description naming the failing container/image.
	Err      error    // Underlying collaborator error, if any.
}

// Error returns the abort message, including the underlying error text when
// present.
func (e *AbortError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}

	return e.Message
}

// Unwrap returns the underlying collaborator error.
func (e *AbortError) Unwrap() error {
	return e.Err
}

// NewAbort creates an AbortError with the given severity and message, wrapping
// an optional underlying error.
func NewAbort(severity Severity, message string, err error) *AbortError {
	return &AbortError{Severity: severity, Message: message, Err: err}
}

// AsAbort extracts an AbortError from an error chain.
func AsAbort(err error) (*AbortError, bool) {
	var abort *AbortError
	if errors.As(err, &abort) {
		return abort, true
	}

	return nil, false
}
