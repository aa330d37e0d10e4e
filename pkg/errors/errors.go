// Package errors provides structured error types for RepoLens.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and HTTP server
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Only failures of the mandatory metadata fetch propagate out of the
// analysis pipeline; optional fact fetches degrade to documented defaults
// and never surface an error code. The cache store raises no domain
// errors at all; absence and expiry are normal return states.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidReference, "cannot parse %q", raw)
//	if errors.Is(err, errors.ErrCodeInvalidReference) {
//	    // Handle malformed input
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeUpstream, origErr, "fetch %s/%s", owner, repo)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// ErrCodeInvalidReference marks a repository reference that matched
	// no accepted pattern. Not recoverable; surfaced to the caller as-is.
	ErrCodeInvalidReference Code = "INVALID_REFERENCE"

	// ErrCodeNotFound means the upstream host reports the repository
	// does not exist.
	ErrCodeNotFound Code = "NOT_FOUND"

	// ErrCodeForbidden means the upstream host denied access to the
	// repository.
	ErrCodeForbidden Code = "FORBIDDEN"

	// ErrCodeRateLimited means the upstream host rejected the request
	// due to rate limiting.
	ErrCodeRateLimited Code = "RATE_LIMITED"

	// ErrCodeTimeout means the mandatory fetch exceeded its deadline.
	ErrCodeTimeout Code = "TIMEOUT"

	// ErrCodeUpstream covers any other failure of the mandatory fetch.
	ErrCodeUpstream Code = "UPSTREAM_ERROR"

	// ErrCodeInternal marks unexpected internal errors.
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
