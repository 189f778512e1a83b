// Package errors provides structured error types for nmgraph.
//
// Errors carry a machine-readable [Code] so that callers (the CLI, tests,
// metrics hooks) can tell a structural failure, such as an unreadable
// manifest, from a per-dependency resolution problem without string matching.
//
// # Error Codes
//
// Codes fall into two groups:
//   - Structural: MANIFEST_UNREADABLE, INVALID_PATH, INVALID_CONFIG, INVALID_FORMAT, INTERNAL_ERROR.
//     These abort a run.
//   - Per-dependency: MALFORMED_REQUIREMENT, NAME_NOT_IN_POOL, NO_VERSION_MATCH, NON_CONFORMANT.
//     These are recorded as diagnostics and never abort resolution.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNoVersionMatch, "no installed %s satisfies %q", name, spec)
//	if errors.Is(err, errors.ErrCodeNoVersionMatch) {
//	    // skip the edge
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeManifestUnreadable, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Structural errors
	ErrCodeManifestUnreadable Code = "MANIFEST_UNREADABLE"
	ErrCodeInvalidPath        Code = "INVALID_PATH"
	ErrCodeInvalidConfig      Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat      Code = "INVALID_FORMAT"
	ErrCodeInvalidPackage     Code = "INVALID_PACKAGE"
	ErrCodeInternal           Code = "INTERNAL_ERROR"

	// Per-dependency resolution errors
	ErrCodeMalformedRequirement Code = "MALFORMED_REQUIREMENT"
	ErrCodeNameNotInPool        Code = "NAME_NOT_IN_POOL"
	ErrCodeNoVersionMatch       Code = "NO_VERSION_MATCH"
	ErrCodeNonConformant        Code = "NON_CONFORMANT"
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
// Only the outermost *Error in the chain is consulted.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error chain holds no *Error.
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
