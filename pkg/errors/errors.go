// Package errors provides structured error types for tonegraph.
//
// Two failure disciplines exist in the code base. Missing structure (no notation
// found, no path between nodes, a disconnected subgraph) is reported through empty
// results and never through an error. Contract violations by the caller (an unknown
// layout, serialization format, transform code or optimizer strategy) are reported
// with an [*Error] carrying a machine-readable [Code].
//
// # Error Codes
//
//   - INVALID_*: the caller passed an argument outside the supported set
//   - NOT_FOUND, FILE_NOT_FOUND: a named resource does not exist
//   - TIMEOUT, INTERNAL_ERROR, UNSUPPORTED: everything else
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidLayout, "unknown layout %q", name)
//	if errors.Is(err, errors.ErrCodeInvalidLayout) {
//	    // report usage error
//	}
//
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "decode graph")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Caller contract violations
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidLayout    Code = "INVALID_LAYOUT"
	ErrCodeInvalidTransform Code = "INVALID_TRANSFORM"
	ErrCodeInvalidStrategy  Code = "INVALID_STRATEGY"
	ErrCodeInvalidParser    Code = "INVALID_PARSER"
	ErrCodeInvalidPath      Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Runtime errors
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// IsInvalid reports whether err carries one of the INVALID_* codes.
func IsInvalid(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidLayout,
		ErrCodeInvalidTransform, ErrCodeInvalidStrategy, ErrCodeInvalidParser,
		ErrCodeInvalidPath:
		return true
	}
	return false
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
