// Package errors provides structured error types for stackprint.
//
// Every failure that crosses a package boundary carries a machine-readable
// [Code] so the CLI and the HTTP surface can react to it without string
// matching:
//   - UNSUPPORTED_ECOSYSTEM: no recognized manifest in the project root
//   - MANIFEST_PARSE: the manifest exists but could not be read or decoded
//   - UNSUPPORTED_LANGUAGE: no grammar is registered for a file extension
//   - TIMEOUT: the caller's deadline or cancellation interrupted analysis
//   - INVALID_*: input validation failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnsupportedEcosystem, "no manifest in %s", root)
//	if errors.Is(err, errors.ErrCodeUnsupportedEcosystem) {
//	    // fall back to pattern analysis only
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeManifestParse, origErr, "parse %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInvalidPath  Code = "INVALID_PATH"

	// Fingerprinting errors
	ErrCodeUnsupportedEcosystem Code = "UNSUPPORTED_ECOSYSTEM"
	ErrCodeManifestParse        Code = "MANIFEST_PARSE"
	ErrCodeUnsupportedLanguage  Code = "UNSUPPORTED_LANGUAGE"

	// Execution errors
	ErrCodeTimeout  Code = "TIMEOUT"
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
