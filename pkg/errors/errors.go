// Package errors provides structured error types for SlideCraft.
//
// Every failure that crosses a package boundary carries a machine-readable
// [Code], so the CLI can print a short message and the HTTP API can pick a
// status code without string matching.
//
// # Error Codes
//
// Codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (slide types, layouts, themes)
//   - *_NOT_FOUND: Resource not found
//   - NETWORK_*, QUOTA_*: Generator transport failures
//   - EXPORT_*, GENERATION_*, INTERNAL_*: Operation failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidSlideType, "unknown slide type %q", typ)
//	if errors.Is(err, errors.ErrCodeInvalidSlideType) {
//	    // Handle contract violation
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeExportFailed, origErr, "assemble slide %d", i+1)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput        Code = "INVALID_INPUT"
	ErrCodeInvalidFormat       Code = "INVALID_FORMAT"
	ErrCodeInvalidSlideType    Code = "INVALID_SLIDE_TYPE"
	ErrCodeInvalidLayout       Code = "INVALID_LAYOUT"
	ErrCodeInvalidTheme        Code = "INVALID_THEME"
	ErrCodeInvalidPresentation Code = "INVALID_PRESENTATION"
	ErrCodeInvalidPath         Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound             Code = "NOT_FOUND"
	ErrCodeFileNotFound         Code = "FILE_NOT_FOUND"
	ErrCodeSessionNotFound      Code = "SESSION_NOT_FOUND"
	ErrCodePresentationNotFound Code = "PRESENTATION_NOT_FOUND"

	// Network errors
	ErrCodeNetwork       Code = "NETWORK_ERROR"
	ErrCodeTimeout       Code = "TIMEOUT"
	ErrCodeRateLimited   Code = "RATE_LIMITED"
	ErrCodeQuotaExceeded Code = "QUOTA_EXCEEDED"

	// Operation errors
	ErrCodeExportFailed     Code = "EXPORT_FAILED"
	ErrCodeGenerationFailed Code = "GENERATION_FAILED"

	// Internal errors
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

// IsInvalid reports whether err carries one of the INVALID_* codes.
func IsInvalid(err error) bool {
	return strings.HasPrefix(string(GetCode(err)), "INVALID_")
}

// IsNotFound reports whether err carries NOT_FOUND or one of the *_NOT_FOUND codes.
func IsNotFound(err error) bool {
	return strings.HasSuffix(string(GetCode(err)), "NOT_FOUND")
}
