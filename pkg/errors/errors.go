// Package errors provides structured error types for the CutStack application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and HTTP server
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - DOCUMENT_*: Source document failures
//   - CAPACITY_*: Admission control rejections
//   - CACHE_*: Artifact cache failures
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidDensity, "n-up density must be >= 1, got %d", n)
//	if errors.Is(err, errors.ErrCodeInvalidDensity) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeDocumentMalformed, origErr, "parse %s", name)
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
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidDensity Code = "INVALID_DENSITY"
	ErrCodeInvalidSheet   Code = "INVALID_SHEET"
	ErrCodeInvalidOutput  Code = "INVALID_OUTPUT"

	// Source document errors
	ErrCodeDocumentMalformed Code = "DOCUMENT_MALFORMED"
	ErrCodeDocumentEncrypted Code = "DOCUMENT_ENCRYPTED"
	ErrCodeUnreadablePage    Code = "UNREADABLE_PAGE"
	ErrCodeFileNotFound      Code = "FILE_NOT_FOUND"

	// Admission control errors
	ErrCodeCapacityExceeded Code = "CAPACITY_EXCEEDED"
	ErrCodeContentTooLarge  Code = "CONTENT_TOO_LARGE"

	// Cache errors
	ErrCodeCacheRead  Code = "CACHE_READ"
	ErrCodeCacheWrite Code = "CACHE_WRITE"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
	ErrCodeRender   Code = "RENDER_ERROR"
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

// CapacityError provides additional information for capacity-exceeded
// rejections produced by the admission gate.
type CapacityError struct {
	RetryAfter int // Seconds to wait before retrying
	Message    string
}

// Error implements the error interface.
func (e *CapacityError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "server busy"
	}
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s: retry after %d seconds", msg, e.RetryAfter)
	}
	return msg
}

// Code returns the error code for this error type.
func (e *CapacityError) Code() Code {
	return ErrCodeCapacityExceeded
}
