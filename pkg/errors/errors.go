// Package errors provides structured error types for deptree.
//
// Every failure the tree pipeline can produce is a deterministic function of
// the resolver document or the selection inputs, so each one carries a
// machine-readable [Code] next to the human message:
//
//   - MALFORMED_INPUT: the resolver document lacks required data
//   - ROOT_NOT_FOUND: no root package is available for the tree
//   - PACKAGE_NOT_FOUND / AMBIGUOUS_PACKAGE: a --package query failed
//   - FORMAT_PATTERN: the --format pattern could not be parsed
//   - PROVIDER_FAILED: cargo or rustc could not be run
//
// # Usage
//
//	err := errors.New(errors.ErrCodePackageNotFound, "no packages found for `%s`", query)
//	if errors.Is(err, errors.ErrCodePackageNotFound) {
//	    // Handle lookup failure
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeProviderFailed, origErr, "error running %s", job)
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
	ErrCodeMalformedInput Code = "MALFORMED_INPUT"
	ErrCodeFormatPattern  Code = "FORMAT_PATTERN"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"
	ErrCodeInvalidPackage Code = "INVALID_PACKAGE"

	// Resource not found errors
	ErrCodeRootNotFound     Code = "ROOT_NOT_FOUND"
	ErrCodePackageNotFound  Code = "PACKAGE_NOT_FOUND"
	ErrCodeAmbiguousPackage Code = "AMBIGUOUS_PACKAGE"

	// External collaborator errors
	ErrCodeProviderFailed Code = "PROVIDER_FAILED"

	// Internal errors
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
// For *Error types, returns the message (and cause) without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}
