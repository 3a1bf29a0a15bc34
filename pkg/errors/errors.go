// Package errors provides structured error types for molline.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - A clean split between bad input and engine defects
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input the caller supplied is malformed or inconsistent
//   - PARSE_ERROR: A line-notation string could not be read
//   - UNSATISFIABLE_STEREO: Soft condition, reported as a warning only
//   - INTERNAL_*: Logic defects inside the engine
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidStructure, "bond %d: unknown atom %d", b, a)
//	if errors.IsInput(err) {
//	    // skip this molecule, continue with the next one
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidStructure Code = "INVALID_STRUCTURE"
	ErrCodeInvalidStereo    Code = "INVALID_STEREO"
	ErrCodeInvalidOption    Code = "INVALID_OPTION"
	ErrCodeInvalidPath      Code = "INVALID_PATH"
	ErrCodeParse            Code = "PARSE_ERROR"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Soft conditions (warnings)
	ErrCodeUnsatisfiableStereo Code = "UNSATISFIABLE_STEREO"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// inputCodes lists the codes that describe caller-supplied data problems.
var inputCodes = map[Code]bool{
	ErrCodeInvalidInput:     true,
	ErrCodeInvalidFormat:    true,
	ErrCodeInvalidStructure: true,
	ErrCodeInvalidStereo:    true,
	ErrCodeInvalidOption:    true,
	ErrCodeInvalidPath:      true,
	ErrCodeParse:            true,
}

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

// Internal creates an INTERNAL_ERROR. Use it only for conditions that
// well-formed input can never trigger.
func Internal(format string, args ...any) *Error {
	return New(ErrCodeInternal, format, args...)
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

// IsInternal reports whether err signals a defect in the engine rather
// than a problem with the input.
func IsInternal(err error) bool {
	return GetCode(err) == ErrCodeInternal
}

// IsInput reports whether err was caused by caller-supplied data.
func IsInput(err error) bool {
	return inputCodes[GetCode(err)]
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
