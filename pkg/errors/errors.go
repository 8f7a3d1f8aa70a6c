// Package errors provides structured error types for the mapweaver engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI, TUI, and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Specification validation failures
//   - EDIT_*: Disallowed structural edits
//   - HISTORY_*: Undo/redo boundary conditions
//   - NOT_FOUND_*: Resource not found
//   - INTERNAL_*: Unexpected internal errors
//
// # Warning-Grade Errors
//
// The editing engine must never let a fault propagate into the render loop.
// Codes classified by [IsWarning] describe conditions that callers report to
// the user and then continue from (boundary no-ops, forbidden edits,
// unresolvable pointer targets). Everything else is a real failure.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidSpec, "topic must be a string, got %T", v)
//	if errors.Is(err, errors.ErrCodeInvalidSpec) {
//	    // Degrade to an empty layout
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInternal, origErr, "compile %s", archetype)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Specification validation errors
	ErrCodeInvalidSpec      Code = "INVALID_SPEC"
	ErrCodeUnknownArchetype Code = "UNKNOWN_ARCHETYPE"
	ErrCodeInvalidLayout    Code = "INVALID_LAYOUT"

	// Structural edit errors (warning-grade: the spec is left unmutated)
	ErrCodeEditForbidden  Code = "EDIT_FORBIDDEN"
	ErrCodeEditUnknownRef Code = "EDIT_UNKNOWN_REF"

	// History boundary conditions (warning-grade no-ops)
	ErrCodeHistoryBoundary Code = "HISTORY_BOUNDARY"

	// Interaction errors (warning-grade: the event is ignored)
	ErrCodeTargetUnresolved Code = "TARGET_UNRESOLVED"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeDiagramNotFound Code = "DIAGRAM_NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"

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

// IsWarning reports whether err carries a warning-grade code: a condition the
// editor surfaces to the user and then continues from, rather than a failure.
func IsWarning(err error) bool {
	switch GetCode(err) {
	case ErrCodeEditForbidden, ErrCodeEditUnknownRef,
		ErrCodeHistoryBoundary, ErrCodeTargetUnresolved:
		return true
	}
	return false
}
