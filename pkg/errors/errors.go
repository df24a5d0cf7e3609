// Package errors provides structured error types for evlog.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode identifies specific error conditions
type ErrorCode string

const (
	ErrCodeInvalidDate ErrorCode = "INVALID_DATE"
	ErrCodeValidation  ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound    ErrorCode = "NOT_FOUND"
	ErrCodeBackend     ErrorCode = "BACKEND_ERROR"
	ErrCodeParse       ErrorCode = "PARSE_ERROR"
	ErrCodeHost        ErrorCode = "HOST_ERROR"
	ErrCodeInternal    ErrorCode = "INTERNAL_ERROR"
)

// Error is the base error type for evlog
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
	Details map[string]interface{}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new error with the given code and message
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Wrap creates a new error wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
		Details: make(map[string]interface{}),
	}
}

// WithDetail adds a single detail to an error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// InvalidDate creates an error for a missing or malformed archive date.
func InvalidDate(date string) *Error {
	return &Error{
		Code:    ErrCodeInvalidDate,
		Message: "missing or invalid 'date' parameter (YYYY-MM-DD)",
		Details: map[string]interface{}{
			"date": date,
		},
	}
}

// ValidationError creates a validation error
func ValidationError(message string, details map[string]interface{}) *Error {
	return &Error{
		Code:    ErrCodeValidation,
		Message: message,
		Details: details,
	}
}

// NotFoundError creates a not found error
func NotFoundError(resourceType, name string) *Error {
	return &Error{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s %q not found", resourceType, name),
		Details: map[string]interface{}{
			"resource_type": resourceType,
			"name":          name,
		},
	}
}

// ParseError creates a parse error
func ParseError(file string, err error) *Error {
	return &Error{
		Code:    ErrCodeParse,
		Message: fmt.Sprintf("failed to parse %s", file),
		Cause:   err,
		Details: map[string]interface{}{
			"file": file,
		},
	}
}

// BackendError creates a backend error
func BackendError(backend string, operation string, err error) *Error {
	return &Error{
		Code:    ErrCodeBackend,
		Message: fmt.Sprintf("backend %s failed during %s", backend, operation),
		Cause:   err,
		Details: map[string]interface{}{
			"backend":   backend,
			"operation": operation,
		},
	}
}

// HostError creates an error for a failed call to the host's event log.
func HostError(operation string, err error) *Error {
	return &Error{
		Code:    ErrCodeHost,
		Message: fmt.Sprintf("host event log failed during %s", operation),
		Cause:   err,
		Details: map[string]interface{}{
			"operation": operation,
		},
	}
}

// Internal wraps an unexpected failure.
func Internal(message string, err error) *Error {
	return Wrap(ErrCodeInternal, message, err)
}

// As is errors.As, re-exported so callers need only this package.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Is checks if the error, or any error it wraps, carries the given code
func Is(err error, code ErrorCode) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// CodeOf returns the code of the first *Error in err's chain, or
// ErrCodeInternal when there is none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
}
