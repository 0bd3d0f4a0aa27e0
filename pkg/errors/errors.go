// Package errors provides typed errors for the application
package errors

import "errors"

// ErrorType represents the type of error
type ErrorType int

const (
	ErrorTypeValidation ErrorType = iota
	ErrorTypeNotFound
	ErrorTypeUnavailable
	ErrorTypeInternal
)

// String returns a short label usable in logs and metrics
func (t ErrorType) String() string {
	switch t {
	case ErrorTypeValidation:
		return "validation"
	case ErrorTypeNotFound:
		return "not_found"
	case ErrorTypeUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// baseError is the base implementation for all error types
type baseError struct {
	msg   string
	cause error
}

func (e *baseError) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

func (e *baseError) Unwrap() error {
	return e.cause
}

// ValidationError represents invalid user input
type ValidationError struct {
	baseError
}

// NewValidationError creates a new ValidationError
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{baseError{msg: msg}}
}

// NotFoundError represents a missing resource
type NotFoundError struct {
	baseError
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(msg string) *NotFoundError {
	return &NotFoundError{baseError{msg: msg}}
}

// UnavailableError represents a dependency that cannot currently serve requests
type UnavailableError struct {
	baseError
}

// NewUnavailableError creates a new UnavailableError
func NewUnavailableError(msg string) *UnavailableError {
	return &UnavailableError{baseError{msg: msg}}
}

// InternalError represents an unexpected failure
type InternalError struct {
	baseError
}

// NewInternalError creates a new InternalError
func NewInternalError(msg string) *InternalError {
	return &InternalError{baseError{msg: msg}}
}

// Wrap returns a copy of a typed error carrying cause.
// Untyped errors are wrapped as InternalError.
func Wrap(kind error, cause error) error {
	var (
		v *ValidationError
		n *NotFoundError
		u *UnavailableError
		i *InternalError
	)
	switch {
	case errors.As(kind, &v):
		return &ValidationError{baseError{msg: v.msg, cause: cause}}
	case errors.As(kind, &n):
		return &NotFoundError{baseError{msg: n.msg, cause: cause}}
	case errors.As(kind, &u):
		return &UnavailableError{baseError{msg: u.msg, cause: cause}}
	case errors.As(kind, &i):
		return &InternalError{baseError{msg: i.msg, cause: cause}}
	default:
		return &InternalError{baseError{msg: kind.Error(), cause: cause}}
	}
}

// TypeOf classifies err. Unknown errors are internal.
func TypeOf(err error) ErrorType {
	switch {
	case IsValidationError(err):
		return ErrorTypeValidation
	case IsNotFoundError(err):
		return ErrorTypeNotFound
	case IsUnavailableError(err):
		return ErrorTypeUnavailable
	default:
		return ErrorTypeInternal
	}
}

// IsValidationError checks if error is a ValidationError
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNotFoundError checks if error is a NotFoundError
func IsNotFoundError(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsUnavailableError checks if error is an UnavailableError
func IsUnavailableError(err error) bool {
	var target *UnavailableError
	return errors.As(err, &target)
}

// IsInternalError checks if error is an InternalError
func IsInternalError(err error) bool {
	var target *InternalError
	return errors.As(err, &target)
}
