// Package domainerrors provides coded errors that services return and the
// transport layer translates into HTTP responses.
//
// Stores never return these directly; they return pkg/platform/sentinel errors
// which services wrap with a code.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code classifies a domain error.
type Code string

const (
	CodeBadRequest         Code = "bad_request"
	CodeValidation         Code = "validation_error"
	CodeInvalidInput       Code = "invalid_input"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeInvariantViolation Code = "invariant_violation"
	CodeTimeout            Code = "timeout"
	CodeInternal           Code = "internal_error"
)

// Error carries a code, a user-facing message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a domain error with the same code and message.
// It allows errors.Is(err, dErrors.New(code, msg)) in tests.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// New creates a coded error.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether any error in the chain carries the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// Is is shorthand for HasCode.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf returns the code of the outermost domain error, or CodeInternal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// MessageOf returns the user-facing message of the outermost domain error.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}

// ToHTTPStatus maps a code to its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeValidation, CodeInvalidInput:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeInvariantViolation:
		return http.StatusUnprocessableEntity
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
