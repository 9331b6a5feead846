// Package errors carries client-safe error categories from the data layer to the HTTP layer.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode names a category of failure that maps onto one HTTP status.
type ErrorCode string

const (
	ErrCodeNotFound   ErrorCode = "not_found"
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeUnavailable covers an unreachable database and tables the bot has not created yet.
	ErrCodeUnavailable ErrorCode = "unavailable"
	ErrCodeInternal    ErrorCode = "internal"
	ErrCodeTimeout     ErrorCode = "timeout"
	ErrCodeCanceled    ErrorCode = "canceled"
)

// AppError pairs a code with a message that is safe to return to callers.
// Cause stays server-side and is only reachable through Unwrap.
type AppError struct {
	Code    ErrorCode
	Message string
	Cause   error
	// Field names the offending request parameter for validation errors.
	Field string
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *AppError) Unwrap() error { return e.Cause }

func newErr(code ErrorCode, msg string) *AppError {
	return &AppError{Code: code, Message: msg}
}

func NotFound(message string) *AppError    { return newErr(ErrCodeNotFound, message) }
func Unavailable(message string) *AppError { return newErr(ErrCodeUnavailable, message) }

// ValidationField reports a bad value for the named request parameter.
func ValidationField(field, message string) *AppError {
	e := newErr(ErrCodeValidation, message)
	e.Field = field
	return e
}

// Wrap attaches code and a client-safe message to err. A nil err stays nil.
func Wrap(err error, code ErrorCode, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

func as(err error) (*AppError, bool) {
	var appErr *AppError
	ok := errors.As(err, &appErr)
	return appErr, ok
}

// Is reports whether any AppError in err's chain carries code.
func Is(err error, code ErrorCode) bool {
	e, ok := as(err)
	return ok && e.Code == code
}

func IsNotFound(err error) bool    { return Is(err, ErrCodeNotFound) }
func IsValidation(err error) bool  { return Is(err, ErrCodeValidation) }
func IsUnavailable(err error) bool { return Is(err, ErrCodeUnavailable) }

// GetCode returns err's code, or "" when err carries none.
func GetCode(err error) ErrorCode {
	if e, ok := as(err); ok {
		return e.Code
	}
	return ""
}

func GetField(err error) string {
	if e, ok := as(err); ok {
		return e.Field
	}
	return ""
}

// GetMessage returns the client-safe message, or "" for errors that carry none.
func GetMessage(err error) string {
	if e, ok := as(err); ok {
		return e.Message
	}
	return ""
}
