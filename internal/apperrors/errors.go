package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the resource changed underneath the caller (serialization
// failure, deadlock) and the command may be retried.
var ErrConflict = errors.New("resource conflict")

// ErrForbidden indicates the actor lacks the permission for the action.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized indicates the caller identity could not be established.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInternal marks failures that should not leak details to clients.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish status code alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError builds an AppError. A nil err is replaced by ErrInternal for 5xx codes
// so errors.Is keeps working on the result.
func NewAppError(code int, message string, err error) *AppError {
	if err == nil && code >= http.StatusInternalServerError {
		err = ErrInternal
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError reports a missing entity of the given kind.
func NewNotFoundError(entity string) error {
	return fmt.Errorf("%w: %s not found", ErrNotFound, entity)
}

// NewValidationError reports a rejected input or business rule.
func NewValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NewForbiddenError reports a denied permission.
func NewForbiddenError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}
