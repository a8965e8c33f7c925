// Package apperror defines the error taxonomy shared by the repository,
// service and handler layers. Handlers translate these into HTTP responses
// in exactly one place, so the wire shapes stay consistent.
package apperror

import "errors"

var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrStaleWrite   = errors.New("stale write")
)

type AppError struct {
	Err     error  // taxonomy sentinel
	Message string // human-readable message, safe to send to clients
	Field   string // optional: field causing a validation error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func Validation(field, message string) *AppError {
	return &AppError{Err: ErrValidation, Message: message, Field: field}
}

func Unauthorized(message string) *AppError {
	return &AppError{Err: ErrUnauthorized, Message: message}
}

// Forbidden marks an authenticated caller that does not own the resource.
func Forbidden(message string) *AppError {
	return &AppError{Err: ErrForbidden, Message: message}
}

func NotFound(message string) *AppError {
	return &AppError{Err: ErrNotFound, Message: message}
}

func Conflict(message string) *AppError {
	return &AppError{Err: ErrConflict, Message: message}
}

// Stale marks a whole-document replace that lost an optimistic version check.
func Stale(message string) *AppError {
	return &AppError{Err: ErrStaleWrite, Message: message}
}
