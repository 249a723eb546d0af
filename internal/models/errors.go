package models

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a failure independent of transport.
type ErrorKind string

const (
	KindValidation         ErrorKind = "VALIDATION_ERROR"
	KindInvalidCredentials ErrorKind = "INVALID_CREDENTIALS"
	KindNotFound           ErrorKind = "NOT_FOUND"
	KindForbidden          ErrorKind = "FORBIDDEN"
	KindConflict           ErrorKind = "CONFLICT"
	KindInternal           ErrorKind = "INTERNAL_ERROR"
)

// AppError is a domain error carrying a user-facing message and status.
type AppError struct {
	Kind    ErrorKind
	Status  int
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

// ErrInvalidCredentials is returned for every failed login, whatever the cause.
var ErrInvalidCredentials = &AppError{
	Kind:    KindInvalidCredentials,
	Status:  http.StatusBadRequest,
	Message: "Invalid username/password",
}

func NewValidationError(message string) *AppError {
	return &AppError{Kind: KindValidation, Status: http.StatusBadRequest, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Kind: KindNotFound, Status: http.StatusNotFound, Message: message}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Kind: KindForbidden, Status: http.StatusUnauthorized, Message: message}
}

func NewConflictError(message string) *AppError {
	return &AppError{Kind: KindConflict, Status: http.StatusConflict, Message: message}
}

func NewInternalError(err error) *AppError {
	return &AppError{Kind: KindInternal, Status: http.StatusInternalServerError, Message: "Internal server error", Err: err}
}

// AsAppError unwraps err into an AppError, classifying anything unknown as internal.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError(err)
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}
