package models

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorStatuses(t *testing.T) {
	cases := []struct {
		err    *AppError
		kind   ErrorKind
		status int
	}{
		{NewValidationError("bad"), KindValidation, http.StatusBadRequest},
		{ErrInvalidCredentials, KindInvalidCredentials, http.StatusBadRequest},
		{NewNotFoundError("missing"), KindNotFound, http.StatusNotFound},
		{NewForbiddenError("nope"), KindForbidden, http.StatusUnauthorized},
		{NewConflictError("taken"), KindConflict, http.StatusConflict},
		{NewInternalError(errors.New("boom")), KindInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.kind, tc.err.Kind)
		assert.Equal(t, tc.status, tc.err.Status)
	}
}

func TestAsAppErrorUnwrapsWrapped(t *testing.T) {
	notFound := NewNotFoundError("message not found")
	wrapped := fmt.Errorf("get message: %w", notFound)

	assert.Same(t, notFound, AsAppError(wrapped))
	assert.True(t, IsKind(wrapped, KindNotFound))
	assert.False(t, IsKind(wrapped, KindForbidden))
}

func TestAsAppErrorHidesUnknownErrors(t *testing.T) {
	raw := errors.New(`pq: relation "users" does not exist`)
	appErr := AsAppError(raw)

	assert.Equal(t, KindInternal, appErr.Kind)
	assert.Equal(t, "Internal server error", appErr.Message)
	assert.ErrorIs(t, appErr, raw)
}

func TestErrorStringIncludesCause(t *testing.T) {
	err := NewInternalError(errors.New("boom"))
	assert.Equal(t, "Internal server error: boom", err.Error())
	assert.Equal(t, "taken", NewConflictError("taken").Error())
}
