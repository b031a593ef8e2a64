package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorKeepsDomainErrors(t *testing.T) {
	wrapped := fmt.Errorf("assign: %w", NewConflict("ticket already assigned", nil))

	de := ToDomainError(wrapped)
	require.NotNil(t, de)
	assert.Equal(t, "CONFLICT", de.Code)
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
}

func TestToDomainErrorHidesUnknownErrors(t *testing.T) {
	de := ToDomainError(errors.New("connection reset by peer"))
	require.NotNil(t, de)
	assert.Equal(t, "INTERNAL_ERROR", de.Code)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
	assert.Equal(t, "internal server error", de.Message)
}

func TestToDomainErrorNil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
}

func TestValidationErrorCarriesFields(t *testing.T) {
	err := NewValidationError("invalid tags",
		FieldError{Field: "tag", Message: "unknown tag: foo"},
		FieldError{Field: "tag", Message: "unknown tag: bar"},
	)
	de := ToDomainError(err)
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
	assert.Len(t, de.Fields, 2)
	assert.True(t, IsCode(err, "VALIDATION_FAILED"))
}

func TestStatusByKind(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"unauthorized", NewUnauthorized("missing token"), http.StatusUnauthorized},
		{"forbidden", NewForbidden("admin role required"), http.StatusForbidden},
		{"not found", NewNotFound("ticket", nil), http.StatusNotFound},
		{"already exists", NewAlreadyExists("tag category", nil), http.StatusConflict},
		{"invalid credentials", NewInvalidCredentials(), http.StatusBadRequest},
		{"internal", NewInternalError(errors.New("boom")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, ToDomainError(tt.err).HTTPStatus)
		})
	}
}
