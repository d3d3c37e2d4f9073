package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	t.Run("Single Field", func(t *testing.T) {
		err := NewValidationError("title", "too short")
		assert.Equal(t, "validation: title: too short", err.Error())
		assert.True(t, errors.Is(err, ErrValidation))
	})

	t.Run("Multiple Fields", func(t *testing.T) {
		err := NewValidationError("title", "too short").Add("price", "must be positive")
		assert.Contains(t, err.Error(), "2 errors")
		assert.Contains(t, err.Error(), "price")
	})

	t.Run("OrNil", func(t *testing.T) {
		var empty ValidationError
		assert.NoError(t, empty.OrNil())
		assert.Error(t, NewValidationError("a", "b").OrNil())
	})
}

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", fmt.Errorf("listing 3: %w", ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"forbidden", ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"unauthenticated", ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"conflict", fmt.Errorf("update: %w", ErrConcurrencyConflict), http.StatusConflict, "CONFLICT"},
		{"duplicate", fmt.Errorf("category: %w", ErrAlreadyExists), http.StatusConflict, "ALREADY_EXISTS"},
		{"category in use", ErrCategoryInUse, http.StatusConflict, "CATEGORY_IN_USE"},
		{"credentials", ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"inactive", ErrAccountInactive, http.StatusForbidden, "ACCOUNT_INACTIVE"},
		{"unknown", errors.New("dial tcp: connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.status, httpErr.StatusCode)
			assert.Equal(t, tt.code, httpErr.Code)
		})
	}

	t.Run("Validation Carries Fields", func(t *testing.T) {
		err := fmt.Errorf("create: %w", NewValidationError("title", "too short"))
		httpErr := MapErrorToHTTP(err)
		assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
		resp := httpErr.ToErrorResponse()
		assert.Len(t, resp.Fields, 1)
		assert.Equal(t, "title", resp.Fields[0].Field)
	})

	t.Run("Internal Error Hides Detail", func(t *testing.T) {
		httpErr := MapErrorToHTTP(errors.New("pq: password authentication failed"))
		assert.NotContains(t, httpErr.Message, "pq")
	})
}
