package apperrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"wallpaper-catalog/internal/apperrors"
)

func TestFrom_PassesThroughAppError(t *testing.T) {
	wrapped := fmt.Errorf("login: %w", apperrors.ErrInvalidPassword)

	appErr := apperrors.From(wrapped)
	assert.Equal(t, http.StatusUnauthorized, appErr.HTTPCode)
	assert.Equal(t, "Invalid password", appErr.Message)
	assert.True(t, errors.Is(wrapped, apperrors.ErrInvalidPassword))
}

func TestFrom_UnknownErrorIsInternal(t *testing.T) {
	cause := errors.New("disk on fire")

	appErr := apperrors.From(cause)
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPCode)
	assert.Equal(t, apperrors.CodeInternal, appErr.Code)
	assert.ErrorIs(t, appErr, cause)
}

func TestWithDetails_DoesNotMutateSentinel(t *testing.T) {
	detailed := apperrors.ErrPasswordSet.WithDetails([]string{"x"})

	assert.Nil(t, apperrors.ErrPasswordSet.Details)
	assert.Equal(t, []string{"x"}, detailed.Details)
	assert.True(t, errors.Is(detailed, apperrors.ErrPasswordSet))
}

func TestValidation(t *testing.T) {
	err := apperrors.Validation("Validation failed", []string{"name is required"})
	assert.Equal(t, http.StatusBadRequest, err.HTTPCode)
	assert.Contains(t, err.Error(), "VALIDATION_FAILED")
}
