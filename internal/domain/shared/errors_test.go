package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError(t *testing.T) {
	t.Run("message is the error string", func(t *testing.T) {
		err := NewValidationError("name is required")
		assert.Equal(t, "name is required", err.Error())
		assert.Equal(t, CodeValidation, err.Code)
	})

	t.Run("errors.Is matches on code", func(t *testing.T) {
		err := fmt.Errorf("wrapped: %w", NewNotFoundError("group not found"))
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.False(t, errors.Is(err, ErrForbidden))
	})

	t.Run("internal error hides its cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := NewInternalError(cause)
		assert.Equal(t, "An unexpected error occurred", err.Error())
		assert.ErrorIs(t, err, cause)
	})
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeConflict, CodeOf(NewConflictError("dup")))
	assert.Equal(t, CodeAuth, CodeOf(fmt.Errorf("login: %w", NewAuthError("bad"))))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	assert.True(t, IsCode(NewWeakCredentialError("short"), CodeWeakCredential))
	assert.False(t, IsCode(errors.New("plain"), CodeWeakCredential))
}
