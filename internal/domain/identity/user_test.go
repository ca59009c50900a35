package identity

import (
	"strings"
	"testing"

	"github.com/fieldcollect/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("normalizes fields and defaults role", func(t *testing.T) {
		user, err := NewUser("  Ada  ", " Ada@X.io ", " 555 ", "hash", "")
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, user.ID)
		assert.Equal(t, "Ada", user.Name)
		assert.Equal(t, "ada@x.io", user.Email)
		assert.Equal(t, "555", user.Phone)
		assert.Equal(t, RoleUser, user.Role)
		assert.Equal(t, 1, user.Version)
		assert.False(t, user.HasGroup())
		assert.False(t, user.IsAdmin())
	})

	t.Run("rejects blank fields", func(t *testing.T) {
		_, err := NewUser("", "ada@x.io", "555", "hash", RoleUser)
		assert.True(t, shared.IsCode(err, shared.CodeValidation))

		_, err = NewUser("Ada", "ada@x.io", "   ", "hash", RoleUser)
		assert.True(t, shared.IsCode(err, shared.CodeValidation))
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		_, err := NewUser("Ada", "not-an-email", "555", "hash", RoleUser)
		require.Error(t, err)
		assert.Equal(t, "Invalid email format", err.Error())
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := NewUser("Ada", "ada@x.io", "555", "hash", Role("root"))
		assert.True(t, shared.IsCode(err, shared.CodeValidation))
	})
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		code     string
	}{
		{"too short", "abc", shared.CodeWeakCredential},
		{"seven chars", "1234567", shared.CodeWeakCredential},
		{"too long", strings.Repeat("a", 73), shared.CodeValidation},
		{"exactly eight", "12345678", ""},
		{"five multibyte chars", "日本語パス", shared.CodeWeakCredential},
		{"eight multibyte chars", "日本語パスワード", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, shared.IsCode(err, tt.code))
		})
	}
}

func TestUserAssignGroup(t *testing.T) {
	user, err := NewUser("Ada", "ada@x.io", "555", "hash", RoleUser)
	require.NoError(t, err)

	groupID := uuid.New()
	user.AssignGroup(groupID)

	assert.True(t, user.HasGroup())
	assert.Equal(t, groupID, *user.GroupID)
	assert.Equal(t, 2, user.Version)
}
