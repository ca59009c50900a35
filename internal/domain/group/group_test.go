package group

import (
	"strings"
	"testing"

	"github.com/fieldcollect/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGroup(t *testing.T) {
	t.Run("creates empty group", func(t *testing.T) {
		g, err := NewGroup(" North ", 5)
		require.NoError(t, err)
		assert.Equal(t, "North", g.Name)
		assert.Equal(t, 5, g.MaxMembers)
		assert.Zero(t, g.MemberCount())
	})

	t.Run("blank name", func(t *testing.T) {
		_, err := NewGroup("  ", 5)
		assert.True(t, shared.IsCode(err, shared.CodeValidation))
	})

	t.Run("name length counts characters", func(t *testing.T) {
		_, err := NewGroup(strings.Repeat("é", MaxNameLength), 0)
		assert.NoError(t, err)

		_, err = NewGroup(strings.Repeat("g", MaxNameLength+1), 0)
		assert.True(t, shared.IsCode(err, shared.CodeValidation))
	})

	t.Run("negative capacity", func(t *testing.T) {
		_, err := NewGroup("North", -1)
		assert.True(t, shared.IsCode(err, shared.CodeValidation))
	})
}

func TestPlanAdd(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	t.Run("skips existing members and duplicates", func(t *testing.T) {
		g, _ := NewGroup("North", 0)
		g.AddMembers([]uuid.UUID{a})

		added, err := g.PlanAdd([]uuid.UUID{a, b, b, c})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{b, c}, added)
	})

	t.Run("re-adding is a no-op", func(t *testing.T) {
		g, _ := NewGroup("North", 1)
		g.AddMembers([]uuid.UUID{a})

		added, err := g.PlanAdd([]uuid.UUID{a})
		require.NoError(t, err)
		assert.Empty(t, added)
	})

	t.Run("rejects overflow", func(t *testing.T) {
		g, _ := NewGroup("North", 2)
		g.AddMembers([]uuid.UUID{a})

		_, err := g.PlanAdd([]uuid.UUID{b, c})
		require.Error(t, err)
		assert.Equal(t, "Group is full", err.Error())
	})

	t.Run("zero capacity is unbounded", func(t *testing.T) {
		g, _ := NewGroup("North", 0)
		added, err := g.PlanAdd([]uuid.UUID{a, b, c})
		require.NoError(t, err)
		assert.Len(t, added, 3)
	})
}

func TestAddMembers(t *testing.T) {
	g, _ := NewGroup("North", 0)
	g.AddMembers(nil)
	assert.Equal(t, 1, g.Version)

	id := uuid.New()
	g.AddMembers([]uuid.UUID{id})
	assert.True(t, g.HasMember(id))
	assert.Equal(t, 2, g.Version)
}
