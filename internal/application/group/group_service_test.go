package group

import (
	"context"
	"errors"
	"testing"

	"github.com/fieldcollect/backend/internal/domain/group"
	"github.com/fieldcollect/backend/internal/domain/shared"
	"github.com/fieldcollect/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// MockGroupRepository is a mock implementation of group.GroupRepository
type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) Create(ctx context.Context, g *group.Group) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *MockGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*group.Group, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*group.Group), args.Error(1)
}

func (m *MockGroupRepository) FindAll(ctx context.Context) ([]*group.Group, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*group.Group), args.Error(1)
}

func (m *MockGroupRepository) AddMembers(ctx context.Context, groupID uuid.UUID, userIDs []uuid.UUID) (*group.Group, error) {
	args := m.Called(ctx, groupID, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*group.Group), args.Error(1)
}

func TestGroupService_CreateGroup(t *testing.T) {
	ctx := context.Background()

	t.Run("creates empty group", func(t *testing.T) {
		repo := new(MockGroupRepository)
		svc := NewGroupService(repo, zap.NewNop())
		repo.On("Create", ctx, mock.AnythingOfType("*group.Group")).Return(nil)

		resp, err := svc.CreateGroup(ctx, CreateGroupInput{Name: " North ", MaxMembers: 5})
		require.NoError(t, err)
		assert.Equal(t, "North", resp.Name)
		assert.Equal(t, 5, resp.MaxMembers)
		assert.Zero(t, resp.MemberCount)
	})

	t.Run("logs through the request logger", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		reqCtx, _ := logger.WithUserID(context.Background(), zap.New(core), "admin-1")
		repo := new(MockGroupRepository)
		svc := NewGroupService(repo, zap.NewNop())
		repo.On("Create", reqCtx, mock.AnythingOfType("*group.Group")).Return(nil)

		_, err := svc.CreateGroup(reqCtx, CreateGroupInput{Name: "South"})
		require.NoError(t, err)

		entries := recorded.FilterMessage("Group created").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "admin-1", entries[0].ContextMap()["user_id"])
	})

	t.Run("rejects blank name before storage", func(t *testing.T) {
		repo := new(MockGroupRepository)
		svc := NewGroupService(repo, zap.NewNop())

		_, err := svc.CreateGroup(ctx, CreateGroupInput{Name: "  "})
		assert.True(t, shared.IsCode(err, shared.CodeValidation))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("storage failure is hidden", func(t *testing.T) {
		repo := new(MockGroupRepository)
		svc := NewGroupService(repo, zap.NewNop())
		repo.On("Create", ctx, mock.Anything).Return(errors.New("disk full"))

		_, err := svc.CreateGroup(ctx, CreateGroupInput{Name: "North"})
		assert.True(t, shared.IsCode(err, shared.CodeInternal))
	})
}

func TestGroupService_AddMembers(t *testing.T) {
	ctx := context.Background()
	groupID := uuid.New()

	t.Run("parses ids and delegates", func(t *testing.T) {
		repo := new(MockGroupRepository)
		svc := NewGroupService(repo, zap.NewNop())
		userID := uuid.New()

		g, err := group.NewGroup("North", 0)
		require.NoError(t, err)
		g.AddMembers([]uuid.UUID{userID})
		repo.On("AddMembers", ctx, groupID, []uuid.UUID{userID}).Return(g, nil)

		resp, err := svc.AddMembers(ctx, groupID, []string{userID.String()})
		require.NoError(t, err)
		assert.Equal(t, 1, resp.MemberCount)
		assert.Equal(t, []uuid.UUID{userID}, resp.MemberIDs)
	})

	t.Run("empty list", func(t *testing.T) {
		repo := new(MockGroupRepository)
		svc := NewGroupService(repo, zap.NewNop())

		_, err := svc.AddMembers(ctx, groupID, nil)
		assert.True(t, shared.IsCode(err, shared.CodeValidation))
	})

	t.Run("malformed id", func(t *testing.T) {
		repo := new(MockGroupRepository)
		svc := NewGroupService(repo, zap.NewNop())

		_, err := svc.AddMembers(ctx, groupID, []string{uuid.NewString(), "nope"})
		assert.True(t, shared.IsCode(err, shared.CodeValidation))
		repo.AssertNotCalled(t, "AddMembers", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("not found passes through", func(t *testing.T) {
		repo := new(MockGroupRepository)
		svc := NewGroupService(repo, zap.NewNop())
		repo.On("AddMembers", ctx, groupID, mock.Anything).Return(nil, shared.NewNotFoundError("Group not found"))

		_, err := svc.AddMembers(ctx, groupID, []string{uuid.NewString()})
		assert.True(t, shared.IsCode(err, shared.CodeNotFound))
	})
}
