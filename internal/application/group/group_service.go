package group

import (
	"context"
	"errors"

	"github.com/fieldcollect/backend/internal/domain/group"
	"github.com/fieldcollect/backend/internal/domain/shared"
	"github.com/fieldcollect/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GroupService manages groups and their membership
type GroupService struct {
	repo   group.GroupRepository
	logger *zap.Logger
}

// NewGroupService creates a new GroupService
func NewGroupService(repo group.GroupRepository, logger *zap.Logger) *GroupService {
	return &GroupService{repo: repo, logger: logger}
}

// CreateGroup creates an empty group
func (s *GroupService) CreateGroup(ctx context.Context, input CreateGroupInput) (*GroupResponse, error) {
	g, err := group.NewGroup(input.Name, input.MaxMembers)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, g); err != nil {
		return nil, s.internal(ctx, "create group", err)
	}

	s.log(ctx).Info("Group created",
		zap.String("group_id", g.ID.String()),
		zap.Int("max_members", g.MaxMembers))
	resp := ToGroupResponse(g)
	return &resp, nil
}

// AddMembers adds users to a group. rawUserIDs must be non-empty and hold
// only well-formed ids; members already present are skipped.
func (s *GroupService) AddMembers(ctx context.Context, groupID uuid.UUID, rawUserIDs []string) (*GroupResponse, error) {
	if len(rawUserIDs) == 0 {
		return nil, shared.NewValidationError("At least one user id is required")
	}
	userIDs := make([]uuid.UUID, 0, len(rawUserIDs))
	for _, raw := range rawUserIDs {
		id, err := uuid.Parse(raw)
		if err != nil || id == uuid.Nil {
			return nil, shared.NewValidationError("Invalid user id: " + raw)
		}
		userIDs = append(userIDs, id)
	}

	g, err := s.repo.AddMembers(ctx, groupID, userIDs)
	if err != nil {
		return nil, s.internal(ctx, "add members", err)
	}

	s.log(ctx).Info("Group members added",
		zap.String("group_id", groupID.String()),
		zap.Int("requested", len(userIDs)),
		zap.Int("member_count", g.MemberCount()))
	resp := ToGroupResponse(g)
	return &resp, nil
}

// internal passes domain errors through and hides everything else
func (s *GroupService) internal(ctx context.Context, op string, err error) error {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return err
	}
	s.log(ctx).Error("Group operation failed", zap.String("op", op), zap.Error(err))
	return shared.NewInternalError(err)
}

// log prefers the request logger carried by ctx
func (s *GroupService) log(ctx context.Context) *logger.ContextLogger {
	return logger.L(ctx).Or(s.logger)
}
