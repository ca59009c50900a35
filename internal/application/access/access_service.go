package access

import (
	"context"
	"errors"

	groupapp "github.com/fieldcollect/backend/internal/application/group"
	identityapp "github.com/fieldcollect/backend/internal/application/identity"
	submissionapp "github.com/fieldcollect/backend/internal/application/submission"
	"github.com/fieldcollect/backend/internal/domain/group"
	"github.com/fieldcollect/backend/internal/domain/identity"
	"github.com/fieldcollect/backend/internal/domain/shared"
	"github.com/fieldcollect/backend/internal/domain/submission"
	"github.com/fieldcollect/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccessService filters users, groups and submissions by the viewer's role
type AccessService struct {
	users       identity.UserRepository
	groups      group.GroupRepository
	submissions submission.SubmissionRepository
	logger      *zap.Logger
}

// NewAccessService creates a new AccessService
func NewAccessService(
	users identity.UserRepository,
	groups group.GroupRepository,
	submissions submission.SubmissionRepository,
	logger *zap.Logger,
) *AccessService {
	return &AccessService{
		users:       users,
		groups:      groups,
		submissions: submissions,
		logger:      logger,
	}
}

// ViewerFor builds a Viewer for a verified session, loading the stored role
func (s *AccessService) ViewerFor(ctx context.Context, userID uuid.UUID) (Viewer, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if shared.IsCode(err, shared.CodeNotFound) {
			return Viewer{}, shared.NewAuthError("User does not exist")
		}
		return Viewer{}, s.internal(ctx, "load viewer", err)
	}
	return Viewer{UserID: user.ID, Role: user.Role}, nil
}

// ListUsers returns every user without credentials. Admin only.
func (s *AccessService) ListUsers(ctx context.Context, viewer Viewer) ([]identityapp.UserInfo, error) {
	if err := requireAdmin(viewer); err != nil {
		return nil, err
	}
	users, err := s.users.FindAll(ctx, identity.NewUserFilter())
	if err != nil {
		return nil, s.internal(ctx, "list users", err)
	}
	result := make([]identityapp.UserInfo, len(users))
	for i, u := range users {
		result[i] = identityapp.ToUserInfo(u)
	}
	return result, nil
}

// ListGroups returns every group with member counts. Admin only.
func (s *AccessService) ListGroups(ctx context.Context, viewer Viewer) ([]groupapp.GroupResponse, error) {
	if err := requireAdmin(viewer); err != nil {
		return nil, err
	}
	groups, err := s.groups.FindAll(ctx)
	if err != nil {
		return nil, s.internal(ctx, "list groups", err)
	}
	result := make([]groupapp.GroupResponse, len(groups))
	for i, g := range groups {
		result[i] = groupapp.ToGroupResponse(g)
	}
	return result, nil
}

// ListSubmissions returns every submission with the submitter's name. Admin only.
func (s *AccessService) ListSubmissions(ctx context.Context, viewer Viewer) ([]submissionapp.SubmissionResponse, error) {
	if err := requireAdmin(viewer); err != nil {
		return nil, err
	}
	rows, err := s.submissions.FindAllWithSubmitter(ctx)
	if err != nil {
		return nil, s.internal(ctx, "list submissions", err)
	}
	result := make([]submissionapp.SubmissionResponse, len(rows))
	for i, row := range rows {
		resp := submissionapp.ToSubmissionResponse(&row.Submission)
		resp.SubmittedByName = row.SubmittedByName
		result[i] = resp
	}
	return result, nil
}

// GetOwnGroup returns the group of userID, or nil when the user has none.
// Only the user themself or an admin may ask.
func (s *AccessService) GetOwnGroup(ctx context.Context, viewer Viewer, userID uuid.UUID) (*groupapp.GroupResponse, error) {
	if !viewer.CanRead(userID) {
		return nil, shared.NewForbiddenError("Access denied")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, s.internal(ctx, "load user", err)
	}
	if !user.HasGroup() {
		return nil, nil
	}

	g, err := s.groups.FindByID(ctx, *user.GroupID)
	if err != nil {
		if shared.IsCode(err, shared.CodeNotFound) {
			s.log(ctx).Warn("User references a missing group",
				zap.String("user_id", userID.String()),
				zap.String("group_id", user.GroupID.String()))
			return nil, nil
		}
		return nil, s.internal(ctx, "load group", err)
	}
	resp := groupapp.ToGroupResponse(g)
	return &resp, nil
}

// ListOwnSubmissions returns only submissions collected by userID.
// Only the user themself or an admin may ask.
func (s *AccessService) ListOwnSubmissions(ctx context.Context, viewer Viewer, userID uuid.UUID) ([]submissionapp.SubmissionResponse, error) {
	if !viewer.CanRead(userID) {
		return nil, shared.NewForbiddenError("Access denied")
	}
	rows, err := s.submissions.FindByOwner(ctx, userID)
	if err != nil {
		return nil, s.internal(ctx, "list own submissions", err)
	}
	result := make([]submissionapp.SubmissionResponse, 0, len(rows))
	for _, row := range rows {
		if !row.OwnedBy(userID) {
			continue
		}
		result = append(result, submissionapp.ToSubmissionResponse(row))
	}
	return result, nil
}

func requireAdmin(viewer Viewer) error {
	if !viewer.IsAdmin() {
		return shared.NewForbiddenError("Admin access required")
	}
	return nil
}

func (s *AccessService) internal(ctx context.Context, op string, err error) error {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return err
	}
	s.log(ctx).Error("Access query failed", zap.String("op", op), zap.Error(err))
	return shared.NewInternalError(err)
}

// log prefers the request logger carried by ctx
func (s *AccessService) log(ctx context.Context) *logger.ContextLogger {
	return logger.L(ctx).Or(s.logger)
}
