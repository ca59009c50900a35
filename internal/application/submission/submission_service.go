package submission

import (
	"context"
	"errors"

	"github.com/fieldcollect/backend/internal/domain/identity"
	"github.com/fieldcollect/backend/internal/domain/shared"
	"github.com/fieldcollect/backend/internal/domain/submission"
	"github.com/fieldcollect/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SubmissionService records completed data-collection forms
type SubmissionService struct {
	repo     submission.SubmissionRepository
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewSubmissionService creates a new SubmissionService
func NewSubmissionService(repo submission.SubmissionRepository, userRepo identity.UserRepository, logger *zap.Logger) *SubmissionService {
	return &SubmissionService{repo: repo, userRepo: userRepo, logger: logger}
}

// Submit validates the form and stores it under userID, snapshotting the
// user's current group. A user that no longer exists is an auth failure.
func (s *SubmissionService) Submit(ctx context.Context, userID uuid.UUID, input SubmitInput) (uuid.UUID, error) {
	sub, err := submission.New(userID, nil, submission.Fields{
		Name:    input.Name,
		Phone:   input.Phone,
		Address: input.Address,
		Status:  input.Status,
		Notes:   input.Notes,
	})
	if err != nil {
		return uuid.Nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if shared.IsCode(err, shared.CodeNotFound) {
			return uuid.Nil, shared.NewAuthError("User does not exist")
		}
		return uuid.Nil, s.internal(ctx, "load submitter", err)
	}
	if user.HasGroup() {
		groupID := *user.GroupID
		sub.GroupID = &groupID
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		return uuid.Nil, s.internal(ctx, "create submission", err)
	}

	s.log(ctx).Info("Submission recorded",
		zap.String("submission_id", sub.ID.String()),
		zap.String("user_id", userID.String()))
	return sub.ID, nil
}

func (s *SubmissionService) internal(ctx context.Context, op string, err error) error {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return err
	}
	s.log(ctx).Error("Submission operation failed", zap.String("op", op), zap.Error(err))
	return shared.NewInternalError(err)
}

// log prefers the request logger carried by ctx
func (s *SubmissionService) log(ctx context.Context) *logger.ContextLogger {
	return logger.L(ctx).Or(s.logger)
}
