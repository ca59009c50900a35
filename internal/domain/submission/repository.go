package submission

import (
	"context"

	"github.com/google/uuid"
)

// WithSubmitter pairs a submission with its submitter's display name
type WithSubmitter struct {
	Submission
	SubmittedByName string
}

// SubmissionRepository defines the interface for submission persistence.
// There is no update or delete.
type SubmissionRepository interface {
	// Create persists a new submission
	Create(ctx context.Context, s *Submission) error

	// FindByOwner returns only the submissions collected by ownerID, newest first
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Submission, error)

	// FindAllWithSubmitter returns every submission annotated with the
	// submitter's name, newest first
	FindAllWithSubmitter(ctx context.Context) ([]*WithSubmitter, error)
}
