package submission

import (
	"time"

	"github.com/fieldcollect/backend/internal/domain/submission"
	"github.com/google/uuid"
)

// SubmitInput contains the form fields of a submission
type SubmitInput struct {
	Name    string
	Phone   string
	Address string
	Status  string
	Notes   string
}

// SubmissionResponse is the view of a submission returned to callers.
// SubmittedByName is only filled for admin listings.
type SubmissionResponse struct {
	ID              uuid.UUID
	Name            string
	Phone           string
	Address         string
	Status          submission.Status
	Notes           string
	CollectedBy     uuid.UUID
	GroupID         *uuid.UUID
	SubmittedByName string
	CreatedAt       time.Time
}

// ToSubmissionResponse converts a domain submission to a response
func ToSubmissionResponse(s *submission.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:          s.ID,
		Name:        s.Name,
		Phone:       s.Phone,
		Address:     s.Address,
		Status:      s.Status,
		Notes:       s.Notes,
		CollectedBy: s.CollectedBy,
		GroupID:     s.GroupID,
		CreatedAt:   s.CreatedAt,
	}
}
