package submission

import (
	"strings"
	"time"

	"github.com/fieldcollect/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Status is the state the collector recorded for a subject
type Status string

const (
	StatusActive    Status = "Active"
	StatusInactive  Status = "Inactive"
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
)

// Statuses lists the accepted status values
var Statuses = []Status{StatusActive, StatusInactive, StatusPending, StatusCompleted}

// IsValid reports whether s is one of Statuses. Matching is case-sensitive.
func (s Status) IsValid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Submission is a completed data-collection form. It is immutable once created.
type Submission struct {
	ID          uuid.UUID
	Name        string
	Phone       string
	Address     string
	Status      Status
	Notes       string
	CollectedBy uuid.UUID
	GroupID     *uuid.UUID
	CreatedAt   time.Time
}

// Fields holds the user-entered form values
type Fields struct {
	Name    string
	Phone   string
	Address string
	Status  string
	Notes   string
}

// New validates the form and creates a submission owned by collectedBy.
// groupID is the owner's group at the time of submission.
func New(collectedBy uuid.UUID, groupID *uuid.UUID, f Fields) (*Submission, error) {
	if collectedBy == uuid.Nil {
		return nil, shared.NewValidationError("Submission owner is required")
	}

	name := strings.TrimSpace(f.Name)
	phone := strings.TrimSpace(f.Phone)
	address := strings.TrimSpace(f.Address)
	status := Status(strings.TrimSpace(f.Status))

	if name == "" || phone == "" || address == "" || status == "" {
		return nil, shared.NewValidationError("Name, phone, address and status are required")
	}
	if !status.IsValid() {
		return nil, shared.NewValidationError("Status must be one of Active, Inactive, Pending, Completed")
	}

	var snapshot *uuid.UUID
	if groupID != nil && *groupID != uuid.Nil {
		id := *groupID
		snapshot = &id
	}

	return &Submission{
		ID:          uuid.New(),
		Name:        name,
		Phone:       phone,
		Address:     address,
		Status:      status,
		Notes:       strings.TrimSpace(f.Notes),
		CollectedBy: collectedBy,
		GroupID:     snapshot,
		CreatedAt:   time.Now(),
	}, nil
}

// OwnedBy reports whether userID created the submission
func (s *Submission) OwnedBy(userID uuid.UUID) bool {
	return s.CollectedBy == userID
}
