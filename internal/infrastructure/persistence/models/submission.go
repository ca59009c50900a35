package models

import (
	"time"

	"github.com/fieldcollect/backend/internal/domain/submission"
	"github.com/google/uuid"
)

// SubmissionModel is the persistence model for a Submission
type SubmissionModel struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey"`
	Name        string            `gorm:"type:varchar(200);not null"`
	Phone       string            `gorm:"type:varchar(50);not null"`
	Address     string            `gorm:"type:varchar(500);not null"`
	Status      submission.Status `gorm:"type:varchar(20);not null"`
	Notes       string            `gorm:"type:text"`
	CollectedBy uuid.UUID         `gorm:"type:uuid;not null;index"`
	GroupID     *uuid.UUID        `gorm:"type:uuid;index"`
	CreatedAt   time.Time         `gorm:"not null;index"`
	Collector   *UserModel        `gorm:"foreignKey:CollectedBy"`
}

// TableName returns the table name for GORM
func (SubmissionModel) TableName() string {
	return "submissions"
}

// ToDomain converts the persistence model to a domain Submission
func (m *SubmissionModel) ToDomain() *submission.Submission {
	return &submission.Submission{
		ID:          m.ID,
		Name:        m.Name,
		Phone:       m.Phone,
		Address:     m.Address,
		Status:      m.Status,
		Notes:       m.Notes,
		CollectedBy: m.CollectedBy,
		GroupID:     m.GroupID,
		CreatedAt:   m.CreatedAt,
	}
}

// SubmissionModelFromDomain creates a persistence model from a domain Submission
func SubmissionModelFromDomain(s *submission.Submission) *SubmissionModel {
	return &SubmissionModel{
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
