package persistence

import (
	"context"

	"github.com/fieldcollect/backend/internal/domain/submission"
	"github.com/fieldcollect/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSubmissionRepository implements submission.SubmissionRepository using GORM
type GormSubmissionRepository struct {
	db *gorm.DB
}

// NewGormSubmissionRepository creates a new GormSubmissionRepository
func NewGormSubmissionRepository(db *gorm.DB) *GormSubmissionRepository {
	return &GormSubmissionRepository{db: db}
}

// Create persists a new submission
func (r *GormSubmissionRepository) Create(ctx context.Context, s *submission.Submission) error {
	err := r.db.WithContext(ctx).Omit("Collector").Create(models.SubmissionModelFromDomain(s)).Error
	return translate("create submission", err, "Submission not found")
}

// FindByOwner returns only the submissions collected by ownerID
func (r *GormSubmissionRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*submission.Submission, error) {
	var rows []models.SubmissionModel
	err := r.db.WithContext(ctx).
		Where("collected_by = ?", ownerID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, translate("list own submissions", err, "Submission not found")
	}

	result := make([]*submission.Submission, len(rows))
	for i := range rows {
		result[i] = rows[i].ToDomain()
	}
	return result, nil
}

// FindAllWithSubmitter returns every submission with the submitter's name
func (r *GormSubmissionRepository) FindAllWithSubmitter(ctx context.Context) ([]*submission.WithSubmitter, error) {
	var rows []models.SubmissionModel
	err := r.db.WithContext(ctx).
		Preload("Collector", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name")
		}).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, translate("list submissions", err, "Submission not found")
	}

	result := make([]*submission.WithSubmitter, len(rows))
	for i := range rows {
		item := &submission.WithSubmitter{Submission: *rows[i].ToDomain()}
		if rows[i].Collector != nil {
			item.SubmittedByName = rows[i].Collector.Name
		}
		result[i] = item
	}
	return result, nil
}
