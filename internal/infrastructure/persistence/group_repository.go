package persistence

import (
	"context"
	"time"

	"github.com/fieldcollect/backend/internal/domain/group"
	"github.com/fieldcollect/backend/internal/domain/shared"
	"github.com/fieldcollect/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormGroupRepository implements group.GroupRepository using GORM
type GormGroupRepository struct {
	db *gorm.DB
}

// NewGormGroupRepository creates a new GormGroupRepository
func NewGormGroupRepository(db *gorm.DB) *GormGroupRepository {
	return &GormGroupRepository{db: db}
}

// Create persists a new, empty group
func (r *GormGroupRepository) Create(ctx context.Context, g *group.Group) error {
	err := r.db.WithContext(ctx).Omit("Members").Create(models.GroupModelFromDomain(g)).Error
	return translate("create group", err, "Group not found")
}

// FindByID loads a group with its member ids
func (r *GormGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*group.Group, error) {
	var model models.GroupModel
	err := r.db.WithContext(ctx).
		Preload("Members", orderMembers).
		First(&model, "id = ?", id).Error
	if err != nil {
		return nil, translate("find group", err, "Group not found")
	}
	return model.ToDomain(), nil
}

// FindAll returns every group with member ids, newest first
func (r *GormGroupRepository) FindAll(ctx context.Context) ([]*group.Group, error) {
	var rows []models.GroupModel
	err := r.db.WithContext(ctx).
		Preload("Members", orderMembers).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, translate("list groups", err, "Group not found")
	}

	groups := make([]*group.Group, len(rows))
	for i := range rows {
		groups[i] = rows[i].ToDomain()
	}
	return groups, nil
}

// AddMembers adds userIDs to the group in a single transaction
func (r *GormGroupRepository) AddMembers(ctx context.Context, groupID uuid.UUID, userIDs []uuid.UUID) (*group.Group, error) {
	var result *group.Group

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.GroupModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&model, "id = ?", groupID).Error
		if err != nil {
			return translate("lock group", err, "Group not found")
		}
		if err := tx.Where("group_id = ?", groupID).Order("created_at ASC").Find(&model.Members).Error; err != nil {
			return translate("load members", err, "Group not found")
		}

		g := model.ToDomain()
		added, err := g.PlanAdd(userIDs)
		if err != nil {
			return err
		}
		if len(added) == 0 {
			result = g
			return nil
		}

		var known int64
		if err := tx.Model(&models.UserModel{}).Where("id IN ?", added).Count(&known).Error; err != nil {
			return translate("count users", err, "User not found")
		}
		if known != int64(len(added)) {
			return shared.NewNotFoundError("One or more users not found")
		}

		now := time.Now()

		// Users move: drop any membership they hold elsewhere and bump the
		// groups they left.
		var previous []uuid.UUID
		if err := tx.Model(&models.GroupMemberModel{}).
			Where("user_id IN ? AND group_id <> ?", added, groupID).
			Distinct().Pluck("group_id", &previous).Error; err != nil {
			return translate("find old memberships", err, "Group not found")
		}
		if len(previous) > 0 {
			if err := tx.Where("user_id IN ? AND group_id <> ?", added, groupID).
				Delete(&models.GroupMemberModel{}).Error; err != nil {
				return translate("remove old memberships", err, "Group not found")
			}
			err := tx.Model(&models.GroupModel{}).
				Where("id IN ?", previous).
				Updates(map[string]any{
					"updated_at": now,
					"version":    gorm.Expr("version + 1"),
				}).Error
			if err != nil {
				return translate("touch old groups", err, "Group not found")
			}
		}

		rows := make([]models.GroupMemberModel, len(added))
		for i, userID := range added {
			rows[i] = models.GroupMemberModel{GroupID: groupID, UserID: userID, CreatedAt: now}
		}
		if err := tx.Create(&rows).Error; err != nil {
			return translate("insert members", err, "Group not found")
		}

		res := tx.Model(&models.UserModel{}).
			Where("id IN ?", added).
			Updates(map[string]any{
				"group_id":   groupID,
				"updated_at": now,
				"version":    gorm.Expr("version + 1"),
			})
		if res.Error != nil {
			return translate("assign users", res.Error, "User not found")
		}
		if res.RowsAffected != int64(len(added)) {
			return shared.NewNotFoundError("One or more users not found")
		}

		err = tx.Model(&models.GroupModel{}).
			Where("id = ?", groupID).
			Updates(map[string]any{
				"updated_at": now,
				"version":    gorm.Expr("version + 1"),
			}).Error
		if err != nil {
			return translate("touch group", err, "Group not found")
		}

		g.AddMembers(added)
		result = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func orderMembers(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}
