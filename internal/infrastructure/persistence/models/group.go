package models

import (
	"time"

	"github.com/fieldcollect/backend/internal/domain/group"
	"github.com/google/uuid"
)

// GroupModel is the persistence model for the Group aggregate
type GroupModel struct {
	AggregateModel
	Name       string             `gorm:"type:varchar(200);not null"`
	MaxMembers int                `gorm:"not null;default:0"`
	Members    []GroupMemberModel `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (GroupModel) TableName() string {
	return "groups"
}

// GroupMemberModel is one membership row. UserID is unique so a user belongs
// to at most one group.
type GroupMemberModel struct {
	GroupID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;uniqueIndex:idx_group_members_user"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (GroupMemberModel) TableName() string {
	return "group_members"
}

// ToDomain converts the model and its preloaded members to a domain Group
func (m *GroupModel) ToDomain() *group.Group {
	memberIDs := make([]uuid.UUID, 0, len(m.Members))
	for _, member := range m.Members {
		memberIDs = append(memberIDs, member.UserID)
	}
	return &group.Group{
		BaseAggregateRoot: m.AggregateModel.ToDomain(),
		Name:              m.Name,
		MaxMembers:        m.MaxMembers,
		MemberIDs:         memberIDs,
	}
}

// GroupModelFromDomain creates a persistence model without member rows;
// membership is written by the repository.
func GroupModelFromDomain(g *group.Group) *GroupModel {
	m := &GroupModel{
		Name:       g.Name,
		MaxMembers: g.MaxMembers,
	}
	m.FromDomainAggregateRoot(g.BaseAggregateRoot)
	return m
}
