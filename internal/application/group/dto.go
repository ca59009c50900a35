package group

import (
	"time"

	"github.com/fieldcollect/backend/internal/domain/group"
	"github.com/google/uuid"
)

// CreateGroupInput contains the input for creating a group
type CreateGroupInput struct {
	Name       string
	MaxMembers int
}

// GroupResponse is the view of a group returned to callers
type GroupResponse struct {
	ID          uuid.UUID
	Name        string
	MaxMembers  int
	MemberIDs   []uuid.UUID
	MemberCount int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ToGroupResponse converts a domain group to a response
func ToGroupResponse(g *group.Group) GroupResponse {
	members := make([]uuid.UUID, len(g.MemberIDs))
	copy(members, g.MemberIDs)
	return GroupResponse{
		ID:          g.ID,
		Name:        g.Name,
		MaxMembers:  g.MaxMembers,
		MemberIDs:   members,
		MemberCount: g.MemberCount(),
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}
