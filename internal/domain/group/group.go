package group

import (
	"strings"
	"unicode/utf8"

	"github.com/fieldcollect/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MaxNameLength bounds a group name in characters
const MaxNameLength = 200

// Group is a named set of users managed by an admin.
// MaxMembers of zero means unbounded.
type Group struct {
	shared.BaseAggregateRoot
	Name       string
	MaxMembers int
	MemberIDs  []uuid.UUID
}

// NewGroup creates an empty group
func NewGroup(name string, maxMembers int) (*Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("Group name is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return nil, shared.NewValidationError("Group name cannot exceed 200 characters")
	}
	if maxMembers < 0 {
		return nil, shared.NewValidationError("Max members cannot be negative")
	}

	return &Group{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		MaxMembers:        maxMembers,
		MemberIDs:         make([]uuid.UUID, 0),
	}, nil
}

// HasMember reports whether userID is already in the group
func (g *Group) HasMember(userID uuid.UUID) bool {
	for _, id := range g.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// MemberCount returns the current number of members
func (g *Group) MemberCount() int {
	return len(g.MemberIDs)
}

// PlanAdd returns the ids from userIDs that are not yet members, in input
// order with duplicates removed. It fails when adding them would exceed
// MaxMembers.
func (g *Group) PlanAdd(userIDs []uuid.UUID) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{}, len(userIDs))
	added := make([]uuid.UUID, 0, len(userIDs))
	for _, id := range userIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if g.HasMember(id) {
			continue
		}
		added = append(added, id)
	}

	if g.MaxMembers > 0 && g.MemberCount()+len(added) > g.MaxMembers {
		return nil, shared.NewValidationError("Group is full")
	}
	return added, nil
}

// AddMembers appends ids returned by PlanAdd
func (g *Group) AddMembers(userIDs []uuid.UUID) {
	if len(userIDs) == 0 {
		return
	}
	g.MemberIDs = append(g.MemberIDs, userIDs...)
	g.Touch()
	g.IncrementVersion()
}
