package group

import (
	"context"

	"github.com/google/uuid"
)

// GroupRepository defines the interface for group persistence
type GroupRepository interface {
	// Create persists a new, empty group
	Create(ctx context.Context, g *Group) error

	// FindByID loads a group with its member ids
	FindByID(ctx context.Context, id uuid.UUID) (*Group, error)

	// FindAll returns every group with member ids, newest first
	FindAll(ctx context.Context) ([]*Group, error)

	// AddMembers locks the group, plans the additions with Group.PlanAdd,
	// inserts membership rows and points each new member's group at it, all
	// in one transaction. A user listed in another group is moved out of it.
	// Unknown user ids yield a not-found error. On error nothing is changed.
	AddMembers(ctx context.Context, groupID uuid.UUID, userIDs []uuid.UUID) (*Group, error)
}
