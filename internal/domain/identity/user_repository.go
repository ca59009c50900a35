package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create persists a new user. A duplicate email yields a conflict error.
	Create(ctx context.Context, user *User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by normalized email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindAll returns users ordered by creation time
	FindAll(ctx context.Context, filter UserFilter) ([]*User, error)

	// ExistsByEmail checks if an email already exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// UserFilter contains filter options for querying users
type UserFilter struct {
	Role   *Role
	Offset int
	Limit  int
}

// NewUserFilter returns an unbounded filter
func NewUserFilter() UserFilter {
	return UserFilter{}
}

// WithRole restricts the result to one role
func (f UserFilter) WithRole(role Role) UserFilter {
	f.Role = &role
	return f
}
