package identity

import (
	"time"

	"github.com/fieldcollect/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// RegisterInput contains the input for signup
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string
	Password string
	IP       string // Client IP, logged only
}

// AuthResult is returned by a successful signup or login
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      UserInfo
}

// UserInfo is the public profile of a user. It never carries the password hash.
type UserInfo struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Phone     string
	Role      identity.Role
	GroupID   *uuid.UUID
	CreatedAt time.Time
}

// Session is the verified identity bound to a request
type Session struct {
	UserID uuid.UUID
	Role   identity.Role // claim only, not authoritative
}

// ToUserInfo converts a domain user to its public profile
func ToUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		GroupID:   u.GroupID,
		CreatedAt: u.CreatedAt,
	}
}
