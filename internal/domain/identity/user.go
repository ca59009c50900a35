package identity

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/fieldcollect/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Role is the coarse access level of a user
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Password policy bounds. bcrypt ignores input past 72 bytes.
const (
	MinPasswordLength = 8
	MaxPasswordBytes  = 72
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User represents a registered account.
// It is the aggregate root for credential and membership data.
type User struct {
	shared.BaseAggregateRoot
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	Role         Role
	GroupID      *uuid.UUID
}

// NewUser creates a user from already validated registration fields and a
// password hash. Role defaults to RoleUser when empty.
func NewUser(name, email, phone, passwordHash string, role Role) (*User, error) {
	if err := ValidateProfile(name, email, phone); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, shared.NewValidationError("Password hash cannot be empty")
	}
	if role == "" {
		role = RoleUser
	}
	if !role.IsValid() {
		return nil, shared.NewValidationError("Invalid role")
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Email:             NormalizeEmail(email),
		Phone:             strings.TrimSpace(phone),
		PasswordHash:      passwordHash,
		Role:              role,
	}, nil
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// AssignGroup records the user's current group
func (u *User) AssignGroup(groupID uuid.UUID) {
	u.GroupID = &groupID
	u.Touch()
	u.IncrementVersion()
}

// HasGroup reports whether the user belongs to a group
func (u *User) HasGroup() bool {
	return u.GroupID != nil && *u.GroupID != uuid.Nil
}

// NormalizeEmail lower-cases and trims an email so lookups are case-insensitive
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateProfile checks the non-secret registration fields.
func ValidateProfile(name, email, phone string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || strings.TrimSpace(phone) == "" {
		return shared.NewValidationError("All fields are required")
	}
	if len(strings.TrimSpace(name)) > 200 {
		return shared.NewValidationError("Name cannot exceed 200 characters")
	}
	if len(strings.TrimSpace(phone)) > 50 {
		return shared.NewValidationError("Phone cannot exceed 50 characters")
	}
	return validateEmail(NormalizeEmail(email))
}

// ValidatePassword enforces the password policy. The minimum counts
// characters; the maximum counts bytes.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return shared.NewWeakCredentialError("Password must be at least 8 characters")
	}
	if len(password) > MaxPasswordBytes {
		return shared.NewValidationError("Password cannot exceed 72 bytes")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewValidationError("Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewValidationError("Invalid email format")
	}
	return nil
}
