package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/fieldcollect/backend/internal/domain/identity"
	"github.com/fieldcollect/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AdminBootstrap describes the administrator account created at startup
type AdminBootstrap struct {
	Email    string
	Password string
	Name     string
	Phone    string
}

// EnsureAdmin creates the configured admin account if no user owns the email.
// An existing account is left untouched, whatever its role.
func EnsureAdmin(ctx context.Context, users identity.UserRepository, hasher PasswordHasher, cfg AdminBootstrap, logger *zap.Logger) error {
	email := identity.NormalizeEmail(cfg.Email)
	if email == "" || strings.TrimSpace(cfg.Password) == "" {
		return nil
	}

	existing, err := users.FindByEmail(ctx, email)
	if err == nil {
		if !existing.IsAdmin() {
			logger.Warn("bootstrap admin email belongs to a non-admin user",
				zap.String("user_id", existing.ID.String()))
		}
		return nil
	}
	if !shared.IsCode(err, shared.CodeNotFound) {
		return fmt.Errorf("bootstrap lookup user: %w", err)
	}

	if err := identity.ValidatePassword(cfg.Password); err != nil {
		return fmt.Errorf("bootstrap admin password: %w", err)
	}
	hashed, err := hasher.Hash(ctx, cfg.Password)
	if err != nil {
		return fmt.Errorf("bootstrap hash password: %w", err)
	}

	admin, err := identity.NewUser(cfg.Name, email, cfg.Phone, hashed, identity.RoleAdmin)
	if err != nil {
		return fmt.Errorf("bootstrap build admin: %w", err)
	}
	if err := users.Create(ctx, admin); err != nil {
		return fmt.Errorf("bootstrap create user: %w", err)
	}

	logger.Info("bootstrap admin user created",
		zap.String("email", admin.Email),
		zap.String("user_id", admin.ID.String()))
	return nil
}
