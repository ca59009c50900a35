package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/fieldcollect/backend/internal/domain/identity"
	"github.com/fieldcollect/backend/internal/domain/shared"
	"github.com/fieldcollect/backend/internal/infrastructure/auth"
	"github.com/fieldcollect/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const invalidCredentialsMessage = "Invalid email or password"

// PasswordHasher hashes and verifies passwords. Verify with an empty hash must
// still spend comparable time and return false.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, hash, password string) (bool, error)
}

// TokenService issues and validates session tokens
type TokenService interface {
	Issue(userID uuid.UUID, role string) (*auth.SessionToken, error)
	Validate(token string) (*auth.SessionClaims, error)
}

// AuthService handles signup, login and session verification
type AuthService struct {
	userRepo identity.UserRepository
	hasher   PasswordHasher
	tokens   TokenService
	logger   *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	hasher PasswordHasher,
	tokens TokenService,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger,
	}
}

// Register creates a new user with role "user" and issues a session token.
// Checks run in order: required fields, duplicate email, password strength.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if strings.TrimSpace(input.Password) == "" {
		return nil, shared.NewValidationError("All fields are required")
	}
	if err := identity.ValidateProfile(input.Name, input.Email, input.Phone); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		s.log(ctx).Error("Failed to check email", zap.Error(err))
		return nil, shared.NewInternalError(err)
	}
	if exists {
		return nil, shared.NewConflictError("User already exists")
	}

	if err := identity.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(ctx, input.Password)
	if err != nil {
		s.log(ctx).Error("Failed to hash password", zap.Error(err))
		return nil, shared.NewInternalError(err)
	}

	user, err := identity.NewUser(input.Name, input.Email, input.Phone, hash, identity.RoleUser)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if shared.IsCode(err, shared.CodeConflict) {
			return nil, err
		}
		s.log(ctx).Error("Failed to create user", zap.Error(err))
		return nil, shared.NewInternalError(err)
	}

	s.log(ctx).Info("User registered", zap.String("user_id", user.ID.String()))
	return s.issue(ctx, user)
}

// Login verifies credentials and issues a session token. Unknown emails and
// wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	if strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return nil, shared.NewValidationError("Email and password are required")
	}

	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if !shared.IsCode(err, shared.CodeNotFound) {
			s.log(ctx).Error("Failed to load user", zap.Error(err))
			return nil, shared.NewInternalError(err)
		}
		// Burn a comparison so unknown emails cost the same as wrong passwords.
		if _, verr := s.hasher.Verify(ctx, "", input.Password); verr != nil {
			return nil, shared.NewInternalError(verr)
		}
		s.log(ctx).Warn("Login failed", zap.String("ip", input.IP))
		return nil, shared.NewAuthError(invalidCredentialsMessage)
	}

	ok, err := s.hasher.Verify(ctx, user.PasswordHash, input.Password)
	if err != nil {
		s.log(ctx).Error("Failed to verify password", zap.Error(err))
		return nil, shared.NewInternalError(err)
	}
	if !ok {
		s.log(ctx).Warn("Login failed",
			zap.String("user_id", user.ID.String()),
			zap.String("ip", input.IP))
		return nil, shared.NewAuthError(invalidCredentialsMessage)
	}

	s.log(ctx).Info("User logged in", zap.String("user_id", user.ID.String()))
	return s.issue(ctx, user)
}

// VerifySession validates a session token and returns the bound user id
func (s *AuthService) VerifySession(token string) (*Session, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, shared.NewAuthError("Session expired")
		}
		return nil, shared.NewAuthError("Invalid session")
	}
	userID, err := claims.UserUUID()
	if err != nil {
		return nil, shared.NewAuthError("Invalid session")
	}
	return &Session{UserID: userID, Role: identity.Role(claims.Role)}, nil
}

// CurrentUser loads the stored profile of the session's user
func (s *AuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := ToUserInfo(user)
	return &info, nil
}

// CurrentRole returns the stored role of a user
func (s *AuthService) CurrentRole(ctx context.Context, userID uuid.UUID) (identity.Role, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Role, nil
}

func (s *AuthService) loadUser(ctx context.Context, userID uuid.UUID) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if shared.IsCode(err, shared.CodeNotFound) {
			return nil, shared.NewAuthError("User does not exist")
		}
		s.log(ctx).Error("Failed to load user", zap.Error(err))
		return nil, shared.NewInternalError(err)
	}
	return user, nil
}

func (s *AuthService) issue(ctx context.Context, user *identity.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		s.log(ctx).Error("Failed to issue session token", zap.Error(err))
		return nil, shared.NewInternalError(err)
	}
	return &AuthResult{
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
		User:      ToUserInfo(user),
	}, nil
}

// log prefers the request logger carried by ctx
func (s *AuthService) log(ctx context.Context) *logger.ContextLogger {
	return logger.L(ctx).Or(s.logger)
}
