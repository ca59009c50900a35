package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	identityapp "github.com/fieldcollect/backend/internal/application/identity"
	"github.com/fieldcollect/backend/internal/domain/identity"
	"github.com/fieldcollect/backend/internal/domain/shared"
	"github.com/fieldcollect/backend/internal/infrastructure/logger"
	"github.com/fieldcollect/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session context keys
const (
	SessionKey    = "session"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

type sessionContextKey struct{}

// SessionVerifier validates a session token
type SessionVerifier interface {
	VerifySession(token string) (*identityapp.Session, error)
}

// RoleResolver returns the role currently stored for a user
type RoleResolver interface {
	CurrentRole(ctx context.Context, userID uuid.UUID) (identity.Role, error)
}

// SessionConfig holds configuration for the session middleware
type SessionConfig struct {
	Verifier   SessionVerifier
	CookieName string
	Logger     *zap.Logger
}

// SessionAuth rejects requests without a valid session token. The token is
// read from the session cookie, or from a Bearer header when no cookie is sent.
func SessionAuth(cfg SessionConfig) gin.HandlerFunc {
	if cfg.CookieName == "" {
		cfg.CookieName = "token"
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		token := extractToken(c, cfg.CookieName)
		if token == "" {
			abortUnauthorized(c, log, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}

		session, err := cfg.Verifier.VerifySession(token)
		if err != nil {
			abortUnauthorized(c, log, shared.CodeOf(err), domainMessage(err, "Invalid session"))
			return
		}

		c.Set(SessionKey, session)

		ctx := context.WithValue(c.Request.Context(), sessionContextKey{}, session)
		ctx, _ = logger.WithUserID(ctx, logger.FromContext(ctx), session.UserID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireRole allows the request only when the user's stored role matches.
// The role claim in the token is not trusted here because it can be stale.
func RequireRole(resolver RoleResolver, role identity.Role, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		session := GetSession(c)
		if session == nil {
			abortUnauthorized(c, log, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}

		current, err := resolver.CurrentRole(c.Request.Context(), session.UserID)
		if err != nil {
			code := shared.CodeOf(err)
			if code == shared.CodeAuth {
				abortUnauthorized(c, log, code, domainMessage(err, "Authentication required"))
				return
			}
			log.Error("Failed to resolve role",
				zap.String("user_id", session.UserID.String()),
				zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dto.NewErrorResponse(shared.CodeInternal, "An unexpected error occurred", requestIDFrom(c)))
			return
		}

		if current != role {
			log.Warn("Role check failed",
				zap.String("user_id", session.UserID.String()),
				zap.String("required", string(role)),
				zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(shared.CodeForbidden, "Admin access required", requestIDFrom(c)))
			return
		}

		c.Next()
	}
}

// GetSession retrieves the verified session from gin.Context
func GetSession(c *gin.Context) *identityapp.Session {
	if v, exists := c.Get(SessionKey); exists {
		if s, ok := v.(*identityapp.Session); ok {
			return s
		}
	}
	return nil
}

// SessionFromContext retrieves the verified session from a request context
func SessionFromContext(ctx context.Context) *identityapp.Session {
	s, _ := ctx.Value(sessionContextKey{}).(*identityapp.Session)
	return s
}

func extractToken(c *gin.Context, cookieName string) string {
	if token, err := c.Cookie(cookieName); err == nil && token != "" {
		return token
	}
	header := c.GetHeader(AuthHeaderKey)
	if !strings.HasPrefix(header, BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
}

func abortUnauthorized(c *gin.Context, log *zap.Logger, code, message string) {
	log.Debug("Session rejected",
		zap.String("code", code),
		zap.String("path", c.Request.URL.Path))
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, message, requestIDFrom(c)))
}

func domainMessage(err error, fallback string) string {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) && domainErr.Message != "" {
		return domainErr.Message
	}
	return fallback
}
