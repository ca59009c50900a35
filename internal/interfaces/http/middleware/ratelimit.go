package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/fieldcollect/backend/internal/infrastructure/cache"
	"github.com/fieldcollect/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimitStore counts requests per key in fixed windows
type RateLimitStore interface {
	Increment(ctx context.Context, key string, period time.Duration) (cache.Hit, error)
}

// RateLimitConfig holds configuration for the rate limit middleware
type RateLimitConfig struct {
	Store  RateLimitStore
	Limit  int
	Window time.Duration
	// Scope separates counters of different route groups sharing a store
	Scope  string
	Logger *zap.Logger
}

// RateLimit limits requests per client IP. Store failures let the request
// through.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	limit := strconv.Itoa(cfg.Limit)

	return func(c *gin.Context) {
		key := cfg.Scope + ":" + c.ClientIP()

		hit, err := cfg.Store.Increment(c.Request.Context(), key, cfg.Window)
		if err != nil {
			log.Warn("Rate limit store unavailable",
				zap.String("key", key),
				zap.Error(err))
			c.Next()
			return
		}

		remaining := int64(cfg.Limit) - hit.Count
		if remaining < 0 {
			remaining = 0
		}
		resetSeconds := strconv.Itoa(int(math.Ceil(hit.ResetIn.Seconds())))

		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		c.Header("X-RateLimit-Reset", resetSeconds)

		if hit.Count > int64(cfg.Limit) {
			c.Header("Retry-After", resetSeconds)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse(
				dto.ErrCodeRateLimited,
				"Too many requests. Please try again later.",
				requestIDFrom(c),
			))
			return
		}

		c.Next()
	}
}
