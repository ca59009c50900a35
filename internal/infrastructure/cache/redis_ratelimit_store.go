package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldcollect/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

const defaultRateLimitPrefix = "fieldcollect:ratelimit:"

// incrementScript starts the window on the first hit and reports its TTL.
var incrementScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
return {count, ttl}
`)

// RedisRateLimitStore implements fixed-window counting in Redis so every
// instance shares the same limits
type RedisRateLimitStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisClient opens and pings a Redis client from config
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewRedisRateLimitStore creates a store over an existing client
func NewRedisRateLimitStore(client *redis.Client, keyPrefix string) *RedisRateLimitStore {
	if keyPrefix == "" {
		keyPrefix = defaultRateLimitPrefix
	}
	return &RedisRateLimitStore{client: client, keyPrefix: keyPrefix}
}

// Increment counts one request for key in the current window
func (s *RedisRateLimitStore) Increment(ctx context.Context, key string, period time.Duration) (Hit, error) {
	res, err := incrementScript.Run(ctx, s.client, []string{s.keyPrefix + key}, period.Milliseconds()).Int64Slice()
	if err != nil {
		return Hit{}, fmt.Errorf("rate limit increment: %w", err)
	}
	if len(res) != 2 {
		return Hit{}, fmt.Errorf("rate limit increment: unexpected reply %v", res)
	}

	resetIn := time.Duration(res[1]) * time.Millisecond
	if resetIn < 0 {
		resetIn = period
	}
	return Hit{Count: res[0], ResetIn: resetIn}, nil
}

// Close closes the underlying client
func (s *RedisRateLimitStore) Close() error {
	return s.client.Close()
}
