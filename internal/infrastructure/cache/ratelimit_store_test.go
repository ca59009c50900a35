package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRateLimitStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryRateLimitStore(0)
	defer store.Close()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	for i := int64(1); i <= 3; i++ {
		hit, err := store.Increment(ctx, "1.2.3.4", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, hit.Count)
		assert.Equal(t, time.Minute, hit.ResetIn)
	}

	other, err := store.Increment(ctx, "5.6.7.8", time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 1, other.Count)

	now = now.Add(30 * time.Second)
	hit, err := store.Increment(ctx, "1.2.3.4", time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 4, hit.Count)
	assert.Equal(t, 30*time.Second, hit.ResetIn)

	now = now.Add(30 * time.Second)
	hit, err = store.Increment(ctx, "1.2.3.4", time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 1, hit.Count, "window restarts once it expires")
}

func TestInMemoryRateLimitStore_RemoveExpired(t *testing.T) {
	store := NewInMemoryRateLimitStore(0)
	defer store.Close()

	now := time.Now()
	store.now = func() time.Time { return now }
	_, _ = store.Increment(context.Background(), "a", time.Second)
	_, _ = store.Increment(context.Background(), "b", time.Minute)
	require.Equal(t, 2, store.Len())

	now = now.Add(2 * time.Second)
	store.removeExpired()
	assert.Equal(t, 1, store.Len())
}

func TestRedisRateLimitStore_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	store := NewRedisRateLimitStore(client, "")
	defer store.Close()

	_, err := store.Increment(context.Background(), "k", time.Minute)
	assert.Error(t, err)
}
