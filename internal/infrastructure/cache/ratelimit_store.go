// Package cache provides the shared counters behind request rate limiting.
package cache

import (
	"context"
	"sync"
	"time"
)

// Hit is the state of a fixed window after one more request was counted
type Hit struct {
	Count   int64
	ResetIn time.Duration
}

// InMemoryRateLimitStore counts requests per key in fixed windows.
// It is only correct for a single process.
type InMemoryRateLimitStore struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

type window struct {
	count   int64
	resetAt time.Time
}

// NewInMemoryRateLimitStore creates a store and starts a sweeper that drops
// expired windows every cleanupInterval. Call Close to stop it.
func NewInMemoryRateLimitStore(cleanupInterval time.Duration) *InMemoryRateLimitStore {
	s := &InMemoryRateLimitStore{
		windows: make(map[string]*window),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go s.sweep(cleanupInterval)
	}
	return s
}

// Increment counts one request for key in the current window
func (s *InMemoryRateLimitStore) Increment(_ context.Context, key string, period time.Duration) (Hit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w, ok := s.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(period)}
		s.windows[key] = w
	}
	w.count++
	return Hit{Count: w.count, ResetIn: w.resetAt.Sub(now)}, nil
}

// Len returns the number of tracked windows
func (s *InMemoryRateLimitStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

// Close stops the sweeper
func (s *InMemoryRateLimitStore) Close() error {
	s.once.Do(func() { close(s.stop) })
	return nil
}

func (s *InMemoryRateLimitStore) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.removeExpired()
		case <-s.stop:
			return
		}
	}
}

func (s *InMemoryRateLimitStore) removeExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, w := range s.windows {
		if !now.Before(w.resetAt) {
			delete(s.windows, key)
		}
	}
}
