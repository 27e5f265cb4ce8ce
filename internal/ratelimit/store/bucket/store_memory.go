package bucket

import (
	"context"
	"sync"
	"time"

	"lifeclock/internal/ratelimit/models"
)

// InMemoryBucketStore keeps a sliding window of request timestamps per key.
// Counts are per process.
type InMemoryBucketStore struct {
	mu      sync.Mutex
	buckets map[string][]time.Time
}

func NewInMemoryBucketStore() *InMemoryBucketStore {
	return &InMemoryBucketStore{buckets: make(map[string][]time.Time)}
}

// Allow records a request at now when fewer than limit requests fall inside
// (now-window, now].
func (s *InMemoryBucketStore) Allow(_ context.Context, key string, limit int, window time.Duration, now time.Time) (*models.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	timestamps := prune(s.buckets[key], now.Add(-window))
	allowed := len(timestamps) < limit
	if allowed {
		timestamps = append(timestamps, now)
	}
	if len(timestamps) == 0 {
		delete(s.buckets, key)
	} else {
		s.buckets[key] = timestamps
	}

	resetAt := now.Add(window)
	if len(timestamps) > 0 {
		resetAt = timestamps[0].Add(window)
	}
	return newResult(allowed, limit, len(timestamps), resetAt, now), nil
}

// Reset clears the window for key.
func (s *InMemoryBucketStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buckets, key)
	return nil
}

// prune drops timestamps at or before cutoff. Timestamps are appended in
// order so the survivors are a suffix.
func prune(timestamps []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for ; i < len(timestamps); i++ {
		if timestamps[i].After(cutoff) {
			break
		}
	}
	return timestamps[i:]
}

func newResult(allowed bool, limit, count int, resetAt, now time.Time) *models.Result {
	r := &models.Result{
		Allowed:   allowed,
		Limit:     limit,
		Remaining: max(limit-count, 0),
		ResetAt:   resetAt,
	}
	if !allowed {
		r.RetryAfter = max(int((resetAt.Sub(now)+time.Second-1)/time.Second), 1)
	}
	return r
}
