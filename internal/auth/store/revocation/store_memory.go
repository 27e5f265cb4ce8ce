// Package revocation tracks signed-out access tokens by jti until they expire.
package revocation

import (
	"context"
	"sync"
	"time"
)

// Clock returns the current time.
type Clock func() time.Time

// InMemoryTRL is a process-local token revocation list. Entries are pruned
// lazily once their expiry passes.
type InMemoryTRL struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	clock   Clock
}

type InMemoryTRLOption func(*InMemoryTRL)

func WithClock(clock Clock) InMemoryTRLOption {
	return func(t *InMemoryTRL) {
		if clock != nil {
			t.clock = clock
		}
	}
}

func NewInMemoryTRL(opts ...InMemoryTRLOption) *InMemoryTRL {
	t := &InMemoryTRL{
		revoked: make(map[string]time.Time),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *InMemoryTRL) RevokeToken(_ context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return nil
	}
	if err := validateTTL(ttl); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.revoked[jti] = t.clock().Add(ttl)
	return nil
}

func (t *InMemoryTRL) IsRevoked(_ context.Context, jti string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	expiresAt, ok := t.revoked[jti]
	if !ok {
		return false, nil
	}
	if !t.clock().Before(expiresAt) {
		delete(t.revoked, jti)
		return false, nil
	}
	return true, nil
}

// Len reports the number of tracked entries, expired or not.
func (t *InMemoryTRL) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.revoked)
}
