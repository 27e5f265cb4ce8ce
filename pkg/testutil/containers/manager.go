//go:build integration

// Package containers starts shared testcontainers for integration tests.
// One container per backend is started lazily and reused by every suite in
// the test binary; Ryuk removes them when the process exits.
package containers

import (
	"sync"
	"testing"
)

type Manager struct {
	mu       sync.Mutex
	postgres *PostgresContainer
	redis    *RedisContainer
	redpanda *RedpandaContainer
}

var (
	managerOnce sync.Once
	manager     *Manager
)

// GetManager returns the process-wide container manager.
func GetManager() *Manager {
	managerOnce.Do(func() {
		manager = &Manager{}
	})
	return manager
}

func (m *Manager) GetPostgres(t *testing.T) *PostgresContainer {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.postgres == nil {
		m.postgres = NewPostgresContainer(t)
	}
	return m.postgres
}

func (m *Manager) GetRedis(t *testing.T) *RedisContainer {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.redis == nil {
		m.redis = NewRedisContainer(t)
	}
	return m.redis
}

func (m *Manager) GetRedpanda(t *testing.T) *RedpandaContainer {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.redpanda == nil {
		m.redpanda = NewRedpandaContainer(t)
	}
	return m.redpanda
}
