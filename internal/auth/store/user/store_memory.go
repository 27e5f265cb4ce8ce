package user

import (
	"context"
	"sync"

	"lifeclock/internal/auth/models"
	id "lifeclock/pkg/domain"
	"lifeclock/pkg/platform/sentinel"
)

// Error aliases for backward compatibility with callers of this package.
var (
	ErrNotFound = sentinel.ErrNotFound
	ErrConflict = sentinel.ErrConflict
)

// InMemoryUserStore keeps users in a map keyed by id with a secondary email index.
type InMemoryUserStore struct {
	mu      sync.RWMutex
	users   map[id.UserID]*models.User
	byEmail map[string]id.UserID
}

func New() *InMemoryUserStore {
	return &InMemoryUserStore{
		users:   make(map[id.UserID]*models.User),
		byEmail: make(map[string]id.UserID),
	}
}

func (s *InMemoryUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; ok {
		return ErrConflict
	}
	if _, ok := s.byEmail[user.Email]; ok {
		return ErrConflict
	}
	stored := *user
	s.users[user.ID] = &stored
	s.byEmail[user.Email] = user.ID
	return nil
}

func (s *InMemoryUserStore) FindByID(_ context.Context, userID id.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	out := *u
	return &out, nil
}

func (s *InMemoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	out := *s.users[userID]
	return &out, nil
}

func (s *InMemoryUserStore) Update(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[user.ID]
	if !ok {
		return ErrNotFound
	}
	if owner, taken := s.byEmail[user.Email]; taken && owner != user.ID {
		return ErrConflict
	}
	delete(s.byEmail, existing.Email)
	stored := *user
	s.users[user.ID] = &stored
	s.byEmail[user.Email] = user.ID
	return nil
}

func (s *InMemoryUserStore) Delete(_ context.Context, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}
	delete(s.byEmail, u.Email)
	delete(s.users, userID)
	return nil
}
