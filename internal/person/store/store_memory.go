package store

import (
	"context"
	"sort"
	"sync"

	"lifeclock/internal/person/models"
	id "lifeclock/pkg/domain"
	"lifeclock/pkg/platform/sentinel"
)

var (
	ErrNotFound = sentinel.ErrNotFound
	ErrConflict = sentinel.ErrConflict
)

// InMemory keeps persons grouped by owner.
type InMemory struct {
	mu     sync.RWMutex
	byUser map[id.UserID]map[id.PersonID]*models.Person
}

func NewInMemory() *InMemory {
	return &InMemory{byUser: make(map[id.UserID]map[id.PersonID]*models.Person)}
}

func (s *InMemory) Create(_ context.Context, p *models.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	owned := s.byUser[p.UserID]
	if owned == nil {
		owned = make(map[id.PersonID]*models.Person)
		s.byUser[p.UserID] = owned
	}
	if _, ok := owned[p.ID]; ok {
		return ErrConflict
	}
	if p.IsAccountUser {
		for _, existing := range owned {
			if existing.IsAccountUser {
				return ErrConflict
			}
		}
	}
	stored := *p
	owned[p.ID] = &stored
	return nil
}

func (s *InMemory) FindByID(_ context.Context, userID id.UserID, personID id.PersonID) (*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byUser[userID][personID]
	if !ok {
		return nil, ErrNotFound
	}
	out := *p
	return &out, nil
}

func (s *InMemory) FindAccountPerson(_ context.Context, userID id.UserID) (*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.byUser[userID] {
		if p.IsAccountUser {
			out := *p
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

// ListByUser returns the user's persons, account person first, then by creation time.
func (s *InMemory) ListByUser(_ context.Context, userID id.UserID) ([]*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Person, 0, len(s.byUser[userID]))
	for _, p := range s.byUser[userID] {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsAccountUser != out[j].IsAccountUser {
			return out[i].IsAccountUser
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (s *InMemory) CountByUser(_ context.Context, userID id.UserID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byUser[userID]), nil
}

func (s *InMemory) Update(_ context.Context, p *models.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.byUser[p.UserID][p.ID]
	if !ok {
		return ErrNotFound
	}
	existing.Name = p.Name
	existing.Sex = p.Sex
	existing.BirthDate = p.BirthDate
	existing.UpdatedAt = p.UpdatedAt
	return nil
}

func (s *InMemory) Delete(_ context.Context, userID id.UserID, personID id.PersonID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byUser[userID][personID]; !ok {
		return ErrNotFound
	}
	delete(s.byUser[userID], personID)
	return nil
}

// DeleteByUser removes every person owned by userID. Missing owners are not an error.
func (s *InMemory) DeleteByUser(_ context.Context, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byUser, userID)
	return nil
}
