package store

import (
	"context"
	"sort"
	"sync"

	"lifeclock/internal/lifespan/models"
	"lifeclock/pkg/platform/sentinel"
)

// ErrNotFound is returned when no statistic matches the lookup.
var ErrNotFound = sentinel.ErrNotFound

// InMemory keeps statistics keyed by sex and year.
type InMemory struct {
	mu    sync.RWMutex
	stats map[models.Sex]map[int]float64
}

func NewInMemory() *InMemory {
	return &InMemory{stats: make(map[models.Sex]map[int]float64)}
}

// FindLatest returns the statistic for sex with the greatest year <= notAfterYear.
func (s *InMemory) FindLatest(_ context.Context, sex models.Sex, notAfterYear int) (*models.Statistic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	years, ok := s.stats[sex]
	if !ok {
		return nil, ErrNotFound
	}
	best, found := 0, false
	for year := range years {
		if year <= notAfterYear && (!found || year > best) {
			best, found = year, true
		}
	}
	if !found {
		return nil, ErrNotFound
	}
	return &models.Statistic{Sex: sex, Year: best, Age: years[best]}, nil
}

// FindByYear returns the statistic for exactly {sex, year}.
func (s *InMemory) FindByYear(_ context.Context, sex models.Sex, year int) (*models.Statistic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	age, ok := s.stats[sex][year]
	if !ok {
		return nil, ErrNotFound
	}
	return &models.Statistic{Sex: sex, Year: year, Age: age}, nil
}

// Upsert inserts or replaces the statistic for {sex, year}.
func (s *InMemory) Upsert(_ context.Context, stat models.Statistic) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	years, ok := s.stats[stat.Sex]
	if !ok {
		years = make(map[int]float64)
		s.stats[stat.Sex] = years
	}
	years[stat.Year] = stat.Age
	return nil
}

// List returns every statistic ordered by sex then year.
func (s *InMemory) List(_ context.Context) ([]models.Statistic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Statistic
	for sex, years := range s.stats {
		for year, age := range years {
			out = append(out, models.Statistic{Sex: sex, Year: year, Age: age})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sex != out[j].Sex {
			return out[i].Sex < out[j].Sex
		}
		return out[i].Year < out[j].Year
	})
	return out, nil
}
