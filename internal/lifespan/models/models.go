package models

import (
	"fmt"
	"strings"

	dErrors "lifeclock/pkg/domain-errors"
)

// Sex is the statistics category code.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// IsValid reports whether s is one of the recognized categories.
func (s Sex) IsValid() bool {
	return s == SexMale || s == SexFemale
}

// ParseSex validates external input as a Sex.
func ParseSex(s string) (Sex, error) {
	sex := Sex(strings.ToLower(strings.TrimSpace(s)))
	if !sex.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "sex must be male or female")
	}
	return sex, nil
}

// Statistic is the average lifespan in years for a sex, as published for a year.
type Statistic struct {
	Sex  Sex     `json:"sex" yaml:"sex"`
	Year int     `json:"year" yaml:"year"`
	Age  float64 `json:"age" yaml:"age"`
}

// Validate checks the invariants of a statistic before it is written to a store.
func (s Statistic) Validate() error {
	if !s.Sex.IsValid() {
		return dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("statistic has unknown sex %q", s.Sex))
	}
	if s.Year < 1 {
		return dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("statistic year must be positive, got %d", s.Year))
	}
	if s.Age <= 0 || s.Age > 150 {
		return dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("statistic age out of range: %v", s.Age))
	}
	return nil
}

// LookupStrategy selects which statistic row applies to a calculation.
type LookupStrategy string

const (
	// StrategyLatest uses the greatest published year not after the current year.
	StrategyLatest LookupStrategy = "latest"
	// StrategyPreviousYear uses exactly the year before the current year.
	StrategyPreviousYear LookupStrategy = "previous_year"
)

// ParseLookupStrategy maps configuration text to a strategy. Empty means latest.
func ParseLookupStrategy(s string) (LookupStrategy, error) {
	switch LookupStrategy(strings.TrimSpace(s)) {
	case "", StrategyLatest:
		return StrategyLatest, nil
	case StrategyPreviousYear:
		return StrategyPreviousYear, nil
	default:
		return "", fmt.Errorf("unknown lifespan lookup strategy %q", s)
	}
}
