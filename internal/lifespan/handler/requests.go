package handler

import (
	"net/url"
	"strings"
	"time"

	dErrors "lifeclock/pkg/domain-errors"
	"lifeclock/pkg/lifetime"
)

// LifespanQuery is the query string accepted by GET /life/lifespan.
type LifespanQuery struct {
	Sex  string
	Year string

	birth time.Time
}

// ParseLifespanQuery reads sex and year, rejecting repeated parameters.
func ParseLifespanQuery(values url.Values) (*LifespanQuery, error) {
	q := &LifespanQuery{}
	for _, field := range []struct {
		name string
		dst  *string
	}{{"sex", &q.Sex}, {"year", &q.Year}} {
		raw := values[field.name]
		if len(raw) > 1 {
			return nil, dErrors.New(dErrors.CodeValidation, field.name+" must be a single value")
		}
		if len(raw) == 1 {
			*field.dst = raw[0]
		}
	}
	q.Normalize()
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

func (q *LifespanQuery) Normalize() {
	q.Sex = strings.TrimSpace(q.Sex)
	q.Year = strings.TrimSpace(q.Year)
}

// Validate checks presence first, then parses the birth date.
func (q *LifespanQuery) Validate() error {
	if len(q.Sex) > 16 || len(q.Year) > 64 {
		return dErrors.New(dErrors.CodeValidation, "query parameter too long")
	}
	if q.Sex == "" || q.Year == "" {
		return dErrors.New(dErrors.CodeValidation, "sex and year are required")
	}
	birth, err := lifetime.ParseBirthDate(q.Year)
	if err != nil {
		return err
	}
	q.birth = birth
	return nil
}

// BirthDate returns the parsed birth instant.
func (q *LifespanQuery) BirthDate() time.Time {
	return q.birth
}
