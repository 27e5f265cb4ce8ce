package models

import (
	"strings"
	"time"
	"unicode/utf8"

	lifespan "lifeclock/internal/lifespan/models"
	id "lifeclock/pkg/domain"
	dErrors "lifeclock/pkg/domain-errors"
	"lifeclock/pkg/lifetime"
)

const (
	// MaxPersonsPerUser includes the account person.
	MaxPersonsPerUser = 10
	MaxNameLength     = 50
)

// Person is someone whose remaining time a user tracks. Exactly one person per
// user has IsAccountUser set; it is created at sign-up and cannot be deleted.
type Person struct {
	ID            id.PersonID
	UserID        id.UserID
	Name          string
	Sex           lifespan.Sex
	BirthDate     time.Time
	IsAccountUser bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// BirthDateString formats the birth date as YYYY-MM-DD.
func (p *Person) BirthDateString() string {
	return p.BirthDate.Format(lifetime.DateLayout)
}

// Details is the editable part of a person.
type Details struct {
	Name      string
	Sex       lifespan.Sex
	BirthDate time.Time
}

// NormalizeName trims surrounding whitespace.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

func ValidateName(name string) error {
	n := utf8.RuneCountInString(name)
	if n == 0 {
		return dErrors.New(dErrors.CodeValidation, "personName is required")
	}
	if n > MaxNameLength {
		return dErrors.New(dErrors.CodeValidation, "personName must be at most 50 characters")
	}
	return nil
}

// ParseBirthDate accepts YYYY-MM-DD only and rejects dates after today.
func ParseBirthDate(s string, today time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, dErrors.New(dErrors.CodeValidation, "birthDate is required")
	}
	t, err := time.Parse(lifetime.DateLayout, s)
	if err != nil {
		return time.Time{}, dErrors.New(dErrors.CodeValidation, "birthDate must be YYYY-MM-DD")
	}
	if t.After(today.UTC()) {
		return time.Time{}, dErrors.New(dErrors.CodeValidation, "birthDate must not be in the future")
	}
	return t, nil
}

// ParseDetails validates raw request fields into Details.
func ParseDetails(name, sex, birthDate string, today time.Time) (Details, error) {
	name = NormalizeName(name)
	if err := ValidateName(name); err != nil {
		return Details{}, err
	}
	parsedSex, err := lifespan.ParseSex(sex)
	if err != nil {
		return Details{}, err
	}
	birth, err := ParseBirthDate(birthDate, today)
	if err != nil {
		return Details{}, err
	}
	return Details{Name: name, Sex: parsedSex, BirthDate: birth}, nil
}
