package handler

import (
	"strings"
	"time"

	"lifeclock/internal/person/models"
	dErrors "lifeclock/pkg/domain-errors"
)

// PersonRequest is the body of POST /create and POST /edit/{id}.
type PersonRequest struct {
	PersonName string `json:"personName"`
	Sex        string `json:"sex"`
	BirthDate  string `json:"birthDate"`
}

func (r *PersonRequest) Normalize() {
	r.PersonName = models.NormalizeName(r.PersonName)
	r.Sex = strings.ToLower(strings.TrimSpace(r.Sex))
	r.BirthDate = strings.TrimSpace(r.BirthDate)
}

// Validate checks field presence and size. Date semantics are checked by
// Details once the request time is known.
func (r *PersonRequest) Validate() error {
	if r.PersonName == "" || r.Sex == "" || r.BirthDate == "" {
		return dErrors.New(dErrors.CodeValidation, "personName, sex and birthDate are required")
	}
	if len(r.PersonName) > 4*models.MaxNameLength || len(r.Sex) > 16 || len(r.BirthDate) > 32 {
		return dErrors.New(dErrors.CodeValidation, "field too long")
	}
	return nil
}

// Details parses the request relative to today.
func (r *PersonRequest) Details(today time.Time) (models.Details, error) {
	return models.ParseDetails(r.PersonName, r.Sex, r.BirthDate, today)
}
