// Package lifetime holds the fixed-calendar units shared by the server-side
// remaining-time calculation and the client-side countdown. A year is always
// 365 days and a month always 30 days; no leap or timezone handling is applied.
package lifetime

import (
	"math"
	"strconv"
	"strings"
	"time"

	dErrors "lifeclock/pkg/domain-errors"
)

const (
	SecondsPerMinute int64 = 60
	SecondsPerHour         = 60 * SecondsPerMinute
	SecondsPerDay          = 24 * SecondsPerHour
	SecondsPerMonth        = 30 * SecondsPerDay
	SecondsPerYear         = 365 * SecondsPerDay
)

// DateLayout is the birth date format stored for persons.
const DateLayout = "2006-01-02"

// AgeToSeconds converts an average age in years to whole seconds.
func AgeToSeconds(age float64) int64 {
	return int64(math.Round(age * float64(SecondsPerYear)))
}

// DateToSeconds returns the Unix time of t, truncated to whole seconds.
func DateToSeconds(t time.Time) int64 {
	return t.Unix()
}

// ParseBirthDate accepts a bare year ("1990"), a date ("1990-04-01") or an
// RFC3339 timestamp and returns the instant in UTC. Year and date forms are
// midnight UTC.
func ParseBirthDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, dErrors.New(dErrors.CodeValidation, "birth date is required")
	}
	if len(s) == 4 {
		year, err := strconv.Atoi(s)
		if err != nil || year < 1 {
			return time.Time{}, dErrors.New(dErrors.CodeValidation, "invalid birth year")
		}
		return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, dErrors.New(dErrors.CodeValidation, "birth date must be YYYY, YYYY-MM-DD or an RFC3339 timestamp")
}
