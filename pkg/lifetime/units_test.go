package lifetime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "lifeclock/pkg/domain-errors"
)

func TestUnits(t *testing.T) {
	assert.Equal(t, int64(86400), SecondsPerDay)
	assert.Equal(t, int64(2592000), SecondsPerMonth)
	assert.Equal(t, int64(31536000), SecondsPerYear)
}

func TestAgeToSeconds(t *testing.T) {
	assert.Equal(t, int64(80*31536000), AgeToSeconds(80))
	assert.Equal(t, int64(2555992800), AgeToSeconds(81.05))
	assert.Equal(t, int64(0), AgeToSeconds(0))
}

func TestParseBirthDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"bare year", "1990", time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"date", "1990-04-01", time.Date(1990, 4, 1, 0, 0, 0, 0, time.UTC)},
		{"rfc3339 utc", "1990-04-01T12:30:00Z", time.Date(1990, 4, 1, 12, 30, 0, 0, time.UTC)},
		{"rfc3339 millis", "1990-04-01T12:30:00.250Z", time.Date(1990, 4, 1, 12, 30, 0, 250_000_000, time.UTC)},
		{"rfc3339 offset normalized", "1990-04-01T09:00:00+09:00", time.Date(1990, 4, 1, 0, 0, 0, 0, time.UTC)},
		{"surrounding space", " 2000 ", time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBirthDate(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}

	for _, bad := range []string{"", "abcd", "0000", "1990/04/01", "April 1990", "1990-13-01"} {
		t.Run("rejects "+bad, func(t *testing.T) {
			_, err := ParseBirthDate(bad)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}
