package countdown

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"lifeclock/pkg/lifetime"
)

func TestDecompose(t *testing.T) {
	t.Run("one of each small unit", func(t *testing.T) {
		assert.Equal(t, Breakdown{Days: 1, Hours: 1, Minutes: 1, Seconds: 1}, Decompose(90061))
	})

	t.Run("fixed calendar units", func(t *testing.T) {
		total := 2*lifetime.SecondsPerYear + 11*lifetime.SecondsPerMonth + 29*lifetime.SecondsPerDay + 23*lifetime.SecondsPerHour + 59*lifetime.SecondsPerMinute + 59
		assert.Equal(t, Breakdown{Years: 2, Months: 11, Days: 29, Hours: 23, Minutes: 59, Seconds: 59}, Decompose(total))
	})

	t.Run("the last five days of a year fall into month 12", func(t *testing.T) {
		b := Decompose(lifetime.SecondsPerYear - 1)
		assert.Equal(t, int64(0), b.Years)
		assert.Equal(t, int64(12), b.Months)
		assert.Equal(t, int64(4), b.Days)
	})

	t.Run("zero and negative", func(t *testing.T) {
		assert.Equal(t, Breakdown{}, Decompose(0))
		assert.Equal(t, Breakdown{}, Decompose(-100))
	})
}

func TestDecomposeRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	seeds := []int64{0, 1, 59, 60, 3599, 3600, 86399, 86400, lifetime.SecondsPerMonth, lifetime.SecondsPerYear, 2555992800}
	for range 500 {
		seeds = append(seeds, rng.Int63n(150*lifetime.SecondsPerYear))
	}
	for _, s := range seeds {
		b := Decompose(s)
		if b.TotalSeconds() != s {
			t.Fatalf("seed %d decomposed to %+v which sums to %d", s, b, b.TotalSeconds())
		}
		if b.Seconds >= 60 || b.Minutes >= 60 || b.Hours >= 24 || b.Days >= 30 || b.Months > 12 {
			t.Fatalf("seed %d produced out-of-range unit %+v", s, b)
		}
	}
}

func TestFormatField(t *testing.T) {
	assert.Equal(t, "00", FormatField(0))
	assert.Equal(t, "07", FormatField(7))
	assert.Equal(t, "42", FormatField(42))
	assert.Equal(t, "100", FormatField(100))
	assert.Equal(t, [6]string{"00", "00", "01", "01", "01", "01"}, Decompose(90061).Fields())
}
