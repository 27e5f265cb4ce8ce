package store

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifeclock/internal/lifespan/models"
)

func TestEncodeEntry(t *testing.T) {
	t.Run("missing statistic is the not-found marker", func(t *testing.T) {
		value, err := encodeEntry(nil)
		require.NoError(t, err)
		assert.Equal(t, notFoundMarker, value)
	})

	t.Run("statistic round-trips", func(t *testing.T) {
		value, err := encodeEntry(&models.Statistic{Sex: models.SexFemale, Year: 2022, Age: 87.09})
		require.NoError(t, err)

		var decoded models.Statistic
		require.NoError(t, json.Unmarshal([]byte(value), &decoded))
		assert.Equal(t, 87.09, decoded.Age)
	})

	t.Run("unencodable age is an error", func(t *testing.T) {
		_, err := encodeEntry(&models.Statistic{Sex: models.SexMale, Year: 2022, Age: math.NaN()})
		assert.Error(t, err)
	})
}
