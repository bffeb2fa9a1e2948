package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordAt(t *testing.T, ts, sat string, s4c float64) MergedRecord {
	t.Helper()
	parsed, err := time.ParseInLocation(TimeLayout, ts, time.UTC)
	require.NoError(t, err)
	return MergedRecord{Timestamp: parsed, Satellite: sat, Latitude: 13.7, Longitude: 100.5, S4C: s4c}
}

func TestRound6(t *testing.T) {
	tests := []struct {
		name     string
		in       float64
		expected float64
	}{
		{"rounds to six decimals", 0.12345678, 0.123457},
		{"rounds down", 0.1234561, 0.123456},
		{"negative rounds away from zero", -0.12345678, -0.123457},
		{"already six decimals", 0.123456, 0.123456},
		{"idempotent", Round6(0.98765432), 0.987654},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Round6(tt.in))
		})
	}
}

func TestSatelliteStats(t *testing.T) {
	t.Run("groups by satellite sorted by ID", func(t *testing.T) {
		records := []MergedRecord{
			recordAt(t, "2024-04-26 15:00:00", "G05", 0.1),
			recordAt(t, "2024-04-26 15:00:15", "G05", 0.2),
			recordAt(t, "2024-04-26 15:00:30", "G05", 0.3),
			recordAt(t, "2024-04-26 15:00:00", "G02", 0.5),
		}

		stats := SatelliteStats(records)

		require.Len(t, stats, 2)
		assert.Equal(t, "G02", stats[0].Satellite)
		assert.Equal(t, "G05", stats[1].Satellite)

		g05 := stats[1]
		assert.Equal(t, 3, g05.Count)
		assert.InDelta(t, 0.2, g05.Mean, 1e-9)
		require.NotNil(t, g05.Std)
		assert.InDelta(t, 0.1, *g05.Std, 1e-9)
		assert.Equal(t, 0.1, g05.Min)
		assert.Equal(t, 0.3, g05.Max)
	})

	t.Run("single record yields nil std, not zero", func(t *testing.T) {
		stats := SatelliteStats([]MergedRecord{
			recordAt(t, "2024-04-26 15:00:00", "G01", 0.42),
		})

		require.Len(t, stats, 1)
		assert.Equal(t, 1, stats[0].Count)
		assert.Nil(t, stats[0].Std)
		assert.Equal(t, 0.42, stats[0].Mean)
	})

	t.Run("empty input yields empty stats", func(t *testing.T) {
		assert.Empty(t, SatelliteStats(nil))
	})
}

func TestTemporalStats(t *testing.T) {
	t.Run("buckets align to absolute minute boundaries", func(t *testing.T) {
		records := []MergedRecord{
			recordAt(t, "2024-04-26 15:00:10", "G01", 0.1),
			recordAt(t, "2024-04-26 15:00:50", "G02", 0.3),
			recordAt(t, "2024-04-26 15:01:05", "G01", 0.2),
		}

		stats := TemporalStats(records)

		require.Len(t, stats, 2)
		assert.Equal(t, time.Date(2024, 4, 26, 15, 0, 0, 0, time.UTC), stats[0].BucketStart)
		assert.Equal(t, 2, stats[0].Count)
		assert.InDelta(t, 0.2, stats[0].Mean, 1e-9)
		require.NotNil(t, stats[0].Std)

		assert.Equal(t, time.Date(2024, 4, 26, 15, 1, 0, 0, time.UTC), stats[1].BucketStart)
		assert.Equal(t, 1, stats[1].Count)
		assert.Nil(t, stats[1].Std, "single-record bucket has undefined std")
	})

	t.Run("empty buckets are omitted", func(t *testing.T) {
		records := []MergedRecord{
			recordAt(t, "2024-04-26 15:00:00", "G01", 0.1),
			recordAt(t, "2024-04-26 15:05:00", "G01", 0.2),
		}

		stats := TemporalStats(records)

		require.Len(t, stats, 2, "intermediate minutes must not appear")
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, TemporalStats(nil))
	})
}
