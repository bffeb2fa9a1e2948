package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const latCSV = `,G01,G02,G03
2024-04-26 15:00:00,13.75,14.20,
2024-04-26 15:00:15,13.76,,
2024-04-26 15:00:30,13.77,14.22,
`

func mustParse(t *testing.T, csv string) *Matrix {
	t.Helper()
	m, err := ParseMatrix(strings.NewReader(csv))
	require.NoError(t, err)
	return m
}

func TestParseMatrix(t *testing.T) {
	t.Run("well-formed matrix", func(t *testing.T) {
		m := mustParse(t, latCSV)

		assert.Equal(t, []string{"G01", "G02", "G03"}, m.Satellites)
		require.Len(t, m.Times, 3)
		assert.Equal(t, time.Date(2024, 4, 26, 15, 0, 0, 0, time.UTC), m.Times[0])

		v, ok := m.Value(m.Times[0], "G01")
		require.True(t, ok)
		assert.Equal(t, 13.75, v)

		_, ok = m.Value(m.Times[1], "G02")
		assert.False(t, ok, "empty cell must be missing")
	})

	t.Run("rfc3339 row labels", func(t *testing.T) {
		m := mustParse(t, ",G01\n2024-04-26T15:00:00Z,1.5\n")
		v, ok := m.Value(time.Date(2024, 4, 26, 15, 0, 0, 0, time.UTC), "G01")
		require.True(t, ok)
		assert.Equal(t, 1.5, v)
	})

	t.Run("NaN and non-numeric cells are missing", func(t *testing.T) {
		m := mustParse(t, ",G01,G02,G03\n2024-04-26 15:00:00,NaN,abc,0.5\n")
		_, ok := m.Value(m.Times[0], "G01")
		assert.False(t, ok)
		_, ok = m.Value(m.Times[0], "G02")
		assert.False(t, ok)
		_, ok = m.Value(m.Times[0], "G03")
		assert.True(t, ok)
	})

	t.Run("bad row label fails the load", func(t *testing.T) {
		_, err := ParseMatrix(strings.NewReader(",G01\nnot-a-time,1.0\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse timestamp")
		assert.Contains(t, err.Error(), "not-a-time")
	})

	t.Run("empty input fails", func(t *testing.T) {
		_, err := ParseMatrix(strings.NewReader(""))
		require.Error(t, err)
	})
}

func TestActiveSatellites(t *testing.T) {
	lat := mustParse(t, latCSV)
	lon := mustParse(t, latCSV)
	s4c := mustParse(t, latCSV)

	batch := NewBatch(lat, lon, s4c)

	// G03 has no latitude readings at all, so it is inactive.
	assert.Equal(t, []string{"G01", "G02"}, batch.ActiveSatellites())
}

func TestAlignmentReport(t *testing.T) {
	t.Run("aligned batch", func(t *testing.T) {
		batch := NewBatch(mustParse(t, latCSV), mustParse(t, latCSV), mustParse(t, latCSV))
		rep := batch.AlignmentReport()
		assert.True(t, rep.Aligned())
	})

	t.Run("missing column and row in s4c", func(t *testing.T) {
		s4c := mustParse(t, ",G01,G02\n2024-04-26 15:00:00,0.1,0.2\n")
		batch := NewBatch(mustParse(t, latCSV), mustParse(t, latCSV), s4c)

		rep := batch.AlignmentReport()
		assert.False(t, rep.Aligned())
		assert.Equal(t, []string{"G03"}, rep.S4CMissingColumns)
		assert.Equal(t, 2, rep.S4CMissingRows)
		assert.Empty(t, rep.LonMissingColumns)
		assert.Zero(t, rep.LonMissingRows)
	})
}

func TestLoadBatch(t *testing.T) {
	t.Run("loads all three", func(t *testing.T) {
		batch, err := LoadBatch(
			strings.NewReader(latCSV),
			strings.NewReader(latCSV),
			strings.NewReader(latCSV),
		)
		require.NoError(t, err)
		assert.Len(t, batch.Lat.Times, 3)
	})

	t.Run("names the failing matrix", func(t *testing.T) {
		_, err := LoadBatch(
			strings.NewReader(latCSV),
			strings.NewReader(",G01\nbogus,1\n"),
			strings.NewReader(latCSV),
		)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "longitude matrix")
	})
}
