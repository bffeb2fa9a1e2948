package csvfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/domain"
	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/pipeline"
)

func writeMatrix(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestSourceFetch(t *testing.T) {
	t.Run("loads the three matrices", func(t *testing.T) {
		dir := t.TempDir()
		writeMatrix(t, dir, "lat.csv", ",G01\n2024-04-26 15:00:00,13.7\n")
		writeMatrix(t, dir, "lon.csv", ",G01\n2024-04-26 15:00:00,100.5\n")
		writeMatrix(t, dir, "s4c.csv", ",G01\n2024-04-26 15:00:00,0.42\n")
		source := NewSource(dir, "lat.csv", "lon.csv", "s4c.csv")

		batch, err := source.Fetch(context.Background())

		require.NoError(t, err)
		records := domain.Merge(batch)
		require.Len(t, records, 1)
		assert.Equal(t, 0.42, records[0].S4C)
	})

	t.Run("missing file names which matrix failed", func(t *testing.T) {
		dir := t.TempDir()
		writeMatrix(t, dir, "lat.csv", ",G01\n2024-04-26 15:00:00,13.7\n")
		writeMatrix(t, dir, "s4c.csv", ",G01\n2024-04-26 15:00:00,0.42\n")
		source := NewSource(dir, "lat.csv", "lon.csv", "s4c.csv")

		_, err := source.Fetch(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "open longitude file")
	})
}

func TestSinkDeliver(t *testing.T) {
	t.Run("writes the normalized records as CSV", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out", "data.csv")
		sink := NewSink(path)
		res := &pipeline.Result{Normalized: []domain.NormalizedRecord{
			{Satellite: "G01", Time: "2024-04-26 15:00:00", S4C: 0.42, Lat: 13.7, Lon: 100.5},
		}}

		require.NoError(t, sink.Deliver(context.Background(), res))

		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "Satellite,Time,S4C,Lat,Lon\nG01,2024-04-26 15:00:00,0.42,13.7,100.5\n", string(raw))
	})

	t.Run("overwrite leaves no temp files behind", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "data.csv")
		sink := NewSink(path)
		res := &pipeline.Result{Normalized: []domain.NormalizedRecord{
			{Satellite: "G01", Time: "2024-04-26 15:00:00", S4C: 0.1, Lat: 1, Lon: 2},
		}}

		require.NoError(t, sink.Deliver(context.Background(), res))
		require.NoError(t, sink.Deliver(context.Background(), res))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "data.csv", entries[0].Name())
	})
}
