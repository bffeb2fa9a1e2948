// Package csvfile reads matrix batches from and writes record tables to the
// local filesystem.
package csvfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/domain"
)

// Source loads the three matrix CSVs of a batch from a data directory.
// It implements pipeline.BatchSource.
type Source struct {
	dir     string
	latFile string
	lonFile string
	s4cFile string
}

func NewSource(dir, latFile, lonFile, s4cFile string) *Source {
	return &Source{dir: dir, latFile: latFile, lonFile: lonFile, s4cFile: s4cFile}
}

// Fetch opens and parses the three matrices. A missing or malformed file
// fails the batch; the next cycle retries from scratch.
func (s *Source) Fetch(_ context.Context) (domain.MatrixBatch, error) {
	lat, err := os.Open(filepath.Join(s.dir, s.latFile))
	if err != nil {
		return domain.MatrixBatch{}, fmt.Errorf("open latitude file: %w", err)
	}
	defer lat.Close()

	lon, err := os.Open(filepath.Join(s.dir, s.lonFile))
	if err != nil {
		return domain.MatrixBatch{}, fmt.Errorf("open longitude file: %w", err)
	}
	defer lon.Close()

	s4c, err := os.Open(filepath.Join(s.dir, s.s4cFile))
	if err != nil {
		return domain.MatrixBatch{}, fmt.Errorf("open s4c file: %w", err)
	}
	defer s4c.Close()

	return domain.LoadBatch(lat, lon, s4c)
}
