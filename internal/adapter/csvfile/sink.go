package csvfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/domain"
	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/pipeline"
)

// Sink writes a batch's normalized records to a CSV file. It implements
// pipeline.ResultSink.
type Sink struct {
	path string
}

func NewSink(path string) *Sink {
	return &Sink{path: path}
}

func (s *Sink) Name() string { return "csv-file" }

// Deliver rewrites the output file atomically: temp file in the same
// directory, then rename.
func (s *Sink) Deliver(_ context.Context, res *pipeline.Result) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".data-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(domain.MarshalRecordsCSV(res.Normalized)); err != nil {
		tmp.Close()
		return fmt.Errorf("write records: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}
