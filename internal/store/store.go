// Package store keeps the most recent analysis result for the query
// endpoints. The pipeline itself stays stateless; whoever runs it decides
// where the result lives.
package store

import (
	"context"
	"errors"

	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/pipeline"
)

// ErrNoResult is returned by Latest before any analysis has been stored.
var ErrNoResult = errors.New("no analysis result available")

// ResultStore holds the latest pipeline result.
type ResultStore interface {
	Save(ctx context.Context, res *pipeline.Result) error
	Latest(ctx context.Context) (*pipeline.Result, error)
}

// Sink adapts a ResultStore to the pipeline's sink interface so the cycle
// driver publishes each result to the store like any other destination.
type Sink struct {
	store ResultStore
}

func NewSink(store ResultStore) *Sink {
	return &Sink{store: store}
}

func (s *Sink) Name() string { return "result-store" }

func (s *Sink) Deliver(ctx context.Context, res *pipeline.Result) error {
	return s.store.Save(ctx, res)
}
