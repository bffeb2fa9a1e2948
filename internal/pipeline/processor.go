package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/alertlog"
	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/domain"
	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/observability"
)

// BatchSource fetches the three matrices of the next batch.
type BatchSource interface {
	Fetch(ctx context.Context) (domain.MatrixBatch, error)
}

// ResultSink delivers an analysis result downstream (CSV file, GitHub, Kafka).
type ResultSink interface {
	Name() string
	Deliver(ctx context.Context, res *Result) error
}

// AlertApplier merges a batch's normalized records into the persisted alert
// log. Implemented by alertlog.Manager.
type AlertApplier interface {
	Apply(records []domain.NormalizedRecord) (alertlog.Outcome, error)
}

// Processor drives the periodic cycle: fetch, analyze, deliver, then update
// the alert log. The alert log write runs last so an aborted cycle leaves it
// untouched.
type Processor struct {
	source   BatchSource
	sinks    []ResultSink
	alerts   AlertApplier
	analyzer *Analyzer
	logger   *slog.Logger
	metrics  *observability.Metrics
	interval time.Duration

	// mu enforces the one-at-a-time cycle guarantee; a tick that arrives
	// while a cycle is running is skipped, not queued.
	mu    sync.Mutex
	ready bool
}

// NewProcessor assembles a cycle driver.
func NewProcessor(
	source BatchSource,
	sinks []ResultSink,
	alerts AlertApplier,
	analyzer *Analyzer,
	logger *slog.Logger,
	metrics *observability.Metrics,
	interval time.Duration,
) *Processor {
	return &Processor{
		source:   source,
		sinks:    sinks,
		alerts:   alerts,
		analyzer: analyzer,
		logger:   logger,
		metrics:  metrics,
		interval: interval,
	}
}

// CheckReadiness returns nil once at least one cycle has completed.
func (p *Processor) CheckReadiness(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ready {
		return errors.New("no processing cycle has completed yet")
	}
	return nil
}

// Run executes one cycle immediately, then one per interval until the context
// is cancelled. Cycle errors are logged and counted, not fatal: the next tick
// retries from scratch.
func (p *Processor) Run(ctx context.Context) error {
	p.logger.Info("processor started", "interval", p.interval)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	p.cycle(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("processor stopping", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			p.cycle(ctx)
		}
	}
}

func (p *Processor) cycle(ctx context.Context) {
	if err := p.RunCycle(ctx); err != nil && ctx.Err() == nil {
		p.logger.Error("cycle failed", "error", err)
	}
}

// RunCycle performs a single full cycle. If a cycle is already in progress
// the call is skipped and returns nil.
func (p *Processor) RunCycle(ctx context.Context) error {
	if !p.mu.TryLock() {
		p.logger.Warn("previous cycle still running, skipping tick")
		p.metrics.CyclesSkipped.Inc()
		return nil
	}
	defer p.mu.Unlock()

	start := time.Now()
	p.metrics.CyclesTotal.Inc()

	err := p.runLocked(ctx)
	if err != nil {
		p.metrics.CycleFailures.Inc()
		return err
	}

	p.metrics.CycleDuration.Observe(time.Since(start).Seconds())
	p.ready = true
	return nil
}

func (p *Processor) runLocked(ctx context.Context) error {
	batch, err := p.source.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch batch: %w", err)
	}

	res, err := p.analyzer.Analyze(ctx, batch)
	if err != nil {
		return fmt.Errorf("analyze batch: %w", err)
	}
	p.metrics.DataCoverage.Set(res.Summary.DataOverview.Completeness)

	// Deliver all outputs before touching the alert log: a failed delivery
	// aborts the cycle with the log unchanged.
	for _, sink := range p.sinks {
		if err := sink.Deliver(ctx, res); err != nil {
			return fmt.Errorf("deliver to %s: %w", sink.Name(), err)
		}
	}

	outcome, err := p.alerts.Apply(res.Normalized)
	if err != nil {
		return fmt.Errorf("apply alert log: %w", err)
	}
	p.metrics.AlertLogWrites.WithLabelValues(string(outcome.Action)).Inc()
	p.metrics.AlertCandidates.Add(float64(outcome.Candidates))

	p.logger.Info("cycle complete",
		"records", len(res.Normalized),
		"alert_action", string(outcome.Action),
		"alert_candidates", outcome.Candidates,
		"alert_log_total", outcome.Total,
	)
	return nil
}
