// Package pipeline orchestrates the merge/transform/statistics pipeline over
// one batch of matrices and drives the periodic processing cycle around it.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/domain"
	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/observability"
)

// Result is the complete output of one batch analysis. It is an explicit
// value object: the pipeline holds no state between calls, and callers decide
// where (or whether) to keep the result.
type Result struct {
	Merged     []domain.MergedRecord     `json:"merged"`
	Normalized []domain.NormalizedRecord `json:"normalized"`
	Envelope   domain.Envelope           `json:"envelope"`
	Satellite  []domain.SatelliteStat    `json:"satellite_stats"`
	Temporal   []domain.TemporalStat     `json:"temporal_stats"`
	Summary    domain.ProcessingSummary  `json:"summary"`
}

// Analyzer runs the core pipeline stages in order.
type Analyzer struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewAnalyzer creates an Analyzer with the given observability.
func NewAnalyzer(logger *slog.Logger, metrics *observability.Metrics) *Analyzer {
	return &Analyzer{logger: logger, metrics: metrics}
}

// Analyze merges the batch, computes both statistical reductions, normalizes
// the records, and assembles the response envelope. An empty merge result is
// a valid outcome and flows through every stage as empty collections.
func (a *Analyzer) Analyze(ctx context.Context, batch domain.MatrixBatch) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if rep := batch.AlignmentReport(); !rep.Aligned() {
		a.logger.Warn("matrix indices misaligned, mismatched cells merge as missing",
			"lon_missing_columns", rep.LonMissingColumns,
			"s4c_missing_columns", rep.S4CMissingColumns,
			"lon_missing_rows", rep.LonMissingRows,
			"s4c_missing_rows", rep.S4CMissingRows,
		)
	}

	merged := domain.Merge(batch)
	normalized := domain.Normalize(merged)

	a.metrics.AnalyzeCalls.Inc()
	a.metrics.RecordsMerged.Add(float64(len(merged)))

	res := &Result{
		Merged:     merged,
		Normalized: normalized,
		Envelope:   domain.BuildEnvelope(batch, normalized),
		Satellite:  domain.SatelliteStats(merged),
		Temporal:   domain.TemporalStats(merged),
		Summary:    domain.Summarize(batch, normalized),
	}

	a.logger.Info("batch analyzed",
		"merged", len(merged),
		"active_satellites", len(batch.ActiveSatellites()),
		"coverage", res.Envelope.DataCoverage,
	)
	return res, nil
}
