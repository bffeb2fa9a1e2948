package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// scintillation pipeline.
type Metrics struct {
	CyclesTotal   prometheus.Counter
	CycleFailures prometheus.Counter
	CyclesSkipped prometheus.Counter
	RecordsMerged prometheus.Counter
	AnalyzeCalls  prometheus.Counter

	CycleDuration   prometheus.Histogram
	DataCoverage    prometheus.Gauge
	PipelineRunning prometheus.Gauge

	// Alert log metrics.
	AlertLogWrites  *prometheus.CounterVec // labels: action={append,replace,noop}
	AlertCandidates prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		CyclesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "s4c_pipeline",
			Name:      "cycles_total",
			Help:      "Total processing cycles attempted.",
		}),
		CycleFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "s4c_pipeline",
			Name:      "cycle_failures_total",
			Help:      "Total processing cycles aborted by an error.",
		}),
		CyclesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "s4c_pipeline",
			Name:      "cycles_skipped_total",
			Help:      "Total ticks skipped because the previous cycle was still running.",
		}),
		RecordsMerged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "s4c_pipeline",
			Name:      "records_merged_total",
			Help:      "Total dense records produced by the three-way merge.",
		}),
		AnalyzeCalls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "s4c_pipeline",
			Name:      "analyze_calls_total",
			Help:      "Total batch analyses performed.",
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "s4c_pipeline",
			Name:      "cycle_duration_seconds",
			Help:      "Duration of a complete load-analyze-deliver cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		DataCoverage: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "s4c_pipeline",
			Name:      "data_coverage_percent",
			Help:      "Coverage of the last batch: merged records over possible cells.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "s4c_pipeline",
			Name:      "running",
			Help:      "1 when the cycle driver is active, 0 when shut down.",
		}),
		AlertLogWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "s4c_pipeline",
			Name:      "alert_log_writes_total",
			Help:      "Alert log outcomes by action.",
		}, []string{"action"}),
		AlertCandidates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "s4c_pipeline",
			Name:      "alert_candidates_total",
			Help:      "Total records at or above the alert threshold.",
		}),
	}

	prometheus.MustRegister(
		m.CyclesTotal,
		m.CycleFailures,
		m.CyclesSkipped,
		m.RecordsMerged,
		m.AnalyzeCalls,
		m.CycleDuration,
		m.DataCoverage,
		m.PipelineRunning,
		m.AlertLogWrites,
		m.AlertCandidates,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		CyclesTotal:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "s4c_pipeline", Name: "cycles_total"}),
		CycleFailures:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "s4c_pipeline", Name: "cycle_failures_total"}),
		CyclesSkipped:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "s4c_pipeline", Name: "cycles_skipped_total"}),
		RecordsMerged:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "s4c_pipeline", Name: "records_merged_total"}),
		AnalyzeCalls:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "s4c_pipeline", Name: "analyze_calls_total"}),
		CycleDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "s4c_pipeline", Name: "cycle_duration_seconds"}),
		DataCoverage:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "s4c_pipeline", Name: "data_coverage_percent"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "s4c_pipeline", Name: "running"}),
		AlertLogWrites:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "s4c_pipeline", Name: "alert_log_writes_total"}, []string{"action"}),
		AlertCandidates: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "s4c_pipeline", Name: "alert_candidates_total"}),
	}
}
