// Package alertlog maintains the persisted log of high-scintillation events.
//
// The log is a flat CSV table (Satellite, Time, S4C, Lat, Lon) that outlives
// the process. Each processing cycle filters the batch's normalized records
// against the alert threshold and merges the survivors into the log: appended
// while the log's newest entry (the anchor) is fresh, replacing the log
// wholesale once the anchor has aged past the retention window. The log is a
// derived cache, not a source of truth, so an unreadable or damaged log is
// overwritten rather than surfaced as an error.
package alertlog

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/domain"
	"github.com/jonboulle/clockwork"
)

// DefaultThreshold is the S4C value at and above which a record qualifies as
// an alert entry.
const DefaultThreshold = 0.4

// Action describes what a call to Apply did to the persisted log.
type Action string

const (
	ActionNone    Action = "noop"
	ActionAppend  Action = "append"
	ActionReplace Action = "replace"
)

// Outcome reports the effect of one Apply cycle.
type Outcome struct {
	Action     Action
	Candidates int // qualifying records in the incoming batch
	Total      int // entries in the log after the cycle
}

// Manager owns the read-decide-write sequence over the alert log file.
// It is not safe for concurrent use; the cycle driver guarantees one
// Apply at a time.
type Manager struct {
	path      string
	threshold float64
	policy    Policy
	clock     clockwork.Clock
	logger    *slog.Logger
}

// New creates a Manager persisting to path. The clock decides anchor
// freshness; tests pass a fake.
func New(path string, threshold float64, policy Policy, clock clockwork.Clock, logger *slog.Logger) *Manager {
	return &Manager{
		path:      path,
		threshold: threshold,
		policy:    policy,
		clock:     clock,
		logger:    logger,
	}
}

// FilterAlerts returns the records whose S4C is at or above threshold.
// The boundary value itself qualifies.
func FilterAlerts(records []domain.NormalizedRecord, threshold float64) []domain.NormalizedRecord {
	out := make([]domain.NormalizedRecord, 0, len(records))
	for _, rec := range records {
		if rec.S4C >= threshold {
			out = append(out, rec)
		}
	}
	return out
}

// Apply merges one batch of normalized records into the persisted log.
//
// An empty candidate set leaves the file untouched, including skipping the
// staleness check. Otherwise the log is read, the retention policy decides
// append vs. replace from the anchor age, and the full log is rewritten
// atomically (write to a temp file, then rename).
func (m *Manager) Apply(records []domain.NormalizedRecord) (Outcome, error) {
	candidates := FilterAlerts(records, m.threshold)
	if len(candidates) == 0 {
		return Outcome{Action: ActionNone}, nil
	}

	existing := m.readExisting()

	action := ActionReplace
	entries := candidates
	if len(existing) > 0 {
		anchor, ok := maxEntryTime(existing)
		if ok {
			age := AnchorAgeDays(m.clock.Now(), anchor)
			if m.policy.Decide(age) == Append {
				action = ActionAppend
				entries = append(existing, candidates...)
			} else {
				m.logger.Info("alert log stale, replacing",
					"anchor", anchor.Format(domain.TimeLayout),
					"age_days", age,
					"discarded", len(existing),
				)
			}
		}
	}

	if err := m.writeAtomic(entries); err != nil {
		return Outcome{}, fmt.Errorf("write alert log: %w", err)
	}
	return Outcome{Action: action, Candidates: len(candidates), Total: len(entries)}, nil
}

// Entries returns the currently persisted log, empty when the log is absent.
func (m *Manager) Entries() ([]domain.NormalizedRecord, error) {
	f, err := os.Open(m.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open alert log: %w", err)
	}
	defer f.Close()
	return domain.UnmarshalRecordsCSV(f)
}

// readExisting loads the current log, treating a missing or unreadable file
// as empty. The log is derived data; overwriting beats failing the cycle.
func (m *Manager) readExisting() []domain.NormalizedRecord {
	f, err := os.Open(m.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		m.logger.Warn("alert log unreadable, starting fresh", "path", m.path, "error", err)
		return nil
	}
	defer f.Close()

	entries, err := domain.UnmarshalRecordsCSV(f)
	if err != nil {
		m.logger.Warn("alert log corrupt, starting fresh", "path", m.path, "error", err)
		return nil
	}
	return entries
}

// maxEntryTime returns the freshness anchor: the latest parseable Time value
// across the stored entries.
func maxEntryTime(entries []domain.NormalizedRecord) (time.Time, bool) {
	var anchor time.Time
	found := false
	for _, e := range entries {
		ts, err := time.ParseInLocation(domain.TimeLayout, e.Time, time.UTC)
		if err != nil {
			continue
		}
		if !found || ts.After(anchor) {
			anchor = ts
			found = true
		}
	}
	return anchor, found
}

// writeAtomic rewrites the log via a temp file in the same directory followed
// by a rename, so a concurrent reader never observes a partial log.
func (m *Manager) writeAtomic(entries []domain.NormalizedRecord) error {
	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".alertlog-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(domain.MarshalRecordsCSV(entries)); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), m.path)
}
