package domain

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// timestampLayouts are tried in order when parsing row labels.
// All layouts without an explicit zone are interpreted as UTC.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Matrix is a sparse table keyed by (timestamp row, satellite column).
// Times and Satellites preserve file order; absent cells simply have no entry.
type Matrix struct {
	Times      []time.Time
	Satellites []string
	cells      map[cellKey]float64
}

type cellKey struct {
	unix int64
	sat  string
}

// ParseMatrix reads a time-indexed CSV: the first header cell is an index
// label (often blank), the remaining header cells are satellite identifiers,
// and the first cell of every data row is a timestamp. Empty, "NaN", and
// non-numeric cells are treated as missing values. A row label that does not
// parse as a timestamp fails the load.
func ParseMatrix(r io.Reader) (*Matrix, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read matrix csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("read matrix csv: empty input")
	}

	header := rows[0]
	sats := make([]string, 0, len(header))
	for _, col := range header[1:] {
		sats = append(sats, strings.TrimSpace(col))
	}

	m := &Matrix{
		Satellites: sats,
		cells:      make(map[cellKey]float64),
	}

	for i, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		ts, err := parseTimestamp(row[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: parse timestamp %q: %w", i+2, row[0], err)
		}
		m.Times = append(m.Times, ts)
		for j, cell := range row[1:] {
			if j >= len(sats) {
				break
			}
			if v, ok := parseCell(cell); ok {
				m.cells[cellKey{unix: ts.UnixNano(), sat: sats[j]}] = v
			}
		}
	}

	return m, nil
}

// Value returns the cell for (t, sat) and whether it is present.
func (m *Matrix) Value(t time.Time, sat string) (float64, bool) {
	v, ok := m.cells[cellKey{unix: t.UnixNano(), sat: sat}]
	return v, ok
}

// HasColumn reports whether sat appears in the matrix header.
func (m *Matrix) HasColumn(sat string) bool {
	for _, s := range m.Satellites {
		if s == sat {
			return true
		}
	}
	return false
}

// HasRow reports whether t appears in the matrix index.
func (m *Matrix) HasRow(t time.Time) bool {
	for _, ts := range m.Times {
		if ts.Equal(t) {
			return true
		}
	}
	return false
}

// activeColumns returns the columns with at least one present value,
// in header order.
func (m *Matrix) activeColumns() []string {
	active := make([]string, 0, len(m.Satellites))
	for _, sat := range m.Satellites {
		for _, t := range m.Times {
			if _, ok := m.Value(t, sat); ok {
				active = append(active, sat)
				break
			}
		}
	}
	return active
}

func parseTimestamp(label string) (time.Time, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return time.Time{}, fmt.Errorf("empty label")
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, label, time.UTC); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp format")
}

func parseCell(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// MatrixBatch bundles the three aligned matrices of one processing batch.
// The active satellite set is derived from the latitude matrix at construction
// and is immutable afterwards.
type MatrixBatch struct {
	Lat *Matrix
	Lon *Matrix
	S4C *Matrix

	active []string
}

// NewBatch builds a batch and computes its active satellites: latitude
// columns with at least one present value.
func NewBatch(lat, lon, s4c *Matrix) MatrixBatch {
	return MatrixBatch{
		Lat:    lat,
		Lon:    lon,
		S4C:    s4c,
		active: lat.activeColumns(),
	}
}

// LoadBatch parses the three matrix CSVs and builds a batch.
func LoadBatch(lat, lon, s4c io.Reader) (MatrixBatch, error) {
	latM, err := ParseMatrix(lat)
	if err != nil {
		return MatrixBatch{}, fmt.Errorf("latitude matrix: %w", err)
	}
	lonM, err := ParseMatrix(lon)
	if err != nil {
		return MatrixBatch{}, fmt.Errorf("longitude matrix: %w", err)
	}
	s4cM, err := ParseMatrix(s4c)
	if err != nil {
		return MatrixBatch{}, fmt.Errorf("s4c matrix: %w", err)
	}
	return NewBatch(latM, lonM, s4cM), nil
}

// ActiveSatellites returns the active satellite set in latitude column order.
func (b MatrixBatch) ActiveSatellites() []string {
	return b.active
}

// AlignmentReport describes how far the longitude and S4C matrices diverge
// from the latitude matrix's index and column universe. Mismatches are not
// load errors: the merger degrades them to missing records. The report exists
// so callers can log the condition.
type AlignmentReport struct {
	LonMissingColumns []string
	S4CMissingColumns []string
	LonMissingRows    int
	S4CMissingRows    int
}

// Aligned reports whether the three matrices share the latitude matrix's
// timestamp index and column universe.
func (r AlignmentReport) Aligned() bool {
	return len(r.LonMissingColumns) == 0 && len(r.S4CMissingColumns) == 0 &&
		r.LonMissingRows == 0 && r.S4CMissingRows == 0
}

// AlignmentReport compares the longitude and S4C matrices against the
// latitude matrix.
func (b MatrixBatch) AlignmentReport() AlignmentReport {
	var rep AlignmentReport
	for _, sat := range b.Lat.Satellites {
		if !b.Lon.HasColumn(sat) {
			rep.LonMissingColumns = append(rep.LonMissingColumns, sat)
		}
		if !b.S4C.HasColumn(sat) {
			rep.S4CMissingColumns = append(rep.S4CMissingColumns, sat)
		}
	}
	for _, t := range b.Lat.Times {
		if !b.Lon.HasRow(t) {
			rep.LonMissingRows++
		}
		if !b.S4C.HasRow(t) {
			rep.S4CMissingRows++
		}
	}
	return rep
}
