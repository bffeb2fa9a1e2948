// Package domain models GPS scintillation receiver data and the core
// merge/transform/statistics pipeline over it.
//
// # Data Source
//
// A ground receiver exports three CSV matrices every 15 minutes: per-satellite
// latitude, longitude, and S4C amplitude scintillation index. All three share
// the same shape: rows are observation timestamps, columns are satellite
// identifiers (e.g. "G01" for GPS PRN 1), cells are numeric readings. A cell
// is empty when the satellite was not tracked at that epoch, so the matrices
// are sparse and their sparsity differs per signal.
//
// # Matrix Conventions
//
// Row labels:
//
//	"2006-01-02 15:04:05" second-precision timestamps, interpreted as UTC.
//	RFC 3339 and date-only labels are also accepted. A label that parses as
//	none of these fails the load; timestamps are the join key and cannot be
//	guessed.
//
// Missing values:
//
//	Empty cells, "NaN" (any case), and non-numeric text are all treated as
//	missing. Missing is an expected state, not an error.
//
// Active satellites:
//
//	A satellite is active in a batch iff its latitude column has at least one
//	present value. Only active columns are visited by the merge.
//
// Alignment:
//
//	The three matrices are expected to share one timestamp index and one
//	column universe, but this is deliberately not validated at load time: a
//	mismatched cell simply fails the three-way presence check and the record
//	is dropped. [MatrixBatch.AlignmentReport] makes the condition observable
//	for logging.
//
// # Merge Semantics
//
// [Merge] is a three-way inner join over optional-valued cells: a
// (timestamp, satellite) pair produces a [MergedRecord] iff latitude,
// longitude, and S4C are all present. Records come out sorted by timestamp
// ascending with ties in latitude column order, which keeps downstream
// aggregation and fixtures deterministic.
//
// # S4C Index
//
// S4C measures signal amplitude fluctuation severity. Values below 0.2 are
// quiet, 0.2-0.5 moderate, and 0.5 and above strong scintillation; 0.4 is the
// operational alerting threshold used by the alert log. All published numerics
// are rounded to six decimals, half away from zero ([Round6]).
package domain
