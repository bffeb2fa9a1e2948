package domain

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// recordHeader is the fixed column order of every persisted record table
// (data.csv and the alert log).
var recordHeader = []string{"Satellite", "Time", "S4C", "Lat", "Lon"}

// MarshalRecordsCSV renders normalized records as a CSV table with the
// canonical header and column order.
func MarshalRecordsCSV(records []NormalizedRecord) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write(recordHeader) //nolint:errcheck // bytes.Buffer writes cannot fail
	for _, rec := range records {
		w.Write([]string{ //nolint:errcheck
			rec.Satellite,
			rec.Time,
			formatFloat(rec.S4C),
			formatFloat(rec.Lat),
			formatFloat(rec.Lon),
		})
	}
	w.Flush()
	return buf.Bytes()
}

// UnmarshalRecordsCSV parses a CSV table produced by MarshalRecordsCSV.
// A missing or wrong header, short rows, and non-numeric cells are errors;
// the caller decides whether a damaged table is fatal or recoverable.
func UnmarshalRecordsCSV(r io.Reader) ([]NormalizedRecord, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read record csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("read record csv: missing header")
	}
	if len(rows[0]) != len(recordHeader) {
		return nil, fmt.Errorf("read record csv: unexpected header %v", rows[0])
	}
	for i, col := range recordHeader {
		if rows[0][i] != col {
			return nil, fmt.Errorf("read record csv: unexpected header %v", rows[0])
		}
	}

	records := make([]NormalizedRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		s4c, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: parse S4C: %w", i+2, err)
		}
		lat, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: parse Lat: %w", i+2, err)
		}
		lon, err := strconv.ParseFloat(row[4], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: parse Lon: %w", i+2, err)
		}
		records = append(records, NormalizedRecord{
			Satellite: row[0],
			Time:      row[1],
			S4C:       s4c,
			Lat:       lat,
			Lon:       lon,
		})
	}
	return records, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
