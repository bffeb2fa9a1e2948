package domain

import (
	"sort"
	"time"
)

// Merge cross-references the three matrices cell by cell and returns the dense
// record sequence. For every latitude timestamp (ascending) and every active
// satellite (latitude column order), a record is emitted iff all three cells
// are present; incomplete triples are skipped silently. An empty result is a
// valid outcome, not an error.
func Merge(batch MatrixBatch) []MergedRecord {
	times := make([]time.Time, len(batch.Lat.Times))
	copy(times, batch.Lat.Times)
	sort.SliceStable(times, func(i, j int) bool { return times[i].Before(times[j]) })

	active := batch.ActiveSatellites()
	records := make([]MergedRecord, 0, len(times)*len(active))

	for _, ts := range times {
		for _, sat := range active {
			lat, ok := batch.Lat.Value(ts, sat)
			if !ok {
				continue
			}
			lon, ok := batch.Lon.Value(ts, sat)
			if !ok {
				continue
			}
			s4c, ok := batch.S4C.Value(ts, sat)
			if !ok {
				continue
			}
			records = append(records, MergedRecord{
				Timestamp: ts,
				Satellite: sat,
				Latitude:  lat,
				Longitude: lon,
				S4C:       s4c,
			})
		}
	}

	return records
}
