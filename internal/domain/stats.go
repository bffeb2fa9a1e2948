package domain

import (
	"math"
	"sort"
	"time"
)

// Round6 rounds to six decimal places, half away from zero. The same rounding
// is applied by the normalizer and by both statistics reductions so boundary
// values compare consistently across outputs.
func Round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

// SatelliteStats groups the merged records by satellite and reduces the S4C
// column to count/mean/std/min/max, sorted by satellite identifier.
// The reductions run over the raw values, before output rounding.
func SatelliteStats(records []MergedRecord) []SatelliteStat {
	groups := make(map[string][]float64)
	for _, rec := range records {
		groups[rec.Satellite] = append(groups[rec.Satellite], rec.S4C)
	}

	sats := make([]string, 0, len(groups))
	for sat := range groups {
		sats = append(sats, sat)
	}
	sort.Strings(sats)

	stats := make([]SatelliteStat, 0, len(sats))
	for _, sat := range sats {
		values := groups[sat]
		mn, mx := values[0], values[0]
		for _, v := range values[1:] {
			mn = math.Min(mn, v)
			mx = math.Max(mx, v)
		}
		stats = append(stats, SatelliteStat{
			Satellite: sat,
			Count:     len(values),
			Mean:      Round6(mean(values)),
			Std:       roundedStd(values),
			Min:       Round6(mn),
			Max:       Round6(mx),
		})
	}
	return stats
}

// TemporalStats buckets the merged records into fixed one-minute windows
// aligned to absolute clock boundaries and reduces the S4C column per bucket.
// Empty buckets are omitted; the result is sorted by bucket start.
func TemporalStats(records []MergedRecord) []TemporalStat {
	groups := make(map[time.Time][]float64)
	for _, rec := range records {
		bucket := rec.Timestamp.UTC().Truncate(time.Minute)
		groups[bucket] = append(groups[bucket], rec.S4C)
	}

	buckets := make([]time.Time, 0, len(groups))
	for b := range groups {
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Before(buckets[j]) })

	stats := make([]TemporalStat, 0, len(buckets))
	for _, b := range buckets {
		values := groups[b]
		stats = append(stats, TemporalStat{
			BucketStart: b,
			Count:       len(values),
			Mean:        Round6(mean(values)),
			Std:         roundedStd(values),
		})
	}
	return stats
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStd returns the sample (n-1 denominator) standard deviation, or nil
// for fewer than two values, where it is undefined. The nil is preserved
// through serialization as a JSON null rather than coerced to zero.
func sampleStd(values []float64) *float64 {
	if len(values) < 2 {
		return nil
	}
	m := mean(values)
	var ss float64
	for _, v := range values {
		d := v - m
		ss += d * d
	}
	std := math.Sqrt(ss / float64(len(values)-1))
	return &std
}

func roundedStd(values []float64) *float64 {
	std := sampleStd(values)
	if std == nil {
		return nil
	}
	r := Round6(*std)
	return &r
}
