package domain

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// TimeLayout is the fixed wire format for the Time field. Lexicographic order
// over strings in this layout matches chronological order.
const TimeLayout = "2006-01-02 15:04:05"

// Normalize projects merged records into the external record shape: canonical
// field names, second-precision timestamp strings, and numerics rounded to six
// decimals. Records that still carry an unusable value (NaN/Inf coordinates,
// empty satellite, zero time) are dropped; given the merger's guarantees this
// filter is a no-op, but callers that bypass the merger get the same contract.
func Normalize(records []MergedRecord) []NormalizedRecord {
	out := make([]NormalizedRecord, 0, len(records))
	for _, rec := range records {
		if rec.Satellite == "" || rec.Timestamp.IsZero() {
			continue
		}
		if !isFinite(rec.S4C) || !isFinite(rec.Latitude) || !isFinite(rec.Longitude) {
			continue
		}
		out = append(out, NormalizedRecord{
			Satellite: rec.Satellite,
			Time:      rec.Timestamp.UTC().Truncate(time.Second).Format(TimeLayout),
			S4C:       Round6(rec.S4C),
			Lat:       Round6(rec.Latitude),
			Lon:       Round6(rec.Longitude),
		})
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Coverage formats the batch's data coverage: normalized records over the
// possible cell count (active satellites x latitude timestamps), as a
// percentage with two decimals. A zero denominator yields "0%".
func Coverage(batch MatrixBatch, normalized int) string {
	denom := len(batch.ActiveSatellites()) * len(batch.Lat.Times)
	if denom == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.2f%%", float64(normalized)/float64(denom)*100)
}

// BuildEnvelope assembles the response envelope for a batch's normalized
// records. Empty batches produce null statistics and an empty record list.
func BuildEnvelope(batch MatrixBatch, records []NormalizedRecord) Envelope {
	env := Envelope{
		Records:      records,
		DataCoverage: Coverage(batch, len(records)),
		Metadata: Metadata{
			TotalRecords:  len(records),
			SatelliteList: []string{},
		},
	}
	if len(records) == 0 {
		return env
	}

	satSet := make(map[string]struct{})
	minTime, maxTime := records[0].Time, records[0].Time
	s4c := make([]float64, 0, len(records))
	var latMin, latMax, lonMin, lonMax float64

	for i, rec := range records {
		satSet[rec.Satellite] = struct{}{}
		if rec.Time < minTime {
			minTime = rec.Time
		}
		if rec.Time > maxTime {
			maxTime = rec.Time
		}
		s4c = append(s4c, rec.S4C)
		if i == 0 {
			latMin, latMax = rec.Lat, rec.Lat
			lonMin, lonMax = rec.Lon, rec.Lon
			continue
		}
		latMin = math.Min(latMin, rec.Lat)
		latMax = math.Max(latMax, rec.Lat)
		lonMin = math.Min(lonMin, rec.Lon)
		lonMax = math.Max(lonMax, rec.Lon)
	}

	sats := make([]string, 0, len(satSet))
	for sat := range satSet {
		sats = append(sats, sat)
	}
	sort.Strings(sats)

	s4cMin, s4cMax := s4c[0], s4c[0]
	for _, v := range s4c[1:] {
		s4cMin = math.Min(s4cMin, v)
		s4cMax = math.Max(s4cMax, v)
	}
	s4cMean := mean(s4c)

	env.Metadata.UniqueSatellites = len(sats)
	env.Metadata.SatelliteList = sats
	env.Metadata.TimeRange = TimeRange{Start: &minTime, End: &maxTime}
	env.Metadata.S4CStatistics = S4CStats{
		Min:  &s4cMin,
		Max:  &s4cMax,
		Mean: &s4cMean,
		Std:  sampleStd(s4c),
	}
	env.Metadata.GeographicBounds = GeoBounds{
		LatMin: &latMin,
		LatMax: &latMax,
		LonMin: &lonMin,
		LonMax: &lonMax,
	}
	return env
}

// Summarize builds the processing quality report for a batch.
func Summarize(batch MatrixBatch, records []NormalizedRecord) ProcessingSummary {
	summary := ProcessingSummary{
		Status:      "completed",
		GeneratedAt: clock.Now().UTC().Format(TimeLayout),
		DataOverview: DataOverview{
			TotalRecords:     len(records),
			UniqueSatellites: len(batch.ActiveSatellites()),
		},
	}

	if denom := len(batch.ActiveSatellites()) * len(batch.Lat.Times); denom > 0 {
		pct := float64(len(records)) / float64(denom) * 100
		summary.DataOverview.Completeness = math.Round(pct*100) / 100
	}

	if len(records) == 0 {
		return summary
	}

	var dist ActivityDistribution
	var sum float64
	minTime, maxTime := records[0].Time, records[0].Time
	latMin, latMax := records[0].Lat, records[0].Lat
	lonMin, lonMax := records[0].Lon, records[0].Lon
	for _, rec := range records {
		switch {
		case rec.S4C < 0.2:
			dist.Low++
		case rec.S4C < 0.5:
			dist.Moderate++
		default:
			dist.High++
		}
		sum += rec.S4C
		if rec.Time < minTime {
			minTime = rec.Time
		}
		if rec.Time > maxTime {
			maxTime = rec.Time
		}
		latMin = math.Min(latMin, rec.Lat)
		latMax = math.Max(latMax, rec.Lat)
		lonMin = math.Min(lonMin, rec.Lon)
		lonMax = math.Max(lonMax, rec.Lon)
	}

	summary.DataOverview.TimeSpanMinutes = timeSpanMinutes(minTime, maxTime)
	summary.Scintillation = ScintillationAnalysis{
		Distribution:  dist,
		DominantLevel: dominantLevel(dist),
		AverageS4C:    Round6(sum / float64(len(records))),
	}
	summary.Spatial = SpatialCoverage{
		LatitudeRange:  math.Round((latMax-latMin)*1e4) / 1e4,
		LongitudeRange: math.Round((lonMax-lonMin)*1e4) / 1e4,
	}
	return summary
}

func timeSpanMinutes(minTime, maxTime string) float64 {
	start, err1 := time.ParseInLocation(TimeLayout, minTime, time.UTC)
	end, err2 := time.ParseInLocation(TimeLayout, maxTime, time.UTC)
	if err1 != nil || err2 != nil {
		return 0
	}
	minutes := end.Sub(start).Minutes()
	return math.Round(minutes*100) / 100
}

// dominantLevel returns the band with the highest count; ties resolve in
// low, moderate, high order.
func dominantLevel(dist ActivityDistribution) string {
	level, count := "low", dist.Low
	if dist.Moderate > count {
		level, count = "moderate", dist.Moderate
	}
	if dist.High > count {
		level = "high"
	}
	return level
}
