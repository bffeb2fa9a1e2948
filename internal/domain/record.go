package domain

import "time"

// MergedRecord is one dense (timestamp, satellite) observation produced by the
// merge stage. Every field is present by construction: the merger only emits a
// record when all three source matrices carry a value for the cell.
type MergedRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Satellite string    `json:"satellite"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	S4C       float64   `json:"s4c"`
}

// NormalizedRecord is the stable external record shape used on the wire and in
// the persisted CSV outputs. Time is rendered as "YYYY-MM-DD HH:MM:SS" with
// sub-second precision truncated; the numeric fields carry at most six decimal
// digits.
type NormalizedRecord struct {
	Satellite string  `json:"Satellite"`
	Time      string  `json:"Time"`
	S4C       float64 `json:"S4C"`
	Lat       float64 `json:"Lat"`
	Lon       float64 `json:"Lon"`
}

// SatelliteStat summarizes the S4C column for one satellite.
// Std is nil when the group has fewer than two records, since the sample
// standard deviation is undefined there.
type SatelliteStat struct {
	Satellite string   `json:"satellite"`
	Count     int      `json:"count"`
	Mean      float64  `json:"mean"`
	Std       *float64 `json:"std"`
	Min       float64  `json:"min"`
	Max       float64  `json:"max"`
}

// TemporalStat summarizes the S4C column for one absolute one-minute bucket.
// Buckets with no records are omitted rather than emitted zero-filled.
type TemporalStat struct {
	BucketStart time.Time `json:"bucket_start"`
	Count       int       `json:"count"`
	Mean        float64   `json:"mean"`
	Std         *float64  `json:"std"`
}

// Envelope is the response shape consumed by the presentation layer.
type Envelope struct {
	Records      []NormalizedRecord `json:"records"`
	Metadata     Metadata           `json:"metadata"`
	DataCoverage string             `json:"data_coverage"`
}

// Metadata carries summary figures derived from the normalized records.
// Pointer fields are null in the empty-batch case instead of zero-filled.
type Metadata struct {
	TotalRecords     int       `json:"total_records"`
	UniqueSatellites int       `json:"unique_satellites"`
	SatelliteList    []string  `json:"satellite_list"`
	TimeRange        TimeRange `json:"time_range"`
	S4CStatistics    S4CStats  `json:"s4c_statistics"`
	GeographicBounds GeoBounds `json:"geographic_bounds"`
}

// TimeRange is the lexicographic min/max of the Time field, which matches
// chronological order given the fixed timestamp format.
type TimeRange struct {
	Start *string `json:"start"`
	End   *string `json:"end"`
}

type S4CStats struct {
	Min  *float64 `json:"min"`
	Max  *float64 `json:"max"`
	Mean *float64 `json:"mean"`
	Std  *float64 `json:"std"`
}

type GeoBounds struct {
	LatMin *float64 `json:"lat_min"`
	LatMax *float64 `json:"lat_max"`
	LonMin *float64 `json:"lon_min"`
	LonMax *float64 `json:"lon_max"`
}

// ProcessingSummary is a compact quality report over one processed batch.
type ProcessingSummary struct {
	Status        string                `json:"processing_status"`
	GeneratedAt   string                `json:"generated_at"`
	DataOverview  DataOverview          `json:"data_overview"`
	Scintillation ScintillationAnalysis `json:"scintillation_analysis"`
	Spatial       SpatialCoverage       `json:"spatial_coverage"`
}

type DataOverview struct {
	TotalRecords     int     `json:"total_records"`
	UniqueSatellites int     `json:"unique_satellites"`
	Completeness     float64 `json:"data_completeness_percentage"`
	TimeSpanMinutes  float64 `json:"time_span_minutes"`
}

// ScintillationAnalysis buckets records into activity bands:
// low < 0.2, moderate in [0.2, 0.5), high >= 0.5.
type ScintillationAnalysis struct {
	Distribution  ActivityDistribution `json:"s4c_value_distribution"`
	DominantLevel string               `json:"dominant_activity_level"`
	AverageS4C    float64              `json:"average_s4c"`
}

type ActivityDistribution struct {
	Low      int `json:"low"`
	Moderate int `json:"moderate"`
	High     int `json:"high"`
}

type SpatialCoverage struct {
	LatitudeRange  float64 `json:"latitude_range"`
	LongitudeRange float64 `json:"longitude_range"`
}
