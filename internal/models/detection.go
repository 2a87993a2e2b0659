package models

import "time"

// DetectionSeverity values reported by the robot. The field is carried as an
// opaque string and round-trips unvalidated; these constants cover the values
// the producer is known to emit.
const (
	SeverityHigh   = "High"
	SeverityMedium = "Medium"
	SeverityLow    = "Low"
)

// Location is a GPS coordinate reported with a detection.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IsOrigin reports whether the location is the (0,0) placeholder the robot
// sends when it has no GPS fix.
func (l Location) IsOrigin() bool {
	return l.Lat == 0 && l.Lng == 0
}

// Detection is one crack-inspection finding. Entries are immutable once
// created by the reconciler.
type Detection struct {
	Timestamp   string    `json:"ts"`
	ReportedAt  time.Time `json:"reported_at"`
	Location    Location  `json:"location"`
	Severity    string    `json:"severity"`
	ImageRef    string    `json:"img,omitempty"`
	Description string    `json:"description,omitempty"`
}

// DedupKey is the composite identity used to suppress duplicate detection
// inserts. It intentionally spans severity and image reference: the producer
// treats two reports at the same instant and place with a different severity
// as distinct observations.
type DedupKey struct {
	Timestamp string
	Lat       float64
	Lng       float64
	ImageRef  string
	Severity  string
}

// Key returns the dedup key for the detection.
func (d *Detection) Key() DedupKey {
	return DedupKey{
		Timestamp: d.Timestamp,
		Lat:       d.Location.Lat,
		Lng:       d.Location.Lng,
		ImageRef:  d.ImageRef,
		Severity:  d.Severity,
	}
}
