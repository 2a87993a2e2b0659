package reconciler

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/jaismithas859/Railway-track-fault-detection-system-IOT/internal/models"
	"github.com/jaismithas859/Railway-track-fault-detection-system-IOT/internal/observability"
)

// ErrMissingLocation marks a detection event without a location payload.
// Such events are dropped without touching the collection.
var ErrMissingLocation = errors.New("detection event missing location")

// DefaultFallbackLocation is substituted when the robot reports the (0,0)
// placeholder for a missing GPS fix.
var DefaultFallbackLocation = models.Location{Lat: 12.97641, Lng: 77.48362}

// Reconciler owns the canonical ordered collection of detections. Entries are
// newest-first, immutable, deduplicated on the five-field composite key, and
// held for the life of the process (no eviction, no cap).
type Reconciler struct {
	mu         sync.RWMutex
	detections []models.Detection
	fallback   models.Location
	metrics    *observability.Metrics
}

func NewReconciler(fallback models.Location, metrics *observability.Metrics) *Reconciler {
	return &Reconciler{
		fallback: fallback,
		metrics:  metrics,
	}
}

// Apply validates a raw detection event and inserts it unless an existing
// entry matches on all five dedup fields. It returns true when a new entry
// was prepended, false when the event was a duplicate.
func (r *Reconciler) Apply(raw *models.DetectionPayload) (bool, error) {
	if raw == nil || raw.Location == nil {
		return false, ErrMissingLocation
	}

	reportedAt, err := models.ParseCompactTimestamp(raw.TS)
	if err != nil {
		return false, fmt.Errorf("unparseable detection timestamp: %w", err)
	}

	loc := *raw.Location
	if loc.IsOrigin() {
		loc = r.fallback
	}

	detection := models.Detection{
		Timestamp:   raw.TS,
		ReportedAt:  reportedAt,
		Location:    loc,
		Severity:    raw.Status.Severity,
		ImageRef:    raw.Img,
		Description: raw.Description,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := detection.Key()
	for i := range r.detections {
		if r.detections[i].Key() == key {
			log.Printf("Duplicate detection suppressed: %s [%s]", detection.Timestamp, detection.Severity)
			r.metrics.DuplicatesSuppressed.Inc()
			return false, nil
		}
	}

	// Newest-first: prepend, never append.
	r.detections = append([]models.Detection{detection}, r.detections...)

	r.metrics.DetectionsInserted.Inc()
	r.metrics.DetectionsHeld.Set(float64(len(r.detections)))

	return true, nil
}

// Snapshot returns a copy of the collection, newest first.
func (r *Reconciler) Snapshot() []models.Detection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Detection, len(r.detections))
	copy(out, r.detections)
	return out
}

// Len returns the number of detections held.
func (r *Reconciler) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.detections)
}
