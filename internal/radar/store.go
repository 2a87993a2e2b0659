package radar

import (
	"sync"

	"github.com/jaismithas859/Railway-track-fault-detection-system-IOT/internal/models"
	"github.com/jaismithas859/Railway-track-fault-detection-system-IOT/internal/observability"
)

// Store holds the latest radar sample set. Every update replaces the whole
// set; there is no merge and no history. An empty set is valid and means no
// samples are currently visible.
type Store struct {
	mu      sync.RWMutex
	samples []models.RadarSample
	metrics *observability.Metrics
}

func NewStore(metrics *observability.Metrics) *Store {
	return &Store{metrics: metrics}
}

// Replace swaps in a new sample set wholesale. Samples are stored verbatim,
// malformed values included.
func (s *Store) Replace(samples []models.RadarSample) {
	copied := make([]models.RadarSample, len(samples))
	copy(copied, samples)

	s.mu.Lock()
	s.samples = copied
	s.mu.Unlock()

	s.metrics.RadarSamplesHeld.Set(float64(len(copied)))
}

// Snapshot returns a copy of the current sample set.
func (s *Store) Snapshot() []models.RadarSample {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.RadarSample, len(s.samples))
	copy(out, s.samples)
	return out
}
