package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the dashboard core's Prometheus instruments.
type Metrics struct {
	EventsReceived       *prometheus.CounterVec
	DetectionsInserted   prometheus.Counter
	DuplicatesSuppressed prometheus.Counter
	MalformedDropped     prometheus.Counter
	FetchAttempts        prometheus.Counter
	FetchFailures        prometheus.Counter
	NotificationsFired   prometheus.Counter
	Connected            prometheus.Gauge
	DetectionsHeld       prometheus.Gauge
	RadarSamplesHeld     prometheus.Gauge
}

// NewMetrics creates and registers all instruments on reg. Tests pass a fresh
// prometheus.NewRegistry(); the orchestrator passes the default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EventsReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_events_received_total",
			Help: "Stream events received, by event kind.",
		}, []string{"kind"}),
		DetectionsInserted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_detections_inserted_total",
			Help: "Detections accepted into the reconciled collection.",
		}),
		DuplicatesSuppressed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_detections_duplicate_total",
			Help: "Detection events suppressed by the dedup key.",
		}),
		MalformedDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_events_malformed_total",
			Help: "Events dropped because their payload failed validation.",
		}),
		FetchAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_image_fetch_attempts_total",
			Help: "Individual HTTP attempts made by the image fetcher.",
		}),
		FetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_image_fetch_failures_total",
			Help: "Image fetches that exhausted all retry attempts.",
		}),
		NotificationsFired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_notifications_total",
			Help: "One-shot operator notifications triggered by sentinel messages.",
		}),
		Connected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dashboard_stream_connected",
			Help: "1 when the backend reports connected, 0 otherwise.",
		}),
		DetectionsHeld: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dashboard_detections_held",
			Help: "Detections currently held in memory.",
		}),
		RadarSamplesHeld: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dashboard_radar_samples_held",
			Help: "Radar samples in the latest snapshot.",
		}),
	}

	reg.MustRegister(
		m.EventsReceived,
		m.DetectionsInserted,
		m.DuplicatesSuppressed,
		m.MalformedDropped,
		m.FetchAttempts,
		m.FetchFailures,
		m.NotificationsFired,
		m.Connected,
		m.DetectionsHeld,
		m.RadarSamplesHeld,
	)

	return m
}
