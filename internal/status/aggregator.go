package status

import (
	"fmt"
	"sync"

	"github.com/jaismithas859/Railway-track-fault-detection-system-IOT/internal/models"
	"github.com/jaismithas859/Railway-track-fault-detection-system-IOT/internal/observability"
)

// TrackPlacementPrompt is the sentinel message text that triggers a one-shot
// operator notification in addition to the log line.
const TrackPlacementPrompt = "place the robot on the track"

// Log lines emitted for stream lifecycle transitions.
const (
	msgTransportConnected    = "Connected to server"
	msgBackendConnected      = "Connected to raspberry pi server"
	msgBackendDisconnected   = "Disconnected from raspberry pi server"
	msgTransportDisconnected = "Disconnected from server"
	msgConnectFailed         = "Failed to connect to server"
)

// Notifier receives the one-shot operator notifications. It is a side channel
// distinct from the connection status and its log line.
type Notifier func(text string)

// Aggregator reduces stream lifecycle and message events into the latest
// ConnectionStatus. Only the latest value is kept.
type Aggregator struct {
	mu      sync.RWMutex
	current models.ConnectionStatus
	notify  Notifier
	metrics *observability.Metrics
}

func NewAggregator(notify Notifier, metrics *observability.Metrics) *Aggregator {
	return &Aggregator{
		notify:  notify,
		metrics: metrics,
	}
}

// TransportConnected records a transport-level connection.
func (a *Aggregator) TransportConnected() {
	a.set(true, msgTransportConnected, models.LogOK)
}

// TransportDisconnected records a transport-level drop.
func (a *Aggregator) TransportDisconnected() {
	a.set(false, msgTransportDisconnected, models.LogError)
}

// ConnectFailed records a failed transport connection attempt.
func (a *Aggregator) ConnectFailed() {
	a.set(false, msgConnectFailed, models.LogError)
}

// Acknowledged records the backend's application-level connection status,
// which is distinct from transport connectivity: anything other than the
// Connected status is a failure report.
func (a *Aggregator) Acknowledged(status string) {
	if status == models.AckConnected {
		a.set(true, msgBackendConnected, models.LogOK)
		return
	}
	a.set(false, msgBackendDisconnected, models.LogError)
}

// Message records a generic message event. Connectivity is left unchanged;
// severity defaults to "ok" when the payload carries none. The sentinel text
// additionally fires the notifier.
func (a *Aggregator) Message(payload *models.MessagePayload) {
	if payload == nil {
		return
	}

	severity := payload.Status
	if severity == "" {
		severity = models.LogOK
	}

	a.mu.Lock()
	a.current.LastMessage = &models.LogEntry{Text: payload.Message, Severity: severity}
	a.mu.Unlock()

	if payload.Message == TrackPlacementPrompt {
		a.metrics.NotificationsFired.Inc()
		if a.notify != nil {
			a.notify(payload.Message)
		}
	}
}

// DetectionReported logs a detection sighting; connectivity is unchanged.
func (a *Aggregator) DetectionReported(severity string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.current.LastMessage = &models.LogEntry{
		Text:     fmt.Sprintf("New crack detection: %s", severity),
		Severity: models.LogOK,
	}
}

// Snapshot returns the latest connection status. The log entry is copied so
// callers cannot mutate the owned value.
func (a *Aggregator) Snapshot() models.ConnectionStatus {
	a.mu.RLock()
	defer a.mu.RUnlock()

	snap := a.current
	if a.current.LastMessage != nil {
		entry := *a.current.LastMessage
		snap.LastMessage = &entry
	}
	return snap
}

func (a *Aggregator) set(connected bool, text, severity string) {
	a.mu.Lock()
	a.current = models.ConnectionStatus{
		Connected:   connected,
		LastMessage: &models.LogEntry{Text: text, Severity: severity},
	}
	a.mu.Unlock()

	if connected {
		a.metrics.Connected.Set(1)
	} else {
		a.metrics.Connected.Set(0)
	}
}
