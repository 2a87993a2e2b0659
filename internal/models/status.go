package models

// Log severities used in the live-log panel.
const (
	LogOK    = "ok"
	LogError = "error"
)

// LogEntry is the most recent human-readable log line.
type LogEntry struct {
	Text     string `json:"message"`
	Severity string `json:"status"`
}

// ConnectionStatus is the latest connectivity view. Only the latest value is
// retained; there is no history.
type ConnectionStatus struct {
	Connected   bool      `json:"connected"`
	LastMessage *LogEntry `json:"last_message,omitempty"`
}
