package models

// Wire payloads pushed by the inspection backend. Field names match what the
// robot emits; everything is decoded tolerantly and validated by the consumer.

// SeverityStatus wraps the severity field nested under "status" in detection
// events.
type SeverityStatus struct {
	Severity string `json:"severity"`
}

// DetectionPayload is the raw body of a new_crack_detection event. Location
// is a pointer so a missing field can be told apart from an explicit (0,0).
type DetectionPayload struct {
	Location    *Location      `json:"location"`
	TS          string         `json:"ts"`
	Status      SeverityStatus `json:"status"`
	Img         string         `json:"img,omitempty"`
	Description string         `json:"description,omitempty"`
}

// MessagePayload is the body of a generic message event. Status is optional;
// consumers default it to "ok".
type MessagePayload struct {
	Message string `json:"message"`
	Status  string `json:"status,omitempty"`
}

// AckPayload is the body of a "connected" event: an application-level
// connection acknowledgement, distinct from transport connectivity.
type AckPayload struct {
	Status string `json:"status"`
}

// AckConnected is the status value that marks a successful acknowledgement;
// anything else is a failure report.
const AckConnected = "Connected"

// RadarSample is one radar reading. Values are stored verbatim, including
// out-of-range angles and negative distances; clamping is a rendering concern.
type RadarSample struct {
	AngleDegrees float64 `json:"angle"`
	Distance     float64 `json:"distance"`
}
