package eventbus

import (
	"github.com/jaismithas859/Railway-track-fault-detection-system-IOT/internal/models"
)

// EventKind names one inbound event. Values double as the wire subject for
// the subscribed kinds; the transport-level kinds (connect, disconnect,
// connect_error) are synthesized from connection lifecycle callbacks.
type EventKind string

const (
	KindConnect      EventKind = "connect"
	KindConnected    EventKind = "connected"
	KindDisconnect   EventKind = "disconnect"
	KindConnectError EventKind = "connect_error"
	KindDetection    EventKind = "new_crack_detection"
	KindMessage      EventKind = "message"
	KindRadarUpdate  EventKind = "radar_update"
)

// Event is the single typed envelope every inbound event is converted to
// before dispatch. Exactly one payload field is set, matching Kind; the
// lifecycle kinds carry none.
type Event struct {
	Kind      EventKind
	Ack       *models.AckPayload
	Detection *models.DetectionPayload
	Message   *models.MessagePayload
	Radar     []models.RadarSample
}
