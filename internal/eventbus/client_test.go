package eventbus

import (
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaismithas859/Railway-track-fault-detection-system-IOT/internal/models"
	"github.com/jaismithas859/Railway-track-fault-detection-system-IOT/internal/observability"
)

func newTestClient() *Client {
	return NewClient(observability.NewMetrics(prometheus.NewRegistry()))
}

func receiveEvent(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case ev := <-c.Events():
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
		return Event{}
	}
}

func TestClient_InitialStateDisconnected(t *testing.T) {
	c := newTestClient()
	assert.Equal(t, StateDisconnected, c.State())
}

func TestClient_ConnectBadURLReportsError(t *testing.T) {
	c := newTestClient()

	err := c.Connect("not a url")
	require.Error(t, err)
	assert.Equal(t, StateDisconnected, c.State())

	ev := receiveEvent(t, c)
	assert.Equal(t, KindConnectError, ev.Kind)
}

func TestClient_ConnectIdempotentWhileConnecting(t *testing.T) {
	c := newTestClient()
	defer c.Disconnect()

	// RetryOnFailedConnect keeps dialing in the background; a second Connect
	// while connecting is a no-op.
	require.NoError(t, c.Connect("nats://127.0.0.1:1"))
	assert.Equal(t, StateConnecting, c.State())

	require.NoError(t, c.Connect("nats://127.0.0.1:1"))
}

func TestClient_DisconnectIdempotent(t *testing.T) {
	c := newTestClient()

	c.Disconnect()
	c.Disconnect()

	assert.Equal(t, StateClosed, c.State())
	assert.ErrorIs(t, c.Connect("nats://127.0.0.1:1"), ErrClosed)
}

func TestClient_HandleDetectionDeliversTypedEvent(t *testing.T) {
	c := newTestClient()

	c.handleDetection(&nats.Msg{Data: []byte(
		`{"location":{"lat":12.97,"lng":77.59},"ts":"20240115_103045","status":{"severity":"High"},"img":"http://pi.local/1.jpg"}`,
	)})

	ev := receiveEvent(t, c)
	assert.Equal(t, KindDetection, ev.Kind)
	require.NotNil(t, ev.Detection)
	assert.Equal(t, "High", ev.Detection.Status.Severity)
	require.NotNil(t, ev.Detection.Location)
	assert.Equal(t, 77.59, ev.Detection.Location.Lng)
}

func TestClient_HandleAckAndMessage(t *testing.T) {
	c := newTestClient()

	c.handleAck(&nats.Msg{Data: []byte(`{"status":"Connected"}`)})
	ev := receiveEvent(t, c)
	assert.Equal(t, KindConnected, ev.Kind)
	assert.Equal(t, models.AckConnected, ev.Ack.Status)

	c.handleMessage(&nats.Msg{Data: []byte(`{"message":"place the robot on the track"}`)})
	ev = receiveEvent(t, c)
	assert.Equal(t, KindMessage, ev.Kind)
	assert.Equal(t, "place the robot on the track", ev.Message.Message)
}

func TestClient_HandleRadarUpdate(t *testing.T) {
	c := newTestClient()

	c.handleRadar(&nats.Msg{Data: []byte(`[{"angle":45,"distance":12.5},{"angle":90,"distance":3}]`)})

	ev := receiveEvent(t, c)
	assert.Equal(t, KindRadarUpdate, ev.Kind)
	require.Len(t, ev.Radar, 2)
	assert.Equal(t, 12.5, ev.Radar[0].Distance)
}

func TestClient_MalformedPayloadDroppedNotDelivered(t *testing.T) {
	c := newTestClient()

	c.handleDetection(&nats.Msg{Data: []byte(`{"location":`)})
	c.handleRadar(&nats.Msg{Data: []byte(`{"not":"an array"}`)})

	// Only a healthy event behind them comes through.
	c.handleMessage(&nats.Msg{Data: []byte(`{"message":"still alive"}`)})

	ev := receiveEvent(t, c)
	assert.Equal(t, KindMessage, ev.Kind)
	assert.Equal(t, "still alive", ev.Message.Message)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "disconnected", StateDisconnected.String())
	assert.Equal(t, "connecting", StateConnecting.String())
	assert.Equal(t, "connected", StateConnected.String())
	assert.Equal(t, "closed", StateClosed.String())
}
