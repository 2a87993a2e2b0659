package eventbus

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/jaismithas859/Railway-track-fault-detection-system-IOT/internal/models"
	"github.com/jaismithas859/Railway-track-fault-detection-system-IOT/internal/observability"
)

// State of the stream client's logical connection.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// ErrClosed is returned by Connect after the client has been shut down.
var ErrClosed = errors.New("stream client is closed")

const eventBufferSize = 256

// Client manages the single logical connection to the push-event source. It
// converts every server push and every transport lifecycle transition into a
// typed Event and delivers them, in the order received, on one channel.
// Reconnection after a drop is the transport's own policy; the client adds no
// retry logic of its own.
type Client struct {
	mu      sync.Mutex
	state   State
	conn    *nats.Conn
	subs    []*nats.Subscription
	events  chan Event
	done    chan struct{}
	metrics *observability.Metrics
}

func NewClient(metrics *observability.Metrics) *Client {
	return &Client{
		state:   StateDisconnected,
		events:  make(chan Event, eventBufferSize),
		done:    make(chan struct{}),
		metrics: metrics,
	}
}

// Connect establishes the transport and subscribes to the event subjects.
// It is idempotent while connecting or connected and fails once closed.
func (c *Client) Connect(endpoint string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateConnecting, StateConnected:
		return nil
	case StateClosed:
		return ErrClosed
	}

	c.state = StateConnecting

	conn, err := nats.Connect(endpoint,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2*time.Second),
		nats.ConnectHandler(func(*nats.Conn) {
			c.setState(StateConnected)
			c.deliver(Event{Kind: KindConnect})
		}),
		nats.ReconnectHandler(func(*nats.Conn) {
			log.Printf("Stream transport reconnected")
			c.setState(StateConnected)
			c.deliver(Event{Kind: KindConnect})
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Printf("Stream transport dropped: %v", err)
			}
			c.setState(StateDisconnected)
			c.deliver(Event{Kind: KindDisconnect})
		}),
		nats.ClosedHandler(func(*nats.Conn) {
			// Reached either through Disconnect or after the transport gave
			// up reconnecting; only the latter is a connection failure.
			if c.currentState() != StateClosed {
				log.Printf("Stream transport closed, reconnect attempts exhausted")
				c.setState(StateDisconnected)
				c.deliver(Event{Kind: KindConnectError})
			}
		}),
	)
	if err != nil {
		c.state = StateDisconnected
		c.deliver(Event{Kind: KindConnectError})
		return err
	}

	c.conn = conn
	if err := c.subscribe(); err != nil {
		conn.Close()
		c.conn = nil
		c.state = StateDisconnected
		return err
	}

	log.Printf("Stream client connecting to %s", endpoint)
	return nil
}

func (c *Client) subscribe() error {
	handlers := []struct {
		subject string
		handler nats.MsgHandler
	}{
		{string(KindConnected), c.handleAck},
		{string(KindDetection), c.handleDetection},
		{string(KindMessage), c.handleMessage},
		{string(KindRadarUpdate), c.handleRadar},
	}

	for _, h := range handlers {
		sub, err := c.conn.Subscribe(h.subject, h.handler)
		if err != nil {
			return err
		}
		c.subs = append(c.subs, sub)
	}

	return nil
}

func (c *Client) handleAck(msg *nats.Msg) {
	var payload models.AckPayload
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		c.dropMalformed(KindConnected, err)
		return
	}
	c.deliver(Event{Kind: KindConnected, Ack: &payload})
}

func (c *Client) handleDetection(msg *nats.Msg) {
	var payload models.DetectionPayload
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		c.dropMalformed(KindDetection, err)
		return
	}
	c.deliver(Event{Kind: KindDetection, Detection: &payload})
}

func (c *Client) handleMessage(msg *nats.Msg) {
	var payload models.MessagePayload
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		c.dropMalformed(KindMessage, err)
		return
	}
	c.deliver(Event{Kind: KindMessage, Message: &payload})
}

func (c *Client) handleRadar(msg *nats.Msg) {
	var samples []models.RadarSample
	if err := json.Unmarshal(msg.Data, &samples); err != nil {
		c.dropMalformed(KindRadarUpdate, err)
		return
	}
	c.deliver(Event{Kind: KindRadarUpdate, Radar: samples})
}

func (c *Client) dropMalformed(kind EventKind, err error) {
	log.Printf("Warning: dropping malformed %s event: %v", kind, err)
	c.metrics.MalformedDropped.Inc()
}

// Events is the ordered inbound event channel. It is never closed; consumers
// stop via their own context.
func (c *Client) Events() <-chan Event {
	return c.events
}

// State returns the current logical connection state.
func (c *Client) State() State {
	return c.currentState()
}

// Disconnect releases the transport. Safe to call multiple times and after a
// failed Connect.
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateClosed {
		return
	}
	c.state = StateClosed
	close(c.done)

	for _, sub := range c.subs {
		sub.Unsubscribe()
	}
	c.subs = nil

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
		log.Printf("Stream client disconnected")
	}
}

func (c *Client) deliver(ev Event) {
	c.metrics.EventsReceived.WithLabelValues(string(ev.Kind)).Inc()

	select {
	case c.events <- ev:
	case <-c.done:
	}
}

func (c *Client) setState(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateClosed {
		return
	}
	c.state = s
}

func (c *Client) currentState() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
