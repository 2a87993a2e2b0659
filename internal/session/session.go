package session

import (
	"context"
	"log"
	"sync"

	"github.com/jaismithas859/Railway-track-fault-detection-system-IOT/internal/eventbus"
	"github.com/jaismithas859/Railway-track-fault-detection-system-IOT/internal/models"
	"github.com/jaismithas859/Railway-track-fault-detection-system-IOT/internal/observability"
	"github.com/jaismithas859/Railway-track-fault-detection-system-IOT/internal/radar"
	"github.com/jaismithas859/Railway-track-fault-detection-system-IOT/internal/reconciler"
	"github.com/jaismithas859/Railway-track-fault-detection-system-IOT/internal/status"
)

// Transport is the injected event source. *eventbus.Client satisfies it;
// tests inject a fake.
type Transport interface {
	Connect(endpoint string) error
	Events() <-chan eventbus.Event
	Disconnect()
}

// Session owns the dashboard's state stores and the single dispatch loop
// that feeds them. Handlers run to completion in the order events arrive, one
// store mutation per event, so a reader never observes a half-applied update.
// One session is constructed per process lifetime.
type Session struct {
	transport  Transport
	endpoint   string
	detections *reconciler.Reconciler
	connStatus *status.Aggregator
	radarStore *radar.Store
	metrics    *observability.Metrics

	wg        sync.WaitGroup
	closeOnce sync.Once
	closed    chan struct{}
}

func New(transport Transport, endpoint string, fallback models.Location, notify status.Notifier, metrics *observability.Metrics) *Session {
	return &Session{
		transport:  transport,
		endpoint:   endpoint,
		detections: reconciler.NewReconciler(fallback, metrics),
		connStatus: status.NewAggregator(notify, metrics),
		radarStore: radar.NewStore(metrics),
		metrics:    metrics,
		closed:     make(chan struct{}),
	}
}

// Start connects the transport and runs the dispatch loop until the context
// is cancelled or the session is closed.
func (s *Session) Start(ctx context.Context) error {
	if err := s.transport.Connect(s.endpoint); err != nil {
		return err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop(ctx)
	}()

	return nil
}

func (s *Session) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.closed:
			return
		case ev := <-s.transport.Events():
			s.dispatch(ev)
		}
	}
}

// dispatch applies one event to its owning store. The switch is exhaustive
// over the known kinds; anything else is counted and dropped.
func (s *Session) dispatch(ev eventbus.Event) {
	switch ev.Kind {
	case eventbus.KindConnect:
		s.connStatus.TransportConnected()

	case eventbus.KindDisconnect:
		s.connStatus.TransportDisconnected()

	case eventbus.KindConnectError:
		s.connStatus.ConnectFailed()

	case eventbus.KindConnected:
		if ev.Ack == nil {
			s.dropMalformed(ev.Kind)
			return
		}
		s.connStatus.Acknowledged(ev.Ack.Status)

	case eventbus.KindDetection:
		inserted, err := s.detections.Apply(ev.Detection)
		if err != nil {
			// Silent-drop policy: the bad event is ignored, the stream
			// lives on.
			log.Printf("Warning: dropping detection event: %v", err)
			s.metrics.MalformedDropped.Inc()
			return
		}
		s.connStatus.DetectionReported(ev.Detection.Status.Severity)
		if inserted {
			log.Printf("New crack detection recorded: %s [%s]", ev.Detection.TS, ev.Detection.Status.Severity)
		}

	case eventbus.KindMessage:
		if ev.Message == nil {
			s.dropMalformed(ev.Kind)
			return
		}
		s.connStatus.Message(ev.Message)

	case eventbus.KindRadarUpdate:
		s.radarStore.Replace(ev.Radar)

	default:
		log.Printf("Warning: unknown event kind %q dropped", ev.Kind)
		s.metrics.MalformedDropped.Inc()
	}
}

func (s *Session) dropMalformed(kind eventbus.EventKind) {
	log.Printf("Warning: %s event without payload dropped", kind)
	s.metrics.MalformedDropped.Inc()
}

// Detections returns the reconciled collection, newest first.
func (s *Session) Detections() []models.Detection {
	return s.detections.Snapshot()
}

// ConnectionStatus returns the latest connectivity and log line.
func (s *Session) ConnectionStatus() models.ConnectionStatus {
	return s.connStatus.Snapshot()
}

// RadarSamples returns the latest radar sample set.
func (s *Session) RadarSamples() []models.RadarSample {
	return s.radarStore.Snapshot()
}

// Close tears the session down: stops the dispatch loop and releases the
// transport. Idempotent.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
		s.transport.Disconnect()
	})
	s.wg.Wait()
}
