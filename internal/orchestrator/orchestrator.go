package orchestrator

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jaismithas859/Railway-track-fault-detection-system-IOT/internal/config"
	"github.com/jaismithas859/Railway-track-fault-detection-system-IOT/internal/eventbus"
	"github.com/jaismithas859/Railway-track-fault-detection-system-IOT/internal/fetcher"
	"github.com/jaismithas859/Railway-track-fault-detection-system-IOT/internal/httpserver"
	"github.com/jaismithas859/Railway-track-fault-detection-system-IOT/internal/models"
	"github.com/jaismithas859/Railway-track-fault-detection-system-IOT/internal/observability"
	"github.com/jaismithas859/Railway-track-fault-detection-system-IOT/internal/robot"
	"github.com/jaismithas859/Railway-track-fault-detection-system-IOT/internal/session"
)

// Orchestrator manages the dashboard service lifecycle: one session per
// process, the view-facing HTTP server, and the metrics endpoint.
//
// Lifecycle:
//  1. Start() - Builds metrics, stream client, session, robot client, servers
//  2. Run()   - Starts servers and the session, blocks until the context is cancelled
//  3. Stop()  - Gracefully closes the session, transport, and servers
//
// Graceful degradation:
//   - Stream transport down: NATS keeps retrying on its own; status shows
//     disconnected, the rest of the service stays up
//   - Robot API down: commands and uploads fail per request, state reads
//     keep working
type Orchestrator struct {
	config *config.Config

	metrics      *observability.Metrics
	streamClient *eventbus.Client
	session      *session.Session
	httpServer   *httpserver.Server

	metricsServer *http.Server
}

// NewOrchestrator creates a new Orchestrator instance with the provided configuration.
// The orchestrator is not started until Start() is called.
func NewOrchestrator(cfg *config.Config) *Orchestrator {
	return &Orchestrator{
		config: cfg,
	}
}

// Start builds all components. This method must be called before Run().
func (o *Orchestrator) Start() error {
	log.Printf("Starting Dashboard Orchestrator...")

	o.metrics = observability.NewMetrics(prometheus.DefaultRegisterer)

	o.streamClient = eventbus.NewClient(o.metrics)

	fallback := models.Location{Lat: o.config.FallbackLat, Lng: o.config.FallbackLng}
	o.session = session.New(
		o.streamClient,
		o.config.NatsURL,
		fallback,
		notifyOperator,
		o.metrics,
	)

	robotClient := robot.NewClient(o.config.RobotAPIURL, nil)
	images := fetcher.NewFetcher(
		nil,
		o.config.FetchMaxAttempts,
		time.Duration(o.config.FetchRetryDelayMS)*time.Millisecond,
		o.metrics,
	)

	o.httpServer = httpserver.NewServer(o.session, robotClient, images)

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	o.metricsServer = &http.Server{
		Addr:    ":" + o.config.MetricsPort,
		Handler: metricsMux,
	}

	log.Printf("Dashboard Orchestrator started successfully")
	return nil
}

// Run starts the session and servers and blocks until the context is
// cancelled or a server fails.
func (o *Orchestrator) Run(ctx context.Context) error {
	log.Printf("Starting servers...")

	if err := o.session.Start(ctx); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	log.Printf("Session started - listening for robot events on NATS")

	httpErrChan := make(chan error, 1)
	go func() {
		addr := ":" + o.config.HTTPPort
		log.Printf("HTTP server listening on port %s", o.config.HTTPPort)
		if err := o.httpServer.Start(addr); err != nil && err != http.ErrServerClosed {
			httpErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	metricsErrChan := make(chan error, 1)
	go func() {
		log.Printf("Metrics server listening on port %s", o.config.MetricsPort)
		if err := o.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			metricsErrChan <- fmt.Errorf("metrics server error: %w", err)
		}
	}()

	log.Printf("Dashboard ready")

	select {
	case <-ctx.Done():
		log.Printf("Shutdown signal received")
		return ctx.Err()
	case err := <-httpErrChan:
		return err
	case err := <-metricsErrChan:
		return err
	}
}

// Stop gracefully closes all connections and releases resources.
// This method should be called during application shutdown.
func (o *Orchestrator) Stop() error {
	log.Printf("Stopping Orchestrator...")

	if o.session != nil {
		o.session.Close()
	}

	if o.httpServer != nil {
		if err := o.httpServer.Stop(); err != nil {
			log.Printf("Error stopping HTTP server: %v", err)
		}
	}

	if o.metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := o.metricsServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error stopping metrics server: %v", err)
		}
	}

	log.Printf("Orchestrator stopped successfully")
	return nil
}

// notifyOperator is the one-shot notification side channel for sentinel
// messages; in the headless core it surfaces as a prominent log line the
// view layer can also subscribe to.
func notifyOperator(text string) {
	log.Printf("OPERATOR NOTICE: %s", text)
}
