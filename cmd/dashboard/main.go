package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jaismithas859/Railway-track-fault-detection-system-IOT/internal/config"
	"github.com/jaismithas859/Railway-track-fault-detection-system-IOT/internal/health"
	"github.com/jaismithas859/Railway-track-fault-detection-system-IOT/internal/orchestrator"
)

// main is the entry point for the inspection dashboard service.
//
// The dashboard is responsible for:
//   - Subscribing to robot events from NATS (detections, messages, radar)
//   - Reconciling detections into a deduplicated, newest-first collection
//   - Tracking the latest connection status and log line
//   - Serving state snapshots and the image proxy to the view layer
//   - Proxying start/stop/upload commands to the robot backend
//
// Lifecycle:
//  1. Load configuration from environment variables
//  2. Build the session, stream client, and servers
//  3. Start health check server
//  4. Run until a shutdown signal (SIGINT, SIGTERM)
//  5. Gracefully close the session and servers
func main() {
	log.Printf("Inspection Dashboard starting...")

	// Load configuration from environment variables and .env file
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Configuration loaded successfully")
	log.Printf("  HTTP Port: %s", cfg.HTTPPort)
	log.Printf("  Health Port: %s", cfg.HealthPort)
	log.Printf("  Metrics Port: %s", cfg.MetricsPort)
	log.Printf("  NATS URL: %s", cfg.NatsURL)
	log.Printf("  Robot API URL: %s", cfg.RobotAPIURL)
	log.Printf("  Fetch Attempts: %d", cfg.FetchMaxAttempts)
	log.Printf("  Fetch Retry Delay: %dms", cfg.FetchRetryDelayMS)

	// Create orchestrator to manage service lifecycle
	orch := orchestrator.NewOrchestrator(cfg)

	if err := orch.Start(); err != nil {
		log.Fatalf("Failed to start orchestrator: %v", err)
	}

	// Setup graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Listen for shutdown signals (Ctrl+C, Docker stop, k8s termination)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start health check HTTP server for container orchestration
	health.StartHealthCheckServer(cfg.HealthPort)

	// Start session and HTTP servers in background goroutine
	go func() {
		if err := orch.Run(ctx); err != nil && err != context.Canceled {
			log.Printf("Orchestrator error: %v", err)
		}
	}()

	// Block until shutdown signal received
	<-sigChan
	log.Printf("Shutdown signal received, initiating graceful shutdown...")

	// Cancel context to stop servers
	cancel()

	// Close all connections and cleanup resources
	if err := orch.Stop(); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Printf("Dashboard stopped successfully")
}
