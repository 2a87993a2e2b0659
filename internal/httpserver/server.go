package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jaismithas859/Railway-track-fault-detection-system-IOT/internal/fetcher"
	"github.com/jaismithas859/Railway-track-fault-detection-system-IOT/internal/models"
	"github.com/jaismithas859/Railway-track-fault-detection-system-IOT/internal/robot"
)

// StateSource is the read side of the session: snapshots only, no mutation.
type StateSource interface {
	Detections() []models.Detection
	ConnectionStatus() models.ConnectionStatus
	RadarSamples() []models.RadarSample
}

// Server exposes the dashboard's state snapshots to the view layer and
// proxies robot commands. The view layer never mutates store state directly;
// everything it sees comes through these read endpoints.
type Server struct {
	state      StateSource
	robot      *robot.Client
	images     *fetcher.Fetcher
	httpServer *http.Server // Store server instance for graceful shutdown
}

func NewServer(state StateSource, robotClient *robot.Client, images *fetcher.Fetcher) *Server {
	return &Server{
		state:  state,
		robot:  robotClient,
		images: images,
	}
}

func (s *Server) Start(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/state", s.handleState)
	mux.HandleFunc("/api/detections", s.handleDetections)
	mux.HandleFunc("/api/radar", s.handleRadar)
	mux.HandleFunc("/api/start", s.handleStart)
	mux.HandleFunc("/api/stop", s.handleStop)
	mux.HandleFunc("/api/upload", s.handleUpload)
	mux.HandleFunc("/api/image", s.handleImage)

	// Store server instance for graceful shutdown
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.enableCORS(mux),
	}

	log.Printf("HTTP server listening on: %s", addr)
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the HTTP server with a timeout.
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	log.Printf("Stopping HTTP server...")

	// 5 second timeout for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}

	log.Printf("HTTP server stopped successfully")
	return nil
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not supported", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, s.state.ConnectionStatus())
}

func (s *Server) handleDetections(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not supported", http.StatusMethodNotAllowed)
		return
	}

	detections := s.state.Detections()
	writeJSON(w, map[string]any{
		"detections": detections,
		"count":      len(detections),
	})
}

func (s *Server) handleRadar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not supported", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, map[string]any{
		"samples": s.state.RadarSamples(),
	})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	s.proxyCommand(w, r, "start")
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	s.proxyCommand(w, r, "stop")
}

func (s *Server) proxyCommand(w http.ResponseWriter, r *http.Request, command string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not supported", http.StatusMethodNotAllowed)
		return
	}

	log.Printf("Received robot command: %s", command)

	var (
		resp *robot.CommandResponse
		err  error
	)
	if command == "start" {
		resp, err = s.robot.Start(r.Context())
	} else {
		resp, err = s.robot.Stop(r.Context())
	}

	if err != nil {
		log.Printf("Robot command %s failed: %v", command, err)
		writeJSON(w, map[string]string{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	writeJSON(w, resp)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not supported", http.StatusMethodNotAllowed)
		return
	}

	// 8MB cap, same as the backend's own limit.
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		http.Error(w, fmt.Sprintf("invalid multipart form: %v", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "No file part", http.StatusBadRequest)
		return
	}
	defer file.Close()

	resp, err := s.robot.Upload(r.Context(), header.Filename, file)
	if err != nil {
		log.Printf("Upload proxy failed: %v", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	writeJSON(w, resp)
}

// handleImage materializes a detection image for display: bounded-retry
// fetch, then the bytes are streamed out and the handle released. The view
// never talks to the robot's image host directly.
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not supported", http.StatusMethodNotAllowed)
		return
	}

	ref := r.URL.Query().Get("ref")
	if ref == "" {
		http.Error(w, "Missing image reference", http.StatusBadRequest)
		return
	}

	handle, err := s.images.Fetch(r.Context(), ref)
	if err != nil {
		log.Printf("Image fetch for view failed: %v", err)
		http.Error(w, "Failed to retrieve image", http.StatusBadGateway)
		return
	}
	defer handle.Release()

	if ct := handle.ContentType(); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.Write(handle.Bytes())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (s *Server) enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
