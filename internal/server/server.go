// Package server provides the HTTP server for the shapesketch session.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/shapesketch/internal/app"
	"github.com/ayusman/shapesketch/internal/config"
	"github.com/ayusman/shapesketch/internal/hook"
	"github.com/ayusman/shapesketch/internal/server/api"
	"github.com/ayusman/shapesketch/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	App       *app.App
	Hooks     *hook.Manager

	// Settings is the configuration the settings API starts from.
	// The zero value means config.Default().
	Settings config.Config
	// Apply pushes accepted settings to the running session. Optional.
	Apply api.ApplyFunc
}

// Server represents the HTTP server.
type Server struct {
	config Config
	mux    *http.ServeMux
	labels *LabelsHandler
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Store != nil {
		detections := api.NewDetectionHandler(s.config.Store)
		s.mux.Handle("/api/detections", detections)
		s.mux.Handle("/api/detections/", detections)

		base := s.config.Settings
		if base == (config.Config{}) {
			base = config.Default()
		}
		s.mux.Handle("/api/settings", api.NewSettingsHandler(s.config.Store, base, s.config.Apply))
	}

	if s.config.App != nil {
		s.mux.Handle("/api/classify", api.NewClassifyHandler(s.config.App))

		canvas := api.NewCanvasHandler(s.config.App)
		s.mux.Handle("/api/canvas", canvas)
		s.mux.Handle("/api/canvas/", canvas)

		s.mux.Handle("/api/stream", NewStreamHandler(s.config.App.Overlay, streamInterval))

		s.labels = NewLabelsHandler()
		s.config.App.OnDetect(s.labels.Broadcast)
		s.mux.Handle("/api/labels", s.labels)
	}

	if s.config.Hooks != nil {
		hooks := api.NewHookHandler(s.config.Hooks)
		s.mux.Handle("/api/hooks", hooks)
		s.mux.Handle("/api/hooks/", hooks)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}
	if s.config.App != nil {
		response["capturing"] = s.config.App.Running()
		response["last_label"] = string(s.config.App.LastLabel())
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
