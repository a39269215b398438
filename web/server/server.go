// Package server exposes progressive rendering over HTTP with Server-Sent
// Events: each pass and each finished tile is streamed to the browser as it
// completes.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mkral/go-sunsky-pathtracer/pkg/core"
	"github.com/mkral/go-sunsky-pathtracer/pkg/scene"
)

// Server handles web requests for the progressive renderer
type Server struct {
	port   int
	config scene.Config // base config; requests override per-render fields
	logger *log.Logger
}

// NewServer creates a web server around a base render configuration
func NewServer(port int, config scene.Config, logger *log.Logger) *Server {
	return &Server{port: port, config: config, logger: logger}
}

// Start registers the handlers and blocks serving HTTP
func (s *Server) Start() error {
	http.Handle("/", http.FileServer(http.Dir("static/")))
	http.HandleFunc("/api/render", s.handleRender)
	http.HandleFunc("/api/health", s.handleHealth)
	http.HandleFunc("/api/config", s.handleConfig)

	addr := fmt.Sprintf(":%d", s.port)
	return http.ListenAndServe(addr, nil)
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleConfig returns the base configuration and the override limits so the
// client can populate its controls
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	response := map[string]interface{}{
		"defaults": map[string]interface{}{
			"width":    s.config.Width,
			"height":   s.config.Height,
			"samples":  s.config.Samples,
			"maxDepth": s.config.MaxDepth,
			"model":    s.config.Model,
		},
		"limits": map[string]interface{}{
			"width":   map[string]int{"min": 100, "max": 2000},
			"height":  map[string]int{"min": 100, "max": 2000},
			"samples": map[string]int{"min": 1, "max": 10000},
			"passes":  map[string]int{"min": 1, "max": 100},
		},
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// RenderRequest holds the per-render overrides parsed from query parameters
type RenderRequest struct {
	Width     int
	Height    int
	Samples   int
	MaxPasses int
}

// parseRenderRequest reads and validates the query parameters, falling back
// to the server's base config
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	q := r.URL.Query()
	req := &RenderRequest{}

	var err error
	if req.Width, err = parseIntParam(q, "width", s.config.Width, 100, 2000); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(q, "height", s.config.Height, 100, 2000); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(q, "samples", s.config.Samples, 1, 10000); err != nil {
		return nil, err
	}
	if req.MaxPasses, err = parseIntParam(q, "passes", 6, 1, 100); err != nil {
		return nil, err
	}

	if req.Width*req.Height > 800*600 && req.Samples > 100 {
		s.logger.Warn("large image with high samples may render slowly",
			"width", req.Width, "height", req.Height, "samples", req.Samples)
	}

	return req, nil
}

// parseIntParam parses an integer query parameter with range validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	value := values.Get(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", key, value)
	}
	if parsed < min || parsed > max {
		return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
	}
	return parsed, nil
}

// ConsoleMessage is a render log line streamed to the browser console pane
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
}

// webLogger forwards render progress lines to the console channel while also
// logging them server-side
type webLogger struct {
	logger      *log.Logger
	consoleChan chan<- ConsoleMessage
}

func newWebLogger(logger *log.Logger, consoleChan chan<- ConsoleMessage) core.Logger {
	return &webLogger{logger: logger, consoleChan: consoleChan}
}

// Printf implements core.Logger
func (wl *webLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	wl.logger.Info(message)

	if wl.consoleChan == nil {
		return
	}
	select {
	case wl.consoleChan <- ConsoleMessage{Message: message, Timestamp: time.Now(), Level: "info"}:
	default:
		// Channel full, skip rather than block rendering
	}
}
