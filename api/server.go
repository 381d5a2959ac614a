// Package api exposes the analysis engine over HTTP. It is a capability
// module: the CLI can start it, and tests drive it through Handler().
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/mlagarde/ledgerlens/document"
	"github.com/mlagarde/ledgerlens/engine"
	"github.com/mlagarde/ledgerlens/engine/config"
	"github.com/mlagarde/ledgerlens/logging"
)

// maxBodyBytes bounds the analysis request body.
const maxBodyBytes = 32 << 20

// ReportStore persists analysis results and remembers rejected alerts
// between runs. Nil disables persistence.
type ReportStore interface {
	SaveReport(ctx context.Context, report engine.Report) error
	SuppressedKeys(ctx context.Context) (map[string]bool, error)
}

// Config holds the API server configuration.
type Config struct {
	Addr   string
	Engine config.Config
	Store  ReportStore
	Logger zerolog.Logger
}

// DefaultConfig returns the default API configuration.
func DefaultConfig() Config {
	return Config{
		Addr:   ":8080",
		Engine: config.Default(),
		Logger: logging.Nop(),
	}
}

// Server is the HTTP API server.
type Server struct {
	config Config
	mux    *http.ServeMux
}

// New creates an API server with the given configuration.
func New(cfg Config) *Server {
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/analyze", s.handleAnalyze)
	s.mux.HandleFunc("/config", s.handleConfig)
	s.mux.HandleFunc("/health", s.handleHealth)
}

// Handler returns the http.Handler for the server, for use with custom
// http.Server configurations and in tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the HTTP server (blocking).
func (s *Server) Start() error {
	s.config.Logger.Info().Str("addr", s.config.Addr).Msg("starting api server")
	return http.ListenAndServe(s.config.Addr, s.mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleConfig returns the engine configuration the server analyzes with.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, s.config.Engine)
}

// AnalyzeRequest is the /analyze request body. Config overrides are flat
// keys merged over the defaults.
type AnalyzeRequest struct {
	Documents      []document.Document `json:"documents"`
	ConfigOverride map[string]any      `json:"config,omitempty"`
	SuppressedKeys []string            `json:"suppressed_keys,omitempty"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	logger := s.config.Logger
	logger.Debug().Str("remote", r.RemoteAddr).Msg("analyze request")

	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req AnalyzeRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.UseNumber()
	if err := decoder.Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "could not decode request: "+err.Error())
		return
	}
	if len(req.Documents) == 0 {
		httpError(w, http.StatusBadRequest, "no documents supplied")
		return
	}

	cfg := s.config.Engine
	if len(req.ConfigOverride) > 0 {
		merged, err := config.FromMap(req.ConfigOverride)
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid config override: "+err.Error())
			return
		}
		cfg = merged
	}

	suppressed := make(map[string]bool, len(req.SuppressedKeys))
	for _, key := range req.SuppressedKeys {
		suppressed[key] = true
	}
	if s.config.Store != nil {
		stored, err := s.config.Store.SuppressedKeys(r.Context())
		if err != nil {
			logger.Warn().Err(err).Msg("could not load stored suppressions")
		}
		for key := range stored {
			suppressed[key] = true
		}
	}

	ctx := logging.WithContext(r.Context(), logger)
	report := engine.Analyze(ctx, req.Documents, engine.Options{
		Config:         cfg,
		SuppressedKeys: suppressed,
	})

	if s.config.Store != nil {
		if err := s.config.Store.SaveReport(r.Context(), report); err != nil {
			logger.Error().Err(err).Str("run_id", report.RunID).Msg("could not persist report")
		}
	}

	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func httpError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
