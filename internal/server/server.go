package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"attribgraph/internal/attribution"
	"attribgraph/internal/logger"
	"attribgraph/internal/stix"
)

// Config configures the prediction HTTP server.
type Config struct {
	Listen       string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server exposes the attribution model over HTTP. The transport is a thin
// collaborator: sentinel handling, ranking and versioning all live in the
// attribution core.
type Server struct {
	model *attribution.Model
	log   *logger.Logger
	http  *http.Server
}

// predictRequest accepts either a pre-tokenized incident string or a raw
// incident bundle to convert.
type predictRequest struct {
	Incident string        `json:"incident,omitempty"`
	Objects  []stix.Object `json:"objects,omitempty"`
}

// New creates the server around an attribution model.
func New(cfg Config, model *attribution.Model, log *logger.Logger) *Server {
	if cfg.Listen == "" {
		cfg.Listen = ":8099"
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}

	s := &Server{model: model, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("/predict", s.handlePredict)
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.Handle("/metrics", promhttp.Handler())

	s.http = &http.Server{
		Addr:         cfg.Listen,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Run serves until the listener fails or Shutdown is called.
func (s *Server) Run() error {
	s.log.Infof("Prediction server listening on %s", s.http.Addr)
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	incident := req.Incident
	if incident == "" && len(req.Objects) > 0 {
		incident = stix.IncidentString(&stix.Bundle{Objects: req.Objects})
	}

	result := s.model.Predict(incident)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		s.log.Errorf("Failed to encode prediction response: %v", err)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":     "ok",
		"db_version": s.model.Version().String(),
	})
}
