// Package api provides the optional HTTP monitoring endpoint for a running
// filesystem instance: backend health and Prometheus metrics.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/objectfs/s3fs/internal/metrics"
)

// HealthChecker reports whether the storage backend is reachable. The S3
// client satisfies this with a HeadBucket probe.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// ServerConfig configures the monitoring server.
type ServerConfig struct {
	// Address to bind the server to (e.g. "localhost:8080").
	Address string `yaml:"address"`

	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

// DefaultServerConfig returns the default monitoring server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Address:      "localhost:8080",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Server serves health and metrics endpoints over HTTP.
type Server struct {
	httpServer *http.Server
	checker    HealthChecker
	logger     *slog.Logger
}

// NewServer creates a monitoring server. The collector may be nil, in which
// case /metrics responds with 404.
func NewServer(config ServerConfig, checker HealthChecker, collector *metrics.Collector, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{checker: checker, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/health/ready", s.handleHealth)
	mux.HandleFunc("/health/live", s.handleLiveness)
	mux.Handle("/metrics", collector.Handler())

	s.httpServer = &http.Server{
		Addr:         config.Address,
		Handler:      mux,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}
	return s
}

// Handler returns the server's route mux, mainly for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins serving in a background goroutine.
func (s *Server) Start() {
	s.logger.Info("monitoring server starting", "address", s.httpServer.Addr)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("monitoring server failed", "error", err)
		}
	}()
}

// Stop shuts the server down gracefully, waiting for in-flight requests up
// to the context deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("monitoring server stopping")
	return s.httpServer.Shutdown(ctx)
}

type healthResponse struct {
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "healthy", CheckedAt: time.Now().UTC()}
	code := http.StatusOK
	if s.checker != nil {
		if err := s.checker.HealthCheck(r.Context()); err != nil {
			resp.Status = "unhealthy"
			resp.Error = err.Error()
			code = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, code, resp)
}

func (s *Server) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "alive", CheckedAt: time.Now().UTC()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
