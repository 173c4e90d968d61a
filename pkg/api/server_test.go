package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/objectfs/s3fs/internal/metrics"
)

type fakeChecker struct {
	err error
}

func (f *fakeChecker) HealthCheck(context.Context) error {
	return f.err
}

func newTestServer(checker HealthChecker, collector *metrics.Collector) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(DefaultServerConfig(), checker, collector, logger)
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func decodeHealth(t *testing.T, rec *httptest.ResponseRecorder) healthResponse {
	t.Helper()
	var resp healthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestDefaultServerConfig(t *testing.T) {
	cfg := DefaultServerConfig()
	assert.Equal(t, "localhost:8080", cfg.Address)
	assert.Equal(t, 10*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.IdleTimeout)
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(&fakeChecker{}, nil)

	for _, path := range []string{"/health", "/health/ready"} {
		rec := get(t, s, path)
		require.Equal(t, http.StatusOK, rec.Code, path)
		resp := decodeHealth(t, rec)
		assert.Equal(t, "healthy", resp.Status)
		assert.Empty(t, resp.Error)
		assert.False(t, resp.CheckedAt.IsZero())
	}
}

func TestHealthEndpointUnhealthy(t *testing.T) {
	s := newTestServer(&fakeChecker{err: errors.New("bucket unreachable")}, nil)

	rec := get(t, s, "/health")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	resp := decodeHealth(t, rec)
	assert.Equal(t, "unhealthy", resp.Status)
	assert.Equal(t, "bucket unreachable", resp.Error)
}

func TestHealthEndpointNoChecker(t *testing.T) {
	s := newTestServer(nil, nil)
	assert.Equal(t, http.StatusOK, get(t, s, "/health").Code)
}

func TestLivenessEndpoint(t *testing.T) {
	s := newTestServer(&fakeChecker{err: errors.New("down")}, nil)

	rec := get(t, s, "/health/live")
	require.Equal(t, http.StatusOK, rec.Code, "liveness ignores backend health")
	assert.Equal(t, "alive", decodeHealth(t, rec).Status)
}

func TestMetricsEndpoint(t *testing.T) {
	collector := metrics.NewCollector(&metrics.Config{Enabled: true, Namespace: "s3fs"})
	collector.Observe("stat", time.Millisecond, nil)
	s := newTestServer(&fakeChecker{}, collector)

	rec := get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "s3fs_operations_total")
}

func TestMetricsEndpointDisabled(t *testing.T) {
	s := newTestServer(&fakeChecker{}, nil)
	assert.Equal(t, http.StatusNotFound, get(t, s, "/metrics").Code)
}

func TestStartStop(t *testing.T) {
	cfg := DefaultServerConfig()
	cfg.Address = "127.0.0.1:0"
	s := NewServer(cfg, &fakeChecker{}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}
