package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector tracks filesystem operation counts and latencies.
type Collector struct {
	registry *prometheus.Registry

	operationCounter  *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
}

// Config represents metrics configuration.
type Config struct {
	Enabled   bool              `yaml:"enabled"`
	Namespace string            `yaml:"namespace"`
	Labels    map[string]string `yaml:"labels"`
}

// NewCollector creates a metrics collector. A nil config uses the defaults.
func NewCollector(config *Config) *Collector {
	if config == nil {
		config = &Config{Enabled: true, Namespace: "s3fs"}
	}
	if !config.Enabled {
		return nil
	}
	namespace := config.Namespace
	if namespace == "" {
		namespace = "s3fs"
	}

	registry := prometheus.NewRegistry()
	c := &Collector{
		registry: registry,
		operationCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "operations_total",
			Help:        "Total filesystem operations by type and status.",
			ConstLabels: prometheus.Labels(config.Labels),
		}, []string{"operation", "status"}),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "operation_duration_seconds",
			Help:        "Filesystem operation latency in seconds.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: prometheus.Labels(config.Labels),
		}, []string{"operation"}),
	}
	registry.MustRegister(c.operationCounter, c.operationDuration)
	return c
}

// Observe records one completed operation. Safe to call on a nil collector.
func (c *Collector) Observe(operation string, duration time.Duration, err error) {
	if c == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.operationCounter.WithLabelValues(operation, status).Inc()
	c.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// Handler returns an HTTP handler serving the collector's registry.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
