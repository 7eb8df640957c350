package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector interface for data layer metrics
type Collector interface {
	ObservePage(op string, elapsed time.Duration, count int, err error)
	StoreScan(driver string, elapsed time.Duration, err error)
	RedisCommand(command string, err error)
	CacheLookup(hit bool)
	HealthCheck(component string, healthy bool)
}

// NoOpCollector implements Collector with no-op methods
type NoOpCollector struct{}

func (NoOpCollector) ObservePage(string, time.Duration, int, error) {}
func (NoOpCollector) StoreScan(string, time.Duration, error)        {}
func (NoOpCollector) RedisCommand(string, error)                    {}
func (NoOpCollector) CacheLookup(bool)                              {}
func (NoOpCollector) HealthCheck(string, bool)                      {}

// PrometheusCollector records data layer metrics in a Prometheus registry.
type PrometheusCollector struct {
	registry *prometheus.Registry

	pages        *prometheus.CounterVec
	pageDuration *prometheus.HistogramVec
	pageSize     *prometheus.HistogramVec

	scans        *prometheus.CounterVec
	scanDuration *prometheus.HistogramVec

	redisCommands *prometheus.CounterVec
	cacheLookups  *prometheus.CounterVec
	health        *prometheus.GaugeVec
}

// NewPrometheusCollector creates a collector with its own registry. The
// registry also carries the Go runtime and process collectors.
func NewPrometheusCollector(namespace string) *PrometheusCollector {
	c := &PrometheusCollector{
		registry: prometheus.NewRegistry(),
		pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_total",
			Help:      "Pages served, by operation and outcome.",
		}, []string{"op", "outcome"}),
		pageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "page_duration_seconds",
			Help:      "Time spent fetching a page from storage.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		pageSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "page_records",
			Help:      "Records fetched per page, probe included.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 101},
		}, []string{"op"}),
		scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "scans_total",
			Help:      "Store scans, by driver and outcome.",
		}, []string{"driver", "outcome"}),
		scanDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "scan_duration_seconds",
			Help:      "Store scan latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"driver"}),
		redisCommands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "redis",
			Name:      "commands_total",
			Help:      "Redis commands, by command and outcome.",
		}, []string{"command", "outcome"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Page cache lookups, by result.",
		}, []string{"result"}),
		health: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "component_healthy",
			Help:      "1 when the last health check of a component passed.",
		}, []string{"component"}),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.pages, c.pageDuration, c.pageSize,
		c.scans, c.scanDuration,
		c.redisCommands, c.cacheLookups, c.health,
	)
	return c
}

// Registry returns the underlying registry.
func (c *PrometheusCollector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus exposition format.
func (c *PrometheusCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObservePage records one paginator storage round trip.
func (c *PrometheusCollector) ObservePage(op string, elapsed time.Duration, count int, err error) {
	c.pages.WithLabelValues(op, outcome(err)).Inc()
	c.pageDuration.WithLabelValues(op).Observe(elapsed.Seconds())
	if err == nil {
		c.pageSize.WithLabelValues(op).Observe(float64(count))
	}
}

// StoreScan records a scan made by a store driver.
func (c *PrometheusCollector) StoreScan(driver string, elapsed time.Duration, err error) {
	c.scans.WithLabelValues(driver, outcome(err)).Inc()
	c.scanDuration.WithLabelValues(driver).Observe(elapsed.Seconds())
}

// RedisCommand records Redis command metrics
func (c *PrometheusCollector) RedisCommand(command string, err error) {
	c.redisCommands.WithLabelValues(command, outcome(err)).Inc()
}

// CacheLookup records a page cache hit or miss.
func (c *PrometheusCollector) CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.cacheLookups.WithLabelValues(result).Inc()
}

// HealthCheck records health check metrics
func (c *PrometheusCollector) HealthCheck(component string, healthy bool) {
	v := 0.0
	if healthy {
		v = 1
	}
	c.health.WithLabelValues(component).Set(v)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	}
	return "error"
}
