package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Query bus metrics
	Queries       *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec

	// Group discovery metrics
	TransformDuration prometheus.Histogram
	Groups            prometheus.Gauge
	Overlaps          prometheus.Gauge
	DatasetReloads    *prometheus.CounterVec
}

// NewCollector creates a new metrics collector with its own registry
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "queries_total",
				Help:      "Queries dispatched through the query bus by outcome",
			},
			[]string{"query", "outcome"},
		),
		QueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "query_duration_seconds",
				Help:      "Query handler duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"query"},
		),
		TransformDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "group_discovery_duration_seconds",
				Help:      "Time spent discovering groups in a membership matrix",
				Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
			},
		),
		Groups: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "dataset_groups",
				Help:      "Number of groups in the current dataset snapshot",
			},
		),
		Overlaps: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "dataset_overlaps",
				Help:      "Number of group overlap edges in the current dataset snapshot",
			},
		),
		DatasetReloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dataset_reloads_total",
				Help:      "Dataset reload attempts by status",
			},
			[]string{"status"},
		),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.Queries,
		c.QueryDuration,
		c.TransformDuration,
		c.Groups,
		c.Overlaps,
		c.DatasetReloads,
	)

	return c
}

// Registry returns the collector's registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler exposes the registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveQuery records one query dispatch
func (c *Collector) ObserveQuery(query, outcome string, duration time.Duration) {
	c.Queries.WithLabelValues(query, outcome).Inc()
	c.QueryDuration.WithLabelValues(query).Observe(duration.Seconds())
}

// ObserveTransform records one group discovery run
func (c *Collector) ObserveTransform(duration time.Duration) {
	c.TransformDuration.Observe(duration.Seconds())
}

// ObserveSnapshot records the size of the active dataset
func (c *Collector) ObserveSnapshot(groups, overlaps int) {
	c.Groups.Set(float64(groups))
	c.Overlaps.Set(float64(overlaps))
}

// RecordReload counts a reload attempt
func (c *Collector) RecordReload(status string) {
	c.DatasetReloads.WithLabelValues(status).Inc()
}
