// Package prometheus provides a metric.Collector backed by
// github.com/prometheus/client_golang.
package prometheus

import (
	"net/http"
	"time"

	"github.com/hupe1980/vnbgeo/metric"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implements metric.Collector with Prometheus vectors.
type Collector struct {
	fetches       *prometheus.CounterVec
	fetchErrors   *prometheus.CounterVec
	fetchBytes    *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	cacheLookups  *prometheus.CounterVec
	evictions     *prometheus.CounterVec
	batches       prometheus.Counter
	batchDuration prometheus.Histogram
	batchProgress prometheus.Gauge
}

var _ metric.Collector = (*Collector)(nil)

// New creates a Collector and registers it with reg.
// If reg is nil, prometheus.DefaultRegisterer is used.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vnbgeo_fetches_total",
			Help: "Total number of resource fetches",
		}, []string{"kind"}),
		fetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vnbgeo_fetch_errors_total",
			Help: "Total number of failed resource fetches",
		}, []string{"kind"}),
		fetchBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vnbgeo_fetch_bytes_total",
			Help: "Total number of bytes fetched",
		}, []string{"kind"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vnbgeo_fetch_duration_ms",
			Help:    "Resource fetch duration in milliseconds",
			Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
		}, []string{"kind"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vnbgeo_cache_lookups_total",
			Help: "Cache lookups by result",
		}, []string{"kind", "result"}),
		evictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vnbgeo_cache_evictions_total",
			Help: "Total number of cache evictions",
		}, []string{"kind"}),
		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vnbgeo_geometry_batches_total",
			Help: "Total number of settled geometry batches",
		}),
		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "vnbgeo_geometry_batch_duration_ms",
			Help:    "Geometry batch duration in milliseconds",
			Buckets: []float64{5, 10, 20, 50, 100, 200, 500, 1000, 5000},
		}),
		batchProgress: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "vnbgeo_geometry_batch_progress_ratio",
			Help: "Loaded/total ratio of the most recent geometry batch load",
		}),
	}

	for _, col := range []prometheus.Collector{
		c.fetches, c.fetchErrors, c.fetchBytes, c.fetchDuration,
		c.cacheLookups, c.evictions, c.batches, c.batchDuration, c.batchProgress,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// RecordFetch implements metric.Collector.
func (c *Collector) RecordFetch(kind metric.Kind, duration time.Duration, bytes int, err error) {
	k := string(kind)
	c.fetches.WithLabelValues(k).Inc()
	c.fetchBytes.WithLabelValues(k).Add(float64(bytes))
	c.fetchDuration.WithLabelValues(k).Observe(float64(duration.Milliseconds()))
	if err != nil {
		c.fetchErrors.WithLabelValues(k).Inc()
	}
}

// RecordCacheLookup implements metric.Collector.
func (c *Collector) RecordCacheLookup(kind metric.Kind, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.cacheLookups.WithLabelValues(string(kind), result).Inc()
}

// RecordEviction implements metric.Collector.
func (c *Collector) RecordEviction(kind metric.Kind) {
	c.evictions.WithLabelValues(string(kind)).Inc()
}

// RecordBatch implements metric.Collector.
func (c *Collector) RecordBatch(loaded, total int, duration time.Duration) {
	c.batches.Inc()
	c.batchDuration.Observe(float64(duration.Milliseconds()))
	if total > 0 {
		c.batchProgress.Set(float64(loaded) / float64(total))
	}
}

// Handler returns the Prometheus scrape handler for the default gatherer.
func Handler() http.Handler { return promhttp.Handler() }

// HandlerFor returns a scrape handler for a specific gatherer.
func HandlerFor(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
