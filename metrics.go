package vnbgeo

import "github.com/hupe1980/vnbgeo/metric"

// MetricsCollector receives operational metrics from every component.
// See metric/prometheus for a Prometheus implementation.
type MetricsCollector = metric.Collector

// NoopMetricsCollector discards all metrics.
type NoopMetricsCollector = metric.Noop

// BasicMetricsCollector keeps in-memory counters.
type BasicMetricsCollector = metric.Basic
