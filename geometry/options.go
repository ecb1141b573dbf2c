package geometry

import (
	"log/slog"

	"github.com/hupe1980/vnbgeo/metric"
)

const (
	// DefaultCapacity is the maximum number of cached geometries.
	DefaultCapacity = 100

	// DefaultBatchSize is the number of parallel fetches per batch.
	DefaultBatchSize = 20

	// DefaultPrefix is prepended to a record's file name to form its resource name.
	DefaultPrefix = "vnb/full/"
)

type options struct {
	capacity   int
	batchSize  int
	prefix     string
	logger     *slog.Logger
	metrics    metric.Collector
	onProgress func(Progress)
}

func defaultOptions() options {
	return options{
		capacity:  DefaultCapacity,
		batchSize: DefaultBatchSize,
		prefix:    DefaultPrefix,
		logger:    slog.New(slog.DiscardHandler),
		metrics:   metric.Noop{},
	}
}

// Option configures a Cache.
type Option func(*options)

// WithCapacity overrides the cache bound.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// WithBatchSize overrides the batch size of GetBatch.
func WithBatchSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

// WithPrefix overrides the resource prefix for geometry files.
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m metric.Collector) Option {
	return func(o *options) { o.metrics = metric.OrNoop(m) }
}

// WithProgress registers a callback invoked after every settled batch of the
// current generation. It is called with the cache's lock held and must not call
// back into the Cache.
func WithProgress(fn func(Progress)) Option {
	return func(o *options) { o.onProgress = fn }
}
