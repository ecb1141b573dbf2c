package vnbgeo

import (
	"github.com/hupe1980/vnbgeo/admin"
	"github.com/hupe1980/vnbgeo/codec"
	"github.com/hupe1980/vnbgeo/geometry"
	"github.com/hupe1980/vnbgeo/metric"
)

// DefaultFitPadding is the padding of FitBounds intents.
const DefaultFitPadding = 50

type options struct {
	codec          codec.Codec
	logger         *Logger
	metrics        metric.Collector
	renderer       Renderer
	cacheCapacity  int
	batchSize      int
	thresholds     map[admin.Layer]Threshold
	synchronous    bool
	viewportFilter bool
}

// Threshold is the pair of zoom gates of a boundary layer.
type Threshold = admin.Threshold

// Option configures Open.
type Option func(*options)

// WithCodec configures the codec used for the index and asset files.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		o.codec = codec.OrDefault(c)
	}
}

// WithLogger sets the logger. Pass nil or NoopLogger() to disable logging.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector configures a metrics collector for monitoring loads.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &vnbgeo.BasicMetricsCollector{}
//	b, _ := vnbgeo.Open(ctx, store, vnbgeo.WithMetricsCollector(metrics))
//	fmt.Println(metrics.Snapshot())
func WithMetricsCollector(m MetricsCollector) Option {
	return func(o *options) {
		o.metrics = metric.OrNoop(m)
	}
}

// WithRenderer sets the consumer of intents.
func WithRenderer(r Renderer) Option {
	return func(o *options) {
		if r == nil {
			r = noopRenderer{}
		}
		o.renderer = r
	}
}

// WithCacheCapacity bounds the geometry cache.
func WithCacheCapacity(n int) Option {
	return func(o *options) {
		o.cacheCapacity = n
	}
}

// WithBatchSize sets the geometry batch size.
func WithBatchSize(n int) Option {
	return func(o *options) {
		o.batchSize = n
	}
}

// WithThresholds overrides the zoom gates of boundary layers.
func WithThresholds(t map[admin.Layer]Threshold) Option {
	return func(o *options) {
		o.thresholds = t
	}
}

// WithSynchronousLoads makes viewport and layer changes wait for the
// boundary and asset loads they start.
func WithSynchronousLoads() Option {
	return func(o *options) {
		o.synchronous = true
	}
}

// WithViewportFilter restricts VisibleRecords to the current map bounds.
func WithViewportFilter(enabled bool) Option {
	return func(o *options) {
		o.viewportFilter = enabled
	}
}

func defaultOptions() options {
	return options{
		codec:         codec.Default,
		logger:        NoopLogger(),
		metrics:       metric.Noop{},
		renderer:      noopRenderer{},
		cacheCapacity: geometry.DefaultCapacity,
		batchSize:     geometry.DefaultBatchSize,
	}
}
