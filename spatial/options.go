package spatial

import (
	"log/slog"

	"github.com/hupe1980/vnbgeo/codec"
	"github.com/hupe1980/vnbgeo/metric"
)

// DefaultResource is the name of the index resource.
const DefaultResource = "vnb/index.json"

type options struct {
	resource string
	codec    codec.Codec
	logger   *slog.Logger
	metrics  metric.Collector
}

func defaultOptions() options {
	return options{
		resource: DefaultResource,
		codec:    codec.Default,
		logger:   slog.New(slog.DiscardHandler),
		metrics:  metric.Noop{},
	}
}

// Option configures a Store.
type Option func(*options)

// WithResource overrides the index resource name.
func WithResource(name string) Option {
	return func(o *options) { o.resource = name }
}

// WithCodec sets the JSON codec used to decode the index.
func WithCodec(c codec.Codec) Option {
	return func(o *options) { o.codec = codec.OrDefault(c) }
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
