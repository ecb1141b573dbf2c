package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hupe1980/vnbgeo"
	"github.com/hupe1980/vnbgeo/codec"
)

type routerOptions struct {
	logger        *slog.Logger
	metrics       http.Handler
	codec         codec.Codec
	slowThreshold time.Duration
}

// Option configures NewRouter.
type Option func(*routerOptions)

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *routerOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetricsHandler mounts h at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(o *routerOptions) {
		o.metrics = h
	}
}

// WithCodec sets the codec used to decode the rules query parameter.
func WithCodec(c codec.Codec) Option {
	return func(o *routerOptions) {
		o.codec = codec.OrDefault(c)
	}
}

// WithSlowThreshold sets the duration above which requests log at Warn.
func WithSlowThreshold(d time.Duration) Option {
	return func(o *routerOptions) {
		o.slowThreshold = d
	}
}

// NewRouter builds the gin engine serving b.
func NewRouter(b *vnbgeo.Browser, optFns ...Option) *gin.Engine {
	opts := routerOptions{
		logger:        slog.New(slog.DiscardHandler),
		codec:         codec.Default,
		slowThreshold: DefaultSlowThreshold,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	h := &handlers{b: b, codec: opts.codec}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(opts.logger, opts.slowThreshold, []string{"/healthz", "/metrics"}))

	r.GET("/healthz", h.health)
	if opts.metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.metrics))
	}

	api := r.Group("/api")
	{
		api.GET("/vnbs", h.listVNBs)
		api.GET("/vnbs/:id", h.getVNB)
		api.GET("/vnbs/:id/geometry", h.getGeometry)
		api.POST("/vnbs/:id/select", h.selectVNB)
		api.DELETE("/selection", h.deselect)
		api.GET("/search", h.search)
		api.GET("/stats", h.stats)

		api.GET("/assets/:category", h.listAssets)
		api.GET("/filters/fields", h.filterFields)
		api.PUT("/filters/rules", h.putRules)

		api.GET("/boundaries/:layer", h.getBoundary)

		api.GET("/state", h.getState)
		api.POST("/viewport", h.setViewport)
		api.POST("/layers/:id/toggle", h.toggleLayer)
	}

	r.NoRoute(func(c *gin.Context) {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "route not found")
	})
	return r
}
