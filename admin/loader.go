package admin

import (
	"context"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/hupe1980/vnbgeo/blobstore"
	"github.com/hupe1980/vnbgeo/metric"
	"github.com/paulmach/orb/geojson"
)

// DefaultPrefix is the resource directory of the boundary files.
const DefaultPrefix = "admin/"

type options struct {
	prefix     string
	thresholds map[Layer]Threshold
	async      bool
	logger     *slog.Logger
	metrics    metric.Collector
	onChange   func(Layer, Status)
}

// Option configures a Loader.
type Option func(*options)

// WithPrefix overrides the resource directory.
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithThresholds overrides the zoom gates of the given layers.
func WithThresholds(t map[Layer]Threshold) Option {
	return func(o *options) {
		maps.Copy(o.thresholds, t)
	}
}

// WithSynchronous makes Sync block until started loads settle.
func WithSynchronous() Option {
	return func(o *options) { o.async = false }
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

// WithOnChange registers a callback for every status transition.
// It runs outside the loader's lock.
func WithOnChange(fn func(Layer, Status)) Option {
	return func(o *options) { o.onChange = fn }
}

type layerState struct {
	status Status
	data   *geojson.FeatureCollection
	err    error
}

// Loader is the Viewport-Gated Loader. It is safe for concurrent use.
type Loader struct {
	src  blobstore.BlobStore
	opts options

	mu     sync.Mutex
	layers map[Layer]*layerState
	wg     sync.WaitGroup
}

// New creates a Loader reading boundary files from src.
func New(src blobstore.BlobStore, optFns ...Option) *Loader {
	opts := options{
		prefix:     DefaultPrefix,
		thresholds: maps.Clone(DefaultThresholds),
		async:      true,
		logger:     slog.New(slog.DiscardHandler),
		metrics:    metric.Noop{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	l := &Loader{src: src, opts: opts, layers: make(map[Layer]*layerState, len(Layers))}
	for _, layer := range Layers {
		l.layers[layer] = &layerState{}
	}
	return l
}

// Resource returns the resource name of a layer.
func (l *Loader) Resource(layer Layer) string {
	return l.opts.prefix + string(layer) + ".geojson"
}

// Threshold returns the zoom gates of a layer.
func (l *Loader) Threshold(layer Layer) Threshold {
	return l.opts.thresholds[layer]
}

// ShouldFetch reports whether zoom reaches the fetch threshold of layer.
func (l *Loader) ShouldFetch(layer Layer, zoom int) bool {
	t, ok := l.opts.thresholds[layer]
	return ok && zoom >= t.Fetch
}

// ShouldDisplay reports whether zoom reaches the display threshold of layer.
func (l *Loader) ShouldDisplay(layer Layer, zoom int) bool {
	t, ok := l.opts.thresholds[layer]
	return ok && zoom >= t.Display
}

// Sync starts a load for every layer that is visible, at or above its fetch
// threshold and not yet requested. It returns the layers it started. Loads run
// in the background unless the Loader is synchronous; use Wait to join them.
func (l *Loader) Sync(ctx context.Context, zoom int, visible map[Layer]bool) []Layer {
	var started []Layer

	l.mu.Lock()
	for _, layer := range Layers {
		st := l.layers[layer]
		if !visible[layer] || !l.ShouldFetch(layer, zoom) || st.status != NotRequested {
			continue
		}
		st.status = Loading
		started = append(started, layer)
	}
	l.mu.Unlock()

	for _, layer := range started {
		l.notify(layer, Loading)
		l.opts.logger.Debug("boundary load started", "layer", layer, "zoom", zoom)

		if !l.opts.async {
			l.load(ctx, layer)
			continue
		}
		l.wg.Add(1)
		go func() {
			defer l.wg.Done()
			l.load(context.WithoutCancel(ctx), layer)
		}()
	}
	return started
}

// Wait blocks until all background loads have settled.
func (l *Loader) Wait() {
	l.wg.Wait()
}

func (l *Loader) load(ctx context.Context, layer Layer) {
	resource := l.Resource(layer)

	start := time.Now()
	data, err := blobstore.ReadAll(ctx, l.src, resource)
	l.opts.metrics.RecordFetch(metric.KindAdmin, time.Since(start), len(data), err)

	var fc *geojson.FeatureCollection
	if err == nil {
		fc, err = geojson.UnmarshalFeatureCollection(data)
	}

	l.mu.Lock()
	st := l.layers[layer]
	if err != nil {
		st.status = Failed
		st.err = &LoadError{Layer: layer, Resource: resource, Err: err}
	} else {
		st.status = Loaded
		st.data = fc
	}
	status := st.status
	l.mu.Unlock()

	if err != nil {
		l.opts.logger.Error("boundary load failed", "layer", layer, "resource", resource, "error", err)
	} else {
		l.opts.logger.Info("boundary loaded", "layer", layer, "features", len(fc.Features))
	}
	l.notify(layer, status)
}

func (l *Loader) notify(layer Layer, s Status) {
	if l.opts.onChange != nil {
		l.opts.onChange(layer, s)
	}
}

// Status returns the load state of a layer.
func (l *Loader) Status(layer Layer) Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	if st, ok := l.layers[layer]; ok {
		return st.status
	}
	return NotRequested
}

// Err returns the *LoadError of a failed layer.
func (l *Loader) Err(layer Layer) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if st, ok := l.layers[layer]; ok {
		return st.err
	}
	return nil
}

// Data returns the loaded feature collection of a layer, or nil.
func (l *Loader) Data(layer Layer) *geojson.FeatureCollection {
	l.mu.Lock()
	defer l.mu.Unlock()
	if st, ok := l.layers[layer]; ok {
		return st.data
	}
	return nil
}

// Displayable returns the loaded layers that are visible and at or above their
// display threshold.
func (l *Loader) Displayable(zoom int, visible map[Layer]bool) map[Layer]*geojson.FeatureCollection {
	out := make(map[Layer]*geojson.FeatureCollection)
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, layer := range Layers {
		st := l.layers[layer]
		if visible[layer] && l.ShouldDisplay(layer, zoom) && st.status == Loaded {
			out[layer] = st.data
		}
	}
	return out
}
