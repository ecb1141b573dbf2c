package asset

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hupe1980/vnbgeo/blobstore"
	"github.com/hupe1980/vnbgeo/codec"
	"github.com/hupe1980/vnbgeo/metric"
)

// DefaultPrefix is the resource directory of the asset files.
const DefaultPrefix = "anlagen/"

type options struct {
	prefix   string
	codec    codec.Codec
	logger   *slog.Logger
	metrics  metric.Collector
	onChange func(Category, Status)
}

// Option configures a Loader.
type Option func(*options)

// WithPrefix overrides the resource directory.
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithCodec sets the codec used to decode asset files.
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

// WithOnChange registers a callback for every status transition.
func WithOnChange(fn func(Category, Status)) Option {
	return func(o *options) { o.onChange = fn }
}

type categoryState struct {
	status  Status
	records []Record
	err     error
	done    chan struct{}
}

// Loader is the Asset Layer Loader. It is safe for concurrent use.
type Loader struct {
	src  blobstore.BlobStore
	opts options

	mu    sync.Mutex
	state map[Category]*categoryState
}

// New creates a Loader reading asset files from src.
func New(src blobstore.BlobStore, optFns ...Option) *Loader {
	opts := options{
		prefix:  DefaultPrefix,
		codec:   codec.Default,
		logger:  slog.New(slog.DiscardHandler),
		metrics: metric.Noop{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	l := &Loader{src: src, opts: opts, state: make(map[Category]*categoryState, len(Categories))}
	for _, c := range Categories {
		l.state[c] = &categoryState{}
	}
	return l
}

// Resource returns the resource name of a category.
func (l *Loader) Resource(c Category) string {
	return l.opts.prefix + string(c) + ".geojson"
}

// EnsureLoaded loads category if visible and not yet requested, and returns
// its records. A hidden, never-requested category returns nil without
// fetching. Callers arriving while a load is in flight wait for it. After a
// failure every call returns the same *LoadError.
func (l *Loader) EnsureLoaded(ctx context.Context, c Category, visible bool) ([]Record, error) {
	l.mu.Lock()
	st, ok := l.state[c]
	if !ok {
		l.mu.Unlock()
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, c)
	}

	switch st.status {
	case Loaded, Failed:
		records, err := st.records, st.err
		l.mu.Unlock()
		return records, err
	case Loading:
		done := st.done
		l.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		l.mu.Lock()
		defer l.mu.Unlock()
		return st.records, st.err
	}

	if !visible {
		l.mu.Unlock()
		return nil, nil
	}
	st.status = Loading
	st.done = make(chan struct{})
	l.mu.Unlock()

	l.notify(c, Loading)
	l.load(context.WithoutCancel(ctx), c, st)

	l.mu.Lock()
	defer l.mu.Unlock()
	return st.records, st.err
}

func (l *Loader) load(ctx context.Context, c Category, st *categoryState) {
	resource := l.Resource(c)
	l.opts.logger.Debug("asset load started", "category", c, "resource", resource)

	start := time.Now()
	data, err := blobstore.ReadAll(ctx, l.src, resource)
	l.opts.metrics.RecordFetch(metric.KindAsset, time.Since(start), len(data), err)

	var (
		records []Record
		skipped int
	)
	if err == nil {
		records, skipped, err = Decode(l.opts.codec, resource, c, data)
	}

	l.mu.Lock()
	if err != nil {
		st.status = Failed
		st.err = &LoadError{Category: c, Resource: resource, Err: err}
	} else {
		st.status = Loaded
		st.records = records
	}
	status := st.status
	close(st.done)
	l.mu.Unlock()

	if err != nil {
		l.opts.logger.Error("asset load failed", "category", c, "resource", resource, "error", err)
	} else {
		l.opts.logger.Info("assets loaded", "category", c, "records", len(records), "skipped", skipped)
	}
	l.notify(c, status)
}

func (l *Loader) notify(c Category, s Status) {
	if l.opts.onChange != nil {
		l.opts.onChange(c, s)
	}
}

// Status returns the load state of a category.
func (l *Loader) Status(c Category) Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	if st, ok := l.state[c]; ok {
		return st.status
	}
	return NotRequested
}

// Err returns the *LoadError of a failed category.
func (l *Loader) Err(c Category) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if st, ok := l.state[c]; ok {
		return st.err
	}
	return nil
}

// Records returns the loaded records of a category, or nil.
func (l *Loader) Records(c Category) []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	if st, ok := l.state[c]; ok {
		return st.records
	}
	return nil
}
