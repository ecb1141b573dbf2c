package geometry

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hupe1980/vnbgeo/blobstore"
	"github.com/hupe1980/vnbgeo/internal/cache"
	"github.com/hupe1980/vnbgeo/metric"
	"github.com/hupe1980/vnbgeo/spatial"
	"github.com/paulmach/orb/geojson"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Record is the full geometry of one index record. It is never mutated after insertion.
type Record struct {
	ID         string
	Collection *geojson.FeatureCollection
}

// Resolver maps record ids to index records. *spatial.Store implements it.
type Resolver interface {
	Get(id string) (spatial.Record, bool)
}

// Progress reports the state of the current batch load.
type Progress struct {
	Generation uint64 `json:"generation"`
	Loaded     int    `json:"loaded"`
	Total      int    `json:"total"`
}

// Done reports whether every batch has settled.
func (p Progress) Done() bool {
	return p.Loaded >= p.Total
}

// Cache is the Lazy Geometry Cache. It is safe for concurrent use.
type Cache struct {
	src      blobstore.BlobStore
	resolver Resolver
	opts     options

	entries *cache.FIFO[string, *Record]
	group   singleflight.Group

	mu         sync.Mutex
	generation uint64
	progress   Progress
	features   *geojson.FeatureCollection
}

// New creates a Cache that resolves ids through resolver and reads geometry files from src.
func New(src blobstore.BlobStore, resolver Resolver, optFns ...Option) *Cache {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	c := &Cache{
		src:      src,
		resolver: resolver,
		opts:     opts,
		features: geojson.NewFeatureCollection(),
	}
	c.entries = cache.NewFIFO(opts.capacity, func(id string, _ *Record) {
		c.opts.metrics.RecordEviction(metric.KindGeometry)
		c.opts.logger.Debug("geometry evicted", "id", id)
	})
	return c
}

// Get returns the geometry for id, fetching it on a miss.
// Concurrent calls for the same id share one fetch. If ctx is done before the
// fetch settles, Get returns ctx.Err(); the fetch itself still completes and
// populates the cache.
func (c *Cache) Get(ctx context.Context, id string) (*Record, error) {
	if rec, ok := c.entries.Get(id); ok {
		c.opts.metrics.RecordCacheLookup(metric.KindGeometry, true)
		return rec, nil
	}
	c.opts.metrics.RecordCacheLookup(metric.KindGeometry, false)

	meta, ok := c.resolver.Get(id)
	if !ok {
		return nil, ErrUnknownRecord
	}

	ch := c.group.DoChan(id, func() (any, error) {
		return c.fetch(context.WithoutCancel(ctx), meta)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Record), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Cache) fetch(ctx context.Context, meta spatial.Record) (*Record, error) {
	// A concurrent fetch may have completed between the miss and joining the group.
	if rec, ok := c.entries.Get(meta.ID); ok {
		return rec, nil
	}

	resource := c.opts.prefix + meta.FileName

	start := time.Now()
	data, err := blobstore.ReadAll(ctx, c.src, resource)
	c.opts.metrics.RecordFetch(metric.KindGeometry, time.Since(start), len(data), err)
	if err != nil {
		return nil, &LoadError{ID: meta.ID, Resource: resource, Err: err}
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, &LoadError{ID: meta.ID, Resource: resource, Err: err}
	}

	rec := &Record{ID: meta.ID, Collection: fc}
	c.entries.Put(meta.ID, rec)
	return rec, nil
}

// Peek returns a cached geometry without fetching.
func (c *Cache) Peek(id string) (*Record, bool) {
	return c.entries.Get(id)
}

// Contains reports whether id is cached.
func (c *Cache) Contains(id string) bool {
	return c.entries.Contains(id)
}

// Len returns the number of cached geometries.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// IDs returns the cached ids, oldest insertion first.
func (c *Cache) IDs() []string {
	return c.entries.Keys()
}

// BatchResult is the outcome of a completed GetBatch.
type BatchResult struct {
	Generation uint64
	// Records holds the loaded geometries in request order; failed ids are skipped.
	Records []*Record
	// Failed lists ids whose fetch failed. They contribute zero features.
	Failed []string
	// Features is the merged feature collection of Records.
	Features *geojson.FeatureCollection
}

// GetBatch loads ids in batches, parallel within a batch and sequential across
// batches, so at most the batch size of fetches is in flight. Progress is
// published after every batch.
//
// Starting GetBatch supersedes every earlier call: those stop before their next
// batch, drop their results and return ErrSuperseded. A completed, current load
// replaces the set returned by Features.
func (c *Cache) GetBatch(ctx context.Context, ids []string) (*BatchResult, error) {
	gen := c.begin(len(ids))

	results := make([]*Record, len(ids))
	failed := make([]bool, len(ids))

	for start := 0; start < len(ids); start += c.opts.batchSize {
		if !c.isCurrent(gen) {
			return nil, ErrSuperseded
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := min(start+c.opts.batchSize, len(ids))
		batchStart := time.Now()

		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				rec, err := c.Get(ctx, ids[i])
				if err != nil {
					failed[i] = true
					if !errors.Is(err, context.Canceled) {
						c.opts.logger.Warn("geometry load failed", "id", ids[i], "error", err)
					}
					return nil
				}
				results[i] = rec
				return nil
			})
		}
		_ = g.Wait()

		if !c.publish(gen, func() {
			c.progress.Loaded = end
			c.opts.metrics.RecordBatch(end, len(ids), time.Since(batchStart))
			if c.opts.onProgress != nil {
				c.opts.onProgress(c.progress)
			}
		}) {
			return nil, ErrSuperseded
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &BatchResult{Generation: gen, Features: geojson.NewFeatureCollection()}
	for i, rec := range results {
		if failed[i] || rec == nil {
			res.Failed = append(res.Failed, ids[i])
			continue
		}
		res.Records = append(res.Records, rec)
		res.Features.Features = append(res.Features.Features, rec.Collection.Features...)
	}

	if !c.publish(gen, func() { c.features = res.Features }) {
		return nil, ErrSuperseded
	}

	c.opts.logger.Debug("geometry batch load complete",
		"generation", gen, "loaded", len(res.Records), "failed", len(res.Failed))
	return res, nil
}

// Cancel supersedes any running GetBatch without starting a new load.
func (c *Cache) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.progress = Progress{Generation: c.generation}
}

// Progress returns the progress of the current generation.
func (c *Cache) Progress() Progress {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progress
}

// Features returns the merged features of the most recent completed, current load.
func (c *Cache) Features() *geojson.FeatureCollection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.features
}

func (c *Cache) begin(total int) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.progress = Progress{Generation: c.generation, Total: total}
	if c.opts.onProgress != nil {
		c.opts.onProgress(c.progress)
	}
	return c.generation
}

func (c *Cache) isCurrent(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation == gen
}

// publish runs fn under the lock if gen is still current.
func (c *Cache) publish(gen uint64, fn func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		return false
	}
	fn()
	return true
}
