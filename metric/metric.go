// Package metric defines the Collector the engine reports operational metrics
// through, with a no-op and an in-memory implementation.
//
// A Prometheus-backed Collector lives in the prometheus subpackage.
package metric

import (
	"sync/atomic"
	"time"
)

// Kind identifies a resource family.
type Kind string

const (
	KindIndex    Kind = "index"
	KindGeometry Kind = "geometry"
	KindAdmin    Kind = "admin"
	KindAsset    Kind = "asset"
)

// Collector receives operational metrics.
// Implementations must be safe for concurrent use.
type Collector interface {
	// RecordFetch is called after every resource fetch (success or failure).
	RecordFetch(kind Kind, duration time.Duration, bytes int, err error)

	// RecordCacheLookup is called for every geometry cache lookup.
	RecordCacheLookup(kind Kind, hit bool)

	// RecordEviction is called when a cached entry is evicted.
	RecordEviction(kind Kind)

	// RecordBatch is called after each geometry batch settles.
	RecordBatch(loaded, total int, duration time.Duration)
}

// Noop is a Collector that discards everything.
type Noop struct{}

func (Noop) RecordFetch(Kind, time.Duration, int, error) {}
func (Noop) RecordCacheLookup(Kind, bool)                {}
func (Noop) RecordEviction(Kind)                         {}
func (Noop) RecordBatch(int, int, time.Duration)         {}

// OrNoop returns c, or Noop if c is nil.
func OrNoop(c Collector) Collector {
	if c == nil {
		return Noop{}
	}
	return c
}

// Basic provides simple in-memory metrics collection.
// Useful for tests and debugging without external dependencies.
type Basic struct {
	Fetches        atomic.Int64
	FetchErrors    atomic.Int64
	FetchBytes     atomic.Int64
	FetchNanos     atomic.Int64
	GeometryFetch  atomic.Int64
	CacheHits      atomic.Int64
	CacheMisses    atomic.Int64
	Evictions      atomic.Int64
	Batches        atomic.Int64
	BatchNanos     atomic.Int64
	LastBatchLoad  atomic.Int64
	LastBatchTotal atomic.Int64
}

// RecordFetch implements Collector.
func (b *Basic) RecordFetch(kind Kind, duration time.Duration, bytes int, err error) {
	b.Fetches.Add(1)
	b.FetchNanos.Add(duration.Nanoseconds())
	b.FetchBytes.Add(int64(bytes))
	if kind == KindGeometry {
		b.GeometryFetch.Add(1)
	}
	if err != nil {
		b.FetchErrors.Add(1)
	}
}

// RecordCacheLookup implements Collector.
func (b *Basic) RecordCacheLookup(_ Kind, hit bool) {
	if hit {
		b.CacheHits.Add(1)
	} else {
		b.CacheMisses.Add(1)
	}
}

// RecordEviction implements Collector.
func (b *Basic) RecordEviction(Kind) {
	b.Evictions.Add(1)
}

// RecordBatch implements Collector.
func (b *Basic) RecordBatch(loaded, total int, duration time.Duration) {
	b.Batches.Add(1)
	b.BatchNanos.Add(duration.Nanoseconds())
	b.LastBatchLoad.Store(int64(loaded))
	b.LastBatchTotal.Store(int64(total))
}

// Snapshot is a point-in-time copy of Basic's counters.
type Snapshot struct {
	Fetches       int64 `json:"fetches"`
	FetchErrors   int64 `json:"fetchErrors"`
	FetchBytes    int64 `json:"fetchBytes"`
	GeometryFetch int64 `json:"geometryFetches"`
	CacheHits     int64 `json:"cacheHits"`
	CacheMisses   int64 `json:"cacheMisses"`
	Evictions     int64 `json:"evictions"`
	Batches       int64 `json:"batches"`
}

// Snapshot returns the current counters.
func (b *Basic) Snapshot() Snapshot {
	return Snapshot{
		Fetches:       b.Fetches.Load(),
		FetchErrors:   b.FetchErrors.Load(),
		FetchBytes:    b.FetchBytes.Load(),
		GeometryFetch: b.GeometryFetch.Load(),
		CacheHits:     b.CacheHits.Load(),
		CacheMisses:   b.CacheMisses.Load(),
		Evictions:     b.Evictions.Load(),
		Batches:       b.Batches.Load(),
	}
}
