package blobstore

import (
	"context"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// ByteCache is a whole-blob cache keyed by resource name.
//
// internal/cache.LRU and rediscache.Cache implement it.
type ByteCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, data []byte)
	Delete(ctx context.Context, key string)
}

// CachingStore wraps a BlobStore and caches whole blobs.
// Resources are immutable for the lifetime of a data root, so entries are only
// dropped on Put/Delete through this store or by the cache's own eviction.
type CachingStore struct {
	inner  BlobStore
	cache  ByteCache
	group  singleflight.Group
	logger *slog.Logger
}

// NewCachingStore creates a new CachingStore.
func NewCachingStore(inner BlobStore, cache ByteCache, logger *slog.Logger) *CachingStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CachingStore{
		inner:  inner,
		cache:  cache,
		logger: logger,
	}
}

// Open returns the cached bytes for name, reading them through the inner store on a miss.
// Concurrent misses for the same name share one read.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	if data, ok := s.cache.Get(ctx, name); ok {
		return NewBytesBlob(data), nil
	}

	v, err, _ := s.group.Do(name, func() (any, error) {
		b, err := s.inner.Open(ctx, name)
		if err != nil {
			return nil, err
		}
		defer func() { _ = b.Close() }()

		data, err := io.ReadAll(b)
		if err != nil {
			return nil, err
		}
		s.cache.Set(ctx, name, data)
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return NewBytesBlob(v.([]byte)), nil
}

// Put writes through to the inner store and invalidates the cached entry.
// It fails with ErrReadOnly if the inner store is not writable.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	w, ok := s.inner.(WritableStore)
	if !ok {
		return ErrReadOnly
	}
	s.cache.Delete(ctx, name)
	return w.Put(ctx, name, data)
}

// Delete removes name from the inner store and the cache.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	w, ok := s.inner.(WritableStore)
	if !ok {
		return ErrReadOnly
	}
	s.cache.Delete(ctx, name)
	return w.Delete(ctx, name)
}

// List delegates to the inner store.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	w, ok := s.inner.(WritableStore)
	if !ok {
		return nil, ErrReadOnly
	}
	return w.List(ctx, prefix)
}

// Warm loads names into the cache with at most limit concurrent reads.
// Missing resources are skipped; the first other error aborts the warm-up.
func (s *CachingStore) Warm(ctx context.Context, names []string, limit int) error {
	if limit <= 0 {
		limit = 16
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, name := range names {
		g.Go(func() error {
			b, err := s.Open(ctx, name)
			if IsNotFound(err) {
				s.logger.Debug("warm: resource missing", "resource", name)
				return nil
			}
			if err != nil {
				return err
			}
			return b.Close()
		})
	}
	return g.Wait()
}
