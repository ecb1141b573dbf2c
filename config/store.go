package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hupe1980/vnbgeo/blobstore"
	miniostore "github.com/hupe1980/vnbgeo/blobstore/minio"
	"github.com/hupe1980/vnbgeo/blobstore/rediscache"
	s3store "github.com/hupe1980/vnbgeo/blobstore/s3"
	"github.com/hupe1980/vnbgeo/internal/cache"
	"github.com/hupe1980/vnbgeo/resource"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Store is an opened data root. Close releases cache connections.
type Store struct {
	blobstore.BlobStore
	// Writable is the uncached backend when it supports writes, else nil.
	Writable blobstore.WritableStore
	closers  []func() error
}

// Close releases the store's resources.
func (s *Store) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// ResourceController returns the controller enforcing the fetch limits.
func (c *Config) ResourceController() *resource.Controller {
	return resource.NewController(resource.Config{
		MemoryLimitBytes:   c.Cache.MemoryBytes,
		MaxInFlightFetches: c.Fetch.MaxInFlight,
		FetchesPerSecond:   c.Fetch.RequestsPerSecond,
	})
}

// OpenStore builds the data root described by c.Data, wrapped in the cache
// described by c.Cache.
func (c *Config) OpenStore(ctx context.Context, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	rc := c.ResourceController()
	out := &Store{}

	var backend blobstore.BlobStore
	switch c.Data.Backend {
	case "http":
		hs, err := blobstore.NewHTTPStore(c.Data.BaseURL,
			blobstore.WithHTTPClient(&http.Client{Timeout: c.Fetch.Timeout}),
			blobstore.WithResourceController(rc),
		)
		if err != nil {
			return nil, err
		}
		backend = hs
	case "local":
		ls := blobstore.NewLocalStore(c.Data.Dir)
		backend, out.Writable = ls, ls
	case "s3":
		opts := []s3store.Option{s3store.WithPrefix(c.Data.Prefix)}
		if c.Data.Region != "" {
			opts = append(opts, s3store.WithRegion(c.Data.Region))
		}
		if c.Data.Endpoint != "" {
			opts = append(opts, s3store.WithEndpoint(c.Data.Endpoint, true))
		}
		ss, err := s3store.New(ctx, c.Data.Bucket, opts...)
		if err != nil {
			return nil, fmt.Errorf("config: s3 store: %w", err)
		}
		backend, out.Writable = ss, ss
	case "minio":
		client, err := minio.New(c.Data.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(c.Data.AccessKey, c.Data.SecretKey, ""),
			Secure: c.Data.UseSSL,
			Region: c.Data.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("config: minio client: %w", err)
		}
		ms := miniostore.NewStore(client, c.Data.Bucket, c.Data.Prefix)
		backend, out.Writable = ms, ms
	default:
		return nil, fmt.Errorf("config: unknown data backend %q", c.Data.Backend)
	}

	switch c.Cache.Backend {
	case "memory":
		lru := cache.NewLRU(c.Cache.MemoryBytes, rc)
		out.BlobStore = blobstore.NewCachingStore(backend, lru, logger)
	case "redis":
		rcache, err := rediscache.NewFromURL(c.Cache.RedisURL,
			rediscache.WithTTL(c.Cache.TTL),
			rediscache.WithLogger(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("config: redis cache: %w", err)
		}
		out.closers = append(out.closers, rcache.Close)
		out.BlobStore = blobstore.NewCachingStore(backend, rcache, logger)
	default:
		out.BlobStore = backend
	}

	logger.Debug("data root opened", "backend", c.Data.Backend, "cache", c.Cache.Backend)
	return out, nil
}
