// Package rediscache provides a blobstore.ByteCache backed by Redis, so that
// several engine processes can share fetched resources.
package rediscache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hupe1980/vnbgeo/blobstore"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL is the expiry applied to cached resources.
const DefaultTTL = 24 * time.Hour

// Cache implements blobstore.ByteCache on a Redis client.
// Redis failures degrade to cache misses; they are logged, never returned.
type Cache struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration
	logger    *slog.Logger
}

var _ blobstore.ByteCache = (*Cache)(nil)

// Option configures a Cache.
type Option func(*Cache)

// WithKeyPrefix namespaces all keys (default "vnbgeo:blob:").
func WithKeyPrefix(prefix string) Option {
	return func(c *Cache) { c.keyPrefix = prefix }
}

// WithTTL sets the entry expiry. Zero disables expiry.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

// WithLogger sets the logger for degraded operations.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

// New wraps client.
func New(client redis.UniversalClient, optFns ...Option) *Cache {
	c := &Cache{
		client:    client,
		keyPrefix: "vnbgeo:blob:",
		ttl:       DefaultTTL,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, fn := range optFns {
		fn(c)
	}
	return c
}

// NewFromURL parses a redis:// URL and returns a Cache on a fresh client.
func NewFromURL(url string, optFns ...Option) (*Cache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return New(redis.NewClient(opts), optFns...), nil
}

func (c *Cache) key(name string) string {
	return c.keyPrefix + name
}

// Get implements blobstore.ByteCache.
func (c *Cache) Get(ctx context.Context, name string) ([]byte, bool) {
	data, err := c.client.Get(ctx, c.key(name)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("redis get failed", "resource", name, "error", err)
		}
		return nil, false
	}
	return data, true
}

// Set implements blobstore.ByteCache.
func (c *Cache) Set(ctx context.Context, name string, data []byte) {
	if err := c.client.Set(ctx, c.key(name), data, c.ttl).Err(); err != nil {
		c.logger.Warn("redis set failed", "resource", name, "error", err)
	}
}

// Delete implements blobstore.ByteCache.
func (c *Cache) Delete(ctx context.Context, name string) {
	if err := c.client.Del(ctx, c.key(name)).Err(); err != nil {
		c.logger.Warn("redis del failed", "resource", name, "error", err)
	}
}

// Ping checks connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (c *Cache) Close() error {
	return c.client.Close()
}
