package cache

import (
	"context"
	"testing"

	"github.com/hupe1980/vnbgeo/resource"
	"github.com/stretchr/testify/assert"
)

func TestLRU_Basic(t *testing.T) {
	ctx := context.Background()
	c := NewLRU(10, nil)

	c.Set(ctx, "a", []byte("12345"))
	c.Set(ctx, "b", []byte("12345"))
	assert.Equal(t, int64(10), c.Size())

	// Touch a so that b is the eviction candidate.
	_, ok := c.Get(ctx, "a")
	assert.True(t, ok)

	c.Set(ctx, "c", []byte("1"))
	_, ok = c.Get(ctx, "b")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "a")
	assert.True(t, ok)

	hits, misses := c.Stats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(1), misses)
}

func TestLRU_TooLarge(t *testing.T) {
	ctx := context.Background()
	c := NewLRU(4, nil)

	c.Set(ctx, "big", []byte("12345"))
	_, ok := c.Get(ctx, "big")
	assert.False(t, ok)
	assert.Equal(t, int64(0), c.Size())
}

func TestLRU_ReplaceAndDelete(t *testing.T) {
	ctx := context.Background()
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 100})
	c := NewLRU(50, rc)

	c.Set(ctx, "k", make([]byte, 10))
	c.Set(ctx, "k", make([]byte, 20))
	assert.Equal(t, int64(20), c.Size())
	assert.Equal(t, int64(20), rc.MemoryUsage())

	c.Delete(ctx, "k")
	assert.Equal(t, int64(0), c.Size())
	assert.Equal(t, int64(0), rc.MemoryUsage())
}

func TestLRU_ControllerDenies(t *testing.T) {
	ctx := context.Background()
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 10})
	rc.TryAcquireMemory(8) // someone else holds most of the budget

	c := NewLRU(50, rc)
	c.Set(ctx, "k", make([]byte, 5))

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, int64(8), rc.MemoryUsage())
}
