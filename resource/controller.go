package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MemoryLimitBytes is the hard limit for cached resource bytes.
	// If 0, no hard limit is enforced (only tracking).
	MemoryLimitBytes int64

	// MaxInFlightFetches is the maximum number of concurrent resource fetches.
	// If 0, unlimited.
	MaxInFlightFetches int64

	// FetchesPerSecond is the sustained request rate towards the data source.
	// If 0, unlimited.
	FetchesPerSecond float64

	// FetchBurst is the token bucket size. Defaults to MaxInFlightFetches or 1.
	FetchBurst int
}

// Controller manages shared limits (memory, fetch concurrency, fetch rate).
type Controller struct {
	cfg Config

	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	fetchSem *semaphore.Weighted // nil if unlimited
	inFlight atomic.Int64

	limiter *rate.Limiter // nil if unlimited
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	c := &Controller{cfg: cfg}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}

	if cfg.MaxInFlightFetches > 0 {
		c.fetchSem = semaphore.NewWeighted(cfg.MaxInFlightFetches)
	}

	if cfg.FetchesPerSecond > 0 {
		burst := cfg.FetchBurst
		if burst <= 0 {
			burst = int(max(cfg.MaxInFlightFetches, 1))
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.FetchesPerSecond), burst)
	}

	return c
}

// TryAcquireMemory attempts to reserve memory without blocking.
// Returns true if acquired, false if limit would be exceeded.
func (c *Controller) TryAcquireMemory(bytes int64) bool {
	if c == nil || bytes <= 0 {
		return true
	}

	if c.memSem != nil {
		if !c.memSem.TryAcquire(bytes) {
			return false
		}
	}

	c.memUsed.Add(bytes)
	return true
}

// ReleaseMemory releases reserved memory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}

	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the current memory usage in bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// AcquireFetch blocks until a fetch slot is free and the rate limiter admits
// one more request, or ctx is done.
func (c *Controller) AcquireFetch(ctx context.Context) error {
	if c == nil {
		return nil
	}

	if c.fetchSem != nil {
		if err := c.fetchSem.Acquire(ctx, 1); err != nil {
			return err
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			if c.fetchSem != nil {
				c.fetchSem.Release(1)
			}
			return err
		}
	}

	c.inFlight.Add(1)
	return nil
}

// ReleaseFetch releases a slot taken by AcquireFetch.
func (c *Controller) ReleaseFetch() {
	if c == nil {
		return
	}
	c.inFlight.Add(-1)
	if c.fetchSem != nil {
		c.fetchSem.Release(1)
	}
}

// InFlight returns the number of fetches currently holding a slot.
func (c *Controller) InFlight() int64 {
	if c == nil {
		return 0
	}
	return c.inFlight.Load()
}
