package resource

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ErrMemoryLimitExceeded is returned when a reservation would exceed the limit.
var ErrMemoryLimitExceeded = errors.New("resource: memory limit exceeded")

// Config holds resource limits. Zero values mean "unlimited", except
// MaxConcurrentFetch which defaults to 4.
type Config struct {
	// MemoryLimitBytes caps record bytes copied into the Go heap.
	MemoryLimitBytes int64

	// MaxConcurrentFetch caps concurrent blob opens/reads.
	MaxConcurrentFetch int64

	// IOLimitBytesPerSec caps blob store throughput.
	IOLimitBytesPerSec int64
}

// Controller enforces a Config.
type Controller struct {
	cfg Config

	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	fetchSem *semaphore.Weighted

	ioLimiter *rate.Limiter // nil if unlimited
	ioBurst   int
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxConcurrentFetch <= 0 {
		cfg.MaxConcurrentFetch = 4
	}

	c := &Controller{
		cfg:      cfg,
		fetchSem: semaphore.NewWeighted(cfg.MaxConcurrentFetch),
	}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}

	if cfg.IOLimitBytesPerSec > 0 {
		c.ioBurst = int(min(cfg.IOLimitBytesPerSec, int64(1<<30)))
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), c.ioBurst)
	}

	return c
}

// Config returns the effective configuration.
func (c *Controller) Config() Config {
	if c == nil {
		return Config{}
	}
	return c.cfg
}

// AcquireMemory reserves bytes without blocking.
func (c *Controller) AcquireMemory(bytes int64) error {
	if c == nil || bytes <= 0 {
		return nil
	}

	if c.memSem != nil && !c.memSem.TryAcquire(bytes) {
		return ErrMemoryLimitExceeded
	}

	c.memUsed.Add(bytes)
	return nil
}

// ReleaseMemory returns bytes reserved by AcquireMemory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}

	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the bytes currently reserved.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// AcquireFetch blocks until a fetch slot is free or ctx is done.
func (c *Controller) AcquireFetch(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.fetchSem.Acquire(ctx, 1)
}

// TryAcquireFetch reserves a fetch slot without blocking.
func (c *Controller) TryAcquireFetch() bool {
	if c == nil {
		return true
	}
	return c.fetchSem.TryAcquire(1)
}

// ReleaseFetch frees a fetch slot.
func (c *Controller) ReleaseFetch() {
	if c == nil {
		return
	}
	c.fetchSem.Release(1)
}

// AcquireIO waits until the limiter admits n bytes.
// Requests larger than the bucket are admitted in bucket-sized chunks.
func (c *Controller) AcquireIO(ctx context.Context, n int) error {
	if c == nil || c.ioLimiter == nil || n <= 0 {
		return nil
	}
	for n > 0 {
		chunk := min(n, c.ioBurst)
		if err := c.ioLimiter.WaitN(ctx, chunk); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}

// TryAcquireIO admits n bytes only if tokens are available right now.
func (c *Controller) TryAcquireIO(n int) bool {
	if c == nil || c.ioLimiter == nil {
		return true
	}
	return c.ioLimiter.AllowN(time.Now(), n)
}
