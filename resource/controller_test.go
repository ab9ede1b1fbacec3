package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Memory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	require.NoError(t, c.AcquireMemory(50))
	require.NoError(t, c.AcquireMemory(40))
	assert.Equal(t, int64(90), c.MemoryUsage())

	assert.ErrorIs(t, c.AcquireMemory(20), ErrMemoryLimitExceeded)
	assert.Equal(t, int64(90), c.MemoryUsage())

	c.ReleaseMemory(50)
	assert.Equal(t, int64(40), c.MemoryUsage())

	require.NoError(t, c.AcquireMemory(20))
	assert.Equal(t, int64(60), c.MemoryUsage())
}

func TestController_UnlimitedMemory(t *testing.T) {
	c := NewController(Config{})

	require.NoError(t, c.AcquireMemory(1000))
	c.ReleaseMemory(500)
	assert.Equal(t, int64(500), c.MemoryUsage())
}

func TestController_Fetch(t *testing.T) {
	c := NewController(Config{MaxConcurrentFetch: 2})

	require.NoError(t, c.AcquireFetch(t.Context()))
	require.NoError(t, c.AcquireFetch(t.Context()))
	assert.False(t, c.TryAcquireFetch())

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, c.AcquireFetch(ctx))

	c.ReleaseFetch()
	assert.True(t, c.TryAcquireFetch())
}

func TestController_DefaultFetchLimit(t *testing.T) {
	c := NewController(Config{})
	assert.Equal(t, int64(4), c.Config().MaxConcurrentFetch)
}

func TestController_IOChunksLargeRequests(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})

	// Larger than the bucket: must be split rather than rejected by WaitN.
	require.NoError(t, c.AcquireIO(t.Context(), 3<<20/2))
	assert.False(t, c.TryAcquireIO(1<<20))
}

func TestController_IOCanceled(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 10})
	require.NoError(t, c.AcquireIO(t.Context(), 10))

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	assert.Error(t, c.AcquireIO(ctx, 10))
}

func TestController_NilIsUnlimited(t *testing.T) {
	var c *Controller

	require.NoError(t, c.AcquireMemory(1<<40))
	c.ReleaseMemory(1 << 40)
	assert.Zero(t, c.MemoryUsage())
	require.NoError(t, c.AcquireFetch(t.Context()))
	assert.True(t, c.TryAcquireFetch())
	c.ReleaseFetch()
	require.NoError(t, c.AcquireIO(t.Context(), 1<<30))
	assert.True(t, c.TryAcquireIO(1<<30))
	assert.Equal(t, Config{}, c.Config())
}
