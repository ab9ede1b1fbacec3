package cache

import (
	"context"
	"testing"

	"github.com/hupe1980/zerorec/resource"
	"github.com/stretchr/testify/assert"
)

func TestLRU_EdgeCases(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 100})
	c := NewLRUBlockCache(50, rc)
	ctx := context.Background()
	k := Key{Name: "a", Block: 1}

	// Larger than capacity.
	c.Set(ctx, k, make([]byte, 60))
	_, ok := c.Get(ctx, k)
	assert.False(t, ok)

	c.Set(ctx, k, make([]byte, 10))
	assert.Equal(t, int64(10), c.Size())
	assert.Equal(t, int64(10), rc.MemoryUsage())

	c.Set(ctx, k, make([]byte, 20))
	assert.Equal(t, int64(20), c.Size())
	assert.Equal(t, int64(20), rc.MemoryUsage())

	c.Set(ctx, k, make([]byte, 5))
	assert.Equal(t, int64(5), c.Size())
	assert.Equal(t, int64(5), rc.MemoryUsage())
	assert.Equal(t, 1, c.Len())

	// Growth refused by the controller keeps the old value.
	rc2 := resource.NewController(resource.Config{MemoryLimitBytes: 10})
	c2 := NewLRUBlockCache(50, rc2)
	c2.Set(ctx, k, make([]byte, 8))
	c2.Set(ctx, k, make([]byte, 12))

	val, ok := c2.Get(ctx, k)
	assert.True(t, ok)
	assert.Len(t, val, 8)

	// New entries refused by the controller are dropped.
	c2.Set(ctx, Key{Name: "b"}, make([]byte, 4))
	_, ok = c2.Get(ctx, Key{Name: "b"})
	assert.False(t, ok)
}

func TestLRU_Eviction(t *testing.T) {
	rc := resource.NewController(resource.Config{})
	c := NewLRUBlockCache(30, rc)
	ctx := context.Background()

	for i := range 4 {
		c.Set(ctx, Key{Name: "blob", Block: uint64(i)}, make([]byte, 10))
	}
	assert.Equal(t, 3, c.Len())
	_, ok := c.Get(ctx, Key{Name: "blob", Block: 0})
	assert.False(t, ok, "oldest block evicted")
	assert.Equal(t, int64(30), rc.MemoryUsage())

	// Touching block 1 makes block 2 the eviction candidate.
	_, ok = c.Get(ctx, Key{Name: "blob", Block: 1})
	assert.True(t, ok)
	c.Set(ctx, Key{Name: "blob", Block: 9}, make([]byte, 10))
	_, ok = c.Get(ctx, Key{Name: "blob", Block: 2})
	assert.False(t, ok)

	assert.NoError(t, c.Close())
	assert.Equal(t, int64(0), rc.MemoryUsage())
}

func TestLRU_Stats(t *testing.T) {
	c := NewLRUBlockCache(100, nil)
	ctx := context.Background()
	k := Key{Name: "x", Block: 1}
	c.Set(ctx, k, []byte{1})
	c.Get(ctx, k)
	c.Get(ctx, Key{Name: "y", Block: 2})

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestLRU_Invalidate(t *testing.T) {
	c := NewLRUBlockCache(100, nil)
	ctx := context.Background()
	c.Set(ctx, Key{Name: "a", Block: 1}, []byte("a"))
	c.Set(ctx, Key{Name: "a", Block: 2}, []byte("b"))
	c.Set(ctx, Key{Name: "b", Block: 1}, []byte("c"))

	c.Invalidate(func(k Key) bool { return k.Name == "a" })

	_, ok := c.Get(ctx, Key{Name: "a", Block: 1})
	assert.False(t, ok)
	_, ok = c.Get(ctx, Key{Name: "b", Block: 1})
	assert.True(t, ok)
	assert.Equal(t, int64(1), c.Size())
}
