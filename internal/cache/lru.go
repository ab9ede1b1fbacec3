package cache

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/zerorec/resource"
)

// LRUBlockCache implements a simple LRU BlockCache bounded in bytes.
type LRUBlockCache struct {
	mu        sync.Mutex
	capacity  int64
	size      int64
	items     map[Key]*list.Element
	evictList *list.List
	rc        *resource.Controller

	hits   atomic.Int64
	misses atomic.Int64
}

type entry struct {
	key   Key
	value []byte
}

// NewLRUBlockCache creates a new LRU cache with the given capacity in bytes.
// If rc is provided, it will be used to track memory usage.
func NewLRUBlockCache(capacity int64, rc *resource.Controller) *LRUBlockCache {
	return &LRUBlockCache{
		capacity:  capacity,
		items:     make(map[Key]*list.Element),
		evictList: list.New(),
		rc:        rc,
	}
}

// Get returns a cached block.
func (c *LRUBlockCache) Get(_ context.Context, key Key) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		c.hits.Add(1)
		c.evictList.MoveToFront(ent)
		return ent.Value.(*entry).value, true
	}
	c.misses.Add(1)
	return nil, false
}

// Set caches a block. Blocks larger than the capacity, or that the
// controller refuses, are dropped.
func (c *LRUBlockCache) Set(_ context.Context, key Key, b []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	newSize := int64(len(b))
	if newSize > c.capacity {
		return
	}

	if ent, ok := c.items[key]; ok {
		c.evictList.MoveToFront(ent)
		e := ent.Value.(*entry)
		oldSize := int64(len(e.value))
		if newSize > oldSize && c.rc.AcquireMemory(newSize-oldSize) != nil {
			// Keep the old value.
			return
		}
		if newSize < oldSize {
			c.rc.ReleaseMemory(oldSize - newSize)
		}
		c.size += newSize - oldSize
		e.value = b
		c.evict()
		return
	}

	// Evicting first releases memory to the controller before acquiring.
	for c.size+newSize > c.capacity {
		ent := c.evictList.Back()
		if ent == nil {
			break
		}
		c.removeElement(ent)
	}

	if c.rc.AcquireMemory(newSize) != nil {
		return
	}

	c.items[key] = c.evictList.PushFront(&entry{key, b})
	c.size += newSize
}

// Invalidate removes entries matching the predicate.
func (c *LRUBlockCache) Invalidate(predicate func(key Key) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var toRemove []*list.Element
	for key, element := range c.items {
		if predicate(key) {
			toRemove = append(toRemove, element)
		}
	}
	for _, e := range toRemove {
		c.removeElement(e)
	}
}

func (c *LRUBlockCache) evict() {
	for c.size > c.capacity {
		element := c.evictList.Back()
		if element == nil {
			return
		}
		c.removeElement(element)
	}
}

// Close drops all entries and releases their memory.
func (c *LRUBlockCache) Close() error {
	c.Invalidate(func(Key) bool { return true })
	return nil
}

// Stats returns hit and miss counts.
func (c *LRUBlockCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *LRUBlockCache) removeElement(e *list.Element) {
	c.evictList.Remove(e)
	kv := e.Value.(*entry)
	delete(c.items, kv.key)
	n := int64(len(kv.value))
	c.size -= n
	c.rc.ReleaseMemory(n)
}

// Size returns the current size of the cache in bytes.
func (c *LRUBlockCache) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Len returns the number of cached blocks.
func (c *LRUBlockCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
