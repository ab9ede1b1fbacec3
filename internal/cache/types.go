package cache

import (
	"context"
)

// Key identifies one block of a blob.
type Key struct {
	// Name is the blob name in its store.
	Name string
	// Block is the block index within the blob.
	Block uint64
}

// BlockCache is a byte-oriented cache for immutable blocks.
// Returned slices must be treated as read-only.
type BlockCache interface {
	// Get returns a cached block. ok=false if missing.
	Get(ctx context.Context, key Key) (b []byte, ok bool)
	// Set caches a block. Implementations may retain b; callers must not modify it.
	Set(ctx context.Context, key Key, b []byte)
	// Invalidate removes entries matching the predicate.
	Invalidate(predicate func(key Key) bool)
	// Close releases any resources.
	Close() error
	// Stats returns cache statistics.
	Stats() (hits, misses int64)
}
