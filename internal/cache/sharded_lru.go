package cache

import (
	"context"
	"encoding/binary"
	"hash/maphash"
	"sync"

	"github.com/hupe1980/zerorec/resource"
)

const numShards = 64

// ShardedLRUBlockCache is a sharded LRU cache for high-concurrency workloads.
// It distributes entries across 64 shards to reduce lock contention.
type ShardedLRUBlockCache struct {
	shards [numShards]*LRUBlockCache
	seed   maphash.Seed
}

// NewShardedLRUBlockCache creates a new sharded LRU cache.
// The capacity is divided evenly across all shards.
func NewShardedLRUBlockCache(capacity int64, rc *resource.Controller) *ShardedLRUBlockCache {
	shardCapacity := max(capacity/numShards, 1)

	s := &ShardedLRUBlockCache{
		seed: maphash.MakeSeed(),
	}
	for i := range numShards {
		s.shards[i] = NewLRUBlockCache(shardCapacity, rc)
	}
	return s
}

func (s *ShardedLRUBlockCache) shard(key Key) *LRUBlockCache {
	var h maphash.Hash
	h.SetSeed(s.seed)
	_, _ = h.WriteString(key.Name)
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], key.Block)
	_, _ = h.Write(buf[:])
	return s.shards[h.Sum64()%numShards]
}

// Get returns a cached block.
func (s *ShardedLRUBlockCache) Get(ctx context.Context, key Key) ([]byte, bool) {
	return s.shard(key).Get(ctx, key)
}

// Set caches a block.
func (s *ShardedLRUBlockCache) Set(ctx context.Context, key Key, b []byte) {
	s.shard(key).Set(ctx, key, b)
}

// Invalidate removes entries matching the predicate.
// This iterates all shards, which is expensive but rare.
func (s *ShardedLRUBlockCache) Invalidate(predicate func(key Key) bool) {
	var wg sync.WaitGroup
	wg.Add(numShards)
	for i := range numShards {
		go func(shard *LRUBlockCache) {
			defer wg.Done()
			shard.Invalidate(predicate)
		}(s.shards[i])
	}
	wg.Wait()
}

// Close closes all shards.
func (s *ShardedLRUBlockCache) Close() error {
	for i := range numShards {
		if err := s.shards[i].Close(); err != nil {
			return err
		}
	}
	return nil
}

// Stats returns aggregated hit/miss statistics.
func (s *ShardedLRUBlockCache) Stats() (hits, misses int64) {
	for i := range numShards {
		h, m := s.shards[i].Stats()
		hits += h
		misses += m
	}
	return hits, misses
}

// Size returns the total size across all shards.
func (s *ShardedLRUBlockCache) Size() int64 {
	var total int64
	for i := range numShards {
		total += s.shards[i].Size()
	}
	return total
}

// ShardSizes returns the byte size of every shard.
func (s *ShardedLRUBlockCache) ShardSizes() []int64 {
	sizes := make([]int64, numShards)
	for i := range numShards {
		sizes[i] = s.shards[i].Size()
	}
	return sizes
}
