// Package cache provides LRU caching for immutable blob blocks.
//
// ShardedLRUBlockCache spreads entries over 64 independently locked LRU
// shards. When a resource.Controller is supplied, cached bytes count
// against its memory limit and are released on eviction.
package cache
