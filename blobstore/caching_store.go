package blobstore

import (
	"context"
	"errors"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/zerorec/internal/cache"
)

const (
	// DefaultBlockSize is the block size used when NewCachingStore gets <= 0.
	DefaultBlockSize = 64 << 10
	// DefaultCacheCapacity bounds the cache NewCachingStore creates when
	// none is supplied.
	DefaultCacheCapacity = 64 << 20
)

// CachingStore wraps a BlobStore and adds block-level read caching.
// Writes pass through and invalidate cached blocks of the written blob.
type CachingStore struct {
	inner     BlobStore
	cache     cache.BlockCache
	blockSize int64
}

// NewCachingStore creates a new CachingStore. A nil cache gets a sharded
// LRU of DefaultCacheCapacity bytes.
func NewCachingStore(inner BlobStore, c cache.BlockCache, blockSize int64) *CachingStore {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	if c == nil {
		c = cache.NewShardedLRUBlockCache(DefaultCacheCapacity, nil)
	}
	return &CachingStore{
		inner:     inner,
		cache:     c,
		blockSize: blockSize,
	}
}

func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &CachingBlob{
		inner:     b,
		cache:     s.cache,
		name:      name,
		blockSize: s.blockSize,
	}, nil
}

func (s *CachingStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	w, err := s.inner.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	return &invalidatingWriter{WritableBlob: w, invalidate: func() { s.invalidate(name) }}, nil
}

func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	err := s.inner.Put(ctx, name, data)
	s.invalidate(name)
	return err
}

func (s *CachingStore) Delete(ctx context.Context, name string) error {
	err := s.inner.Delete(ctx, name)
	s.invalidate(name)
	return err
}

// Close releases the cached blocks.
func (s *CachingStore) Close() error {
	return s.cache.Close()
}

func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

func (s *CachingStore) invalidate(name string) {
	s.cache.Invalidate(func(key cache.Key) bool {
		return key.Name == name
	})
}

type invalidatingWriter struct {
	WritableBlob
	invalidate func()
}

func (w *invalidatingWriter) Close() error {
	err := w.WritableBlob.Close()
	w.invalidate()
	return err
}

// CachingBlob wraps a Blob and uses the block cache for reads.
// It is never Mappable: bytes come from cached blocks.
type CachingBlob struct {
	inner     Blob
	cache     cache.BlockCache
	name      string
	blockSize int64
}

func (b *CachingBlob) Close() error {
	return b.inner.Close()
}

func (b *CachingBlob) Size() int64 {
	return b.inner.Size()
}

func (b *CachingBlob) key(blk int64) cache.Key {
	return cache.Key{Name: b.name, Block: uint64(blk)}
}

func (b *CachingBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	size := b.Size()
	if off < 0 || off >= size {
		return 0, io.EOF
	}

	want := min(int64(len(p)), size-off)
	startBlock := off / b.blockSize
	endBlock := (off + want - 1) / b.blockSize

	if err := b.fillCache(ctx, startBlock, endBlock); err != nil {
		return 0, err
	}

	total := 0
	for blk := startBlock; blk <= endBlock; blk++ {
		blkStart := blk * b.blockSize
		from := max(blkStart, off)
		to := min(blkStart+b.blockSize, off+want)

		data, err := b.block(ctx, blk)
		if err != nil {
			return total, err
		}
		src := from - blkStart
		if src >= int64(len(data)) {
			break
		}
		n := copy(p[from-off:to-off], data[src:])
		total += n
	}

	if total < len(p) {
		return total, io.EOF
	}
	return total, nil
}

// fillCache loads the missing blocks of [startBlock, endBlock], fetching
// each contiguous run of misses with a single backend read.
func (b *CachingBlob) fillCache(ctx context.Context, startBlock, endBlock int64) error {
	type run struct{ start, count int64 }
	var missing []run

	for blk := startBlock; blk <= endBlock; blk++ {
		if _, ok := b.cache.Get(ctx, b.key(blk)); ok {
			continue
		}
		if n := len(missing); n > 0 && missing[n-1].start+missing[n-1].count == blk {
			missing[n-1].count++
		} else {
			missing = append(missing, run{blk, 1})
		}
	}
	if len(missing) == 0 {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	// Limit concurrency to avoid FD exhaustion or rate limits
	g.SetLimit(16)

	size := b.Size()
	for _, r := range missing {
		g.Go(func() error {
			start := r.start * b.blockSize
			n := min(r.count*b.blockSize, size-start)
			if n <= 0 {
				return nil
			}
			buf := make([]byte, n)
			read, err := b.inner.ReadAt(ctx, buf, start)
			if err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			buf = buf[:read]
			for i := range r.count {
				lo := i * b.blockSize
				if lo >= int64(len(buf)) {
					break
				}
				hi := min(lo+b.blockSize, int64(len(buf)))
				// Copy so one cached block does not pin the whole run.
				b.cache.Set(ctx, b.key(r.start+i), append([]byte(nil), buf[lo:hi]...))
			}
			return nil
		})
	}
	return g.Wait()
}

// block returns block blk from the cache, reading it through on a miss
// (the cache may have refused or evicted it).
func (b *CachingBlob) block(ctx context.Context, blk int64) ([]byte, error) {
	if data, ok := b.cache.Get(ctx, b.key(blk)); ok {
		return data, nil
	}
	start := blk * b.blockSize
	buf := make([]byte, min(b.blockSize, b.Size()-start))
	n, err := b.inner.ReadAt(ctx, buf, start)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf[:n], nil
}

// ReadRange streams the range through the block cache.
func (b *CachingBlob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	start, end, err := clipRange(b.Size(), off, length)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(&contextSectionReader{blob: b, ctx: ctx, off: start, limit: end}), nil
}

// contextSectionReader wraps CachingBlob to implement io.Reader with context.
type contextSectionReader struct {
	blob  *CachingBlob
	ctx   context.Context
	off   int64
	limit int64
}

func (r *contextSectionReader) Read(p []byte) (n int, err error) {
	if r.off >= r.limit {
		return 0, io.EOF
	}
	if remaining := r.limit - r.off; int64(len(p)) > remaining {
		p = p[:remaining]
	}
	n, err = r.blob.ReadAt(r.ctx, p, r.off)
	r.off += int64(n)
	if errors.Is(err, io.EOF) && n > 0 {
		err = nil
	}
	return n, err
}
