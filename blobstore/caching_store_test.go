package blobstore

import (
	"context"
	"io"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/zerorec/internal/cache"
)

// countingStore counts backend reads of a MemoryStore.
type countingStore struct {
	*MemoryStore
	reads     atomic.Int64
	readBytes atomic.Int64
}

func (s *countingStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.MemoryStore.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &countingBlob{Blob: b, store: s}, nil
}

type countingBlob struct {
	Blob
	store *countingStore
}

func (b *countingBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	b.store.reads.Add(1)
	n, err := b.Blob.ReadAt(ctx, p, off)
	b.store.readBytes.Add(int64(n))
	return n, err
}

func newCountingStore(t *testing.T, name string, data []byte) *countingStore {
	t.Helper()
	s := &countingStore{MemoryStore: NewMemoryStore()}
	require.NoError(t, s.Put(context.Background(), name, data))
	return s
}

func TestCachingStore_ReadAt(t *testing.T) {
	data := make([]byte, 1024)
	for i := range data {
		data[i] = byte(i % 255)
	}
	inner := newCountingStore(t, "test", data)
	store := NewCachingStore(inner, cache.NewLRUBlockCache(1024*1024, nil), 256)
	ctx := context.Background()

	blob, err := store.Open(ctx, "test")
	require.NoError(t, err)
	defer blob.Close()

	buf := make([]byte, 100)
	n, err := blob.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, 100, n)
	assert.Equal(t, data[:100], buf)
	assert.Equal(t, int64(1), inner.reads.Load())
	assert.Equal(t, int64(256), inner.readBytes.Load())

	// Cached.
	_, err = blob.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), inner.reads.Load())

	// Spans block 0 (cached) and block 1 (missing).
	n, err = blob.ReadAt(ctx, buf, 200)
	require.NoError(t, err)
	assert.Equal(t, 100, n)
	assert.Equal(t, data[200:300], buf)
	assert.Equal(t, int64(2), inner.reads.Load())
	assert.Equal(t, int64(512), inner.readBytes.Load())

	_, err = blob.ReadAt(ctx, buf, 260)
	require.NoError(t, err)
	assert.Equal(t, int64(2), inner.reads.Load())
}

func TestCachingStore_Coalescing(t *testing.T) {
	inner := newCountingStore(t, "big", make([]byte, 64*1024))
	store := NewCachingStore(inner, cache.NewLRUBlockCache(1024*1024, nil), 1024)
	ctx := context.Background()

	blob, err := store.Open(ctx, "big")
	require.NoError(t, err)

	buf := make([]byte, 10*1024)
	n, err := blob.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, int64(1), inner.reads.Load(), "ten missing blocks fetched in one read")
}

func TestCachingStore_SmallFile(t *testing.T) {
	data := []byte("hello")
	store := NewCachingStore(newCountingStore(t, "small", data), cache.NewLRUBlockCache(1024, nil), 256)
	ctx := context.Background()

	blob, err := store.Open(ctx, "small")
	require.NoError(t, err)

	buf := make([]byte, 10)
	n, err := blob.ReadAt(ctx, buf, 0)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 5, n)
	assert.Equal(t, data, buf[:n])

	_, err = blob.ReadAt(ctx, buf, 5)
	assert.ErrorIs(t, err, io.EOF)

	rc, err := blob.ReadRange(ctx, 1, 100)
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "ello", string(got))

	all, err := ReadAll(ctx, blob)
	require.NoError(t, err)
	assert.Equal(t, data, all)
}

func TestCachingStore_Invalidation(t *testing.T) {
	inner := newCountingStore(t, "rec", []byte("version-1"))
	c := cache.NewLRUBlockCache(1024, nil)
	store := NewCachingStore(inner, c, 4)
	ctx := context.Background()

	read := func() string {
		b, err := store.Open(ctx, "rec")
		require.NoError(t, err)
		defer b.Close()
		data, err := ReadAll(ctx, b)
		require.NoError(t, err)
		return string(data)
	}

	assert.Equal(t, "version-1", read())
	assert.Positive(t, c.Len())

	require.NoError(t, store.Put(ctx, "rec", []byte("version-2")))
	assert.Zero(t, c.Len())
	assert.Equal(t, "version-2", read())

	w, err := store.Create(ctx, "rec")
	require.NoError(t, err)
	_, err = w.Write([]byte("version-3"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Equal(t, "version-3", read())

	require.NoError(t, store.Delete(ctx, "rec"))
	_, err = store.Open(ctx, "rec")
	assert.ErrorIs(t, err, ErrNotFound)

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestCachingStore_DefaultCache(t *testing.T) {
	data := []byte("default sharded cache")
	inner := newCountingStore(t, "rec", data)
	store := NewCachingStore(inner, nil, 0)
	assert.Equal(t, int64(DefaultBlockSize), store.blockSize)
	ctx := context.Background()

	for range 3 {
		b, err := store.Open(ctx, "rec")
		require.NoError(t, err)
		got, err := ReadAll(ctx, b)
		require.NoError(t, err)
		assert.Equal(t, data, got)
		require.NoError(t, b.Close())
	}
	assert.Equal(t, int64(1), inner.reads.Load())

	hits, _ := store.cache.Stats()
	assert.Positive(t, hits)
	require.NoError(t, store.Close())
}
