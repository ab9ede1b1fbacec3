package zerorec

import (
	"context"
	"encoding/binary"
	"iter"
	"runtime"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/zerorec/internal/prefetch"
)

const (
	// prefetchAhead is how many records ahead iterators hint.
	prefetchAhead = 4
	// maxPrefetchLines caps the cache lines hinted per record.
	maxPrefetchLines = 4
	// scanCheckEvery is how often Scan workers poll for cancellation.
	scanCheckEvery = 256
)

// BatchReader indexes count fixed-stride records of recordSize bytes that
// start at baseOffset of a View. Records hold fixed-size data only.
//
// Records beyond the end of the View are treated as absent: Get reports
// false for them and iteration stops before them.
//
// A BatchReader reads through the View's memory. Once the View is closed,
// Get reports false, iteration ends and Scan and the aggregations return
// ErrClosed. Closing the View while a read is in flight is not allowed.
type BatchReader struct {
	view       *View
	data       []byte
	recordSize int
	count      int
	base       int
	// avail is the number of records that fit in data, at most count.
	avail int
}

// NewBatchReader creates a reader. It performs no I/O.
func NewBatchReader(v *View, recordSize, count, baseOffset int) *BatchReader {
	data := v.Bytes()
	avail := 0
	if recordSize > 0 && count > 0 && baseOffset >= 0 && baseOffset <= len(data) {
		avail = min(count, (len(data)-baseOffset)/recordSize)
	}
	return &BatchReader{
		view:       v,
		data:       data,
		recordSize: recordSize,
		count:      count,
		base:       baseOffset,
		avail:      avail,
	}
}

// Len returns the declared record count.
func (b *BatchReader) Len() int { return b.count }

// Available returns how many records actually fit in the View.
func (b *BatchReader) Available() int { return b.avail }

// RecordSize returns the record stride.
func (b *BatchReader) RecordSize() int { return b.recordSize }

// Get returns a reader over record i, or false if i is out of range or the
// record does not fit in the View.
func (b *BatchReader) Get(i int) (QuantumReader, bool) {
	if i < 0 || i >= b.avail || b.view.closed.Load() {
		return QuantumReader{}, false
	}
	off := b.base + i*b.recordSize
	return QuantumReader{data: b.data[off : off+b.recordSize : off+b.recordSize]}, true
}

// Prefetch hints the CPU to load record i+ahead. Out of range targets are
// ignored. It never changes what Get returns.
func (b *BatchReader) Prefetch(i, ahead int) {
	b.hint(i + ahead)
}

func (b *BatchReader) hint(i int) {
	if i < 0 || i >= b.avail || b.view.closed.Load() {
		return
	}
	off := b.base + i*b.recordSize
	n := min(b.recordSize, maxPrefetchLines*prefetch.LineSize)
	prefetch.Range(b.data[off : off+n])
}

// Iter returns a forward iterator over all available records.
func (b *BatchReader) Iter() *BatchIter {
	return &BatchIter{b: b}
}

// All yields every available record in index order.
func (b *BatchReader) All() iter.Seq2[int, QuantumReader] {
	return func(yield func(int, QuantumReader) bool) {
		b.walk(yield)
	}
}

// walk visits available records in order, hinting prefetchAhead records
// ahead, until fn returns false or the View is closed.
func (b *BatchReader) walk(fn func(int, QuantumReader) bool) {
	for i := range b.avail {
		b.hint(i + prefetchAhead)
		r, ok := b.Get(i)
		if !ok || !fn(i, r) {
			return
		}
	}
}

// Select yields the records whose indices are set in bm, in ascending order.
// Iteration stops at the first index past the available records.
func (b *BatchReader) Select(bm *roaring.Bitmap) iter.Seq2[int, QuantumReader] {
	return func(yield func(int, QuantumReader) bool) {
		if bm == nil {
			return
		}
		it := bm.Iterator()
		if !it.HasNext() {
			return
		}
		cur := int(it.Next())
		for {
			next := -1
			if it.HasNext() {
				next = int(it.Next())
				b.hint(next)
			}
			r, ok := b.Get(cur)
			if !ok || !yield(cur, r) || next < 0 {
				return
			}
			cur = next
		}
	}
}

// Scan calls fn for every available record using up to workers goroutines,
// each owning a contiguous index range. fn must be safe for concurrent use.
// The first error returned by fn or by ctx stops all workers.
// workers <= 0 uses GOMAXPROCS.
func (b *BatchReader) Scan(ctx context.Context, workers int, fn func(i int, r QuantumReader) error) error {
	if b.view.closed.Load() {
		return ErrClosed
	}
	start := time.Now()
	n := b.avail
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = max(1, min(workers, n))

	err := b.scan(ctx, n, workers, fn)

	b.view.metrics.RecordScan(n, time.Since(start), err)
	b.view.logger.LogScan(ctx, n, workers, err)
	return err
}

func (b *BatchReader) scan(ctx context.Context, n, workers int, fn func(int, QuantumReader) error) error {
	if n == 0 {
		return ctx.Err()
	}
	g, ctx := errgroup.WithContext(ctx)
	chunk := (n + workers - 1) / workers
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if (i-lo)%scanCheckEvery == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				b.hint(i + prefetchAhead)
				r, ok := b.Get(i)
				if !ok {
					return ErrClosed
				}
				if err := fn(i, r); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// SumUint64 adds the little-endian uint64 at fieldOff of every available
// record. The sum wraps on overflow.
func (b *BatchReader) SumUint64(fieldOff int) (uint64, error) {
	if err := b.field("sum", fieldOff, 8); err != nil {
		return 0, err
	}
	var sum uint64
	b.walk(func(_ int, r QuantumReader) bool {
		sum += binary.LittleEndian.Uint64(r.data[fieldOff:])
		return true
	})
	return sum, b.liveErr()
}

// SumUint32 adds the little-endian uint32 at fieldOff of every available
// record into a uint64.
func (b *BatchReader) SumUint32(fieldOff int) (uint64, error) {
	if err := b.field("sum", fieldOff, 4); err != nil {
		return 0, err
	}
	var sum uint64
	b.walk(func(_ int, r QuantumReader) bool {
		sum += uint64(binary.LittleEndian.Uint32(r.data[fieldOff:]))
		return true
	})
	return sum, b.liveErr()
}

// FindUint64 returns the index of the first available record whose uint64
// at fieldOff equals v.
func (b *BatchReader) FindUint64(fieldOff int, v uint64) (int, bool, error) {
	if err := b.field("find", fieldOff, 8); err != nil {
		return -1, false, err
	}
	found := -1
	b.walk(func(i int, r QuantumReader) bool {
		if binary.LittleEndian.Uint64(r.data[fieldOff:]) == v {
			found = i
			return false
		}
		return true
	})
	if found >= 0 {
		return found, true, nil
	}
	return -1, false, b.liveErr()
}

// CountUint64 counts the available records whose uint64 at fieldOff
// equals v.
func (b *BatchReader) CountUint64(fieldOff int, v uint64) (int, error) {
	if err := b.field("count", fieldOff, 8); err != nil {
		return 0, err
	}
	n := 0
	b.walk(func(_ int, r QuantumReader) bool {
		if binary.LittleEndian.Uint64(r.data[fieldOff:]) == v {
			n++
		}
		return true
	})
	return n, b.liveErr()
}

// field checks that a width-byte field at off fits in every record.
func (b *BatchReader) field(op string, off, width int) error {
	if err := b.liveErr(); err != nil {
		return err
	}
	if off < 0 || off > b.recordSize-width {
		return &OffsetError{Op: op, Offset: off, Size: width, Limit: b.recordSize, Err: ErrOffsetOutOfRange}
	}
	return nil
}

func (b *BatchReader) liveErr() error {
	if b.view.closed.Load() {
		return ErrClosed
	}
	return nil
}

// AdviseSequential tells the kernel the batch region will be read front to
// back. It is a no-op for Views that are not mapped.
func (b *BatchReader) AdviseSequential() error {
	return b.view.adviseRange(b.base, b.avail*b.recordSize, AccessSequential)
}

// BatchIter walks a BatchReader forward. The number of remaining records is
// always known.
type BatchIter struct {
	b    *BatchReader
	next int
}

// Next returns the next record, or false when exhausted.
func (it *BatchIter) Next() (QuantumReader, bool) {
	if it.next >= it.b.avail {
		return QuantumReader{}, false
	}
	i := it.next
	it.next++
	it.b.hint(i + prefetchAhead)
	return it.b.Get(i)
}

// Index returns the index of the record the next call to Next returns.
func (it *BatchIter) Index() int { return it.next }

// Remaining returns the number of records left.
func (it *BatchIter) Remaining() int { return it.b.avail - it.next }
