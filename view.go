package zerorec

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"sync/atomic"
	"time"

	"github.com/hupe1980/zerorec/internal/mem"
	"github.com/hupe1980/zerorec/internal/mmap"
)

// AccessPattern hints how a mapped View will be read.
type AccessPattern = mmap.AccessPattern

const (
	AccessDefault    = mmap.AccessDefault
	AccessSequential = mmap.AccessSequential
	AccessRandom     = mmap.AccessRandom
	AccessWillNeed   = mmap.AccessWillNeed
	AccessDontNeed   = mmap.AccessDontNeed
)

// View is a read-only window over a whole record file. The bytes are
// memory-mapped when the platform allows it and read into memory otherwise;
// readers cannot tell the difference.
//
// Slices and readers obtained from a View must not be used after Close.
// A View is safe for concurrent readers.
type View struct {
	data    []byte
	mapping *mmap.Mapping
	closer  io.Closer
	closed  atomic.Bool

	logger  *Logger
	metrics MetricsCollector
}

// Open opens the file at path.
//
// Errors opening the file itself (missing, permission) are returned as is.
// If mapping fails for any other reason the file is read into memory.
func Open(path string, optFns ...Option) (*View, error) {
	o := applyOptions(optFns)
	ctx := context.Background()
	start := time.Now()

	v, err := openView(ctx, path, &o)
	size := 0
	if v != nil {
		size = len(v.data)
	}
	o.metricsCollector.RecordOpen(size, v != nil && v.Mapped(), time.Since(start), err)
	o.logger.LogOpen(ctx, path, size, v != nil && v.Mapped(), err)
	return v, err
}

func openView(ctx context.Context, path string, o *options) (*View, error) {
	var v *View
	if !o.noMmap {
		m, err := mmap.Open(path)
		switch {
		case err == nil:
			v = &View{data: m.Bytes(), mapping: m}
		case isOpenError(err):
			return nil, err
		default:
			o.logger.LogMapFallback(ctx, path, err)
		}
	}
	if v == nil {
		data, err := mem.ReadFile(path)
		if err != nil {
			return nil, err
		}
		v = &View{data: data}
	}
	v.logger = o.logger
	v.metrics = o.metricsCollector

	if o.validate {
		if err := v.ValidateHeader(); err != nil {
			_ = v.Close()
			return nil, err
		}
	}
	if o.access != AccessDefault {
		// Advice is best effort.
		_ = v.Advise(o.access)
	}
	return v, nil
}

func isOpenError(err error) bool {
	var pe *fs.PathError
	return errors.As(err, &pe)
}

// FromBytes wraps an in-memory buffer. Close is a no-op besides marking the
// View closed.
func FromBytes(b []byte) *View {
	return &View{data: b, logger: NoopLogger(), metrics: NoopMetricsCollector{}}
}

// Wrap wraps b and calls c.Close when the View is closed. It lets other
// owners of memory (blob stores, pools) hand out Views.
func Wrap(b []byte, c io.Closer) *View {
	v := FromBytes(b)
	v.closer = c
	return v
}

// Bytes returns the whole file, or nil after Close.
func (v *View) Bytes() []byte {
	if v.closed.Load() {
		return nil
	}
	return v.data
}

// Len returns the file size.
func (v *View) Len() int { return len(v.data) }

// Mapped reports whether the bytes are memory-mapped.
func (v *View) Mapped() bool { return v.mapping != nil }

// ValidateHeader checks the record header at offset 0.
func (v *View) ValidateHeader() error {
	_, err := v.Header()
	return err
}

// Header decodes and validates the record header.
func (v *View) Header() (Header, error) {
	if v.closed.Load() {
		return Header{}, ErrClosed
	}
	return ParseHeader(v.data)
}

// Slice returns n bytes at off, or false if the range leaves the file or
// the View is closed.
func (v *View) Slice(off, n int) ([]byte, bool) {
	if v.closed.Load() || off < 0 || n < 0 || off > len(v.data)-n {
		return nil, false
	}
	return v.data[off : off+n : off+n], true
}

// Reader returns a reader over the whole file, header included.
func (v *View) Reader() QuantumReader {
	return QuantumReader{data: v.Bytes()}
}

// Record interprets the whole file as a single record with layout l.
func (v *View) Record(l Layout) (Record, error) {
	if v.closed.Load() {
		return Record{}, ErrClosed
	}
	return NewRecord(v.data, l)
}

// Advise hints the kernel about the access pattern. It is a no-op for
// Views that are not mapped.
func (v *View) Advise(p AccessPattern) error {
	if v.closed.Load() {
		return ErrClosed
	}
	if v.mapping == nil {
		return nil
	}
	return v.mapping.Advise(p)
}

func (v *View) adviseRange(off, n int, p AccessPattern) error {
	if v.closed.Load() {
		return ErrClosed
	}
	if v.mapping == nil || n == 0 {
		return nil
	}
	r, err := v.mapping.Region(off, n)
	if err != nil {
		return err
	}
	return r.Advise(p)
}

// Close releases the mapping or the wrapped closer. It is idempotent.
func (v *View) Close() error {
	if v.closed.Swap(true) {
		return nil
	}
	var err error
	if v.mapping != nil {
		err = v.mapping.Close()
	}
	if v.closer != nil {
		err = errors.Join(err, v.closer.Close())
	}
	return err
}

// Get reads a T at absolute offset off of the view. It panics if the value
// does not fit, like Load.
func Get[T Scalar](v *View, off int) T {
	return Load[T](v.Reader(), off)
}
