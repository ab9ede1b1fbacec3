package zerorec

import (
	"encoding/binary"
	"fmt"

	"github.com/hupe1980/zerorec/internal/conv"
)

// Builder assembles one record into a caller-provided buffer.
//
// Offsets are relative to the first byte after the header. Fixed fields
// occupy [0, FixedSize); slot offsets must name a slot boundary in
// [FixedSize, FixedSize+16*SlotCount). Values longer than MaxInlineSize are
// appended to the heap in call order.
//
// Errors are sticky: after the first failed write every later write and
// Finish return that error. A Builder is not safe for concurrent use.
type Builder struct {
	buf      []byte
	layout   Layout
	heapBase int
	header   Header
	err      error
	finished bool
}

// NewBuilder prepares buf for a record with the given layout. buf is
// cleared and reused when its capacity suffices, so the returned record
// may alias it.
func NewBuilder(buf []byte, fixedSize, slotCount int) (*Builder, error) {
	l, err := NewLayout(fixedSize, slotCount)
	if err != nil {
		return nil, err
	}
	return NewBuilderWithLayout(buf, l)
}

// NewBuilderWithLayout is NewBuilder for an existing Layout.
func NewBuilderWithLayout(buf []byte, l Layout) (*Builder, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	heapBase := l.HeapOffset()
	if cap(buf) < heapBase+builderHeadroom {
		buf = make([]byte, heapBase, heapBase+builderHeadroom)
	} else {
		buf = buf[:heapBase]
		clear(buf)
	}
	return &Builder{
		buf:      buf,
		layout:   l,
		heapBase: heapBase,
		header:   NewHeader(),
	}, nil
}

// Layout returns the record layout.
func (b *Builder) Layout() Layout { return b.layout }

// Len returns the number of bytes written so far, header included.
func (b *Builder) Len() int { return len(b.buf) }

// HeapPosition returns the absolute offset of the next heap append.
func (b *Builder) HeapPosition() int { return len(b.buf) }

// Err returns the first write error, if any.
func (b *Builder) Err() error { return b.err }

func (b *Builder) fail(err error) error {
	if b.err == nil {
		b.err = err
	}
	return err
}

func (b *Builder) check() error {
	if b.finished {
		return ErrFinished
	}
	return b.err
}

func (b *Builder) fixed(off, n int) ([]byte, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	if off < 0 || off > b.layout.FixedSize-n {
		return nil, b.fail(&OffsetError{Op: "write", Offset: off, Size: n, Limit: b.layout.FixedSize, Err: ErrOffsetOutOfRange})
	}
	p := HeaderSize + off
	return b.buf[p : p+n : p+n], nil
}

// PutUint8 writes v into the fixed section at off.
func (b *Builder) PutUint8(off int, v uint8) error { return Put(b, off, v) }

// PutInt8 writes v into the fixed section at off.
func (b *Builder) PutInt8(off int, v int8) error { return Put(b, off, v) }

// PutBool writes v at off as 0 or 1.
func (b *Builder) PutBool(off int, v bool) error { return Put(b, off, v) }

// PutUint16 writes v little-endian into the fixed section at off.
func (b *Builder) PutUint16(off int, v uint16) error {
	p, err := b.fixed(off, 2)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(p, v)
	return nil
}

// PutInt16 writes v little-endian into the fixed section at off.
func (b *Builder) PutInt16(off int, v int16) error { return b.PutUint16(off, uint16(v)) }

// PutUint32 writes v little-endian into the fixed section at off.
func (b *Builder) PutUint32(off int, v uint32) error {
	p, err := b.fixed(off, 4)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(p, v)
	return nil
}

// PutInt32 writes v little-endian into the fixed section at off.
func (b *Builder) PutInt32(off int, v int32) error { return b.PutUint32(off, uint32(v)) }

// PutUint64 writes v little-endian into the fixed section at off.
func (b *Builder) PutUint64(off int, v uint64) error {
	p, err := b.fixed(off, 8)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(p, v)
	return nil
}

// PutInt64 writes v little-endian into the fixed section at off.
func (b *Builder) PutInt64(off int, v int64) error { return b.PutUint64(off, uint64(v)) }

// PutFloat32 writes the IEEE 754 bits of v into the fixed section at off.
func (b *Builder) PutFloat32(off int, v float32) error { return Put(b, off, v) }

// PutFloat64 writes the IEEE 754 bits of v into the fixed section at off.
func (b *Builder) PutFloat64(off int, v float64) error { return Put(b, off, v) }

// Put writes v into the fixed section at off.
func Put[T Scalar](b *Builder, off int, v T) error {
	p, err := b.fixed(off, SizeOf[T]())
	if err != nil {
		return err
	}
	encodeScalar(p, v)
	return nil
}

// WriteBytes stores v in the slot at slotOff: inline when it fits, on the
// heap otherwise. Writing the same slot twice keeps the last value; heap
// bytes of the earlier value stay in the record.
func (b *Builder) WriteBytes(slotOff int, v []byte) error {
	if err := b.check(); err != nil {
		return err
	}
	if _, err := b.layout.slotIndex(slotOff); err != nil {
		return b.fail(err)
	}
	pos := HeaderSize + slotOff

	if len(v) <= MaxInlineSize {
		s := b.buf[pos : pos+SlotSize]
		clear(s)
		s[0] = byte(len(v))
		copy(s[1:], v)
		s[markerIndex] = InlineMarker
		return nil
	}

	rel, err := conv.IntToUint32(len(b.buf) - b.heapBase)
	if err != nil {
		return b.fail(fmt.Errorf("%w: heap offset %d", ErrHeapOverflow, len(b.buf)-b.heapBase))
	}
	n, err := conv.IntToUint32(len(v))
	if err != nil {
		return b.fail(fmt.Errorf("%w: value of %d bytes", ErrHeapOverflow, len(v)))
	}
	if _, err := conv.IntToUint32(int(rel) + len(v)); err != nil {
		return b.fail(fmt.Errorf("%w: heap end %d", ErrHeapOverflow, int(rel)+len(v)))
	}

	// append may move buf; the slot is written afterwards.
	b.buf = append(b.buf, v...)
	s := HeapSlot(rel, n)
	copy(b.buf[pos:pos+SlotSize], s[:])
	b.header.SetHasHeap(true)
	return nil
}

// WriteString is WriteBytes for a string, without converting it first.
func (b *Builder) WriteString(slotOff int, s string) error {
	return b.WriteBytes(slotOff, bytesOf(s))
}

// Finish writes the header and returns the record. The Builder cannot be
// used afterwards. On a sticky error no bytes are returned.
func (b *Builder) Finish() ([]byte, error) {
	if b.finished {
		return nil, ErrFinished
	}
	b.finished = true
	if b.err != nil {
		return nil, b.err
	}
	b.header.Encode((*[HeaderSize]byte)(b.buf[:HeaderSize]))
	out := b.buf[:len(b.buf):len(b.buf)]
	b.buf = nil
	return out, nil
}
