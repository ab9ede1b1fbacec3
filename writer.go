package zerorec

import "encoding/binary"

// QuantumWriter writes little-endian scalars and slots into a caller-owned
// byte window. Every write is bounds checked and returns an *OffsetError
// instead of panicking.
type QuantumWriter struct {
	data []byte
}

// NewQuantumWriter returns a writer over b.
func NewQuantumWriter(b []byte) QuantumWriter {
	return QuantumWriter{data: b}
}

// Bytes returns the underlying window.
func (w QuantumWriter) Bytes() []byte { return w.data }

// Len returns the window length.
func (w QuantumWriter) Len() int { return len(w.data) }

// Reader returns a reader over the same window.
func (w QuantumWriter) Reader() QuantumReader { return QuantumReader(w) }

func (w QuantumWriter) span(op string, off, n int) ([]byte, error) {
	if off < 0 || off > len(w.data)-n {
		return nil, &OffsetError{Op: op, Offset: off, Size: n, Limit: len(w.data), Err: ErrOffsetOutOfRange}
	}
	return w.data[off : off+n : off+n], nil
}

// PutUint8 writes v at off.
func (w QuantumWriter) PutUint8(off int, v uint8) error { return Store(w, off, v) }

// PutInt8 writes v at off.
func (w QuantumWriter) PutInt8(off int, v int8) error { return Store(w, off, v) }

// PutBool writes v at off as 0 or 1.
func (w QuantumWriter) PutBool(off int, v bool) error { return Store(w, off, v) }

// PutUint16 writes v little-endian at off.
func (w QuantumWriter) PutUint16(off int, v uint16) error {
	p, err := w.span("write", off, 2)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(p, v)
	return nil
}

// PutInt16 writes v little-endian at off.
func (w QuantumWriter) PutInt16(off int, v int16) error { return w.PutUint16(off, uint16(v)) }

// PutUint32 writes v little-endian at off.
func (w QuantumWriter) PutUint32(off int, v uint32) error {
	p, err := w.span("write", off, 4)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(p, v)
	return nil
}

// PutInt32 writes v little-endian at off.
func (w QuantumWriter) PutInt32(off int, v int32) error { return w.PutUint32(off, uint32(v)) }

// PutUint64 writes v little-endian at off.
func (w QuantumWriter) PutUint64(off int, v uint64) error {
	p, err := w.span("write", off, 8)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(p, v)
	return nil
}

// PutInt64 writes v little-endian at off.
func (w QuantumWriter) PutInt64(off int, v int64) error { return w.PutUint64(off, uint64(v)) }

// PutFloat32 writes the IEEE 754 bits of v at off.
func (w QuantumWriter) PutFloat32(off int, v float32) error { return Store(w, off, v) }

// PutFloat64 writes the IEEE 754 bits of v at off.
func (w QuantumWriter) PutFloat64(off int, v float64) error { return Store(w, off, v) }

// WriteInline stores v as an inline slot at off.
func (w QuantumWriter) WriteInline(off int, v []byte) error {
	s, err := InlineSlot(v)
	if err != nil {
		return err
	}
	p, err := w.span("slot", off, SlotSize)
	if err != nil {
		return err
	}
	copy(p, s[:])
	return nil
}

// WriteHeapRef stores a heap reference slot at off.
func (w QuantumWriter) WriteHeapRef(off int, heapOffset, length uint32) error {
	p, err := w.span("slot", off, SlotSize)
	if err != nil {
		return err
	}
	s := HeapSlot(heapOffset, length)
	copy(p, s[:])
	return nil
}

// Store writes v at off.
func Store[T Scalar](w QuantumWriter, off int, v T) error {
	p, err := w.span("write", off, SizeOf[T]())
	if err != nil {
		return err
	}
	encodeScalar(p, v)
	return nil
}
