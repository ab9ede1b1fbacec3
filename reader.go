package zerorec

import (
	"encoding/binary"
	"math"
)

// QuantumReader reads little-endian scalars at caller-supplied offsets of a
// byte window. Offsets are relative to the window start.
//
// The typed methods panic on out-of-range offsets like ordinary slice
// indexing; Read returns an error instead and LoadTrusted skips the check.
// A QuantumReader is a value type and never copies the underlying bytes.
type QuantumReader struct {
	data []byte
}

// NewQuantumReader returns a reader over b.
func NewQuantumReader(b []byte) QuantumReader {
	return QuantumReader{data: b}
}

// Bytes returns the underlying window.
func (r QuantumReader) Bytes() []byte { return r.data }

// Len returns the window length.
func (r QuantumReader) Len() int { return len(r.data) }

// Uint8 returns the byte at off.
func (r QuantumReader) Uint8(off int) uint8 { return r.data[off] }

// Int8 returns the byte at off as a signed value.
func (r QuantumReader) Int8(off int) int8 { return int8(r.data[off]) }

// Bool reports whether the byte at off is non-zero.
func (r QuantumReader) Bool(off int) bool { return r.data[off] != 0 }

// Uint16 decodes a little-endian uint16 at off.
func (r QuantumReader) Uint16(off int) uint16 {
	return binary.LittleEndian.Uint16(r.data[off : off+2])
}

// Int16 decodes a little-endian int16 at off.
func (r QuantumReader) Int16(off int) int16 {
	return int16(binary.LittleEndian.Uint16(r.data[off : off+2]))
}

// Uint32 decodes a little-endian uint32 at off.
func (r QuantumReader) Uint32(off int) uint32 {
	return binary.LittleEndian.Uint32(r.data[off : off+4])
}

// Int32 decodes a little-endian int32 at off.
func (r QuantumReader) Int32(off int) int32 {
	return int32(binary.LittleEndian.Uint32(r.data[off : off+4]))
}

// Uint64 decodes a little-endian uint64 at off.
func (r QuantumReader) Uint64(off int) uint64 {
	return binary.LittleEndian.Uint64(r.data[off : off+8])
}

// Int64 decodes a little-endian int64 at off.
func (r QuantumReader) Int64(off int) int64 {
	return int64(binary.LittleEndian.Uint64(r.data[off : off+8]))
}

// Float32 decodes an IEEE 754 float32 at off.
func (r QuantumReader) Float32(off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(r.data[off : off+4]))
}

// Float64 decodes an IEEE 754 float64 at off.
func (r QuantumReader) Float64(off int) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(r.data[off : off+8]))
}

// Slice returns n bytes at off, or false if the range leaves the window.
func (r QuantumReader) Slice(off, n int) ([]byte, bool) {
	if off < 0 || n < 0 || off > len(r.data)-n {
		return nil, false
	}
	return r.data[off : off+n : off+n], true
}

// Sub returns a reader over n bytes at off.
func (r QuantumReader) Sub(off, n int) (QuantumReader, bool) {
	b, ok := r.Slice(off, n)
	return QuantumReader{data: b}, ok
}

// InlineBytes decodes the slot at off when it holds an inline value. It
// returns false for heap slots, corrupt slots and out-of-range offsets, and
// never needs the heap section.
func (r QuantumReader) InlineBytes(off int) ([]byte, bool) {
	raw, ok := r.Slice(off, SlotSize)
	if !ok || raw[markerIndex] != InlineMarker || raw[0] > MaxInlineSize {
		return nil, false
	}
	n := int(raw[0])
	return raw[1 : 1+n : 1+n], true
}

// Load reads a T at off. It panics if the value does not fit the window.
func Load[T Scalar](r QuantumReader, off int) T {
	n := SizeOf[T]()
	return decodeScalar[T](r.data[off : off+n])
}

// Read reads a T at off and reports out-of-range access as an *OffsetError.
func Read[T Scalar](r QuantumReader, off int) (T, error) {
	n := SizeOf[T]()
	if off < 0 || off > len(r.data)-n {
		var zero T
		return zero, &OffsetError{Op: "read", Offset: off, Size: n, Limit: len(r.data), Err: ErrOffsetOutOfRange}
	}
	return decodeScalar[T](r.data[off : off+n]), nil
}
