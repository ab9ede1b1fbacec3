package zerorec

import (
	"fmt"
	"unsafe"
)

// PutArray stores values in the slot at slotOff as their little-endian
// element encoding, inline or on the heap like WriteBytes.
func PutArray[T Scalar](b *Builder, slotOff int, values []T) error {
	size := SizeOf[T]()
	if trustedLoads || size == 1 {
		raw := unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(values))), len(values)*size)
		return b.WriteBytes(slotOff, raw)
	}
	raw := make([]byte, len(values)*size)
	for i, v := range values {
		encodeScalar(raw[i*size:], v)
	}
	return b.WriteBytes(slotOff, raw)
}

// ViewArray reinterprets raw as a []T without copying. The result aliases
// raw and must not be modified when raw comes from a View. It fails with
// ErrUnaligned when raw is not a whole number of elements, is not aligned
// for T, or the host cannot read the little-endian encoding directly. Use
// DecodeArray as the portable fallback.
func ViewArray[T Scalar](raw []byte) ([]T, error) {
	size := SizeOf[T]()
	if len(raw)%size != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrUnaligned, len(raw), size)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	if !trustedLoads && size > 1 {
		return nil, fmt.Errorf("%w: host byte order", ErrUnaligned)
	}
	var zero T
	if _, ok := any(zero).(bool); ok {
		for _, c := range raw {
			if c > 1 {
				return nil, fmt.Errorf("%w: byte %#02x is not a bool", ErrUnaligned, c)
			}
		}
	}
	ptr := unsafe.Pointer(unsafe.SliceData(raw))
	if uintptr(ptr)%unsafe.Alignof(zero) != 0 {
		return nil, fmt.Errorf("%w: address 0x%x", ErrUnaligned, uintptr(ptr))
	}
	return unsafe.Slice((*T)(ptr), len(raw)/size), nil
}

// DecodeArray appends the elements encoded in raw to dst.
func DecodeArray[T Scalar](dst []T, raw []byte) ([]T, error) {
	size := SizeOf[T]()
	if len(raw)%size != 0 {
		return dst, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrUnaligned, len(raw), size)
	}
	for off := 0; off < len(raw); off += size {
		dst = append(dst, decodeScalar[T](raw[off:off+size]))
	}
	return dst, nil
}

// ArrayAt returns the array stored in the slot at off of r, aliasing the
// record when possible and copying otherwise.
func ArrayAt[T Scalar](r Record, off int) ([]T, error) {
	raw, err := r.BytesAt(off)
	if err != nil {
		return nil, err
	}
	if vals, err := ViewArray[T](raw); err == nil {
		return vals, nil
	}
	return DecodeArray[T](nil, raw)
}
