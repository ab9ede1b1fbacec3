package zerorec

import (
	"runtime"
	"unsafe"
)

// trustedLoads is true when a raw unaligned pointer load yields the
// little-endian wire value. Only amd64 and arm64 guarantee unaligned access.
var trustedLoads = isLittleEndian() && (runtime.GOARCH == "amd64" || runtime.GOARCH == "arm64")

func isLittleEndian() bool {
	var x uint16 = 1
	return *(*byte)(unsafe.Pointer(&x)) == 1
}

// LoadTrusted reads a T at off without bounds checks.
//
// The caller must guarantee 0 <= off && off+SizeOf[T]() <= r.Len(), which
// holds when off is a constant inside a layout the record was validated
// against. Violating it reads arbitrary memory. On hosts without cheap
// unaligned little-endian loads it falls back to Load.
func LoadTrusted[T Scalar](r QuantumReader, off int) T {
	if !trustedLoads {
		return Load[T](r, off)
	}
	p := unsafe.Add(unsafe.Pointer(unsafe.SliceData(r.data)), off)
	var zero T
	if _, ok := any(zero).(bool); ok {
		// Any non-zero byte is true; a raw bool load would not normalize it.
		return any(*(*byte)(p) != 0).(T)
	}
	return *(*T)(p)
}
