package mem

import (
	"fmt"
	"io"
	"math"
	"os"
	"unsafe"
)

// Alignment is the byte alignment of buffers returned by AllocAligned.
// 64 bytes is a cache line and satisfies every scalar alignment.
const Alignment = 64

// AllocAligned allocates a byte slice of the given size with 64-byte alignment.
// The returned slice is guaranteed to start at a memory address divisible by 64.
//
// Note: This function allocates slightly more memory than requested to ensure alignment.
// The underlying array is kept alive by the returned slice.
func AllocAligned(size int) []byte {
	if size <= 0 {
		return nil
	}

	// Allocate size + alignment to ensure we can find an aligned offset
	totalSize := size + Alignment
	buf := make([]byte, totalSize)

	ptr := unsafe.Pointer(&buf[0]) //nolint:gosec // unsafe is required for memory alignment
	addr := uintptr(ptr)
	offset := int((Alignment - (addr & (Alignment - 1))) & (Alignment - 1))

	return buf[offset : offset+size : offset+size]
}

// ReadFull reads exactly size bytes from r into a new aligned buffer.
func ReadFull(r io.Reader, size int64) ([]byte, error) {
	if size < 0 || uint64(size) > math.MaxInt-Alignment {
		return nil, fmt.Errorf("mem: invalid size %d", size)
	}
	buf := AllocAligned(int(size))
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadFile reads the named file into a new aligned buffer.
func ReadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return ReadFull(f, fi.Size())
}
