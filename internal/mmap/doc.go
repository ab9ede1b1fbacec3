// Package mmap provides read-only memory-mapped file access for zero-copy
// record reads.
//
// # Usage
//
//	m, err := mmap.Open("users.zr")
//	if err != nil { ... }
//	defer m.Close()
//
//	data := m.Bytes() // zero-copy view of the file
//
//	// Sub-view over a fixed-stride record array
//	region, _ := m.Region(4, 64*1024)
//	region.Advise(mmap.AccessSequential)
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with madvise(2) access hints
//   - Windows: CreateFileMapping/MapViewOfFile (access hints are no-ops)
//   - Everything else: Open returns ErrNotSupported and callers are expected
//     to fall back to reading the whole file
//
// # Thread Safety
//
// Mapping and Region are safe for concurrent read access. Close is
// idempotent. Callers must ensure no goroutine touches Bytes() after Close()
// returns.
package mmap
