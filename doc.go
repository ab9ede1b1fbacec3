// Package zerorec is a compact binary record codec with zero-copy readers.
//
// A record is one contiguous buffer:
//
//	Header(4B) | FixedSection(F) | SlotTable(S*16B) | HeapSection
//
// The fixed section holds little-endian scalars at offsets chosen by the
// caller. Each slot holds one variable-length value: up to 14 bytes are
// stored inline in the slot itself, longer values are appended to the heap
// and the slot stores their (offset, length). The choice is made per value
// at write time.
//
// # Writing
//
//	b, _ := zerorec.NewBuilder(nil, 16, 2)
//	_ = b.PutUint64(0, 42)
//	_ = b.PutFloat64(8, 3.14)
//	_ = b.WriteString(16, "short")                // inline
//	_ = b.WriteString(32, "a much longer value")  // heap
//	rec, err := b.Finish()
//
// Builder offsets are relative to the first byte after the header. Errors
// are sticky, so checking the result of Finish is enough.
//
// # Reading
//
//	v, _ := zerorec.Open("record.zd", zerorec.WithValidation())
//	defer v.Close()
//	r, _ := v.Record(zerorec.Layout{FixedSize: 16, SlotCount: 2})
//	id := r.Fixed().Uint64(0)
//	name, _ := r.BytesAt(16)
//
// Readers come in three strengths: typed methods on QuantumReader panic on
// out-of-range offsets like slice indexing, Read returns an error, and
// LoadTrusted skips bounds checks entirely for offsets already validated
// against a layout.
//
// # Batches
//
// BatchReader walks fixed-stride records laid out back to back, with
// software prefetch hints ahead of the cursor. Prefetching never changes
// results and can be disabled with ZEROREC_PREFETCH=none.
//
// # Lifetime
//
// Everything returned by a View (slices, readers, records) aliases its
// memory and must not be used after Close.
package zerorec
