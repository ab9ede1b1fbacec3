package zerorec

import (
	"fmt"
	"slices"
)

// BatchBuilder writes a header followed by fixed-stride records, the layout
// BatchReader reads with a base offset of HeaderSize.
type BatchBuilder struct {
	buf        []byte
	recordSize int
	count      int
	finished   bool
}

// NewBatchBuilder starts a batch in buf, reusing its capacity.
func NewBatchBuilder(buf []byte, recordSize int) (*BatchBuilder, error) {
	if recordSize <= 0 {
		return nil, fmt.Errorf("%w: record size %d", ErrInvalidLayout, recordSize)
	}
	buf = slices.Grow(buf[:0], HeaderSize+4*recordSize)[:HeaderSize]
	clear(buf)
	return &BatchBuilder{buf: buf, recordSize: recordSize}, nil
}

// Append adds one zeroed record and lets fill write its fields. If fill
// fails the record is discarded. The writer is only valid inside fill.
func (b *BatchBuilder) Append(fill func(w QuantumWriter) error) error {
	if b.finished {
		return ErrFinished
	}
	off := len(b.buf)
	end := off + b.recordSize
	b.buf = slices.Grow(b.buf, b.recordSize)[:end]
	clear(b.buf[off:end])
	if fill != nil {
		if err := fill(QuantumWriter{data: b.buf[off:end:end]}); err != nil {
			b.buf = b.buf[:off]
			return err
		}
	}
	b.count++
	return nil
}

// Len returns the number of appended records.
func (b *BatchBuilder) Len() int { return b.count }

// RecordSize returns the record stride.
func (b *BatchBuilder) RecordSize() int { return b.recordSize }

// Finish writes the header and returns the batch. One-shot.
func (b *BatchBuilder) Finish() ([]byte, error) {
	if b.finished {
		return nil, ErrFinished
	}
	b.finished = true
	NewHeader().Encode((*[HeaderSize]byte)(b.buf[:HeaderSize]))
	out := b.buf[:len(b.buf):len(b.buf)]
	b.buf = nil
	return out, nil
}

// Batch validates the header and returns a reader over every whole record
// that follows it.
func (v *View) Batch(recordSize int) (*BatchReader, error) {
	if recordSize <= 0 {
		return nil, fmt.Errorf("%w: record size %d", ErrInvalidLayout, recordSize)
	}
	if err := v.ValidateHeader(); err != nil {
		return nil, err
	}
	count := (v.Len() - HeaderSize) / recordSize
	return NewBatchReader(v, recordSize, count, HeaderSize), nil
}
