package zerorec

import (
	"fmt"
	"math"
)

// Record buffer layout:
//
//	Header(4B) | FixedSection(F) | SlotTable(S*16B) | HeapSection
const (
	// Magic is the 2-byte preamble of every record ("ZD").
	Magic = "ZD"
	// Version is the only format version this package reads or writes.
	Version uint8 = 0x01

	// HeaderSize is the encoded size of a Header.
	HeaderSize = 4
	// SlotSize is the encoded size of a Slot.
	SlotSize = 16
	// MaxInlineSize is the largest value stored directly inside a slot.
	MaxInlineSize = 14

	// InlineMarker in slot byte 15 marks an inline value.
	InlineMarker byte = 0x00
	// HeapMarker in slot byte 15 marks a heap reference.
	HeapMarker byte = 0xFF

	// FlagHasHeap is set when at least one slot references the heap.
	FlagHasHeap uint8 = 1 << 0

	reservedFlags = ^FlagHasHeap
	markerIndex   = SlotSize - 1

	// builderHeadroom is reserved past the slot table for heap appends.
	builderHeadroom = 256
)

// Layout describes the shape of one record type: a fixed section of
// FixedSize bytes followed by SlotCount variable-length slots.
//
// Offsets handed to Builder and Record are relative to the first byte after
// the header: fixed fields live in [0, FixedSize) and slot i starts at
// SlotOffset(i).
type Layout struct {
	FixedSize int `json:"fixed_size"`
	SlotCount int `json:"slot_count"`
}

// NewLayout returns a validated Layout.
func NewLayout(fixedSize, slotCount int) (Layout, error) {
	l := Layout{FixedSize: fixedSize, SlotCount: slotCount}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// Validate rejects negative sizes and layouts whose slot table would
// overflow int.
func (l Layout) Validate() error {
	if l.FixedSize < 0 || l.SlotCount < 0 {
		return fmt.Errorf("%w: fixed=%d slots=%d", ErrInvalidLayout, l.FixedSize, l.SlotCount)
	}
	if l.SlotCount > (math.MaxInt32-HeaderSize-l.FixedSize)/SlotSize {
		return fmt.Errorf("%w: fixed=%d slots=%d exceeds addressable size", ErrInvalidLayout, l.FixedSize, l.SlotCount)
	}
	return nil
}

// SlotOffset returns the post-header offset of slot i.
func (l Layout) SlotOffset(i int) int {
	return l.FixedSize + i*SlotSize
}

// Absolute converts a post-header offset into an offset from the start of
// the record buffer.
func (Layout) Absolute(off int) int {
	return HeaderSize + off
}

// HeapOffset returns the absolute offset where the heap section begins.
func (l Layout) HeapOffset() int {
	return HeaderSize + l.FixedSize + l.SlotCount*SlotSize
}

// MinSize returns the size of a record of this layout with an empty heap.
func (l Layout) MinSize() int {
	return l.HeapOffset()
}

// slotIndex maps a post-header slot offset to its index, or reports why it
// does not address a slot.
func (l Layout) slotIndex(off int) (int, error) {
	if off < l.FixedSize || off > l.FixedSize+(l.SlotCount-1)*SlotSize {
		return 0, &OffsetError{Op: "slot", Offset: off, Size: SlotSize, Limit: l.FixedSize + l.SlotCount*SlotSize, Err: ErrOffsetOutOfRange}
	}
	rel := off - l.FixedSize
	if rel%SlotSize != 0 {
		return 0, &OffsetError{Op: "slot", Offset: off, Size: SlotSize, Limit: l.FixedSize + l.SlotCount*SlotSize, Err: ErrSlotMisaligned}
	}
	return rel / SlotSize, nil
}
