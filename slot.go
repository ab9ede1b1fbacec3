package zerorec

import "encoding/binary"

// Slot is one 16-byte entry of the slot table.
//
// Inline:  [len][data 0..14][zero pad][0x00]
// Heap:    [offset u32 LE][length u32 LE][7 zero bytes][0xFF]
//
// Heap offsets are relative to the start of the heap section.
type Slot [SlotSize]byte

// InlineSlot encodes v as an inline slot.
func InlineSlot(v []byte) (Slot, error) {
	var s Slot
	if len(v) > MaxInlineSize {
		return s, &InlineTooLargeError{Len: len(v)}
	}
	s[0] = byte(len(v))
	copy(s[1:], v)
	s[markerIndex] = InlineMarker
	return s, nil
}

// HeapSlot encodes a heap reference.
func HeapSlot(offset, length uint32) Slot {
	var s Slot
	binary.LittleEndian.PutUint32(s[0:4], offset)
	binary.LittleEndian.PutUint32(s[4:8], length)
	s[markerIndex] = HeapMarker
	return s
}

// SlotFromBytes copies the first SlotSize bytes of b into a Slot.
func SlotFromBytes(b []byte) (Slot, error) {
	var s Slot
	if len(b) < SlotSize {
		return s, &BufferTooSmallError{Required: SlotSize, Actual: len(b)}
	}
	copy(s[:], b)
	return s, nil
}

// Marker returns byte 15.
func (s *Slot) Marker() byte { return s[markerIndex] }

// IsInline reports whether the slot carries an inline marker.
func (s *Slot) IsInline() bool { return s[markerIndex] == InlineMarker }

// IsHeap reports whether the slot carries a heap marker.
func (s *Slot) IsHeap() bool { return s[markerIndex] == HeapMarker }

// InlineLen returns the inline length byte. Only meaningful when IsInline.
func (s *Slot) InlineLen() int { return int(s[0]) }

// InlineData returns the inline payload, aliasing s. The length is clamped
// to MaxInlineSize; use Validate to reject corrupt slots.
func (s *Slot) InlineData() []byte {
	n := min(int(s[0]), MaxInlineSize)
	return s[1 : 1+n]
}

// HeapOffset returns the heap-relative offset. Only meaningful when IsHeap.
func (s *Slot) HeapOffset() uint32 { return binary.LittleEndian.Uint32(s[0:4]) }

// HeapLength returns the referenced length. Only meaningful when IsHeap.
func (s *Slot) HeapLength() uint32 { return binary.LittleEndian.Uint32(s[4:8]) }

// Validate checks the marker and, for inline slots, the length byte.
func (s *Slot) Validate() error {
	switch s[markerIndex] {
	case InlineMarker:
		if s[0] > MaxInlineSize {
			return ErrInvalidInlineLength
		}
		return nil
	case HeapMarker:
		return nil
	default:
		return ErrInvalidSlotMarker
	}
}

// resolveSlot decodes the 16 bytes in raw against heap and returns the
// referenced value without copying. slotOff is used for error reporting.
func resolveSlot(raw, heap []byte, slotOff int) ([]byte, error) {
	marker := raw[markerIndex]
	switch marker {
	case InlineMarker:
		n := int(raw[0])
		if n > MaxInlineSize {
			return nil, &SlotError{Offset: slotOff, Marker: marker, Err: ErrInvalidInlineLength}
		}
		return raw[1 : 1+n : 1+n], nil
	case HeapMarker:
		off := uint64(binary.LittleEndian.Uint32(raw[0:4]))
		n := uint64(binary.LittleEndian.Uint32(raw[4:8]))
		if off+n > uint64(len(heap)) {
			return nil, &SlotError{Offset: slotOff, Marker: marker, Err: ErrHeapOutOfRange}
		}
		return heap[off : off+n : off+n], nil
	default:
		return nil, &SlotError{Offset: slotOff, Marker: marker, Err: ErrInvalidSlotMarker}
	}
}
