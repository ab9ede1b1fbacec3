package zerorec

import (
	"errors"
	"fmt"
)

var (
	// ErrBufferTooSmall matches *BufferTooSmallError.
	ErrBufferTooSmall = errors.New("zerorec: buffer too small")
	// ErrInvalidMagic matches *InvalidMagicError.
	ErrInvalidMagic = errors.New("zerorec: invalid magic")
	// ErrUnsupportedVersion matches *UnsupportedVersionError.
	ErrUnsupportedVersion = errors.New("zerorec: unsupported version")
	// ErrReservedFlags matches *ReservedFlagsError.
	ErrReservedFlags = errors.New("zerorec: reserved header flags set")

	// ErrInvalidSlotMarker is returned for a slot whose byte 15 is neither
	// InlineMarker nor HeapMarker.
	ErrInvalidSlotMarker = errors.New("zerorec: invalid slot marker")
	// ErrInvalidInlineLength is returned for an inline slot claiming more
	// than MaxInlineSize bytes.
	ErrInvalidInlineLength = errors.New("zerorec: invalid inline length")
	// ErrHeapOutOfRange is returned when a heap reference points past the
	// end of the record.
	ErrHeapOutOfRange = errors.New("zerorec: heap reference out of range")
	// ErrInvalidUTF8 is returned when a slot read as a string is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("zerorec: slot value is not valid UTF-8")

	// ErrOffsetOutOfRange is returned for reads or writes outside their section.
	ErrOffsetOutOfRange = errors.New("zerorec: offset out of range")
	// ErrSlotMisaligned is returned for a slot offset that is not on a slot boundary.
	ErrSlotMisaligned = errors.New("zerorec: slot offset not aligned to slot size")
	// ErrInlineValueTooLarge matches *InlineTooLargeError.
	ErrInlineValueTooLarge = errors.New("zerorec: inline value too large")
	// ErrHeapOverflow is returned when the heap outgrows 32-bit offsets.
	ErrHeapOverflow = errors.New("zerorec: heap exceeds 32-bit addressing")

	// ErrInvalidLayout is returned for negative or oversized layouts.
	ErrInvalidLayout = errors.New("zerorec: invalid layout")
	// ErrFinished is returned by a Builder after Finish.
	ErrFinished = errors.New("zerorec: builder already finished")
	// ErrClosed is returned by a View after Close.
	ErrClosed = errors.New("zerorec: view is closed")
	// ErrUnaligned is returned when bytes cannot be aliased as a typed slice.
	ErrUnaligned = errors.New("zerorec: unaligned array data")
)

// BufferTooSmallError reports a buffer shorter than a format requires.
type BufferTooSmallError struct {
	Required int
	Actual   int
}

func (e *BufferTooSmallError) Error() string {
	return fmt.Sprintf("zerorec: buffer too small: required %d bytes, got %d", e.Required, e.Actual)
}

func (e *BufferTooSmallError) Is(target error) bool { return target == ErrBufferTooSmall }

// InvalidMagicError reports a buffer that does not start with Magic.
type InvalidMagicError struct {
	Found [2]byte
}

func (e *InvalidMagicError) Error() string {
	return fmt.Sprintf("zerorec: invalid magic: expected %#02x%02x, got %#02x%02x",
		Magic[0], Magic[1], e.Found[0], e.Found[1])
}

func (e *InvalidMagicError) Is(target error) bool { return target == ErrInvalidMagic }

// UnsupportedVersionError reports a version byte other than Version.
type UnsupportedVersionError struct {
	Found     uint8
	Supported uint8
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("zerorec: unsupported version %d (supported: %d)", e.Found, e.Supported)
}

func (e *UnsupportedVersionError) Is(target error) bool { return target == ErrUnsupportedVersion }

// ReservedFlagsError reports header flag bits outside FlagHasHeap.
type ReservedFlagsError struct {
	Flags uint8
}

func (e *ReservedFlagsError) Error() string {
	return fmt.Sprintf("zerorec: reserved header flags set: %#08b", e.Flags)
}

func (e *ReservedFlagsError) Is(target error) bool { return target == ErrReservedFlags }

// InlineTooLargeError reports a value too long for an inline slot.
type InlineTooLargeError struct {
	Len int
}

func (e *InlineTooLargeError) Error() string {
	return fmt.Sprintf("zerorec: inline value too large: %d bytes (max %d)", e.Len, MaxInlineSize)
}

func (e *InlineTooLargeError) Is(target error) bool { return target == ErrInlineValueTooLarge }

// OffsetError reports an access of Size bytes at Offset that violates Limit.
//
// The cause (ErrOffsetOutOfRange, ErrSlotMisaligned, ...) is available via
// errors.Unwrap.
type OffsetError struct {
	Op     string
	Offset int
	Size   int
	Limit  int
	Err    error
}

func (e *OffsetError) Error() string {
	return fmt.Sprintf("zerorec: %s at offset %d (size %d, limit %d): %v", e.Op, e.Offset, e.Size, e.Limit, e.Err)
}

func (e *OffsetError) Unwrap() error { return e.Err }

// SlotError reports a slot that cannot be decoded.
type SlotError struct {
	// Offset is the post-header offset of the slot.
	Offset int
	Marker byte
	Err    error
}

func (e *SlotError) Error() string {
	return fmt.Sprintf("zerorec: slot at offset %d (marker %#02x): %v", e.Offset, e.Marker, e.Err)
}

func (e *SlotError) Unwrap() error { return e.Err }
