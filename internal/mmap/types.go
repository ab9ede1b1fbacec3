package mmap

import "errors"

// AccessPattern provides hints to the kernel about how mapped bytes will be read.
type AccessPattern int

const (
	// AccessDefault is the default access pattern (no specific advice).
	AccessDefault AccessPattern = iota
	// AccessSequential expects bytes to be read front to back (batch scans).
	AccessSequential
	// AccessRandom expects point lookups.
	AccessRandom
	// AccessWillNeed asks the kernel to start paging the range in now.
	AccessWillNeed
	// AccessDontNeed tells the kernel the range will not be read soon.
	AccessDontNeed
)

// String returns the name of the access pattern.
func (p AccessPattern) String() string {
	switch p {
	case AccessSequential:
		return "sequential"
	case AccessRandom:
		return "random"
	case AccessWillNeed:
		return "willneed"
	case AccessDontNeed:
		return "dontneed"
	default:
		return "default"
	}
}

var (
	// ErrClosed is returned when attempting to access a closed mapping.
	ErrClosed = errors.New("mmap: mapping is closed")
	// ErrInvalidSize is returned when the file size cannot be mapped.
	ErrInvalidSize = errors.New("mmap: invalid file size")
	// ErrOutOfBounds is returned when a region falls outside the mapping.
	ErrOutOfBounds = errors.New("mmap: out of bounds")
	// ErrInvalidOffset is returned when an offset is negative.
	ErrInvalidOffset = errors.New("mmap: invalid offset")
	// ErrNotSupported is returned on platforms without file mapping.
	ErrNotSupported = errors.New("mmap: not supported on this platform")
)
