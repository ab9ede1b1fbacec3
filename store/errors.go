package store

import "errors"

var (
	// ErrChecksumMismatch is returned when record bytes do not match the
	// CRC32C stored in the descriptor.
	ErrChecksumMismatch = errors.New("store: checksum mismatch")

	// ErrSizeMismatch is returned when a record blob's size differs from its
	// descriptor.
	ErrSizeMismatch = errors.New("store: size mismatch")

	// ErrCorruptDescriptor is returned when a descriptor cannot be decoded
	// or describes an invalid layout.
	ErrCorruptDescriptor = errors.New("store: corrupt descriptor")

	// ErrInvalidName is returned for names that end in DescriptorSuffix.
	ErrInvalidName = errors.New("store: invalid record name")
)
