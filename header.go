package zerorec

// Header is the 4-byte preamble of every record: magic, version, flags.
type Header struct {
	Magic   [2]byte
	Version uint8
	Flags   uint8
}

// NewHeader returns a header with the canonical magic and version and no
// flags set.
func NewHeader() Header {
	return Header{
		Magic:   [2]byte{Magic[0], Magic[1]},
		Version: Version,
	}
}

// SetHasHeap sets or clears the has_heap flag.
func (h *Header) SetHasHeap(v bool) {
	if v {
		h.Flags |= FlagHasHeap
	} else {
		h.Flags &^= FlagHasHeap
	}
}

// HasHeap reports whether any slot of the record references the heap.
// It is informational; reads never depend on it.
func (h Header) HasHeap() bool {
	return h.Flags&FlagHasHeap != 0
}

// Encode writes the header into dst.
func (h Header) Encode(dst *[HeaderSize]byte) {
	dst[0] = h.Magic[0]
	dst[1] = h.Magic[1]
	dst[2] = h.Version
	dst[3] = h.Flags
}

// Bytes returns the encoded header.
func (h Header) Bytes() [HeaderSize]byte {
	var b [HeaderSize]byte
	h.Encode(&b)
	return b
}

// Validate checks magic, version and reserved flag bits, in that order.
func (h Header) Validate() error {
	if h.Magic[0] != Magic[0] || h.Magic[1] != Magic[1] {
		return &InvalidMagicError{Found: h.Magic}
	}
	if h.Version != Version {
		return &UnsupportedVersionError{Found: h.Version, Supported: Version}
	}
	if h.Flags&reservedFlags != 0 {
		return &ReservedFlagsError{Flags: h.Flags}
	}
	return nil
}

// ParseHeader decodes and validates the header at the start of b.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, &BufferTooSmallError{Required: HeaderSize, Actual: len(b)}
	}
	h := Header{
		Magic:   [2]byte{b[0], b[1]},
		Version: b[2],
		Flags:   b[3],
	}
	if err := h.Validate(); err != nil {
		return Header{}, err
	}
	return h, nil
}
