package zerorec

import "unicode/utf8"

// Record is a validated, read-only view of one encoded record.
//
// Constructing a Record checks the header and that the buffer covers the
// fixed section and slot table. Slot contents are checked lazily on access.
//
// A Record obtained from a View aliases its memory and must not be used
// after the View is closed.
type Record struct {
	data   []byte
	layout Layout
	header Header
}

// NewRecord validates data against l.
func NewRecord(data []byte, l Layout) (Record, error) {
	if err := l.Validate(); err != nil {
		return Record{}, err
	}
	h, err := ParseHeader(data)
	if err != nil {
		return Record{}, err
	}
	if len(data) < l.MinSize() {
		return Record{}, &BufferTooSmallError{Required: l.MinSize(), Actual: len(data)}
	}
	return Record{data: data, layout: l, header: h}, nil
}

// Header returns the decoded header.
func (r Record) Header() Header { return r.header }

// Layout returns the layout the record was validated against.
func (r Record) Layout() Layout { return r.layout }

// Bytes returns the full encoded record.
func (r Record) Bytes() []byte { return r.data }

// Fixed returns a reader over the fixed section. Offset 0 is the first
// byte after the header, matching Builder offsets.
func (r Record) Fixed() QuantumReader {
	end := HeaderSize + r.layout.FixedSize
	return QuantumReader{data: r.data[HeaderSize:end:end]}
}

// Heap returns the heap section.
func (r Record) Heap() []byte {
	return r.data[r.layout.HeapOffset():]
}

// SlotAt copies the raw slot at post-header offset off.
func (r Record) SlotAt(off int) (Slot, error) {
	if _, err := r.layout.slotIndex(off); err != nil {
		return Slot{}, err
	}
	return SlotFromBytes(r.data[HeaderSize+off:])
}

// Slot copies the raw slot i.
func (r Record) Slot(i int) (Slot, error) {
	off, err := r.slotOffset(i)
	if err != nil {
		return Slot{}, err
	}
	return r.SlotAt(off)
}

// slotOffset checks i against the slot count before computing its offset,
// so large indices cannot wrap onto a valid slot.
func (r Record) slotOffset(i int) (int, error) {
	if i < 0 || i >= r.layout.SlotCount {
		return 0, &OffsetError{Op: "slot index", Offset: i, Size: 1, Limit: r.layout.SlotCount, Err: ErrOffsetOutOfRange}
	}
	return r.layout.SlotOffset(i), nil
}

// BytesAt returns the value of the slot at post-header offset off. The
// result aliases the record; no bytes are copied.
func (r Record) BytesAt(off int) ([]byte, error) {
	if _, err := r.layout.slotIndex(off); err != nil {
		return nil, err
	}
	pos := HeaderSize + off
	return resolveSlot(r.data[pos:pos+SlotSize], r.Heap(), off)
}

// Value returns the value of slot i without copying.
func (r Record) Value(i int) ([]byte, error) {
	off, err := r.slotOffset(i)
	if err != nil {
		return nil, err
	}
	return r.BytesAt(off)
}

// StringAt returns the value of the slot at off as a string. Unlike BytesAt
// the result is a copy and outlives the underlying View. Values that are not
// valid UTF-8 yield a *SlotError wrapping ErrInvalidUTF8.
func (r Record) StringAt(off int) (string, error) {
	b, err := r.BytesAt(off)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", &SlotError{Offset: off, Marker: r.data[HeaderSize+off+markerIndex], Err: ErrInvalidUTF8}
	}
	return string(b), nil
}

// ValueString returns slot i as a string copy.
func (r Record) ValueString(i int) (string, error) {
	off, err := r.slotOffset(i)
	if err != nil {
		return "", err
	}
	return r.StringAt(off)
}
