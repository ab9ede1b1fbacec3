package store

import (
	"fmt"

	"github.com/hupe1980/zerorec"
	"github.com/hupe1980/zerorec/codec"
)

// DescriptorSuffix is appended to a record name to form its descriptor name.
const DescriptorSuffix = ".layout"

// Descriptor describes a stored record.
type Descriptor struct {
	// Codec names the codec that encoded this descriptor.
	Codec     string `json:"codec"`
	FixedSize int    `json:"fixed_size"`
	SlotCount int    `json:"slot_count"`
	Size      int64  `json:"size"`
	HasHeap   bool   `json:"has_heap"`
	CRC32C    uint32 `json:"crc32c"`
}

// Layout returns the record layout.
func (d Descriptor) Layout() zerorec.Layout {
	return zerorec.Layout{FixedSize: d.FixedSize, SlotCount: d.SlotCount}
}

func descriptorName(name string) string {
	return name + DescriptorSuffix
}

// decodeDescriptor decodes with c, then re-decodes with the codec the
// descriptor names if that differs.
func decodeDescriptor(c codec.Codec, data []byte) (Descriptor, error) {
	var d Descriptor
	if err := c.Unmarshal(data, &d); err != nil {
		return Descriptor{}, fmt.Errorf("%w: %w", ErrCorruptDescriptor, err)
	}
	if d.Codec != "" && d.Codec != c.Name() {
		named, ok := codec.ByName(d.Codec)
		if !ok {
			return Descriptor{}, fmt.Errorf("%w: unknown codec %q", ErrCorruptDescriptor, d.Codec)
		}
		d = Descriptor{}
		if err := named.Unmarshal(data, &d); err != nil {
			return Descriptor{}, fmt.Errorf("%w: %w", ErrCorruptDescriptor, err)
		}
	}
	if err := d.Layout().Validate(); err != nil {
		return Descriptor{}, fmt.Errorf("%w: %w", ErrCorruptDescriptor, err)
	}
	if d.Size < int64(d.Layout().MinSize()) {
		return Descriptor{}, fmt.Errorf("%w: size %d below layout minimum %d", ErrCorruptDescriptor, d.Size, d.Layout().MinSize())
	}
	return d, nil
}
