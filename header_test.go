package zerorec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeader(t *testing.T) {
	t.Run("Encode", func(t *testing.T) {
		h := NewHeader()
		assert.Equal(t, [HeaderSize]byte{0x5A, 0x44, 0x01, 0x00}, h.Bytes())

		h.SetHasHeap(true)
		assert.True(t, h.HasHeap())
		assert.Equal(t, [HeaderSize]byte{0x5A, 0x44, 0x01, 0x01}, h.Bytes())

		h.SetHasHeap(false)
		assert.False(t, h.HasHeap())
		assert.Equal(t, uint8(0), h.Flags)
	})

	t.Run("Parse", func(t *testing.T) {
		h, err := ParseHeader([]byte{0x5A, 0x44, 0x01, 0x01, 0xFF})
		require.NoError(t, err)
		assert.True(t, h.HasHeap())
		assert.Equal(t, Version, h.Version)
	})

	t.Run("Validation", func(t *testing.T) {
		tests := []struct {
			name   string
			buf    []byte
			target error
		}{
			{"Empty", nil, ErrBufferTooSmall},
			{"Short", []byte{0x5A, 0x44, 0x01}, ErrBufferTooSmall},
			{"BadMagicFirst", []byte{0x00, 0x44, 0x01, 0x00}, ErrInvalidMagic},
			{"BadMagicSecond", []byte{0x5A, 0x45, 0x01, 0x00}, ErrInvalidMagic},
			{"Version0", []byte{0x5A, 0x44, 0x00, 0x00}, ErrUnsupportedVersion},
			{"Version2", []byte{0x5A, 0x44, 0x02, 0x00}, ErrUnsupportedVersion},
			{"ReservedFlag", []byte{0x5A, 0x44, 0x01, 0x02}, ErrReservedFlags},
			{"AllFlags", []byte{0x5A, 0x44, 0x01, 0xFF}, ErrReservedFlags},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := ParseHeader(tt.buf)
				assert.ErrorIs(t, err, tt.target)
				assert.ErrorIs(t, FromBytes(tt.buf).ValidateHeader(), tt.target)
			})
		}
	})

	t.Run("ErrorDetails", func(t *testing.T) {
		_, err := ParseHeader([]byte{1})
		var small *BufferTooSmallError
		require.ErrorAs(t, err, &small)
		assert.Equal(t, HeaderSize, small.Required)
		assert.Equal(t, 1, small.Actual)

		_, err = ParseHeader([]byte{0x5A, 0x44, 0x07, 0x00})
		var ver *UnsupportedVersionError
		require.ErrorAs(t, err, &ver)
		assert.Equal(t, uint8(7), ver.Found)
		assert.Equal(t, Version, ver.Supported)

		_, err = ParseHeader([]byte{'N', 'O', 0x01, 0x00})
		var magic *InvalidMagicError
		require.ErrorAs(t, err, &magic)
		assert.Equal(t, [2]byte{'N', 'O'}, magic.Found)
	})

	t.Run("MagicCheckedBeforeVersion", func(t *testing.T) {
		_, err := ParseHeader([]byte{0, 0, 9, 0xFF})
		assert.ErrorIs(t, err, ErrInvalidMagic)
	})
}

func TestLayout(t *testing.T) {
	l, err := NewLayout(12, 3)
	require.NoError(t, err)

	assert.Equal(t, 12, l.SlotOffset(0))
	assert.Equal(t, 44, l.SlotOffset(2))
	assert.Equal(t, 4+12+48, l.HeapOffset())
	assert.Equal(t, l.HeapOffset(), l.MinSize())
	assert.Equal(t, 16, l.Absolute(12))

	_, err = NewLayout(-1, 0)
	assert.ErrorIs(t, err, ErrInvalidLayout)
}

func TestSlot(t *testing.T) {
	t.Run("Inline", func(t *testing.T) {
		s, err := InlineSlot([]byte("abc"))
		require.NoError(t, err)
		assert.True(t, s.IsInline())
		assert.Equal(t, 3, s.InlineLen())
		assert.Equal(t, []byte("abc"), s.InlineData())
		assert.NoError(t, s.Validate())
		assert.Equal(t, Slot{3, 'a', 'b', 'c'}, s)
	})

	t.Run("InlineTooLarge", func(t *testing.T) {
		_, err := InlineSlot(make([]byte, MaxInlineSize+1))
		var tl *InlineTooLargeError
		require.ErrorAs(t, err, &tl)
		assert.Equal(t, 15, tl.Len)
		assert.ErrorIs(t, err, ErrInlineValueTooLarge)
	})

	t.Run("Heap", func(t *testing.T) {
		s := HeapSlot(0x01020304, 0x0A0B0C0D)
		assert.True(t, s.IsHeap())
		assert.Equal(t, uint32(0x01020304), s.HeapOffset())
		assert.Equal(t, uint32(0x0A0B0C0D), s.HeapLength())
		assert.Equal(t, Slot{
			0x04, 0x03, 0x02, 0x01,
			0x0D, 0x0C, 0x0B, 0x0A,
			0, 0, 0, 0, 0, 0, 0,
			0xFF,
		}, s)
	})

	t.Run("Validate", func(t *testing.T) {
		var s Slot
		s[0] = 15
		assert.ErrorIs(t, s.Validate(), ErrInvalidInlineLength)
		assert.Len(t, s.InlineData(), MaxInlineSize)

		s[markerIndex] = 0x7F
		assert.ErrorIs(t, s.Validate(), ErrInvalidSlotMarker)
	})

	t.Run("FromBytes", func(t *testing.T) {
		_, err := SlotFromBytes(make([]byte, 15))
		assert.ErrorIs(t, err, ErrBufferTooSmall)
	})
}
