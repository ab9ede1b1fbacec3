package zerorec

import (
	"math"
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildRecord(t *testing.T, l Layout, fill func(b *Builder)) []byte {
	t.Helper()
	b, err := NewBuilderWithLayout(nil, l)
	require.NoError(t, err)
	fill(b)
	buf, err := b.Finish()
	require.NoError(t, err)
	return buf
}

func TestRecord(t *testing.T) {
	l := Layout{FixedSize: 4, SlotCount: 2}

	t.Run("TooShortForLayout", func(t *testing.T) {
		buf := buildRecord(t, Layout{FixedSize: 4, SlotCount: 1}, func(*Builder) {})
		_, err := NewRecord(buf, l)
		var small *BufferTooSmallError
		require.ErrorAs(t, err, &small)
		assert.Equal(t, l.MinSize(), small.Required)
	})

	t.Run("InvalidMarker", func(t *testing.T) {
		buf := buildRecord(t, l, func(b *Builder) {
			require.NoError(t, b.WriteString(4, "ok"))
		})
		buf[l.Absolute(l.SlotOffset(0))+markerIndex] = 0x42

		r, err := NewRecord(buf, l)
		require.NoError(t, err)

		_, err = r.Value(0)
		var se *SlotError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, 4, se.Offset)
		assert.Equal(t, byte(0x42), se.Marker)
		assert.ErrorIs(t, err, ErrInvalidSlotMarker)
	})

	t.Run("InvalidInlineLength", func(t *testing.T) {
		buf := buildRecord(t, l, func(*Builder) {})
		buf[l.Absolute(l.SlotOffset(1))] = 15

		r, err := NewRecord(buf, l)
		require.NoError(t, err)
		_, err = r.Value(1)
		assert.ErrorIs(t, err, ErrInvalidInlineLength)
	})

	t.Run("HeapOutOfRange", func(t *testing.T) {
		buf := buildRecord(t, l, func(b *Builder) {
			require.NoError(t, b.WriteString(4, "this one lives on the heap"))
		})
		r, err := NewRecord(buf[:len(buf)-1], l)
		require.NoError(t, err)

		_, err = r.Value(0)
		assert.ErrorIs(t, err, ErrHeapOutOfRange)
	})

	t.Run("HeapRefOverflow", func(t *testing.T) {
		buf := buildRecord(t, l, func(*Builder) {})
		s := HeapSlot(0xFFFFFFFF, 0xFFFFFFFF)
		copy(buf[l.Absolute(l.SlotOffset(0)):], s[:])

		r, err := NewRecord(buf, l)
		require.NoError(t, err)
		_, err = r.Value(0)
		assert.ErrorIs(t, err, ErrHeapOutOfRange)
	})

	t.Run("EmptySlotIsEmptyValue", func(t *testing.T) {
		buf := buildRecord(t, l, func(*Builder) {})
		r, err := NewRecord(buf, l)
		require.NoError(t, err)

		got, err := r.Value(1)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("SlotOffsets", func(t *testing.T) {
		buf := buildRecord(t, l, func(*Builder) {})
		r, err := NewRecord(buf, l)
		require.NoError(t, err)

		_, err = r.BytesAt(0)
		assert.ErrorIs(t, err, ErrOffsetOutOfRange)
		_, err = r.BytesAt(5)
		assert.ErrorIs(t, err, ErrSlotMisaligned)
		_, err = r.Slot(2)
		assert.ErrorIs(t, err, ErrOffsetOutOfRange)
		_, err = r.StringAt(36)
		assert.ErrorIs(t, err, ErrOffsetOutOfRange)
	})

	t.Run("SlotIndexRange", func(t *testing.T) {
		l := Layout{FixedSize: 8, SlotCount: 2}
		buf := buildRecord(t, l, func(b *Builder) {
			require.NoError(t, b.WriteString(l.SlotOffset(0), "first"))
		})
		r, err := NewRecord(buf, l)
		require.NoError(t, err)

		// i*SlotSize wraps to 0 for the shifted index, addressing slot 0.
		wraps := 1 << (bits.UintSize - 4)
		for _, i := range []int{-1, 2, wraps, math.MaxInt, math.MinInt} {
			_, err = r.ValueString(i)
			var oe *OffsetError
			require.ErrorAs(t, err, &oe, "index %d", i)
			assert.Equal(t, i, oe.Offset)
			assert.ErrorIs(t, err, ErrOffsetOutOfRange)

			_, err = r.Value(i)
			assert.ErrorIs(t, err, ErrOffsetOutOfRange)
			_, err = r.Slot(i)
			assert.ErrorIs(t, err, ErrOffsetOutOfRange)
		}

		got, err := r.ValueString(0)
		require.NoError(t, err)
		assert.Equal(t, "first", got)
	})

	t.Run("InvalidUTF8", func(t *testing.T) {
		l := Layout{FixedSize: 8, SlotCount: 2}
		heapVal := append([]byte("0123456789abcdef"), 0xc3)
		buf := buildRecord(t, l, func(b *Builder) {
			require.NoError(t, b.WriteBytes(l.SlotOffset(0), []byte{0xff, 0xfe}))
			require.NoError(t, b.WriteBytes(l.SlotOffset(1), heapVal))
		})
		r, err := NewRecord(buf, l)
		require.NoError(t, err)

		tests := []struct {
			name   string
			slot   int
			marker byte
			raw    []byte
		}{
			{"Inline", 0, InlineMarker, []byte{0xff, 0xfe}},
			{"Heap", 1, HeapMarker, heapVal},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := r.ValueString(tt.slot)
				var se *SlotError
				require.ErrorAs(t, err, &se)
				assert.Equal(t, l.SlotOffset(tt.slot), se.Offset)
				assert.Equal(t, tt.marker, se.Marker)
				assert.ErrorIs(t, err, ErrInvalidUTF8)

				_, err = r.StringAt(l.SlotOffset(tt.slot))
				assert.ErrorIs(t, err, ErrInvalidUTF8)

				raw, err := r.Value(tt.slot)
				require.NoError(t, err)
				assert.Equal(t, tt.raw, raw)
			})
		}
	})

	t.Run("ZeroCopy", func(t *testing.T) {
		buf := buildRecord(t, l, func(b *Builder) {
			require.NoError(t, b.WriteString(20, "heap resident value"))
		})
		r, err := NewRecord(buf, l)
		require.NoError(t, err)

		got, err := r.BytesAt(20)
		require.NoError(t, err)
		assert.Same(t, &buf[l.HeapOffset()], &got[0])
	})

	t.Run("FixedWindow", func(t *testing.T) {
		buf := buildRecord(t, l, func(b *Builder) {
			require.NoError(t, b.PutUint32(0, 77))
		})
		r, err := NewRecord(buf, l)
		require.NoError(t, err)
		assert.Equal(t, 4, r.Fixed().Len())
		assert.Equal(t, uint32(77), r.Fixed().Uint32(0))
		assert.Equal(t, uint32(77), Get[uint32](FromBytes(buf), HeaderSize))
	})
}
