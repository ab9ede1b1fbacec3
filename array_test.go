package zerorec

import (
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArrays(t *testing.T) {
	l := Layout{SlotCount: 3}
	floats := []float32{1, -2.5, float32(math.Inf(1)), 0}
	ids := []uint16{7, 8}
	flags := []bool{true, false, true}

	buf := buildRecord(t, l, func(b *Builder) {
		require.NoError(t, PutArray(b, l.SlotOffset(0), floats))
		require.NoError(t, PutArray(b, l.SlotOffset(1), ids))
		require.NoError(t, PutArray(b, l.SlotOffset(2), flags))
	})
	r, err := NewRecord(buf, l)
	require.NoError(t, err)

	t.Run("HeapArray", func(t *testing.T) {
		s, err := r.Slot(0)
		require.NoError(t, err)
		assert.True(t, s.IsHeap())

		got, err := ArrayAt[float32](r, l.SlotOffset(0))
		require.NoError(t, err)
		assert.Equal(t, floats, got)
	})

	t.Run("InlineArray", func(t *testing.T) {
		s, err := r.Slot(1)
		require.NoError(t, err)
		assert.True(t, s.IsInline())

		got, err := ArrayAt[uint16](r, l.SlotOffset(1))
		require.NoError(t, err)
		assert.Equal(t, ids, got)

		b, err := ArrayAt[bool](r, l.SlotOffset(2))
		require.NoError(t, err)
		assert.Equal(t, flags, b)
	})

	t.Run("Decode", func(t *testing.T) {
		raw, err := r.Value(0)
		require.NoError(t, err)
		got, err := DecodeArray[float32](nil, raw)
		require.NoError(t, err)
		assert.Equal(t, floats, got)

		_, err = DecodeArray[uint32](nil, raw[:3])
		assert.ErrorIs(t, err, ErrUnaligned)
	})

	t.Run("ViewArrayChecks", func(t *testing.T) {
		_, err := ViewArray[uint64](make([]byte, 7))
		assert.ErrorIs(t, err, ErrUnaligned)

		empty, err := ViewArray[uint64](nil)
		require.NoError(t, err)
		assert.Empty(t, empty)

		_, err = ViewArray[bool]([]byte{0, 2})
		assert.ErrorIs(t, err, ErrUnaligned)

		aligned := make([]uint64, 3)
		raw := unsafeBytes(aligned)
		if trustedLoads {
			_, err = ViewArray[uint64](raw[1:17])
			assert.ErrorIs(t, err, ErrUnaligned)

			got, err := ViewArray[uint64](raw[8:24])
			require.NoError(t, err)
			assert.Len(t, got, 2)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		buf := buildRecord(t, Layout{SlotCount: 1}, func(b *Builder) {
			require.NoError(t, PutArray[int64](b, 0, nil))
		})
		r, err := NewRecord(buf, Layout{SlotCount: 1})
		require.NoError(t, err)
		got, err := ArrayAt[int64](r, 0)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func unsafeBytes(v []uint64) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(v))), len(v)*8)
}
