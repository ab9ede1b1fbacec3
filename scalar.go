package zerorec

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// Scalar is the set of fixed-width values that can live in the fixed
// section. All are stored little-endian; bool is one byte, non-zero is true.
type Scalar interface {
	bool | int8 | uint8 | int16 | uint16 | int32 | uint32 | int64 | uint64 | float32 | float64
}

// SizeOf returns the encoded width of T in bytes.
func SizeOf[T Scalar]() int {
	var v T
	return int(unsafe.Sizeof(v))
}

func decodeScalar[T Scalar](p []byte) T {
	var v T
	switch ptr := any(&v).(type) {
	case *bool:
		*ptr = p[0] != 0
	case *int8:
		*ptr = int8(p[0])
	case *uint8:
		*ptr = p[0]
	case *int16:
		*ptr = int16(binary.LittleEndian.Uint16(p))
	case *uint16:
		*ptr = binary.LittleEndian.Uint16(p)
	case *int32:
		*ptr = int32(binary.LittleEndian.Uint32(p))
	case *uint32:
		*ptr = binary.LittleEndian.Uint32(p)
	case *int64:
		*ptr = int64(binary.LittleEndian.Uint64(p))
	case *uint64:
		*ptr = binary.LittleEndian.Uint64(p)
	case *float32:
		*ptr = math.Float32frombits(binary.LittleEndian.Uint32(p))
	case *float64:
		*ptr = math.Float64frombits(binary.LittleEndian.Uint64(p))
	}
	return v
}

func encodeScalar[T Scalar](p []byte, v T) {
	switch x := any(v).(type) {
	case bool:
		if x {
			p[0] = 1
		} else {
			p[0] = 0
		}
	case int8:
		p[0] = byte(x)
	case uint8:
		p[0] = x
	case int16:
		binary.LittleEndian.PutUint16(p, uint16(x))
	case uint16:
		binary.LittleEndian.PutUint16(p, x)
	case int32:
		binary.LittleEndian.PutUint32(p, uint32(x))
	case uint32:
		binary.LittleEndian.PutUint32(p, x)
	case int64:
		binary.LittleEndian.PutUint64(p, uint64(x))
	case uint64:
		binary.LittleEndian.PutUint64(p, x)
	case float32:
		binary.LittleEndian.PutUint32(p, math.Float32bits(x))
	case float64:
		binary.LittleEndian.PutUint64(p, math.Float64bits(x))
	}
}

func bytesOf(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
