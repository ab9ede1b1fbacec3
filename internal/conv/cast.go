package conv

import (
	"errors"
	"fmt"
	"math"
)

// ErrOverflow is wrapped by every conversion failure.
var ErrOverflow = errors.New("conv: integer overflow")

// IntToUint32 converts int to uint32, rejecting negatives and values above
// math.MaxUint32.
func IntToUint32(v int) (uint32, error) {
	if v < 0 {
		return 0, fmt.Errorf("%w: %d is negative", ErrOverflow, v)
	}
	if uint64(v) > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %d exceeds uint32", ErrOverflow, v)
	}
	return uint32(v), nil
}

// Uint32ToInt converts uint32 to int. It only fails on 32-bit platforms.
func Uint32ToInt(v uint32) (int, error) {
	if uint64(v) > uint64(math.MaxInt) {
		return 0, fmt.Errorf("%w: %d exceeds int", ErrOverflow, v)
	}
	return int(v), nil
}

// Int64ToInt converts int64 to int, rejecting negatives.
// Used for blob sizes reported by storage backends.
func Int64ToInt(v int64) (int, error) {
	if v < 0 {
		return 0, fmt.Errorf("%w: %d is negative", ErrOverflow, v)
	}
	if uint64(v) > uint64(math.MaxInt) {
		return 0, fmt.Errorf("%w: %d exceeds int", ErrOverflow, v)
	}
	return int(v), nil
}

// AddInt returns a+b for non-negative operands, failing instead of wrapping.
func AddInt(a, b int) (int, error) {
	if a < 0 || b < 0 || a > math.MaxInt-b {
		return 0, fmt.Errorf("%w: %d + %d", ErrOverflow, a, b)
	}
	return a + b, nil
}
