package prefetch

import (
	"errors"
	"os"
	"strings"
	"sync/atomic"
	"unsafe"
)

// LineSize is the cache line stride used by Range.
const LineSize = 64

// EnvVar names the environment variable that can disable hints at startup.
const EnvVar = "ZEROREC_PREFETCH"

// Strategy identifies the prefetch instruction in use.
type Strategy uint8

const (
	// NoOp issues no hint.
	NoOp Strategy = iota
	// X86PrefetchT0 uses PREFETCHT0 (all cache levels).
	X86PrefetchT0
	// ARM64PRFM uses PRFM PLDL1KEEP.
	ARM64PRFM
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case NoOp:
		return "noop"
	case X86PrefetchT0:
		return "x86-prefetcht0"
	case ARM64PRFM:
		return "arm64-prfm"
	default:
		return "unknown"
	}
}

// ErrUnavailable is returned by Set for a strategy this CPU cannot execute.
var ErrUnavailable = errors.New("prefetch: strategy not available on this platform")

var (
	// native is the best strategy for this CPU, set by the arch init.
	native Strategy

	active atomic.Uint32

	// overridden is true when EnvVar disabled hints.
	overridden bool
)

// initStrategy is called from the arch-specific init after native is known.
func initStrategy() {
	active.Store(uint32(parseEnv(os.Getenv(EnvVar), native)))
}

func parseEnv(v string, fallback Strategy) Strategy {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "none", "off", "noop", "0", "false":
		overridden = true
		return NoOp
	default:
		return fallback
	}
}

// Active returns the strategy currently in use.
func Active() Strategy {
	return Strategy(active.Load())
}

// Native returns the best strategy this CPU supports, ignoring overrides.
func Native() Strategy {
	return native
}

// Overridden reports whether hints were disabled through EnvVar.
func Overridden() bool {
	return overridden
}

// Set switches the active strategy and returns the previous one.
// Only NoOp and Native() are accepted.
func Set(s Strategy) (Strategy, error) {
	if s != NoOp && s != native {
		return Active(), ErrUnavailable
	}
	return Strategy(active.Swap(uint32(s))), nil
}

// Hint asks the CPU to start loading the cache line containing p.
func Hint(p unsafe.Pointer) {
	if p == nil || Strategy(active.Load()) == NoOp {
		return
	}
	archHint(p)
}

// Range hints every cache line covered by b.
func Range(b []byte) {
	if len(b) == 0 || Strategy(active.Load()) == NoOp {
		return
	}
	base := unsafe.Pointer(unsafe.SliceData(b))
	for off := 0; off < len(b); off += LineSize {
		archHint(unsafe.Add(base, off))
	}
}
