// Package prefetch issues non-binding CPU cache hints for records that are
// about to be read.
//
// The instruction used is chosen once at package init from the CPU's
// capabilities:
//
//	Strategy       Instruction
//	NoOp           none (portable builds, -tags noasm, unsupported GOARCH)
//	X86PrefetchT0  PREFETCHT0 (amd64)
//	ARM64PRFM      PRFM PLDL1KEEP (arm64)
//
// Setting ZEROREC_PREFETCH=none disables hints at startup; Set toggles them
// at runtime. Hints never change what a reader decodes, only when the bytes
// arrive in cache.
package prefetch
