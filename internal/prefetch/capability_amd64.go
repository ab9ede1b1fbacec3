// Copyright 2024 The Zerorec Authors
// SPDX-License-Identifier: MIT

//go:build !noasm && amd64

package prefetch

import (
	"unsafe"

	"golang.org/x/sys/cpu"
)

func init() {
	// PREFETCHh ships with SSE; every amd64 CPU has it, but keep the gate
	// explicit so a broken cpuid report degrades to NoOp.
	if cpu.X86.HasSSE2 {
		native = X86PrefetchT0
	}
	initStrategy()
}

//go:noescape
func prefetchT0(addr unsafe.Pointer)

func archHint(p unsafe.Pointer) {
	if native == X86PrefetchT0 {
		prefetchT0(p)
	}
}
