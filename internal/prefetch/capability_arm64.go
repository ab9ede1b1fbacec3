// Copyright 2024 The Zerorec Authors
// SPDX-License-Identifier: MIT

//go:build !noasm && arm64

package prefetch

import "unsafe"

func init() {
	// PRFM is part of the ARMv8-A base ISA.
	native = ARM64PRFM
	initStrategy()
}

//go:noescape
func prefetchPLDL1KEEP(addr unsafe.Pointer)

func archHint(p unsafe.Pointer) {
	prefetchPLDL1KEEP(p)
}
