// Copyright 2024 The Zerorec Authors
// SPDX-License-Identifier: MIT

//go:build (!arm64 && !amd64) || noasm

package prefetch

import "unsafe"

func init() {
	native = NoOp
	initStrategy()
}

// archHint is a no-op where no prefetch instruction is wired up.
func archHint(_ unsafe.Pointer) {}
