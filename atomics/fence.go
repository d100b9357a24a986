// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package atomics

import (
	"sync/atomic" //nolint:depguard

	"golang.org/x/sys/cpu"
)

// Go has no standalone fence. A read-modify-write on this word is ordered
// against every other atomic operation and every fence observes the ones
// before it. Its value is never used.
var fence struct {
	_ cpu.CacheLinePad
	v atomic.Uint32
	_ cpu.CacheLinePad
}

// Fence orders the atomic operations issued before it against those issued
// after it, independently of any cell. A Relaxed fence does nothing.
func Fence(order Order) {
	checkRMW(order)
	if order == Relaxed {
		return
	}

	fence.v.Add(1)
}
