// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package atomics

import (
	"sync/atomic" //nolint:depguard
)

// Bool is an atomic boolean. The fetch operations treat it as a one bit
// integer.
type Bool struct {
	cell[bool, atomic.Bool, *atomic.Bool]
}

// FetchOr sets the value to old || val and returns old.
func (b *Bool) FetchOr(val bool, order Order) bool {
	checkRMW(order)
	if val {
		return b.v.Swap(true)
	}

	return b.v.Load()
}

// FetchAnd sets the value to old && val and returns old.
func (b *Bool) FetchAnd(val bool, order Order) bool {
	checkRMW(order)
	if !val {
		return b.v.Swap(false)
	}

	return b.v.Load()
}

// FetchXor sets the value to old != val and returns old.
func (b *Bool) FetchXor(val bool, order Order) bool {
	checkRMW(order)
	if !val {
		return b.v.Load()
	}

	for {
		old := b.v.Load()
		if b.v.CompareAndSwap(old, !old) {
			return old
		}
	}
}
