// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package atomics

import (
	"sync/atomic" //nolint:depguard
)

// narrow keeps an 8 or 16 bit integer in an atomic.Uint32.
//
// Values are stored as uint32(v), sign extended for signed types, so every
// value has exactly one representation and CompareAndSwap can compare raw
// words. Bitwise operations preserve that form; addition does not, and goes
// through a CAS loop at the width of T.
type narrow[T ~int8 | ~uint8 | ~int16 | ~uint16] struct {
	v atomic.Uint32
}

func (n *narrow[T]) Load() T {
	return T(n.v.Load())
}

func (n *narrow[T]) Store(val T) {
	n.v.Store(uint32(val))
}

func (n *narrow[T]) Swap(val T) T {
	return T(n.v.Swap(uint32(val)))
}

func (n *narrow[T]) CompareAndSwap(old, new T) bool {
	return n.v.CompareAndSwap(uint32(old), uint32(new))
}

func (n *narrow[T]) Add(delta T) T {
	for {
		old := n.v.Load()
		sum := T(old) + delta
		if n.v.CompareAndSwap(old, uint32(sum)) {
			return sum
		}
	}
}

func (n *narrow[T]) And(mask T) T {
	return T(n.v.And(uint32(mask)))
}

func (n *narrow[T]) Or(mask T) T {
	return T(n.v.Or(uint32(mask)))
}
