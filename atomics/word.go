// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package atomics

import (
	"sync/atomic" //nolint:depguard
)

// word stores a pointer sized integer in an atomic.Uintptr. Conversions
// between int, uint and uintptr keep all bits, so two's complement wraparound
// is the one of the native word.
type word[T ~int | ~uint] struct {
	v atomic.Uintptr
}

func (w *word[T]) Load() T {
	return T(w.v.Load())
}

func (w *word[T]) Store(val T) {
	w.v.Store(uintptr(val))
}

func (w *word[T]) Swap(val T) T {
	return T(w.v.Swap(uintptr(val)))
}

func (w *word[T]) CompareAndSwap(old, new T) bool {
	return w.v.CompareAndSwap(uintptr(old), uintptr(new))
}

func (w *word[T]) Add(delta T) T {
	return T(w.v.Add(uintptr(delta)))
}

func (w *word[T]) And(mask T) T {
	return T(w.v.And(uintptr(mask)))
}

func (w *word[T]) Or(mask T) T {
	return T(w.v.Or(uintptr(mask)))
}
