// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package atomics

import (
	"sync/atomic" //nolint:depguard
	"unsafe"
)

// Pointer is an atomic *T. Arithmetic is not offered; compute addresses
// outside the cell and store the result.
type Pointer[T any] struct {
	cell[*T, atomic.Pointer[T], *atomic.Pointer[T]]
}

// UnsafePointer is an atomic unsafe.Pointer, for addresses whose pointee type
// is opaque to the caller.
type UnsafePointer struct {
	cell[unsafe.Pointer, rawPointer, *rawPointer]
}

type rawPointer struct {
	_ noCopy
	p unsafe.Pointer
}

func (p *rawPointer) Load() unsafe.Pointer {
	return atomic.LoadPointer(&p.p)
}

func (p *rawPointer) Store(v unsafe.Pointer) {
	atomic.StorePointer(&p.p, v)
}

func (p *rawPointer) Swap(v unsafe.Pointer) unsafe.Pointer {
	return atomic.SwapPointer(&p.p, v)
}

func (p *rawPointer) CompareAndSwap(old, new unsafe.Pointer) bool {
	return atomic.CompareAndSwapPointer(&p.p, old, new)
}

// noCopy makes go vet's copylocks check reject copies.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
