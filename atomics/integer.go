// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package atomics

import (
	"sync/atomic" //nolint:depguard

	"golang.org/x/exp/constraints"
)

// arithmetic is storage that can also add and mask in place.
// Add returns the new value, And and Or the old one, as sync/atomic does.
type arithmetic[T any] interface {
	storage[T]
	Add(delta T) (new T)
	And(mask T) (old T)
	Or(mask T) (old T)
}

// Integer is an atomic integer of type T kept in storage S.
// Use one of the named instantiations below rather than spelling it out.
//
// All arithmetic wraps around at the width of T.
type Integer[T constraints.Integer, S any, P interface {
	*S
	arithmetic[T]
}] struct {
	cell[T, S, P]
}

type (
	// Word is a pointer sized signed integer.
	Word = Integer[int, word[int], *word[int]]
	// UWord is a pointer sized unsigned integer.
	UWord = Integer[uint, word[uint], *word[uint]]

	Uintptr = Integer[uintptr, atomic.Uintptr, *atomic.Uintptr]

	Int32  = Integer[int32, atomic.Int32, *atomic.Int32]
	Uint32 = Integer[uint32, atomic.Uint32, *atomic.Uint32]
	Int64  = Integer[int64, atomic.Int64, *atomic.Int64]
	Uint64 = Integer[uint64, atomic.Uint64, *atomic.Uint64]

	Int8   = Integer[int8, narrow[int8], *narrow[int8]]
	Uint8  = Integer[uint8, narrow[uint8], *narrow[uint8]]
	Int16  = Integer[int16, narrow[int16], *narrow[int16]]
	Uint16 = Integer[uint16, narrow[uint16], *narrow[uint16]]
)

// FetchAdd adds delta and returns the previous value.
func (c *Integer[T, S, P]) FetchAdd(delta T, order Order) T {
	checkRMW(order)
	return c.s().Add(delta) - delta
}

// FetchSub subtracts delta and returns the previous value.
func (c *Integer[T, S, P]) FetchSub(delta T, order Order) T {
	checkRMW(order)
	return c.s().Add(-delta) + delta
}

// FetchOr sets the bits of mask and returns the previous value.
func (c *Integer[T, S, P]) FetchOr(mask T, order Order) T {
	checkRMW(order)
	return c.s().Or(mask)
}

// FetchAnd clears the bits missing from mask and returns the previous value.
func (c *Integer[T, S, P]) FetchAnd(mask T, order Order) T {
	checkRMW(order)
	return c.s().And(mask)
}

// FetchXor flips the bits of mask and returns the previous value.
func (c *Integer[T, S, P]) FetchXor(mask T, order Order) T {
	checkRMW(order)

	s := c.s()
	for {
		old := s.Load()
		if s.CompareAndSwap(old, old^mask) {
			return old
		}
	}
}
