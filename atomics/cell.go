// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package atomics

// CASKind selects the compare-and-swap form used by CompareAndSwap.
type CASKind uint8

const (
	// Strong never fails while the cell holds the expected value.
	Strong CASKind = iota
	// Weak may fail spuriously and must be retried in a loop.
	Weak
)

func (k CASKind) String() string {
	if k == Weak {
		return "weak"
	}

	return "strong"
}

// storage is the set of sync/atomic style methods a cell is built on.
type storage[T any] interface {
	Load() T
	Store(val T)
	Swap(val T) (old T)
	CompareAndSwap(old, new T) (swapped bool)
}

// cell implements the operations shared by every cell shape on top of a
// backing storage S. P is *S, spelled out so the methods of S can be called
// through a type parameter.
type cell[T comparable, S any, P interface {
	*S
	storage[T]
}] struct {
	v S
}

func (c *cell[T, S, P]) s() P {
	return P(&c.v)
}

// Initialize sets the value of a cell that is not yet shared.
func (c *cell[T, S, P]) Initialize(val T) {
	c.s().Store(val)
}

func (c *cell[T, S, P]) Load(order Order) T {
	checkLoad(order)
	return c.s().Load()
}

func (c *cell[T, S, P]) Store(val T, order Order) {
	checkStore(order)
	c.s().Store(val)
}

// Swap stores val and returns the previous value.
func (c *cell[T, S, P]) Swap(val T, order Order) T {
	checkRMW(order)
	return c.s().Swap(val)
}

// CompareExchange replaces the value with desired if it equals *expected.
// Otherwise it reports false and stores the value it found into *expected.
// It never fails while the cell holds *expected.
func (c *cell[T, S, P]) CompareExchange(expected *T, desired T, success, failure Order) bool {
	checkCAS(success, failure)

	s := c.s()
	for {
		if s.CompareAndSwap(*expected, desired) {
			return true
		}

		// the value moved away from *expected and may have moved back.
		if cur := s.Load(); cur != *expected {
			*expected = cur
			return false
		}
	}
}

// CompareExchangeWeak is CompareExchange with a single attempt. It may report
// false even though the value it writes back equals the one expected.
func (c *cell[T, S, P]) CompareExchangeWeak(expected *T, desired T, success, failure Order) bool {
	checkCAS(success, failure)

	s := c.s()
	if s.CompareAndSwap(*expected, desired) {
		return true
	}

	*expected = s.Load()
	return false
}

// CompareAndSwap is the by-value form of CompareExchange and
// CompareExchangeWeak; its failure path is relaxed and the observed value is
// discarded.
func (c *cell[T, S, P]) CompareAndSwap(old, new T, kind CASKind, order Order) bool {
	if kind == Weak {
		return c.CompareExchangeWeak(&old, new, order, Relaxed)
	}

	checkCAS(order, Relaxed)
	return c.s().CompareAndSwap(old, new)
}
