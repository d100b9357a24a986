// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package atomics_test

import (
	"math"
	"testing"

	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/constraints"

	"cellatomic/atomics"
)

type integerCell[T constraints.Integer] interface {
	Initialize(val T)
	Load(order atomics.Order) T
	Store(val T, order atomics.Order)
	Swap(val T, order atomics.Order) T
	FetchAdd(delta T, order atomics.Order) T
	FetchSub(delta T, order atomics.Order) T
	FetchOr(mask T, order atomics.Order) T
	FetchXor(mask T, order atomics.Order) T
	FetchAnd(mask T, order atomics.Order) T
	CompareExchange(expected *T, desired T, success, failure atomics.Order) bool
	CompareExchangeWeak(expected *T, desired T, success, failure atomics.Order) bool
	CompareAndSwap(old, new T, kind atomics.CASKind, order atomics.Order) bool
}

var (
	_ integerCell[int]     = (*atomics.Word)(nil)
	_ integerCell[uint]    = (*atomics.UWord)(nil)
	_ integerCell[uintptr] = (*atomics.Uintptr)(nil)
	_ integerCell[int32]   = (*atomics.Int32)(nil)
	_ integerCell[uint32]  = (*atomics.Uint32)(nil)
	_ integerCell[int64]   = (*atomics.Int64)(nil)
	_ integerCell[uint64]  = (*atomics.Uint64)(nil)
	_ integerCell[int8]    = (*atomics.Int8)(nil)
	_ integerCell[uint8]   = (*atomics.Uint8)(nil)
	_ integerCell[int16]   = (*atomics.Int16)(nil)
	_ integerCell[uint16]  = (*atomics.Uint16)(nil)
)

func testIntegerOps[T constraints.Integer](t *testing.T, c integerCell[T]) {
	t.Helper()

	require.Equal(t, T(0), c.Load(atomics.SeqCst))

	c.Initialize(5)
	require.Equal(t, T(5), c.Load(atomics.Acquire))

	c.Store(7, atomics.Release)
	require.Equal(t, T(7), c.Load(atomics.Relaxed))

	require.Equal(t, T(7), c.Swap(9, atomics.AcqRel))
	require.Equal(t, T(9), c.Load(atomics.SeqCst))

	require.Equal(t, T(9), c.FetchAdd(3, atomics.Relaxed))
	require.Equal(t, T(12), c.FetchSub(2, atomics.Release))
	require.Equal(t, T(10), c.Load(atomics.Relaxed))

	// 0b1010
	require.Equal(t, T(10), c.FetchOr(0b0101, atomics.AcqRel))
	require.Equal(t, T(0b1111), c.FetchAnd(0b0110, atomics.Acquire))
	require.Equal(t, T(0b0110), c.FetchXor(0b0011, atomics.SeqCst))
	require.Equal(t, T(0b0101), c.Load(atomics.SeqCst))
}

func testIntegerCAS[T constraints.Integer](t *testing.T, c integerCell[T]) {
	t.Helper()

	c.Initialize(40)

	expected := T(40)
	require.True(t, c.CompareExchange(&expected, 41, atomics.AcqRel, atomics.Acquire))
	require.Equal(t, T(40), expected)
	require.Equal(t, T(41), c.Load(atomics.SeqCst))

	expected = 40
	require.False(t, c.CompareExchange(&expected, 50, atomics.SeqCst, atomics.SeqCst))
	require.Equal(t, T(41), expected, "failed CAS reports the current value")
	require.Equal(t, T(41), c.Load(atomics.SeqCst))

	expected = 1
	require.False(t, c.CompareExchangeWeak(&expected, 2, atomics.Release, atomics.Relaxed))
	require.Equal(t, T(41), expected)

	require.False(t, c.CompareAndSwap(40, 60, atomics.Strong, atomics.SeqCst))
	require.True(t, c.CompareAndSwap(41, 42, atomics.Strong, atomics.SeqCst))
	require.True(t, c.CompareAndSwap(42, 43, atomics.Weak, atomics.AcqRel))
	require.Equal(t, T(43), c.Load(atomics.SeqCst))
}

func testWeakLiveness[T constraints.Integer](t *testing.T, c integerCell[T]) {
	t.Helper()

	c.Initialize(1)

	expected := c.Load(atomics.Relaxed)
	var attempts int
	for !c.CompareExchangeWeak(&expected, expected*3, atomics.AcqRel, atomics.Relaxed) {
		attempts++
		require.Less(t, attempts, 16)
	}

	require.Equal(t, T(3), c.Load(atomics.SeqCst))
}

func testCounter[T constraints.Integer](t *testing.T, c integerCell[T], order atomics.Order) {
	t.Helper()

	const goroutines = 8
	const perGoroutine = 2000

	c.Initialize(0)

	var wg conc.WaitGroup
	for range goroutines {
		wg.Go(func() {
			for range perGoroutine {
				c.FetchAdd(1, order)
			}
		})
	}
	wg.Wait()

	// narrow cells wrap, so compare modulo their width.
	total := goroutines * perGoroutine
	require.Equal(t, T(total), c.Load(atomics.SeqCst))
}

func runInteger[T constraints.Integer](t *testing.T, newCell func() integerCell[T]) {
	t.Run("ops", func(t *testing.T) {
		t.Parallel()
		testIntegerOps(t, newCell())
	})

	t.Run("cas", func(t *testing.T) {
		t.Parallel()
		testIntegerCAS(t, newCell())
	})

	t.Run("weak", func(t *testing.T) {
		t.Parallel()
		testWeakLiveness(t, newCell())
	})

	for _, order := range atomics.Orders {
		t.Run("counter/"+order.String(), func(t *testing.T) {
			t.Parallel()
			testCounter(t, newCell(), order)
		})
	}
}

func TestIntegers(t *testing.T) {
	t.Parallel()

	t.Run("word", func(t *testing.T) {
		t.Parallel()
		runInteger(t, func() integerCell[int] { return new(atomics.Word) })
	})
	t.Run("uword", func(t *testing.T) {
		t.Parallel()
		runInteger(t, func() integerCell[uint] { return new(atomics.UWord) })
	})
	t.Run("uintptr", func(t *testing.T) {
		t.Parallel()
		runInteger(t, func() integerCell[uintptr] { return new(atomics.Uintptr) })
	})
	t.Run("int32", func(t *testing.T) {
		t.Parallel()
		runInteger(t, func() integerCell[int32] { return new(atomics.Int32) })
	})
	t.Run("uint32", func(t *testing.T) {
		t.Parallel()
		runInteger(t, func() integerCell[uint32] { return new(atomics.Uint32) })
	})
	t.Run("int64", func(t *testing.T) {
		t.Parallel()
		runInteger(t, func() integerCell[int64] { return new(atomics.Int64) })
	})
	t.Run("uint64", func(t *testing.T) {
		t.Parallel()
		runInteger(t, func() integerCell[uint64] { return new(atomics.Uint64) })
	})
	t.Run("int16", func(t *testing.T) {
		t.Parallel()
		runInteger(t, func() integerCell[int16] { return new(atomics.Int16) })
	})
	t.Run("uint16", func(t *testing.T) {
		t.Parallel()
		runInteger(t, func() integerCell[uint16] { return new(atomics.Uint16) })
	})
	t.Run("int8", func(t *testing.T) {
		t.Parallel()
		runInteger(t, func() integerCell[int8] { return new(atomics.Int8) })
	})
	t.Run("uint8", func(t *testing.T) {
		t.Parallel()
		runInteger(t, func() integerCell[uint8] { return new(atomics.Uint8) })
	})
}

func TestInt32_Wraparound(t *testing.T) {
	t.Parallel()

	var c atomics.Int32
	c.Initialize(math.MaxInt32)

	require.Equal(t, int32(math.MaxInt32), c.FetchAdd(1, atomics.Relaxed))
	require.Equal(t, int32(math.MinInt32), c.Load(atomics.Relaxed))

	require.Equal(t, int32(math.MinInt32), c.FetchSub(1, atomics.Relaxed))
	require.Equal(t, int32(math.MaxInt32), c.Load(atomics.Relaxed))
}

func TestInt64_Wraparound(t *testing.T) {
	t.Parallel()

	var c atomics.Int64
	c.Initialize(math.MinInt64)

	require.Equal(t, int64(math.MinInt64), c.FetchSub(1, atomics.SeqCst))
	require.Equal(t, int64(math.MaxInt64), c.Load(atomics.SeqCst))

	c.FetchSub(math.MinInt64, atomics.SeqCst)
	require.Equal(t, int64(-1), c.Load(atomics.SeqCst))
}

func TestWord_Wraparound(t *testing.T) {
	t.Parallel()

	var c atomics.Word
	c.Initialize(math.MaxInt)

	require.Equal(t, math.MaxInt, c.FetchAdd(1, atomics.AcqRel))
	require.Equal(t, math.MinInt, c.Load(atomics.Acquire))

	c.Store(-1, atomics.Relaxed)
	require.Equal(t, -1, c.FetchAnd(-1, atomics.Relaxed))
	require.Equal(t, -1, c.Load(atomics.Relaxed))
}

func TestNarrow(t *testing.T) {
	t.Parallel()

	var i8 atomics.Int8
	i8.Initialize(math.MaxInt8)
	require.Equal(t, int8(math.MaxInt8), i8.FetchAdd(1, atomics.Relaxed))
	require.Equal(t, int8(math.MinInt8), i8.Load(atomics.Relaxed))

	// sign extended storage must still compare equal
	i8.Store(-1, atomics.Relaxed)
	require.True(t, i8.CompareAndSwap(-1, -2, atomics.Strong, atomics.SeqCst))
	require.Equal(t, int8(-2), i8.FetchOr(math.MinInt8, atomics.Relaxed))
	require.Equal(t, int8(-2), i8.FetchAnd(0x0f, atomics.Relaxed))
	require.Equal(t, int8(0x0e), i8.Load(atomics.Relaxed))

	var u16 atomics.Uint16
	require.Equal(t, uint16(0), u16.FetchSub(1, atomics.Relaxed))
	require.Equal(t, uint16(math.MaxUint16), u16.Load(atomics.Relaxed))
	require.Equal(t, uint16(math.MaxUint16), u16.FetchXor(0xff00, atomics.Relaxed))
	require.Equal(t, uint16(0x00ff), u16.Load(atomics.Relaxed))
}

func TestFetchOr_DistinctBits(t *testing.T) {
	t.Parallel()

	var c atomics.Uint64
	var duplicated atomics.Uint64

	var wg conc.WaitGroup
	for bit := range 64 {
		wg.Go(func() {
			if old := c.FetchOr(1<<bit, atomics.AcqRel); old&(1<<bit) != 0 {
				duplicated.FetchAdd(1, atomics.Relaxed)
			}
		})
	}
	wg.Wait()

	require.Equal(t, uint64(math.MaxUint64), c.Load(atomics.SeqCst))
	require.Zero(t, duplicated.Load(atomics.SeqCst))
}

func TestFetchXor_Pairs(t *testing.T) {
	t.Parallel()

	var c atomics.Int32
	c.Initialize(0x5a5a)

	var wg conc.WaitGroup
	for range 16 {
		wg.Go(func() {
			for range 1000 {
				c.FetchXor(0x0ff0, atomics.Relaxed)
			}
		})
	}
	wg.Wait()

	// an even number of flips cancels out
	require.Equal(t, int32(0x5a5a), c.Load(atomics.SeqCst))
}

func TestCompareAndSwap_Kinds(t *testing.T) {
	t.Parallel()

	require.Equal(t, "strong", atomics.Strong.String())
	require.Equal(t, "weak", atomics.Weak.String())

	for _, kind := range []atomics.CASKind{atomics.Strong, atomics.Weak} {
		t.Run(kind.String(), func(t *testing.T) {
			t.Parallel()

			var c atomics.Int32
			c.Initialize(1)

			require.False(t, c.CompareAndSwap(0, 2, kind, atomics.SeqCst))
			for !c.CompareAndSwap(1, 2, kind, atomics.AcqRel) {
			}
			require.Equal(t, int32(2), c.Load(atomics.SeqCst))
		})
	}
}
