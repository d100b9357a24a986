// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package litmus

import (
	"context"
	"math"

	"golang.org/x/exp/constraints"

	"cellatomic/atomics"
)

var wraparoundScenario = Scenario{
	Name:        "wraparound",
	Description: "FetchAdd past the maximum wraps to the minimum and FetchSub back, for every width",
	run:         runWraparound,
}

type wrapping[T constraints.Integer] interface {
	Initialize(val T)
	Load(order atomics.Order) T
	FetchAdd(delta T, order atomics.Order) T
	FetchSub(delta T, order atomics.Order) T
}

func checkWrap[T constraints.Integer](rec *Recorder, index uint32, name string, c wrapping[T], lowest, highest T) {
	c.Initialize(highest)

	ok := c.FetchAdd(1, atomics.Relaxed) == highest && c.Load(atomics.Relaxed) == lowest
	ok = ok && c.FetchSub(1, atomics.Relaxed) == lowest && c.Load(atomics.Relaxed) == highest

	if ok {
		rec.Observe(name+":wrapped", 1)
		return
	}

	rec.Forbid(index, name+":no-wrap")
}

func runWraparound(_ context.Context, _ Params, rec *Recorder) error {
	checkWrap[int8](rec, 0, "int8", new(atomics.Int8), math.MinInt8, math.MaxInt8)
	checkWrap[uint8](rec, 1, "uint8", new(atomics.Uint8), 0, math.MaxUint8)
	checkWrap[int16](rec, 2, "int16", new(atomics.Int16), math.MinInt16, math.MaxInt16)
	checkWrap[uint16](rec, 3, "uint16", new(atomics.Uint16), 0, math.MaxUint16)
	checkWrap[int32](rec, 4, "int32", new(atomics.Int32), math.MinInt32, math.MaxInt32)
	checkWrap[uint32](rec, 5, "uint32", new(atomics.Uint32), 0, math.MaxUint32)
	checkWrap[int64](rec, 6, "int64", new(atomics.Int64), math.MinInt64, math.MaxInt64)
	checkWrap[uint64](rec, 7, "uint64", new(atomics.Uint64), 0, math.MaxUint64)
	checkWrap[int](rec, 8, "word", new(atomics.Word), math.MinInt, math.MaxInt)
	checkWrap[uint](rec, 9, "uword", new(atomics.UWord), 0, math.MaxUint)

	return nil
}
