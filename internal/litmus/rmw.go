// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package litmus

import (
	"context"
	"math"

	"github.com/RoaringBitmap/roaring/v2"

	"cellatomic/atomics"
)

// stopEvery is how many iterations a worker runs between cancellation checks.
const stopEvery = 1024

var counterScenario = Scenario{
	Name:        "counter",
	Description: "concurrent FetchAdd(1) on word, 32 and 64 bit cells loses no update",
	Ordered:     true,
	run:         runCounter,
}

func runCounter(ctx context.Context, p Params, rec *Recorder) error {
	var word padded[atomics.Word]
	var i32 padded[atomics.Int32]
	var i64 padded[atomics.Int64]

	err := spawn(p.Goroutines, func(int) {
		for i := range p.Iterations {
			if i%stopEvery == 0 && rec.Stopped() {
				return
			}

			word.v.FetchAdd(1, p.Order)
			i32.v.FetchAdd(1, p.Order)
			i64.v.FetchAdd(1, p.Order)
		}
	})
	if err != nil {
		return err
	}

	if rec.Stopped() {
		return ctx.Err()
	}

	want := int64(p.Goroutines) * int64(p.Iterations)

	classify(rec, 0, "word", word.v.Load(atomics.SeqCst) == int(want))
	classify(rec, 1, "int32", i32.v.Load(atomics.SeqCst) == int32(want))
	classify(rec, 2, "int64", i64.v.Load(atomics.SeqCst) == want)

	return nil
}

func classify(rec *Recorder, index uint32, cell string, exact bool) {
	if exact {
		rec.Observe(cell+":exact", 1)
		return
	}

	rec.Forbid(index, cell+":lost-update")
}

var casScenario = Scenario{
	Name:        "cas",
	Description: "counters incremented through strong and weak CAS loops lose no update; strong CAS never fails spuriously",
	Ordered:     true,
	run:         runCAS,
}

func runCAS(ctx context.Context, p Params, rec *Recorder) error {
	var strong, weak padded[atomics.Int64]

	success, failure := p.Order, p.Order.FailureFor()

	err := spawn(p.Goroutines, func(worker int) {
		var firstTry, strongRetries, weakRetries, weakSpurious int64

		for i := range p.Iterations {
			if i%stopEvery == 0 && rec.Stopped() {
				break
			}

			retried := false
			expected := strong.v.Load(atomics.Relaxed)
			for {
				prev := expected
				if strong.v.CompareExchange(&expected, prev+1, success, failure) {
					break
				}

				retried = true
				strongRetries++
				if expected == prev {
					rec.Forbid(uint32(worker*p.Iterations+i), "strong:spurious-failure")
				}
			}

			if !retried {
				firstTry++
			}

			expected = weak.v.Load(atomics.Relaxed)
			for {
				prev := expected
				if weak.v.CompareExchangeWeak(&expected, prev+1, success, failure) {
					break
				}

				weakRetries++
				if expected == prev {
					weakSpurious++
				}
			}
		}

		rec.Observe("strong:first-try", firstTry)
		rec.Observe("strong:retry", strongRetries)
		rec.Observe("weak:retry", weakRetries)
		rec.Observe("weak:spurious-failure", weakSpurious)
	})
	if err != nil {
		return err
	}

	if rec.Stopped() {
		return ctx.Err()
	}

	want := int64(p.Goroutines) * int64(p.Iterations)
	classify(rec, 0, "strong", strong.v.Load(atomics.SeqCst) == want)
	classify(rec, 1, "weak", weak.v.Load(atomics.SeqCst) == want)

	return nil
}

var exchangeScenario = Scenario{
	Name:        "exchange",
	Description: "every value swapped into a word is returned by exactly one later Swap or the final Load",
	Ordered:     true,
	run:         runExchange,
}

func runExchange(ctx context.Context, p Params, rec *Recorder) error {
	total := uint64(p.Goroutines) * uint64(p.Iterations)
	if total >= math.MaxUint32 {
		total = math.MaxUint32 - 1
	}

	var cell padded[atomics.Word]
	var returned = make([]*roaring.Bitmap, p.Goroutines)

	err := spawn(p.Goroutines, func(worker int) {
		seen := roaring.New()
		returned[worker] = seen

		for i := range p.Iterations {
			token := uint64(worker)*uint64(p.Iterations) + uint64(i) + 1
			if token > total || (i%stopEvery == 0 && rec.Stopped()) {
				return
			}

			old := uint32(cell.v.Swap(int(token), p.Order))
			if !seen.CheckedAdd(old) {
				rec.Forbid(old, "duplicate")
			}
		}
	})
	if err != nil {
		return err
	}

	if rec.Stopped() {
		return ctx.Err()
	}

	merged := roaring.New()
	for _, seen := range returned {
		roaring.And(merged, seen).Iterate(func(x uint32) bool {
			rec.Forbid(x, "duplicate")
			return true
		})
		merged.Or(seen)
	}

	final := uint32(cell.v.Load(atomics.SeqCst))
	if !merged.CheckedAdd(final) {
		rec.Forbid(final, "duplicate")
	}

	everything := roaring.New()
	everything.AddRange(0, total+1)
	roaring.AndNot(everything, merged).Iterate(func(x uint32) bool {
		rec.Forbid(x, "lost")
		return true
	})

	rec.Observe("unique", int64(merged.GetCardinality()))

	return nil
}

var bitwiseScenario = Scenario{
	Name:        "bitwise",
	Description: "workers owning one bit each of a 64 bit cell see their bit exactly as they left it through FetchXor, FetchOr and FetchAnd",
	Ordered:     true,
	run:         runBitwise,
}

func runBitwise(ctx context.Context, p Params, rec *Recorder) error {
	workers := min(p.Goroutines, 64)

	var cell padded[atomics.Uint64]

	err := spawn(workers, func(worker int) {
		bit := uint64(1) << worker
		index := func(i int) uint32 { return uint32(worker*(p.Iterations+2) + i) }

		for i := range p.Iterations {
			if i%stopEvery == 0 && rec.Stopped() {
				return
			}

			old := cell.v.FetchXor(bit, p.Order)
			if (old&bit != 0) != (i%2 == 1) {
				rec.Forbid(index(i), "xor:foreign-write")
				continue
			}
			rec.Observe("xor:owned", 1)
		}

		if old := cell.v.FetchOr(bit, p.Order); (old&bit != 0) != (p.Iterations%2 == 1) {
			rec.Forbid(index(p.Iterations), "or:foreign-write")
		} else {
			rec.Observe("or:owned", 1)
		}

		if old := cell.v.FetchAnd(^bit, p.Order); old&bit == 0 {
			rec.Forbid(index(p.Iterations+1), "and:foreign-write")
		} else {
			rec.Observe("and:owned", 1)
		}
	})
	if err != nil {
		return err
	}

	if rec.Stopped() {
		return ctx.Err()
	}

	if cell.v.Load(atomics.SeqCst) != 0 {
		rec.Forbid(math.MaxUint32, "final:bits-left")
	}

	return nil
}
