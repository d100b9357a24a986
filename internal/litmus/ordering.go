// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package litmus

import (
	"context"

	"cellatomic/atomics"
)

// channel is a data cell and a flag cell written by one goroutine and read by
// another. Round r writes data = r, then flag = r.
type channel struct {
	data padded[atomics.Int64]
	flag padded[atomics.Int64]
}

var publishScenario = Scenario{
	Name:        "publish",
	Description: "a relaxed payload published by a release store is seen by an acquire load of the flag",
	run: func(ctx context.Context, p Params, rec *Recorder) error {
		return runMessagePassing(ctx, p, rec,
			func(c *channel, r int64) {
				c.data.v.Store(r, atomics.Relaxed)
				c.flag.v.Store(r, atomics.Release)
			},
			func(c *channel) (flag, data int64) {
				flag = c.flag.v.Load(atomics.Acquire)
				return flag, c.data.v.Load(atomics.Relaxed)
			},
		)
	},
}

var fenceMPScenario = Scenario{
	Name:        "fence-mp",
	Description: "relaxed writes separated by a release fence are seen in order by relaxed reads separated by an acquire fence",
	run: func(ctx context.Context, p Params, rec *Recorder) error {
		return runMessagePassing(ctx, p, rec,
			func(c *channel, r int64) {
				c.data.v.Store(r, atomics.Relaxed)
				atomics.Fence(atomics.Release)
				c.flag.v.Store(r, atomics.Relaxed)
			},
			func(c *channel) (flag, data int64) {
				flag = c.flag.v.Load(atomics.Relaxed)
				atomics.Fence(atomics.Acquire)
				return flag, c.data.v.Load(atomics.Relaxed)
			},
		)
	},
}

// runMessagePassing runs writer/reader pairs. A reader that sees flag f must
// see data >= f; data < f is a stale payload.
func runMessagePassing(
	ctx context.Context,
	p Params,
	rec *Recorder,
	write func(c *channel, r int64),
	read func(c *channel) (flag, data int64),
) error {
	pairs := p.pairs()
	channels := make([]channel, pairs)
	rounds := int64(p.Iterations)

	err := spawn(pairs*2, func(worker int) {
		c := &channels[worker/2]
		base := uint32(worker/2) * uint32(p.Iterations+1)

		if worker%2 == 0 {
			for r := int64(1); r <= rounds; r++ {
				if r%stopEvery == 0 && rec.Stopped() {
					return
				}
				write(c, r)
			}
			return
		}

		s := spinner{rec: rec}
		var seen int64
		var fresh, overtaken int64
		for seen < rounds {
			flag, data := read(c)
			if flag == seen {
				if !s.wait() {
					break
				}
				continue
			}

			switch {
			case data < flag:
				rec.Forbid(base+uint32(flag), "stale")
			case data == flag:
				fresh++
			default:
				overtaken++
			}

			seen = flag
		}

		rec.Observe("fresh", fresh)
		rec.Observe("overtaken", overtaken)
	})
	if err != nil {
		return err
	}

	if rec.Stopped() {
		return ctx.Err()
	}

	return nil
}

var fenceSBScenario = Scenario{
	Name:        "fence-sb",
	Description: "two goroutines each store then load the other's cell across a seq_cst fence; at least one sees the other's store",
	run:         runStoreBuffering,
}

// sbWindow bounds how many rounds of loads are kept before they are checked.
const sbWindow = 4096

func runStoreBuffering(ctx context.Context, p Params, rec *Recorder) error {
	pairs := p.pairs()
	rounds := p.Iterations
	window := min(rounds, sbWindow)

	type pair struct {
		x, y padded[atomics.Int64]
		// seen[side][k] is what side loaded in round from+k of the current window.
		seen [2][]int64
	}

	ps := make([]pair, pairs)
	for i := range ps {
		ps[i].seen = [2][]int64{make([]int64, window), make([]int64, window)}
	}

	for from := 1; from <= rounds; from += window {
		n := min(window, rounds-from+1)

		err := spawn(pairs*2, func(worker int) {
			pr := &ps[worker/2]
			side := worker % 2

			mine, theirs := &pr.x.v, &pr.y.v
			if side == 1 {
				mine, theirs = theirs, mine
			}

			for k := range n {
				r := from + k
				if r%stopEvery == 0 && rec.Stopped() {
					return
				}

				mine.Store(int64(r), atomics.Relaxed)
				atomics.Fence(atomics.SeqCst)
				pr.seen[side][k] = theirs.Load(atomics.Relaxed)
			}
		})
		if err != nil {
			return err
		}

		if rec.Stopped() {
			return ctx.Err()
		}

		for i := range ps {
			base := uint32(i) * uint32(rounds+1)
			for k := range n {
				r := from + k
				a := ps[i].seen[0][k] >= int64(r)
				b := ps[i].seen[1][k] >= int64(r)

				switch {
				case a && b:
					rec.Observe("both", 1)
				case a:
					rec.Observe("first-only", 1)
				case b:
					rec.Observe("second-only", 1)
				default:
					rec.Forbid(base+uint32(r), "neither")
				}
			}
		}
	}

	return nil
}
