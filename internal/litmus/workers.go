// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package litmus

import (
	"runtime"

	"github.com/sourcegraph/conc"
	"github.com/trim21/errgo"
	"golang.org/x/sys/cpu"

	"cellatomic/atomics"
)

// spawn runs fn on n goroutines released together, and waits for all of
// them. A panic in any worker, such as a failed order assertion, is returned
// as an error.
func spawn(n int, fn func(worker int)) error {
	var start atomics.Bool
	var w = conc.NewWaitGroup()

	for i := range n {
		w.Go(func() {
			for !start.Load(atomics.Acquire) {
				runtime.Gosched()
			}
			fn(i)
		})
	}

	start.Store(true, atomics.Release)

	if r := w.WaitAndRecover(); r != nil {
		return errgo.Wrap(r.AsError(), "worker panicked")
	}

	return nil
}

// padded keeps v on a cache line of its own, so that pairs of cells used by
// different workers do not share one.
type padded[T any] struct {
	_ cpu.CacheLinePad
	v T
	_ cpu.CacheLinePad
}

// spinner backs off while a worker waits for another one to make progress.
type spinner struct {
	rec   *Recorder
	spins uint32
}

// wait yields now and then and reports false once the job is stopped.
func (s *spinner) wait() bool {
	s.spins++
	if s.spins%64 != 0 {
		return true
	}

	runtime.Gosched()
	return !s.rec.Stopped()
}
