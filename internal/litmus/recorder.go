// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package litmus

import (
	"context"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/atomic"
)

// Recorder collects the outcomes of one job. It is safe for concurrent use.
//
// Its own bookkeeping uses go.uber.org/atomic so that a broken cell under test
// can not corrupt the tally that is supposed to catch it.
type Recorder struct {
	outcomes     *xsync.MapOf[string, *xsync.Counter]
	forbidden    *roaring.Bitmap
	observations atomic.Uint64
	stopped      atomic.Bool
	m            sync.Mutex
}

func newRecorder() *Recorder {
	return &Recorder{
		outcomes:  xsync.NewMapOf[string, *xsync.Counter](),
		forbidden: roaring.New(),
	}
}

// Observe adds n observations of an allowed outcome.
func (r *Recorder) Observe(outcome string, n int64) {
	if n == 0 {
		return
	}

	c, _ := r.outcomes.LoadOrCompute(outcome, xsync.NewCounter)
	c.Add(n)
	r.observations.Add(uint64(n))
}

// Forbid records a forbidden outcome seen by iteration index.
func (r *Recorder) Forbid(index uint32, outcome string) {
	r.Observe(outcome, 1)

	r.m.Lock()
	r.forbidden.Add(index)
	r.m.Unlock()
}

// Stopped reports whether the job has been cancelled. Long running loops poll
// it between iterations; spinning readers poll it while they spin.
func (r *Recorder) Stopped() bool {
	return r.stopped.Load()
}

// watch marks the recorder stopped once ctx is done. The returned function
// releases the watch.
func (r *Recorder) watch(ctx context.Context) func() bool {
	return context.AfterFunc(ctx, func() { r.stopped.Store(true) })
}

func (r *Recorder) snapshot() (map[string]int64, *roaring.Bitmap, uint64) {
	outcomes := make(map[string]int64, r.outcomes.Size())
	r.outcomes.Range(func(key string, c *xsync.Counter) bool {
		outcomes[key] = c.Value()
		return true
	})

	r.m.Lock()
	forbidden := r.forbidden.Clone()
	r.m.Unlock()

	return outcomes, forbidden, r.observations.Load()
}
