// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package litmus

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/trim21/errgo"
	"golang.org/x/sync/errgroup"
)

type Runner struct {
	metrics  *Metrics
	params   Params
	parallel int
}

// NewRunner returns a runner executing up to parallel jobs at once. Jobs
// compete for the same cores, so 1 gives the most stable timings. m may be
// nil.
func NewRunner(p Params, parallel int, m *Metrics) *Runner {
	return &Runner{
		params:   p.withDefaults(),
		parallel: max(parallel, 1),
		metrics:  m,
	}
}

// Run executes jobs and returns their results in job order. Forbidden
// outcomes are part of a result, not an error; an error means a job could not
// finish, because ctx was cancelled or a worker panicked.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	results := make([]Result, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallel)

	for i, job := range jobs {
		g.Go(func() error {
			res, err := r.run(ctx, job)
			if err != nil {
				return errgo.Wrap(err, "failed to run "+job.Label())
			}

			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (r *Runner) run(ctx context.Context, job Job) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	p := r.params
	p.Order = job.Order

	rec := newRecorder()
	defer rec.watch(ctx)()

	log.Debug().
		Str("job", job.Label()).
		Int("goroutines", p.Goroutines).
		Int("iterations", p.Iterations).
		Msg("litmus job start")

	start := time.Now()
	if err := job.Scenario.run(ctx, p, rec); err != nil {
		return Result{}, err
	}
	elapsed := time.Since(start)

	outcomes, forbidden, observations := rec.snapshot()

	res := Result{
		Label:        job.Label(),
		Scenario:     job.Scenario.Name,
		Order:        job.Order,
		Ordered:      job.Scenario.Ordered,
		Goroutines:   p.Goroutines,
		Observations: observations,
		Outcomes:     outcomes,
		Forbidden:    forbidden,
		Elapsed:      elapsed,
	}

	if res.Passed() {
		log.Info().Str("job", res.Label).Uint64("observations", observations).Dur("elapsed", elapsed).Msg("litmus job passed")
	} else {
		log.Error().Str("job", res.Label).Uint64("forbidden", forbidden.GetCardinality()).Msg("forbidden outcome observed")
	}

	if r.metrics != nil {
		r.metrics.record(res)
	}

	return res, nil
}
