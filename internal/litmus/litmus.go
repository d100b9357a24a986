// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

// Package litmus runs concurrent scenarios against the atomics package and
// records every outcome they observe.
//
// A scenario drives a few cells from several goroutines and classifies what
// each observation saw. Outcomes the memory model forbids are recorded with
// the index of the iteration that produced them; a run passes when there are
// none.
package litmus

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/samber/lo"

	"cellatomic/atomics"
)

var ErrUnknownScenario = errors.New("unknown scenario")

// Params are the knobs shared by every scenario.
type Params struct {
	// Goroutines is the number of workers. Paired scenarios round it up to an
	// even number.
	Goroutines int
	// Iterations is the number of operations or rounds per worker.
	Iterations int
	// Order is used by the operations under test of an ordered scenario.
	Order atomics.Order
}

func (p Params) withDefaults() Params {
	if p.Goroutines <= 0 {
		p.Goroutines = runtime.GOMAXPROCS(0)
	}

	if p.Iterations <= 0 {
		p.Iterations = 1
	}

	return p
}

// pairs returns how many writer/reader pairs fit in p.Goroutines.
func (p Params) pairs() int {
	return max(1, (p.Goroutines+1)/2)
}

type Scenario struct {
	Name        string
	Description string
	// Ordered scenarios run once per requested order. The others fix the
	// orders they use, since the pattern they check is defined by them.
	Ordered bool

	run func(ctx context.Context, p Params, rec *Recorder) error
}

// Scenarios returns every known scenario in a stable order.
func Scenarios() []Scenario {
	return []Scenario{
		counterScenario,
		casScenario,
		exchangeScenario,
		bitwiseScenario,
		publishScenario,
		fenceMPScenario,
		fenceSBScenario,
		wraparoundScenario,
	}
}

func Lookup(name string) (Scenario, error) {
	s, ok := lo.Find(Scenarios(), func(s Scenario) bool { return s.Name == name })
	if !ok {
		return Scenario{}, fmt.Errorf("%w %q", ErrUnknownScenario, name)
	}

	return s, nil
}

// Job is one scenario at one order.
type Job struct {
	Scenario Scenario
	Order    atomics.Order
}

func (j Job) Label() string {
	if !j.Scenario.Ordered {
		return j.Scenario.Name
	}

	return j.Scenario.Name + "/" + j.Order.String()
}

// Plan expands scenario names and orders into jobs. Empty names select every
// scenario, empty orders every order. Unordered scenarios are planned once.
func Plan(names []string, orders []atomics.Order) ([]Job, error) {
	scenarios := Scenarios()
	if len(names) != 0 {
		scenarios = make([]Scenario, 0, len(names))
		for _, name := range lo.Uniq(names) {
			s, err := Lookup(name)
			if err != nil {
				return nil, err
			}
			scenarios = append(scenarios, s)
		}
	}

	if len(orders) == 0 {
		orders = atomics.Orders[:]
	}

	orders = lo.Uniq(orders)
	slices.Sort(orders)

	var jobs []Job
	for _, s := range scenarios {
		if !s.Ordered {
			jobs = append(jobs, Job{Scenario: s, Order: atomics.SeqCst})
			continue
		}

		for _, o := range orders {
			jobs = append(jobs, Job{Scenario: s, Order: o})
		}
	}

	return jobs, nil
}

// Result is what one job observed.
type Result struct {
	Label      string
	Scenario   string
	Order      atomics.Order
	Ordered    bool
	Goroutines int
	// Observations is the number of classified outcomes.
	Observations uint64
	Outcomes     map[string]int64
	// Forbidden holds the iteration indexes that observed a forbidden outcome.
	Forbidden *roaring.Bitmap
	Elapsed   time.Duration
}

func (r Result) Passed() bool {
	return r.Forbidden.IsEmpty()
}

// SortedOutcomes returns outcome names ordered by name.
func (r Result) SortedOutcomes() []string {
	keys := lo.Keys(r.Outcomes)
	slices.Sort(keys)
	return keys
}
