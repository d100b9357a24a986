// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package atomics

import (
	"errors"
	"fmt"

	"cellatomic/internal/pkg/assert"
)

//go:generate go run -modfile=../tools/go.mod golang.org/x/tools/cmd/stringer -type=Order -linecomment

// Order is a memory ordering, from weakest to strongest.
type Order uint8

const (
	Relaxed Order = iota // relaxed
	Consume              // consume
	Acquire              // acquire
	Release              // release
	AcqRel               // acq_rel
	SeqCst               // seq_cst
)

// Orders lists every valid Order, weakest first.
var Orders = [...]Order{Relaxed, Consume, Acquire, Release, AcqRel, SeqCst}

var ErrUnknownOrder = errors.New("unknown memory order")

// ParseOrder is the inverse of Order.String.
func ParseOrder(s string) (Order, error) {
	for _, o := range Orders {
		if o.String() == s {
			return o, nil
		}
	}

	return 0, fmt.Errorf("%w %q", ErrUnknownOrder, s)
}

func (o Order) Valid() bool {
	return o <= SeqCst
}

// IsLoad reports whether o may be used for an operation that only reads.
func (o Order) IsLoad() bool {
	switch o {
	case Relaxed, Consume, Acquire, SeqCst:
		return true
	}

	return false
}

// IsStore reports whether o may be used for an operation that only writes.
func (o Order) IsStore() bool {
	switch o {
	case Relaxed, Release, SeqCst:
		return true
	}

	return false
}

// FailureFor returns the strongest failure order a compare-and-swap may pair
// with the success order o.
func (o Order) FailureFor() Order {
	switch o {
	case Release:
		return Relaxed
	case AcqRel:
		return Acquire
	}

	return o
}

// ValidFailure reports whether failure is a legal failure order for a
// compare-and-swap succeeding with o. The failed path is a plain load, so it
// can not release, can not be stronger than the success path, and a release
// success only allows a relaxed failure.
func (o Order) ValidFailure(failure Order) bool {
	if !o.Valid() || !failure.IsLoad() || failure > o {
		return false
	}

	if o == Release {
		return failure == Relaxed
	}

	return true
}

// checks below are compiled out with -tags release.

func checkLoad(o Order) {
	if assert.Enabled {
		assert.True(o.IsLoad(), "atomics: invalid load order")
	}
}

func checkStore(o Order) {
	if assert.Enabled {
		assert.True(o.IsStore(), "atomics: invalid store order")
	}
}

func checkRMW(o Order) {
	if assert.Enabled {
		assert.True(o.Valid(), "atomics: invalid read-modify-write order")
	}
}

func checkCAS(success, failure Order) {
	if assert.Enabled {
		assert.True(success.ValidFailure(failure), "atomics: invalid compare-and-swap failure order")
	}
}
