// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package litmus

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/samber/lo"
)

// how many forbidden iteration indexes a report prints per job.
const sampleSize = 8

var (
	pass = color.New(color.FgGreen, color.Bold).SprintFunc()
	fail = color.New(color.FgRed, color.Bold).SprintFunc()
)

// Report writes one block per result and a summary line, and reports whether
// every result passed.
func Report(w io.Writer, results []Result) bool {
	var total time.Duration
	for _, r := range results {
		writeResult(w, r)
		total += r.Elapsed
	}

	failed := lo.CountBy(results, func(r Result) bool { return !r.Passed() })

	verdict := pass("PASS")
	if failed != 0 {
		verdict = fail("FAIL")
	}

	_, _ = fmt.Fprintf(w, "%s %d jobs, %d failed, %s\n", verdict, len(results), failed, units.HumanDuration(total))

	return failed == 0
}

func writeResult(w io.Writer, r Result) {
	verdict := pass("ok  ")
	if !r.Passed() {
		verdict = fail("FAIL")
	}

	var rate string
	if s := r.Elapsed.Seconds(); s > 0 {
		rate = humanize.SIWithDigits(float64(r.Observations)/s, 1, "obs/s")
	}

	_, _ = fmt.Fprintf(w, "%s %-22s %3d goroutines %14s observations %10s %s\n",
		verdict, r.Label, r.Goroutines, humanize.Comma(int64(r.Observations)), r.Elapsed.Round(time.Microsecond), rate)

	for _, name := range r.SortedOutcomes() {
		_, _ = fmt.Fprintf(w, "       %-28s %s\n", name, humanize.Comma(r.Outcomes[name]))
	}

	if r.Passed() {
		return
	}

	sample := make([]string, 0, sampleSize)
	r.Forbidden.Iterate(func(x uint32) bool {
		sample = append(sample, humanize.Comma(int64(x)))
		return len(sample) < sampleSize
	})

	_, _ = fmt.Fprintf(w, "       forbidden at iterations %s", strings.Join(sample, ", "))
	if n := r.Forbidden.GetCardinality(); n > uint64(len(sample)) {
		_, _ = fmt.Fprintf(w, " and %s more", humanize.Comma(int64(n)-int64(len(sample))))
	}
	_, _ = fmt.Fprintln(w)
}
