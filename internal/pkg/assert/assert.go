// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

//go:build !release

// Package assert holds checks that only exist in development builds.
// Building with `-tags release` turns every function into an empty body.
package assert

// Enabled reports whether assertions are compiled in.
const Enabled = true

func panicMessage(msg []string) {
	if len(msg) == 0 {
		panic("assert failed")
	}

	panic(msg[0])
}

func True(cond bool, msg ...string) {
	if !cond {
		panicMessage(msg)
	}
}
