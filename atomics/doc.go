// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

// Package atomics provides typed atomic cells whose every operation takes an
// explicit memory ordering.
//
// Cells come in three shapes: Pointer[T], the integer cells (Word, Int32,
// Int64 and their unsigned and narrow siblings) and Bool. The zero value of
// each is ready to use. A cell belongs to whoever declared it; this package
// never allocates and must not be copied after first use.
//
// The Go memory model makes every sync/atomic operation sequentially
// consistent, so an operation always runs at least as strongly as the Order it
// was given. Orders are still part of every signature: they document intent at
// the call site, and development builds check them the way the C11 model
// restricts them (see Order). Build with `-tags release` to drop the checks.
//
// Compare-and-swap comes in two forms. CompareExchange never fails spuriously;
// CompareExchangeWeak may, and must be called in a loop:
//
//	expected := c.Load(atomics.Relaxed)
//	for !c.CompareExchangeWeak(&expected, expected*2, atomics.AcqRel, atomics.Relaxed) {
//	}
//
// Both write the value they observed into *expected when they fail.
package atomics
