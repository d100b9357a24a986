// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package atomics_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"cellatomic/atomics"
)

func TestBool(t *testing.T) {
	t.Parallel()

	var b atomics.Bool
	require.False(t, b.Load(atomics.SeqCst))

	require.False(t, b.FetchOr(false, atomics.AcqRel))
	require.False(t, b.Load(atomics.SeqCst))

	require.False(t, b.FetchOr(true, atomics.AcqRel))
	require.True(t, b.Load(atomics.SeqCst))

	require.True(t, b.FetchAnd(true, atomics.AcqRel))
	require.True(t, b.Load(atomics.SeqCst))

	require.True(t, b.FetchXor(true, atomics.AcqRel))
	require.False(t, b.Load(atomics.SeqCst))

	require.False(t, b.FetchXor(false, atomics.AcqRel))
	require.False(t, b.Load(atomics.SeqCst))

	b.Store(true, atomics.Release)
	require.True(t, b.FetchAnd(false, atomics.AcqRel))
	require.False(t, b.Load(atomics.SeqCst))

	expected := true
	require.False(t, b.CompareExchange(&expected, false, atomics.SeqCst, atomics.Relaxed))
	require.False(t, expected)
	require.True(t, b.CompareExchange(&expected, true, atomics.SeqCst, atomics.Relaxed))
	require.True(t, b.Swap(false, atomics.SeqCst))
}
