// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package zero

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUint64(t *testing.T) {
	for _, input := range [][]uint64{
		{},
		{1, 2, ^uint64(0)},
	} {
		initialLen := len(input)
		initialCap := cap(input)
		expected := make([]uint64, len(input))
		Uint64(input)
		require.Equal(t, expected, input)
		require.Equal(t, initialLen, len(input))
		require.Equal(t, initialCap, cap(input))
	}
}

func TestUint64_NoAllocs(t *testing.T) {
	words := []uint64{7, 8, 9}
	allocs := testing.AllocsPerRun(10, func() {
		Uint64(words)
	})
	require.Zero(t, allocs)
}
