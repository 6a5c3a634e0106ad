// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package bitset

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNextSet(t *testing.T) {
	b := fromIndices(300, 0, 63, 64, 200, 299)

	var got []int
	for i, ok := b.NextSet(0); ok; i, ok = b.NextSet(i + 1) {
		got = append(got, i)
	}
	require.Equal(t, []int{0, 63, 64, 200, 299}, got)

	i, ok := b.NextSet(65)
	require.True(t, ok)
	require.Equal(t, 200, i)

	i, ok = b.NextSet(-5)
	require.True(t, ok)
	require.Zero(t, i)

	_, ok = b.NextSet(300)
	require.False(t, ok)
	_, ok = New(10).NextSet(0)
	require.False(t, ok)
}

func TestForEach(t *testing.T) {
	b := fromIndices(130, 1, 2, 64, 129)
	var got []int
	b.ForEach(func(i int) bool {
		got = append(got, i)
		return true
	})
	require.Equal(t, []int{1, 2, 64, 129}, got)

	// stop early
	got = got[:0]
	b.ForEach(func(i int) bool {
		got = append(got, i)
		return len(got) < 2
	})
	require.Equal(t, []int{1, 2}, got)
}

func TestIndices(t *testing.T) {
	require.Equal(t, []int{}, New(5).Indices())
	b := New(70)
	b.SetAll()
	indices := b.Indices()
	require.Len(t, indices, 70)
	require.Equal(t, 69, indices[69])
}

func TestString(t *testing.T) {
	require.Equal(t, "{}", New(3).String())
	require.Equal(t, "{0 3 9}", fromIndices(10, 0, 3, 9).String())
}
