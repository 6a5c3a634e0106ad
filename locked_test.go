// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package bitset

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocked(t *testing.T) {
	const (
		workers = 8
		size    = 1024
	)
	l := NewLocked(size)
	require.Equal(t, size, l.Len())

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			// each worker owns the indices congruent to w
			for i := w; i < size; i += workers {
				l.Set(i)
				_ = l.IsSet(i)
				_ = l.Cardinality()
			}
		}(w)
	}
	wg.Wait()

	require.Equal(t, size, l.Cardinality())
	snap := l.Snapshot()
	require.True(t, snap.All())

	// the snapshot is independent of the locked set
	l.Clear(0)
	require.False(t, l.Flip(1))
	require.False(t, l.IsSet(0))
	require.True(t, snap.IsSet(0))
	require.True(t, snap.IsSet(1))
}
