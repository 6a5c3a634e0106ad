// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package bitset

import (
	"math/bits"
	"strconv"
	"strings"
)

// NextSet returns the index of the first set bit at or after from.  The
// second result is false if there is no such bit; from may be past Len().
func (b *BitSet) NextSet(from int) (int, bool) {
	if from < 0 {
		from = 0
	}
	if from >= b.size {
		return 0, false
	}
	wordOff := from / WordSize
	// drop the bits below from in the first word we look at
	w := b.words[wordOff] >> (uint(from) % WordSize)
	if w != 0 {
		return from + bits.TrailingZeros64(w), true
	}
	for wordOff++; wordOff < len(b.words); wordOff++ {
		if w := b.words[wordOff]; w != 0 {
			return wordOff*WordSize + bits.TrailingZeros64(w), true
		}
	}
	return 0, false
}

// ForEach calls fn with the index of every set bit in ascending order,
// stopping early if fn returns false.
func (b *BitSet) ForEach(fn func(i int) bool) {
	for wordOff, w := range b.words {
		for w != 0 {
			i := wordOff*WordSize + bits.TrailingZeros64(w)
			if !fn(i) {
				return
			}
			w &= w - 1
		}
	}
}

// Indices returns the indices of all set bits in ascending order.
func (b *BitSet) Indices() []int {
	indices := make([]int, 0, b.Cardinality())
	b.ForEach(func(i int) bool {
		indices = append(indices, i)
		return true
	})
	return indices
}

// String formats the set as its set indices, e.g. "{0 3 9}".
func (b *BitSet) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	b.ForEach(func(i int) bool {
		if !first {
			sb.WriteByte(' ')
		}
		first = false
		sb.WriteString(strconv.Itoa(i))
		return true
	})
	sb.WriteByte('}')
	return sb.String()
}
