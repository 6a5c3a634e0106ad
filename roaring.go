// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package bitset

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// maxRoaringBits is the largest set a roaring bitmap can represent.
const maxRoaringBits = 1 << 32

// ToRoaring returns a compressed roaring bitmap holding the same set bits.
// Roaring bitmaps hold uint32 values; it panics if b has more than 1<<32 bits.
func (b *BitSet) ToRoaring() *roaring.Bitmap {
	if uint64(b.size) > maxRoaringBits {
		panic(fmt.Errorf("ToRoaring: %d bits don't fit in a roaring bitmap: %w", b.size, ErrInvalidSize))
	}
	rb := roaring.New()
	b.ForEach(func(i int) bool {
		rb.Add(uint32(i))
		return true
	})
	rb.RunOptimize()
	return rb
}

// FromRoaring returns a bitset of `size` bits with the values in rb set.
// It fails if rb contains a value outside [0, size).
func FromRoaring(size int, rb *roaring.Bitmap) (*BitSet, error) {
	if size <= 0 {
		return nil, fmt.Errorf("FromRoaring(%d): %w", size, ErrInvalidSize)
	}
	if !rb.IsEmpty() {
		if maxVal := rb.Maximum(); uint64(maxVal) >= uint64(size) {
			return nil, fmt.Errorf("FromRoaring: value %d not in [0, %d): %w", maxVal, size, ErrIndexOutOfRange)
		}
	}
	b := New(size)
	it := rb.Iterator()
	for it.HasNext() {
		b.Set(int(it.Next()))
	}
	return b, nil
}
