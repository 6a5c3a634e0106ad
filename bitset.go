// Copyright 2021 The bit Authors and Caleb Spare. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package bitset provides a fixed-size, dense bit set: conceptually a
// []bool of a length chosen at construction, packed into 64-bit words.
//
// Single bit operations are O(1), whole-set operations are O(size/64) and
// Cardinality is O(number of set bits).  Indexing outside [0, Len()) is a
// programming error and panics; a BitSet is not safe for concurrent use
// without external locking (see Locked).
package bitset

import (
	"errors"
	"fmt"

	"github.com/bpowers/bitset/internal/zero"
)

// WordSize is the number of bits stored in each backing word.
const WordSize = 64

const allOnes = ^uint64(0)

var (
	ErrInvalidSize     = errors.New("bitset size must be > 0")
	ErrIndexOutOfRange = errors.New("bitset index out of range")
	ErrWordCount       = errors.New("word count doesn't match bitset size")
	ErrNotCanonical    = errors.New("bits set beyond bitset size")
)

// BitSet is an in-memory bitmap that is conceptually similar to []bool, but more memory efficient.
type BitSet struct {
	words []uint64
	size  int
}

func wordCount(size int) int {
	return (size + WordSize - 1) / WordSize
}

// New returns a bitset of `size` bits, all cleared.  It panics if size <= 0.
func New(size int) *BitSet {
	if size <= 0 {
		panic(fmt.Errorf("bitset.New(%d): %w", size, ErrInvalidSize))
	}
	return &BitSet{
		words: make([]uint64, wordCount(size)),
		size:  size,
	}
}

// FromWords builds a bitset of `size` bits backed by a copy of words.
// Unlike New it is meant for untrusted input (e.g. a decoded file) and
// returns an error instead of panicking.
func FromWords(size int, words []uint64) (*BitSet, error) {
	if size <= 0 {
		return nil, fmt.Errorf("FromWords(%d): %w", size, ErrInvalidSize)
	}
	if n := wordCount(size); len(words) != n {
		return nil, fmt.Errorf("FromWords: got %d words for size %d (want %d): %w", len(words), size, n, ErrWordCount)
	}
	b := &BitSet{
		words: make([]uint64, len(words)),
		size:  size,
	}
	copy(b.words, words)
	if last := b.words[len(b.words)-1]; last&^b.lastWordMask() != 0 {
		return nil, fmt.Errorf("FromWords: last word %#x for size %d: %w", last, size, ErrNotCanonical)
	}
	return b, nil
}

// locate returns the index of the word holding bit i and a mask with
// only that bit set.  It panics if i is out of range, before any caller
// has touched the words.
func (b *BitSet) locate(i int) (wordOff int, mask uint64) {
	if i < 0 || i >= b.size {
		panic(fmt.Errorf("index %d not in [0, %d): %w", i, b.size, ErrIndexOutOfRange))
	}
	return i / WordSize, 1 << (uint(i) % WordSize)
}

// Len returns the number of bits in the set, fixed at construction.
func (b *BitSet) Len() int {
	return b.size
}

// Set sets the bit at position i to 1.
func (b *BitSet) Set(i int) {
	wordOff, mask := b.locate(i)
	b.words[wordOff] |= mask
}

// Clear sets the bit at position i to 0.
func (b *BitSet) Clear(i int) {
	wordOff, mask := b.locate(i)
	b.words[wordOff] &^= mask
}

// SetTo sets the bit at position i to v.
func (b *BitSet) SetTo(i int, v bool) {
	if v {
		b.Set(i)
	} else {
		b.Clear(i)
	}
}

// Flip inverts the bit at position i and returns its new value.
func (b *BitSet) Flip(i int) bool {
	wordOff, mask := b.locate(i)
	b.words[wordOff] ^= mask
	return b.words[wordOff]&mask != 0
}

// IsSet returns true if the bit at position i is 1.
func (b *BitSet) IsSet(i int) bool {
	wordOff, mask := b.locate(i)
	return b.words[wordOff]&mask != 0
}

// Get is an alias for IsSet.
func (b *BitSet) Get(i int) bool {
	return b.IsSet(i)
}

// SetAll sets every bit in [0, Len()).
func (b *BitSet) SetAll() {
	for i := range b.words {
		b.words[i] = allOnes
	}
	// must come after filling: the fill sets padding bits in the last word
	b.clearUnusedBits()
}

// ClearAll clears every bit.
func (b *BitSet) ClearAll() {
	zero.Uint64(b.words)
}

// Cardinality returns the number of set bits.  It runs in time
// proportional to the number of set bits rather than to Len().
func (b *BitSet) Cardinality() int {
	count := 0
	for _, x := range b.words {
		for x != 0 {
			lowest := x & -x
			x ^= lowest
			count++
		}
	}
	return count
}

// lastWordMask returns the bits of the final word that hold logical
// bits: the low size%64 bits, or all of them if size is a multiple of 64.
func (b *BitSet) lastWordMask() uint64 {
	if rem := uint(b.size) % WordSize; rem != 0 {
		return (1 << rem) - 1
	}
	return allOnes
}

// clearUnusedBits restores canonical form: bits past size in the last
// word are zero.  Any operation that writes whole words must call it.
func (b *BitSet) clearUnusedBits() {
	b.words[len(b.words)-1] &= b.lastWordMask()
}

// Words returns a copy of the backing words.
func (b *BitSet) Words() []uint64 {
	words := make([]uint64, len(b.words))
	copy(words, b.words)
	return words
}

// Clone returns an independent copy of b.
func (b *BitSet) Clone() *BitSet {
	return &BitSet{
		words: b.Words(),
		size:  b.size,
	}
}

// Equal reports whether b and other have the same size and the same bits set.
func (b *BitSet) Equal(other *BitSet) bool {
	if b.size != other.size {
		return false
	}
	for i, w := range b.words {
		if other.words[i] != w {
			return false
		}
	}
	return true
}

// Any reports whether at least one bit is set.
func (b *BitSet) Any() bool {
	for _, w := range b.words {
		if w != 0 {
			return true
		}
	}
	return false
}

// None reports whether no bits are set.
func (b *BitSet) None() bool {
	return !b.Any()
}

// All reports whether every bit in [0, Len()) is set.
func (b *BitSet) All() bool {
	last := len(b.words) - 1
	for _, w := range b.words[:last] {
		if w != allOnes {
			return false
		}
	}
	return b.words[last] == b.lastWordMask()
}
