// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package bitset

import (
	"sync"
)

// Locked guards a single BitSet with a reader/writer lock, for callers
// that share one set between goroutines.
type Locked struct {
	mu sync.RWMutex
	b  *BitSet
}

// NewLocked returns a Locked wrapping a new bitset of `size` bits.
func NewLocked(size int) *Locked {
	return &Locked{b: New(size)}
}

// Len returns the number of bits in the set.
func (l *Locked) Len() int {
	// size is immutable, no lock needed
	return l.b.Len()
}

// Set sets bit i.
func (l *Locked) Set(i int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.b.Set(i)
}

// Clear clears bit i.
func (l *Locked) Clear(i int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.b.Clear(i)
}

// Flip toggles bit i and returns its new value.
func (l *Locked) Flip(i int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Flip(i)
}

// IsSet reports whether bit i is set.
func (l *Locked) IsSet(i int) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.b.IsSet(i)
}

// Cardinality returns the number of set bits.
func (l *Locked) Cardinality() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.b.Cardinality()
}

// Snapshot returns an unshared copy of the current contents.
func (l *Locked) Snapshot() *BitSet {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.b.Clone()
}
