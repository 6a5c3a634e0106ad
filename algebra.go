// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package bitset

// Binary operators accept sets of different sizes.  The result is sized
// like the larger operand and the shorter operand is treated as if it
// were zero-padded out to that size.  Operands are never modified.

// copyLargest returns a copy of whichever operand has more bits,
// preferring rhs on a tie.
func copyLargest(lhs, rhs *BitSet) *BitSet {
	if lhs.size > rhs.size {
		return lhs.Clone()
	}
	return rhs.Clone()
}

func combine(lhs, rhs *BitSet, op func(l, r uint64) uint64) *BitSet {
	out := copyLargest(lhs, rhs)
	n := min(len(lhs.words), len(rhs.words))
	for i := 0; i < n; i++ {
		out.words[i] = op(lhs.words[i], rhs.words[i])
	}
	// words past n pair with an implicit zero word
	for i := n; i < len(out.words); i++ {
		var l, r uint64
		if i < len(lhs.words) {
			l = lhs.words[i]
		}
		if i < len(rhs.words) {
			r = rhs.words[i]
		}
		out.words[i] = op(l, r)
	}
	out.clearUnusedBits()
	return out
}

// Union returns a new set with the bits set in either lhs or rhs.
func Union(lhs, rhs *BitSet) *BitSet {
	return combine(lhs, rhs, func(l, r uint64) uint64 { return l | r })
}

// Intersection returns a new set with the bits set in both lhs and rhs.
func Intersection(lhs, rhs *BitSet) *BitSet {
	return combine(lhs, rhs, func(l, r uint64) uint64 { return l & r })
}

// Difference returns a new set with the bits set in lhs but not in rhs.
func Difference(lhs, rhs *BitSet) *BitSet {
	return combine(lhs, rhs, func(l, r uint64) uint64 { return l &^ r })
}

// SymmetricDifference returns a new set with the bits set in exactly one of lhs and rhs.
func SymmetricDifference(lhs, rhs *BitSet) *BitSet {
	return combine(lhs, rhs, func(l, r uint64) uint64 { return l ^ r })
}

// Union is shorthand for Union(b, other).
func (b *BitSet) Union(other *BitSet) *BitSet {
	return Union(b, other)
}

// Intersection is shorthand for Intersection(b, other).
func (b *BitSet) Intersection(other *BitSet) *BitSet {
	return Intersection(b, other)
}

// Difference is shorthand for Difference(b, other).
func (b *BitSet) Difference(other *BitSet) *BitSet {
	return Difference(b, other)
}

// SymmetricDifference is shorthand for SymmetricDifference(b, other).
func (b *BitSet) SymmetricDifference(other *BitSet) *BitSet {
	return SymmetricDifference(b, other)
}

// Complement returns a new set of the same size with every bit inverted.
func (b *BitSet) Complement() *BitSet {
	out := b.Clone()
	for i, w := range out.words {
		out.words[i] = ^w
	}
	out.clearUnusedBits()
	return out
}
