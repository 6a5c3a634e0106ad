// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package bitset

import (
	"encoding/binary"

	"github.com/dgryski/go-farm"
)

// AppendBytes appends the little-endian encoding of the backing words to dst.
func (b *BitSet) AppendBytes(dst []byte) []byte {
	for _, w := range b.words {
		dst = binary.LittleEndian.AppendUint64(dst, w)
	}
	return dst
}

// Hash64 returns a fingerprint of the set's size and contents.  Sets that
// are Equal hash identically, across processes and architectures.
func (b *BitSet) Hash64() uint64 {
	buf := make([]byte, 0, len(b.words)*8)
	return farm.Hash64WithSeed(b.AppendBytes(buf), uint64(b.size))
}
