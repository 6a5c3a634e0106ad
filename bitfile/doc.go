// Copyright 2023 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package bitfile reads and writes snapshots of a bitset.BitSet, so that
// sets which are expensive to compute can be built once and loaded on
// each process start.
//
// A snapshot looks like:
//
//	┌───────────────────┐
//	│ file header       │
//	├───────────────────┤
//	│ payload: the      │
//	│ backing words,    │
//	│ little-endian,    │
//	│ maybe compressed  │
//	└───────────────────┘
//
// The header is a fixed 128 bytes:
//
//	 0    1    2    3    4    5    6    7
//	+----+----+----+----+----+----+----+----+
//	| magic             | format version    |
//	+----+----+----+----+----+----+----+----+
//	| size in bits                          |
//	+----+----+----+----+----+----+----+----+
//	| word count                            |
//	+----+----+----+----+----+----+----+----+
//	|cmp | reserved                         |
//	+----+----+----+----+----+----+----+----+
//	| payload length in bytes               |
//	+----+----+----+----+----+----+----+----+
//	| payload checksum                      |
//	+----+----+----+----+----+----+----+----+
//	| zero padding up to 128 bytes...       |
//	+----+----+----+----+----+----+----+----+
//
// The checksum is a farm hash of the stored payload seeded with the size,
// so corruption of either is detected (with high probability).  A
// compressed payload is only kept if it is smaller than the raw words.
package bitfile
