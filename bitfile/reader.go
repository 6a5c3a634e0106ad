// Copyright 2023 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package bitfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/bpowers/bitset"
	"github.com/bpowers/bitset/internal/mmap"
)

// lz4MaxExpansion bounds how many bytes one byte of an LZ4 block can
// inflate to (a 255-byte match length extension, plus slack).
const lz4MaxExpansion = 256

// Decode reads a snapshot written by Encode from r.  Memory use is
// bounded by the bytes actually read and by WithMaxSize, never by the
// lengths claimed in the header alone.
func Decode(r io.Reader, opts ...Option) (*bitset.BitSet, error) {
	o := newOptions(opts)

	var headerBuf [fileHeaderSize]byte
	if _, err := io.ReadFull(r, headerBuf[:]); err != nil {
		return nil, fmt.Errorf("reading header: %v: %w", err, ErrTruncated)
	}
	var h fileHeader
	if err := h.UnmarshalBytes(headerBuf[:]); err != nil {
		return nil, fmt.Errorf("fileHeader.UnmarshalBytes: %w", err)
	}
	rawLen, err := h.validate(o.maxSize)
	if err != nil {
		return nil, err
	}

	// grow the buffer as bytes arrive rather than trusting payloadLen
	var payload bytes.Buffer
	if n, err := io.CopyN(&payload, r, int64(h.payloadLen)); err != nil {
		return nil, fmt.Errorf("read %d of %d byte payload: %v: %w", n, h.payloadLen, err, ErrTruncated)
	}
	return decodePayload(&h, payload.Bytes(), rawLen)
}

// ReadFile maps the snapshot at path into memory and decodes it.  The
// returned set doesn't reference the mapping.
func ReadFile(path string, opts ...Option) (*bitset.BitSet, error) {
	o := newOptions(opts)

	m, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mmap.Open(%s): %w", path, err)
	}
	defer func() {
		_ = m.Close()
	}()

	data := m.Data()
	var h fileHeader
	if err := h.UnmarshalBytes(data); err != nil {
		return nil, fmt.Errorf("fileHeader.UnmarshalBytes(%s): %w", path, err)
	}
	rawLen, err := h.validate(o.maxSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if avail := uint64(len(data) - fileHeaderSize); h.payloadLen > avail {
		return nil, fmt.Errorf("%s: payload of %d bytes but only %d in file: %w", path, h.payloadLen, avail, ErrTruncated)
	}

	end := fileHeaderSize + int(h.payloadLen)
	b, err := decodePayload(&h, data[fileHeaderSize:end], rawLen)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	o.logger.Debug("read bitset snapshot",
		"path", path, "size", b.Len(), "compression", h.compression)
	return b, nil
}

// validate checks the header fields against each other and against
// maxSize, and returns the length in bytes of the uncompressed words.
func (h *fileHeader) validate(maxSize uint64) (rawLen int, err error) {
	if h.size == 0 || h.size > maxSize || h.size > math.MaxInt-bitset.WordSize {
		return 0, fmt.Errorf("size %d (max %d): %w", h.size, maxSize, bitset.ErrInvalidSize)
	}
	wordCount := (h.size + bitset.WordSize - 1) / bitset.WordSize
	if h.wordCount != wordCount {
		return 0, fmt.Errorf("header has %d words for size %d: %w", h.wordCount, h.size, bitset.ErrWordCount)
	}
	if wordCount > math.MaxInt/8 {
		return 0, fmt.Errorf("size %d: %w", h.size, bitset.ErrInvalidSize)
	}
	rawLen = int(wordCount * 8)

	switch h.compression {
	case CompressionNone:
		if h.payloadLen != uint64(rawLen) {
			return 0, fmt.Errorf("raw payload of %d bytes, expected %d: %w", h.payloadLen, rawLen, ErrCorrupted)
		}
	case CompressionLZ4:
		if uint64(rawLen)/lz4MaxExpansion > h.payloadLen {
			return 0, fmt.Errorf("%d byte lz4 payload can't inflate to %d bytes: %w", h.payloadLen, rawLen, ErrCorrupted)
		}
	}
	// compressed payloads are only kept when smaller than the raw words
	if h.payloadLen > uint64(rawLen) {
		return 0, fmt.Errorf("payload of %d bytes exceeds raw length %d: %w", h.payloadLen, rawLen, ErrCorrupted)
	}
	return rawLen, nil
}

func decodePayload(h *fileHeader, payload []byte, rawLen int) (*bitset.BitSet, error) {
	if sum := checksum(payload, h.size); sum != h.checksum {
		return nil, fmt.Errorf("checksum %x != %x: %w", sum, h.checksum, ErrChecksum)
	}
	raw, err := decompress(payload, h.compression, rawLen)
	if err != nil {
		return nil, fmt.Errorf("decompress: %w", err)
	}
	words := make([]uint64, h.wordCount)
	for i := range words {
		words[i] = binary.LittleEndian.Uint64(raw[i*8 : i*8+8])
	}
	b, err := bitset.FromWords(int(h.size), words)
	if err != nil {
		return nil, fmt.Errorf("bitset.FromWords: %w", err)
	}
	return b, nil
}
