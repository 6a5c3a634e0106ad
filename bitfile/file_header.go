// Copyright 2023 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package bitfile

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	magicBitFileHeader = 0xB175E701
	fileFormatVersion  = 1
	fileHeaderSize     = 128

	headerSizeOff        = 8
	headerWordCountOff   = 16
	headerCompressionOff = 24
	headerPayloadLenOff  = 32
	headerChecksumOff    = 40
)

type fileHeader struct {
	magic         uint32
	formatVersion uint32
	size          uint64
	wordCount     uint64
	compression   Compression
	payloadLen    uint64
	checksum      uint64
}

func newFileHeader() *fileHeader {
	return &fileHeader{
		magic:         magicBitFileHeader,
		formatVersion: fileFormatVersion,
	}
}

func (h *fileHeader) MarshalTo(buf []byte) error {
	if len(buf) < fileHeaderSize {
		return fmt.Errorf("buf too short: %d < %d", len(buf), fileHeaderSize)
	}
	buf = buf[:fileHeaderSize]
	// bounds check elimination
	_ = buf[fileHeaderSize-1]

	binary.LittleEndian.PutUint32(buf[0:4], h.magic)
	binary.LittleEndian.PutUint32(buf[4:8], h.formatVersion)
	binary.LittleEndian.PutUint64(buf[headerSizeOff:headerSizeOff+8], h.size)
	binary.LittleEndian.PutUint64(buf[headerWordCountOff:headerWordCountOff+8], h.wordCount)
	buf[headerCompressionOff] = uint8(h.compression)
	binary.LittleEndian.PutUint64(buf[headerPayloadLenOff:headerPayloadLenOff+8], h.payloadLen)
	binary.LittleEndian.PutUint64(buf[headerChecksumOff:headerChecksumOff+8], h.checksum)
	return nil
}

func (h *fileHeader) WriteTo(w io.Writer) (n int64, err error) {
	// make the header the minimum cache-width we expect to see
	var headerBuf [fileHeaderSize]byte
	if err := h.MarshalTo(headerBuf[:]); err != nil {
		return 0, err
	}
	if _, err = w.Write(headerBuf[:]); err != nil {
		return 0, fmt.Errorf("write: %w", err)
	}
	return int64(fileHeaderSize), nil
}

func (h *fileHeader) UnmarshalBytes(headerBytes []byte) error {
	if len(headerBytes) < fileHeaderSize {
		return fmt.Errorf("header too short: %d < %d: %w", len(headerBytes), fileHeaderSize, ErrTruncated)
	}

	headerBytes = headerBytes[:fileHeaderSize]

	h.magic = binary.LittleEndian.Uint32(headerBytes[:4])
	if h.magic != magicBitFileHeader {
		return fmt.Errorf("magic number %x -- not a bitfile or corrupted: %w", h.magic, ErrBadMagic)
	}

	h.formatVersion = binary.LittleEndian.Uint32(headerBytes[4:8])
	if h.formatVersion != fileFormatVersion {
		return fmt.Errorf("can only read v%d bitfiles; found v%d: %w", fileFormatVersion, h.formatVersion, ErrUnsupportedVersion)
	}

	h.size = binary.LittleEndian.Uint64(headerBytes[headerSizeOff : headerSizeOff+8])
	h.wordCount = binary.LittleEndian.Uint64(headerBytes[headerWordCountOff : headerWordCountOff+8])
	h.compression = Compression(headerBytes[headerCompressionOff])
	h.payloadLen = binary.LittleEndian.Uint64(headerBytes[headerPayloadLenOff : headerPayloadLenOff+8])
	h.checksum = binary.LittleEndian.Uint64(headerBytes[headerChecksumOff : headerChecksumOff+8])

	if !h.compression.valid() {
		return fmt.Errorf("compression type %d: %w", h.compression, ErrUnknownCompression)
	}

	return nil
}
