// Copyright 2023 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package bitfile

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects how the payload of a snapshot is stored.
type Compression uint8

const (
	// CompressionNone stores the raw words.
	CompressionNone Compression = 0
	// CompressionLZ4 stores an LZ4 block: fast, reasonable on sparse sets.
	CompressionLZ4 Compression = 1
	// CompressionZstd stores a zstd frame: slower, smaller.
	CompressionZstd Compression = 2
)

func (c Compression) valid() bool {
	return c <= CompressionZstd
}

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("Compression(%d)", uint8(c))
	}
}

// ParseCompression maps "none", "lz4" or "zstd" to a Compression.
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZstd, nil
	}
	return CompressionNone, fmt.Errorf("compression %q: %w", s, ErrUnknownCompression)
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() (*zstd.Encoder, error) {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
}

func putZstdDecoder(dec *zstd.Decoder) {
	// drop the reference to the last payload
	_ = dec.Reset(nil)
	zstdDecoderPool.Put(dec)
}

// compress returns data compressed with c, and the compression actually
// used: CompressionNone whenever compressing doesn't make data smaller.
func compress(data []byte, c Compression) ([]byte, Compression, error) {
	if c == CompressionNone || len(data) == 0 {
		return data, CompressionNone, nil
	}

	var compressed []byte
	switch c {
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, CompressionNone, fmt.Errorf("lz4.CompressBlock: %w", err)
		}
		// n == 0 means incompressible
		compressed = buf[:n]
	case CompressionZstd:
		enc, err := getZstdEncoder()
		if err != nil {
			return nil, CompressionNone, fmt.Errorf("zstd.NewWriter: %w", err)
		}
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, CompressionNone, fmt.Errorf("compression type %d: %w", c, ErrUnknownCompression)
	}

	if len(compressed) == 0 || len(compressed) >= len(data) {
		return data, CompressionNone, nil
	}
	return compressed, c, nil
}

// decompress inflates a payload into exactly rawLen bytes.
func decompress(payload []byte, c Compression, rawLen int) ([]byte, error) {
	switch c {
	case CompressionNone:
		if len(payload) != rawLen {
			return nil, fmt.Errorf("payload is %d bytes, expected %d: %w", len(payload), rawLen, ErrCorrupted)
		}
		return payload, nil
	case CompressionLZ4:
		raw := make([]byte, rawLen)
		n, err := lz4.UncompressBlock(payload, raw)
		if err != nil {
			return nil, fmt.Errorf("lz4.UncompressBlock: %w", err)
		}
		if n != rawLen {
			return nil, fmt.Errorf("lz4 payload inflated to %d bytes, expected %d: %w", n, rawLen, ErrCorrupted)
		}
		return raw, nil
	case CompressionZstd:
		dec, err := getZstdDecoder()
		if err != nil {
			return nil, fmt.Errorf("zstd.NewReader: %w", err)
		}
		defer putZstdDecoder(dec)
		if err := dec.Reset(bytes.NewReader(payload)); err != nil {
			return nil, fmt.Errorf("zstd.Reset: %w", err)
		}
		// stream into a growing buffer: the frame header's content size
		// isn't trusted, and one byte past rawLen means a bad frame
		var raw bytes.Buffer
		n, err := io.CopyN(&raw, dec, int64(rawLen)+1)
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("zstd decode: %w", err)
		}
		if n != int64(rawLen) {
			return nil, fmt.Errorf("zstd payload inflated to %d bytes, expected %d: %w", n, rawLen, ErrCorrupted)
		}
		return raw.Bytes(), nil
	}
	return nil, fmt.Errorf("compression type %d: %w", c, ErrUnknownCompression)
}
