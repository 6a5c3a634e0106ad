// Copyright 2023 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package bitfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dgryski/go-farm"

	"github.com/bpowers/bitset"
)

const defaultBufferSize = 4 * 1024 * 1024

var (
	ErrBadMagic           = errors.New("bad magic number")
	ErrUnsupportedVersion = errors.New("unsupported bitfile version")
	ErrUnknownCompression = errors.New("unknown compression type")
	ErrChecksum           = errors.New("checksum mismatch: bitfile corrupted")
	ErrTruncated          = errors.New("bitfile truncated")
	ErrCorrupted          = errors.New("bitfile header and payload disagree")
)

// DefaultMaxSize is the largest set, in bits, that Decode and ReadFile
// accept unless WithMaxSize says otherwise: 8 GiB of words.
const DefaultMaxSize = 1 << 36

// Option configures reading and writing snapshots.
type Option func(*options)

type options struct {
	compression Compression
	logger      *slog.Logger
	maxSize     uint64
}

// WithCompression sets how the payload is compressed when writing.  The
// default is CompressionNone; readers detect compression from the header.
func WithCompression(c Compression) Option {
	return func(opts *options) {
		opts.compression = c
	}
}

// WithLogger sets an optional logger for progress updates.
// If not provided, no logging output will be produced.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

// WithMaxSize bounds the size, in bits, of sets that Decode and ReadFile
// will allocate for.  Larger snapshots fail with bitset.ErrInvalidSize.
func WithMaxSize(bits int) Option {
	return func(opts *options) {
		opts.maxSize = uint64(bits)
	}
}

func newOptions(opts []Option) options {
	var o options
	o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	o.maxSize = DefaultMaxSize
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func checksum(payload []byte, size uint64) uint64 {
	return farm.Hash64WithSeed(payload, size)
}

// Encode writes a snapshot of b to w.
func Encode(w io.Writer, b *bitset.BitSet, opts ...Option) error {
	o := newOptions(opts)
	if !o.compression.valid() {
		return fmt.Errorf("compression type %d: %w", o.compression, ErrUnknownCompression)
	}

	raw := b.AppendBytes(nil)
	payload, used, err := compress(raw, o.compression)
	if err != nil {
		return fmt.Errorf("compress: %w", err)
	}
	if used != o.compression {
		o.logger.Debug("compression didn't shrink payload, storing raw words",
			"requested", o.compression, "rawLen", len(raw))
	}

	h := newFileHeader()
	h.size = uint64(b.Len())
	h.wordCount = uint64(len(raw) / 8)
	h.compression = used
	h.payloadLen = uint64(len(payload))
	h.checksum = checksum(payload, h.size)

	bw := bufio.NewWriterSize(w, defaultBufferSize)
	if _, err := h.WriteTo(bw); err != nil {
		return fmt.Errorf("fileHeader.WriteTo: %w", err)
	}
	if n, err := bw.Write(payload); err != nil {
		return fmt.Errorf("payload write: %w", err)
	} else if n != len(payload) {
		return fmt.Errorf("payload write: short write of %d (wanted %d)", n, len(payload))
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("bufio.Flush: %w", err)
	}

	o.logger.Debug("encoded bitset",
		"size", b.Len(), "compression", used, "payloadLen", len(payload))
	return nil
}

// WriteFile atomically writes a read-only snapshot of b to path,
// replacing any existing file.
func WriteFile(path string, b *bitset.BitSet, opts ...Option) error {
	o := newOptions(opts)

	// we want to write to a new file and do an atomic rename when we're done on disk
	path, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("filepath.Abs: %w", err)
	}
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "bitfile.*.tmp")
	if err != nil {
		return fmt.Errorf("CreateTemp failed (may need permissions for dir %q): %w", dir, err)
	}
	tmpPath := f.Name()
	cleanup := func() {
		_ = f.Close()
		_ = os.Remove(tmpPath)
	}

	if err := Encode(f, b, opts...); err != nil {
		cleanup()
		return err
	}
	if err := f.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("f.Sync: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("f.Close: %w", err)
	}
	// make the file read-only
	if err := os.Chmod(tmpPath, 0444); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("os.Chmod(0444): %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("os.Rename: %w", err)
	}

	o.logger.Info("wrote bitset snapshot", "path", path, "size", b.Len())
	return nil
}
