// Copyright 2023 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package bitfile

import (
	"bytes"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bpowers/bitset"
)

func sparseSet(size int) *bitset.BitSet {
	b := bitset.New(size)
	for i := 0; i < size; i += 997 {
		b.Set(i)
	}
	b.Set(size - 1)
	return b
}

func randomSet(size int, seed int64) *bitset.BitSet {
	rng := rand.New(rand.NewSource(seed))
	b := bitset.New(size)
	for i := 0; i < size; i++ {
		if rng.Intn(2) == 1 {
			b.Set(i)
		}
	}
	return b
}

func encode(t testing.TB, b *bitset.BitSet, opts ...Option) []byte {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, b, opts...))
	return buf.Bytes()
}

func TestEncodeDecode(t *testing.T) {
	sets := map[string]*bitset.BitSet{
		"one bit":    bitset.New(1),
		"full word":  func() *bitset.BitSet { b := bitset.New(64); b.SetAll(); return b }(),
		"partial":    func() *bitset.BitSet { b := bitset.New(70); b.SetAll(); return b }(),
		"sparse":     sparseSet(100000),
		"random":     randomSet(5000, 1),
		"empty wide": bitset.New(1 << 16),
	}
	for name, b := range sets {
		for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
			t.Run(name+"/"+c.String(), func(t *testing.T) {
				data := encode(t, b, WithCompression(c))
				decoded, err := Decode(bytes.NewReader(data))
				require.NoError(t, err)
				require.Equal(t, b.Len(), decoded.Len())
				require.True(t, b.Equal(decoded), "decoded set differs")
				require.Equal(t, b.Hash64(), decoded.Hash64())
			})
		}
	}
}

func TestEncode_CompressionFallback(t *testing.T) {
	// sparse sets compress well, so the requested compression is kept
	sparse := sparseSet(100000)
	raw := encode(t, sparse)
	for _, c := range []Compression{CompressionLZ4, CompressionZstd} {
		data := encode(t, sparse, WithCompression(c))
		require.Less(t, len(data), len(raw))
		var h fileHeader
		require.NoError(t, h.UnmarshalBytes(data))
		require.Equal(t, c, h.compression)
	}

	// a single word can't be made smaller; we store it raw
	data := encode(t, bitset.New(3), WithCompression(CompressionLZ4))
	var h fileHeader
	require.NoError(t, h.UnmarshalBytes(data))
	require.Equal(t, CompressionNone, h.compression)
	require.Equal(t, uint64(8), h.payloadLen)
}

func TestEncode_UnknownCompression(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, bitset.New(8), WithCompression(Compression(42)))
	require.ErrorIs(t, err, ErrUnknownCompression)
	require.Zero(t, buf.Len())
}

func TestDecode_Corrupted(t *testing.T) {
	b := randomSet(1000, 7)
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		data := encode(t, sparseSet(100000), WithCompression(c))
		if c == CompressionNone {
			data = encode(t, b)
		}

		// flip a bit in the payload
		corrupted := append([]byte(nil), data...)
		corrupted[fileHeaderSize+1] ^= 0x10
		_, err := Decode(bytes.NewReader(corrupted))
		assert.ErrorIs(t, err, ErrChecksum, c.String())

		// the checksum covers the size, too
		corrupted = append([]byte(nil), data...)
		corrupted[headerSizeOff] ^= 0x01
		_, err = Decode(bytes.NewReader(corrupted))
		assert.Error(t, err, c.String())

		// truncated payload
		_, err = Decode(bytes.NewReader(data[:len(data)-1]))
		assert.ErrorIs(t, err, ErrTruncated, c.String())

		// truncated header
		_, err = Decode(bytes.NewReader(data[:fileHeaderSize/2]))
		assert.ErrorIs(t, err, ErrTruncated, c.String())
	}
}

func TestDecode_NotCanonical(t *testing.T) {
	// hand-build a snapshot of a 3 bit set with a padding bit set
	payload := []byte{0xff, 0, 0, 0, 0, 0, 0, 0}
	h := newFileHeader()
	h.size = 3
	h.wordCount = 1
	h.payloadLen = uint64(len(payload))
	h.checksum = checksum(payload, h.size)

	var buf bytes.Buffer
	_, err := h.WriteTo(&buf)
	require.NoError(t, err)
	buf.Write(payload)

	_, err = Decode(&buf)
	require.ErrorIs(t, err, bitset.ErrNotCanonical)
}

// forgeSnapshot builds a snapshot whose header claims `size` bits and a
// payload of payloadLen bytes, but carries only payload.  The checksum
// is valid for what is actually present.
func forgeSnapshot(t testing.TB, size, payloadLen uint64, c Compression, payload []byte) []byte {
	h := newFileHeader()
	h.size = size
	h.wordCount = (size + 63) / 64
	h.compression = c
	h.payloadLen = payloadLen
	h.checksum = checksum(payload, size)

	var buf bytes.Buffer
	_, err := h.WriteTo(&buf)
	require.NoError(t, err)
	buf.Write(payload)
	return buf.Bytes()
}

func TestDecode_ForgedHeader(t *testing.T) {
	garbage := []byte{1, 2, 3}
	for _, tc := range []struct {
		name    string
		data    []byte
		maxSize int
		err     error
	}{
		{
			name:    "huge size, default limit",
			data:    forgeSnapshot(t, 1<<56, (1<<56)/8, CompressionNone, nil),
			maxSize: DefaultMaxSize,
			err:     bitset.ErrInvalidSize,
		},
		{
			name:    "huge size, no payload",
			data:    forgeSnapshot(t, 1<<56, (1<<56)/8, CompressionNone, nil),
			maxSize: 1 << 56,
			err:     ErrTruncated,
		},
		{
			name:    "128 GiB claimed, 3 bytes present",
			data:    forgeSnapshot(t, 1<<40, (1<<40)/8, CompressionNone, garbage),
			maxSize: 1 << 40,
			err:     ErrTruncated,
		},
		{
			name:    "lz4 expansion out of reach",
			data:    forgeSnapshot(t, 1<<36, 3, CompressionLZ4, garbage),
			maxSize: DefaultMaxSize,
			err:     ErrCorrupted,
		},
		{
			name:    "zstd garbage",
			data:    forgeSnapshot(t, 1<<30, 3, CompressionZstd, garbage),
			maxSize: DefaultMaxSize,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			check := func(err error) {
				require.Error(t, err)
				if tc.err != nil {
					require.ErrorIs(t, err, tc.err)
				}
			}

			require.NotPanics(t, func() {
				_, err := Decode(bytes.NewReader(tc.data), WithMaxSize(tc.maxSize))
				check(err)
			})

			path := filepath.Join(t.TempDir(), "forged.bits")
			require.NoError(t, os.WriteFile(path, tc.data, 0644))
			require.NotPanics(t, func() {
				_, err := ReadFile(path, WithMaxSize(tc.maxSize))
				check(err)
			})
		})
	}
}

func TestDecode_MaxSize(t *testing.T) {
	data := encode(t, randomSet(1000, 5))

	_, err := Decode(bytes.NewReader(data), WithMaxSize(999))
	require.ErrorIs(t, err, bitset.ErrInvalidSize)

	b, err := Decode(bytes.NewReader(data), WithMaxSize(1000))
	require.NoError(t, err)
	require.Equal(t, 1000, b.Len())
}

func TestWriteFileReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "set.bits")

	first := sparseSet(100000)
	require.NoError(t, WriteFile(path, first, WithCompression(CompressionZstd)))

	fi, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0444), fi.Mode().Perm())

	read, err := ReadFile(path)
	require.NoError(t, err)
	require.True(t, first.Equal(read))

	// overwriting a (read-only) snapshot replaces it atomically
	second := randomSet(777, 3)
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	require.NoError(t, WriteFile(path, second, WithCompression(CompressionLZ4), WithLogger(logger)))
	require.Contains(t, logs.String(), "wrote bitset snapshot")

	read, err = ReadFile(path, WithLogger(logger))
	require.NoError(t, err)
	require.True(t, second.Equal(read))
	require.Contains(t, logs.String(), "read bitset snapshot")

	// no temp files left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestReadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadFile(filepath.Join(dir, "missing"))
	require.Error(t, err)

	garbage := filepath.Join(dir, "garbage")
	require.NoError(t, os.WriteFile(garbage, bytes.Repeat([]byte{'x'}, 200), 0644))
	_, err = ReadFile(garbage)
	require.ErrorIs(t, err, ErrBadMagic)

	data := encode(t, randomSet(4096, 11))
	short := filepath.Join(dir, "short")
	require.NoError(t, os.WriteFile(short, data[:len(data)-8], 0644))
	_, err = ReadFile(short)
	require.ErrorIs(t, err, ErrTruncated)
}

func TestParseCompression(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		parsed, err := ParseCompression(c.String())
		require.NoError(t, err)
		require.Equal(t, c, parsed)
	}
	_, err := ParseCompression("snappy")
	require.ErrorIs(t, err, ErrUnknownCompression)
	require.Equal(t, "Compression(9)", Compression(9).String())
}

func BenchmarkDecode(b *testing.B) {
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		data := encode(b, sparseSet(1<<20), WithCompression(c))
		b.Run(c.String(), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(data)))
			for i := 0; i < b.N; i++ {
				if _, err := Decode(bytes.NewReader(data)); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
