// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Command gen-testdata writes a random bitset snapshot, for use in
// benchmarks and as a fixture for the bitfile reader.
package main

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"

	"github.com/bpowers/bitset"
	"github.com/bpowers/bitset/bitfile"
)

type config struct {
	size        int
	density     float64
	compression string
	out         string
	seed        int64
	verbose     bool
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		var seedBytes [8]byte
		_, _ = crand.Read(seedBytes[:])
		seed = int64(binary.LittleEndian.Uint64(seedBytes[:]))
	}
	return rand.New(rand.NewSource(seed))
}

func generate(rng *rand.Rand, size int, density float64) *bitset.BitSet {
	b := bitset.New(size)
	for i := 0; i < size; i++ {
		if rng.Float64() < density {
			b.Set(i)
		}
	}
	return b
}

func run(cfg config, logger *slog.Logger) error {
	if cfg.size <= 0 {
		return fmt.Errorf("-size must be > 0 (got %d)", cfg.size)
	}
	if cfg.density < 0 || cfg.density > 1 {
		return fmt.Errorf("-density must be in [0, 1] (got %g)", cfg.density)
	}
	if cfg.out == "" {
		return errors.New("-out is required")
	}
	compression, err := bitfile.ParseCompression(cfg.compression)
	if err != nil {
		return err
	}

	logger.Info("generating bitset", "size", cfg.size, "density", cfg.density)
	b := generate(newRand(cfg.seed), cfg.size, cfg.density)

	if err := bitfile.WriteFile(cfg.out, b, bitfile.WithCompression(compression), bitfile.WithLogger(logger)); err != nil {
		return fmt.Errorf("bitfile.WriteFile: %w", err)
	}

	fmt.Printf("size:%d cardinality:%d hash:%016x\n", b.Len(), b.Cardinality(), b.Hash64())
	return nil
}

func main() {
	var cfg config
	flag.IntVar(&cfg.size, "size", 1000000, "number of bits in the set")
	flag.Float64Var(&cfg.density, "density", 0.01, "probability that each bit is set")
	flag.StringVar(&cfg.compression, "compression", "none", "payload compression: none, lz4 or zstd")
	flag.StringVar(&cfg.out, "out", "", "path of the snapshot to write")
	flag.Int64Var(&cfg.seed, "seed", 0, "random seed (0 picks one at random)")
	flag.BoolVar(&cfg.verbose, "v", false, "log debug output")
	flag.Parse()

	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(cfg, logger); err != nil {
		logger.Error("gen-testdata failed", "err", err)
		os.Exit(1)
	}
}
