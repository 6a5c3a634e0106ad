// Copyright 2023 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package mmap provides a read-only memory mapping of a whole file.
package mmap

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"
)

// ReaderAt is a read-only view of a file's contents.  Data is only valid
// until Close is called.
type ReaderAt struct {
	data     []byte
	unmap    func([]byte) error
	isClosed atomic.Bool
}

// Open maps the file at path into memory.
func Open(path string) (*ReaderAt, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		// the mapping outlives the file descriptor
		_ = f.Close()
	}()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("f.Stat: %w", err)
	}
	size := fi.Size()
	if size < 0 {
		return nil, errors.New("mmap: file size is negative")
	}
	if size == 0 {
		return &ReaderAt{}, nil
	}
	if int64(int(size)) != size {
		return nil, fmt.Errorf("mmap: file too large (%d bytes)", size)
	}

	data, unmap, err := mapFile(f, int(size))
	if err != nil {
		return nil, fmt.Errorf("mmap(%s): %w", path, err)
	}
	return &ReaderAt{data: data, unmap: unmap}, nil
}

// Data returns the mapped bytes.  The slice must not be written to.
func (r *ReaderAt) Data() []byte {
	return r.data
}

// Len returns the length of the mapping in bytes.
func (r *ReaderAt) Len() int {
	return len(r.data)
}

// ReadAt implements io.ReaderAt.
func (r *ReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errors.New("mmap: negative offset")
	}
	if off >= int64(len(r.data)) {
		return 0, io.EOF
	}
	n := copy(p, r.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Close releases the mapping; it is safe to call more than once.
func (r *ReaderAt) Close() error {
	if r.isClosed.Swap(true) {
		return nil
	}
	data := r.data
	r.data = nil
	if data == nil || r.unmap == nil {
		return nil
	}
	return r.unmap(data)
}
