package ndarray

import (
	"errors"
	"fmt"

	"github.com/hupe1980/minibatch/internal/conv"
	"github.com/hupe1980/minibatch/internal/mmap"
)

// MappedArray is an Array whose storage is a writable shared mapping of a
// columnar file. Pages are faulted in on first access and writes through the
// Array methods land in the file.
//
// The embedded Array must not be used after Close.
type MappedArray struct {
	*Array
	m *mmap.Mapping
}

// MapColumnar maps the columnar file at path read-write.
func MapColumnar(path string) (*MappedArray, error) {
	m, err := mmap.Open(path, mmap.ReadWrite)
	if err != nil {
		return nil, fmt.Errorf("ndarray: map %s: %w", path, err)
	}

	a, err := viewColumnar(m.Bytes())
	if err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("ndarray: map %s: %w", path, err)
	}

	// Feature reads gather scattered rows.
	_ = m.Advise(mmap.AccessRandom)

	return &MappedArray{Array: a, m: m}, nil
}

// viewColumnar returns an Array aliasing the data section of a columnar file.
func viewColumnar(b []byte) (*Array, error) {
	var h columnarHeader
	if err := h.unmarshal(b); err != nil {
		return nil, err
	}
	size, err := h.dataSize()
	if err != nil {
		return nil, err
	}
	off, err := conv.Uint64ToInt(h.DataOffset)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupted, err)
	}
	if off%8 != 0 {
		return nil, fmt.Errorf("%w: data offset %d is not 8-byte aligned", ErrCorrupted, off)
	}
	if off > len(b) || size > len(b)-off {
		return nil, fmt.Errorf("%w: file has %d bytes, data needs %d at offset %d", ErrCorrupted, len(b), size, off)
	}
	return wrap(h.DType, h.Shape, b[off:off+size:off+size]), nil
}

// Sync flushes modified pages to the file.
func (m *MappedArray) Sync() error {
	return m.m.Sync()
}

// Close flushes and unmaps the file.
func (m *MappedArray) Close() error {
	syncErr := m.m.Sync()
	if errors.Is(syncErr, mmap.ErrClosed) {
		syncErr = nil
	}
	m.Array.data = nil
	return errors.Join(syncErr, m.m.Close())
}
