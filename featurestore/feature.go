package featurestore

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/minibatch/ndarray"
)

// Feature is a single dense array addressed by row ids.
type Feature interface {
	// Read returns the rows at ids as a new array. With nil ids it returns
	// the whole array, aliasing the feature's storage.
	Read(ids []int64) (*ndarray.Array, error)
	// Size returns the number of rows Read(ids) would return.
	Size(ids []int64) (int, error)
	// Update overwrites the rows at ids with the rows of value. With nil ids
	// value replaces the whole array and must match its shape and dtype.
	Update(value *ndarray.Array, ids []int64) error
}

// ArrayFeature is a Feature over one ndarray.Array, resident or mapped.
// Once closed, Read, Size, Update and Sync return ErrClosed. Close must not
// run concurrently with them.
type ArrayFeature struct {
	arr    *ndarray.Array
	mapped *ndarray.MappedArray

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
	release   func() error
}

var _ Feature = (*ArrayFeature)(nil)

// NewArrayFeature wraps a resident array.
func NewArrayFeature(a *ndarray.Array) *ArrayFeature {
	return &ArrayFeature{arr: a}
}

// NewMappedFeature wraps a mapped array. Close unmaps it.
func NewMappedFeature(m *ndarray.MappedArray) *ArrayFeature {
	return &ArrayFeature{arr: m.Array, mapped: m}
}

// Array returns the underlying array.
func (f *ArrayFeature) Array() *ndarray.Array {
	return f.arr
}

// Mapped reports whether the feature pages its data from a file.
func (f *ArrayFeature) Mapped() bool {
	return f.mapped != nil
}

func (f *ArrayFeature) Read(ids []int64) (*ndarray.Array, error) {
	if f.closed.Load() {
		return nil, ErrClosed
	}
	if ids == nil {
		return f.arr, nil
	}
	return f.arr.Gather(ids)
}

func (f *ArrayFeature) Size(ids []int64) (int, error) {
	if f.closed.Load() {
		return 0, ErrClosed
	}
	if ids == nil {
		return f.arr.Len(), nil
	}
	if err := f.arr.CheckIndices(ids); err != nil {
		return 0, err
	}
	return len(ids), nil
}

func (f *ArrayFeature) Update(value *ndarray.Array, ids []int64) error {
	if f.closed.Load() {
		return ErrClosed
	}
	if value == nil {
		return fmt.Errorf("%w: nil value", ErrPrecondition)
	}
	var err error
	if ids == nil {
		err = f.arr.Assign(value)
	} else {
		if len(ids) != value.Len() {
			return fmt.Errorf("%w: %w: %d ids for %d rows", ErrPrecondition, ndarray.ErrShapeMismatch, len(ids), value.Len())
		}
		err = f.arr.Scatter(ids, value)
	}
	if errors.Is(err, ndarray.ErrShapeMismatch) {
		return fmt.Errorf("%w: %w", ErrPrecondition, err)
	}
	return err
}

// Sync flushes a mapped feature to its file. It is a no-op for resident
// features.
func (f *ArrayFeature) Sync() error {
	if f.closed.Load() {
		return ErrClosed
	}
	if f.mapped == nil {
		return nil
	}
	return f.mapped.Sync()
}

// Close releases the mapping and any resources acquired while loading.
// It is idempotent.
func (f *ArrayFeature) Close() error {
	f.closeOnce.Do(func() {
		f.closed.Store(true)
		var errs []error
		if f.mapped != nil {
			errs = append(errs, f.mapped.Close())
		}
		if f.release != nil {
			errs = append(errs, f.release())
		}
		f.closeErr = errors.Join(errs...)
	})
	return f.closeErr
}

// onClose registers fn to run after the feature is closed.
func (f *ArrayFeature) onClose(fn func() error) {
	prev := f.release
	f.release = func() error {
		var err error
		if prev != nil {
			err = prev()
		}
		return errors.Join(err, fn())
	}
}
