package featurestore

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/hupe1980/minibatch/ndarray"
)

// Store is keyed storage of features.
//
// Reads may run concurrently with each other. Updates touching overlapping
// rows, or an update racing a read of the same rows, must be serialized by
// the caller.
type Store interface {
	// Read returns rows of the feature stored under key. See Feature.Read.
	Read(key Key, ids []int64) (*ndarray.Array, error)
	// Size returns the row count of the feature stored under key.
	Size(key Key, ids []int64) (int, error)
	// Update writes rows of the feature stored under key.
	Update(key Key, value *ndarray.Array, ids []int64) error
	// DefaultSize returns the full size of the first feature added.
	DefaultSize() (int, error)
	// Len returns the number of features.
	Len() int
	// Keys returns all keys in insertion order.
	Keys() []Key
	// Feature returns the feature stored under key.
	Feature(key Key) (Feature, error)
	io.Closer
}

// BasicStore is a Store backed by a map.
type BasicStore struct {
	features map[Key]Feature
	order    []Key
}

var _ Store = (*BasicStore)(nil)

// NewBasicStore creates an empty store.
func NewBasicStore() *BasicStore {
	return &BasicStore{features: make(map[Key]Feature)}
}

// Add stores f under key. Keys must be unique.
func (s *BasicStore) Add(key Key, f Feature) error {
	if !key.Domain.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidDomain, key.Domain)
	}
	if f == nil {
		return fmt.Errorf("%w: nil feature for %s", ErrPrecondition, key)
	}
	if _, ok := s.features[key]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, key)
	}
	s.features[key] = f
	s.order = append(s.order, key)
	return nil
}

// Feature returns the feature stored under key.
func (s *BasicStore) Feature(key Key) (Feature, error) {
	f, ok := s.features[key]
	if !ok {
		return nil, &KeyError{Key: key}
	}
	return f, nil
}

func (s *BasicStore) Read(key Key, ids []int64) (*ndarray.Array, error) {
	f, err := s.Feature(key)
	if err != nil {
		return nil, err
	}
	return f.Read(ids)
}

func (s *BasicStore) Size(key Key, ids []int64) (int, error) {
	f, err := s.Feature(key)
	if err != nil {
		return 0, err
	}
	return f.Size(ids)
}

func (s *BasicStore) Update(key Key, value *ndarray.Array, ids []int64) error {
	f, err := s.Feature(key)
	if err != nil {
		return err
	}
	return f.Update(value, ids)
}

// DefaultSize returns the full size of the first feature added. Stores whose
// features differ in length should use Size with an explicit key.
func (s *BasicStore) DefaultSize() (int, error) {
	if len(s.order) == 0 {
		return 0, ErrEmptyStore
	}
	return s.features[s.order[0]].Size(nil)
}

func (s *BasicStore) Len() int {
	return len(s.order)
}

func (s *BasicStore) Keys() []Key {
	return slices.Clone(s.order)
}

// Close closes every feature that implements io.Closer, in reverse
// insertion order.
func (s *BasicStore) Close() error {
	var errs []error
	for i := len(s.order) - 1; i >= 0; i-- {
		if c, ok := s.features[s.order[i]].(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s: %w", s.order[i], err))
			}
		}
	}
	return errors.Join(errs...)
}
