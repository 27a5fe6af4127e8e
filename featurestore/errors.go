package featurestore

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no feature is stored under a key.
	ErrNotFound = errors.New("featurestore: feature not found")

	// ErrUnknownFormat is returned for descriptor formats other than native
	// and columnar.
	ErrUnknownFormat = errors.New("featurestore: unknown format")

	// ErrInvalidDomain is returned for domains other than node, edge and graph.
	ErrInvalidDomain = errors.New("featurestore: invalid domain")

	// ErrDuplicateKey is returned when two features share a key.
	ErrDuplicateKey = errors.New("featurestore: duplicate key")

	// ErrPrecondition is returned when an argument violates the contract of
	// an operation, e.g. an update whose value does not match the ids.
	ErrPrecondition = errors.New("featurestore: precondition failed")

	// ErrEmptyStore is returned by DefaultSize on a store without features.
	ErrEmptyStore = errors.New("featurestore: store is empty")

	// ErrInvalidDescriptor is returned for descriptors missing required fields.
	ErrInvalidDescriptor = errors.New("featurestore: invalid descriptor")

	// ErrClosed is returned when accessing a feature after Close.
	ErrClosed = errors.New("featurestore: feature is closed")
)

// KeyError reports a lookup of a key that is not in the store.
type KeyError struct {
	Key Key
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("featurestore: feature not found: %s", e.Key)
}

// Unwrap returns ErrNotFound.
func (e *KeyError) Unwrap() error {
	return ErrNotFound
}

// DescriptorError attributes a construction failure to one descriptor.
type DescriptorError struct {
	Index int
	Key   Key
	Err   error
}

func (e *DescriptorError) Error() string {
	return fmt.Sprintf("featurestore: descriptor %d (%s): %v", e.Index, e.Key, e.Err)
}

func (e *DescriptorError) Unwrap() error {
	return e.Err
}
