package minibatch

import (
	"errors"
	"fmt"

	"github.com/hupe1980/minibatch/compact"
	"github.com/hupe1980/minibatch/featurestore"
	"github.com/hupe1980/minibatch/ndarray"
)

var (
	// ErrNotFound is returned when no feature is stored under a key.
	ErrNotFound = errors.New("feature not found")

	// ErrInvalidArgument is returned when an input violates the contract of
	// an operation.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrClosed is returned by operations on a closed Engine.
	ErrClosed = errors.New("engine closed")
)

// ErrIndexOutOfBounds indicates a row index outside a feature.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrIndexOutOfBounds struct {
	Index int64
	Len   int
	cause error
}

func (e *ErrIndexOutOfBounds) Error() string {
	return fmt.Sprintf("index %d out of bounds for length %d", e.Index, e.Len)
}

func (e *ErrIndexOutOfBounds) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, featurestore.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if errors.Is(err, featurestore.ErrClosed) {
		return fmt.Errorf("%w: %w", ErrClosed, err)
	}
	var ie *ndarray.IndexError
	if errors.As(err, &ie) {
		return &ErrIndexOutOfBounds{Index: ie.Index, Len: ie.Len, cause: err}
	}

	for _, target := range []error{
		featurestore.ErrPrecondition,
		featurestore.ErrInvalidDomain,
		featurestore.ErrUnknownFormat,
		featurestore.ErrDuplicateKey,
		featurestore.ErrInvalidDescriptor,
		compact.ErrPrecondition,
		compact.ErrLengthMismatch,
		compact.ErrUnknownEdgeType,
		compact.ErrInvalidEdgeType,
	} {
		if errors.Is(err, target) {
			return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
	}

	return err
}
