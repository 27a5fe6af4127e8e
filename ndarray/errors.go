package ndarray

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBounds is returned when a row index lies outside [0, Len).
	ErrOutOfBounds = errors.New("ndarray: index out of bounds")

	// ErrShapeMismatch is returned when two arrays must agree on shape or
	// element type and do not.
	ErrShapeMismatch = errors.New("ndarray: shape mismatch")

	// ErrInvalidShape is returned for shapes with an unsupported rank or a
	// negative dimension.
	ErrInvalidShape = errors.New("ndarray: invalid shape")

	// ErrInvalidDType is returned for unknown element types.
	ErrInvalidDType = errors.New("ndarray: invalid dtype")

	// ErrInvalidMagic is returned when a file does not start with the
	// expected magic number.
	ErrInvalidMagic = errors.New("ndarray: invalid magic number")

	// ErrUnsupportedVersion is returned for files written by a newer format version.
	ErrUnsupportedVersion = errors.New("ndarray: unsupported format version")

	// ErrCorrupted is returned when a file fails checksum or size validation.
	ErrCorrupted = errors.New("ndarray: file corrupted")
)

// IndexError reports the first out-of-bounds row index of an operation.
type IndexError struct {
	Index int64
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("ndarray: index %d out of bounds for length %d", e.Index, e.Len)
}

// Unwrap returns ErrOutOfBounds.
func (e *IndexError) Unwrap() error {
	return ErrOutOfBounds
}
