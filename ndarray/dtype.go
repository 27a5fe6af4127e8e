package ndarray

import (
	"fmt"
	"strings"
)

// DType identifies the element type of an Array.
type DType uint8

const (
	// Invalid is the zero DType.
	Invalid DType = iota
	// Uint8 is an unsigned 8-bit integer.
	Uint8
	// Int32 is a signed 32-bit integer.
	Int32
	// Int64 is a signed 64-bit integer.
	Int64
	// Float32 is an IEEE-754 single precision float.
	Float32
	// Float64 is an IEEE-754 double precision float.
	Float64
)

// Element is the set of Go types an Array can hold.
type Element interface {
	uint8 | int32 | int64 | float32 | float64
}

// Size returns the width of one element in bytes, or 0 for an invalid DType.
func (d DType) Size() int {
	switch d {
	case Uint8:
		return 1
	case Int32, Float32:
		return 4
	case Int64, Float64:
		return 8
	default:
		return 0
	}
}

// Valid reports whether d is a known element type.
func (d DType) Valid() bool {
	return d.Size() > 0
}

func (d DType) String() string {
	switch d {
	case Uint8:
		return "uint8"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return fmt.Sprintf("dtype(%d)", uint8(d))
	}
}

// ParseDType parses the lower-case name of an element type.
func ParseDType(s string) (DType, error) {
	switch strings.ToLower(s) {
	case "uint8":
		return Uint8, nil
	case "int32":
		return Int32, nil
	case "int64":
		return Int64, nil
	case "float32":
		return Float32, nil
	case "float64":
		return Float64, nil
	default:
		return Invalid, fmt.Errorf("%w: %q", ErrInvalidDType, s)
	}
}

// DTypeOf returns the DType matching T.
func DTypeOf[T Element]() DType {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return Uint8
	case int32:
		return Int32
	case int64:
		return Int64
	case float32:
		return Float32
	case float64:
		return Float64
	default:
		return Invalid
	}
}
