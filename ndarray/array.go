package ndarray

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"slices"
	"unsafe"
)

// MaxDims is the highest supported rank, including the row dimension.
const MaxDims = 4

// Array is a dense row-major array.
//
// The zero value is not usable; construct arrays with New, FromSlice or
// Vector, or load them from one of the file formats.
type Array struct {
	dtype    DType
	shape    []int
	rowBytes int
	data     []byte
}

// New allocates a zero-filled array.
func New(dtype DType, shape ...int) (*Array, error) {
	size, err := byteSize(dtype, shape)
	if err != nil {
		return nil, err
	}
	return wrap(dtype, shape, alignedBytes(size)), nil
}

// FromSlice copies vals into a new array of the given shape. With no shape
// the result is one-dimensional.
func FromSlice[T Element](vals []T, shape ...int) (*Array, error) {
	if len(shape) == 0 {
		shape = []int{len(vals)}
	}
	a, err := New(DTypeOf[T](), shape...)
	if err != nil {
		return nil, err
	}
	dst, _ := As[T](a)
	if len(dst) != len(vals) {
		return nil, fmt.Errorf("%w: %d values for shape %v", ErrShapeMismatch, len(vals), shape)
	}
	copy(dst, vals)
	return a, nil
}

// Vector returns a one-dimensional array holding a copy of vals.
func Vector[T Element](vals ...T) *Array {
	a, _ := FromSlice(vals)
	return a
}

// As returns a typed view of a's storage. Writes through the view modify a.
// The boolean is false if T does not match a's DType.
func As[T Element](a *Array) ([]T, bool) {
	if a == nil || DTypeOf[T]() != a.dtype {
		return nil, false
	}
	if len(a.data) == 0 {
		return []T{}, true
	}
	n := len(a.data) / a.dtype.Size()
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(a.data))), n), true //nolint:gosec // storage is aligned to 8 bytes
}

// DType returns the element type.
func (a *Array) DType() DType {
	return a.dtype
}

// Shape returns a copy of the shape; Shape()[0] is the row count.
func (a *Array) Shape() []int {
	return slices.Clone(a.shape)
}

// RowShape returns the shape of a single row.
func (a *Array) RowShape() []int {
	return slices.Clone(a.shape[1:])
}

// Len returns the number of rows.
func (a *Array) Len() int {
	return a.shape[0]
}

// RowBytes returns the width of one row in bytes.
func (a *Array) RowBytes() int {
	return a.rowBytes
}

// Bytes returns the raw little-endian storage. The slice aliases the array.
func (a *Array) Bytes() []byte {
	return a.data
}

// Row returns the raw bytes of row i. The slice aliases the array.
func (a *Array) Row(i int) ([]byte, error) {
	if i < 0 || i >= a.Len() {
		return nil, &IndexError{Index: int64(i), Len: a.Len()}
	}
	off := i * a.rowBytes
	return a.data[off : off+a.rowBytes : off+a.rowBytes], nil
}

// CheckIndices verifies that every id lies in [0, Len).
func (a *Array) CheckIndices(ids []int64) error {
	n := int64(a.Len())
	for _, id := range ids {
		if id < 0 || id >= n {
			return &IndexError{Index: id, Len: a.Len()}
		}
	}
	return nil
}

// Gather returns a new array holding the rows at ids, in order. Duplicate
// ids are allowed.
func (a *Array) Gather(ids []int64) (*Array, error) {
	if err := a.CheckIndices(ids); err != nil {
		return nil, err
	}
	shape := append([]int{len(ids)}, a.shape[1:]...)
	out := wrap(a.dtype, shape, alignedBytes(len(ids)*a.rowBytes))
	rb := a.rowBytes
	for i, id := range ids {
		src := int(id) * rb
		copy(out.data[i*rb:(i+1)*rb], a.data[src:src+rb])
	}
	return out, nil
}

// Scatter overwrites the rows at ids with the rows of values, in order.
// values must have the same dtype and row shape as a, and exactly len(ids)
// rows. With duplicate ids the last write wins.
func (a *Array) Scatter(ids []int64, values *Array) error {
	if values.dtype != a.dtype {
		return fmt.Errorf("%w: dtype %s, want %s", ErrShapeMismatch, values.dtype, a.dtype)
	}
	if !slices.Equal(values.shape[1:], a.shape[1:]) {
		return fmt.Errorf("%w: row shape %v, want %v", ErrShapeMismatch, values.shape[1:], a.shape[1:])
	}
	if len(ids) != values.Len() {
		return fmt.Errorf("%w: %d ids for %d rows", ErrShapeMismatch, len(ids), values.Len())
	}
	if err := a.CheckIndices(ids); err != nil {
		return err
	}
	rb := a.rowBytes
	for i, id := range ids {
		dst := int(id) * rb
		copy(a.data[dst:dst+rb], values.data[i*rb:(i+1)*rb])
	}
	return nil
}

// Assign overwrites the whole array with values, which must have an
// identical dtype and shape.
func (a *Array) Assign(values *Array) error {
	if values.dtype != a.dtype || !slices.Equal(values.shape, a.shape) {
		return fmt.Errorf("%w: %s%v, want %s%v", ErrShapeMismatch, values.dtype, values.shape, a.dtype, a.shape)
	}
	copy(a.data, values.data)
	return nil
}

// Clone returns a resident deep copy of a.
func (a *Array) Clone() *Array {
	out := wrap(a.dtype, a.shape, alignedBytes(len(a.data)))
	copy(out.data, a.data)
	return out
}

// Equal reports whether a and b have the same dtype, shape and contents.
func (a *Array) Equal(b *Array) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.dtype == b.dtype && slices.Equal(a.shape, b.shape) && bytes.Equal(a.data, b.data)
}

func (a *Array) String() string {
	return fmt.Sprintf("ndarray.Array(%s%v)", a.dtype, a.shape)
}

func wrap(dtype DType, shape []int, data []byte) *Array {
	rowBytes := dtype.Size()
	for _, d := range shape[1:] {
		rowBytes *= d
	}
	return &Array{
		dtype:    dtype,
		shape:    slices.Clone(shape),
		rowBytes: rowBytes,
		data:     data,
	}
}

// byteSize validates dtype and shape and returns the storage size in bytes.
func byteSize(dtype DType, shape []int) (int, error) {
	if !dtype.Valid() {
		return 0, fmt.Errorf("%w: %s", ErrInvalidDType, dtype)
	}
	if len(shape) == 0 || len(shape) > MaxDims {
		return 0, fmt.Errorf("%w: rank %d not in [1, %d]", ErrInvalidShape, len(shape), MaxDims)
	}
	size := dtype.Size()
	for _, d := range shape {
		if d < 0 {
			return 0, fmt.Errorf("%w: negative dimension in %v", ErrInvalidShape, shape)
		}
		if d != 0 && size > math.MaxInt/d {
			return 0, fmt.Errorf("%w: %v overflows", ErrInvalidShape, shape)
		}
		size *= d
	}
	return size, nil
}

// readAligned reads exactly n bytes from r into an aligned buffer. The buffer
// grows with the data actually read, so a corrupted length in a header cannot
// force a large allocation up front.
func readAligned(r io.Reader, n int) ([]byte, error) {
	const initial = 1 << 20
	buf := alignedBytes(min(n, initial))
	off := 0
	for {
		m, err := io.ReadFull(r, buf[off:])
		off += m
		if err != nil {
			return nil, err
		}
		if off == n {
			return buf, nil
		}
		next := alignedBytes(min(n, 2*len(buf)))
		copy(next, buf)
		buf = next
	}
}

// alignedBytes allocates n bytes backed by uint64 words so that typed views
// of any supported dtype are aligned.
func alignedBytes(n int) []byte {
	if n == 0 {
		return []byte{}
	}
	words := make([]uint64, (n+7)/8)
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(words))), n) //nolint:gosec // reinterpreting owned memory
}
