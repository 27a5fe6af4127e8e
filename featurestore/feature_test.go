package featurestore

import (
	"context"
	"testing"

	"github.com/hupe1980/minibatch/blobstore"
	"github.com/hupe1980/minibatch/ndarray"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64s(t *testing.T, a *ndarray.Array) []int64 {
	t.Helper()
	v, ok := ndarray.As[int64](a)
	require.True(t, ok, "dtype %s", a.DType())
	return v
}

func TestArrayFeature_Read(t *testing.T) {
	a := NewArrayFeature(ndarray.Vector[int64](1, 2, 3))

	got, err := a.Read([]int64{0, 2})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, int64s(t, got))

	got, err = a.Read([]int64{1, 1})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 2}, int64s(t, got))

	full, err := a.Read(nil)
	require.NoError(t, err)
	assert.Same(t, a.Array(), full)

	empty, err := a.Read([]int64{})
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())

	m, err := ndarray.FromSlice([]int64{1, 2, 3, 4, 5, 6}, 2, 3)
	require.NoError(t, err)
	b := NewArrayFeature(m)

	got, err = b.Read([]int64{1})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, got.Shape())
	assert.Equal(t, []int64{4, 5, 6}, int64s(t, got))
}

func TestArrayFeature_ReadCopies(t *testing.T) {
	a := NewArrayFeature(ndarray.Vector[int64](1, 2, 3))

	got, err := a.Read([]int64{0})
	require.NoError(t, err)
	int64s(t, got)[0] = 42

	full, err := a.Read(nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, int64s(t, full))
}

func TestArrayFeature_Size(t *testing.T) {
	a := NewArrayFeature(ndarray.Vector[int64](1, 2, 3))
	m, err := ndarray.FromSlice([]float32{1, 2, 3, 4, 5, 6}, 2, 3)
	require.NoError(t, err)
	b := NewArrayFeature(m)

	n, err := a.Size(nil)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = b.Size(nil)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = a.Size([]int64{0, 1})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = a.Size([]int64{3})
	assert.ErrorIs(t, err, ndarray.ErrOutOfBounds)
}

func TestArrayFeature_Update(t *testing.T) {
	a := NewArrayFeature(ndarray.Vector[int64](1, 2, 3))

	require.NoError(t, a.Update(ndarray.Vector[int64](0, 1, 2), []int64{0, 1, 2}))
	require.NoError(t, a.Update(ndarray.Vector[int64](2, 0), []int64{0, 2}))

	got, err := a.Read(nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1, 0}, int64s(t, got))

	require.NoError(t, a.Update(ndarray.Vector[int64](7, 8, 9), nil))
	got, err = a.Read([]int64{0, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 8, 9}, int64s(t, got))
}

func TestArrayFeature_OutOfBounds(t *testing.T) {
	a := NewArrayFeature(ndarray.Vector[int64](1, 2, 3))

	_, err := a.Read([]int64{0, 1, 2, 3})
	require.ErrorIs(t, err, ndarray.ErrOutOfBounds)
	var ie *ndarray.IndexError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, int64(3), ie.Index)

	_, err = a.Read([]int64{-1})
	assert.ErrorIs(t, err, ndarray.ErrOutOfBounds)

	err = a.Update(ndarray.Vector[int64](1), []int64{5})
	assert.ErrorIs(t, err, ndarray.ErrOutOfBounds)
}

func TestArrayFeature_UpdatePreconditions(t *testing.T) {
	m, err := ndarray.FromSlice([]int64{1, 2, 3, 4, 5, 6}, 2, 3)
	require.NoError(t, err)

	tests := []struct {
		name  string
		value *ndarray.Array
		ids   []int64
	}{
		{"ids longer than value", ndarray.Vector[int64](1, 2, 3), []int64{0, 1}},
		{"row shape", ndarray.Vector[int64](1, 2), []int64{0, 1}},
		{"dtype", mustArray(t, []float64{1, 2, 3}, 1, 3), []int64{0}},
		{"full shape", mustArray(t, []int64{1, 2, 3}, 1, 3), nil},
		{"full dtype", mustArray(t, []int32{1, 2, 3, 4, 5, 6}, 2, 3), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewArrayFeature(m.Clone())
			err := f.Update(tt.value, tt.ids)
			assert.ErrorIs(t, err, ErrPrecondition)
			assert.ErrorIs(t, err, ndarray.ErrShapeMismatch)
			assert.True(t, m.Equal(f.Array()), "failed update must not modify the feature")
		})
	}

	f := NewArrayFeature(m.Clone())
	assert.ErrorIs(t, f.Update(nil, nil), ErrPrecondition)
}

func TestArrayFeature_CloseIdempotent(t *testing.T) {
	f := NewArrayFeature(ndarray.Vector[int64](1))
	calls := 0
	f.onClose(func() error {
		calls++
		return nil
	})

	require.NoError(t, f.Close())
	require.NoError(t, f.Close())
	assert.Equal(t, 1, calls)
	assert.False(t, f.Mapped())
	assert.ErrorIs(t, f.Sync(), ErrClosed)
}

func TestArrayFeature_AccessAfterClose(t *testing.T) {
	ctx := context.Background()
	bs := blobstore.NewLocalStore(t.TempDir())
	descs := []Descriptor{
		{Domain: DomainNode, Type: "paper", Name: "feat", Format: FormatColumnar, Path: "paper/feat.col"},
		{Domain: DomainNode, Type: "paper", Name: "label", Format: FormatNative, Path: "paper/label.mbn", InMemory: true},
	}
	require.NoError(t, Save(ctx, bs, descs[0], ndarray.Vector[float32](1, 2, 3), ndarray.CompressionNone))
	require.NoError(t, Save(ctx, bs, descs[1], ndarray.Vector[int64](4, 5, 6), ndarray.CompressionNone))

	s, err := Load(ctx, descs, WithBlobStore(bs))
	require.NoError(t, err)
	f, err := s.Feature(descs[0].Key())
	require.NoError(t, err)
	require.True(t, f.(*ArrayFeature).Mapped())
	require.NoError(t, s.Close())

	for _, d := range descs {
		t.Run(d.Name, func(t *testing.T) {
			_, err := s.Read(d.Key(), []int64{0})
			assert.ErrorIs(t, err, ErrClosed)

			_, err = s.Read(d.Key(), nil)
			assert.ErrorIs(t, err, ErrClosed)

			_, err = s.Size(d.Key(), []int64{0})
			assert.ErrorIs(t, err, ErrClosed)

			err = s.Update(d.Key(), ndarray.Vector[float32](9), []int64{0})
			assert.ErrorIs(t, err, ErrClosed)
		})
	}

	_, err = s.DefaultSize()
	assert.ErrorIs(t, err, ErrClosed)
}

func mustArray[T ndarray.Element](t *testing.T, vals []T, shape ...int) *ndarray.Array {
	t.Helper()
	a, err := ndarray.FromSlice(vals, shape...)
	require.NoError(t, err)
	return a
}
