package featurestore

import (
	"errors"
	"testing"

	"github.com/hupe1980/minibatch/ndarray"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closingFeature struct {
	*ArrayFeature
	closed *[]string
	name   string
	err    error
}

func (f *closingFeature) Close() error {
	*f.closed = append(*f.closed, f.name)
	return f.err
}

func TestBasicStore(t *testing.T) {
	s := NewBasicStore()
	a := NodeKey("paper", "a")
	b := NodeKey("paper", "b")

	m, err := ndarray.FromSlice([]int64{1, 2, 3, 4, 5, 6}, 2, 3)
	require.NoError(t, err)
	require.NoError(t, s.Add(a, NewArrayFeature(ndarray.Vector[int64](1, 2, 3))))
	require.NoError(t, s.Add(b, NewArrayFeature(m)))

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []Key{a, b}, s.Keys())

	got, err := s.Read(a, []int64{0, 2})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, int64s(t, got))

	got, err = s.Read(b, []int64{1})
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 5, 6}, int64s(t, got))

	n, err := s.Size(a, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	n, err = s.Size(b, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.DefaultSize()
	require.NoError(t, err)
	assert.Equal(t, 3, n, "default size is the first feature's size")

	require.NoError(t, s.Update(a, ndarray.Vector[int64](0, 1, 2), []int64{0, 1, 2}))
	require.NoError(t, s.Update(a, ndarray.Vector[int64](2, 0), []int64{0, 2}))
	got, err = s.Read(a, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1, 0}, int64s(t, got))

	_, err = s.Read(a, []int64{0, 1, 2, 3})
	assert.ErrorIs(t, err, ndarray.ErrOutOfBounds)
}

func TestBasicStore_UnknownKey(t *testing.T) {
	s := NewBasicStore()
	require.NoError(t, s.Add(GraphKey("g"), NewArrayFeature(ndarray.Vector[float32](1))))

	missing := NodeKey("", "feat")
	_, err := s.Read(missing, nil)
	require.ErrorIs(t, err, ErrNotFound)
	var ke *KeyError
	require.ErrorAs(t, err, &ke)
	assert.Equal(t, missing, ke.Key)

	_, err = s.Size(missing, nil)
	assert.ErrorIs(t, err, ErrNotFound)
	err = s.Update(missing, ndarray.Vector[float32](1), nil)
	assert.ErrorIs(t, err, ErrNotFound)

	// Same name under another type is a different key.
	_, err = s.Feature(Key{Domain: DomainGraph, Type: "x", Name: "g"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBasicStore_Add(t *testing.T) {
	s := NewBasicStore()
	k := EdgeKey("author:writes:paper", "w")
	f := NewArrayFeature(ndarray.Vector[float64](1))

	require.NoError(t, s.Add(k, f))
	assert.ErrorIs(t, s.Add(k, f), ErrDuplicateKey)
	assert.ErrorIs(t, s.Add(Key{Domain: "vertex", Name: "x"}, f), ErrInvalidDomain)
	assert.ErrorIs(t, s.Add(NodeKey("", "nil"), nil), ErrPrecondition)
	assert.Equal(t, 1, s.Len())
}

func TestBasicStore_EmptyDefaultSize(t *testing.T) {
	s := NewBasicStore()
	_, err := s.DefaultSize()
	assert.ErrorIs(t, err, ErrEmptyStore)
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Keys())
	assert.NoError(t, s.Close())
}

func TestBasicStore_CloseReverseOrder(t *testing.T) {
	var closed []string
	boom := errors.New("boom")

	s := NewBasicStore()
	for i, name := range []string{"a", "b", "c"} {
		f := &closingFeature{
			ArrayFeature: NewArrayFeature(ndarray.Vector[int64](int64(i))),
			closed:       &closed,
			name:         name,
		}
		if name == "b" {
			f.err = boom
		}
		require.NoError(t, s.Add(NodeKey("", name), f))
	}

	err := s.Close()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"c", "b", "a"}, closed)
}

func TestKey_String(t *testing.T) {
	assert.Equal(t, "node/paper/feat", NodeKey("paper", "feat").String())
	assert.Equal(t, "node/feat", NodeKey("", "feat").String())
	assert.Equal(t, "edge/a:r:b/w", EdgeKey("a:r:b", "w").String())
	assert.Equal(t, "graph/label", GraphKey("label").String())
}

func TestParseDomainAndFormat(t *testing.T) {
	d, err := ParseDomain("NODE")
	require.NoError(t, err)
	assert.Equal(t, DomainNode, d)
	_, err = ParseDomain("vertex")
	assert.ErrorIs(t, err, ErrInvalidDomain)

	f, err := ParseFormat("Columnar")
	require.NoError(t, err)
	assert.Equal(t, FormatColumnar, f)
	_, err = ParseFormat("parquet")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
