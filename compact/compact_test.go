package compact

import (
	"slices"
	"testing"

	"github.com/hupe1980/minibatch/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func et(s string) EdgeType {
	return MustParseEdgeType(s)
}

// requireCompacted checks unique[compacted[p]] == input[p] and that unique
// has no duplicates.
func requireCompacted(t *testing.T, unique, input, compacted []int64) {
	t.Helper()
	require.Len(t, compacted, len(input))
	assert.Equal(t, input, testutil.Lookup(unique, compacted))
	seen := make(map[int64]struct{}, len(unique))
	for _, v := range unique {
		_, dup := seen[v]
		require.False(t, dup, "duplicate %d in unique", v)
		seen[v] = struct{}{}
	}
}

func sorted(s []int64) []int64 {
	out := slices.Clone(s)
	slices.Sort(out)
	return out
}

func TestUniqueAndCompact(t *testing.T) {
	chunks := [][]int64{{1, 2, 2}, {3}}

	unique, compacted := UniqueAndCompact(chunks)

	assert.Equal(t, []int64{1, 2, 3}, sorted(unique))
	require.Len(t, compacted, 2)
	assert.Equal(t, []int64{1, 2, 2}, testutil.Lookup(unique, compacted[0]))
	assert.Equal(t, []int64{3}, testutil.Lookup(unique, compacted[1]))
}

func TestUniqueAndCompact_Empty(t *testing.T) {
	unique, compacted := UniqueAndCompact(nil)
	assert.Empty(t, unique)
	assert.Empty(t, compacted)

	unique, compacted = UniqueAndCompact([][]int64{{}, {7}, {}})
	assert.Equal(t, []int64{7}, unique)
	assert.Equal(t, [][]int64{{}, {0}, {}}, compacted)
}

func TestUniqueAndCompact_Random(t *testing.T) {
	rng := testutil.NewRNG(42)
	for range 20 {
		chunks := rng.Chunks(6, 40, 50)

		unique, compacted := UniqueAndCompact(chunks)

		var flat []int64
		for i, c := range chunks {
			require.Len(t, compacted[i], len(c))
			requireCompacted(t, unique, c, compacted[i])
			flat = append(flat, c...)
		}
		distinct := slices.Compact(sorted(flat))
		assert.Len(t, unique, len(distinct))
		assert.LessOrEqual(t, len(unique), len(flat))
	}
}

func TestUniqueAndCompact_DoesNotModifyInput(t *testing.T) {
	chunks := [][]int64{{9, 8, 9}, {8}}
	_, compacted := UniqueAndCompact(chunks)
	compacted[0][0] = 100
	assert.Equal(t, [][]int64{{9, 8, 9}, {8}}, chunks)

	// Growing one output chunk must not clobber the next one.
	_ = append(compacted[0], 55)
	assert.Equal(t, []int64{1}, compacted[1])
}

func TestUniqueAndCompactHetero(t *testing.T) {
	rng := testutil.NewRNG(7)
	in := map[string][][]int64{
		"n1": rng.Chunks(6, 5, 50),
		"n2": rng.Chunks(5, 4, 50),
		"n3": rng.Chunks(5, 2, 50),
	}

	unique, compacted := UniqueAndCompactHetero(in)

	require.Len(t, unique, 3)
	for ntype, chunks := range in {
		var flat []int64
		for i, c := range chunks {
			requireCompacted(t, unique[ntype], c, compacted[ntype][i])
			flat = append(flat, c...)
		}
		assert.Equal(t, slices.Compact(sorted(flat)), sorted(unique[ntype]), ntype)
	}
}

func TestEdgeType(t *testing.T) {
	e, err := ParseEdgeType("author:writes:paper")
	require.NoError(t, err)
	assert.Equal(t, EdgeType{Src: "author", Relation: "writes", Dst: "paper"}, e)
	assert.Equal(t, "author:writes:paper", e.String())
	assert.Equal(t, "_N:_E:_N", Homogeneous.String())

	for _, s := range []string{"", "a:b", "a:b:c:d", "a::c", ":b:c"} {
		_, err := ParseEdgeType(s)
		assert.ErrorIs(t, err, ErrInvalidEdgeType, s)
	}
	assert.Panics(t, func() { MustParseEdgeType("nope") })

	assert.Negative(t, et("a:r:b").Compare(et("b:r:a")))
	assert.Negative(t, et("a:r:b").Compare(et("a:s:a")))
	assert.Zero(t, et("a:r:b").Compare(et("a:r:b")))
}

func TestCSC_Validate(t *testing.T) {
	tests := []struct {
		name string
		csc  CSC
		ok   bool
	}{
		{"valid", CSC{Indptr: []int64{0, 2, 3}, Indices: []int64{1, 2, 3}}, true},
		{"no columns", CSC{Indptr: []int64{0}}, true},
		{"empty indptr", CSC{}, false},
		{"short indices", CSC{Indptr: []int64{0, 2, 3}, Indices: []int64{1, 2}}, false},
		{"decreasing", CSC{Indptr: []int64{0, 2, 1, 3}, Indices: []int64{1, 2, 3}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.csc.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrPrecondition)
			}
		})
	}
	assert.Equal(t, 2, CSC{Indptr: []int64{0, 2, 3}}.NumDst())
	assert.Equal(t, 0, CSC{}.NumDst())
}
