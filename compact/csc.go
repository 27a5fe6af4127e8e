package compact

import (
	"fmt"
	"slices"

	"github.com/hupe1980/minibatch/internal/idmap"
)

// UniqueAndCompactCSC relabels the indices of a homogeneous CSC block.
// uniqueDst is the must-retain set and takes dense ids 0..len-1. The
// returned block shares Indptr with the input.
func UniqueAndCompactCSC(csc CSC, uniqueDst []int64) (unique []int64, compacted CSC) {
	u, c := UniqueAndCompactCSCHetero(
		map[EdgeType]CSC{Homogeneous: csc},
		map[string][]int64{HomogeneousNodeType: uniqueDst},
	)
	return u[HomogeneousNodeType], c[Homogeneous]
}

// UniqueAndCompactCSCHetero relabels the indices of CSC blocks of several
// edge types. The indices of all edge types starting at a node type are
// relabeled together with uniqueDst[type] as must-retain set. unique has an
// entry for every source node type and every key of uniqueDst. A node type
// that only appears as a destination therefore still maps to its retained
// nodes, rather than being left out as a grouping by source type would.
//
// Indptr is neither checked nor copied.
func UniqueAndCompactCSCHetero(
	cscs map[EdgeType]CSC,
	uniqueDst map[string][]int64,
) (unique map[string][]int64, compacted map[EdgeType]CSC) {
	etypes := sortedEdgeTypes(cscs)

	indices := make(map[string][]int64)
	for _, et := range etypes {
		indices[et.Src] = append(indices[et.Src], cscs[et].Indices...)
	}

	ntypes := nodeTypes(indices, uniqueDst)
	unique = make(map[string][]int64, len(ntypes))
	relabeled := make(map[string][]int64, len(ntypes))
	for _, ntype := range ntypes {
		unique[ntype], relabeled[ntype] = idmap.DedupRelabel(indices[ntype], uniqueDst[ntype])
	}

	compacted = make(map[EdgeType]CSC, len(cscs))
	off := make(map[string]int)
	for _, et := range etypes {
		c := cscs[et]
		o, n := off[et.Src], len(c.Indices)
		compacted[et] = CSC{
			Indptr:  c.Indptr,
			Indices: relabeled[et.Src][o : o+n : o+n],
		}
		off[et.Src] = o + n
	}
	return unique, compacted
}

// CompactCSC rewrites the indices of a homogeneous CSC block without
// deduplication. originalRowIDs starts with dst followed by the original
// indices, and the rewritten indices point at the latter:
//
//	originalRowIDs[compacted.Indices[i]] == csc.Indices[i]
//
// dst must have one node per column of csc.
func CompactCSC(csc CSC, dst []int64) (originalRowIDs []int64, compacted CSC, err error) {
	ids, c, err := CompactCSCHetero(
		map[EdgeType]CSC{Homogeneous: csc},
		map[string][]int64{HomogeneousNodeType: dst},
	)
	if err != nil {
		return nil, CSC{}, err
	}
	return ids[HomogeneousNodeType], c[Homogeneous], nil
}

// CompactCSCHetero is CompactCSC for several edge types. originalRowIDs[t]
// starts with dst[t], followed by the indices of every edge type whose source
// is t, in edge type order.
func CompactCSCHetero(
	cscs map[EdgeType]CSC,
	dst map[string][]int64,
) (originalRowIDs map[string][]int64, compacted map[EdgeType]CSC, err error) {
	etypes := sortedEdgeTypes(cscs)
	for _, et := range etypes {
		c := cscs[et]
		if err := c.Validate(); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", et, err)
		}
		if n := len(dst[et.Dst]); n+1 != len(c.Indptr) {
			return nil, nil, fmt.Errorf("%w: %s has %d destination nodes for %d columns",
				ErrPrecondition, et, n, c.NumDst())
		}
	}

	originalRowIDs = make(map[string][]int64, len(dst))
	for ntype, d := range dst {
		originalRowIDs[ntype] = slices.Clone(d)
	}

	compacted = make(map[EdgeType]CSC, len(cscs))
	for _, et := range etypes {
		c := cscs[et]
		off := int64(len(originalRowIDs[et.Src]))
		originalRowIDs[et.Src] = append(originalRowIDs[et.Src], c.Indices...)

		idx := make([]int64, len(c.Indices))
		for i := range idx {
			idx[i] = off + int64(i)
		}
		compacted[et] = CSC{Indptr: c.Indptr, Indices: idx}
	}
	return originalRowIDs, compacted, nil
}
