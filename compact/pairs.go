package compact

import (
	"slices"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/minibatch/internal/idmap"
)

// UniqueAndCompactNodePairs relabels the sources and destinations of a
// homogeneous edge list through one shared relabeling.
//
// uniqueDst is the must-retain set: its values take dense ids 0..len-1 in
// order. If nil, it is computed as the sorted distinct destinations.
func UniqueAndCompactNodePairs(pair NodePair, uniqueDst []int64) (unique []int64, compacted NodePair, err error) {
	var dst map[string][]int64
	if uniqueDst != nil {
		dst = map[string][]int64{HomogeneousNodeType: uniqueDst}
	}
	u, c, err := UniqueAndCompactNodePairsHetero(map[EdgeType]NodePair{Homogeneous: pair}, dst)
	if err != nil {
		return nil, NodePair{}, err
	}
	return u[HomogeneousNodeType], c[Homogeneous], nil
}

// UniqueAndCompactNodePairsHetero relabels edge lists of several edge types.
//
// For every node type, the sources of all edge types starting at it and the
// destinations of all edge types ending at it are relabeled together, with
// uniqueDst[type] as must-retain set. A nil uniqueDst computes the sorted
// distinct destinations per node type, negative ids included; a node type
// missing from a non-nil uniqueDst retains nothing.
func UniqueAndCompactNodePairsHetero(
	pairs map[EdgeType]NodePair,
	uniqueDst map[string][]int64,
) (unique map[string][]int64, compacted map[EdgeType]NodePair, err error) {
	etypes := sortedEdgeTypes(pairs)

	srcs := make(map[string][]int64)
	dsts := make(map[string][]int64)
	for _, et := range etypes {
		p := pairs[et]
		if err := p.validate(et); err != nil {
			return nil, nil, err
		}
		srcs[et.Src] = append(srcs[et.Src], p.Src...)
		dsts[et.Dst] = append(dsts[et.Dst], p.Dst...)
	}

	if uniqueDst == nil {
		uniqueDst = make(map[string][]int64, len(dsts))
		for ntype, d := range dsts {
			uniqueDst[ntype] = sortedUnique(d)
		}
	}

	ntypes := nodeTypes(srcs, dsts)
	unique = make(map[string][]int64, len(ntypes))
	relabeledSrc := make(map[string][]int64, len(ntypes))
	relabeledDst := make(map[string][]int64, len(ntypes))
	for _, ntype := range ntypes {
		unique[ntype], relabeledSrc[ntype], relabeledDst[ntype] =
			idmap.DedupRelabelPair(srcs[ntype], dsts[ntype], uniqueDst[ntype])
	}

	compacted = make(map[EdgeType]NodePair, len(pairs))
	srcOff := make(map[string]int)
	dstOff := make(map[string]int)
	for _, et := range etypes {
		n := pairs[et].Len()
		so, do := srcOff[et.Src], dstOff[et.Dst]
		compacted[et] = NodePair{
			Src: relabeledSrc[et.Src][so : so+n : so+n],
			Dst: relabeledDst[et.Dst][do : do+n : do+n],
		}
		srcOff[et.Src] = so + n
		dstOff[et.Dst] = do + n
	}
	return unique, compacted, nil
}

// sortedUnique returns the distinct values of ids in ascending order.
// Non-negative ids go through a roaring bitmap; a negative id falls back to
// sorting a copy.
func sortedUnique(ids []int64) []int64 {
	bm := roaring64.New()
	for _, id := range ids {
		if id < 0 {
			return slices.Compact(slices.Sorted(slices.Values(ids)))
		}
		bm.Add(uint64(id))
	}
	out := make([]int64, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, int64(it.Next())) //nolint:gosec // values were added from non-negative int64s
	}
	return out
}
