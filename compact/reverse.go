package compact

import (
	"fmt"
	"slices"
)

// AddReverseEdges appends the reverse of every edge to a homogeneous edge
// list: the result is (src+dst, dst+src).
func AddReverseEdges(pair NodePair) (NodePair, error) {
	out, err := AddReverseEdgesHetero(map[EdgeType]NodePair{Homogeneous: pair}, nil)
	if err != nil {
		return NodePair{}, err
	}
	return out[Homogeneous], nil
}

// AddReverseEdgesHetero appends reversed edges according to reverse: for
// every entry from -> to, the edges of from with source and destination
// swapped are appended to the edges of to. A nil reverse maps every edge type
// onto itself.
//
// Each entry is applied once, to the edges as given, so cyclic maps are
// fine. Entries sharing a target append in edge type order of their source.
// Edge types only named as targets start out empty.
func AddReverseEdgesHetero(edges map[EdgeType]NodePair, reverse map[EdgeType]EdgeType) (map[EdgeType]NodePair, error) {
	for _, et := range sortedEdgeTypes(edges) {
		if err := edges[et].validate(et); err != nil {
			return nil, err
		}
	}
	if reverse == nil {
		reverse = make(map[EdgeType]EdgeType, len(edges))
		for et := range edges {
			reverse[et] = et
		}
	}

	from := sortedEdgeTypes(reverse)
	for _, et := range from {
		if _, ok := edges[et]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownEdgeType, et)
		}
	}

	out := make(map[EdgeType]NodePair, len(edges)+len(reverse))
	for et, p := range edges {
		out[et] = NodePair{Src: slices.Clone(p.Src), Dst: slices.Clone(p.Dst)}
	}
	for _, et := range from {
		to := reverse[et]
		orig := edges[et]
		cur := out[to]
		out[to] = NodePair{
			Src: append(cur.Src, orig.Dst...),
			Dst: append(cur.Dst, orig.Src...),
		}
	}
	return out, nil
}
