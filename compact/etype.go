package compact

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// EdgeType identifies a relation between a source and a destination node type.
type EdgeType struct {
	Src      string
	Relation string
	Dst      string
}

const (
	// HomogeneousNodeType is the node type homogeneous inputs are keyed by.
	HomogeneousNodeType = "_N"
	// HomogeneousRelation is the relation homogeneous inputs are keyed by.
	HomogeneousRelation = "_E"
)

// Homogeneous is the edge type homogeneous inputs are keyed by.
var Homogeneous = EdgeType{Src: HomogeneousNodeType, Relation: HomogeneousRelation, Dst: HomogeneousNodeType}

// ParseEdgeType parses "src:relation:dst".
func ParseEdgeType(s string) (EdgeType, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return EdgeType{}, fmt.Errorf("%w: %q", ErrInvalidEdgeType, s)
	}
	return EdgeType{Src: parts[0], Relation: parts[1], Dst: parts[2]}, nil
}

// MustParseEdgeType is like ParseEdgeType but panics on error.
func MustParseEdgeType(s string) EdgeType {
	et, err := ParseEdgeType(s)
	if err != nil {
		panic(err)
	}
	return et
}

// String returns "src:relation:dst".
func (e EdgeType) String() string {
	return e.Src + ":" + e.Relation + ":" + e.Dst
}

// Compare orders edge types by source, relation, then destination.
func (e EdgeType) Compare(o EdgeType) int {
	return cmp.Or(
		cmp.Compare(e.Src, o.Src),
		cmp.Compare(e.Relation, o.Relation),
		cmp.Compare(e.Dst, o.Dst),
	)
}

// sortedEdgeTypes returns the keys of m in a fixed order. Relabeled ids are
// produced and consumed per edge type in this order.
func sortedEdgeTypes[V any](m map[EdgeType]V) []EdgeType {
	return slices.SortedFunc(maps.Keys(m), EdgeType.Compare)
}

// nodeTypes returns the union of the keys of the given maps, sorted.
func nodeTypes(ms ...map[string][]int64) []string {
	seen := make(map[string]struct{})
	for _, m := range ms {
		for k := range m {
			seen[k] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}
