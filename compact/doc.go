// Package compact relabels node ids drawn from a large global id space into
// small dense per-type id spaces, the step that turns sampled neighborhoods
// into mini-batch subgraphs.
//
// Every operation has a homogeneous form, taking plain slices, and a
// heterogeneous form keyed by node type (string) or EdgeType. The
// heterogeneous forms build one relabeling per node type shared by every edge
// type touching it, so a node that is the source of one edge type and the
// destination of another gets the same dense id in both.
//
// Compacting operations return (unique, compacted) pairs with
//
//	unique[t][compacted[t][p]] == input[t][p]
//
// for every position p. Values supplied as the must-retain set (destination
// nodes) take the lowest dense ids, in the order given; the order of the
// remaining unique values is unspecified.
//
// Inputs are never modified. Outputs may share backing arrays with each
// other but not with the inputs, except for CSC.Indptr which is returned as
// given.
package compact
