package compact

import "fmt"

// NodePair is a list of edges in coordinate form: edge i runs from Src[i]
// to Dst[i].
type NodePair struct {
	Src []int64
	Dst []int64
}

// Len returns the number of edges.
func (p NodePair) Len() int {
	return len(p.Src)
}

func (p NodePair) validate(et EdgeType) error {
	if len(p.Src) != len(p.Dst) {
		return fmt.Errorf("%w: %s has %d sources and %d destinations", ErrLengthMismatch, et, len(p.Src), len(p.Dst))
	}
	return nil
}

// CSC is a bipartite adjacency in compressed sparse column form. Destination
// i owns the sources Indices[Indptr[i]:Indptr[i+1]].
type CSC struct {
	Indptr  []int64
	Indices []int64
}

// NumDst returns the number of destination nodes.
func (c CSC) NumDst() int {
	return max(len(c.Indptr)-1, 0)
}

// Validate checks that Indptr is a non-empty non-decreasing sequence whose
// last element is len(Indices).
func (c CSC) Validate() error {
	if len(c.Indptr) == 0 {
		return fmt.Errorf("%w: empty indptr", ErrPrecondition)
	}
	for i := 1; i < len(c.Indptr); i++ {
		if c.Indptr[i] < c.Indptr[i-1] {
			return fmt.Errorf("%w: indptr decreases at %d", ErrPrecondition, i)
		}
	}
	if last := c.Indptr[len(c.Indptr)-1]; last != int64(len(c.Indices)) {
		return fmt.Errorf("%w: indptr ends at %d but there are %d indices", ErrPrecondition, last, len(c.Indices))
	}
	return nil
}
