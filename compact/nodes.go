package compact

import "github.com/hupe1980/minibatch/internal/idmap"

// UniqueAndCompact deduplicates the ids of all chunks together and relabels
// them into 0..len(unique)-1. compacted has one chunk per input chunk, of the
// same length.
func UniqueAndCompact(chunks [][]int64) (unique []int64, compacted [][]int64) {
	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	flat := make([]int64, 0, total)
	for _, c := range chunks {
		flat = append(flat, c...)
	}

	unique, relabeled := idmap.DedupRelabel(flat, nil)
	return unique, split(relabeled, chunks)
}

// UniqueAndCompactHetero runs UniqueAndCompact once per node type.
func UniqueAndCompactHetero(chunks map[string][][]int64) (unique map[string][]int64, compacted map[string][][]int64) {
	unique = make(map[string][]int64, len(chunks))
	compacted = make(map[string][][]int64, len(chunks))
	for ntype, c := range chunks {
		unique[ntype], compacted[ntype] = UniqueAndCompact(c)
	}
	return unique, compacted
}

// split cuts flat into consecutive pieces with the lengths of like.
func split(flat []int64, like [][]int64) [][]int64 {
	out := make([][]int64, len(like))
	off := 0
	for i, c := range like {
		end := off + len(c)
		out[i] = flat[off:end:end]
		off = end
	}
	return out
}
