// Package idmap implements the dedup-and-relabel primitive behind every
// compaction: values are assigned dense ids 0..n-1 in the order they are first
// inserted, and each input position is rewritten to the dense id of its value.
package idmap

// Map assigns dense ids to int64 values.
//
// Dense ids are handed out in insertion order, so values inserted through
// Retain always occupy the lowest ids. A Map is not safe for concurrent use.
type Map struct {
	index  map[int64]int64
	unique []int64
}

// New creates a Map sized for roughly capacity distinct values.
func New(capacity int) *Map {
	if capacity < 0 {
		capacity = 0
	}
	return &Map{
		index:  make(map[int64]int64, capacity),
		unique: make([]int64, 0, capacity),
	}
}

// Len returns the number of distinct values seen so far.
func (m *Map) Len() int {
	return len(m.unique)
}

// Insert returns the dense id of v, assigning the next id if v is new.
func (m *Map) Insert(v int64) int64 {
	if id, ok := m.index[v]; ok {
		return id
	}
	id := int64(len(m.unique))
	m.index[v] = id
	m.unique = append(m.unique, v)
	return id
}

// Retain inserts every value of vals without producing relabeled output.
func (m *Map) Retain(vals []int64) {
	for _, v := range vals {
		m.Insert(v)
	}
}

// Relabel returns a new slice holding the dense id of every element of vals,
// inserting unseen values along the way.
func (m *Map) Relabel(vals []int64) []int64 {
	out := make([]int64, len(vals))
	for i, v := range vals {
		out[i] = m.Insert(v)
	}
	return out
}

// Lookup returns the dense id of v without inserting it.
func (m *Map) Lookup(v int64) (int64, bool) {
	id, ok := m.index[v]
	return id, ok
}

// Unique returns the distinct values; position i holds the value with dense id i.
// The slice aliases the map's storage and grows with further inserts.
func (m *Map) Unique() []int64 {
	return m.unique
}

// DedupRelabel deduplicates values and returns, for every input position, the
// index of that value in unique. Every element of retain is guaranteed a slot
// in unique, even if it does not occur in values.
//
// unique[compacted[p]] == values[p] holds for every p. Callers should treat the
// order of unique as unspecified.
func DedupRelabel(values, retain []int64) (unique, compacted []int64) {
	m := New(len(values) + len(retain))
	m.Retain(retain)
	compacted = m.Relabel(values)
	return m.Unique(), compacted
}

// DedupRelabelPair relabels src and dst through one shared Map so that a value
// occurring in both receives the same dense id.
func DedupRelabelPair(src, dst, retain []int64) (unique, compactedSrc, compactedDst []int64) {
	m := New(len(src) + len(dst) + len(retain))
	m.Retain(retain)
	compactedSrc = m.Relabel(src)
	compactedDst = m.Relabel(dst)
	return m.Unique(), compactedSrc, compactedDst
}
