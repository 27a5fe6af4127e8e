package testutil

import (
	"math"
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), //nolint:gosec // deterministic test data
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// IDs returns n ids drawn uniformly from [0, maxID). Duplicates are likely
// when n approaches maxID.
func (r *RNG) IDs(n int, maxID int64) []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.idsLocked(n, maxID)
}

func (r *RNG) idsLocked(n int, maxID int64) []int64 {
	ids := make([]int64, n)
	for i := range ids {
		ids[i] = r.rand.Int63n(maxID)
	}
	return ids
}

// Chunks returns numChunks chunks of random length in [0, maxLen] with ids
// in [0, maxID).
func (r *RNG) Chunks(numChunks, maxLen int, maxID int64) [][]int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	chunks := make([][]int64, numChunks)
	for i := range chunks {
		chunks[i] = r.idsLocked(r.rand.Intn(maxLen+1), maxID)
	}
	return chunks
}

// Permutation returns a random permutation of [0, n) as ids.
func (r *RNG) Permutation(n int) []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]int64, n)
	for i, p := range r.rand.Perm(n) {
		ids[i] = int64(p)
	}
	return ids
}

// Zipf returns a Zipfian-distributed value in [0, n).
// Uses Zipf's law: P(k) ∝ 1/k^s where s is the skew parameter.
// s=1.0 gives standard Zipf, s=1.5 gives heavy-tail (80/20 rule).
// Sampled neighborhoods look like this: a few hub nodes recur in most batches.
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zipfLocked(n, s)
}

// zipfLocked is the internal implementation (caller must hold lock).
func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}

	// Normalization constant (harmonic number with exponent s).
	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}

	// Inverse transform sampling.
	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1 // 0-indexed
		}
	}

	return n - 1
}

// ZipfIDs returns n ids in [0, maxID) with a Zipfian distribution, so that
// a few ids dominate.
func (r *RNG) ZipfIDs(n int, maxID int, s float64) []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]int64, n)
	for i := range ids {
		ids[i] = int64(r.zipfLocked(maxID, s))
	}
	return ids
}

// NodePairs returns n random edges with sources in [0, maxSrc) and
// destinations in [0, maxDst).
func (r *RNG) NodePairs(n int, maxSrc, maxDst int64) (src, dst []int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.idsLocked(n, maxSrc), r.idsLocked(n, maxDst)
}

// CSC returns a random CSC block with numDst columns, each with a degree in
// [0, maxDegree], and source ids in [0, maxID).
func (r *RNG) CSC(numDst, maxDegree int, maxID int64) (indptr, indices []int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	indptr = make([]int64, numDst+1)
	for i := range numDst {
		indptr[i+1] = indptr[i] + int64(r.rand.Intn(maxDegree+1))
	}
	indices = r.idsLocked(int(indptr[numDst]), maxID)
	return indptr, indices
}

// Lookup returns table[idx[i]] for every i. It inverts a compaction: given
// the unique ids and the compacted ids it reproduces the original ids.
func Lookup(table, idx []int64) []int64 {
	out := make([]int64, len(idx))
	for i, j := range idx {
		out[i] = table[j]
	}
	return out
}
