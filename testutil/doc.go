// Package testutil provides testing utilities for minibatch.
//
// This package is intended for use in tests and benchmarks only.
// It generates seeded random id batches shaped like the output of a
// neighbor sampler.
//
// # Random IDs
//
//	rng := testutil.NewRNG(seed)
//	ids := rng.IDs(1000, 50)            // uniform in [0, 50)
//	hubs := rng.ZipfIDs(1000, 50, 1.5)  // power law, few hot nodes
//	chunks := rng.Chunks(4, 16, 50)     // 4 chunks of 16 ids
//
// # Adjacency
//
//	src, dst := rng.NodePairs(100, 20, 10)
//	indptr, indices := rng.CSC(10, 5, 20)
package testutil
