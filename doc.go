// Package minibatch prepares graph mini-batches for training: it serves node,
// edge and graph features from a keyed feature store and compacts sampled
// subgraphs into dense local id spaces.
//
// # Quick Start
//
// Load features listed in a manifest and read rows of one of them:
//
//	ctx := context.Background()
//	eng, _ := minibatch.OpenManifest(ctx, "features.yaml",
//	    minibatch.WithBlobStore(blobstore.NewLocalStore("./data")))
//	defer eng.Close()
//
//	rows, _ := eng.ReadFeature(ctx, featurestore.NodeKey("paper", "feat"), []int64{3, 1, 4})
//
// Features can also live in S3 or MinIO:
//
//	bs, _ := s3.New(ctx, "my-bucket", s3.WithPrefix("features/"))
//	eng, _ := minibatch.OpenManifest(ctx, "features.json",
//	    minibatch.WithBlobStore(bs), minibatch.WithSpillDir("/fast/nvme"))
//
// Lazily paged columnar features from remote stores are spilled to a local
// file and mapped from there.
//
// # Compaction
//
// A sampler produces edges in global node ids. The compactors relabel them
// into a dense local id space per node type, keeping the seed (destination)
// nodes first:
//
//	pairs := map[compact.EdgeType]compact.NodePair{
//	    compact.MustParseEdgeType("author:writes:paper"): {Src: []int64{7, 9}, Dst: []int64{3, 3}},
//	}
//	unique, local, _ := eng.UniqueAndCompactNodePairs(ctx, pairs, nil)
//	// unique["paper"] = [3], unique["author"] = [7 9]
//	// local[...] = {Src: [0 1], Dst: [0 0]}
//
// The compact package can be used directly when logging and metrics are not
// needed.
//
// # Observability
//
// Every operation is logged through a slog-based Logger and reported to a
// MetricsCollector. BasicMetricsCollector keeps in-memory counters;
// promcollector.Collector exports Prometheus metrics.
package minibatch
