// Package featurestore provides keyed storage of dense feature arrays.
//
// A feature is one ndarray.Array addressed by a composite Key: the domain it
// describes (node, edge or graph), an optional node/edge type and a name.
// Features are read by row ids (gather) and updated in place (scatter).
//
// Stores are built once from descriptors with Load:
//
//	m, err := featurestore.ReadManifest(f, codec.YAML{})
//	store, err := featurestore.Load(ctx, m.Features,
//	    featurestore.WithBlobStore(blobstore.NewLocalStore("/data/graph")),
//	)
//	defer store.Close()
//
//	x, err := store.Read(featurestore.NodeKey("paper", "feat"), ids)
//
// The set of features is fixed after construction. Reads may run
// concurrently; updates to overlapping rows must be serialized by the caller.
package featurestore
