// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("features/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	eng, err := minibatch.Open(ctx, descriptors, minibatch.WithBlobStore(store))
//
// # Features
//
//   - Range reads for sequential decoding of native feature files
//   - Parallel ranged downloads when a columnar feature is spilled to disk
//   - Multipart uploads with CRC32C checksums
//   - Automatic pagination for listing
package s3
