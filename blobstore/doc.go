// Package blobstore provides the storage abstraction feature files are read
// from.
//
// A descriptor's path names a blob; the configured BlobStore resolves it.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, blobs are memory mapped read-only
//   - MemoryStore: in-process map, for tests and generated features
//   - s3.Store: Amazon S3 with range reads and multipart transfers
//   - minio.Store: MinIO and other S3-compatible services
//
// # Optional capabilities
//
// Stores and blobs may implement extra interfaces that loaders probe for:
//
//	Mappable   // blob exposes its bytes without copying
//	Locator    // store can name a local file for a blob (enables direct mmap)
//	Downloader // blob can fetch itself in parallel into an io.WriterAt
package blobstore
