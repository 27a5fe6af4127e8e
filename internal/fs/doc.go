// Package fs provides filesystem abstractions for testability and fault injection.
//
// The package defines two key interfaces:
//
//   - [File]: an open file with positional read/write and sync
//   - [FileSystem]: the handful of filesystem operations the loader needs
//
// # Implementations
//
//   - [LocalFS]: production implementation using the os package
//   - [FaultyFS]: test utility that injects write, sync and close failures
//
// Feature loading uses a FileSystem to spill remote columnar blobs into a local
// file before mapping them; tests swap in a FaultyFS to exercise the cleanup
// paths.
//
// Operations take no context.Context: local filesystem calls are not
// interruptible at the syscall level. Slow remote reads go through blobstore.
package fs
