// Package mmap provides shared file mappings for lazily paged arrays.
//
// A read-only mapping gives zero-copy access to a file; a read-write mapping
// additionally lets callers mutate the file contents in place. Pages are
// faulted in on first access, so opening a large feature file is cheap and
// reads pay disk latency only for the rows they touch.
//
// # Usage
//
//	m, err := mmap.Open("feat.col", mmap.ReadWrite)
//	if err != nil { ... }
//	defer m.Close()
//
//	data := m.Bytes()
//	data[0] = 1          // visible to every other mapping of the file
//	_ = m.Sync()         // flush dirty pages
//
// # Platform Support
//
//   - Unix: mmap(2) with MAP_SHARED, msync(2) and madvise(2)
//   - Windows: CreateFileMapping/MapViewOfFile, FlushViewOfFile (advise is a no-op)
//
// # Thread Safety
//
// Close is idempotent. Concurrent readers of Bytes are safe; concurrent writers
// to overlapping ranges are not synchronized. Callers must not touch the slice
// returned by Bytes after Close returns.
package mmap
