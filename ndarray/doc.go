// Package ndarray provides typed, shaped, row-addressable dense arrays.
//
// An Array holds elements of one DType laid out row-major. The first
// dimension indexes rows; the remaining dimensions describe the shape of a
// single row. Storage is either resident memory or a writable shared memory
// mapping of a columnar file (see MapColumnar), in which case updates write
// through to the file.
//
// Two on-disk formats are supported:
//
//   - native: a small header followed by a payload compressed with LZ4 or
//     zstd. It must be decoded into memory.
//   - columnar: a fixed 64-byte header followed by raw row-major data. It can
//     be memory mapped and paged lazily.
//
// Arrays are not safe for concurrent mutation. Concurrent reads are safe as
// long as no goroutine writes to overlapping rows.
package ndarray
