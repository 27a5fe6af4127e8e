package ndarray

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hupe1980/minibatch/internal/conv"
)

const (
	// NativeMagic identifies native files (ASCII: "MBN0").
	NativeMagic uint32 = 0x4D424E30

	// NativeVersion is the current native format version.
	NativeVersion uint16 = 1

	nativeFixedSize = 16
)

// nativeHeader precedes the payload of a native file. All fields are
// little-endian:
//
//	[0:4]   magic
//	[4:6]   version
//	[6]     dtype
//	[7]     compression
//	[8]     ndim
//	[9:16]  reserved
//	        shape      ndim x uint64
//	        rawLen     uint64
//	        storedLen  uint64
//	        checksum   uint32 (CRC32C of the raw payload)
type nativeHeader struct {
	Version     uint16
	DType       DType
	Compression Compression
	Shape       []int
	RawLen      uint64
	StoredLen   uint64
	Checksum    uint32
}

func (h *nativeHeader) size() int {
	return nativeFixedSize + 8*len(h.Shape) + 8 + 8 + 4
}

func (h *nativeHeader) marshal() []byte {
	buf := make([]byte, h.size())
	binary.LittleEndian.PutUint32(buf[0:4], NativeMagic)
	binary.LittleEndian.PutUint16(buf[4:6], h.Version)
	buf[6] = byte(h.DType)
	buf[7] = byte(h.Compression)
	buf[8] = byte(len(h.Shape))

	off := nativeFixedSize
	for _, d := range h.Shape {
		binary.LittleEndian.PutUint64(buf[off:], uint64(d)) //nolint:gosec // shape is validated non-negative
		off += 8
	}
	binary.LittleEndian.PutUint64(buf[off:], h.RawLen)
	binary.LittleEndian.PutUint64(buf[off+8:], h.StoredLen)
	binary.LittleEndian.PutUint32(buf[off+16:], h.Checksum)
	return buf
}

func (h *nativeHeader) readFrom(r io.Reader) error {
	var fixed [nativeFixedSize]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		return fmt.Errorf("%w: short header: %w", ErrCorrupted, err)
	}
	if binary.LittleEndian.Uint32(fixed[0:4]) != NativeMagic {
		return ErrInvalidMagic
	}
	h.Version = binary.LittleEndian.Uint16(fixed[4:6])
	if h.Version == 0 || h.Version > NativeVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}
	h.DType = DType(fixed[6])
	h.Compression = Compression(fixed[7])
	ndim := int(fixed[8])
	if ndim == 0 || ndim > MaxDims {
		return fmt.Errorf("%w: rank %d", ErrCorrupted, ndim)
	}

	rest := make([]byte, 8*ndim+8+8+4)
	if _, err := io.ReadFull(r, rest); err != nil {
		return fmt.Errorf("%w: short header: %w", ErrCorrupted, err)
	}
	h.Shape = make([]int, ndim)
	for i := range h.Shape {
		d, err := conv.Uint64ToInt(binary.LittleEndian.Uint64(rest[8*i:]))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCorrupted, err)
		}
		h.Shape[i] = d
	}
	off := 8 * ndim
	h.RawLen = binary.LittleEndian.Uint64(rest[off:])
	h.StoredLen = binary.LittleEndian.Uint64(rest[off+8:])
	h.Checksum = binary.LittleEndian.Uint32(rest[off+16:])
	return nil
}

// WriteNative writes a in the native format, compressing the payload with c.
// If compression does not pay off the payload is stored verbatim.
func WriteNative(w io.Writer, a *Array, c Compression) (int64, error) {
	stored, used, err := compress(a.data, c)
	if err != nil {
		return 0, err
	}

	h := nativeHeader{
		Version:     NativeVersion,
		DType:       a.dtype,
		Compression: used,
		Shape:       a.shape,
		RawLen:      uint64(len(a.data)),
		StoredLen:   uint64(len(stored)),
		Checksum:    checksum(a.data),
	}

	var written int64
	n, err := w.Write(h.marshal())
	written += int64(n)
	if err != nil {
		return written, err
	}
	n, err = w.Write(stored)
	written += int64(n)
	return written, err
}

// ReadNative decodes a native file from r into a resident array.
func ReadNative(r io.Reader) (*Array, error) {
	return readNative(r, -1)
}

// ReadNativeSized is ReadNative for a reader holding exactly size bytes.
// Header lengths that do not fit in size are rejected before any payload
// buffer is allocated.
func ReadNativeSized(r io.Reader, size int64) (*Array, error) {
	if size < 0 {
		return nil, fmt.Errorf("%w: negative file size %d", ErrCorrupted, size)
	}
	return readNative(r, size)
}

// DecodeNative decodes a native file held in memory.
func DecodeNative(b []byte) (*Array, error) {
	return readNative(bytes.NewReader(b), int64(len(b)))
}

// readNative decodes a native file. fileSize is the total size of the file,
// or negative if unknown.
func readNative(r io.Reader, fileSize int64) (*Array, error) {
	var h nativeHeader
	if err := h.readFrom(r); err != nil {
		return nil, err
	}

	size, err := byteSize(h.DType, h.Shape)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupted, err)
	}
	if uint64(size) != h.RawLen {
		return nil, fmt.Errorf("%w: raw length %d does not match shape %v", ErrCorrupted, h.RawLen, h.Shape)
	}
	if err := h.checkStoredLen(fileSize); err != nil {
		return nil, err
	}

	stored, err := readAligned(r, int(h.StoredLen)) //nolint:gosec // bounded by RawLen
	if err != nil {
		return nil, fmt.Errorf("%w: truncated payload: %w", ErrCorrupted, err)
	}
	if uint64(len(stored))*maxExpansion(h.Compression) < h.RawLen {
		return nil, fmt.Errorf("%w: %d stored bytes cannot expand to %d", ErrCorrupted, len(stored), h.RawLen)
	}

	a := wrap(h.DType, h.Shape, alignedBytes(size))
	if err := decompress(a.data, stored, h.Compression); err != nil {
		return nil, err
	}
	if checksum(a.data) != h.Checksum {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorrupted)
	}
	return a, nil
}

// checkStoredLen bounds the stored length by the raw length and, if known,
// by the bytes left in the file. Compressed payloads are always smaller than
// the raw payload; see compress.
func (h *nativeHeader) checkStoredLen(fileSize int64) error {
	switch h.Compression {
	case CompressionNone:
		if h.StoredLen != h.RawLen {
			return fmt.Errorf("%w: stored length %d, want %d", ErrCorrupted, h.StoredLen, h.RawLen)
		}
	case CompressionLZ4, CompressionZSTD:
		if h.StoredLen >= h.RawLen {
			return fmt.Errorf("%w: compressed length %d not below raw length %d", ErrCorrupted, h.StoredLen, h.RawLen)
		}
	default:
		return fmt.Errorf("%w: unknown compression %s", ErrCorrupted, h.Compression)
	}
	if fileSize >= 0 {
		left := fileSize - int64(h.size())
		if left < 0 || h.StoredLen > uint64(left) {
			return fmt.Errorf("%w: payload of %d bytes exceeds file size %d", ErrCorrupted, h.StoredLen, fileSize)
		}
	}
	return nil
}
