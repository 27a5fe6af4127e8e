package ndarray

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hupe1980/minibatch/internal/conv"
)

const (
	// ColumnarMagic identifies columnar files (ASCII: "MBC0").
	ColumnarMagic uint32 = 0x4D424330

	// ColumnarVersion is the current columnar format version.
	ColumnarVersion uint16 = 1

	// ColumnarHeaderSize is the size of the columnar header in bytes. Data
	// written by WriteColumnar starts right after it.
	ColumnarHeaderSize = 64
)

// columnarHeader is the fixed 64-byte header of a columnar file. All fields
// are little-endian:
//
//	[0:4]   magic
//	[4:6]   version
//	[6]     dtype
//	[7]     ndim
//	[8:16]  data offset
//	[16:48] shape, 4 x uint64 (unused dims are zero)
//	[48:60] reserved
//	[60:64] CRC32C of bytes [0:60]
type columnarHeader struct {
	Version    uint16
	DType      DType
	Shape      []int
	DataOffset uint64
}

func (h *columnarHeader) marshal() []byte {
	buf := make([]byte, ColumnarHeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], ColumnarMagic)
	binary.LittleEndian.PutUint16(buf[4:6], h.Version)
	buf[6] = byte(h.DType)
	buf[7] = byte(len(h.Shape))
	binary.LittleEndian.PutUint64(buf[8:16], h.DataOffset)
	for i, d := range h.Shape {
		binary.LittleEndian.PutUint64(buf[16+8*i:], uint64(d)) //nolint:gosec // shape is validated non-negative
	}
	binary.LittleEndian.PutUint32(buf[60:64], checksum(buf[:60]))
	return buf
}

func (h *columnarHeader) unmarshal(buf []byte) error {
	if len(buf) < ColumnarHeaderSize {
		return fmt.Errorf("%w: header needs %d bytes, got %d", ErrCorrupted, ColumnarHeaderSize, len(buf))
	}
	if binary.LittleEndian.Uint32(buf[0:4]) != ColumnarMagic {
		return ErrInvalidMagic
	}
	if binary.LittleEndian.Uint32(buf[60:64]) != checksum(buf[:60]) {
		return fmt.Errorf("%w: header checksum mismatch", ErrCorrupted)
	}
	h.Version = binary.LittleEndian.Uint16(buf[4:6])
	if h.Version == 0 || h.Version > ColumnarVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}
	h.DType = DType(buf[6])
	ndim := int(buf[7])
	if ndim == 0 || ndim > MaxDims {
		return fmt.Errorf("%w: rank %d", ErrCorrupted, ndim)
	}
	h.DataOffset = binary.LittleEndian.Uint64(buf[8:16])
	if h.DataOffset < ColumnarHeaderSize {
		return fmt.Errorf("%w: data offset %d inside header", ErrCorrupted, h.DataOffset)
	}
	h.Shape = make([]int, ndim)
	for i := range h.Shape {
		d, err := conv.Uint64ToInt(binary.LittleEndian.Uint64(buf[16+8*i:]))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCorrupted, err)
		}
		h.Shape[i] = d
	}
	return nil
}

// dataSize validates the header's dtype and shape and returns the payload size.
func (h *columnarHeader) dataSize() (int, error) {
	size, err := byteSize(h.DType, h.Shape)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCorrupted, err)
	}
	return size, nil
}

// WriteColumnar writes a in the columnar format.
func WriteColumnar(w io.Writer, a *Array) (int64, error) {
	h := columnarHeader{
		Version:    ColumnarVersion,
		DType:      a.dtype,
		Shape:      a.shape,
		DataOffset: ColumnarHeaderSize,
	}

	var written int64
	n, err := w.Write(h.marshal())
	written += int64(n)
	if err != nil {
		return written, err
	}
	n, err = w.Write(a.data)
	written += int64(n)
	return written, err
}

// ReadColumnar decodes a columnar file from r into a resident array.
func ReadColumnar(r io.Reader) (*Array, error) {
	return readColumnar(r, -1)
}

// ReadColumnarSized is ReadColumnar for a reader holding exactly size bytes.
// Headers describing more data than size are rejected before any data
// buffer is allocated.
func ReadColumnarSized(r io.Reader, size int64) (*Array, error) {
	if size < 0 {
		return nil, fmt.Errorf("%w: negative file size %d", ErrCorrupted, size)
	}
	return readColumnar(r, size)
}

// DecodeColumnar decodes a columnar file held in memory. The result owns a
// copy of the data.
func DecodeColumnar(b []byte) (*Array, error) {
	return readColumnar(bytes.NewReader(b), int64(len(b)))
}

// readColumnar decodes a columnar file. fileSize is the total size of the
// file, or negative if unknown.
func readColumnar(r io.Reader, fileSize int64) (*Array, error) {
	buf := make([]byte, ColumnarHeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("%w: short header: %w", ErrCorrupted, err)
	}
	var h columnarHeader
	if err := h.unmarshal(buf); err != nil {
		return nil, err
	}
	size, err := h.dataSize()
	if err != nil {
		return nil, err
	}
	off, err := conv.Uint64ToInt(h.DataOffset)
	if err != nil {
		return nil, fmt.Errorf("%w: data offset: %w", ErrCorrupted, err)
	}
	if fileSize >= 0 && (int64(off) > fileSize || int64(size) > fileSize-int64(off)) {
		return nil, fmt.Errorf("%w: file has %d bytes, data needs %d at offset %d", ErrCorrupted, fileSize, size, off)
	}
	if skip := off - ColumnarHeaderSize; skip > 0 {
		if _, err := io.CopyN(io.Discard, r, int64(skip)); err != nil {
			return nil, fmt.Errorf("%w: truncated before data: %w", ErrCorrupted, err)
		}
	}

	data, err := readAligned(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: truncated data: %w", ErrCorrupted, err)
	}
	return wrap(h.DType, h.Shape, data), nil
}
