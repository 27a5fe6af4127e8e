package ndarray

import (
	"errors"
	"fmt"
	"hash/crc32"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects how the payload of a native file is stored.
type Compression uint8

const (
	// CompressionNone stores the payload verbatim.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast decode).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses zstd (better ratio).
	CompressionZSTD Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// ParseCompression parses "none", "lz4" or "zstd". The empty string means none.
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZSTD, nil
	default:
		return CompressionNone, fmt.Errorf("ndarray: unknown compression %q", s)
	}
}

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

func checksum(b []byte) uint32 {
	return crc32.Checksum(b, castagnoli)
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() (*zstd.Encoder, error) {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault), zstd.WithEncoderConcurrency(1))
}

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
}

// compress returns the stored payload and the compression actually applied.
// Payloads that do not shrink below 90% of their size are stored verbatim.
func compress(raw []byte, c Compression) ([]byte, Compression, error) {
	if len(raw) == 0 {
		return raw, CompressionNone, nil
	}

	var out []byte
	switch c {
	case CompressionNone:
		return raw, CompressionNone, nil
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(raw)))
		n, err := lz4.CompressBlock(raw, buf, nil)
		if err != nil {
			return nil, c, fmt.Errorf("ndarray: lz4 compress: %w", err)
		}
		out = buf[:n]
	case CompressionZSTD:
		enc, err := getZstdEncoder()
		if err != nil {
			return nil, c, fmt.Errorf("ndarray: zstd encoder: %w", err)
		}
		out = enc.EncodeAll(raw, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, c, fmt.Errorf("ndarray: unknown compression %s", c)
	}

	if len(out) == 0 || float64(len(out)) > float64(len(raw))*0.9 {
		return raw, CompressionNone, nil
	}
	return out, c, nil
}

// decompress expands stored into dst, which must have the exact raw length.
func decompress(dst, stored []byte, c Compression) error {
	switch c {
	case CompressionNone:
		if len(stored) != len(dst) {
			return fmt.Errorf("%w: stored %d bytes, want %d", ErrCorrupted, len(stored), len(dst))
		}
		copy(dst, stored)
		return nil
	case CompressionLZ4:
		n, err := lz4.UncompressBlock(stored, dst)
		if err != nil {
			return fmt.Errorf("%w: lz4: %w", ErrCorrupted, err)
		}
		if n != len(dst) {
			return fmt.Errorf("%w: lz4 decoded %d bytes, want %d", ErrCorrupted, n, len(dst))
		}
		return nil
	case CompressionZSTD:
		dec, err := getZstdDecoder()
		if err != nil {
			return fmt.Errorf("ndarray: zstd decoder: %w", err)
		}
		defer zstdDecoderPool.Put(dec)
		out, err := dec.DecodeAll(stored, dst[:0])
		if err != nil {
			return fmt.Errorf("%w: zstd: %w", ErrCorrupted, err)
		}
		if len(out) != len(dst) {
			return fmt.Errorf("%w: zstd decoded %d bytes, want %d", ErrCorrupted, len(out), len(dst))
		}
		copy(dst, out)
		return nil
	default:
		return errors.Join(ErrCorrupted, fmt.Errorf("ndarray: unknown compression %s", c))
	}
}

// maxExpansion bounds the ratio of raw to stored bytes a codec can produce.
// LZ4 sequences expand at most 255:1; a zstd RLE block turns 4 bytes into
// 128 KiB.
func maxExpansion(c Compression) uint64 {
	switch c {
	case CompressionLZ4:
		return 256
	case CompressionZSTD:
		return 1 << 16
	default:
		return 1
	}
}
