package ndarray

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleArrays(t *testing.T) map[string]*Array {
	t.Helper()

	compressible := make([]float32, 4096)
	for i := range compressible {
		compressible[i] = float32(i % 7)
	}

	arrays := map[string]*Array{
		"uint8":   Vector[uint8](1, 2, 3),
		"int32":   Vector[int32](-1, 0, 1, 2),
		"int64":   Vector[int64](1 << 40, -5),
		"float64": Vector(0.5, 1.5),
		"empty":   Vector[int64](),
	}
	var err error
	arrays["float32 matrix"], err = FromSlice(compressible, 1024, 4)
	require.NoError(t, err)
	arrays["rank4"], err = FromSlice([]int32{1, 2, 3, 4, 5, 6, 7, 8}, 2, 2, 1, 2)
	require.NoError(t, err)
	return arrays
}

func TestNative_RoundTrip(t *testing.T) {
	for name, a := range sampleArrays(t) {
		for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
			t.Run(name+"/"+c.String(), func(t *testing.T) {
				var buf bytes.Buffer
				n, err := WriteNative(&buf, a, c)
				require.NoError(t, err)
				assert.Equal(t, int64(buf.Len()), n)

				got, err := DecodeNative(buf.Bytes())
				require.NoError(t, err)
				assert.True(t, a.Equal(got), "got %v want %v", got, a)
			})
		}
	}
}

func TestNative_CompressesRedundantData(t *testing.T) {
	a, err := New(Float64, 8192)
	require.NoError(t, err)

	var plain, packed bytes.Buffer
	_, err = WriteNative(&plain, a, CompressionNone)
	require.NoError(t, err)
	_, err = WriteNative(&packed, a, CompressionZSTD)
	require.NoError(t, err)

	assert.Less(t, packed.Len(), plain.Len()/2)
}

func TestNative_Corruption(t *testing.T) {
	var buf bytes.Buffer
	_, err := WriteNative(&buf, Vector[int64](1, 2, 3), CompressionNone)
	require.NoError(t, err)
	valid := buf.Bytes()

	t.Run("bad magic", func(t *testing.T) {
		b := bytes.Clone(valid)
		b[0] ^= 0xFF
		_, err := DecodeNative(b)
		assert.ErrorIs(t, err, ErrInvalidMagic)
	})

	t.Run("future version", func(t *testing.T) {
		b := bytes.Clone(valid)
		binary.LittleEndian.PutUint16(b[4:6], NativeVersion+1)
		_, err := DecodeNative(b)
		assert.ErrorIs(t, err, ErrUnsupportedVersion)
	})

	t.Run("flipped payload bit", func(t *testing.T) {
		b := bytes.Clone(valid)
		b[len(b)-1] ^= 0x01
		_, err := DecodeNative(b)
		assert.ErrorIs(t, err, ErrCorrupted)
	})

	t.Run("truncated", func(t *testing.T) {
		_, err := DecodeNative(valid[:len(valid)-4])
		assert.ErrorIs(t, err, ErrCorrupted)
	})

	t.Run("columnar file", func(t *testing.T) {
		var col bytes.Buffer
		_, err := WriteColumnar(&col, Vector[int64](1))
		require.NoError(t, err)
		_, err = DecodeNative(col.Bytes())
		assert.ErrorIs(t, err, ErrInvalidMagic)
	})
}

func TestNative_CorruptedLengths(t *testing.T) {
	var buf bytes.Buffer
	_, err := WriteNative(&buf, Vector[int64](1, 2, 3), CompressionNone)
	require.NoError(t, err)
	valid := buf.Bytes()

	// Rank-1 header: shape at [16:24], raw length at [24:32], stored length
	// at [32:40].
	tests := []struct {
		name   string
		mutate func(b []byte)
	}{
		{"huge stored length", func(b []byte) {
			binary.LittleEndian.PutUint64(b[32:40], 1<<62)
		}},
		{"stored length differs from raw for verbatim payload", func(b []byte) {
			binary.LittleEndian.PutUint64(b[32:40], 16)
		}},
		{"compressed payload not smaller than raw", func(b []byte) {
			b[7] = byte(CompressionLZ4)
		}},
		{"unknown compression", func(b []byte) {
			b[7] = 0x7F
		}},
		{"huge shape", func(b []byte) {
			binary.LittleEndian.PutUint64(b[16:24], 1<<40)
			binary.LittleEndian.PutUint64(b[24:32], 8<<40)
			binary.LittleEndian.PutUint64(b[32:40], 8<<40)
		}},
		{"raw length does not match shape", func(b []byte) {
			binary.LittleEndian.PutUint64(b[24:32], 1<<62)
		}},
		{"overflowing shape", func(b []byte) {
			binary.LittleEndian.PutUint64(b[16:24], 1<<63)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := bytes.Clone(valid)
			tt.mutate(b)

			_, err := DecodeNative(b)
			assert.ErrorIs(t, err, ErrCorrupted)

			_, err = ReadNative(bytes.NewReader(b))
			assert.ErrorIs(t, err, ErrCorrupted)
		})
	}
}

func TestReadNativeSized(t *testing.T) {
	var buf bytes.Buffer
	a := Vector[float32](1, 2, 3, 4)
	_, err := WriteNative(&buf, a, CompressionNone)
	require.NoError(t, err)
	valid := buf.Bytes()

	got, err := ReadNativeSized(bytes.NewReader(valid), int64(len(valid)))
	require.NoError(t, err)
	assert.True(t, a.Equal(got))

	_, err = ReadNativeSized(bytes.NewReader(valid), int64(len(valid)-1))
	assert.ErrorIs(t, err, ErrCorrupted)

	_, err = ReadNativeSized(bytes.NewReader(valid), -1)
	assert.ErrorIs(t, err, ErrCorrupted)
}

func TestColumnar_RoundTrip(t *testing.T) {
	for name, a := range sampleArrays(t) {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			n, err := WriteColumnar(&buf, a)
			require.NoError(t, err)
			assert.Equal(t, int64(ColumnarHeaderSize+len(a.Bytes())), n)

			got, err := DecodeColumnar(buf.Bytes())
			require.NoError(t, err)
			assert.True(t, a.Equal(got))
		})
	}
}

func TestColumnar_Corruption(t *testing.T) {
	var buf bytes.Buffer
	_, err := WriteColumnar(&buf, Vector[int32](1, 2))
	require.NoError(t, err)
	valid := buf.Bytes()

	b := bytes.Clone(valid)
	b[16] ^= 0x01
	_, err = DecodeColumnar(b)
	assert.ErrorIs(t, err, ErrCorrupted, "header checksum")

	_, err = DecodeColumnar(valid[:ColumnarHeaderSize+4])
	assert.ErrorIs(t, err, ErrCorrupted, "truncated data")

	_, err = DecodeColumnar(valid[:10])
	assert.ErrorIs(t, err, ErrCorrupted, "short header")
}

func TestColumnar_CorruptedHeader(t *testing.T) {
	var buf bytes.Buffer
	_, err := WriteColumnar(&buf, Vector[int32](1, 2))
	require.NoError(t, err)
	valid := buf.Bytes()

	tests := []struct {
		name   string
		mutate func(b []byte)
	}{
		{"data offset beyond int64", func(b []byte) {
			binary.LittleEndian.PutUint64(b[8:16], 1<<63)
		}},
		{"data offset beyond file", func(b []byte) {
			binary.LittleEndian.PutUint64(b[8:16], uint64(len(b)+100))
		}},
		{"huge shape", func(b []byte) {
			binary.LittleEndian.PutUint64(b[16:24], 1<<40)
		}},
		{"overflowing shape", func(b []byte) {
			binary.LittleEndian.PutUint64(b[16:24], 1<<62)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := bytes.Clone(valid)
			tt.mutate(b)
			binary.LittleEndian.PutUint32(b[60:64], checksum(b[:60]))

			_, err := DecodeColumnar(b)
			assert.ErrorIs(t, err, ErrCorrupted)

			_, err = ReadColumnar(bytes.NewReader(b))
			assert.ErrorIs(t, err, ErrCorrupted)

			_, err = ReadColumnarSized(bytes.NewReader(b), int64(len(b)))
			assert.ErrorIs(t, err, ErrCorrupted)
		})
	}
}

func writeColumnarFile(t *testing.T, a *Array) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "feature.col")
	f, err := os.Create(path)
	require.NoError(t, err)
	_, err = WriteColumnar(f, a)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return path
}

func TestMapColumnar(t *testing.T) {
	src, err := FromSlice([]float32{1, 2, 3, 4, 5, 6}, 3, 2)
	require.NoError(t, err)
	path := writeColumnarFile(t, src)

	m, err := MapColumnar(path)
	require.NoError(t, err)
	assert.True(t, src.Equal(m.Array))

	rows, err := m.Gather([]int64{1})
	require.NoError(t, err)
	vals, _ := As[float32](rows)
	assert.Equal(t, []float32{3, 4}, vals)

	update, err := FromSlice([]float32{7, 8}, 1, 2)
	require.NoError(t, err)
	require.NoError(t, m.Scatter([]int64{2}, update))
	require.NoError(t, m.Close())

	reopened, err := MapColumnar(path)
	require.NoError(t, err)
	defer reopened.Close()
	vals, _ = As[float32](reopened.Array)
	assert.Equal(t, []float32{1, 2, 3, 4, 7, 8}, vals)
}

func TestMapColumnar_Invalid(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.col")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err := MapColumnar(empty)
	assert.ErrorIs(t, err, ErrCorrupted)

	var buf bytes.Buffer
	_, err = WriteNative(&buf, Vector[int64](1), CompressionNone)
	require.NoError(t, err)
	native := filepath.Join(dir, "native.bin")
	require.NoError(t, os.WriteFile(native, buf.Bytes(), 0o644))
	_, err = MapColumnar(native)
	assert.Error(t, err)

	buf.Reset()
	_, err = WriteColumnar(&buf, Vector[int64](1, 2, 3))
	require.NoError(t, err)
	short := filepath.Join(dir, "short.col")
	require.NoError(t, os.WriteFile(short, buf.Bytes()[:buf.Len()-8], 0o644))
	_, err = MapColumnar(short)
	assert.ErrorIs(t, err, ErrCorrupted)

	_, err = MapColumnar(filepath.Join(dir, "missing.col"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseCompression(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		got, err := ParseCompression(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err := ParseCompression("snappy")
	assert.Error(t, err)
}
