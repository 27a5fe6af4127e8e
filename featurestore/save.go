package featurestore

import (
	"bytes"
	"context"
	"fmt"

	"github.com/hupe1980/minibatch/blobstore"
	"github.com/hupe1980/minibatch/ndarray"
)

// Save encodes a in d.Format and stores it in bs under d.Path. Compression
// applies to the native format only.
func Save(ctx context.Context, bs blobstore.BlobStore, d Descriptor, a *ndarray.Array, c ndarray.Compression) error {
	if d.Path == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidDescriptor)
	}
	if a == nil {
		return fmt.Errorf("%w: nil array", ErrPrecondition)
	}

	var buf bytes.Buffer
	buf.Grow(ndarray.ColumnarHeaderSize + len(a.Bytes()))

	var err error
	switch d.Format {
	case FormatNative:
		_, err = ndarray.WriteNative(&buf, a, c)
	case FormatColumnar:
		_, err = ndarray.WriteColumnar(&buf, a)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownFormat, d.Format)
	}
	if err != nil {
		return err
	}
	return bs.Put(ctx, d.Path, buf.Bytes())
}
