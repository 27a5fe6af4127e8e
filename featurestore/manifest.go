package featurestore

import (
	"context"
	"fmt"
	"io"

	"github.com/hupe1980/minibatch/blobstore"
	"github.com/hupe1980/minibatch/codec"
)

// Manifest lists the features of a store.
type Manifest struct {
	Features []Descriptor `json:"features" yaml:"features"`
}

// ReadManifest decodes a manifest from r. A nil codec means codec.Default.
func ReadManifest(r io.Reader, c codec.Codec) (*Manifest, error) {
	if c == nil {
		c = codec.Default
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := c.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: decode %s manifest: %w", ErrInvalidDescriptor, c.Name(), err)
	}
	return &m, nil
}

// WriteManifest encodes m to w. A nil codec means codec.Default.
func WriteManifest(w io.Writer, c codec.Codec, m *Manifest) error {
	if c == nil {
		c = codec.Default
	}
	data, err := c.Marshal(m)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// LoadManifest reads the manifest blob name from bs and loads the features it
// lists from the same store. Unless WithCodec is given, the codec is chosen
// by the extension of name.
func LoadManifest(ctx context.Context, bs blobstore.BlobStore, name string, optFns ...Option) (*BasicStore, error) {
	var o options
	for _, fn := range optFns {
		fn(&o)
	}
	c := o.codec
	if c == nil {
		var err error
		if c, err = codec.ForPath(name); err != nil {
			return nil, err
		}
	}
	b, err := bs.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = b.Close() }()

	rc, err := b.ReadRange(ctx, 0, b.Size())
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", name, err)
	}
	defer func() { _ = rc.Close() }()

	m, err := ReadManifest(rc, c)
	if err != nil {
		return nil, err
	}
	return Load(ctx, m.Features, append([]Option{WithBlobStore(bs)}, optFns...)...)
}
