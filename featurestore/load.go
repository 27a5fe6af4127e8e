package featurestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/minibatch/blobstore"
	"github.com/hupe1980/minibatch/codec"
	ifs "github.com/hupe1980/minibatch/internal/fs"
	"github.com/hupe1980/minibatch/ndarray"
	"github.com/hupe1980/minibatch/resource"
)

type options struct {
	logger   *slog.Logger
	blobs    blobstore.BlobStore
	rc       *resource.Controller
	spillDir string
	fs       ifs.FileSystem
	codec    codec.Codec
}

// Option configures Load.
type Option func(*options)

// WithLogger sets the logger. Loaded features are logged at debug level,
// failures at error level.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithBlobStore sets the store descriptor paths are resolved against.
// The default is a LocalStore rooted at the working directory.
func WithBlobStore(bs blobstore.BlobStore) Option {
	return func(o *options) { o.blobs = bs }
}

// WithController bounds memory, load concurrency and IO.
// The default allows GOMAXPROCS concurrent loads and no other limits.
func WithController(rc *resource.Controller) Option {
	return func(o *options) { o.rc = rc }
}

// WithSpillDir sets the directory lazily paged features from remote blob
// stores are copied to. The default is os.TempDir().
func WithSpillDir(dir string) Option {
	return func(o *options) { o.spillDir = dir }
}

// WithFileSystem sets the file system used for spill files.
func WithFileSystem(fsys ifs.FileSystem) Option {
	return func(o *options) { o.fs = fsys }
}

// WithCodec sets the codec LoadManifest decodes the manifest with instead of
// picking one by file extension. Load ignores it.
func WithCodec(c codec.Codec) Option {
	return func(o *options) { o.codec = c }
}

// Load builds a BasicStore from descriptors.
//
// All descriptors are validated before any storage is touched. Features are
// then loaded concurrently; the first failure cancels the remaining loads
// and closes every feature loaded so far. The store lists features in
// descriptor order.
func Load(ctx context.Context, descs []Descriptor, optFns ...Option) (*BasicStore, error) {
	o := options{
		logger:   slog.New(slog.DiscardHandler),
		spillDir: os.TempDir(),
		fs:       ifs.Default,
	}
	for _, fn := range optFns {
		fn(&o)
	}
	if o.blobs == nil {
		o.blobs = blobstore.NewLocalStore("")
	}
	if o.rc == nil {
		o.rc = resource.NewController(resource.Config{MaxLoadWorkers: int64(runtime.GOMAXPROCS(0))})
	}

	seen := make(map[Key]int, len(descs))
	for i, d := range descs {
		if err := d.Validate(); err != nil {
			return nil, &DescriptorError{Index: i, Key: d.Key(), Err: err}
		}
		if j, ok := seen[d.Key()]; ok {
			return nil, &DescriptorError{
				Index: i,
				Key:   d.Key(),
				Err:   fmt.Errorf("%w: also declared by descriptor %d", ErrDuplicateKey, j),
			}
		}
		seen[d.Key()] = i
	}

	features := make([]*ArrayFeature, len(descs))
	g, gctx := errgroup.WithContext(ctx)
	for i, d := range descs {
		g.Go(func() error {
			if err := o.rc.AcquireWorker(gctx); err != nil {
				return err
			}
			defer o.rc.ReleaseWorker()

			start := time.Now()
			f, err := o.load(gctx, d)
			if err != nil {
				o.logger.Error("feature load failed",
					"key", d.Key().String(),
					"path", d.Path,
					"error", err,
				)
				return &DescriptorError{Index: i, Key: d.Key(), Err: err}
			}
			features[i] = f
			o.logger.Debug("feature loaded",
				"key", d.Key().String(),
				"format", string(d.Format),
				"mapped", f.Mapped(),
				"dtype", f.Array().DType().String(),
				"shape", f.Array().Shape(),
				"duration", time.Since(start),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		closeAll(features)
		return nil, err
	}

	s := NewBasicStore()
	for i, d := range descs {
		if err := s.Add(d.Key(), features[i]); err != nil {
			closeAll(features)
			return nil, &DescriptorError{Index: i, Key: d.Key(), Err: err}
		}
	}
	return s, nil
}

func closeAll(features []*ArrayFeature) {
	for _, f := range features {
		if f != nil {
			_ = f.Close()
		}
	}
}

func (o *options) load(ctx context.Context, d Descriptor) (*ArrayFeature, error) {
	if d.Format == FormatColumnar && !d.InMemory {
		return o.loadMapped(ctx, d)
	}
	return o.loadResident(ctx, d)
}

// loadResident decodes a whole file into memory and charges the decoded
// size to the memory budget until the feature is closed.
func (o *options) loadResident(ctx context.Context, d Descriptor) (*ArrayFeature, error) {
	b, err := o.blobs.Open(ctx, d.Path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = b.Close() }()

	a, err := o.decode(ctx, b, d.Format)
	if err != nil {
		return nil, err
	}
	reserved := int64(len(a.Bytes()))
	if err := o.rc.AcquireMemory(ctx, reserved); err != nil {
		return nil, err
	}

	f := NewArrayFeature(a)
	f.onClose(func() error {
		o.rc.ReleaseMemory(reserved)
		return nil
	})
	return f, nil
}

func (o *options) decode(ctx context.Context, b blobstore.Blob, format Format) (*ndarray.Array, error) {
	if _, ok := b.(blobstore.Mappable); ok {
		data, err := blobstore.ReadAll(ctx, b)
		if err != nil {
			return nil, err
		}
		if format == FormatNative {
			return ndarray.DecodeNative(data)
		}
		return ndarray.DecodeColumnar(data)
	}

	rc, err := b.ReadRange(ctx, 0, b.Size())
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ndarray.ErrCorrupted)
		}
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	r := resource.NewRateLimitedReader(ctx, rc, o.rc)
	if format == FormatNative {
		return ndarray.ReadNativeSized(r, b.Size())
	}
	return ndarray.ReadColumnarSized(r, b.Size())
}

// loadMapped maps a columnar file read-write. Files of stores that expose
// local paths are mapped in place, so updates persist to the source. Other
// stores are spilled to a local file that is removed on Close.
func (o *options) loadMapped(ctx context.Context, d Descriptor) (*ArrayFeature, error) {
	if loc, ok := o.blobs.(blobstore.Locator); ok {
		if path, ok := loc.LocalPath(d.Path); ok {
			m, err := ndarray.MapColumnar(path)
			if err != nil {
				return nil, err
			}
			return NewMappedFeature(m), nil
		}
	}

	path, err := o.spill(ctx, d.Path)
	if err != nil {
		return nil, err
	}
	m, err := ndarray.MapColumnar(path)
	if err != nil {
		_ = o.fs.Remove(path)
		return nil, err
	}
	f := NewMappedFeature(m)
	f.onClose(func() error {
		return o.fs.Remove(path)
	})
	return f, nil
}

// spill copies a blob to a new file in the spill directory.
func (o *options) spill(ctx context.Context, name string) (path string, err error) {
	b, err := o.blobs.Open(ctx, name)
	if err != nil {
		return "", err
	}
	defer func() { _ = b.Close() }()

	if err := o.fs.MkdirAll(o.spillDir, 0o755); err != nil {
		return "", err
	}
	f, err := o.fs.CreateTemp(o.spillDir, uuid.NewString()+"-*.col")
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = o.fs.Remove(f.Name())
		}
	}()

	var n int64
	if dl, ok := b.(blobstore.Downloader); ok {
		n, err = dl.Download(ctx, resource.NewRateLimitedWriterAt(ctx, f, o.rc))
	} else {
		n, err = blobstore.CopyTo(ctx, b, io.NewOffsetWriter(resource.NewRateLimitedWriterAt(ctx, f, o.rc), 0))
	}
	if err != nil {
		return "", fmt.Errorf("spill %s: %w", name, err)
	}
	if n != b.Size() {
		return "", fmt.Errorf("spill %s: copied %d of %d bytes: %w", name, n, b.Size(), io.ErrUnexpectedEOF)
	}
	if err = f.Sync(); err != nil {
		return "", err
	}
	if err = f.Close(); err != nil {
		return "", err
	}
	return f.Name(), nil
}
