package minibatch

import (
	"log/slog"

	"github.com/hupe1980/minibatch/blobstore"
	"github.com/hupe1980/minibatch/codec"
	"github.com/hupe1980/minibatch/resource"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	blobs            blobstore.BlobStore
	resources        *resource.Config
	spillDir         string
	codec            codec.Codec
}

// Option configures Open, OpenManifest and New.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &minibatch.BasicMetricsCollector{}
//	eng, _ := minibatch.Open(ctx, descs, minibatch.WithMetricsCollector(metrics))
//	// ... use eng ...
//	stats := metrics.GetStats()
//	fmt.Printf("Reads: %d, Avg latency: %dns\n", stats.ReadCount, stats.ReadAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := minibatch.NewJSONLogger(slog.LevelInfo)
//	eng, _ := minibatch.Open(ctx, descs, minibatch.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithBlobStore sets the store feature paths and manifests are resolved
// against. The default is a LocalStore rooted at the working directory.
func WithBlobStore(bs blobstore.BlobStore) Option {
	return func(o *options) {
		o.blobs = bs
	}
}

// WithResourceConfig bounds resident feature memory, load concurrency and
// blob store read throughput.
func WithResourceConfig(cfg resource.Config) Option {
	return func(o *options) {
		o.resources = &cfg
	}
}

// WithSpillDir sets the directory lazily paged features from remote blob
// stores are copied to.
func WithSpillDir(dir string) Option {
	return func(o *options) {
		o.spillDir = dir
	}
}

// WithCodec configures the codec OpenManifest decodes the manifest with.
//
// If nil is passed, the codec is picked by the manifest's file extension.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		o.codec = c
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
