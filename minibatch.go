package minibatch

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hupe1980/minibatch/blobstore"
	"github.com/hupe1980/minibatch/compact"
	"github.com/hupe1980/minibatch/featurestore"
	"github.com/hupe1980/minibatch/ndarray"
	"github.com/hupe1980/minibatch/resource"
)

// Engine owns a feature store and runs instrumented compactions.
//
// Feature reads may run concurrently. Updates touching overlapping rows, or
// an update racing a read of the same rows, must be serialized by the caller.
// Compactions are pure and safe to run concurrently.
type Engine struct {
	store   featurestore.Store
	logger  *Logger
	metrics MetricsCollector
	closed  atomic.Bool
}

// New creates an Engine over an existing store. Close closes the store.
func New(store featurestore.Store, optFns ...Option) *Engine {
	o := applyOptions(optFns)
	return &Engine{
		store:   store,
		logger:  o.logger,
		metrics: o.metricsCollector,
	}
}

// Open loads the features described by descs and returns an Engine over them.
func Open(ctx context.Context, descs []featurestore.Descriptor, optFns ...Option) (*Engine, error) {
	o := applyOptions(optFns)
	start := time.Now()
	s, err := featurestore.Load(ctx, descs, o.loadOptions()...)
	return o.finishLoad(ctx, s, len(descs), start, err)
}

// OpenManifest loads the manifest blob name and the features it lists from
// the configured blob store.
func OpenManifest(ctx context.Context, name string, optFns ...Option) (*Engine, error) {
	o := applyOptions(optFns)
	start := time.Now()
	bs := o.blobs
	if bs == nil {
		bs = blobstore.NewLocalStore("")
	}
	s, err := featurestore.LoadManifest(ctx, bs, name, o.loadOptions()...)
	n := 0
	if s != nil {
		n = s.Len()
	}
	return o.finishLoad(ctx, s, n, start, err)
}

func (o *options) finishLoad(ctx context.Context, s *featurestore.BasicStore, features int, start time.Time, err error) (*Engine, error) {
	d := time.Since(start)
	o.logger.LogLoad(ctx, features, d, err)
	o.metricsCollector.RecordLoad(features, d, err)
	if err != nil {
		return nil, translateError(err)
	}
	return &Engine{
		store:   s,
		logger:  o.logger,
		metrics: o.metricsCollector,
	}, nil
}

func (o *options) loadOptions() []featurestore.Option {
	opts := []featurestore.Option{featurestore.WithLogger(o.logger.Logger)}
	if o.blobs != nil {
		opts = append(opts, featurestore.WithBlobStore(o.blobs))
	}
	if o.resources != nil {
		opts = append(opts, featurestore.WithController(resource.NewController(*o.resources)))
	}
	if o.spillDir != "" {
		opts = append(opts, featurestore.WithSpillDir(o.spillDir))
	}
	if o.codec != nil {
		opts = append(opts, featurestore.WithCodec(o.codec))
	}
	return opts
}

// Store returns the underlying feature store.
func (e *Engine) Store() featurestore.Store {
	return e.store
}

// ReadFeature returns the rows at ids of the feature stored under key, or the
// whole feature if ids is nil.
func (e *Engine) ReadFeature(ctx context.Context, key featurestore.Key, ids []int64) (*ndarray.Array, error) {
	if e.closed.Load() {
		return nil, ErrClosed
	}
	start := time.Now()
	a, err := e.store.Read(key, ids)
	rows := 0
	if a != nil {
		rows = a.Len()
	}
	e.metrics.RecordFeatureRead(rows, time.Since(start), err)
	e.logger.LogFeatureRead(ctx, key, rows, err)
	if err != nil {
		return nil, translateError(err)
	}
	return a, nil
}

// FeatureSize returns the number of rows ReadFeature(ctx, key, ids) returns.
func (e *Engine) FeatureSize(key featurestore.Key, ids []int64) (int, error) {
	if e.closed.Load() {
		return 0, ErrClosed
	}
	n, err := e.store.Size(key, ids)
	return n, translateError(err)
}

// DefaultSize returns the full size of the first feature of the store.
func (e *Engine) DefaultSize() (int, error) {
	if e.closed.Load() {
		return 0, ErrClosed
	}
	n, err := e.store.DefaultSize()
	return n, translateError(err)
}

// UpdateFeature overwrites the rows at ids of the feature stored under key
// with the rows of value. With nil ids value replaces the whole feature.
func (e *Engine) UpdateFeature(ctx context.Context, key featurestore.Key, value *ndarray.Array, ids []int64) error {
	if e.closed.Load() {
		return ErrClosed
	}
	rows := len(ids)
	if ids == nil && value != nil {
		rows = value.Len()
	}
	start := time.Now()
	err := e.store.Update(key, value, ids)
	e.metrics.RecordFeatureUpdate(rows, time.Since(start), err)
	e.logger.LogFeatureUpdate(ctx, key, rows, err)
	return translateError(err)
}

// UniqueAndCompact deduplicates the node id chunks of each node type. See
// compact.UniqueAndCompactHetero.
func (e *Engine) UniqueAndCompact(ctx context.Context, chunks map[string][][]int64) (unique map[string][]int64, compacted map[string][][]int64) {
	n := 0
	for _, cs := range chunks {
		for _, c := range cs {
			n += len(c)
		}
	}
	start := time.Now()
	unique, compacted = compact.UniqueAndCompactHetero(chunks)
	e.observe(ctx, OpUniqueAndCompact, n, start, nil)
	return unique, compacted
}

// UniqueAndCompactNodePairs relabels the endpoints of every edge type. See
// compact.UniqueAndCompactNodePairsHetero.
func (e *Engine) UniqueAndCompactNodePairs(
	ctx context.Context,
	pairs map[compact.EdgeType]compact.NodePair,
	uniqueDst map[string][]int64,
) (map[string][]int64, map[compact.EdgeType]compact.NodePair, error) {
	n := 0
	for _, p := range pairs {
		n += len(p.Src) + len(p.Dst)
	}
	start := time.Now()
	unique, compacted, err := compact.UniqueAndCompactNodePairsHetero(pairs, uniqueDst)
	e.observe(ctx, OpUniqueAndCompactNodePairs, n, start, err)
	if err != nil {
		return nil, nil, translateError(err)
	}
	return unique, compacted, nil
}

// UniqueAndCompactCSC relabels the indices of every edge type. See
// compact.UniqueAndCompactCSCHetero.
func (e *Engine) UniqueAndCompactCSC(
	ctx context.Context,
	cscs map[compact.EdgeType]compact.CSC,
	uniqueDst map[string][]int64,
) (map[string][]int64, map[compact.EdgeType]compact.CSC) {
	n := 0
	for _, c := range cscs {
		n += len(c.Indices)
	}
	start := time.Now()
	unique, compacted := compact.UniqueAndCompactCSCHetero(cscs, uniqueDst)
	e.observe(ctx, OpUniqueAndCompactCSC, n, start, nil)
	return unique, compacted
}

// CompactCSC replaces the indices of every edge type with positions. See
// compact.CompactCSCHetero.
func (e *Engine) CompactCSC(
	ctx context.Context,
	cscs map[compact.EdgeType]compact.CSC,
	dst map[string][]int64,
) (map[string][]int64, map[compact.EdgeType]compact.CSC, error) {
	n := 0
	for _, c := range cscs {
		n += len(c.Indices)
	}
	start := time.Now()
	original, compacted, err := compact.CompactCSCHetero(cscs, dst)
	e.observe(ctx, OpCompactCSC, n, start, err)
	if err != nil {
		return nil, nil, translateError(err)
	}
	return original, compacted, nil
}

// AddReverseEdges appends reversed edges. See compact.AddReverseEdgesHetero.
func (e *Engine) AddReverseEdges(
	ctx context.Context,
	edges map[compact.EdgeType]compact.NodePair,
	reverse map[compact.EdgeType]compact.EdgeType,
) (map[compact.EdgeType]compact.NodePair, error) {
	n := 0
	for _, p := range edges {
		n += p.Len()
	}
	start := time.Now()
	out, err := compact.AddReverseEdgesHetero(edges, reverse)
	e.observe(ctx, OpAddReverseEdges, n, start, err)
	if err != nil {
		return nil, translateError(err)
	}
	return out, nil
}

func (e *Engine) observe(ctx context.Context, op CompactionOp, ids int, start time.Time, err error) {
	e.metrics.RecordCompaction(op, ids, time.Since(start), err)
	e.logger.LogCompaction(ctx, op, ids, err)
}
