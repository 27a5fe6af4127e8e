package minibatch

import (
	"sync/atomic"
	"time"
)

// CompactionOp names a compaction routine in logs and metrics.
type CompactionOp string

const (
	OpUniqueAndCompact          CompactionOp = "unique_and_compact"
	OpUniqueAndCompactNodePairs CompactionOp = "unique_and_compact_node_pairs"
	OpUniqueAndCompactCSC       CompactionOp = "unique_and_compact_csc"
	OpCompactCSC                CompactionOp = "compact_csc"
	OpAddReverseEdges           CompactionOp = "add_reverse_edges"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the
// promcollector package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordLoad is called after a feature store is constructed.
	// features is the number of descriptors, err is nil if successful.
	RecordLoad(features int, duration time.Duration, err error)

	// RecordFeatureRead is called after each feature read.
	// rows is the number of rows returned.
	RecordFeatureRead(rows int, duration time.Duration, err error)

	// RecordFeatureUpdate is called after each feature update.
	// rows is the number of rows written.
	RecordFeatureUpdate(rows int, duration time.Duration, err error)

	// RecordCompaction is called after each compaction.
	// ids is the number of input ids.
	RecordCompaction(op CompactionOp, ids int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordLoad(int, time.Duration, error)                     {}
func (NoopMetricsCollector) RecordFeatureRead(int, time.Duration, error)              {}
func (NoopMetricsCollector) RecordFeatureUpdate(int, time.Duration, error)            {}
func (NoopMetricsCollector) RecordCompaction(CompactionOp, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	LoadCount            atomic.Int64
	LoadErrors           atomic.Int64
	LoadFeatures         atomic.Int64
	ReadCount            atomic.Int64
	ReadErrors           atomic.Int64
	ReadRows             atomic.Int64
	ReadTotalNanos       atomic.Int64
	UpdateCount          atomic.Int64
	UpdateErrors         atomic.Int64
	UpdateRows           atomic.Int64
	CompactionCount      atomic.Int64
	CompactionErrors     atomic.Int64
	CompactionIDs        atomic.Int64
	CompactionTotalNanos atomic.Int64
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(features int, _ time.Duration, err error) {
	b.LoadCount.Add(1)
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.LoadFeatures.Add(int64(features))
}

// RecordFeatureRead implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFeatureRead(rows int, duration time.Duration, err error) {
	b.ReadCount.Add(1)
	b.ReadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ReadErrors.Add(1)
		return
	}
	b.ReadRows.Add(int64(rows))
}

// RecordFeatureUpdate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFeatureUpdate(rows int, _ time.Duration, err error) {
	b.UpdateCount.Add(1)
	if err != nil {
		b.UpdateErrors.Add(1)
		return
	}
	b.UpdateRows.Add(int64(rows))
}

// RecordCompaction implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCompaction(_ CompactionOp, ids int, duration time.Duration, err error) {
	b.CompactionCount.Add(1)
	b.CompactionTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.CompactionErrors.Add(1)
		return
	}
	b.CompactionIDs.Add(int64(ids))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		LoadCount:          b.LoadCount.Load(),
		LoadErrors:         b.LoadErrors.Load(),
		LoadFeatures:       b.LoadFeatures.Load(),
		ReadCount:          b.ReadCount.Load(),
		ReadErrors:         b.ReadErrors.Load(),
		ReadRows:           b.ReadRows.Load(),
		ReadAvgNanos:       avg(b.ReadTotalNanos.Load(), b.ReadCount.Load()),
		UpdateCount:        b.UpdateCount.Load(),
		UpdateErrors:       b.UpdateErrors.Load(),
		UpdateRows:         b.UpdateRows.Load(),
		CompactionCount:    b.CompactionCount.Load(),
		CompactionErrors:   b.CompactionErrors.Load(),
		CompactionIDs:      b.CompactionIDs.Load(),
		CompactionAvgNanos: avg(b.CompactionTotalNanos.Load(), b.CompactionCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	LoadCount          int64
	LoadErrors         int64
	LoadFeatures       int64
	ReadCount          int64
	ReadErrors         int64
	ReadRows           int64
	ReadAvgNanos       int64
	UpdateCount        int64
	UpdateErrors       int64
	UpdateRows         int64
	CompactionCount    int64
	CompactionErrors   int64
	CompactionIDs      int64
	CompactionAvgNanos int64
}
