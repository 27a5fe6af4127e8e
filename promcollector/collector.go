// Package promcollector exports minibatch metrics to Prometheus.
package promcollector

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hupe1980/minibatch"
)

const namespace = "minibatch"

// Collector is a minibatch.MetricsCollector backed by Prometheus counters and
// histograms. Operations are labeled "load", "read", "update" or the
// compaction op name.
type Collector struct {
	ops      *prometheus.CounterVec
	errors   *prometheus.CounterVec
	items    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ minibatch.MetricsCollector = (*Collector)(nil)

// New creates a Collector and registers its metrics on reg.
// A nil reg uses prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Collector{
		ops: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Number of operations",
		}, []string{"op"}),
		errors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_errors_total",
			Help:      "Number of failed operations",
		}, []string{"op"}),
		items: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_items_total",
			Help:      "Features loaded, rows read or written, or ids compacted by successful operations",
		}, []string{"op"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Operation latency",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"op"}),
	}
}

func (c *Collector) record(op string, items int, d time.Duration, err error) {
	c.ops.WithLabelValues(op).Inc()
	c.duration.WithLabelValues(op).Observe(d.Seconds())
	if err != nil {
		c.errors.WithLabelValues(op).Inc()
		return
	}
	c.items.WithLabelValues(op).Add(float64(items))
}

// RecordLoad implements minibatch.MetricsCollector.
func (c *Collector) RecordLoad(features int, d time.Duration, err error) {
	c.record("load", features, d, err)
}

// RecordFeatureRead implements minibatch.MetricsCollector.
func (c *Collector) RecordFeatureRead(rows int, d time.Duration, err error) {
	c.record("read", rows, d, err)
}

// RecordFeatureUpdate implements minibatch.MetricsCollector.
func (c *Collector) RecordFeatureUpdate(rows int, d time.Duration, err error) {
	c.record("update", rows, d, err)
}

// RecordCompaction implements minibatch.MetricsCollector.
func (c *Collector) RecordCompaction(op minibatch.CompactionOp, ids int, d time.Duration, err error) {
	c.record(string(op), ids, d, err)
}
