// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package metric

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	prometheusgo "github.com/prometheus/client_model/go"
)

// Unit describes what a metric measures.
type Unit int8

const (
	Unit_UNSET Unit = iota
	Unit_COUNT
	Unit_NANOSECONDS
	Unit_SECONDS
	Unit_BYTES
)

// Metadata holds metadata about a metric.
type Metadata struct {
	Name        string
	Help        string
	Measurement string
	Unit        Unit
}

// GetName returns the metric's name.
func (m Metadata) GetName() string { return m.Name }

// ExportedName returns the name under which the metric is exposed to
// Prometheus.
func (m Metadata) ExportedName() string {
	return strings.NewReplacer(".", "_", "-", "_").Replace(m.Name)
}

// Iterable is implemented by every metric type in this package.
type Iterable interface {
	GetName() string
	collector() prometheus.Collector
}

// Counter is a monotonically increasing count.
type Counter struct {
	Metadata
	c prometheus.Counter
}

var _ Iterable = (*Counter)(nil)

// NewCounter creates a counter.
func NewCounter(metadata Metadata) *Counter {
	return &Counter{
		Metadata: metadata,
		c: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metadata.ExportedName(),
			Help: metadata.Help,
		}),
	}
}

// Inc increments the counter by v, which must not be negative.
func (c *Counter) Inc(v int64) {
	c.c.Add(float64(v))
}

// Count returns the current value of the counter.
func (c *Counter) Count() int64 {
	var m prometheusgo.Metric
	if err := c.c.Write(&m); err != nil {
		return 0
	}
	return int64(m.GetCounter().GetValue())
}

func (c *Counter) collector() prometheus.Collector { return c.c }

// Gauge is a value that can go up and down.
type Gauge struct {
	Metadata
	g prometheus.Gauge
}

var _ Iterable = (*Gauge)(nil)

// NewGauge creates a gauge.
func NewGauge(metadata Metadata) *Gauge {
	return &Gauge{
		Metadata: metadata,
		g: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metadata.ExportedName(),
			Help: metadata.Help,
		}),
	}
}

// Update sets the gauge's value.
func (g *Gauge) Update(v int64) { g.g.Set(float64(v)) }

// Inc increments the gauge's value.
func (g *Gauge) Inc(v int64) { g.g.Add(float64(v)) }

// Dec decrements the gauge's value.
func (g *Gauge) Dec(v int64) { g.g.Sub(float64(v)) }

// Value returns the gauge's current value.
func (g *Gauge) Value() int64 {
	var m prometheusgo.Metric
	if err := g.g.Write(&m); err != nil {
		return 0
	}
	return int64(m.GetGauge().GetValue())
}

func (g *Gauge) collector() prometheus.Collector { return g.g }

// LatencyBuckets are the default histogram buckets, in seconds, for durations
// ranging from a millisecond to ten minutes.
var LatencyBuckets = prometheus.ExponentialBuckets(0.001, 2, 20)

// Histogram records a distribution of durations.
type Histogram struct {
	Metadata
	h prometheus.Histogram
}

var _ Iterable = (*Histogram)(nil)

// NewHistogram creates a histogram with the given buckets. A nil buckets
// slice selects LatencyBuckets.
func NewHistogram(metadata Metadata, buckets []float64) *Histogram {
	if buckets == nil {
		buckets = LatencyBuckets
	}
	return &Histogram{
		Metadata: metadata,
		h: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    metadata.ExportedName(),
			Help:    metadata.Help,
			Buckets: buckets,
		}),
	}
}

// RecordValue adds v to the distribution.
func (h *Histogram) RecordValue(v float64) { h.h.Observe(v) }

// RecordDuration adds d, in seconds, to the distribution.
func (h *Histogram) RecordDuration(d time.Duration) { h.h.Observe(d.Seconds()) }

// TotalCount returns the number of recorded values.
func (h *Histogram) TotalCount() int64 {
	var m prometheusgo.Metric
	if err := h.h.Write(&m); err != nil {
		return 0
	}
	return int64(m.GetHistogram().GetSampleCount())
}

func (h *Histogram) collector() prometheus.Collector { return h.h }
