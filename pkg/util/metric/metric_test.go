// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package metric

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

var (
	metaTestCounter = Metadata{Name: "test.ops-received", Help: "ops", Unit: Unit_COUNT}
	metaTestGauge   = Metadata{Name: "test.active", Help: "active", Unit: Unit_COUNT}
	metaTestHist    = Metadata{Name: "test.latency", Help: "latency", Unit: Unit_SECONDS}
)

type testMetrics struct {
	Ops     *Counter
	Active  *Gauge
	Latency *Histogram
	Unset   *Counter
	private *Counter
}

func TestMetricValues(t *testing.T) {
	c := NewCounter(metaTestCounter)
	c.Inc(3)
	c.Inc(2)
	require.EqualValues(t, 5, c.Count())
	require.Equal(t, 5.0, testutil.ToFloat64(c.collector()))

	g := NewGauge(metaTestGauge)
	g.Inc(4)
	g.Dec(1)
	require.EqualValues(t, 3, g.Value())
	g.Update(10)
	require.EqualValues(t, 10, g.Value())

	h := NewHistogram(metaTestHist, nil)
	h.RecordDuration(10 * time.Millisecond)
	h.RecordValue(1)
	require.EqualValues(t, 2, h.TotalCount())
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	m := testMetrics{
		Ops:     NewCounter(metaTestCounter),
		Active:  NewGauge(metaTestGauge),
		Latency: NewHistogram(metaTestHist, nil),
		private: NewCounter(Metadata{Name: "test.private"}),
	}
	r.AddMetricStruct(&m)
	require.Equal(t, []string{"test.active", "test.latency", "test.ops-received"}, r.Names())
	require.Panics(t, func() { r.AddMetric(m.Ops) })

	m.Ops.Inc(1)
	families, err := r.Gatherer().Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	require.Contains(t, names, "test_ops_received")
}
