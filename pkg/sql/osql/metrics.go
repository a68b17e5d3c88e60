// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package osql

import "github.com/maxwellito/comdb2/pkg/util/metric"

var (
	metaSessionsActive = metric.Metadata{
		Name:        "osql.sessions.active",
		Help:        "Number of registered osql sessions",
		Measurement: "Sessions",
		Unit:        metric.Unit_COUNT,
	}
	metaSessionsCreated = metric.Metadata{
		Name:        "osql.sessions.created",
		Help:        "Number of osql sessions created",
		Measurement: "Sessions",
		Unit:        metric.Unit_COUNT,
	}
	metaSessionsReplaced = metric.Metadata{
		Name:        "osql.sessions.replaced",
		Help:        "Number of osql sessions retired by a create reusing their identity",
		Measurement: "Sessions",
		Unit:        metric.Unit_COUNT,
	}
	metaSessionsClosed = metric.Metadata{
		Name:        "osql.sessions.closed",
		Help:        "Number of osql sessions closed",
		Measurement: "Sessions",
		Unit:        metric.Unit_COUNT,
	}
	metaSessionsTerminated = metric.Metadata{
		Name:        "osql.sessions.terminated",
		Help:        "Number of osql sessions terminated before completing",
		Measurement: "Sessions",
		Unit:        metric.Unit_COUNT,
	}
	metaSessionsCompleted = metric.Metadata{
		Name:        "osql.sessions.completed",
		Help:        "Number of osql sessions completed by the transaction-application component",
		Measurement: "Sessions",
		Unit:        metric.Unit_COUNT,
	}
	metaOpsReceived = metric.Metadata{
		Name:        "osql.ops.received",
		Help:        "Number of operations delivered to a registered session",
		Measurement: "Operations",
		Unit:        metric.Unit_COUNT,
	}
	metaOpsUnknown = metric.Metadata{
		Name:        "osql.ops.unknown",
		Help:        "Number of operations received for an unknown session",
		Measurement: "Operations",
		Unit:        metric.Unit_COUNT,
	}
	metaOpsDiscarded = metric.Metadata{
		Name:        "osql.ops.discarded",
		Help:        "Number of operations counted but not forwarded because their session had terminated",
		Measurement: "Operations",
		Unit:        metric.Unit_COUNT,
	}
	metaSelectvCached = metric.Metadata{
		Name:        "osql.selectv.cached",
		Help:        "Number of distinct rows recorded for selectv validation",
		Measurement: "Rows",
		Unit:        metric.Unit_COUNT,
	}
	metaSessionDuration = metric.Metadata{
		Name:        "osql.sessions.duration",
		Help:        "Time from creation to close of osql sessions",
		Measurement: "Latency",
		Unit:        metric.Unit_SECONDS,
	}
)

// Metrics holds the metrics of a Registry.
type Metrics struct {
	SessionsActive     *metric.Gauge
	SessionsCreated    *metric.Counter
	SessionsReplaced   *metric.Counter
	SessionsClosed     *metric.Counter
	SessionsTerminated *metric.Counter
	SessionsCompleted  *metric.Counter
	OpsReceived        *metric.Counter
	OpsUnknown         *metric.Counter
	OpsDiscarded       *metric.Counter
	SelectvCached      *metric.Counter
	SessionDuration    *metric.Histogram
}

func makeMetrics() Metrics {
	return Metrics{
		SessionsActive:     metric.NewGauge(metaSessionsActive),
		SessionsCreated:    metric.NewCounter(metaSessionsCreated),
		SessionsReplaced:   metric.NewCounter(metaSessionsReplaced),
		SessionsClosed:     metric.NewCounter(metaSessionsClosed),
		SessionsTerminated: metric.NewCounter(metaSessionsTerminated),
		SessionsCompleted:  metric.NewCounter(metaSessionsCompleted),
		OpsReceived:        metric.NewCounter(metaOpsReceived),
		OpsUnknown:         metric.NewCounter(metaOpsUnknown),
		OpsDiscarded:       metric.NewCounter(metaOpsDiscarded),
		SelectvCached:      metric.NewCounter(metaSelectvCached),
		SessionDuration:    metric.NewHistogram(metaSessionDuration, nil),
	}
}
