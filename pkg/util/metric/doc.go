// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

/*
Package metric provides server metrics (a.k.a. transient stats) backed by
Prometheus collectors.

# Adding a new metric

First, describe the metric with a Metadata:

	var metaSessionsCreated = metric.Metadata{
		Name:        "osql.sessions.created",
		Help:        "Number of offload sessions created",
		Measurement: "Sessions",
		Unit:        metric.Unit_COUNT,
	}

Next, construct it and group it with its siblings in a metrics struct:

	type Metrics struct {
		SessionsCreated *metric.Counter
	}

	func makeMetrics() Metrics {
		return Metrics{SessionsCreated: metric.NewCounter(metaSessionsCreated)}
	}

Finally, hand the struct to a Registry, which registers every exported
*Counter, *Gauge and *Histogram field:

	registry.AddMetricStruct(&m)

Dots and dashes in names are replaced by underscores when the metric is
exposed to Prometheus, so "osql.sessions.created" is scraped as
"osql_sessions_created".
*/
package metric
