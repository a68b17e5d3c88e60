// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package osql

import (
	"context"
	"strings"
	"testing"

	"github.com/maxwellito/comdb2/pkg/util/leaktest"
	"github.com/maxwellito/comdb2/pkg/util/log"
	"github.com/maxwellito/comdb2/pkg/util/metric"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetricsExported(t *testing.T) {
	defer leaktest.AfterTest(t)()
	defer log.Scope(t).Close(t)
	ctx := context.Background()

	r, _ := newTestRegistry(t, acceptAll, nil)
	reg := metric.NewRegistry()
	reg.AddMetricStruct(r.Metrics())
	require.Contains(t, reg.Names(), "osql.sessions.duration")

	id := ID{RqID: 91}
	s, _ := mustCreate(t, r, testRequest("n1", nil), id)
	_, _ = mustCreate(t, r, testRequest("n1", nil), id)
	_, err := r.ReceiveOp(ctx, ID{RqID: 92}, Op{Kind: OpInsert})
	require.NoError(t, err)

	require.NoError(t, testutil.GatherAndCompare(reg.Gatherer(), strings.NewReader(`
# HELP osql_sessions_active Number of registered osql sessions
# TYPE osql_sessions_active gauge
osql_sessions_active 1
# HELP osql_sessions_created Number of osql sessions created
# TYPE osql_sessions_created counter
osql_sessions_created 2
# HELP osql_sessions_replaced Number of osql sessions retired by a create reusing their identity
# TYPE osql_sessions_replaced counter
osql_sessions_replaced 1
# HELP osql_ops_unknown Number of operations received for an unknown session
# TYPE osql_ops_unknown counter
osql_ops_unknown 1
`), "osql_sessions_active", "osql_sessions_created", "osql_sessions_replaced", "osql_ops_unknown"))

	require.NoError(t, r.Close(ctx, s, false))
	require.Equal(t, int64(1), r.Metrics().SessionDuration.TotalCount())
}
