// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package osql

import (
	"context"
	"testing"

	"github.com/maxwellito/comdb2/pkg/settings/cluster"
	"github.com/maxwellito/comdb2/pkg/util/syncutil"
	"github.com/maxwellito/comdb2/pkg/util/timeutil"
	"github.com/stretchr/testify/require"
)

type recordingLog struct {
	mu   syncutil.Mutex
	recs []Record
}

func (l *recordingLog) Append(_ context.Context, rec Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.recs = append(l.recs, rec)
	return nil
}

func (l *recordingLog) records() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Record(nil), l.recs...)
}

type applierFunc func(ctx context.Context, s *Session) error

func (f applierFunc) Apply(ctx context.Context, s *Session) error { return f(ctx, s) }

var acceptAll = applierFunc(func(context.Context, *Session) error { return nil })

func testRequest(node string, log BlockLog) *Request {
	return &Request{Origin: node, Log: log, Start: timeutil.Now()}
}

func newTestRegistry(
	t *testing.T, applier Applier, knobs *TestingKnobs,
) (*Registry, *cluster.Settings) {
	st := cluster.MakeTestingClusterSettings()
	return NewRegistry(st, applier, knobs), st
}

func mustCreate(
	t *testing.T, r *Registry, req *Request, id ID,
) (*Session, bool) {
	t.Helper()
	s, replaced, err := r.Create(context.Background(), req, SessionArgs{
		ID:   id,
		Type: ReqTypeSock,
		SQL:  "insert into t values (1)",
	})
	require.NoError(t, err)
	return s, replaced
}
