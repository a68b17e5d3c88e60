// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package osql

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/maxwellito/comdb2/pkg/util/leaktest"
	"github.com/maxwellito/comdb2/pkg/util/log"
	"github.com/stretchr/testify/require"
)

func TestSelectvDedup(t *testing.T) {
	defer leaktest.AfterTest(t)()
	defer log.Scope(t).Close(t)
	ctx := context.Background()

	r, _ := newTestRegistry(t, acceptAll, nil)
	id := ID{RqID: 81}
	s, _ := mustCreate(t, r, testRequest("n1", nil), id)

	require.ErrorIs(t, s.CacheSelectv(1), ErrNoTable)

	_, err := r.ReceiveOp(ctx, id, Op{Kind: OpUseDB, Table: "t", TableVersion: 2})
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		require.NoError(t, s.CacheSelectv(100))
	}
	_, err = r.ReceiveOp(ctx, id, Op{Kind: OpRecGenid, Genid: 100})
	require.NoError(t, err)
	_, err = r.ReceiveOp(ctx, id, Op{Kind: OpRecGenid, Genid: 200})
	require.NoError(t, err)

	var visited []SelectvEntry
	require.NoError(t, s.ProcessSelectv(func(e SelectvEntry) error {
		visited = append(visited, e)
		return nil
	}))
	require.Equal(t, []SelectvEntry{
		{Table: "t", TableVersion: 2, Genid: 100},
		{Table: "t", TableVersion: 2, Genid: 200},
	}, visited)
	// One of the two recgenid operations was new.
	require.Equal(t, int64(1), r.Metrics().SelectvCached.Count())

	// The cache was drained.
	require.NoError(t, s.ProcessSelectv(func(SelectvEntry) error {
		t.Fatal("unexpected entry")
		return nil
	}))
	require.NoError(t, r.Close(ctx, s, false))
}

func TestSelectvWriteLock(t *testing.T) {
	defer leaktest.AfterTest(t)()
	defer log.Scope(t).Close(t)
	ctx := context.Background()

	for _, writeLock := range []bool{false, true} {
		r, st := newTestRegistry(t, acceptAll, nil)
		selectvWriteLockOnUpdate.Override(ctx, &st.SV, writeLock)
		id := ID{RqID: 82}
		s, _ := mustCreate(t, r, testRequest("n1", nil), id)
		for _, op := range []Op{
			{Kind: OpUseDB, Table: "t"},
			{Kind: OpRecGenid, Genid: 1},
			{Kind: OpRecGenid, Genid: 2},
			{Kind: OpUpdate, Genid: 1},
			{Kind: OpUseDB, Table: "u"},
			{Kind: OpDelete, Genid: 2},
		} {
			_, err := r.ReceiveOp(ctx, id, op)
			require.NoError(t, err)
		}
		locked := map[uint64]bool{}
		require.NoError(t, s.ProcessSelectv(func(e SelectvEntry) error {
			locked[e.Genid] = e.WriteLock
			return nil
		}))
		// The delete targeted another table.
		require.Equal(t, map[uint64]bool{1: writeLock, 2: false}, locked)
		require.NoError(t, r.Close(ctx, s, false))
	}
}

func TestSelectvVisitorError(t *testing.T) {
	defer leaktest.AfterTest(t)()
	defer log.Scope(t).Close(t)
	ctx := context.Background()

	r, _ := newTestRegistry(t, acceptAll, nil)
	id := ID{RqID: 83}
	s, _ := mustCreate(t, r, testRequest("n1", nil), id)
	_, err := r.ReceiveOp(ctx, id, Op{Kind: OpUseDB, Table: "t"})
	require.NoError(t, err)
	for g := uint64(1); g <= 3; g++ {
		require.NoError(t, s.CacheSelectv(g))
	}

	errConflict := errors.New("row changed")
	var calls int
	err = s.ProcessSelectv(func(e SelectvEntry) error {
		calls++
		if e.Genid == 2 {
			return errConflict
		}
		return nil
	})
	require.ErrorIs(t, err, errConflict)
	require.ErrorContains(t, err, "validating selectv row t/2")
	require.Equal(t, 2, calls)
	require.NoError(t, r.Close(ctx, s, false))
}
