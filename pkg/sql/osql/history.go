// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package osql

import (
	"time"

	"github.com/eapache/queue"
	"github.com/maxwellito/comdb2/pkg/settings/cluster"
	"github.com/maxwellito/comdb2/pkg/util/syncutil"
	"github.com/maxwellito/comdb2/pkg/util/timeutil"
)

// ClosedSession is a session kept in the History after it was closed.
type ClosedSession struct {
	Info
	ClosedAt time.Time
}

// History is a FIFO of recently closed sessions. It is bounded by
// sql.osql.closed_session_history.capacity and entries expire after
// sql.osql.closed_session_history.ttl.
type History struct {
	st  *cluster.Settings
	now func() time.Time

	mu struct {
		syncutil.Mutex
		q *queue.Queue
	}
}

// NewHistory returns an empty History.
func NewHistory(st *cluster.Settings) *History {
	h := &History{st: st, now: timeutil.Now}
	h.mu.q = queue.New()
	return h
}

func (h *History) add(info Info) {
	h.mu.Lock()
	defer h.mu.Unlock()
	capacity := int(closedSessionHistoryCapacity.Get(&h.st.SV))
	if capacity == 0 {
		return
	}
	h.mu.q.Add(ClosedSession{Info: info, ClosedAt: h.now()})
	for h.mu.q.Length() > capacity {
		h.mu.q.Remove()
	}
	h.evictLocked()
}

func (h *History) evictLocked() {
	ttl := closedSessionHistoryTTL.Get(&h.st.SV)
	if ttl <= 0 {
		return
	}
	now := h.now()
	for h.mu.q.Length() > 0 {
		if now.Sub(h.mu.q.Peek().(ClosedSession).ClosedAt) < ttl {
			return
		}
		h.mu.q.Remove()
	}
}

// Snapshot returns the unexpired closed sessions, oldest first.
func (h *History) Snapshot() []ClosedSession {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.evictLocked()
	res := make([]ClosedSession, 0, h.mu.q.Length())
	for i := 0; i < h.mu.q.Length(); i++ {
		res = append(res, h.mu.q.Get(i).(ClosedSession))
	}
	return res
}

// Len returns the number of sessions held, including expired ones not yet
// evicted.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.mu.q.Length()
}
