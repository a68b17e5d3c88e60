// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package osql

import (
	"time"

	"github.com/cockroachdb/redact"
	"github.com/dustin/go-humanize"
)

// Info is a point-in-time description of a session.
type Info struct {
	ID       ID
	Type     ReqType
	Node     string
	State    State
	Clients  int
	Seq      uint64
	TranRows uint32
	QueryID  int64
	Start    time.Time
	LastRow  time.Time
	Xerr     ErrStat
	Summary  Summary
}

// Info returns a snapshot of the session.
func (s *Session) Info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completion.mu.Lock()
	xerr, lastRow := s.completion.xerr, s.completion.lastRow
	s.completion.mu.Unlock()
	return Info{
		ID:       s.id,
		Type:     s.typ,
		Node:     s.node,
		State:    s.stateLocked(),
		Clients:  s.mu.clients,
		Seq:      s.mu.seq,
		TranRows: s.mu.tranRows,
		QueryID:  s.queryID,
		Start:    s.startTime,
		LastRow:  lastRow,
		Xerr:     xerr,
		Summary:  s.Summary(),
	}
}

// SafeFormat implements redact.SafeFormatter.
func (i Info) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("osql %s type=%s node=%s state=%s seq=%d rows=%s elapsed=%dms retries=%d",
		i.ID, i.Type, i.Node, i.State, redact.Safe(i.Seq),
		redact.Safe(humanize.Comma(int64(i.TranRows))),
		redact.Safe(i.Summary.ElapsedMillis), redact.Safe(i.Summary.Retries))
	if i.Xerr.Code != 0 {
		w.Printf(" rc=%d", redact.Safe(i.Xerr.Code))
	}
}

func (i Info) String() string { return redact.StringWithoutMarkers(i) }
