// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package osql

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/logtags"
	"github.com/maxwellito/comdb2/pkg/util/log"
	"github.com/maxwellito/comdb2/pkg/util/syncutil"
	"github.com/maxwellito/comdb2/pkg/util/timeutil"
)

// phase is the internal progression of a session. It only moves forward;
// the terminal outcome is tracked separately by the completion record.
type phase int8

const (
	phaseCreated phase = iota
	phaseActive
	phaseDispatched
	phaseClosed
)

func (p phase) String() string {
	switch p {
	case phaseCreated:
		return "created"
	case phaseActive:
		return "active"
	case phaseDispatched:
		return "dispatched"
	case phaseClosed:
		return "closed"
	}
	return "unknown"
}

// Session is one offloaded transaction.
type Session struct {
	id        ID
	typ       ReqType
	sql       string
	tz        string
	loc       *time.Location
	queryID   int64
	node      string
	startTime time.Time
	// reqCopy is the session's own copy of the owning request. It stays
	// valid after dispatch.
	reqCopy Request
	metrics *Metrics
	retries atomic.Int32

	completion completion

	mu struct {
		syncutil.Mutex
		// cond is signaled when clients drops while closing, when an outcome
		// is reached and when the session is dispatched.
		cond sync.Cond

		clients int
		// closing is set once Close starts. AddClient fails from then on.
		closing   bool
		phase     phase
		terminate bool

		// dispatching is set while the applier is being handed the session.
		dispatching bool
		// req is the owning request. It is cleared at dispatch, after which
		// the front end no longer owns the session.
		req *Request

		seq      uint64
		tranRows uint32

		reorder          reorderState
		selectvWriteLock bool
		selectv          map[selectvKey]*SelectvEntry
	}
}

// SessionArgs describes a session to create.
type SessionArgs struct {
	ID       ID
	Type     ReqType
	SQL      string
	TimeZone string
	QueryID  int64
}

func newSession(req *Request, args SessionArgs, loc *time.Location, metrics *Metrics) *Session {
	s := &Session{
		id:        args.ID,
		typ:       args.Type,
		sql:       args.SQL,
		tz:        args.TimeZone,
		loc:       loc,
		queryID:   args.QueryID,
		node:      req.Origin,
		startTime: timeutil.Now(),
		reqCopy:   *req,
		metrics:   metrics,
	}
	s.mu.cond.L = &s.mu.Mutex
	s.mu.req = req
	return s
}

// ID returns the identity of the session.
func (s *Session) ID() ID { return s.id }

// Type returns the protocol variant of the session.
func (s *Session) Type() ReqType { return s.typ }

// Node returns the replicant node the session came from.
func (s *Session) Node() string { return s.node }

// SQL returns the text of the offloaded transaction.
func (s *Session) SQL() string { return s.sql }

// Request returns the session's copy of its owning request.
func (s *Session) Request() *Request { return &s.reqCopy }

// AnnotateCtx adds the session identity to the log tags of ctx.
func (s *Session) AnnotateCtx(ctx context.Context) context.Context {
	return logtags.AddTag(ctx, "osql", s.id)
}

// SetRetries records how many times the transaction was retried. The count
// is maintained by the caller.
func (s *Session) SetRetries(n int32) { s.retries.Store(n) }

// advanceLocked moves the session to p. Moving backwards is a bug.
func (s *Session) advanceLocked(p phase) error {
	if p < s.mu.phase {
		return errors.AssertionFailedf("osql session %s cannot move from %s to %s", s.id, s.mu.phase, p)
	}
	s.mu.phase = p
	return nil
}

// AddClient registers the caller's interest in the session, which keeps it
// from being freed until the matching RemoveClient. It fails once the
// session is being closed.
func (s *Session) AddClient() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addClientLocked()
}

func (s *Session) addClientLocked() error {
	if s.mu.closing {
		return ErrSessionClosing
	}
	s.mu.clients++
	return nil
}

// RemoveClient releases a reference taken by AddClient. The last release
// of a closing session wakes the closer.
func (s *Session) RemoveClient() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mu.clients <= 0 {
		return errors.AssertionFailedf("osql session %s: negative client count", s.id)
	}
	s.mu.clients--
	if s.mu.closing {
		s.mu.cond.Broadcast()
	}
	return nil
}

// TryTerminate marks the session terminated unless it already reached an
// outcome. Of concurrent callers at most one sees TerminatedNow.
func (s *Session) TryTerminate(ctx context.Context) TerminateResult {
	if s == nil {
		return TerminateInternalError
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mu.phase == phaseClosed {
		log.Warningf(ctx, "osql session %s: terminate after close", s.id)
		return TerminateInternalError
	}
	if !s.terminateLocked(false /* force */) {
		return AlreadyTerminal
	}
	log.VEventf(ctx, 2, "osql session %s terminated", s.id)
	return TerminatedNow
}

// terminateLocked records termination as the outcome unless one was
// already reached, in which case the session is left untouched. force sets
// the terminate flag regardless, for sessions that are being torn down.
func (s *Session) terminateLocked(force bool) bool {
	now := s.completion.finish(outcomeTerminated, ErrStat{})
	if !now && !force {
		return false
	}
	s.mu.terminate = true
	if now {
		s.metrics.SessionsTerminated.Inc(1)
	}
	s.mu.cond.Broadcast()
	return now
}

// SetComplete records the outcome reported by the transaction-application
// component. Only the first outcome is kept; it returns whether this call
// recorded it.
func (s *Session) SetComplete(ctx context.Context, xerr ErrStat) bool {
	if !s.completion.finish(outcomeCompleted, xerr) {
		log.VEventf(ctx, 2, "osql session %s: ignoring completion rc=%d", s.id, xerr.Code)
		return false
	}
	s.metrics.SessionsCompleted.Inc(1)
	// Waiters check the outcome under the session lock; taking it here
	// orders the broadcast after their check.
	s.mu.Lock()
	s.mu.cond.Broadcast()
	s.mu.Unlock()
	return true
}

// Outcome returns the error status recorded by SetComplete, and whether
// the session completed.
func (s *Session) Outcome() (ErrStat, bool) {
	o, xerr, _ := s.completion.get()
	return xerr, o == outcomeCompleted
}

// Terminated returns whether the terminate flag is set.
func (s *Session) Terminated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mu.terminate
}

// State returns the lifecycle state of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	if s.mu.phase == phaseClosed {
		return StateClosed
	}
	switch o, _, _ := s.completion.get(); o {
	case outcomeCompleted:
		return StateCompleted
	case outcomeTerminated:
		return StateTerminated
	}
	switch s.mu.phase {
	case phaseCreated:
		return StateCreated
	case phaseDispatched:
		return StateDispatched
	default:
		return StateActive
	}
}

// AwaitOutcome blocks until the session completes, is terminated or is
// closed, or until ctx is done.
func (s *Session) AwaitOutcome(ctx context.Context) (State, error) {
	stop := context.AfterFunc(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.mu.cond.Broadcast()
	})
	defer stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		if st := s.stateLocked(); st.Terminal() {
			return st, nil
		}
		if err := ctx.Err(); err != nil {
			return s.stateLocked(), err
		}
		s.mu.cond.Wait()
	}
}

// beginDispatch claims the session for a handoff to the applier. Only an
// active session without an outcome can be claimed, and only once.
func (s *Session) beginDispatch() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.mu.closing:
		return errors.Newf("osql session %s is closing", s.id)
	case s.mu.phase != phaseActive || s.mu.dispatching:
		return errors.Newf("osql session %s cannot be dispatched when %s", s.id, s.stateLocked())
	case s.mu.terminate:
		return errors.Newf("osql session %s is terminated", s.id)
	case s.completion.terminal():
		return errors.Newf("osql session %s already has an outcome", s.id)
	}
	s.mu.dispatching = true
	return nil
}

// abortDispatch releases the claim taken by beginDispatch after the
// applier refused the session.
func (s *Session) abortDispatch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mu.dispatching = false
}

// markDispatched records that the transaction-application component
// accepted the session, and drops the reference to the owning request.
func (s *Session) markDispatched() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.advanceLocked(phaseDispatched); err != nil {
		return err
	}
	s.mu.dispatching = false
	s.mu.req = nil
	s.mu.cond.Broadcast()
	return nil
}

// discardingLocked returns whether operations are only counted. That is
// the case once the session is terminated, has completed or was handed to
// the applier.
func (s *Session) discardingLocked() bool {
	return s.mu.terminate || s.mu.phase >= phaseDispatched || s.completion.terminal()
}

// receive applies op to the session and appends it to the transaction log
// of the owning request. It returns whether op ended the stream.
func (s *Session) receive(ctx context.Context, op Op) (done bool, _ error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mu.phase == phaseClosed {
		return false, errors.AssertionFailedf("osql session %s: operation after close", s.id)
	}

	s.mu.seq++
	rec := Record{Seq: s.mu.seq, Op: op}
	s.completion.noteRow(timeutil.Now())
	if op.Kind.IsRowMutation() {
		s.mu.tranRows++
	}
	if s.discardingLocked() {
		s.metrics.OpsDiscarded.Inc(1)
		log.VEventf(ctx, 3, "osql session %s: discarding %s seq=%d", s.id, op.Kind, rec.Seq)
		return false, nil
	}

	rs := &s.mu.reorder
	switch {
	case op.Kind == OpUseDB:
		if op.Table == "" {
			return false, errors.Newf("osql session %s: usedb without table", s.id)
		}
		rs.useTable(op.Table, op.TableVersion)
	case op.Kind.needsTable() && rs.table == "":
		return false, errors.Wrapf(ErrNoTable, "osql session %s: %s seq=%d", s.id, op.Kind, rec.Seq)
	case op.Kind == OpRecGenid:
		added, err := s.cacheSelectvLocked(op.Genid)
		if err != nil {
			return false, err
		}
		if added {
			s.metrics.SelectvCached.Inc(1)
		}
	case op.Kind == OpUpdate || op.Kind == OpDelete:
		s.markSelectvWriteLockedLocked(op.Genid)
	}
	rec.Key = rs.key(&op)

	if req := s.mu.req; req != nil && req.Log != nil {
		if err := req.Log.Append(ctx, rec); err != nil {
			return false, errors.Wrapf(err, "osql session %s: appending seq=%d", s.id, rec.Seq)
		}
	}
	return op.Kind.IsDone(), nil
}

// Summary is a snapshot of the timing of a session.
type Summary struct {
	ElapsedMillis int64
	Retries       int32
}

// Summary returns the elapsed time of the session, up to its outcome if it
// has one, and its retry count. It does not take the session monitor.
func (s *Session) Summary() Summary {
	_, _, end := s.completion.get()
	if end.IsZero() {
		end = timeutil.Now()
	}
	startUS, endUS := timeutil.UnixMicros(s.startTime), timeutil.UnixMicros(end)
	return Summary{
		ElapsedMillis: int64(endUS-startUS) / 1000,
		Retries:       s.retries.Load(),
	}
}

// LogQuery writes the request log line of the session.
func (s *Session) LogQuery(ctx context.Context) {
	info := s.Info()
	log.Infof(s.AnnotateCtx(ctx), "%s started=%s sql=%s",
		info, s.startTime.In(s.loc).Format(timeutil.FullTimeFormat), s.sql)
}
