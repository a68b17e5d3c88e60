// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package osql

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/maxwellito/comdb2/pkg/settings/cluster"
	"github.com/maxwellito/comdb2/pkg/util/log"
	"github.com/maxwellito/comdb2/pkg/util/syncutil"
	"github.com/maxwellito/comdb2/pkg/util/timeutil"
)

// TestingKnobs contains hooks for tests.
type TestingKnobs struct {
	// BeforeFree is called once per session, after its clients have drained
	// and before its state is released.
	BeforeFree func(id ID)
	// BeforeCloseWait is called each time Close waits for clients.
	BeforeCloseWait func(id ID, clients int)
}

// Registry maps identities to the live sessions of this node.
type Registry struct {
	st      *cluster.Settings
	applier Applier
	metrics Metrics
	history *History
	knobs   TestingKnobs

	mu struct {
		syncutil.Mutex
		sessions map[idKey]*Session
	}
}

// NewRegistry creates a registry dispatching sessions to applier.
func NewRegistry(st *cluster.Settings, applier Applier, knobs *TestingKnobs) *Registry {
	r := &Registry{
		st:      st,
		applier: applier,
		metrics: makeMetrics(),
		history: NewHistory(st),
	}
	if knobs != nil {
		r.knobs = *knobs
	}
	r.mu.sessions = make(map[idKey]*Session)
	return r
}

// Metrics returns the metrics of the registry.
func (r *Registry) Metrics() *Metrics { return &r.metrics }

// History returns the closed sessions kept for introspection.
func (r *Registry) History() *History { return r.history }

// Create registers a new session owned by req. If a session is already
// registered under args.ID it is detached and terminated, and replaced is
// true; its owner is still responsible for closing it.
func (r *Registry) Create(
	ctx context.Context, req *Request, args SessionArgs,
) (_ *Session, replaced bool, _ error) {
	if !args.ID.valid() {
		return nil, false, errors.Newf("invalid osql session id %s", args.ID)
	}
	if req == nil {
		return nil, false, errors.AssertionFailedf("osql session %s: no owning request", args.ID)
	}
	if !args.Type.IsSorese() {
		return nil, false, errors.Newf("osql session %s: unsupported request type %s", args.ID, args.Type)
	}
	loc, err := timeutil.TimeZoneStringToLocation(args.TimeZone)
	if err != nil {
		return nil, false, errors.Wrapf(err, "osql session %s", args.ID)
	}
	sv := &r.st.SV
	s := newSession(req, args, loc, &r.metrics)
	s.mu.reorder.on = reorderEnabled.Get(sv)
	s.mu.selectvWriteLock = selectvWriteLockOnUpdate.Get(sv)

	old, err := r.insert(s, maxSessions.Get(sv))
	if err != nil {
		return nil, false, err
	}
	if old != nil {
		old.mu.Lock()
		old.terminateLocked(true /* force */)
		old.mu.Unlock()
		r.metrics.SessionsReplaced.Inc(1)
		log.Warningf(ctx, "osql session %s replaced a live session from node %s", args.ID, old.node)
	}
	r.metrics.SessionsCreated.Inc(1)
	log.VEventf(s.AnnotateCtx(ctx), 2, "created %s session from node %s", args.Type, s.node)
	return s, old != nil, nil
}

// insert registers s and returns the session it displaced, if any.
func (r *Registry) insert(s *Session, limit int64) (old *Session, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := s.id.key()
	old = r.mu.sessions[k]
	if old == nil && limit > 0 && int64(len(r.mu.sessions)) >= limit {
		return nil, errors.Wrapf(ErrRegistryFull, "%d sessions registered", len(r.mu.sessions))
	}
	s.mu.Lock()
	err := s.advanceLocked(phaseActive)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	r.mu.sessions[k] = s
	if old == nil {
		r.metrics.SessionsActive.Inc(1)
	}
	return old, nil
}

// Find returns the session registered under id with a client reference
// added. The caller must call RemoveClient when done. A missing session is
// not an error: it may have completed already.
func (r *Registry) Find(id ID) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.mu.sessions[id.key()]
	if !ok {
		return nil, false
	}
	if err := s.AddClient(); err != nil {
		return nil, false
	}
	return s, true
}

// unlink removes s from the registry. It is a no-op if s is no longer the
// session registered under its identity.
func (r *Registry) unlink(s *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := s.id.key()
	if r.mu.sessions[k] != s {
		return false
	}
	delete(r.mu.sessions, k)
	r.metrics.SessionsActive.Dec(1)
	return true
}

func (r *Registry) linked(s *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mu.sessions[s.id.key()] == s
}

// ForEach calls fn on every registered session. The registry lock is not
// held during the calls; each session is pinned with a client reference
// instead. Iteration stops at the first error, which is returned.
func (r *Registry) ForEach(fn func(*Session) error) error {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.mu.sessions))
	for _, s := range r.mu.sessions {
		if s.AddClient() == nil {
			sessions = append(sessions, s)
		}
	}
	r.mu.Unlock()

	var err error
	for _, s := range sessions {
		if err == nil {
			err = fn(s)
		}
		if rerr := s.RemoveClient(); rerr != nil {
			err = errors.CombineErrors(err, rerr)
		}
	}
	return err
}

// TerminateNode terminates every session that came from node, or every
// session if node is empty. It returns the number of sessions terminated.
func (r *Registry) TerminateNode(ctx context.Context, node string) int {
	var n int
	_ = r.ForEach(func(s *Session) error {
		if node != "" && s.node != node {
			return nil
		}
		if s.TryTerminate(ctx) == TerminatedNow {
			n++
		}
		return nil
	})
	if n > 0 {
		log.Infof(ctx, "terminated %d osql sessions from node %q", n, node)
	}
	return n
}

// Sessions returns a snapshot of every registered session.
func (r *Registry) Sessions() []Info {
	var infos []Info
	_ = r.ForEach(func(s *Session) error {
		infos = append(infos, s.Info())
		return nil
	})
	return infos
}

// SetComplete records the outcome of the session registered under id. An
// unknown id is ignored.
func (r *Registry) SetComplete(ctx context.Context, id ID, xerr ErrStat) error {
	s, ok := r.Find(id)
	if !ok {
		log.VEventf(ctx, 2, "osql session %s: completion for unknown session", id)
		return nil
	}
	s.SetComplete(ctx, xerr)
	return s.RemoveClient()
}

// Dispatch hands s to the transaction-application component. Only an
// active session that has no outcome yet is handed over, at most once. If
// the handoff fails, s stays undispatched; the caller releases its client
// reference and cleans up with ClearOnError. Apply runs while the caller
// holds a client reference, so it must not close the session itself.
func (r *Registry) Dispatch(ctx context.Context, s *Session) error {
	if r.applier == nil {
		return errors.Mark(errors.New("no transaction applier"), ErrDispatchFailed)
	}
	if err := s.beginDispatch(); err != nil {
		return errors.Mark(err, ErrDispatchFailed)
	}
	if err := r.applier.Apply(ctx, s); err != nil {
		s.abortDispatch()
		return errors.Mark(errors.Wrapf(err, "dispatching osql session %s", s.id), ErrDispatchFailed)
	}
	return s.markDispatched()
}

// ClearOnError terminates and closes a session whose handoff to the
// transaction-application component failed.
func (r *Registry) ClearOnError(ctx context.Context, s *Session, cause error) error {
	log.Warningf(ctx, "osql session %s: clearing after error: %v", s.id, cause)
	s.mu.Lock()
	s.terminateLocked(true /* force */)
	s.mu.Unlock()
	r.unlink(s)
	return r.Close(ctx, s, true)
}

// Close unlinks s unless alreadyUnlinked, waits for its clients to drain
// and releases it. Closing a closed session is a no-op.
func (r *Registry) Close(ctx context.Context, s *Session, alreadyUnlinked bool) error {
	if s == nil {
		return errors.AssertionFailedf("closing nil osql session")
	}
	ctx = s.AnnotateCtx(ctx)
	if !alreadyUnlinked {
		r.unlink(s)
	} else if r.linked(s) {
		return errors.AssertionFailedf("osql session %s closed while still registered", s.id)
	}

	s.mu.Lock()
	if s.mu.closing {
		s.mu.Unlock()
		return nil
	}
	s.mu.closing = true
	every := log.Every(closeWaitLogInterval.Get(&r.st.SV))
	for s.mu.clients > 0 {
		if every.ShouldLog() {
			log.Infof(ctx, "close waiting for %d clients", s.mu.clients)
		}
		if fn := r.knobs.BeforeCloseWait; fn != nil {
			fn(s.id, s.mu.clients)
		}
		s.mu.cond.Wait()
	}
	if err := s.advanceLocked(phaseClosed); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.req = nil
	s.mu.selectv = nil
	s.mu.reorder = reorderState{}
	s.mu.cond.Broadcast()
	s.mu.Unlock()

	if fn := r.knobs.BeforeFree; fn != nil {
		fn(s.id)
	}
	info := s.Info()
	r.history.add(info)
	r.metrics.SessionsClosed.Inc(1)
	r.metrics.SessionDuration.RecordDuration(timeutil.Since(s.startTime))
	log.VEventf(ctx, 2, "closed: %s", info)
	return nil
}

// ReceiveOp delivers op to the session registered under id. found is false
// if there is no such session, which is not an error. An operation ending
// the stream dispatches the session.
func (r *Registry) ReceiveOp(ctx context.Context, id ID, op Op) (found bool, _ error) {
	s, ok := r.Find(id)
	if !ok {
		r.metrics.OpsUnknown.Inc(1)
		log.VEventf(ctx, 3, "osql session %s: %s for unknown session", id, op.Kind)
		return false, nil
	}
	r.metrics.OpsReceived.Inc(1)
	ctx = s.AnnotateCtx(ctx)
	done, err := s.receive(ctx, op)
	if err != nil || !done {
		return true, errors.CombineErrors(err, s.RemoveClient())
	}
	if err := r.Dispatch(ctx, s); err != nil {
		if rerr := s.RemoveClient(); rerr != nil {
			return true, errors.CombineErrors(err, rerr)
		}
		return true, errors.CombineErrors(err, r.ClearOnError(ctx, s, err))
	}
	return true, s.RemoveClient()
}
