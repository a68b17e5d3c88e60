// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"os"
	"sync/atomic"
	"text/tabwriter"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/maxwellito/comdb2/pkg/settings"
	"github.com/maxwellito/comdb2/pkg/settings/cluster"
	"github.com/maxwellito/comdb2/pkg/sql/osql"
	"github.com/maxwellito/comdb2/pkg/util/log"
	"github.com/maxwellito/comdb2/pkg/util/metric"
	"github.com/maxwellito/comdb2/pkg/util/timeutil"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"google.golang.org/grpc/peer"
)

const numNodes = 3

type simConfig struct {
	sessions       int
	ops            int
	workers        int
	rate           float64
	failRatio      float64
	settingsFile   string
	metricsAddr    string
	seed           int64
	outcomeTimeout time.Duration
}

func defaultSimConfig() simConfig {
	return simConfig{
		sessions:       1000,
		ops:            20,
		workers:        8,
		failRatio:      0.05,
		outcomeTimeout: 10 * time.Second,
	}
}

type simResult struct {
	elapsed    time.Duration
	completed  int64
	failed     int64
	terminated int64
	refused    int64
	ops        int64
	bytes      uint64
	metrics    *osql.Metrics
}

func (r *simResult) print(w io.Writer) {
	tw := tabwriter.NewWriter(w, 2, 1, 2, ' ', 0)
	fmt.Fprintf(tw, "elapsed\t%s\n", r.elapsed.Round(time.Millisecond))
	fmt.Fprintf(tw, "sessions created\t%s\n", humanize.Comma(r.metrics.SessionsCreated.Count()))
	fmt.Fprintf(tw, "  completed\t%s\n", humanize.Comma(r.completed))
	fmt.Fprintf(tw, "  failed validation\t%s\n", humanize.Comma(r.failed))
	fmt.Fprintf(tw, "  terminated\t%s\n", humanize.Comma(r.terminated))
	fmt.Fprintf(tw, "  refused by applier\t%s\n", humanize.Comma(r.refused))
	fmt.Fprintf(tw, "operations\t%s (%s logged)\n", humanize.Comma(r.ops), humanize.IBytes(r.bytes))
	fmt.Fprintf(tw, "  discarded\t%s\n", humanize.Comma(r.metrics.OpsDiscarded.Count()))
	if secs := r.elapsed.Seconds(); secs > 0 {
		fmt.Fprintf(tw, "ops/sec\t%s\n", humanize.Commaf(float64(int64(float64(r.ops)/secs))))
	}
	_ = tw.Flush()
}

// countingLog is the transaction log of one simulated request.
type countingLog struct {
	records atomic.Int64
	bytes   atomic.Uint64
}

func (l *countingLog) Append(_ context.Context, rec osql.Record) error {
	l.records.Add(1)
	l.bytes.Add(uint64(len(rec.Op.Payload)))
	return nil
}

// poolApplier hands dispatched sessions to a fixed pool of workers. A full
// queue refuses the session.
type poolApplier struct {
	work chan *osql.Session
}

func (a *poolApplier) Apply(_ context.Context, s *osql.Session) error {
	select {
	case a.work <- s:
		return nil
	default:
		return errors.New("applier queue full")
	}
}

// applyWorker validates the selectv rows of each session it receives and
// reports the outcome.
func applyWorker(
	ctx context.Context, r *osql.Registry, work <-chan *osql.Session, failRatio float64, seed int64,
) error {
	rng := rand.New(rand.NewSource(seed))
	for s := range work {
		var xerr osql.ErrStat
		if err := s.ProcessSelectv(func(e osql.SelectvEntry) error {
			if rng.Float64() < failRatio {
				return errors.Newf("genid %d changed", e.Genid)
			}
			return nil
		}); err != nil {
			xerr = osql.ErrStat{Code: 4, Msg: err.Error()}
		}
		if err := r.SetComplete(ctx, s.ID(), xerr); err != nil {
			return err
		}
	}
	return nil
}

func loadSettings(ctx context.Context, st *cluster.Settings, path string) error {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "opening settings file")
	}
	defer f.Close()
	return settings.LoadYAML(ctx, f, &st.SV)
}

func serveMetrics(ctx context.Context, g *errgroup.Group, addr string, reg *metric.Registry) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrap(err, "listening for metrics")
	}
	srv := &http.Server{Handler: promhttp.HandlerFor(reg.Gatherer(), promhttp.HandlerOpts{})}
	log.Infof(ctx, "serving metrics on %s", ln.Addr())
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		return srv.Close()
	})
	return nil
}

func runSim(ctx context.Context, c simConfig) (*simResult, error) {
	if c.workers <= 0 {
		return nil, errors.Newf("--workers must be positive, got %d", c.workers)
	}
	st := cluster.MakeClusterSettings()
	if err := loadSettings(ctx, st, c.settingsFile); err != nil {
		return nil, err
	}
	seed := c.seed
	if seed == 0 {
		seed = timeutil.Now().UnixNano()
	}
	log.Infof(ctx, "random seed: %d", seed)

	applier := &poolApplier{work: make(chan *osql.Session, c.workers)}
	r := osql.NewRegistry(st, applier, nil)
	reg := metric.NewRegistry()
	reg.AddMetricStruct(r.Metrics())

	limit := rate.Inf
	if c.rate > 0 {
		limit = rate.Limit(c.rate)
	}
	limiter := rate.NewLimiter(limit, c.workers)

	bg, bgCtx := errgroup.WithContext(ctx)
	bgCtx, stopBg := context.WithCancel(bgCtx)
	if c.metricsAddr != "" {
		if err := serveMetrics(bgCtx, bg, c.metricsAddr, reg); err != nil {
			stopBg()
			return nil, err
		}
	}
	var pool errgroup.Group
	for i := 0; i < c.workers; i++ {
		workerSeed := seed + int64(i) + 1
		pool.Go(func() error {
			return applyWorker(ctx, r, applier.work, c.failRatio, workerSeed)
		})
	}

	res := &simResult{metrics: r.Metrics()}
	start := timeutil.Now()
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i := 0; i < c.sessions; i++ {
		fe := frontEnd{
			r:       r,
			sv:      &st.SV,
			cfg:     &c,
			res:     res,
			limiter: limiter,
			rng:     rand.New(rand.NewSource(seed - int64(i) - 1)),
			idx:     i,
		}
		g.Go(func() error { return fe.run(gCtx) })
	}
	err := g.Wait()
	close(applier.work)
	err = errors.CombineErrors(err, pool.Wait())
	stopBg()
	err = errors.CombineErrors(err, bg.Wait())
	res.elapsed = timeutil.Since(start)
	for _, info := range r.Sessions() {
		log.Errorf(ctx, "session left registered: %s", info)
	}
	return res, err
}

// frontEnd plays the request handler of one offloaded transaction.
type frontEnd struct {
	r       *osql.Registry
	sv      *settings.Values
	cfg     *simConfig
	res     *simResult
	limiter *rate.Limiter
	rng     *rand.Rand
	idx     int
}

func (fe *frontEnd) id() osql.ID {
	if fe.idx%2 == 0 {
		return osql.MakeUUIDID(uuid.New())
	}
	// Numeric ids start past the sentinel.
	return osql.ID{RqID: osql.UseUUID + 1 + uint64(fe.idx)}
}

func (fe *frontEnd) run(ctx context.Context) error {
	node := fe.idx % numNodes
	peerCtx := peer.NewContext(ctx, &peer.Peer{
		Addr: &net.TCPAddr{IP: net.IPv4(10, 0, 0, byte(node+1)), Port: 19000},
	})
	bl := &countingLog{}
	req, err := osql.NewRequest(peerCtx, fe.sv, bl)
	if err != nil {
		return err
	}
	id := fe.id()
	s, _, err := fe.r.Create(ctx, req, osql.SessionArgs{
		ID:   id,
		Type: osql.ReqTypeSock,
		SQL:  fmt.Sprintf("-- simulated transaction %d", fe.idx),
	})
	if err != nil {
		return err
	}
	ctx = s.AnnotateCtx(ctx)

	abortAt := -1
	if fe.rng.Float64() < fe.cfg.failRatio/2 {
		abortAt = fe.rng.Intn(fe.cfg.ops + 1)
	}
	table := fmt.Sprintf("t%d", fe.rng.Intn(4))
	ops := []osql.Op{{Kind: osql.OpUseDB, Table: table, TableVersion: 1}}
	for i := 0; i < fe.cfg.ops; i++ {
		ops = append(ops, fe.randomOp())
	}
	ops = append(ops, osql.Op{Kind: osql.OpDone})

	for i, op := range ops {
		if i == abortAt {
			s.TryTerminate(ctx)
		}
		if err := fe.limiter.Wait(ctx); err != nil {
			return errors.CombineErrors(err, fe.r.Close(ctx, s, false))
		}
		if _, err := fe.r.ReceiveOp(ctx, id, op); err != nil {
			if errors.Is(err, osql.ErrDispatchFailed) {
				// The session was cleared inline.
				atomic.AddInt64(&fe.res.refused, 1)
				return nil
			}
			return errors.CombineErrors(err, fe.r.Close(ctx, s, false))
		}
		atomic.AddInt64(&fe.res.ops, 1)
	}

	waitCtx, cancel := context.WithTimeout(ctx, fe.cfg.outcomeTimeout)
	state, err := s.AwaitOutcome(waitCtx)
	cancel()
	if err != nil {
		s.TryTerminate(ctx)
		state = osql.StateTerminated
	}
	switch state {
	case osql.StateCompleted:
		if xerr, _ := s.Outcome(); xerr.Code != 0 {
			atomic.AddInt64(&fe.res.failed, 1)
		} else {
			atomic.AddInt64(&fe.res.completed, 1)
		}
	default:
		atomic.AddInt64(&fe.res.terminated, 1)
	}
	atomic.AddUint64(&fe.res.bytes, bl.bytes.Load())
	if log.ExpensiveLogEnabled(ctx, 1) {
		s.LogQuery(ctx)
	}
	return fe.r.Close(ctx, s, false)
}

func (fe *frontEnd) randomOp() osql.Op {
	genid := uint64(fe.rng.Intn(64) + 1)
	switch n := fe.rng.Intn(10); {
	case n < 4:
		return osql.Op{Kind: osql.OpInsert, Payload: make([]byte, 16+fe.rng.Intn(240))}
	case n < 6:
		return osql.Op{Kind: osql.OpUpdate, Genid: genid, Payload: make([]byte, 16)}
	case n < 7:
		return osql.Op{Kind: osql.OpDelete, Genid: genid}
	case n < 9:
		return osql.Op{Kind: osql.OpRecGenid, Genid: genid}
	default:
		return osql.Op{Kind: osql.OpQBlob, Payload: make([]byte, 1024)}
	}
}
