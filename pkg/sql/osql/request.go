// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package osql

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/maxwellito/comdb2/pkg/rpc"
	"github.com/maxwellito/comdb2/pkg/settings"
	"github.com/maxwellito/comdb2/pkg/util/timeutil"
)

//go:generate mockgen -package=osql -destination=mocks_generated_test.go . BlockLog,Applier

// BlockLog is the transaction log of one request. Records are appended in
// delivery order.
type BlockLog interface {
	Append(ctx context.Context, rec Record) error
}

// Applier is the transaction-application component. Apply takes ownership
// of a session whose operation stream is done and later reports its outcome
// with Registry.SetComplete. An error means the session was not accepted.
type Applier interface {
	Apply(ctx context.Context, s *Session) error
}

// Request is the front-end request that owns a session until dispatch.
type Request struct {
	// Origin names the replicant node that forwarded the transaction.
	Origin string
	Log    BlockLog
	Start  time.Time
}

// NewRequest returns a request attributed to the peer of the connection
// carried by ctx.
func NewRequest(ctx context.Context, sv *settings.Values, log BlockLog) (*Request, error) {
	origin, err := rpc.PeerIdentity(ctx, sv)
	if err != nil {
		return nil, errors.Wrap(err, "attributing osql request")
	}
	return &Request{Origin: origin, Log: log, Start: timeutil.Now()}, nil
}
