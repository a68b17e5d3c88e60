// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package osql

import (
	"time"

	"github.com/maxwellito/comdb2/pkg/util/syncutil"
	"github.com/maxwellito/comdb2/pkg/util/timeutil"
)

type outcome int8

const (
	outcomeNone outcome = iota
	outcomeCompleted
	outcomeTerminated
)

// completion records the terminal outcome of a session. It has its own lock
// so that reporting an outcome, or taking a summary, never waits for the
// session monitor.
type completion struct {
	mu      syncutil.Mutex
	outcome outcome
	xerr    ErrStat
	endTime time.Time
	lastRow time.Time
}

// finish moves the record to o. Only the first call has an effect.
func (c *completion) finish(o outcome, xerr ErrStat) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.outcome != outcomeNone {
		return false
	}
	c.outcome = o
	c.xerr = xerr
	c.endTime = timeutil.Now()
	return true
}

func (c *completion) terminal() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outcome != outcomeNone
}

func (c *completion) noteRow(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastRow = now
}

func (c *completion) get() (outcome, ErrStat, time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outcome, c.xerr, c.endTime
}
