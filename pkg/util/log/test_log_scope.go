// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package log

import (
	"testing"

	"go.uber.org/zap/zaptest"
)

// TestLogScope routes log output to the test's own log for the duration of
// a test. Use as:
//
//	defer log.Scope(t).Close(t)
type TestLogScope struct {
	restore func()
}

// Scope installs a logger writing through t.Logf.
func Scope(t testing.TB) *TestLogScope {
	return &TestLogScope{restore: SetLogger(zaptest.NewLogger(t))}
}

// Close restores the logger that was active before Scope was called.
func (s *TestLogScope) Close(t testing.TB) {
	t.Helper()
	s.restore()
}
