// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package leaktest provides tools to detect leaked goroutines in tests.
// To use it, call "defer leaktest.AfterTest(t)()" at the beginning of each
// test that may use goroutines.
package leaktest

import (
	"testing"

	"go.uber.org/goleak"
)

// AfterTest snapshots the currently-running goroutines and returns a
// function to be run at the end of tests to see whether any
// goroutines leaked.
func AfterTest(t testing.TB) func() {
	baseline := goleak.IgnoreCurrent()
	return func() {
		t.Helper()
		if t.Failed() {
			return
		}
		if err := goleak.Find(baseline); err != nil {
			t.Errorf("leaked goroutines: %v", err)
		}
	}
}
