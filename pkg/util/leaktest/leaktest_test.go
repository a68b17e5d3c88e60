// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package leaktest

import (
	"testing"
)

func TestAfterTestNoLeak(t *testing.T) {
	check := AfterTest(t)
	done := make(chan struct{})
	go func() { close(done) }()
	<-done
	check()
}
