// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package osql

import "github.com/cockroachdb/errors"

var (
	// ErrSessionClosing is returned by AddClient once Close has started.
	ErrSessionClosing = errors.New("osql session is being closed")
	// ErrRegistryFull is returned by Create when sql.osql.max_sessions
	// sessions are already registered.
	ErrRegistryFull = errors.New("too many osql sessions")
	// ErrNoTable is returned for a row operation received before any usedb.
	ErrNoTable = errors.New("no current table for osql session")
	// ErrDispatchFailed marks errors returned when the
	// transaction-application component refused a session.
	ErrDispatchFailed = errors.New("osql session dispatch failed")
)
