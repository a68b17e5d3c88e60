// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package osql

import (
	"time"

	"github.com/maxwellito/comdb2/pkg/settings"
)

var reorderEnabled = settings.RegisterBoolSetting(
	"sql.osql.reorder.enabled",
	"if set, operations of new sessions carry sort keys so the applier can reorder them by table and row",
	false,
)

var selectvWriteLockOnUpdate = settings.RegisterBoolSetting(
	"sql.osql.selectv_writelock_on_update.enabled",
	"if set, a row read by selectv and later updated or deleted in the same session is validated under a write lock",
	true,
)

var maxSessions = settings.RegisterIntSetting(
	"sql.osql.max_sessions",
	"maximum number of registered osql sessions; 0 means unlimited",
	0,
	settings.NonNegativeInt,
)

var closedSessionHistoryCapacity = settings.RegisterIntSetting(
	"sql.osql.closed_session_history.capacity",
	"number of closed sessions kept for introspection",
	100,
	settings.NonNegativeInt,
)

var closedSessionHistoryTTL = settings.RegisterDurationSetting(
	"sql.osql.closed_session_history.ttl",
	"how long closed sessions are kept for introspection; 0 disables expiry",
	time.Hour,
	settings.NonNegativeDuration,
)

var closeWaitLogInterval = settings.RegisterDurationSetting(
	"sql.osql.close_wait_log_interval",
	"how often a close blocked on session clients is logged",
	5*time.Second,
	settings.NonNegativeDuration,
)
