// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package log

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/logtags"
	"github.com/cockroachdb/redact"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFormatWithContextTags(t *testing.T) {
	ctx := context.Background()
	require.Equal(t, redact.RedactableString("hello ‹world›"),
		FormatWithContextTags(ctx, "hello %s", "world"))

	ctx = logtags.AddTag(ctx, "n", 1)
	ctx = logtags.AddTag(ctx, "osql", "42")
	require.Equal(t, redact.RedactableString("[n1,osql=42] safe 7"),
		FormatWithContextTags(ctx, "safe %d", redact.Safe(7)))
}

func TestLogOutput(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	defer SetLogger(zap.New(core))()

	ctx := logtags.AddTag(context.Background(), "osql", "7")
	Infof(ctx, "created %s", "sess")
	Warningf(ctx, "warn %d", 3)
	VEventf(ctx, 2, "not emitted")

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	require.Equal(t, "[osql=7] created sess", entries[0].Message)
	require.Equal(t, zapcore.WarnLevel, entries[1].Level)

	defer SetVerbosity(2)()
	VEventf(ctx, 2, "emitted")
	require.Equal(t, 3, logs.Len())

	SetRedactable(true)
	defer SetRedactable(false)
	Infof(ctx, "sql %s", "select 1")
	require.Equal(t, "[osql=7] sql ‹select 1›", logs.All()[3].Message)
}

func TestEveryN(t *testing.T) {
	e := Every(time.Hour)
	require.True(t, e.ShouldLog())
	require.False(t, e.ShouldLog())

	defer SetVerbosity(2)()
	require.True(t, e.ShouldLog())
}
