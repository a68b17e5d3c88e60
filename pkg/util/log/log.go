// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package log provides context-aware logging. Messages are prefixed with the
// logtags carried by the context and formatted with redaction markers around
// unsafe arguments. The output is written to a process-wide zap logger.
package log

import (
	"context"
	"sync/atomic"

	"github.com/maxwellito/comdb2/pkg/util/syncutil"
	"go.uber.org/zap"
)

// Severity identifies the importance of a log entry.
type Severity int8

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	case SeverityFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

var logging struct {
	mu struct {
		syncutil.RWMutex
		logger *zap.Logger
	}
	verbosity      atomic.Int32
	redactableLogs atomic.Bool
}

func init() {
	l, err := zap.NewProduction()
	if err != nil {
		l = zap.NewNop()
	}
	logging.mu.logger = l
}

// SetLogger installs l as the output of the package and returns a function
// restoring the previous logger.
func SetLogger(l *zap.Logger) (restore func()) {
	logging.mu.Lock()
	defer logging.mu.Unlock()
	prev := logging.mu.logger
	logging.mu.logger = l
	return func() {
		logging.mu.Lock()
		defer logging.mu.Unlock()
		logging.mu.logger = prev
	}
}

// SetVerbosity sets the level under which V() returns true, and returns a
// function restoring the previous level.
func SetVerbosity(level int32) (restore func()) {
	prev := logging.verbosity.Swap(level)
	return func() { logging.verbosity.Store(prev) }
}

// SetRedactable controls whether redaction markers are kept in the output.
func SetRedactable(on bool) {
	logging.redactableLogs.Store(on)
}

// V returns true if the logging verbosity is set to the specified level or
// higher.
func V(level int32) bool {
	return logging.verbosity.Load() >= level
}

// ExpensiveLogEnabled is used to test whether effort should be spent on
// assembling a log message at the given verbosity.
func ExpensiveLogEnabled(ctx context.Context, level int32) bool {
	return V(level)
}

func getLogger() *zap.Logger {
	logging.mu.RLock()
	defer logging.mu.RUnlock()
	return logging.mu.logger
}

func logfDepth(
	ctx context.Context, sev Severity, depth int, format string, args ...interface{},
) {
	msg := FormatWithContextTags(ctx, format, args...)
	out := string(msg)
	if !logging.redactableLogs.Load() {
		out = string(msg.StripMarkers())
	}
	l := getLogger().WithOptions(zap.AddCallerSkip(depth + 1))
	switch sev {
	case SeverityInfo:
		l.Info(out)
	case SeverityWarning:
		l.Warn(out)
	case SeverityError:
		l.Error(out)
	case SeverityFatal:
		l.Fatal(out)
	}
}

// Infof logs to the INFO severity.
func Infof(ctx context.Context, format string, args ...interface{}) {
	logfDepth(ctx, SeverityInfo, 1, format, args...)
}

// Info logs a message without formatting directives to the INFO severity.
func Info(ctx context.Context, msg string) {
	logfDepth(ctx, SeverityInfo, 1, "%s", msg)
}

// Warningf logs to the WARNING severity.
func Warningf(ctx context.Context, format string, args ...interface{}) {
	logfDepth(ctx, SeverityWarning, 1, format, args...)
}

// Errorf logs to the ERROR severity.
func Errorf(ctx context.Context, format string, args ...interface{}) {
	logfDepth(ctx, SeverityError, 1, format, args...)
}

// Fatalf logs to the FATAL severity and terminates the process.
func Fatalf(ctx context.Context, format string, args ...interface{}) {
	logfDepth(ctx, SeverityFatal, 1, format, args...)
}

// VEventf logs to the INFO severity when the verbosity is at least level.
func VEventf(ctx context.Context, level int32, format string, args ...interface{}) {
	if V(level) {
		logfDepth(ctx, SeverityInfo, 1, format, args...)
	}
}
