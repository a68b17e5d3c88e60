// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package log

import (
	"context"

	"github.com/cockroachdb/logtags"
	"github.com/cockroachdb/redact"
)

// FormatWithContextTags formats the string and prepends the context
// tags in brackets. Unsafe arguments are enclosed in redaction markers.
func FormatWithContextTags(
	ctx context.Context, format string, args ...interface{},
) redact.RedactableString {
	var b redact.StringBuilder
	formatTags(ctx, &b)
	b.Printf(format, args...)
	return b.RedactableString()
}

func formatTags(ctx context.Context, b *redact.StringBuilder) {
	tags := logtags.FromContext(ctx)
	if tags == nil || len(tags.Get()) == 0 {
		return
	}
	b.SafeRune('[')
	b.Print(redact.Safe(tags.String()))
	b.SafeString("] ")
}
