// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTimeZoneOffsetStringConversion(t *testing.T) {
	testCases := []struct {
		in     string
		offset int64
		ok     bool
	}{
		{"UTC+5", 5 * 3600, true},
		{"gmt-3", -3 * 3600, true},
		{"UTC+05:30", 5*3600 + 30*60, true},
		{"UTC-01:02:03", -(3600 + 2*60 + 3), true},
		{"UTC+16", 0, false},
		{"America/New_York", 0, false},
		{"UTC+6.5", 0, false},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			offset, ok := TimeZoneOffsetStringConversion(tc.in)
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.offset, offset)
		})
	}
}

func TestTimeZoneStringToLocation(t *testing.T) {
	loc, err := TimeZoneStringToLocation("UTC+02:00")
	require.NoError(t, err)
	_, offset := time.Date(2020, 1, 1, 0, 0, 0, 0, loc).Zone()
	require.Equal(t, 2*3600, offset)

	loc, err = TimeZoneStringToLocation("local")
	require.NoError(t, err)
	require.Equal(t, "UTC", loc.String())

	_, err = TimeZoneStringToLocation("Not/AZone")
	require.Error(t, err)
}
