// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// offsetZoneRe matches GMT/UTC±hh[:mm[:ss]] with hours below 16.
var offsetZoneRe = regexp.MustCompile(
	`(?i)^(GMT|UTC)([+-])(0?\d|1[0-5])(?::([0-5]\d))?(?::([0-5]\d))?$`)

// TimeZoneStringToLocation transforms a time zone name carried by a request
// into a time.Location. It accepts IANA names as well as fixed offsets of the
// form UTC+05:30 or GMT-3.
func TimeZoneStringToLocation(name string) (*time.Location, error) {
	if offset, ok := TimeZoneOffsetStringConversion(name); ok {
		return time.FixedZone(fmt.Sprintf("fixed offset:%d (%s)", offset, name), int(offset)), nil
	}
	return LoadLocation(name)
}

// TimeZoneOffsetStringConversion converts a GMT/UTC offset string to offset
// seconds. The bool returned is false if s is not an offset zone.
func TimeZoneOffsetStringConversion(s string) (offset int64, ok bool) {
	m := offsetZoneRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, false
	}
	parse := func(part string) int64 {
		if part == "" {
			return 0
		}
		v, _ := strconv.ParseInt(part, 10, 64)
		return v
	}
	offset = parse(m[3])*60*60 + parse(m[4])*60 + parse(m[5])
	if m[2] == "-" {
		offset = -offset
	}
	return offset, true
}
