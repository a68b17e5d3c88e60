// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package timeutil

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

var errTZDataNotFound = errors.New("timezone data cannot be found")

// LoadLocation returns the time.Location with the given name.
//
// Unlike time.LoadLocation, "local", "default" and the empty name all map to
// UTC, and a missing tz database is reported with a readable error.
func LoadLocation(name string) (*time.Location, error) {
	switch strings.ToLower(name) {
	case "", "local", "default":
		name = "UTC"
	}
	l, err := time.LoadLocation(name)
	if err != nil {
		if strings.Contains(err.Error(), "zoneinfo.zip") {
			return nil, errTZDataNotFound
		}
		return nil, errors.Wrapf(err, "loading time zone %q", name)
	}
	return l, nil
}
