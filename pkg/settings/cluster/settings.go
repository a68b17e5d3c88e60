// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package cluster

import "github.com/maxwellito/comdb2/pkg/settings"

// Settings is the collection of cluster settings. For a running node, there
// is exactly one instance of Settings.
type Settings struct {
	SV settings.Values
}

// MakeClusterSettings returns a Settings object with every setting at its
// default value.
func MakeClusterSettings() *Settings {
	return &Settings{}
}

// MakeTestingClusterSettings returns a Settings object for use in tests.
func MakeTestingClusterSettings() *Settings {
	return MakeClusterSettings()
}
