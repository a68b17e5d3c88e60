// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package settings

import (
	"fmt"
	"sort"
	"sync/atomic"
)

// registry contains all defined settings, their types and default values.
//
// Entries in registry should be accompanied by an exported, typesafe getter
// such as (*BoolSetting).Get.
//
// Registry should never be mutated after init (except in tests), as it is read
// concurrently by different callers.
var registry = map[string]Setting{}

// frozen becomes non-zero once the registry is "live".
var frozen int32

// Freeze ensures that no new settings can be defined.
func Freeze() { atomic.StoreInt32(&frozen, 1) }

func register(s Setting) {
	if atomic.LoadInt32(&frozen) > 0 {
		panic(fmt.Sprintf("registration must occur before server start: %s", s.Key()))
	}
	if _, ok := registry[s.Key()]; ok {
		panic(fmt.Sprintf("setting already defined: %s", s.Key()))
	}
	registry[s.Key()] = s
}

// Keys returns a sorted string array with all the known keys.
func Keys() (res []string) {
	res = make([]string, 0, len(registry))
	for k := range registry {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}

// Lookup returns a Setting by name.
func Lookup(name string) (Setting, bool) {
	s, ok := registry[name]
	return s, ok
}
