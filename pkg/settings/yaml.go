// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package settings

import (
	"context"
	"io"
	"sort"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// LoadYAML reads a flat YAML mapping of setting keys to values and applies
// each of them to sv. Unknown keys and non-scalar values are errors; no value
// is applied unless the whole document is valid.
func LoadYAML(ctx context.Context, r io.Reader, sv *Values) error {
	var doc map[string]yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errors.Wrap(err, "decoding settings file")
	}
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var scratch Values
	for _, k := range keys {
		s, ok := Lookup(k)
		if !ok {
			return errors.Newf("unknown setting %q", k)
		}
		node := doc[k]
		if node.Kind != yaml.ScalarNode {
			return errors.Newf("setting %q: expected a scalar value", k)
		}
		if err := s.Set(ctx, &scratch, node.Value); err != nil {
			return err
		}
	}
	for _, k := range keys {
		s, _ := Lookup(k)
		if err := s.Set(ctx, sv, doc[k].Value); err != nil {
			return err
		}
	}
	return nil
}
