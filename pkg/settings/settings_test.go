// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package settings

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var boolTA = RegisterBoolSetting("bool.t", "", true)
var boolFA = RegisterBoolSetting("bool.f", "", false)
var i1A = RegisterIntSetting("i.1", "", 0, nil)
var i2A = RegisterIntSetting("i.2", "", 5, NonNegativeInt)
var dA = RegisterDurationSetting("d", "", time.Second, NonNegativeDuration)
var eA = RegisterEnumSetting("e", "", "foo", map[int64]string{1: "foo", 2: "bar"})

func TestCache(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		var sv Values
		require.True(t, boolTA.Get(&sv))
		require.False(t, boolFA.Get(&sv))
		require.EqualValues(t, 0, i1A.Get(&sv))
		require.EqualValues(t, 5, i2A.Get(&sv))
		require.Equal(t, time.Second, dA.Get(&sv))
		require.EqualValues(t, 1, eA.Get(&sv))
		require.Equal(t, "foo", eA.String(&sv))
	})

	t.Run("lookup", func(t *testing.T) {
		s, ok := Lookup("i.1")
		require.True(t, ok)
		require.Equal(t, Setting(i1A), s)
		_, ok = Lookup("dne")
		require.False(t, ok)
		require.Subset(t, Keys(), []string{"bool.f", "bool.t", "d", "e", "i.1", "i.2"})
	})

	t.Run("override", func(t *testing.T) {
		var sv Values
		boolTA.Override(ctx, &sv, false)
		i2A.Override(ctx, &sv, 10)
		dA.Override(ctx, &sv, time.Minute)
		eA.Override(ctx, &sv, 2)
		require.False(t, boolTA.Get(&sv))
		require.EqualValues(t, 10, i2A.Get(&sv))
		require.Equal(t, time.Minute, dA.Get(&sv))
		require.Equal(t, "bar", eA.String(&sv))
	})

	t.Run("set", func(t *testing.T) {
		var sv Values
		require.NoError(t, i2A.Set(ctx, &sv, "7"))
		require.EqualValues(t, 7, i2A.Get(&sv))
		require.Error(t, i2A.Set(ctx, &sv, "-1"))
		require.EqualValues(t, 7, i2A.Get(&sv))
		require.Error(t, dA.Set(ctx, &sv, "-1s"))
		require.NoError(t, eA.Set(ctx, &sv, "BAR"))
		require.EqualValues(t, 2, eA.Get(&sv))
		require.NoError(t, eA.Set(ctx, &sv, "1"))
		require.EqualValues(t, 1, eA.Get(&sv))
		require.Error(t, eA.Set(ctx, &sv, "baz"))
	})
}

func TestLoadYAML(t *testing.T) {
	ctx := context.Background()
	var sv Values
	require.NoError(t, LoadYAML(ctx, strings.NewReader(`
bool.t: false
i.2: 12
d: 3s
e: bar
`), &sv))
	require.False(t, boolTA.Get(&sv))
	require.EqualValues(t, 12, i2A.Get(&sv))
	require.Equal(t, 3*time.Second, dA.Get(&sv))
	require.EqualValues(t, 2, eA.Get(&sv))

	var sv2 Values
	err := LoadYAML(ctx, strings.NewReader("i.2: 3\nnope: 1\n"), &sv2)
	require.ErrorContains(t, err, `unknown setting "nope"`)
	require.EqualValues(t, 5, i2A.Get(&sv2))

	require.Error(t, LoadYAML(ctx, strings.NewReader("i.2: [1, 2]\n"), &sv2))
	require.NoError(t, LoadYAML(ctx, strings.NewReader(""), &sv2))
}
