// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package settings

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/maxwellito/comdb2/pkg/util/syncutil"
)

// Setting is the interface exposing the metadata of a cluster setting.
type Setting interface {
	Key() string
	Description() string
	// Typ returns the short type name of the setting ("b", "i", "d", "e").
	Typ() string
	// String returns the current value of the setting, encoded as a string.
	String(sv *Values) string
	// Set parses and installs a new value for the setting.
	Set(ctx context.Context, sv *Values, encoded string) error
}

// Values is a container that stores values for all registered settings.
// Settings that were never set report their default value. The zero value
// is ready to use.
type Values struct {
	mu struct {
		syncutil.RWMutex
		vals map[string]interface{}
	}
}

func (sv *Values) get(key string) (interface{}, bool) {
	sv.mu.RLock()
	defer sv.mu.RUnlock()
	v, ok := sv.mu.vals[key]
	return v, ok
}

func (sv *Values) set(key string, v interface{}) {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	if sv.mu.vals == nil {
		sv.mu.vals = make(map[string]interface{})
	}
	sv.mu.vals[key] = v
}

type common struct {
	key         string
	description string
}

// Key implements the Setting interface.
func (c *common) Key() string { return c.key }

// Description implements the Setting interface.
func (c *common) Description() string { return c.description }

// BoolSetting is the interface of a setting variable that will be
// updated automatically when the corresponding cluster-wide setting
// of type "bool" is updated.
type BoolSetting struct {
	common
	defaultValue bool
}

var _ Setting = &BoolSetting{}

// RegisterBoolSetting defines a new setting with type bool.
func RegisterBoolSetting(key, desc string, defaultValue bool) *BoolSetting {
	s := &BoolSetting{common: common{key: key, description: desc}, defaultValue: defaultValue}
	register(s)
	return s
}

// Get retrieves the bool value in the setting.
func (b *BoolSetting) Get(sv *Values) bool {
	if v, ok := sv.get(b.key); ok {
		return v.(bool)
	}
	return b.defaultValue
}

// Override changes the setting without validation. For testing usage only.
func (b *BoolSetting) Override(ctx context.Context, sv *Values, v bool) {
	sv.set(b.key, v)
}

// Typ implements the Setting interface.
func (*BoolSetting) Typ() string { return "b" }

// String implements the Setting interface.
func (b *BoolSetting) String(sv *Values) string { return strconv.FormatBool(b.Get(sv)) }

// Set implements the Setting interface.
func (b *BoolSetting) Set(ctx context.Context, sv *Values, encoded string) error {
	v, err := strconv.ParseBool(encoded)
	if err != nil {
		return errors.Wrapf(err, "setting %s", b.key)
	}
	sv.set(b.key, v)
	return nil
}

// IntSetting is the interface of a setting variable that will be
// updated automatically when the corresponding cluster-wide setting
// of type "int" is updated.
type IntSetting struct {
	common
	defaultValue int64
	validateFn   func(int64) error
}

var _ Setting = &IntSetting{}

// RegisterIntSetting defines a new setting with type int with an optional
// validation function.
func RegisterIntSetting(
	key, desc string, defaultValue int64, validateFn func(int64) error,
) *IntSetting {
	if validateFn != nil {
		if err := validateFn(defaultValue); err != nil {
			panic(errors.Wrapf(err, "invalid default value for %s", key))
		}
	}
	s := &IntSetting{
		common:       common{key: key, description: desc},
		defaultValue: defaultValue,
		validateFn:   validateFn,
	}
	register(s)
	return s
}

// NonNegativeInt can be passed to RegisterIntSetting.
func NonNegativeInt(v int64) error {
	if v < 0 {
		return errors.Errorf("cannot be set to a negative value: %d", v)
	}
	return nil
}

// Get retrieves the int value in the setting.
func (i *IntSetting) Get(sv *Values) int64 {
	if v, ok := sv.get(i.key); ok {
		return v.(int64)
	}
	return i.defaultValue
}

// Override changes the setting without validation. For testing usage only.
func (i *IntSetting) Override(ctx context.Context, sv *Values, v int64) {
	sv.set(i.key, v)
}

// Typ implements the Setting interface.
func (*IntSetting) Typ() string { return "i" }

// String implements the Setting interface.
func (i *IntSetting) String(sv *Values) string { return strconv.FormatInt(i.Get(sv), 10) }

// Set implements the Setting interface.
func (i *IntSetting) Set(ctx context.Context, sv *Values, encoded string) error {
	v, err := strconv.ParseInt(encoded, 10, 64)
	if err != nil {
		return errors.Wrapf(err, "setting %s", i.key)
	}
	if i.validateFn != nil {
		if err := i.validateFn(v); err != nil {
			return errors.Wrapf(err, "setting %s", i.key)
		}
	}
	sv.set(i.key, v)
	return nil
}

// DurationSetting is the interface of a setting variable that will be
// updated automatically when the corresponding cluster-wide setting
// of type "duration" is updated.
type DurationSetting struct {
	common
	defaultValue time.Duration
	validateFn   func(time.Duration) error
}

var _ Setting = &DurationSetting{}

// RegisterDurationSetting defines a new setting with type duration.
func RegisterDurationSetting(
	key, desc string, defaultValue time.Duration, validateFn func(time.Duration) error,
) *DurationSetting {
	if validateFn != nil {
		if err := validateFn(defaultValue); err != nil {
			panic(errors.Wrapf(err, "invalid default value for %s", key))
		}
	}
	s := &DurationSetting{
		common:       common{key: key, description: desc},
		defaultValue: defaultValue,
		validateFn:   validateFn,
	}
	register(s)
	return s
}

// NonNegativeDuration can be passed to RegisterDurationSetting.
func NonNegativeDuration(v time.Duration) error {
	if v < 0 {
		return errors.Errorf("cannot be set to a negative duration: %s", v)
	}
	return nil
}

// Get retrieves the duration value in the setting.
func (d *DurationSetting) Get(sv *Values) time.Duration {
	if v, ok := sv.get(d.key); ok {
		return v.(time.Duration)
	}
	return d.defaultValue
}

// Override changes the setting without validation. For testing usage only.
func (d *DurationSetting) Override(ctx context.Context, sv *Values, v time.Duration) {
	sv.set(d.key, v)
}

// Typ implements the Setting interface.
func (*DurationSetting) Typ() string { return "d" }

// String implements the Setting interface.
func (d *DurationSetting) String(sv *Values) string { return d.Get(sv).String() }

// Set implements the Setting interface.
func (d *DurationSetting) Set(ctx context.Context, sv *Values, encoded string) error {
	v, err := time.ParseDuration(encoded)
	if err != nil {
		return errors.Wrapf(err, "setting %s", d.key)
	}
	if d.validateFn != nil {
		if err := d.validateFn(v); err != nil {
			return errors.Wrapf(err, "setting %s", d.key)
		}
	}
	sv.set(d.key, v)
	return nil
}

// EnumSetting is a StringSetting that restricts the values to be one of the
// `enumValues`.
type EnumSetting struct {
	common
	defaultValue int64
	enumValues   map[int64]string
}

var _ Setting = &EnumSetting{}

// RegisterEnumSetting defines a new setting with type enum. The default
// value must be one of the names in enumValues.
func RegisterEnumSetting(
	key, desc string, defaultValue string, enumValues map[int64]string,
) *EnumSetting {
	s := &EnumSetting{
		common:     common{key: key, description: desc},
		enumValues: enumValues,
	}
	v, ok := s.ParseEnum(defaultValue)
	if !ok {
		panic(errors.AssertionFailedf("enum default value %q for %s not in %v", defaultValue, key, enumValues))
	}
	s.defaultValue = v
	register(s)
	return s
}

// ParseEnum returns the enum value for raw, which may be a name (case
// insensitive) or an integer.
func (e *EnumSetting) ParseEnum(raw string) (int64, bool) {
	rawLower := strings.ToLower(raw)
	for k, v := range e.enumValues {
		if v == rawLower {
			return k, true
		}
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	_, ok := e.enumValues[v]
	return v, ok
}

// Get retrieves the int value in the setting.
func (e *EnumSetting) Get(sv *Values) int64 {
	if v, ok := sv.get(e.key); ok {
		return v.(int64)
	}
	return e.defaultValue
}

// Override changes the setting without validation. For testing usage only.
func (e *EnumSetting) Override(ctx context.Context, sv *Values, v int64) {
	sv.set(e.key, v)
}

// Typ implements the Setting interface.
func (*EnumSetting) Typ() string { return "e" }

// String implements the Setting interface.
func (e *EnumSetting) String(sv *Values) string { return e.enumValues[e.Get(sv)] }

// Set implements the Setting interface.
func (e *EnumSetting) Set(ctx context.Context, sv *Values, encoded string) error {
	v, ok := e.ParseEnum(encoded)
	if !ok {
		return errors.Errorf("invalid value %q for enum setting %s", encoded, e.key)
	}
	sv.set(e.key, v)
	return nil
}
