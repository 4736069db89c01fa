// Copyright (c) 2024 HelixDB and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package driverconf

import (
	"reflect"
	"time"
)

// tombstone marks a path as explicitly unset. It suppresses any value
// for the same path coming from a lower priority layer.
type tombstone struct{}

// subtreeMarker is installed at the root path of a map binding so the
// binding replaces the whole node on merge instead of merging into a
// lower priority layer's sub-tree. It merges like a tombstone but is
// pure bookkeeping and hidden from entry enumeration.
type subtreeMarker struct{}

func isTombstone(v any) bool {
	switch v.(type) {
	case tombstone, subtreeMarker:
		return true
	}
	return false
}

// normalize maps arbitrary source values onto the closed set of value
// shapes the typed getters operate on: bool, int64, float64, string,
// time.Duration, []any, map[string]any and tombstone. nil normalizes
// to a tombstone, i.e. binding a path to nil explicitly unsets it.
func normalize(v any) any {
	switch x := v.(type) {
	case nil:
		return tombstone{}
	case tombstone:
		return x
	case bool, string, int64, float64, time.Duration:
		return x
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return int64(x)
	case float32:
		return float64(x)
	case []any:
		vs := make([]any, len(x))
		for i, e := range x {
			vs[i] = normalize(e)
		}
		return vs
	case map[string]any:
		m := make(map[string]any, len(x))
		for k, e := range x {
			m[k] = normalize(e)
		}
		return m
	}

	// Typed slices and string keyed maps from programmatic callers
	// collapse onto []any and map[string]any.
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		vs := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			vs[i] = normalize(rv.Index(i).Interface())
		}
		return vs
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = normalize(iter.Value().Interface())
		}
		return m
	}
	return v
}

func asBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case float64:
		// JSON sources carry every number as a float64. Accept it
		// only when the conversion is exact.
		n := int64(x)
		if float64(n) == x {
			return n, true
		}
	}
	return 0, false
}

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int64:
		return float64(x), true
	}
	return 0, false
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// asDuration accepts a time.Duration directly or an integer count of
// nanoseconds. Human readable forms like "500ms" are expected to be
// normalized by the source before they reach the engine.
func asDuration(v any) (time.Duration, bool) {
	if d, ok := v.(time.Duration); ok {
		return d, true
	}
	n, ok := asInt64(v)
	if !ok {
		return 0, false
	}
	return time.Duration(n), true
}

// asSize accepts an integer count of bytes.
func asSize(v any) (int64, bool) {
	return asInt64(v)
}

func asSlice[T any](v any, conv func(any) (T, bool)) ([]T, bool) {
	elems, ok := v.([]any)
	if !ok {
		return nil, false
	}
	vs := make([]T, len(elems))
	for i, e := range elems {
		x, ok := conv(e)
		if !ok {
			return nil, false
		}
		vs[i] = x
	}
	return vs, true
}
