// Copyright (c) 2024 HelixDB and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package driverconf

import (
	"strings"
	"time"
)

// profile is an immutable snapshot of one profile's effective entries,
// i.e. the default scope overlaid with the profile's own scope, at a
// single generation. Holders of a profile keep seeing this snapshot
// across reloads; only derived profiles track the live generation.
type profile struct {
	name       string
	generation uint64
	entries    flatStore
	paths      []string

	// loader is the coordinator that produced this snapshot. Derived
	// profiles reach through it to find the current generation. nil
	// for profiles detached from any loader.
	loader *Loader
}

var _ Profile = (*profile)(nil)

func newProfile(name string, generation uint64, entries flatStore, loader *Loader) *profile {
	return &profile{
		name:       name,
		generation: generation,
		entries:    entries,
		paths:      sortedPaths(entries),
		loader:     loader,
	}
}

// live returns the current snapshot for this profile's name, falling
// back to the receiver if the loader is gone or the name is no longer
// declared after a reload.
func (p *profile) live() *profile {
	if p.loader == nil {
		return p
	}
	res := p.loader.current.Load()
	if res == nil {
		return p
	}
	cur, ok := res.profiles[p.name]
	if !ok {
		return p
	}
	return cur
}

// Name implements the [Profile] interface.
func (p *profile) Name() string {
	return p.name
}

// Generation implements the [Profile] interface.
func (p *profile) Generation() uint64 {
	return p.generation
}

// IsDefined implements the [Profile] interface.
func (p *profile) IsDefined(o Option) bool {
	if _, ok := p.entries[o.Path()]; ok {
		return true
	}
	// Map options occupy the sub-tree below their path.
	prefix := o.Path() + "."
	for _, path := range p.paths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// subtree collects the entries below path keyed by their relative
// dotted path. ok is false when nothing is bound below the path.
func (p *profile) subtree(path string) (map[string]any, bool) {
	prefix := path + "."
	var m map[string]any
	for _, pp := range p.paths {
		if !strings.HasPrefix(pp, prefix) {
			continue
		}
		if m == nil {
			m = make(map[string]any)
		}
		m[pp[len(prefix):]] = p.entries[pp]
	}
	return m, m != nil
}

// value looks up the entry bound exactly at the option's path. A path
// that resolves only as an interior node, i.e. a map option's root, is
// defined but of the wrong kind rather than missing.
func (p *profile) value(o Option, kind Kind) (any, error) {
	v, ok := p.entries[o.Path()]
	if ok {
		return v, nil
	}
	if m, ok := p.subtree(o.Path()); ok {
		return nil, WrongKindError{Path: o.Path(), Kind: kind, Value: m}
	}
	return nil, MissingOptionError{Path: o.Path(), Profile: p.name}
}

func getScalar[T any](p *profile, o Option, kind Kind, conv func(any) (T, bool)) (T, error) {
	var zero T
	v, err := p.value(o, kind)
	if err != nil {
		return zero, err
	}
	x, ok := conv(v)
	if !ok {
		return zero, WrongKindError{Path: o.Path(), Kind: kind, Value: v}
	}
	return x, nil
}

func getSlice[T any](p *profile, o Option, kind Kind, conv func(any) (T, bool)) ([]T, error) {
	v, err := p.value(o, kind)
	if err != nil {
		return nil, err
	}
	xs, ok := asSlice(v, conv)
	if !ok {
		return nil, WrongKindError{Path: o.Path(), Kind: kind, Value: v}
	}
	return xs, nil
}

// GetBool implements the [Profile] interface.
func (p *profile) GetBool(o Option) (bool, error) {
	return getScalar(p, o, KindBool, asBool)
}

// GetBoolSlice implements the [Profile] interface.
func (p *profile) GetBoolSlice(o Option) ([]bool, error) {
	return getSlice(p, o, KindBoolSlice, asBool)
}

// GetInt implements the [Profile] interface.
func (p *profile) GetInt(o Option) (int, error) {
	n, err := getScalar(p, o, KindInt, asInt64)
	return int(n), err
}

// GetIntSlice implements the [Profile] interface.
func (p *profile) GetIntSlice(o Option) ([]int, error) {
	return getSlice(p, o, KindIntSlice, func(v any) (int, bool) {
		n, ok := asInt64(v)
		return int(n), ok
	})
}

// GetInt64 implements the [Profile] interface.
func (p *profile) GetInt64(o Option) (int64, error) {
	return getScalar(p, o, KindInt64, asInt64)
}

// GetInt64Slice implements the [Profile] interface.
func (p *profile) GetInt64Slice(o Option) ([]int64, error) {
	return getSlice(p, o, KindInt64Slice, asInt64)
}

// GetFloat64 implements the [Profile] interface.
func (p *profile) GetFloat64(o Option) (float64, error) {
	return getScalar(p, o, KindFloat64, asFloat64)
}

// GetFloat64Slice implements the [Profile] interface.
func (p *profile) GetFloat64Slice(o Option) ([]float64, error) {
	return getSlice(p, o, KindFloat64Slice, asFloat64)
}

// GetString implements the [Profile] interface.
func (p *profile) GetString(o Option) (string, error) {
	return getScalar(p, o, KindString, asString)
}

// GetStringSlice implements the [Profile] interface.
func (p *profile) GetStringSlice(o Option) ([]string, error) {
	return getSlice(p, o, KindStringSlice, asString)
}

// GetDuration implements the [Profile] interface.
func (p *profile) GetDuration(o Option) (time.Duration, error) {
	return getScalar(p, o, KindDuration, asDuration)
}

// GetDurationSlice implements the [Profile] interface.
func (p *profile) GetDurationSlice(o Option) ([]time.Duration, error) {
	return getSlice(p, o, KindDurationSlice, asDuration)
}

// GetSizeInBytes implements the [Profile] interface.
func (p *profile) GetSizeInBytes(o Option) (int64, error) {
	return getScalar(p, o, KindSize, asSize)
}

// GetSizeInBytesSlice implements the [Profile] interface.
func (p *profile) GetSizeInBytesSlice(o Option) ([]int64, error) {
	return getSlice(p, o, KindSizeSlice, asSize)
}

// GetStringMap implements the [Profile] interface. The map is read
// from the sub-tree below the option's path; keys are the relative
// dotted paths and every value must be a string.
func (p *profile) GetStringMap(o Option) (map[string]string, error) {
	sub, ok := p.subtree(o.Path())
	if !ok {
		if v, ok := p.entries[o.Path()]; ok {
			return nil, WrongKindError{Path: o.Path(), Kind: KindStringMap, Value: v}
		}
		return nil, MissingOptionError{Path: o.Path(), Profile: p.name}
	}
	m := make(map[string]string, len(sub))
	for k, v := range sub {
		s, ok := asString(v)
		if !ok {
			return nil, WrongKindError{Path: o.Path(), Kind: KindStringMap, Value: v}
		}
		m[k] = s
	}
	return m, nil
}

// EntrySet implements the [Profile] interface.
func (p *profile) EntrySet() []Entry {
	entries := make([]Entry, len(p.paths))
	for i, path := range p.paths {
		entries[i] = Entry{Path: path, Value: p.entries[path]}
	}
	return entries
}

// ComparisonKey implements the [Profile] interface.
func (p *profile) ComparisonKey(o Option) ComparisonKey {
	return comparisonKey(p.entries, p.paths, o.Path())
}

// Fingerprint implements the [Profile] interface.
func (p *profile) Fingerprint() ComparisonKey {
	return comparisonKey(p.entries, p.paths, "")
}

// WithBool implements the [Profile] interface.
func (p *profile) WithBool(o Option, v bool) Profile {
	return derive(p, o, v)
}

// WithBoolSlice implements the [Profile] interface.
func (p *profile) WithBoolSlice(o Option, v []bool) Profile {
	return derive(p, o, v)
}

// WithInt implements the [Profile] interface.
func (p *profile) WithInt(o Option, v int) Profile {
	return derive(p, o, v)
}

// WithIntSlice implements the [Profile] interface.
func (p *profile) WithIntSlice(o Option, v []int) Profile {
	return derive(p, o, v)
}

// WithInt64 implements the [Profile] interface.
func (p *profile) WithInt64(o Option, v int64) Profile {
	return derive(p, o, v)
}

// WithInt64Slice implements the [Profile] interface.
func (p *profile) WithInt64Slice(o Option, v []int64) Profile {
	return derive(p, o, v)
}

// WithFloat64 implements the [Profile] interface.
func (p *profile) WithFloat64(o Option, v float64) Profile {
	return derive(p, o, v)
}

// WithFloat64Slice implements the [Profile] interface.
func (p *profile) WithFloat64Slice(o Option, v []float64) Profile {
	return derive(p, o, v)
}

// WithString implements the [Profile] interface.
func (p *profile) WithString(o Option, v string) Profile {
	return derive(p, o, v)
}

// WithStringSlice implements the [Profile] interface.
func (p *profile) WithStringSlice(o Option, v []string) Profile {
	return derive(p, o, v)
}

// WithDuration implements the [Profile] interface.
func (p *profile) WithDuration(o Option, v time.Duration) Profile {
	return derive(p, o, v)
}

// WithDurationSlice implements the [Profile] interface.
func (p *profile) WithDurationSlice(o Option, v []time.Duration) Profile {
	return derive(p, o, v)
}

// WithSizeInBytes implements the [Profile] interface.
func (p *profile) WithSizeInBytes(o Option, v int64) Profile {
	return derive(p, o, v)
}

// WithSizeInBytesSlice implements the [Profile] interface.
func (p *profile) WithSizeInBytesSlice(o Option, v []int64) Profile {
	return derive(p, o, v)
}

// WithStringMap implements the [Profile] interface.
func (p *profile) WithStringMap(o Option, v map[string]string) Profile {
	return deriveMap(p, o, v)
}

// Without implements the [Profile] interface.
func (p *profile) Without(o Option) Profile {
	return derive(p, o, nil)
}
