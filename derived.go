// Copyright (c) 2024 HelixDB and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package driverconf

import (
	"sort"
	"sync/atomic"
	"time"
)

// override is one path binding layered on a parent profile. A
// tombstone value unsets the path.
type override struct {
	path  string
	value any
}

// derivedProfile composes a parent profile with a small ordered
// override list. It stores no resolved tree of its own: the effective
// view is recomputed from the parent whenever the parent's generation
// advances, so a derived profile always reflects the current reload
// generation plus its own overrides.
type derivedProfile struct {
	parent    Profile
	overrides []override

	// cached holds the view computed for the generation last seen.
	// It is never reused once the parent's generation advances.
	cached atomic.Pointer[derivedView]
}

type derivedView struct {
	generation uint64
	snapshot   *profile
}

var _ Profile = (*derivedProfile)(nil)

func derive(parent Profile, o Option, v any) Profile {
	return &derivedProfile{
		parent:    parent,
		overrides: []override{{path: o.Path(), value: normalize(v)}},
	}
}

// deriveMap replaces the whole map option: the sub-tree is unset
// before the new entries are layered on.
func deriveMap(parent Profile, o Option, m map[string]string) Profile {
	overrides := make([]override, 0, len(m)+1)
	overrides = append(overrides, override{path: o.Path(), value: subtreeMarker{}})
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		overrides = append(overrides, override{path: o.Path() + "." + k, value: m[k]})
	}
	return &derivedProfile{parent: parent, overrides: overrides}
}

// parentSnapshot resolves a parent to its current snapshot.
func parentSnapshot(p Profile) *profile {
	switch x := p.(type) {
	case *profile:
		return x.live()
	case *derivedProfile:
		return x.view()
	default:
		// Foreign implementations are materialized through their
		// public surface.
		entries := make(flatStore)
		for _, e := range p.EntrySet() {
			entries[e.Path] = normalize(e.Value)
		}
		return newProfile(p.Name(), p.Generation(), entries, nil)
	}
}

func (d *derivedProfile) view() *profile {
	base := parentSnapshot(d.parent)
	if c := d.cached.Load(); c != nil && c.generation == base.generation {
		return c.snapshot
	}

	entries := make(flatStore, len(base.entries)+len(d.overrides))
	for path, v := range base.entries {
		entries[path] = v
	}
	for _, ov := range d.overrides {
		// An override replaces the whole node, so a scalar layered
		// over an inherited map leaves no stale sub-entries behind.
		suppress(entries, ov.path)
		if isTombstone(ov.value) {
			continue
		}
		entries[ov.path] = ov.value
	}

	snapshot := newProfile(base.name, base.generation, entries, base.loader)
	d.cached.Store(&derivedView{generation: base.generation, snapshot: snapshot})
	return snapshot
}

// Name implements the [Profile] interface. Derivation does not create
// a new profile identity.
func (d *derivedProfile) Name() string {
	return d.parent.Name()
}

// Generation implements the [Profile] interface.
func (d *derivedProfile) Generation() uint64 {
	return d.view().generation
}

// IsDefined implements the [Profile] interface.
func (d *derivedProfile) IsDefined(o Option) bool {
	return d.view().IsDefined(o)
}

// GetBool implements the [Profile] interface.
func (d *derivedProfile) GetBool(o Option) (bool, error) {
	return d.view().GetBool(o)
}

// GetBoolSlice implements the [Profile] interface.
func (d *derivedProfile) GetBoolSlice(o Option) ([]bool, error) {
	return d.view().GetBoolSlice(o)
}

// GetInt implements the [Profile] interface.
func (d *derivedProfile) GetInt(o Option) (int, error) {
	return d.view().GetInt(o)
}

// GetIntSlice implements the [Profile] interface.
func (d *derivedProfile) GetIntSlice(o Option) ([]int, error) {
	return d.view().GetIntSlice(o)
}

// GetInt64 implements the [Profile] interface.
func (d *derivedProfile) GetInt64(o Option) (int64, error) {
	return d.view().GetInt64(o)
}

// GetInt64Slice implements the [Profile] interface.
func (d *derivedProfile) GetInt64Slice(o Option) ([]int64, error) {
	return d.view().GetInt64Slice(o)
}

// GetFloat64 implements the [Profile] interface.
func (d *derivedProfile) GetFloat64(o Option) (float64, error) {
	return d.view().GetFloat64(o)
}

// GetFloat64Slice implements the [Profile] interface.
func (d *derivedProfile) GetFloat64Slice(o Option) ([]float64, error) {
	return d.view().GetFloat64Slice(o)
}

// GetString implements the [Profile] interface.
func (d *derivedProfile) GetString(o Option) (string, error) {
	return d.view().GetString(o)
}

// GetStringSlice implements the [Profile] interface.
func (d *derivedProfile) GetStringSlice(o Option) ([]string, error) {
	return d.view().GetStringSlice(o)
}

// GetDuration implements the [Profile] interface.
func (d *derivedProfile) GetDuration(o Option) (time.Duration, error) {
	return d.view().GetDuration(o)
}

// GetDurationSlice implements the [Profile] interface.
func (d *derivedProfile) GetDurationSlice(o Option) ([]time.Duration, error) {
	return d.view().GetDurationSlice(o)
}

// GetSizeInBytes implements the [Profile] interface.
func (d *derivedProfile) GetSizeInBytes(o Option) (int64, error) {
	return d.view().GetSizeInBytes(o)
}

// GetSizeInBytesSlice implements the [Profile] interface.
func (d *derivedProfile) GetSizeInBytesSlice(o Option) ([]int64, error) {
	return d.view().GetSizeInBytesSlice(o)
}

// GetStringMap implements the [Profile] interface.
func (d *derivedProfile) GetStringMap(o Option) (map[string]string, error) {
	return d.view().GetStringMap(o)
}

// EntrySet implements the [Profile] interface.
func (d *derivedProfile) EntrySet() []Entry {
	return d.view().EntrySet()
}

// ComparisonKey implements the [Profile] interface.
func (d *derivedProfile) ComparisonKey(o Option) ComparisonKey {
	return d.view().ComparisonKey(o)
}

// Fingerprint implements the [Profile] interface.
func (d *derivedProfile) Fingerprint() ComparisonKey {
	return d.view().Fingerprint()
}

// WithBool implements the [Profile] interface.
func (d *derivedProfile) WithBool(o Option, v bool) Profile {
	return derive(d, o, v)
}

// WithBoolSlice implements the [Profile] interface.
func (d *derivedProfile) WithBoolSlice(o Option, v []bool) Profile {
	return derive(d, o, v)
}

// WithInt implements the [Profile] interface.
func (d *derivedProfile) WithInt(o Option, v int) Profile {
	return derive(d, o, v)
}

// WithIntSlice implements the [Profile] interface.
func (d *derivedProfile) WithIntSlice(o Option, v []int) Profile {
	return derive(d, o, v)
}

// WithInt64 implements the [Profile] interface.
func (d *derivedProfile) WithInt64(o Option, v int64) Profile {
	return derive(d, o, v)
}

// WithInt64Slice implements the [Profile] interface.
func (d *derivedProfile) WithInt64Slice(o Option, v []int64) Profile {
	return derive(d, o, v)
}

// WithFloat64 implements the [Profile] interface.
func (d *derivedProfile) WithFloat64(o Option, v float64) Profile {
	return derive(d, o, v)
}

// WithFloat64Slice implements the [Profile] interface.
func (d *derivedProfile) WithFloat64Slice(o Option, v []float64) Profile {
	return derive(d, o, v)
}

// WithString implements the [Profile] interface.
func (d *derivedProfile) WithString(o Option, v string) Profile {
	return derive(d, o, v)
}

// WithStringSlice implements the [Profile] interface.
func (d *derivedProfile) WithStringSlice(o Option, v []string) Profile {
	return derive(d, o, v)
}

// WithDuration implements the [Profile] interface.
func (d *derivedProfile) WithDuration(o Option, v time.Duration) Profile {
	return derive(d, o, v)
}

// WithDurationSlice implements the [Profile] interface.
func (d *derivedProfile) WithDurationSlice(o Option, v []time.Duration) Profile {
	return derive(d, o, v)
}

// WithSizeInBytes implements the [Profile] interface.
func (d *derivedProfile) WithSizeInBytes(o Option, v int64) Profile {
	return derive(d, o, v)
}

// WithSizeInBytesSlice implements the [Profile] interface.
func (d *derivedProfile) WithSizeInBytesSlice(o Option, v []int64) Profile {
	return derive(d, o, v)
}

// WithStringMap implements the [Profile] interface.
func (d *derivedProfile) WithStringMap(o Option, v map[string]string) Profile {
	return deriveMap(d, o, v)
}

// Without implements the [Profile] interface.
func (d *derivedProfile) Without(o Option) Profile {
	return derive(d, o, nil)
}
