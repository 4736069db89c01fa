// Copyright (c) 2024 HelixDB and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package driverconf

import (
	"strings"
	"time"
)

// Builder accumulates programmatic path value overrides which are
// merged on top of every other config source as the highest priority
// layer.
//
// A Builder is meant to be populated by a single owner before Build is
// called; it is not safe for concurrent mutation. Build copies the
// accumulated state, so mutating the builder afterwards never affects
// an already built [Loader].
type Builder struct {
	values   flatStore
	sources  []Source
	profiles map[string]struct{}
}

// NewBuilder returns a Builder layering its programmatic overrides on
// top of the given sources. Sources are ordered by ascending priority:
// values from a later source override values from an earlier one.
func NewBuilder(sources ...Source) *Builder {
	return &Builder{
		values:   make(flatStore),
		sources:  sources,
		profiles: make(map[string]struct{}),
	}
}

// bind stores one normalized binding. Binding nil installs a
// tombstone. Maps are flattened into sub-paths with a marker at the
// map's root path. Every binding replaces the whole node: whatever
// was previously accumulated below the path is dropped first, so a
// scalar rebound over a former map does not leave stale sub-entries
// behind.
func bind(values flatStore, path string, value any) {
	v := normalize(value)
	suppress(values, path)
	if m, ok := v.(map[string]any); ok {
		values[path] = subtreeMarker{}
		for k, e := range m {
			bind(values, path+"."+k, e)
		}
		return
	}
	values[path] = v
}

// With binds a raw dotted path to a value. All typed WithXxx methods
// normalize their argument and delegate here. Binding nil explicitly
// unsets the path in every lower priority layer.
func (b *Builder) With(path string, value any) *Builder {
	bind(b.values, path, value)
	return b
}

// WithForProfile binds a raw dotted path to a value inside the named
// profile, i.e. under "profiles.<name>.".
func (b *Builder) WithForProfile(profile, path string, value any) *Builder {
	b.profiles[profile] = struct{}{}
	return b.With(profileScope(profile)+path, value)
}

// Without explicitly unsets the option: any value for its path coming
// from a lower priority layer resolves to "not defined".
func (b *Builder) Without(o Option) *Builder {
	return b.With(o.Path(), nil)
}

// WithoutForProfile explicitly unsets the option inside the named profile.
func (b *Builder) WithoutForProfile(profile string, o Option) *Builder {
	return b.WithForProfile(profile, o.Path(), nil)
}

func (b *Builder) WithBool(o Option, v bool) *Builder { return b.With(o.Path(), v) }

func (b *Builder) WithBoolSlice(o Option, v []bool) *Builder { return b.With(o.Path(), v) }

func (b *Builder) WithInt(o Option, v int) *Builder { return b.With(o.Path(), v) }

func (b *Builder) WithIntSlice(o Option, v []int) *Builder { return b.With(o.Path(), v) }

func (b *Builder) WithInt64(o Option, v int64) *Builder { return b.With(o.Path(), v) }

func (b *Builder) WithInt64Slice(o Option, v []int64) *Builder { return b.With(o.Path(), v) }

func (b *Builder) WithFloat64(o Option, v float64) *Builder { return b.With(o.Path(), v) }

func (b *Builder) WithFloat64Slice(o Option, v []float64) *Builder { return b.With(o.Path(), v) }

func (b *Builder) WithString(o Option, v string) *Builder { return b.With(o.Path(), v) }

func (b *Builder) WithStringSlice(o Option, v []string) *Builder { return b.With(o.Path(), v) }

func (b *Builder) WithDuration(o Option, v time.Duration) *Builder { return b.With(o.Path(), v) }

func (b *Builder) WithDurationSlice(o Option, v []time.Duration) *Builder {
	return b.With(o.Path(), v)
}

func (b *Builder) WithSizeInBytes(o Option, v int64) *Builder { return b.With(o.Path(), v) }

func (b *Builder) WithSizeInBytesSlice(o Option, v []int64) *Builder { return b.With(o.Path(), v) }

func (b *Builder) WithStringMap(o Option, v map[string]string) *Builder {
	return b.With(o.Path(), v)
}

// WithProfile merges overrides built with a [ProfileBuilder] into the
// named profile: every path is prefixed with "profiles.<name>.".
//
// Using [DefaultProfileName] as the name is a configuration error,
// reported by Build.
func (b *Builder) WithProfile(name string, overrides ProfileOverrides) *Builder {
	b.profiles[name] = struct{}{}
	prefix := profileScope(name)
	// The frozen overrides are already normalized and flattened, so
	// they are replayed verbatim rather than through bind. Clearing
	// every replayed path before setting any of them keeps the outcome
	// independent of map iteration order.
	for path := range overrides.values {
		suppress(b.values, prefix+path)
	}
	for path, v := range overrides.values {
		b.values[prefix+path] = v
	}
	return b
}

// EntrySet returns all accumulated entries sorted lexicographically by
// path. Explicit unsets are enumerated with a nil value; the internal
// markers installed at map root paths are not caller bindings and are
// skipped.
func (b *Builder) EntrySet() []Entry {
	entries := make([]Entry, 0, len(b.values))
	for _, path := range sortedPaths(b.values) {
		v := b.values[path]
		switch v.(type) {
		case subtreeMarker:
			continue
		case tombstone:
			v = nil
		}
		entries = append(entries, Entry{Path: path, Value: v})
	}
	return entries
}

// Build freezes the accumulator and returns a [Loader] resolving the
// source chain with the programmatic layer on top. The builder remains
// usable afterwards but no longer influences the returned Loader.
func (b *Builder) Build(opts ...LoaderOption) (*Loader, error) {
	if _, ok := b.profiles[DefaultProfileName]; ok {
		return nil, ReservedProfileNameError{Name: DefaultProfileName}
	}
	reserved := profileScope(DefaultProfileName)
	for path := range b.values {
		if strings.HasPrefix(path, reserved) {
			return nil, ReservedProfileNameError{Name: DefaultProfileName}
		}
	}

	overrides := make(flatStore, len(b.values))
	for path, v := range b.values {
		overrides[path] = v
	}
	sources := make([]Source, len(b.sources))
	copy(sources, b.sources)

	return newLoader(sources, overrides, opts...), nil
}

func profileScope(name string) string {
	return "profiles." + name + "."
}

// ProfileBuilder accumulates overrides for a single profile, to be
// attached to a [Builder] via [Builder.WithProfile]. Like the Builder
// it is owned by a single goroutine until Build is called.
type ProfileBuilder struct {
	values flatStore
}

// NewProfileBuilder returns an empty ProfileBuilder.
func NewProfileBuilder() *ProfileBuilder {
	return &ProfileBuilder{values: make(flatStore)}
}

// With binds a raw dotted path to a value, relative to the profile root.
func (pb *ProfileBuilder) With(path string, value any) *ProfileBuilder {
	bind(pb.values, path, value)
	return pb
}

// Without explicitly unsets the option within the profile.
func (pb *ProfileBuilder) Without(o Option) *ProfileBuilder {
	return pb.With(o.Path(), nil)
}

func (pb *ProfileBuilder) WithBool(o Option, v bool) *ProfileBuilder { return pb.With(o.Path(), v) }

func (pb *ProfileBuilder) WithBoolSlice(o Option, v []bool) *ProfileBuilder {
	return pb.With(o.Path(), v)
}

func (pb *ProfileBuilder) WithInt(o Option, v int) *ProfileBuilder { return pb.With(o.Path(), v) }

func (pb *ProfileBuilder) WithIntSlice(o Option, v []int) *ProfileBuilder {
	return pb.With(o.Path(), v)
}

func (pb *ProfileBuilder) WithInt64(o Option, v int64) *ProfileBuilder { return pb.With(o.Path(), v) }

func (pb *ProfileBuilder) WithInt64Slice(o Option, v []int64) *ProfileBuilder {
	return pb.With(o.Path(), v)
}

func (pb *ProfileBuilder) WithFloat64(o Option, v float64) *ProfileBuilder {
	return pb.With(o.Path(), v)
}

func (pb *ProfileBuilder) WithFloat64Slice(o Option, v []float64) *ProfileBuilder {
	return pb.With(o.Path(), v)
}

func (pb *ProfileBuilder) WithString(o Option, v string) *ProfileBuilder {
	return pb.With(o.Path(), v)
}

func (pb *ProfileBuilder) WithStringSlice(o Option, v []string) *ProfileBuilder {
	return pb.With(o.Path(), v)
}

func (pb *ProfileBuilder) WithDuration(o Option, v time.Duration) *ProfileBuilder {
	return pb.With(o.Path(), v)
}

func (pb *ProfileBuilder) WithDurationSlice(o Option, v []time.Duration) *ProfileBuilder {
	return pb.With(o.Path(), v)
}

func (pb *ProfileBuilder) WithSizeInBytes(o Option, v int64) *ProfileBuilder {
	return pb.With(o.Path(), v)
}

func (pb *ProfileBuilder) WithSizeInBytesSlice(o Option, v []int64) *ProfileBuilder {
	return pb.With(o.Path(), v)
}

func (pb *ProfileBuilder) WithStringMap(o Option, v map[string]string) *ProfileBuilder {
	return pb.With(o.Path(), v)
}

// Build freezes the accumulated overrides. The ProfileBuilder remains
// usable afterwards without affecting previously built overrides.
func (pb *ProfileBuilder) Build() ProfileOverrides {
	values := make(flatStore, len(pb.values))
	for path, v := range pb.values {
		values[path] = v
	}
	return ProfileOverrides{values: values}
}

// ProfileOverrides is an immutable set of profile scoped overrides
// produced by [ProfileBuilder.Build].
type ProfileOverrides struct {
	values flatStore
}
