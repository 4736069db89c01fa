// Copyright (c) 2024 HelixDB and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package driverconf implements the layered, typed configuration
// resolution engine backing the HelixDB client.
//
// Option values are resolved from multiple overlapping sources: any
// number of [Source]s ordered by ascending priority, topped by a
// programmatic override layer accumulated with a [Builder]. The merged
// tree is organized into named profiles which inherit from the default
// profile, and is re-resolved on demand by the [Loader] without ever
// mutating a previously returned [Profile].
package driverconf

import (
	"time"
)

// DefaultProfileName is the name of the default profile.
//
// Named profiles can't use this name. Declaring such a profile fails
// when the builder is built.
const DefaultProfileName = "default"

// Entry is one resolved path value pair.
type Entry struct {
	Path  string
	Value any
}

// Profile is a named collection of typed options.
//
// Getters are fail fast: they return a [MissingOptionError] if the
// option does not resolve through profile inheritance, and a
// [WrongKindError] if the stored value cannot represent the requested
// kind. Callers wanting fallbacks should combine [Profile.IsDefined]
// with a default, see [BoolOrDefault] and friends.
//
// WithXxx methods derive an on-the-fly copy of the profile with one
// override layered on top. They never mutate the receiver. When the
// underlying configuration is reloaded, every derived profile
// transparently reflects the new base values plus its own overrides.
type Profile interface {
	// Name returns the name of the profile in the configuration.
	// Derived profiles inherit the name of their parent.
	Name() string

	// Generation returns the resolution pass this profile's values
	// were produced by. Derived profiles report their parent's live
	// generation.
	Generation() uint64

	// IsDefined reports whether the option resolves to a value,
	// either locally or inherited from the default profile.
	IsDefined(Option) bool

	GetBool(Option) (bool, error)
	GetBoolSlice(Option) ([]bool, error)
	GetInt(Option) (int, error)
	GetIntSlice(Option) ([]int, error)
	GetInt64(Option) (int64, error)
	GetInt64Slice(Option) ([]int64, error)
	GetFloat64(Option) (float64, error)
	GetFloat64Slice(Option) ([]float64, error)
	GetString(Option) (string, error)
	GetStringSlice(Option) ([]string, error)
	GetDuration(Option) (time.Duration, error)
	GetDurationSlice(Option) ([]time.Duration, error)
	GetSizeInBytes(Option) (int64, error)
	GetSizeInBytesSlice(Option) ([]int64, error)
	GetStringMap(Option) (map[string]string, error)

	// EntrySet enumerates all entries of the profile, including the
	// inherited ones, sorted lexicographically by path.
	EntrySet() []Entry

	// ComparisonKey returns an opaque key for the sub-tree rooted at
	// the given option, usable only for structural equality checks.
	ComparisonKey(Option) ComparisonKey

	// Fingerprint returns an opaque key over the whole profile. Two
	// profiles with identical effective options have equal fingerprints.
	Fingerprint() ComparisonKey

	WithBool(Option, bool) Profile
	WithBoolSlice(Option, []bool) Profile
	WithInt(Option, int) Profile
	WithIntSlice(Option, []int) Profile
	WithInt64(Option, int64) Profile
	WithInt64Slice(Option, []int64) Profile
	WithFloat64(Option, float64) Profile
	WithFloat64Slice(Option, []float64) Profile
	WithString(Option, string) Profile
	WithStringSlice(Option, []string) Profile
	WithDuration(Option, time.Duration) Profile
	WithDurationSlice(Option, []time.Duration) Profile
	WithSizeInBytes(Option, int64) Profile
	WithSizeInBytesSlice(Option, []int64) Profile
	WithStringMap(Option, map[string]string) Profile

	// Without derives a profile with the option explicitly unset.
	Without(Option) Profile
}

// Config is the consumer surface over one resolved configuration. The
// handle is live: profiles fetched through it always come from the
// loader's current generation, while each fetched [Profile] value is
// an immutable snapshot of that generation.
type Config interface {
	// DefaultProfile returns the profile every other profile inherits from.
	DefaultProfile() Profile

	// Profile returns the named profile. It returns an
	// [UnknownProfileError] if no such profile was declared.
	Profile(name string) (Profile, error)

	// ProfileNames returns the names of all declared profiles,
	// including [DefaultProfileName], in lexicographic order.
	ProfileNames() []string
}
