// Copyright (c) 2025 HelixDB and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package driverconf

import (
	"time"
)

// BoolOrDefault returns the option's value if it is defined in the
// profile, otherwise the given default. The error is non-nil only if
// a defined value fails to coerce.
func BoolOrDefault(p Profile, o Option, def bool) (bool, error) {
	if !p.IsDefined(o) {
		return def, nil
	}
	return p.GetBool(o)
}

// BoolSliceOrDefault returns the option's value if defined, otherwise the default.
func BoolSliceOrDefault(p Profile, o Option, def []bool) ([]bool, error) {
	if !p.IsDefined(o) {
		return def, nil
	}
	return p.GetBoolSlice(o)
}

// IntOrDefault returns the option's value if defined, otherwise the default.
func IntOrDefault(p Profile, o Option, def int) (int, error) {
	if !p.IsDefined(o) {
		return def, nil
	}
	return p.GetInt(o)
}

// IntSliceOrDefault returns the option's value if defined, otherwise the default.
func IntSliceOrDefault(p Profile, o Option, def []int) ([]int, error) {
	if !p.IsDefined(o) {
		return def, nil
	}
	return p.GetIntSlice(o)
}

// Int64OrDefault returns the option's value if defined, otherwise the default.
func Int64OrDefault(p Profile, o Option, def int64) (int64, error) {
	if !p.IsDefined(o) {
		return def, nil
	}
	return p.GetInt64(o)
}

// Int64SliceOrDefault returns the option's value if defined, otherwise the default.
func Int64SliceOrDefault(p Profile, o Option, def []int64) ([]int64, error) {
	if !p.IsDefined(o) {
		return def, nil
	}
	return p.GetInt64Slice(o)
}

// Float64OrDefault returns the option's value if defined, otherwise the default.
func Float64OrDefault(p Profile, o Option, def float64) (float64, error) {
	if !p.IsDefined(o) {
		return def, nil
	}
	return p.GetFloat64(o)
}

// Float64SliceOrDefault returns the option's value if defined, otherwise the default.
func Float64SliceOrDefault(p Profile, o Option, def []float64) ([]float64, error) {
	if !p.IsDefined(o) {
		return def, nil
	}
	return p.GetFloat64Slice(o)
}

// StringOrDefault returns the option's value if defined, otherwise the default.
func StringOrDefault(p Profile, o Option, def string) (string, error) {
	if !p.IsDefined(o) {
		return def, nil
	}
	return p.GetString(o)
}

// StringSliceOrDefault returns the option's value if defined, otherwise the default.
func StringSliceOrDefault(p Profile, o Option, def []string) ([]string, error) {
	if !p.IsDefined(o) {
		return def, nil
	}
	return p.GetStringSlice(o)
}

// DurationOrDefault returns the option's value if defined, otherwise the default.
func DurationOrDefault(p Profile, o Option, def time.Duration) (time.Duration, error) {
	if !p.IsDefined(o) {
		return def, nil
	}
	return p.GetDuration(o)
}

// DurationSliceOrDefault returns the option's value if defined, otherwise the default.
func DurationSliceOrDefault(p Profile, o Option, def []time.Duration) ([]time.Duration, error) {
	if !p.IsDefined(o) {
		return def, nil
	}
	return p.GetDurationSlice(o)
}

// SizeInBytesOrDefault returns the option's value if defined, otherwise the default.
func SizeInBytesOrDefault(p Profile, o Option, def int64) (int64, error) {
	if !p.IsDefined(o) {
		return def, nil
	}
	return p.GetSizeInBytes(o)
}

// SizeInBytesSliceOrDefault returns the option's value if defined, otherwise the default.
func SizeInBytesSliceOrDefault(p Profile, o Option, def []int64) ([]int64, error) {
	if !p.IsDefined(o) {
		return def, nil
	}
	return p.GetSizeInBytesSlice(o)
}

// StringMapOrDefault returns the option's value if defined, otherwise the default.
func StringMapOrDefault(p Profile, o Option, def map[string]string) (map[string]string, error) {
	if !p.IsDefined(o) {
		return def, nil
	}
	return p.GetStringMap(o)
}
