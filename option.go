// Copyright (c) 2024 HelixDB and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package driverconf

// Kind identifies the declared value kind of an [Option].
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindBoolSlice
	KindInt
	KindIntSlice
	KindInt64
	KindInt64Slice
	KindFloat64
	KindFloat64Slice
	KindString
	KindStringSlice
	KindDuration
	KindDurationSlice
	KindSize
	KindSizeSlice
	KindStringMap
)

var kindNames = map[Kind]string{
	KindInvalid:       "invalid",
	KindBool:          "bool",
	KindBoolSlice:     "[]bool",
	KindInt:           "int",
	KindIntSlice:      "[]int",
	KindInt64:         "int64",
	KindInt64Slice:    "[]int64",
	KindFloat64:       "float64",
	KindFloat64Slice:  "[]float64",
	KindString:        "string",
	KindStringSlice:   "[]string",
	KindDuration:      "duration",
	KindDurationSlice: "[]duration",
	KindSize:          "size",
	KindSizeSlice:     "[]size",
	KindStringMap:     "map[string]string",
}

// String implements the fmt.Stringer interface.
func (k Kind) String() string {
	s, ok := kindNames[k]
	if !ok {
		return "invalid"
	}
	return s
}

// Option identifies a single configurable setting. It pairs a dotted
// path, which is how the setting is addressed in the config tree, with
// the declared kind of its value.
//
// Options are immutable values and compare equal iff their paths are equal.
type Option struct {
	path string
	kind Kind
}

// NewOption returns an Option addressed by the given dotted path.
func NewOption(path string, kind Kind) Option {
	return Option{path: path, kind: kind}
}

// Path returns the dotted path of the option, e.g. "basic.request.timeout".
func (o Option) Path() string {
	return o.path
}

// Kind returns the declared value kind of the option.
func (o Option) Kind() Kind {
	return o.kind
}

// String implements the fmt.Stringer interface.
func (o Option) String() string {
	return o.path
}
