// Copyright (c) 2024 HelixDB and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package key provides strongly typed keys for addressing values in a config tree.
package key

import (
	"strings"
)

// Keyer is a common interface all value key types must implement.
type Keyer interface {
	Key() string
}

// Name represents a single path segment.
type Name string

// Key implements the [Keyer] interface.
func (k Name) Key() string {
	return string(k)
}

// Chain represents nested path segments. Its Key is the dotted path
// formed by joining every segment, e.g. "basic.request.timeout".
type Chain []Keyer

// Key implements the [Keyer] interface.
func (k Chain) Key() string {
	ss := make([]string, len(k))
	for i := range k {
		ss[i] = k[i].Key()
	}
	return strings.Join(ss, ".")
}

// Parse splits a dotted path into a [Chain] of [Name]s.
func Parse(path string) Chain {
	if path == "" {
		return nil
	}
	segments := strings.Split(path, ".")
	chain := make(Chain, len(segments))
	for i, s := range segments {
		chain[i] = Name(s)
	}
	return chain
}
