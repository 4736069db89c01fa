// Copyright (c) 2024 HelixDB and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package driverconf

import (
	"github.com/helixdb/driverconf/key"
)

// Store represents a general key value structure.
type Store interface {
	Set(key.Keyer, any) error
}

// Source defines valid config sources as those who can
// serialize themselves into a key value like structure.
//
// Sources may be applied repeatedly; the engine fetches a fresh tree
// from every source on each resolution pass.
type Source interface {
	Apply(Store) error
}

// SourceFunc is a functional implementation of the Source interface.
type SourceFunc func(Store) error

// Apply implements the [Source] interface.
func (f SourceFunc) Apply(store Store) error {
	return f(store)
}

// Map is an ordinary map[string]any but implements the Source interface.
type Map map[string]any

// Apply implements the [Source] interface. It recursively walks the
// underlying map to find key value pairs to set on the given store.
// String keyed sub-maps become sub-paths; anything else is a leaf.
func (m Map) Apply(store Store) error {
	return walkMap(m, store, nil)
}

func walkMap(m map[string]any, store Store, chain key.Chain) error {
	for k, v := range m {
		switch x := v.(type) {
		case map[string]any:
			err := walkMap(x, store, append(chain, key.Name(k)))
			if err != nil {
				return err
			}
		default:
			err := store.Set(append(chain, key.Name(k)), x)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// flatStore collects values keyed by their full dotted path. It is the
// shape every layer is reduced to before merging.
type flatStore map[string]any

// Set implements the [Store] interface.
func (s flatStore) Set(k key.Keyer, v any) error {
	s[k.Key()] = normalize(v)
	return nil
}
