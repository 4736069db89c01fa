// Copyright (c) 2024 HelixDB and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package driverconf

import (
	"sort"
	"strings"
)

// mergeLayers merges flattened layers ordered by ascending priority
// into a single flattened tree. For every path the layer with the
// highest priority that binds it wins. Any binding replaces the whole
// node: it shadows the path and its sub-tree in every lower priority
// layer, so a scalar rebound over a lower layer's map leaves none of
// that map's entries resolvable. A tombstone shadows without binding
// a new value.
//
// The merge is deterministic and side effect free: all of a layer's
// paths shadow the lower layers before any of its values are applied,
// so the outcome never depends on binding order within a layer.
func mergeLayers(layers ...flatStore) flatStore {
	merged := make(flatStore)
	for _, layer := range layers {
		for path := range layer {
			suppress(merged, path)
		}
		for path, v := range layer {
			if isTombstone(v) {
				continue
			}
			merged[path] = v
		}
	}
	return merged
}

// suppress removes the exact path and, when the path denotes a map
// option occupying a whole sub-tree, every entry below it.
func suppress(entries flatStore, path string) {
	delete(entries, path)
	prefix := path + "."
	for p := range entries {
		if strings.HasPrefix(p, prefix) {
			delete(entries, p)
		}
	}
}

// sortedPaths returns every bound path in lexicographic order.
func sortedPaths(entries flatStore) []string {
	paths := make([]string, 0, len(entries))
	for p := range entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
