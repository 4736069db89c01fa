// Copyright (c) 2024 HelixDB and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package driverconf

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// ComparisonKey is an opaque representation of a config sub-tree. Two
// keys compare equal iff the sub-trees they were computed from are
// structurally equal, regardless of any internal ordering. It is only
// usable for equality checks and as a map key.
type ComparisonKey struct {
	canonical string
}

func comparisonKey(entries flatStore, paths []string, root string) ComparisonKey {
	var sb strings.Builder
	prefix := root + "."
	for _, p := range paths {
		var rel string
		switch {
		case p == root:
			rel = ""
		case root == "":
			rel = p
		case strings.HasPrefix(p, prefix):
			rel = p[len(prefix):]
		default:
			continue
		}
		sb.WriteString(rel)
		sb.WriteByte('=')
		writeCanonical(&sb, entries[p])
		sb.WriteByte(';')
	}
	return ComparisonKey{canonical: sb.String()}
}

// writeCanonical encodes a normalized value deterministically. Map keys
// are written in sorted order so that semantically identical sub-trees
// encode identically.
func writeCanonical(sb *strings.Builder, v any) {
	switch x := v.(type) {
	case bool:
		sb.WriteString(strconv.FormatBool(x))
	case int64:
		sb.WriteString(strconv.FormatInt(x, 10))
	case float64:
		sb.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
	case string:
		sb.WriteString(strconv.Quote(x))
	case time.Duration:
		sb.WriteString(x.String())
	case []any:
		sb.WriteByte('[')
		for i, e := range x {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeCanonical(sb, e)
		}
		sb.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Quote(k))
			sb.WriteByte(':')
			writeCanonical(sb, x[k])
		}
		sb.WriteByte('}')
	default:
		sb.WriteString("?")
	}
}
