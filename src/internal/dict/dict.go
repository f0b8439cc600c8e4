// FILE: svckit/src/internal/dict/dict.go
package dict

import (
	"fmt"
	"sort"
	"strings"
)

// Map is a configuration or payload mapping with string keys.
// Values are scalars, slices or nested mappings.
type Map = map[string]any

// KeySet holds keys ignored by the comparison and merge helpers.
type KeySet map[string]struct{}

// Keys builds a KeySet from a list of keys.
func Keys(keys ...string) KeySet {
	set := make(KeySet, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

// Has reports whether key is in the set. A nil set holds nothing.
func (s KeySet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// AsMap returns v as a Map when it is a string-keyed mapping.
// YAML decoders may produce map[any]any for nested documents, those are converted when every key is a string.
func AsMap(v any) (Map, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(Map, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	default:
		return nil, false
	}
}

// Filter returns a shallow copy of m without the ignored keys.
func Filter(m Map, ignore ...string) Map {
	skip := Keys(ignore...)
	out := make(Map, len(m))
	for k, v := range m {
		if skip.Has(k) {
			continue
		}
		out[k] = v
	}
	return out
}

// Merge returns a new mapping holding every key of a and b.
// When both sides hold a mapping under the same key the mappings are merged recursively,
// otherwise the value from b replaces the one from a. Keys of b listed in ignore are skipped.
// Neither input is modified.
func Merge(a, b Map, ignore ...string) Map {
	skip := Keys(ignore...)
	result := make(Map, len(a)+len(b))
	for k, v := range a {
		result[k] = cloneValue(v)
	}

	for k, v := range b {
		if skip.Has(k) {
			continue
		}
		bm, bIsMap := AsMap(v)
		am, aIsMap := AsMap(result[k])
		if bIsMap && aIsMap {
			result[k] = Merge(am, bm)
			continue
		}
		result[k] = cloneValue(v)
	}

	return result
}

// Clone deep-copies nested mappings and slices of m.
func Clone(m Map) Map {
	if m == nil {
		return nil
	}
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	if m, ok := AsMap(v); ok {
		return Clone(m)
	}
	if s, ok := v.([]any); ok {
		out := make([]any, len(s))
		for i, item := range s {
			out[i] = cloneValue(item)
		}
		return out
	}
	return v
}

// Get looks up a dotted path such as "log.logger.level".
func Get(m Map, path string) (any, bool) {
	if path == "" {
		return m, m != nil
	}

	var current any = m
	for _, part := range strings.Split(path, ".") {
		node, ok := AsMap(current)
		if !ok {
			return nil, false
		}
		current, ok = node[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys(m Map) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String renders m with sorted keys, nested mappings inline.
func String(m Map) string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range SortedKeys(m) {
		if i > 0 {
			sb.WriteString(", ")
		}
		if nested, ok := AsMap(m[k]); ok {
			fmt.Fprintf(&sb, "%s: %s", k, String(nested))
			continue
		}
		fmt.Fprintf(&sb, "%s: %v", k, m[k])
	}
	sb.WriteByte('}')
	return sb.String()
}
