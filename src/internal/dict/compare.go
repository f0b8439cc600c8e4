// FILE: svckit/src/internal/dict/compare.go
package dict

import (
	"github.com/google/go-cmp/cmp"
)

// numbersByValue makes 5, int64(5) and 5.0 compare equal, since YAML, JSON and Go literals
// disagree on numeric types for the same document.
var numbersByValue = cmp.FilterValues(
	func(x, y any) bool {
		_, xok := toFloat(x)
		_, yok := toFloat(y)
		return xok && yok
	},
	cmp.Comparer(func(x, y any) bool {
		xf, _ := toFloat(x)
		yf, _ := toFloat(y)
		return xf == yf
	}),
)

// IsSubdict reports whether every key/value pair reachable by walking a also appears in b.
// Ignored keys are dropped from both sides at every level before comparing.
// On failure the dotted path of the first mismatched key is returned, keys being visited in sorted order.
func IsSubdict(a, b Map, ignore ...string) (bool, string) {
	return isSubdict(a, b, Keys(ignore...), "")
}

// IsEqual reports whether a and b hold the same keys and values once ignored keys are dropped.
func IsEqual(a, b Map, ignore ...string) (bool, string) {
	if ok, key := IsSubdict(a, b, ignore...); !ok {
		return false, key
	}
	if ok, key := IsSubdict(b, a, ignore...); !ok {
		return false, key
	}
	return true, ""
}

func isSubdict(a, b Map, ignore KeySet, prefix string) (bool, string) {
	for _, key := range SortedKeys(a) {
		if ignore.Has(key) {
			continue
		}
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		bv, exists := b[key]
		if !exists {
			return false, path
		}

		if am, ok := AsMap(a[key]); ok {
			bm, ok := AsMap(bv)
			if !ok {
				return false, path
			}
			if ok, mismatch := isSubdict(am, bm, ignore, path); !ok {
				return false, mismatch
			}
			continue
		}

		if !ValuesEqual(a[key], bv) {
			return false, path
		}
	}
	return true, ""
}

// ValuesEqual compares two leaf values, treating numbers of different Go types as equal by value.
func ValuesEqual(x, y any) bool {
	return cmp.Equal(x, y, numbersByValue)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
