// FILE: svckit/src/internal/dict/dict_test.go
package dict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge(t *testing.T) {
	testCases := []struct {
		name     string
		a        Map
		b        Map
		ignore   []string
		expected Map
	}{
		{
			name:     "NestedMappingsCombine",
			a:        Map{"database": Map{"host": "x"}},
			b:        Map{"database": Map{"port": 5432}, "service": "y"},
			expected: Map{"database": Map{"host": "x", "port": 5432}, "service": "y"},
		},
		{
			name:     "ScalarReplacesMapping",
			a:        Map{"database": Map{"host": "x"}},
			b:        Map{"database": "disabled"},
			expected: Map{"database": "disabled"},
		},
		{
			name:     "MappingReplacesScalar",
			a:        Map{"database": "disabled"},
			b:        Map{"database": Map{"host": "x"}},
			expected: Map{"database": Map{"host": "x"}},
		},
		{
			name:     "SequencesReplacedWhole",
			a:        Map{"outputs": []any{"stdout", "file"}},
			b:        Map{"outputs": []any{"file"}},
			expected: Map{"outputs": []any{"file"}},
		},
		{
			name:     "EmptyLeft",
			a:        Map{},
			b:        Map{"a": 1},
			expected: Map{"a": 1},
		},
		{
			name:     "EmptyRight",
			a:        Map{"a": 1},
			b:        nil,
			expected: Map{"a": 1},
		},
		{
			name:     "IgnoredKeysOfRightSkipped",
			a:        Map{"a": 1, "b": 2},
			b:        Map{"a": 10, "b": 20},
			ignore:   []string{"b"},
			expected: Map{"a": 10, "b": 2},
		},
		{
			name:     "YAMLAnyKeyedMapsMerge",
			a:        Map{"log": map[any]any{"level": "INFO", "mode": "a"}},
			b:        Map{"log": Map{"level": "DEBUG"}},
			expected: Map{"log": Map{"level": "DEBUG", "mode": "a"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Merge(tc.a, tc.b, tc.ignore...))
		})
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	a := Map{"database": Map{"host": "x"}, "keep": "a"}
	b := Map{"database": Map{"port": 5432}}

	merged := Merge(a, b)
	merged["database"].(Map)["host"] = "changed"

	assert.Equal(t, Map{"database": Map{"host": "x"}, "keep": "a"}, a)
	assert.Equal(t, Map{"database": Map{"port": 5432}}, b)
}

func TestMerge_Properties(t *testing.T) {
	a := Map{"a": 1, "b": Map{"c": 2}, "d": "keep"}
	b := Map{"a": "override", "b": Map{"e": 3}}

	merged := Merge(a, b)

	for k, v := range a {
		if _, inB := b[k]; !inB {
			assert.Equal(t, v, merged[k], "key %s of a not in b must pass through", k)
		}
	}
	for k, v := range b {
		if _, isMap := AsMap(v); !isMap {
			assert.Equal(t, v, merged[k], "non-mapping key %s of b must override", k)
		}
	}
}

func TestFilter(t *testing.T) {
	m := Map{"id": 1, "name": "x", "created_at": "now"}
	filtered := Filter(m, "id", "created_at")

	assert.Equal(t, Map{"name": "x"}, filtered)
	assert.Len(t, m, 3, "input must not change")
}

func TestIsSubdict(t *testing.T) {
	testCases := []struct {
		name        string
		a           Map
		b           Map
		ignore      []string
		expectedOK  bool
		expectedKey string
	}{
		{
			name:       "Identical",
			a:          Map{"name": "John", "age": 30},
			b:          Map{"name": "John", "age": 30},
			expectedOK: true,
		},
		{
			name:       "StrictSubset",
			a:          Map{"name": "John"},
			b:          Map{"name": "John", "age": 30},
			expectedOK: true,
		},
		{
			name:        "MissingKey",
			a:           Map{"name": "John", "country": "USA"},
			b:           Map{"name": "John", "city": "New York"},
			expectedKey: "country",
		},
		{
			name:        "DifferentValue",
			a:           Map{"city": "Los Angeles"},
			b:           Map{"city": "New York"},
			expectedKey: "city",
		},
		{
			name:        "NestedMismatchReportsPath",
			a:           Map{"user": Map{"address": Map{"zip": "1"}}},
			b:           Map{"user": Map{"address": Map{"zip": "2"}}},
			expectedKey: "user.address.zip",
		},
		{
			name:        "MappingAgainstScalar",
			a:           Map{"user": Map{"id": 1}},
			b:           Map{"user": "1"},
			expectedKey: "user",
		},
		{
			name:       "IgnoredKeysSkippedAtEveryLevel",
			a:          Map{"id": 1, "user": Map{"id": 2, "name": "x"}},
			b:          Map{"id": 9, "user": Map{"id": 8, "name": "x"}},
			ignore:     []string{"id"},
			expectedOK: true,
		},
		{
			name:       "NumbersComparedByValue",
			a:          Map{"port": 5432, "ratio": 0.5},
			b:          Map{"port": float64(5432), "ratio": float32(0.5)},
			expectedOK: true,
		},
		{
			name:       "SlicesCompared",
			a:          Map{"outputs": []any{"stdout", 1}},
			b:          Map{"outputs": []any{"stdout", int64(1)}},
			expectedOK: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ok, key := IsSubdict(tc.a, tc.b, tc.ignore...)
			assert.Equal(t, tc.expectedOK, ok)
			assert.Equal(t, tc.expectedKey, key)
		})
	}
}

func TestIsEqual(t *testing.T) {
	t.Run("Reflexive", func(t *testing.T) {
		a := Map{"a": 1, "nested": Map{"b": []any{1, 2}, "c": Map{"d": nil}}}
		ok, key := IsEqual(a, a)
		assert.True(t, ok)
		assert.Empty(t, key)
	})

	t.Run("ExtraKeyOnRight", func(t *testing.T) {
		ok, key := IsEqual(Map{"a": 1}, Map{"a": 1, "b": 2})
		assert.False(t, ok)
		assert.Equal(t, "b", key)
	})

	t.Run("IgnoredKeysDropped", func(t *testing.T) {
		ok, _ := IsEqual(Map{"a": 1, "ts": 1}, Map{"a": 1, "ts": 2}, "ts")
		assert.True(t, ok)
	})
}

func TestGet(t *testing.T) {
	m := Map{"log": Map{"logger": map[any]any{"level": "DEBUG"}}}

	v, ok := Get(m, "log.logger.level")
	require.True(t, ok)
	assert.Equal(t, "DEBUG", v)

	_, ok = Get(m, "log.missing.level")
	assert.False(t, ok)

	_, ok = Get(m, "log.logger.level.deeper")
	assert.False(t, ok)
}

func TestClone(t *testing.T) {
	m := Map{"a": Map{"b": []any{Map{"c": 1}}}}
	c := Clone(m)
	c["a"].(Map)["b"].([]any)[0].(Map)["c"] = 2

	assert.Equal(t, 1, m["a"].(Map)["b"].([]any)[0].(Map)["c"])
	assert.Nil(t, Clone(nil))
}

func TestString(t *testing.T) {
	assert.Equal(t, "{a: 1, b: {c: x}}", String(Map{"b": Map{"c": "x"}, "a": 1}))
}
