// FILE: svckit/src/internal/values/parsers.go
package values

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"
	"unicode"
)

// DefaultTimeLayout is the layout used when a time value is turned into JSON text.
const DefaultTimeLayout = "2006-01-02T15:04:05"

// JSONifyTime renders t with layout, DefaultTimeLayout when layout is empty.
func JSONifyTime(t time.Time, layout string) string {
	if layout == "" {
		layout = DefaultTimeLayout
	}
	return t.Format(layout)
}

// JSONifyMap returns a copy of src without hidden keys and keys starting with an underscore.
// Times are rendered with layout and fmt.Stringer values (enums) with their String form.
func JSONifyMap(src map[string]any, hidden []string, layout string) map[string]any {
	skip := make(map[string]struct{}, len(hidden))
	for _, h := range hidden {
		skip[h] = struct{}{}
	}

	out := make(map[string]any, len(src))
	for k, v := range src {
		if _, ok := skip[k]; ok || strings.HasPrefix(k, "_") {
			continue
		}
		switch val := v.(type) {
		case time.Time:
			out[k] = JSONifyTime(val, layout)
		case fmt.Stringer:
			out[k] = val.String()
		default:
			out[k] = v
		}
	}
	return out
}

// CyclePlaceholder replaces a map or slice that contains itself.
const CyclePlaceholder = "<cycle>"

// maxSanitizeDepth bounds nesting for values whose cycles cannot be seen through pointers.
const maxSanitizeDepth = 100

// Sanitize converts v into a value encoding/json can always marshal.
// Maps and slices are walked, times use DefaultTimeLayout, errors and values json rejects
// (channels, functions, complex numbers, non-finite floats, non-string map keys) become their fmt.Sprint text.
// A map or slice reached again through itself becomes CyclePlaceholder.
func Sanitize(v any) any {
	w := sanitizer{path: make(map[refKey]struct{})}
	return w.walk(v, 0)
}

// Printable returns maps and slices sanitized so fmt can print them without following
// reference cycles. Other values are returned unchanged.
func Printable(v any) any {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return Sanitize(v)
	}
	return v
}

type refKey struct {
	ptr uintptr
	typ reflect.Type
}

// sanitizer tracks the maps and slices on the current walk path.
type sanitizer struct {
	path map[refKey]struct{}
}

// enter marks rv as being walked; false means rv is already an ancestor.
func (w *sanitizer) enter(rv reflect.Value) (refKey, bool) {
	key := refKey{ptr: rv.Pointer(), typ: rv.Type()}
	if key.ptr == 0 {
		return key, true
	}
	if _, seen := w.path[key]; seen {
		return key, false
	}
	w.path[key] = struct{}{}
	return key, true
}

func (w *sanitizer) leave(key refKey) {
	delete(w.path, key)
}

func (w *sanitizer) walk(v any, depth int) any {
	if depth > maxSanitizeDepth {
		return CyclePlaceholder
	}

	switch val := v.(type) {
	case nil, string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		json.Number:
		return val
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return fmt.Sprint(val)
		}
		return val
	case float32:
		if math.IsNaN(float64(val)) || math.IsInf(float64(val), 0) {
			return fmt.Sprint(val)
		}
		return val
	case time.Time:
		return JSONifyTime(val, "")
	case error:
		return val.Error()
	case json.Marshaler:
		if _, err := json.Marshal(val); err != nil {
			return w.fallback(val, err)
		}
		return val
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice {
			key, ok := w.enter(rv)
			if !ok {
				return CyclePlaceholder
			}
			defer w.leave(key)
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = w.walk(rv.Index(i).Interface(), depth+1)
		}
		return out
	case reflect.Map:
		key, ok := w.enter(rv)
		if !ok {
			return CyclePlaceholder
		}
		defer w.leave(key)
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key().Interface())] = w.walk(iter.Value().Interface(), depth+1)
		}
		return out
	case reflect.Chan, reflect.Func, reflect.Complex64, reflect.Complex128, reflect.UnsafePointer:
		return fmt.Sprint(v)
	}

	if stringer, ok := v.(fmt.Stringer); ok {
		return stringer.String()
	}
	if _, err := json.Marshal(v); err != nil {
		return w.fallback(v, err)
	}
	return v
}

// fallback stringifies a value json rejected, unless json rejected it for being cyclic.
func (w *sanitizer) fallback(v any, err error) any {
	var unsupported *json.UnsupportedValueError
	if errors.As(err, &unsupported) && strings.HasPrefix(unsupported.Str, "encountered a cycle") {
		return CyclePlaceholder
	}
	return fmt.Sprint(v)
}

// PrettyJSON renders v as indented JSON with map keys in sorted order.
// Values json cannot encode are stringified instead of failing.
func PrettyJSON(v any, indent int) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", strings.Repeat(" ", indent))
	if err := enc.Encode(Sanitize(v)); err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// SnakeCase converts camelCase and PascalCase names to snake_case.
// MainThread -> main_thread, levelName -> level_name, HTTPServer -> http_server.
func SnakeCase(s string) string {
	runes := []rune(s)
	var sb strings.Builder
	sb.Grow(len(s) + 4)

	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					sb.WriteByte('_')
				}
			}
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
