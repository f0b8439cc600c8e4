// FILE: svckit/src/internal/core/percent.go
package core

import (
	"fmt"
	"strconv"
	"strings"

	"svckit/src/internal/values"
)

// PercentFormat substitutes args into a %-style template.
// Supported conversions: %s %r %d %i %u %f %F %e %E %g %G %x %X %o %c and %%,
// with optional flags, width and precision. A single map argument also enables
// named references such as %(user)s. Missing and surplus arguments are marked the way fmt does.
func PercentFormat(template string, args ...any) string {
	var named map[string]any
	if len(args) == 1 {
		if m, ok := args[0].(map[string]any); ok {
			named = m
		}
	}

	var sb strings.Builder
	sb.Grow(len(template) + 16)
	next := 0

	for i := 0; i < len(template); i++ {
		c := template[i]
		if c != '%' {
			sb.WriteByte(c)
			continue
		}
		if i+1 >= len(template) {
			sb.WriteByte('%')
			break
		}
		if template[i+1] == '%' {
			sb.WriteByte('%')
			i++
			continue
		}

		j := i + 1
		key := ""
		hasKey := false
		if template[j] == '(' {
			end := strings.IndexByte(template[j:], ')')
			if end < 0 {
				sb.WriteString(template[i:])
				break
			}
			key = template[j+1 : j+end]
			hasKey = true
			j += end + 1
		}

		specStart := j
		for j < len(template) && strings.IndexByte("#0- +", template[j]) >= 0 {
			j++
		}
		for j < len(template) && (template[j] >= '0' && template[j] <= '9' || template[j] == '.') {
			j++
		}
		if j >= len(template) {
			sb.WriteString(template[i:])
			break
		}
		spec := template[specStart:j]
		verb := template[j]

		var arg any
		var ok bool
		switch {
		case hasKey && named != nil:
			arg, ok = named[key]
		case hasKey:
			ok = false
		case next < len(args):
			arg, ok = args[next], true
			next++
		}

		if !ok {
			sb.WriteString("%!")
			sb.WriteByte(verb)
			sb.WriteString("(MISSING)")
			i = j
			continue
		}

		sb.WriteString(convert(spec, verb, arg))
		i = j
	}

	if named == nil && next < len(args) {
		sb.WriteString("%!(EXTRA ")
		for k, a := range args[next:] {
			if k > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%T=%v", a, values.Printable(a))
		}
		sb.WriteByte(')')
	}
	return sb.String()
}

func convert(spec string, verb byte, arg any) string {
	switch verb {
	case 's':
		return fmt.Sprintf("%"+spec+"v", values.Printable(arg))
	case 'r':
		if s, ok := arg.(string); ok {
			return fmt.Sprintf("%"+spec+"s", strconv.Quote(s))
		}
		return fmt.Sprintf("%"+spec+"v", values.Printable(arg))
	case 'd', 'i', 'u':
		if n, ok := asInt(arg); ok {
			return fmt.Sprintf("%"+spec+"d", n)
		}
		return badArg(verb, arg)
	case 'f', 'F', 'e', 'E', 'g', 'G':
		if f, ok := asFloat(arg); ok {
			if verb == 'F' {
				verb = 'f'
			}
			if (verb == 'f' || verb == 'e' || verb == 'E') && !strings.Contains(spec, ".") {
				spec += ".6"
			}
			return fmt.Sprintf("%"+spec+string(verb), f)
		}
		return badArg(verb, arg)
	case 'x', 'X', 'o':
		if n, ok := asInt(arg); ok {
			return fmt.Sprintf("%"+spec+string(verb), n)
		}
		return badArg(verb, arg)
	case 'c':
		if n, ok := asInt(arg); ok {
			return string(rune(n))
		}
		return fmt.Sprint(values.Printable(arg))
	default:
		return badArg(verb, arg)
	}
}

func badArg(verb byte, arg any) string {
	return "%!" + string(verb) + "(" + fmt.Sprintf("%T=%v", arg, values.Printable(arg)) + ")"
}

func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	case float32:
		return int64(n), true
	case float64:
		return int64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	if i, ok := asInt(v); ok {
		return float64(i), true
	}
	return 0, false
}
