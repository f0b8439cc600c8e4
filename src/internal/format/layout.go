// FILE: svckit/src/internal/format/layout.go
package format

import (
	"regexp"
	"strings"
)

var strftimeLayouts = map[byte]string{
	'Y': "2006",
	'y': "06",
	'm': "01",
	'd': "02",
	'H': "15",
	'I': "03",
	'M': "04",
	'S': "05",
	'p': "PM",
	'b': "Jan",
	'B': "January",
	'a': "Mon",
	'A': "Monday",
	'f': "000000",
	'z': "-0700",
	'Z': "MST",
	'j': "002",
	'%': "%",
}

// TimeLayout returns a Go time layout. strftime directives such as %Y-%m-%d are translated,
// layouts without a % are returned unchanged. Go only reads fractional seconds after a '.'
// or ',', so %f without one of those before it gets a '.' inserted.
func TimeLayout(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}

	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+1 < len(s) {
			if layout, ok := strftimeLayouts[s[i+1]]; ok {
				if s[i+1] == 'f' {
					if out := sb.String(); !strings.HasSuffix(out, ".") && !strings.HasSuffix(out, ",") {
						sb.WriteByte('.')
					}
				}
				sb.WriteString(layout)
				i++
				continue
			}
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

var percentField = regexp.MustCompile(`%\((\w+)\)[-#0 +]*\d*(?:\.\d+)?[sdifr]`)

var percentFieldNames = map[string]string{
	"asctime":   "Timestamp",
	"name":      "Name",
	"levelname": "Level",
	"levelno":   "LevelNo",
	"message":   "Message",
	"filename":  "File",
	"pathname":  "Path",
	"funcName":  "Func",
	"lineno":    "Line",
	"module":    "Module",
}

// TemplateText converts a %(field)s style line format into a text/template.
// Templates already using {{ }} actions are returned unchanged.
func TemplateText(s string) string {
	if strings.Contains(s, "{{") || !strings.Contains(s, "%(") {
		return s
	}

	return percentField.ReplaceAllStringFunc(s, func(m string) string {
		field := percentField.FindStringSubmatch(m)[1]
		if name, ok := percentFieldNames[field]; ok {
			return "{{." + name + "}}"
		}
		return `{{index .Extra "` + field + `"}}`
	})
}
