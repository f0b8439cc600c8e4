// FILE: svckit/src/internal/format/inline.go
package format

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"svckit/src/internal/config"
	"svckit/src/internal/core"

	"github.com/lixenwraith/log"
)

// InlineFormatter produces human-readable lines from a template
type InlineFormatter struct {
	layout   string
	indent   int
	template *template.Template
	logger   *log.Logger
}

type inlineData struct {
	Timestamp string
	Time      time.Time
	Name      string
	Level     string
	LevelNo   int
	Message   string
	File      string
	Path      string
	Func      string
	Module    string
	Line      int
	Source    map[string]any
	Metadata  core.MetadataBlock
	Extra     map[string]any
}

// NewInlineFormatter creates an inline formatter from log.format settings.
// Both text/template lines and %(field)s lines are accepted.
func NewInlineFormatter(opts config.LogFormatSettings, logger *log.Logger) (*InlineFormatter, error) {
	if logger == nil {
		logger = log.NewLogger()
	}

	text := opts.Inline
	if text == "" {
		text = config.DefaultInlineFormat
	}
	layout := opts.Datetime
	if layout == "" {
		layout = config.DefaultDatetimeFormat
	}

	f := &InlineFormatter{
		layout: TimeLayout(layout),
		indent: opts.Indent,
		logger: logger,
	}

	funcMap := template.FuncMap{
		"FmtTime": func(t time.Time) string {
			return t.Format(f.layout)
		},
		"ToUpper":   strings.ToUpper,
		"ToLower":   strings.ToLower,
		"TrimSpace": strings.TrimSpace,
	}

	tmpl, err := template.New("inline").Funcs(funcMap).Parse(TemplateText(text))
	if err != nil {
		return nil, fmt.Errorf("invalid template: %w", err)
	}

	f.template = tmpl
	return f, nil
}

// Format renders the record with the template, falling back to the default layout on failure.
func (f *InlineFormatter) Format(rec core.Record) ([]byte, error) {
	data := inlineData{
		Timestamp: rec.Time.Format(f.layout),
		Time:      rec.Time,
		Name:      rec.Name,
		Level:     rec.Level.String(),
		LevelNo:   int(rec.Level),
		Message:   rec.FormatMessage(f.indent),
		File:      rec.Caller.File,
		Path:      rec.Caller.Path,
		Func:      rec.Caller.Function,
		Module:    rec.Caller.Module,
		Line:      rec.Caller.Line,
		Source:    rec.Source.AsMap(),
		Metadata:  rec.Metadata,
		Extra:     rec.Extra,
	}

	var buf bytes.Buffer
	if err := f.template.Execute(&buf, data); err != nil {
		f.logger.Debug("msg", "Template execution failed, using fallback",
			"component", "inline_formatter",
			"error", err)

		buf.Reset()
		fmt.Fprintf(&buf, "%s - %s - %s - %s", data.Timestamp, data.Name, data.Level, data.Message)
	}

	if exc := rec.ExcInfo(); exc != nil {
		buf.WriteByte('\n')
		buf.WriteString(*exc)
	}
	if stack := rec.StackInfo(); stack != nil {
		buf.WriteByte('\n')
		buf.WriteString(strings.TrimRight(*stack, "\n"))
	}

	// Ensure newline at end
	result := buf.Bytes()
	if len(result) == 0 || result[len(result)-1] != '\n' {
		result = append(result, '\n')
	}

	return result, nil
}

// Name returns the formatter name
func (f *InlineFormatter) Name() string {
	return "inline"
}
