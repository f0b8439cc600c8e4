// FILE: svckit/src/internal/core/record.go
package core

import (
	"fmt"
	"time"

	"svckit/src/internal/dict"
	"svckit/src/internal/values"
)

// DefaultMessageIndent is used when a mapping message is rendered as JSON.
const DefaultMessageIndent = 4

// Caller describes the call site of a log call.
type Caller struct {
	Path     string // absolute file path
	File     string // base file name
	Line     int
	Function string
	Module   string // package import path
}

// Record represents one emitted log call flowing through the pipeline.
// Sinks receive it by value and must treat Args, Extra and Metadata as read-only.
type Record struct {
	Name     string
	Level    Level
	Message  any
	Args     []any
	Time     time.Time
	Caller   Caller
	Err      error
	Stack    string
	Extra    map[string]any
	Source   SourceBlock
	Metadata MetadataBlock
}

// FormattedMessage returns the message text with mapping messages indented by DefaultMessageIndent.
func (r Record) FormattedMessage() string {
	return r.FormatMessage(DefaultMessageIndent)
}

// FormatMessage returns the message text.
// A mapping message renders as JSON with sorted keys indented by indent spaces, otherwise
// positional args are substituted into the %-style template.
func (r Record) FormatMessage(indent int) string {
	if m, ok := dict.AsMap(r.Message); ok {
		if indent <= 0 {
			indent = DefaultMessageIndent
		}
		return values.PrettyJSON(m, indent)
	}

	var text string
	switch msg := r.Message.(type) {
	case string:
		text = msg
	case nil:
		text = ""
	default:
		text = fmt.Sprint(values.Printable(msg))
	}

	if len(r.Args) == 0 {
		return text
	}
	return PercentFormat(text, r.Args...)
}

// ExcInfo returns the error text, nil when the record carries no error.
func (r Record) ExcInfo() *string {
	if r.Err == nil {
		return nil
	}
	s := r.Err.Error()
	return &s
}

// StackInfo returns the captured stack, nil when none was requested.
func (r Record) StackInfo() *string {
	if r.Stack == "" {
		return nil
	}
	s := r.Stack
	return &s
}

// RawAttributes returns the record attributes under the names a framework log record uses.
// NewSourceBlock projects them onto the source block.
func (r Record) RawAttributes() map[string]any {
	return map[string]any{
		"name":      r.Name,
		"msg":       r.Message,
		"args":      r.Args,
		"levelno":   int(r.Level),
		"levelname": r.Level.String(),
		"pathname":  r.Caller.Path,
		"filename":  r.Caller.File,
		"module":    r.Caller.Module,
		"lineno":    r.Caller.Line,
		"funcName":  r.Caller.Function,
		"created":   float64(r.Time.UnixNano()) / float64(time.Second),
		"msecs":     r.Time.Nanosecond() / int(time.Millisecond),
	}
}
