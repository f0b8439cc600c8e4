// FILE: svckit/src/internal/format/raw.go
package format

import (
	"svckit/src/internal/config"
	"svckit/src/internal/core"

	"github.com/lixenwraith/log"
)

// Outputs the formatted message as-is with a newline
type RawFormatter struct {
	indent int
	logger *log.Logger
}

// Creates a new raw formatter; only the message indent is read from opts
func NewRawFormatter(opts config.LogFormatSettings, logger *log.Logger) (*RawFormatter, error) {
	return &RawFormatter{
		indent: opts.Indent,
		logger: logger,
	}, nil
}

// Returns the message with a newline appended
func (f *RawFormatter) Format(rec core.Record) ([]byte, error) {
	return append([]byte(rec.FormatMessage(f.indent)), '\n'), nil
}

// Returns the formatter name
func (f *RawFormatter) Name() string {
	return "raw"
}
