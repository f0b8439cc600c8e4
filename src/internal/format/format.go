// FILE: svckit/src/internal/format/format.go
package format

import (
	"fmt"

	"svckit/src/internal/config"
	"svckit/src/internal/core"

	"github.com/lixenwraith/log"
)

// Formatter defines the interface for transforming a Record into a byte slice.
// Implementations must not modify the record.
type Formatter interface {
	// Format takes a Record and returns the rendered line, newline terminated.
	Format(rec core.Record) ([]byte, error)

	// Name returns the formatter type name
	Name() string
}

// New creates a new Formatter by name using the log settings.
func New(name string, settings config.LogSettings, logger *log.Logger) (Formatter, error) {
	if logger == nil {
		logger = log.NewLogger()
	}

	// Default to inline if no format specified
	if name == "" {
		name = "inline"
	}

	switch name {
	case "inline", "text":
		return NewInlineFormatter(settings.Format, logger)
	case "json":
		return NewJSONFormatter(settings.Format, logger)
	case "raw":
		return NewRawFormatter(settings.Format, logger)
	default:
		return nil, fmt.Errorf("unknown formatter type: %s", name)
	}
}
