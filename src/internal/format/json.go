// FILE: svckit/src/internal/format/json.go
package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"svckit/src/internal/config"
	"svckit/src/internal/core"
	"svckit/src/internal/values"

	"github.com/lixenwraith/log"
)

// JSON document keys written for every record.
const (
	FieldTimestamp = "timestamp"
	FieldName      = "name"
	FieldLevel     = "level"
	FieldSource    = "source"
	FieldMetadata  = "metadata"
	FieldMessage   = "message"
	FieldArgs      = "args"
	FieldExcInfo   = "exc_info"
	FieldStackInfo = "stack_info"
	FieldExtra     = "extra"
)

// JSONFormatter produces single-line JSON documents from records.
type JSONFormatter struct {
	layout string
	indent int
	logger *log.Logger
}

// NewJSONFormatter creates a new JSON formatter; timestamps use the configured datetime layout.
func NewJSONFormatter(opts config.LogFormatSettings, logger *log.Logger) (*JSONFormatter, error) {
	if logger == nil {
		logger = log.NewLogger()
	}

	layout := time.RFC3339Nano
	if opts.Datetime != "" {
		layout = TimeLayout(opts.Datetime)
	}

	return &JSONFormatter{
		layout: layout,
		indent: opts.Indent,
		logger: logger,
	}, nil
}

// Format transforms a record into one JSON line.
// Values that cannot be encoded are stringified, the record itself never fails to render.
func (f *JSONFormatter) Format(rec core.Record) ([]byte, error) {
	args := make([]any, len(rec.Args))
	for i, a := range rec.Args {
		args[i] = values.Sanitize(a)
	}

	output := map[string]any{
		FieldTimestamp: rec.Time.Format(f.layout),
		FieldName:      rec.Name,
		FieldLevel:     rec.Level.String(),
		FieldSource:    rec.Source.AsMap(),
		FieldMetadata:  rec.Metadata.AsMap(),
		FieldMessage:   rec.FormatMessage(f.indent),
		FieldArgs:      args,
		FieldExcInfo:   rec.ExcInfo(),
		FieldStackInfo: rec.StackInfo(),
	}
	if len(rec.Extra) > 0 {
		output[FieldExtra] = values.Sanitize(rec.Extra)
	}

	result, err := marshalLine(output)
	if err != nil {
		// Sanitize leaves values like NaN untouched; stringify the whole document as a last resort
		f.logger.Debug("msg", "Falling back to stringified JSON fields",
			"component", "json_formatter",
			"error", err)

		for k, v := range output {
			if _, err := json.Marshal(v); err != nil {
				output[k] = fmt.Sprint(v)
			}
		}
		if result, err = marshalLine(output); err != nil {
			return nil, fmt.Errorf("failed to marshal JSON: %w", err)
		}
	}

	return result, nil
}

func marshalLine(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encode appends the newline
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Name returns the formatter's type name.
func (f *JSONFormatter) Name() string {
	return "json"
}
