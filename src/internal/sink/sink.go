// FILE: svckit/src/internal/sink/sink.go
package sink

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"svckit/src/internal/config"
	"svckit/src/internal/core"
	"svckit/src/internal/format"

	"github.com/lixenwraith/log"
)

// Sink represents an output destination for log records.
// Write renders the record privately and must not modify it.
type Sink interface {
	// Write renders and writes one record
	Write(rec core.Record) error

	// Name identifies the sink in diagnostics and metrics
	Name() string

	// Close releases the sink's resources
	Close() error

	// GetStats returns sink statistics
	GetStats() Stats
}

// Stats contains statistics about a sink
type Stats struct {
	Type           string
	TotalProcessed uint64
	TotalFailed    uint64
	StartTime      time.Time
	LastProcessed  time.Time
	Details        map[string]any
}

// counters is embedded by sinks for their statistics.
type counters struct {
	startTime      time.Time
	totalProcessed atomic.Uint64
	totalFailed    atomic.Uint64
	lastProcessed  atomic.Value // time.Time
}

func (c *counters) init() {
	c.startTime = time.Now()
	c.lastProcessed.Store(time.Time{})
}

func defaultFormatSettings() config.LogFormatSettings {
	return config.DefaultLogSettings().Format
}

func (c *counters) record(err error) {
	if err != nil {
		c.totalFailed.Add(1)
		return
	}
	c.totalProcessed.Add(1)
	c.lastProcessed.Store(time.Now())
}

func (c *counters) stats(typ string, details map[string]any) Stats {
	lastProc, _ := c.lastProcessed.Load().(time.Time)
	return Stats{
		Type:           typ,
		TotalProcessed: c.totalProcessed.Load(),
		TotalFailed:    c.totalFailed.Load(),
		StartTime:      c.startTime,
		LastProcessed:  lastProc,
		Details:        details,
	}
}

// New builds the sink for one configured output name.
func New(output string, settings config.LogSettings, logger *log.Logger) (Sink, error) {
	if logger == nil {
		logger = log.NewLogger()
	}

	switch name := strings.ToLower(output); name {
	case "stdout", "stderr", "console", "split":
		formatter, err := format.New(settings.Logger.ConsoleFormat, settings, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create console formatter: %w", err)
		}
		target := name
		if target == "console" {
			target = TargetStdout
		}
		return NewConsoleSink(ConsoleOptions{Target: target}, formatter, logger)

	case "file":
		formatterName := settings.Logger.FileFormat
		if formatterName == "" {
			formatterName = "json"
		}
		formatter, err := format.New(formatterName, settings, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create file formatter: %w", err)
		}
		return NewFileSink(FileOptions{
			Path:     settings.FilePath(),
			Mode:     settings.Logger.FileMode,
			Rotation: settings.Logger.Rotation,
		}, formatter, logger)

	default:
		return nil, fmt.Errorf("unknown log output: %s", output)
	}
}

// NewAll builds one sink per configured output. Sinks built before a failure are closed.
func NewAll(settings config.LogSettings, logger *log.Logger) ([]Sink, error) {
	sinks := make([]Sink, 0, len(settings.Logger.Outputs))
	for _, output := range settings.Logger.Outputs {
		s, err := New(output, settings, logger)
		if err != nil {
			for _, built := range sinks {
				built.Close()
			}
			return nil, err
		}
		sinks = append(sinks, s)
	}
	return sinks, nil
}
