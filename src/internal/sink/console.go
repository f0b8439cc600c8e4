// FILE: svckit/src/internal/sink/console.go
package sink

import (
	"fmt"
	"io"
	"os"
	"sync"

	"svckit/src/internal/core"
	"svckit/src/internal/format"

	"github.com/lixenwraith/log"
)

// Console targets
const (
	TargetStdout = "stdout"
	TargetStderr = "stderr"
	// TargetSplit sends WARNING and above to stderr, the rest to stdout
	TargetSplit = "split"
)

// ConsoleOptions configures a console sink. Nil writers default to the process streams.
type ConsoleOptions struct {
	Target string
	Stdout io.Writer
	Stderr io.Writer
}

// ConsoleSink writes rendered records to stdout and/or stderr
type ConsoleSink struct {
	mu        sync.Mutex
	target    string
	stdout    io.Writer
	stderr    io.Writer
	logger    *log.Logger
	formatter format.Formatter

	counters
}

// NewConsoleSink creates a console sink; a nil formatter renders inline.
func NewConsoleSink(opts ConsoleOptions, formatter format.Formatter, logger *log.Logger) (*ConsoleSink, error) {
	if logger == nil {
		logger = log.NewLogger()
	}

	switch opts.Target {
	case "":
		opts.Target = TargetStdout
	case TargetStdout, TargetStderr, TargetSplit:
	default:
		return nil, fmt.Errorf("invalid console target: %s", opts.Target)
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	if formatter == nil {
		f, err := format.NewInlineFormatter(defaultFormatSettings(), logger)
		if err != nil {
			return nil, err
		}
		formatter = f
	}

	s := &ConsoleSink{
		target:    opts.Target,
		stdout:    opts.Stdout,
		stderr:    opts.Stderr,
		logger:    logger,
		formatter: formatter,
	}
	s.counters.init()

	logger.Debug("msg", "Console sink created",
		"component", "console_sink",
		"target", s.target,
		"format", formatter.Name())
	return s, nil
}

func (s *ConsoleSink) writerFor(level core.Level) io.Writer {
	switch s.target {
	case TargetStderr:
		return s.stderr
	case TargetSplit:
		if level >= core.LevelWarning {
			return s.stderr
		}
	}
	return s.stdout
}

// Write renders the record and writes it to the target stream.
func (s *ConsoleSink) Write(rec core.Record) error {
	formatted, err := s.formatter.Format(rec)
	if err != nil {
		s.record(err)
		return fmt.Errorf("failed to format record: %w", err)
	}

	s.mu.Lock()
	_, err = s.writerFor(rec.Level).Write(formatted)
	s.mu.Unlock()

	s.record(err)
	if err != nil {
		return fmt.Errorf("failed to write to %s: %w", s.target, err)
	}
	return nil
}

// Name returns the sink name
func (s *ConsoleSink) Name() string {
	return "console"
}

// Close is a no-op, the process streams stay open.
func (s *ConsoleSink) Close() error {
	return nil
}

func (s *ConsoleSink) GetStats() Stats {
	return s.stats("console", map[string]any{
		"target": s.target,
		"format": s.formatter.Name(),
	})
}
