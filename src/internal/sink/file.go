// FILE: svckit/src/internal/sink/file.go
package sink

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"svckit/src/internal/config"
	"svckit/src/internal/core"
	"svckit/src/internal/format"

	"github.com/lixenwraith/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// File modes
const (
	ModeAppend   = "a"
	ModeTruncate = "w"
)

// FileOptions configures a file sink
type FileOptions struct {
	Path string
	// Mode is "a" to append or "w" to truncate when the sink opens
	Mode string
	// Rotation switches the writer to a size-rotated file when set
	Rotation *config.RotationSettings
}

// FileSink writes one rendered record per line to a file
type FileSink struct {
	mu        sync.Mutex
	path      string
	writer    io.WriteCloser
	closed    bool
	logger    *log.Logger
	formatter format.Formatter

	counters
}

// NewFileSink opens the log file; a nil formatter renders JSON lines.
func NewFileSink(opts FileOptions, formatter format.Formatter, logger *log.Logger) (*FileSink, error) {
	if logger == nil {
		logger = log.NewLogger()
	}
	if opts.Path == "" {
		return nil, errors.New("file sink requires a path")
	}
	if opts.Mode == "" {
		opts.Mode = ModeAppend
	}
	if opts.Mode != ModeAppend && opts.Mode != ModeTruncate {
		return nil, fmt.Errorf("invalid file mode: %q", opts.Mode)
	}

	if dir := filepath.Dir(opts.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	if formatter == nil {
		f, err := format.NewJSONFormatter(defaultFormatSettings(), logger)
		if err != nil {
			return nil, err
		}
		formatter = f
	}

	writer, err := openWriter(opts)
	if err != nil {
		return nil, err
	}

	fs := &FileSink{
		path:      opts.Path,
		writer:    writer,
		logger:    logger,
		formatter: formatter,
	}
	fs.counters.init()

	logger.Debug("msg", "File sink opened",
		"component", "file_sink",
		"path", opts.Path,
		"mode", opts.Mode,
		"rotation", opts.Rotation != nil)
	return fs, nil
}

func openWriter(opts FileOptions) (io.WriteCloser, error) {
	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if opts.Mode == ModeTruncate {
		flags |= os.O_TRUNC
	}

	f, err := os.OpenFile(opts.Path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	if opts.Rotation == nil {
		return f, nil
	}

	// Rotation owns the file from here; the open above only applied the mode
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to prepare log file: %w", err)
	}
	return &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    opts.Rotation.MaxSizeMB,
		MaxBackups: opts.Rotation.MaxBackups,
		MaxAge:     opts.Rotation.MaxAgeDays,
		Compress:   opts.Rotation.Compress,
		LocalTime:  opts.Rotation.LocalTime,
	}, nil
}

// Write renders the record and appends it to the file.
func (fs *FileSink) Write(rec core.Record) error {
	formatted, err := fs.formatter.Format(rec)
	if err != nil {
		fs.record(err)
		return fmt.Errorf("failed to format record: %w", err)
	}

	fs.mu.Lock()
	if fs.closed {
		fs.mu.Unlock()
		err = os.ErrClosed
		fs.record(err)
		return fmt.Errorf("failed to write to %s: %w", fs.path, err)
	}
	_, err = fs.writer.Write(formatted)
	fs.mu.Unlock()

	fs.record(err)
	if err != nil {
		return fmt.Errorf("failed to write to %s: %w", fs.path, err)
	}
	return nil
}

// Name returns the sink name
func (fs *FileSink) Name() string {
	return "file"
}

// Path returns the log file location
func (fs *FileSink) Path() string {
	return fs.path
}

// Close releases the file handle. Later writes fail with os.ErrClosed.
func (fs *FileSink) Close() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.closed {
		return nil
	}
	fs.closed = true

	if err := fs.writer.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	fs.logger.Debug("msg", "File sink closed",
		"component", "file_sink",
		"path", fs.path)
	return nil
}

func (fs *FileSink) GetStats() Stats {
	return fs.stats("file", map[string]any{
		"path":   fs.path,
		"format": fs.formatter.Name(),
	})
}
