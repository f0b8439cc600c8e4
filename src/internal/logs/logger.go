// FILE: svckit/src/internal/logs/logger.go
package logs

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"runtime/debug"
	"time"

	"svckit/src/internal/config"
	"svckit/src/internal/core"
	"svckit/src/internal/filter"
	"svckit/src/internal/sink"

	"github.com/lixenwraith/log"
	"golang.org/x/time/rate"
)

// Keys a caller may not set through With; they collide with record attributes.
var reservedKeys = map[string]struct{}{
	"message": {}, "asctime": {},
	"name": {}, "msg": {}, "args": {}, "levelname": {}, "levelno": {},
	"pathname": {}, "filename": {}, "module": {}, "lineno": {}, "funcName": {},
	"created": {}, "msecs": {}, "exc_info": {}, "stack_info": {},
}

// ErrReservedKey is returned by WithChecked for extra keys that would shadow record attributes.
var ErrReservedKey = errors.New("attempt to overwrite reserved record attribute")

// Logger emits records through the enrichment pipeline to its sinks.
// Derived loggers from With and WithStack share the sinks of their parent.
type Logger struct {
	name         string
	level        core.Level
	metadataKeys []string
	sinks        []sink.Sink
	ownsSinks    bool
	filters      *filter.Chain

	diag      *log.Logger
	lookupEnv func(string) (string, bool)
	clock     func() time.Time
	metrics   *Metrics
	limiter   *rate.Limiter

	extra      map[string]any
	stack      bool
	callerSkip int
}

// Option configures a Logger
type Option func(*Logger)

// WithSinks uses the given sinks instead of building them from the settings' outputs.
// The logger does not close sinks it did not build.
func WithSinks(sinks ...sink.Sink) Option {
	return func(l *Logger) {
		l.sinks = sinks
		l.ownsSinks = false
	}
}

// WithDiagnostics sets the logger that receives sink failure reports.
func WithDiagnostics(logger *log.Logger) Option {
	return func(l *Logger) {
		if logger != nil {
			l.diag = logger
		}
	}
}

// WithLookupEnv replaces the environment lookup used for the metadata block.
func WithLookupEnv(lookup func(string) (string, bool)) Option {
	return func(l *Logger) {
		if lookup != nil {
			l.lookupEnv = lookup
		}
	}
}

// WithClock replaces the record timestamp source.
func WithClock(clock func() time.Time) Option {
	return func(l *Logger) {
		if clock != nil {
			l.clock = clock
		}
	}
}

// WithMetrics sets the counters updated by the logger.
func WithMetrics(m *Metrics) Option {
	return func(l *Logger) {
		if m != nil {
			l.metrics = m
		}
	}
}

// WithFailureReportLimit throttles sink failure reports to the diagnostics logger.
func WithFailureReportLimit(limiter *rate.Limiter) Option {
	return func(l *Logger) {
		if limiter != nil {
			l.limiter = limiter
		}
	}
}

// WithCallerSkip skips extra frames when resolving the call site, for wrappers.
func WithCallerSkip(skip int) Option {
	return func(l *Logger) {
		l.callerSkip = skip
	}
}

// New creates a logger. The minimum level is read from settings once, here.
func New(name string, settings config.LogSettings, opts ...Option) (*Logger, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	l := &Logger{
		name:         name,
		level:        settings.MinLevel(),
		metadataKeys: settings.MetadataKeys(),
		ownsSinks:    true,
		diag:         log.NewLogger(),
		lookupEnv:    os.LookupEnv,
		clock:        time.Now,
		metrics:      defaultMetrics,
		limiter:      rate.NewLimiter(rate.Every(time.Second), 5),
	}
	for _, opt := range opts {
		opt(l)
	}

	if len(settings.Logger.Filters) > 0 {
		chain, err := filter.NewChain(settings.Logger.Filters, l.diag)
		if err != nil {
			return nil, fmt.Errorf("failed to create filters for logger %s: %w", name, err)
		}
		l.filters = chain
	}

	if l.ownsSinks && l.sinks == nil {
		sinks, err := sink.NewAll(settings, l.diag)
		if err != nil {
			return nil, fmt.Errorf("failed to create sinks for logger %s: %w", name, err)
		}
		l.sinks = sinks
	}

	return l, nil
}

// Name returns the logger name
func (l *Logger) Name() string {
	return l.name
}

// Level returns the minimum level
func (l *Logger) Level() core.Level {
	return l.level
}

// Enabled reports whether records at level pass the filter.
func (l *Logger) Enabled(level core.Level) bool {
	return level >= l.level
}

// Sinks returns the attached sinks
func (l *Logger) Sinks() []sink.Sink {
	return l.sinks
}

func (l *Logger) derive() *Logger {
	child := *l
	child.ownsSinks = false
	return &child
}

// With returns a logger whose records carry extra merged over the current extra.
// Reserved keys are dropped and reported to the diagnostics logger.
func (l *Logger) With(extra map[string]any) *Logger {
	child, err := l.WithChecked(extra)
	if err == nil {
		return child
	}

	l.diag.Warn("msg", "Dropping reserved extra keys",
		"component", "logger",
		"logger", l.name,
		"error", err)

	allowed := make(map[string]any, len(extra))
	for k, v := range extra {
		if _, reserved := reservedKeys[k]; !reserved {
			allowed[k] = v
		}
	}
	child, _ = l.WithChecked(allowed)
	return child
}

// WithChecked is With that refuses reserved keys.
func (l *Logger) WithChecked(extra map[string]any) (*Logger, error) {
	for k := range extra {
		if _, reserved := reservedKeys[k]; reserved {
			return nil, fmt.Errorf("%w: %q", ErrReservedKey, k)
		}
	}

	child := l.derive()
	child.extra = make(map[string]any, len(l.extra)+len(extra))
	maps.Copy(child.extra, l.extra)
	maps.Copy(child.extra, extra)
	return child, nil
}

// WithStack returns a logger that attaches the goroutine stack to every record.
func (l *Logger) WithStack() *Logger {
	child := l.derive()
	child.stack = true
	return child
}

func (l *Logger) Debug(msg any, args ...any) {
	l.log(1, core.LevelDebug, nil, msg, args)
}

func (l *Logger) Info(msg any, args ...any) {
	l.log(1, core.LevelInfo, nil, msg, args)
}

func (l *Logger) Warning(msg any, args ...any) {
	l.log(1, core.LevelWarning, nil, msg, args)
}

// Warn is an alias of Warning
func (l *Logger) Warn(msg any, args ...any) {
	l.log(1, core.LevelWarning, nil, msg, args)
}

func (l *Logger) Error(msg any, args ...any) {
	l.log(1, core.LevelError, nil, msg, args)
}

func (l *Logger) Critical(msg any, args ...any) {
	l.log(1, core.LevelCritical, nil, msg, args)
}

// Log emits at an arbitrary level
func (l *Logger) Log(level core.Level, msg any, args ...any) {
	l.log(1, level, nil, msg, args)
}

// Exception logs at ERROR with err as the record's exception info.
func (l *Logger) Exception(err error, msg any, args ...any) {
	l.log(1, core.LevelError, err, msg, args)
}

// log builds the record at the call site. depth is the number of frames between log and the caller.
func (l *Logger) log(depth int, level core.Level, err error, msg any, args []any) {
	if !l.Enabled(level) {
		return
	}

	rec := core.Record{
		Name:    l.name,
		Level:   level,
		Message: msg,
		Args:    args,
		Time:    l.clock(),
		Caller:  core.CaptureCaller(depth + 1 + l.callerSkip),
		Err:     err,
		Extra:   l.extra,
	}
	if l.stack {
		rec.Stack = string(debug.Stack())
	}

	l.emit(rec)
}

// emit runs the configured filters, enriches the record and dispatches it to every sink.
func (l *Logger) emit(rec core.Record) {
	if l.filters != nil && !l.filters.Apply(rec) {
		l.metrics.Filtered.WithLabelValues(l.name).Inc()
		return
	}

	rec.Source = core.NewSourceBlock(rec.RawAttributes())
	rec.Metadata = core.NewMetadataBlock(l.metadataKeys, l.lookupEnv)

	l.metrics.Events.WithLabelValues(l.name, rec.Level.String()).Inc()

	for _, s := range l.sinks {
		l.dispatch(s, rec)
	}
}

// dispatch isolates one sink: its errors and panics never reach the caller or the other sinks.
func (l *Logger) dispatch(s sink.Sink, rec core.Record) {
	defer func() {
		if r := recover(); r != nil {
			l.reportFailure(s, fmt.Errorf("sink panicked: %v", r))
		}
	}()

	if err := s.Write(rec); err != nil {
		l.reportFailure(s, err)
	}
}

func (l *Logger) reportFailure(s sink.Sink, err error) {
	l.metrics.SinkFailures.WithLabelValues(s.Name()).Inc()

	if !l.limiter.Allow() {
		return
	}
	l.diag.Error("msg", "Failed to write log record",
		"component", "logger",
		"logger", l.name,
		"sink", s.Name(),
		"error", err)
}

// Close closes the sinks this logger built. Derived loggers close nothing.
func (l *Logger) Close() error {
	if !l.ownsSinks {
		return nil
	}

	var errs []error
	for _, s := range l.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close sink %s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}
