// FILE: svckit/src/internal/logs/zap.go
package logs

import (
	"errors"
	"maps"

	"svckit/src/internal/core"

	"go.uber.org/zap/zapcore"
)

// zapCore routes zap entries into a Logger's pipeline.
type zapCore struct {
	logger *Logger
	fields map[string]any
}

// NewZapCore returns a zapcore.Core that emits through l. Zap fields become record extra,
// an "error" field becomes the record's exception info.
func NewZapCore(l *Logger) zapcore.Core {
	return &zapCore{logger: l}
}

func levelFromZap(lvl zapcore.Level) core.Level {
	switch {
	case lvl <= zapcore.DebugLevel:
		return core.LevelDebug
	case lvl == zapcore.InfoLevel:
		return core.LevelInfo
	case lvl == zapcore.WarnLevel:
		return core.LevelWarning
	case lvl == zapcore.ErrorLevel:
		return core.LevelError
	default:
		return core.LevelCritical
	}
}

func (c *zapCore) Enabled(lvl zapcore.Level) bool {
	return c.logger.Enabled(levelFromZap(lvl))
}

func (c *zapCore) With(fields []zapcore.Field) zapcore.Core {
	return &zapCore{
		logger: c.logger,
		fields: c.encode(fields),
	}
}

func (c *zapCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *zapCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	extra := c.encode(fields)

	var recErr error
	for _, f := range fields {
		if f.Type == zapcore.ErrorType {
			if err, ok := f.Interface.(error); ok {
				recErr = err
				delete(extra, f.Key)
			}
		}
	}
	if recErr == nil {
		if msg, ok := extra["error"].(string); ok {
			recErr = errors.New(msg)
			delete(extra, "error")
		}
	}
	for k := range reservedKeys {
		delete(extra, k)
	}

	name := c.logger.name
	if ent.LoggerName != "" {
		name = ent.LoggerName
	}

	rec := core.Record{
		Name:    name,
		Level:   levelFromZap(ent.Level),
		Message: ent.Message,
		Time:    ent.Time,
		Err:     recErr,
		Stack:   ent.Stack,
		Extra:   mergeExtra(c.logger.extra, extra),
	}
	if ent.Caller.Defined {
		rec.Caller = core.CallerFromPC(ent.Caller.PC, ent.Caller.File, ent.Caller.Line)
	}

	c.logger.emit(rec)
	return nil
}

func (c *zapCore) Sync() error {
	return nil
}

// encode flattens fields over the core's accumulated fields.
func (c *zapCore) encode(fields []zapcore.Field) map[string]any {
	enc := zapcore.NewMapObjectEncoder()
	for k, v := range c.fields {
		enc.Fields[k] = v
	}
	for _, f := range fields {
		f.AddTo(enc)
	}
	return enc.Fields
}

func mergeExtra(base, over map[string]any) map[string]any {
	if len(base) == 0 && len(over) == 0 {
		return nil
	}
	out := make(map[string]any, len(base)+len(over))
	maps.Copy(out, base)
	maps.Copy(out, over)
	return out
}
