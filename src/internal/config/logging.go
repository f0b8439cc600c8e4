// FILE: svckit/src/internal/config/logging.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"svckit/src/internal/core"
	"svckit/src/internal/dict"
)

// LogSection is the top-level key holding logging configuration.
const LogSection = "log"

const (
	DefaultInlineFormat   = "{{.Timestamp}} - {{.Name}} - {{.Level}} - {{.Message}}"
	DefaultDatetimeFormat = "2006-01-02 15:04:05"
	DefaultLogLevel       = "INFO"
	DefaultFileMode       = "a"
	DefaultLogFileStem    = "root"
)

// LogSettings is the typed view of the "log" section.
type LogSettings struct {
	Format   LogFormatSettings   `mapstructure:"format" yaml:"format"`
	Metadata LogMetadataSettings `mapstructure:"metadata" yaml:"metadata"`
	Logger   LoggerSettings      `mapstructure:"logger" yaml:"logger"`
}

type LogFormatSettings struct {
	// Inline is a text/template over Timestamp, Name, Level, Message and the record fields
	Inline string `mapstructure:"inline" yaml:"inline"`
	// Datetime is a Go time layout
	Datetime string `mapstructure:"datetime" yaml:"datetime"`
	// Indent for mapping messages; 0 selects core.DefaultMessageIndent
	Indent int `mapstructure:"indent" yaml:"indent"`
}

type LogMetadataSettings struct {
	FixedKeys []string `mapstructure:"fixed_keys" yaml:"fixed_keys"`
	Keys      []string `mapstructure:"keys" yaml:"keys"`
}

type LoggerSettings struct {
	// FileName may reference environment variables ($SERVICE.log)
	FileName  string `mapstructure:"file_name" yaml:"file_name"`
	Directory string `mapstructure:"directory" yaml:"directory"`
	// FileMode is "a" (append) or "w" (truncate on open)
	FileMode string `mapstructure:"file_mode" yaml:"file_mode"`
	Level    string `mapstructure:"level" yaml:"level"`
	// Outputs: stdout, stderr, console, split, file
	Outputs []string `mapstructure:"outputs" yaml:"outputs"`
	// FileFormat and ConsoleFormat: inline, json, raw
	FileFormat    string            `mapstructure:"file_format" yaml:"file_format"`
	ConsoleFormat string            `mapstructure:"console_format" yaml:"console_format"`
	Rotation      *RotationSettings `mapstructure:"rotation" yaml:"rotation,omitempty"`
	// Filters are applied in order; a record must pass all of them
	Filters []FilterSettings `mapstructure:"filters" yaml:"filters,omitempty"`
}

const (
	FilterTypeInclude = "include"
	FilterTypeExclude = "exclude"
	FilterLogicOr     = "or"
	FilterLogicAnd    = "and"
)

// FilterSettings drops records by regular expressions over "<name> <LEVEL> <message>".
type FilterSettings struct {
	// Type is include (keep matches) or exclude (drop matches), default include
	Type string `mapstructure:"type" yaml:"type"`
	// Logic is or (any pattern) or and (all patterns), default or
	Logic    string   `mapstructure:"logic" yaml:"logic"`
	Patterns []string `mapstructure:"patterns" yaml:"patterns"`
}

// RotationSettings enables size based rotation of the log file.
type RotationSettings struct {
	MaxSizeMB  int  `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int  `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int  `mapstructure:"max_age_days" yaml:"max_age_days"`
	Compress   bool `mapstructure:"compress" yaml:"compress"`
	LocalTime  bool `mapstructure:"local_time" yaml:"local_time"`
}

var validOutputs = map[string]bool{
	"stdout": true, "stderr": true, "console": true, "split": true, "file": true,
}

var validFormats = map[string]bool{
	"": true, "inline": true, "text": true, "json": true, "raw": true,
}

func defaultLogSection() dict.Map {
	return dict.Map{
		"format": dict.Map{
			"inline":   DefaultInlineFormat,
			"datetime": DefaultDatetimeFormat,
			"indent":   core.DefaultMessageIndent,
		},
		"metadata": dict.Map{
			"fixed_keys": []any{"application", "environment", "host"},
			"keys":       []any{},
		},
		"logger": dict.Map{
			"file_name":      "",
			"directory":      "",
			"file_mode":      DefaultFileMode,
			"level":          DefaultLogLevel,
			"outputs":        []any{"stdout", "file"},
			"file_format":    "json",
			"console_format": "inline",
		},
	}
}

// DefaultLogSettings returns the settings used when no "log" section is configured.
func DefaultLogSettings() LogSettings {
	var s LogSettings
	// Defaults are static and always decode
	_ = decode(defaultLogSection(), &s)
	return s
}

// LogSettingsFrom merges the "log" section of m over the defaults.
func LogSettingsFrom(m dict.Map) (LogSettings, error) {
	merged := dict.Merge(defaultLogSection(), Section(m, LogSection))

	var s LogSettings
	if err := decode(merged, &s); err != nil {
		return LogSettings{}, fmt.Errorf("failed to decode log settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return LogSettings{}, err
	}
	return s, nil
}

// Validate checks level, file mode, outputs and formats.
func (s LogSettings) Validate() error {
	if _, err := core.ParseLevel(s.Logger.Level); err != nil {
		return fmt.Errorf("invalid log settings: %w", err)
	}

	switch s.Logger.FileMode {
	case "a", "w":
	default:
		return fmt.Errorf("invalid log file mode: %q", s.Logger.FileMode)
	}

	for _, out := range s.Logger.Outputs {
		if !validOutputs[strings.ToLower(out)] {
			return fmt.Errorf("invalid log output: %s", out)
		}
	}

	if !validFormats[s.Logger.FileFormat] {
		return fmt.Errorf("invalid log file format: %s", s.Logger.FileFormat)
	}
	if !validFormats[s.Logger.ConsoleFormat] {
		return fmt.Errorf("invalid log console format: %s", s.Logger.ConsoleFormat)
	}

	if strings.TrimSpace(s.Format.Datetime) == "" {
		return fmt.Errorf("log.format.datetime must not be empty")
	}

	if s.Format.Indent < 0 {
		return fmt.Errorf("log.format.indent must be non-negative: %d", s.Format.Indent)
	}

	if r := s.Logger.Rotation; r != nil && r.MaxSizeMB < 0 {
		return fmt.Errorf("log.logger.rotation.max_size_mb must be non-negative: %d", r.MaxSizeMB)
	}

	for i, f := range s.Logger.Filters {
		if err := f.Validate(); err != nil {
			return fmt.Errorf("log.logger.filters[%d]: %w", i, err)
		}
	}
	return nil
}

// Validate checks type, logic and that every pattern compiles.
func (f FilterSettings) Validate() error {
	switch f.Type {
	case FilterTypeInclude, FilterTypeExclude, "":
	default:
		return fmt.Errorf("invalid filter type: %s", f.Type)
	}

	switch f.Logic {
	case FilterLogicOr, FilterLogicAnd, "":
	default:
		return fmt.Errorf("invalid filter logic: %s", f.Logic)
	}

	for i, pattern := range f.Patterns {
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("invalid regex pattern[%d] '%s': %w", i, pattern, err)
		}
	}
	return nil
}

// MinLevel returns the configured minimum level.
func (s LogSettings) MinLevel() core.Level {
	lvl, err := core.ParseLevel(s.Logger.Level)
	if err != nil {
		return core.LevelInfo
	}
	return lvl
}

// MetadataKeys returns the union of fixed and configured keys, upper-cased, deduplicated and sorted.
func (s LogSettings) MetadataKeys() []string {
	keys := make([]string, 0, len(s.Metadata.FixedKeys)+len(s.Metadata.Keys))
	for _, k := range slices.Concat(s.Metadata.FixedKeys, s.Metadata.Keys) {
		k = strings.ToUpper(strings.TrimSpace(k))
		if k != "" {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return slices.Compact(keys)
}

// HasOutput reports whether name is among the configured outputs.
func (s LogSettings) HasOutput(name string) bool {
	return slices.ContainsFunc(s.Logger.Outputs, func(o string) bool {
		return strings.EqualFold(o, name)
	})
}

// FilePath returns the log file location. An empty file name becomes $SERVICE.log,
// or root.log when SERVICE is unset. Environment references are expanded.
func (s LogSettings) FilePath() string {
	name := os.ExpandEnv(s.Logger.FileName)
	if name == "" || strings.HasPrefix(name, ".") {
		stem := os.Getenv("SERVICE")
		if stem == "" {
			stem = DefaultLogFileStem
		}
		name = stem + ".log"
	}
	return filepath.Join(s.Logger.Directory, name)
}
