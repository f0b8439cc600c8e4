// FILE: svckit/src/internal/filter/filter.go
package filter

import (
	"fmt"
	"regexp"
	"sync"
	"sync/atomic"

	"svckit/src/internal/config"
	"svckit/src/internal/core"

	"github.com/lixenwraith/log"
)

// Filter applies regex-based filtering to log records
type Filter struct {
	settings config.FilterSettings
	patterns []*regexp.Regexp
	mu       sync.RWMutex
	logger   *log.Logger

	// Statistics
	totalProcessed atomic.Uint64
	totalMatched   atomic.Uint64
	totalDropped   atomic.Uint64
}

// NewFilter creates a filter; empty type and logic default to include and or.
func NewFilter(cfg config.FilterSettings, logger *log.Logger) (*Filter, error) {
	if cfg.Type == "" {
		cfg.Type = config.FilterTypeInclude
	}
	if cfg.Logic == "" {
		cfg.Logic = config.FilterLogicOr
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.NewLogger()
	}

	patterns, err := compile(cfg.Patterns)
	if err != nil {
		return nil, err
	}

	f := &Filter{
		settings: cfg,
		patterns: patterns,
		logger:   logger,
	}

	logger.Debug("msg", "Filter created",
		"component", "filter",
		"type", cfg.Type,
		"logic", cfg.Logic,
		"pattern_count", len(cfg.Patterns))

	return f, nil
}

func compile(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for i, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern[%d] '%s': %w", i, pattern, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// Text is what patterns are matched against: logger name, level name and formatted message.
func Text(rec core.Record) string {
	return rec.Name + " " + rec.Level.String() + " " + rec.FormattedMessage()
}

// Apply reports whether the record should be passed through
func (f *Filter) Apply(rec core.Record) bool {
	return f.applyText(Text(rec))
}

func (f *Filter) applyText(text string) bool {
	f.totalProcessed.Add(1)

	f.mu.RLock()
	patterns := f.patterns
	f.mu.RUnlock()

	// No patterns means pass everything
	if len(patterns) == 0 {
		return true
	}

	matched := matches(patterns, f.settings.Logic, text)
	if matched {
		f.totalMatched.Add(1)
	}

	shouldPass := matched
	if f.settings.Type == config.FilterTypeExclude {
		shouldPass = !matched
	}

	if !shouldPass {
		f.totalDropped.Add(1)
	}
	return shouldPass
}

func matches(patterns []*regexp.Regexp, logic, text string) bool {
	if logic == config.FilterLogicAnd {
		for _, re := range patterns {
			if !re.MatchString(text) {
				return false
			}
		}
		return true
	}

	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// GetStats returns filter statistics
func (f *Filter) GetStats() map[string]any {
	f.mu.RLock()
	count := len(f.patterns)
	f.mu.RUnlock()

	return map[string]any{
		"type":            f.settings.Type,
		"logic":           f.settings.Logic,
		"pattern_count":   count,
		"total_processed": f.totalProcessed.Load(),
		"total_matched":   f.totalMatched.Load(),
		"total_dropped":   f.totalDropped.Load(),
	}
}

// UpdatePatterns swaps the patterns; on a compile error the old ones stay.
func (f *Filter) UpdatePatterns(patterns []string) error {
	compiled, err := compile(patterns)
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.patterns = compiled
	f.settings.Patterns = patterns
	f.mu.Unlock()

	f.logger.Info("msg", "Filter patterns updated",
		"component", "filter",
		"pattern_count", len(patterns))
	return nil
}
