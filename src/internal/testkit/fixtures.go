// FILE: svckit/src/internal/testkit/fixtures.go
package testkit

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"svckit/src/internal/config"
	"svckit/src/internal/dict"
	"svckit/src/internal/logs"

	"github.com/google/uuid"
)

// ClearLog truncates the log file at path, creating it when missing.
// An empty path means $PROJECT_PATH/root.log.
func ClearLog(tb testing.TB, path string) {
	tb.Helper()
	if path == "" {
		path = filepath.Join(os.Getenv("PROJECT_PATH"), config.DefaultLogFileStem+".log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		tb.Fatalf("failed to create log directory: %v", err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		tb.Fatalf("failed to clear log %s: %v", path, err)
	}
}

// UseConfig installs m as the process-wide configuration for the duration of the test.
// Default loggers are rebuilt so they pick up the new log section.
func UseConfig(tb testing.TB, m dict.Map) {
	tb.Helper()
	store := config.Default()

	var previous dict.Map
	wasLoaded := store.Loaded()
	if wasLoaded {
		previous, _ = store.Get()
	}

	store.Set(dict.Clone(m))
	resetLoggers(tb)

	tb.Cleanup(func() {
		if wasLoaded {
			store.Set(previous)
		} else {
			store.Reset()
		}
		resetLoggers(tb)
	})
}

// LoadConfig loads dir and installs it like UseConfig, returning the loaded mapping.
func LoadConfig(tb testing.TB, dir string) dict.Map {
	tb.Helper()
	m, err := config.Load(dir)
	if err != nil {
		tb.Fatalf("failed to load config from %s: %v", dir, err)
	}
	UseConfig(tb, m)
	return m
}

func resetLoggers(tb testing.TB) {
	tb.Helper()
	if err := logs.Reset(); err != nil {
		tb.Logf("failed to close default log sinks: %v", err)
	}
}

// RandomDict returns ten uuid keys with random integers plus a "nested_dict" key
// holding copies of them one and two levels down.
func RandomDict() dict.Map {
	flat := make(dict.Map, 10)
	for range 10 {
		flat[uuid.NewString()] = rand.IntN(100000) + 1
	}

	m := dict.Clone(flat)
	m["nested_dict"] = dict.Map{
		"1-layer": dict.Clone(flat),
		"2-layers": dict.Map{
			uuid.NewString(): dict.Clone(flat),
		},
	}
	return m
}
