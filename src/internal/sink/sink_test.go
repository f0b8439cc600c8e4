// FILE: svckit/src/internal/sink/sink_test.go
package sink

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"svckit/src/internal/config"
	"svckit/src/internal/core"
	"svckit/src/internal/format"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *log.Logger {
	return log.NewLogger()
}

func testRecord(level core.Level, msg string) core.Record {
	return core.Record{
		Name:    "test",
		Level:   level,
		Message: msg,
		Time:    time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("device unavailable")
}

func TestConsoleSink(t *testing.T) {
	logger := newTestLogger()

	testCases := []struct {
		name       string
		target     string
		level      core.Level
		wantStdout bool
	}{
		{name: "StdoutInfo", target: TargetStdout, level: core.LevelInfo, wantStdout: true},
		{name: "StdoutError", target: TargetStdout, level: core.LevelError, wantStdout: true},
		{name: "StderrInfo", target: TargetStderr, level: core.LevelInfo, wantStdout: false},
		{name: "SplitDebug", target: TargetSplit, level: core.LevelDebug, wantStdout: true},
		{name: "SplitWarning", target: TargetSplit, level: core.LevelWarning, wantStdout: false},
		{name: "SplitCritical", target: TargetSplit, level: core.LevelCritical, wantStdout: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			s, err := NewConsoleSink(ConsoleOptions{Target: tc.target, Stdout: &stdout, Stderr: &stderr}, nil, logger)
			require.NoError(t, err)

			require.NoError(t, s.Write(testRecord(tc.level, "hello")))

			want := "2024-05-01 08:00:00 - test - " + tc.level.String() + " - hello\n"
			if tc.wantStdout {
				assert.Equal(t, want, stdout.String())
				assert.Empty(t, stderr.String())
			} else {
				assert.Equal(t, want, stderr.String())
				assert.Empty(t, stdout.String())
			}
		})
	}

	t.Run("InvalidTarget", func(t *testing.T) {
		_, err := NewConsoleSink(ConsoleOptions{Target: "printer"}, nil, logger)
		assert.Error(t, err)
	})

	t.Run("WriteFailureCounted", func(t *testing.T) {
		s, err := NewConsoleSink(ConsoleOptions{Stdout: failingWriter{}}, nil, logger)
		require.NoError(t, err)

		assert.Error(t, s.Write(testRecord(core.LevelInfo, "lost")))

		stats := s.GetStats()
		assert.Equal(t, uint64(0), stats.TotalProcessed)
		assert.Equal(t, uint64(1), stats.TotalFailed)
		assert.Equal(t, "console", stats.Type)
	})
}

func TestFileSink(t *testing.T) {
	logger := newTestLogger()

	t.Run("JSONLines", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "svc.log")
		s, err := NewFileSink(FileOptions{Path: path}, nil, logger)
		require.NoError(t, err)

		rec := testRecord(core.LevelInfo, "test %s")
		rec.Args = []any{5}
		require.NoError(t, s.Write(rec))
		require.NoError(t, s.Write(testRecord(core.LevelError, "second")))
		require.NoError(t, s.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
		require.Len(t, lines, 2)

		var doc map[string]any
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &doc))
		assert.Equal(t, "test 5", doc["message"])
		for _, key := range []string{"source", "metadata", "message", "args", "exc_info", "stack_info"} {
			assert.Contains(t, doc, key)
		}

		stats := s.GetStats()
		assert.Equal(t, uint64(2), stats.TotalProcessed)
		assert.Equal(t, path, stats.Details["path"])
	})

	t.Run("AppendMode", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "svc.log")
		require.NoError(t, os.WriteFile(path, []byte("existing\n"), 0o644))

		s, err := NewFileSink(FileOptions{Path: path, Mode: ModeAppend}, raw(t), logger)
		require.NoError(t, err)
		require.NoError(t, s.Write(testRecord(core.LevelInfo, "new")))
		require.NoError(t, s.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "existing\nnew\n", string(data))
	})

	t.Run("TruncateMode", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "svc.log")
		require.NoError(t, os.WriteFile(path, []byte("existing\n"), 0o644))

		s, err := NewFileSink(FileOptions{Path: path, Mode: ModeTruncate}, raw(t), logger)
		require.NoError(t, err)
		require.NoError(t, s.Write(testRecord(core.LevelInfo, "new")))
		require.NoError(t, s.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "new\n", string(data))
	})

	t.Run("RotationWriter", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "svc.log")
		require.NoError(t, os.WriteFile(path, []byte("existing\n"), 0o644))

		s, err := NewFileSink(FileOptions{
			Path:     path,
			Mode:     ModeTruncate,
			Rotation: &config.RotationSettings{MaxSizeMB: 1, MaxBackups: 2},
		}, raw(t), logger)
		require.NoError(t, err)
		require.NoError(t, s.Write(testRecord(core.LevelInfo, "rotated")))
		require.NoError(t, s.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "rotated\n", string(data))
	})

	t.Run("WriteAfterClose", func(t *testing.T) {
		s, err := NewFileSink(FileOptions{Path: filepath.Join(t.TempDir(), "svc.log")}, nil, logger)
		require.NoError(t, err)
		require.NoError(t, s.Close())
		require.NoError(t, s.Close())

		err = s.Write(testRecord(core.LevelInfo, "late"))
		assert.ErrorIs(t, err, os.ErrClosed)
		assert.Equal(t, uint64(1), s.GetStats().TotalFailed)
	})

	t.Run("InvalidOptions", func(t *testing.T) {
		_, err := NewFileSink(FileOptions{}, nil, logger)
		assert.Error(t, err)

		_, err = NewFileSink(FileOptions{Path: filepath.Join(t.TempDir(), "x.log"), Mode: "r"}, nil, logger)
		assert.Error(t, err)
	})
}

func TestNew(t *testing.T) {
	settings := config.DefaultLogSettings()
	settings.Logger.Directory = t.TempDir()
	settings.Logger.FileName = "unit.log"

	testCases := []struct {
		name     string
		output   string
		wantName string
		wantErr  bool
	}{
		{name: "Stdout", output: "stdout", wantName: "console"},
		{name: "Console", output: "console", wantName: "console"},
		{name: "Split", output: "SPLIT", wantName: "console"},
		{name: "File", output: "file", wantName: "file"},
		{name: "Unknown", output: "kafka", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := New(tc.output, settings, nil)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer s.Close()
			assert.Equal(t, tc.wantName, s.Name())
		})
	}

	t.Run("FileUsesSettingsPath", func(t *testing.T) {
		s, err := New("file", settings, nil)
		require.NoError(t, err)
		defer s.Close()

		fs, ok := s.(*FileSink)
		require.True(t, ok)
		assert.Equal(t, filepath.Join(settings.Logger.Directory, "unit.log"), fs.Path())
		assert.Equal(t, "json", fs.GetStats().Details["format"])
	})

	t.Run("NewAllStopsOnError", func(t *testing.T) {
		bad := settings
		bad.Logger.Outputs = []string{"stdout", "file", "kafka"}
		_, err := NewAll(bad, nil)
		assert.Error(t, err)

		good := settings
		sinks, err := NewAll(good, nil)
		require.NoError(t, err)
		assert.Len(t, sinks, 2)
		for _, s := range sinks {
			s.Close()
		}
	})
}

func raw(t *testing.T) format.Formatter {
	t.Helper()
	f, err := format.NewRawFormatter(config.LogFormatSettings{}, newTestLogger())
	require.NoError(t, err)
	return f
}
