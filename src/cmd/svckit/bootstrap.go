// FILE: svckit/src/cmd/svckit/bootstrap.go
package main

import (
	"fmt"
	"time"

	"svckit/src/internal/logs"

	"github.com/lixenwraith/log"
)

// initializeLogger sets up the diagnostics logger; it writes to stderr only so command output stays clean
func initializeLogger(flags *rootFlags) (*log.Logger, error) {
	overrides, err := loggerOverrides(flags)
	if err != nil {
		return nil, err
	}

	logger := log.NewLogger()
	if err := logger.ApplyConfigString(overrides...); err != nil {
		return nil, fmt.Errorf("failed to configure logger: %w", err)
	}
	if err := logger.Start(); err != nil {
		return nil, fmt.Errorf("failed to start logger: %w", err)
	}
	return logger, nil
}

// loggerOverrides maps root flags onto logger configuration keys
func loggerOverrides(flags *rootFlags) ([]string, error) {
	if flags.Quiet {
		return []string{
			"disable_file=true",
			"enable_console=false",
			"level=255",
		}, nil
	}

	levelValue, err := parseLogLevel(flags.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	return []string{
		fmt.Sprintf("level=%d", levelValue),
		"disable_file=true",
		"enable_console=true",
		"console_target=stderr",
	}, nil
}

// shutdown flushes the diagnostics logger and closes default log sinks
func shutdown(logger *log.Logger) {
	if err := logs.Reset(); err != nil {
		Error("Log sink shutdown error: %v\n", err)
	}
	if logger != nil {
		if err := logger.Shutdown(2 * time.Second); err != nil {
			Error("Logger shutdown error: %v\n", err)
		}
	}
}
