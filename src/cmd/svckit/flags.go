// FILE: svckit/src/cmd/svckit/flags.go
package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/lixenwraith/log"
)

// rootFlags are parsed before the command name
type rootFlags struct {
	LogLevel string
	Quiet    bool
	Args     []string
}

func parseRootFlags(args []string, errOut io.Writer) (*rootFlags, error) {
	fs := flag.NewFlagSet("svckit", flag.ContinueOnError)
	fs.SetOutput(errOut)

	cfg := &rootFlags{}
	fs.StringVar(&cfg.LogLevel, "log-level", "warn", "Diagnostics level: debug, info, warn, error")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Suppress diagnostics and notices")
	fs.BoolVar(&cfg.Quiet, "q", false, "Suppress diagnostics and notices")

	// leave -h/--help to the command router
	var rest []string
	for i, arg := range args {
		if arg == "-h" || arg == "--help" {
			rest = args[i:]
			args = args[:i]
			break
		}
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if _, err := parseLogLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid log-level: %s (valid: debug, info, warn, error)", cfg.LogLevel)
	}

	cfg.Args = append(fs.Args(), rest...)
	return cfg, nil
}

func parseLogLevel(level string) (int, error) {
	switch strings.ToLower(level) {
	case "debug":
		return int(log.LevelDebug), nil
	case "info":
		return int(log.LevelInfo), nil
	case "warn", "warning":
		return int(log.LevelWarn), nil
	case "error":
		return int(log.LevelError), nil
	default:
		return 0, fmt.Errorf("unknown log level: %s", level)
	}
}
