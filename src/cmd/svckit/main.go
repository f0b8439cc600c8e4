// FILE: svckit/src/cmd/svckit/main.go
package main

import (
	"os"

	"svckit/src/cmd/svckit/commands"
	"svckit/src/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags, err := parseRootFlags(args, os.Stderr)
	if err != nil {
		Error("Error: %v\n", err)
		return 2
	}

	InitOutputHandler(flags.Quiet)

	logger, err := initializeLogger(flags)
	if err != nil {
		Error("Failed to initialize logger: %v\n", err)
		return 1
	}
	defer shutdown(logger)

	logger.Debug("msg", "svckit starting",
		"version", version.Short(),
		"args", len(flags.Args))

	out, notices := output.Streams()
	router := commands.NewCommandRouter(commands.IO{
		Out:    out,
		ErrOut: notices,
		In:     os.Stdin,
		Logger: logger,
	})

	if err := router.Route(flags.Args); err != nil {
		Error("Error: %v\n", err)
		return 1
	}
	return 0
}
