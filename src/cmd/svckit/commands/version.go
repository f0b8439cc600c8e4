// FILE: svckit/src/cmd/svckit/commands/version.go
package commands

import (
	"fmt"

	"svckit/src/internal/version"
)

// VersionCommand handles version display
type VersionCommand struct {
	io IO
}

// NewVersionCommand creates a new version command
func NewVersionCommand(streams IO) *VersionCommand {
	return &VersionCommand{io: streams.withDefaults()}
}

func (c *VersionCommand) Execute(args []string) error {
	if len(args) > 0 && args[0] == "-short" {
		fmt.Fprintln(c.io.Out, version.Short())
		return nil
	}
	fmt.Fprintln(c.io.Out, version.String())
	return nil
}

func (c *VersionCommand) Description() string {
	return "Show version information"
}

func (c *VersionCommand) Help() string {
	return `Version Command - Show svckit version information

Usage:
  svckit version           Version, commit, build time and Go version
  svckit version -short    Version tag only
`
}
