// FILE: svckit/src/cmd/svckit/commands/help.go
package commands

import (
	"fmt"
	"sort"
	"strings"
)

// generalHelpTemplate is the default help message shown when no specific command is requested.
const generalHelpTemplate = `svckit: configuration, logging and token tooling for services.

Usage:
  svckit [options] <command> [command options]

Commands:
%s

Options:
  --log-level <level>    Diagnostics level: debug, info, warn, error (default: warn)
  -q, --quiet            Suppress diagnostics and notices; results and errors still print

For command-specific help:
  svckit help <command>
  svckit <command> --help

Environment:
  CONFIG_PATH            Configuration directory
  PROJECT_PATH           Project root; <PROJECT_PATH>/.configs is used when CONFIG_PATH is unset
  JWT_SECRET             Token secret, overrides security.context.secret
  JWT_ALGORITHM          Token algorithm, overrides security.context.algorithm

Examples:
  # Show the merged configuration as JSON
  svckit config show -format json

  # Follow configuration changes
  svckit config watch -key log

  # Sign a token valid for one hour
  svckit token encode -claims '{"sub":"alice"}' -ttl 1h
`

// HelpCommand handles the display of general or command-specific help messages.
type HelpCommand struct {
	router *CommandRouter
	io     IO
}

// NewHelpCommand creates a new help command handler.
func NewHelpCommand(router *CommandRouter, streams IO) *HelpCommand {
	return &HelpCommand{router: router, io: streams.withDefaults()}
}

// Execute displays the appropriate help message based on the provided arguments.
func (c *HelpCommand) Execute(args []string) error {
	if len(args) > 0 && args[0] != "" {
		cmdName := args[0]

		if handler, exists := c.router.GetCommand(cmdName); exists {
			fmt.Fprint(c.io.Out, handler.Help())
			return nil
		}

		return fmt.Errorf("unknown command: %s", cmdName)
	}

	fmt.Fprintf(c.io.Out, generalHelpTemplate, c.formatCommandList())
	return nil
}

func (c *HelpCommand) Description() string {
	return "Display help information"
}

func (c *HelpCommand) Help() string {
	return `Help Command - Display help information

Usage:
  svckit help              Show general help
  svckit help <command>    Show help for a specific command

Examples:
  svckit help token        # Show token command help
  svckit token --help      # Alternative way to get command help
`
}

// formatCommandList creates a formatted and aligned list of all available commands.
func (c *HelpCommand) formatCommandList() string {
	commands := c.router.GetCommands()

	names := make([]string, 0, len(commands))
	maxLen := 0
	for name := range commands {
		names = append(names, name)
		if len(name) > maxLen {
			maxLen = len(name)
		}
	}
	sort.Strings(names)

	var lines []string
	for _, name := range names {
		padding := strings.Repeat(" ", maxLen-len(name)+2)
		lines = append(lines, fmt.Sprintf("  %s%s%s", name, padding, commands[name].Description()))
	}

	return strings.Join(lines, "\n")
}
