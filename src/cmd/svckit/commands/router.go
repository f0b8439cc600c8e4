// FILE: svckit/src/cmd/svckit/commands/router.go
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/lixenwraith/log"
)

// Handler defines the interface required for all subcommands.
type Handler interface {
	Execute(args []string) error
	Description() string
	Help() string
}

// IO carries the streams and diagnostics logger shared by all commands.
type IO struct {
	Out    io.Writer
	ErrOut io.Writer
	In     *os.File
	Logger *log.Logger
}

func (s IO) withDefaults() IO {
	if s.Out == nil {
		s.Out = os.Stdout
	}
	if s.ErrOut == nil {
		s.ErrOut = os.Stderr
	}
	if s.In == nil {
		s.In = os.Stdin
	}
	if s.Logger == nil {
		s.Logger = log.NewLogger()
	}
	return s
}

// CommandRouter handles the routing of CLI arguments to the appropriate subcommand handler.
type CommandRouter struct {
	commands map[string]Handler
	io       IO
}

// NewCommandRouter creates and initializes the command router with all available commands.
func NewCommandRouter(streams IO) *CommandRouter {
	streams = streams.withDefaults()
	router := &CommandRouter{
		commands: make(map[string]Handler),
		io:       streams,
	}

	router.commands["config"] = NewConfigCommand(streams)
	router.commands["token"] = NewTokenCommand(streams)
	router.commands["version"] = NewVersionCommand(streams)
	router.commands["help"] = NewHelpCommand(router, streams)

	return router
}

// Route executes the command named by args[0] with the remaining arguments.
// No arguments shows the general help.
func (r *CommandRouter) Route(args []string) error {
	if len(args) == 0 {
		return r.commands["help"].Execute(nil)
	}

	cmdName := args[0]

	for _, arg := range args {
		if arg == "-h" || arg == "--help" {
			if handler, exists := r.commands[cmdName]; exists && cmdName != "help" {
				fmt.Fprint(r.io.Out, handler.Help())
				return nil
			}
			return r.commands["help"].Execute(nil)
		}
	}

	handler, exists := r.commands[cmdName]
	if !exists {
		return fmt.Errorf("unknown command: %s\n\nRun 'svckit help' for usage", cmdName)
	}

	r.io.Logger.Debug("msg", "Executing command",
		"component", "cli",
		"command", cmdName,
		"args", len(args)-1)
	return handler.Execute(args[1:])
}

// GetCommand returns a specific command handler by its name.
func (r *CommandRouter) GetCommand(name string) (Handler, bool) {
	cmd, exists := r.commands[name]
	return cmd, exists
}

// GetCommands returns a map of all registered commands.
func (r *CommandRouter) GetCommands() map[string]Handler {
	return r.commands
}

// coalesceString returns the first non-empty string from a list of arguments.
func coalesceString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
