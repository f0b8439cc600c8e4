// FILE: svckit/src/cmd/svckit/commands/config.go
package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"svckit/src/internal/config"
	"svckit/src/internal/dict"
	"svckit/src/internal/values"

	"gopkg.in/yaml.v3"
)

// ConfigCommand prints the merged configuration.
type ConfigCommand struct {
	io    IO
	store *config.Store
	ctx   context.Context
}

// NewConfigCommand creates a config command reading the process-wide store.
func NewConfigCommand(streams IO) *ConfigCommand {
	return &ConfigCommand{io: streams.withDefaults(), ctx: context.Background()}
}

func (c *ConfigCommand) Execute(args []string) error {
	if len(args) == 0 {
		fmt.Fprint(c.io.ErrOut, c.Help())
		return fmt.Errorf("config requires a subcommand: show, watch")
	}

	switch args[0] {
	case "show":
		return c.show(args[1:])
	case "watch":
		return c.watch(args[1:])
	default:
		fmt.Fprint(c.io.ErrOut, c.Help())
		return fmt.Errorf("config requires a subcommand: show, watch")
	}
}

func (c *ConfigCommand) show(args []string) error {
	cmd := flag.NewFlagSet("config show", flag.ContinueOnError)
	cmd.SetOutput(c.io.ErrOut)

	var (
		path   = cmd.String("path", "", "Configuration directory (default: resolved from CONFIG_PATH/PROJECT_PATH)")
		format = cmd.String("format", "yaml", "Output format: yaml or json")
		key    = cmd.String("key", "", "Dotted key to print instead of the whole configuration")
		out    = cmd.String("out", "", "Write the output to a file instead of stdout")
	)

	if err := cmd.Parse(args); err != nil {
		return err
	}

	m, err := c.load(*path)
	if err != nil {
		return err
	}

	var value any = m
	if *key != "" {
		v, ok := dict.Get(m, *key)
		if !ok {
			return fmt.Errorf("key not found: %s", *key)
		}
		value = v
	}

	if *out != "" {
		return c.write(*out, *format, value)
	}

	rendered, err := render(*format, value)
	if err != nil {
		return err
	}
	fmt.Fprint(c.io.Out, rendered)
	return nil
}

// watch prints the configuration and prints it again after every successful reload
// until interrupted.
func (c *ConfigCommand) watch(args []string) error {
	cmd := flag.NewFlagSet("config watch", flag.ContinueOnError)
	cmd.SetOutput(c.io.ErrOut)

	var (
		path     = cmd.String("path", "", "Configuration directory (default: resolved from CONFIG_PATH/PROJECT_PATH)")
		format   = cmd.String("format", "yaml", "Output format: yaml or json")
		key      = cmd.String("key", "", "Dotted key to print instead of the whole configuration")
		debounce = cmd.Duration("debounce", config.DefaultDebounce, "Quiet period before reloading after a change")
	)

	if err := cmd.Parse(args); err != nil {
		return err
	}
	if _, err := render(*format, nil); err != nil {
		return err
	}

	store := c.store
	if *path != "" {
		store = config.NewStore(*path, config.NewLoader(c.io.Logger))
	} else if store == nil {
		store = config.Default()
	}
	store.SetLogger(c.io.Logger)

	m, err := store.Get()
	if err != nil {
		return fmt.Errorf("failed to load configuration from %s: %w", store.Path(), err)
	}

	startedAt := time.Now()

	var printMu sync.Mutex
	emit := func(m dict.Map) {
		printMu.Lock()
		defer printMu.Unlock()

		var value any = m
		if *key != "" {
			v, ok := dict.Get(m, *key)
			if !ok {
				fmt.Fprintf(c.io.ErrOut, "key not found: %s\n", *key)
				return
			}
			value = v
		}
		rendered, err := render(*format, value)
		if err != nil {
			fmt.Fprintln(c.io.ErrOut, err)
			return
		}
		if *format != "json" {
			fmt.Fprint(c.io.Out, "---\n")
		}
		fmt.Fprint(c.io.Out, rendered)
	}
	emit(m)

	watcher := config.NewWatcher(store, c.io.Logger,
		config.WithDebounce(*debounce),
		config.OnReload(emit),
		config.OnReloadError(func(err error) {
			fmt.Fprintf(c.io.ErrOut, "reload failed, keeping current configuration: %v\n", err)
		}),
	)

	ctx, cancel := context.WithCancel(c.ctx)
	defer cancel()

	if err := watcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Stop()

	sigHandler := NewSignalHandler(func() {
		if m, err := store.Reload(); err != nil {
			fmt.Fprintf(c.io.ErrOut, "reload failed, keeping current configuration: %v\n", err)
		} else {
			emit(m)
		}
	}, c.io.Logger)
	defer sigHandler.Stop()

	if sig := sigHandler.Handle(ctx); sig != nil {
		c.io.Logger.Info("msg", "Shutdown signal received",
			"component", "cli",
			"signal", sig)
	}

	c.io.Logger.Debug("msg", "Configuration watch stopped",
		"component", "cli",
		"reloads", watcher.Reloads(),
		"elapsed", time.Since(startedAt))
	return nil
}

func (c *ConfigCommand) load(path string) (dict.Map, error) {
	if path != "" {
		loader := config.NewLoader(c.io.Logger)
		m, err := loader.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		return m, nil
	}

	store := c.store
	if store == nil {
		store = config.Default()
	}
	store.SetLogger(c.io.Logger)
	m, err := store.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from %s: %w", store.Path(), err)
	}
	return m, nil
}

// write saves mappings as YAML through config.Save; other values and JSON are written as rendered.
func (c *ConfigCommand) write(path, format string, value any) error {
	if m, ok := dict.AsMap(value); ok && format == "yaml" {
		if err := config.Save(path, m); err != nil {
			return err
		}
	} else {
		rendered, err := render(format, value)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}

	c.io.Logger.Info("msg", "Configuration written",
		"component", "cli",
		"path", path,
		"format", format)
	return nil
}

func render(format string, value any) (string, error) {
	switch format {
	case "yaml", "yml":
		data, err := yaml.Marshal(value)
		if err != nil {
			return "", fmt.Errorf("failed to render yaml: %w", err)
		}
		return string(data), nil
	case "json":
		return values.PrettyJSON(value, 2) + "\n", nil
	default:
		return "", fmt.Errorf("invalid format: %s (valid: yaml, json)", format)
	}
}

func (c *ConfigCommand) Description() string {
	return "Show or watch the merged configuration"
}

func (c *ConfigCommand) Help() string {
	return `Config Command - Show or watch the merged configuration

Usage:
  svckit config show [options]
  svckit config watch [options]

Subcommands:
  show               Print the merged configuration once
  watch              Print it, then print it again whenever a YAML file changes.
                     SIGHUP forces a reload. SIGINT or SIGTERM stops watching.

Options:
  -path <dir>        Configuration directory (default: CONFIG_PATH, then PROJECT_PATH/.configs, then /etc/config)
  -format <fmt>      yaml or json (default: yaml)
  -key <a.b.c>       Print a single dotted key
  -out <file>        Write to a file instead of stdout (show only)
  -debounce <dur>    Quiet period before reloading (watch only, default: 500ms)

Examples:
  svckit config show -format json
  svckit config show -key log.logger.level
  svckit config show -path ./.configs -out merged.yaml
  svckit config watch -path ./.configs -key service
`
}
