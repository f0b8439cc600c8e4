// FILE: svckit/src/internal/logs/registry.go
package logs

import (
	"errors"
	"fmt"
	"sync"

	"svckit/src/internal/config"
	"svckit/src/internal/sink"

	"github.com/lixenwraith/log"
)

// Registry caches named loggers built from one configuration store.
// All loggers of a registry share one set of sinks, so a truncating file sink opens once.
type Registry struct {
	mu       sync.Mutex
	store    *config.Store
	diag     *log.Logger
	opts     []Option
	settings *config.LogSettings
	sinks    []sink.Sink
	loggers  map[string]*Logger
}

// NewRegistry creates a registry reading the "log" section from store.
func NewRegistry(store *config.Store, diag *log.Logger, opts ...Option) *Registry {
	if diag == nil {
		diag = log.NewLogger()
	}
	return &Registry{
		store:   store,
		diag:    diag,
		opts:    opts,
		loggers: make(map[string]*Logger),
	}
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the registry backed by the process-wide configuration store.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry(config.Default(), nil)
	})
	return defaultRegistry
}

// Get returns the named logger from the default registry.
func Get(name string) (*Logger, error) {
	return Default().Get(name)
}

// Reset closes and forgets every logger of the default registry.
func Reset() error {
	return Default().Reset()
}

// Settings returns the log settings the registry builds loggers with.
// A configuration that cannot be loaded falls back to the defaults; an invalid "log" section is an error.
func (r *Registry) Settings() (config.LogSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.settingsLocked()
}

func (r *Registry) settingsLocked() (config.LogSettings, error) {
	if r.settings != nil {
		return *r.settings, nil
	}

	m, err := r.store.Get()
	if err != nil {
		r.diag.Warn("msg", "Configuration unavailable, using default log settings",
			"component", "log_registry",
			"path", r.store.Path(),
			"error", err)
		m = nil
	}

	settings, err := config.LogSettingsFrom(m)
	if err != nil {
		return config.LogSettings{}, err
	}
	r.settings = &settings
	return settings, nil
}

// Get returns the cached logger for name, building it on first use.
func (r *Registry) Get(name string) (*Logger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.loggers[name]; ok {
		return l, nil
	}

	settings, err := r.settingsLocked()
	if err != nil {
		return nil, err
	}

	if r.sinks == nil {
		sinks, err := sink.NewAll(settings, r.diag)
		if err != nil {
			return nil, fmt.Errorf("failed to create log sinks: %w", err)
		}
		r.sinks = sinks
	}

	opts := append([]Option{WithDiagnostics(r.diag)}, r.opts...)
	opts = append(opts, WithSinks(r.sinks...))
	l, err := New(name, settings, opts...)
	if err != nil {
		return nil, err
	}

	r.loggers[name] = l
	return l, nil
}

// Reset closes the shared sinks and drops cached loggers and settings.
// The next Get rereads the configuration.
func (r *Registry) Reset() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for _, s := range r.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	r.sinks = nil
	r.settings = nil
	r.loggers = make(map[string]*Logger)
	return errors.Join(errs...)
}
