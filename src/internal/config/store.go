// FILE: svckit/src/internal/config/store.go
package config

import (
	"sync"

	"svckit/src/internal/dict"
	"svckit/src/internal/lazy"

	"github.com/lixenwraith/log"
)

// Store is a process-wide configuration handle.
// The first Get loads the directory; Reload builds a new map and swaps it in one step.
// The returned map is shared and must be treated as read-only.
type Store struct {
	mu     sync.RWMutex
	path   string
	loader *Loader
	holder *lazy.Holder[dict.Map]
}

// NewStore creates a store that loads from path; an empty path resolves GetConfigPath at load time.
func NewStore(path string, loader *Loader) *Store {
	if loader == nil {
		loader = NewLoader(nil)
	}
	s := &Store{path: path, loader: loader}
	s.holder = lazy.New(s.load)
	return s
}

var (
	defaultStore     *Store
	defaultStoreOnce sync.Once
)

// Default returns the process-wide store, loading from GetConfigPath with env.yaml injection.
func Default() *Store {
	defaultStoreOnce.Do(func() {
		loader := NewLoader(nil)
		loader.InjectEnv = true
		defaultStore = NewStore("", loader)
	})
	return defaultStore
}

// Get returns the default store's configuration.
func Get() (dict.Map, error) {
	return Default().Get()
}

// Reload reloads the default store.
func Reload() (dict.Map, error) {
	return Default().Reload()
}

func (s *Store) load() (dict.Map, error) {
	return s.loader.Load(s.Path())
}

// Get returns the current configuration, loading it on first use.
func (s *Store) Get() (dict.Map, error) {
	return s.holder.Get()
}

// Reload rebuilds the configuration from the store's path. On failure the previous map stays.
func (s *Store) Reload() (dict.Map, error) {
	return s.holder.Reload()
}

// LoadInto points the store at path and reloads from it.
// The path is kept only when the load succeeds.
func (s *Store) LoadInto(path string) (dict.Map, error) {
	m, err := s.loader.Load(path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.path = path
	s.mu.Unlock()
	s.holder.Set(m)
	return m, nil
}

// Set replaces the current configuration without touching the file system.
func (s *Store) Set(m dict.Map) {
	if m == nil {
		m = make(dict.Map)
	}
	s.holder.Set(m)
}

// Reset returns the store to its unloaded state.
func (s *Store) Reset() {
	s.holder.Reset()
}

// Loaded reports whether a configuration is currently held.
func (s *Store) Loaded() bool {
	return s.holder.Loaded()
}

// Path returns the directory the store loads from.
func (s *Store) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.path == "" {
		return GetConfigPath()
	}
	return s.path
}

// SetPath changes the directory used by later loads.
func (s *Store) SetPath(path string) {
	s.mu.Lock()
	s.path = path
	s.mu.Unlock()
}

// SetLogger sets the diagnostics logger used by loads.
func (s *Store) SetLogger(logger *log.Logger) {
	if logger != nil {
		s.loader.Logger = logger
	}
}

// Snapshot returns a deep copy of the current configuration that the caller may modify.
func (s *Store) Snapshot() (dict.Map, error) {
	m, err := s.Get()
	if err != nil {
		return nil, err
	}
	return dict.Clone(m), nil
}
