// FILE: svckit/src/internal/config/watcher.go
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"svckit/src/internal/dict"

	"github.com/fsnotify/fsnotify"
	"github.com/lixenwraith/log"
)

// DefaultDebounce is how long the watcher waits for further changes before reloading.
const DefaultDebounce = 500 * time.Millisecond

// Watcher reloads a Store when YAML files under its directory change.
// A reload that fails keeps the previous configuration.
type Watcher struct {
	store    *Store
	dir      string
	debounce time.Duration
	logger   *log.Logger
	onReload []func(dict.Map)
	onError  []func(error)

	fsw    *fsnotify.Watcher
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	reloads int
	running bool
}

// WatchOption configures a Watcher
type WatchOption func(*Watcher)

// WithDebounce sets the quiet period after the last change before reloading.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// OnReload registers a callback run with the new configuration after each successful reload.
func OnReload(fn func(dict.Map)) WatchOption {
	return func(w *Watcher) {
		w.onReload = append(w.onReload, fn)
	}
}

// OnReloadError registers a callback run when a reload fails.
func OnReloadError(fn func(error)) WatchOption {
	return func(w *Watcher) {
		w.onError = append(w.onError, fn)
	}
}

// NewWatcher creates a watcher for store's directory.
func NewWatcher(store *Store, logger *log.Logger, opts ...WatchOption) *Watcher {
	if logger == nil {
		logger = log.NewLogger()
	}
	w := &Watcher{
		store:    store,
		debounce: DefaultDebounce,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start begins watching the store's directory and every subdirectory.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return errors.New("watcher already running")
	}

	w.dir = w.store.Path()
	info, err := os.Stat(w.dir)
	if err != nil {
		return fmt.Errorf("failed to stat config directory %s: %w", w.dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("config path %s is not a directory", w.dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	if err := addTree(fsw, w.dir); err != nil {
		fsw.Close()
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	w.fsw = fsw
	w.cancel = cancel
	w.running = true

	w.wg.Add(1)
	go w.watchLoop(ctx)

	w.logger.Info("msg", "Configuration hot reload enabled",
		"component", "config_watcher",
		"path", w.dir,
		"debounce", w.debounce)
	return nil
}

// Stop ends watching and waits for the loop to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	cancel, fsw := w.cancel, w.fsw
	w.mu.Unlock()

	cancel()
	err := fsw.Close()
	w.wg.Wait()
	return err
}

// Reloads returns the number of successful reloads
func (w *Watcher) Reloads() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloads
}

func addTree(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) watchLoop(ctx context.Context) {
	defer w.wg.Done()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("msg", "Configuration change detected",
				"component", "config_watcher",
				"path", event.Name,
				"op", event.Op.String())
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("msg", "Configuration watcher error",
				"component", "config_watcher",
				"error", err)

		case <-timer.C:
			w.reload()
		}
	}
}

// relevant reports whether event touches a YAML file; new directories are added to the watch.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := addTree(w.fsw, event.Name); err != nil {
				w.logger.Warn("msg", "Failed to watch new directory",
					"component", "config_watcher",
					"path", event.Name,
					"error", err)
			}
			return true
		}
	}
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return false
	}
	return isYAML(event.Name)
}

func (w *Watcher) reload() {
	m, err := w.store.Reload()
	if err != nil {
		w.logger.Error("msg", "Configuration reload failed",
			"component", "config_watcher",
			"path", w.dir,
			"error", err,
			"action", "keeping current configuration")
		for _, fn := range w.onError {
			fn(err)
		}
		return
	}

	w.mu.Lock()
	w.reloads++
	w.mu.Unlock()

	w.logger.Info("msg", "Configuration reloaded",
		"component", "config_watcher",
		"path", w.dir,
		"keys", len(m))
	for _, fn := range w.onReload {
		fn(m)
	}
}
