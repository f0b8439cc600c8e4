// FILE: svckit/src/internal/config/watcher_test.go
package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"svckit/src/internal/dict"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, dir string, opts ...WatchOption) (*Store, *Watcher) {
	t.Helper()
	store := NewStore(dir, nil)
	_, err := store.Get()
	require.NoError(t, err)

	w := NewWatcher(store, nil, append([]WatchOption{WithDebounce(20 * time.Millisecond)}, opts...)...)
	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(func() { _ = w.Stop() })
	return store, w
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "service:\n  name: demo\n")

	var mu sync.Mutex
	var seen []dict.Map
	store, w := startWatcher(t, dir, OnReload(func(m dict.Map) {
		mu.Lock()
		seen = append(seen, m)
		mu.Unlock()
	}))

	writeFile(t, dir, "base.yaml", "service:\n  name: renamed\n")

	require.Eventually(t, func() bool {
		m, err := store.Get()
		return err == nil && Section(m, "service")["name"] == "renamed"
	}, 5*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, seen)
	assert.GreaterOrEqual(t, w.Reloads(), 1)
}

func TestWatcher_NewSubdirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "a: 1\n")
	store, _ := startWatcher(t, dir)

	sub := filepath.Join(dir, "extra")
	require.NoError(t, os.Mkdir(sub, 0o755))
	// let the watcher register the new directory before the file appears
	time.Sleep(50 * time.Millisecond)
	writeFile(t, sub, "more.yaml", "b: 2\n")

	require.Eventually(t, func() bool {
		m, err := store.Get()
		return err == nil && m["b"] == 2
	}, 5*time.Second, 10*time.Millisecond)
}

func TestWatcher_FailedReloadKeepsConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "a: 1\n")

	errs := make(chan error, 4)
	store, w := startWatcher(t, dir, OnReloadError(func(err error) { errs <- err }))

	writeFile(t, dir, "broken.yaml", "service: [unclosed\n")

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, ErrParse)
	case <-time.After(5 * time.Second):
		t.Fatal("reload error not reported")
	}

	m, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, dict.Map{"a": 1}, m)
	assert.Zero(t, w.Reloads())
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "a: 1\n")
	_, w := startWatcher(t, dir)

	writeFile(t, dir, "notes.txt", "hello")
	time.Sleep(200 * time.Millisecond)
	assert.Zero(t, w.Reloads())
}

func TestWatcher_StartErrors(t *testing.T) {
	t.Run("MissingDir", func(t *testing.T) {
		w := NewWatcher(NewStore(filepath.Join(t.TempDir(), "nope"), nil), nil)
		assert.Error(t, w.Start(context.Background()))
	})

	t.Run("AlreadyRunning", func(t *testing.T) {
		dir := t.TempDir()
		_, w := startWatcher(t, dir)
		assert.Error(t, w.Start(context.Background()))
	})

	t.Run("StopIdempotent", func(t *testing.T) {
		dir := t.TempDir()
		_, w := startWatcher(t, dir)
		require.NoError(t, w.Stop())
		assert.NoError(t, w.Stop())
	})
}
