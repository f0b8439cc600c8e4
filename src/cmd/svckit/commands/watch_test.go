// FILE: svckit/src/cmd/svckit/commands/watch_test.go
package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer guards a bytes.Buffer written by the watcher goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestConfigWatch(t *testing.T) {
	dir := writeConfig(t, map[string]string{"service.yaml": "service:\n  name: original\n"})

	var out, errOut syncBuffer
	cmd := NewConfigCommand(IO{Out: &out, ErrOut: &errOut, Logger: log.NewLogger()})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cmd.ctx = ctx

	done := make(chan error, 1)
	go func() {
		done <- cmd.Execute([]string{"watch", "-path", dir, "-key", "service.name", "-debounce", "20ms"})
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "original")
	}, 2*time.Second, 10*time.Millisecond)

	// Rewrite on every tick so a change made before the watcher started is not lost.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(dir, "service.yaml"), []byte("service:\n  name: renamed\n"), 0o644)
		return strings.Contains(out.String(), "renamed")
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop after cancellation")
	}

	assert.Contains(t, out.String(), "---\noriginal\n")
}

func TestConfigWatchErrors(t *testing.T) {
	dir := writeConfig(t, map[string]string{"a.yaml": "a: 1\n"})

	testCases := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "BadFormat", args: []string{"watch", "-path", dir, "-format", "toml"}, wantErr: "invalid format"},
		{name: "MissingDir", args: []string{"watch", "-path", filepath.Join(dir, "nope")}, wantErr: "failed to load configuration"},
		{name: "BadDebounce", args: []string{"watch", "-debounce", "soon"}, wantErr: "invalid value"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			streams, _, _ := newTestIO()
			err := NewConfigCommand(streams).Execute(tc.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestSignalHandler(t *testing.T) {
	t.Run("ReloadThenTerminate", func(t *testing.T) {
		reloads := 0
		sh := NewSignalHandler(func() { reloads++ }, log.NewLogger())
		defer sh.Stop()

		go func() {
			sh.sigChan <- syscall.SIGHUP
			sh.sigChan <- syscall.SIGTERM
		}()

		sig := sh.Handle(context.Background())
		assert.Equal(t, syscall.SIGTERM, sig)
		assert.Equal(t, 1, reloads)
	})

	t.Run("ContextDone", func(t *testing.T) {
		sh := NewSignalHandler(nil, log.NewLogger())
		defer sh.Stop()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.Nil(t, sh.Handle(ctx))
	})
}
