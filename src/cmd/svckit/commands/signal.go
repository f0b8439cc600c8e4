// FILE: svckit/src/cmd/svckit/commands/signal.go
package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lixenwraith/log"
)

// SignalHandler waits for termination signals and runs reload on SIGHUP
type SignalHandler struct {
	reload  func()
	logger  *log.Logger
	sigChan chan os.Signal
}

// NewSignalHandler registers for SIGINT, SIGTERM and SIGHUP
func NewSignalHandler(reload func(), logger *log.Logger) *SignalHandler {
	sh := &SignalHandler{
		reload:  reload,
		logger:  logger,
		sigChan: make(chan os.Signal, 1),
	}

	signal.Notify(sh.sigChan,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGHUP, // Traditional reload signal
	)

	return sh
}

// Handle blocks until a termination signal arrives or ctx is done.
// It returns the signal, or nil when ctx ended first.
func (sh *SignalHandler) Handle(ctx context.Context) os.Signal {
	for {
		select {
		case sig := <-sh.sigChan:
			if sig == syscall.SIGHUP {
				sh.logger.Info("msg", "Reload signal received",
					"component", "cli",
					"signal", sig)
				if sh.reload != nil {
					sh.reload()
				}
				continue
			}
			return sig
		case <-ctx.Done():
			return nil
		}
	}
}

// Stop unregisters the handler
func (sh *SignalHandler) Stop() {
	signal.Stop(sh.sigChan)
}
