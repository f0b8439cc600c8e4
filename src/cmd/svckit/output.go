// FILE: svckit/src/cmd/svckit/output.go
package main

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// OutputHandler routes user-facing output. Quiet mode drops notices but never
// command results or errors.
type OutputHandler struct {
	quiet  bool
	mu     sync.RWMutex
	stdout io.Writer
	stderr io.Writer
}

var output *OutputHandler

// InitOutputHandler initializes the global output handler
func InitOutputHandler(quiet bool) {
	output = NewOutputHandler(quiet, os.Stdout, os.Stderr)
}

func NewOutputHandler(quiet bool, stdout, stderr io.Writer) *OutputHandler {
	return &OutputHandler{
		quiet:  quiet,
		stdout: stdout,
		stderr: stderr,
	}
}

// Streams returns the writers handed to commands. Results go to stdout;
// notices go to stderr unless quiet.
func (o *OutputHandler) Streams() (out, notices io.Writer) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.quiet {
		return o.stdout, io.Discard
	}
	return o.stdout, o.stderr
}

// Error always writes to stderr
func (o *OutputHandler) Error(format string, args ...any) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	fmt.Fprintf(o.stderr, format, args...)
}

func (o *OutputHandler) IsQuiet() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.quiet
}

// Error reports through the global handler, or stderr before it exists.
func Error(format string, args ...any) {
	if output != nil {
		output.Error(format, args...)
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
}
