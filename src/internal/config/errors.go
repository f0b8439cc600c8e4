// FILE: svckit/src/internal/config/errors.go
package config

import (
	"errors"
	"fmt"
)

// ErrParse marks a configuration fragment that could not be parsed.
var ErrParse = errors.New("config parse error")

// ParseError names the fragment that failed the load.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse config fragment %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}
