// FILE: svckit/src/internal/security/errors.go
package security

import "errors"

var (
	// ErrConfiguration is returned when a factory has no usable secret or algorithm.
	ErrConfiguration = errors.New("token factory configuration error")
	// ErrTokenInvalid covers signature, algorithm and claim validation failures.
	ErrTokenInvalid = errors.New("token is invalid")
	// ErrTokenExpired is returned for tokens past their exp claim.
	ErrTokenExpired = errors.New("token is expired")
	// ErrTokenMalformed is returned for input that is not a structurally valid token.
	ErrTokenMalformed = errors.New("token is malformed")
)
