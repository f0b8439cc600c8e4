// FILE: svckit/src/internal/security/token.go
package security

// Token wraps a signed token string and the claims it was created from.
type Token struct {
	Raw    string
	Claims map[string]any
}

func (t Token) String() string {
	return t.Raw
}

// Factory encodes claims into tokens and decodes them back.
type Factory interface {
	Encode(claims map[string]any) (Token, error)
	// Decode accepts a Token, *Token or string.
	Decode(token any) (map[string]any, error)
}
