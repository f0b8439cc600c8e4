// FILE: svckit/src/internal/values/generators.go
package values

import (
	"crypto/rand"
	"math/big"
)

// Charset selects the character classes used by RandomString.
type Charset uint8

const (
	Lower Charset = 1 << iota
	Upper
	Digits
	Symbols
)

const (
	lowerChars  = "abcdefghijklmnopqrstuvwxyz"
	upperChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars  = "0123456789"
	symbolChars = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
)

// RandomString returns a random string of length characters drawn from charset.
// Lowercase letters are always included.
func RandomString(length int, charset Charset) string {
	chars := lowerChars
	if charset&Upper != 0 {
		chars += upperChars
	}
	if charset&Digits != 0 {
		chars += digitChars
	}
	if charset&Symbols != 0 {
		chars += symbolChars
	}

	limit := big.NewInt(int64(len(chars)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			panic("values: crypto/rand unavailable: " + err.Error())
		}
		out[i] = chars[n.Int64()]
	}
	return string(out)
}
