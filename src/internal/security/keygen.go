// FILE: svckit/src/internal/security/keygen.go
package security

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultRSABits is used when GenerateSecret is called with bits <= 0
	DefaultRSABits = 2048
	minRSABits     = 2048
	hmacSecretLen  = 32
)

// GenerateSecret creates a secret usable with algorithm: random bytes (URL-safe base64) for
// HMAC, a PEM private key for RSA, RSA-PSS, ECDSA and EdDSA.
// bits only applies to RSA keys.
func GenerateSecret(algorithm string, bits int) (string, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil || method == jwt.SigningMethodNone {
		return "", fmt.Errorf("%w: unsupported algorithm %q", ErrConfiguration, algorithm)
	}

	switch m := method.(type) {
	case *jwt.SigningMethodHMAC:
		buf := make([]byte, max(hmacSecretLen, m.Hash.Size()))
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to generate random bytes: %w", err)
		}
		return base64.RawURLEncoding.EncodeToString(buf), nil

	case *jwt.SigningMethodRSA, *jwt.SigningMethodRSAPSS:
		if bits <= 0 {
			bits = DefaultRSABits
		}
		if bits < minRSABits {
			return "", fmt.Errorf("%w: RSA keys need at least %d bits", ErrConfiguration, minRSABits)
		}
		key, err := rsa.GenerateKey(rand.Reader, bits)
		if err != nil {
			return "", fmt.Errorf("failed to generate RSA key: %w", err)
		}
		return encodePEM("RSA PRIVATE KEY", x509.MarshalPKCS1PrivateKey(key)), nil

	case *jwt.SigningMethodECDSA:
		curve, err := curveFor(m.CurveBits)
		if err != nil {
			return "", err
		}
		key, err := ecdsa.GenerateKey(curve, rand.Reader)
		if err != nil {
			return "", fmt.Errorf("failed to generate EC key: %w", err)
		}
		der, err := x509.MarshalECPrivateKey(key)
		if err != nil {
			return "", fmt.Errorf("failed to encode EC key: %w", err)
		}
		return encodePEM("EC PRIVATE KEY", der), nil

	case *jwt.SigningMethodEd25519:
		_, key, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return "", fmt.Errorf("failed to generate Ed25519 key: %w", err)
		}
		der, err := x509.MarshalPKCS8PrivateKey(key)
		if err != nil {
			return "", fmt.Errorf("failed to encode Ed25519 key: %w", err)
		}
		return encodePEM("PRIVATE KEY", der), nil

	default:
		return "", fmt.Errorf("%w: unsupported algorithm %q", ErrConfiguration, algorithm)
	}
}

func curveFor(bits int) (elliptic.Curve, error) {
	switch bits {
	case 256:
		return elliptic.P256(), nil
	case 384:
		return elliptic.P384(), nil
	case 521:
		return elliptic.P521(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported curve size %d", ErrConfiguration, bits)
	}
}

func encodePEM(blockType string, der []byte) string {
	return string(pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der}))
}

// PublicKeyPEM derives the PKIX public key of a PEM private key secret.
func PublicKeyPEM(algorithm, secret string) (string, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return "", fmt.Errorf("%w: unsupported algorithm %q", ErrConfiguration, algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); ok {
		return "", fmt.Errorf("%w: %s has no public key", ErrConfiguration, algorithm)
	}

	_, public, err := parseKeys(method, secret)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	der, err := x509.MarshalPKIXPublicKey(public)
	if err != nil {
		return "", fmt.Errorf("failed to encode public key: %w", err)
	}
	return encodePEM("PUBLIC KEY", der), nil
}

// SaveSecret writes secret to path readable by the owner only.
func SaveSecret(path, secret string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create key directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(secret), 0o600); err != nil {
		return fmt.Errorf("failed to write key file: %w", err)
	}
	// WriteFile keeps the mode of an existing file
	if err := os.Chmod(path, 0o600); err != nil {
		return fmt.Errorf("failed to set key permissions: %w", err)
	}
	return nil
}
