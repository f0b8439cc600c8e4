// FILE: svckit/src/internal/security/keygen_test.go
package security

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecret(t *testing.T) {
	clearEnv(t)

	testCases := []struct {
		algorithm string
		pemType   string
	}{
		{algorithm: "HS256"},
		{algorithm: "HS512"},
		{algorithm: "RS256", pemType: "RSA PRIVATE KEY"},
		{algorithm: "PS384", pemType: "RSA PRIVATE KEY"},
		{algorithm: "ES256", pemType: "EC PRIVATE KEY"},
		{algorithm: "ES384", pemType: "EC PRIVATE KEY"},
		{algorithm: "ES512", pemType: "EC PRIVATE KEY"},
		{algorithm: "EdDSA", pemType: "PRIVATE KEY"},
	}

	for _, tc := range testCases {
		t.Run(tc.algorithm, func(t *testing.T) {
			secret, err := GenerateSecret(tc.algorithm, 0)
			require.NoError(t, err)

			if tc.pemType == "" {
				raw, err := base64.RawURLEncoding.DecodeString(secret)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, len(raw), 32)
			} else {
				assert.True(t, strings.HasPrefix(secret, "-----BEGIN "+tc.pemType+"-----"), secret)
			}

			f := newFactory(t, WithCredentials(secret, tc.algorithm))
			token, err := f.Encode(map[string]any{"sub": "gen"})
			require.NoError(t, err)
			claims, err := f.Decode(token)
			require.NoError(t, err)
			assert.Equal(t, "gen", claims["sub"])
		})
	}
}

func TestGenerateSecretErrors(t *testing.T) {
	_, err := GenerateSecret("none", 0)
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = GenerateSecret("XY999", 0)
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = GenerateSecret("RS256", 1024)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestPublicKeyPEM(t *testing.T) {
	secret, err := GenerateSecret("ES256", 0)
	require.NoError(t, err)

	public, err := PublicKeyPEM("ES256", secret)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(public, "-----BEGIN PUBLIC KEY-----"))

	_, err = PublicKeyPEM("HS256", "abc")
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = PublicKeyPEM("ES256", "garbage")
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestSaveSecret(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "signing.pem")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	require.NoError(t, SaveSecret(path, "new-secret"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new-secret", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
