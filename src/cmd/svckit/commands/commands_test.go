// FILE: svckit/src/cmd/svckit/commands/commands_test.go
package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"svckit/src/internal/config"
	"svckit/src/internal/dict"
	"svckit/src/internal/security"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIO() (IO, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return IO{Out: &out, ErrOut: &errOut, Logger: log.NewLogger()}, &out, &errOut
}

func writeConfig(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func clearJWTEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_ALGORITHM", "")
}

func TestRouter(t *testing.T) {
	testCases := []struct {
		name    string
		args    []string
		want    string
		wantErr string
	}{
		{name: "NoArgs", args: nil, want: "Commands:"},
		{name: "Help", args: []string{"help"}, want: "token"},
		{name: "HelpForCommand", args: []string{"help", "config"}, want: "Config Command"},
		{name: "CommandHelpFlag", args: []string{"token", "encode", "--help"}, want: "Token Command"},
		{name: "Version", args: []string{"version"}, want: "svckit"},
		{name: "UnknownCommand", args: []string{"deploy"}, wantErr: "unknown command: deploy"},
		{name: "UnknownHelpTopic", args: []string{"help", "deploy"}, wantErr: "unknown command: deploy"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			streams, out, _ := newTestIO()
			router := NewCommandRouter(streams)

			err := router.Route(tc.args)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out.String(), tc.want)
		})
	}
}

func TestHelpListsCommandsSorted(t *testing.T) {
	streams, out, _ := newTestIO()
	require.NoError(t, NewCommandRouter(streams).Route([]string{"help"}))

	text := out.String()
	config := strings.Index(text, "  config")
	help := strings.Index(text, "  help")
	token := strings.Index(text, "  token")
	version := strings.Index(text, "  version")
	assert.True(t, config < help && help < token && token < version, text)
}

func TestConfigShow(t *testing.T) {
	dir := writeConfig(t, map[string]string{
		"base.yaml":     "service:\n  name: demo\n  port: 8080\n",
		"sub/over.yaml": "service:\n  port: 9090\nlog:\n  logger:\n    level: DEBUG\n",
	})

	t.Run("YAML", func(t *testing.T) {
		streams, out, _ := newTestIO()
		require.NoError(t, NewConfigCommand(streams).Execute([]string{"show", "-path", dir}))
		assert.Contains(t, out.String(), "name: demo")
		assert.Contains(t, out.String(), "port: 9090")
	})

	t.Run("JSON", func(t *testing.T) {
		streams, out, _ := newTestIO()
		require.NoError(t, NewConfigCommand(streams).Execute([]string{"show", "-path", dir, "-format", "json"}))

		var got map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		ok, key := dict.IsEqual(dict.Map{
			"service": dict.Map{"name": "demo", "port": 9090},
			"log":     dict.Map{"logger": dict.Map{"level": "DEBUG"}},
		}, got)
		assert.True(t, ok, key)
	})

	t.Run("Key", func(t *testing.T) {
		streams, out, _ := newTestIO()
		require.NoError(t, NewConfigCommand(streams).Execute([]string{"show", "-path", dir, "-key", "log.logger.level"}))
		assert.Equal(t, "DEBUG\n", out.String())
	})

	t.Run("DefaultStore", func(t *testing.T) {
		streams, out, _ := newTestIO()
		cmd := NewConfigCommand(streams)
		cmd.store = config.NewStore(dir, nil)
		require.NoError(t, cmd.Execute([]string{"show", "-key", "service.name"}))
		assert.Equal(t, "demo\n", out.String())
	})

	t.Run("OutFile", func(t *testing.T) {
		streams, out, _ := newTestIO()
		target := filepath.Join(t.TempDir(), "merged", "config.yaml")
		require.NoError(t, NewConfigCommand(streams).Execute([]string{"show", "-path", dir, "-out", target}))
		assert.Empty(t, out.String())

		reloaded, err := config.Load(filepath.Dir(target))
		require.NoError(t, err)
		ok, key := dict.IsEqual(dict.Map{
			"service": dict.Map{"name": "demo", "port": 9090},
			"log":     dict.Map{"logger": dict.Map{"level": "DEBUG"}},
		}, reloaded)
		assert.True(t, ok, key)
	})

	t.Run("OutFileJSON", func(t *testing.T) {
		streams, _, _ := newTestIO()
		target := filepath.Join(t.TempDir(), "service.json")
		require.NoError(t, NewConfigCommand(streams).Execute([]string{"show", "-path", dir, "-key", "service", "-format", "json", "-out", target}))

		data, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"port": 9090`)
	})
}

func TestConfigShowErrors(t *testing.T) {
	dir := writeConfig(t, map[string]string{"a.yaml": "a: 1\n"})

	testCases := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "NoSubcommand", args: nil, wantErr: "requires a subcommand"},
		{name: "WrongSubcommand", args: []string{"edit"}, wantErr: "requires a subcommand"},
		{name: "MissingKey", args: []string{"show", "-path", dir, "-key", "b.c"}, wantErr: "key not found: b.c"},
		{name: "BadFormat", args: []string{"show", "-path", dir, "-format", "toml"}, wantErr: "invalid format"},
		{name: "MissingDir", args: []string{"show", "-path", filepath.Join(dir, "nope")}, wantErr: "failed to load configuration"},
		{name: "UnknownFlag", args: []string{"show", "-verbose"}, wantErr: "flag provided but not defined"},
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

func runToken(t *testing.T, cmd *TokenCommand, args ...string) (string, error) {
	t.Helper()
	out := cmd.io.Out.(*bytes.Buffer)
	out.Reset()
	err := cmd.Execute(args)
	return strings.TrimSpace(out.String()), err
}

func TestTokenRoundtrip(t *testing.T) {
	clearJWTEnv(t)
	streams, _, _ := newTestIO()
	cmd := NewTokenCommand(streams)

	token, err := runToken(t, cmd, "encode", "-claims", `{"sub":"alice","n":5}`, "-secret", "s3cret", "-alg", "HS256")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(token, "."))

	decoded, err := runToken(t, cmd, "decode", "-secret", "s3cret", "-algorithm", "HS256", token)
	require.NoError(t, err)

	var claims map[string]any
	require.NoError(t, json.Unmarshal([]byte(decoded), &claims))
	assert.Equal(t, "alice", claims["sub"])
	assert.EqualValues(t, 5, claims["n"])
}

func TestTokenTTL(t *testing.T) {
	clearJWTEnv(t)
	streams, _, _ := newTestIO()
	cmd := NewTokenCommand(streams)

	cmd.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := runToken(t, cmd, "encode", "-claims", `{"sub":"alice"}`, "-secret", "k", "-alg", "HS256", "-ttl", "1h")
	require.NoError(t, err)

	_, err = runToken(t, cmd, "decode", "-secret", "k", "-alg", "HS256", expired)
	assert.ErrorIs(t, err, security.ErrTokenExpired)

	cmd.now = time.Now
	valid, err := runToken(t, cmd, "encode", "-claims", `{"sub":"alice"}`, "-secret", "k", "-alg", "HS256", "-ttl", "1h")
	require.NoError(t, err)

	decoded, err := runToken(t, cmd, "decode", "-secret", "k", "-alg", "HS256", valid)
	require.NoError(t, err)
	assert.Contains(t, decoded, `"exp"`)
	assert.Contains(t, decoded, `"iat"`)
}

func TestTokenCredentialSources(t *testing.T) {
	clearJWTEnv(t)
	dir := writeConfig(t, map[string]string{
		"security.yaml": "security:\n  context:\n    secret: from-file\n    algorithm: HS384\n",
	})

	t.Run("ConfigPath", func(t *testing.T) {
		streams, _, _ := newTestIO()
		cmd := NewTokenCommand(streams)

		token, err := runToken(t, cmd, "encode", "-claims", `{"a":1}`, "-path", dir)
		require.NoError(t, err)

		_, err = runToken(t, cmd, "decode", "-secret", "from-file", "-alg", "HS384", token)
		assert.NoError(t, err)
	})

	t.Run("Env", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "from-env")
		t.Setenv("JWT_ALGORITHM", "HS256")
		streams, _, _ := newTestIO()
		cmd := NewTokenCommand(streams)

		token, err := runToken(t, cmd, "encode", "-claims", `{"a":1}`, "-path", dir)
		require.NoError(t, err)

		_, err = runToken(t, cmd, "decode", "-secret", "from-env", "-alg", "HS256", token)
		assert.NoError(t, err)
	})

	t.Run("Prompt", func(t *testing.T) {
		streams, _, _ := newTestIO()
		cmd := NewTokenCommand(streams)
		cmd.readSecret = func() (string, error) { return "typed", nil }

		token, err := runToken(t, cmd, "encode", "-claims", `{"a":1}`, "-prompt", "-alg", "HS256")
		require.NoError(t, err)

		_, err = runToken(t, cmd, "decode", "-secret", "typed", "-alg", "HS256", token)
		assert.NoError(t, err)
	})

	t.Run("Missing", func(t *testing.T) {
		streams, _, _ := newTestIO()
		cmd := NewTokenCommand(streams)
		cmd.store = config.NewStore(writeConfig(t, map[string]string{"a.yaml": "a: 1\n"}), nil)

		_, err := runToken(t, cmd, "encode", "-claims", `{"a":1}`)
		assert.ErrorIs(t, err, security.ErrConfiguration)
	})
}

func TestTokenErrors(t *testing.T) {
	clearJWTEnv(t)

	testCases := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "NoSubcommand", args: nil, wantErr: "requires a subcommand"},
		{name: "UnknownSubcommand", args: []string{"refresh"}, wantErr: "unknown token subcommand"},
		{name: "MissingClaims", args: []string{"encode", "-secret", "k", "-alg", "HS256"}, wantErr: "-claims is required"},
		{name: "InvalidClaims", args: []string{"encode", "-claims", "[1]", "-secret", "k", "-alg", "HS256"}, wantErr: "invalid -claims"},
		{name: "NullClaims", args: []string{"encode", "-claims", "null", "-secret", "k", "-alg", "HS256"}, wantErr: "expected a JSON object"},
		{name: "SecretAndPrompt", args: []string{"encode", "-claims", "{}", "-secret", "k", "-prompt", "-alg", "HS256"}, wantErr: "mutually exclusive"},
		{name: "NoTokens", args: []string{"decode", "-secret", "k", "-alg", "HS256"}, wantErr: "at least one token"},
		{name: "MalformedToken", args: []string{"decode", "-secret", "k", "-alg", "HS256", "not-a-token"}, wantErr: "not-a-token"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			streams, _, _ := newTestIO()
			_, err := runToken(t, NewTokenCommand(streams), tc.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestTokenKeygen(t *testing.T) {
	clearJWTEnv(t)

	t.Run("StdoutHMAC", func(t *testing.T) {
		streams, _, _ := newTestIO()
		cmd := NewTokenCommand(streams)

		secret, err := runToken(t, cmd, "keygen")
		require.NoError(t, err)
		assert.NotEmpty(t, secret)

		token, err := runToken(t, cmd, "encode", "-claims", `{"a":1}`, "-secret", secret, "-alg", "HS256")
		require.NoError(t, err)
		_, err = runToken(t, cmd, "decode", "-secret", secret, "-alg", "HS256", token)
		assert.NoError(t, err)
	})

	t.Run("FileEC", func(t *testing.T) {
		streams, out, errOut := newTestIO()
		cmd := NewTokenCommand(streams)
		dir := t.TempDir()
		keyPath := filepath.Join(dir, "signing.pem")
		pubPath := filepath.Join(dir, "signing.pub")

		_, err := runToken(t, cmd, "keygen", "-alg", "ES256", "-out", keyPath, "-pub-out", pubPath)
		require.NoError(t, err)
		assert.Empty(t, out.String())
		assert.Contains(t, errOut.String(), "JWT_ALGORITHM=ES256")

		key, err := os.ReadFile(keyPath)
		require.NoError(t, err)
		pub, err := os.ReadFile(pubPath)
		require.NoError(t, err)
		assert.Contains(t, string(pub), "PUBLIC KEY")

		t.Setenv("JWT_SECRET", string(key))
		t.Setenv("JWT_ALGORITHM", "ES256")
		token, err := runToken(t, cmd, "encode", "-claims", `{"sub":"ec"}`)
		require.NoError(t, err)
		decoded, err := runToken(t, cmd, "decode", token)
		require.NoError(t, err)
		assert.Contains(t, decoded, `"sub": "ec"`)
	})

	t.Run("Unsupported", func(t *testing.T) {
		streams, _, _ := newTestIO()
		_, err := runToken(t, NewTokenCommand(streams), "keygen", "-alg", "none")
		assert.ErrorIs(t, err, security.ErrConfiguration)
	})
}
