// FILE: svckit/src/cmd/svckit/commands/token.go
package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"svckit/src/internal/config"
	"svckit/src/internal/security"
	"svckit/src/internal/values"

	"golang.org/x/term"
)

// TokenCommand signs and verifies JWTs with the configured credentials.
type TokenCommand struct {
	io    IO
	store *config.Store
	now   func() time.Time
	// readSecret reads a secret without echo
	readSecret func() (string, error)
}

// NewTokenCommand creates a token command.
func NewTokenCommand(streams IO) *TokenCommand {
	c := &TokenCommand{io: streams.withDefaults(), now: time.Now}
	c.readSecret = c.promptSecret
	return c
}

func (c *TokenCommand) Execute(args []string) error {
	if len(args) == 0 {
		fmt.Fprint(c.io.ErrOut, c.Help())
		return fmt.Errorf("token requires a subcommand: encode, decode or keygen")
	}

	switch args[0] {
	case "encode":
		return c.encode(args[1:])
	case "decode":
		return c.decode(args[1:])
	case "keygen":
		return c.keygen(args[1:])
	default:
		return fmt.Errorf("unknown token subcommand: %s (valid: encode, decode, keygen)", args[0])
	}
}

// credentialFlags holds the flags shared by encode and decode.
type credentialFlags struct {
	secret  *string
	prompt  *bool
	alg     *string
	algLong *string
	path    *string
	leeway  *time.Duration
}

func (c *TokenCommand) addCredentialFlags(cmd *flag.FlagSet) *credentialFlags {
	return &credentialFlags{
		secret:  cmd.String("secret", "", "Signing secret or PEM private key (default: JWT_SECRET, then security.context.secret)"),
		prompt:  cmd.Bool("prompt", false, "Prompt for the secret without echo"),
		alg:     cmd.String("alg", "", "Signing algorithm (default: JWT_ALGORITHM, then security.context.algorithm)"),
		algLong: cmd.String("algorithm", "", "Signing algorithm"),
		path:    cmd.String("path", "", "Configuration directory used for missing credentials"),
		leeway:  cmd.Duration("leeway", 0, "Clock skew tolerated when validating exp and nbf"),
	}
}

func (c *TokenCommand) factory(f *credentialFlags) (*security.JWTFactory, error) {
	secret := *f.secret
	if *f.prompt {
		if secret != "" {
			return nil, errors.New("-secret and -prompt are mutually exclusive")
		}
		s, err := c.readSecret()
		if err != nil {
			return nil, err
		}
		secret = s
	}

	opts := []security.FactoryOption{
		security.WithCredentials(secret, coalesceString(*f.alg, *f.algLong)),
		security.WithLeeway(*f.leeway),
		security.WithLogger(c.io.Logger),
	}
	switch {
	case *f.path != "":
		store := config.NewStore(*f.path, config.NewLoader(c.io.Logger))
		opts = append(opts, security.WithStore(store))
	case c.store != nil:
		opts = append(opts, security.WithStore(c.store))
	}
	return security.NewJWTFactory(opts...)
}

func (c *TokenCommand) encode(args []string) error {
	cmd := flag.NewFlagSet("token encode", flag.ContinueOnError)
	cmd.SetOutput(c.io.ErrOut)

	var (
		claims = cmd.String("claims", "", "Claims as a JSON object (required)")
		ttl    = cmd.Duration("ttl", 0, "Token lifetime; sets exp and iat when positive")
		creds  = c.addCredentialFlags(cmd)
	)

	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *claims == "" {
		return errors.New("-claims is required")
	}

	payload, err := parseClaims(*claims)
	if err != nil {
		return err
	}

	if *ttl > 0 {
		now := c.now()
		if _, ok := payload["iat"]; !ok {
			payload["iat"] = now
		}
		payload["exp"] = now.Add(*ttl)
	}

	f, err := c.factory(creds)
	if err != nil {
		return err
	}

	token, err := f.Encode(payload)
	if err != nil {
		return err
	}

	c.io.Logger.Debug("msg", "Token encoded",
		"component", "cli",
		"algorithm", f.Algorithm(),
		"claims", len(payload))
	fmt.Fprintln(c.io.Out, token.String())
	return nil
}

func (c *TokenCommand) decode(args []string) error {
	cmd := flag.NewFlagSet("token decode", flag.ContinueOnError)
	cmd.SetOutput(c.io.ErrOut)
	creds := c.addCredentialFlags(cmd)

	if err := cmd.Parse(args); err != nil {
		return err
	}
	if cmd.NArg() == 0 {
		return errors.New("token decode requires at least one token")
	}

	f, err := c.factory(creds)
	if err != nil {
		return err
	}

	var errs []error
	for _, raw := range cmd.Args() {
		claims, err := f.Decode(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", abbreviate(raw), err))
			continue
		}
		fmt.Fprintln(c.io.Out, values.PrettyJSON(claims, 2))
	}
	return errors.Join(errs...)
}

func (c *TokenCommand) keygen(args []string) error {
	cmd := flag.NewFlagSet("token keygen", flag.ContinueOnError)
	cmd.SetOutput(c.io.ErrOut)

	var (
		alg     = cmd.String("alg", "HS256", "Signing algorithm")
		algLong = cmd.String("algorithm", "", "Signing algorithm")
		bits    = cmd.Int("bits", security.DefaultRSABits, "RSA key size")
		out     = cmd.String("out", "", "Write the secret to a file (mode 0600) instead of stdout")
		pubOut  = cmd.String("pub-out", "", "Also write the public key to a file (asymmetric algorithms)")
	)

	if err := cmd.Parse(args); err != nil {
		return err
	}

	algorithm := coalesceString(*algLong, *alg)
	secret, err := security.GenerateSecret(algorithm, *bits)
	if err != nil {
		return err
	}

	if *pubOut != "" {
		public, err := security.PublicKeyPEM(algorithm, secret)
		if err != nil {
			return err
		}
		if err := os.WriteFile(*pubOut, []byte(public), 0o644); err != nil {
			return fmt.Errorf("failed to write public key: %w", err)
		}
	}

	if *out == "" {
		fmt.Fprintln(c.io.Out, strings.TrimRight(secret, "\n"))
		return nil
	}
	if err := security.SaveSecret(*out, secret); err != nil {
		return err
	}

	c.io.Logger.Info("msg", "Signing secret written",
		"component", "cli",
		"algorithm", algorithm,
		"path", *out)
	fmt.Fprintf(c.io.ErrOut, "Secret written to %s\nSet JWT_SECRET from it and JWT_ALGORITHM=%s\n", *out, algorithm)
	return nil
}

// parseClaims decodes a JSON object keeping integers exact.
func parseClaims(s string) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()

	var claims map[string]any
	if err := dec.Decode(&claims); err != nil {
		return nil, fmt.Errorf("invalid -claims: %w", err)
	}
	if claims == nil {
		return nil, errors.New("invalid -claims: expected a JSON object")
	}
	return claims, nil
}

func (c *TokenCommand) promptSecret() (string, error) {
	fmt.Fprint(c.io.ErrOut, "Enter secret: ")
	secret, err := term.ReadPassword(int(c.io.In.Fd()))
	fmt.Fprintln(c.io.ErrOut)
	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}
	return strings.TrimSpace(string(secret)), nil
}

func abbreviate(token string) string {
	if len(token) <= 16 {
		return token
	}
	return token[:16] + "..."
}

func (c *TokenCommand) Description() string {
	return "Encode, decode or generate secrets for JSON Web Tokens"
}

func (c *TokenCommand) Help() string {
	return `Token Command - Encode or decode JSON Web Tokens

Usage:
  svckit token encode -claims <json> [options]
  svckit token decode [options] <token> [<token> ...]
  svckit token keygen [-alg A] [-bits N] [-out FILE] [-pub-out FILE]

Credential options (both subcommands):
  -secret <s>        Secret, or a PEM private key for RS/PS/ES/EdDSA algorithms
  -prompt            Read the secret from the terminal without echo
  -alg <name>        Algorithm such as HS256, RS256, ES256, EdDSA
  -path <dir>        Configuration directory for missing credentials
  -leeway <d>        Clock skew tolerated for exp and nbf

Encode options:
  -claims <json>     Claims object (required)
  -ttl <d>           Lifetime; sets exp, and iat when absent

Keygen options:
  -alg <name>        Algorithm to generate a secret for (default: HS256)
  -bits <n>          RSA key size (default: 2048)
  -out <file>        Write the secret to a file with mode 0600
  -pub-out <file>    Write the public key, for RS/PS/ES/EdDSA algorithms

Credentials are taken from flags first, then JWT_SECRET/JWT_ALGORITHM,
then security.context in the configuration.

Examples:
  svckit token encode -claims '{"sub":"alice"}' -secret s3cret -alg HS256 -ttl 15m
  svckit token decode -secret s3cret -alg HS256 eyJhbGciOi...
  svckit token keygen -alg ES256 -out signing.pem -pub-out signing.pub
`
}
