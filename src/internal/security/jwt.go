// FILE: svckit/src/internal/security/jwt.go
package security

import (
	"crypto"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"math"
	"strings"
	"time"

	"svckit/src/internal/config"
	"svckit/src/internal/dict"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lixenwraith/log"
)

// JWTFactory signs and verifies JSON Web Tokens with one secret and algorithm.
type JWTFactory struct {
	algorithm string
	method    jwt.SigningMethod
	signKey   any
	verifyKey any
	parser    *jwt.Parser
	logger    *log.Logger
}

type factoryOptions struct {
	secret    string
	algorithm string
	envOnly   bool
	cfg       dict.Map
	store     *config.Store
	leeway    time.Duration
	logger    *log.Logger
}

// FactoryOption configures NewJWTFactory
type FactoryOption func(*factoryOptions)

// WithCredentials sets the secret and algorithm explicitly; they take precedence over other sources.
func WithCredentials(secret, algorithm string) FactoryOption {
	return func(o *factoryOptions) {
		o.secret = secret
		o.algorithm = algorithm
	}
}

// FromEnv reads credentials only from JWT_SECRET and JWT_ALGORITHM.
func FromEnv() FactoryOption {
	return func(o *factoryOptions) {
		o.envOnly = true
	}
}

// WithConfig reads security.context from m instead of the process-wide configuration.
func WithConfig(m dict.Map) FactoryOption {
	return func(o *factoryOptions) {
		if m == nil {
			m = dict.Map{}
		}
		o.cfg = m
	}
}

// WithStore reads security.context from store instead of the process-wide configuration.
func WithStore(store *config.Store) FactoryOption {
	return func(o *factoryOptions) {
		o.store = store
	}
}

// WithLeeway tolerates clock skew when validating exp and nbf.
func WithLeeway(d time.Duration) FactoryOption {
	return func(o *factoryOptions) {
		o.leeway = d
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(logger *log.Logger) FactoryOption {
	return func(o *factoryOptions) {
		o.logger = logger
	}
}

// NewJWTFactory resolves credentials (explicit, then environment, then configuration)
// and prepares the signing keys. Missing credentials or an unsupported algorithm fail with ErrConfiguration.
func NewJWTFactory(opts ...FactoryOption) (*JWTFactory, error) {
	o := &factoryOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = log.NewLogger()
	}

	creds, source, err := resolveCredentials(o)
	if err != nil {
		return nil, err
	}

	method := jwt.GetSigningMethod(creds.Algorithm)
	if method == nil || method == jwt.SigningMethodNone {
		return nil, fmt.Errorf("%w: unsupported algorithm %q", ErrConfiguration, creds.Algorithm)
	}

	signKey, verifyKey, err := parseKeys(method, creds.Secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	f := &JWTFactory{
		algorithm: method.Alg(),
		method:    method,
		signKey:   signKey,
		verifyKey: verifyKey,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{method.Alg()}),
			jwt.WithLeeway(o.leeway),
			jwt.WithJSONNumber(),
		),
		logger: o.logger,
	}

	o.logger.Debug("msg", "Token factory initialized",
		"component", "jwt_factory",
		"algorithm", f.algorithm,
		"source", source)
	return f, nil
}

// resolveCredentials fills secret and algorithm field by field from the first source that has them.
func resolveCredentials(o *factoryOptions) (config.SecuritySettings, string, error) {
	explicit := config.SecuritySettings{Secret: o.secret, Algorithm: o.algorithm}

	env, err := credentialsFromEnv()
	if err != nil {
		return config.SecuritySettings{}, "", fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	if o.envOnly {
		if !env.Complete() {
			return config.SecuritySettings{}, "", fmt.Errorf("%w: JWT_SECRET and JWT_ALGORITHM must be set", ErrConfiguration)
		}
		return env, "env", nil
	}

	creds := explicit
	source := "explicit"
	fill := func(from config.SecuritySettings, name string) {
		if creds.Secret == "" && from.Secret != "" {
			creds.Secret = from.Secret
			source = name
		}
		if creds.Algorithm == "" && from.Algorithm != "" {
			creds.Algorithm = from.Algorithm
			source = name
		}
	}

	fill(env, "env")
	if creds.Complete() {
		return creds, source, nil
	}

	cfg, err := loadConfig(o)
	if err != nil {
		return config.SecuritySettings{}, "", fmt.Errorf("%w: secret and algorithm must be set: %w", ErrConfiguration, err)
	}
	fromConfig, err := config.SecuritySettingsFrom(cfg)
	if err != nil {
		return config.SecuritySettings{}, "", fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	fill(fromConfig, "config")

	if !creds.Complete() {
		return config.SecuritySettings{}, "", fmt.Errorf("%w: secret and algorithm must be set", ErrConfiguration)
	}
	return creds, source, nil
}

func loadConfig(o *factoryOptions) (dict.Map, error) {
	if o.cfg != nil {
		return o.cfg, nil
	}
	store := o.store
	if store == nil {
		store = config.Default()
	}
	return store.Get()
}

// parseKeys returns the signing and verification keys for method.
// HMAC secrets are used as raw bytes, asymmetric secrets must be PEM private keys.
func parseKeys(method jwt.SigningMethod, secret string) (any, any, error) {
	switch method.(type) {
	case *jwt.SigningMethodHMAC:
		key := []byte(secret)
		return key, key, nil
	case *jwt.SigningMethodRSA, *jwt.SigningMethodRSAPSS:
		priv, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(secret))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse RSA private key: %w", err)
		}
		return priv, &priv.PublicKey, nil
	case *jwt.SigningMethodECDSA:
		priv, err := jwt.ParseECPrivateKeyFromPEM([]byte(secret))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse EC private key: %w", err)
		}
		return priv, &priv.PublicKey, nil
	case *jwt.SigningMethodEd25519:
		priv, err := jwt.ParseEdPrivateKeyFromPEM([]byte(secret))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse Ed25519 private key: %w", err)
		}
		signer, ok := priv.(crypto.Signer)
		if !ok {
			return nil, nil, errors.New("Ed25519 key cannot sign")
		}
		return priv, signer.Public(), nil
	default:
		return nil, nil, fmt.Errorf("unsupported signing method %s", method.Alg())
	}
}

// Algorithm returns the signing algorithm name
func (f *JWTFactory) Algorithm() string {
	return f.algorithm
}

// Encode signs claims. time.Time values are written as Unix seconds.
func (f *JWTFactory) Encode(claims map[string]any) (Token, error) {
	payload := make(jwt.MapClaims, len(claims))
	for k, v := range claims {
		if t, ok := v.(time.Time); ok {
			payload[k] = t.Unix()
			continue
		}
		payload[k] = v
	}

	raw, err := jwt.NewWithClaims(f.method, payload).SignedString(f.signKey)
	if err != nil {
		return Token{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return Token{Raw: raw, Claims: maps.Clone(claims)}, nil
}

// Decode verifies the token's algorithm, signature and time claims and returns its claims.
// Whole numbers come back as int64, other numbers as float64.
func (f *JWTFactory) Decode(token any) (map[string]any, error) {
	var raw string
	switch t := token.(type) {
	case Token:
		raw = t.Raw
	case *Token:
		if t == nil {
			return nil, fmt.Errorf("%w: nil token", ErrTokenMalformed)
		}
		raw = t.Raw
	case string:
		raw = t
	default:
		return nil, fmt.Errorf("%w: unsupported token type %T", ErrTokenMalformed, token)
	}

	raw = strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))
	if raw == "" {
		return nil, fmt.Errorf("%w: empty token", ErrTokenMalformed)
	}

	claims := jwt.MapClaims{}
	parsed, err := f.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return f.verifyKey, nil
	})
	if err != nil {
		return nil, classify(err)
	}
	if !parsed.Valid {
		return nil, ErrTokenInvalid
	}

	out := make(map[string]any, len(claims))
	for k, v := range claims {
		out[k] = normalizeNumbers(v)
	}
	return out, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %w", ErrTokenMalformed, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrTokenExpired, err)
	default:
		return fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}
}

func normalizeNumbers(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if fl, err := val.Float64(); err == nil {
			if fl == math.Trunc(fl) && math.Abs(fl) < 1<<63 {
				return int64(fl)
			}
			return fl
		}
		return val.String()
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalizeNumbers(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeNumbers(item)
		}
		return out
	}
	return v
}
