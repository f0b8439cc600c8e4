// FILE: svckit/src/internal/security/env.go
package security

import (
	"fmt"
	"strings"

	"svckit/src/internal/config"

	lconfig "github.com/lixenwraith/config"
)

// envCredentials maps jwt.secret and jwt.algorithm onto JWT_SECRET and JWT_ALGORITHM.
type envCredentials struct {
	JWT struct {
		Secret    string `toml:"secret"`
		Algorithm string `toml:"algorithm"`
	} `toml:"jwt"`
}

func envTransform(path string) string {
	return strings.ToUpper(strings.ReplaceAll(path, ".", "_"))
}

// credentialsFromEnv reads JWT_SECRET and JWT_ALGORITHM. Unset variables stay empty.
func credentialsFromEnv() (config.SecuritySettings, error) {
	cfg, err := lconfig.NewBuilder().
		WithDefaults(&envCredentials{}).
		WithEnvTransform(envTransform).
		WithSources(
			lconfig.SourceEnv,
			lconfig.SourceDefault,
		).
		Build()
	if err != nil {
		return config.SecuritySettings{}, fmt.Errorf("failed to read token credentials from environment: %w", err)
	}

	creds := &envCredentials{}
	if err := cfg.Scan(creds); err != nil {
		return config.SecuritySettings{}, fmt.Errorf("failed to scan token credentials: %w", err)
	}

	return config.SecuritySettings{
		Secret:    creds.JWT.Secret,
		Algorithm: creds.JWT.Algorithm,
	}, nil
}
