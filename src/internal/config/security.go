// FILE: svckit/src/internal/config/security.go
package config

import (
	"fmt"

	"svckit/src/internal/dict"
)

// SecuritySection is the dotted key of the token credentials.
const SecuritySection = "security.context"

// SecuritySettings holds token signing credentials.
type SecuritySettings struct {
	Secret    string `mapstructure:"secret" yaml:"secret"`
	Algorithm string `mapstructure:"algorithm" yaml:"algorithm"`
}

// Complete reports whether both secret and algorithm are set.
func (s SecuritySettings) Complete() bool {
	return s.Secret != "" && s.Algorithm != ""
}

// SecuritySettingsFrom reads security.context from m. Missing keys leave fields empty.
func SecuritySettingsFrom(m dict.Map) (SecuritySettings, error) {
	var s SecuritySettings
	if err := DecodeSection(m, SecuritySection, &s); err != nil {
		return SecuritySettings{}, fmt.Errorf("failed to decode security settings: %w", err)
	}
	return s, nil
}
