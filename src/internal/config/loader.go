// FILE: svckit/src/internal/config/loader.go
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"svckit/src/internal/dict"

	"github.com/lixenwraith/log"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigDir is used when neither CONFIG_PATH nor PROJECT_PATH is set.
	DefaultConfigDir = "/etc/config"
	// ProjectConfigDir is the config directory name under PROJECT_PATH.
	ProjectConfigDir = ".configs"
	// EnvFileName is the fragment whose scalars are exported to the environment.
	EnvFileName = "env.yaml"
)

// Loader walks a directory tree and merges every YAML fragment it finds.
type Loader struct {
	Logger *log.Logger
	// InjectEnv exports the top-level scalars of env.yaml to the process environment.
	InjectEnv bool
}

// NewLoader creates a loader; a nil logger discards diagnostics.
func NewLoader(logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.NewLogger()
	}
	return &Loader{Logger: logger}
}

// Load parses all fragments under dir and deep-merges them in walk order.
func Load(dir string) (dict.Map, error) {
	return NewLoader(nil).Load(dir)
}

// Load parses all .yaml/.yml files under dir and deep-merges them in walk order.
// Later fragments override earlier ones. Any parse failure aborts the whole load.
func (l *Loader) Load(dir string) (dict.Map, error) {
	logger := l.Logger
	if logger == nil {
		logger = log.NewLogger()
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open config directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("config path %s is not a directory", dir)
	}

	result := make(dict.Map)
	var envFragment dict.Map

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !isYAML(path) {
			return nil
		}

		fragment, err := readFragment(path)
		if err != nil {
			return err
		}

		logger.Debug("msg", "Loaded configuration fragment",
			"component", "config_loader",
			"path", path,
			"keys", len(fragment))

		if d.Name() == EnvFileName && filepath.Dir(path) == filepath.Clean(dir) {
			envFragment = fragment
		}
		result = dict.Merge(result, fragment)
		return nil
	})
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to walk config directory: %w", err)
	}

	if l.InjectEnv && envFragment != nil {
		exported := InjectEnv(envFragment)
		logger.Debug("msg", "Exported env.yaml values",
			"component", "config_loader",
			"count", exported)
	}

	return result, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// readFragment decodes every document in the file and merges them in order.
func readFragment(path string) (dict.Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer f.Close()

	fragment := make(dict.Map)
	dec := yaml.NewDecoder(f)
	for {
		var doc any
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &ParseError{Path: path, Err: err}
		}
		if doc == nil {
			continue
		}

		m, ok := dict.AsMap(doc)
		if !ok {
			return nil, &ParseError{Path: path, Err: fmt.Errorf("top-level document is %T, not a mapping", doc)}
		}
		fragment = dict.Merge(fragment, m)
	}
	return fragment, nil
}

// InjectEnv sets an environment variable for each top-level scalar of m, upper-casing the key.
// Variables already present are left untouched. Returns the number of variables set.
func InjectEnv(m dict.Map) int {
	count := 0
	for _, key := range dict.SortedKeys(m) {
		v := m[key]
		if v == nil {
			continue
		}
		if _, nested := dict.AsMap(v); nested {
			continue
		}
		if _, isList := v.([]any); isList {
			continue
		}

		name := strings.ToUpper(key)
		if _, exists := os.LookupEnv(name); exists {
			continue
		}
		if err := os.Setenv(name, fmt.Sprint(v)); err == nil {
			count++
		}
	}
	return count
}

// GetConfigPath resolves the default config directory:
// CONFIG_PATH, then PROJECT_PATH/.configs, then /etc/config.
func GetConfigPath() string {
	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		return configPath
	}
	if p := ProjectConfigPath(); p != "" {
		return p
	}
	return DefaultConfigDir
}

// ProjectConfigPath returns PROJECT_PATH/.configs, or "" when PROJECT_PATH is unset.
func ProjectConfigPath() string {
	projectPath := os.Getenv("PROJECT_PATH")
	if projectPath == "" {
		return ""
	}
	return filepath.Join(projectPath, ProjectConfigDir)
}
