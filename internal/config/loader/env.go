package loader

import (
	"os"
	"strings"
)

// EnvLoader loads configuration overrides from environment variables.
// Only mapped variables are read; values are kept as strings.
type EnvLoader struct {
	mapping map[string]string // Env var -> config path
	lookup  func(string) (string, bool)
}

// NewEnvLoader creates a loader with the wimgen mappings that reads the
// process environment.
func NewEnvLoader() *EnvLoader {
	return &EnvLoader{
		mapping: defaultEnvMapping(),
		lookup:  os.LookupEnv,
	}
}

// defaultEnvMapping returns the default environment variable mappings.
func defaultEnvMapping() map[string]string {
	return map[string]string{
		"WIMGEN_CONFIG_DIR": "paths.config",
		"WIMGEN_OUTPUT_DIR": "paths.output",
		"WIMGEN_LOG_LEVEL":  "log.level",
		"WIMGEN_STAGES":     "pack.stages",
	}
}

// Load reads mapped environment variables and returns a configuration map.
// Empty values are treated as set.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)
	for env, path := range l.mapping {
		if val, ok := l.lookup(env); ok {
			setByPath(config, path, val)
		}
	}
	return config, nil
}

// WithLookup replaces the function used to read variables.
func (l *EnvLoader) WithLookup(lookup func(string) (string, bool)) *EnvLoader {
	l.lookup = lookup
	return l
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data

	for i := 0; i < len(parts)-1; i++ {
		part := parts[i]
		if next, ok := current[part].(map[string]any); ok {
			current = next
		} else {
			next := make(map[string]any)
			current[part] = next
			current = next
		}
	}

	current[parts[len(parts)-1]] = value
}
