// Package confloader provides configuration loading mechanism.
//
// It uses Koanf for layered loading with priority:
// Flag > Env > .env file > Config file > Default.
package confloader

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix is the default environment variable prefix.
const DefaultEnvPrefix = "IPADMIN_"

// Loader loads configuration from multiple sources.
type Loader struct {
	k          *koanf.Koanf
	envPrefix  string
	filePath   string
	dotEnvPath string
}

// Option is a function that configures the Loader.
type Option func(*Loader)

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// WithConfigFile sets the configuration file path.
func WithConfigFile(path string) Option {
	return func(l *Loader) {
		l.filePath = path
	}
}

// WithDotEnv sets a .env file whose prefixed variables are loaded below
// the process environment. A missing file is ignored.
func WithDotEnv(path string) Option {
	return func(l *Loader) {
		l.dotEnvPath = path
	}
}

// NewLoader creates a new configuration loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		k:         koanf.New("."),
		envPrefix: DefaultEnvPrefix,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load loads configuration from all sources and unmarshals into target.
// Fields already set in target act as defaults. Loading order (later
// sources override earlier):
//  1. Configuration file (YAML)
//  2. .env file
//  3. Environment variables
//
// Flags are layered on top by the caller via LoadMap.
func (l *Loader) Load(target any) error {
	if l.filePath != "" {
		if err := l.LoadFile(l.filePath); err != nil {
			return fmt.Errorf("load config file: %w", err)
		}
	}

	if l.dotEnvPath != "" {
		if err := l.LoadDotEnv(l.dotEnvPath); err != nil {
			return fmt.Errorf("load .env: %w", err)
		}
	}

	if err := l.LoadEnv(); err != nil {
		return fmt.Errorf("load env: %w", err)
	}

	if err := l.Unmarshal(target); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return nil
}

// LoadFile loads configuration from a YAML file.
func (l *Loader) LoadFile(path string) error {
	if path == "" {
		return nil
	}

	if err := l.k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("load file %s: %w", path, err)
	}
	return nil
}

// LoadDotEnv loads prefixed variables from a .env file without touching
// the process environment.
func (l *Loader) LoadDotEnv(path string) error {
	vars, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	data := make(map[string]any)
	for name, value := range vars {
		if strings.HasPrefix(name, l.envPrefix) {
			data[l.envKey(name)] = value
		}
	}
	return l.LoadMap(data)
}

// LoadEnv loads configuration from environment variables.
// IPADMIN_RATE_LIMIT maps to rate_limit; a double underscore nests, so
// IPADMIN_OUTPUT__COLOR maps to output.color.
func (l *Loader) LoadEnv() error {
	provider := env.Provider(l.envPrefix, ".", l.envKey)
	if err := l.k.Load(provider, nil); err != nil {
		return fmt.Errorf("load env: %w", err)
	}
	return nil
}

func (l *Loader) envKey(name string) string {
	name = strings.TrimPrefix(name, l.envPrefix)
	name = strings.ToLower(name)
	return strings.ReplaceAll(name, "__", ".")
}

// LoadMap loads configuration from a map (useful for flags or testing).
// Empty strings are skipped so unset flags do not mask lower layers.
func (l *Loader) LoadMap(data map[string]any) error {
	clean := make(mapProvider, len(data))
	for k, v := range data {
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		clean[k] = v
	}
	if err := l.k.Load(clean, nil); err != nil {
		return fmt.Errorf("load map: %w", err)
	}
	return nil
}

// Unmarshal unmarshals the loaded configuration into the target struct.
// Uses koanf tags for struct field mapping.
func (l *Loader) Unmarshal(target any) error {
	return l.k.Unmarshal("", target)
}
