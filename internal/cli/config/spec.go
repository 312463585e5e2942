// Package config defines the CLI configuration structure.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// CLIConfig is the configuration for ipadmin-cli (~/.ipadmin/cli.yaml).
type CLIConfig struct {
	// Server is the backend base URL.
	Server string `koanf:"server" json:"server" yaml:"server" validate:"omitempty,url|hostname_port"`
	// Output is the default output format.
	Output string `koanf:"output" json:"output" yaml:"output" validate:"oneof=table json yaml"`
	// Timeout bounds each HTTP attempt.
	Timeout time.Duration `koanf:"timeout" json:"timeout" yaml:"timeout" validate:"gt=0"`
	// RateLimit caps requests per second; 0 disables the limiter.
	RateLimit float64 `koanf:"rate_limit" json:"rate_limit" yaml:"rate_limit" validate:"gte=0"`
	Burst     int     `koanf:"burst" json:"burst" yaml:"burst" validate:"gte=0"`
	LogLevel  string  `koanf:"log_level" json:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
	// HistoryFile stores REPL history.
	HistoryFile string `koanf:"history_file" json:"history_file" yaml:"history_file"`
	// Notifications toggles success and error messages on stderr.
	Notifications bool `koanf:"notifications" json:"notifications" yaml:"notifications"`
	// Email is the default login email. Passwords are never stored.
	Email string `koanf:"email" json:"email,omitempty" yaml:"email,omitempty" validate:"omitempty,email"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Server:        "http://localhost:8000",
		Output:        "table",
		Timeout:       10 * time.Second,
		RateLimit:     0,
		Burst:         1,
		LogLevel:      "warn",
		HistoryFile:   DefaultHistoryPath(),
		Notifications: true,
	}
}

// DefaultDir returns ~/.ipadmin.
func DefaultDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".ipadmin"
	}
	return filepath.Join(homeDir, ".ipadmin")
}

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultDir(), "cli.yaml")
}

// DefaultHistoryPath returns the default REPL history path.
func DefaultHistoryPath() string {
	return filepath.Join(DefaultDir(), "history")
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field values.
func (c *CLIConfig) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: invalid value %v (%s)", keyFor(fe.StructField()), fe.Value(), fe.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// setters maps configuration keys to parsers for `config set`.
var setters = map[string]func(c *CLIConfig, v string) error{
	"server":       func(c *CLIConfig, v string) error { c.Server = v; return nil },
	"output":       func(c *CLIConfig, v string) error { c.Output = v; return nil },
	"log_level":    func(c *CLIConfig, v string) error { c.LogLevel = strings.ToLower(v); return nil },
	"history_file": func(c *CLIConfig, v string) error { c.HistoryFile = v; return nil },
	"email":        func(c *CLIConfig, v string) error { c.Email = v; return nil },
	"timeout": func(c *CLIConfig, v string) error {
		d, err := time.ParseDuration(v)
		c.Timeout = d
		return err
	},
	"rate_limit": func(c *CLIConfig, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		c.RateLimit = f
		return err
	},
	"burst": func(c *CLIConfig, v string) error {
		n, err := strconv.Atoi(v)
		c.Burst = n
		return err
	},
	"notifications": func(c *CLIConfig, v string) error {
		b, err := strconv.ParseBool(v)
		c.Notifications = b
		return err
	},
}

// Keys lists the settable configuration keys, sorted.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set parses value into the field named key and validates the result.
func (c *CLIConfig) Set(key, value string) error {
	set, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	next := *c
	if err := set(&next, value); err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

func keyFor(field string) string {
	switch field {
	case "RateLimit":
		return "rate_limit"
	case "LogLevel":
		return "log_level"
	case "HistoryFile":
		return "history_file"
	}
	return strings.ToLower(field)
}
