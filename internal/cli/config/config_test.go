package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "http://localhost:8000", cfg.Server)
	assert.Equal(t, "table", cfg.Output)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.True(t, cfg.Notifications)
	assert.NoError(t, cfg.Validate())
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()
	assert.True(t, strings.HasSuffix(path, filepath.Join(".ipadmin", "cli.yaml")), path)
	assert.True(t, strings.HasSuffix(DefaultHistoryPath(), filepath.Join(".ipadmin", "history")))
}

func TestLoad_NonExistentFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.NoError(t, err)
	assert.Equal(t, Default().Server, cfg.Server)
}

func TestLoad_Layers(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "cli.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: http://file:8000\noutput: json\ntimeout: 3s\n"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, DotEnvFile), []byte("IPADMIN_SERVER=http://dotenv:8000\nIPADMIN_RATE_LIMIT=4\n"), 0600))
	t.Setenv("IPADMIN_LOG_LEVEL", "debug")

	cfg, err := Load(path, map[string]any{"output": "yaml", "server": ""})
	require.NoError(t, err)

	assert.Equal(t, "http://dotenv:8000", cfg.Server, ".env overrides the file; empty flags are ignored")
	assert.Equal(t, "yaml", cfg.Output, "flags override the file")
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, 4.0, cfg.RateLimit)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), map[string]any{"output": "xml"})
	assert.ErrorContains(t, err, "output")
}

func TestSaveAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cli.yaml")

	cfg := Default()
	cfg.Server = "https://ip.example.com"
	cfg.Timeout = 30 * time.Second
	cfg.Notifications = false
	require.NoError(t, Save(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "timeout: 30s")
}

func TestLoadFile_Missing(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSet(t *testing.T) {
	tests := []struct {
		key, value string
		check      func(t *testing.T, c *CLIConfig)
		wantErr    string
	}{
		{key: "server", value: "http://x:1", check: func(t *testing.T, c *CLIConfig) { assert.Equal(t, "http://x:1", c.Server) }},
		{key: "timeout", value: "2s", check: func(t *testing.T, c *CLIConfig) { assert.Equal(t, 2*time.Second, c.Timeout) }},
		{key: "rate_limit", value: "0.5", check: func(t *testing.T, c *CLIConfig) { assert.Equal(t, 0.5, c.RateLimit) }},
		{key: "notifications", value: "false", check: func(t *testing.T, c *CLIConfig) { assert.False(t, c.Notifications) }},
		{key: "log_level", value: "INFO", check: func(t *testing.T, c *CLIConfig) { assert.Equal(t, "info", c.LogLevel) }},
		{key: "output", value: "xml", wantErr: "invalid configuration"},
		{key: "timeout", value: "soon", wantErr: "parse timeout"},
		{key: "timeout", value: "0s", wantErr: "timeout"},
		{key: "email", value: "not-an-email", wantErr: "email"},
		{key: "password", value: "x", wantErr: "unknown config key"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := Default()
			err := cfg.Set(tt.key, tt.value)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				assert.Equal(t, Default(), cfg, "failed Set must not modify the config")
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestKeys(t *testing.T) {
	keys := Keys()
	assert.Contains(t, keys, "server")
	assert.NotContains(t, keys, "password")
	assert.IsIncreasing(t, keys)
}
