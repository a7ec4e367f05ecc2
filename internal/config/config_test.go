package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "advisor-match.db", cfg.Store.DatabaseURL)
	assert.Equal(t, int32(10), cfg.Store.MaxConns)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 12*time.Hour, cfg.Auth.SessionTTL())
	assert.InDelta(t, 10.0, cfg.Auth.SignInRatePerMinute, 0.001)
	assert.Equal(t, 5, cfg.Auth.SignInBurst)
	assert.Equal(t, "mock", cfg.Catalog.Source)
	assert.Equal(t, "consumer", cfg.Matching.DefaultRole)
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
	assert.NoError(t, cfg.Validate("serve"))
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/advisors
log:
  level: debug
  format: console
server:
  port: 9090
  cors_origins:
    - https://app.example.com
catalog:
  source: file
  path: catalog.xlsx
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/advisors", cfg.Store.DatabaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "catalog.xlsx", cfg.Catalog.Path)
	// Defaults still apply for unset values
	assert.Equal(t, 720, cfg.Auth.SessionTTLMinutes)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	t.Setenv("ADVISOR_STORE_DRIVER", "postgres")
	t.Setenv("ADVISOR_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("ADVISOR_SERVER_PORT", "3000")
	t.Setenv("ADVISOR_CATALOG_SOURCE", "store")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "store", cfg.Catalog.Source)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("store: [unclosed"), 0o644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Store.Driver = "sqlite"
	cfg.Store.DatabaseURL = "test.db"
	cfg.Server.Port = 8080
	cfg.Auth.SessionTTLMinutes = 60
	cfg.Auth.SignInRatePerMinute = 10
	cfg.Auth.SignInBurst = 5
	cfg.Catalog.Source = "mock"
	cfg.Matching.DefaultRole = "consumer"
	cfg.Retry.MaxAttempts = 3
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mode    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "serve ok", mode: "serve", mutate: func(*Config) {}},
		{name: "migrate ok", mode: "migrate", mutate: func(*Config) {}},
		{name: "unknown driver", mode: "cli", mutate: func(c *Config) { c.Store.Driver = "mysql" }, wantErr: "must be sqlite or postgres"},
		{name: "missing url", mode: "migrate", mutate: func(c *Config) { c.Store.DatabaseURL = "" }, wantErr: "store.database_url is required"},
		{name: "bad port", mode: "serve", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: "server.port"},
		{name: "port ignored for cli", mode: "cli", mutate: func(c *Config) { c.Server.Port = 0 }},
		{name: "bad catalog source", mode: "serve", mutate: func(c *Config) { c.Catalog.Source = "s3" }, wantErr: "catalog.source"},
		{name: "file source needs path", mode: "serve", mutate: func(c *Config) { c.Catalog.Source = "file" }, wantErr: "catalog.path is required"},
		{name: "bad role", mode: "serve", mutate: func(c *Config) { c.Matching.DefaultRole = "admin" }, wantErr: "matching.default_role"},
		{name: "zero ttl", mode: "serve", mutate: func(c *Config) { c.Auth.SessionTTLMinutes = 0 }, wantErr: "session_ttl_minutes"},
		{name: "zero retries", mode: "cli", mutate: func(c *Config) { c.Retry.MaxAttempts = 0 }, wantErr: "retry.max_attempts"},
		{name: "unknown mode", mode: "batch", mutate: func(*Config) {}, wantErr: "unknown mode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validDefaults()
			tt.mutate(cfg)
			err := cfg.Validate(tt.mode)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
