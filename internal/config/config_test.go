package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
username = "films"
password = "secret"
host = "db.internal"
port = 6543
name = "catalog"
listen = "127.0.0.1:3000"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "films", cfg.Username)
	assert.Equal(t, "secret", cfg.Password)
	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, 6543, cfg.Port)
	assert.Equal(t, "catalog", cfg.Name)
	assert.Equal(t, "127.0.0.1:3000", cfg.Listen)
	assert.Equal(t, "./static", cfg.StaticDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_DefaultPort(t *testing.T) {
	path := writeConfig(t, `
username = "films"
password = "secret"
host = "localhost"
name = "films"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultDBPort, cfg.Port)
	assert.Equal(t, "0.0.0.0:3000", cfg.Listen)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, `
username = "films"
password = ""
host = "localhost"
name = "films"
`)
	t.Setenv("FILMS_PASSWORD", "from-env")
	t.Setenv("FILMS_STATIC_DIR", "/srv/static")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Password)
	assert.Equal(t, "/srv/static", cfg.StaticDir)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoad_Malformed(t *testing.T) {
	path := writeConfig(t, `username = "films`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{Username: "u", Password: "p", Host: "h", Port: 5432, Name: "n"}

	tests := []struct {
		name    string
		mutate  func(*Config)
		missing string
	}{
		{"empty username", func(c *Config) { c.Username = "" }, "username"},
		{"empty password", func(c *Config) { c.Password = "" }, "password"},
		{"empty host", func(c *Config) { c.Host = "" }, "host"},
		{"empty name", func(c *Config) { c.Name = "" }, "name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, ErrMissingField)
			assert.Contains(t, err.Error(), tt.missing)
		})
	}

	assert.NoError(t, valid.Validate())
}

func TestValidate_ListsAllMissing(t *testing.T) {
	err := Config{Host: "h"}.Validate()
	require.ErrorIs(t, err, ErrMissingField)
	assert.Contains(t, err.Error(), "username, password, name")
}
