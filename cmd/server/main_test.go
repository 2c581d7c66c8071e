package main

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"films-htmx/backend/internal/config"
	dbpkg "films-htmx/backend/internal/db"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// freeAddr returns an address nothing is listening on.
func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func execute(args ...string) error {
	_, err := executeApp(args...)
	return err
}

func executeApp(args ...string) (*app, error) {
	a := &app{log: zap.NewNop()}
	root := a.rootCmd()
	root.SetArgs(args)
	return a, root.ExecuteContext(context.Background())
}

func TestServe_EmptyPasswordNeverListens(t *testing.T) {
	listen := freeAddr(t)
	path := writeConfig(t, `
username = "films"
password = ""
host = "127.0.0.1"
name = "films"
listen = "`+listen+`"
`)

	err := execute("--config", path)
	require.ErrorIs(t, err, config.ErrMissingField)
	assert.Contains(t, err.Error(), "password")

	_, dialErr := net.DialTimeout("tcp", listen, time.Second)
	assert.Error(t, dialErr, "no listener may be bound")
}

func TestServe_UnreachableDatabase(t *testing.T) {
	listen := freeAddr(t)
	path := writeConfig(t, `
username = "films"
password = "films"
host = "127.0.0.1"
port = 1
name = "films"
listen = "`+listen+`"
`)

	start := time.Now()
	err := execute("--config", path)
	require.ErrorIs(t, err, dbpkg.ErrConnect)
	assert.Less(t, time.Since(start), dbpkg.AcquireTimeout+time.Second)

	_, dialErr := net.DialTimeout("tcp", listen, time.Second)
	assert.Error(t, dialErr)
}

func TestCheck_MissingConfig(t *testing.T) {
	err := execute("check", "--config", filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestCheck_EmptyFields(t *testing.T) {
	path := writeConfig(t, `port = 5432`)

	err := execute("check", "--config", path)
	require.ErrorIs(t, err, config.ErrMissingField)
	assert.Contains(t, err.Error(), "username, password, host, name")
}

func TestStartupFailureUsesConfiguredLogger(t *testing.T) {
	path := writeConfig(t, `
username = "films"
password = ""
host = "127.0.0.1"
name = "films"
log_level = "debug"
log_format = "json"
`)

	a, err := executeApp("check", "--config", path)
	require.ErrorIs(t, err, config.ErrMissingField)
	require.NotNil(t, a.log)
	assert.True(t, a.log.Core().Enabled(zapcore.DebugLevel), "fatal line should go through the config's logger")
}

func TestStartupFailureBeforeConfigKeepsFallback(t *testing.T) {
	a, err := executeApp("check", "--config", filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.False(t, a.log.Core().Enabled(zapcore.DebugLevel))
}
