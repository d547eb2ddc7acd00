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
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9090\n")

	cfg, err := Load("test", path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "test", cfg.Server.Mode)
	assert.Equal(t, 500, cfg.Tickets.SearchMaxRows)
	assert.Equal(t, "skip", cfg.Tickets.UnresolvedViolationPolicy)
	assert.Equal(t, 812, cfg.Label.WidthDots)
	assert.Equal(t, "text", cfg.Label.DisclaimerFormat)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.RabbitMQ.Enabled())
	assert.Same(t, cfg, Get())
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, "tickets:\n  search_max_rows: 100\n")
	t.Setenv("PARKWARDEN_TICKETS_UNRESOLVED_VIOLATION_POLICY", "reject")

	cfg, err := Load("", path)
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.Tickets.SearchMaxRows)
	assert.Equal(t, "reject", cfg.Tickets.UnresolvedViolationPolicy)
}

func TestLoad_InvalidPolicy(t *testing.T) {
	path := writeConfig(t, "tickets:\n  unresolved_violation_policy: maybe\n")

	_, err := Load("", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unresolved_violation_policy")
}

func TestLoad_InvalidDisclaimerFormat(t *testing.T) {
	path := writeConfig(t, "label:\n  disclaimer_format: html\n")

	_, err := Load("", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disclaimer_format")
}
