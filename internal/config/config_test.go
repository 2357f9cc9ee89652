package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	yaml := `
agent:
  api: "https://cobrowse.example.com"
  demo_id: "demo-42"
  token: "secret"
  stale_after: 15s
mock:
  port: 9090
  scenario: stall
  allowed_origins:
    - "http://localhost:3000"
log:
  level: debug
  development: true
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(yaml), 0o644))

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, "https://cobrowse.example.com", cfg.Agent.API)
	assert.Equal(t, "demo-42", cfg.Agent.DemoID)
	assert.Equal(t, "secret", cfg.Agent.Token)
	assert.Equal(t, 15*time.Second, cfg.Agent.StaleAfter)
	assert.Equal(t, 9090, cfg.Mock.Port)
	assert.Equal(t, "stall", cfg.Mock.Scenario)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Mock.AllowedOrigins)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Development)

	// Keys absent from the file keep their defaults.
	assert.Equal(t, 500*time.Millisecond, cfg.Agent.RefreshInterval)
	assert.Equal(t, 64, cfg.Agent.EventBuffer)
	assert.Equal(t, "127.0.0.1", cfg.Mock.Host)
	assert.Equal(t, 500*time.Millisecond, cfg.Mock.Tick)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadInvalidYAML(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("agent: [unclosed"), 0o644))

	_, err := Load(cfgPath)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"relative api", func(c *Config) { c.Agent.API = "/connect" }},
		{"ws api", func(c *Config) { c.Agent.API = "ws://127.0.0.1:8080" }},
		{"zero refresh", func(c *Config) { c.Agent.RefreshInterval = 0 }},
		{"negative stale", func(c *Config) { c.Agent.StaleAfter = -time.Second }},
		{"negative attach timeout", func(c *Config) { c.Agent.AttachTimeout = -time.Second }},
		{"zero event buffer", func(c *Config) { c.Agent.EventBuffer = 0 }},
		{"port out of range", func(c *Config) { c.Mock.Port = 70000 }},
		{"zero tick", func(c *Config) { c.Mock.Tick = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}
