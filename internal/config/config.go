package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/custom-agent-demo/agentui/internal/logging"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Agent AgentConfig    `yaml:"agent"`
	Mock  MockConfig     `yaml:"mock"`
	Log   logging.Config `yaml:"log"`
}

// AgentConfig configures the console.
type AgentConfig struct {
	API             string        `yaml:"api"`
	DemoID          string        `yaml:"demo_id"`
	Token           string        `yaml:"token"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	StaleAfter      time.Duration `yaml:"stale_after"`
	AttachTimeout   time.Duration `yaml:"attach_timeout"`
	EventBuffer     int           `yaml:"event_buffer"`
	EndedMessage    string        `yaml:"ended_message"` // markdown
}

// MockConfig configures the mock cobrowse service.
type MockConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	Scenario       string        `yaml:"scenario"`
	Token          string        `yaml:"token"`
	Tick           time.Duration `yaml:"tick"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Agent: AgentConfig{
			API:             "http://127.0.0.1:8080",
			DemoID:          "demo",
			RefreshInterval: 500 * time.Millisecond,
			StaleAfter:      10 * time.Second,
			AttachTimeout:   15 * time.Second,
			EventBuffer:     64,
			EndedMessage:    "The custom agent UI session has ended!",
		},
		Mock: MockConfig{
			Host:     "127.0.0.1",
			Port:     8080,
			Scenario: "happy",
			Tick:     500 * time.Millisecond,
		},
		Log: logging.DefaultConfig(),
	}
}

// Load reads path over the defaults. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the values both binaries depend on.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Agent.API)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: agent.api %q must be an http(s) URL", ErrInvalidConfig, c.Agent.API)
	}
	if c.Agent.RefreshInterval <= 0 {
		return fmt.Errorf("%w: agent.refresh_interval must be positive", ErrInvalidConfig)
	}
	if c.Agent.StaleAfter <= 0 {
		return fmt.Errorf("%w: agent.stale_after must be positive", ErrInvalidConfig)
	}
	if c.Agent.AttachTimeout < 0 {
		return fmt.Errorf("%w: agent.attach_timeout must not be negative", ErrInvalidConfig)
	}
	if c.Agent.EventBuffer <= 0 {
		return fmt.Errorf("%w: agent.event_buffer must be positive", ErrInvalidConfig)
	}
	if c.Mock.Port < 0 || c.Mock.Port > 65535 {
		return fmt.Errorf("%w: mock.port %d out of range", ErrInvalidConfig, c.Mock.Port)
	}
	if c.Mock.Tick <= 0 {
		return fmt.Errorf("%w: mock.tick must be positive", ErrInvalidConfig)
	}
	return nil
}
