// Package config handles application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/alienxp03/boardroom/internal/engine"
	"github.com/alienxp03/boardroom/internal/provider"
)

// Config represents the application configuration. Provider credentials
// and endpoint come from the environment (see provider.Settings); the
// file covers everything else.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Provider ProviderConfig `yaml:"provider"`
	Engine   EngineConfig   `yaml:"engine"`
}

// ServerConfig holds server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// ProviderConfig selects the text-generation provider.
type ProviderConfig struct {
	Name  string `yaml:"name"`            // "openai" or "mock"
	Model string `yaml:"model,omitempty"` // empty = provider default
}

// EngineConfig holds turn-dispatch tuning.
type EngineConfig struct {
	DecisionTemperature float64       `yaml:"decision_temperature"`
	ReplyTemperature    float64       `yaml:"reply_temperature"`
	MaxReplyTokens      int           `yaml:"max_reply_tokens"`
	HistoryWindow       int           `yaml:"history_window"`
	RecentWindow        int           `yaml:"recent_window"`
	JoinRevealDelay     time.Duration `yaml:"join_reveal_delay"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8183,
		},
		Provider: ProviderConfig{
			Name: "openai",
		},
		Engine: EngineConfig{
			DecisionTemperature: 0.5,
			ReplyTemperature:    0.7,
			MaxReplyTokens:      200,
			HistoryWindow:       20,
			RecentWindow:        3,
			JoinRevealDelay:     600 * time.Millisecond,
		},
	}
}

// Load loads configuration from the default path.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from a specific path. A missing file is
// not an error; defaults apply. A .env file in the working directory is
// loaded into the environment for provider settings.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// No config file, proceed with defaults
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Provider settings are read from the environment later; make a local
	// .env available to that lookup.
	_ = godotenv.Load()

	return cfg, nil
}

// Save saves the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo saves the configuration to a specific path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// EngineOptions converts the configuration into engine options.
func (c *Config) EngineOptions() engine.Options {
	return engine.Options{
		Provider:            c.Provider.Name,
		Model:               c.Provider.Model,
		DecisionTemperature: c.Engine.DecisionTemperature,
		ReplyTemperature:    c.Engine.ReplyTemperature,
		MaxReplyTokens:      c.Engine.MaxReplyTokens,
		HistoryWindow:       c.Engine.HistoryWindow,
		RecentWindow:        c.Engine.RecentWindow,
		JoinRevealDelay:     c.Engine.JoinRevealDelay,
	}
}

// CreateRegistry creates a provider registry from this configuration and
// the process environment.
func (c *Config) CreateRegistry() (*provider.Registry, error) {
	settings, err := provider.SettingsFromEnv()
	if err != nil {
		return nil, err
	}

	registry := provider.NewRegistry()
	registry.Register(provider.NewOpenAI(settings))
	registry.Register(provider.NewMockProvider())
	return registry, nil
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "boardroom.yaml"
	}
	return filepath.Join(home, ".boardroom", "config.yaml")
}

// GenerateExample generates an example configuration file.
func GenerateExample() string {
	return `# boardroom configuration file
# Place this file at ~/.boardroom/config.yaml
#
# Provider credentials come from the environment (or a local .env file):
#   OPENAI_API_KEY=sk-...
#   OPENAI_BASE_URL=https://api.openai.com/v1
#   OPENAI_MODEL=gpt-4o-mini

server:
  port: 8183

provider:
  name: openai          # "openai" or "mock" (offline demo)
  model: ""             # empty = provider default

engine:
  decision_temperature: 0.5
  reply_temperature: 0.7
  max_reply_tokens: 200
  history_window: 20    # history entries sent with a persona reply
  recent_window: 3      # history entries the orchestrator sees
  join_reveal_delay: 600ms
`
}
