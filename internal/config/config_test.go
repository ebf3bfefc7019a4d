package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.Equal(t, 8183, cfg.Server.Port)
	require.Equal(t, "openai", cfg.Provider.Name)
	require.Equal(t, 0.5, cfg.Engine.DecisionTemperature)
	require.Equal(t, 0.7, cfg.Engine.ReplyTemperature)
	require.Equal(t, 200, cfg.Engine.MaxReplyTokens)
	require.Equal(t, 20, cfg.Engine.HistoryWindow)
	require.Equal(t, 600*time.Millisecond, cfg.Engine.JoinRevealDelay)
}

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadFromOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9000
provider:
  name: mock
engine:
  reply_temperature: 0.3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	require.Equal(t, 9000, cfg.Server.Port)
	require.Equal(t, "mock", cfg.Provider.Name)
	require.Equal(t, 0.3, cfg.Engine.ReplyTemperature)
	// Untouched fields keep their defaults.
	require.Equal(t, 0.5, cfg.Engine.DecisionTemperature)
	require.Equal(t, 200, cfg.Engine.MaxReplyTokens)
}

func TestLoadFromInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0644))

	_, err := LoadFrom(path)
	require.Error(t, err)
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Server.Port = 9100
	cfg.Provider.Name = "mock"
	require.NoError(t, cfg.SaveTo(path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	require.Equal(t, 9100, loaded.Server.Port)
	require.Equal(t, "mock", loaded.Provider.Name)
}

func TestEngineOptions(t *testing.T) {
	cfg := Default()
	cfg.Provider.Name = "mock"
	cfg.Provider.Model = "gpt-4o"

	opts := cfg.EngineOptions()
	require.Equal(t, "mock", opts.Provider)
	require.Equal(t, "gpt-4o", opts.Model)
	require.Equal(t, cfg.Engine.MaxReplyTokens, opts.MaxReplyTokens)
	require.Equal(t, cfg.Engine.JoinRevealDelay, opts.JoinRevealDelay)
}

func TestCreateRegistry(t *testing.T) {
	cfg := Default()
	registry, err := cfg.CreateRegistry()
	require.NoError(t, err)

	openai, err := registry.Get("openai")
	require.NoError(t, err)
	require.Equal(t, "openai", openai.Name())

	mock, err := registry.Get("mock")
	require.NoError(t, err)
	require.True(t, mock.Available())
}
