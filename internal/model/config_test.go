package model

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope", "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3001", cfg.Server.BaseURL)
	assert.Equal(t, 30, cfg.Server.TimeoutSec)
	assert.Equal(t, "blue", cfg.Display.ColorScheme)
	assert.Equal(t, 10, cfg.Display.PageSize)
}

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "config.yaml")

	saved := &AppConfig{
		Server: ServerConfig{
			BaseURL:    "https://tracking.example.com",
			SocketURL:  "wss://tracking.example.com",
			TimeoutSec: 15,
		},
		Display: DisplayConfig{
			ColorScheme: "emerald",
			PageSize:    25,
		},
	}
	require.NoError(t, SaveConfig(path, saved))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func TestLoadConfigSanitizesBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, SaveConfig(path, &AppConfig{
		Server:  ServerConfig{BaseURL: "http://x", TimeoutSec: -1},
		Display: DisplayConfig{ColorScheme: "blue", PageSize: 0},
	}))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Server.TimeoutSec)
	assert.Equal(t, 10, cfg.Display.PageSize)
}
