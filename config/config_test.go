package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	// Setup
	dir := t.TempDir()
	path := filepath.Join(dir, "conf", "radio.json")

	// Test case 1: Missing file is created with defaults
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	_, err = os.Stat(path)
	assert.NoError(t, err)

	// Test case 2: File values override defaults
	custom := DefaultConfig()
	custom.Saves.Dir = filepath.Join(dir, "slots")
	custom.Display.Instant = true
	custom.Display.TypeDelayMS = 5
	require.NoError(t, SaveConfig(custom, path))

	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, custom.Saves.Dir, cfg.Saves.Dir)
	assert.True(t, cfg.Display.Instant)
	assert.Equal(t, 5, cfg.Display.TypeDelayMS)
	assert.Equal(t, "info", cfg.Log.Level)

	// Test case 3: Environment wins over the file
	t.Setenv("RADIO_SAVES_DIR", "/tmp/env-saves")
	t.Setenv("RADIO_LOG_LEVEL", "debug")
	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/env-saves", cfg.Saves.Dir)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigWithoutFile(t *testing.T) {
	t.Setenv("RADIO_DISPLAY_INSTANT", "true")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.True(t, cfg.Display.Instant)
	assert.Equal(t, "saves", cfg.Saves.Dir)
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "radio.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
