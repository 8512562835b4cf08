package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/cliff-radio/config"
	"github.com/user/cliff-radio/internal/game"
)

// execute runs the root command against a config file in a temp dir
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	dir := t.TempDir()
	testConfig := config.DefaultConfig()
	testConfig.Saves.Dir = filepath.Join(dir, "saves")
	testConfig.Story.ProgressFile = filepath.Join(dir, "story_save.json")
	testConfig.Log.File = filepath.Join(dir, "radio.log")

	configFile := filepath.Join(dir, "config.json")
	require.NoError(t, config.SaveConfig(testConfig, configFile))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--config", configFile))

	err := rootCmd.Execute()
	return out.String(), err
}

func TestStoryCommands(t *testing.T) {
	t.Run("Check built-in content", func(t *testing.T) {
		out, err := execute(t, "story", "check")
		require.NoError(t, err)
		assert.Contains(t, out, "Story content OK: 22 scenes")
	})

	t.Run("Print scene graph", func(t *testing.T) {
		out, err := execute(t, "story")
		require.NoError(t, err)
		assert.Contains(t, out, "ending1_accept [ending]")
		assert.Contains(t, out, "-> chapter1_trapped")
		assert.Contains(t, out, "22 scenes")
	})
}

func TestAutoplayCommand(t *testing.T) {
	out, err := execute(t, "autoplay", "--seed", "3", "--runs", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "10 runs")
	assert.Contains(t, out, "ending")

	_, err = execute(t, "autoplay", "--runs", "0")
	assert.Error(t, err)
}

func TestSlotsCommands(t *testing.T) {
	// Test case 1: Fresh directory lists empty slots
	out, err := execute(t, "slots")
	require.NoError(t, err)
	assert.Contains(t, out, "1. Empty slot - start a new game")
	assert.Contains(t, out, "5. Empty slot - start a new game")

	// Test case 2: Deleting an empty slot is fine
	out, err = execute(t, "slots", "delete", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted slot 2")

	// Test case 3: Out of range and malformed slots fail
	_, err = execute(t, "slots", "delete", "9")
	assert.ErrorIs(t, err, game.ErrInvalidSlot)

	_, err = execute(t, "slots", "delete", "two")
	assert.Error(t, err)
}

func TestSetupLogger(t *testing.T) {
	// Test case 1: Empty file disables logging
	nop, err := setupLogger(config.LogConfig{Level: "info"})
	require.NoError(t, err)
	assert.NotNil(t, nop)

	// Test case 2: Bad level
	_, err = setupLogger(config.LogConfig{Level: "loud", File: filepath.Join(t.TempDir(), "radio.log")})
	assert.Error(t, err)

	// Test case 3: Logs go to the file
	logFile := filepath.Join(t.TempDir(), "radio.log")
	fileLogger, err := setupLogger(config.LogConfig{Level: "debug", File: logFile})
	require.NoError(t, err)
	fileLogger.Info("hello")
	_ = fileLogger.Sync()
	assert.FileExists(t, logFile)
}
