package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. RADIO_SAVES_DIR
const EnvPrefix = "RADIO"

// Config holds all configuration for the application
type Config struct {
	// Story content and default progress file
	Story StoryConfig `json:"story" mapstructure:"story"`

	// Save slot configuration
	Saves SavesConfig `json:"saves" mapstructure:"saves"`

	// Terminal output configuration
	Display DisplayConfig `json:"display" mapstructure:"display"`

	// Logging configuration
	Log LogConfig `json:"log" mapstructure:"log"`
}

// StoryConfig holds story specific configuration
type StoryConfig struct {
	// Directory with chapterN.yaml files; empty uses the built-in chapters
	ContentDir string `json:"content_dir" mapstructure:"content_dir"`

	// Progress file used when no slot is active
	ProgressFile string `json:"progress_file" mapstructure:"progress_file"`
}

// SavesConfig holds save slot configuration
type SavesConfig struct {
	// Directory holding save_N.json files
	Dir string `json:"dir" mapstructure:"dir"`
}

// DisplayConfig holds presentation configuration
type DisplayConfig struct {
	// Delay between characters in milliseconds
	TypeDelayMS int `json:"type_delay_ms" mapstructure:"type_delay_ms"`

	// Pause between scene paragraphs in milliseconds
	LinePauseMS int `json:"line_pause_ms" mapstructure:"line_pause_ms"`

	// Print text at once instead of typing it out
	Instant bool `json:"instant" mapstructure:"instant"`

	// Disable colored output
	NoColor bool `json:"no_color" mapstructure:"no_color"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	// Log level (debug, info, warn, error)
	Level string `json:"level" mapstructure:"level"`

	// Log file; logs never go to the terminal the story is printed on
	File string `json:"file" mapstructure:"file"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Story: StoryConfig{
			ContentDir:   "",
			ProgressFile: "story_save.json",
		},
		Saves: SavesConfig{
			Dir: "saves",
		},
		Display: DisplayConfig{
			TypeDelayMS: 30,
			LinePauseMS: 500,
			Instant:     false,
			NoColor:     false,
		},
		Log: LogConfig{
			Level: "info",
			File:  "cliff-radio.log",
		},
	}
}

// LoadConfig loads configuration from defaults, an optional JSON file at path and
// RADIO_* environment variables, in increasing priority. A missing file is created
// with the defaults.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	v := viper.New()
	setDefaults(v, config)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		// Check if file exists
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := SaveConfig(config, path); err != nil {
				return config, err
			}
		}

		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return config, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("failed to decode config: %w", err)
	}

	return config, nil
}

// setDefaults registers every key so environment overrides apply without a file
func setDefaults(v *viper.Viper, config Config) {
	v.SetDefault("story.content_dir", config.Story.ContentDir)
	v.SetDefault("story.progress_file", config.Story.ProgressFile)
	v.SetDefault("saves.dir", config.Saves.Dir)
	v.SetDefault("display.type_delay_ms", config.Display.TypeDelayMS)
	v.SetDefault("display.line_pause_ms", config.Display.LinePauseMS)
	v.SetDefault("display.instant", config.Display.Instant)
	v.SetDefault("display.no_color", config.Display.NoColor)
	v.SetDefault("log.level", config.Log.Level)
	v.SetDefault("log.file", config.Log.File)
}

// SaveConfig saves configuration to a file
func SaveConfig(config Config, path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Create or truncate file
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	// Write config to file
	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(config); err != nil {
		return err
	}

	return nil
}
