// Package config loads the xdisplay run configuration from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Window holds the main window's startup parameters.
type Window struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Title      string `yaml:"title"`
	Mode       string `yaml:"mode"` // windowed, minimized, maximized, fullscreen
	Borderless bool   `yaml:"borderless"`
	OnTop      bool   `yaml:"on_top"`
	NoResize   bool   `yaml:"no_resize"`
}

// Config is the full run configuration.
type Config struct {
	Window   Window `yaml:"window"`
	Pointer  string `yaml:"pointer"`   // visible, hidden, captured, confined
	LogLevel string `yaml:"log_level"` // debug, info, warn, error
	FrameHz  int    `yaml:"frame_hz"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Window: Window{
			Width:  640,
			Height: 480,
			Title:  "xdisplay",
			Mode:   "windowed",
		},
		Pointer:  "visible",
		LogLevel: "info",
		FrameHz:  60,
	}
}

// DefaultConfigPath is ~/.config/xdisplay/config.yaml.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "xdisplay", "config.yaml"), nil
}

// Load reads the configuration from the standard location. A missing file
// yields the defaults.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads and validates one YAML file. A missing file yields the
// defaults without error.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

var validModes = map[string]bool{
	"windowed": true, "minimized": true, "maximized": true, "fullscreen": true,
}

var validPointers = map[string]bool{
	"visible": true, "hidden": true, "captured": true, "confined": true,
}

var validLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

func (c *Config) validate() error {
	if c.Window.Width < 1 || c.Window.Height < 1 {
		return fmt.Errorf("window size must be positive, got %dx%d",
			c.Window.Width, c.Window.Height)
	}
	c.Window.Mode = strings.ToLower(c.Window.Mode)
	if !validModes[c.Window.Mode] {
		return fmt.Errorf("unknown window mode %q", c.Window.Mode)
	}
	c.Pointer = strings.ToLower(c.Pointer)
	if !validPointers[c.Pointer] {
		return fmt.Errorf("unknown pointer mode %q", c.Pointer)
	}
	c.LogLevel = strings.ToLower(c.LogLevel)
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	if c.FrameHz < 1 || c.FrameHz > 1000 {
		return fmt.Errorf("frame_hz must be in 1..1000, got %d", c.FrameHz)
	}
	return nil
}
