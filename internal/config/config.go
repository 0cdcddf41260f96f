// Package config provides JSON-backed configuration for the snescore
// harness: window/video presentation, debug flags, and save paths. It is
// narrowed from the teacher's internal/app.Config to the sections this
// core's harness actually needs — no audio or input-remap sections, since
// those features are non-goals of the core itself.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds harness configuration.
type Config struct {
	Window WindowConfig `json:"window"`
	Video  VideoConfig  `json:"video"`
	Debug  DebugConfig  `json:"debug"`
	Paths  PathsConfig  `json:"paths"`

	configPath string
}

// WindowConfig describes the viewer window.
type WindowConfig struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	Scale  int `json:"scale"` // framebuffer resolution multiplier
}

// VideoConfig selects the graphics backend and its presentation options.
type VideoConfig struct {
	Backend string `json:"backend"` // "ebitengine", "headless"
	VSync   bool   `json:"vsync"`
}

// DebugConfig holds diagnostic settings. The CLI does not read them: its
// sink's trace output is set by the -debug flag alone.
type DebugConfig struct {
	EnableLogging bool   `json:"enable_logging"`
	Trace         bool   `json:"trace"`
	LogLevel      string `json:"log_level"` // "INFO", "WARN"
}

// PathsConfig names directories the harness reads and writes.
type PathsConfig struct {
	ROMs       string `json:"roms"`
	SaveStates string `json:"save_states"`
	SaveData   string `json:"save_data"`
}

// New returns a Config populated with the harness's default values.
func New() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  256 * 2,
			Height: 224 * 2,
			Scale:  2,
		},
		Video: VideoConfig{
			Backend: "ebitengine",
			VSync:   true,
		},
		Debug: DebugConfig{
			EnableLogging: false,
			Trace:         false,
			LogLevel:      "INFO",
		},
		Paths: PathsConfig{
			ROMs:       "./roms",
			SaveStates: "./states",
			SaveData:   "./saves",
		},
	}
}

// LoadFromFile loads JSON configuration from path, writing the default
// configuration to path first if it does not yet exist.
func (c *Config) LoadFromFile(path string) error {
	c.configPath = path

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return c.SaveToFile(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	if c.Window.Scale <= 0 {
		c.Window.Scale = 1
	}
	return nil
}

// SaveToFile writes c as indented JSON to path, creating parent directories
// as needed.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	c.configPath = path
	return nil
}
