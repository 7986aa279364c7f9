package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the compositor cannot work with.
func (c *Config) Validate() error {
	if c.Render.Scale <= 0 {
		return fmt.Errorf("render.scale must be positive, got %v", c.Render.Scale)
	}
	if c.Render.MaxTrackedMs <= 0 {
		return fmt.Errorf("render.max_tracked_ms must be positive, got %d", c.Render.MaxTrackedMs)
	}
	if c.Render.FrameDuration <= 0 {
		return fmt.Errorf("render.frame_duration must be positive, got %d", c.Render.FrameDuration)
	}
	if c.Preview.Direction < 0 || c.Preview.Direction > 3 {
		return fmt.Errorf("preview.direction must be 0-3, got %d", c.Preview.Direction)
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./wardrobe.yaml",
		filepath.Join(ConfigDir(), "wardrobe.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Wardrobe")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Wardrobe")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "wardrobe")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "wardrobe")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
