package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

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

// Validate checks values that would otherwise surface as confusing runtime
// behavior.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Assets.Candidates) == 0 {
		errs = append(errs, errors.New("assets.candidates: at least one model source is required"))
	}
	for i, cand := range c.Assets.Candidates {
		if cand.Path == "" {
			errs = append(errs, fmt.Errorf("assets.candidates[%d]: empty path", i))
		}
		if cand.Format == "" {
			errs = append(errs, fmt.Errorf("assets.candidates[%d]: empty format", i))
		}
	}
	if c.Viewer.LoadTimeout <= 0 {
		errs = append(errs, errors.New("viewer.load_timeout must be positive"))
	}
	if c.Viewer.IntroDuration <= 0 {
		errs = append(errs, errors.New("viewer.intro_duration must be positive"))
	}
	if c.Viewer.FillLightDelay < 0 || c.Viewer.FillLightDelay >= 1 {
		errs = append(errs, errors.New("viewer.fill_light_delay must be in [0, 1)"))
	}
	return errors.Join(errs...)
}

// FormatFromPath guesses a candidate format tag from a file extension.
func FormatFromPath(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return "glb"
	}
	return ext
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
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
		return filepath.Join(home, "Library", "Application Support", "IntroViewer")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "IntroViewer")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "intro-viewer")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "intro-viewer")
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
