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
	// Start with defaults
	cfg := Default()

	// Try to load from file (explicit path takes priority)
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	// Apply CLI flags (highest priority)
	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
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
		return filepath.Join(home, "Library", "Application Support", "MidgardMirror")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "MidgardMirror")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "midgard-mirror")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "midgard-mirror")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
// A mirrors list in the file replaces the default mirror entirely.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var listed struct {
		Mirrors []MirrorConfig `yaml:"mirrors"`
	}
	if err := yaml.Unmarshal(data, &listed); err != nil {
		return err
	}
	if listed.Mirrors != nil {
		cfg.Mirrors = nil
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks every mirror entry converts to valid settings and that
// mirror names are unique.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Mirrors))
	for _, m := range c.Mirrors {
		if m.Name == "" {
			return fmt.Errorf("mirror without a name")
		}
		if seen[m.Name] {
			return fmt.Errorf("duplicate mirror name %q", m.Name)
		}
		seen[m.Name] = true
		if _, err := m.Settings(); err != nil {
			return err
		}
	}
	return nil
}
