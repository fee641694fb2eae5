package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/midgard-mirror/internal/mirror"
)

// UserConfigPath is where Save writes: config.yaml in ConfigDir.
func UserConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Save writes the config to the user's config directory and returns the
// path written.
func (c *Config) Save() (string, error) {
	path := UserConfigPath()
	return path, c.SaveTo(path)
}

// SaveTo writes the config to a specific path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// SetMirrorSettings stores live surface settings back into the named
// mirror entry so the next Save persists them. It reports false when no
// mirror has that name.
func (c *Config) SetMirrorSettings(name string, s mirror.Settings) bool {
	for i := range c.Mirrors {
		m := &c.Mirrors[i]
		if m.Name != name {
			continue
		}

		m.TextureSize = s.TextureSize
		m.ClipPlaneOffset = s.ClipPlaneOffset
		m.Quality = s.Quality.String()
		m.MSAA = int(s.AntiAlias)
		m.MaxDistance = s.MaxDistance
		m.TextureParam = s.TextureParam

		layers := s.ReflectLayers
		m.ReflectLayers = &layers
		culling := s.EnableLayerCulling
		m.EnableLayerCulling = &culling

		// Trailing zero distances are the default and stay out of the file
		last := -1
		for l, d := range s.LayerCullDistances {
			if d != 0 {
				last = l
			}
		}
		m.LayerCullDistances = nil
		if last >= 0 {
			m.LayerCullDistances = append([]float32(nil), s.LayerCullDistances[:last+1]...)
		}
		return true
	}
	return false
}
