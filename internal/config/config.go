// Package config handles mirror demo configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/midgard-mirror/internal/mirror"
	"github.com/Faultbox/midgard-mirror/pkg/math"
)

// Config holds all settings.
type Config struct {
	Window  WindowConfig   `yaml:"window"`
	Mirrors []MirrorConfig `yaml:"mirrors"`
	Demo    DemoConfig     `yaml:"demo"`
	Logging LoggingConfig  `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// MirrorConfig describes one reflective surface.
type MirrorConfig struct {
	Name     string     `yaml:"name"`
	Position [3]float32 `yaml:"position"`
	Rotation [3]float32 `yaml:"rotation"`       // pitch, yaw, roll in degrees
	Size     [2]float32 `yaml:"size"`           // quad extent in the local XZ plane
	Spin     float32    `yaml:"spin,omitempty"` // degrees per second about world up

	TextureSize        int       `yaml:"texture_size"`
	ClipPlaneOffset    float32   `yaml:"clip_plane_offset"`
	Quality            string    `yaml:"quality"`
	MSAA               int       `yaml:"msaa"`
	ReflectLayers      *uint32   `yaml:"reflect_layers,omitempty"`
	EnableLayerCulling *bool     `yaml:"enable_layer_culling,omitempty"`
	LayerCullDistances []float32 `yaml:"layer_cull_distances,omitempty"`
	MaxDistance        float32   `yaml:"max_distance"`
	TextureParam       string    `yaml:"texture_param,omitempty"`
}

// DemoConfig holds settings for the demo scene.
type DemoConfig struct {
	FOV             float32 `yaml:"fov"` // degrees
	Near            float32 `yaml:"near"`
	SecondViewer    bool    `yaml:"second_viewer"`
	ScreenshotDir   string  `yaml:"screenshot_dir"`
	MoveSpeed       float32 `yaml:"move_speed"`
	LookSensitivity float32 `yaml:"look_sensitivity"`
	SunLongitude    float32 `yaml:"sun_longitude"` // degrees
	SunLatitude     float32 `yaml:"sun_latitude"`  // degrees
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Mirrors: []MirrorConfig{DefaultMirror("floor")},
		Demo: DemoConfig{
			FOV:             60,
			Near:            0.3,
			SecondViewer:    true,
			ScreenshotDir:   "screenshots",
			MoveSpeed:       5,
			LookSensitivity: 0.003,
			SunLongitude:    35,
			SunLatitude:     55,
		},
		Logging: LoggingConfig{
			Level:      "info",
			LogFile:    "",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
	}
}

// DefaultMirror returns a horizontal mirror at the origin.
func DefaultMirror(name string) MirrorConfig {
	s := mirror.DefaultSettings()
	return MirrorConfig{
		Name:            name,
		Size:            [2]float32{10, 10},
		TextureSize:     s.TextureSize,
		ClipPlaneOffset: s.ClipPlaneOffset,
		Quality:         s.Quality.String(),
		MSAA:            int(s.AntiAlias),
		MaxDistance:     s.MaxDistance,
	}
}

// Settings converts the YAML form into validated mirror settings.
// Zero values fall back to the mirror defaults.
func (m MirrorConfig) Settings() (mirror.Settings, error) {
	s := mirror.DefaultSettings()

	if m.TextureSize != 0 {
		s.TextureSize = m.TextureSize
	}
	if m.ClipPlaneOffset != 0 {
		s.ClipPlaneOffset = m.ClipPlaneOffset
	}
	if m.MSAA != 0 {
		s.AntiAlias = mirror.AntiAlias(m.MSAA)
	}
	if m.MaxDistance != 0 {
		s.MaxDistance = m.MaxDistance
	}
	if m.TextureParam != "" {
		s.TextureParam = m.TextureParam
	}
	if m.ReflectLayers != nil {
		s.ReflectLayers = *m.ReflectLayers
	}
	if m.EnableLayerCulling != nil {
		s.EnableLayerCulling = *m.EnableLayerCulling
	}

	q, err := mirror.ParseQuality(m.Quality)
	if err != nil {
		return s, fmt.Errorf("mirror %q: %w", m.Name, err)
	}
	s.Quality = q

	if len(m.LayerCullDistances) > mirror.LayerCount {
		return s, fmt.Errorf("mirror %q: %w: %d layer cull distances, at most %d",
			m.Name, mirror.ErrInvalidSettings, len(m.LayerCullDistances), mirror.LayerCount)
	}
	copy(s.LayerCullDistances[:], m.LayerCullDistances)

	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("mirror %q: %w", m.Name, err)
	}
	return s, nil
}

// Frame returns the surface placement.
func (m MirrorConfig) Frame() mirror.Frame {
	return mirror.Frame{
		Position: math.Vec3{X: m.Position[0], Y: m.Position[1], Z: m.Position[2]},
		Rotation: math.QuatFromEuler(math.EulerDegrees(m.Rotation[0], m.Rotation[1], m.Rotation[2])),
	}
}
