package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/Faultbox/midgard-mirror/internal/mirror"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test window defaults
	if cfg.Window.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Window.Height)
	}
	if cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Window.VSync {
		t.Error("expected vsync to be true by default")
	}

	// Test mirror defaults
	if len(cfg.Mirrors) != 1 {
		t.Fatalf("expected one default mirror, got %d", len(cfg.Mirrors))
	}
	s, err := cfg.Mirrors[0].Settings()
	if err != nil {
		t.Fatalf("default mirror settings: %v", err)
	}
	if s != mirror.DefaultSettings() {
		t.Errorf("default mirror settings differ from mirror.DefaultSettings: %+v", s)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

mirrors:
  - name: lobby
    position: [0, 0, 0]
    texture_size: 512
    quality: high
    msaa: 4
    max_distance: 30
  - name: bathroom
    position: [5, 1.5, -2]
    rotation: [90, 0, 0]
    quality: very_low
    enable_layer_culling: false
    reflect_layers: 3
    layer_cull_distances: [10, 20]
    texture_param: _MirrorTex

logging:
  level: "debug"
  log_file: "mirror.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Load config
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values were loaded
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Window.Width)
	}
	if !cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Window.VSync {
		t.Error("expected vsync to be false")
	}

	// The file's mirror list replaces the default one
	if len(cfg.Mirrors) != 2 {
		t.Fatalf("expected 2 mirrors, got %d", len(cfg.Mirrors))
	}

	lobby, err := cfg.Mirrors[0].Settings()
	if err != nil {
		t.Fatalf("lobby settings: %v", err)
	}
	if lobby.TextureSize != 512 {
		t.Errorf("expected texture size 512, got %d", lobby.TextureSize)
	}
	if lobby.Quality != mirror.QualityHigh {
		t.Errorf("expected high quality, got %v", lobby.Quality)
	}
	if lobby.AntiAlias != mirror.AntiAliasX4 {
		t.Errorf("expected msaa 4, got %d", lobby.AntiAlias)
	}
	if lobby.MaxDistance != 30 {
		t.Errorf("expected max distance 30, got %v", lobby.MaxDistance)
	}
	if lobby.ClipPlaneOffset != 0.01 {
		t.Errorf("expected default clip plane offset, got %v", lobby.ClipPlaneOffset)
	}

	bath, err := cfg.Mirrors[1].Settings()
	if err != nil {
		t.Fatalf("bathroom settings: %v", err)
	}
	if bath.Quality != mirror.QualityVeryLow {
		t.Errorf("expected verylow quality, got %v", bath.Quality)
	}
	if bath.EnableLayerCulling {
		t.Error("expected layer culling disabled")
	}
	if bath.ReflectLayers != 3 {
		t.Errorf("expected reflect layers 3, got %d", bath.ReflectLayers)
	}
	if bath.LayerCullDistances[1] != 20 || bath.LayerCullDistances[2] != 0 {
		t.Errorf("unexpected layer cull distances %v", bath.LayerCullDistances[:3])
	}
	if bath.TextureParam != "_MirrorTex" {
		t.Errorf("expected texture param _MirrorTex, got %s", bath.TextureParam)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "mirror.log" {
		t.Errorf("expected log file 'mirror.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileKeepsDefaultMirror(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if len(cfg.Mirrors) != 1 || cfg.Mirrors[0].Name != "floor" {
		t.Errorf("expected default floor mirror to survive, got %+v", cfg.Mirrors)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	// Create temporary config file with invalid YAML
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
window:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Try to load - should error
	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestMirrorSettingsInvalid(t *testing.T) {
	tests := []struct {
		name string
		edit func(*MirrorConfig)
	}{
		{"unknown quality", func(m *MirrorConfig) { m.Quality = "ultra" }},
		{"unsupported msaa", func(m *MirrorConfig) { m.MSAA = 3 }},
		{"negative texture size", func(m *MirrorConfig) { m.TextureSize = -1 }},
		{"negative clip offset", func(m *MirrorConfig) { m.ClipPlaneOffset = -0.5 }},
		{"too many layer distances", func(m *MirrorConfig) { m.LayerCullDistances = make([]float32, mirror.LayerCount+1) }},
		{"negative layer distance", func(m *MirrorConfig) { m.LayerCullDistances = []float32{5, -1} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := DefaultMirror("test")
			tt.edit(&m)
			if _, err := m.Settings(); !errors.Is(err, mirror.ErrInvalidSettings) {
				t.Errorf("expected ErrInvalidSettings, got %v", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Mirrors = append(cfg.Mirrors, DefaultMirror("floor"))
	if err := cfg.Validate(); err == nil {
		t.Error("expected duplicate mirror names to be rejected")
	}

	cfg.Mirrors = []MirrorConfig{DefaultMirror("")}
	if err := cfg.Validate(); err == nil {
		t.Error("expected unnamed mirror to be rejected")
	}

	cfg.Mirrors = nil
	if err := cfg.Validate(); err != nil {
		t.Errorf("a config without mirrors is valid, got %v", err)
	}
}

func TestMirrorFrame(t *testing.T) {
	m := DefaultMirror("wall")
	m.Position = [3]float32{1, 2, 3}
	m.Rotation = [3]float32{90, 0, 0}

	f := m.Frame()
	if f.Position.X != 1 || f.Position.Y != 2 || f.Position.Z != 3 {
		t.Errorf("unexpected position %+v", f.Position)
	}

	// Pitching the floor mirror 90 degrees turns its normal to +Z
	n := f.Normal()
	if n.Z < 0.999 || n.Y > 1e-5 || n.Y < -1e-5 {
		t.Errorf("expected normal close to +Z, got %+v", n)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty path
	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	// Verify path is absolute
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	// Save current directory
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	// Create temp directory and change to it
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// Create config.yaml in current directory
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
	path = findConfigFile()
	if path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "quality flag",
			setup: func() {
				*flagQuality = "low"
			},
			verify: func(t *testing.T, cfg *Config) {
				for _, m := range cfg.Mirrors {
					if m.Quality != "low" {
						t.Errorf("expected quality low on %s, got %s", m.Name, m.Quality)
					}
				}
			},
			teardown: func() {
				*flagQuality = ""
			},
		},
		{
			name: "texture size and msaa flags",
			setup: func() {
				*flagTextureSize = 1024
				*flagMSAA = 2
			},
			verify: func(t *testing.T, cfg *Config) {
				for _, m := range cfg.Mirrors {
					if m.TextureSize != 1024 {
						t.Errorf("expected texture size 1024, got %d", m.TextureSize)
					}
					if m.MSAA != 2 {
						t.Errorf("expected msaa 2, got %d", m.MSAA)
					}
				}
			},
			teardown: func() {
				*flagTextureSize = 0
				*flagMSAA = 0
			},
		},
		{
			name: "windowed flag",
			setup: func() {
				*flagWindowed = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() {
				*flagWindowed = false
			},
		},
		{
			name: "fullscreen flag",
			setup: func() {
				*flagFullscreen = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() {
				*flagFullscreen = false
			},
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Window.Width)
				}
				if cfg.Window.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Window.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			tt.setup()
			defer tt.teardown()

			// Apply flags to default config
			cfg := Default()
			applyFlags(cfg)

			// Verify
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1600
  height: 900
mirrors:
  - name: hall
    texture_size: 128
    quality: medium
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagWidth = 1920
	*flagTextureSize = 512
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
		*flagTextureSize = 0
	}()

	// Load config
	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}

	// Height should be from file (900) since no flag override
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}

	if cfg.Mirrors[0].TextureSize != 512 {
		t.Errorf("expected texture size 512 from flag, got %d", cfg.Mirrors[0].TextureSize)
	}
	if cfg.Mirrors[0].Quality != "medium" {
		t.Errorf("expected quality medium from file, got %s", cfg.Mirrors[0].Quality)
	}
}

func TestLoadRejectsInvalidMirror(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("mirrors:\n  - name: bad\n    msaa: 3\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); !errors.Is(err, mirror.ErrInvalidSettings) {
		t.Errorf("expected ErrInvalidSettings, got %v", err)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Mirrors[0].Quality = "high"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Mirrors[0].Quality != "high" {
		t.Errorf("expected saved quality high, got %s", loaded.Mirrors[0].Quality)
	}
}

func TestSave(t *testing.T) {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		t.Skip("config dir only follows XDG_CONFIG_HOME on Linux")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := Default()
	cfg.Mirrors[0].TextureSize = 512
	path, err := cfg.Save()
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if path != UserConfigPath() {
		t.Errorf("expected %s, got %s", UserConfigPath(), path)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Mirrors[0].TextureSize != 512 {
		t.Errorf("expected saved texture size 512, got %d", loaded.Mirrors[0].TextureSize)
	}
}

func TestSetMirrorSettings(t *testing.T) {
	cfg := Default()

	s, err := cfg.Mirrors[0].Settings()
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	s.Quality = mirror.QualityVeryLow
	s.TextureSize = 512
	s.AntiAlias = mirror.AntiAliasX2
	s.EnableLayerCulling = false
	s.LayerCullDistances[8] = 20

	if !cfg.SetMirrorSettings("floor", s) {
		t.Fatal("expected floor mirror to be updated")
	}
	if cfg.SetMirrorSettings("missing", s) {
		t.Error("expected unknown mirror to be rejected")
	}

	m := cfg.Mirrors[0]
	if len(m.LayerCullDistances) != 9 {
		t.Errorf("expected distances trimmed to 9 entries, got %d", len(m.LayerCullDistances))
	}

	// Survives a YAML round trip unchanged
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	got, err := loaded.Mirrors[0].Settings()
	if err != nil {
		t.Fatalf("Settings after reload: %v", err)
	}
	if got != s {
		t.Errorf("expected %+v, got %+v", s, got)
	}
}
