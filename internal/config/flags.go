package config

import "flag"

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagQuality     = flag.String("quality", "", "Reflection quality for all mirrors (default, high, medium, low, verylow)")
	flagTextureSize = flag.Int("texture-size", 0, "Reflection texture size for all mirrors")
	flagMSAA        = flag.Int("msaa", 0, "Reflection MSAA samples for all mirrors (1, 2, 4, 8)")
	flagWindowed    = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen  = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth       = flag.Int("width", 0, "Window width")
	flagHeight      = flag.Int("height", 0, "Window height")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	for i := range cfg.Mirrors {
		if *flagQuality != "" {
			cfg.Mirrors[i].Quality = *flagQuality
		}
		if *flagTextureSize > 0 {
			cfg.Mirrors[i].TextureSize = *flagTextureSize
		}
		if *flagMSAA > 0 {
			cfg.Mirrors[i].MSAA = *flagMSAA
		}
	}
	if *flagWindowed {
		cfg.Window.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
}
