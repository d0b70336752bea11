package config

import (
	"flag"
	"math"
)

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagWind       = flag.Float64("wind", math.NaN(), "Initial wind speed")
	flagTexture    = flag.String("texture", "", "Flag texture path or URL (use 'none' for no texture)")
	flagText       = flag.String("text", "", "Overlay text rendered onto the flag")
	flagOut        = flag.String("out", "", "Directory for captured frames")
	flagSave       = flag.Bool("save-config", false, "Write wind, texture and overlay text back to the config file on exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// SaveOnExit reports whether --save-config was given.
func SaveOnExit() bool {
	return *flagSave
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if !math.IsNaN(*flagWind) {
		cfg.Flag.WindSpeed = float32(*flagWind)
	}
	switch *flagTexture {
	case "":
	case "none":
		cfg.Flag.TextureSource = ""
	default:
		cfg.Flag.TextureSource = *flagTexture
	}
	if *flagText != "" {
		cfg.Flag.OverlayText = *flagText
	}
	if *flagOut != "" {
		cfg.Capture.OutputDir = *flagOut
	}
}
