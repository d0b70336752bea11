// Package config handles application configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalid is returned by Validate when a setting is out of range.
var ErrInvalid = errors.New("invalid config")

// Config holds all application settings.
type Config struct {
	Graphics  GraphicsConfig `yaml:"graphics"`
	Flag      FlagConfig     `yaml:"flag"`
	Camera    CameraConfig   `yaml:"camera"`
	Scene     SceneConfig    `yaml:"scene"`
	Capture   CaptureConfig  `yaml:"capture"`
	AssetsDir string         `yaml:"assets_dir"`
	Logging   LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	MSAA       int  `yaml:"msaa"`
}

// FlagConfig holds the flag mesh and wind parameters.
type FlagConfig struct {
	WindSpeed     float32 `yaml:"wind_speed"`
	TextureSource string  `yaml:"texture_source"` // Path or URL; empty means no texture
	OverlayText   string  `yaml:"overlay_text"`   // Overrides TextureSource when set
	Width         float32 `yaml:"width"`
	Height        float32 `yaml:"height"`
	SegmentsX     int     `yaml:"segments_x"`
	SegmentsY     int     `yaml:"segments_y"`
	Workers       int     `yaml:"workers"` // 0 evaluates the wave field serially
}

// CameraConfig holds the perspective camera and orbit constraints.
type CameraConfig struct {
	FOV         float32    `yaml:"fov"` // Vertical, degrees
	Near        float32    `yaml:"near"`
	Far         float32    `yaml:"far"`
	Position    [3]float32 `yaml:"position"`
	MinDistance float32    `yaml:"min_distance"`
	MaxDistance float32    `yaml:"max_distance"`
	MinPolarDeg float32    `yaml:"min_polar_deg"` // Measured from vertical
	MaxPolarDeg float32    `yaml:"max_polar_deg"`
}

// SceneConfig holds lighting, shadow and post-processing settings.
type SceneConfig struct {
	ShadowMapSize int           `yaml:"shadow_map_size"`
	Environment   string        `yaml:"environment"`
	Bloom         BloomConfig   `yaml:"bloom"`
	Contact       ContactConfig `yaml:"contact_shadow"`
}

// BloomConfig holds bloom pass parameters.
type BloomConfig struct {
	Threshold float32 `yaml:"threshold"`
	Intensity float32 `yaml:"intensity"`
	Smoothing float32 `yaml:"smoothing"`
}

// ContactConfig holds the ground-contact shadow plane parameters.
type ContactConfig struct {
	Y       float32 `yaml:"y"`
	Opacity float32 `yaml:"opacity"`
	Scale   float32 `yaml:"scale"`
	Blur    float32 `yaml:"blur"`
	Far     float32 `yaml:"far"`
}

// CaptureConfig holds frame export settings.
type CaptureConfig struct {
	OutputDir string `yaml:"output_dir"`
	Filename  string `yaml:"filename"`
	Prompt    bool   `yaml:"prompt"` // Show a native save dialog
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			MSAA:       4,
		},
		Flag: FlagConfig{
			WindSpeed:     1.0,
			TextureSource: "/flag.png",
			Width:         5,
			Height:        3,
			SegmentsX:     50,
			SegmentsY:     30,
		},
		Camera: CameraConfig{
			FOV:         50,
			Near:        0.1,
			Far:         100,
			Position:    [3]float32{0, 0, 5},
			MinDistance: 3,
			MaxDistance: 10,
			MinPolarDeg: 45,
			MaxPolarDeg: 90,
		},
		Scene: SceneConfig{
			ShadowMapSize: 2048,
			Environment:   "forest",
			Bloom: BloomConfig{
				Threshold: 0.8,
				Intensity: 0.5,
				Smoothing: 0.9,
			},
			Contact: ContactConfig{
				Y:       -1.5,
				Opacity: 0.35,
				Scale:   10,
				Blur:    2,
				Far:     10,
			},
		},
		Capture: CaptureConfig{
			OutputDir: ".",
			Filename:  "flag.png",
		},
		AssetsDir: "assets",
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports the first out-of-range setting.
func (c *Config) Validate() error {
	switch {
	case c.Flag.WindSpeed < 0:
		return fmt.Errorf("%w: flag.wind_speed must be >= 0, got %g", ErrInvalid, c.Flag.WindSpeed)
	case c.Flag.SegmentsX < 1 || c.Flag.SegmentsY < 1:
		return fmt.Errorf("%w: flag segments must be >= 1, got %dx%d", ErrInvalid, c.Flag.SegmentsX, c.Flag.SegmentsY)
	case c.Flag.Width <= 0 || c.Flag.Height <= 0:
		return fmt.Errorf("%w: flag size must be positive", ErrInvalid)
	case c.Camera.MinDistance <= 0 || c.Camera.MinDistance > c.Camera.MaxDistance:
		return fmt.Errorf("%w: camera distance band [%g, %g]", ErrInvalid, c.Camera.MinDistance, c.Camera.MaxDistance)
	case c.Camera.MinPolarDeg < 0 || c.Camera.MinPolarDeg > c.Camera.MaxPolarDeg || c.Camera.MaxPolarDeg > 180:
		return fmt.Errorf("%w: camera polar band [%g, %g]", ErrInvalid, c.Camera.MinPolarDeg, c.Camera.MaxPolarDeg)
	case c.Capture.Filename == "":
		return fmt.Errorf("%w: capture.filename is empty", ErrInvalid)
	}
	return nil
}
