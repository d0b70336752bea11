package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Width != 1280 || cfg.Graphics.Height != 720 {
		t.Errorf("expected 1280x720, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}

	if cfg.Flag.WindSpeed != 1.0 {
		t.Errorf("expected wind speed 1.0, got %f", cfg.Flag.WindSpeed)
	}
	if cfg.Flag.TextureSource != "/flag.png" {
		t.Errorf("expected texture source /flag.png, got %q", cfg.Flag.TextureSource)
	}
	if cfg.Flag.SegmentsX != 50 || cfg.Flag.SegmentsY != 30 {
		t.Errorf("expected 50x30 segments, got %dx%d", cfg.Flag.SegmentsX, cfg.Flag.SegmentsY)
	}
	if cfg.Flag.Width != 5 || cfg.Flag.Height != 3 {
		t.Errorf("expected 5x3 panel, got %gx%g", cfg.Flag.Width, cfg.Flag.Height)
	}

	if cfg.Camera.FOV != 50 || cfg.Camera.Near != 0.1 || cfg.Camera.Far != 100 {
		t.Errorf("unexpected camera projection: %+v", cfg.Camera)
	}
	if cfg.Camera.MinDistance != 3 || cfg.Camera.MaxDistance != 10 {
		t.Errorf("expected distance band 3-10, got %g-%g", cfg.Camera.MinDistance, cfg.Camera.MaxDistance)
	}
	if cfg.Camera.MinPolarDeg != 45 || cfg.Camera.MaxPolarDeg != 90 {
		t.Errorf("expected polar band 45-90, got %g-%g", cfg.Camera.MinPolarDeg, cfg.Camera.MaxPolarDeg)
	}

	if cfg.Scene.Bloom.Threshold != 0.8 || cfg.Scene.Bloom.Intensity != 0.5 {
		t.Errorf("unexpected bloom settings: %+v", cfg.Scene.Bloom)
	}
	if cfg.Scene.Contact.Y != -1.5 || cfg.Scene.Contact.Opacity != 0.35 {
		t.Errorf("unexpected contact shadow settings: %+v", cfg.Scene.Contact)
	}

	if cfg.Capture.Filename != "flag.png" {
		t.Errorf("expected capture filename flag.png, got %s", cfg.Capture.Filename)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

flag:
  wind_speed: 2.5
  texture_source: ""
  overlay_text: "TEST"
  workers: 4

camera:
  fov: 60
  position: [0, 1, 6]

scene:
  bloom:
    threshold: 0.9

capture:
  output_dir: "shots"
  prompt: true

logging:
  level: "debug"
  log_file: "windflag.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 || cfg.Graphics.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Graphics.VSync {
		t.Error("expected vsync to be false")
	}

	if cfg.Flag.WindSpeed != 2.5 {
		t.Errorf("expected wind speed 2.5, got %f", cfg.Flag.WindSpeed)
	}
	if cfg.Flag.TextureSource != "" {
		t.Errorf("expected empty texture source, got %q", cfg.Flag.TextureSource)
	}
	if cfg.Flag.OverlayText != "TEST" {
		t.Errorf("expected overlay text TEST, got %q", cfg.Flag.OverlayText)
	}
	if cfg.Flag.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.Flag.Workers)
	}
	// Unset keys keep their defaults
	if cfg.Flag.SegmentsX != 50 {
		t.Errorf("expected segments_x default 50, got %d", cfg.Flag.SegmentsX)
	}

	if cfg.Camera.FOV != 60 {
		t.Errorf("expected fov 60, got %g", cfg.Camera.FOV)
	}
	if cfg.Camera.Position != [3]float32{0, 1, 6} {
		t.Errorf("expected position [0 1 6], got %v", cfg.Camera.Position)
	}

	if cfg.Scene.Bloom.Threshold != 0.9 {
		t.Errorf("expected bloom threshold 0.9, got %g", cfg.Scene.Bloom.Threshold)
	}
	if cfg.Scene.Bloom.Intensity != 0.5 {
		t.Errorf("expected bloom intensity default 0.5, got %g", cfg.Scene.Bloom.Intensity)
	}

	if cfg.Capture.OutputDir != "shots" || !cfg.Capture.Prompt {
		t.Errorf("unexpected capture config: %+v", cfg.Capture)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "windflag.log" {
		t.Errorf("expected log file 'windflag.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative wind", func(c *Config) { c.Flag.WindSpeed = -1 }},
		{"zero segments", func(c *Config) { c.Flag.SegmentsX = 0 }},
		{"zero width", func(c *Config) { c.Flag.Width = 0 }},
		{"inverted distance band", func(c *Config) { c.Camera.MinDistance = 11 }},
		{"inverted polar band", func(c *Config) { c.Camera.MinPolarDeg = 95 }},
		{"empty capture filename", func(c *Config) { c.Capture.Filename = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Flag.OverlayText = "HANUMATRIX"
	cfg.Flag.WindSpeed = 3.2
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}
	if loaded.Flag.OverlayText != "HANUMATRIX" || loaded.Flag.WindSpeed != 3.2 {
		t.Errorf("round trip lost flag settings: %+v", loaded.Flag)
	}
}

func TestSaveToRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.Capture.Filename = ""
	if err := cfg.SaveTo(path); !errors.Is(err, ErrInvalid) {
		t.Fatalf("SaveTo() error = %v, want ErrInvalid", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("invalid config was written: %v", err)
	}
}

func TestSaveToReplacesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("flag:\n  wind_speed: 4\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	cfg.Flag.WindSpeed = 0.7
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatal(err)
	}
	if loaded.Flag.WindSpeed != 0.7 {
		t.Errorf("wind_speed = %v, want 0.7", loaded.Flag.WindSpeed)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory holds %d entries, want only config.yaml", len(entries))
	}
}

func TestSavePath(t *testing.T) {
	orig := *flagConfig
	defer func() { *flagConfig = orig }()

	*flagConfig = "/tmp/windflag-test.yaml"
	if got := SavePath(); got != "/tmp/windflag-test.yaml" {
		t.Errorf("SavePath() = %q, want the --config path", got)
	}

	*flagConfig = ""
	if got := SavePath(); got != filepath.Join(ConfigDir(), "config.yaml") {
		t.Errorf("SavePath() = %q, want config dir", got)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	os.Chdir(tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
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
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Width != 2560 || cfg.Graphics.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name:  "wind flag",
			setup: func() { *flagWind = 0 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Flag.WindSpeed != 0 {
					t.Errorf("expected wind speed 0 from flag, got %g", cfg.Flag.WindSpeed)
				}
			},
			teardown: func() { *flagWind = math.NaN() },
		},
		{
			name:  "texture none",
			setup: func() { *flagTexture = "none" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Flag.TextureSource != "" {
					t.Errorf("expected empty texture source, got %q", cfg.Flag.TextureSource)
				}
			},
			teardown: func() { *flagTexture = "" },
		},
		{
			name:  "overlay text",
			setup: func() { *flagText = "HANUMATRIX" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Flag.OverlayText != "HANUMATRIX" {
					t.Errorf("expected overlay text from flag, got %q", cfg.Flag.OverlayText)
				}
			},
			teardown: func() { *flagText = "" },
		},
		{
			name:  "output dir",
			setup: func() { *flagOut = "captures" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Capture.OutputDir != "captures" {
					t.Errorf("expected output dir captures, got %q", cfg.Capture.OutputDir)
				}
			},
			teardown: func() { *flagOut = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("flag:\n  wind_speed: -2\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid for negative wind, got %v", err)
	}
}
