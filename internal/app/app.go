// Package app wires the window, flag, scene, renderer and frame capture
// into the main loop.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/windflag/internal/config"
	"github.com/Faultbox/windflag/internal/engine/camera"
	"github.com/Faultbox/windflag/internal/engine/capture"
	"github.com/Faultbox/windflag/internal/engine/flag"
	"github.com/Faultbox/windflag/internal/engine/input"
	"github.com/Faultbox/windflag/internal/engine/postfx"
	"github.com/Faultbox/windflag/internal/engine/renderer"
	"github.com/Faultbox/windflag/internal/engine/scene"
	"github.com/Faultbox/windflag/internal/engine/texture"
	"github.com/Faultbox/windflag/internal/engine/window"
	"github.com/Faultbox/windflag/internal/logger"
)

// Title is the window title.
const Title = "Wind Flag"

// App is the running application.
type App struct {
	cfg     *config.Config
	log     *zap.Logger
	running bool

	window   *window.Window
	input    *input.Input
	controls *Controls

	flag     *flag.Controller
	scene    *scene.Scene
	camera   *camera.OrbitCamera
	renderer *renderer.Renderer

	capture *capture.Service
	trigger *capture.Trigger
}

// New creates the window, GL resources and flag scene from cfg.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg:      cfg,
		log:      logger.Named("app"),
		controls: NewControls(),
		input:    input.New(),
		trigger:  &capture.Trigger{},
	}
	a.log.Info("initializing",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	loader := texture.NewLoader(cfg.AssetsDir, logger.Named("surface"))
	fc, err := flag.New(FlagConfig(cfg), loader, logger.Named("flag"))
	if err != nil {
		return nil, fmt.Errorf("failed to create flag: %w", err)
	}
	a.flag = fc

	a.scene, err = scene.Compose(SceneConfig(cfg), fc)
	if err != nil {
		fc.Close()
		return nil, fmt.Errorf("failed to compose scene: %w", err)
	}
	a.camera = camera.NewOrbitCamera(CameraConfig(cfg))

	// Window first: the renderer needs its OpenGL context
	a.window, err = window.New(window.Config{
		Title:      Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		MSAA:       cfg.Graphics.MSAA,
	}, logger.Named("window"))
	if err != nil {
		fc.Close()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	w, h := a.window.DrawableSize()
	a.renderer, err = renderer.New(renderer.Config{Width: w, Height: h}, a.scene, logger.Named("renderer"))
	if err != nil {
		a.window.Close()
		fc.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.capture = capture.NewService(Exporter(cfg), cfg.Capture.Filename, logger.Named("capture"))

	fc.SetParams(flag.Params{
		WindSpeed:     cfg.Flag.WindSpeed,
		TextureSource: cfg.Flag.TextureSource,
		OverlayText:   cfg.Flag.OverlayText,
	})

	a.log.Info("initialized successfully")
	return a, nil
}

// Run starts the main loop and returns when the user quits.
func (a *App) Run() error {
	a.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting main loop")

	for a.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		// 1. Input
		if a.input.Update() {
			a.running = false
		}
		for _, ev := range a.input.Events() {
			a.apply(a.controls.Handle(ev))
		}
		if !a.running {
			break
		}

		// 2. Animate
		a.flag.Tick(dt)

		// 3. Render
		if err := a.renderer.RenderFrame(a.camera); err != nil {
			return fmt.Errorf("render error: %w", err)
		}

		// 4. Capture runs to completion after the regular frame, so the
		// next tick always observes restored lighting
		if a.trigger.Take() {
			a.captureFrame()
		}

		// 5. Present
		w, h := a.window.DrawableSize()
		a.renderer.Present(w, h)
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps", zap.Int("count", frameCount), zap.String("dt", fmt.Sprintf("%.2fms", dt*1000)))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (a *App) captureFrame() {
	rc := capture.RenderContext{Target: a.renderer, Scene: a.scene, Camera: a.camera}
	// Errors are logged by the service; the loop keeps running
	_, _ = a.capture.Capture(context.Background(), rc)

	// The capture left a shadow-free frame in the output; redraw the lit one
	if err := a.renderer.RenderFrame(a.camera); err != nil {
		a.log.Error("render after capture failed", zap.Error(err))
	}
}

// apply executes one command.
func (a *App) apply(cmd Command) {
	switch cmd.Action {
	case ActionQuit:
		a.running = false

	case ActionWindUp, ActionWindDown:
		delta := float32(WindStep)
		if cmd.Action == ActionWindDown {
			delta = -delta
		}
		p := a.flag.Params()
		p.WindSpeed = StepWind(p.WindSpeed, delta)
		a.flag.SetParams(p)
		a.log.Info("wind speed", zap.Float32("value", p.WindSpeed))

	case ActionNextTexture:
		p := a.flag.Params()
		p.TextureSource = NextTexture(p.TextureSource)
		a.flag.SetParams(p)
		a.log.Info("texture source", zap.String("source", p.TextureSource))

	case ActionToggleText:
		p := a.flag.Params()
		p.OverlayText = ToggleText(p.OverlayText)
		a.flag.SetParams(p)
		a.log.Info("overlay text", zap.String("text", p.OverlayText))

	case ActionCapture:
		a.trigger.Request()

	case ActionOrbit:
		a.camera.HandleDrag(cmd.DX, cmd.DY)

	case ActionZoom:
		a.camera.Zoom(cmd.Zoom)

	case ActionResize:
		w, h := a.window.DrawableSize()
		a.renderer.Resize(w, h)
	}
}

// Close cleans up application resources.
func (a *App) Close() {
	a.log.Info("closing")

	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.flag != nil {
		if config.SaveOnExit() {
			a.saveConfig()
		}
		a.flag.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}

func (a *App) saveConfig() {
	RememberFlag(a.cfg, a.flag.Params())
	if err := a.cfg.Save(); err != nil {
		a.log.Warn("failed to save config", zap.Error(err))
		return
	}
	a.log.Info("config saved", zap.String("path", config.SavePath()))
}

// RememberFlag copies the runtime flag inputs back into cfg.
func RememberFlag(cfg *config.Config, p flag.Params) {
	cfg.Flag.WindSpeed = p.WindSpeed
	cfg.Flag.TextureSource = p.TextureSource
	cfg.Flag.OverlayText = p.OverlayText
}

// FlagConfig maps the flag section of cfg onto the controller config.
func FlagConfig(cfg *config.Config) flag.Config {
	return flag.Config{
		Width:     cfg.Flag.Width,
		Height:    cfg.Flag.Height,
		SegmentsX: cfg.Flag.SegmentsX,
		SegmentsY: cfg.Flag.SegmentsY,
		Workers:   cfg.Flag.Workers,
	}
}

// SceneConfig maps the scene section of cfg onto the composer config.
func SceneConfig(cfg *config.Config) scene.Config {
	sc := cfg.Scene
	bloom := postfx.DefaultBloom()
	bloom.Threshold = sc.Bloom.Threshold
	bloom.Intensity = sc.Bloom.Intensity
	bloom.Smoothing = sc.Bloom.Smoothing

	contact := *scene.DefaultContactShadow()
	contact.Y = sc.Contact.Y
	contact.Opacity = sc.Contact.Opacity
	contact.Scale = sc.Contact.Scale
	contact.Blur = sc.Contact.Blur
	contact.Far = sc.Contact.Far

	return scene.Config{
		ShadowMapSize: sc.ShadowMapSize,
		Environment:   sc.Environment,
		Bloom:         bloom,
		Contact:       contact,
	}
}

// CameraConfig maps the camera section of cfg onto the orbit camera config.
func CameraConfig(cfg *config.Config) camera.Config {
	c := cfg.Camera
	return camera.Config{
		FOV:         c.FOV,
		Near:        c.Near,
		Far:         c.Far,
		Position:    mgl32.Vec3(c.Position),
		MinDistance: c.MinDistance,
		MaxDistance: c.MaxDistance,
		MinPolar:    mgl32.DegToRad(c.MinPolarDeg),
		MaxPolar:    mgl32.DegToRad(c.MaxPolarDeg),
	}
}

// Exporter picks the capture destination: a native save dialog when
// prompting is enabled, the output directory otherwise.
func Exporter(cfg *config.Config) capture.Exporter {
	png := capture.PNGExporter{Dir: cfg.Capture.OutputDir}
	if cfg.Capture.Prompt {
		return capture.DialogExporter{Fallback: png}
	}
	return png
}
