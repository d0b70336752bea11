package capture

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeLight struct {
	cast bool
}

func (l *fakeLight) CastsShadow() bool     { return l.cast }
func (l *fakeLight) SetCastShadow(v bool) { l.cast = v }

type fakePlane struct {
	visible    bool
	shadowOnly bool
}

func (p *fakePlane) Visible() bool     { return p.visible }
func (p *fakePlane) SetVisible(v bool) { p.visible = v }
func (p *fakePlane) ShadowOnly() bool  { return p.shadowOnly }

type fakeGraph struct {
	nodes []Node
}

func (g *fakeGraph) Traverse(fn func(Node)) {
	for _, n := range g.nodes {
		fn(n)
	}
}

type fakeCamera struct {
	eye mgl32.Vec3
}

func (c *fakeCamera) Position() mgl32.Vec3 { return c.eye }
func (c *fakeCamera) View() mgl32.Mat4     { return mgl32.LookAtV(c.eye, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}) }
func (c *fakeCamera) Projection(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(50), aspect, 0.1, 100)
}

type fakeTarget struct {
	shadowMap bool
	camera    Camera
	renderErr error
	readErr   error
	panicMsg  string
	onRender  func()
	renders   int
}

func (t *fakeTarget) ShadowMapEnabled() bool     { return t.shadowMap }
func (t *fakeTarget) SetShadowMapEnabled(v bool) { t.shadowMap = v }

func (t *fakeTarget) RenderFrame(cam Camera) error {
	t.renders++
	t.camera = cam
	if t.onRender != nil {
		t.onRender()
	}
	if t.panicMsg != "" {
		panic(t.panicMsg)
	}
	return t.renderErr
}

func (t *fakeTarget) ReadFrame() (image.Image, error) {
	if t.readErr != nil {
		return nil, t.readErr
	}
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	return img, nil
}

type fakeExporter struct {
	err      error
	filename string
	img      image.Image
}

func (e *fakeExporter) Export(img image.Image, filename string) (string, error) {
	e.filename = filename
	e.img = img
	if e.err != nil {
		return "", e.err
	}
	return "/out/" + filename, nil
}

type fixture struct {
	key, fill *fakeLight
	contact   *fakePlane
	decor     *fakePlane
	target    *fakeTarget
	rc        RenderContext
}

func newFixture() *fixture {
	f := &fixture{
		key:     &fakeLight{cast: true},
		fill:    &fakeLight{cast: false},
		contact: &fakePlane{visible: true, shadowOnly: true},
		decor:   &fakePlane{visible: true, shadowOnly: false},
		target:  &fakeTarget{shadowMap: true},
	}
	f.rc = RenderContext{
		Target: f.target,
		Scene:  &fakeGraph{nodes: []Node{f.key, f.fill, f.contact, f.decor, "flag"}},
		Camera: &fakeCamera{eye: mgl32.Vec3{0, 0, 5}},
	}
	return f
}

func (f *fixture) assertRestored(t *testing.T) {
	t.Helper()
	if !f.target.shadowMap {
		t.Error("shadow map not re-enabled")
	}
	if !f.key.cast {
		t.Error("key light cast flag not restored to true")
	}
	if f.fill.cast {
		t.Error("fill light cast flag should stay false")
	}
	if !f.contact.visible {
		t.Error("contact shadow not visible again")
	}
	if !f.decor.visible {
		t.Error("non shadow-only node was touched")
	}
}

func TestBeginSuppressesAndRestore(t *testing.T) {
	f := newFixture()

	snap, err := Begin(f.rc)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if f.target.shadowMap || f.key.cast || f.contact.visible {
		t.Error("Begin did not suppress shadows")
	}
	if !f.decor.visible {
		t.Error("Begin hid a node that is not shadow-only")
	}

	snap.Restore()
	f.assertRestored(t)

	// Second restore must not clobber later changes
	f.key.cast = false
	snap.Restore()
	if f.key.cast {
		t.Error("second Restore changed state")
	}
	if !snap.Restored() {
		t.Error("Restored() = false after Restore")
	}
}

func TestBeginRestoresOriginalValuesExactly(t *testing.T) {
	f := newFixture()
	f.target.shadowMap = false
	f.contact.visible = false

	snap, err := Begin(f.rc)
	if err != nil {
		t.Fatal(err)
	}
	snap.Restore()

	if f.target.shadowMap {
		t.Error("shadow map was off before capture and should stay off")
	}
	if f.contact.visible {
		t.Error("contact shadow was hidden before capture and should stay hidden")
	}
	if !f.key.cast {
		t.Error("key light cast flag lost")
	}
}

func TestBeginValidates(t *testing.T) {
	f := newFixture()
	tests := []struct {
		name string
		rc   RenderContext
		want error
	}{
		{"no target", RenderContext{Scene: f.rc.Scene, Camera: f.rc.Camera}, ErrNoTarget},
		{"no scene", RenderContext{Target: f.target, Camera: f.rc.Camera}, ErrNoScene},
		{"no camera", RenderContext{Target: f.target, Scene: f.rc.Scene}, ErrNoCamera},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Begin(tt.rc); !errors.Is(err, tt.want) {
				t.Errorf("Begin() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCaptureSuccess(t *testing.T) {
	f := newFixture()
	core, logs := observer.New(zapcore.InfoLevel)
	exp := &fakeExporter{}
	svc := NewService(exp, "", zap.New(core))

	var castDuringRender, shadowDuringRender, contactDuringRender bool
	f.target.onRender = func() {
		castDuringRender = f.key.cast
		shadowDuringRender = f.target.shadowMap
		contactDuringRender = f.contact.visible
	}

	path, err := svc.Capture(context.Background(), f.rc)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if path != "/out/flag.png" || exp.filename != DefaultFilename {
		t.Errorf("path = %q, filename = %q", path, exp.filename)
	}
	if exp.img == nil {
		t.Error("exporter received no image")
	}
	if castDuringRender || shadowDuringRender || contactDuringRender {
		t.Error("shadows were not suppressed during the capture render")
	}
	f.assertRestored(t)

	entries := logs.FilterMessage("frame captured").All()
	if len(entries) != 1 {
		t.Fatalf("got %d info entries, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["path"]; got != path {
		t.Errorf("logged path = %v, want %q", got, path)
	}
}

func TestCaptureRendersFromContextCamera(t *testing.T) {
	f := newFixture()
	cam := &fakeCamera{eye: mgl32.Vec3{3, 2, 4}}
	f.rc.Camera = cam

	if _, err := NewService(&fakeExporter{}, "", nil).Capture(context.Background(), f.rc); err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if f.target.camera != Camera(cam) {
		t.Errorf("target rendered with %v, want the context camera", f.target.camera)
	}
}

func TestCaptureFailuresRestore(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name   string
		setup  func(*fixture, *fakeExporter)
		target error
	}{
		{"render error", func(f *fixture, _ *fakeExporter) { f.target.renderErr = boom }, boom},
		{"read error", func(f *fixture, _ *fakeExporter) { f.target.readErr = boom }, boom},
		{"export error", func(_ *fixture, e *fakeExporter) { e.err = boom }, boom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			exp := &fakeExporter{}
			tt.setup(f, exp)
			core, logs := observer.New(zapcore.ErrorLevel)
			svc := NewService(exp, "flag.png", zap.New(core))

			var castDuringRender bool
			f.target.onRender = func() { castDuringRender = f.key.cast }

			path, err := svc.Capture(context.Background(), f.rc)
			if !errors.Is(err, tt.target) {
				t.Fatalf("Capture error = %v, want %v", err, tt.target)
			}
			if path != "" {
				t.Errorf("path = %q on failure", path)
			}
			if castDuringRender {
				t.Error("key light cast shadow during forced render")
			}
			f.assertRestored(t)
			if logs.FilterMessage("capture failed").Len() != 1 {
				t.Error("failure was not logged at error level")
			}
		})
	}
}

func TestCapturePanicRestores(t *testing.T) {
	f := newFixture()
	f.target.panicMsg = "driver lost"
	svc := NewService(&fakeExporter{}, "", nil)

	_, err := svc.Capture(context.Background(), f.rc)
	if err == nil {
		t.Fatal("expected error from panicking render")
	}
	f.assertRestored(t)
}

func TestCaptureCancelledContext(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewService(&fakeExporter{}, "", nil)
	if _, err := svc.Capture(ctx, f.rc); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if f.target.renders != 0 {
		t.Error("rendered despite cancelled context")
	}
	f.assertRestored(t)
}

func TestCaptureNoTarget(t *testing.T) {
	svc := NewService(&fakeExporter{}, "", nil)
	if _, err := svc.Capture(context.Background(), RenderContext{}); !errors.Is(err, ErrNoTarget) {
		t.Errorf("err = %v, want ErrNoTarget", err)
	}
}

func TestPNGExporterOverwrites(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	exp := PNGExporter{Dir: dir}

	img := image.NewRGBA(image.Rect(0, 0, 3, 3))
	first, err := exp.Export(img, "flag.png")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	second, err := exp.Export(image.NewRGBA(image.Rect(0, 0, 5, 2)), "flag.png")
	if err != nil {
		t.Fatalf("second Export: %v", err)
	}
	if first != second || first != filepath.Join(dir, "flag.png") {
		t.Errorf("paths %q, %q", first, second)
	}

	file, err := os.Open(second)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	cfg, err := png.DecodeConfig(file)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Width != 5 || cfg.Height != 2 {
		t.Errorf("file holds %dx%d, want the second capture 5x2", cfg.Width, cfg.Height)
	}
}

func TestTrigger(t *testing.T) {
	var tr Trigger
	if tr.Take() {
		t.Fatal("new trigger should be idle")
	}
	tr.Request()
	tr.Request()
	if !tr.Take() {
		t.Error("Take() = false after Request")
	}
	if tr.Take() {
		t.Error("repeated requests should collapse into one")
	}
}

func TestFlipRows(t *testing.T) {
	// Two rows, bottom row first: red then blue
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	img, err := FlipRows(pixels, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.RGBAAt(0, 0); got.B != 255 {
		t.Errorf("top pixel = %v, want blue", got)
	}
	if got := img.RGBAAt(0, 1); got.R != 255 {
		t.Errorf("bottom pixel = %v, want red", got)
	}

	if _, err := FlipRows(pixels, 2, 2); err == nil {
		t.Error("expected size mismatch error")
	}
	if _, err := FlipRows(nil, 0, 0); err == nil {
		t.Error("expected invalid size error")
	}
}
