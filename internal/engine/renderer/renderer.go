// Package renderer draws the composed flag scene with OpenGL.
package renderer

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/windflag/internal/engine/capture"
	"github.com/Faultbox/windflag/internal/engine/framebuffer"
	"github.com/Faultbox/windflag/internal/engine/postfx"
	"github.com/Faultbox/windflag/internal/engine/scene"
	"github.com/Faultbox/windflag/internal/engine/shader"
	"github.com/Faultbox/windflag/internal/engine/shaders"
	"github.com/Faultbox/windflag/internal/engine/shadow"
)

// bloomRadius is the one-sided gaussian kernel radius of each blur pass.
const bloomRadius = 4

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// Renderer owns every GPU resource of the flag scene. It implements
// capture.Target for the scene it was created with.
type Renderer struct {
	config Config
	log    *zap.Logger

	scene *scene.Scene

	flagProg         *shader.Program
	depthProg        *shader.Program
	contactDepthProg *shader.Program
	contactProg      *shader.Program
	brightProg       *shader.Program
	blurProg         *shader.Program
	tonemapProg      *shader.Program

	flagGeom *flagGeometry
	plane    *planeGeometry
	surface  surfaceTexture
	quadVAO  uint32

	shadowMap *shadow.Map
	hdr       *framebuffer.Framebuffer
	ldr       *framebuffer.Framebuffer
	bloom     [2]*framebuffer.Framebuffer
	contact   [2]*framebuffer.Framebuffer

	blurWeights []float32
	lightSpace  mgl32.Mat4
}

// New creates a renderer for s and attaches the flag's geometry buffer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config, s *scene.Scene, log *zap.Logger) (*Renderer, error) {
	if s == nil || s.Flag == nil {
		return nil, fmt.Errorf("renderer: nil scene")
	}
	if log == nil {
		log = zap.NewNop()
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	r := &Renderer{
		config:      cfg,
		log:         log,
		scene:       s,
		blurWeights: postfx.GaussianWeights(bloomRadius),
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Disable(gl.CULL_FACE)

	if err := r.createPrograms(); err != nil {
		r.Close()
		return nil, err
	}
	if err := r.createTargets(); err != nil {
		r.Close()
		return nil, err
	}

	r.flagGeom = newFlagGeometry(s.Flag.Mesh())
	r.plane = newPlaneGeometry(s.Contact.Plane())
	gl.GenVertexArrays(1, &r.quadVAO)

	mapSize := 0
	if key := s.Rig.Key(); key != nil {
		mapSize = key.Shadow.MapSize
	}
	sm, err := shadow.NewMap(int32(mapSize))
	if err != nil {
		log.Warn("shadow map unavailable, shadows disabled", zap.Error(err))
		s.SetShadowMapEnabled(false)
	} else {
		r.shadowMap = sm
	}

	s.Flag.Attach(r.flagGeom)
	return r, nil
}

func (r *Renderer) createPrograms() error {
	programs := []struct {
		dst    **shader.Program
		name   string
		vs, fs string
	}{
		{&r.flagProg, "flag", shaders.FlagVertexShader, shaders.FlagFragmentShader},
		{&r.depthProg, "depth", shaders.DepthVertexShader, shaders.DepthFragmentShader},
		{&r.contactDepthProg, "contact-depth", shaders.ContactDepthVertexShader, shaders.ContactDepthFragmentShader},
		{&r.contactProg, "contact", shaders.ContactVertexShader, shaders.ContactFragmentShader},
		{&r.brightProg, "bright", shaders.QuadVertexShader, shaders.BrightFragmentShader},
		{&r.blurProg, "blur", shaders.QuadVertexShader, shaders.BlurFragmentShader},
		{&r.tonemapProg, "tonemap", shaders.QuadVertexShader, shaders.TonemapFragmentShader},
	}
	for _, p := range programs {
		prog, err := shader.New(p.name, p.vs, p.fs)
		if err != nil {
			return fmt.Errorf("failed to create shader program: %w", err)
		}
		*p.dst = prog
		r.log.Debug("shader program created", zap.String("name", p.name), zap.Uint32("program", prog.ID))
	}
	return nil
}

func (r *Renderer) createTargets() error {
	w, h := int32(r.config.Width), int32(r.config.Height)

	var err error
	if r.hdr, err = framebuffer.New(w, h, framebuffer.RGBA16F, true); err != nil {
		return fmt.Errorf("hdr target: %w", err)
	}
	if r.ldr, err = framebuffer.New(w, h, framebuffer.RGBA8, false); err != nil {
		return fmt.Errorf("output target: %w", err)
	}
	for i := range r.bloom {
		if r.bloom[i], err = framebuffer.New(w/2, h/2, framebuffer.RGBA16F, false); err != nil {
			return fmt.Errorf("bloom target: %w", err)
		}
	}
	res := r.scene.Contact.Resolution
	for i := range r.contact {
		if r.contact[i], err = framebuffer.New(res, res, framebuffer.RGBA8, false); err != nil {
			return fmt.Errorf("contact shadow target: %w", err)
		}
	}
	return nil
}

// ShadowMapEnabled implements capture.Target.
func (r *Renderer) ShadowMapEnabled() bool {
	return r.scene.ShadowMapEnabled()
}

// SetShadowMapEnabled implements capture.Target. Enabling has no effect
// when the shadow map could not be created.
func (r *Renderer) SetShadowMapEnabled(v bool) {
	r.scene.SetShadowMapEnabled(v && r.shadowMap.IsValid())
}

// RenderFrame implements capture.Target by rendering the bound scene from cam.
func (r *Renderer) RenderFrame(cam capture.Camera) error {
	if cam == nil {
		return capture.ErrNoCamera
	}
	return r.Render(r.scene, cam)
}

// ReadFrame implements capture.Target. It returns the last tone-mapped
// frame with its top row first.
func (r *Renderer) ReadFrame() (image.Image, error) {
	w, h := r.ldr.Size()
	return capture.FlipRows(r.ldr.ReadPixels(), int(w), int(h))
}

var _ capture.Target = (*Renderer)(nil)

// Render draws one frame of s into the output target: shadow map, contact
// shadow, lit HDR pass, bloom and tone mapping.
func (r *Renderer) Render(s *scene.Scene, cam capture.Camera) error {
	mat := s.Flag.Material()
	r.surface.sync(mat.Surface.Image, s.Flag.SurfaceVersion())

	shadowLight := int32(-1)
	if s.ShadowPassActive() && r.shadowMap.IsValid() {
		shadowLight = r.renderShadowPass(s)
	}

	if s.Contact.Visible() {
		r.renderContactShadow(s.Contact)
	}

	r.renderMainPass(s, cam, shadowLight)

	if s.Bloom.Enabled {
		r.renderBloom(s.Bloom)
	}
	r.renderToneMap(s)

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("render: GL error 0x%x", code)
	}
	return nil
}

// Present copies the output target to the window framebuffer.
func (r *Renderer) Present(windowWidth, windowHeight int) {
	w, h := r.ldr.Size()
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, r.ldr.FBO())
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	gl.BlitFramebuffer(0, 0, w, h, 0, 0, int32(windowWidth), int32(windowHeight), gl.COLOR_BUFFER_BIT, gl.LINEAR)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// Resize handles window resize. Non-positive sizes, as reported for a
// minimized window, keep the current targets.
func (r *Renderer) Resize(width, height int) {
	if !validSize(width, height) {
		r.log.Debug("ignoring resize", zap.Int("width", width), zap.Int("height", height))
		return
	}
	if width == r.config.Width && height == r.config.Height {
		return
	}
	r.config.Width = width
	r.config.Height = height

	w, h := int32(width), int32(height)
	r.hdr.Resize(w, h)
	r.ldr.Resize(w, h)
	for _, fb := range r.bloom {
		fb.Resize(w/2, h/2)
	}
	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// Aspect returns the output aspect ratio.
func (r *Renderer) Aspect() float32 {
	w, h := r.hdr.Size()
	return aspect(int(w), int(h))
}

func validSize(width, height int) bool {
	return width > 0 && height > 0
}

// aspect is width/height, or 1 for a degenerate size.
func aspect(width, height int) float32 {
	if !validSize(width, height) {
		return 1
	}
	return float32(width) / float32(height)
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	if r.scene != nil && r.scene.Flag != nil {
		r.scene.Flag.Detach()
	}
	for _, p := range []*shader.Program{r.flagProg, r.depthProg, r.contactDepthProg, r.contactProg, r.brightProg, r.blurProg, r.tonemapProg} {
		if p != nil {
			p.Delete()
		}
	}
	if r.flagGeom != nil {
		r.flagGeom.destroy()
	}
	if r.plane != nil {
		r.plane.destroy()
	}
	r.surface.release()
	if r.quadVAO != 0 {
		gl.DeleteVertexArrays(1, &r.quadVAO)
		r.quadVAO = 0
	}
	if r.shadowMap != nil {
		r.shadowMap.Destroy()
	}
	for _, fb := range []*framebuffer.Framebuffer{r.hdr, r.ldr, r.bloom[0], r.bloom[1], r.contact[0], r.contact[1]} {
		if fb != nil {
			fb.Destroy()
		}
	}
}
