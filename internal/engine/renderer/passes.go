package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/windflag/internal/engine/capture"
	"github.com/Faultbox/windflag/internal/engine/framebuffer"
	"github.com/Faultbox/windflag/internal/engine/lighting"
	"github.com/Faultbox/windflag/internal/engine/postfx"
	"github.com/Faultbox/windflag/internal/engine/scene"
	"github.com/Faultbox/windflag/internal/engine/shadow"
)

// Texture units shared by the passes.
const (
	unitSurface = 0
	unitShadow  = 1
	unitContact = 2
)

// renderShadowPass draws the flag into the key light's shadow map and
// returns the key light's index in the rig.
func (r *Renderer) renderShadowPass(s *scene.Scene) int32 {
	key := s.Rig.Key()
	index := int32(-1)
	for i, l := range s.Rig.Directional {
		if l == key {
			index = int32(i)
			break
		}
	}
	if index < 0 || index >= lighting.MaxDirectionalLights {
		return -1
	}

	r.lightSpace = shadow.LightSpaceMatrix(key)

	r.shadowMap.Bind()
	r.depthProg.Use()
	r.depthProg.SetMat4("uLightSpace", r.lightSpace)
	r.flagGeom.draw()
	r.shadowMap.Unbind()
	return index
}

// renderContactShadow renders the flag from straight above into the
// contact target and blurs it.
func (r *Renderer) renderContactShadow(c *scene.ContactShadow) {
	restore := r.contact[0].BindWithViewport()
	r.contact[0].Clear(0, 0, 0, 0)

	// Keep the darkest (closest) value where the cloth overlaps itself
	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendEquation(gl.MAX)
	gl.BlendFunc(gl.ONE, gl.ONE)

	p := r.contactDepthProg
	p.Use()
	p.SetMat4("uViewProj", shadow.TopDownMatrix(c.Y, c.Scale, c.Far))
	p.SetFloat("uPlaneY", c.Y)
	p.SetFloat("uFar", c.Far)
	r.flagGeom.draw()

	gl.BlendEquation(gl.FUNC_ADD)
	gl.Disable(gl.BLEND)
	restore()

	r.blur(r.contact, 1, c.Blur)
}

func (r *Renderer) renderMainPass(s *scene.Scene, cam capture.Camera, shadowLight int32) {
	restore := r.hdr.BindWithViewport()
	defer restore()

	cc := s.Settings.ClearColor
	r.hdr.Clear(cc[0], cc[1], cc[2], cc[3])

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	gl.BlendFuncSeparate(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA, gl.ONE, gl.ONE_MINUS_SRC_ALPHA)

	viewProj := cam.Projection(r.Aspect()).Mul4(cam.View())
	r.drawFlag(s, cam, viewProj, shadowLight)

	if s.Contact.Visible() {
		gl.DepthMask(false)
		p := r.contactProg
		p.Use()
		p.SetMat4("uViewProj", viewProj)
		p.SetFloat("uOpacity", s.Contact.Opacity)
		r.contact[0].BindTexture(gl.TEXTURE0 + unitContact)
		p.SetInt("uShadow", unitContact)
		r.plane.draw()
		gl.DepthMask(true)
	}

	gl.Disable(gl.BLEND)
}

func (r *Renderer) drawFlag(s *scene.Scene, cam capture.Camera, viewProj mgl32.Mat4, shadowLight int32) {
	p := r.flagProg
	p.Use()
	p.SetMat4("uViewProj", viewProj)
	p.SetMat4("uLightSpace", r.lightSpace)
	p.SetVec3("uCameraPos", cam.Position())

	mat := s.Flag.Material()
	p.SetVec4("uTint", mat.TintVec())
	p.SetFloat("uMetalness", mat.Metalness)
	p.SetFloat("uRoughness", mat.Roughness)
	hasTexture := int32(0)
	if mat.HasSurface() && r.surface.bound() {
		hasTexture = 1
		gl.ActiveTexture(gl.TEXTURE0 + unitSurface)
		gl.BindTexture(gl.TEXTURE_2D, r.surface.id)
	}
	p.SetInt("uHasTexture", hasTexture)
	p.SetInt("uTexture", unitSurface)

	rig := s.Rig
	p.SetVec3("uAmbient", rig.Ambient.Color.Mul(rig.Ambient.Intensity))
	p.SetVec3("uHemiSky", rig.Hemisphere.Sky.Mul(rig.Hemisphere.Intensity))
	p.SetVec3("uHemiGround", rig.Hemisphere.Ground.Mul(rig.Hemisphere.Intensity))
	p.SetVec3("uHemiUp", rig.Hemisphere.Up())

	dir := lighting.PackDirectional(rig)
	p.SetInt("uDirCount", dir.Count)
	p.SetVec3Array("uDirDirection", dir.Directions)
	p.SetVec3Array("uDirRadiance", dir.Radiance)

	env := s.Environment
	p.SetVec3("uEnvZenith", env.Zenith)
	p.SetVec3("uEnvHorizon", env.Horizon)
	p.SetVec3("uEnvGround", env.Ground)
	p.SetFloat("uEnvIntensity", env.Intensity)

	p.SetInt("uShadowLight", shadowLight)
	p.SetInt("uPCFRadius", s.Settings.Shadow.PCFRadius())
	if r.shadowMap.IsValid() {
		r.shadowMap.BindTexture(gl.TEXTURE0 + unitShadow)
	}
	p.SetInt("uShadowMap", unitShadow)

	r.flagGeom.draw()
}

func (r *Renderer) renderBloom(b postfx.BloomSettings) {
	gl.Disable(gl.DEPTH_TEST)

	restore := r.bloom[0].BindWithViewport()
	p := r.brightProg
	p.Use()
	r.hdr.BindTexture(gl.TEXTURE0)
	p.SetInt("uScene", 0)
	p.SetFloat("uThreshold", b.Threshold)
	p.SetFloat("uSmoothing", b.Smoothing)
	r.drawQuad()
	restore()

	r.blur(r.bloom, b.Passes, 1)
}

// blur runs separable gaussian passes over pair[0], ping-ponging through
// pair[1]. The result ends up back in pair[0].
func (r *Renderer) blur(pair [2]*framebuffer.Framebuffer, passes int, spread float32) {
	gl.Disable(gl.DEPTH_TEST)

	p := r.blurProg
	p.Use()
	p.SetInt("uSource", 0)
	p.SetInt("uTaps", int32(len(r.blurWeights)))
	p.SetFloatArray("uWeights", r.blurWeights)

	w, h := pair[0].Size()
	for i := 0; i < passes; i++ {
		restore := pair[1].BindWithViewport()
		pair[0].BindTexture(gl.TEXTURE0)
		p.SetVec2("uStep", spread/float32(w), 0)
		r.drawQuad()
		restore()

		restore = pair[0].BindWithViewport()
		pair[1].BindTexture(gl.TEXTURE0)
		p.SetVec2("uStep", 0, spread/float32(h))
		r.drawQuad()
		restore()
	}
}

func (r *Renderer) renderToneMap(s *scene.Scene) {
	restore := r.ldr.BindWithViewport()
	defer restore()

	r.ldr.Clear(0, 0, 0, 0)
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.BLEND)

	p := r.tonemapProg
	p.Use()
	r.hdr.BindTexture(gl.TEXTURE0)
	p.SetInt("uScene", 0)
	r.bloom[0].BindTexture(gl.TEXTURE1)
	p.SetInt("uBloom", 1)

	bloomEnabled := int32(0)
	if s.Bloom.Enabled {
		bloomEnabled = 1
	}
	p.SetInt("uBloomEnabled", bloomEnabled)
	p.SetFloat("uBloomIntensity", s.Bloom.Intensity)
	p.SetFloat("uExposure", s.Settings.Exposure)

	toneMapping := int32(0)
	if s.Settings.ToneMapping == scene.ACESFilmic {
		toneMapping = 1
	}
	p.SetInt("uToneMapping", toneMapping)
	srgb := int32(0)
	if s.Settings.OutputColorSpace == scene.SRGBOutput {
		srgb = 1
	}
	p.SetInt("uSRGB", srgb)

	r.drawQuad()
	gl.Enable(gl.DEPTH_TEST)
}

func (r *Renderer) drawQuad() {
	gl.BindVertexArray(r.quadVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
}
