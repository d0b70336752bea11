// Package material describes the flag's physically based surface.
package material

import (
	"image/color"

	"github.com/Faultbox/windflag/internal/engine/texture"
)

// Tints applied to the base color.
var (
	TintTextured = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	TintFallback = color.NRGBA{R: 0x00, G: 0xff, B: 0x00, A: 0xff}
)

// Material is a metal/roughness surface description.
type Material struct {
	Surface     *texture.Surface
	Tint        color.NRGBA
	Metalness   float32
	Roughness   float32
	DoubleSided bool
}

// New builds the flag material. The tint is neutral white when the surface
// carries an image and solid green otherwise.
func New(surface *texture.Surface) *Material {
	if surface == nil {
		surface = texture.None()
	}
	tint := TintFallback
	if surface.HasImage() {
		tint = TintTextured
	}
	return &Material{
		Surface:     surface,
		Tint:        tint,
		Metalness:   0.1,
		Roughness:   0.8,
		DoubleSided: true,
	}
}

// HasSurface reports whether a texture image is bound.
func (m *Material) HasSurface() bool {
	return m.Surface.HasImage()
}

// TintVec returns the tint as linear 0..1 floats for shader upload.
func (m *Material) TintVec() [4]float32 {
	return [4]float32{
		float32(m.Tint.R) / 255,
		float32(m.Tint.G) / 255,
		float32(m.Tint.B) / 255,
		float32(m.Tint.A) / 255,
	}
}
