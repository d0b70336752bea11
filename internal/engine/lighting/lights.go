// Package lighting provides the light types and rig used to light the flag scene.
package lighting

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// ShadowCaster is implemented by lights whose shadow casting can be toggled.
type ShadowCaster interface {
	CastsShadow() bool
	SetCastShadow(bool)
}

// AmbientLight lights every surface uniformly.
type AmbientLight struct {
	Color     mgl32.Vec3 // Linear RGB
	Intensity float32
}

// HemisphereLight blends a sky color from above with a ground color from below.
type HemisphereLight struct {
	Sky       mgl32.Vec3
	Ground    mgl32.Vec3
	Intensity float32
	Position  mgl32.Vec3 // Defines the "up" axis of the blend
}

// Up returns the normalized hemisphere axis.
func (h *HemisphereLight) Up() mgl32.Vec3 {
	if h.Position.Len() == 0 {
		return mgl32.Vec3{0, 1, 0}
	}
	return h.Position.Normalize()
}

// ShadowCamera is the orthographic volume a directional light renders its shadow map from.
type ShadowCamera struct {
	MapSize                  int
	Near, Far                float32
	Left, Right, Top, Bottom float32
}

// DefaultShadowCamera returns a 2048 map covering a 20x20 box.
func DefaultShadowCamera() ShadowCamera {
	return ShadowCamera{
		MapSize: 2048,
		Near:    0.5,
		Far:     50,
		Left:    -10,
		Right:   10,
		Top:     10,
		Bottom:  -10,
	}
}

// DirectionalLight shines from Position toward Target.
type DirectionalLight struct {
	Name       string
	Position   mgl32.Vec3
	Target     mgl32.Vec3
	Color      mgl32.Vec3
	Intensity  float32
	CastShadow bool
	Shadow     ShadowCamera
}

// CastsShadow implements ShadowCaster.
func (l *DirectionalLight) CastsShadow() bool {
	return l.CastShadow
}

// SetCastShadow implements ShadowCaster.
func (l *DirectionalLight) SetCastShadow(v bool) {
	l.CastShadow = v
}

// Direction returns the normalized vector from the surface toward the light.
func (l *DirectionalLight) Direction() mgl32.Vec3 {
	d := l.Position.Sub(l.Target)
	if d.Len() == 0 {
		return mgl32.Vec3{0, 1, 0}
	}
	return d.Normalize()
}

// Radiance returns color scaled by intensity.
func (l *DirectionalLight) Radiance() mgl32.Vec3 {
	return l.Color.Mul(l.Intensity)
}

func (l *DirectionalLight) String() string {
	return fmt.Sprintf("%s(%.1f,%.1f,%.1f)", l.Name, l.Position[0], l.Position[1], l.Position[2])
}

// Hex parses "#rrggbb" (or "#rgb") into linear RGB.
func Hex(s string) (mgl32.Vec3, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return mgl32.Vec3{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return mgl32.Vec3{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return mgl32.Vec3{
		srgbToLinear(float32(v>>16&0xff) / 255),
		srgbToLinear(float32(v>>8&0xff) / 255),
		srgbToLinear(float32(v&0xff) / 255),
	}, nil
}

// MustHex is like Hex but panics on malformed input. Use for constants.
func MustHex(s string) mgl32.Vec3 {
	c, err := Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

func srgbToLinear(c float32) float32 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return float32(math.Pow((float64(c)+0.055)/1.055, 2.4))
}
