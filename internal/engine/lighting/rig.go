package lighting

import "github.com/go-gl/mathgl/mgl32"

// Rig is the complete set of lights in the scene.
type Rig struct {
	Ambient     AmbientLight
	Hemisphere  HemisphereLight
	Directional []*DirectionalLight
}

// DefaultRig returns the three-point setup: a shadow-casting key light
// plus two fills, over soft ambient and sky/ground hemisphere light.
func DefaultRig() *Rig {
	white := mgl32.Vec3{1, 1, 1}
	return &Rig{
		Ambient: AmbientLight{Color: white, Intensity: 0.2},
		Hemisphere: HemisphereLight{
			Sky:       MustHex("#87ceeb"),
			Ground:    MustHex("#8b5a2b"),
			Intensity: 0.4,
			Position:  mgl32.Vec3{0, 10, 0},
		},
		Directional: []*DirectionalLight{
			{
				Name:       "key",
				Position:   mgl32.Vec3{5, 5, 5},
				Color:      white,
				Intensity:  1.2,
				CastShadow: true,
				Shadow:     DefaultShadowCamera(),
			},
			{
				Name:      "fill",
				Position:  mgl32.Vec3{-5, 3, 5},
				Color:     white,
				Intensity: 0.6,
				Shadow:    DefaultShadowCamera(),
			},
			{
				Name:      "back",
				Position:  mgl32.Vec3{0, 5, -5},
				Color:     white,
				Intensity: 1.0,
				Shadow:    DefaultShadowCamera(),
			},
		},
	}
}

// Key returns the first shadow-casting directional light, or nil.
func (r *Rig) Key() *DirectionalLight {
	for _, l := range r.Directional {
		if l.CastShadow {
			return l
		}
	}
	return nil
}

// Casters returns every light whose shadow casting can be toggled.
func (r *Rig) Casters() []ShadowCaster {
	out := make([]ShadowCaster, 0, len(r.Directional))
	for _, l := range r.Directional {
		out = append(out, l)
	}
	return out
}
