package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/windflag/internal/engine/lighting"
)

// ErrUnknownPreset is returned for an environment name with no preset.
var ErrUnknownPreset = errors.New("unknown environment preset")

// Environment is a procedural sky used as the reflection and diffuse
// image-based lighting source. It is not drawn as a background.
type Environment struct {
	Preset     string
	Zenith     mgl32.Vec3 // Linear RGB straight up
	Horizon    mgl32.Vec3
	Ground     mgl32.Vec3
	Intensity  float32
	Background bool
}

// Sample returns the environment radiance along a unit direction.
func (e Environment) Sample(dir mgl32.Vec3) mgl32.Vec3 {
	y := dir[1]
	var c mgl32.Vec3
	if y >= 0 {
		c = lerp(e.Horizon, e.Zenith, y)
	} else {
		c = lerp(e.Horizon, e.Ground, min(-y*3, 1))
	}
	return c.Mul(e.Intensity)
}

func lerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

func preset(name, zenith, horizon, ground string, intensity float32) Environment {
	return Environment{
		Preset:    name,
		Zenith:    lighting.MustHex(zenith),
		Horizon:   lighting.MustHex(horizon),
		Ground:    lighting.MustHex(ground),
		Intensity: intensity,
	}
}

// Presets maps environment names to their sky gradients.
var Presets = map[string]Environment{
	"forest":    preset("forest", "#a3c4a8", "#d8e6c8", "#2f3d22", 1.0),
	"park":      preset("park", "#8fb8e0", "#e4eef2", "#4a5b32", 1.0),
	"sunset":    preset("sunset", "#5a6fa8", "#f4a460", "#3a2a20", 0.9),
	"dawn":      preset("dawn", "#7f8fb8", "#f0c8a0", "#3b3530", 0.8),
	"night":     preset("night", "#0b1026", "#1c2340", "#050505", 0.3),
	"city":      preset("city", "#9aa8b8", "#c8ccd0", "#3a3a3a", 1.0),
	"studio":    preset("studio", "#ffffff", "#d0d0d0", "#808080", 1.0),
	"warehouse": preset("warehouse", "#c8b89a", "#a09078", "#4a4038", 0.8),
}

// PresetNames returns the sorted preset names.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for n := range Presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LookupEnvironment returns the named preset.
func LookupEnvironment(name string) (Environment, error) {
	env, ok := Presets[name]
	if !ok {
		return Environment{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return env, nil
}
