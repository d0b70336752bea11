// Package scene composes the flag, lights, environment and post-processing
// settings into one renderable description.
package scene

import (
	"fmt"

	"github.com/Faultbox/windflag/internal/engine/flag"
	"github.com/Faultbox/windflag/internal/engine/lighting"
	"github.com/Faultbox/windflag/internal/engine/postfx"
)

// Node is anything reachable from a scene traversal. Consumers type-assert
// to the capabilities they care about.
type Node = any

// Config holds composition parameters.
type Config struct {
	ShadowMapSize int
	Environment   string
	Bloom         postfx.BloomSettings
	Contact       ContactShadow
}

// DefaultConfig returns the reference composition.
func DefaultConfig() Config {
	return Config{
		ShadowMapSize: 2048,
		Environment:   "forest",
		Bloom:         postfx.DefaultBloom(),
		Contact:       *DefaultContactShadow(),
	}
}

// Scene is everything the renderer draws in one frame.
type Scene struct {
	Settings    RenderSettings
	Rig         *lighting.Rig
	Environment Environment
	Contact     *ContactShadow
	Bloom       postfx.BloomSettings
	Flag        *flag.Controller
}

// Compose builds the scene around a flag controller.
func Compose(cfg Config, fc *flag.Controller) (*Scene, error) {
	if fc == nil {
		return nil, fmt.Errorf("compose scene: nil flag controller")
	}
	env, err := LookupEnvironment(cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("compose scene: %w", err)
	}

	rig := lighting.DefaultRig()
	if cfg.ShadowMapSize > 0 {
		for _, l := range rig.Directional {
			l.Shadow.MapSize = cfg.ShadowMapSize
		}
	}

	contact := cfg.Contact
	contact.visible = true
	if contact.Resolution == 0 {
		contact.Resolution = DefaultContactShadow().Resolution
	}

	return &Scene{
		Settings:    DefaultRenderSettings(),
		Rig:         rig,
		Environment: env,
		Contact:     &contact,
		Bloom:       cfg.Bloom,
		Flag:        fc,
	}, nil
}

// Traverse visits the directional lights, the contact shadow plane and the
// flag, in that order.
func (s *Scene) Traverse(fn func(Node)) {
	for _, c := range s.Rig.Casters() {
		fn(c)
	}
	if s.Contact != nil {
		fn(s.Contact)
	}
	if s.Flag != nil {
		fn(s.Flag)
	}
}

// ShadowMapEnabled reports the global shadow map switch.
func (s *Scene) ShadowMapEnabled() bool {
	return s.Settings.Shadow.Enabled
}

// SetShadowMapEnabled flips the global shadow map switch.
func (s *Scene) SetShadowMapEnabled(v bool) {
	s.Settings.Shadow.Enabled = v
}

// ShadowPassActive reports whether a shadow map should be rendered this
// frame: the global switch is on and some light casts.
func (s *Scene) ShadowPassActive() bool {
	return s.Settings.Shadow.Enabled && s.Rig.Key() != nil
}
