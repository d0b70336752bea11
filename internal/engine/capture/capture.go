// Package capture exports the rendered frame with shadows suppressed and
// restores the scene's lighting state afterwards.
package capture

import (
	"errors"
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// Sentinel errors.
var (
	ErrNoTarget = errors.New("capture: no render target")
	ErrNoScene  = errors.New("capture: no scene graph")
	ErrNoCamera = errors.New("capture: no camera")
)

// Camera is the viewpoint a frame is rendered from.
type Camera interface {
	Position() mgl32.Vec3
	View() mgl32.Mat4
	Projection(aspect float32) mgl32.Mat4
}

// Target renders and reads back frames.
type Target interface {
	ShadowMapEnabled() bool
	SetShadowMapEnabled(bool)
	RenderFrame(cam Camera) error
	ReadFrame() (image.Image, error)
}

// Node is anything a Graph visits.
type Node = any

// Graph walks every node of a scene.
type Graph interface {
	Traverse(fn func(Node))
}

// ShadowCaster is a node whose shadow casting can be toggled.
type ShadowCaster interface {
	CastsShadow() bool
	SetCastShadow(bool)
}

// Hideable is a node that can be shown or hidden.
type Hideable interface {
	Visible() bool
	SetVisible(bool)
}

// ShadowOnly is auxiliary geometry that exists only to receive shadow.
type ShadowOnly interface {
	Hideable
	ShadowOnly() bool
}

// RenderContext bundles everything one capture touches.
type RenderContext struct {
	Target Target
	Scene  Graph
	Camera Camera
}

func (rc RenderContext) validate() error {
	switch {
	case rc.Target == nil:
		return ErrNoTarget
	case rc.Scene == nil:
		return ErrNoScene
	case rc.Camera == nil:
		return ErrNoCamera
	}
	return nil
}

type casterState struct {
	node ShadowCaster
	cast bool
}

type visibilityState struct {
	node    Hideable
	visible bool
}

// Snapshot is the lighting state recorded before a capture.
type Snapshot struct {
	target    Target
	shadowMap bool
	casters   []casterState
	hidden    []visibilityState
	restored  bool
}

// Begin records the shadow map switch, every caster's flag and every
// shadow-only node's visibility, then turns all of them off.
func Begin(rc RenderContext) (*Snapshot, error) {
	if err := rc.validate(); err != nil {
		return nil, err
	}

	s := &Snapshot{
		target:    rc.Target,
		shadowMap: rc.Target.ShadowMapEnabled(),
	}
	rc.Scene.Traverse(func(n Node) {
		if c, ok := n.(ShadowCaster); ok {
			s.casters = append(s.casters, casterState{node: c, cast: c.CastsShadow()})
		}
		if h, ok := n.(ShadowOnly); ok && h.ShadowOnly() {
			s.hidden = append(s.hidden, visibilityState{node: h, visible: h.Visible()})
		}
	})

	rc.Target.SetShadowMapEnabled(false)
	for _, c := range s.casters {
		c.node.SetCastShadow(false)
	}
	for _, h := range s.hidden {
		h.node.SetVisible(false)
	}
	return s, nil
}

// Restore puts back every recorded value. Calling it again is a no-op.
func (s *Snapshot) Restore() {
	if s == nil || s.restored {
		return
	}
	s.restored = true

	for _, h := range s.hidden {
		h.node.SetVisible(h.visible)
	}
	for _, c := range s.casters {
		c.node.SetCastShadow(c.cast)
	}
	s.target.SetShadowMapEnabled(s.shadowMap)
}

// Restored reports whether Restore has run.
func (s *Snapshot) Restored() bool {
	return s.restored
}
