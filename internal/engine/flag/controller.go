// Package flag drives the waving flag: clock, wave deformation, normals and
// the surface bound to its material.
package flag

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Faultbox/windflag/internal/engine/cloth"
	"github.com/Faultbox/windflag/internal/engine/material"
	"github.com/Faultbox/windflag/internal/engine/texture"
	"github.com/Faultbox/windflag/internal/engine/wave"
)

// ErrInvalidGrid is returned by New for an unusable plane layout.
var ErrInvalidGrid = cloth.ErrInvalidGrid

// Config describes the flag plane.
type Config struct {
	Width, Height        float32
	SegmentsX, SegmentsY int
	Workers              int
}

// DefaultConfig returns the 5x3 plane subdivided 50x30.
func DefaultConfig() Config {
	return Config{Width: 5, Height: 3, SegmentsX: 50, SegmentsY: 30}
}

// Params are the externally controlled inputs.
type Params struct {
	WindSpeed     float32
	TextureSource string
	OverlayText   string
}

// GeometryBuffer receives the deformed vertex data, typically a GPU buffer.
type GeometryBuffer interface {
	Update(positions, normals []float32)
}

// Controller owns the flag mesh and advances it once per tick.
// It is not safe for concurrent use; drive it from the render loop.
type Controller struct {
	mesh     *cloth.Mesh
	eval     *wave.Evaluator
	clock    Clock
	cache    *texture.Cache
	material *material.Material
	params   Params
	buf      GeometryBuffer

	pending        *texture.Pending
	surfaceVersion uint64

	ctx    context.Context
	cancel context.CancelFunc
	log    *zap.Logger
}

// New builds the plane and a controller with the fallback material.
func New(cfg Config, resolver texture.Resolver, log *zap.Logger) (*Controller, error) {
	mesh, err := cloth.NewPlane(cfg.Width, cfg.Height, cfg.SegmentsX, cfg.SegmentsY)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		mesh:     mesh,
		eval:     wave.NewEvaluator(cfg.Workers),
		cache:    texture.NewCache(resolver),
		material: material.New(nil),
		ctx:      ctx,
		cancel:   cancel,
		log:      log,
	}, nil
}

// SetParams updates wind and surface inputs. Negative wind is clamped to 0.
// The surface is re-resolved only when the source or overlay text changes;
// a load still in flight for the previous request is cancelled.
func (c *Controller) SetParams(p Params) {
	if p.WindSpeed < 0 {
		p.WindSpeed = 0
	}
	c.params = p

	pending, changed := c.cache.Get(c.ctx, texture.Request{
		TextureSource: p.TextureSource,
		OverlayText:   p.OverlayText,
	})
	if changed {
		c.pending = pending
		c.pollSurface()
	}
}

// Params returns the current inputs.
func (c *Controller) Params() Params {
	return c.params
}

// Attach connects the geometry to a buffer that receives every update.
func (c *Controller) Attach(buf GeometryBuffer) {
	c.buf = buf
	if buf != nil {
		buf.Update(c.mesh.Positions, c.mesh.Normals)
	}
}

// Detach disconnects the geometry buffer. Subsequent ticks only advance time.
func (c *Controller) Detach() {
	c.buf = nil
}

// Tick advances the clock by dt seconds, applies a finished surface load
// and, when attached, deforms the mesh and pushes it to the buffer.
func (c *Controller) Tick(dt float64) {
	c.clock.Advance(dt)
	c.pollSurface()

	if c.buf == nil {
		return
	}

	t := float32(c.clock.Elapsed())
	if err := c.eval.Apply(c.mesh.Rest, c.mesh.Positions, t, c.params.WindSpeed); err != nil {
		c.log.Error("wave evaluation failed", zap.Error(err))
		return
	}
	c.mesh.RecomputeNormals()
	c.buf.Update(c.mesh.Positions, c.mesh.Normals)
}

func (c *Controller) pollSurface() {
	if c.pending == nil {
		return
	}
	res, ok := c.pending.Ready()
	if !ok {
		return
	}
	c.pending = nil

	switch {
	case errors.Is(res.Err, context.Canceled):
		return
	case res.Err != nil:
		c.log.Warn("surface load failed, using fallback",
			zap.String("source", c.params.TextureSource),
			zap.Error(res.Err))
		c.material = material.New(texture.None())
	default:
		c.material = material.New(res.Surface)
		c.log.Debug("surface bound",
			zap.Stringer("kind", res.Surface.Kind),
			zap.String("source", res.Surface.Source))
	}
	c.surfaceVersion++
}

// Loading reports whether a surface load is still in flight.
func (c *Controller) Loading() bool {
	return c.pending != nil
}

// Material returns the current material.
func (c *Controller) Material() *material.Material {
	return c.material
}

// SurfaceVersion increments every time the material's surface changes.
func (c *Controller) SurfaceVersion() uint64 {
	return c.surfaceVersion
}

// Mesh returns the flag geometry.
func (c *Controller) Mesh() *cloth.Mesh {
	return c.mesh
}

// Elapsed returns the accumulated animation time in seconds.
func (c *Controller) Elapsed() float64 {
	return c.clock.Elapsed()
}

// CastShadow reports that the flag casts shadows.
func (c *Controller) CastShadow() bool { return true }

// ReceiveShadow reports that the flag receives shadows.
func (c *Controller) ReceiveShadow() bool { return true }

// Close cancels outstanding loads and detaches the geometry.
func (c *Controller) Close() {
	c.cache.Reset()
	c.cancel()
	c.pending = nil
	c.buf = nil
}
