// Package camera provides the constrained orbit camera used to view the flag.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Config holds projection parameters and orbit constraints.
type Config struct {
	FOV         float32 // Vertical, degrees
	Near, Far   float32
	Position    mgl32.Vec3
	Target      mgl32.Vec3
	MinDistance float32
	MaxDistance float32
	MinPolar    float32 // Radians from +Y
	MaxPolar    float32
}

// DefaultConfig returns a camera at (0,0,5) looking at the origin.
func DefaultConfig() Config {
	return Config{
		FOV:         50,
		Near:        0.1,
		Far:         100,
		Position:    mgl32.Vec3{0, 0, 5},
		MinDistance: 3,
		MaxDistance: 10,
		MinPolar:    math.Pi / 4,
		MaxPolar:    math.Pi / 2,
	}
}

// OrbitCamera orbits around a fixed target. Panning is not supported.
type OrbitCamera struct {
	Target mgl32.Vec3

	// Spherical coordinates
	Distance float32
	Polar    float32 // Angle from +Y (radians)
	Azimuth  float32 // Rotation around Y (radians), 0 looks down -Z

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPolar    float32
	MaxPolar    float32

	// Projection
	FOV       float32
	Near, Far float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera derives the orbit from cfg.Position and clamps it into the bands.
func NewOrbitCamera(cfg Config) *OrbitCamera {
	c := &OrbitCamera{
		Target:          cfg.Target,
		MinDistance:     cfg.MinDistance,
		MaxDistance:     cfg.MaxDistance,
		MinPolar:        cfg.MinPolar,
		MaxPolar:        cfg.MaxPolar,
		FOV:             cfg.FOV,
		Near:            cfg.Near,
		Far:             cfg.Far,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}

	offset := cfg.Position.Sub(cfg.Target)
	c.Distance = offset.Len()
	if c.Distance > 0 {
		c.Polar = float32(math.Acos(float64(mgl32.Clamp(offset[1]/c.Distance, -1, 1))))
		c.Azimuth = float32(math.Atan2(float64(offset[0]), float64(offset[2])))
	}
	c.clamp()
	return c
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() mgl32.Vec3 {
	sinP := math.Sin(float64(c.Polar))
	x := c.Distance * float32(sinP*math.Sin(float64(c.Azimuth)))
	y := c.Distance * float32(math.Cos(float64(c.Polar)))
	z := c.Distance * float32(sinP*math.Cos(float64(c.Azimuth)))
	return c.Target.Add(mgl32.Vec3{x, y, z})
}

// View returns the view matrix.
func (c *OrbitCamera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Target, mgl32.Vec3{0, 1, 0})
}

// Projection returns the perspective matrix for the given aspect ratio.
func (c *OrbitCamera) Projection(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

// Rotate adds to azimuth and polar angle, clamping polar into its band.
func (c *OrbitCamera) Rotate(dAzimuth, dPolar float32) {
	c.Azimuth += dAzimuth
	c.Polar += dPolar
	c.clamp()
}

// Zoom scales distance by delta, clamped to the distance band.
// Positive delta moves closer.
func (c *OrbitCamera) Zoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.clamp()
}

// HandleDrag converts a mouse drag in pixels into a rotation.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.Rotate(-deltaX*c.DragSensitivity, -deltaY*c.DragSensitivity)
}

func (c *OrbitCamera) clamp() {
	c.Distance = mgl32.Clamp(c.Distance, c.MinDistance, c.MaxDistance)
	c.Polar = mgl32.Clamp(c.Polar, c.MinPolar, c.MaxPolar)
}
