package shadow

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/windflag/internal/engine/lighting"
)

// LightSpaceMatrix returns projection * view for rendering l's shadow map
// through its orthographic shadow camera.
func LightSpaceMatrix(l *lighting.DirectionalLight) mgl32.Mat4 {
	sc := l.Shadow
	view := mgl32.LookAtV(l.Position, l.Target, upFor(l.Position.Sub(l.Target)))
	proj := mgl32.Ortho(sc.Left, sc.Right, sc.Bottom, sc.Top, sc.Near, sc.Far)
	return proj.Mul4(view)
}

// TopDownMatrix returns an orthographic projection looking straight down at
// a square of side scale centered on (0, y, 0), covering depth far above y.
func TopDownMatrix(y, scale, far float32) mgl32.Mat4 {
	half := scale / 2
	eye := mgl32.Vec3{0, y + far, 0}
	view := mgl32.LookAtV(eye, mgl32.Vec3{0, y, 0}, mgl32.Vec3{0, 0, -1})
	proj := mgl32.Ortho(-half, half, -half, half, 0, far)
	return proj.Mul4(view)
}

// upFor chooses an up vector that is not parallel to dir.
func upFor(dir mgl32.Vec3) mgl32.Vec3 {
	if dir.Len() > 0 && math.Abs(float64(dir.Normalize()[1])) > 0.99 {
		return mgl32.Vec3{0, 0, 1}
	}
	return mgl32.Vec3{0, 1, 0}
}
