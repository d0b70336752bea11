package lighting

// MaxDirectionalLights is the maximum number of directional lights supported in shaders.
const MaxDirectionalLights = 4

// DirectionalUniforms holds directional light data flattened for GPU upload.
type DirectionalUniforms struct {
	Count      int32
	Directions []float32 // [x0, y0, z0, x1, ...] toward the light
	Radiance   []float32 // [r0, g0, b0, r1, ...] color * intensity
	CastShadow []int32   // 1 when the light casts shadows
}

// PackDirectional flattens the rig's directional lights. Lights beyond
// MaxDirectionalLights are dropped.
func PackDirectional(r *Rig) DirectionalUniforms {
	u := DirectionalUniforms{
		Directions: make([]float32, MaxDirectionalLights*3),
		Radiance:   make([]float32, MaxDirectionalLights*3),
		CastShadow: make([]int32, MaxDirectionalLights),
	}

	count := min(len(r.Directional), MaxDirectionalLights)
	for i, l := range r.Directional[:count] {
		dir := l.Direction()
		rad := l.Radiance()
		u.Directions[i*3+0] = dir[0]
		u.Directions[i*3+1] = dir[1]
		u.Directions[i*3+2] = dir[2]
		u.Radiance[i*3+0] = rad[0]
		u.Radiance[i*3+1] = rad[1]
		u.Radiance[i*3+2] = rad[2]
		if l.CastShadow {
			u.CastShadow[i] = 1
		}
	}
	u.Count = int32(count)
	return u
}
