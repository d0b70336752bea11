package cloth

import "github.com/go-gl/mathgl/mgl32"

// RecomputeNormals rebuilds smooth vertex normals from the live positions.
// Face normals are accumulated unnormalized so larger triangles weigh more.
func (m *Mesh) RecomputeNormals() {
	for i := range m.Normals {
		m.Normals[i] = 0
	}

	for i := 0; i+2 < len(m.Indices); i += 3 {
		ia, ib, ic := int(m.Indices[i]), int(m.Indices[i+1]), int(m.Indices[i+2])
		a := m.Position(ia)
		b := m.Position(ib)
		c := m.Position(ic)

		face := b.Sub(a).Cross(c.Sub(a))
		for _, idx := range [3]int{ia, ib, ic} {
			o := idx * 3
			m.Normals[o] += face[0]
			m.Normals[o+1] += face[1]
			m.Normals[o+2] += face[2]
		}
	}

	for i := 0; i+2 < len(m.Normals); i += 3 {
		n := normalize(mgl32.Vec3{m.Normals[i], m.Normals[i+1], m.Normals[i+2]})
		m.Normals[i] = n[0]
		m.Normals[i+1] = n[1]
		m.Normals[i+2] = n[2]
	}
}

// normalize returns the unit vector, or +z for degenerate input.
func normalize(v mgl32.Vec3) mgl32.Vec3 {
	if v.Len() < 1e-8 {
		return mgl32.Vec3{0, 0, 1}
	}
	return v.Normalize()
}
