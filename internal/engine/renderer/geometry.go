package renderer

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/windflag/internal/engine/cloth"
	"github.com/Faultbox/windflag/internal/engine/scene"
)

// flagGeometry holds the flag mesh on the GPU. Positions and normals are
// rewritten every tick; UVs and indices never change.
type flagGeometry struct {
	vao        uint32
	posVBO     uint32
	normalVBO  uint32
	uvVBO      uint32
	ebo        uint32
	indexCount int32
}

func newFlagGeometry(m *cloth.Mesh) *flagGeometry {
	g := &flagGeometry{indexCount: int32(len(m.Indices))}

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.posVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.posVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Positions)*4, unsafe.Pointer(&m.Positions[0]), gl.DYNAMIC_DRAW)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(0)

	gl.GenBuffers(1, &g.normalVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.normalVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Normals)*4, unsafe.Pointer(&m.Normals[0]), gl.DYNAMIC_DRAW)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(1)

	gl.GenBuffers(1, &g.uvVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.uvVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.UVs)*4, unsafe.Pointer(&m.UVs[0]), gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, 2*4, 0)
	gl.EnableVertexAttribArray(2)

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	return g
}

// Update implements flag.GeometryBuffer.
func (g *flagGeometry) Update(positions, normals []float32) {
	if len(positions) > 0 {
		gl.BindBuffer(gl.ARRAY_BUFFER, g.posVBO)
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(positions)*4, unsafe.Pointer(&positions[0]))
	}
	if len(normals) > 0 {
		gl.BindBuffer(gl.ARRAY_BUFFER, g.normalVBO)
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(normals)*4, unsafe.Pointer(&normals[0]))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (g *flagGeometry) draw() {
	gl.BindVertexArray(g.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, g.indexCount, gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)
}

func (g *flagGeometry) destroy() {
	for _, b := range []*uint32{&g.posVBO, &g.normalVBO, &g.uvVBO, &g.ebo} {
		if *b != 0 {
			gl.DeleteBuffers(1, b)
			*b = 0
		}
	}
	if g.vao != 0 {
		gl.DeleteVertexArrays(1, &g.vao)
		g.vao = 0
	}
}

// planeGeometry is the static contact shadow quad.
type planeGeometry struct {
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
}

func newPlaneGeometry(p *scene.Plane) *planeGeometry {
	g := &planeGeometry{indexCount: int32(len(p.Indices))}

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(p.Vertices)*4, unsafe.Pointer(&p.Vertices[0]), gl.STATIC_DRAW)

	// Position (3) + UV (2)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 5*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, 5*4, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(p.Indices)*4, unsafe.Pointer(&p.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	return g
}

func (g *planeGeometry) draw() {
	gl.BindVertexArray(g.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, g.indexCount, gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)
}

func (g *planeGeometry) destroy() {
	if g.vbo != 0 {
		gl.DeleteBuffers(1, &g.vbo)
		g.vbo = 0
	}
	if g.ebo != 0 {
		gl.DeleteBuffers(1, &g.ebo)
		g.ebo = 0
	}
	if g.vao != 0 {
		gl.DeleteVertexArrays(1, &g.vao)
		g.vao = 0
	}
}
