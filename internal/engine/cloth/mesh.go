// Package cloth builds the subdivided plane the flag is rendered from.
package cloth

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrInvalidGrid is returned when the plane size or subdivision is unusable.
var ErrInvalidGrid = errors.New("invalid grid")

// Mesh holds a plane's rest layout plus the live vertex buffers ready for GPU upload.
// Topology (vertex count, UVs, indices) never changes after construction.
type Mesh struct {
	Width, Height        float32
	SegmentsX, SegmentsY int

	Rest      []mgl32.Vec3 // Undisplaced positions, z == 0
	Positions []float32    // xyz interleaved
	Normals   []float32    // xyz interleaved
	UVs       []float32    // uv interleaved
	Indices   []uint32
}

// Bounds holds an axis-aligned bounding box.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Center returns the midpoint of the box.
func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// NewPlane builds a plane centered on the origin facing +z.
// Vertices run row-major from the top-left corner; v is 1 on the top row.
func NewPlane(width, height float32, segX, segY int) (*Mesh, error) {
	if segX < 1 || segY < 1 {
		return nil, fmt.Errorf("%w: segments %dx%d", ErrInvalidGrid, segX, segY)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: size %gx%g", ErrInvalidGrid, width, height)
	}

	cols := segX + 1
	rows := segY + 1
	count := cols * rows

	m := &Mesh{
		Width:     width,
		Height:    height,
		SegmentsX: segX,
		SegmentsY: segY,
		Rest:      make([]mgl32.Vec3, 0, count),
		Positions: make([]float32, 0, count*3),
		Normals:   make([]float32, 0, count*3),
		UVs:       make([]float32, 0, count*2),
		Indices:   make([]uint32, 0, segX*segY*6),
	}

	halfW := width / 2
	halfH := height / 2
	stepX := width / float32(segX)
	stepY := height / float32(segY)

	for iy := range rows {
		y := halfH - float32(iy)*stepY
		for ix := range cols {
			x := float32(ix)*stepX - halfW
			m.Rest = append(m.Rest, mgl32.Vec3{x, y, 0})
			m.Positions = append(m.Positions, x, y, 0)
			m.Normals = append(m.Normals, 0, 0, 1)
			m.UVs = append(m.UVs, float32(ix)/float32(segX), 1-float32(iy)/float32(segY))
		}
	}

	// Two CCW triangles per quad when viewed from +z
	for iy := range segY {
		for ix := range segX {
			a := uint32(iy*cols + ix)
			b := uint32((iy+1)*cols + ix)
			c := uint32((iy+1)*cols + ix + 1)
			d := uint32(iy*cols + ix + 1)
			m.Indices = append(m.Indices, a, b, d, b, c, d)
		}
	}

	return m, nil
}

// VertexCount returns the number of vertices in the plane.
func (m *Mesh) VertexCount() int {
	return len(m.Rest)
}

// Position returns vertex i of the live buffer.
func (m *Mesh) Position(i int) mgl32.Vec3 {
	o := i * 3
	return mgl32.Vec3{m.Positions[o], m.Positions[o+1], m.Positions[o+2]}
}

// Normal returns the normal of vertex i.
func (m *Mesh) Normal(i int) mgl32.Vec3 {
	o := i * 3
	return mgl32.Vec3{m.Normals[o], m.Normals[o+1], m.Normals[o+2]}
}

// Bounds computes the bounding box of the live positions.
func (m *Mesh) Bounds() Bounds {
	b := Bounds{
		Min: mgl32.Vec3{1e10, 1e10, 1e10},
		Max: mgl32.Vec3{-1e10, -1e10, -1e10},
	}
	for i := 0; i+2 < len(m.Positions); i += 3 {
		updateBounds(&b, mgl32.Vec3{m.Positions[i], m.Positions[i+1], m.Positions[i+2]})
	}
	return b
}

func updateBounds(b *Bounds, p mgl32.Vec3) {
	for k := range 3 {
		if p[k] < b.Min[k] {
			b.Min[k] = p[k]
		}
		if p[k] > b.Max[k] {
			b.Max[k] = p[k]
		}
	}
}
