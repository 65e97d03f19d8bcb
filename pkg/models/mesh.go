// Package models holds the viewer's geometry: the OBJ parser, the immutable
// Mesh it produces, the skybox cube and the Store that publishes a loaded
// mesh to the render loop.
package models

import (
	"fmt"
	"math"

	"github.com/taigrr/teapot/pkg/math3d"
)

// Mesh is indexed triangle geometry. Once returned by the parser it must be
// treated as read-only.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Faces    []Face

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3

	positions []float32
	normals   []float32
	indices   []uint32
}

// Vertex is a position plus its smoothed normal. Its identity is its index
// in the OBJ vertex list.
type Vertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
}

// Face is a triangle with counter-clockwise winding.
type Face struct {
	V [3]int // Indices into Mesh.Vertices
}

// FallbackNormal is assigned to vertices whose accumulated normal is zero,
// either because no face uses them or because every face using them is
// degenerate.
var FallbackNormal = math3d.V3(0, 0, 1)

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Scale(0.5).Add(m.BoundsMax.Scale(0.5))
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// GetVertex returns the position and normal of vertex i.
func (m *Mesh) GetVertex(i int) (pos, normal math3d.Vec3) {
	v := m.Vertices[i]
	return v.Position, v.Normal
}

// GetFace returns the vertex indices of triangle i.
func (m *Mesh) GetFace(i int) [3]int {
	return m.Faces[i].V
}

// Validate checks that every face index refers to an existing vertex.
func (m *Mesh) Validate() error {
	for i, f := range m.Faces {
		for _, idx := range f.V {
			if idx < 0 || idx >= len(m.Vertices) {
				return &ParseError{Name: m.Name,
					Err: fmt.Errorf("%w: face %d uses %d (have %d vertices)", ErrIndexOutOfRange, i, idx, len(m.Vertices))}
			}
		}
	}
	return nil
}

// CalculateSmoothNormals sets every vertex normal to the normalized sum of
// the geometric normals of the faces sharing it. Face normals are left
// unnormalized while summing so larger faces weigh more.
//
// Positions are scaled into [-1, 1] for the cross products; a uniform
// scale keeps the relative face weights and keeps the sums finite for any
// finite input.
func (m *Mesh) CalculateSmoothNormals() {
	unit := 1.0
	var extent float64
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Zero3()
		extent = math.Max(extent, m.Vertices[i].Position.MaxAbs())
	}
	if u := 1 / extent; extent > 0 && !math.IsInf(u, 0) {
		unit = u
	}

	for _, f := range m.Faces {
		v0 := m.Vertices[f.V[0]].Position.Scale(unit)
		v1 := m.Vertices[f.V[1]].Position.Scale(unit)
		v2 := m.Vertices[f.V[2]].Position.Scale(unit)

		normal := v1.Sub(v0).Cross(v2.Sub(v0))

		for _, idx := range f.V {
			m.Vertices[idx].Normal = m.Vertices[idx].Normal.Add(normal)
		}
	}

	for i := range m.Vertices {
		n := m.Vertices[i].Normal.Normalize()
		if !n.IsFinite() || math.Abs(n.Len()-1) > 1e-9 {
			n = FallbackNormal
		}
		m.Vertices[i].Normal = n
	}
}

// FitTransform returns a matrix that centers the mesh on the origin and
// scales its largest dimension to 2 units.
func (m *Mesh) FitTransform() math3d.Mat4 {
	center := math3d.Translate(m.Center().Negate())
	// Half extents stay finite even when the full extent would overflow.
	half := m.BoundsMax.Scale(0.5).Sub(m.BoundsMin.Scale(0.5)).MaxComponent()
	if half <= 0 {
		return center
	}
	s := 1 / half
	return math3d.Scale(math3d.V3(s, s, s)).Mul(center)
}

// Positions returns the vertex positions as a flat xyz buffer. The slice is
// shared and must not be modified.
func (m *Mesh) Positions() []float32 {
	return m.positions
}

// Normals returns the vertex normals as a flat xyz buffer. The slice is
// shared and must not be modified.
func (m *Mesh) Normals() []float32 {
	return m.normals
}

// Indices returns the triangle indices, three per face. The slice is shared
// and must not be modified.
func (m *Mesh) Indices() []uint32 {
	return m.indices
}

// buildBuffers fills the draw-ready buffers from Vertices and Faces.
func (m *Mesh) buildBuffers() {
	m.positions = make([]float32, 0, len(m.Vertices)*3)
	m.normals = make([]float32, 0, len(m.Vertices)*3)
	for _, v := range m.Vertices {
		m.positions = append(m.positions,
			float32(v.Position.X), float32(v.Position.Y), float32(v.Position.Z))
		m.normals = append(m.normals,
			float32(v.Normal.X), float32(v.Normal.Y), float32(v.Normal.Z))
	}

	m.indices = make([]uint32, 0, len(m.Faces)*3)
	for _, f := range m.Faces {
		m.indices = append(m.indices, uint32(f.V[0]), uint32(f.V[1]), uint32(f.V[2]))
	}
}
