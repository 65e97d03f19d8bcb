package models

import "github.com/taigrr/teapot/pkg/math3d"

// DefaultSkyboxHalfSize is the distance from the origin to each skybox face.
const DefaultSkyboxHalfSize = 50

// skyboxFaces lists the cube's triangles wound counter-clockwise as seen from
// inside, two per face: +Z, -Z, +Y, -Y, +X, -X.
var skyboxFaces = [12][3]int{
	{0, 2, 1}, {0, 3, 2},
	{4, 5, 6}, {4, 6, 7},
	{3, 6, 2}, {3, 7, 6},
	{4, 1, 5}, {4, 0, 1},
	{1, 6, 5}, {1, 2, 6},
	{4, 3, 0}, {4, 7, 3},
}

// NewSkybox builds the environment cube centered on the origin. Normals point
// inward.
func NewSkybox(halfSize float64) *Mesh {
	h := halfSize
	corners := [8]math3d.Vec3{
		{X: -h, Y: -h, Z: h},
		{X: h, Y: -h, Z: h},
		{X: h, Y: h, Z: h},
		{X: -h, Y: h, Z: h},
		{X: -h, Y: -h, Z: -h},
		{X: h, Y: -h, Z: -h},
		{X: h, Y: h, Z: -h},
		{X: -h, Y: h, Z: -h},
	}

	mesh := NewMesh("skybox")
	mesh.Vertices = make([]Vertex, len(corners))
	for i, c := range corners {
		mesh.Vertices[i] = Vertex{Position: c, Normal: c.Negate().Normalize()}
	}
	mesh.Faces = make([]Face, len(skyboxFaces))
	for i, f := range skyboxFaces {
		mesh.Faces[i] = Face{V: f}
	}
	mesh.CalculateBounds()
	mesh.buildBuffers()
	return mesh
}
