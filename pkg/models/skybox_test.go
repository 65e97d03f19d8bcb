package models

import (
	"testing"
)

func TestSkyboxTopology(t *testing.T) {
	sky := NewSkybox(DefaultSkyboxHalfSize)

	if sky.VertexCount() != 8 {
		t.Fatalf("expected 8 vertices, got %d", sky.VertexCount())
	}
	if sky.TriangleCount() != 12 {
		t.Fatalf("expected 12 triangles, got %d", sky.TriangleCount())
	}
	if err := sky.Validate(); err != nil {
		t.Fatalf("invalid skybox: %v", err)
	}

	// Every triangle faces the origin and lies on one cube face.
	faceUse := make(map[[3]int]int)
	for i := range sky.Faces {
		f := sky.GetFace(i)
		p0, _ := sky.GetVertex(f[0])
		p1, _ := sky.GetVertex(f[1])
		p2, _ := sky.GetVertex(f[2])
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		centroid := p0.Add(p1).Add(p2).Scale(1.0 / 3)
		if n.Dot(centroid) >= 0 {
			t.Errorf("triangle %d %v faces outward", i, f)
		}

		axis := n.Normalize()
		key := [3]int{int(axis.X), int(axis.Y), int(axis.Z)}
		faceUse[key]++
	}

	if len(faceUse) != 6 {
		t.Errorf("expected 6 distinct face directions, got %d", len(faceUse))
	}
	for dir, n := range faceUse {
		if n != 2 {
			t.Errorf("face %v has %d triangles, want 2", dir, n)
		}
	}
}

func TestSkyboxEdgesShared(t *testing.T) {
	sky := NewSkybox(1)

	// A closed surface uses each undirected edge exactly twice.
	edges := make(map[[2]int]int)
	for _, f := range sky.Faces {
		for i := 0; i < 3; i++ {
			a, b := f.V[i], f.V[(i+1)%3]
			if a > b {
				a, b = b, a
			}
			edges[[2]int{a, b}]++
		}
	}
	for e, n := range edges {
		if n != 2 {
			t.Errorf("edge %v used %d times", e, n)
		}
	}
}

func TestSkyboxBounds(t *testing.T) {
	sky := NewSkybox(DefaultSkyboxHalfSize)
	if sky.BoundsMin.X != -50 || sky.BoundsMax.Z != 50 {
		t.Errorf("bounds = %v..%v", sky.BoundsMin, sky.BoundsMax)
	}
}
