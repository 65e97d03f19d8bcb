package render

import (
	"math"
	"testing"

	"github.com/taigrr/teapot/pkg/math3d"
)

// mockMesh implements MeshRenderer for testing.
type mockMesh struct {
	positions []math3d.Vec3
	normals   []math3d.Vec3
	faces     [][3]int
}

func (m *mockMesh) VertexCount() int   { return len(m.positions) }
func (m *mockMesh) TriangleCount() int { return len(m.faces) }
func (m *mockMesh) GetFace(i int) [3]int {
	return m.faces[i]
}

func (m *mockMesh) GetVertex(i int) (math3d.Vec3, math3d.Vec3) {
	n := math3d.V3(0, 0, 1)
	if i < len(m.normals) {
		n = m.normals[i]
	}
	return m.positions[i], n
}

// flatShader paints every fragment one color.
type flatShader struct{ c Color }

func (flatShader) Validate() error { return nil }
func (s flatShader) ShadeMesh(_, _ math3d.Vec3, _ *MeshUniforms) Color {
	return s.c
}

// triangle returns a single triangle at depth z, CCW when seen from +Z.
func triangle(z float64) *mockMesh {
	return &mockMesh{
		positions: []math3d.Vec3{math3d.V3(-1, -1, z), math3d.V3(1, -1, z), math3d.V3(0, 1, z)},
		faces:     [][3]int{{0, 1, 2}},
	}
}

func createTestRasterizer(t *testing.T, size int) *Rasterizer {
	t.Helper()
	return NewRasterizer(NewFramebuffer(size, size))
}

func meshProgram(t *testing.T, c Color) *MeshProgram {
	t.Helper()
	p, err := NewMeshProgram(flatShader{c})
	if err != nil {
		t.Fatal(err)
	}
	view := math3d.LookAt(math3d.V3(0, 0, 3), math3d.Zero3(), math3d.V3(0, 1, 0))
	p.Uniforms.ModelView = view
	p.Uniforms.Normal = math3d.Identity3()
	p.Uniforms.Projection = math3d.Perspective(math3d.Radians(45), 1, 0.5, 200)
	return p
}

func countColor(fb *Framebuffer, c Color) int {
	n := 0
	for _, p := range fb.Pixels {
		if p == c {
			n++
		}
	}
	return n
}

func TestDrawMeshFrontFacing(t *testing.T) {
	r := createTestRasterizer(t, 64)
	stats := r.DrawMesh(triangle(0), meshProgram(t, ColorRed))

	if stats.Fragments == 0 {
		t.Fatal("front-facing triangle produced no fragments")
	}
	if got := countColor(r.fb, ColorRed); got != stats.Fragments {
		t.Errorf("%d red pixels, %d fragments reported", got, stats.Fragments)
	}
	if stats.Culled != 0 || stats.Clipped != 0 {
		t.Errorf("unexpected stats %+v", stats)
	}
	// The triangle straddles the screen center.
	if r.fb.GetPixel(32, 32) != ColorRed {
		t.Error("center pixel not covered")
	}
}

func TestRasterizeSkipsNonFiniteTriangles(t *testing.T) {
	r := createTestRasterizer(t, 16)
	state := rasterState{depthTest: true, depthWrite: true}
	shade := func(*attributes) Color { return ColorRed }

	tests := []struct {
		name       string
		s0, s1, s2 screenVertex
	}{
		{"nan vertex", screenVertex{X: math.NaN(), Y: 0}, screenVertex{X: 8, Y: 0}, screenVertex{X: 0, Y: 8}},
		{"infinite vertex", screenVertex{X: 0, Y: 0}, screenVertex{X: math.Inf(1), Y: 0}, screenVertex{X: 0, Y: 8}},
		{"overflowing area", screenVertex{X: -1e200, Y: -1e200}, screenVertex{X: 1e200, Y: -1e200}, screenVertex{X: 0, Y: 1e200}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if frags, culled := r.rasterize(tt.s0, tt.s1, tt.s2, state, shade); frags != 0 || culled {
				t.Errorf("rasterize = (%d, %v), want nothing drawn", frags, culled)
			}
		})
	}
}

func TestDrawMeshBackfaceCulling(t *testing.T) {
	back := triangle(0)
	back.faces = [][3]int{{0, 2, 1}}

	tests := []struct {
		name        string
		disableCull bool
		wantDrawn   bool
	}{
		{"culled", false, false},
		{"culling disabled", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := createTestRasterizer(t, 32)
			r.DisableBackfaceCulling = tt.disableCull
			stats := r.DrawMesh(back, meshProgram(t, ColorRed))
			if drawn := stats.Fragments > 0; drawn != tt.wantDrawn {
				t.Errorf("drawn = %v, want %v (%+v)", drawn, tt.wantDrawn, stats)
			}
			if !tt.wantDrawn && stats.Culled != 1 {
				t.Errorf("culled = %d, want 1", stats.Culled)
			}
		})
	}
}

func TestDrawMeshDepthTest(t *testing.T) {
	near, far := triangle(0.5), triangle(-0.5)

	for _, order := range []string{"near first", "far first"} {
		t.Run(order, func(t *testing.T) {
			r := createTestRasterizer(t, 64)
			if order == "near first" {
				r.DrawMesh(near, meshProgram(t, ColorGreen))
				r.DrawMesh(far, meshProgram(t, ColorRed))
			} else {
				r.DrawMesh(far, meshProgram(t, ColorRed))
				r.DrawMesh(near, meshProgram(t, ColorGreen))
			}
			if got := r.fb.GetPixel(32, 32); got != ColorGreen {
				t.Errorf("center = %v, want the nearer green triangle", got)
			}
		})
	}
}

func TestDrawMeshNearClipping(t *testing.T) {
	t.Run("behind the eye", func(t *testing.T) {
		r := createTestRasterizer(t, 32)
		stats := r.DrawMesh(triangle(10), meshProgram(t, ColorRed))
		if stats.Clipped != 1 || stats.Fragments != 0 {
			t.Errorf("stats = %+v, want one clipped triangle", stats)
		}
	})

	t.Run("crossing the near plane", func(t *testing.T) {
		// Floor triangle reaching from in front of the camera to behind it.
		m := &mockMesh{
			positions: []math3d.Vec3{math3d.V3(-1, -0.5, -5), math3d.V3(1, -0.5, -5), math3d.V3(0, -0.5, 10)},
			faces:     [][3]int{{0, 2, 1}},
		}
		r := createTestRasterizer(t, 32)
		r.DisableBackfaceCulling = true
		stats := r.DrawMesh(m, meshProgram(t, ColorRed))
		if stats.Clipped != 0 || stats.Fragments == 0 {
			t.Errorf("stats = %+v, want a partially drawn triangle", stats)
		}
	})
}

func TestClipNear(t *testing.T) {
	in := clipVertex{pos: math3d.V4(0, 0, 0, 1)}
	out := clipVertex{pos: math3d.V4(0, 0, -3, 1)}

	tests := []struct {
		name  string
		tri   [3]clipVertex
		wantN int
	}{
		{"all inside", [3]clipVertex{in, in, in}, 3},
		{"all outside", [3]clipVertex{out, out, out}, 0},
		{"one outside", [3]clipVertex{in, in, out}, 4},
		{"two outside", [3]clipVertex{in, out, out}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			poly, n := clipNear(tt.tri)
			if n != tt.wantN {
				t.Fatalf("n = %d, want %d", n, tt.wantN)
			}
			for i := 0; i < n; i++ {
				if d := poly[i].pos.NearDistance(); d < -1e-12 {
					t.Errorf("vertex %d outside near plane: %v", i, d)
				}
			}
		})
	}
}

func TestPerspectiveCorrectAttributes(t *testing.T) {
	// A triangle receding in depth: its interpolated view-space position
	// must still lie on its plane.
	m := &mockMesh{
		positions: []math3d.Vec3{math3d.V3(-2, -1, 1), math3d.V3(2, -1, 1), math3d.V3(0, -1, -20)},
		faces:     [][3]int{{0, 1, 2}},
	}
	r := createTestRasterizer(t, 48)
	r.DisableBackfaceCulling = true

	var worst float64
	shader := planeShader{check: func(pos math3d.Vec3) {
		// View space keeps y = -1 on this floor.
		if d := pos.Y + 1; d*d > worst {
			worst = d * d
		}
	}}
	p, err := NewMeshProgram(shader)
	if err != nil {
		t.Fatal(err)
	}
	p.Uniforms = meshProgram(t, ColorRed).Uniforms

	if stats := r.DrawMesh(m, p); stats.Fragments == 0 {
		t.Fatal("no fragments")
	}
	if worst > 1e-18 {
		t.Errorf("interpolated positions leave the plane by up to %v", worst)
	}
}

type planeShader struct{ check func(math3d.Vec3) }

func (planeShader) Validate() error { return nil }
func (s planeShader) ShadeMesh(pos, _ math3d.Vec3, _ *MeshUniforms) Color {
	s.check(pos)
	return ColorWhite
}

func TestDrawSkyboxCoversScreen(t *testing.T) {
	cube := &mockMesh{
		positions: []math3d.Vec3{
			{X: -50, Y: -50, Z: 50}, {X: 50, Y: -50, Z: 50}, {X: 50, Y: 50, Z: 50}, {X: -50, Y: 50, Z: 50},
			{X: -50, Y: -50, Z: -50}, {X: 50, Y: -50, Z: -50}, {X: 50, Y: 50, Z: -50}, {X: -50, Y: 50, Z: -50},
		},
		faces: [][3]int{
			{0, 2, 1}, {0, 3, 2}, {4, 5, 6}, {4, 6, 7}, {3, 6, 2}, {3, 7, 6},
			{4, 1, 5}, {4, 0, 1}, {1, 6, 5}, {1, 2, 6}, {4, 3, 0}, {4, 7, 3},
		},
	}

	fb := NewFramebuffer(40, 30)
	fb.BG = RGB(1, 2, 3)
	fb.Clear()
	r := NewRasterizer(fb)

	p, err := NewSkyboxProgram(EnvironmentShader{})
	if err != nil {
		t.Fatal(err)
	}
	p.Uniforms.View = math3d.LookAt(math3d.V3(0, 0, 3), math3d.Zero3(), math3d.V3(0, 1, 0))
	p.Uniforms.Projection = math3d.Perspective(math3d.Radians(45), 40.0/30, 0.5, 200)
	p.Uniforms.Environment = NewCubemap(8)

	r.DrawSkybox(cube, p)

	if n := countColor(fb, fb.BG); n != 0 {
		t.Errorf("%d pixels left uncovered by the skybox", n)
	}
	// The sky writes no depth, so a later mesh at any depth still draws.
	for i, z := range r.zbuffer {
		if z != math.MaxFloat64 {
			t.Fatalf("depth %d written by skybox: %v", i, z)
		}
	}
}

func TestStatsAccumulate(t *testing.T) {
	r := createTestRasterizer(t, 16)
	r.DrawMesh(triangle(0), meshProgram(t, ColorRed))
	r.DrawMesh(triangle(10), meshProgram(t, ColorRed))
	if r.Stats.Triangles != 2 || r.Stats.Clipped != 1 {
		t.Errorf("stats = %+v", r.Stats)
	}
	r.ResetStats()
	if r.Stats != (DrawStats{}) {
		t.Error("ResetStats left counts")
	}
}

func BenchmarkDrawMesh(b *testing.B) {
	fb := NewFramebuffer(160, 96)
	r := NewRasterizer(fb)
	p, _ := NewMeshProgram(NewSurfaceShader())
	p.Uniforms.ModelView = math3d.LookAt(math3d.V3(0, 0, 3), math3d.Zero3(), math3d.V3(0, 1, 0))
	p.Uniforms.Normal = math3d.Identity3()
	p.Uniforms.Projection = math3d.Perspective(math3d.Radians(45), 160.0/96, 0.5, 200)
	p.Uniforms.Light = DefaultLight()
	p.Uniforms.Material = DefaultMaterial()
	p.Uniforms.Mode = EffectPhong
	m := triangle(0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.ClearDepth()
		r.DrawMesh(m, p)
	}
}
