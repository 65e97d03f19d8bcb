package render

import (
	"math"

	"github.com/taigrr/teapot/pkg/math3d"
)

// MeshRenderer is the geometry the rasterizer draws. models.Mesh satisfies it
// without this package importing models.
type MeshRenderer interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3)
	GetFace(i int) [3]int
}

// attrCount is the number of interpolated values carried per vertex: a
// view-space position and normal for the mesh, a world direction for the sky.
const attrCount = 6

type attributes [attrCount]float64

// clipVertex is a vertex after the vertex stage.
type clipVertex struct {
	pos  math3d.Vec4
	attr attributes
}

// screenVertex holds a vertex transformed to screen space. Attributes are
// pre-divided by W for perspective-correct interpolation.
type screenVertex struct {
	X, Y float64 // Screen coordinates
	Z    float64 // NDC depth (for Z-buffer)
	invW float64
	attr attributes
}

// rasterState selects the fixed-function behavior of one draw call.
type rasterState struct {
	cull       bool
	depthTest  bool
	depthWrite bool
}

// DrawStats counts work done by draw calls.
type DrawStats struct {
	Triangles int // triangles submitted
	Clipped   int // triangles entirely behind the near plane
	Culled    int // back-facing triangles skipped
	Fragments int // pixels written
}

func (s *DrawStats) add(o DrawStats) {
	s.Triangles += o.Triangles
	s.Clipped += o.Clipped
	s.Culled += o.Culled
	s.Fragments += o.Fragments
}

// Rasterizer handles software triangle rasterization into a Framebuffer.
type Rasterizer struct {
	fb                     *Framebuffer
	zbuffer                []float64 // Depth buffer (1D array, row-major)
	DisableBackfaceCulling bool      // If true, render both sides of mesh triangles
	Stats                  DrawStats // Accumulated since the last ResetStats
}

// NewRasterizer creates a new rasterizer.
func NewRasterizer(fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{fb: fb}
	r.Resize()
	return r
}

// Resize resizes the depth buffer to match the framebuffer.
func (r *Rasterizer) Resize() {
	r.zbuffer = make([]float64, r.fb.Width*r.fb.Height)
	r.ClearDepth()
}

// Framebuffer returns the render target.
func (r *Rasterizer) Framebuffer() *Framebuffer {
	return r.fb
}

// ClearDepth clears the Z-buffer (call before each frame).
func (r *Rasterizer) ClearDepth() {
	// Use copy-doubling for faster clearing
	n := len(r.zbuffer)
	if n == 0 {
		return
	}
	r.zbuffer[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(r.zbuffer[i:], r.zbuffer[:i])
	}
}

// ResetStats zeroes the draw statistics.
func (r *Rasterizer) ResetStats() {
	r.Stats = DrawStats{}
}

// DrawMesh runs the mesh program over every triangle of mesh.
func (r *Rasterizer) DrawMesh(mesh MeshRenderer, p *MeshProgram) DrawStats {
	u := &p.Uniforms
	state := rasterState{cull: !r.DisableBackfaceCulling, depthTest: true, depthWrite: true}
	shade := func(a *attributes) Color {
		pos := math3d.V3(a[0], a[1], a[2])
		n := math3d.V3(a[3], a[4], a[5])
		return p.shader.ShadeMesh(pos, n, u)
	}

	// Vertex stage, once per vertex.
	verts := make([]clipVertex, mesh.VertexCount())
	for i := range verts {
		pos, normal := mesh.GetVertex(i)
		eye := u.ModelView.MulVec3(pos)
		n := u.Normal.MulVec3(normal)
		verts[i] = clipVertex{
			pos:  u.Projection.MulVec4(math3d.Point(eye)),
			attr: attributes{eye.X, eye.Y, eye.Z, n.X, n.Y, n.Z},
		}
	}

	var stats DrawStats
	for i := 0; i < mesh.TriangleCount(); i++ {
		f := mesh.GetFace(i)
		stats.add(r.drawTriangle([3]clipVertex{verts[f[0]], verts[f[1]], verts[f[2]]}, state, shade))
	}
	r.Stats.add(stats)
	return stats
}

// DrawSkybox runs the skybox program over mesh. The sky never writes depth,
// so it must be drawn before anything it should appear behind.
func (r *Rasterizer) DrawSkybox(mesh MeshRenderer, p *SkyboxProgram) DrawStats {
	u := &p.Uniforms
	state := rasterState{}
	viewProj := u.Projection.Mul(u.View)
	shade := func(a *attributes) Color {
		return p.shader.ShadeSky(math3d.V3(a[0], a[1], a[2]), u)
	}

	verts := make([]clipVertex, mesh.VertexCount())
	for i := range verts {
		pos, _ := mesh.GetVertex(i)
		verts[i] = clipVertex{
			pos:  viewProj.MulVec4(math3d.Point(pos)),
			attr: attributes{pos.X, pos.Y, pos.Z},
		}
	}

	var stats DrawStats
	for i := 0; i < mesh.TriangleCount(); i++ {
		f := mesh.GetFace(i)
		stats.add(r.drawTriangle([3]clipVertex{verts[f[0]], verts[f[1]], verts[f[2]]}, state, shade))
	}
	r.Stats.add(stats)
	return stats
}

// drawTriangle clips a triangle against the near plane and rasterizes the
// resulting polygon as a fan.
func (r *Rasterizer) drawTriangle(tri [3]clipVertex, state rasterState, shade func(*attributes) Color) DrawStats {
	stats := DrawStats{Triangles: 1}

	poly, n := clipNear(tri)
	if n < 3 {
		stats.Clipped++
		return stats
	}

	var sv [4]screenVertex
	for i := 0; i < n; i++ {
		sv[i] = r.toScreen(poly[i])
	}

	for i := 1; i+1 < n; i++ {
		frags, culled := r.rasterize(sv[0], sv[i], sv[i+1], state, shade)
		stats.Fragments += frags
		if culled {
			stats.Culled++
			break // the fan shares one plane, so every piece faces the same way
		}
	}
	return stats
}

// clipNear clips a triangle against z = -w. A triangle crossing one plane
// becomes at most a quad.
func clipNear(tri [3]clipVertex) (out [4]clipVertex, n int) {
	for i := 0; i < 3; i++ {
		a, b := tri[i], tri[(i+1)%3]
		da, db := a.pos.NearDistance(), b.pos.NearDistance()

		if da >= 0 {
			out[n] = a
			n++
		}
		if (da >= 0) != (db >= 0) {
			// Interpolate from the inside end so both triangles sharing an
			// edge produce the same point.
			if da >= 0 {
				out[n] = lerpClip(a, b, da/(da-db))
			} else {
				out[n] = lerpClip(b, a, db/(db-da))
			}
			n++
		}
	}
	return out, n
}

func lerpClip(a, b clipVertex, t float64) clipVertex {
	v := clipVertex{pos: a.pos.Lerp(b.pos, t)}
	for k := range v.attr {
		v.attr[k] = a.attr[k] + (b.attr[k]-a.attr[k])*t
	}
	return v
}

func (r *Rasterizer) toScreen(v clipVertex) screenVertex {
	ndc := v.pos.PerspectiveDivide()
	s := screenVertex{
		X:    (ndc.X + 1) * 0.5 * float64(r.fb.Width),
		Y:    (1 - ndc.Y) * 0.5 * float64(r.fb.Height), // Y flipped
		Z:    ndc.Z,
		invW: 1 / v.pos.W,
	}
	for k := range s.attr {
		s.attr[k] = v.attr[k] * s.invW
	}
	return s
}

// edge is twice the signed area of (a, b, p). Endpoints are put in a fixed
// order first so an edge shared by two triangles evaluates to exactly
// opposite values and leaves no cracks.
func edge(a, b screenVertex, px, py float64) float64 {
	if a.X > b.X || (a.X == b.X && a.Y > b.Y) {
		return -((a.X-b.X)*(py-b.Y) - (a.Y-b.Y)*(px-b.X))
	}
	return (b.X-a.X)*(py-a.Y) - (b.Y-a.Y)*(px-a.X)
}

// rasterize fills one screen-space triangle and reports the fragments
// written and whether it was culled.
func (r *Rasterizer) rasterize(s0, s1, s2 screenVertex, state rasterState, shade func(*attributes) Color) (int, bool) {
	area := edge(s0, s1, s2.X, s2.Y)
	if area == 0 || math.IsInf(area, 0) || math.IsNaN(area) {
		return 0, false
	}
	// Screen Y points down, so counter-clockwise (front-facing) triangles
	// have negative area here.
	if state.cull && area > 0 {
		return 0, true
	}
	invArea := 1 / area

	width, height := r.fb.Width, r.fb.Height
	minX := int(math.Max(0, math.Floor(min3(s0.X, s1.X, s2.X))))
	maxX := int(math.Min(float64(width-1), math.Ceil(max3(s0.X, s1.X, s2.X))))
	minY := int(math.Max(0, math.Floor(min3(s0.Y, s1.Y, s2.Y))))
	maxY := int(math.Min(float64(height-1), math.Ceil(max3(s0.Y, s1.Y, s2.Y))))

	frags := 0
	var attr attributes
	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float64(x) + 0.5

			w0 := edge(s1, s2, px, py) * invArea
			w1 := edge(s2, s0, px, py) * invArea
			w2 := edge(s0, s1, px, py) * invArea
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			z := w0*s0.Z + w1*s1.Z + w2*s2.Z
			if z > 1 {
				continue // beyond the far plane
			}
			idx := y*width + x
			if state.depthTest && z >= r.zbuffer[idx] {
				continue
			}

			iw := w0*s0.invW + w1*s1.invW + w2*s2.invW
			for k := range attr {
				attr[k] = (w0*s0.attr[k] + w1*s1.attr[k] + w2*s2.attr[k]) / iw
			}

			if state.depthWrite {
				r.zbuffer[idx] = z
			}
			r.fb.Pixels[idx] = shade(&attr)
			frags++
		}
	}
	return frags, false
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
