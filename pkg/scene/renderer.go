package scene

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/taigrr/teapot/pkg/models"
	"github.com/taigrr/teapot/pkg/render"
	"github.com/taigrr/teapot/pkg/transform"
)

// Stats describes one rendered frame.
type Stats struct {
	Frame      uint64
	MeshDrawn  bool
	Sky        render.DrawStats
	Mesh       render.DrawStats
	Transforms transform.Transforms
}

// Renderer draws frames of a Scene into a framebuffer.
type Renderer struct {
	fb       *render.Framebuffer
	raster   *render.Rasterizer
	pipeline *transform.Pipeline
	meshProg *render.MeshProgram
	skyProg  *render.SkyboxProgram
	log      *zap.Logger
	frames   uint64
	waiting  bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger; the default discards.
func WithLogger(l *zap.Logger) Option {
	return func(r *Renderer) { r.log = l }
}

// NewRenderer builds both shader programs. Any failure wraps
// render.ErrShaderSetup and nothing can be drawn.
func NewRenderer(fb *render.Framebuffer, pipeline *transform.Pipeline, mesh render.MeshShader, sky render.SkyboxShader, opts ...Option) (*Renderer, error) {
	meshProg, err := render.NewMeshProgram(mesh)
	if err != nil {
		return nil, err
	}
	skyProg, err := render.NewSkyboxProgram(sky)
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		fb:       fb,
		raster:   render.NewRasterizer(fb),
		pipeline: pipeline,
		meshProg: meshProg,
		skyProg:  skyProg,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	pipeline.SetViewport(fb.Width, fb.Height)
	return r, nil
}

// NewDefaultRenderer uses the built-in surface and environment shaders.
func NewDefaultRenderer(fb *render.Framebuffer, pipeline *transform.Pipeline, refraction float64, opts ...Option) (*Renderer, error) {
	return NewRenderer(fb, pipeline, &render.SurfaceShader{RefractionRatio: refraction}, render.EnvironmentShader{}, opts...)
}

// Framebuffer returns the render target.
func (r *Renderer) Framebuffer() *render.Framebuffer {
	return r.fb
}

// Resize changes the framebuffer and viewport size.
func (r *Renderer) Resize(width, height int) {
	r.fb.Resize(width, height)
	r.raster.Resize()
	r.pipeline.SetViewport(width, height)
}

// SetBackfaceCulling toggles culling of mesh triangles facing away.
func (r *Renderer) SetBackfaceCulling(on bool) {
	r.raster.DisableBackfaceCulling = !on
}

// RenderFrame draws one frame: clear, transforms, skybox, then the mesh if
// it has loaded. An unloaded or failed mesh only skips the mesh draw.
func (r *Renderer) RenderFrame(s *Scene) Stats {
	r.frames++
	stats := Stats{Frame: r.frames}

	r.fb.Clear()
	r.raster.ClearDepth()
	r.raster.ResetStats()

	tr := r.pipeline.Compute(s.Camera.View(), s.Mesh.ModelBasis())
	stats.Transforms = tr

	sky := &r.skyProg.Uniforms
	sky.View = tr.View
	sky.Projection = tr.Projection
	sky.Environment = s.Environment
	stats.Sky = r.raster.DrawSkybox(s.Skybox, r.skyProg)

	stats.MeshDrawn = s.Mesh.DrawTriangles(func(m *models.Mesh) {
		u := &r.meshProg.Uniforms
		u.ModelView = tr.ModelView
		u.Projection = tr.Projection
		u.Normal = tr.Normal
		u.ViewToWorld = tr.ViewToWorld
		u.Light = s.Light
		u.Material = s.Material
		u.Mode = s.Mode
		u.Environment = s.Environment
		stats.Mesh = r.raster.DrawMesh(m, r.meshProg)
	})

	if !stats.MeshDrawn && !r.waiting {
		r.waiting = true
		r.log.Debug("drawing skybox only", zap.Stringer("mesh", s.Mesh))
	} else if stats.MeshDrawn && r.waiting {
		r.waiting = false
		r.log.Debug("mesh visible", zap.Uint64("frame", r.frames))
	}
	return stats
}

func (s Stats) String() string {
	return fmt.Sprintf("frame %d: sky %d px, mesh drawn=%v %d px (%d culled)",
		s.Frame, s.Sky.Fragments, s.MeshDrawn, s.Mesh.Fragments, s.Mesh.Culled)
}
