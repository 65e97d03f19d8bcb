package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/teapot/pkg/math3d"
)

// ErrShaderSetup means a shader program could not be created. Nothing can
// be drawn without both programs, so callers treat it as fatal.
var ErrShaderSetup = errors.New("shader program setup failed")

// DefaultRefractionRatio is air to glass.
const DefaultRefractionRatio = 1 / 1.5

// MeshUniforms are the per-frame inputs of the mesh program.
type MeshUniforms struct {
	ModelView   math3d.Mat4
	Projection  math3d.Mat4
	Normal      math3d.Mat3
	ViewToWorld math3d.Mat3
	Light       Light
	Material    Material
	Mode        EffectMode
	Environment *Cubemap
}

// SkyboxUniforms are the per-frame inputs of the skybox program.
type SkyboxUniforms struct {
	View        math3d.Mat4
	Projection  math3d.Mat4
	Environment *Cubemap
}

// MeshShader colors one fragment of the mesh. pos and normal are
// interpolated view-space values; normal is not renormalized.
type MeshShader interface {
	Validate() error
	ShadeMesh(pos, normal math3d.Vec3, u *MeshUniforms) Color
}

// SkyboxShader colors one fragment of the skybox seen along a world-space
// direction.
type SkyboxShader interface {
	Validate() error
	ShadeSky(dir math3d.Vec3, u *SkyboxUniforms) Color
}

// MeshProgram binds a MeshShader to its uniforms.
type MeshProgram struct {
	shader   MeshShader
	Uniforms MeshUniforms
}

// NewMeshProgram validates shader and wraps it in a program.
func NewMeshProgram(shader MeshShader) (*MeshProgram, error) {
	if shader == nil {
		return nil, fmt.Errorf("%w: mesh shader is nil", ErrShaderSetup)
	}
	if err := shader.Validate(); err != nil {
		return nil, fmt.Errorf("%w: mesh: %w", ErrShaderSetup, err)
	}
	return &MeshProgram{shader: shader}, nil
}

// SkyboxProgram binds a SkyboxShader to its uniforms.
type SkyboxProgram struct {
	shader   SkyboxShader
	Uniforms SkyboxUniforms
}

// NewSkyboxProgram validates shader and wraps it in a program.
func NewSkyboxProgram(shader SkyboxShader) (*SkyboxProgram, error) {
	if shader == nil {
		return nil, fmt.Errorf("%w: skybox shader is nil", ErrShaderSetup)
	}
	if err := shader.Validate(); err != nil {
		return nil, fmt.Errorf("%w: skybox: %w", ErrShaderSetup, err)
	}
	return &SkyboxProgram{shader: shader}, nil
}

// SurfaceShader is the default mesh shader: Phong lighting, or an
// environment lookup along the reflected or refracted view ray.
type SurfaceShader struct {
	RefractionRatio float64
}

// NewSurfaceShader returns a SurfaceShader for air to glass.
func NewSurfaceShader() *SurfaceShader {
	return &SurfaceShader{RefractionRatio: DefaultRefractionRatio}
}

func (s *SurfaceShader) Validate() error {
	if !(s.RefractionRatio > 0) || math.IsInf(s.RefractionRatio, 0) {
		return fmt.Errorf("refraction ratio %v must be positive and finite", s.RefractionRatio)
	}
	return nil
}

func (s *SurfaceShader) ShadeMesh(pos, normal math3d.Vec3, u *MeshUniforms) Color {
	if u.Mode == EffectPhong || u.Environment == nil {
		return ColorFromVec3(u.Light.Phong(pos, normal, u.Material))
	}

	n := normal.Normalize()
	incident := pos.Normalize()

	var dir math3d.Vec3
	switch u.Mode {
	case EffectGlass:
		r, ok := incident.Refract(n, s.RefractionRatio)
		if !ok {
			r = incident.Reflect(n)
		}
		dir = r
	default:
		dir = incident.Reflect(n)
	}
	return u.Environment.Sample(u.ViewToWorld.MulVec3(dir))
}

// EnvironmentShader is the default skybox shader.
type EnvironmentShader struct{}

func (EnvironmentShader) Validate() error { return nil }

func (EnvironmentShader) ShadeSky(dir math3d.Vec3, u *SkyboxUniforms) Color {
	if u.Environment == nil {
		return ColorBlack
	}
	return u.Environment.Sample(dir)
}
