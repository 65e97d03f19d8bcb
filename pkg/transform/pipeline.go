// Package transform builds the per-frame matrices: projection, view, model,
// model-view and the normal matrix. Nothing is cached between frames; every
// output is a pure function of the camera state, the model basis and the
// viewport.
package transform

import (
	"errors"
	"fmt"

	"github.com/taigrr/teapot/pkg/camera"
	"github.com/taigrr/teapot/pkg/math3d"
)

// ErrSingular means the model-view matrix has no inverse, so normals cannot
// be transformed. Valid camera state never produces it.
var ErrSingular = errors.New("model-view matrix is singular")

// Projection holds the fixed perspective parameters.
type Projection struct {
	FovY float64 // vertical field of view in degrees
	Near float64
	Far  float64
}

// DefaultProjection is a 45° frustum from 0.5 to 200 units.
func DefaultProjection() Projection {
	return Projection{FovY: 45, Near: 0.5, Far: 200}
}

// Transforms is one frame's worth of matrices.
type Transforms struct {
	Model      math3d.Mat4
	View       math3d.Mat4
	Projection math3d.Mat4
	ModelView  math3d.Mat4
	Normal     math3d.Mat3

	// ViewToWorld rotates view-space directions back into world space, for
	// environment lookups.
	ViewToWorld math3d.Mat3
}

// Pipeline computes Transforms for a viewport.
type Pipeline struct {
	proj   Projection
	width  int
	height int
}

// New creates a pipeline for a width x height viewport.
func New(proj Projection, width, height int) *Pipeline {
	p := &Pipeline{proj: proj}
	p.SetViewport(width, height)
	return p
}

// SetViewport updates the surface size used for the aspect ratio.
func (p *Pipeline) SetViewport(width, height int) {
	p.width = max(width, 1)
	p.height = max(height, 1)
}

// Aspect returns width / height.
func (p *Pipeline) Aspect() float64 {
	return float64(p.width) / float64(p.height)
}

// Projection returns the fixed projection parameters.
func (p *Pipeline) Projection() Projection {
	return p.proj
}

// ProjectionMatrix builds the perspective matrix for the current viewport.
func (p *Pipeline) ProjectionMatrix() math3d.Mat4 {
	return math3d.Perspective(math3d.Radians(p.proj.FovY), p.Aspect(), p.proj.Near, p.proj.Far)
}

// Compute builds every matrix for one frame. basis is the object-space
// transform applied before orientation (see models.Store.ModelBasis).
//
// A singular model-view matrix is a precondition violation and panics.
func (p *Pipeline) Compute(s camera.State, basis math3d.Mat4) Transforms {
	view := ViewMatrix(s)
	model := ModelMatrix(s.Yaw, s.Pitch, basis)
	mv := view.Mul(model)

	normal, err := NormalMatrix(mv)
	if err != nil {
		panic(fmt.Errorf("transform: %w", err))
	}

	return Transforms{
		Model:       model,
		View:        view,
		Projection:  p.ProjectionMatrix(),
		ModelView:   mv,
		Normal:      normal,
		ViewToWorld: view.Upper3().Transpose(),
	}
}

// ViewMatrix is the look-at matrix for the camera placement.
func ViewMatrix(s camera.State) math3d.Mat4 {
	return math3d.LookAt(s.Eye, s.Target, s.Up)
}

// ModelMatrix applies basis, then pitch about X, then yaw about Y. Angles
// are in degrees.
func ModelMatrix(yaw, pitch float64, basis math3d.Mat4) math3d.Mat4 {
	return math3d.RotateY(math3d.Radians(yaw)).
		Mul(math3d.RotateX(math3d.Radians(pitch))).
		Mul(basis)
}

// NormalMatrix returns the inverse-transpose of the upper-left 3x3 block of
// mv.
func NormalMatrix(mv math3d.Mat4) (math3d.Mat3, error) {
	inv, ok := mv.Upper3().Inverse()
	if !ok {
		return math3d.Mat3{}, ErrSingular
	}
	return inv.Transpose(), nil
}
