package math3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Mat4 is a 4x4 matrix stored in column-major order, the layout used by
// OpenGL and mgl64: element (row r, col c) lives at index c*4+r.
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4(mgl64.Ident4())
}

// Mgl returns the matrix as an mgl64.Mat4.
func (m Mat4) Mgl() mgl64.Mat4 {
	return mgl64.Mat4(m)
}

// At returns the element at row r, column c.
func (m Mat4) At(r, c int) float64 {
	return m[c*4+r]
}

// Mul returns m × b. Applied to a vector, b acts first.
func (m Mat4) Mul(b Mat4) Mat4 {
	return Mat4(mgl64.Mat4(m).Mul4(mgl64.Mat4(b)))
}

// MulVec4 transforms a homogeneous vector.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

// MulVec3 transforms a point (W = 1) and drops W without dividing.
func (m Mat4) MulVec3(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12],
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13],
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14],
	}
}

// MulVec3Dir transforms a direction (W = 0).
func (m Mat4) MulVec3Dir(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z,
	}
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	return Mat4(mgl64.Mat4(m).Transpose())
}

// Inverse returns the inverse, or the zero matrix when m is singular.
func (m Mat4) Inverse() Mat4 {
	return Mat4(mgl64.Mat4(m).Inv())
}

// Upper3 returns the upper-left 3x3 block.
func (m Mat4) Upper3() Mat3 {
	return Mat3(mgl64.Mat4(m).Mat3())
}

// ApproxEqual reports whether every element differs by at most eps.
func (m Mat4) ApproxEqual(b Mat4, eps float64) bool {
	for i := range m {
		if math.Abs(m[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

// Translate returns a translation matrix.
func Translate(v Vec3) Mat4 {
	return Mat4(mgl64.Translate3D(v.X, v.Y, v.Z))
}

// Scale returns a scaling matrix.
func Scale(v Vec3) Mat4 {
	return Mat4(mgl64.Scale3D(v.X, v.Y, v.Z))
}

// RotateX returns a rotation about the X axis by angle radians.
func RotateX(angle float64) Mat4 {
	return Mat4(mgl64.HomogRotate3DX(angle))
}

// RotateY returns a rotation about the Y axis by angle radians.
func RotateY(angle float64) Mat4 {
	return Mat4(mgl64.HomogRotate3DY(angle))
}

// RotateZ returns a rotation about the Z axis by angle radians.
func RotateZ(angle float64) Mat4 {
	return Mat4(mgl64.HomogRotate3DZ(angle))
}

// Perspective returns an OpenGL-style projection. fovY is in radians.
func Perspective(fovY, aspect, near, far float64) Mat4 {
	return Mat4(mgl64.Perspective(fovY, aspect, near, far))
}

// LookAt returns a right-handed view matrix looking from eye toward target.
func LookAt(eye, target, up Vec3) Mat4 {
	return Mat4(mgl64.LookAtV(eye.Mgl(), target.Mgl(), up.Mgl()))
}
