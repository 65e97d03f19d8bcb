package math3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Mat3 is a column-major 3x3 matrix, used for normal transforms.
type Mat3 [9]float64

// Identity3 returns the 3x3 identity matrix.
func Identity3() Mat3 {
	return Mat3(mgl64.Ident3())
}

// At returns the element at row r, column c.
func (m Mat3) At(r, c int) float64 {
	return m[c*3+r]
}

// Det returns the determinant.
func (m Mat3) Det() float64 {
	return mgl64.Mat3(m).Det()
}

// Transpose returns the transposed matrix.
func (m Mat3) Transpose() Mat3 {
	return Mat3(mgl64.Mat3(m).Transpose())
}

// Inverse returns the inverse of m. ok is false when m is singular.
//
// m is divided by its largest absolute element before the determinant is
// tested, so the singularity check does not depend on the matrix's overall
// scale: inv(k*n) = inv(n)/k.
func (m Mat3) Inverse() (inv Mat3, ok bool) {
	var k float64
	for _, v := range m {
		k = math.Max(k, math.Abs(v))
	}
	if k == 0 || math.IsInf(k, 0) || math.IsNaN(k) {
		return Mat3{}, false
	}
	n := mgl64.Mat3(m).Mul(1 / k)
	if mgl64.FloatEqual(n.Det(), 0) {
		return Mat3{}, false
	}
	inv = Mat3(n.Inv().Mul(1 / k))
	for _, v := range inv {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return Mat3{}, false
		}
	}
	return inv, true
}

// Mul returns m × b.
func (m Mat3) Mul(b Mat3) Mat3 {
	return Mat3(mgl64.Mat3(m).Mul3(mgl64.Mat3(b)))
}

// MulVec3 transforms v.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[3]*v.Y + m[6]*v.Z,
		m[1]*v.X + m[4]*v.Y + m[7]*v.Z,
		m[2]*v.X + m[5]*v.Y + m[8]*v.Z,
	}
}

// ApproxEqual reports whether every element differs by at most eps.
func (m Mat3) ApproxEqual(b Mat3, eps float64) bool {
	for i := range m {
		if math.Abs(m[i]-b[i]) > eps {
			return false
		}
	}
	return true
}
