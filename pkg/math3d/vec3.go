// Package math3d provides the small vector and matrix types used by the
// viewer. Matrices are column-major and share their memory layout with
// mgl64, so conversions are free.
package math3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 represents a 3D vector or point.
type Vec3 struct {
	X, Y, Z float64
}

// V3 creates a new Vec3.
func V3(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

// Zero3 returns the zero vector.
func Zero3() Vec3 {
	return Vec3{}
}

// V3FromMgl converts an mgl64 vector.
func V3FromMgl(v mgl64.Vec3) Vec3 {
	return Vec3{v[0], v[1], v[2]}
}

// Mgl returns the vector as an mgl64.Vec3.
func (v Vec3) Mgl() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// Add returns the vector sum.
func (v Vec3) Add(b Vec3) Vec3 {
	return Vec3{v.X + b.X, v.Y + b.Y, v.Z + b.Z}
}

// Sub returns the vector difference.
func (v Vec3) Sub(b Vec3) Vec3 {
	return Vec3{v.X - b.X, v.Y - b.Y, v.Z - b.Z}
}

// Scale returns the scalar product.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Mul returns the component-wise product.
func (v Vec3) Mul(b Vec3) Vec3 {
	return Vec3{v.X * b.X, v.Y * b.Y, v.Z * b.Z}
}

// Negate returns -v.
func (v Vec3) Negate() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// Dot returns the dot product.
func (v Vec3) Dot(b Vec3) float64 {
	return v.X*b.X + v.Y*b.Y + v.Z*b.Z
}

// Cross returns the cross product v × b.
func (v Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		v.Y*b.Z - v.Z*b.Y,
		v.Z*b.X - v.X*b.Z,
		v.X*b.Y - v.Y*b.X,
	}
}

// LenSq returns the squared length.
func (v Vec3) LenSq() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Len returns the length.
func (v Vec3) Len() float64 {
	return math.Sqrt(v.LenSq())
}

// Normalize returns a unit vector in the same direction.
// The zero vector is returned unchanged. Components are brought into
// [-1, 1] before the length is taken, so very large vectors do not
// overflow.
func (v Vec3) Normalize() Vec3 {
	m := v.MaxAbs()
	if m == 0 || math.IsInf(m, 0) || math.IsNaN(m) {
		return v
	}
	v = Vec3{v.X / m, v.Y / m, v.Z / m}
	l := v.Len()
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}

// MaxAbs returns the largest absolute component.
func (v Vec3) MaxAbs() float64 {
	return math.Max(math.Abs(v.X), math.Max(math.Abs(v.Y), math.Abs(v.Z)))
}

// IsFinite reports whether no component is infinite or NaN.
func (v Vec3) IsFinite() bool {
	return !math.IsInf(v.X, 0) && !math.IsNaN(v.X) &&
		!math.IsInf(v.Y, 0) && !math.IsNaN(v.Y) &&
		!math.IsInf(v.Z, 0) && !math.IsNaN(v.Z)
}

// Lerp linearly interpolates between v and b.
func (v Vec3) Lerp(b Vec3, t float64) Vec3 {
	return Vec3{
		v.X + (b.X-v.X)*t,
		v.Y + (b.Y-v.Y)*t,
		v.Z + (b.Z-v.Z)*t,
	}
}

// Min returns the component-wise minimum.
func (v Vec3) Min(b Vec3) Vec3 {
	return Vec3{math.Min(v.X, b.X), math.Min(v.Y, b.Y), math.Min(v.Z, b.Z)}
}

// Max returns the component-wise maximum.
func (v Vec3) Max(b Vec3) Vec3 {
	return Vec3{math.Max(v.X, b.X), math.Max(v.Y, b.Y), math.Max(v.Z, b.Z)}
}

// MaxComponent returns the largest of X, Y and Z.
func (v Vec3) MaxComponent() float64 {
	return math.Max(v.X, math.Max(v.Y, v.Z))
}

// Reflect reflects the incident vector v about the unit normal n.
func (v Vec3) Reflect(n Vec3) Vec3 {
	return v.Sub(n.Scale(2 * v.Dot(n)))
}

// Refract bends the unit incident vector v through a surface with unit
// normal n, where eta is the ratio of refractive indices. ok is false on
// total internal reflection.
func (v Vec3) Refract(n Vec3, eta float64) (r Vec3, ok bool) {
	cosI := v.Dot(n)
	k := 1 - eta*eta*(1-cosI*cosI)
	if k < 0 {
		return Vec3{}, false
	}
	return v.Scale(eta).Sub(n.Scale(eta*cosI + math.Sqrt(k))), true
}

// ApproxEqual reports whether all components differ by at most eps.
func (v Vec3) ApproxEqual(b Vec3, eps float64) bool {
	return math.Abs(v.X-b.X) <= eps &&
		math.Abs(v.Y-b.Y) <= eps &&
		math.Abs(v.Z-b.Z) <= eps
}
