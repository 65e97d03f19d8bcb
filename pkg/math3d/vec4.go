package math3d

// Vec4 is a homogeneous coordinate, used for clip-space positions.
type Vec4 struct {
	X, Y, Z, W float64
}

// V4 creates a new Vec4.
func V4(x, y, z, w float64) Vec4 {
	return Vec4{x, y, z, w}
}

// Point returns p as a homogeneous point (W = 1).
func Point(p Vec3) Vec4 {
	return Vec4{p.X, p.Y, p.Z, 1}
}

// Vec3 drops W.
func (v Vec4) Vec3() Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

// PerspectiveDivide returns the normalized device coordinates of a clip-space
// position. W must be non-zero; clip against the near plane first.
func (v Vec4) PerspectiveDivide() Vec3 {
	inv := 1 / v.W
	return Vec3{v.X * inv, v.Y * inv, v.Z * inv}
}

// Lerp linearly interpolates all four components.
func (v Vec4) Lerp(b Vec4, t float64) Vec4 {
	return Vec4{
		v.X + (b.X-v.X)*t,
		v.Y + (b.Y-v.Y)*t,
		v.Z + (b.Z-v.Z)*t,
		v.W + (b.W-v.W)*t,
	}
}

// NearDistance is the signed distance to the OpenGL near clip plane
// (z = -w). It is non-negative for points on the visible side.
func (v Vec4) NearDistance() float64 {
	return v.Z + v.W
}
