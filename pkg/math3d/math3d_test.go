package math3d

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestVec3Cross(t *testing.T) {
	tests := []struct {
		name string
		a, b Vec3
		want Vec3
	}{
		{"x cross y", V3(1, 0, 0), V3(0, 1, 0), V3(0, 0, 1)},
		{"y cross z", V3(0, 1, 0), V3(0, 0, 1), V3(1, 0, 0)},
		{"parallel", V3(2, 0, 0), V3(5, 0, 0), Zero3()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cross(tt.b); !got.ApproxEqual(tt.want, eps) {
				t.Errorf("Cross = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVec3NormalizeZero(t *testing.T) {
	if got := Zero3().Normalize(); got != Zero3() {
		t.Errorf("Normalize(0) = %v, want zero", got)
	}
	if l := V3(3, 4, 12).Normalize().Len(); math.Abs(l-1) > eps {
		t.Errorf("normalized length = %v", l)
	}
}

func TestVec3Reflect(t *testing.T) {
	got := V3(1, -1, 0).Reflect(V3(0, 1, 0))
	if !got.ApproxEqual(V3(1, 1, 0), eps) {
		t.Errorf("Reflect = %v, want (1,1,0)", got)
	}
}

func TestVec3Refract(t *testing.T) {
	n := V3(0, 1, 0)

	t.Run("head on passes straight", func(t *testing.T) {
		r, ok := V3(0, -1, 0).Refract(n, 1/1.5)
		if !ok {
			t.Fatal("unexpected total internal reflection")
		}
		if !r.ApproxEqual(V3(0, -1, 0), eps) {
			t.Errorf("Refract = %v", r)
		}
	})

	t.Run("bends toward normal entering glass", func(t *testing.T) {
		in := V3(1, -1, 0).Normalize()
		r, ok := in.Refract(n, 1/1.5)
		if !ok {
			t.Fatal("unexpected total internal reflection")
		}
		if math.Abs(r.Len()-1) > 1e-6 {
			t.Errorf("refracted vector not unit: %v", r.Len())
		}
		if r.X >= in.X {
			t.Errorf("expected bend toward normal, got %v from %v", r, in)
		}
	})

	t.Run("total internal reflection", func(t *testing.T) {
		in := V3(1, -0.1, 0).Normalize()
		if _, ok := in.Refract(n, 1.5); ok {
			t.Error("expected total internal reflection")
		}
	})
}

func TestWrapDegrees(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{5, 5},
		{360, 0},
		{365, 5},
		{-5, 355},
		{-720, 0},
		{725, 5},
	}
	for _, tt := range tests {
		if got := WrapDegrees(tt.in); math.Abs(got-tt.want) > eps {
			t.Errorf("WrapDegrees(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMat4MulOrder(t *testing.T) {
	// Translate after rotating: the rotation acts on the point first.
	m := Translate(V3(10, 0, 0)).Mul(RotateZ(math.Pi / 2))
	got := m.MulVec3(V3(1, 0, 0))
	if !got.ApproxEqual(V3(10, 1, 0), eps) {
		t.Errorf("got %v, want (10,1,0)", got)
	}
}

func TestMat4MulVec3Dir(t *testing.T) {
	m := Translate(V3(5, 5, 5))
	if got := m.MulVec3Dir(V3(0, 1, 0)); !got.ApproxEqual(V3(0, 1, 0), eps) {
		t.Errorf("direction picked up translation: %v", got)
	}
}

func TestMat4Inverse(t *testing.T) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.7)).Mul(Scale(V3(2, 3, 4)))
	if got := m.Mul(m.Inverse()); !got.ApproxEqual(Identity(), 1e-9) {
		t.Errorf("m × m⁻¹ = %v", got)
	}
}

func TestLookAtMapsEyeToOrigin(t *testing.T) {
	eye := V3(0, 0, 3)
	view := LookAt(eye, Zero3(), V3(0, 1, 0))
	if got := view.MulVec3(eye); !got.ApproxEqual(Zero3(), eps) {
		t.Errorf("eye in view space = %v", got)
	}
	// The target sits straight ahead on -Z.
	if got := view.MulVec3(Zero3()); !got.ApproxEqual(V3(0, 0, -3), eps) {
		t.Errorf("target in view space = %v", got)
	}
}

func TestPerspectiveNearFar(t *testing.T) {
	p := Perspective(Radians(45), 1, 0.5, 200)
	near := p.MulVec4(V4(0, 0, -0.5, 1)).PerspectiveDivide()
	far := p.MulVec4(V4(0, 0, -200, 1)).PerspectiveDivide()
	if math.Abs(near.Z+1) > 1e-9 {
		t.Errorf("near plane maps to z=%v, want -1", near.Z)
	}
	if math.Abs(far.Z-1) > 1e-9 {
		t.Errorf("far plane maps to z=%v, want 1", far.Z)
	}
}

func TestMat3Inverse(t *testing.T) {
	m := RotateX(0.3).Mul(Scale(V3(2, 1, 0.5))).Upper3()
	inv, ok := m.Inverse()
	if !ok {
		t.Fatal("expected invertible matrix")
	}
	if got := m.Mul(inv); !got.ApproxEqual(Identity3(), 1e-9) {
		t.Errorf("m × m⁻¹ = %v", got)
	}

	if _, ok := Scale(V3(1, 0, 1)).Upper3().Inverse(); ok {
		t.Error("expected singular matrix to be rejected")
	}
}

func TestMat3InverseIgnoresOverallScale(t *testing.T) {
	for _, k := range []float64{1e-10, 1e-150, 1e150} {
		m := RotateY(0.7).Mul(Scale(V3(k, k, k))).Upper3()
		inv, ok := m.Inverse()
		if !ok {
			t.Fatalf("scale %g: uniformly scaled rotation rejected as singular", k)
		}
		if got := m.Mul(inv); !got.ApproxEqual(Identity3(), 1e-9) {
			t.Errorf("scale %g: m × m⁻¹ = %v", k, got)
		}
	}
	if _, ok := Scale(V3(1e-150, 0, 1e-150)).Upper3().Inverse(); ok {
		t.Error("expected small singular matrix to be rejected")
	}
}

func TestVec3NormalizeLarge(t *testing.T) {
	tests := []struct {
		name string
		in   Vec3
		want Vec3
	}{
		{"huge", V3(1e300, 1e300, 0), V3(math.Sqrt2/2, math.Sqrt2/2, 0)},
		{"max float", V3(0, -math.MaxFloat64, 0), V3(0, -1, 0)},
		{"tiny", V3(0, 0, 5e-324), V3(0, 0, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			if !got.ApproxEqual(tt.want, 1e-12) {
				t.Errorf("Normalize(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestVec4NearDistance(t *testing.T) {
	if d := V4(0, 0, -1, 1).NearDistance(); d != 0 {
		t.Errorf("point on near plane has distance %v", d)
	}
	if d := V4(0, 0, -2, 1).NearDistance(); d >= 0 {
		t.Errorf("point outside the near plane has distance %v", d)
	}
}
