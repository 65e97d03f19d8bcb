package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/taigrr/teapot/pkg/math3d"
)

// EffectMode selects how the mesh surface is shaded. The numeric values are
// the ones the mesh program receives.
type EffectMode int

const (
	EffectMirror EffectMode = 0 // reflect the environment
	EffectGlass  EffectMode = 1 // refract the environment
	EffectPhong  EffectMode = 2 // plain lighting
)

var effectNames = map[EffectMode]string{
	EffectMirror: "mirror",
	EffectGlass:  "glass",
	EffectPhong:  "phong",
}

func (m EffectMode) String() string {
	if name, ok := effectNames[m]; ok {
		return name
	}
	return fmt.Sprintf("effect(%d)", int(m))
}

// Next cycles phong -> mirror -> glass -> phong.
func (m EffectMode) Next() EffectMode {
	switch m {
	case EffectPhong:
		return EffectMirror
	case EffectMirror:
		return EffectGlass
	default:
		return EffectPhong
	}
}

// ParseEffectMode accepts the mode names, case-insensitively.
func ParseEffectMode(s string) (EffectMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for m, name := range effectNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown effect mode %q (want phong, mirror or glass)", s)
}

// Light is a point light. Position is in view coordinates, so the light
// moves with the camera.
type Light struct {
	Position math3d.Vec3
	Ambient  math3d.Vec3
	Diffuse  math3d.Vec3
	Specular math3d.Vec3
}

// Material holds Phong reflectance coefficients.
type Material struct {
	Ambient   math3d.Vec3
	Diffuse   math3d.Vec3
	Specular  math3d.Vec3
	Shininess float64
}

// DefaultLight is a white diffuse light above and in front of the eye.
func DefaultLight() Light {
	return Light{
		Position: math3d.V3(0, 3, 3),
		Ambient:  math3d.Zero3(),
		Diffuse:  math3d.V3(1, 1, 1),
		Specular: math3d.Zero3(),
	}
}

// DefaultMaterial is a matte gold.
func DefaultMaterial() Material {
	return Material{
		Ambient:   math3d.V3(1, 1, 1),
		Diffuse:   math3d.V3(205.0/255, 163.0/255, 63.0/255),
		Specular:  math3d.Zero3(),
		Shininess: 23,
	}
}

// Phong lights a view-space point with the given surface normal.
func (l Light) Phong(pos, normal math3d.Vec3, m Material) math3d.Vec3 {
	n := normal.Normalize()
	toLight := l.Position.Sub(pos).Normalize()
	toEye := pos.Negate().Normalize()

	color := l.Ambient.Mul(m.Ambient)

	diffuse := n.Dot(toLight)
	if diffuse <= 0 {
		return color
	}
	color = color.Add(l.Diffuse.Mul(m.Diffuse).Scale(diffuse))

	r := toLight.Negate().Reflect(n)
	if spec := r.Dot(toEye); spec > 0 && m.Shininess > 0 {
		color = color.Add(l.Specular.Mul(m.Specular).Scale(math.Pow(spec, m.Shininess)))
	}
	return color
}
