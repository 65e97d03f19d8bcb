// Package render is the viewer's software rasterizer: framebuffer, depth
// buffer, cubemap textures and the two shader programs (mesh and skybox).
package render

import (
	"math"

	"github.com/taigrr/teapot/pkg/math3d"
)

// Color is an opaque 8-bit RGB color. It implements color.Color.
type Color struct {
	R, G, B uint8
}

// RGB creates a new Color.
func RGB(r, g, b uint8) Color {
	return Color{r, g, b}
}

// Common colors
var (
	ColorBlack = RGB(0, 0, 0)
	ColorWhite = RGB(255, 255, 255)
	ColorRed   = RGB(255, 0, 0)
	ColorGreen = RGB(0, 255, 0)
	ColorBlue  = RGB(0, 0, 255)
)

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

// ColorFromVec3 converts linear [0,1] channels to a Color, clamping out of
// range values.
func ColorFromVec3(v math3d.Vec3) Color {
	return Color{channel(v.X), channel(v.Y), channel(v.Z)}
}

func channel(f float64) uint8 {
	if !(f > 0) {
		return 0
	}
	if f >= 1 {
		return 255
	}
	return uint8(math.Round(f * 255))
}

// Vec3 returns the channels scaled to [0,1].
func (c Color) Vec3() math3d.Vec3 {
	return math3d.V3(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
}

// MultiplyColor scales a color by a factor, clamping to 255.
func MultiplyColor(c Color, f float64) Color {
	return Color{
		uint8(math.Min(255, float64(c.R)*f)),
		uint8(math.Min(255, float64(c.G)*f)),
		uint8(math.Min(255, float64(c.B)*f)),
	}
}

// lerpColor interpolates between two colors.
func lerpColor(a, b Color, t float64) Color {
	return Color{
		uint8(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		uint8(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		uint8(float64(a.B) + (float64(b.B)-float64(a.B))*t),
	}
}
