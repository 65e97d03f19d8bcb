package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/taigrr/teapot/pkg/math3d"
)

func TestNewTexture(t *testing.T) {
	tex := NewTexture(64, 64)
	if tex.Width != 64 || tex.Height != 64 {
		t.Errorf("Expected 64x64, got %dx%d", tex.Width, tex.Height)
	}
	if len(tex.Pixels) != 64*64 {
		t.Errorf("Expected %d pixels, got %d", 64*64, len(tex.Pixels))
	}
}

func TestTextureFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(5, 5, 7, 6))
	img.Set(5, 5, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	img.Set(6, 5, color.NRGBA{R: 200, A: 255})

	tex := TextureFromImage(img)
	if tex.Width != 2 || tex.Height != 1 {
		t.Fatalf("size = %dx%d", tex.Width, tex.Height)
	}
	if got := tex.GetPixel(0, 0); got != RGB(10, 20, 30) {
		t.Errorf("texel (0,0) = %v", got)
	}
	if got := tex.GetPixel(1, 0); got != RGB(200, 0, 0) {
		t.Errorf("texel (1,0) = %v", got)
	}
}

func TestTextureSampleNearest(t *testing.T) {
	tex := NewTexture(2, 2)
	tex.SetPixel(0, 0, RGB(255, 0, 0))   // Red at top-left
	tex.SetPixel(1, 0, RGB(0, 255, 0))   // Green at top-right
	tex.SetPixel(0, 1, RGB(0, 0, 255))   // Blue at bottom-left
	tex.SetPixel(1, 1, RGB(255, 255, 0)) // Yellow at bottom-right
	tex.FilterMode = FilterNearest
	// Sample corners (V is flipped, so V=1 is image Y=0)
	tests := []struct {
		u, v     float64
		expected Color
		name     string
	}{
		{0.01, 0.99, RGB(255, 0, 0), "top-left (red)"},
		{0.99, 0.99, RGB(0, 255, 0), "top-right (green)"},
		{0.01, 0.01, RGB(0, 0, 255), "bottom-left (blue)"},
		{0.99, 0.01, RGB(255, 255, 0), "bottom-right (yellow)"},
	}
	for _, tt := range tests {
		c := tex.Sample(tt.u, tt.v)
		if c != tt.expected {
			t.Errorf("Sample(%v, %v) = %v, want %v (%s)", tt.u, tt.v, c, tt.expected, tt.name)
		}
	}
}

func TestTextureWrapRepeat(t *testing.T) {
	tex := NewTexture(2, 2)
	tex.SetPixel(0, 0, RGB(255, 0, 0))
	tex.WrapU = WrapRepeat
	tex.WrapV = WrapRepeat
	tex.FilterMode = FilterNearest
	// U=1.01 should wrap to U=0.01
	c1 := tex.Sample(0.01, 0.99)
	c2 := tex.Sample(1.01, 0.99)
	if c1 != c2 {
		t.Errorf("Wrap repeat failed: Sample(0.01, 0.99)=%v != Sample(1.01, 0.99)=%v", c1, c2)
	}
}

func TestTextureWrapClamp(t *testing.T) {
	tex := NewTexture(2, 2)
	tex.SetPixel(0, 0, RGB(255, 0, 0)) // Red top-left
	tex.SetPixel(1, 0, RGB(0, 255, 0)) // Green top-right
	tex.WrapU = WrapClamp
	tex.WrapV = WrapClamp
	tex.FilterMode = FilterNearest
	c := tex.Sample(-0.5, 0.99)
	if c != RGB(255, 0, 0) {
		t.Errorf("Wrap clamp failed: Sample(-0.5, 0.99)=%v, want red", c)
	}
	c = tex.Sample(1.5, 1.5)
	if c != RGB(0, 255, 0) {
		t.Errorf("Wrap clamp failed: Sample(1.5, 1.5)=%v, want green", c)
	}
}

func TestTextureSampleBilinear(t *testing.T) {
	tex := NewTexture(2, 1)
	tex.SetPixel(0, 0, ColorBlack)
	tex.SetPixel(1, 0, ColorWhite)
	tex.WrapU, tex.WrapV = WrapClamp, WrapClamp
	tex.FilterMode = FilterBilinear

	mid := tex.Sample(0.5, 0.5)
	if mid.R < 120 || mid.R > 135 {
		t.Errorf("bilinear midpoint = %v, want gray", mid)
	}
}

func TestMultiplyColor(t *testing.T) {
	c := RGB(200, 100, 50)
	result := MultiplyColor(c, 0.5)
	if result.R != 100 || result.G != 50 || result.B != 25 {
		t.Errorf("MultiplyColor failed: got %v", result)
	}
	// Test clamping
	result = MultiplyColor(c, 2.0)
	if result.R != 255 {
		t.Errorf("MultiplyColor should clamp to 255, got %d", result.R)
	}
}

func TestLerpColor(t *testing.T) {
	black := RGB(0, 0, 0)
	white := RGB(255, 255, 255)
	mid := lerpColor(black, white, 0.5)
	if mid.R != 127 || mid.G != 127 || mid.B != 127 {
		t.Errorf("lerpColor midpoint = %v, want gray(127)", mid)
	}
	if start := lerpColor(black, white, 0.0); start != black {
		t.Errorf("lerpColor(0.0) = %v, want black", start)
	}
	if end := lerpColor(black, white, 1.0); end != white {
		t.Errorf("lerpColor(1.0) = %v, want white", end)
	}
}

func TestColorFromVec3(t *testing.T) {
	tests := []struct {
		in   math3d.Vec3
		want Color
	}{
		{math3d.V3(0, 0.5, 1), RGB(0, 128, 255)},
		{math3d.V3(-1, 2, 0), RGB(0, 255, 0)},
		{math3d.V3(205.0/255, 163.0/255, 63.0/255), RGB(205, 163, 63)},
	}
	for _, tt := range tests {
		if got := ColorFromVec3(tt.in); got != tt.want {
			t.Errorf("ColorFromVec3(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestColorImplementsColorColor(t *testing.T) {
	var c color.Color = RGB(255, 128, 0)
	r, g, b, a := c.RGBA()
	if r != 0xffff || g != 0x8080 || b != 0 || a != 0xffff {
		t.Errorf("RGBA() = %x %x %x %x", r, g, b, a)
	}
}
