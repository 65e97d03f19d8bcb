package render

import (
	"image"
	"math"
)

// WrapMode controls texture addressing outside [0,1].
type WrapMode int

const (
	WrapRepeat WrapMode = iota
	WrapClamp
)

// FilterMode controls texel lookup.
type FilterMode int

const (
	FilterNearest FilterMode = iota
	FilterBilinear
)

// Texture is a row-major RGB image with sampling state. V runs bottom to top,
// so V=1 is image row 0.
type Texture struct {
	Width      int
	Height     int
	Pixels     []Color
	WrapU      WrapMode
	WrapV      WrapMode
	FilterMode FilterMode
}

// NewTexture creates a black texture.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// TextureFromImage copies img into a new texture.
func TextureFromImage(img image.Image) *Texture {
	b := img.Bounds()
	tex := NewTexture(b.Dx(), b.Dy())
	for y := 0; y < tex.Height; y++ {
		for x := 0; x < tex.Width; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			tex.Pixels[y*tex.Width+x] = Color{uint8(r >> 8), uint8(g >> 8), uint8(bl >> 8)}
		}
	}
	return tex
}

// GetPixel reads a texel; coordinates are clamped.
func (t *Texture) GetPixel(x, y int) Color {
	x = min(max(x, 0), t.Width-1)
	y = min(max(y, 0), t.Height-1)
	return t.Pixels[y*t.Width+x]
}

// SetPixel writes a texel; out of range coordinates are ignored.
func (t *Texture) SetPixel(x, y int, c Color) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// Sample looks up the texture at (u, v).
func (t *Texture) Sample(u, v float64) Color {
	if t.Width == 0 || t.Height == 0 {
		return ColorBlack
	}
	u = wrap(u, t.WrapU)
	v = wrap(v, t.WrapV)

	fx := u * float64(t.Width)
	fy := (1 - v) * float64(t.Height)

	if t.FilterMode == FilterNearest {
		return t.GetPixel(int(fx), int(fy))
	}

	fx -= 0.5
	fy -= 0.5
	x0, y0 := int(math.Floor(fx)), int(math.Floor(fy))
	tx, ty := fx-float64(x0), fy-float64(y0)

	top := lerpColor(t.GetPixel(x0, y0), t.GetPixel(x0+1, y0), tx)
	bottom := lerpColor(t.GetPixel(x0, y0+1), t.GetPixel(x0+1, y0+1), tx)
	return lerpColor(top, bottom, ty)
}

func wrap(f float64, mode WrapMode) float64 {
	if mode == WrapClamp {
		return math.Min(math.Max(f, 0), math.Nextafter(1, 0))
	}
	f -= math.Floor(f)
	return f
}
