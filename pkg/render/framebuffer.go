package render

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
)

// Framebuffer is a row-major color buffer.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []Color
	BG     Color // Clear color
}

// NewFramebuffer creates a framebuffer cleared to black.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// Resize changes the dimensions and clears the buffer.
func (fb *Framebuffer) Resize(width, height int) {
	fb.Width = width
	fb.Height = height
	if cap(fb.Pixels) >= width*height {
		fb.Pixels = fb.Pixels[:width*height]
	} else {
		fb.Pixels = make([]Color, width*height)
	}
	fb.Clear()
}

// Clear fills the buffer with BG.
func (fb *Framebuffer) Clear() {
	n := len(fb.Pixels)
	if n == 0 {
		return
	}
	fb.Pixels[0] = fb.BG
	for i := 1; i < n; i *= 2 {
		copy(fb.Pixels[i:], fb.Pixels[:i])
	}
}

// SetPixel writes one pixel; out of range coordinates are ignored.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel reads one pixel; out of range coordinates return BG.
func (fb *Framebuffer) GetPixel(x, y int) Color {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return fb.BG
	}
	return fb.Pixels[y*fb.Width+x]
}

// ToImage copies the buffer into an RGBA image.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for i, c := range fb.Pixels {
		o := i * 4
		img.Pix[o] = c.R
		img.Pix[o+1] = c.G
		img.Pix[o+2] = c.B
		img.Pix[o+3] = 255
	}
	return img
}

// WritePNG encodes the buffer as PNG.
func (fb *Framebuffer) WritePNG(w io.Writer) error {
	return png.Encode(w, fb.ToImage())
}

// SavePNG writes the buffer to a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	bw := bufio.NewWriter(f)
	if err := fb.WritePNG(bw); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
