package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/taigrr/teapot/pkg/math3d"
)

func solidImage(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestSelectFace(t *testing.T) {
	tests := []struct {
		dir  math3d.Vec3
		want CubeFace
	}{
		{math3d.V3(1, 0.2, -0.3), PosX},
		{math3d.V3(-1, 0.2, 0.3), NegX},
		{math3d.V3(0.1, 5, 0.3), PosY},
		{math3d.V3(0.1, -5, 0.3), NegY},
		{math3d.V3(0.1, 0.2, 3), PosZ},
		{math3d.V3(0.1, 0.2, -3), NegZ},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			f, s, tc := selectFace(tt.dir)
			if f != tt.want {
				t.Errorf("face = %v, want %v", f, tt.want)
			}
			if s < 0 || s > 1 || tc < 0 || tc > 1 {
				t.Errorf("coordinates out of range: %v, %v", s, tc)
			}
		})
	}
}

func TestFaceDirectionRoundTrip(t *testing.T) {
	for f := range CubeFace(NumFaces) {
		for _, st := range [][2]float64{{0.1, 0.2}, {0.5, 0.5}, {0.9, 0.7}} {
			dir := faceDirection(f, st[0], st[1])
			gotF, s, tc := selectFace(dir)
			if gotF != f {
				t.Errorf("%v (%v): selected %v", f, st, gotF)
				continue
			}
			if d := (s-st[0])*(s-st[0]) + (tc-st[1])*(tc-st[1]); d > 1e-18 {
				t.Errorf("%v: (%v,%v) round-tripped to (%v,%v)", f, st[0], st[1], s, tc)
			}
		}
	}
}

func TestCubemapFaceImageOrientation(t *testing.T) {
	// Top row red, bottom row blue on +Z: looking up along +Z hits red.
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 2; y++ {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
			img.Set(x, y+2, color.RGBA{B: 255, A: 255})
		}
	}
	c := NewCubemap(4)
	if err := c.SetFace(PosZ, img); err != nil {
		t.Fatal(err)
	}
	if got := c.Sample(math3d.V3(0, 0.5, 1)); got != ColorRed {
		t.Errorf("upper +Z = %v, want red", got)
	}
	if got := c.Sample(math3d.V3(0, -0.5, 1)); got != ColorBlue {
		t.Errorf("lower +Z = %v, want blue", got)
	}
}

func TestCubemapSetFaceIsolated(t *testing.T) {
	c := NewCubemap(8)
	before := c.Sample(math3d.V3(1, 0, 0))

	if err := c.SetFace(NegZ, solidImage(16, 16, color.RGBA{G: 255, A: 255})); err != nil {
		t.Fatal(err)
	}
	if got := c.Sample(math3d.V3(0, 0, -1)); got != ColorGreen {
		t.Errorf("-Z = %v, want green", got)
	}
	if got := c.Sample(math3d.V3(1, 0, 0)); got != before {
		t.Errorf("+X changed from %v to %v", before, got)
	}
	if !c.FaceLoaded(NegZ) || c.FaceLoaded(PosX) {
		t.Error("loaded flags wrong")
	}
	if c.LoadedCount() != 1 {
		t.Errorf("LoadedCount = %d", c.LoadedCount())
	}
	if c.Face(NegZ).Width != 8 {
		t.Errorf("face not resampled to cubemap size: %d", c.Face(NegZ).Width)
	}
}

func TestCubemapSetFaceErrors(t *testing.T) {
	c := NewCubemap(4)
	if err := c.SetFace(CubeFace(9), solidImage(1, 1, color.White)); err == nil {
		t.Error("accepted invalid face")
	}
	if err := c.SetFace(PosX, nil); err == nil {
		t.Error("accepted nil image")
	}
	if err := c.SetFace(PosX, image.NewRGBA(image.Rect(0, 0, 0, 0))); err == nil {
		t.Error("accepted empty image")
	}
}

func TestPlaceholderSky(t *testing.T) {
	c := NewCubemap(16)
	up := c.Sample(math3d.V3(0, 1, 0))
	down := c.Sample(math3d.V3(0, -1, 0))
	if up.B <= up.R {
		t.Errorf("zenith %v is not blue", up)
	}
	if down == up {
		t.Error("ground and sky share a color")
	}
}

func TestParseCubeFace(t *testing.T) {
	for f := range CubeFace(NumFaces) {
		got, ok := ParseCubeFace(f.String())
		if !ok || got != f {
			t.Errorf("ParseCubeFace(%q) = %v, %v", f.String(), got, ok)
		}
	}
	if _, ok := ParseCubeFace("up"); ok {
		t.Error("accepted unknown face name")
	}
}
