package render

import (
	"fmt"
	"image"
	"math"

	"github.com/taigrr/teapot/pkg/math3d"
)

// CubeFace identifies one side of a cubemap.
type CubeFace int

const (
	PosX CubeFace = iota
	NegX
	PosY
	NegY
	PosZ
	NegZ
)

// NumFaces is the number of cubemap faces.
const NumFaces = 6

var faceNames = [NumFaces]string{"pos-x", "neg-x", "pos-y", "neg-y", "pos-z", "neg-z"}

func (f CubeFace) String() string {
	if f < 0 || f >= NumFaces {
		return fmt.Sprintf("face(%d)", int(f))
	}
	return faceNames[f]
}

// ParseCubeFace maps names like "pos-x" back to a face.
func ParseCubeFace(s string) (CubeFace, bool) {
	for i, name := range faceNames {
		if name == s {
			return CubeFace(i), true
		}
	}
	return 0, false
}

// Sky colors used for placeholder faces.
var (
	skyZenith  = RGB(38, 84, 160)
	skyHorizon = RGB(196, 214, 236)
	skyGround  = RGB(62, 56, 50)
)

// Cubemap is six square textures addressed by direction, following the
// OpenGL face selection rules. Faces start as a procedural sky so the
// environment is never empty; SetFace replaces exactly one face.
type Cubemap struct {
	size   int
	faces  [NumFaces]*Texture
	loaded [NumFaces]bool
}

// NewCubemap creates a cubemap of size x size faces filled with the
// placeholder sky.
func NewCubemap(size int) *Cubemap {
	size = max(size, 1)
	c := &Cubemap{size: size}
	for f := range CubeFace(NumFaces) {
		tex := NewTexture(size, size)
		tex.WrapU, tex.WrapV = WrapClamp, WrapClamp
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				s := (float64(x) + 0.5) / float64(size)
				t := (float64(y) + 0.5) / float64(size)
				tex.SetPixel(x, y, skyColor(faceDirection(f, s, t)))
			}
		}
		c.faces[f] = tex
	}
	return c
}

// Size returns the face edge length in texels.
func (c *Cubemap) Size() int {
	return c.size
}

// SetFilter sets the filter mode of every face.
func (c *Cubemap) SetFilter(mode FilterMode) {
	for _, tex := range c.faces {
		tex.FilterMode = mode
	}
}

// SetFace replaces one face with img, resampled to the cubemap size if
// needed.
func (c *Cubemap) SetFace(f CubeFace, img image.Image) error {
	if f < 0 || f >= NumFaces {
		return fmt.Errorf("invalid cube face %d", int(f))
	}
	if img == nil || img.Bounds().Empty() {
		return fmt.Errorf("cube face %s: empty image", f)
	}

	src := TextureFromImage(img)
	tex := NewTexture(c.size, c.size)
	tex.WrapU, tex.WrapV = WrapClamp, WrapClamp
	tex.FilterMode = c.faces[f].FilterMode
	for y := 0; y < c.size; y++ {
		for x := 0; x < c.size; x++ {
			tex.SetPixel(x, y, src.GetPixel(x*src.Width/c.size, y*src.Height/c.size))
		}
	}
	c.faces[f] = tex
	c.loaded[f] = true
	return nil
}

// Face returns the texture backing f.
func (c *Cubemap) Face(f CubeFace) *Texture {
	return c.faces[f]
}

// FaceLoaded reports whether f holds a loaded image.
func (c *Cubemap) FaceLoaded(f CubeFace) bool {
	return c.loaded[f]
}

// LoadedCount returns how many faces hold loaded images.
func (c *Cubemap) LoadedCount() int {
	n := 0
	for _, l := range c.loaded {
		if l {
			n++
		}
	}
	return n
}

// Sample returns the environment color seen along dir.
func (c *Cubemap) Sample(dir math3d.Vec3) Color {
	f, s, t := selectFace(dir)
	// Texture V runs bottom-up while t runs top-down.
	return c.faces[f].Sample(s, 1-t)
}

// selectFace picks the face hit by dir and the (s, t) coordinates on it,
// with t = 0 at the top row of the face image.
func selectFace(d math3d.Vec3) (f CubeFace, s, t float64) {
	ax, ay, az := math.Abs(d.X), math.Abs(d.Y), math.Abs(d.Z)

	var sc, tc, ma float64
	switch {
	case ax >= ay && ax >= az:
		ma = ax
		if d.X > 0 {
			f, sc, tc = PosX, -d.Z, -d.Y
		} else {
			f, sc, tc = NegX, d.Z, -d.Y
		}
	case ay >= az:
		ma = ay
		if d.Y > 0 {
			f, sc, tc = PosY, d.X, d.Z
		} else {
			f, sc, tc = NegY, d.X, -d.Z
		}
	default:
		ma = az
		if d.Z > 0 {
			f, sc, tc = PosZ, d.X, -d.Y
		} else {
			f, sc, tc = NegZ, -d.X, -d.Y
		}
	}
	if ma == 0 {
		return PosZ, 0.5, 0.5
	}
	return f, (sc/ma + 1) / 2, (tc/ma + 1) / 2
}

// faceDirection is the inverse of selectFace.
func faceDirection(f CubeFace, s, t float64) math3d.Vec3 {
	sc, tc := 2*s-1, 2*t-1
	switch f {
	case PosX:
		return math3d.V3(1, -tc, -sc)
	case NegX:
		return math3d.V3(-1, -tc, sc)
	case PosY:
		return math3d.V3(sc, 1, tc)
	case NegY:
		return math3d.V3(sc, -1, -tc)
	case PosZ:
		return math3d.V3(sc, -tc, 1)
	default:
		return math3d.V3(-sc, -tc, -1)
	}
}

func skyColor(dir math3d.Vec3) Color {
	y := dir.Normalize().Y
	if y < 0 {
		return lerpColor(skyHorizon, skyGround, math.Min(1, -y*4))
	}
	return lerpColor(skyHorizon, skyZenith, math.Sqrt(y))
}
