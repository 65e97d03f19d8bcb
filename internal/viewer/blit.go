package viewer

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/teapot/pkg/render"
)

// upperHalf draws the top pixel as foreground and the bottom as background,
// giving two square-ish pixels per terminal cell.
const upperHalf = "▀"

// Screen is the cell surface frames are drawn to.
type Screen interface {
	SetCell(x, y int, c *uv.Cell)
}

// Blit copies fb onto a width x height cell grid, two framebuffer rows per
// cell.
func Blit(fb *render.Framebuffer, scr Screen, width, height int) {
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			top := fb.GetPixel(x, 2*y)
			bottom := fb.GetPixel(x, 2*y+1)
			scr.SetCell(x, y, &uv.Cell{
				Content: upperHalf,
				Width:   1,
				Style:   uv.Style{Fg: top, Bg: bottom},
			})
		}
	}
}

var (
	hudFg = color.RGBA{R: 240, G: 240, B: 240, A: 255}
	hudBg = color.RGBA{R: 20, G: 20, B: 28, A: 255}
)

// WriteLine draws s on row y starting at column 0, clipped to width.
func WriteLine(scr Screen, y, width int, s string) {
	x := 0
	for _, r := range s {
		if x >= width {
			return
		}
		scr.SetCell(x, y, &uv.Cell{
			Content: string(r),
			Width:   1,
			Style:   uv.Style{Fg: hudFg, Bg: hudBg},
		})
		x++
	}
}
