package viewer

import (
	"fmt"
	"time"

	"github.com/taigrr/teapot/pkg/render"
)

// HUD tracks frame rate and formats the overlay lines.
type HUD struct {
	Show bool

	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// NewHUD creates a visible HUD.
func NewHUD() *HUD {
	return &HUD{Show: true, fpsTime: time.Now()}
}

// UpdateFPS updates the FPS counter (call once per frame)
func (h *HUD) UpdateFPS(now time.Time) {
	h.fpsFrames++
	elapsed := now.Sub(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = now
	}
}

// FPS returns the last measured frame rate.
func (h *HUD) FPS() float64 {
	return h.fps
}

// Status is what the HUD reports.
type Status struct {
	Mesh    string
	Faces   int
	Mode    render.EffectMode
	Yaw     float64
	Pitch   float64
	Culling bool
}

// Lines returns the top and bottom overlay rows.
func (h *HUD) Lines(st Status) (top, bottom string) {
	top = fmt.Sprintf("%.0f FPS  %s  sky %d/%d  %s  yaw %3.0f° pitch %3.0f°",
		h.fps, st.Mesh, st.Faces, render.NumFaces, st.Mode, st.Yaw, st.Pitch)
	cull := "[ ]"
	if st.Culling {
		cull = "[✓]"
	}
	bottom = "arrows rotate  1 phong  2 mirror  3 glass  m cycle  r reset  " + cull + " b cull  ? hud  q quit"
	return top, bottom
}
