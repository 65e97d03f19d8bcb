// Package camera turns directional key edges into the viewer's orientation
// state. The eye, target and up vectors are fixed; arrow keys spin the model
// in place by accumulating yaw and pitch angles.
package camera

import (
	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/teapot/pkg/math3d"
)

// DefaultStep is the angular increment applied per key-down, in degrees.
const DefaultStep = 5.0

// Direction is one of the four tracked inputs.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
	numDirections
)

var directionNames = [numDirections]string{"up", "down", "left", "right"}

func (d Direction) String() string {
	if d < 0 || d >= numDirections {
		return "unknown"
	}
	return directionNames[d]
}

// ParseDirection maps "up", "down", "left" and "right" to a Direction.
func ParseDirection(s string) (Direction, bool) {
	for i, name := range directionNames {
		if name == s {
			return Direction(i), true
		}
	}
	return 0, false
}

// State is the camera as the transform pipeline sees it. Yaw and Pitch are
// degrees in [0, 360).
type State struct {
	Eye    math3d.Vec3
	Target math3d.Vec3
	Up     math3d.Vec3
	Yaw    float64
	Pitch  float64
}

// Config holds the fixed camera placement and input tuning.
type Config struct {
	Eye    math3d.Vec3
	Target math3d.Vec3
	Up     math3d.Vec3
	Step   float64 // degrees per key-down

	// Smoothing eases the displayed angles toward the state angles with a
	// critically damped spring advanced once per frame at FPS.
	Smoothing bool
	FPS       int
}

// DefaultConfig places the eye 3 units down +Z looking at the origin.
func DefaultConfig() Config {
	return Config{
		Eye:    math3d.V3(0, 0, 3),
		Target: math3d.Zero3(),
		Up:     math3d.V3(0, 1, 0),
		Step:   DefaultStep,
		FPS:    30,
	}
}

// axis follows an unwrapped target angle. Rotations are periodic, so the
// displayed value never needs wrapping to render correctly, and following
// the unwrapped target avoids a long swing when the state crosses 0/360.
type axis struct {
	target float64
	pos    float64
	vel    float64
}

func (a *axis) update(s harmonica.Spring) {
	a.pos, a.vel = s.Update(a.pos, a.vel, a.target)
}

// Controller owns the camera state. It is not safe for concurrent use; the
// render loop is its only caller.
type Controller struct {
	cfg    Config
	state  State
	held   [numDirections]bool
	spring harmonica.Spring
	yaw    axis
	pitch  axis
}

// New creates a controller at rest.
func New(cfg Config) *Controller {
	if cfg.Step <= 0 {
		cfg.Step = DefaultStep
	}
	if cfg.FPS <= 0 {
		cfg.FPS = 30
	}
	c := &Controller{
		cfg: cfg,
		// Frequency 6.0 = quick but visible, damping 1.0 = no overshoot
		spring: harmonica.NewSpring(harmonica.FPS(cfg.FPS), 6.0, 1.0),
	}
	c.Reset()
	return c
}

// Reset restores the initial orientation and releases every key.
func (c *Controller) Reset() {
	c.state = State{Eye: c.cfg.Eye, Target: c.cfg.Target, Up: c.cfg.Up}
	c.held = [numDirections]bool{}
	c.yaw = axis{}
	c.pitch = axis{}
}

// Press records a key-down edge and applies one step. Host key repeat
// arrives as further presses and steps again.
func (c *Controller) Press(d Direction) {
	if d < 0 || d >= numDirections {
		return
	}
	c.held[d] = true

	step := c.cfg.Step
	switch d {
	case Right:
		c.turn(&c.state.Yaw, &c.yaw, step)
	case Left:
		c.turn(&c.state.Yaw, &c.yaw, -step)
	case Up:
		c.turn(&c.state.Pitch, &c.pitch, step)
	case Down:
		c.turn(&c.state.Pitch, &c.pitch, -step)
	}
}

// Turn rotates by the given angles in degrees without touching key state.
func (c *Controller) Turn(yaw, pitch float64) {
	c.turn(&c.state.Yaw, &c.yaw, yaw)
	c.turn(&c.state.Pitch, &c.pitch, pitch)
}

func (c *Controller) turn(angle *float64, a *axis, delta float64) {
	*angle = math3d.WrapDegrees(*angle + delta)
	a.target += delta
	if !c.cfg.Smoothing {
		a.pos, a.vel = a.target, 0
	}
}

// Release records a key-up edge.
func (c *Controller) Release(d Direction) {
	if d < 0 || d >= numDirections {
		return
	}
	c.held[d] = false
}

// Held reports whether d is currently pressed.
func (c *Controller) Held(d Direction) bool {
	if d < 0 || d >= numDirections {
		return false
	}
	return c.held[d]
}

// State returns the authoritative camera state.
func (c *Controller) State() State {
	return c.state
}

// Update advances the smoothing springs by one frame. It does nothing when
// smoothing is off.
func (c *Controller) Update() {
	if !c.cfg.Smoothing {
		return
	}
	c.yaw.update(c.spring)
	c.pitch.update(c.spring)
}

// View returns the state to render this frame: the authoritative state with
// the displayed (possibly still easing) angles, wrapped into [0, 360).
func (c *Controller) View() State {
	v := c.state
	v.Yaw = math3d.WrapDegrees(c.yaw.pos)
	v.Pitch = math3d.WrapDegrees(c.pitch.pos)
	return v
}

// Settled reports whether the displayed angles have caught up.
func (c *Controller) Settled() bool {
	const eps = 1e-3
	return abs(c.yaw.target-c.yaw.pos) < eps && abs(c.pitch.target-c.pitch.pos) < eps
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
