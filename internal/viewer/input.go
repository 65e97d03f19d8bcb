package viewer

import (
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/teapot/pkg/camera"
	"github.com/taigrr/teapot/pkg/render"
)

// CommandKind is what a key asks the viewer to do.
type CommandKind int

const (
	CmdNone CommandKind = iota
	CmdPress
	CmdRelease
	CmdMode
	CmdCycleMode
	CmdReset
	CmdToggleHUD
	CmdToggleCulling
	CmdQuit
)

// Command is one decoded input.
type Command struct {
	Kind CommandKind
	Dir  camera.Direction
	Mode render.EffectMode
}

var arrowKeys = map[rune]camera.Direction{
	uv.KeyUp:    camera.Up,
	uv.KeyDown:  camera.Down,
	uv.KeyLeft:  camera.Left,
	uv.KeyRight: camera.Right,
}

// KeyCommand maps a key press to a command. Arrow keys become CmdPress; the
// caller decides how releases are delivered.
func KeyCommand(k uv.Key) Command {
	if d, ok := arrowKeys[k.Code]; ok {
		return Command{Kind: CmdPress, Dir: d}
	}
	switch {
	case k.MatchString("q", "esc", "ctrl+c"):
		return Command{Kind: CmdQuit}
	case k.MatchString("1"):
		return Command{Kind: CmdMode, Mode: render.EffectPhong}
	case k.MatchString("2"):
		return Command{Kind: CmdMode, Mode: render.EffectMirror}
	case k.MatchString("3"):
		return Command{Kind: CmdMode, Mode: render.EffectGlass}
	case k.MatchString("m"):
		return Command{Kind: CmdCycleMode}
	case k.MatchString("r"):
		return Command{Kind: CmdReset}
	case k.MatchString("?", "h"):
		return Command{Kind: CmdToggleHUD}
	case k.MatchString("b"):
		return Command{Kind: CmdToggleCulling}
	}
	return Command{}
}

// ReleaseCommand maps a key release; only arrows produce one.
func ReleaseCommand(k uv.Key) Command {
	if d, ok := arrowKeys[k.Code]; ok {
		return Command{Kind: CmdRelease, Dir: d}
	}
	return Command{}
}
