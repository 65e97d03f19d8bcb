package viewer

import (
	"context"
	"fmt"
	"io"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"
	"go.uber.org/zap"

	"github.com/taigrr/teapot/internal/remote"
)

// Terminal is the part of an ultraviolet terminal the loop drives.
type Terminal interface {
	Screen
	Events() <-chan uv.Event
	Size() uv.Size
	Resize(width, height int) error
	Display() error
	io.StringWriter
}

// Loop drives a Session from terminal input at a fixed frame rate.
type Loop struct {
	sess   *Session
	term   Terminal
	remote *remote.Server
	log    *zap.Logger
	fps    int

	width, height int

	// Without the kitty keyboard protocol terminals never send releases;
	// each press is then followed by a synthetic release.
	releases bool
}

// NewLoop creates a loop. srv may be nil.
func NewLoop(sess *Session, term Terminal, srv *remote.Server, fps int, log *zap.Logger) *Loop {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loop{sess: sess, term: term, remote: srv, log: log, fps: max(fps, 1)}
}

// Run renders until ctx is canceled, the terminal closes or a quit key is
// pressed.
func (l *Loop) Run(ctx context.Context) error {
	_, _ = l.term.WriteString(ansi.PushKittyKeyboard(ansi.KittyDisambiguateEscapeCodes | ansi.KittyReportEventTypes))
	_, _ = l.term.WriteString(ansi.RequestKittyKeyboard)
	_, _ = l.term.WriteString(ansi.SetWindowTitle("teapot"))
	defer func() { _, _ = l.term.WriteString(ansi.PopKittyKeyboard(1)) }()

	size := l.term.Size()
	l.resize(size.Width, size.Height)

	var remoteEvents <-chan remote.Event
	if l.remote != nil {
		remoteEvents = l.remote.Events()
	}

	ticker := time.NewTicker(time.Second / time.Duration(l.fps))
	defer ticker.Stop()

	events := l.term.Events()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if l.handleEvent(ev) {
				return nil
			}
		case res, ok := <-l.sess.MeshResults():
			l.sess.HandleMesh(res, ok)
		case res, ok := <-l.sess.FaceResults():
			l.sess.HandleFace(res, ok)
		case ev := <-remoteEvents:
			l.sess.ApplyRemote(ev)
		case now := <-ticker.C:
			if err := l.draw(now); err != nil {
				return err
			}
		}
	}
}

// handleEvent applies one terminal event and reports whether to quit.
func (l *Loop) handleEvent(ev uv.Event) bool {
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		l.resize(ev.Width, ev.Height)
	case uv.KeyboardEnhancementsEvent:
		if ev.SupportsKeyReleases() && !l.releases {
			l.log.Debug("terminal reports key releases")
			l.releases = true
		}
	case uv.KeyReleaseEvent:
		l.releases = true
		l.sess.Apply(ReleaseCommand(uv.Key(ev)))
	case uv.KeyPressEvent:
		cmd := KeyCommand(ev.Key())
		if l.sess.Apply(cmd) {
			return true
		}
		if cmd.Kind == CmdPress && !l.releases {
			l.sess.Apply(Command{Kind: CmdRelease, Dir: cmd.Dir})
		}
	}
	return false
}

func (l *Loop) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	l.width, l.height = width, height
	_ = l.term.Resize(width, height)
	l.sess.Resize(width, height*2)
	l.log.Debug("resized", zap.Int("cols", width), zap.Int("rows", height))
}

func (l *Loop) draw(now time.Time) error {
	stats := l.sess.Frame()
	Blit(l.sess.Renderer.Framebuffer(), l.term, l.width, l.height)

	hud := l.sess.HUD
	hud.UpdateFPS(now)
	if hud.Show {
		top, bottom := hud.Lines(l.sess.Status())
		WriteLine(l.term, 0, l.width, top)
		if l.height > 1 {
			WriteLine(l.term, l.height-1, l.width, bottom)
		}
	}

	if err := l.term.Display(); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	if l.remote != nil && stats.Frame%uint64(l.fps) == 0 {
		l.remote.Broadcast(l.sess.RemoteStatus())
	}
	return nil
}
