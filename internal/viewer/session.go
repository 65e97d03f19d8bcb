// Package viewer runs the interactive terminal viewer and the headless
// snapshot renderer on top of a shared Session.
package viewer

import (
	"context"
	"io/fs"
	"path"

	"go.uber.org/zap"

	"github.com/taigrr/teapot/internal/config"
	"github.com/taigrr/teapot/internal/remote"
	"github.com/taigrr/teapot/pkg/camera"
	"github.com/taigrr/teapot/pkg/loader"
	"github.com/taigrr/teapot/pkg/models"
	"github.com/taigrr/teapot/pkg/render"
	"github.com/taigrr/teapot/pkg/scene"
	"github.com/taigrr/teapot/pkg/transform"
)

// Session owns one scene and everything feeding it. All methods must be
// called from the goroutine that renders.
type Session struct {
	cfg    *config.Config
	log    *zap.Logger
	loader *loader.Loader

	Scene    *scene.Scene
	Renderer *scene.Renderer
	HUD      *HUD

	culling bool
	meshCh  <-chan loader.TextResult
	faceCh  <-chan loader.FaceResult
}

// Option configures a Session.
type Option func(*sessionOptions)

type sessionOptions struct {
	log       *zap.Logger
	resources fs.FS
}

// WithLogger sets the logger; the default discards.
func WithLogger(l *zap.Logger) Option {
	return func(o *sessionOptions) { o.log = l }
}

// WithResources sets the FS that "res:" sources resolve against.
func WithResources(fsys fs.FS) Option {
	return func(o *sessionOptions) { o.resources = fsys }
}

// NewSession builds the scene and renderer for a width x height framebuffer.
// Loading does not start until StartLoading.
func NewSession(cfg *config.Config, width, height int, opts ...Option) (*Session, error) {
	o := sessionOptions{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	fb := render.NewFramebuffer(max(width, 1), max(height, 1))
	pipeline := transform.New(cfg.Projection(), fb.Width, fb.Height)
	r, err := scene.NewDefaultRenderer(fb, pipeline, cfg.Shading.RefractionRatio,
		scene.WithLogger(o.log.Named("render")))
	if err != nil {
		return nil, err
	}

	sc := scene.New(models.NewStore(cfg.View.FitModel), camera.New(cfg.Camera()), cfg.Cubemap.FaceSize)
	sc.Light = cfg.Light()
	sc.Material = cfg.Material()
	sc.Mode = cfg.EffectMode()
	sc.Environment.SetFilter(render.FilterBilinear)

	lopts := []loader.Option{loader.WithLogger(o.log.Named("loader"))}
	if o.resources != nil {
		lopts = append(lopts, loader.WithResources(o.resources))
	}

	return &Session{
		cfg:      cfg,
		log:      o.log,
		loader:   loader.New(lopts...),
		Scene:    sc,
		Renderer: r,
		HUD:      NewHUD(),
		culling:  true,
	}, nil
}

// StartLoading begins fetching the model and cubemap faces.
func (s *Session) StartLoading(ctx context.Context) {
	s.log.Info("loading", zap.String("model", s.cfg.Model), zap.String("cubemap", s.cfg.Cubemap.Dir))
	s.meshCh = s.loader.FetchText(ctx, s.cfg.Model)
	s.faceCh = s.loader.FetchCubeFaces(ctx, s.cfg.FaceSources(), s.cfg.Cubemap.FaceSize)
}

// MeshResults is nil once the model fetch has reported.
func (s *Session) MeshResults() <-chan loader.TextResult {
	return s.meshCh
}

// FaceResults is nil once every face has reported.
func (s *Session) FaceResults() <-chan loader.FaceResult {
	return s.faceCh
}

// Loading reports whether any fetch is still outstanding.
func (s *Session) Loading() bool {
	return s.meshCh != nil || s.faceCh != nil
}

// HandleMesh settles the mesh store with a fetch result. ok is the receive
// status; a closed channel stops further polling.
func (s *Session) HandleMesh(res loader.TextResult, ok bool) {
	if !ok {
		s.meshCh = nil
		return
	}
	name := path.Base(res.Source)
	if err := s.Scene.Mesh.Consume(name, res.Text, res.Err); err != nil {
		// The skybox keeps rendering; the mesh simply never appears.
		s.log.Error("model unavailable", zap.String("source", res.Source), zap.Error(err))
		return
	}
	s.log.Info("model loaded", zap.Stringer("mesh", s.Scene.Mesh))
}

// HandleFace installs one cubemap face. Failed faces keep the placeholder.
func (s *Session) HandleFace(res loader.FaceResult, ok bool) {
	if !ok {
		s.faceCh = nil
		return
	}
	if res.Err != nil {
		return
	}
	if err := s.Scene.Environment.SetFace(res.Face, res.Image); err != nil {
		s.log.Warn("cubemap face rejected", zap.Stringer("face", res.Face), zap.Error(err))
		return
	}
	s.log.Debug("cubemap face loaded", zap.Stringer("face", res.Face),
		zap.Int("loaded", s.Scene.Environment.LoadedCount()))
}

// WaitLoaded blocks until every fetch has reported or ctx is done.
func (s *Session) WaitLoaded(ctx context.Context) error {
	for s.Loading() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case res, ok := <-s.meshCh:
			s.HandleMesh(res, ok)
		case res, ok := <-s.faceCh:
			s.HandleFace(res, ok)
		}
	}
	return nil
}

// Apply executes a command and reports whether the viewer should quit.
func (s *Session) Apply(cmd Command) (quit bool) {
	switch cmd.Kind {
	case CmdPress:
		s.Scene.Camera.Press(cmd.Dir)
	case CmdRelease:
		s.Scene.Camera.Release(cmd.Dir)
	case CmdMode:
		s.setMode(cmd.Mode)
	case CmdCycleMode:
		s.setMode(s.Scene.Mode.Next())
	case CmdReset:
		s.Scene.Camera.Reset()
	case CmdToggleHUD:
		s.HUD.Show = !s.HUD.Show
	case CmdToggleCulling:
		s.culling = !s.culling
		s.Renderer.SetBackfaceCulling(s.culling)
	case CmdQuit:
		return true
	}
	return false
}

// ApplyRemote executes an input from the websocket bridge.
func (s *Session) ApplyRemote(ev remote.Event) {
	switch ev.Kind {
	case remote.KeyEvent:
		if ev.Pressed {
			s.Apply(Command{Kind: CmdPress, Dir: ev.Dir})
		} else {
			s.Apply(Command{Kind: CmdRelease, Dir: ev.Dir})
		}
	case remote.ModeEvent:
		s.Apply(Command{Kind: CmdMode, Mode: ev.Mode})
	case remote.ResetEvent:
		s.Apply(Command{Kind: CmdReset})
	}
}

func (s *Session) setMode(m render.EffectMode) {
	if m != s.Scene.Mode {
		s.log.Debug("effect mode", zap.Stringer("mode", m))
	}
	s.Scene.Mode = m
}

// Resize changes the framebuffer size.
func (s *Session) Resize(width, height int) {
	s.Renderer.Resize(max(width, 1), max(height, 1))
}

// Frame advances the camera smoothing and renders one frame.
func (s *Session) Frame() scene.Stats {
	s.Scene.Camera.Update()
	return s.Renderer.RenderFrame(s.Scene)
}

// Status summarizes the session for the HUD.
func (s *Session) Status() Status {
	v := s.Scene.Camera.View()
	return Status{
		Mesh:    s.Scene.Mesh.String(),
		Faces:   s.Scene.Environment.LoadedCount(),
		Mode:    s.Scene.Mode,
		Yaw:     v.Yaw,
		Pitch:   v.Pitch,
		Culling: s.culling,
	}
}

// RemoteStatus summarizes the session for remote clients.
func (s *Session) RemoteStatus() remote.Status {
	st := s.Status()
	return remote.Status{Mode: st.Mode, Mesh: st.Mesh, Yaw: st.Yaw, Pitch: st.Pitch, Faces: st.Faces}
}
