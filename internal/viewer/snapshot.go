package viewer

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/taigrr/teapot/pkg/scene"
)

// Snapshot loads everything (or as much as arrives before ctx ends) and
// renders a single frame. A timeout is not an error: whatever is loaded is
// drawn, so a missing model still yields the skybox.
func (s *Session) Snapshot(ctx context.Context) (scene.Stats, error) {
	s.StartLoading(ctx)
	if err := s.WaitLoaded(ctx); err != nil {
		if !errors.Is(err, context.DeadlineExceeded) {
			return scene.Stats{}, err
		}
		s.log.Warn("snapshot rendered before loading finished", zap.Stringer("mesh", s.Scene.Mesh))
	}
	stats := s.Frame()
	s.log.Info("snapshot", zap.Stringer("stats", stats))
	return stats, nil
}
