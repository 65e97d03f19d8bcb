package models

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/taigrr/teapot/pkg/math3d"
)

// published is swapped in as a unit so readers never observe a mesh
// without its basis.
type published struct {
	mesh  *Mesh
	basis math3d.Mat4
}

// Store owns the viewer's mesh. It starts empty and is settled exactly once,
// either by a parsed mesh or by the error that prevented one. Readers may
// call Loaded and DrawTriangles from any goroutine.
type Store struct {
	fit bool

	current atomic.Pointer[published]

	mu      sync.Mutex
	settled bool
	err     error
}

// NewStore creates an empty store. When fit is set the model basis centers
// the mesh and scales it to a 2-unit box.
func NewStore(fit bool) *Store {
	return &Store{fit: fit}
}

// Loaded reports whether a mesh has been published.
func (s *Store) Loaded() bool {
	return s.current.Load() != nil
}

// Mesh returns the published mesh, or nil before loading completes.
func (s *Store) Mesh() *Mesh {
	if p := s.current.Load(); p != nil {
		return p.mesh
	}
	return nil
}

// ModelBasis returns the object-space transform applied before any
// orientation: the fit transform, or identity.
func (s *Store) ModelBasis() math3d.Mat4 {
	if p := s.current.Load(); p != nil {
		return p.basis
	}
	return math3d.Identity()
}

// Err returns the failure that settled the store, if any.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Settled reports whether Consume has been called.
func (s *Store) Settled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settled
}

// Consume settles the store with the outcome of the model fetch. A non-nil
// fetchErr or a parse failure leaves the store unloaded and is returned.
// The mesh is fully built before it becomes visible to readers.
func (s *Store) Consume(name, text string, fetchErr error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.settled {
		return ErrAlreadySettled
	}
	s.settled = true

	if fetchErr != nil {
		s.err = fetchErr
		return fetchErr
	}

	mesh, err := ParseOBJ(text, name)
	if err != nil {
		s.err = err
		return err
	}

	return s.publish(mesh)
}

// Publish settles the store with an already parsed mesh.
func (s *Store) Publish(mesh *Mesh) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.settled {
		return ErrAlreadySettled
	}
	s.settled = true
	return s.publish(mesh)
}

func (s *Store) publish(mesh *Mesh) error {
	if mesh == nil || mesh.TriangleCount() == 0 {
		s.err = &ParseError{Name: "mesh", Err: ErrEmptyMesh}
		return s.err
	}
	if err := mesh.Validate(); err != nil {
		s.err = err
		return err
	}
	if mesh.positions == nil {
		mesh.buildBuffers()
	}

	basis := math3d.Identity()
	if s.fit {
		basis = mesh.FitTransform()
	}
	s.current.Store(&published{mesh: mesh, basis: basis})
	return nil
}

// DrawTriangles hands the loaded mesh to draw and reports whether it did.
// Before loading completes it is a no-op.
func (s *Store) DrawTriangles(draw func(*Mesh)) bool {
	p := s.current.Load()
	if p == nil {
		return false
	}
	draw(p.mesh)
	return true
}

// String describes the store state for logs and the HUD.
func (s *Store) String() string {
	if m := s.Mesh(); m != nil {
		return fmt.Sprintf("loaded %s (%d vertices, %d triangles)", m.Name, m.VertexCount(), m.TriangleCount())
	}
	if err := s.Err(); err != nil {
		return "failed: " + err.Error()
	}
	return "loading"
}
