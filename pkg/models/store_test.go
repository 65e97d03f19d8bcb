package models

import (
	"errors"
	"sync"
	"testing"

	"github.com/taigrr/teapot/pkg/math3d"
)

func TestStoreStartsUnloaded(t *testing.T) {
	s := NewStore(false)
	if s.Loaded() {
		t.Error("new store reports loaded")
	}
	if s.Mesh() != nil {
		t.Error("new store has a mesh")
	}
	if s.DrawTriangles(func(*Mesh) { t.Error("draw called before load") }) {
		t.Error("DrawTriangles reported a draw before load")
	}
	if s.ModelBasis() != math3d.Identity() {
		t.Error("unloaded basis is not identity")
	}
}

func TestStoreConsume(t *testing.T) {
	fetchFailed := errors.New("connection refused")

	tests := []struct {
		name       string
		text       string
		fetchErr   error
		wantLoaded bool
		wantErr    error
	}{
		{"single triangle", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n", nil, true, nil},
		{"index out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nv 1 1 0\nf 1 2 5\n", nil, false, ErrIndexOutOfRange},
		{"empty text", "", nil, false, ErrEmptyMesh},
		{"fetch rejected", "", fetchFailed, false, fetchFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(false)
			err := s.Consume("model.obj", tt.text, tt.fetchErr)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Consume error = %v, want %v", err, tt.wantErr)
			}
			if s.Loaded() != tt.wantLoaded {
				t.Errorf("Loaded() = %v, want %v", s.Loaded(), tt.wantLoaded)
			}
			if !s.Settled() {
				t.Error("store not settled after Consume")
			}
			if !errors.Is(s.Err(), tt.wantErr) {
				t.Errorf("Err() = %v, want %v", s.Err(), tt.wantErr)
			}
		})
	}
}

func TestStoreSettlesOnce(t *testing.T) {
	s := NewStore(false)
	if err := s.Consume("a.obj", "", errors.New("timeout")); err == nil {
		t.Fatal("expected fetch error")
	}
	err := s.Consume("a.obj", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n", nil)
	if !errors.Is(err, ErrAlreadySettled) {
		t.Errorf("second Consume error = %v, want ErrAlreadySettled", err)
	}
	if s.Loaded() {
		t.Error("second Consume published a mesh")
	}
}

func TestStoreDrawTriangles(t *testing.T) {
	s := NewStore(true)
	if err := s.Consume("cube.obj", cubeOBJ, nil); err != nil {
		t.Fatalf("Consume failed: %v", err)
	}

	var drawn *Mesh
	if !s.DrawTriangles(func(m *Mesh) { drawn = m }) {
		t.Fatal("DrawTriangles reported no draw")
	}
	if drawn != s.Mesh() {
		t.Error("draw received a different mesh")
	}
	if len(drawn.Indices()) != 36 {
		t.Errorf("expected 36 indices, got %d", len(drawn.Indices()))
	}
	if s.ModelBasis() == math3d.Identity() {
		t.Error("fit store should not use the identity basis for a unit cube")
	}
}

func TestStorePublishRejectsBadMesh(t *testing.T) {
	m := NewMesh("broken")
	m.Vertices = []Vertex{{}, {}}
	m.Faces = []Face{{V: [3]int{0, 1, 2}}}

	s := NewStore(false)
	if err := s.Publish(m); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Publish error = %v, want ErrIndexOutOfRange", err)
	}
	if s.Loaded() {
		t.Error("invalid mesh was published")
	}
}

func TestStoreConcurrentReaders(t *testing.T) {
	s := NewStore(false)
	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				s.DrawTriangles(func(m *Mesh) {
					// A visible mesh is always complete.
					if len(m.Indices()) != m.TriangleCount()*3 {
						t.Error("observed half-built mesh")
					}
				})
			}
		}()
	}

	if err := s.Consume("cube.obj", cubeOBJ, nil); err != nil {
		t.Errorf("Consume failed: %v", err)
	}
	close(stop)
	wg.Wait()
}

func TestStoreString(t *testing.T) {
	s := NewStore(false)
	if got := s.String(); got != "loading" {
		t.Errorf("String() = %q", got)
	}
	_ = s.Consume("x.obj", "", errors.New("404"))
	if got := s.String(); got != "failed: 404" {
		t.Errorf("String() = %q", got)
	}
}
