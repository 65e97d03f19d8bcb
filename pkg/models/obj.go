package models

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/taigrr/teapot/pkg/math3d"
)

// maxLineLength bounds a single OBJ line; very large n-gons exceed bufio's default.
const maxLineLength = 1 << 20

// OBJLoader parses the OBJ subset the viewer understands: "v" and "f"
// directives. Everything else (vt, vn, groups, materials, comments) is
// skipped, and normals are always derived from the faces.
type OBJLoader struct{}

// NewOBJLoader creates a new OBJ loader.
func NewOBJLoader() *OBJLoader {
	return &OBJLoader{}
}

// LoadFile parses an OBJ file from disk.
func (l *OBJLoader) LoadFile(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open OBJ file: %w", err)
	}
	defer f.Close()

	return l.Load(f, path)
}

// faceRef remembers the source line of a triangle so index errors found after
// the whole file is read still point at the right place.
type faceRef struct {
	v    [3]int
	line int
}

// Load parses OBJ text from r. On any failure it returns a *ParseError and
// no mesh.
func (l *OBJLoader) Load(r io.Reader, name string) (*Mesh, error) {
	var positions []math3d.Vec3
	var faces []faceRef

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if len(line) == 0 || line[0] == '#' {
			continue
		}

		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, &ParseError{Name: name, Line: lineNum,
					Err: fmt.Errorf("%w: vertex needs x y z", ErrMalformed)}
			}
			var xyz [3]float64
			for i := range xyz {
				f, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
					return nil, &ParseError{Name: name, Line: lineNum,
						Err: fmt.Errorf("%w: vertex coordinate %q", ErrMalformed, fields[i+1])}
				}
				xyz[i] = f
			}
			positions = append(positions, math3d.V3(xyz[0], xyz[1], xyz[2]))

		case "f":
			if len(fields) < 4 {
				return nil, &ParseError{Name: name, Line: lineNum,
					Err: fmt.Errorf("%w: face needs at least 3 vertices", ErrMalformed)}
			}

			corners := make([]int, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				idx, err := parseFaceIndex(ref, len(positions))
				if err != nil {
					return nil, &ParseError{Name: name, Line: lineNum, Err: err}
				}
				corners = append(corners, idx)
			}

			// Fan triangulation keeps the polygon's winding.
			for i := 1; i < len(corners)-1; i++ {
				faces = append(faces, faceRef{
					v:    [3]int{corners[0], corners[i], corners[i+1]},
					line: lineNum,
				})
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Name: name, Line: lineNum + 1, Err: err}
	}

	if len(positions) == 0 || len(faces) == 0 {
		return nil, &ParseError{Name: name, Err: ErrEmptyMesh}
	}

	mesh := NewMesh(name)
	mesh.Vertices = make([]Vertex, len(positions))
	for i, p := range positions {
		mesh.Vertices[i].Position = p
	}

	mesh.Faces = make([]Face, len(faces))
	for i, f := range faces {
		for _, idx := range f.v {
			if idx < 0 || idx >= len(positions) {
				return nil, &ParseError{Name: name, Line: f.line,
					Err: fmt.Errorf("%w: %d (have %d vertices)", ErrIndexOutOfRange, idx+1, len(positions))}
			}
		}
		mesh.Faces[i] = Face{V: f.v}
	}

	mesh.CalculateBounds()
	mesh.CalculateSmoothNormals()
	mesh.buildBuffers()

	return mesh, nil
}

// parseFaceIndex extracts the 0-based position index from a face reference
// in the form v, v/vt, v/vt/vn or v//vn. Negative references count back from
// the vertices declared so far.
func parseFaceIndex(ref string, declared int) (int, error) {
	pos, _, _ := strings.Cut(ref, "/")
	idx, err := strconv.Atoi(pos)
	if err != nil {
		return 0, fmt.Errorf("%w: vertex reference %q", ErrMalformed, ref)
	}

	switch {
	case idx > 0:
		return idx - 1, nil
	case idx < 0 && declared+idx >= 0:
		return declared + idx, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrIndexOutOfRange, idx)
	}
}

// ParseOBJ parses OBJ text held in memory.
func ParseOBJ(text, name string) (*Mesh, error) {
	return NewOBJLoader().Load(strings.NewReader(text), name)
}

// LoadOBJ is a convenience function to parse an OBJ file from disk.
func LoadOBJ(path string) (*Mesh, error) {
	return NewOBJLoader().LoadFile(path)
}
