package models

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyMesh means the payload held no vertices or no faces.
	ErrEmptyMesh = errors.New("empty mesh")
	// ErrIndexOutOfRange means a face referenced a vertex that does not exist.
	ErrIndexOutOfRange = errors.New("vertex index out of range")
	// ErrMalformed means a recognized directive could not be parsed.
	ErrMalformed = errors.New("malformed directive")
	// ErrAlreadySettled is returned when a Store is handed a second result.
	ErrAlreadySettled = errors.New("mesh store already settled")
)

// ParseError reports why OBJ text could not become a Mesh. Line is 1-based,
// or 0 when the failure is not tied to a line.
type ParseError struct {
	Name string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s: line %d: %v", e.Name, e.Line, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Name, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
