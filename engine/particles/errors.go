package particles

import (
	"errors"
	"fmt"

	"github.com/hubastard/photon/engine/gfx"
)

var (
	// ErrUndeclared is returned when setting a uniform or buffer that was never declared.
	ErrUndeclared = errors.New("particles: undeclared name")
	// ErrNotReady is returned by Run when the program failed to build.
	ErrNotReady = errors.New("particles: engine not ready")
)

// ShaderCompileError carries the info log of a stage that failed to compile.
type ShaderCompileError struct {
	Stage gfx.Stage
	Log   string
}

func (e *ShaderCompileError) Error() string {
	return fmt.Sprintf("%s shader compile error: %s", e.Stage, e.Log)
}

// ProgramLinkError carries the program info log.
type ProgramLinkError struct {
	Log string
}

func (e *ProgramLinkError) Error() string {
	return fmt.Sprintf("program link error: %s", e.Log)
}

// ImageLoadError reports a texture source that could not be fetched or decoded.
type ImageLoadError struct {
	Src string
	Err error
}

func (e *ImageLoadError) Error() string {
	return fmt.Sprintf("load texture %q: %v", e.Src, e.Err)
}

func (e *ImageLoadError) Unwrap() error { return e.Err }

// ShapeMismatchError reports a value inconsistent with its declaration.
type ShapeMismatchError struct {
	Name string
	Want string
	Got  string
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("%s: shape mismatch: want %s, got %s", e.Name, e.Want, e.Got)
}
