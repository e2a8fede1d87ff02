package gfx

import (
	"errors"
	"fmt"
)

var (
	ErrSurfaceCreation    = errors.New("gfx: failed to create drawing surface")
	ErrContextAcquisition = errors.New("gfx: failed to acquire rendering context")
	ErrResourceAllocation = errors.New("gfx: failed to allocate resource")
	ErrUnknownShaderKind  = errors.New("gfx: unknown shader kind")
	ErrInvalidVertexCount = errors.New("gfx: data length must be a positive multiple of the component size")
	ErrClosed             = errors.New("gfx: context is closed")
)

// ShaderCompilationError carries the platform compile log of a shader that
// failed to compile.
type ShaderCompilationError struct {
	ID   string
	Kind ShaderKind
	Log  string
}

func (e *ShaderCompilationError) Error() string {
	return fmt.Sprintf("gfx: failed to compile %s shader %q: %s", e.Kind, e.ID, e.Log)
}

// ProgramLinkError carries the platform link log of a program that failed to
// link.
type ProgramLinkError struct {
	Log string
}

func (e *ProgramLinkError) Error() string {
	return fmt.Sprintf("gfx: failed to link program: %s", e.Log)
}
