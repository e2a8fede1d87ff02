package gfx

import (
	"fmt"

	"github.com/pion/logging"
	mlogging "github.com/pion/mediashim/internal/logging"
	"github.com/pion/mediashim/pkg/surface"
)

// Clear values applied by Init.
var (
	InitClearColor = [4]float32{0.5, 0.2, 0.5, 1.0}
	InitClearDepth = float32(1.0)
)

type shaderKey struct {
	id   string
	kind ShaderKind
}

// Context owns a drawing surface and the rendering context acquired from it.
//
// A Context is not safe for concurrent use: all calls must come from the
// goroutine that owns it.
type Context struct {
	surface     *surface.Surface
	gl          Backend
	contextName string
	width       int
	height      int
	clearMask   ClearMask

	shaders  map[shaderKey]Shader
	programs []Program
	buffers  []Buffer
	closed   bool

	log logging.LeveledLogger
}

// New creates a width x height surface tagged with id, attaches it to the
// document and acquires a rendering context from it.
func New(width, height int, id string, opts ...Option) (*Context, error) {
	o := options{
		document:     surface.DefaultDocument(),
		contextNames: DefaultContextNames,
	}
	for _, opt := range opts {
		opt(&o)
	}

	log := mlogging.NewLogger(o.loggerFactory, "gfx")

	s, err := surface.New(width, height, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSurfaceCreation, err)
	}
	o.document.Append(s)

	raw, name, err := s.GetContext(o.contextNames...)
	if err != nil {
		s.Remove()
		return nil, fmt.Errorf("%w: %v", ErrContextAcquisition, err)
	}
	gl, ok := raw.(Backend)
	if !ok {
		s.Remove()
		return nil, fmt.Errorf("%w: %q context does not implement gfx.Backend", ErrContextAcquisition, name)
	}
	log.Debugf("acquired %q context for surface %q (%dx%d)", name, s.ID(), width, height)

	clearMask := ColorBufferBit
	if o.clearDepthBuffer {
		clearMask |= DepthBufferBit
	}

	return &Context{
		surface:     s,
		gl:          gl,
		contextName: name,
		width:       width,
		height:      height,
		clearMask:   clearMask,
		shaders:     make(map[shaderKey]Shader),
		log:         log,
	}, nil
}

// Surface returns the owned drawing surface.
func (c *Context) Surface() *surface.Surface { return c.surface }

// Backend returns the rendering context acquired from the surface.
func (c *Context) Backend() Backend { return c.gl }

// ContextName returns the name the rendering context was acquired under.
func (c *Context) ContextName() string { return c.contextName }

// Width returns the surface width.
func (c *Context) Width() int { return c.width }

// Height returns the surface height.
func (c *Context) Height() int { return c.height }

// Init sets the viewport to the whole surface and clears it with
// InitClearColor. The depth buffer is cleared too only when the Context was
// created WithClearDepthBuffer.
func (c *Context) Init() error {
	if c.closed {
		return ErrClosed
	}

	c.gl.Viewport(0, 0, c.width, c.height)
	cc := InitClearColor
	c.gl.ClearColor(cc[0], cc[1], cc[2], cc[3])
	c.gl.ClearDepth(InitClearDepth)
	c.gl.Clear(c.clearMask)
	return nil
}

// SetAttribute uploads a.Data into a new vertex buffer and binds it to the
// attribute at index as tightly packed, unnormalized floats.
func (c *Context) SetAttribute(a AttributeSetting, index int) error {
	vbo, err := c.CreateVBO(a.Data)
	if err != nil {
		return err
	}

	c.gl.BindBuffer(ArrayBuffer, vbo)
	c.gl.EnableVertexAttribArray(index)
	c.gl.VertexAttribPointer(index, a.Size, Float, false, 0, 0)
	return nil
}

// DrawObject uploads matrix to loc and draws dataLength/size vertices as a
// triangle list.
func (c *Context) DrawObject(loc UniformLocation, matrix [16]float32, dataLength, size int) error {
	if c.closed {
		return ErrClosed
	}
	if size <= 0 || dataLength < 0 || dataLength%size != 0 {
		return fmt.Errorf("%w: length %d, size %d", ErrInvalidVertexCount, dataLength, size)
	}

	c.gl.UniformMatrix4fv(loc, false, matrix[:])
	c.gl.DrawArrays(Triangles, 0, dataLength/size)
	return nil
}

// Flush submits pending rendering commands.
func (c *Context) Flush() error {
	if c.closed {
		return ErrClosed
	}

	c.gl.Flush()
	return nil
}

// CreateShader returns the compiled shader cached under (id, kind), compiling
// source on a miss. A hit returns the cached handle even when source differs;
// use EvictShader to force recompilation.
func (c *Context) CreateShader(source, id string, kind ShaderKind) (Shader, error) {
	if c.closed {
		return NoShader, ErrClosed
	}
	if kind != VertexShader && kind != FragmentShader {
		return NoShader, fmt.Errorf("%w: %d", ErrUnknownShaderKind, kind)
	}

	key := shaderKey{id: id, kind: kind}
	if s, ok := c.shaders[key]; ok {
		return s, nil
	}

	s := c.gl.CreateShader(kind)
	if s == NoShader {
		return NoShader, fmt.Errorf("%w: %s shader %q", ErrResourceAllocation, kind, id)
	}

	c.gl.ShaderSource(s, source)
	c.gl.CompileShader(s)
	if !c.gl.ShaderCompiled(s) {
		err := &ShaderCompilationError{ID: id, Kind: kind, Log: c.gl.ShaderInfoLog(s)}
		c.gl.DeleteShader(s)
		return NoShader, err
	}

	c.shaders[key] = s
	c.log.Debugf("compiled %s shader %q", kind, id)
	return s, nil
}

// EvictShader drops the cache entry for (id, kind) and deletes the shader.
// It reports whether an entry existed.
func (c *Context) EvictShader(id string, kind ShaderKind) bool {
	key := shaderKey{id: id, kind: kind}
	s, ok := c.shaders[key]
	if !ok {
		return false
	}

	delete(c.shaders, key)
	c.gl.DeleteShader(s)
	return true
}

// CreateProgram links vs and fs into a program and makes it current.
func (c *Context) CreateProgram(vs, fs Shader) (Program, error) {
	if c.closed {
		return NoProgram, ErrClosed
	}

	p := c.gl.CreateProgram()
	if p == NoProgram {
		return NoProgram, fmt.Errorf("%w: program", ErrResourceAllocation)
	}

	c.gl.AttachShader(p, vs)
	c.gl.AttachShader(p, fs)
	c.gl.LinkProgram(p)
	if !c.gl.ProgramLinked(p) {
		err := &ProgramLinkError{Log: c.gl.ProgramInfoLog(p)}
		c.gl.DeleteProgram(p)
		return NoProgram, err
	}

	c.gl.UseProgram(p)
	c.programs = append(c.programs, p)
	return p, nil
}

// UniformLocation looks up a uniform of a linked program.
func (c *Context) UniformLocation(p Program, name string) UniformLocation {
	return c.gl.GetUniformLocation(p, name)
}

// CreateVBO uploads data as 32-bit floats into a new static buffer. The array
// buffer binding is reset before returning.
func (c *Context) CreateVBO(data []float32) (Buffer, error) {
	if c.closed {
		return NoBuffer, ErrClosed
	}

	vbo := c.gl.CreateBuffer()
	if vbo == NoBuffer {
		return NoBuffer, fmt.Errorf("%w: vertex buffer", ErrResourceAllocation)
	}

	c.gl.BindBuffer(ArrayBuffer, vbo)
	c.gl.BufferData(ArrayBuffer, data, StaticDraw)
	c.gl.BindBuffer(ArrayBuffer, NoBuffer)

	c.buffers = append(c.buffers, vbo)
	return vbo, nil
}

// Close deletes every buffer, program and cached shader created through c and
// detaches the surface. Calling Close more than once is a no-op.
func (c *Context) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	for _, b := range c.buffers {
		c.gl.DeleteBuffer(b)
	}
	for _, p := range c.programs {
		c.gl.DeleteProgram(p)
	}
	for key, s := range c.shaders {
		c.gl.DeleteShader(s)
		delete(c.shaders, key)
	}
	c.buffers = nil
	c.programs = nil

	c.surface.Remove()
	c.log.Debugf("closed context for surface %q", c.surface.ID())
	return nil
}
