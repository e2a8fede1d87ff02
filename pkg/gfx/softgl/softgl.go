// Package softgl is a pure Go implementation of gfx.Backend. Shaders are WGSL
// and are validated with naga; draws fill triangles in a single flat color
// into the surface pixels.
//
// Importing the package registers it on every surface under the names in
// gfx.DefaultContextNames.
package softgl

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/gogpu/naga"
	"github.com/pion/logging"
	mlogging "github.com/pion/mediashim/internal/logging"
	"github.com/pion/mediashim/pkg/gfx"
	"github.com/pion/mediashim/pkg/surface"
	"golang.org/x/image/vector"
)

func init() {
	f := NewFactory()
	for _, name := range gfx.DefaultContextNames {
		surface.RegisterContext(name, f)
	}
}

var _ gfx.Backend = &Backend{}

// DrawCall records the arguments of one DrawArrays call.
type DrawCall struct {
	Mode    gfx.DrawMode
	First   int
	Count   int
	Program gfx.Program
}

// Attrib is the state of a vertex attribute slot.
type Attrib struct {
	Enabled    bool
	Buffer     gfx.Buffer
	Size       int
	Type       gfx.DataType
	Normalized bool
	Stride     int
	Offset     int
}

type shader struct {
	kind     gfx.ShaderKind
	source   string
	compiled bool
	log      string
	spirv    []byte
}

type program struct {
	shaders  []gfx.Shader
	linked   bool
	log      string
	uniforms map[string]gfx.UniformLocation
}

type buffer struct {
	data  []float32
	usage gfx.Usage
}

// Backend renders into a surface in software.
type Backend struct {
	surface *surface.Surface
	opts    options
	log     logging.LeveledLogger

	nextID   uint32
	shaders  map[gfx.Shader]*shader
	programs map[gfx.Program]*program
	buffers  map[gfx.Buffer]*buffer
	attribs  map[int]*Attrib

	arrayBuffer gfx.Buffer
	current     gfx.Program
	viewport    image.Rectangle
	clearColor  [4]float32
	clearDepth  float32
	depth       []float32
	lastClear   gfx.ClearMask
	uniforms    map[gfx.UniformLocation][]float32
	matrix      [16]float32

	draws   []DrawCall
	flushes int
	raster  *vector.Rasterizer
}

// NewFactory returns a context factory creating a Backend for each surface it
// is asked for.
func NewFactory(opts ...Option) surface.ContextFactory {
	return func(s *surface.Surface) (interface{}, error) {
		return New(s, opts...), nil
	}
}

// New creates a Backend drawing into s.
func New(s *surface.Surface, opts ...Option) *Backend {
	o := options{
		fill: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Backend{
		surface:  s,
		opts:     o,
		log:      mlogging.NewLogger(o.loggerFactory, "softgl"),
		shaders:  make(map[gfx.Shader]*shader),
		programs: make(map[gfx.Program]*program),
		buffers:  make(map[gfx.Buffer]*buffer),
		attribs:  make(map[int]*Attrib),
		uniforms: make(map[gfx.UniformLocation][]float32),
		viewport: s.Bounds(),
		depth:    make([]float32, s.Width()*s.Height()),
		matrix:   identity(),
	}
}

func identity() [16]float32 {
	return [16]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

func (b *Backend) id() uint32 {
	b.nextID++
	return b.nextID
}

func (b *Backend) Viewport(x, y, width, height int) {
	b.viewport = image.Rect(x, y, x+width, y+height)
}

func (b *Backend) ClearColor(r, g, bl, a float32) {
	b.clearColor = [4]float32{r, g, bl, a}
}

func (b *Backend) ClearDepth(depth float32) {
	b.clearDepth = depth
}

func (b *Backend) Clear(mask gfx.ClearMask) {
	b.lastClear = mask

	if mask&gfx.ColorBufferBit != 0 {
		c := color.NRGBA{
			R: unorm8(b.clearColor[0]),
			G: unorm8(b.clearColor[1]),
			B: unorm8(b.clearColor[2]),
			A: unorm8(b.clearColor[3]),
		}
		pix := b.surface.Pixels()
		for i := 0; i < len(pix.Pix); i += 4 {
			pix.Pix[i+0] = c.R
			pix.Pix[i+1] = c.G
			pix.Pix[i+2] = c.B
			pix.Pix[i+3] = c.A
		}
	}

	if mask&gfx.DepthBufferBit != 0 {
		for i := range b.depth {
			b.depth[i] = b.clearDepth
		}
	}
}

func unorm8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}

func (b *Backend) CreateShader(kind gfx.ShaderKind) gfx.Shader {
	if kind != gfx.VertexShader && kind != gfx.FragmentShader {
		return gfx.NoShader
	}

	s := gfx.Shader(b.id())
	b.shaders[s] = &shader{kind: kind}
	return s
}

func (b *Backend) ShaderSource(s gfx.Shader, source string) {
	if sh, ok := b.shaders[s]; ok {
		sh.source = source
	}
}

var entryPoints = map[gfx.ShaderKind]string{
	gfx.VertexShader:   "@vertex",
	gfx.FragmentShader: "@fragment",
}

func (b *Backend) CompileShader(s gfx.Shader) {
	sh, ok := b.shaders[s]
	if !ok {
		return
	}

	sh.compiled = false
	sh.log = ""
	if !strings.Contains(sh.source, entryPoints[sh.kind]) {
		sh.log = fmt.Sprintf("no %s entry point in %s shader", entryPoints[sh.kind], sh.kind)
		return
	}

	spirv, err := naga.Compile(sh.source)
	if err != nil {
		sh.log = err.Error()
		b.log.Debugf("shader %d failed to compile: %v", s, err)
		return
	}

	sh.spirv = spirv
	sh.compiled = true
}

func (b *Backend) ShaderCompiled(s gfx.Shader) bool {
	sh, ok := b.shaders[s]
	return ok && sh.compiled
}

func (b *Backend) ShaderInfoLog(s gfx.Shader) string {
	if sh, ok := b.shaders[s]; ok {
		return sh.log
	}
	return ""
}

func (b *Backend) DeleteShader(s gfx.Shader) {
	delete(b.shaders, s)
}

func (b *Backend) CreateProgram() gfx.Program {
	p := gfx.Program(b.id())
	b.programs[p] = &program{uniforms: make(map[string]gfx.UniformLocation)}
	return p
}

func (b *Backend) AttachShader(p gfx.Program, s gfx.Shader) {
	if prog, ok := b.programs[p]; ok {
		prog.shaders = append(prog.shaders, s)
	}
}

func (b *Backend) LinkProgram(p gfx.Program) {
	prog, ok := b.programs[p]
	if !ok {
		return
	}

	prog.linked = false
	stages := make(map[gfx.ShaderKind]int)
	for _, s := range prog.shaders {
		sh, ok := b.shaders[s]
		if !ok {
			prog.log = fmt.Sprintf("shader %d does not exist", s)
			return
		}
		if !sh.compiled {
			prog.log = fmt.Sprintf("%s shader %d is not compiled", sh.kind, s)
			return
		}
		stages[sh.kind]++
	}

	for _, kind := range []gfx.ShaderKind{gfx.VertexShader, gfx.FragmentShader} {
		if stages[kind] != 1 {
			prog.log = fmt.Sprintf("program needs exactly one %s shader, has %d", kind, stages[kind])
			return
		}
	}

	prog.log = ""
	prog.linked = true
}

func (b *Backend) ProgramLinked(p gfx.Program) bool {
	prog, ok := b.programs[p]
	return ok && prog.linked
}

func (b *Backend) ProgramInfoLog(p gfx.Program) string {
	if prog, ok := b.programs[p]; ok {
		return prog.log
	}
	return ""
}

func (b *Backend) UseProgram(p gfx.Program) {
	b.current = p
}

// GetUniformLocation hands out a location per (program, name) pair. Uniform
// declarations are not checked against the shader sources.
func (b *Backend) GetUniformLocation(p gfx.Program, name string) gfx.UniformLocation {
	prog, ok := b.programs[p]
	if !ok || !prog.linked {
		return gfx.NoUniform
	}

	loc, ok := prog.uniforms[name]
	if !ok {
		loc = gfx.UniformLocation(b.id())
		prog.uniforms[name] = loc
	}
	return loc
}

func (b *Backend) DeleteProgram(p gfx.Program) {
	delete(b.programs, p)
	if b.current == p {
		b.current = gfx.NoProgram
	}
}

func (b *Backend) CreateBuffer() gfx.Buffer {
	if b.opts.bufferLimit > 0 && len(b.buffers) >= b.opts.bufferLimit {
		b.log.Warnf("buffer limit of %d reached", b.opts.bufferLimit)
		return gfx.NoBuffer
	}

	buf := gfx.Buffer(b.id())
	b.buffers[buf] = &buffer{}
	return buf
}

func (b *Backend) BindBuffer(target gfx.BufferTarget, buf gfx.Buffer) {
	if target == gfx.ArrayBuffer {
		b.arrayBuffer = buf
	}
}

func (b *Backend) BufferData(target gfx.BufferTarget, data []float32, usage gfx.Usage) {
	if target != gfx.ArrayBuffer {
		return
	}

	buf, ok := b.buffers[b.arrayBuffer]
	if !ok {
		return
	}
	buf.data = append(buf.data[:0], data...)
	buf.usage = usage
}

func (b *Backend) DeleteBuffer(buf gfx.Buffer) {
	delete(b.buffers, buf)
	if b.arrayBuffer == buf {
		b.arrayBuffer = gfx.NoBuffer
	}
}

func (b *Backend) EnableVertexAttribArray(index int) {
	b.attrib(index).Enabled = true
}

func (b *Backend) VertexAttribPointer(index, size int, typ gfx.DataType, normalized bool, stride, offset int) {
	a := b.attrib(index)
	a.Buffer = b.arrayBuffer
	a.Size = size
	a.Type = typ
	a.Normalized = normalized
	a.Stride = stride
	a.Offset = offset
}

func (b *Backend) attrib(index int) *Attrib {
	a, ok := b.attribs[index]
	if !ok {
		a = &Attrib{}
		b.attribs[index] = a
	}
	return a
}

func (b *Backend) UniformMatrix4fv(loc gfx.UniformLocation, transpose bool, value []float32) {
	if loc == gfx.NoUniform || len(value) < 16 {
		return
	}

	var m [16]float32
	copy(m[:], value)
	if transpose {
		for col := 0; col < 4; col++ {
			for row := 0; row < 4; row++ {
				m[col*4+row] = value[row*4+col]
			}
		}
	}

	b.uniforms[loc] = m[:]
	b.matrix = m
}

func (b *Backend) Flush() {
	b.flushes++
}
