// Package gfx manages a drawing surface together with the GPU rendering
// context obtained from it. It compiles and caches shaders, links programs,
// uploads vertex buffers and issues draw calls through a pluggable Backend.
//
// A backend is looked up on the surface by context name, trying each of
// DefaultContextNames in order:
//
//	import _ "github.com/pion/mediashim/pkg/gfx/softgl" // registers "webgl"
//
//	ctx, err := gfx.New(640, 480, "scene")
//	if err != nil {
//		return err
//	}
//	defer ctx.Close()
//	ctx.Init()
package gfx

// DefaultContextNames are the context names tried, in order, when acquiring a
// rendering context from a surface.
var DefaultContextNames = []string{"webgl", "experimental-webgl"}

type (
	// Shader is an opaque shader object handle. NoShader is the zero handle.
	Shader uint32
	// Program is an opaque program object handle.
	Program uint32
	// Buffer is an opaque buffer object handle.
	Buffer uint32
	// UniformLocation identifies a uniform inside a linked program.
	UniformLocation int32
)

const (
	NoShader  Shader  = 0
	NoProgram Program = 0
	NoBuffer  Buffer  = 0

	// NoUniform is ignored by uniform uploads.
	NoUniform UniformLocation = -1
)

// ShaderKind selects the pipeline stage a shader is compiled for.
type ShaderKind int

const (
	VertexShader ShaderKind = iota + 1
	FragmentShader
)

func (k ShaderKind) String() string {
	switch k {
	case VertexShader:
		return "vertex"
	case FragmentShader:
		return "fragment"
	default:
		return "unknown"
	}
}

// ClearMask selects the buffers cleared by Backend.Clear.
type ClearMask uint32

const (
	DepthBufferBit ClearMask = 0x00000100
	ColorBufferBit ClearMask = 0x00004000
)

// BufferTarget is a buffer binding point.
type BufferTarget uint32

const (
	ArrayBuffer BufferTarget = 0x8892
)

// Usage is a hint of how often buffer data is updated.
type Usage uint32

const (
	StaticDraw  Usage = 0x88E4
	DynamicDraw Usage = 0x88E8
)

// DataType describes the component type of vertex attribute data.
type DataType uint32

const (
	Float DataType = 0x1406
)

// DrawMode is the primitive type of a draw call.
type DrawMode uint32

const (
	Points        DrawMode = 0x0000
	Lines         DrawMode = 0x0001
	Triangles     DrawMode = 0x0004
	TriangleStrip DrawMode = 0x0005
)

// AttributeSetting describes vertex attribute data: a flat list of
// components, Size components per vertex.
type AttributeSetting struct {
	Data []float32
	Size int
}

// Backend is the capability set a graphics platform must provide. Object
// creation returns the zero handle when the platform cannot allocate one.
type Backend interface {
	Viewport(x, y, width, height int)
	ClearColor(r, g, b, a float32)
	ClearDepth(depth float32)
	Clear(mask ClearMask)

	CreateShader(kind ShaderKind) Shader
	ShaderSource(s Shader, source string)
	CompileShader(s Shader)
	ShaderCompiled(s Shader) bool
	ShaderInfoLog(s Shader) string
	DeleteShader(s Shader)

	CreateProgram() Program
	AttachShader(p Program, s Shader)
	LinkProgram(p Program)
	ProgramLinked(p Program) bool
	ProgramInfoLog(p Program) string
	UseProgram(p Program)
	GetUniformLocation(p Program, name string) UniformLocation
	DeleteProgram(p Program)

	CreateBuffer() Buffer
	BindBuffer(target BufferTarget, b Buffer)
	BufferData(target BufferTarget, data []float32, usage Usage)
	DeleteBuffer(b Buffer)

	EnableVertexAttribArray(index int)
	VertexAttribPointer(index, size int, typ DataType, normalized bool, stride, offset int)
	UniformMatrix4fv(loc UniformLocation, transpose bool, value []float32)

	DrawArrays(mode DrawMode, first, count int)
	Flush()
}
