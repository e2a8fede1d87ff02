package softgl

import (
	"image"

	"github.com/pion/mediashim/pkg/gfx"
)

// ArrayBufferBinding returns the buffer bound to gfx.ArrayBuffer, or
// gfx.NoBuffer when unbound.
func (b *Backend) ArrayBufferBinding() gfx.Buffer { return b.arrayBuffer }

// BufferContents returns a copy of the contents and usage hint of buf.
func (b *Backend) BufferContents(buf gfx.Buffer) ([]float32, gfx.Usage, bool) {
	d, ok := b.buffers[buf]
	if !ok {
		return nil, 0, false
	}
	out := make([]float32, len(d.data))
	copy(out, d.data)
	return out, d.usage, true
}

// Attrib returns the state of the vertex attribute at index.
func (b *Backend) Attrib(index int) (Attrib, bool) {
	a, ok := b.attribs[index]
	if !ok {
		return Attrib{}, false
	}
	return *a, true
}

// DrawCalls returns every DrawArrays call made so far.
func (b *Backend) DrawCalls() []DrawCall {
	out := make([]DrawCall, len(b.draws))
	copy(out, b.draws)
	return out
}

// Flushes returns how many times Flush was called.
func (b *Backend) Flushes() int { return b.flushes }

// LastClear returns the mask passed to the most recent Clear.
func (b *Backend) LastClear() gfx.ClearMask { return b.lastClear }

// Depth returns the depth value stored for pixel (x, y).
func (b *Backend) Depth(x, y int) float32 { return b.depth[y*b.surface.Width()+x] }

// ViewportRect returns the current viewport rectangle.
func (b *Backend) ViewportRect() image.Rectangle { return b.viewport }

// CurrentProgram returns the program in use.
func (b *Backend) CurrentProgram() gfx.Program { return b.current }

// Uniform returns the matrix last uploaded to loc.
func (b *Backend) Uniform(loc gfx.UniformLocation) []float32 { return b.uniforms[loc] }

// Live returns how many shader, program and buffer objects exist.
func (b *Backend) Live() (shaders, programs, buffers int) {
	return len(b.shaders), len(b.programs), len(b.buffers)
}
