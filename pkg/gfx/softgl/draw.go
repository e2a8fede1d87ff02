package softgl

import (
	"image"

	"github.com/pion/mediashim/pkg/gfx"
	"golang.org/x/image/vector"
)

type vec4 [4]float32

// DrawArrays records the call and, for triangle lists drawn with a linked
// program, fills the triangles. Positions come from attribute 0 and are
// transformed by the last uploaded matrix. There is no clipping: triangles
// with a vertex at w <= 0 are dropped.
func (b *Backend) DrawArrays(mode gfx.DrawMode, first, count int) {
	b.draws = append(b.draws, DrawCall{
		Mode:    mode,
		First:   first,
		Count:   count,
		Program: b.current,
	})

	if mode != gfx.Triangles {
		b.log.Debugf("draw mode %#x is recorded but not rasterized", uint32(mode))
		return
	}
	if !b.ProgramLinked(b.current) {
		b.log.Warnf("draw without a linked program")
		return
	}

	verts, ok := b.positions(first, count)
	if !ok {
		return
	}

	dst := b.surface.Pixels()
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	if b.raster == nil {
		b.raster = vector.NewRasterizer(w, h)
	} else {
		b.raster.Reset(w, h)
	}

	var drawn int
	for i := 0; i+2 < len(verts); i += 3 {
		tri := [3]vec4{verts[i], verts[i+1], verts[i+2]}
		if tri[0][3] <= 0 || tri[1][3] <= 0 || tri[2][3] <= 0 {
			continue
		}

		x, y := b.window(tri[0])
		b.raster.MoveTo(x, y)
		x, y = b.window(tri[1])
		b.raster.LineTo(x, y)
		x, y = b.window(tri[2])
		b.raster.LineTo(x, y)
		b.raster.ClosePath()
		drawn++
	}

	if drawn > 0 {
		b.raster.Draw(dst, dst.Bounds(), image.NewUniform(b.opts.fill), image.Point{})
	}
}

// positions fetches count vertices from attribute 0 starting at first and
// transforms them to clip space.
func (b *Backend) positions(first, count int) ([]vec4, bool) {
	a, ok := b.attribs[0]
	if !ok || !a.Enabled || a.Size < 2 || a.Size > 4 {
		b.log.Warnf("attribute 0 is not set up for positions")
		return nil, false
	}
	buf, ok := b.buffers[a.Buffer]
	if !ok {
		b.log.Warnf("attribute 0 refers to missing buffer %d", a.Buffer)
		return nil, false
	}

	stride := a.Stride / 4
	if stride == 0 {
		stride = a.Size
	}
	offset := a.Offset / 4

	verts := make([]vec4, 0, count)
	for i := first; i < first+count; i++ {
		base := offset + i*stride
		if base+a.Size > len(buf.data) {
			b.log.Warnf("vertex %d is out of buffer range", i)
			return nil, false
		}

		v := vec4{0, 0, 0, 1}
		copy(v[:a.Size], buf.data[base:base+a.Size])
		verts = append(verts, b.transform(v))
	}
	return verts, true
}

func (b *Backend) transform(v vec4) vec4 {
	m := &b.matrix
	var out vec4
	for row := 0; row < 4; row++ {
		out[row] = m[row]*v[0] + m[4+row]*v[1] + m[8+row]*v[2] + m[12+row]*v[3]
	}
	return out
}

// window maps a clip space position to surface pixel coordinates. Window y
// grows upwards while surface rows grow downwards.
func (b *Backend) window(v vec4) (float32, float32) {
	nx, ny := v[0]/v[3], v[1]/v[3]
	vp := b.viewport
	x := float32(vp.Min.X) + (nx+1)*0.5*float32(vp.Dx())
	y := float32(vp.Min.Y) + (ny+1)*0.5*float32(vp.Dy())
	return x, float32(b.surface.Height()) - y
}
