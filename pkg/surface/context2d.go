package surface

import (
	"fmt"
	"image"
	"sync"

	"golang.org/x/image/draw"
)

// Context2DName is the name the 2-D context is registered under.
const Context2DName = "2d"

func init() {
	RegisterContext(Context2DName, func(s *Surface) (interface{}, error) {
		return &Context2D{surface: s}, nil
	})
}

// ImageData is a copy of a rectangular pixel region in non-premultiplied
// RGBA order, 4 bytes per pixel, rows tightly packed.
type ImageData struct {
	Width  int
	Height int
	Data   []uint8
}

// At returns the RGBA bytes of the pixel at (x, y).
func (d *ImageData) At(x, y int) [4]uint8 {
	i := (y*d.Width + x) * 4
	return [4]uint8{d.Data[i], d.Data[i+1], d.Data[i+2], d.Data[i+3]}
}

// Image wraps the pixel data without copying it.
func (d *ImageData) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    d.Data,
		Stride: d.Width * 4,
		Rect:   image.Rect(0, 0, d.Width, d.Height),
	}
}

// Context2D draws images into a surface and reads its pixels back.
type Context2D struct {
	mu      sync.Mutex
	surface *Surface
}

// Surface returns the surface the context draws into.
func (c *Context2D) Surface() *Surface { return c.surface }

// DrawImage composites img at its native size with its top-left corner at
// (dx, dy). Parts falling outside the surface are clipped.
func (c *Context2D) DrawImage(img image.Image, dx, dy int) {
	if img == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	draw.Copy(c.surface.img, image.Pt(dx, dy), img, img.Bounds(), draw.Over, nil)
}

// ClearRect resets a region to transparent black.
func (c *Context2D) ClearRect(x, y, w, h int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r := image.Rect(x, y, x+w, y+h)
	draw.Draw(c.surface.img, r, image.Transparent, image.Point{}, draw.Src)
}

// GetImageData copies the w x h region starting at (x, y). Pixels outside the
// surface read as transparent black.
func (c *Context2D) GetImageData(x, y, w, h int) (*ImageData, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidSize, w, h)
	}

	data := &ImageData{
		Width:  w,
		Height: h,
		Data:   make([]uint8, w*h*4),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	src := c.surface.img
	region := image.Rect(x, y, x+w, y+h).Intersect(src.Rect)
	if region.Empty() {
		return data, nil
	}

	rowLen := region.Dx() * 4
	for sy := region.Min.Y; sy < region.Max.Y; sy++ {
		srcOff := src.PixOffset(region.Min.X, sy)
		dstOff := ((sy-y)*w + (region.Min.X - x)) * 4
		copy(data.Data[dstOff:dstOff+rowLen], src.Pix[srcOff:srcOff+rowLen])
	}

	return data, nil
}
