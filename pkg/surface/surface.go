// Package surface provides pixel-addressable drawing surfaces and the document
// they are attached to while visible. Rendering contexts are obtained from a
// surface by name, in the same way a canvas hands out its "2d" or "webgl"
// contexts.
package surface

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrInvalidSize is returned when a surface or a pixel region is requested
	// with a non-positive width or height.
	ErrInvalidSize = errors.New("surface: width and height must be positive")
	// ErrNoContext is returned when none of the requested context names could
	// produce a context for the surface.
	ErrNoContext = errors.New("surface: no rendering context available")
)

// Surface is an owned drawing surface backed by a non-premultiplied RGBA
// pixel store.
type Surface struct {
	id     string
	width  int
	height int
	img    *image.NRGBA

	mu      sync.Mutex
	doc     *Document
	ctx     interface{}
	ctxName string
}

// New creates a detached surface of width x height pixels tagged with id.
// An empty id is replaced by a random one.
func New(width, height int, id string) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidSize, width, height)
	}

	if id == "" {
		id = uuid.NewString()
	}

	return &Surface{
		id:     id,
		width:  width,
		height: height,
		img:    image.NewNRGBA(image.Rect(0, 0, width, height)),
	}, nil
}

// ID returns the id the surface was tagged with.
func (s *Surface) ID() string { return s.id }

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.width }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.height }

// Bounds returns the pixel rectangle covered by the surface.
func (s *Surface) Bounds() image.Rectangle { return s.img.Rect }

// Pixels exposes the backing pixel store. Contexts draw into it directly.
func (s *Surface) Pixels() *image.NRGBA { return s.img }

// Document returns the document the surface is attached to, or nil.
func (s *Surface) Document() *Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// Attached reports whether the surface is currently part of a document.
func (s *Surface) Attached() bool {
	return s.Document() != nil
}

// Remove detaches the surface from its document. Contexts obtained from the
// surface stay usable.
func (s *Surface) Remove() {
	s.mu.Lock()
	doc := s.doc
	s.doc = nil
	s.mu.Unlock()

	if doc != nil {
		doc.remove(s)
	}
}

// GetContext returns a rendering context for the first name in names that
// yields one. Once a surface has a context, only the same name returns it
// again; other names are skipped.
func (s *Surface) GetContext(names ...string) (interface{}, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx != nil {
		for _, name := range names {
			if name == s.ctxName {
				return s.ctx, s.ctxName, nil
			}
		}
		return nil, "", fmt.Errorf("%w: surface %q already has a %q context", ErrNoContext, s.id, s.ctxName)
	}

	var lastErr error
	for _, name := range names {
		factory, ok := lookupContext(name)
		if !ok {
			continue
		}

		ctx, err := factory(s)
		if err != nil {
			lastErr = err
			continue
		}
		if ctx == nil {
			continue
		}

		s.ctx = ctx
		s.ctxName = name
		return ctx, name, nil
	}

	if lastErr != nil {
		return nil, "", fmt.Errorf("%w: tried %v: %v", ErrNoContext, names, lastErr)
	}
	return nil, "", fmt.Errorf("%w: tried %v", ErrNoContext, names)
}
