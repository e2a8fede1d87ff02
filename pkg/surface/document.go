package surface

import "sync"

// Document is the ordered set of surfaces that are currently visible.
type Document struct {
	mu       sync.Mutex
	surfaces []*Surface
}

var defaultDocument = NewDocument()

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{}
}

// DefaultDocument returns the process-wide document used when a component is
// not given one explicitly.
func DefaultDocument() *Document {
	return defaultDocument
}

// Append attaches s at the end of d, moving it out of any document it was
// previously attached to.
func (d *Document) Append(s *Surface) {
	s.Remove()

	d.mu.Lock()
	d.surfaces = append(d.surfaces, s)
	d.mu.Unlock()

	s.mu.Lock()
	s.doc = d
	s.mu.Unlock()
}

// Contains reports whether s is attached to d.
func (d *Document) Contains(s *Surface) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, attached := range d.surfaces {
		if attached == s {
			return true
		}
	}
	return false
}

// GetByID returns the first attached surface tagged with id.
func (d *Document) GetByID(id string) *Surface {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, s := range d.surfaces {
		if s.id == id {
			return s
		}
	}
	return nil
}

// Surfaces returns a snapshot of the attached surfaces in attach order.
func (d *Document) Surfaces() []*Surface {
	d.mu.Lock()
	defer d.mu.Unlock()

	result := make([]*Surface, len(d.surfaces))
	copy(result, d.surfaces)
	return result
}

func (d *Document) remove(s *Surface) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, attached := range d.surfaces {
		if attached == s {
			d.surfaces = append(d.surfaces[:i], d.surfaces[i+1:]...)
			return
		}
	}
}
