package gfx

import (
	"github.com/pion/logging"
	"github.com/pion/mediashim/pkg/surface"
)

type options struct {
	document         *surface.Document
	contextNames     []string
	clearDepthBuffer bool
	loggerFactory    logging.LoggerFactory
}

// Option configures a Context.
type Option func(*options)

// WithDocument attaches the surface to doc instead of the default document.
func WithDocument(doc *surface.Document) Option {
	return func(o *options) {
		o.document = doc
	}
}

// WithContextNames overrides the context names tried, in order, on the
// surface.
func WithContextNames(names ...string) Option {
	return func(o *options) {
		o.contextNames = names
	}
}

// WithClearDepthBuffer makes Init clear the depth buffer together with the
// color buffer. By default only the color buffer is cleared.
func WithClearDepthBuffer() Option {
	return func(o *options) {
		o.clearDepthBuffer = true
	}
}

// WithLoggerFactory sets the factory the Context creates its logger from.
func WithLoggerFactory(f logging.LoggerFactory) Option {
	return func(o *options) {
		o.loggerFactory = f
	}
}
