package softgl

import (
	"image/color"

	"github.com/pion/logging"
)

type options struct {
	bufferLimit   int
	fill          color.NRGBA
	loggerFactory logging.LoggerFactory
}

// Option configures a Backend.
type Option func(*options)

// WithBufferLimit makes buffer allocation fail once n buffers are alive.
// Zero means unlimited.
func WithBufferLimit(n int) Option {
	return func(o *options) {
		o.bufferLimit = n
	}
}

// WithFillColor sets the color triangles are filled with.
func WithFillColor(c color.NRGBA) Option {
	return func(o *options) {
		o.fill = c
	}
}

// WithLoggerFactory sets the factory the Backend creates its logger from.
func WithLoggerFactory(f logging.LoggerFactory) Option {
	return func(o *options) {
		o.loggerFactory = f
	}
}
