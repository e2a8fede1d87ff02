package capture

import (
	"github.com/pion/logging"
	"github.com/pion/mediadevices"
	"github.com/pion/mediashim/pkg/surface"
)

// MediaDevices is the media backend a Manager acquires streams from.
type MediaDevices interface {
	GetUserMedia(constraints mediadevices.MediaStreamConstraints) (mediadevices.MediaStream, error)
}

// MediaDevicesFunc adapts a function to MediaDevices.
type MediaDevicesFunc func(constraints mediadevices.MediaStreamConstraints) (mediadevices.MediaStream, error)

// GetUserMedia calls f.
func (f MediaDevicesFunc) GetUserMedia(constraints mediadevices.MediaStreamConstraints) (mediadevices.MediaStream, error) {
	return f(constraints)
}

// DefaultMediaDevices acquires streams from the drivers registered with
// pion/mediadevices.
var DefaultMediaDevices MediaDevices = MediaDevicesFunc(mediadevices.GetUserMedia)

type options struct {
	devices       MediaDevices
	document      *surface.Document
	surfaceID     string
	loggerFactory logging.LoggerFactory
}

// Option configures a Manager.
type Option func(*options)

// WithMediaDevices sets the backend streams are acquired from.
func WithMediaDevices(d MediaDevices) Option {
	return func(o *options) {
		o.devices = d
	}
}

// WithDocument attaches the snapshot surface to doc instead of the default
// document.
func WithDocument(doc *surface.Document) Option {
	return func(o *options) {
		o.document = doc
	}
}

// WithSurfaceID tags the snapshot surface with id.
func WithSurfaceID(id string) Option {
	return func(o *options) {
		o.surfaceID = id
	}
}

// WithLoggerFactory sets the factory the Manager and its VideoSinks create
// their loggers from.
func WithLoggerFactory(f logging.LoggerFactory) Option {
	return func(o *options) {
		o.loggerFactory = f
	}
}
