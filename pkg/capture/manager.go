// Package capture acquires a camera (and optionally microphone) stream, plays
// it into a Sink and reads pixel snapshots of the current frame through an
// offscreen surface.
//
//	import _ "github.com/pion/mediadevices/pkg/driver/camera"
//
//	m := capture.New()
//	defer m.Close()
//
//	sink := capture.NewVideoSink(nil)
//	if err := <-m.Init(false, 640, 480, sink); err != nil {
//		return err
//	}
//	img, err := m.GetImageData(ctx)
package capture

import (
	"context"
	"fmt"
	"sync"

	"github.com/pion/logging"
	"github.com/pion/mediadevices"
	"github.com/pion/mediadevices/pkg/prop"
	mlogging "github.com/pion/mediashim/internal/logging"
	"github.com/pion/mediashim/pkg/surface"
)

// Manager owns a snapshot surface and the streams it acquired.
//
// The snapshot surface is created by the first Init and reused by later ones,
// so its dimensions never change. Construct a new Manager to capture at a
// different size.
type Manager struct {
	opts options
	log  logging.LeveledLogger

	mu       sync.Mutex
	state    State
	sink     Sink
	width    int
	height   int
	snapshot *surface.Surface
	ctx2d    *surface.Context2D
	stream   mediadevices.MediaStream
	acquired []mediadevices.MediaStream
	closed   bool
}

// New creates a Manager. Nothing is acquired until Init.
func New(opts ...Option) *Manager {
	o := options{
		devices:  DefaultMediaDevices,
		document: surface.DefaultDocument(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Manager{
		opts:  o,
		log:   mlogging.NewLogger(o.loggerFactory, "capture"),
		state: StateUninitialized,
	}
}

// Init records the requested dimensions and sink, creates the snapshot
// surface on first use and starts acquiring a stream in the background.
//
// Init does not wait for the acquisition. The returned channel receives nil
// once the stream plays in sink, or the error that stopped it, and is then
// closed.
func (m *Manager) Init(audio bool, width, height int, sink Sink) <-chan error {
	done := make(chan error, 1)
	fail := func(err error) <-chan error {
		done <- err
		close(done)
		return done
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return fail(ErrClosed)
	}
	if sink == nil {
		m.mu.Unlock()
		return fail(ErrNoSink)
	}

	err := m.state.update(StateInitialized, func() error {
		m.sink = sink
		m.width = width
		m.height = height

		if m.snapshot == nil || m.ctx2d == nil {
			return m.createSnapshotLocked(width, height)
		}
		return nil
	})
	m.mu.Unlock()
	if err != nil {
		return fail(err)
	}

	constraints := mediadevices.MediaStreamConstraints{
		Video: func(c *mediadevices.MediaTrackConstraints) {
			c.Width = prop.Int(width)
			c.Height = prop.Int(height)
		},
	}
	if audio {
		constraints.Audio = func(*mediadevices.MediaTrackConstraints) {}
	}

	go func() {
		done <- m.acquire(constraints, sink)
		close(done)
	}()

	return done
}

func (m *Manager) createSnapshotLocked(width, height int) error {
	s, err := surface.New(width, height, m.opts.surfaceID)
	if err != nil {
		return fmt.Errorf("capture: snapshot surface: %w", err)
	}

	raw, _, err := s.GetContext(surface.Context2DName)
	if err != nil {
		return fmt.Errorf("capture: snapshot context: %w", err)
	}

	m.opts.document.Append(s)
	m.snapshot = s
	m.ctx2d = raw.(*surface.Context2D)
	m.log.Debugf("created %dx%d snapshot surface %q", width, height, s.ID())
	return nil
}

func (m *Manager) acquire(constraints mediadevices.MediaStreamConstraints, sink Sink) error {
	stream, err := m.opts.devices.GetUserMedia(constraints)
	if err != nil {
		name := errorName(err)
		m.log.Errorf("failed to acquire media stream: %s", name)
		return &MediaAcquisitionError{Name: name, Err: err}
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		stopTracks(stream)
		return ErrClosed
	}
	m.stream = stream
	m.acquired = append(m.acquired, stream)
	m.mu.Unlock()

	sink.SetStream(stream)
	if err := sink.Play(); err != nil {
		return fmt.Errorf("capture: failed to play stream: %w", err)
	}

	m.log.Debugf("playing stream with %d track(s)", len(stream.GetTracks()))
	return nil
}

// GetImageData draws the sink's current frame into the snapshot surface and
// returns the Width() x Height() region. It does not wait for a frame: before
// the first one arrives the surface content is returned as is.
func (m *Manager) GetImageData(ctx context.Context) (*surface.ImageData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	ctx2d, sink, width, height := m.ctx2d, m.sink, m.width, m.height
	m.mu.Unlock()

	if ctx2d == nil {
		return nil, ErrNotInitialized
	}

	if sink != nil {
		if frame, ok := sink.CurrentFrame(); ok {
			ctx2d.DrawImage(frame, 0, 0)
		}
	}

	return ctx2d.GetImageData(0, 0, width, height)
}

// Pause pauses playback in the sink.
func (m *Manager) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sink == nil {
		return ErrNoSink
	}
	if m.state == StateDestroyed {
		return m.sink.Pause()
	}
	return m.state.update(StatePaused, m.sink.Pause)
}

// Destroy detaches the snapshot surface from its document. The surface, its
// context and any acquired stream are kept, so GetImageData keeps working.
func (m *Manager) Destroy() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.snapshot == nil {
		return
	}
	m.state.update(StateDestroyed, func() error {
		m.snapshot.Remove()
		return nil
	})
}

// State returns the lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Close destroys the snapshot surface, closes the sink and stops every track
// acquired by m, releasing the devices. Calling Close more than once is a
// no-op.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	sink := m.sink
	acquired := m.acquired
	m.acquired = nil
	m.stream = nil
	m.mu.Unlock()

	m.Destroy()

	var err error
	if sink != nil {
		err = sink.Close()
	}
	for _, stream := range acquired {
		stopTracks(stream)
	}
	return err
}

func stopTracks(stream mediadevices.MediaStream) {
	for _, t := range stream.GetTracks() {
		t.Close()
	}
}

// Width returns the width passed to the latest Init.
func (m *Manager) Width() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.width
}

// Height returns the height passed to the latest Init.
func (m *Manager) Height() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.height
}

// Surface returns the snapshot surface, or nil before the first Init.
func (m *Manager) Surface() *surface.Surface {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot
}

// Stream returns the most recently acquired stream, or nil.
func (m *Manager) Stream() mediadevices.MediaStream {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stream
}
