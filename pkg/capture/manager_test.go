package capture

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/pion/mediadevices"
	"github.com/pion/mediashim/pkg/surface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSink struct {
	mu      sync.Mutex
	stream  mediadevices.MediaStream
	plays   int
	pauses  int
	closed  bool
	frame   image.Image
	playErr error
}

func (s *fakeSink) SetStream(stream mediadevices.MediaStream) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stream = stream
}

func (s *fakeSink) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plays++
	return s.playErr
}

func (s *fakeSink) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pauses++
	return nil
}

func (s *fakeSink) CurrentFrame() (image.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame, s.frame != nil
}

func (s *fakeSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

type recordedDevices struct {
	mu          sync.Mutex
	constraints []mediadevices.MediaStreamConstraints
	err         error
}

func (d *recordedDevices) GetUserMedia(c mediadevices.MediaStreamConstraints) (mediadevices.MediaStream, error) {
	d.mu.Lock()
	d.constraints = append(d.constraints, c)
	d.mu.Unlock()

	if d.err != nil {
		return nil, d.err
	}
	return mediadevices.NewMediaStream()
}

type namedError struct{ name string }

func (e *namedError) Error() string { return "permission denied by user" }
func (e *namedError) Name() string  { return e.name }

func wait(t *testing.T, done <-chan error) error {
	t.Helper()

	select {
	case err, ok := <-done:
		require.True(t, ok, "completion channel closed without a result")
		_, open := <-done
		assert.False(t, open, "completion channel must be closed after the result")
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for Init to complete")
		return nil
	}
}

func newTestManager(devices MediaDevices) (*Manager, *surface.Document) {
	doc := surface.NewDocument()
	return New(WithMediaDevices(devices), WithDocument(doc), WithSurfaceID("snapshot")), doc
}

func TestGetImageDataBeforeInit(t *testing.T) {
	m, _ := newTestManager(&recordedDevices{})

	_, err := m.GetImageData(context.Background())
	if !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}

func TestInit(t *testing.T) {
	devices := &recordedDevices{}
	m, doc := newTestManager(devices)
	sink := &fakeSink{}

	require.NoError(t, wait(t, m.Init(false, 4, 3, sink)))

	s := m.Surface()
	require.NotNil(t, s)
	assert.Equal(t, "snapshot", s.ID())
	assert.True(t, doc.Contains(s))
	assert.NotNil(t, m.Stream())
	assert.Same(t, m.Stream(), sink.stream)
	assert.Equal(t, 1, sink.plays)

	require.Len(t, devices.constraints, 1)
	c := devices.constraints[0]
	assert.Nil(t, c.Audio)
	require.NotNil(t, c.Video)

	var tc mediadevices.MediaTrackConstraints
	c.Video(&tc)
	w, _ := tc.Width.Value()
	h, _ := tc.Height.Value()
	assert.Equal(t, 4, w)
	assert.Equal(t, 3, h)
}

func TestInitRequestsAudio(t *testing.T) {
	devices := &recordedDevices{}
	m, _ := newTestManager(devices)

	require.NoError(t, wait(t, m.Init(true, 2, 2, &fakeSink{})))
	require.Len(t, devices.constraints, 1)
	assert.NotNil(t, devices.constraints[0].Audio)
}

func TestInitAcquisitionFailure(t *testing.T) {
	cases := map[string]struct {
		err      error
		wantName string
	}{
		"NamedError":   {err: &namedError{name: "NotAllowedError"}, wantName: "NotAllowedError"},
		"PlainError":   {err: errors.New("no such device"), wantName: "no such device"},
		"EmptyMessage": {err: errors.New(""), wantName: genericAcquisitionFailure},
	}

	for name, c := range cases {
		c := c
		t.Run(name, func(t *testing.T) {
			m, _ := newTestManager(&recordedDevices{err: c.err})
			sink := &fakeSink{}

			err := wait(t, m.Init(false, 2, 2, sink))
			var acqErr *MediaAcquisitionError
			require.True(t, errors.As(err, &acqErr), "got %v", err)
			assert.Equal(t, c.wantName, acqErr.Name)
			assert.True(t, errors.Is(err, c.err))
			assert.Zero(t, sink.plays)

			// the snapshot surface exists even though acquisition failed
			_, err = m.GetImageData(context.Background())
			assert.NoError(t, err)
		})
	}
}

func TestInitPlayFailure(t *testing.T) {
	m, _ := newTestManager(&recordedDevices{})
	playErr := errors.New("autoplay blocked")

	err := wait(t, m.Init(false, 2, 2, &fakeSink{playErr: playErr}))
	assert.True(t, errors.Is(err, playErr), "got %v", err)
}

func TestInitErrors(t *testing.T) {
	m, _ := newTestManager(&recordedDevices{})

	err := wait(t, m.Init(false, 2, 2, nil))
	assert.True(t, errors.Is(err, ErrNoSink))

	err = wait(t, m.Init(false, 0, 2, &fakeSink{}))
	assert.True(t, errors.Is(err, surface.ErrInvalidSize), "got %v", err)
	assert.Nil(t, m.Surface())
}

func TestSecondInitKeepsSnapshotDimensions(t *testing.T) {
	m, _ := newTestManager(&recordedDevices{})

	require.NoError(t, wait(t, m.Init(false, 4, 4, &fakeSink{})))
	first := m.Surface()

	require.NoError(t, wait(t, m.Init(false, 8, 2, &fakeSink{})))
	assert.Same(t, first, m.Surface())
	assert.Equal(t, 4, m.Surface().Width())
	assert.Equal(t, 4, m.Surface().Height())

	// the readback region follows the latest Init, padded with transparent
	// pixels beyond the snapshot surface
	assert.Equal(t, 8, m.Width())
	assert.Equal(t, 2, m.Height())
	data, err := m.GetImageData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, data.Width)
	assert.Equal(t, 2, data.Height)
}

func TestGetImageData(t *testing.T) {
	m, _ := newTestManager(&recordedDevices{})
	sink := &fakeSink{}
	require.NoError(t, wait(t, m.Init(false, 3, 2, sink)))

	// no frame yet: blank data
	data, err := m.GetImageData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, [4]uint8{0, 0, 0, 0}, data.At(0, 0))

	frame := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			frame.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 9, A: 255})
		}
	}
	sink.mu.Lock()
	sink.frame = frame
	sink.mu.Unlock()

	data, err = m.GetImageData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, data.Width)
	assert.Equal(t, 2, data.Height)
	assert.Len(t, data.Data, 3*2*4)
	assert.Equal(t, [4]uint8{2, 1, 9, 255}, data.At(2, 1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = m.GetImageData(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestPause(t *testing.T) {
	m, _ := newTestManager(&recordedDevices{})
	assert.True(t, errors.Is(m.Pause(), ErrNoSink))

	sink := &fakeSink{}
	require.NoError(t, wait(t, m.Init(false, 2, 2, sink)))
	assert.Equal(t, StateInitialized, m.State())
	require.NoError(t, m.Pause())
	assert.Equal(t, 1, sink.pauses)
	assert.Equal(t, StatePaused, m.State())
}

func TestDestroyKeepsContext(t *testing.T) {
	m, doc := newTestManager(&recordedDevices{})

	// destroying before Init is harmless
	m.Destroy()
	assert.Equal(t, StateUninitialized, m.State())

	sink := &fakeSink{}
	require.NoError(t, wait(t, m.Init(false, 2, 2, sink)))
	s := m.Surface()

	m.Destroy()
	assert.Equal(t, StateDestroyed, m.State())
	assert.False(t, doc.Contains(s))
	assert.False(t, sink.closed, "Destroy must not close the sink")

	_, err := m.GetImageData(context.Background())
	assert.NoError(t, err)

	require.NoError(t, m.Pause())
	assert.Equal(t, StateDestroyed, m.State())
}

func TestInitAfterDestroy(t *testing.T) {
	devices := &recordedDevices{}
	m, _ := newTestManager(devices)
	sink := &fakeSink{}

	require.NoError(t, wait(t, m.Init(false, 2, 2, sink)))
	m.Destroy()

	err := wait(t, m.Init(false, 2, 2, sink))
	assert.True(t, errors.Is(err, ErrInvalidState))
	assert.Len(t, devices.constraints, 1, "no stream may be requested after Destroy")
}

func TestClose(t *testing.T) {
	m, doc := newTestManager(&recordedDevices{})
	sink := &fakeSink{}
	require.NoError(t, wait(t, m.Init(false, 2, 2, sink)))

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
	assert.True(t, sink.closed)
	assert.Empty(t, doc.Surfaces())
	assert.Nil(t, m.Stream())

	err := wait(t, m.Init(false, 2, 2, &fakeSink{}))
	assert.True(t, errors.Is(err, ErrClosed))
}

func TestCloseDuringAcquisition(t *testing.T) {
	release := make(chan struct{})
	devices := MediaDevicesFunc(func(mediadevices.MediaStreamConstraints) (mediadevices.MediaStream, error) {
		<-release
		return mediadevices.NewMediaStream()
	})
	m, _ := newTestManager(devices)
	sink := &fakeSink{}

	done := m.Init(false, 2, 2, sink)
	require.NoError(t, m.Close())
	close(release)

	assert.True(t, errors.Is(wait(t, done), ErrClosed))
	assert.Zero(t, sink.plays)
}
