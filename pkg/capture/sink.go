package capture

import (
	"errors"
	"image"
	"io"
	"sync"

	"github.com/pion/logging"
	"github.com/pion/mediadevices"
	"github.com/pion/mediadevices/pkg/io/video"
	mlogging "github.com/pion/mediashim/internal/logging"
)

// Sink plays a media stream and exposes the frame currently displayed.
type Sink interface {
	// SetStream replaces the stream the sink plays. Playback stops until the
	// next Play.
	SetStream(s mediadevices.MediaStream)
	Play() error
	Pause() error
	// CurrentFrame returns a copy of the most recent frame, if one arrived.
	CurrentFrame() (image.Image, bool)
	Close() error
}

// videoReaderTrack is the part of *mediadevices.VideoTrack a VideoSink reads
// frames through.
type videoReaderTrack interface {
	NewReader(copyFrame bool) video.Reader
}

// VideoSink plays the first video track of a stream and keeps the latest
// frame.
type VideoSink struct {
	mu       sync.Mutex
	stream   mediadevices.MediaStream
	frames   *video.FrameBuffer
	hasFrame bool
	stop     chan struct{}
	closed   bool

	log logging.LeveledLogger
}

var _ Sink = &VideoSink{}

// NewVideoSink creates an idle sink. A nil factory uses the process default.
func NewVideoSink(f logging.LoggerFactory) *VideoSink {
	return &VideoSink{
		frames: video.NewFrameBuffer(0),
		log:    mlogging.NewLogger(f, "sink"),
	}
}

func (s *VideoSink) SetStream(stream mediadevices.MediaStream) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pauseLocked()
	s.stream = stream
}

// Play starts pulling frames from the stream. Playing an already playing
// sink is a no-op; a stream without video tracks plays without frames.
func (s *VideoSink) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.stream == nil {
		return ErrNoStream
	}
	if s.stop != nil {
		return nil
	}

	stop := make(chan struct{})
	s.stop = stop

	for _, t := range s.stream.GetVideoTracks() {
		vt, ok := t.(videoReaderTrack)
		if !ok {
			continue
		}

		go s.pull(vt.NewReader(false), stop)
		return nil
	}

	s.log.Debug("stream has no readable video track")
	return nil
}

func (s *VideoSink) pull(r video.Reader, stop <-chan struct{}) {
	for {
		img, release, err := r.Read()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.log.Warnf("stopped reading frames: %v", err)
			}
			return
		}

		select {
		case <-stop:
			release()
			return
		default:
		}

		s.mu.Lock()
		s.frames.StoreCopy(img)
		s.hasFrame = true
		s.mu.Unlock()
		release()
	}
}

// Pause stops pulling frames. The last frame stays current.
func (s *VideoSink) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	s.pauseLocked()
	return nil
}

func (s *VideoSink) pauseLocked() {
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
}

// Playing reports whether the sink is pulling frames.
func (s *VideoSink) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stop != nil
}

func (s *VideoSink) CurrentFrame() (image.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasFrame {
		return nil, false
	}

	copied := video.NewFrameBuffer(0)
	copied.StoreCopy(s.frames.Load())
	return copied.Load(), true
}

// Close pauses the sink and drops its stream. The stream's tracks are left
// running; they belong to whoever acquired them.
func (s *VideoSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pauseLocked()
	s.stream = nil
	s.closed = true
	return nil
}
