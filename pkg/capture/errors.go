package capture

import (
	"errors"
	"fmt"
)

const genericAcquisitionFailure = "media acquisition failed"

var (
	// ErrNotInitialized is returned by GetImageData before Init created the
	// snapshot surface.
	ErrNotInitialized = errors.New("capture: snapshot surface is not initialized")
	// ErrNoSink is returned when an operation needs a sink and none is set.
	ErrNoSink = errors.New("capture: no sink")
	// ErrNoStream is returned by a sink asked to play before it has a stream.
	ErrNoStream = errors.New("capture: sink has no stream")
	// ErrClosed is returned by a Manager or sink that has been closed.
	ErrClosed = errors.New("capture: closed")
)

// MediaAcquisitionError reports a failed stream acquisition. Name is the
// platform's error name.
type MediaAcquisitionError struct {
	Name string
	Err  error
}

func (e *MediaAcquisitionError) Error() string {
	return fmt.Sprintf("capture: %s", e.Name)
}

func (e *MediaAcquisitionError) Unwrap() error {
	return e.Err
}

// errorName extracts the platform error name of err, preferring a Name
// method when the error has one.
func errorName(err error) string {
	if err == nil {
		return genericAcquisitionFailure
	}

	var named interface{ Name() string }
	if errors.As(err, &named) && named.Name() != "" {
		return named.Name()
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return genericAcquisitionFailure
}
