package capture

import (
	"errors"
	"fmt"
)

// ErrInvalidState is returned for an operation the Manager's current state
// does not allow.
var ErrInvalidState = errors.New("capture: invalid state")

// State is the lifecycle state of a Manager.
type State string

const (
	// StateUninitialized means Init has not created the snapshot surface yet.
	StateUninitialized State = "uninitialized"
	// StateInitialized means the snapshot surface exists and a stream was
	// requested. The stream may still be pending.
	StateInitialized State = "initialized"
	// StatePaused means playback in the sink was paused.
	StatePaused State = "paused"
	// StateDestroyed means the snapshot surface was detached from its
	// document. The Manager cannot be initialized again.
	StateDestroyed State = "destroyed"
)

// update moves s to next if the transition is allowed and f succeeds.
// Otherwise s stays unchanged.
func (s *State) update(next State, f func() error) error {
	type checkFunc func() error
	m := map[State]checkFunc{
		StateInitialized: s.toInitialized,
		StatePaused:      s.toPaused,
		StateDestroyed:   s.toDestroyed,
	}

	check, ok := m[next]
	if !ok {
		return fmt.Errorf("%w: cannot move to %s", ErrInvalidState, next)
	}
	if err := check(); err != nil {
		return err
	}

	if err := f(); err != nil {
		return err
	}
	*s = next
	return nil
}

func (s *State) toInitialized() error {
	if *s == StateDestroyed {
		return fmt.Errorf("%w: manager is destroyed", ErrInvalidState)
	}
	return nil
}

func (s *State) toPaused() error {
	if *s != StateInitialized && *s != StatePaused {
		return fmt.Errorf("%w: cannot pause a %s manager", ErrInvalidState, *s)
	}
	return nil
}

func (s *State) toDestroyed() error {
	if *s == StateUninitialized {
		return fmt.Errorf("%w: nothing to destroy", ErrInvalidState)
	}
	return nil
}
