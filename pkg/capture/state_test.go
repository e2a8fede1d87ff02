package capture

import (
	"errors"
	"testing"
)

var noop = func() error { return nil }

func TestStateUpdate(t *testing.T) {
	s := StateUninitialized

	if err := s.update(StatePaused, noop); err == nil {
		t.Fatal("expected pausing an uninitialized manager to fail")
	}
	if err := s.update(StateDestroyed, noop); err == nil {
		t.Fatal("expected destroying an uninitialized manager to fail")
	}

	steps := []State{StateInitialized, StatePaused, StatePaused, StateInitialized, StateDestroyed}
	for _, next := range steps {
		if err := s.update(next, noop); err != nil {
			t.Fatalf("%s: unexpected error: %v", next, err)
		}
		if s != next {
			t.Fatalf("expected %s, got %s", next, s)
		}
	}

	if err := s.update(StateInitialized, noop); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestStateUpdateKeepsStateOnFailure(t *testing.T) {
	s := StateInitialized
	want := errors.New("boom")

	if err := s.update(StatePaused, func() error { return want }); err != want {
		t.Fatalf("expected %v, got %v", want, err)
	}
	if s != StateInitialized {
		t.Fatalf("expected %s, got %s", StateInitialized, s)
	}
}
