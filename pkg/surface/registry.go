package surface

import "sync"

// ContextFactory creates a rendering context bound to s. Returning a nil
// context without an error means the factory does not support s.
type ContextFactory func(s *Surface) (interface{}, error)

type registry struct {
	mu        sync.RWMutex
	factories map[string]ContextFactory
}

var contexts = &registry{
	factories: make(map[string]ContextFactory),
}

// RegisterContext makes a context kind available under name for every
// surface. Registering the same name twice replaces the previous factory.
func RegisterContext(name string, f ContextFactory) {
	contexts.mu.Lock()
	defer contexts.mu.Unlock()

	contexts.factories[name] = f
}

// UnregisterContext removes the factory registered under name.
func UnregisterContext(name string) {
	contexts.mu.Lock()
	defer contexts.mu.Unlock()

	delete(contexts.factories, name)
}

func lookupContext(name string) (ContextFactory, bool) {
	contexts.mu.RLock()
	defer contexts.mu.RUnlock()

	f, ok := contexts.factories[name]
	return f, ok
}
