// Package logging hands out scoped pion loggers shared by every mediashim
// component.
package logging

import (
	"sync"

	"github.com/pion/logging"
)

var (
	mu            sync.RWMutex
	loggerFactory logging.LoggerFactory = logging.NewDefaultLoggerFactory()
)

// SetLoggerFactory replaces the process default factory. Passing nil restores
// pion's default factory, which reads its levels from PION_LOG_* variables.
func SetLoggerFactory(f logging.LoggerFactory) {
	if f == nil {
		f = logging.NewDefaultLoggerFactory()
	}

	mu.Lock()
	loggerFactory = f
	mu.Unlock()
}

// NewLogger creates a logger for scope from f, or from the process default
// factory when f is nil.
func NewLogger(f logging.LoggerFactory, scope string) logging.LeveledLogger {
	if f == nil {
		mu.RLock()
		f = loggerFactory
		mu.RUnlock()
	}

	return f.NewLogger(scope)
}
