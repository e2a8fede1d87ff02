package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pion/logging"
)

func TestNewLoggerUsesGivenFactory(t *testing.T) {
	var buf bytes.Buffer
	f := &logging.DefaultLoggerFactory{
		Writer:          &buf,
		DefaultLogLevel: logging.LogLevelDebug,
		ScopeLevels:     map[string]logging.LogLevel{},
	}

	NewLogger(f, "gfx").Debug("hello")

	if !strings.Contains(buf.String(), "hello") {
		t.Fatalf("expected log output to contain message, got %q", buf.String())
	}
}

func TestSetLoggerFactory(t *testing.T) {
	var buf bytes.Buffer
	SetLoggerFactory(&logging.DefaultLoggerFactory{
		Writer:          &buf,
		DefaultLogLevel: logging.LogLevelInfo,
		ScopeLevels:     map[string]logging.LogLevel{},
	})
	defer SetLoggerFactory(nil)

	l := NewLogger(nil, "capture")
	l.Debug("hidden")
	l.Info("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message should be filtered, got %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("expected info message, got %q", out)
	}
}
