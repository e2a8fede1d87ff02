//go:build !fake

package main

// Build with -tags fake to use the test pattern drivers instead.
import (
	_ "github.com/pion/mediadevices/pkg/driver/camera"
	_ "github.com/pion/mediadevices/pkg/driver/microphone"
)
