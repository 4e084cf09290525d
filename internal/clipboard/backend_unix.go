//go:build linux || freebsd || openbsd || netbsd || dragonfly

package clipboard

import (
	"errors"
	"os"
	"sync"
)

var (
	initOnce     sync.Once
	initErr      error
	active       backend
	errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
)

// acquire opens the platform backend once. Without a display server every
// call fails with errNoDisplay.
func acquire() (backend, error) {
	initOnce.Do(func() {
		if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
			initErr = errNoDisplay
			return
		}
		active, initErr = newBackend()
	})
	return active, initErr
}
