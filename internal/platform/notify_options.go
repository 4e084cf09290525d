package platform

import (
	"errors"
	"time"
)

// AppName is reported to the notification service.
const AppName = "ShineyMark"

// ErrUnsupported is returned by Notify where the host has no notification
// service ShineyMark knows how to reach.
var ErrUnsupported = errors.New("desktop notifications not supported on this platform")

// DefaultTimeout is how long a notification stays up when Options.Timeout is
// zero.
const DefaultTimeout = 5 * time.Second

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file the notification center
	// should display with the notification if supported by the platform.
	IconPath string
	// Timeout is the display duration where the platform honours one.
	Timeout time.Duration
}

func (o Options) timeoutMillis() int32 {
	if o.Timeout <= 0 {
		return int32(DefaultTimeout / time.Millisecond)
	}
	return int32(o.Timeout / time.Millisecond)
}
