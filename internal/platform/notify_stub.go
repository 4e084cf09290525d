//go:build !linux && !darwin && !windows

package platform

// Notify reports ErrUnsupported; there is no desktop notification service
// wired up for this GOOS.
func Notify(string, string, Options) error { return ErrUnsupported }
