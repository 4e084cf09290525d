//go:build darwin

package platform

import (
	"fmt"
	"os/exec"
	"strings"
)

// appleScript builds the osascript source for a Notification Center banner.
// The application name goes in the subtitle since scripts post as the
// script runner rather than as ShineyMark.
func appleScript(title, body string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "display notification %q", body)
	fmt.Fprintf(&sb, " with title %q", title)
	if title != AppName {
		fmt.Fprintf(&sb, " subtitle %q", AppName)
	}
	return sb.String()
}

// Notify posts a banner through osascript. Notification Center picks its
// own icon and dismissal time, so opts is unused.
func Notify(title, body string, opts Options) error {
	out, err := exec.Command("osascript", "-e", appleScript(title, body)).CombinedOutput()
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("osascript: %w: %s", err, msg)
		}
		return fmt.Errorf("osascript: %w", err)
	}
	return nil
}
