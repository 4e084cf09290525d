package capture

import (
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"
)

var errMonitorNotFound = errors.New("monitor not found")

// MonitorInfo is one output in the display layout, in root window
// coordinates.
type MonitorInfo struct {
	Index   int
	Name    string
	Rect    image.Rectangle
	Primary bool
}

func ListMonitors() ([]MonitorInfo, error) {
	return listMonitorsFn()
}

// FindMonitor picks a monitor by selector: "" for the first, "primary", an
// index with optional '#', or a name. An exact name wins over a substring
// match; names compare case-insensitively.
func FindMonitor(monitors []MonitorInfo, selector string) (MonitorInfo, error) {
	if len(monitors) == 0 {
		return MonitorInfo{}, errNoMonitors
	}
	sel := strings.ToLower(strings.TrimSpace(selector))
	if sel == "" {
		return monitors[0], nil
	}
	if sel == "primary" {
		for _, m := range monitors {
			if m.Primary {
				return m, nil
			}
		}
		return monitors[0], nil
	}
	if i, err := strconv.Atoi(strings.TrimPrefix(sel, "#")); err == nil {
		if i < 0 || i >= len(monitors) {
			return MonitorInfo{}, fmt.Errorf("monitor index %d out of range (have %d)", i, len(monitors))
		}
		return monitors[i], nil
	}
	partial := -1
	for i, m := range monitors {
		name := strings.ToLower(m.Name)
		if name == sel {
			return m, nil
		}
		if partial < 0 && strings.Contains(name, sel) {
			partial = i
		}
	}
	if partial >= 0 {
		return monitors[partial], nil
	}
	return MonitorInfo{}, fmt.Errorf("%w: %q", errMonitorNotFound, selector)
}
