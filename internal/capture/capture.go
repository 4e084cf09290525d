// Package capture grabs a desktop screenshot to use as an annotation
// background.
package capture

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"strings"
)

// CaptureOptions controls how the screenshot is taken.
type CaptureOptions struct {
	// Display selects a monitor by index, name or "primary". Empty captures
	// the whole desktop.
	Display            string
	IncludeCursor      bool
	IncludeDecorations bool
}

var errNoMonitors = errors.New("no monitors available")

// Seams replaced by tests.
var (
	portalScreenshotFn = portalScreenshot
	rootScreenshotFn   = rootScreenshot
	listMonitorsFn     = listMonitors
	portalUnsupported  = isPortalUnsupportedError
)

// CaptureScreenshot captures the desktop through the screenshot portal. When
// the portal is missing it falls back to reading the X11 root window. A
// display selector crops the result to the matching monitor.
func CaptureScreenshot(opts CaptureOptions) (*image.RGBA, error) {
	img, err := portalScreenshotFn(false, opts)
	if err != nil {
		if !portalUnsupported(err) {
			return nil, err
		}
		fallback, ferr := rootScreenshotFn()
		if ferr != nil {
			return nil, fmt.Errorf("%v; x11 fallback: %w", err, ferr)
		}
		img = fallback
	}
	if strings.TrimSpace(opts.Display) == "" {
		return img, nil
	}
	monitors, err := listMonitorsFn()
	if err != nil {
		return nil, fmt.Errorf("list monitors: %w", err)
	}
	monitor, err := FindMonitor(monitors, opts.Display)
	if err != nil {
		return nil, err
	}
	return cropToRect(img, monitor.Rect)
}

// CaptureRegion lets the user pick a region through the portal. There is no
// fallback: an interactive selection needs the portal's UI.
func CaptureRegion(opts CaptureOptions) (*image.RGBA, error) {
	img, err := portalScreenshotFn(true, opts)
	if err != nil {
		return nil, fmt.Errorf("capture region: %w", err)
	}
	return img, nil
}

func cropToRect(src *image.RGBA, rect image.Rectangle) (*image.RGBA, error) {
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("requested region outside captured image")
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst, nil
}
