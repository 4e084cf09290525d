package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/example/shineymark/internal/capture"
	"github.com/example/shineymark/internal/clipboard"
	"github.com/example/shineymark/internal/compose"
	"github.com/example/shineymark/internal/render"
	"github.com/example/shineymark/internal/shape"
)

// Seams replaced by tests.
var (
	captureScreenshotFn = capture.CaptureScreenshot
	captureRegionFn     = capture.CaptureRegion
	readClipboardFn     = clipboard.ReadImage
)

// sourceFlags selects where the background image comes from.
type sourceFlags struct {
	file          string
	fromClipboard bool
	capture       string
	display       string
	includeCursor bool
}

func (s *sourceFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&s.file, "file", "", "background image file (png or jpeg)")
	fs.BoolVar(&s.fromClipboard, "from-clipboard", false, "load the background image from the clipboard")
	fs.BoolVar(&s.fromClipboard, "from-clip", false, "load the background image from the clipboard (alias)")
	fs.StringVar(&s.capture, "capture", "", "capture the background: screen or region")
	fs.StringVar(&s.display, "display", "", "monitor selector for screen captures (index, name or primary)")
	fs.BoolVar(&s.includeCursor, "include-cursor", false, "embed the cursor in captures when supported")
}

func (s *sourceFlags) validate() error {
	n := 0
	if s.file != "" {
		n++
	}
	if s.fromClipboard {
		n++
	}
	if s.capture != "" {
		n++
		switch s.capture {
		case "screen", "region":
		default:
			return fmt.Errorf("unknown capture mode %q: want screen or region", s.capture)
		}
	}
	if n == 0 {
		return fmt.Errorf("one of -file, -from-clipboard or -capture is required")
	}
	if n > 1 {
		return fmt.Errorf("-file, -from-clipboard and -capture are mutually exclusive")
	}
	return nil
}

// describe names the source for notifications.
func (s *sourceFlags) describe() string {
	switch {
	case s.file != "":
		return filepath.Base(s.file)
	case s.fromClipboard:
		return "clipboard image"
	}
	return s.capture + " capture"
}

func (s *sourceFlags) load() (image.Image, error) {
	switch {
	case s.file != "":
		return loadImage(s.file)
	case s.fromClipboard:
		img, err := readClipboardFn()
		if err != nil {
			return nil, fmt.Errorf("failed to read clipboard image: %w", err)
		}
		return img, nil
	}
	opts := capture.CaptureOptions{Display: s.display, IncludeCursor: s.includeCursor}
	var (
		img *image.RGBA
		err error
	)
	if s.capture == "region" {
		img, err = captureRegionFn(opts)
	} else {
		img, err = captureScreenshotFn(opts)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to capture %s: %w", s.capture, err)
	}
	return img, nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// composeFlags configures the background pipeline.
type composeFlags struct {
	padding       int
	fill          string
	cornerRadius  float64
	shadow        bool
	shadowRadius  int
	shadowOffset  string
	shadowOpacity float64
	aspect        string
	watermark     string
}

func (c *composeFlags) register(fs *flag.FlagSet) {
	defaults := render.DefaultShadowOptions()
	fs.IntVar(&c.padding, "padding", 0, "padding around the image in pixels")
	fs.StringVar(&c.fill, "fill", "", "padding colour (hex or colour name)")
	fs.Float64Var(&c.cornerRadius, "corner-radius", 0, "round the image corners by this radius")
	fs.BoolVar(&c.shadow, "shadow", false, "apply a drop shadow to the image")
	fs.IntVar(&c.shadowRadius, "shadow-radius", defaults.Radius, "drop shadow blur radius in pixels")
	fs.StringVar(&c.shadowOffset, "shadow-offset", formatShadowOffset(defaults.Offset), "drop shadow offset as dx,dy")
	fs.Float64Var(&c.shadowOpacity, "shadow-opacity", defaults.Opacity, "drop shadow opacity between 0 and 1")
	fs.StringVar(&c.aspect, "aspect", "", "frame the image to an aspect ratio such as 16:9")
	fs.StringVar(&c.watermark, "watermark", "", "text drawn in the bottom right corner")
}

func (c *composeFlags) options() (compose.Options, error) {
	opts := compose.Options{
		Padding:      c.padding,
		CornerRadius: c.cornerRadius,
		Watermark:    c.watermark,
	}
	if c.fill != "" {
		col, err := shape.ParseColor(c.fill)
		if err != nil {
			return opts, fmt.Errorf("-fill: %w", err)
		}
		opts.Fill = col
	}
	if c.shadow {
		pt, err := parseShadowOffset(c.shadowOffset)
		if err != nil {
			return opts, err
		}
		opts.Shadow = render.ShadowOptions{Radius: c.shadowRadius, Offset: pt, Opacity: c.shadowOpacity}
	}
	if c.aspect != "" {
		ratio, err := parseAspect(c.aspect)
		if err != nil {
			return opts, err
		}
		opts.AspectRatio = ratio
	}
	return opts, nil
}

func formatShadowOffset(p image.Point) string {
	return fmt.Sprintf("%d,%d", p.X, p.Y)
}

func parseShadowOffset(s string) (image.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return image.Point{}, fmt.Errorf("invalid shadow offset %q: want dx,dy", s)
	}
	dx, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return image.Point{}, fmt.Errorf("invalid shadow offset %q: %w", s, err)
	}
	dy, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return image.Point{}, fmt.Errorf("invalid shadow offset %q: %w", s, err)
	}
	return image.Pt(dx, dy), nil
}

// parseAspect accepts "w:h" or a plain ratio.
func parseAspect(s string) (float64, error) {
	if w, h, ok := strings.Cut(s, ":"); ok {
		wv, err1 := strconv.ParseFloat(strings.TrimSpace(w), 64)
		hv, err2 := strconv.ParseFloat(strings.TrimSpace(h), 64)
		if err1 != nil || err2 != nil || wv <= 0 || hv <= 0 {
			return 0, fmt.Errorf("invalid aspect ratio %q", s)
		}
		return wv / hv, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid aspect ratio %q", s)
	}
	return v, nil
}

// resolveOutput places relative paths under the configured save directory.
func (r *root) resolveOutput(path string) string {
	if path == "" || filepath.IsAbs(path) || r == nil || r.config == nil || r.config.SaveDir == "" {
		return path
	}
	return filepath.Join(r.config.SaveDir, path)
}
