// Package export renders the committed shapes over the background at the
// image's native resolution and encodes the result.
package export

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"math"
	"strings"

	"github.com/example/shineymark/internal/render"
	"github.com/example/shineymark/internal/shape"
)

// Format names an output encoding.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	PDF  Format = "pdf"
)

// DefaultQuality is used for JPEG when Options.Quality is zero.
const DefaultQuality = 92

var (
	ErrNotReady          = errors.New("export: no background image")
	ErrUnsupportedFormat = errors.New("export: unsupported format")
)

// ParseFormat maps a user supplied name or file extension to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "", "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "pdf":
		return PDF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// MIME returns the media type of f.
func (f Format) MIME() string {
	switch f {
	case JPEG:
		return "image/jpeg"
	case PDF:
		return "application/pdf"
	}
	return "image/png"
}

// Options controls encoding.
type Options struct {
	Format  Format
	Quality int
}

// Source is what an export reads: the background, the committed shapes and
// the effective on-screen scale of the stage they are displayed on.
type Source struct {
	Background image.Image
	Shapes     []shape.Shape
	// Effective is the viewport's fit × zoom. Zero means 1.
	Effective float64
}

// Result is an encoded export.
type Result struct {
	Data   []byte
	Format Format
	Width  int
	Height int
}

// DataURL returns the result as a data: URL.
func (r Result) DataURL() string {
	if len(r.Data) == 0 {
		return ""
	}
	return "data:" + r.Format.MIME() + ";base64," + base64.StdEncoding.EncodeToString(r.Data)
}

// Image rasterizes src without selection or crop decorations. The stage is
// captured at pixelRatio = 1/Effective so the output always has the
// background's native size regardless of zoom.
func Image(src Source) (*image.RGBA, error) {
	if src.Background == nil || src.Background.Bounds().Empty() {
		return nil, ErrNotReady
	}
	eff := src.Effective
	if eff <= 0 || math.IsNaN(eff) || math.IsInf(eff, 0) {
		eff = 1
	}
	b := src.Background.Bounds()
	stageW, stageH := float64(b.Dx())*eff, float64(b.Dy())*eff
	ratio := 1 / eff
	w := int(math.Round(stageW * ratio))
	h := int(math.Round(stageH * ratio))
	scene := render.Scene{Background: src.Background, Shapes: src.Shapes}
	return render.Rasterize(scene, w, h, render.View{Scale: eff * ratio}), nil
}

// Export renders and encodes src.
func Export(src Source, opts Options) (Result, error) {
	img, err := Image(src)
	if err != nil {
		return Result{}, err
	}
	return Encode(img, opts)
}

// Encode writes img in the requested format.
func Encode(img image.Image, opts Options) (Result, error) {
	format := opts.Format
	if format == "" {
		format = PNG
	}
	var buf bytes.Buffer
	switch format {
	case PNG:
		if err := png.Encode(&buf, img); err != nil {
			return Result{}, fmt.Errorf("encode png: %w", err)
		}
	case JPEG:
		q := opts.Quality
		if q <= 0 || q > 100 {
			q = DefaultQuality
		}
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: q}); err != nil {
			return Result{}, fmt.Errorf("encode jpeg: %w", err)
		}
	case PDF:
		if err := writePDF(&buf, img); err != nil {
			return Result{}, fmt.Errorf("encode pdf: %w", err)
		}
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	b := img.Bounds()
	return Result{Data: buf.Bytes(), Format: format, Width: b.Dx(), Height: b.Dy()}, nil
}
