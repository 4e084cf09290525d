// Package compose builds the background bitmap shown under the annotation
// shapes: the source screenshot with optional rounded corners, drop shadow,
// padding, aspect-ratio framing and a watermark.
package compose

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/shineymark/internal/render"
	"github.com/example/shineymark/internal/shape"
)

var (
	ErrNoSource       = errors.New("no source image")
	ErrInvalidOptions = errors.New("invalid compose options")
)

// Options describes the compositing steps. Zero values disable a step.
type Options struct {
	Padding      int
	Fill         color.RGBA
	CornerRadius float64
	Shadow       render.ShadowOptions
	// AspectRatio is width/height of the final canvas.
	AspectRatio    float64
	Watermark      string
	WatermarkColor color.RGBA
}

func (o Options) validate() error {
	switch {
	case o.Padding < 0:
		return fmt.Errorf("%w: negative padding %d", ErrInvalidOptions, o.Padding)
	case o.CornerRadius < 0:
		return fmt.Errorf("%w: negative corner radius", ErrInvalidOptions)
	case o.AspectRatio < 0 || math.IsNaN(o.AspectRatio) || math.IsInf(o.AspectRatio, 0):
		return fmt.Errorf("%w: aspect ratio %v", ErrInvalidOptions, o.AspectRatio)
	}
	return nil
}

// Pipeline is the default compositor.
type Pipeline struct{}

// Composite runs every enabled step over src. It stops early when ctx is
// cancelled.
func (Pipeline) Composite(ctx context.Context, src image.Image, opts Options) (image.Image, error) {
	if src == nil || src.Bounds().Empty() {
		return nil, ErrNoSource
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	steps := []func(*image.RGBA) *image.RGBA{
		func(img *image.RGBA) *image.RGBA { return roundCorners(img, opts.CornerRadius) },
		func(img *image.RGBA) *image.RGBA { return render.ApplyShadow(img, opts.Shadow).Image },
		func(img *image.RGBA) *image.RGBA { return pad(img, opts.Padding, opts.Fill) },
		func(img *image.RGBA) *image.RGBA { return frame(img, opts.AspectRatio, opts.Fill) },
		func(img *image.RGBA) *image.RGBA { return watermark(img, opts.Watermark, opts.WatermarkColor) },
	}
	img := copyRGBA(src)
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("composite: %w", err)
		}
		img = step(img)
	}
	return img, nil
}

func copyRGBA(src image.Image) *image.RGBA {
	b := src.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), src, b.Min, draw.Src)
	return out
}

func roundCorners(img *image.RGBA, radius float64) *image.RGBA {
	if radius <= 0 {
		return img
	}
	b := img.Bounds()
	radius = math.Min(radius, float64(min(b.Dx(), b.Dy()))/2)
	dc := gg.NewContext(b.Dx(), b.Dy())
	dc.DrawRoundedRectangle(0, 0, float64(b.Dx()), float64(b.Dy()), radius)
	dc.Clip()
	dc.DrawImage(img, 0, 0)
	return dc.Image().(*image.RGBA)
}

func pad(img *image.RGBA, padding int, fill color.RGBA) *image.RGBA {
	if padding <= 0 {
		return img
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx()+2*padding, b.Dy()+2*padding))
	draw.Draw(out, out.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)
	draw.Draw(out, b.Add(image.Pt(padding, padding)), img, b.Min, draw.Over)
	return out
}

// frame grows the canvas, centring the content, until width/height equals
// ratio.
func frame(img *image.RGBA, ratio float64, fill color.RGBA) *image.RGBA {
	if ratio <= 0 {
		return img
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if float64(w)/float64(h) < ratio {
		w = int(math.Round(float64(h) * ratio))
	} else {
		h = int(math.Round(float64(w) / ratio))
	}
	if w == b.Dx() && h == b.Dy() {
		return img
	}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)
	off := image.Pt((w-b.Dx())/2, (h-b.Dy())/2)
	draw.Draw(out, b.Add(off), img, b.Min, draw.Over)
	return out
}

func watermark(img *image.RGBA, text string, col color.RGBA) *image.RGBA {
	if text == "" {
		return img
	}
	if col.A == 0 {
		col = color.RGBA{0xff, 0xff, 0xff, 0xb0}
	}
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: img, Src: image.NewUniform(col), Face: face}
	w := d.MeasureString(text).Ceil()
	b := img.Bounds()
	const margin = 8
	d.Dot = fixed.P(b.Max.X-w-margin, b.Max.Y-margin-face.Descent)
	d.DrawString(text)
	return img
}

// Crop returns a copy of the logical rectangle r of img. The rectangle is
// clamped to the image.
func Crop(img image.Image, r shape.Rect) (*image.RGBA, error) {
	if img == nil {
		return nil, ErrNoSource
	}
	b := img.Bounds()
	rect := image.Rect(
		int(math.Round(r.X)), int(math.Round(r.Y)),
		int(math.Round(r.X+r.Width)), int(math.Round(r.Y+r.Height)),
	).Add(b.Min).Intersect(b)
	if rect.Empty() {
		return nil, fmt.Errorf("crop %v: %w", r, ErrInvalidOptions)
	}
	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(out, out.Bounds(), img, rect.Min, draw.Src)
	return out, nil
}
