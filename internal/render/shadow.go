package render

import (
	"image"
	"image/color"
	"image/draw"
)

// ShadowOptions configures the drop shadow placed behind a composited
// background.
type ShadowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
	// Color defaults to black when zero.
	Color color.RGBA
}

// ShadowResult is the output of ApplyShadow.
type ShadowResult struct {
	Image *image.RGBA
	// Offset is where the source's top-left corner landed in Image.
	Offset image.Point
}

// DefaultShadowOptions returns a soft shadow suited to screenshots.
func DefaultShadowOptions() ShadowOptions {
	return ShadowOptions{
		Radius:  24,
		Offset:  image.Pt(16, 16),
		Opacity: 0.55,
	}
}

// ApplyShadow draws img over a blurred silhouette of its alpha channel. The
// canvas grows to hold the shadow and always has a zero origin.
func ApplyShadow(img image.Image, opts ShadowOptions) ShadowResult {
	if img == nil {
		return ShadowResult{}
	}
	src := toRGBA(img)
	if src.Bounds().Empty() || opts.Opacity <= 0 {
		return ShadowResult{Image: src}
	}
	opacity := min(opts.Opacity, 1)
	radius := max(opts.Radius, 0)

	srcBounds := src.Bounds()
	padded := srcBounds.Inset(-radius)
	shadowBounds := padded.Add(opts.Offset)
	composite := srcBounds.Union(shadowBounds)
	dstRect := composite.Sub(composite.Min)
	if dstRect.Empty() {
		return ShadowResult{Image: src}
	}

	mask := image.NewGray(padded.Sub(padded.Min))
	for y := srcBounds.Min.Y; y < srcBounds.Max.Y; y++ {
		for x := srcBounds.Min.X; x < srcBounds.Max.X; x++ {
			if a := src.RGBAAt(x, y).A; a != 0 {
				mask.SetGray(x-padded.Min.X, y-padded.Min.Y, color.Gray{Y: a})
			}
		}
	}
	blurred := blurGray(mask, radius)

	shade := opts.Color
	shade.A = uint8(opacity*255 + 0.5)
	dst := image.NewRGBA(dstRect)
	if shade.A > 0 {
		// premultiply so the uniform source is a valid color.RGBA
		shade.R = uint8(uint16(shade.R) * uint16(shade.A) / 255)
		shade.G = uint8(uint16(shade.G) * uint16(shade.A) / 255)
		shade.B = uint8(uint16(shade.B) * uint16(shade.A) / 255)
		origin := shadowBounds.Min.Sub(composite.Min)
		draw.DrawMask(dst, blurred.Bounds().Add(origin), image.NewUniform(shade), image.Point{}, blurred, blurred.Bounds().Min, draw.Over)
	}
	draw.Draw(dst, srcBounds.Sub(composite.Min), src, srcBounds.Min, draw.Over)

	return ShadowResult{Image: dst, Offset: srcBounds.Min.Sub(composite.Min)}
}
