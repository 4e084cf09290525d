package render

import (
	"image/color"

	"github.com/fogleman/gg"

	"github.com/example/shineymark/internal/shape"
)

// Overlay holds the on-screen decorations that never reach an export. All
// geometry is logical; HandleSize is in output pixels.
type Overlay struct {
	Outline    []shape.Point
	Handles    []shape.Point
	Rotate     *shape.Point
	HandleSize float64

	Crop *shape.Rect
	// Frame is the image area dimmed outside the crop rectangle.
	Frame shape.Rect

	Colors OverlayColors
}

// OverlayColors styles the decorations.
type OverlayColors struct {
	Selection  color.RGBA
	Handle     color.RGBA
	HandleFill color.RGBA
	CropShade  color.RGBA
	CropBorder color.RGBA
}

// DefaultOverlayColors matches the default window theme.
func DefaultOverlayColors() OverlayColors {
	return OverlayColors{
		Selection:  color.RGBA{0x3d, 0x8b, 0xff, 0xff},
		Handle:     color.RGBA{0x3d, 0x8b, 0xff, 0xff},
		HandleFill: color.RGBA{0xff, 0xff, 0xff, 0xff},
		CropShade:  color.RGBA{0, 0, 0, 0x80},
		CropBorder: color.RGBA{0xff, 0xff, 0xff, 0xff},
	}
}

func drawOverlay(dc *gg.Context, o Overlay, v View) {
	dc.Push()
	defer dc.Pop()
	dc.Identity()
	dc.SetDash()
	if len(o.Outline) > 1 {
		dc.SetColor(o.Colors.Selection)
		dc.SetLineWidth(1)
		dc.SetDash(4, 3)
		first := v.apply(o.Outline[0])
		dc.MoveTo(first.X, first.Y)
		for _, p := range o.Outline[1:] {
			q := v.apply(p)
			dc.LineTo(q.X, q.Y)
		}
		dc.ClosePath()
		dc.Stroke()
		dc.SetDash()
	}
	size := o.HandleSize
	if size <= 0 {
		size = 8
	}
	for _, h := range o.Handles {
		q := v.apply(h)
		dc.DrawRectangle(q.X-size/2, q.Y-size/2, size, size)
		dc.SetColor(o.Colors.HandleFill)
		dc.FillPreserve()
		dc.SetColor(o.Colors.Handle)
		dc.SetLineWidth(1)
		dc.Stroke()
	}
	if o.Rotate != nil {
		q := v.apply(*o.Rotate)
		dc.DrawCircle(q.X, q.Y, size/2)
		dc.SetColor(o.Colors.HandleFill)
		dc.FillPreserve()
		dc.SetColor(o.Colors.Handle)
		dc.SetLineWidth(1)
		dc.Stroke()
	}
	if o.Crop != nil {
		drawCrop(dc, *o.Crop, o.Frame, o.Colors, size, v)
	}
}

func drawCrop(dc *gg.Context, crop, frame shape.Rect, c OverlayColors, size float64, v View) {
	f0, f1 := v.apply(shape.Point{X: frame.X, Y: frame.Y}), v.apply(frame.Max())
	c0, c1 := v.apply(shape.Point{X: crop.X, Y: crop.Y}), v.apply(crop.Max())

	// shade the four bands around the crop rectangle
	dc.SetColor(c.CropShade)
	dc.DrawRectangle(f0.X, f0.Y, f1.X-f0.X, c0.Y-f0.Y)
	dc.DrawRectangle(f0.X, c1.Y, f1.X-f0.X, f1.Y-c1.Y)
	dc.DrawRectangle(f0.X, c0.Y, c0.X-f0.X, c1.Y-c0.Y)
	dc.DrawRectangle(c1.X, c0.Y, f1.X-c1.X, c1.Y-c0.Y)
	dc.Fill()

	dc.SetColor(c.CropBorder)
	dc.SetLineWidth(1)
	dc.SetDash(6, 4)
	dc.DrawRectangle(c0.X, c0.Y, c1.X-c0.X, c1.Y-c0.Y)
	dc.Stroke()
	dc.SetDash()

	for _, p := range cropHandles(c0, c1) {
		dc.DrawRectangle(p.X-size/2, p.Y-size/2, size, size)
	}
	dc.Fill()
}

// cropHandles returns the eight resize handle centres of a rectangle,
// clockwise from the top-left.
func cropHandles(a, b shape.Point) []shape.Point {
	cx, cy := (a.X+b.X)/2, (a.Y+b.Y)/2
	return []shape.Point{
		{X: a.X, Y: a.Y}, {X: cx, Y: a.Y}, {X: b.X, Y: a.Y}, {X: b.X, Y: cy},
		{X: b.X, Y: b.Y}, {X: cx, Y: b.Y}, {X: a.X, Y: b.Y}, {X: a.X, Y: cy},
	}
}
