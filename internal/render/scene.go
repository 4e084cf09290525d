// Package render rasterizes the background image and shape records. It is a
// pure projection: nothing here mutates shapes.
package render

import (
	"image"
	"image/color"
	"log"
	"math"

	"github.com/fogleman/gg"

	"github.com/example/shineymark/internal/shape"
)

// View maps logical coordinates to output pixels:
//
//	pixel = logical × Scale + Offset
type View struct {
	Scale  float64
	Offset shape.Point
}

// Identity is the native-resolution view.
var Identity = View{Scale: 1}

func (v View) apply(p shape.Point) shape.Point {
	return shape.Point{X: p.X*v.Scale + v.Offset.X, Y: p.Y*v.Scale + v.Offset.Y}
}

// Scene is everything needed to draw one frame.
type Scene struct {
	Background image.Image
	Shapes     []shape.Shape
	// Draft is the in-progress shape, drawn above the committed ones.
	Draft *shape.Shape
	// Overlay holds selection and crop decorations. Export leaves it nil.
	Overlay *Overlay
}

// BlurRadius is the box blur radius, in logical pixels, used for blur
// regions.
const BlurRadius = 8

// Draw paints the scene onto dc.
func Draw(dc *gg.Context, sc Scene, v View) {
	if v.Scale <= 0 {
		v.Scale = 1
	}
	if sc.Background != nil {
		dc.Push()
		dc.Translate(v.Offset.X, v.Offset.Y)
		dc.Scale(v.Scale, v.Scale)
		b := sc.Background.Bounds()
		dc.DrawImage(sc.Background, -b.Min.X, -b.Min.Y)
		dc.Pop()
	}
	for _, s := range sc.Shapes {
		drawShape(dc, s, v)
	}
	if sc.Draft != nil {
		drawShape(dc, *sc.Draft, v)
	}
	if sc.Overlay != nil {
		drawOverlay(dc, *sc.Overlay, v)
	}
}

// Rasterize draws the scene into a new w×h image.
func Rasterize(sc Scene, w, h int, v View) *image.RGBA {
	dc := gg.NewContext(w, h)
	Draw(dc, sc, v)
	return dc.Image().(*image.RGBA)
}

// place sets the context matrix so local shape coordinates map to pixels.
func place(dc *gg.Context, s shape.Shape, v View) {
	dc.Translate(v.Offset.X, v.Offset.Y)
	dc.Scale(v.Scale, v.Scale)
	dc.Translate(s.X, s.Y)
	dc.Rotate(gg.Radians(s.Rotation))
	dc.Scale(s.ScaleX, s.ScaleY)
}

// lineWidth converts the logical stroke width to pixels. gg strokes in
// device space so the view and shape scales are applied by hand.
func lineWidth(s shape.Shape, v View) float64 {
	k := (math.Abs(s.ScaleX) + math.Abs(s.ScaleY)) / 2
	return math.Max(s.StrokeWidth*v.Scale*k, 0)
}

func drawShape(dc *gg.Context, s shape.Shape, v View) {
	if s.Kind == shape.KindBlur {
		drawBlur(dc, s, v)
		return
	}
	dc.Push()
	defer dc.Pop()
	place(dc, s, v)
	dc.SetLineWidth(lineWidth(s, v))
	dc.SetLineCapRound()
	dc.SetLineJoinRound()
	stroke := s.StrokeColor()
	fill, filled := s.FillColor()

	switch s.Kind {
	case shape.KindRect:
		lb := s.LocalBounds()
		dc.DrawRectangle(lb.X, lb.Y, lb.Width, lb.Height)
		paint(dc, stroke, fill, filled, s.StrokeWidth > 0)
	case shape.KindEllipse:
		dc.DrawEllipse(0, 0, math.Abs(s.RadiusX), math.Abs(s.RadiusY))
		paint(dc, stroke, fill, filled, s.StrokeWidth > 0)
	case shape.KindLine, shape.KindPath:
		drawPolyline(dc, s.Points, stroke, s.StrokeWidth)
	case shape.KindArrow:
		drawArrow(dc, s, stroke)
	case shape.KindText:
		drawText(dc, s, stroke, fill, filled)
	}
}

func paint(dc *gg.Context, stroke, fill color.RGBA, filled, stroked bool) {
	if filled {
		dc.SetColor(fill)
		dc.FillPreserve()
	}
	if stroked {
		dc.SetColor(stroke)
		dc.StrokePreserve()
	}
	dc.ClearPath()
}

// drawPolyline strokes pts. A single point is drawn as a dot of the stroke
// width so that a click with the pen still leaves a mark.
func drawPolyline(dc *gg.Context, pts []shape.Point, c color.RGBA, width float64) {
	if len(pts) == 0 {
		return
	}
	dc.SetColor(c)
	if len(pts) == 1 {
		dc.DrawCircle(pts[0].X, pts[0].Y, math.Max(width/2, 0.5))
		dc.Fill()
		return
	}
	dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		dc.LineTo(p.X, p.Y)
	}
	dc.Stroke()
}

// ArrowHead returns the three corners of the arrow head for a line from
// tail to tip. The head is derived from the line angle at draw time.
func ArrowHead(tail, tip shape.Point, length, width float64) [3]shape.Point {
	angle := math.Atan2(tip.Y-tail.Y, tip.X-tail.X)
	cos, sin := math.Cos(angle), math.Sin(angle)
	base := shape.Point{X: tip.X - length*cos, Y: tip.Y - length*sin}
	half := width / 2
	return [3]shape.Point{
		tip,
		{X: base.X - half*sin, Y: base.Y + half*cos},
		{X: base.X + half*sin, Y: base.Y - half*cos},
	}
}

func drawArrow(dc *gg.Context, s shape.Shape, c color.RGBA) {
	if len(s.Points) < 2 {
		return
	}
	tail, tip := s.Points[0], s.Points[len(s.Points)-1]
	drawPolyline(dc, []shape.Point{tail, tip}, c, s.StrokeWidth)
	length, width := s.HeadLength, s.HeadWidth
	if length <= 0 {
		length = 10 + 2*s.StrokeWidth
	}
	if width <= 0 {
		width = length
	}
	head := ArrowHead(tail, tip, length, width)
	dc.MoveTo(head[0].X, head[0].Y)
	dc.LineTo(head[1].X, head[1].Y)
	dc.LineTo(head[2].X, head[2].Y)
	dc.ClosePath()
	dc.SetColor(c)
	dc.Fill()
}

func drawText(dc *gg.Context, s shape.Shape, stroke, fill color.RGBA, filled bool) {
	face, err := fontFace(s.FontFamily, s.FontSize)
	if err != nil {
		log.Printf("render text: %v", err)
		return
	}
	dc.SetFontFace(face)
	col := stroke
	if filled {
		col = fill
	}
	dc.SetColor(col)
	ascent := float64(face.Metrics().Ascent.Ceil())
	dc.DrawString(s.Text, 0, ascent)
}

// drawBlur blurs whatever has already been drawn under the region.
func drawBlur(dc *gg.Context, s shape.Shape, v View) {
	dst, ok := dc.Image().(*image.RGBA)
	if !ok {
		return
	}
	b := s.Bounds()
	lo := v.apply(shape.Point{X: b.X, Y: b.Y})
	hi := v.apply(b.Max())
	area := image.Rect(int(math.Floor(lo.X)), int(math.Floor(lo.Y)), int(math.Ceil(hi.X)), int(math.Ceil(hi.Y))).Intersect(dst.Bounds())
	if area.Empty() {
		return
	}
	radius := int(math.Max(1, math.Round(BlurRadius*v.Scale)))
	blurred := BlurRGBA(dst.SubImage(area).(*image.RGBA), radius, 3)

	dc.Push()
	place(dc, s, v)
	lb := s.LocalBounds()
	dc.DrawRectangle(lb.X, lb.Y, lb.Width, lb.Height)
	dc.Clip()
	dc.Identity()
	// blurred keeps device coordinates in its bounds
	dc.DrawImage(blurred, 0, 0)
	dc.ResetClip()
	dc.Pop()
}
