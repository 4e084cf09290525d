package shape

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Rect is an axis-aligned rectangle with non-negative extent.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RectFromPoints returns the normalized rectangle spanning a and b.
func RectFromPoints(a, b Point) Rect {
	box := r2.Box{Min: a.Vec(), Max: b.Vec()}.Canon()
	return Rect{X: box.Min.X, Y: box.Min.Y, Width: box.Max.X - box.Min.X, Height: box.Max.Y - box.Min.Y}
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Max returns the bottom-right corner.
func (r Rect) Max() Point { return Point{X: r.X + r.Width, Y: r.Y + r.Height} }

// Center returns the midpoint of r.
func (r Rect) Center() Point { return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2} }

// Contains reports whether p lies within r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Inset shrinks r by d on every side. Negative d grows it.
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, Width: r.Width - 2*d, Height: r.Height - 2*d}
}

// boundsOf returns the smallest rectangle containing pts.
func boundsOf(pts []Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// LocalBounds returns the normalized bounding box of the shape geometry in
// its own unscaled, unrotated coordinate space.
func (s Shape) LocalBounds() Rect {
	switch s.Kind {
	case KindRect, KindBlur:
		return RectFromPoints(Point{}, Point{X: s.Width, Y: s.Height})
	case KindEllipse:
		rx, ry := math.Abs(s.RadiusX), math.Abs(s.RadiusY)
		return Rect{X: -rx, Y: -ry, Width: 2 * rx, Height: 2 * ry}
	case KindLine, KindArrow, KindPath:
		return boundsOf(s.Points)
	case KindText:
		w, h := MeasureText(s.Text, s.FontSize, s.FontFamily)
		return Rect{Width: w, Height: h}
	}
	return Rect{}
}

// Corners returns the four corners of the local bounds mapped to logical
// space, clockwise from the top-left.
func (s Shape) Corners() [4]Point {
	lb := s.LocalBounds()
	far := lb.Max()
	return [4]Point{
		s.LocalToWorld(Point{X: lb.X, Y: lb.Y}),
		s.LocalToWorld(Point{X: far.X, Y: lb.Y}),
		s.LocalToWorld(far),
		s.LocalToWorld(Point{X: lb.X, Y: far.Y}),
	}
}

// Bounds returns the axis-aligned bounding box of the shape in logical space
// with rotation and scale applied.
func (s Shape) Bounds() Rect {
	c := s.Corners()
	return boundsOf(c[:])
}

// Contains reports whether the logical point p hits the shape. tolerance is
// extra slack in logical units added around strokes. Unfilled rectangles and
// ellipses only hit on their outline; blur regions and text hit anywhere
// inside their box.
func (s Shape) Contains(p Point, tolerance float64) bool {
	local, ok := s.WorldToLocal(p)
	if !ok {
		return false
	}
	scale := math.Max(math.Abs(s.ScaleX), math.Abs(s.ScaleY))
	slack := (s.StrokeWidth/2 + tolerance) / scale
	switch s.Kind {
	case KindRect:
		lb := s.LocalBounds()
		if !lb.Inset(-slack).Contains(local) {
			return false
		}
		if s.Fill != "" {
			return true
		}
		inner := lb.Inset(slack)
		return inner.Empty() || !inner.Contains(local)
	case KindBlur, KindText:
		return s.LocalBounds().Inset(-slack).Contains(local)
	case KindEllipse:
		return ellipseHit(local, math.Abs(s.RadiusX), math.Abs(s.RadiusY), slack, s.Fill != "")
	case KindLine, KindArrow, KindPath:
		return polylineDistance(local, s.Points) <= slack
	}
	return false
}

func ellipseHit(p Point, rx, ry, slack float64, filled bool) bool {
	if rx == 0 || ry == 0 {
		return polylineDistance(p, []Point{{X: -rx, Y: -ry}, {X: rx, Y: ry}}) <= slack
	}
	outer := (p.X*p.X)/((rx+slack)*(rx+slack)) + (p.Y*p.Y)/((ry+slack)*(ry+slack))
	if outer > 1 {
		return false
	}
	if filled {
		return true
	}
	irx, iry := rx-slack, ry-slack
	if irx <= 0 || iry <= 0 {
		return true
	}
	inner := (p.X*p.X)/(irx*irx) + (p.Y*p.Y)/(iry*iry)
	return inner >= 1
}

// polylineDistance returns the shortest distance from p to the polyline.
func polylineDistance(p Point, pts []Point) float64 {
	switch len(pts) {
	case 0:
		return math.Inf(1)
	case 1:
		return r2.Norm(r2.Sub(p.Vec(), pts[0].Vec()))
	}
	best := math.Inf(1)
	for i := 1; i < len(pts); i++ {
		if d := segmentDistance(p.Vec(), pts[i-1].Vec(), pts[i].Vec()); d < best {
			best = d
		}
	}
	return best
}

func segmentDistance(p, a, b r2.Vec) float64 {
	ab := r2.Sub(b, a)
	l2 := r2.Norm2(ab)
	if l2 == 0 {
		return r2.Norm(r2.Sub(p, a))
	}
	t := r2.Dot(r2.Sub(p, a), ab) / l2
	t = math.Max(0, math.Min(1, t))
	closest := r2.Add(a, r2.Scale(t, ab))
	return r2.Norm(r2.Sub(p, closest))
}
