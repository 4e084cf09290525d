package canvas

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/example/shineymark/internal/shape"
)

// Handle identifies a transform handle on the selection box.
type Handle int

const (
	HandleNone Handle = iota
	HandleTopLeft
	HandleTop
	HandleTopRight
	HandleRight
	HandleBottomRight
	HandleBottom
	HandleBottomLeft
	HandleLeft
	HandleRotate
)

// minScale keeps a resized shape from collapsing or flipping.
const minScale = 0.01

// resizeHandles lists the eight resize handles clockwise from the top-left.
var resizeHandles = []Handle{
	HandleTopLeft, HandleTop, HandleTopRight, HandleRight,
	HandleBottomRight, HandleBottom, HandleBottomLeft, HandleLeft,
}

// opposite returns the handle that stays fixed while h is dragged.
func (h Handle) opposite() Handle {
	switch h {
	case HandleTopLeft:
		return HandleBottomRight
	case HandleTop:
		return HandleBottom
	case HandleTopRight:
		return HandleBottomLeft
	case HandleRight:
		return HandleLeft
	case HandleBottomRight:
		return HandleTopLeft
	case HandleBottom:
		return HandleTop
	case HandleBottomLeft:
		return HandleTopRight
	case HandleLeft:
		return HandleRight
	}
	return HandleNone
}

func (h Handle) movesX() bool { return h != HandleTop && h != HandleBottom }
func (h Handle) movesY() bool { return h != HandleLeft && h != HandleRight }

// localHandle returns the position of h on the unscaled local bounds lb.
func localHandle(lb shape.Rect, h Handle) shape.Point {
	far := lb.Max()
	c := lb.Center()
	switch h {
	case HandleTopLeft:
		return shape.Pt(lb.X, lb.Y)
	case HandleTop:
		return shape.Pt(c.X, lb.Y)
	case HandleTopRight:
		return shape.Pt(far.X, lb.Y)
	case HandleRight:
		return shape.Pt(far.X, c.Y)
	case HandleBottomRight:
		return far
	case HandleBottom:
		return shape.Pt(c.X, far.Y)
	case HandleBottomLeft:
		return shape.Pt(lb.X, far.Y)
	case HandleLeft:
		return shape.Pt(lb.X, c.Y)
	}
	return c
}

// rotateHandle returns the rotate handle position in logical space: above
// the top edge by a fixed screen distance.
func (e *Engine) rotateHandle(s shape.Shape) shape.Point {
	lb := s.LocalBounds()
	lift := e.view.ToLogicalLength(e.rotateOffset) / math.Max(math.Abs(s.ScaleY), minScale)
	return s.LocalToWorld(shape.Pt(lb.Center().X, lb.Y-lift))
}

// handlePositions returns every handle of s in logical space.
func (e *Engine) handlePositions(s shape.Shape) map[Handle]shape.Point {
	lb := s.LocalBounds()
	out := make(map[Handle]shape.Point, len(resizeHandles)+1)
	for _, h := range resizeHandles {
		out[h] = s.LocalToWorld(localHandle(lb, h))
	}
	out[HandleRotate] = e.rotateHandle(s)
	return out
}

// handleAt returns the handle of s under the screen point.
func (e *Engine) handleAt(s shape.Shape, screen shape.Point) (Handle, bool) {
	half := e.handleSize/2 + 2
	pos := e.handlePositions(s)
	order := append([]Handle{HandleRotate}, resizeHandles...)
	for _, h := range order {
		q := e.view.ToScreen(pos[h])
		if math.Abs(q.X-screen.X) <= half && math.Abs(q.Y-screen.Y) <= half {
			return h, true
		}
	}
	return HandleNone, false
}

// unrotate expresses logical point p in the shape's rotated frame relative
// to its position, without removing scale.
func unrotate(s shape.Shape, p shape.Point) r2.Vec {
	v := r2.Sub(p.Vec(), s.Position().Vec())
	return r2.Rotate(v, -shape.Radians(s.Rotation), r2.Vec{})
}

func rotate(s shape.Shape, v r2.Vec) r2.Vec {
	return r2.Rotate(v, shape.Radians(s.Rotation), r2.Vec{})
}

// resizeMove scales the original shape so the dragged handle follows the
// pointer while the opposite handle stays fixed in logical space.
func (e *Engine) resizeMove(p shape.Point) {
	i, ok := e.target()
	if !ok {
		return
	}
	g := &e.gesture
	o := g.orig
	lb := o.LocalBounds()
	hl := localHandle(lb, g.handle)
	al := localHandle(lb, g.handle.opposite())
	q := unrotate(o, p)

	sx, sy := o.ScaleX, o.ScaleY
	if g.handle.movesX() && hl.X != al.X {
		sx = clampScale((q.X-al.X*o.ScaleX)/(hl.X-al.X), o.ScaleX)
	}
	if g.handle.movesY() && hl.Y != al.Y {
		sy = clampScale((q.Y-al.Y*o.ScaleY)/(hl.Y-al.Y), o.ScaleY)
	}

	s := o.Clone()
	s.ScaleX, s.ScaleY = sx, sy
	before := r2.Vec{X: al.X * o.ScaleX, Y: al.Y * o.ScaleY}
	after := r2.Vec{X: al.X * sx, Y: al.Y * sy}
	shift := rotate(o, r2.Sub(before, after))
	s.X += shift.X
	s.Y += shift.Y
	e.shapes[i] = s
	if sx != o.ScaleX || sy != o.ScaleY {
		g.moved = true
	}
}

// clampScale keeps the sign of the original scale and a minimum magnitude.
func clampScale(v, orig float64) float64 {
	sign := 1.0
	if orig < 0 {
		sign = -1
	}
	if v*sign < minScale {
		return sign * minScale
	}
	return v
}

// rotateMove turns the original shape about the centre of its bounds so the
// rotate handle points at the pointer.
func (e *Engine) rotateMove(p shape.Point) {
	i, ok := e.target()
	if !ok {
		return
	}
	g := &e.gesture
	o := g.orig
	lb := o.LocalBounds()
	centreLocal := lb.Center()
	centre := o.LocalToWorld(centreLocal)
	d := p.Sub(centre)
	if d.X == 0 && d.Y == 0 {
		return
	}
	angle := shape.Degrees(math.Atan2(d.Y, d.X)) + 90
	angle = normalizeDegrees(angle)

	s := o.Clone()
	s.Rotation = angle
	offset := r2.Vec{X: centreLocal.X * o.ScaleX, Y: centreLocal.Y * o.ScaleY}
	offset = r2.Rotate(offset, shape.Radians(angle), r2.Vec{})
	s.X = centre.X - offset.X
	s.Y = centre.Y - offset.Y
	e.shapes[i] = s
	if angle != o.Rotation {
		g.moved = true
	}
}

// normalizeDegrees maps a to (-180, 180].
func normalizeDegrees(a float64) float64 {
	a = math.Mod(a, 360)
	if a > 180 {
		a -= 360
	} else if a <= -180 {
		a += 360
	}
	return a
}
