// Package shape holds the vector shape records edited on the annotation
// canvas together with their geometry, hit-testing and JSON encoding.
package shape

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"
)

// Kind identifies the variant of a Shape.
type Kind string

const (
	KindRect    Kind = "rect"
	KindEllipse Kind = "ellipse"
	KindLine    Kind = "line"
	KindArrow   Kind = "arrow"
	KindPath    Kind = "path"
	KindText    Kind = "text"
	KindBlur    Kind = "blur"
)

// Kinds lists every known shape kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindRect, KindEllipse, KindLine, KindArrow, KindPath, KindText, KindBlur}
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	for _, known := range Kinds() {
		if k == known {
			return true
		}
	}
	return false
}

var (
	ErrUnknownKind = errors.New("unknown shape kind")
	ErrDuplicateID = errors.New("duplicate shape id")
	ErrInvalid     = errors.New("invalid shape")
)

// Point is a position in logical (image pixel) space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Vec converts p for use with the r2 helpers.
func (p Point) Vec() r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

// FromVec converts an r2 vector back into a Point.
func FromVec(v r2.Vec) Point { return Point{X: v.X, Y: v.Y} }

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Style holds the visual attributes shared by every shape kind. Colours are
// stored as strings (hex or colour names) so records stay readable.
type Style struct {
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
	Fill        string  `json:"fill,omitempty"`
}

// Transform positions a shape. Rotation is in degrees and applied around the
// shape position.
type Transform struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation,omitempty"`
	ScaleX   float64 `json:"scaleX"`
	ScaleY   float64 `json:"scaleY"`
}

// Identity returns a transform at (x, y) with unit scale.
func Identity(x, y float64) Transform {
	return Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1}
}

// Shape is a single drawable record. Kind selects which geometry fields are
// meaningful:
//
//	rect, blur    Width, Height (relative to X, Y; negative while drawing)
//	ellipse       RadiusX, RadiusY (centred on X, Y)
//	line, arrow   Points[0], Points[1] plus HeadLength, HeadWidth for arrows
//	path          Points
//	text          Text, FontSize, FontFamily (top-left at X, Y)
type Shape struct {
	ID   string `json:"id"`
	Kind Kind   `json:"kind"`
	Transform
	Style

	Width      float64 `json:"width,omitempty"`
	Height     float64 `json:"height,omitempty"`
	RadiusX    float64 `json:"rx,omitempty"`
	RadiusY    float64 `json:"ry,omitempty"`
	Points     []Point `json:"points,omitempty"`
	HeadLength float64 `json:"headLength,omitempty"`
	HeadWidth  float64 `json:"headWidth,omitempty"`
	Text       string  `json:"text,omitempty"`
	FontSize   float64 `json:"fontSize,omitempty"`
	FontFamily string  `json:"fontFamily,omitempty"`
}

// NewID returns a fresh shape identifier.
func NewID() string {
	return uuid.NewString()
}

// New returns a shape of kind k at (x, y) with the given style and a new id.
func New(k Kind, x, y float64, st Style) Shape {
	return Shape{ID: NewID(), Kind: k, Transform: Identity(x, y), Style: st}
}

// Clone returns a deep copy of s.
func (s Shape) Clone() Shape {
	if s.Points != nil {
		pts := make([]Point, len(s.Points))
		copy(pts, s.Points)
		s.Points = pts
	}
	return s
}

// CloneAll deep copies a shape list.
func CloneAll(list []Shape) []Shape {
	if list == nil {
		return nil
	}
	out := make([]Shape, len(list))
	for i, s := range list {
		out[i] = s.Clone()
	}
	return out
}

// Position returns the transform origin.
func (s Shape) Position() Point { return Point{X: s.X, Y: s.Y} }

// Translate moves the shape by (dx, dy).
func (s *Shape) Translate(dx, dy float64) {
	s.X += dx
	s.Y += dy
}

// LocalToWorld maps a point in the shape's unscaled local space to logical
// space.
func (s Shape) LocalToWorld(p Point) Point {
	v := r2.Vec{X: p.X * s.ScaleX, Y: p.Y * s.ScaleY}
	v = r2.Rotate(v, radians(s.Rotation), r2.Vec{})
	return FromVec(r2.Add(v, s.Position().Vec()))
}

// WorldToLocal is the inverse of LocalToWorld. ok is false when the scale is
// degenerate.
func (s Shape) WorldToLocal(p Point) (Point, bool) {
	if s.ScaleX == 0 || s.ScaleY == 0 {
		return Point{}, false
	}
	v := r2.Sub(p.Vec(), s.Position().Vec())
	v = r2.Rotate(v, -radians(s.Rotation), r2.Vec{})
	return Point{X: v.X / s.ScaleX, Y: v.Y / s.ScaleY}, true
}

// Normalize folds negative width and height of box shapes into the position
// so that the stored extent is non-negative. It is applied when a drawing
// gesture commits.
func (s *Shape) Normalize() {
	if s.Kind != KindRect && s.Kind != KindBlur {
		return
	}
	shift := Point{}
	if s.Width < 0 {
		shift.X = s.Width
		s.Width = -s.Width
	}
	if s.Height < 0 {
		shift.Y = s.Height
		s.Height = -s.Height
	}
	if shift == (Point{}) {
		return
	}
	origin := s.LocalToWorld(shift)
	s.X, s.Y = origin.X, origin.Y
}

// BakeScale folds the transform scale into the geometry of rect, blur and
// ellipse shapes and resets the scale to 1. Other kinds keep their scale.
func (s *Shape) BakeScale() {
	switch s.Kind {
	case KindRect, KindBlur:
		s.Width *= s.ScaleX
		s.Height *= s.ScaleY
		s.ScaleX, s.ScaleY = 1, 1
		s.Normalize()
	case KindEllipse:
		s.RadiusX = math.Abs(s.RadiusX * s.ScaleX)
		s.RadiusY = math.Abs(s.RadiusY * s.ScaleY)
		s.ScaleX, s.ScaleY = 1, 1
	}
}

// Validate checks that the record is well formed: known kind, finite
// geometry and a usable scale.
func (s Shape) Validate() error {
	if !s.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKind, s.Kind)
	}
	if s.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalid)
	}
	nums := []float64{s.X, s.Y, s.Rotation, s.ScaleX, s.ScaleY, s.StrokeWidth,
		s.Width, s.Height, s.RadiusX, s.RadiusY, s.HeadLength, s.HeadWidth, s.FontSize}
	for _, p := range s.Points {
		nums = append(nums, p.X, p.Y)
	}
	for _, n := range nums {
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return fmt.Errorf("%w: %s has non-finite geometry", ErrInvalid, s.ID)
		}
	}
	if s.ScaleX == 0 || s.ScaleY == 0 {
		return fmt.Errorf("%w: %s has zero scale", ErrInvalid, s.ID)
	}
	switch s.Kind {
	case KindLine, KindArrow:
		if len(s.Points) != 2 {
			return fmt.Errorf("%w: %s needs two points", ErrInvalid, s.ID)
		}
	case KindPath:
		if len(s.Points) == 0 {
			return fmt.Errorf("%w: %s has no points", ErrInvalid, s.ID)
		}
	}
	return nil
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 { return degrees(rad) }

// Radians converts degrees to radians.
func Radians(deg float64) float64 { return radians(deg) }
