// Package viewport converts between screen coordinates and the logical
// coordinate space of the background image.
package viewport

import (
	"math"

	"github.com/example/shineymark/internal/shape"
)

const (
	DefaultZoomMin = 0.25
	DefaultZoomMax = 3.0
	DefaultStep    = 0.25
	DefaultMargin  = 0.92
)

// Viewport tracks the fit scale, user zoom and pan offset of the stage.
//
//	screen = logical × fit × zoom + pan
type Viewport struct {
	containerW, containerH float64
	imageW, imageH         float64

	margin  float64
	fit     float64
	zoom    float64
	zoomMin float64
	zoomMax float64
	step    float64
	pan     shape.Point
}

// Option configures a Viewport.
type Option func(*Viewport)

// WithZoomRange bounds the user zoom.
func WithZoomRange(min, max float64) Option {
	return func(v *Viewport) {
		if min > 0 && max >= min {
			v.zoomMin, v.zoomMax = min, max
		}
	}
}

// WithZoomStep sets the increment used by ZoomIn and ZoomOut.
func WithZoomStep(step float64) Option {
	return func(v *Viewport) {
		if step > 0 {
			v.step = step
		}
	}
}

// WithMargin sets the fraction of the container the fitted image may use.
func WithMargin(m float64) Option {
	return func(v *Viewport) {
		if m > 0 && m <= 1 {
			v.margin = m
		}
	}
}

// New returns a viewport at zoom 1 with no container or image yet.
func New(opts ...Option) *Viewport {
	v := &Viewport{
		margin:  DefaultMargin,
		fit:     1,
		zoom:    1,
		zoomMin: DefaultZoomMin,
		zoomMax: DefaultZoomMax,
		step:    DefaultStep,
	}
	for _, o := range opts {
		o(v)
	}
	v.zoom = v.clamp(v.zoom)
	return v
}

// SetContainer records the on-screen size available to the stage and
// recomputes the fit scale.
func (v *Viewport) SetContainer(w, h float64) {
	v.containerW, v.containerH = w, h
	v.refit()
}

// SetImage records the background image size and recomputes the fit scale.
func (v *Viewport) SetImage(w, h float64) {
	v.imageW, v.imageH = w, h
	v.refit()
}

func (v *Viewport) refit() {
	if v.containerW <= 0 || v.containerH <= 0 || v.imageW <= 0 || v.imageH <= 0 {
		v.fit = 1
		return
	}
	zx := v.containerW * v.margin / v.imageW
	zy := v.containerH * v.margin / v.imageH
	v.fit = math.Min(zx, zy)
}

// Container returns the container size.
func (v *Viewport) Container() (w, h float64) { return v.containerW, v.containerH }

// Image returns the logical image size.
func (v *Viewport) Image() (w, h float64) { return v.imageW, v.imageH }

// FitScale is the scale at which the whole image fits the container.
func (v *Viewport) FitScale() float64 { return v.fit }

// Zoom is the user zoom factor.
func (v *Viewport) Zoom() float64 { return v.zoom }

// Effective is fit × zoom, the factor between logical and screen units.
func (v *Viewport) Effective() float64 { return v.fit * v.zoom }

// StageSize is the on-screen size of the image at the current scale.
func (v *Viewport) StageSize() (w, h float64) {
	e := v.Effective()
	return v.imageW * e, v.imageH * e
}

// Pan returns the current pan offset in screen pixels.
func (v *Viewport) Pan() shape.Point { return v.pan }

// SetPan replaces the pan offset.
func (v *Viewport) SetPan(p shape.Point) { v.pan = p }

// PanBy shifts the pan offset.
func (v *Viewport) PanBy(dx, dy float64) {
	v.pan.X += dx
	v.pan.Y += dy
}

// ZoomIn increases the zoom by one step, clamped to the maximum. It reports
// whether the zoom changed.
func (v *Viewport) ZoomIn() bool { return v.SetZoom(v.zoom + v.step) }

// ZoomOut decreases the zoom by one step, clamped to the minimum.
func (v *Viewport) ZoomOut() bool { return v.SetZoom(v.zoom - v.step) }

// ResetZoom returns the zoom to 1 and clears the pan.
func (v *Viewport) ResetZoom() bool {
	v.pan = shape.Point{}
	return v.SetZoom(1)
}

// SetZoom sets the zoom, clamped to the configured range.
func (v *Viewport) SetZoom(z float64) bool {
	z = v.clamp(math.Round(z*1000) / 1000)
	if z == v.zoom {
		return false
	}
	v.zoom = z
	return true
}

// ZoomRange returns the configured bounds.
func (v *Viewport) ZoomRange() (min, max float64) { return v.zoomMin, v.zoomMax }

func (v *Viewport) clamp(z float64) float64 {
	return math.Max(v.zoomMin, math.Min(v.zoomMax, z))
}

// ToLogical maps a screen point to logical space. The pan offset is removed
// before dividing by the effective scale.
func (v *Viewport) ToLogical(p shape.Point) shape.Point {
	e := v.Effective()
	return shape.Point{X: (p.X - v.pan.X) / e, Y: (p.Y - v.pan.Y) / e}
}

// ToScreen maps a logical point to screen space.
func (v *Viewport) ToScreen(p shape.Point) shape.Point {
	e := v.Effective()
	return shape.Point{X: p.X*e + v.pan.X, Y: p.Y*e + v.pan.Y}
}

// ToScreenLength converts a logical distance to screen pixels.
func (v *Viewport) ToScreenLength(d float64) float64 { return d * v.Effective() }

// ToLogicalLength converts a screen distance to logical units.
func (v *Viewport) ToLogicalLength(d float64) float64 { return d / v.Effective() }
