package canvas

import (
	"math"

	"github.com/example/shineymark/internal/shape"
)

type cropState struct {
	active   bool
	dragging bool
	anchor   shape.Point
	rect     *shape.Rect
}

// CropActive reports whether crop mode pre-empts drawing and selection.
func (e *Engine) CropActive() bool { return e.crop.active }

// CropRect returns the current crop rectangle, finalized or in progress.
func (e *Engine) CropRect() (shape.Rect, bool) {
	if e.crop.rect == nil {
		return shape.Rect{}, false
	}
	return *e.crop.rect, true
}

// EnterCrop switches to crop mode. Drawing and selection are suspended.
func (e *Engine) EnterCrop() {
	if e.crop.active {
		return
	}
	if e.gesture.kind == gestureDraw {
		e.cancelGesture()
	}
	e.finishTextEdit()
	e.crop = cropState{active: true}
	e.notify()
}

// ExitCrop leaves crop mode and removes the preview.
func (e *Engine) ExitCrop() {
	if !e.crop.active {
		return
	}
	if e.gesture.kind == gestureCrop {
		e.gesture = gesture{}
	}
	e.clearCrop()
	e.crop.active = false
	e.notify()
}

// ToggleCrop enters or leaves crop mode.
func (e *Engine) ToggleCrop() {
	if e.crop.active {
		e.ExitCrop()
		return
	}
	e.EnterCrop()
}

// OnApplyCrop registers the listener run when a crop is confirmed, either
// by ApplyCrop or by Enter in crop mode.
func (e *Engine) OnApplyCrop(fn func(CropBounds)) { e.onApply = fn }

// ApplyCrop returns the finalized crop rectangle and leaves crop mode. The
// host crops the source image and calls SetBackground with the result.
func (e *Engine) ApplyCrop() (CropBounds, bool) {
	if !e.crop.active || e.crop.dragging || e.crop.rect == nil || e.crop.rect.Empty() {
		return CropBounds{}, false
	}
	r := *e.crop.rect
	e.ExitCrop()
	if e.onApply != nil {
		e.onApply(r)
	}
	return r, true
}

func (e *Engine) clearCrop() {
	had := e.crop.rect != nil
	e.crop.rect = nil
	e.crop.dragging = false
	if had && e.onCrop != nil {
		e.onCrop(nil)
	}
}

// clampToImage limits p to the background bounds.
func (e *Engine) clampToImage(p shape.Point) shape.Point {
	w, h := e.view.Image()
	return shape.Pt(math.Max(0, math.Min(w, p.X)), math.Max(0, math.Min(h, p.Y)))
}

func (e *Engine) cropDown(p shape.Point) {
	p = e.clampToImage(p)
	e.crop.anchor = p
	e.crop.dragging = true
	r := shape.Rect{X: p.X, Y: p.Y}
	e.crop.rect = &r
	e.gesture = gesture{kind: gestureCrop, start: p}
}

func (e *Engine) cropMove(p shape.Point) {
	r := shape.RectFromPoints(e.crop.anchor, e.clampToImage(p))
	e.crop.rect = &r
}

// cropUp finalizes the rectangle and publishes it. A rectangle without area
// publishes nil. Crop never touches history.
func (e *Engine) cropUp(p shape.Point) {
	e.cropMove(p)
	e.crop.dragging = false
	e.gesture = gesture{}
	if e.onCrop == nil {
		return
	}
	if e.crop.rect.Empty() {
		e.onCrop(nil)
		return
	}
	r := *e.crop.rect
	e.onCrop(&r)
}
