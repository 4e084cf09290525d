package canvas

import (
	"github.com/example/shineymark/internal/shape"
)

type gestureKind int

const (
	gestureNone gestureKind = iota
	gestureDraw
	gestureDrag
	gestureResize
	gestureRotate
	gestureCrop
)

// gesture is the pointer interaction between a down and an up event.
type gesture struct {
	kind   gestureKind
	start  shape.Point
	draft  *shape.Shape
	orig   shape.Shape
	handle Handle
	moved  bool
}

// cancelGesture abandons the current gesture. Drafts are discarded and
// shapes being manipulated return to their state at pointer-down.
func (e *Engine) cancelGesture() {
	switch e.gesture.kind {
	case gestureDrag, gestureResize, gestureRotate:
		if i, ok := e.index(e.gesture.orig.ID); ok {
			e.shapes[i] = e.gesture.orig
		}
	case gestureCrop:
		e.crop.dragging = false
	}
	e.gesture = gesture{}
}

// target locates the shape under manipulation by id. A shape that has
// left the list ends the gesture.
func (e *Engine) target() (int, bool) {
	i, ok := e.index(e.gesture.orig.ID)
	if !ok {
		e.gesture = gesture{}
	}
	return i, ok
}

// hitTest returns the index of the topmost shape under logical point p.
func (e *Engine) hitTest(p shape.Point) (int, bool) {
	tol := e.view.ToLogicalLength(e.hitTolerance)
	for i := len(e.shapes) - 1; i >= 0; i-- {
		if e.shapes[i].Contains(p, tol) {
			return i, true
		}
	}
	return -1, false
}

// ShapeAt returns the id of the topmost shape under the screen point.
func (e *Engine) ShapeAt(screen shape.Point) (string, bool) {
	i, ok := e.hitTest(e.view.ToLogical(screen))
	if !ok {
		return "", false
	}
	return e.shapes[i].ID, true
}

// Selected returns a copy of the selected shape.
func (e *Engine) Selected() (shape.Shape, bool) {
	i, ok := e.index(e.selected)
	if !ok {
		return shape.Shape{}, false
	}
	return e.shapes[i].Clone(), true
}

// Select selects the shape with the given id.
func (e *Engine) Select(id string) bool {
	if _, ok := e.index(id); !ok {
		return false
	}
	if e.selected != id {
		e.finishTextEdit()
		e.selected = id
		e.notify()
	}
	return true
}

// Deselect clears the selection.
func (e *Engine) Deselect() {
	if e.selected == "" {
		return
	}
	e.finishTextEdit()
	e.selected = ""
	e.notify()
}

// selectDown handles pointer-down with the select tool: handles of the
// current selection win, then shapes from the top down. A miss clears the
// selection.
func (e *Engine) selectDown(screen, p shape.Point) {
	if i, ok := e.index(e.selected); ok {
		if h, hit := e.handleAt(e.shapes[i], screen); hit {
			kind := gestureResize
			if h == HandleRotate {
				kind = gestureRotate
			}
			e.gesture = gesture{kind: kind, start: p, orig: e.shapes[i].Clone(), handle: h}
			return
		}
	}
	i, ok := e.hitTest(p)
	if !ok {
		e.Deselect()
		return
	}
	e.Select(e.shapes[i].ID)
	e.gesture = gesture{kind: gestureDrag, start: p, orig: e.shapes[i].Clone()}
}

func (e *Engine) dragMove(p shape.Point) {
	i, ok := e.target()
	if !ok {
		return
	}
	g := &e.gesture
	d := p.Sub(g.start)
	s := g.orig.Clone()
	s.Translate(d.X, d.Y)
	e.shapes[i] = s
	if d != (shape.Point{}) {
		g.moved = true
	}
}

// finishManipulation commits a drag, resize or rotate as one history entry.
func (e *Engine) finishManipulation() {
	i, ok := e.target()
	g := e.gesture
	e.gesture = gesture{}
	if !ok || !g.moved {
		return
	}
	if g.kind == gestureResize {
		e.shapes[i].BakeScale()
	}
	e.commit()
}

func (e *Engine) bringForward() bool {
	i, ok := e.index(e.selected)
	if !ok || i == len(e.shapes)-1 {
		return false
	}
	e.shapes[i], e.shapes[i+1] = e.shapes[i+1], e.shapes[i]
	e.commit()
	return true
}

func (e *Engine) sendBackward() bool {
	i, ok := e.index(e.selected)
	if !ok || i == 0 {
		return false
	}
	e.shapes[i], e.shapes[i-1] = e.shapes[i-1], e.shapes[i]
	e.commit()
	return true
}

func (e *Engine) copySelected() bool {
	i, ok := e.index(e.selected)
	if !ok {
		return false
	}
	c := e.shapes[i].Clone()
	c.ID = ""
	e.clip = &c
	return true
}

// paste appends a copy of the clipboard shape with a fresh id, offset by the
// paste delta. The clipboard advances so repeated pastes cascade.
func (e *Engine) paste() bool {
	if e.clip == nil {
		return false
	}
	e.clip.Translate(e.pasteOffset.X, e.pasteOffset.Y)
	s := e.clip.Clone()
	s.ID = shape.NewID()
	e.shapes = append(e.shapes, s)
	e.selected = s.ID
	e.commit()
	return true
}

// HasClipboard reports whether a shape has been copied.
func (e *Engine) HasClipboard() bool { return e.clip != nil }

func (e *Engine) deleteSelected() bool {
	i, ok := e.index(e.selected)
	if !ok {
		return false
	}
	e.shapes = append(e.shapes[:i:i], e.shapes[i+1:]...)
	e.selected = ""
	e.commit()
	return true
}

func (e *Engine) clear() bool {
	e.finishTextEdit()
	e.cancelGesture()
	e.shapes = []shape.Shape{}
	e.selected = ""
	e.commit()
	return true
}
