package canvas

import (
	"github.com/example/shineymark/internal/render"
	"github.com/example/shineymark/internal/shape"
)

// Frame is an immutable snapshot of what the host should paint. It can be
// handed to another goroutine.
type Frame struct {
	Scene render.Scene
	View  render.View
	// Stage is the on-screen size of the image at the current zoom.
	Stage shape.Point
	State State
	Zoom  float64
	Crop  bool
	Err   error
}

// Frame captures the current scene, including the in-progress shape, the
// selection decorations and the crop preview.
func (e *Engine) Frame() Frame {
	w, h := e.view.StageSize()
	f := Frame{
		View:  render.View{Scale: e.view.Effective(), Offset: e.view.Pan()},
		Stage: shape.Pt(w, h),
		State: e.State(),
		Zoom:  e.view.Zoom(),
		Crop:  e.crop.active,
		Err:   e.err,
	}
	f.Scene = render.Scene{
		Background: e.background,
		Shapes:     shape.CloneAll(e.shapes),
	}
	if d, ok := e.Draft(); ok {
		f.Scene.Draft = &d
	}
	if o, ok := e.overlay(); ok {
		f.Scene.Overlay = &o
	}
	return f
}

func (e *Engine) overlay() (render.Overlay, bool) {
	iw, ih := e.view.Image()
	o := render.Overlay{
		HandleSize: e.handleSize,
		Frame:      shape.Rect{Width: iw, Height: ih},
		Colors:     render.DefaultOverlayColors(),
	}
	show := false
	if i, ok := e.index(e.selected); ok && !e.crop.active {
		s := e.shapes[i]
		c := s.Corners()
		o.Outline = append(c[:], c[0])
		pos := e.handlePositions(s)
		for _, h := range resizeHandles {
			o.Handles = append(o.Handles, pos[h])
		}
		if e.edit == nil {
			r := pos[HandleRotate]
			o.Rotate = &r
		}
		show = true
	}
	if e.crop.rect != nil {
		r := *e.crop.rect
		o.Crop = &r
		show = true
	}
	return o, show
}
