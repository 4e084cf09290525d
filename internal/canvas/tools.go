package canvas

import (
	"fmt"
	"math"
	"strings"

	"github.com/example/shineymark/internal/shape"
)

// Tool is the active editing tool.
type Tool int

const (
	ToolSelect Tool = iota
	ToolRect
	ToolBlur
	ToolEllipse
	ToolCircle
	ToolLine
	ToolArrow
	ToolPen
	ToolText
)

var toolNames = []string{"select", "rect", "blur", "ellipse", "circle", "line", "arrow", "pen", "text"}

func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return fmt.Sprintf("Tool(%d)", int(t))
	}
	return toolNames[t]
}

// ParseTool looks a tool up by name.
func ParseTool(s string) (Tool, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range toolNames {
		if n == s {
			return Tool(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tool %q", s)
}

// Tools lists every tool in toolbar order.
func Tools() []Tool {
	out := make([]Tool, len(toolNames))
	for i := range out {
		out[i] = Tool(i)
	}
	return out
}

// Tool returns the active tool.
func (e *Engine) Tool() Tool { return e.tool }

// SetTool switches tools. Any in-progress shape is discarded, a text edit is
// committed and the selection is cleared when leaving the select tool.
func (e *Engine) SetTool(t Tool) {
	if t < 0 || int(t) >= len(toolNames) {
		return
	}
	if e.gesture.kind == gestureDraw {
		e.cancelGesture()
	}
	e.finishTextEdit()
	e.tool = t
	if t != ToolSelect {
		e.selected = ""
	}
	e.notify()
}

// Draft returns a copy of the in-progress shape.
func (e *Engine) Draft() (shape.Shape, bool) {
	if e.gesture.kind != gestureDraw || e.gesture.draft == nil {
		return shape.Shape{}, false
	}
	return e.gesture.draft.Clone(), true
}

// beginDraw starts a new shape at logical point p.
func (e *Engine) beginDraw(p shape.Point) {
	if e.tool == ToolText {
		e.createText(p)
		return
	}
	st := e.style.Style
	var s shape.Shape
	switch e.tool {
	case ToolRect:
		s = shape.New(shape.KindRect, p.X, p.Y, st)
	case ToolBlur:
		s = shape.New(shape.KindBlur, p.X, p.Y, shape.Style{})
	case ToolEllipse, ToolCircle:
		s = shape.New(shape.KindEllipse, p.X, p.Y, st)
	case ToolLine:
		s = shape.New(shape.KindLine, p.X, p.Y, st)
		s.Points = []shape.Point{{}, {}}
	case ToolArrow:
		s = shape.New(shape.KindArrow, p.X, p.Y, st)
		s.Points = []shape.Point{{}, {}}
		s.HeadLength = 10 + 2*st.StrokeWidth
		s.HeadWidth = s.HeadLength
	case ToolPen:
		s = shape.New(shape.KindPath, p.X, p.Y, st)
		s.Points = make([]shape.Point, 1, 64)
	default:
		return
	}
	e.gesture = gesture{kind: gestureDraw, start: p, draft: &s}
}

// updateDraw reshapes the draft for the pointer at logical point p.
func (e *Engine) updateDraw(p shape.Point) {
	s := e.gesture.draft
	d := p.Sub(e.gesture.start)
	switch e.tool {
	case ToolRect, ToolBlur:
		s.Width, s.Height = d.X, d.Y
	case ToolEllipse:
		s.RadiusX, s.RadiusY = math.Abs(d.X), math.Abs(d.Y)
	case ToolCircle:
		r := math.Hypot(d.X, d.Y)
		s.RadiusX, s.RadiusY = r, r
	case ToolLine, ToolArrow:
		s.Points[1] = d
	case ToolPen:
		s.Points = append(s.Points, d)
	}
}

// finishDraw commits the draft. Degenerate shapes are kept.
func (e *Engine) finishDraw() {
	s := e.gesture.draft
	e.gesture = gesture{}
	if s == nil {
		return
	}
	s.Normalize()
	e.shapes = append(e.shapes, *s)
	e.commit()
}

// createText adds a text shape, commits it straight away, selects it and
// opens an edit session. The tool reverts to select.
func (e *Engine) createText(p shape.Point) {
	st := e.style
	s := shape.New(shape.KindText, p.X, p.Y, shape.Style{Stroke: st.Stroke, StrokeWidth: 1, Fill: st.Stroke})
	s.Text = e.placeholder
	s.FontSize = st.FontSize
	s.FontFamily = st.FontFamily
	e.shapes = append(e.shapes, s)
	e.tool = ToolSelect
	e.selected = s.ID
	e.commit()
	e.beginTextEdit(s.ID, true)
}
