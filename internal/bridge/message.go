package bridge

import (
	"fmt"

	"github.com/example/shineymark/internal/canvas"
	"github.com/example/shineymark/internal/shape"
)

// Inbound message types.
const (
	TypeCommand   = "command"
	TypeTool      = "tool"
	TypePointer   = "pointer"
	TypeText      = "text"
	TypeResize    = "resize"
	TypeApplyCrop = "apply-crop"
	TypeExport    = "export"
)

// Outbound message types.
const (
	TypeState = "state"
	TypeZoom  = "zoom"
	TypeCrop  = "crop"
	TypeError = "error"
)

// Inbound is a message from a client. Only the fields of its Type are read.
type Inbound struct {
	Type    string  `json:"type"`
	Command string  `json:"command,omitempty"`
	Tool    string  `json:"tool,omitempty"`
	Action  string  `json:"action,omitempty"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	Text    string  `json:"text,omitempty"`
	Width   float64 `json:"width,omitempty"`
	Height  float64 `json:"height,omitempty"`
	Format  string  `json:"format,omitempty"`
	Quality int     `json:"quality,omitempty"`
}

// State mirrors canvas.State on the wire.
type State struct {
	CanUndo    bool   `json:"canUndo"`
	CanRedo    bool   `json:"canRedo"`
	ShapeCount int    `json:"shapeCount"`
	Selected   string `json:"selected,omitempty"`
	Tool       string `json:"tool"`
	Editing    bool   `json:"editing"`
}

// Outbound is a message to clients.
type Outbound struct {
	Type   string      `json:"type"`
	State  *State      `json:"state,omitempty"`
	Zoom   float64     `json:"zoom,omitempty"`
	Crop   *shape.Rect `json:"crop,omitempty"`
	URL    string      `json:"url,omitempty"`
	Width  int         `json:"width,omitempty"`
	Height int         `json:"height,omitempty"`
	Error  string      `json:"error,omitempty"`
}

func stateMessage(s canvas.State) Outbound {
	return Outbound{Type: TypeState, State: &State{
		CanUndo:    s.CanUndo,
		CanRedo:    s.CanRedo,
		ShapeCount: s.ShapeCount,
		Selected:   s.Selected,
		Tool:       s.Tool.String(),
		Editing:    s.Editing,
	}}
}

func errorMessage(err error) Outbound {
	return Outbound{Type: TypeError, Error: err.Error()}
}

var pointerActions = map[string]canvas.PointerAction{
	"down": canvas.PointerDown,
	"move": canvas.PointerMove,
	"up":   canvas.PointerUp,
}

// event converts an inbound message into engine input. Export and
// apply-crop are not events and are handled by the bridge itself.
func (m Inbound) event() (canvas.Event, error) {
	switch m.Type {
	case TypeCommand:
		c, err := canvas.ParseCommand(m.Command)
		if err != nil {
			return nil, err
		}
		return canvas.CommandEvent{Command: c}, nil
	case TypeTool:
		t, err := canvas.ParseTool(m.Tool)
		if err != nil {
			return nil, err
		}
		return canvas.ToolEvent{Tool: t}, nil
	case TypePointer:
		a, ok := pointerActions[m.Action]
		if !ok {
			return nil, fmt.Errorf("unknown pointer action %q", m.Action)
		}
		return canvas.PointerEvent{Action: a, X: m.X, Y: m.Y}, nil
	case TypeText:
		return canvas.TextEvent{Text: m.Text}, nil
	case TypeResize:
		if m.Width <= 0 || m.Height <= 0 {
			return nil, fmt.Errorf("invalid size %vx%v", m.Width, m.Height)
		}
		return canvas.ResizeEvent{Width: m.Width, Height: m.Height}, nil
	}
	return nil, fmt.Errorf("unknown message type %q", m.Type)
}
