package canvas

import (
	"fmt"

	"golang.org/x/mobile/event/key"

	"github.com/example/shineymark/internal/shape"
)

// Command is an editor action reachable from both the keyboard and the
// host API.
type Command int

const (
	CmdNone Command = iota
	CmdUndo
	CmdRedo
	CmdCopy
	CmdPaste
	CmdDelete
	CmdBringForward
	CmdSendBackward
	CmdCancel
	CmdZoomIn
	CmdZoomOut
	CmdZoomReset
	CmdClear
	CmdToggleCrop
	CmdEditText
)

var commandNames = map[Command]string{
	CmdUndo:         "undo",
	CmdRedo:         "redo",
	CmdCopy:         "copy",
	CmdPaste:        "paste",
	CmdDelete:       "delete",
	CmdBringForward: "forward",
	CmdSendBackward: "backward",
	CmdCancel:       "cancel",
	CmdZoomIn:       "zoom-in",
	CmdZoomOut:      "zoom-out",
	CmdZoomReset:    "zoom-reset",
	CmdClear:        "clear",
	CmdToggleCrop:   "crop",
	CmdEditText:     "edit",
}

func (c Command) String() string {
	if n, ok := commandNames[c]; ok {
		return n
	}
	return fmt.Sprintf("Command(%d)", int(c))
}

// ParseCommand looks a command up by name.
func ParseCommand(s string) (Command, error) {
	for c, n := range commandNames {
		if n == s {
			return c, nil
		}
	}
	return CmdNone, fmt.Errorf("unknown command %q", s)
}

// PointerAction distinguishes pointer events.
type PointerAction int

const (
	PointerDown PointerAction = iota
	PointerMove
	PointerUp
)

// Event is input routed to the engine.
type Event interface{ isEvent() }

// PointerEvent carries a position in screen coordinates relative to the
// canvas container.
type PointerEvent struct {
	Action PointerAction
	X, Y   float64
}

// KeyEvent is a key press.
type KeyEvent struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// TextEvent is text typed into an active edit.
type TextEvent struct{ Text string }

// CommandEvent runs a command.
type CommandEvent struct{ Command Command }

// ToolEvent switches tools.
type ToolEvent struct{ Tool Tool }

// ResizeEvent reports a new container size.
type ResizeEvent struct{ Width, Height float64 }

func (PointerEvent) isEvent() {}
func (KeyEvent) isEvent()     {}
func (TextEvent) isEvent()    {}
func (CommandEvent) isEvent() {}
func (ToolEvent) isEvent()    {}
func (ResizeEvent) isEvent()  {}

// Dispatch routes one event. It reports whether the event changed anything
// or was consumed.
func (e *Engine) Dispatch(ev Event) bool {
	switch ev := ev.(type) {
	case PointerEvent:
		return e.pointer(ev)
	case KeyEvent:
		return e.key(ev)
	case TextEvent:
		return e.InsertText(ev.Text)
	case CommandEvent:
		return e.Execute(ev.Command)
	case ToolEvent:
		e.SetTool(ev.Tool)
		return true
	case ResizeEvent:
		e.Resize(ev.Width, ev.Height)
		return true
	}
	return false
}

// Attach subscribes the engine to an event stream. Each event is run
// through the engine's scheduler. The returned function unsubscribes and
// waits for the reader to stop.
func (e *Engine) Attach(events <-chan Event) (detach func()) {
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-stop:
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				e.post(func() { e.Dispatch(ev) })
			}
		}
	}()
	var detached bool
	return func() {
		if detached {
			return
		}
		detached = true
		close(stop)
		<-done
	}
}

func (e *Engine) pointer(ev PointerEvent) bool {
	if !e.Ready() {
		return false
	}
	screen := shape.Pt(ev.X, ev.Y)
	p := e.view.ToLogical(screen)
	switch ev.Action {
	case PointerDown:
		if e.gesture.kind != gestureNone {
			return false
		}
		if e.crop.active {
			e.cropDown(p)
			return true
		}
		if e.edit != nil {
			e.finishTextEdit()
		}
		if e.tool == ToolSelect {
			e.selectDown(screen, p)
		} else {
			e.beginDraw(p)
		}
		return true
	case PointerMove:
		switch e.gesture.kind {
		case gestureDraw:
			e.updateDraw(p)
		case gestureDrag:
			e.dragMove(p)
		case gestureResize:
			e.resizeMove(p)
		case gestureRotate:
			e.rotateMove(p)
		case gestureCrop:
			e.cropMove(p)
		default:
			return false
		}
		return true
	case PointerUp:
		switch e.gesture.kind {
		case gestureDraw:
			e.updateDraw(p)
			e.finishDraw()
		case gestureDrag, gestureResize, gestureRotate:
			e.finishManipulation()
		case gestureCrop:
			e.cropUp(p)
		default:
			return false
		}
		return true
	}
	return false
}

// key handles a key press: an active text edit takes every key, otherwise
// the keymap decides.
func (e *Engine) key(ev KeyEvent) bool {
	if e.edit != nil {
		switch {
		case ev.Code == key.CodeEscape:
			e.cancelTextEdit()
		case ev.Code == key.CodeReturnEnter && ev.Modifiers&key.ModShift == 0:
			e.finishTextEdit()
		case ev.Code == key.CodeReturnEnter:
			e.InsertText("\n")
		case ev.Code == key.CodeDeleteBackspace:
			e.Backspace()
		case ev.Rune >= ' ' && ev.Modifiers&(key.ModControl|key.ModMeta) == 0:
			e.InsertText(string(ev.Rune))
		default:
			return false
		}
		return true
	}
	if e.crop.active && ev.Code == key.CodeReturnEnter {
		_, ok := e.ApplyCrop()
		return ok
	}
	mapped, ok := e.keymap.Lookup(ev)
	if !ok {
		return false
	}
	return e.Dispatch(mapped)
}

// Execute runs a command. While a text edit has focus only CmdCancel is
// honoured, and while a pointer gesture is in progress commands that touch
// the shape list or crop mode are ignored. It reports whether anything
// changed.
func (e *Engine) Execute(c Command) bool {
	if e.edit != nil {
		if c == CmdCancel {
			e.cancelTextEdit()
			return true
		}
		return false
	}
	if e.gesture.kind != gestureNone && !gestureSafe(c) {
		return false
	}
	switch c {
	case CmdUndo:
		list, ok := e.history.Undo()
		if ok {
			e.restore(list)
		}
		return ok
	case CmdRedo:
		list, ok := e.history.Redo()
		if ok {
			e.restore(list)
		}
		return ok
	case CmdCopy:
		return e.copySelected()
	case CmdPaste:
		return e.paste()
	case CmdDelete:
		return e.deleteSelected()
	case CmdBringForward:
		return e.bringForward()
	case CmdSendBackward:
		return e.sendBackward()
	case CmdCancel:
		return e.cancel()
	case CmdZoomIn:
		return e.zoom(e.view.ZoomIn())
	case CmdZoomOut:
		return e.zoom(e.view.ZoomOut())
	case CmdZoomReset:
		return e.zoom(e.view.ResetZoom())
	case CmdClear:
		return e.clear()
	case CmdToggleCrop:
		e.ToggleCrop()
		return true
	case CmdEditText:
		return e.EditText()
	}
	return false
}

// cancel handles Escape: drop a draft, leave crop mode, or clear the
// selection. Drags in progress are not cancellable.
func (e *Engine) cancel() bool {
	switch e.gesture.kind {
	case gestureDraw:
		e.cancelGesture()
		return true
	case gestureDrag, gestureResize, gestureRotate:
		return false
	}
	if e.crop.active {
		e.ExitCrop()
		return true
	}
	if e.selected != "" {
		e.Deselect()
		return true
	}
	return false
}

// gestureSafe reports whether c may run between a pointer-down and the
// matching pointer-up.
func gestureSafe(c Command) bool {
	switch c {
	case CmdCopy, CmdCancel, CmdZoomIn, CmdZoomOut, CmdZoomReset:
		return true
	}
	return false
}

func (e *Engine) zoom(changed bool) bool {
	if changed {
		e.notifyZoom()
	}
	return changed
}

func (e *Engine) Undo() bool         { return e.Execute(CmdUndo) }
func (e *Engine) Redo() bool         { return e.Execute(CmdRedo) }
func (e *Engine) Copy() bool         { return e.Execute(CmdCopy) }
func (e *Engine) Paste() bool        { return e.Execute(CmdPaste) }
func (e *Engine) Delete() bool       { return e.Execute(CmdDelete) }
func (e *Engine) BringForward() bool { return e.Execute(CmdBringForward) }
func (e *Engine) SendBackward() bool { return e.Execute(CmdSendBackward) }
func (e *Engine) Clear() bool        { return e.Execute(CmdClear) }
func (e *Engine) ZoomIn() bool       { return e.Execute(CmdZoomIn) }
func (e *Engine) ZoomOut() bool      { return e.Execute(CmdZoomOut) }
func (e *Engine) ResetZoom() bool    { return e.Execute(CmdZoomReset) }

// SetZoom sets the zoom factor directly, clamped to the viewport limits.
func (e *Engine) SetZoom(z float64) bool { return e.zoom(e.view.SetZoom(z)) }

func (e *Engine) CanUndo() bool { return e.history.CanUndo() }
func (e *Engine) CanRedo() bool { return e.history.CanRedo() }
func (e *Engine) Zoom() float64 { return e.view.Zoom() }
