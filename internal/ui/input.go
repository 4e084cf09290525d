package ui

import (
	"fmt"
	"strings"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/shineymark/internal/canvas"
)

type hostAction int

const (
	actionSave hostAction = iota
	actionCopyImage
	actionPasteBackground
)

// hostShortcuts are handled by the window before the engine's keymap.
var hostShortcuts = map[canvas.KeyShortcut]hostAction{
	{Code: key.CodeS, Modifiers: key.ModControl}:                actionSave,
	{Code: key.CodeC, Modifiers: key.ModControl | key.ModShift}: actionCopyImage,
	{Code: key.CodeV, Modifiers: key.ModControl | key.ModShift}: actionPasteBackground,
}

func lookupHostAction(e key.Event) (hostAction, bool) {
	a, ok := hostShortcuts[canvas.KeyShortcut{Code: e.Code, Modifiers: e.Modifiers}]
	return a, ok
}

// pointerEvent converts a left-button mouse event into engine input. Window
// and canvas share an origin so no offset is applied.
func pointerEvent(e mouse.Event) (canvas.PointerEvent, bool) {
	ev := canvas.PointerEvent{X: float64(e.X), Y: float64(e.Y)}
	switch e.Direction {
	case mouse.DirPress:
		if e.Button != mouse.ButtonLeft {
			return ev, false
		}
		ev.Action = canvas.PointerDown
	case mouse.DirRelease:
		if e.Button != mouse.ButtonLeft {
			return ev, false
		}
		ev.Action = canvas.PointerUp
	case mouse.DirNone:
		ev.Action = canvas.PointerMove
	default:
		return ev, false
	}
	return ev, true
}

func keyEvent(e key.Event) canvas.KeyEvent {
	r := e.Rune
	if r < 0 {
		r = 0
	}
	return canvas.KeyEvent{Rune: r, Code: e.Code, Modifiers: e.Modifiers}
}

const shortcutHint = "V select  R rect  B blur  E ellipse  O circle  L line  A arrow  P pen  T text  K crop  Ctrl+S save"

// statusLine summarises the engine state for the status bar.
func statusLine(f canvas.Frame) string {
	var b strings.Builder
	mode := f.State.Tool.String()
	switch {
	case f.State.Editing:
		mode = "editing text (Enter to finish, Esc to cancel)"
	case f.Crop:
		mode = "crop (drag, Enter to apply, Esc to leave)"
	}
	fmt.Fprintf(&b, "%s | %d shapes | %d%%", mode, f.State.ShapeCount, int(f.Zoom*100+0.5))
	if f.State.Selected != "" {
		b.WriteString(" | selected")
	}
	if !f.State.Editing && !f.Crop {
		b.WriteString(" | ")
		b.WriteString(shortcutHint)
	}
	return b.String()
}
