package canvas

import (
	"unicode"

	"golang.org/x/mobile/event/key"
)

// KeyShortcut describes a keyboard combination. Shortcuts bound to a rune
// leave Code zero and the other way round.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// Keymap maps shortcuts to engine events.
type Keymap struct {
	bindings map[KeyShortcut]Event
}

// NewKeymap returns an empty keymap.
func NewKeymap() *Keymap {
	return &Keymap{bindings: map[KeyShortcut]Event{}}
}

// Bind maps every shortcut in keys to ev, replacing earlier bindings.
func (m *Keymap) Bind(ev Event, keys ...KeyShortcut) {
	for _, k := range keys {
		if k.Rune != 0 {
			k.Rune = unicode.ToLower(k.Rune)
		}
		m.bindings[k] = ev
	}
}

// Lookup resolves a key press. The rune form is tried before the key code
// so that layouts producing the same character agree.
func (m *Keymap) Lookup(ev KeyEvent) (Event, bool) {
	if ev.Rune > 0 {
		r := unicode.ToLower(ev.Rune)
		if b, ok := m.bindings[KeyShortcut{Rune: r, Modifiers: ev.Modifiers}]; ok {
			return b, true
		}
		// shift is already folded into the rune for '+' and friends
		if ev.Modifiers == key.ModShift {
			if b, ok := m.bindings[KeyShortcut{Rune: r}]; ok {
				return b, true
			}
		}
	}
	b, ok := m.bindings[KeyShortcut{Code: ev.Code, Modifiers: ev.Modifiers}]
	return b, ok
}

// Shortcuts returns the shortcuts bound to ev.
func (m *Keymap) Shortcuts(ev Event) []KeyShortcut {
	var out []KeyShortcut
	for k, b := range m.bindings {
		if b == ev {
			out = append(out, k)
		}
	}
	return out
}

func ctrl(code key.Code) KeyShortcut {
	return KeyShortcut{Code: code, Modifiers: key.ModControl}
}

// DefaultKeymap returns the standard bindings.
func DefaultKeymap() *Keymap {
	m := NewKeymap()
	cmd := func(c Command, keys ...KeyShortcut) { m.Bind(CommandEvent{Command: c}, keys...) }
	tool := func(t Tool, r rune) { m.Bind(ToolEvent{Tool: t}, KeyShortcut{Rune: r}) }

	cmd(CmdUndo, ctrl(key.CodeZ))
	cmd(CmdRedo, ctrl(key.CodeY), KeyShortcut{Code: key.CodeZ, Modifiers: key.ModControl | key.ModShift})
	cmd(CmdCopy, ctrl(key.CodeC))
	cmd(CmdPaste, ctrl(key.CodeV))
	cmd(CmdDelete, KeyShortcut{Code: key.CodeDeleteForward}, KeyShortcut{Code: key.CodeDeleteBackspace})
	cmd(CmdBringForward, KeyShortcut{Rune: ']'})
	cmd(CmdSendBackward, KeyShortcut{Rune: '['})
	cmd(CmdZoomIn, KeyShortcut{Rune: '+'}, KeyShortcut{Rune: '='}, KeyShortcut{Code: key.CodeKeypadPlusSign})
	cmd(CmdZoomOut, KeyShortcut{Rune: '-'}, KeyShortcut{Code: key.CodeKeypadHyphenMinus})
	cmd(CmdZoomReset, KeyShortcut{Rune: '0'})
	cmd(CmdCancel, KeyShortcut{Code: key.CodeEscape})
	cmd(CmdEditText, KeyShortcut{Code: key.CodeReturnEnter})
	cmd(CmdToggleCrop, KeyShortcut{Rune: 'k'})

	tool(ToolSelect, 'v')
	tool(ToolRect, 'r')
	tool(ToolBlur, 'b')
	tool(ToolEllipse, 'e')
	tool(ToolCircle, 'o')
	tool(ToolLine, 'l')
	tool(ToolArrow, 'a')
	tool(ToolPen, 'p')
	tool(ToolText, 't')
	return m
}
