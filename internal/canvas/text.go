package canvas

import (
	"unicode/utf8"

	"github.com/example/shineymark/internal/shape"
)

// textEdit is an in-place edit of a committed text shape. Changes are live
// on the shape but only reach history when the edit finishes.
type textEdit struct {
	id       string
	original string
	// fresh edits replace the placeholder on the first keystroke.
	fresh bool
}

// Editing reports whether a text edit has focus.
func (e *Engine) Editing() bool { return e.edit != nil }

// EditText opens an edit session on the selected text shape.
func (e *Engine) EditText() bool {
	i, ok := e.index(e.selected)
	if !ok || e.shapes[i].Kind != shape.KindText || e.edit != nil {
		return false
	}
	e.beginTextEdit(e.selected, false)
	return true
}

func (e *Engine) beginTextEdit(id string, fresh bool) {
	i, ok := e.index(id)
	if !ok {
		return
	}
	e.edit = &textEdit{id: id, original: e.shapes[i].Text, fresh: fresh}
	e.notify()
}

// InsertText types s into the active edit.
func (e *Engine) InsertText(s string) bool {
	i, ok := e.editing()
	if !ok || s == "" {
		return false
	}
	if e.edit.fresh {
		e.shapes[i].Text = ""
		e.edit.fresh = false
	}
	e.shapes[i].Text += s
	return true
}

// Backspace removes the last character of the active edit.
func (e *Engine) Backspace() bool {
	i, ok := e.editing()
	if !ok {
		return false
	}
	if e.edit.fresh {
		e.shapes[i].Text = ""
		e.edit.fresh = false
		return true
	}
	t := e.shapes[i].Text
	if t == "" {
		return false
	}
	_, size := utf8.DecodeLastRuneInString(t)
	e.shapes[i].Text = t[:len(t)-size]
	return true
}

func (e *Engine) editing() (int, bool) {
	if e.edit == nil {
		return -1, false
	}
	i, ok := e.index(e.edit.id)
	if !ok {
		e.edit = nil
		return -1, false
	}
	return i, true
}

// finishTextEdit closes the edit and commits its content. An edit that
// leaves the text empty removes the shape.
func (e *Engine) finishTextEdit() {
	i, ok := e.editing()
	if !ok {
		return
	}
	e.edit = nil
	if e.shapes[i].Text == "" {
		e.shapes = append(e.shapes[:i:i], e.shapes[i+1:]...)
		e.selected = ""
	}
	e.commit()
}

// cancelTextEdit restores the text as it was when the edit began.
func (e *Engine) cancelTextEdit() {
	i, ok := e.editing()
	if !ok {
		return
	}
	e.shapes[i].Text = e.edit.original
	e.edit = nil
	e.notify()
}
