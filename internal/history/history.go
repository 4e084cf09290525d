// Package history keeps a linear undo/redo log of shape list snapshots.
package history

import (
	"log"

	"github.com/example/shineymark/internal/shape"
)

type entry struct {
	shapes []shape.Shape
	key    string
}

// History is a list of immutable snapshots with a cursor. Entry 0 is the
// initial or loaded state and is never discarded.
type History struct {
	entries []entry
	cursor  int
}

// New returns a history whose only entry is initial.
func New(initial []shape.Shape) *History {
	h := &History{}
	h.Reset(initial)
	return h
}

// Reset discards every entry and starts again from initial.
func (h *History) Reset(initial []shape.Shape) {
	h.entries = []entry{snapshot(initial)}
	h.cursor = 0
}

func snapshot(list []shape.Shape) entry {
	key, err := shape.Encode(list)
	if err != nil {
		log.Printf("history: %v", err)
	}
	copied := shape.CloneAll(list)
	if copied == nil {
		copied = []shape.Shape{}
	}
	return entry{shapes: copied, key: key}
}

// Commit records list as the newest entry. Entries after the cursor are
// dropped. A commit whose content equals the current entry is coalesced:
// nothing changes and false is returned.
func (h *History) Commit(list []shape.Shape) bool {
	e := snapshot(list)
	if e.key != "" && e.key == h.entries[h.cursor].key {
		return false
	}
	h.entries = append(h.entries[:h.cursor+1], e)
	h.cursor++
	return true
}

// Undo moves the cursor back one entry and returns a copy of it. ok is false
// at the start of the log.
func (h *History) Undo() (list []shape.Shape, ok bool) {
	if !h.CanUndo() {
		return nil, false
	}
	h.cursor--
	return h.Current(), true
}

// Redo moves the cursor forward one entry and returns a copy of it.
func (h *History) Redo() (list []shape.Shape, ok bool) {
	if !h.CanRedo() {
		return nil, false
	}
	h.cursor++
	return h.Current(), true
}

// Current returns a copy of the entry at the cursor.
func (h *History) Current() []shape.Shape {
	return shape.CloneAll(h.entries[h.cursor].shapes)
}

// CurrentKey returns the serialized form of the entry at the cursor.
func (h *History) CurrentKey() string { return h.entries[h.cursor].key }

func (h *History) CanUndo() bool { return h.cursor > 0 }
func (h *History) CanRedo() bool { return h.cursor < len(h.entries)-1 }

// Len is the number of stored entries including the initial one.
func (h *History) Len() int { return len(h.entries) }

// Cursor is the index of the current entry.
func (h *History) Cursor() int { return h.cursor }
