package history

import (
	"testing"

	"github.com/example/shineymark/internal/shape"
)

func rect(id string, x float64) shape.Shape {
	s := shape.New(shape.KindRect, x, 0, shape.Style{Stroke: "red", StrokeWidth: 1})
	s.ID = id
	s.Width, s.Height = 10, 10
	return s
}

func ids(list []shape.Shape) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestUndoRedoWalk(t *testing.T) {
	h := New(nil)
	var states [][]shape.Shape
	states = append(states, nil)
	var cur []shape.Shape
	for i, id := range []string{"a", "b", "c", "d"} {
		cur = append(cur, rect(id, float64(i)))
		if !h.Commit(cur) {
			t.Fatalf("commit %d coalesced unexpectedly", i)
		}
		states = append(states, shape.CloneAll(cur))
	}
	for i := len(states) - 2; i >= 0; i-- {
		got, ok := h.Undo()
		if !ok {
			t.Fatalf("undo to %d failed", i)
		}
		if !equalIDs(ids(got), ids(states[i])) {
			t.Fatalf("undo to %d = %v, want %v", i, ids(got), ids(states[i]))
		}
	}
	if _, ok := h.Undo(); ok {
		t.Fatal("undo past initial state should be a no-op")
	}
	for i := 1; i < len(states); i++ {
		got, ok := h.Redo()
		if !ok {
			t.Fatalf("redo to %d failed", i)
		}
		if !equalIDs(ids(got), ids(states[i])) {
			t.Fatalf("redo to %d = %v, want %v", i, ids(got), ids(states[i]))
		}
	}
	if h.CanRedo() {
		t.Fatal("CanRedo should be false at the tail")
	}
}

func TestCommitAfterUndoTruncates(t *testing.T) {
	h := New(nil)
	var cur []shape.Shape
	for i, id := range []string{"a", "b", "c"} {
		cur = append(cur, rect(id, float64(i)))
		h.Commit(cur)
	}
	h.Undo()
	h.Undo()
	h.Commit([]shape.Shape{rect("a", 0), rect("x", 5)})
	if h.CanRedo() {
		t.Fatal("redo should be unavailable after a new commit")
	}
	if h.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", h.Len())
	}
}

func TestCommitCoalescesIdenticalContent(t *testing.T) {
	h := New([]shape.Shape{rect("a", 0)})
	if h.Commit([]shape.Shape{rect("a", 0)}) {
		t.Fatal("identical commit should coalesce")
	}
	if h.Len() != 1 || h.CanUndo() {
		t.Fatalf("unexpected history state len=%d cursor=%d", h.Len(), h.Cursor())
	}
	h.Commit([]shape.Shape{rect("a", 0), rect("b", 1)})
	h.Undo()
	if h.Commit([]shape.Shape{rect("a", 0)}) {
		t.Fatal("commit equal to current entry should coalesce")
	}
	if !h.CanRedo() {
		t.Fatal("coalesced commit must keep the redo branch")
	}
}

func TestSnapshotsAreIsolated(t *testing.T) {
	list := []shape.Shape{rect("a", 0)}
	h := New(nil)
	h.Commit(list)
	list[0].X = 500
	got := h.Current()
	if got[0].X != 0 {
		t.Fatalf("snapshot mutated through caller slice: %v", got[0].X)
	}
	got[0].X = 700
	if h.Current()[0].X != 0 {
		t.Fatal("snapshot mutated through returned slice")
	}
}

func TestInitialEntryKept(t *testing.T) {
	initial := []shape.Shape{rect("seed", 0)}
	h := New(initial)
	h.Commit(append(shape.CloneAll(initial), rect("b", 1)))
	h.Undo()
	h.Commit([]shape.Shape{})
	got, _ := h.Undo()
	if len(got) != 1 || got[0].ID != "seed" {
		t.Fatalf("initial entry lost: %v", ids(got))
	}
}
