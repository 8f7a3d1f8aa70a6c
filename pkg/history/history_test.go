package history

import (
	"fmt"
	"testing"

	"github.com/mapweaver/mapweaver/pkg/errors"
	"github.com/mapweaver/mapweaver/pkg/spec"
)

func bubbleState(topic string) *spec.Spec {
	return &spec.Spec{
		Archetype: spec.ArchetypeBubble,
		Bubble:    &spec.BubbleMap{Topic: topic, Attributes: []string{"a"}},
	}
}

func topicOf(t *testing.T, s *spec.Spec) string {
	t.Helper()
	if s == nil || s.Bubble == nil {
		t.Fatal("nil snapshot")
	}
	return s.Bubble.Topic
}

func TestUndoRedoWalk(t *testing.T) {
	st := New(10)
	for i := 0; i < 4; i++ {
		st.Push("edit", nil, bubbleState(fmt.Sprintf("v%d", i)))
	}

	// Walk all the way back.
	for i := 2; i >= 0; i-- {
		s, err := st.Undo()
		if err != nil {
			t.Fatalf("Undo() error = %v", err)
		}
		if got, want := topicOf(t, s), fmt.Sprintf("v%d", i); got != want {
			t.Fatalf("undo landed on %s, want %s", got, want)
		}
	}
	if st.CanUndo() {
		t.Error("CanUndo() = true at the oldest state")
	}

	// And forward again.
	for i := 1; i <= 3; i++ {
		s, err := st.Redo()
		if err != nil {
			t.Fatalf("Redo() error = %v", err)
		}
		if got, want := topicOf(t, s), fmt.Sprintf("v%d", i); got != want {
			t.Fatalf("redo landed on %s, want %s", got, want)
		}
	}
	if st.CanRedo() {
		t.Error("CanRedo() = true at the newest state")
	}
}

func TestBoundaryIsWarning(t *testing.T) {
	st := New(10)
	st.Push("init", nil, bubbleState("only"))

	if _, err := st.Undo(); !errors.Is(err, errors.ErrCodeHistoryBoundary) {
		t.Errorf("Undo() at boundary error = %v, want HISTORY_BOUNDARY", err)
	}
	if _, err := st.Redo(); !errors.Is(err, errors.ErrCodeHistoryBoundary) {
		t.Errorf("Redo() at boundary error = %v, want HISTORY_BOUNDARY", err)
	}

	if _, err := st.Undo(); !errors.IsWarning(err) {
		t.Errorf("boundary error not warning-grade: %v", err)
	}

	// The cursor did not move.
	if got := topicOf(t, st.Current()); got != "only" {
		t.Errorf("Current() = %s after boundary hits, want only", got)
	}
}

func TestPushCutsBranch(t *testing.T) {
	st := New(10)
	for i := 0; i < 4; i++ {
		st.Push("edit", nil, bubbleState(fmt.Sprintf("v%d", i)))
	}
	st.Undo()
	st.Undo()

	st.Push("edit", nil, bubbleState("fork"))

	if st.CanRedo() {
		t.Fatal("redo branch survived a push")
	}
	if got := topicOf(t, st.Current()); got != "fork" {
		t.Fatalf("Current() = %s, want fork", got)
	}

	// The cut branch is gone; undo walks the new timeline.
	s, err := st.Undo()
	if err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if got := topicOf(t, s); got != "v1" {
		t.Errorf("undo after fork landed on %s, want v1", got)
	}
	if got, want := st.Len(), 3; got != want {
		t.Errorf("Len() = %d, want %d", got, want)
	}
}

func TestEvictionKeepsUndoDepth(t *testing.T) {
	st := New(3)
	for i := 0; i < 5; i++ {
		st.Push("edit", nil, bubbleState(fmt.Sprintf("v%d", i)))
	}

	if got, want := st.Len(), 3; got != want {
		t.Fatalf("Len() = %d, want capacity %d", got, want)
	}
	if got := topicOf(t, st.Current()); got != "v4" {
		t.Fatalf("Current() = %s after eviction, want v4", got)
	}

	// Two steps back are still reachable, then the boundary.
	for _, want := range []string{"v3", "v2"} {
		s, err := st.Undo()
		if err != nil {
			t.Fatalf("Undo() error = %v", err)
		}
		if got := topicOf(t, s); got != want {
			t.Fatalf("undo landed on %s, want %s", got, want)
		}
	}
	if _, err := st.Undo(); !errors.Is(err, errors.ErrCodeHistoryBoundary) {
		t.Errorf("Undo() past evicted states error = %v, want HISTORY_BOUNDARY", err)
	}
}

func TestSnapshotsAreIsolated(t *testing.T) {
	st := New(10)
	live := bubbleState("original")
	st.Push("init", nil, live)

	// Mutating the live document must not reach into history.
	live.Bubble.Topic = "mutated"
	if got := topicOf(t, st.Current()); got != "original" {
		t.Errorf("history snapshot followed live mutation: %s", got)
	}

	// And mutating a returned snapshot must not corrupt the stack.
	got := st.Current()
	got.Bubble.Topic = "scribbled"
	if topic := topicOf(t, st.Current()); topic != "original" {
		t.Errorf("returned snapshot aliased stack storage: %s", topic)
	}
}

func TestClear(t *testing.T) {
	st := New(10)
	st.Push("init", nil, bubbleState("x"))
	st.Clear()

	if st.Len() != 0 || st.CanUndo() || st.CanRedo() || st.Current() != nil {
		t.Error("Clear() left state behind")
	}
}

func TestEntriesMetadata(t *testing.T) {
	st := New(10)
	e := st.Push("node.update", map[string]any{"node": "bubble-0"}, bubbleState("x"))

	if e.ID == "" {
		t.Error("entry without ID")
	}
	if e.At.IsZero() {
		t.Error("entry without timestamp")
	}
	entries := st.Entries()
	if len(entries) != 1 || entries[0].Action != "node.update" {
		t.Errorf("Entries() = %+v", entries)
	}
	if entries[0].Meta["node"] != "bubble-0" {
		t.Errorf("meta lost: %v", entries[0].Meta)
	}
}
