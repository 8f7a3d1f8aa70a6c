package session

import (
	"testing"

	"github.com/mapweaver/mapweaver/pkg/errors"
	"github.com/mapweaver/mapweaver/pkg/events"
	"github.com/mapweaver/mapweaver/pkg/spec"
	"github.com/mapweaver/mapweaver/pkg/viewport"
)

func openBubbleSession(t *testing.T) *Session {
	t.Helper()
	doc := &spec.Spec{
		Archetype: spec.ArchetypeBubble,
		Bubble:    &spec.BubbleMap{Topic: "T", Attributes: []string{"A", "B", "C"}},
	}
	s, err := New(doc, Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func TestEditRecompilesAndRecords(t *testing.T) {
	s := openBubbleSession(t)

	var completed int
	s.Bus().Subscribe(events.TopicOperationCompleted, func(events.Event) { completed++ })

	if err := s.UpdateText(spec.BubbleID(1), "Bananas"); err != nil {
		t.Fatalf("UpdateText() error = %v", err)
	}

	if got := s.Result().NodeByID(spec.BubbleID(1)); got == nil || got.Text != "Bananas" {
		t.Errorf("layout not recompiled after edit: %+v", got)
	}
	if completed != 1 {
		t.Errorf("operation-completed published %d times, want 1", completed)
	}
	if !s.History().CanUndo() {
		t.Error("edit not recorded in history")
	}
}

func TestRejectedEditLeavesEverything(t *testing.T) {
	s := openBubbleSession(t)
	before := s.Result()

	err := s.DeleteNode(spec.IDTopic)
	if !errors.Is(err, errors.ErrCodeEditForbidden) {
		t.Fatalf("DeleteNode(topic) error = %v, want EDIT_FORBIDDEN", err)
	}
	if !errors.IsWarning(err) {
		t.Error("forbidden edit not warning-grade")
	}

	if got := s.Spec().Bubble.Topic; got != "T" {
		t.Errorf("spec mutated by rejected edit: topic = %q", got)
	}
	if len(s.Result().Nodes) != len(before.Nodes) {
		t.Error("layout changed by rejected edit")
	}
	if s.History().CanUndo() {
		t.Error("rejected edit pushed history")
	}
}

func TestUncompilableEditLeavesEverything(t *testing.T) {
	s := openBubbleSession(t)
	before := s.Result()

	var completed int
	s.Bus().Subscribe(events.TopicOperationCompleted, func(events.Event) { completed++ })

	// Blanking the topic passes the edit operation but fails validation
	// inside the recompile.
	err := s.UpdateText(spec.IDTopic, "")
	if !errors.Is(err, errors.ErrCodeInvalidSpec) {
		t.Fatalf("UpdateText(topic, \"\") error = %v, want INVALID_SPEC", err)
	}

	if got := s.Spec().Bubble.Topic; got != "T" {
		t.Errorf("document mutated by uncompilable edit: topic = %q", got)
	}
	if got := s.Result().NodeByID(spec.IDTopic); got == nil || got.Text != "T" {
		t.Errorf("layout changed by uncompilable edit: %+v", got)
	}
	if len(s.Result().Nodes) != len(before.Nodes) {
		t.Error("node count changed by uncompilable edit")
	}
	if s.History().CanUndo() {
		t.Error("uncompilable edit pushed history")
	}
	if completed != 0 {
		t.Errorf("operation-completed published %d times, want 0", completed)
	}
}

func TestUndoRestoresAndClearsSelection(t *testing.T) {
	s := openBubbleSession(t)

	if err := s.UpdateText(spec.BubbleID(0), "changed"); err != nil {
		t.Fatalf("UpdateText() error = %v", err)
	}

	var restored *spec.Spec
	s.Bus().Subscribe(events.TopicUndoCompleted, func(e events.Event) {
		restored, _ = e.Payload.(*spec.Spec)
	})

	if err := s.Undo(); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if got := s.Spec().Bubble.Attributes[0]; got != "A" {
		t.Errorf("undo restored attribute %q, want A", got)
	}
	if restored == nil || restored.Bubble.Attributes[0] != "A" {
		t.Error("undo-completed did not carry the restored spec")
	}
	if got := s.Machine().Selection(); len(got) != 0 {
		t.Errorf("selection survived restore: %v", got)
	}

	if err := s.Redo(); err != nil {
		t.Fatalf("Redo() error = %v", err)
	}
	if got := s.Spec().Bubble.Attributes[0]; got != "changed" {
		t.Errorf("redo restored attribute %q, want changed", got)
	}
}

func TestUndoAtBoundary(t *testing.T) {
	s := openBubbleSession(t)

	// Only the opening snapshot exists.
	if err := s.Undo(); !errors.Is(err, errors.ErrCodeHistoryBoundary) {
		t.Errorf("Undo() error = %v, want HISTORY_BOUNDARY", err)
	}
	if got := s.Spec().Bubble.Topic; got != "T" {
		t.Errorf("boundary undo mutated the document: %q", got)
	}
}

func TestDeleteRenumbersOnRecompile(t *testing.T) {
	s := openBubbleSession(t)

	if err := s.DeleteNode(spec.BubbleID(1)); err != nil {
		t.Fatalf("DeleteNode() error = %v", err)
	}

	res := s.Result()
	if got, want := len(res.Nodes), 3; got != want {
		t.Fatalf("node count = %d, want %d", got, want)
	}
	if n := res.NodeByID(spec.BubbleID(1)); n == nil || n.Text != "C" {
		t.Errorf("bubble-1 = %+v, want the renumbered C", n)
	}
	if res.NodeByID(spec.BubbleID(2)) != nil {
		t.Error("gap left in bubble ids after delete")
	}
}

func TestDraggableFollowsArchetype(t *testing.T) {
	fixed := openBubbleSession(t)
	if fixed.Machine().Draggable() {
		t.Error("fixed-layout archetype is draggable")
	}

	free, err := New(&spec.Spec{
		Archetype: spec.ArchetypeConcept,
		Concept: &spec.ConceptMap{
			Nodes: []spec.ConceptNode{{ID: "a", Text: "A", X: 1, Y: 2, Placed: true}},
		},
	}, Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !free.Machine().Draggable() {
		t.Error("freeform archetype not draggable")
	}
}

func TestFitPublishesOnChangeOnly(t *testing.T) {
	s := openBubbleSession(t)

	var fits int
	s.Bus().Subscribe(events.TopicViewFitted, func(events.Event) { fits++ })

	s.Fit(1000, 700, viewport.ModeFullCanvas, false)
	s.Fit(1000, 700, viewport.ModeFullCanvas, false) // identical: skipped
	s.Fit(1000, 700, viewport.ModeWithPanel, false)

	if fits != 2 {
		t.Errorf("view-fitted published %d times, want 2", fits)
	}
}
