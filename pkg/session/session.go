// Package session owns one live editing session: the working specification,
// its compiled layout, the undo/redo stack, the interaction machine, the
// viewport controller, and the notification bus.
//
// The session is the single writer of the specification. Every mutation
// follows the same shape: apply the edit to a scratch copy, recompile it,
// swap it in, push the snapshot, notify. A rejected or uncompilable edit
// leaves the session exactly as it was. Ordering is
// guaranteed by the session being single-threaded like the rest of the
// engine; callers serialize access.
package session

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/mapweaver/mapweaver/pkg/events"
	"github.com/mapweaver/mapweaver/pkg/geometry"
	"github.com/mapweaver/mapweaver/pkg/history"
	"github.com/mapweaver/mapweaver/pkg/interact"
	"github.com/mapweaver/mapweaver/pkg/layout"
	"github.com/mapweaver/mapweaver/pkg/spec"
	"github.com/mapweaver/mapweaver/pkg/viewport"
)

// Options configures a new session. Zero values fall back to the package
// defaults.
type Options struct {
	Layout          layout.Options
	HistoryCapacity int
	Machine         interact.Config
	Viewport        viewport.Config
	Target          interact.RenderTarget
	Logger          *log.Logger
}

// Session is one live editing session.
type Session struct {
	ID string

	doc    *spec.Spec
	result layout.Result
	opts   layout.Options
	logger *log.Logger

	hist    *history.Stack
	machine *interact.Machine
	view    *viewport.Controller
	bus     *events.Bus
}

// New compiles the document and opens a session on it. The initial state is
// pushed as the first history entry, so a session always has a state to
// undo back to after the first edit.
func New(doc *spec.Spec, o Options) (*Session, error) {
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	lopts := o.Layout
	if lopts.CanvasWidth == 0 {
		lopts = layout.DefaultOptions()
	}

	res, err := layout.Compile(doc, lopts)
	if err != nil {
		return nil, err
	}

	bus := events.NewBus()
	s := &Session{
		ID:      uuid.NewString(),
		doc:     doc,
		result:  res,
		opts:    lopts,
		logger:  o.Logger,
		hist:    history.New(o.HistoryCapacity),
		machine: interact.New(o.Machine, o.Target, bus),
		view:    viewport.New(o.Viewport),
		bus:     bus,
	}
	s.machine.SetDraggable(s.draggable())
	s.hist.Push("session.open", nil, doc)

	s.logger.Debug("session opened", "session", s.ID, "archetype", doc.Archetype,
		"nodes", len(res.Nodes), "edges", len(res.Edges))
	return s, nil
}

// Bus returns the session's notification bus.
func (s *Session) Bus() *events.Bus { return s.bus }

// Machine returns the interaction state machine.
func (s *Session) Machine() *interact.Machine { return s.machine }

// Result returns the current compiled layout.
func (s *Session) Result() layout.Result { return s.result }

// Spec returns a deep copy of the working specification.
func (s *Session) Spec() *spec.Spec { return s.doc.Clone() }

// History exposes the undo/redo stack for inspection.
func (s *Session) History() *history.Stack { return s.hist }

// =============================================================================
// Structural Edits
// =============================================================================

// edit runs one mutation through the apply/recompile/record pipeline. The
// mutation is applied to a scratch copy and swapped in only once the
// recompile succeeds, so a rejected or uncompilable edit leaves the working
// document, the layout, and the history all untouched.
func (s *Session) edit(action, nodeID string, topic events.Topic, apply func(*spec.Spec) error) error {
	next := s.doc.Clone()
	if err := apply(next); err != nil {
		s.logger.Debug("edit rejected", "session", s.ID, "action", action, "node", nodeID, "err", err)
		return err
	}

	res, err := layout.Compile(next, s.opts)
	if err != nil {
		s.logger.Debug("edit uncompilable", "session", s.ID, "action", action, "node", nodeID, "err", err)
		return err
	}
	s.doc = next
	s.result = res

	s.hist.Push(action, map[string]any{"node": nodeID}, s.doc)
	s.bus.Publish(topic, nodeID)
	s.bus.Publish(events.TopicOperationCompleted, s.doc.Clone())
	s.logger.Debug("edit applied", "session", s.ID, "action", action, "node", nodeID)
	return nil
}

// UpdateText replaces the text of the entry a node ID refers to.
func (s *Session) UpdateText(nodeID, text string) error {
	return s.edit("node.update", nodeID, events.TopicNodeUpdated, func(d *spec.Spec) error {
		return d.UpdateText(nodeID, text)
	})
}

// AddSibling inserts a new entry after the one the node ID refers to.
func (s *Session) AddSibling(nodeID, text string) error {
	return s.edit("node.add", nodeID, events.TopicNodeAdded, func(d *spec.Spec) error {
		return d.AddSibling(nodeID, text)
	})
}

// AddChild appends a child entry under the node the ID refers to.
func (s *Session) AddChild(nodeID, text string) error {
	return s.edit("node.add", nodeID, events.TopicNodeAdded, func(d *spec.Spec) error {
		return d.AddChild(nodeID, text)
	})
}

// DeleteNode removes the entry the node ID refers to. Deleting a fixed node
// is a warning, not a mutation.
func (s *Session) DeleteNode(nodeID string) error {
	return s.edit("node.delete", nodeID, events.TopicNodeDeleted, func(d *spec.Spec) error {
		return d.Delete(nodeID)
	})
}

// MoveNode repositions a freeform node, typically from a completed drag.
func (s *Session) MoveNode(nodeID string, to geometry.Point) error {
	return s.edit("node.move", nodeID, events.TopicNodeUpdated, func(d *spec.Spec) error {
		return d.MoveNode(nodeID, to.X, to.Y)
	})
}

// ToggleOrientation flips a flow map's axis and re-derives all coordinates.
func (s *Session) ToggleOrientation() error {
	return s.edit("orientation.toggle", "", events.TopicLayoutRecalcRequest, func(d *spec.Spec) error {
		return d.ToggleOrientation()
	})
}

// =============================================================================
// Undo / Redo
// =============================================================================

// Undo restores the previous snapshot. At the boundary it returns the
// HISTORY_BOUNDARY warning and changes nothing.
func (s *Session) Undo() error {
	restored, err := s.hist.Undo()
	if err != nil {
		return err
	}
	return s.restore(restored, events.TopicUndoCompleted)
}

// Redo restores the next snapshot. At the boundary it returns the
// HISTORY_BOUNDARY warning and changes nothing.
func (s *Session) Redo() error {
	restored, err := s.hist.Redo()
	if err != nil {
		return err
	}
	return s.restore(restored, events.TopicRedoCompleted)
}

// restore swaps in a snapshot as the working document. The selection set is
// cleared: the ids it held may not exist in the restored state.
func (s *Session) restore(doc *spec.Spec, topic events.Topic) error {
	res, err := layout.Compile(doc, s.opts)
	if err != nil {
		return err
	}
	s.doc = doc
	s.result = res
	s.machine.ClearSelection()
	s.machine.SetDraggable(s.draggable())
	s.bus.Publish(topic, doc.Clone())
	return nil
}

// =============================================================================
// Viewport
// =============================================================================

// Fit frames the current layout in the available area and publishes the
// resulting window when it changed.
func (s *Session) Fit(availW, availH float64, mode viewport.Mode, animate bool) viewport.Window {
	bounds, ok := s.result.Bounds()
	if !ok {
		bounds = geometry.Rect{}
	}
	w, changed := s.view.Fit(bounds, availW, availH, mode, animate)
	if changed {
		s.bus.Publish(events.TopicViewFitted, w)
	}
	return w
}

// draggable reports whether the current document supports repositioning:
// only the freeform concept archetype and saved diagrams do.
func (s *Session) draggable() bool {
	return s.doc.IsSaved() || s.doc.Archetype == spec.ArchetypeConcept
}
