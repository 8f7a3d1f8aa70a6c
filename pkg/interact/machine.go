// Package interact resolves raw pointer input into selection, edit, and
// drag intents.
//
// The ambiguity the machine exists to settle is click versus double-click: a
// click cannot become a selection immediately, because a second click on the
// same node within the debounce window means "open the text editor" and must
// produce zero selection transitions. The machine therefore parks the first
// click in a pending state and lets the host's timer resolve it.
//
// # Timers
//
// The machine owns no timers. Click records a deadline; the host schedules
// whatever timer mechanism it has and calls ResolvePending when the deadline
// passes. Tests drive the clock by hand. A second qualifying click before
// the deadline cancels the pending action, exactly like cancelling a timer.
package interact

import (
	"time"

	"github.com/mapweaver/mapweaver/pkg/events"
	"github.com/mapweaver/mapweaver/pkg/layout"
)

// State is the machine's disambiguation state.
type State string

// Machine states.
const (
	StateIdle               State = "idle"
	StatePendingSingleClick State = "pending-single-click"
	StateDragging           State = "dragging"
)

// Default disambiguation windows.
const (
	DefaultDebounce      = 250 * time.Millisecond
	DefaultDedupe        = 50 * time.Millisecond
	DefaultDragTolerance = 3.0
)

// Config carries the machine's tunables.
type Config struct {
	// Debounce is how long a click stays pending before it commits to a
	// selection.
	Debounce time.Duration
	// Dedupe is the window within which a repeat event for the same node
	// is treated as a duplicate handler firing, not a second click.
	Dedupe time.Duration
	// DragTolerance is the pixel radius within which an edge endpoint
	// counts as attached to a dragged shape.
	DragTolerance float64
}

// DefaultConfig returns the built-in windows.
func DefaultConfig() Config {
	return Config{
		Debounce:      DefaultDebounce,
		Dedupe:        DefaultDedupe,
		DragTolerance: DefaultDragTolerance,
	}
}

// ResolutionKind classifies what an input event resolved to.
type ResolutionKind string

// Resolution kinds.
const (
	ResolvedNothing  ResolutionKind = ""
	ResolvedSelected ResolutionKind = "selected"
	ResolvedEditor   ResolutionKind = "open-editor"
)

// Resolution is the outcome of a click or a pending-click expiry.
type Resolution struct {
	Kind   ResolutionKind
	NodeID string
	Text   string // current text, for editor resolutions
}

type pendingClick struct {
	nodeID   string
	toggle   bool
	deadline time.Time
}

// Machine is the interaction state machine. It owns the selection set and
// nothing else; geometry stays with the render target, the document with the
// session. Not safe for concurrent use; the editor core is single-threaded.
type Machine struct {
	cfg    Config
	target RenderTarget
	bus    *events.Bus

	state     State
	pending   *pendingClick
	lastClick struct {
		nodeID string
		at     time.Time
	}

	selected map[string]bool
	order    []string

	draggable bool
	drag      *dragState
}

// New returns an idle machine. Zero-value config fields fall back to the
// defaults. The bus may be nil when no collaborator listens.
func New(cfg Config, target RenderTarget, bus *events.Bus) *Machine {
	def := DefaultConfig()
	if cfg.Debounce <= 0 {
		cfg.Debounce = def.Debounce
	}
	if cfg.Dedupe <= 0 {
		cfg.Dedupe = def.Dedupe
	}
	if cfg.DragTolerance <= 0 {
		cfg.DragTolerance = def.DragTolerance
	}
	return &Machine{
		cfg:      cfg,
		target:   target,
		bus:      bus,
		state:    StateIdle,
		selected: make(map[string]bool),
	}
}

// State returns the current disambiguation state.
func (m *Machine) State() State { return m.state }

// Deadline returns the pending click's expiry, if one is parked. Hosts use
// it to schedule the resolving timer.
func (m *Machine) Deadline() (time.Time, bool) {
	if m.pending == nil {
		return time.Time{}, false
	}
	return m.pending.deadline, true
}

// Click feeds one pointer click. An empty node ID (unresolvable target) is
// ignored. The returned resolution is non-empty only when the click settled
// something immediately: a double-click opening the editor, or a pending
// click on a different node being forced through.
func (m *Machine) Click(nodeID string, modifier bool, now time.Time) Resolution {
	if nodeID == "" || m.state == StateDragging {
		return Resolution{}
	}

	// Duplicate event from multiple attached handlers for one physical
	// click.
	if m.lastClick.nodeID == nodeID && now.Sub(m.lastClick.at) < m.cfg.Dedupe {
		return Resolution{}
	}
	m.lastClick.nodeID = nodeID
	m.lastClick.at = now

	var forced Resolution
	if m.pending != nil {
		if m.pending.nodeID == nodeID && now.Before(m.pending.deadline) {
			// Second click on the same node: cancel the selection and
			// open the editor instead.
			m.pending = nil
			m.state = StateIdle
			return m.openEditor(nodeID)
		}
		// A different node arrived; the first click commits now and the
		// new one starts its own window.
		forced = m.commitPending()
	}

	m.pending = &pendingClick{
		nodeID:   nodeID,
		toggle:   modifier,
		deadline: now.Add(m.cfg.Debounce),
	}
	m.state = StatePendingSingleClick
	return forced
}

// ResolvePending fires the parked click once its deadline has passed.
// Before the deadline it does nothing, so a stale timer callback after a
// double-click cancellation is harmless.
func (m *Machine) ResolvePending(now time.Time) Resolution {
	if m.pending == nil || now.Before(m.pending.deadline) {
		return Resolution{}
	}
	return m.commitPending()
}

func (m *Machine) commitPending() Resolution {
	p := m.pending
	m.pending = nil
	m.state = StateIdle

	if p.toggle {
		m.toggle(p.nodeID)
	} else {
		m.replace(p.nodeID)
	}
	m.publish(events.TopicSelectionChanged, m.Selection())
	return Resolution{Kind: ResolvedSelected, NodeID: p.nodeID}
}

func (m *Machine) openEditor(nodeID string) Resolution {
	var text string
	if m.target != nil {
		text, _ = m.target.AssociatedText(nodeID)
	}
	return Resolution{Kind: ResolvedEditor, NodeID: nodeID, Text: text}
}

// =============================================================================
// Selection Set
// =============================================================================

// Selection returns the selected node IDs in selection order.
func (m *Machine) Selection() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// ClearSelection empties the selection set, as required when the
// specification is replaced.
func (m *Machine) ClearSelection() {
	if len(m.order) == 0 {
		return
	}
	m.selected = make(map[string]bool)
	m.order = nil
	m.publish(events.TopicSelectionChanged, m.Selection())
}

func (m *Machine) replace(nodeID string) {
	m.selected = map[string]bool{nodeID: true}
	m.order = []string{nodeID}
}

func (m *Machine) toggle(nodeID string) {
	if m.selected[nodeID] {
		delete(m.selected, nodeID)
		for i, id := range m.order {
			if id == nodeID {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
		return
	}
	m.selected[nodeID] = true
	m.order = append(m.order, nodeID)
}

// =============================================================================
// Hover
// =============================================================================

// HoverAllowed reports whether the hover dimming affordance applies to a
// node type. Hub shapes keep full opacity so their connecting edges stay
// readable, and boundaries are never hit-tested at all.
func (m *Machine) HoverAllowed(t layout.NodeType) bool {
	switch t {
	case layout.TypeTopic, layout.TypeBoundary:
		return false
	}
	return true
}

func (m *Machine) publish(topic events.Topic, payload any) {
	if m.bus != nil {
		m.bus.Publish(topic, payload)
	}
}
