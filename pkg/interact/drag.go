package interact

import (
	"github.com/mapweaver/mapweaver/pkg/events"
	"github.com/mapweaver/mapweaver/pkg/geometry"
)

// Drag-to-reposition is enabled only for the freeform archetype; every
// fixed-layout archetype presents shapes as non-draggable. While a drag is
// live, edges whose endpoint coincided with the shape's pre-drag position
// follow the shape in lock-step, and the drag's end hands the final position
// back to the session for a specification mutation plus history snapshot.

type trackedEnd struct {
	edgeID string
	end    string
	offset geometry.Point // endpoint position relative to the shape center
}

type dragState struct {
	nodeID  string
	origin  geometry.Point // shape center before the drag
	tracked []trackedEnd
}

// DragResult is what a completed drag hands back to the session.
type DragResult struct {
	NodeID string
	From   geometry.Point
	To     geometry.Point
}

// SetDraggable switches drag support on or off. The session flips it when
// the archetype changes; only the freeform concept archetype enables it.
func (m *Machine) SetDraggable(enabled bool) {
	m.draggable = enabled
}

// Draggable reports whether drags are currently enabled.
func (m *Machine) Draggable() bool { return m.draggable }

// DragStart begins dragging a shape. It fails quietly when drags are
// disabled, the machine is mid-disambiguation on another node, or the shape
// cannot be resolved.
func (m *Machine) DragStart(nodeID string) bool {
	if !m.draggable || m.state == StateDragging || nodeID == "" || m.target == nil {
		return false
	}
	shape, ok := m.target.ShapeByNodeID(nodeID)
	if !ok {
		return false
	}

	// A drag supersedes a parked click on the same shape.
	if m.pending != nil && m.pending.nodeID == nodeID {
		m.pending = nil
	}

	origin := shape.Bounds.Center()
	st := &dragState{nodeID: nodeID, origin: origin}

	// Edges touching the pre-drag position follow the shape. Zero matches
	// is fine; isolated shapes are legal.
	for _, e := range m.target.EdgeEnds() {
		if geometry.Distance(e.At, origin) <= m.cfg.DragTolerance {
			st.tracked = append(st.tracked, trackedEnd{
				edgeID: e.EdgeID,
				end:    e.End,
				offset: geometry.Point{X: e.At.X - origin.X, Y: e.At.Y - origin.Y},
			})
		}
	}

	m.drag = st
	m.state = StateDragging
	return true
}

// DragMove repositions the dragged shape and its tracked edge endpoints.
func (m *Machine) DragMove(to geometry.Point) {
	if m.drag == nil {
		return
	}
	m.applyDrag(m.drag, to)
}

// DragEnd completes the drag, clears the tracked-edge list, and returns the
// result for the session to fold into the specification and history.
func (m *Machine) DragEnd(to geometry.Point) (DragResult, bool) {
	if m.drag == nil {
		return DragResult{}, false
	}
	st := m.drag
	m.drag = nil
	m.state = StateIdle

	m.applyDrag(st, to)

	res := DragResult{NodeID: st.nodeID, From: st.origin, To: to}
	m.publish(events.TopicNodeUpdated, res)
	return res, true
}

func (m *Machine) applyDrag(st *dragState, to geometry.Point) {
	m.target.MoveShape(st.nodeID, to)
	for _, t := range st.tracked {
		m.target.MoveEdgeEnd(t.edgeID, t.end, geometry.Point{X: to.X + t.offset.X, Y: to.Y + t.offset.Y})
	}
}
