package interact

import (
	"github.com/mapweaver/mapweaver/pkg/geometry"
)

// Shape is one hit-testable rendered shape as the render target sees it.
type Shape struct {
	NodeID string
	Bounds geometry.Rect
}

// EdgeEnd is one endpoint of a rendered edge, used for lock-step edge
// tracking during drags.
type EdgeEnd struct {
	EdgeID string
	End    string // "source" or "target"
	At     geometry.Point
}

// Edge endpoint names.
const (
	EndSource = "source"
	EndTarget = "target"
)

// RenderTarget is the machine's only view of the rendering backend. Any 2D
// backend that can look up shapes by node ID, resolve the text attached to a
// shape, and move things satisfies it; the machine never touches a concrete
// rendering library.
type RenderTarget interface {
	// ShapeByNodeID resolves a node ID to its rendered shape.
	ShapeByNodeID(nodeID string) (Shape, bool)

	// AssociatedText returns the editable text attached to a shape.
	AssociatedText(nodeID string) (string, bool)

	// EdgeEnds lists the current endpoint positions of every rendered
	// edge.
	EdgeEnds() []EdgeEnd

	// MoveShape repositions a shape's center.
	MoveShape(nodeID string, to geometry.Point)

	// MoveEdgeEnd repositions one endpoint of an edge.
	MoveEdgeEnd(edgeID, end string, to geometry.Point)
}
