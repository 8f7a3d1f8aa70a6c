// Package layout compiles archetype-typed specifications into concrete 2D
// node/edge geometry.
//
// Compile is a pure function: identical input always yields identical output,
// including node IDs and positions, so re-renders are diffable and history
// replay is deterministic. The compiler owns no state across calls; all
// tuning comes in through [Options].
//
// # Dispatch
//
// Compilation dispatches on the specification's archetype tag. A
// specification that already carries a generic nodes/edges pair (loaded from
// saved storage) short-circuits to a pass-through loader before any
// archetype parsing. A malformed specification degrades to an empty layout
// plus a typed error; it never panics into the render loop.
package layout

import (
	"github.com/mapweaver/mapweaver/pkg/errors"
	"github.com/mapweaver/mapweaver/pkg/geometry"
	"github.com/mapweaver/mapweaver/pkg/spec"
)

// NodeType classifies a rendered shape. The type drives shape selection in
// the renderer and hover/drag affordances in the interaction layer.
type NodeType string

// Node types.
const (
	TypeTopic    NodeType = "topic"    // central or fixed anchor shapes
	TypeBubble   NodeType = "bubble"   // satellite circles
	TypeBranch   NodeType = "branch"   // inner hierarchy entries
	TypeLeaf     NodeType = "leaf"     // hierarchy leaves, steps, terms
	TypeLabel    NodeType = "label"    // free-floating text
	TypeBoundary NodeType = "boundary" // enclosing rings, never hit-tested
)

// EdgeType selects the line routing for a connection.
type EdgeType string

// Edge types.
const (
	EdgeStraight EdgeType = "straight"
	EdgeStep     EdgeType = "step"
	EdgeTree     EdgeType = "tree"
)

// Style carries the optional size hints for a shape. Circular shapes use
// Size (diameter); rectangular shapes use Width and Height.
type Style struct {
	Width  float64 `json:"width,omitempty" bson:"width,omitempty"`
	Height float64 `json:"height,omitempty" bson:"height,omitempty"`
	Size   float64 `json:"size,omitempty" bson:"size,omitempty"`
}

// Node is one rendered shape. The ID is unique within a compiled layout and
// derived deterministically from the specification path, so re-compilation
// after an edit re-associates rendered shapes with spec entries.
type Node struct {
	ID       string         `json:"id" bson:"id"`
	Text     string         `json:"text,omitempty" bson:"text,omitempty"`
	Type     NodeType       `json:"type" bson:"type"`
	Position geometry.Point `json:"position" bson:"position"`
	Style    *Style         `json:"style,omitempty" bson:"style,omitempty"`
	Data     map[string]any `json:"data,omitempty" bson:"data,omitempty"`
}

// Bounds returns the node's axis-aligned bounding box. Nodes without style
// hints get a zero-area box at their position.
func (n Node) Bounds() geometry.Rect {
	switch {
	case n.Style == nil:
		return geometry.RectAround(n.Position, 0, 0)
	case n.Style.Size > 0:
		return geometry.RectAround(n.Position, n.Style.Size, n.Style.Size)
	default:
		return geometry.RectAround(n.Position, n.Style.Width, n.Style.Height)
	}
}

// Edge is a derived connection between two shapes. Edges are never
// hand-edited; the compiler recomputes all of them on every run.
type Edge struct {
	ID           string   `json:"id" bson:"id"`
	Source       string   `json:"source" bson:"source"`
	Target       string   `json:"target" bson:"target"`
	Label        string   `json:"label,omitempty" bson:"label,omitempty"`
	SourceAnchor string   `json:"source_anchor,omitempty" bson:"source_anchor,omitempty"`
	TargetAnchor string   `json:"target_anchor,omitempty" bson:"target_anchor,omitempty"`
	Type         EdgeType `json:"edge_type,omitempty" bson:"edge_type,omitempty"`
}

// Metadata stores archetype-specific layout byproducts (ring radius,
// orientation, baseline) for the renderer and the recompute entry points.
type Metadata map[string]any

// Result is the compiler's only output.
type Result struct {
	Nodes []Node   `json:"nodes" bson:"nodes"`
	Edges []Edge   `json:"edges" bson:"edges"`
	Meta  Metadata `json:"metadata,omitempty" bson:"metadata,omitempty"`
}

// Bounds returns the union bounding box of all rendered geometry.
func (r Result) Bounds() (geometry.Rect, bool) {
	rects := make([]geometry.Rect, len(r.Nodes))
	for i, n := range r.Nodes {
		rects[i] = n.Bounds()
	}
	return geometry.BoundsOf(rects)
}

// NodeByID returns the node with the given ID, or nil.
func (r Result) NodeByID(id string) *Node {
	for i := range r.Nodes {
		if r.Nodes[i].ID == id {
			return &r.Nodes[i]
		}
	}
	return nil
}

// =============================================================================
// Options
// =============================================================================

// Default canvas dimensions. The canvas is a coordinate convention, not a
// constraint: the viewport controller fits whatever the compiler produces.
const (
	DefaultCanvasWidth  = 960.0
	DefaultCanvasHeight = 640.0
)

// Options carries the ambient sizing constants for a compile run.
type Options struct {
	CanvasWidth  float64
	CanvasHeight float64
	Sizing       geometry.Sizing
}

// DefaultOptions returns the built-in compile tuning.
func DefaultOptions() Options {
	return Options{
		CanvasWidth:  DefaultCanvasWidth,
		CanvasHeight: DefaultCanvasHeight,
		Sizing:       geometry.DefaultSizing(),
	}
}

func (o Options) center() geometry.Point {
	return geometry.Point{X: o.CanvasWidth / 2, Y: o.CanvasHeight / 2}
}

// =============================================================================
// Compile - Dispatch
// =============================================================================

// Compile maps a specification to node/edge geometry. A saved specification
// passes through unchanged; otherwise dispatch is by archetype tag.
//
// On a malformed specification Compile returns an empty Result together with
// the validation error, so the editor degrades to a blank canvas instead of
// crashing.
func Compile(s *spec.Spec, opts Options) (Result, error) {
	if err := s.Validate(); err != nil {
		return Result{}, err
	}

	if s.IsSaved() {
		return loadSaved(s), nil
	}

	switch s.Archetype {
	case spec.ArchetypeCircle:
		return compileCircle(s.Circle, opts), nil
	case spec.ArchetypeBubble:
		return compileBubble(s.Bubble, opts), nil
	case spec.ArchetypeDoubleBubble:
		return compileDoubleBubble(s.DoubleBubble, opts), nil
	case spec.ArchetypeTree:
		return compileTree(s.Tree, opts), nil
	case spec.ArchetypeBrace:
		return compileBrace(s.Brace, opts), nil
	case spec.ArchetypeFlow:
		return compileFlow(s.Flow, opts), nil
	case spec.ArchetypeMultiFlow:
		return compileMultiFlow(s.MultiFlow, opts), nil
	case spec.ArchetypeBridge:
		return compileBridge(s.Bridge, opts), nil
	case spec.ArchetypeMindMap:
		return compileMindMap(s.MindMap, opts), nil
	case spec.ArchetypeConcept:
		return compileConcept(s.Concept, opts)
	}

	return Result{}, errors.New(errors.ErrCodeUnknownArchetype, "no compiler for archetype %q", s.Archetype)
}

// loadSaved is the pass-through loader for previously saved diagrams: the
// stored geometry is trusted as-is.
func loadSaved(s *spec.Spec) Result {
	out := Result{
		Nodes: make([]Node, len(s.Nodes)),
		Edges: make([]Edge, len(s.Edges)),
		Meta:  Metadata{"source": "saved"},
	}
	for i, n := range s.Nodes {
		node := Node{
			ID:       n.ID,
			Text:     n.Text,
			Type:     NodeType(n.Type),
			Position: geometry.Point{X: n.X, Y: n.Y},
		}
		if node.Type == "" {
			node.Type = TypeBubble
		}
		if n.Width > 0 || n.Height > 0 {
			node.Style = &Style{Width: n.Width, Height: n.Height}
		}
		out.Nodes[i] = node
	}
	for i, e := range s.Edges {
		out.Edges[i] = Edge{ID: e.ID, Source: e.Source, Target: e.Target, Label: e.Label, Type: EdgeStraight}
	}
	return out
}
