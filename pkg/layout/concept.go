package layout

import (
	"fmt"

	"github.com/mapweaver/mapweaver/pkg/errors"
	"github.com/mapweaver/mapweaver/pkg/geometry"
	"github.com/mapweaver/mapweaver/pkg/layout/hier"
	"github.com/mapweaver/mapweaver/pkg/spec"
)

// conceptBlockGap is the clearance between author-placed geometry and the
// automatically positioned block of unplaced nodes.
const conceptBlockGap = 80.0

// compileConcept lays out a freeform concept map. Author-positioned nodes
// keep their coordinates untouched; nodes the author has not placed yet are
// arranged with the Graphviz engine and parked as a block beside the placed
// region. Links compile to labeled straight edges either way.
func compileConcept(c *spec.ConceptMap, opts Options) (Result, error) {
	nodes := make([]Node, 0, len(c.Nodes))
	positions := make(map[string]geometry.Point, len(c.Nodes))

	var unplaced []hier.Node
	var placedRects []geometry.Rect
	for _, cn := range c.Nodes {
		w, h := opts.Sizing.Box(cn.Text)
		if cn.Placed {
			positions[cn.ID] = geometry.Point{X: cn.X, Y: cn.Y}
			placedRects = append(placedRects, geometry.RectAround(positions[cn.ID], w, h))
			continue
		}
		unplaced = append(unplaced, hier.Node{ID: cn.ID, Width: w, Height: h})
	}

	if len(unplaced) > 0 {
		if err := positionUnplaced(c, unplaced, placedRects, opts, positions); err != nil {
			return Result{}, err
		}
	}

	for _, cn := range c.Nodes {
		w, h := opts.Sizing.Box(cn.Text)
		nodes = append(nodes, Node{
			ID:       cn.ID,
			Text:     cn.Text,
			Type:     TypeBubble,
			Position: positions[cn.ID],
			Style:    &Style{Width: w, Height: h},
		})
	}

	edges := make([]Edge, 0, len(c.Links))
	for _, l := range c.Links {
		edges = append(edges, Edge{
			ID:     fmt.Sprintf("edge-%s-%s", l.From, l.To),
			Source: l.From,
			Target: l.To,
			Label:  l.Label,
			Type:   EdgeStraight,
		})
	}

	return Result{
		Nodes: nodes,
		Edges: edges,
		Meta:  Metadata{"archetype": string(spec.ArchetypeConcept)},
	}, nil
}

// positionUnplaced runs the Graphviz engine over the unplaced subgraph and
// writes the resulting coordinates into positions. Links that touch a placed
// node do not constrain the engine; they render fine wherever the block
// lands.
func positionUnplaced(c *spec.ConceptMap, unplaced []hier.Node, placedRects []geometry.Rect, opts Options, positions map[string]geometry.Point) error {
	members := make(map[string]bool, len(unplaced))
	for _, n := range unplaced {
		members[n.ID] = true
	}

	g := hier.Graph{Nodes: unplaced}
	for _, l := range c.Links {
		if members[l.From] && members[l.To] {
			g.Edges = append(g.Edges, hier.Edge{From: l.From, To: l.To})
		}
	}

	block, err := hier.PositionGraph(g)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidLayout, err, "position concept nodes")
	}

	// Block extent, for centering or parking.
	rects := make([]geometry.Rect, 0, len(unplaced))
	for _, n := range unplaced {
		rects = append(rects, geometry.RectAround(block[n.ID], n.Width, n.Height))
	}
	extent, _ := geometry.BoundsOf(rects)

	var dx, dy float64
	if placed, ok := geometry.BoundsOf(placedRects); ok {
		// Park the block to the right of the placed region, vertically
		// aligned with its center.
		dx = placed.MaxX + conceptBlockGap - extent.MinX
		dy = placed.CenterY() - extent.CenterY()
	} else {
		dx = opts.center().X - extent.CenterX()
		dy = opts.center().Y - extent.CenterY()
	}

	for _, n := range unplaced {
		p := block[n.ID]
		positions[n.ID] = geometry.Point{X: p.X + dx, Y: p.Y + dy}
	}
	return nil
}
