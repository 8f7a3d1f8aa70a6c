package layout

import (
	"fmt"

	"github.com/mapweaver/mapweaver/pkg/geometry"
	"github.com/mapweaver/mapweaver/pkg/spec"
)

// Radial layout constants.
const (
	radialGap      = 60.0 // minimum clearance between topic and satellite rims
	boundaryMargin = 40.0 // clearance between the outermost satellite rim and the boundary ring
)

// radialRing computes the shared placement for both radial archetypes:
// the topic at the canvas center and n satellites on a ring around it.
// The satellite diameter is uniform across the ring (the widest text wins)
// so the circumferential overlap rule has a single radius to work with.
func radialRing(topic string, satellites []string, opts Options) (center geometry.Point, ringRadius, topicD, satD float64, positions []geometry.Point) {
	center = opts.center()
	topicD = opts.Sizing.Diameter(topic)

	satD = opts.Sizing.MinDiameter
	for _, text := range satellites {
		if d := opts.Sizing.Diameter(text); d > satD {
			satD = d
		}
	}

	radialTarget := topicD/2 + satD/2 + radialGap
	ringRadius = geometry.RingRadius(radialTarget, satD/2, len(satellites))
	positions = geometry.RingPositions(center, ringRadius, len(satellites))
	return center, ringRadius, topicD, satD, positions
}

// compileCircle lays out a circle map: topic at the center, context
// satellites on the ring, and an enclosing boundary with no edges at all.
// A compile with N context entries always yields N+2 nodes.
func compileCircle(c *spec.CircleMap, opts Options) Result {
	center, ringRadius, topicD, satD, positions := radialRing(c.Topic, c.Context, opts)
	boundaryRadius := ringRadius + satD/2 + boundaryMargin

	nodes := make([]Node, 0, len(c.Context)+2)
	nodes = append(nodes,
		Node{
			ID:       spec.IDTopic,
			Text:     c.Topic,
			Type:     TypeTopic,
			Position: center,
			Style:    &Style{Size: topicD},
		},
		Node{
			ID:       spec.IDBoundary,
			Type:     TypeBoundary,
			Position: center,
			Style:    &Style{Size: boundaryRadius * 2},
		},
	)
	for i, text := range c.Context {
		nodes = append(nodes, Node{
			ID:       spec.ContextID(i),
			Text:     text,
			Type:     TypeBubble,
			Position: positions[i],
			Style:    &Style{Size: satD},
		})
	}

	return Result{
		Nodes: nodes,
		Meta: Metadata{
			"archetype":       string(spec.ArchetypeCircle),
			"ring_radius":     ringRadius,
			"boundary_radius": boundaryRadius,
		},
	}
}

// compileBubble lays out a bubble map: identical ring placement, no
// boundary, plus one spoke edge per attribute back to the topic.
func compileBubble(b *spec.BubbleMap, opts Options) Result {
	center, ringRadius, topicD, satD, positions := radialRing(b.Topic, b.Attributes, opts)

	nodes := make([]Node, 0, len(b.Attributes)+1)
	nodes = append(nodes, Node{
		ID:       spec.IDTopic,
		Text:     b.Topic,
		Type:     TypeTopic,
		Position: center,
		Style:    &Style{Size: topicD},
	})

	edges := make([]Edge, 0, len(b.Attributes))
	for i, text := range b.Attributes {
		id := spec.BubbleID(i)
		nodes = append(nodes, Node{
			ID:       id,
			Text:     text,
			Type:     TypeBubble,
			Position: positions[i],
			Style:    &Style{Size: satD},
		})
		edges = append(edges, Edge{
			ID:     fmt.Sprintf("edge-topic-bubble-%d", i),
			Source: spec.IDTopic,
			Target: id,
			Type:   EdgeStraight,
		})
	}

	return Result{
		Nodes: nodes,
		Edges: edges,
		Meta: Metadata{
			"archetype":   string(spec.ArchetypeBubble),
			"ring_radius": ringRadius,
		},
	}
}
