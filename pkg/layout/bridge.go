package layout

import (
	"fmt"

	"github.com/mapweaver/mapweaver/pkg/geometry"
	"github.com/mapweaver/mapweaver/pkg/spec"
)

// Bridge layout constants.
const (
	pairPitch   = 170.0 // horizontal distance between adjacent pair centers
	termGap     = 55.0  // vertical distance from the baseline to each term
	relationGap = 110.0 // clearance between the relating factor and the first pair
)

// compileBridge lays out an analogy bridge: pairs along the horizontal axis,
// each contributing an upper and lower term close to a shared baseline. A
// relation edge connects the terms within a pair; bridge edges connect
// same-row terms across adjacent pairs.
func compileBridge(b *spec.BridgeMap, opts Options) Result {
	baseline := opts.CanvasHeight / 2
	startX := opts.CanvasWidth * 0.22

	var nodes []Node
	var edges []Edge

	if b.Relation != "" {
		nodes = append(nodes, Node{
			ID:       spec.IDRelation,
			Text:     b.Relation,
			Type:     TypeLabel,
			Position: geometry.Point{X: startX - relationGap, Y: baseline},
			Style:    &Style{Width: opts.Sizing.BoxWidth(b.Relation), Height: opts.Sizing.BoxHeight},
		})
	}

	boxH := opts.Sizing.BoxHeight
	for i, pair := range b.Pairs {
		x := startX + float64(i)*pairPitch
		upperID := spec.UpperID(i)
		lowerID := spec.LowerID(i)

		nodes = append(nodes,
			Node{
				ID:       upperID,
				Text:     pair.Upper,
				Type:     TypeLeaf,
				Position: geometry.Point{X: x, Y: baseline - termGap},
				Style:    &Style{Width: opts.Sizing.BoxWidth(pair.Upper), Height: boxH},
			},
			Node{
				ID:       lowerID,
				Text:     pair.Lower,
				Type:     TypeLeaf,
				Position: geometry.Point{X: x, Y: baseline + termGap},
				Style:    &Style{Width: opts.Sizing.BoxWidth(pair.Lower), Height: boxH},
			},
		)

		// Relation edge within the pair.
		edges = append(edges, Edge{
			ID:     fmt.Sprintf("edge-pair-%d", i),
			Source: upperID,
			Target: lowerID,
			Type:   EdgeStraight,
		})

		// Bridge edges to the previous pair, row for row.
		if i > 0 {
			edges = append(edges,
				Edge{
					ID:     fmt.Sprintf("edge-bridge-upper-%d", i-1),
					Source: spec.UpperID(i - 1),
					Target: upperID,
					Type:   EdgeStep,
				},
				Edge{
					ID:     fmt.Sprintf("edge-bridge-lower-%d", i-1),
					Source: spec.LowerID(i - 1),
					Target: lowerID,
					Type:   EdgeStep,
				},
			)
		}
	}

	return Result{
		Nodes: nodes,
		Edges: edges,
		Meta: Metadata{
			"archetype":  string(spec.ArchetypeBridge),
			"baseline_y": baseline,
		},
	}
}
