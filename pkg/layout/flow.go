package layout

import (
	"fmt"

	"github.com/mapweaver/mapweaver/pkg/geometry"
	"github.com/mapweaver/mapweaver/pkg/spec"
)

// Flow layout constants.
const (
	stepGap       = 50.0 // clearance between consecutive steps on the main axis
	substepOffset = 60.0 // clearance between a step and its first substep
	substepGap    = 18.0 // clearance between stacked substeps
	titleGap      = 70.0 // clearance between the title and the first step
)

// compileFlow lays out a sequence of steps along one axis at fixed spacing.
// Substeps stack perpendicular to the main axis: to the right of their step
// in vertical orientation, below it in horizontal. Toggling the orientation
// fully re-derives every coordinate.
func compileFlow(f *spec.FlowMap, opts Options) Result {
	horizontal := f.Orientation == spec.OrientationHorizontal

	stepW := opts.Sizing.MinWidth
	for _, s := range f.Steps {
		if w := opts.Sizing.BoxWidth(s.Text); w > stepW {
			stepW = w
		}
	}
	stepH := opts.Sizing.BoxHeight

	// Main-axis pitch between step centers.
	pitch := stepH + stepGap
	if horizontal {
		pitch = stepW + stepGap
	}

	origin := geometry.Point{X: opts.CanvasWidth * 0.32, Y: opts.CanvasHeight * 0.2}
	if horizontal {
		origin = geometry.Point{X: opts.CanvasWidth * 0.15, Y: opts.CanvasHeight * 0.4}
	}

	var nodes []Node
	var edges []Edge

	if f.Title != "" {
		titlePos := geometry.Point{X: origin.X, Y: origin.Y - titleGap}
		nodes = append(nodes, Node{
			ID:       spec.IDTitle,
			Text:     f.Title,
			Type:     TypeLabel,
			Position: titlePos,
			Style:    &Style{Width: opts.Sizing.BoxWidth(f.Title), Height: stepH},
		})
	}

	for i, s := range f.Steps {
		pos := geometry.Point{X: origin.X, Y: origin.Y + float64(i)*pitch}
		if horizontal {
			pos = geometry.Point{X: origin.X + float64(i)*pitch, Y: origin.Y}
		}
		stepID := spec.StepID(i)
		nodes = append(nodes, Node{
			ID:       stepID,
			Text:     s.Text,
			Type:     TypeLeaf,
			Position: pos,
			Style:    &Style{Width: stepW, Height: stepH},
		})

		if i > 0 {
			edges = append(edges, Edge{
				ID:     fmt.Sprintf("edge-step-%d-%d", i-1, i),
				Source: spec.StepID(i - 1),
				Target: stepID,
				Type:   EdgeStep,
			})
		}

		// Substeps stack on the perpendicular axis at a fixed interval.
		for j, sub := range s.Substeps {
			subW := opts.Sizing.BoxWidth(sub)
			subPos := geometry.Point{
				X: pos.X + stepW/2 + substepOffset + subW/2,
				Y: pos.Y + float64(j)*(stepH+substepGap),
			}
			if horizontal {
				subPos = geometry.Point{
					X: pos.X,
					Y: pos.Y + stepH/2 + substepOffset + stepH/2 + float64(j)*(stepH+substepGap),
				}
			}
			subID := spec.SubstepID(i, j)
			nodes = append(nodes, Node{
				ID:       subID,
				Text:     sub,
				Type:     TypeLeaf,
				Position: subPos,
				Style:    &Style{Width: subW, Height: stepH},
			})
			edges = append(edges, Edge{
				ID:     fmt.Sprintf("edge-step-%d-substep-%d", i, j),
				Source: stepID,
				Target: subID,
				Type:   EdgeStraight,
			})
		}
	}

	orientation := spec.OrientationVertical
	if horizontal {
		orientation = spec.OrientationHorizontal
	}

	return Result{
		Nodes: nodes,
		Edges: edges,
		Meta: Metadata{
			"archetype":   string(spec.ArchetypeFlow),
			"orientation": string(orientation),
		},
	}
}

// Multi-flow layout constants.
const (
	multiFlowColumnGap = 180.0 // clearance between the event and each side column
	multiFlowRowGap    = 30.0  // vertical clearance between stacked causes/effects
)

// compileMultiFlow lays out a cause/effect map: the event at the center,
// causes stacked on the left, effects on the right. Each edge carries a
// slot-specific anchor handle (left-{i}, right-{i}) so parallel edges never
// collide at the event node.
func compileMultiFlow(m *spec.MultiFlowMap, opts Options) Result {
	center := opts.center()

	eventW := opts.Sizing.BoxWidth(m.Event)
	boxH := opts.Sizing.BoxHeight

	sideW := opts.Sizing.MinWidth
	for _, text := range m.Causes {
		if w := opts.Sizing.BoxWidth(text); w > sideW {
			sideW = w
		}
	}
	for _, text := range m.Effects {
		if w := opts.Sizing.BoxWidth(text); w > sideW {
			sideW = w
		}
	}

	rowPitch := boxH + multiFlowRowGap
	colY := func(i, rows int) float64 {
		return center.Y + (float64(i)-float64(rows-1)/2)*rowPitch
	}

	nodes := []Node{{
		ID:       spec.IDEvent,
		Text:     m.Event,
		Type:     TypeTopic,
		Position: center,
		Style:    &Style{Width: eventW, Height: boxH},
	}}
	var edges []Edge

	for i, text := range m.Causes {
		id := spec.CauseID(i)
		nodes = append(nodes, Node{
			ID:       id,
			Text:     text,
			Type:     TypeLeaf,
			Position: geometry.Point{X: center.X - multiFlowColumnGap - sideW/2, Y: colY(i, len(m.Causes))},
			Style:    &Style{Width: sideW, Height: boxH},
		})
		edges = append(edges, Edge{
			ID:           fmt.Sprintf("edge-cause-%d", i),
			Source:       id,
			Target:       spec.IDEvent,
			TargetAnchor: fmt.Sprintf("left-%d", i),
			Type:         EdgeStraight,
		})
	}

	for i, text := range m.Effects {
		id := spec.EffectID(i)
		nodes = append(nodes, Node{
			ID:       id,
			Text:     text,
			Type:     TypeLeaf,
			Position: geometry.Point{X: center.X + multiFlowColumnGap + sideW/2, Y: colY(i, len(m.Effects))},
			Style:    &Style{Width: sideW, Height: boxH},
		})
		edges = append(edges, Edge{
			ID:           fmt.Sprintf("edge-effect-%d", i),
			Source:       spec.IDEvent,
			Target:       id,
			SourceAnchor: fmt.Sprintf("right-%d", i),
			Type:         EdgeStraight,
		})
	}

	return Result{
		Nodes: nodes,
		Edges: edges,
		Meta:  Metadata{"archetype": string(spec.ArchetypeMultiFlow)},
	}
}
