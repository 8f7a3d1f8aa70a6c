package layout

import (
	"fmt"

	"github.com/mapweaver/mapweaver/pkg/geometry"
	"github.com/mapweaver/mapweaver/pkg/spec"
)

// Double bubble layout constants.
const (
	columnGap = 70.0 // horizontal clearance between adjacent columns
	rowGap    = 24.0 // vertical clearance between rows in a column
)

// compileDoubleBubble lays out the paired-comparison map as five columns,
// left to right: left differences, left topic, similarities, right topic,
// right differences. Difference rows are paired: row i of both difference
// columns sits at the same Y offset even when the counts differ, using the
// larger count for the shared row spacing. An empty side contributes zero
// rows without shifting the populated side's baseline.
func compileDoubleBubble(d *spec.DoubleBubbleMap, opts Options) Result {
	center := opts.center()

	// Uniform satellite size per column family keeps rows readable.
	satD := opts.Sizing.MinDiameter
	for _, text := range d.Similarities {
		if v := opts.Sizing.Diameter(text); v > satD {
			satD = v
		}
	}
	for _, text := range d.DifferencesLeft {
		if v := opts.Sizing.Diameter(text); v > satD {
			satD = v
		}
	}
	for _, text := range d.DifferencesRight {
		if v := opts.Sizing.Diameter(text); v > satD {
			satD = v
		}
	}

	topicLeftD := opts.Sizing.Diameter(d.TopicLeft)
	topicRightD := opts.Sizing.Diameter(d.TopicRight)

	// Column X positions accumulate left to right from the canvas center.
	colWidths := []float64{satD, topicLeftD, satD, topicRightD, satD}
	total := 0.0
	for _, w := range colWidths {
		total += w
	}
	total += columnGap * float64(len(colWidths)-1)

	colX := make([]float64, len(colWidths))
	x := center.X - total/2
	for i, w := range colWidths {
		colX[i] = x + w/2
		x += w + columnGap
	}

	// Shared row spacing. Difference columns pair row-for-row on the max
	// count; similarities stack on their own count.
	diffRows := max(len(d.DifferencesLeft), len(d.DifferencesRight))
	rowSpacing := satD + rowGap
	rowY := func(i, rows int) float64 {
		return center.Y + (float64(i)-float64(rows-1)/2)*rowSpacing
	}

	var nodes []Node
	var edges []Edge

	nodes = append(nodes,
		Node{
			ID:       spec.IDTopicLeft,
			Text:     d.TopicLeft,
			Type:     TypeTopic,
			Position: geometry.Point{X: colX[1], Y: center.Y},
			Style:    &Style{Size: topicLeftD},
		},
		Node{
			ID:       spec.IDTopicRight,
			Text:     d.TopicRight,
			Type:     TypeTopic,
			Position: geometry.Point{X: colX[3], Y: center.Y},
			Style:    &Style{Size: topicRightD},
		},
	)

	// Similarities connect to both topics.
	for i, text := range d.Similarities {
		id := spec.SimilarityID(i)
		nodes = append(nodes, Node{
			ID:       id,
			Text:     text,
			Type:     TypeBubble,
			Position: geometry.Point{X: colX[2], Y: rowY(i, len(d.Similarities))},
			Style:    &Style{Size: satD},
		})
		edges = append(edges,
			Edge{
				ID:     fmt.Sprintf("edge-similarity-%d-left", i),
				Source: spec.IDTopicLeft,
				Target: id,
				Type:   EdgeStraight,
			},
			Edge{
				ID:     fmt.Sprintf("edge-similarity-%d-right", i),
				Source: spec.IDTopicRight,
				Target: id,
				Type:   EdgeStraight,
			},
		)
	}

	// Paired difference columns: identical Y per row index on both sides.
	for i, text := range d.DifferencesLeft {
		id := spec.DiffLeftID(i)
		nodes = append(nodes, Node{
			ID:       id,
			Text:     text,
			Type:     TypeBubble,
			Position: geometry.Point{X: colX[0], Y: rowY(i, diffRows)},
			Style:    &Style{Size: satD},
		})
		edges = append(edges, Edge{
			ID:     fmt.Sprintf("edge-diff-left-%d", i),
			Source: spec.IDTopicLeft,
			Target: id,
			Type:   EdgeStraight,
		})
	}
	for i, text := range d.DifferencesRight {
		id := spec.DiffRightID(i)
		nodes = append(nodes, Node{
			ID:       id,
			Text:     text,
			Type:     TypeBubble,
			Position: geometry.Point{X: colX[4], Y: rowY(i, diffRows)},
			Style:    &Style{Size: satD},
		})
		edges = append(edges, Edge{
			ID:     fmt.Sprintf("edge-diff-right-%d", i),
			Source: spec.IDTopicRight,
			Target: id,
			Type:   EdgeStraight,
		})
	}

	return Result{
		Nodes: nodes,
		Edges: edges,
		Meta: Metadata{
			"archetype":   string(spec.ArchetypeDoubleBubble),
			"diff_rows":   diffRows,
			"row_spacing": rowSpacing,
		},
	}
}
