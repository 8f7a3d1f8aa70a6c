// Package hier implements the layered hierarchical placement used by the
// tree-shaped archetypes (tree map, brace map, mind map sides).
//
// The algorithm works in three passes:
//
//  1. Rank assignment: a longest-path layering via topological sort (Kahn's
//     algorithm). Source nodes sit at rank 0; every node is pushed one rank
//     past its deepest parent.
//  2. Ordering: a depth-first traversal from the sources in insertion order.
//     For trees this preserves the specification's reading order and
//     produces zero crossings.
//  3. Coordinates: ranks map to the main axis at a fixed pitch; the cross
//     axis is assigned bottom-up, leaves placed sequentially and parents
//     centered over the span of their children.
//
// Positions are returned with the first source at main-axis zero and the
// forest centered on cross-axis zero; callers translate the whole subtree so
// their designated anchor lines up with a fixed position.
package hier

import (
	"github.com/mapweaver/mapweaver/pkg/geometry"
)

// Direction is the rank direction of the layout.
type Direction int

// Rank directions.
const (
	TopToBottom Direction = iota
	LeftToRight
	RightToLeft
)

// Node is a shape to be placed. Width and Height feed cross-axis spacing.
type Node struct {
	ID     string
	Width  float64
	Height float64
}

// Edge is a parent→child relation.
type Edge struct {
	From string
	To   string
}

// Graph is the input forest. Node order fixes the traversal order, so two
// calls with the same graph always produce the same positions.
type Graph struct {
	Nodes []Node
	Edges []Edge
}

// Options tunes the placement pitch.
type Options struct {
	RankSep float64 // clearance between consecutive ranks on the main axis
	NodeSep float64 // clearance between adjacent nodes on the cross axis
}

// DefaultOptions returns the built-in pitch.
func DefaultOptions() Options {
	return Options{RankSep: 70, NodeSep: 26}
}

// Layout assigns a position to every node. The returned map has one entry
// per input node; unknown edge endpoints are ignored.
func Layout(g Graph, dir Direction, opts Options) map[string]geometry.Point {
	if len(g.Nodes) == 0 {
		return map[string]geometry.Point{}
	}

	index := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		index[n.ID] = i
	}

	children := make(map[string][]string, len(g.Nodes))
	inDegree := make(map[string]int, len(g.Nodes))
	for _, e := range g.Edges {
		if _, ok := index[e.From]; !ok {
			continue
		}
		if _, ok := index[e.To]; !ok {
			continue
		}
		children[e.From] = append(children[e.From], e.To)
		inDegree[e.To]++
	}

	ranks := assignRanks(g, children, inDegree)
	cross := assignCross(g, children, inDegree, dir, opts)

	// Rank pitch uses the largest main-axis extent in the forest so ranks
	// never overlap regardless of node sizes.
	mainExtent := 0.0
	for _, n := range g.Nodes {
		if e := mainSize(n, dir); e > mainExtent {
			mainExtent = e
		}
	}
	pitch := mainExtent + opts.RankSep

	out := make(map[string]geometry.Point, len(g.Nodes))
	for _, n := range g.Nodes {
		main := float64(ranks[n.ID]) * pitch
		switch dir {
		case TopToBottom:
			out[n.ID] = geometry.Point{X: cross[n.ID], Y: main}
		case LeftToRight:
			out[n.ID] = geometry.Point{X: main, Y: cross[n.ID]}
		case RightToLeft:
			out[n.ID] = geometry.Point{X: -main, Y: cross[n.ID]}
		}
	}
	return out
}

// assignRanks runs the longest-path layering. Nodes trapped in cycles keep
// rank 0; the archetype compilers only feed forests, so that case is
// unreachable in practice.
func assignRanks(g Graph, children map[string][]string, inDegree map[string]int) map[string]int {
	ranks := make(map[string]int, len(g.Nodes))
	remaining := make(map[string]int, len(g.Nodes))

	var queue []string
	for _, n := range g.Nodes {
		remaining[n.ID] = inDegree[n.ID]
		if inDegree[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range children[curr] {
			if r := ranks[curr] + 1; r > ranks[child] {
				ranks[child] = r
			}
			remaining[child]--
			if remaining[child] == 0 {
				queue = append(queue, child)
			}
		}
	}
	return ranks
}

// assignCross computes cross-axis centers. Leaves are placed sequentially in
// depth-first order; each parent is centered on the midpoint of its first
// and last child. The whole forest is then shifted so it is centered on
// zero.
func assignCross(g Graph, children map[string][]string, inDegree map[string]int, dir Direction, opts Options) map[string]float64 {
	cross := make(map[string]float64, len(g.Nodes))
	sizes := make(map[string]float64, len(g.Nodes))
	for _, n := range g.Nodes {
		sizes[n.ID] = crossSize(n, dir)
	}

	cursor := 0.0
	visited := make(map[string]bool, len(g.Nodes))

	var place func(id string)
	place = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true

		kids := children[id]
		if len(kids) == 0 {
			cross[id] = cursor + sizes[id]/2
			cursor += sizes[id] + opts.NodeSep
			return
		}
		for _, kid := range kids {
			place(kid)
		}
		first, last := cross[kids[0]], cross[kids[len(kids)-1]]
		cross[id] = (first + last) / 2
	}

	lo, hi := 0.0, 0.0
	started := false
	for _, n := range g.Nodes {
		if inDegree[n.ID] == 0 {
			place(n.ID)
		}
	}
	// Nodes unreachable from any source (cycle members) still get a slot.
	for _, n := range g.Nodes {
		place(n.ID)
	}

	for _, n := range g.Nodes {
		min := cross[n.ID] - sizes[n.ID]/2
		max := cross[n.ID] + sizes[n.ID]/2
		if !started {
			lo, hi = min, max
			started = true
			continue
		}
		if min < lo {
			lo = min
		}
		if max > hi {
			hi = max
		}
	}

	shift := (lo + hi) / 2
	for id := range cross {
		cross[id] -= shift
	}
	return cross
}

func crossSize(n Node, dir Direction) float64 {
	if dir == TopToBottom {
		return n.Width
	}
	return n.Height
}

func mainSize(n Node, dir Direction) float64 {
	if dir == TopToBottom {
		return n.Height
	}
	return n.Width
}
