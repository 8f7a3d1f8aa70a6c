package layout

import (
	"fmt"

	"github.com/mapweaver/mapweaver/pkg/geometry"
	"github.com/mapweaver/mapweaver/pkg/layout/hier"
	"github.com/mapweaver/mapweaver/pkg/spec"
)

// Hierarchical layout constants.
const (
	treeTopMargin   = 90.0 // canvas Y of the tree root's center
	braceLeftMargin = 60.0 // clearance between the canvas edge and the whole box
)

// hierBuild accumulates the layered graph for a tree-shaped archetype
// together with the per-node text, which the ID alone does not carry.
type hierBuild struct {
	g      hier.Graph
	text   map[string]string
	sizing geometry.Sizing
}

func newHierBuild(sizing geometry.Sizing) *hierBuild {
	return &hierBuild{text: make(map[string]string), sizing: sizing}
}

func (b *hierBuild) add(id, text string) (w, h float64) {
	w, h = b.sizing.Box(text)
	b.g.Nodes = append(b.g.Nodes, hier.Node{ID: id, Width: w, Height: h})
	b.text[id] = text
	return w, h
}

func (b *hierBuild) connect(from, to string) {
	b.g.Edges = append(b.g.Edges, hier.Edge{From: from, To: to})
}

// hasChildren reports which node IDs have outgoing edges.
func (b *hierBuild) hasChildren() map[string]bool {
	out := make(map[string]bool, len(b.g.Edges))
	for _, e := range b.g.Edges {
		out[e.From] = true
	}
	return out
}

// emit converts the positioned graph into result nodes and edges. The root
// (first inserted node) becomes a topic; inner nodes become branches and the
// rest leaves.
func (b *hierBuild) emit(pos map[string]geometry.Point, edgeType EdgeType) ([]Node, []Edge) {
	inner := b.hasChildren()

	nodes := make([]Node, 0, len(b.g.Nodes))
	for i, hn := range b.g.Nodes {
		typ := TypeLeaf
		switch {
		case i == 0:
			typ = TypeTopic
		case inner[hn.ID]:
			typ = TypeBranch
		}
		nodes = append(nodes, Node{
			ID:       hn.ID,
			Text:     b.text[hn.ID],
			Type:     typ,
			Position: pos[hn.ID],
			Style:    &Style{Width: hn.Width, Height: hn.Height},
		})
	}

	edges := make([]Edge, 0, len(b.g.Edges))
	for _, he := range b.g.Edges {
		edges = append(edges, Edge{
			ID:     fmt.Sprintf("edge-%s-%s", he.From, he.To),
			Source: he.From,
			Target: he.To,
			Type:   edgeType,
		})
	}
	return nodes, edges
}

// translate shifts a positioned graph so the anchor node's center lands on
// the given point.
func translate(pos map[string]geometry.Point, anchor string, to geometry.Point) {
	at := pos[anchor]
	dx, dy := to.X-at.X, to.Y-at.Y
	for id, p := range pos {
		pos[id] = geometry.Point{X: p.X + dx, Y: p.Y + dy}
	}
}

// =============================================================================
// Tree Map
// =============================================================================

// compileTree lays out a tree map: the root at the top center, descendants
// layered downward with siblings in reading order.
func compileTree(t *spec.TreeMap, opts Options) Result {
	b := newHierBuild(opts.Sizing)
	addTreeNode(b, &t.Root, nil)

	pos := hier.Layout(b.g, hier.TopToBottom, hier.DefaultOptions())
	translate(pos, spec.IDRoot, geometry.Point{X: opts.center().X, Y: treeTopMargin})

	nodes, edges := b.emit(pos, EdgeTree)
	return Result{
		Nodes: nodes,
		Edges: edges,
		Meta:  Metadata{"archetype": string(spec.ArchetypeTree)},
	}
}

// addTreeNode walks a subtree into the build. The path is the child-index
// trail from the root, which is exactly the branch ID grammar.
func addTreeNode(b *hierBuild, n *spec.TreeNode, path []int) {
	id := spec.IDRoot
	if len(path) > 0 {
		id = spec.BranchID(path...)
	}
	b.add(id, n.Text)

	for i := range n.Children {
		childPath := append(append([]int{}, path...), i)
		b.connect(id, spec.BranchID(childPath...))
		addTreeNode(b, &n.Children[i], childPath)
	}
}

// =============================================================================
// Brace Map
// =============================================================================

// compileBrace lays out a brace map: the whole on the left edge, parts in a
// column to its right, subparts in a further column. Connections are step
// edges, drawn by the renderer as brace arms.
func compileBrace(bm *spec.BraceMap, opts Options) Result {
	b := newHierBuild(opts.Sizing)
	ww, _ := b.add(spec.IDWhole, bm.Whole)
	for i, part := range bm.Parts {
		pid := spec.PartID(i)
		b.add(pid, part.Name)
		b.connect(spec.IDWhole, pid)
		for j, sub := range part.Subparts {
			sid := spec.SubpartID(i, j)
			b.add(sid, sub)
			b.connect(pid, sid)
		}
	}

	pos := hier.Layout(b.g, hier.LeftToRight, hier.DefaultOptions())
	translate(pos, spec.IDWhole, geometry.Point{X: braceLeftMargin + ww/2, Y: opts.center().Y})

	nodes, edges := b.emit(pos, EdgeStep)
	return Result{
		Nodes: nodes,
		Edges: edges,
		Meta:  Metadata{"archetype": string(spec.ArchetypeBrace)},
	}
}

// =============================================================================
// Mind Map
// =============================================================================

// compileMindMap lays out a mind map: the topic at the canvas center with
// branches fanning out to both sides. Each side is laid out as its own
// layered graph anchored on the topic, so the two halves never interleave.
func compileMindMap(m *spec.MindMap, opts Options) Result {
	center := opts.center()
	topicD := opts.Sizing.Diameter(m.Topic)

	nodes := []Node{{
		ID:       spec.IDTopic,
		Text:     m.Topic,
		Type:     TypeTopic,
		Position: center,
		Style:    &Style{Size: topicD},
	}}
	var edges []Edge

	sides := []struct {
		tag string
		dir hier.Direction
	}{
		{"r", hier.LeftToRight},
		{"l", hier.RightToLeft},
	}
	for _, side := range sides {
		b := newHierBuild(opts.Sizing)
		b.g.Nodes = append(b.g.Nodes, hier.Node{ID: spec.IDTopic, Width: topicD, Height: topicD})
		b.text[spec.IDTopic] = m.Topic
		for k, idx := range m.SideBranchIndices(side.tag) {
			b.connect(spec.IDTopic, spec.MindBranchID(side.tag, k))
			addMindBranch(b, &m.Branches[idx], side.tag, []int{k})
		}
		if len(b.g.Nodes) == 1 {
			continue
		}

		pos := hier.Layout(b.g, side.dir, hier.DefaultOptions())
		translate(pos, spec.IDTopic, center)

		sideNodes, sideEdges := b.emit(pos, EdgeStraight)
		nodes = append(nodes, sideNodes[1:]...) // topic already emitted once
		edges = append(edges, sideEdges...)
	}

	return Result{
		Nodes: nodes,
		Edges: edges,
		Meta:  Metadata{"archetype": string(spec.ArchetypeMindMap)},
	}
}

// addMindBranch appends one branch subtree to a side build. The path is
// side-relative, matching the branch ID grammar.
func addMindBranch(b *hierBuild, br *spec.MindBranch, side string, path []int) {
	id := spec.MindBranchID(side, path...)
	b.add(id, br.Text)
	for i := range br.Children {
		b.connect(id, spec.MindBranchID(side, append(append([]int{}, path...), i)...))
		addMindBranch(b, &br.Children[i], side, append(append([]int{}, path...), i))
	}
}
