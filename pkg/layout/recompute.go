package layout

import (
	"slices"
	"strconv"
	"strings"

	"github.com/mapweaver/mapweaver/pkg/errors"
	"github.com/mapweaver/mapweaver/pkg/spec"
)

// Reconstruct rebuilds a specification from rendered geometry. It is the
// inverse of Compile for the node deletions the renderer allows: after the
// user removes shapes from the canvas, the surviving nodes are folded back
// into a spec with contiguous indices, and the next Compile re-derives every
// position and edge from scratch.
//
// Derived shapes (boundaries, labels' edges) are ignored; only nodes whose
// IDs match the archetype's grammar contribute.
func Reconstruct(archetype spec.Archetype, res Result) (*spec.Spec, error) {
	s := &spec.Spec{Archetype: archetype}

	switch archetype {
	case spec.ArchetypeCircle:
		s.Circle = &spec.CircleMap{
			Topic:   nodeText(res, spec.IDTopic),
			Context: indexedTexts(res, "context"),
		}
	case spec.ArchetypeBubble:
		s.Bubble = &spec.BubbleMap{
			Topic:      nodeText(res, spec.IDTopic),
			Attributes: indexedTexts(res, "bubble"),
		}
	case spec.ArchetypeDoubleBubble:
		s.DoubleBubble = &spec.DoubleBubbleMap{
			TopicLeft:        nodeText(res, spec.IDTopicLeft),
			TopicRight:       nodeText(res, spec.IDTopicRight),
			Similarities:     indexedTexts(res, "similarity"),
			DifferencesLeft:  indexedTexts(res, "diff-left"),
			DifferencesRight: indexedTexts(res, "diff-right"),
		}
	case spec.ArchetypeTree:
		s.Tree = reconstructTree(res)
	case spec.ArchetypeBrace:
		s.Brace = reconstructBrace(res)
	case spec.ArchetypeFlow:
		s.Flow = reconstructFlow(res)
	case spec.ArchetypeMultiFlow:
		s.MultiFlow = &spec.MultiFlowMap{
			Event:   nodeText(res, spec.IDEvent),
			Causes:  indexedTexts(res, "cause"),
			Effects: indexedTexts(res, "effect"),
		}
	case spec.ArchetypeBridge:
		s.Bridge = reconstructBridge(res)
	case spec.ArchetypeMindMap:
		s.MindMap = reconstructMindMap(res)
	case spec.ArchetypeConcept:
		s.Concept = reconstructConcept(res)
	default:
		return nil, errors.New(errors.ErrCodeUnknownArchetype, "cannot reconstruct archetype %q", archetype)
	}

	return s, nil
}

// Recompute is the delete path's second half: rebuild the specification from
// the surviving geometry, then compile it fresh. The returned spec is the
// editor's new working document.
func Recompute(archetype spec.Archetype, res Result, opts Options) (*spec.Spec, Result, error) {
	s, err := Reconstruct(archetype, res)
	if err != nil {
		return nil, Result{}, err
	}
	out, err := Compile(s, opts)
	if err != nil {
		return nil, Result{}, err
	}
	return s, out, nil
}

// =============================================================================
// Per-Archetype Reconstruction
// =============================================================================

func nodeText(res Result, id string) string {
	if n := res.NodeByID(id); n != nil {
		return n.Text
	}
	return ""
}

// indexedTexts collects the texts of all "{prefix}-{i}" nodes in index
// order. Gaps left by deletions close up, which is what renumbers the IDs on
// the next compile.
func indexedTexts(res Result, prefix string) []string {
	type entry struct {
		idx  int
		text string
	}
	var found []entry
	for _, n := range res.Nodes {
		if i, ok := spec.ParseIndexedID(n.ID, prefix); ok {
			found = append(found, entry{i, n.Text})
		}
	}
	slices.SortFunc(found, func(a, b entry) int { return a.idx - b.idx })

	out := make([]string, len(found))
	for i, e := range found {
		out[i] = e.text
	}
	return out
}

// pathEntry is one surviving node of a nested hierarchy, keyed by its
// original index path.
type pathEntry struct {
	path []int
	text string
}

func sortedPathEntries(res Result, prefix string) []pathEntry {
	var found []pathEntry
	for _, n := range res.Nodes {
		if p, ok := spec.ParsePathID(n.ID, prefix); ok {
			found = append(found, pathEntry{p, n.Text})
		}
	}
	slices.SortFunc(found, func(a, b pathEntry) int { return slices.Compare(a.path, b.path) })
	return found
}

// rebuildNode is the pointer-stable intermediate for nested reconstruction.
type rebuildNode struct {
	text string
	kids []*rebuildNode
}

// attachEntries hangs each surviving entry under its (surviving) parent.
// Entries whose parent was deleted are dropped; the renderer cascades
// subtree deletions, so this only skips stale leftovers.
func attachEntries(entries []pathEntry, roots *[]*rebuildNode) {
	byPath := make(map[string]*rebuildNode, len(entries))
	for _, e := range entries {
		node := &rebuildNode{text: e.text}
		if len(e.path) == 1 {
			*roots = append(*roots, node)
			byPath[pathKey(e.path)] = node
			continue
		}
		parent, ok := byPath[pathKey(e.path[:len(e.path)-1])]
		if !ok {
			continue
		}
		parent.kids = append(parent.kids, node)
		byPath[pathKey(e.path)] = node
	}
}

func pathKey(path []int) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, "-")
}

func reconstructTree(res Result) *spec.TreeMap {
	var roots []*rebuildNode
	attachEntries(sortedPathEntries(res, "branch"), &roots)

	t := &spec.TreeMap{Root: spec.TreeNode{Text: nodeText(res, spec.IDRoot)}}
	for _, r := range roots {
		t.Root.Children = append(t.Root.Children, toTreeNode(r))
	}
	return t
}

func toTreeNode(n *rebuildNode) spec.TreeNode {
	out := spec.TreeNode{Text: n.text}
	for _, k := range n.kids {
		out.Children = append(out.Children, toTreeNode(k))
	}
	return out
}

func reconstructBrace(res Result) *spec.BraceMap {
	type part struct {
		idx  int
		name string
		subs []string
	}
	byIdx := make(map[int]*part)
	var order []int
	for _, n := range res.Nodes {
		if i, ok := spec.ParseIndexedID(n.ID, "part"); ok {
			byIdx[i] = &part{idx: i, name: n.Text}
			order = append(order, i)
		}
	}
	slices.Sort(order)

	// Subparts keep their original part index; subparts of a deleted part
	// vanish with it.
	for _, n := range res.Nodes {
		p, ok := spec.ParsePathID(n.ID, "subpart")
		if !ok || len(p) != 2 {
			continue
		}
		if parent, ok := byIdx[p[0]]; ok {
			parent.subs = append(parent.subs, n.Text)
		}
	}

	b := &spec.BraceMap{Whole: nodeText(res, spec.IDWhole)}
	for _, i := range order {
		b.Parts = append(b.Parts, spec.BracePart{Name: byIdx[i].name, Subparts: byIdx[i].subs})
	}
	return b
}

func reconstructFlow(res Result) *spec.FlowMap {
	type step struct {
		idx  int
		text string
		subs []string
	}
	byIdx := make(map[int]*step)
	var order []int
	for _, n := range res.Nodes {
		if i, ok := spec.ParseIndexedID(n.ID, "step"); ok {
			byIdx[i] = &step{idx: i, text: n.Text}
			order = append(order, i)
		}
	}
	slices.Sort(order)

	for _, n := range res.Nodes {
		p, ok := spec.ParsePathID(n.ID, "substep")
		if !ok || len(p) != 2 {
			continue
		}
		if parent, ok := byIdx[p[0]]; ok {
			parent.subs = append(parent.subs, n.Text)
		}
	}

	f := &spec.FlowMap{Title: nodeText(res, spec.IDTitle)}
	if o, ok := res.Meta["orientation"].(string); ok {
		f.Orientation = spec.Orientation(o)
	}
	for _, i := range order {
		f.Steps = append(f.Steps, spec.FlowStep{Text: byIdx[i].text, Substeps: byIdx[i].subs})
	}
	return f
}

func reconstructBridge(res Result) *spec.BridgeMap {
	uppers := make(map[int]string)
	lowers := make(map[int]string)
	var order []int
	seen := make(map[int]bool)
	for _, n := range res.Nodes {
		if i, ok := spec.ParseIndexedID(n.ID, "upper"); ok {
			uppers[i] = n.Text
			if !seen[i] {
				seen[i] = true
				order = append(order, i)
			}
		}
		if i, ok := spec.ParseIndexedID(n.ID, "lower"); ok {
			lowers[i] = n.Text
			if !seen[i] {
				seen[i] = true
				order = append(order, i)
			}
		}
	}
	slices.Sort(order)

	b := &spec.BridgeMap{Relation: nodeText(res, spec.IDRelation)}
	for _, i := range order {
		b.Pairs = append(b.Pairs, spec.BridgePair{Upper: uppers[i], Lower: lowers[i]})
	}
	return b
}

func reconstructMindMap(res Result) *spec.MindMap {
	m := &spec.MindMap{Topic: nodeText(res, spec.IDTopic)}

	bySide := make(map[string][]pathEntry)
	for _, n := range res.Nodes {
		if side, path, ok := spec.ParseMindBranchID(n.ID); ok {
			bySide[side] = append(bySide[side], pathEntry{path, n.Text})
		}
	}

	var right, left []*rebuildNode
	for side, roots := range map[string]*[]*rebuildNode{"r": &right, "l": &left} {
		entries := bySide[side]
		slices.SortFunc(entries, func(a, b pathEntry) int { return slices.Compare(a.path, b.path) })
		attachEntries(entries, roots)
	}

	// Interleave the sides back into spec order. The alternating side rule
	// means an unbalanced deletion can shift later branches to the other
	// side on the next compile; that reflow is intended.
	for i := 0; i < len(right) || i < len(left); i++ {
		if i < len(right) {
			m.Branches = append(m.Branches, toMindBranch(right[i]))
		}
		if i < len(left) {
			m.Branches = append(m.Branches, toMindBranch(left[i]))
		}
	}
	return m
}

func toMindBranch(n *rebuildNode) spec.MindBranch {
	out := spec.MindBranch{Text: n.text}
	for _, k := range n.kids {
		out.Children = append(out.Children, toMindBranch(k))
	}
	return out
}

// reconstructConcept folds the rendered state back verbatim: every surviving
// node is treated as author-placed at its current position, and the surviving
// edges become the link list.
func reconstructConcept(res Result) *spec.ConceptMap {
	c := &spec.ConceptMap{}
	ids := make(map[string]bool, len(res.Nodes))
	for _, n := range res.Nodes {
		ids[n.ID] = true
		c.Nodes = append(c.Nodes, spec.ConceptNode{
			ID:     n.ID,
			Text:   n.Text,
			X:      n.Position.X,
			Y:      n.Position.Y,
			Placed: true,
		})
	}
	for _, e := range res.Edges {
		if ids[e.Source] && ids[e.Target] {
			c.Links = append(c.Links, spec.ConceptLink{From: e.Source, To: e.Target, Label: e.Label})
		}
	}
	return c
}
