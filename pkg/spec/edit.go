package spec

import (
	"slices"

	"github.com/mapweaver/mapweaver/pkg/errors"
)

// Structural edit operations resolve a layout node ID back to the spec entry
// it was derived from and mutate that entry in place. Every operation either
// applies fully or leaves the specification untouched and returns a
// warning-grade error (EDIT_FORBIDDEN, EDIT_UNKNOWN_REF) for the caller to
// surface. Fixed nodes (topic, root, event, boundary...) cannot be deleted.

// UpdateText replaces the text of the entry the node ID refers to.
func (s *Spec) UpdateText(id, text string) error {
	if s.IsSaved() {
		for i := range s.Nodes {
			if s.Nodes[i].ID == id {
				s.Nodes[i].Text = text
				return nil
			}
		}
		return unknownRef(id)
	}

	switch s.Archetype {
	case ArchetypeCircle:
		switch {
		case id == IDTopic:
			s.Circle.Topic = text
		case id == IDBoundary:
			return forbidden("the boundary ring has no text")
		default:
			i, ok := indexedID(id, "context")
			if !ok || i >= len(s.Circle.Context) {
				return unknownRef(id)
			}
			s.Circle.Context[i] = text
		}
	case ArchetypeBubble:
		if id == IDTopic {
			s.Bubble.Topic = text
			return nil
		}
		i, ok := indexedID(id, "bubble")
		if !ok || i >= len(s.Bubble.Attributes) {
			return unknownRef(id)
		}
		s.Bubble.Attributes[i] = text
	case ArchetypeDoubleBubble:
		return s.updateDoubleBubbleText(id, text)
	case ArchetypeTree:
		node := s.treeNodeByID(id)
		if node == nil {
			return unknownRef(id)
		}
		node.Text = text
	case ArchetypeBrace:
		return s.updateBraceText(id, text)
	case ArchetypeFlow:
		return s.updateFlowText(id, text)
	case ArchetypeMultiFlow:
		return s.updateMultiFlowText(id, text)
	case ArchetypeBridge:
		return s.updateBridgeText(id, text)
	case ArchetypeMindMap:
		if id == IDTopic {
			s.MindMap.Topic = text
			return nil
		}
		branch := s.mindBranchByID(id)
		if branch == nil {
			return unknownRef(id)
		}
		branch.Text = text
	case ArchetypeConcept:
		for i := range s.Concept.Nodes {
			if s.Concept.Nodes[i].ID == id {
				s.Concept.Nodes[i].Text = text
				return nil
			}
		}
		return unknownRef(id)
	default:
		return unknownRef(id)
	}
	return nil
}

func (s *Spec) updateDoubleBubbleText(id, text string) error {
	d := s.DoubleBubble
	switch id {
	case IDTopicLeft:
		d.TopicLeft = text
		return nil
	case IDTopicRight:
		d.TopicRight = text
		return nil
	}
	if i, ok := indexedID(id, "similarity"); ok && i < len(d.Similarities) {
		d.Similarities[i] = text
		return nil
	}
	if i, ok := indexedID(id, "diff-left"); ok && i < len(d.DifferencesLeft) {
		d.DifferencesLeft[i] = text
		return nil
	}
	if i, ok := indexedID(id, "diff-right"); ok && i < len(d.DifferencesRight) {
		d.DifferencesRight[i] = text
		return nil
	}
	return unknownRef(id)
}

func (s *Spec) updateBraceText(id, text string) error {
	b := s.Brace
	if id == IDWhole {
		b.Whole = text
		return nil
	}
	if i, ok := indexedID(id, "part"); ok && i < len(b.Parts) {
		b.Parts[i].Name = text
		return nil
	}
	if path, ok := pathID(id, "subpart"); ok && len(path) == 2 &&
		path[0] < len(b.Parts) && path[1] < len(b.Parts[path[0]].Subparts) {
		b.Parts[path[0]].Subparts[path[1]] = text
		return nil
	}
	return unknownRef(id)
}

func (s *Spec) updateFlowText(id, text string) error {
	f := s.Flow
	if id == IDTitle {
		f.Title = text
		return nil
	}
	if i, ok := indexedID(id, "step"); ok && i < len(f.Steps) {
		f.Steps[i].Text = text
		return nil
	}
	if path, ok := pathID(id, "substep"); ok && len(path) == 2 &&
		path[0] < len(f.Steps) && path[1] < len(f.Steps[path[0]].Substeps) {
		f.Steps[path[0]].Substeps[path[1]] = text
		return nil
	}
	return unknownRef(id)
}

func (s *Spec) updateMultiFlowText(id, text string) error {
	m := s.MultiFlow
	if id == IDEvent {
		m.Event = text
		return nil
	}
	if i, ok := indexedID(id, "cause"); ok && i < len(m.Causes) {
		m.Causes[i] = text
		return nil
	}
	if i, ok := indexedID(id, "effect"); ok && i < len(m.Effects) {
		m.Effects[i] = text
		return nil
	}
	return unknownRef(id)
}

func (s *Spec) updateBridgeText(id, text string) error {
	b := s.Bridge
	if id == IDRelation {
		b.Relation = text
		return nil
	}
	if i, ok := indexedID(id, "upper"); ok && i < len(b.Pairs) {
		b.Pairs[i].Upper = text
		return nil
	}
	if i, ok := indexedID(id, "lower"); ok && i < len(b.Pairs) {
		b.Pairs[i].Lower = text
		return nil
	}
	return unknownRef(id)
}

// AddSibling inserts a new entry with the given text immediately after the
// entry the node ID refers to. Fixed nodes (topic, root...) have no sibling
// lists and report EDIT_FORBIDDEN.
func (s *Spec) AddSibling(id, text string) error {
	if s.IsSaved() {
		return forbidden("saved diagrams are edited through their own node list")
	}

	switch s.Archetype {
	case ArchetypeCircle:
		if i, ok := indexedID(id, "context"); ok && i < len(s.Circle.Context) {
			s.Circle.Context = slices.Insert(s.Circle.Context, i+1, text)
			return nil
		}
	case ArchetypeBubble:
		if i, ok := indexedID(id, "bubble"); ok && i < len(s.Bubble.Attributes) {
			s.Bubble.Attributes = slices.Insert(s.Bubble.Attributes, i+1, text)
			return nil
		}
	case ArchetypeDoubleBubble:
		d := s.DoubleBubble
		if i, ok := indexedID(id, "similarity"); ok && i < len(d.Similarities) {
			d.Similarities = slices.Insert(d.Similarities, i+1, text)
			return nil
		}
		if i, ok := indexedID(id, "diff-left"); ok && i < len(d.DifferencesLeft) {
			d.DifferencesLeft = slices.Insert(d.DifferencesLeft, i+1, text)
			return nil
		}
		if i, ok := indexedID(id, "diff-right"); ok && i < len(d.DifferencesRight) {
			d.DifferencesRight = slices.Insert(d.DifferencesRight, i+1, text)
			return nil
		}
	case ArchetypeTree:
		if path, ok := pathID(id, "branch"); ok {
			if parent, idx := s.treeParentOf(path); parent != nil {
				parent.Children = slices.Insert(parent.Children, idx+1, TreeNode{Text: text})
				return nil
			}
		}
	case ArchetypeBrace:
		b := s.Brace
		if i, ok := indexedID(id, "part"); ok && i < len(b.Parts) {
			b.Parts = slices.Insert(b.Parts, i+1, BracePart{Name: text})
			return nil
		}
		if path, ok := pathID(id, "subpart"); ok && len(path) == 2 &&
			path[0] < len(b.Parts) && path[1] < len(b.Parts[path[0]].Subparts) {
			b.Parts[path[0]].Subparts = slices.Insert(b.Parts[path[0]].Subparts, path[1]+1, text)
			return nil
		}
	case ArchetypeFlow:
		f := s.Flow
		if i, ok := indexedID(id, "step"); ok && i < len(f.Steps) {
			f.Steps = slices.Insert(f.Steps, i+1, FlowStep{Text: text})
			return nil
		}
		if path, ok := pathID(id, "substep"); ok && len(path) == 2 &&
			path[0] < len(f.Steps) && path[1] < len(f.Steps[path[0]].Substeps) {
			f.Steps[path[0]].Substeps = slices.Insert(f.Steps[path[0]].Substeps, path[1]+1, text)
			return nil
		}
	case ArchetypeMultiFlow:
		m := s.MultiFlow
		if i, ok := indexedID(id, "cause"); ok && i < len(m.Causes) {
			m.Causes = slices.Insert(m.Causes, i+1, text)
			return nil
		}
		if i, ok := indexedID(id, "effect"); ok && i < len(m.Effects) {
			m.Effects = slices.Insert(m.Effects, i+1, text)
			return nil
		}
	case ArchetypeBridge:
		// A bridge term always comes with its partner: inserting after either
		// term of a pair creates a whole new pair.
		b := s.Bridge
		i, ok := indexedID(id, "upper")
		if !ok {
			i, ok = indexedID(id, "lower")
		}
		if ok && i < len(b.Pairs) {
			b.Pairs = slices.Insert(b.Pairs, i+1, BridgePair{Upper: text})
			return nil
		}
	case ArchetypeMindMap:
		if side, path, ok := mindPath(id); ok {
			if parent, idx, root := s.mindParentOf(side, path); root != nil {
				*root = slices.Insert(*root, idx+1, MindBranch{Text: text})
				return nil
			} else if parent != nil {
				parent.Children = slices.Insert(parent.Children, idx+1, MindBranch{Text: text})
				return nil
			}
		}
	case ArchetypeConcept:
		return forbidden("concept maps add nodes freely, not as siblings")
	}

	if isFixedNode(id) {
		return forbidden("node %q has no sibling list", id)
	}
	return unknownRef(id)
}

// AddChild appends a child entry under the node the ID refers to. Only the
// hierarchical archetypes support children; leaf node types report
// EDIT_FORBIDDEN.
func (s *Spec) AddChild(id, text string) error {
	if s.IsSaved() {
		return forbidden("saved diagrams are edited through their own node list")
	}

	switch s.Archetype {
	case ArchetypeTree:
		node := s.treeNodeByID(id)
		if node == nil {
			return unknownRef(id)
		}
		node.Children = append(node.Children, TreeNode{Text: text})
		return nil
	case ArchetypeBrace:
		if id == IDWhole {
			s.Brace.Parts = append(s.Brace.Parts, BracePart{Name: text})
			return nil
		}
		if i, ok := indexedID(id, "part"); ok && i < len(s.Brace.Parts) {
			s.Brace.Parts[i].Subparts = append(s.Brace.Parts[i].Subparts, text)
			return nil
		}
		if _, ok := pathID(id, "subpart"); ok {
			return forbidden("subparts cannot have children")
		}
		return unknownRef(id)
	case ArchetypeFlow:
		if i, ok := indexedID(id, "step"); ok && i < len(s.Flow.Steps) {
			s.Flow.Steps[i].Substeps = append(s.Flow.Steps[i].Substeps, text)
			return nil
		}
		if _, ok := pathID(id, "substep"); ok {
			return forbidden("substeps cannot have children")
		}
		return unknownRef(id)
	case ArchetypeMindMap:
		if id == IDTopic {
			s.MindMap.Branches = append(s.MindMap.Branches, MindBranch{Text: text})
			return nil
		}
		branch := s.mindBranchByID(id)
		if branch == nil {
			return unknownRef(id)
		}
		branch.Children = append(branch.Children, MindBranch{Text: text})
		return nil
	}
	return forbidden("archetype %s does not support child nodes", s.Archetype)
}

// Delete removes the entry the node ID refers to. The fixed nodes every
// archetype is built around (topic, root, event, whole, boundary, title,
// relation) cannot be deleted.
func (s *Spec) Delete(id string) error {
	if isFixedNode(id) {
		return forbidden("node %q cannot be deleted", id)
	}

	if s.IsSaved() {
		for i := range s.Nodes {
			if s.Nodes[i].ID == id {
				s.Nodes = slices.Delete(s.Nodes, i, i+1)
				s.Edges = slices.DeleteFunc(s.Edges, func(e SavedEdge) bool {
					return e.Source == id || e.Target == id
				})
				return nil
			}
		}
		return unknownRef(id)
	}

	switch s.Archetype {
	case ArchetypeCircle:
		if i, ok := indexedID(id, "context"); ok && i < len(s.Circle.Context) {
			s.Circle.Context = slices.Delete(s.Circle.Context, i, i+1)
			return nil
		}
	case ArchetypeBubble:
		if i, ok := indexedID(id, "bubble"); ok && i < len(s.Bubble.Attributes) {
			s.Bubble.Attributes = slices.Delete(s.Bubble.Attributes, i, i+1)
			return nil
		}
	case ArchetypeDoubleBubble:
		d := s.DoubleBubble
		if i, ok := indexedID(id, "similarity"); ok && i < len(d.Similarities) {
			d.Similarities = slices.Delete(d.Similarities, i, i+1)
			return nil
		}
		if i, ok := indexedID(id, "diff-left"); ok && i < len(d.DifferencesLeft) {
			d.DifferencesLeft = slices.Delete(d.DifferencesLeft, i, i+1)
			return nil
		}
		if i, ok := indexedID(id, "diff-right"); ok && i < len(d.DifferencesRight) {
			d.DifferencesRight = slices.Delete(d.DifferencesRight, i, i+1)
			return nil
		}
	case ArchetypeTree:
		if path, ok := pathID(id, "branch"); ok {
			if parent, idx := s.treeParentOf(path); parent != nil {
				parent.Children = slices.Delete(parent.Children, idx, idx+1)
				return nil
			}
		}
	case ArchetypeBrace:
		b := s.Brace
		if i, ok := indexedID(id, "part"); ok && i < len(b.Parts) {
			b.Parts = slices.Delete(b.Parts, i, i+1)
			return nil
		}
		if path, ok := pathID(id, "subpart"); ok && len(path) == 2 &&
			path[0] < len(b.Parts) && path[1] < len(b.Parts[path[0]].Subparts) {
			b.Parts[path[0]].Subparts = slices.Delete(b.Parts[path[0]].Subparts, path[1], path[1]+1)
			return nil
		}
	case ArchetypeFlow:
		f := s.Flow
		if i, ok := indexedID(id, "step"); ok && i < len(f.Steps) {
			f.Steps = slices.Delete(f.Steps, i, i+1)
			return nil
		}
		if path, ok := pathID(id, "substep"); ok && len(path) == 2 &&
			path[0] < len(f.Steps) && path[1] < len(f.Steps[path[0]].Substeps) {
			f.Steps[path[0]].Substeps = slices.Delete(f.Steps[path[0]].Substeps, path[1], path[1]+1)
			return nil
		}
	case ArchetypeMultiFlow:
		m := s.MultiFlow
		if i, ok := indexedID(id, "cause"); ok && i < len(m.Causes) {
			m.Causes = slices.Delete(m.Causes, i, i+1)
			return nil
		}
		if i, ok := indexedID(id, "effect"); ok && i < len(m.Effects) {
			m.Effects = slices.Delete(m.Effects, i, i+1)
			return nil
		}
	case ArchetypeBridge:
		// Deleting either term removes the pair; a bridge never holds
		// half a pair.
		b := s.Bridge
		i, ok := indexedID(id, "upper")
		if !ok {
			i, ok = indexedID(id, "lower")
		}
		if ok && i < len(b.Pairs) {
			b.Pairs = slices.Delete(b.Pairs, i, i+1)
			return nil
		}
	case ArchetypeMindMap:
		if side, path, ok := mindPath(id); ok {
			if parent, idx, root := s.mindParentOf(side, path); root != nil {
				*root = slices.Delete(*root, idx, idx+1)
				return nil
			} else if parent != nil {
				parent.Children = slices.Delete(parent.Children, idx, idx+1)
				return nil
			}
		}
	case ArchetypeConcept:
		for i := range s.Concept.Nodes {
			if s.Concept.Nodes[i].ID == id {
				s.Concept.Nodes = slices.Delete(s.Concept.Nodes, i, i+1)
				s.Concept.Links = slices.DeleteFunc(s.Concept.Links, func(l ConceptLink) bool {
					return l.From == id || l.To == id
				})
				return nil
			}
		}
	}
	return unknownRef(id)
}

// MoveNode updates an author-positioned node's coordinates. Only the
// freeform concept archetype and saved diagrams have movable shapes; every
// fixed-layout archetype reports EDIT_FORBIDDEN.
func (s *Spec) MoveNode(id string, x, y float64) error {
	if s.IsSaved() {
		for i := range s.Nodes {
			if s.Nodes[i].ID == id {
				s.Nodes[i].X = x
				s.Nodes[i].Y = y
				return nil
			}
		}
		return unknownRef(id)
	}
	if s.Archetype != ArchetypeConcept {
		return forbidden("archetype %s has a fixed layout", s.Archetype)
	}
	for i := range s.Concept.Nodes {
		if s.Concept.Nodes[i].ID == id {
			s.Concept.Nodes[i].X = x
			s.Concept.Nodes[i].Y = y
			s.Concept.Nodes[i].Placed = true
			return nil
		}
	}
	return unknownRef(id)
}

// ToggleOrientation flips a flow map between vertical and horizontal. All
// coordinates are re-derived on the next compile.
func (s *Spec) ToggleOrientation() error {
	if s.Archetype != ArchetypeFlow || s.Flow == nil {
		return forbidden("only flow maps have an orientation")
	}
	if s.Flow.Orientation == OrientationHorizontal {
		s.Flow.Orientation = OrientationVertical
	} else {
		s.Flow.Orientation = OrientationHorizontal
	}
	return nil
}

// =============================================================================
// Tree / Mind Map Traversal
// =============================================================================

// treeNodeByID resolves "root" or "branch-..." to the tree entry.
func (s *Spec) treeNodeByID(id string) *TreeNode {
	if id == IDRoot {
		return &s.Tree.Root
	}
	path, ok := pathID(id, "branch")
	if !ok {
		return nil
	}
	node := &s.Tree.Root
	for _, i := range path {
		if i >= len(node.Children) {
			return nil
		}
		node = &node.Children[i]
	}
	return node
}

// treeParentOf returns the parent entry and child index for a branch path.
func (s *Spec) treeParentOf(path []int) (*TreeNode, int) {
	if len(path) == 0 {
		return nil, 0
	}
	node := &s.Tree.Root
	for _, i := range path[:len(path)-1] {
		if i >= len(node.Children) {
			return nil, 0
		}
		node = &node.Children[i]
	}
	last := path[len(path)-1]
	if last >= len(node.Children) {
		return nil, 0
	}
	return node, last
}

// mindPath splits "branch-l-..." or "branch-r-..." into side and index path.
func mindPath(id string) (side string, path []int, ok bool) {
	for _, s := range []string{"l", "r"} {
		if p, found := pathID(id, "branch-"+s); found {
			return s, p, true
		}
	}
	return "", nil, false
}

// sideBranches returns the top-level branch indices belonging to one side.
// Branches alternate: even indices go right, odd indices go left.
func (m *MindMap) sideBranches(side string) []int {
	var out []int
	for i := range m.Branches {
		if (i%2 == 0) == (side == "r") {
			out = append(out, i)
		}
	}
	return out
}

// SideBranchIndices exposes the side assignment used for mind-map node IDs:
// top-level branches alternate right, left, right... in spec order.
func (m *MindMap) SideBranchIndices(side string) []int { return m.sideBranches(side) }

// mindBranchByID resolves a mind-map branch ID to the entry.
func (s *Spec) mindBranchByID(id string) *MindBranch {
	side, path, ok := mindPath(id)
	if !ok || len(path) == 0 {
		return nil
	}
	tops := s.MindMap.sideBranches(side)
	if path[0] >= len(tops) {
		return nil
	}
	branch := &s.MindMap.Branches[tops[path[0]]]
	for _, i := range path[1:] {
		if i >= len(branch.Children) {
			return nil
		}
		branch = &branch.Children[i]
	}
	return branch
}

// mindParentOf returns either the parent branch and child index, or, for a
// top-level path, the root slice and spec-order index within it.
func (s *Spec) mindParentOf(side string, path []int) (parent *MindBranch, idx int, root *[]MindBranch) {
	if len(path) == 0 {
		return nil, 0, nil
	}
	tops := s.MindMap.sideBranches(side)
	if path[0] >= len(tops) {
		return nil, 0, nil
	}
	if len(path) == 1 {
		return nil, tops[path[0]], &s.MindMap.Branches
	}
	branch := &s.MindMap.Branches[tops[path[0]]]
	for _, i := range path[1 : len(path)-1] {
		if i >= len(branch.Children) {
			return nil, 0, nil
		}
		branch = &branch.Children[i]
	}
	last := path[len(path)-1]
	if last >= len(branch.Children) {
		return nil, 0, nil
	}
	return branch, last, nil
}

// =============================================================================
// Helpers
// =============================================================================

func isFixedNode(id string) bool {
	switch id {
	case IDTopic, IDBoundary, IDTopicLeft, IDTopicRight, IDRoot, IDWhole,
		IDTitle, IDEvent, IDRelation:
		return true
	}
	return false
}

func forbidden(format string, args ...any) error {
	return errors.New(errors.ErrCodeEditForbidden, format, args...)
}

func unknownRef(id string) error {
	return errors.New(errors.ErrCodeEditUnknownRef, "no spec entry for node %q", id)
}
