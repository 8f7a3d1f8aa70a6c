package spec

import (
	"github.com/mapweaver/mapweaver/pkg/errors"
)

// Template returns a blank specification for the given archetype, ready for
// the author to fill in. Blank templates seed new diagrams when the user
// starts from scratch rather than from a generated request.
func Template(a Archetype) (*Spec, error) {
	s := &Spec{Archetype: a}

	switch a {
	case ArchetypeCircle:
		s.Circle = &CircleMap{Topic: "Topic", Context: []string{"Context 1", "Context 2", "Context 3"}}
	case ArchetypeBubble:
		s.Bubble = &BubbleMap{Topic: "Topic", Attributes: []string{"Attribute 1", "Attribute 2", "Attribute 3"}}
	case ArchetypeDoubleBubble:
		s.DoubleBubble = &DoubleBubbleMap{
			TopicLeft:        "Topic A",
			TopicRight:       "Topic B",
			Similarities:     []string{"Similarity 1"},
			DifferencesLeft:  []string{"Difference A1"},
			DifferencesRight: []string{"Difference B1"},
		}
	case ArchetypeTree:
		s.Tree = &TreeMap{Root: TreeNode{
			Text: "Category",
			Children: []TreeNode{
				{Text: "Group 1", Children: []TreeNode{{Text: "Item 1"}}},
				{Text: "Group 2", Children: []TreeNode{{Text: "Item 2"}}},
			},
		}}
	case ArchetypeBrace:
		s.Brace = &BraceMap{
			Whole: "Whole",
			Parts: []BracePart{
				{Name: "Part 1", Subparts: []string{"Subpart 1"}},
				{Name: "Part 2"},
			},
		}
	case ArchetypeFlow:
		s.Flow = &FlowMap{
			Title:       "Process",
			Steps:       []FlowStep{{Text: "Step 1"}, {Text: "Step 2"}, {Text: "Step 3"}},
			Orientation: OrientationVertical,
		}
	case ArchetypeMultiFlow:
		s.MultiFlow = &MultiFlowMap{
			Event:   "Event",
			Causes:  []string{"Cause 1", "Cause 2"},
			Effects: []string{"Effect 1", "Effect 2"},
		}
	case ArchetypeBridge:
		s.Bridge = &BridgeMap{
			Relation: "as",
			Pairs: []BridgePair{
				{Upper: "Term A", Lower: "Term B"},
				{Upper: "Term C", Lower: "Term D"},
			},
		}
	case ArchetypeMindMap:
		s.MindMap = &MindMap{
			Topic: "Topic",
			Branches: []MindBranch{
				{Text: "Branch 1"},
				{Text: "Branch 2"},
			},
		}
	case ArchetypeConcept:
		s.Concept = &ConceptMap{
			Nodes: []ConceptNode{
				{ID: "concept-0", Text: "Concept 1", X: 200, Y: 150, Placed: true},
				{ID: "concept-1", Text: "Concept 2", X: 450, Y: 150, Placed: true},
			},
			Links: []ConceptLink{{From: "concept-0", To: "concept-1", Label: "relates to"}},
		}
	default:
		return nil, errors.New(errors.ErrCodeUnknownArchetype, "no template for archetype %q", a)
	}

	return s, nil
}
