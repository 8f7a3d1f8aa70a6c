package spec

import (
	"github.com/mapweaver/mapweaver/pkg/errors"
)

// Validate checks the structural integrity of the specification. A saved
// specification only needs consistent node references; a generated one needs
// a payload matching its archetype.
//
// Validation failures carry ErrCodeInvalidSpec, ErrCodeUnknownArchetype,
// or ErrCodeUnsupported. The layout compiler treats all of them as
// instructions to degrade to an empty layout rather than crash the editor.
func (s *Spec) Validate() error {
	if s == nil {
		return errors.New(errors.ErrCodeInvalidSpec, "specification is nil")
	}

	if s.IsSaved() {
		return s.validateSaved()
	}

	if !s.Archetype.Valid() {
		return errors.New(errors.ErrCodeUnknownArchetype, "unknown archetype %q", s.Archetype)
	}

	switch s.Archetype {
	case ArchetypeCircle:
		if s.Circle == nil {
			return missingPayload(s.Archetype)
		}
		if s.Circle.Topic == "" {
			return errors.New(errors.ErrCodeInvalidSpec, "circle map topic must not be empty")
		}
	case ArchetypeBubble:
		if s.Bubble == nil {
			return missingPayload(s.Archetype)
		}
		if s.Bubble.Topic == "" {
			return errors.New(errors.ErrCodeInvalidSpec, "bubble map topic must not be empty")
		}
	case ArchetypeDoubleBubble:
		if s.DoubleBubble == nil {
			return missingPayload(s.Archetype)
		}
		if s.DoubleBubble.TopicLeft == "" || s.DoubleBubble.TopicRight == "" {
			return errors.New(errors.ErrCodeInvalidSpec, "double bubble map requires both topics")
		}
	case ArchetypeTree:
		if s.Tree == nil {
			return missingPayload(s.Archetype)
		}
		if s.Tree.Root.Text == "" {
			return errors.New(errors.ErrCodeInvalidSpec, "tree map root must not be empty")
		}
	case ArchetypeBrace:
		if s.Brace == nil {
			return missingPayload(s.Archetype)
		}
		if s.Brace.Whole == "" {
			return errors.New(errors.ErrCodeInvalidSpec, "brace map whole must not be empty")
		}
	case ArchetypeFlow:
		if s.Flow == nil {
			return missingPayload(s.Archetype)
		}
		if o := s.Flow.Orientation; o != "" && o != OrientationVertical && o != OrientationHorizontal {
			return errors.New(errors.ErrCodeUnsupported, "flow map orientation %q is not supported", o)
		}
	case ArchetypeMultiFlow:
		if s.MultiFlow == nil {
			return missingPayload(s.Archetype)
		}
		if s.MultiFlow.Event == "" {
			return errors.New(errors.ErrCodeInvalidSpec, "multi-flow map event must not be empty")
		}
	case ArchetypeBridge:
		if s.Bridge == nil {
			return missingPayload(s.Archetype)
		}
	case ArchetypeMindMap:
		if s.MindMap == nil {
			return missingPayload(s.Archetype)
		}
		if s.MindMap.Topic == "" {
			return errors.New(errors.ErrCodeInvalidSpec, "mind map topic must not be empty")
		}
	case ArchetypeConcept:
		if s.Concept == nil {
			return missingPayload(s.Archetype)
		}
		return s.validateConcept()
	}

	return nil
}

func (s *Spec) validateConcept() error {
	seen := make(map[string]bool, len(s.Concept.Nodes))
	for _, n := range s.Concept.Nodes {
		if n.ID == "" {
			return errors.New(errors.ErrCodeInvalidSpec, "concept node ID must not be empty")
		}
		if seen[n.ID] {
			return errors.New(errors.ErrCodeInvalidSpec, "duplicate concept node ID %q", n.ID)
		}
		seen[n.ID] = true
	}
	for _, l := range s.Concept.Links {
		if !seen[l.From] {
			return errors.New(errors.ErrCodeInvalidSpec, "concept link references unknown node %q", l.From)
		}
		if !seen[l.To] {
			return errors.New(errors.ErrCodeInvalidSpec, "concept link references unknown node %q", l.To)
		}
	}
	return nil
}

func (s *Spec) validateSaved() error {
	seen := make(map[string]bool, len(s.Nodes))
	for _, n := range s.Nodes {
		if n.ID == "" {
			return errors.New(errors.ErrCodeInvalidSpec, "saved node ID must not be empty")
		}
		if seen[n.ID] {
			return errors.New(errors.ErrCodeInvalidSpec, "duplicate saved node ID %q", n.ID)
		}
		seen[n.ID] = true
	}
	for _, e := range s.Edges {
		if !seen[e.Source] {
			return errors.New(errors.ErrCodeInvalidSpec, "saved edge %q references unknown source %q", e.ID, e.Source)
		}
		if !seen[e.Target] {
			return errors.New(errors.ErrCodeInvalidSpec, "saved edge %q references unknown target %q", e.ID, e.Target)
		}
	}
	return nil
}

func missingPayload(a Archetype) error {
	return errors.New(errors.ErrCodeInvalidSpec, "archetype %s has no payload", a)
}
