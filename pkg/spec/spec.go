// Package spec defines the archetype-typed specification documents that
// describe diagram content independent of geometry.
//
// A Specification is the canonical serialization format for a diagram: it is
// what the generation pipeline produces, what editing operations mutate, what
// the history stack snapshots, and what the layout compiler consumes. The
// format is JSON- and BSON-serializable, tree-shaped (no cycles), and its
// arrays preserve display order.
//
// # Archetypes
//
// Each supported diagram kind has its own payload struct. The Archetype field
// discriminates which payload is populated:
//
//	s := spec.Spec{
//	    Archetype: spec.ArchetypeBubble,
//	    Bubble:    &spec.BubbleMap{Topic: "Water", Attributes: []string{"wet", "clear"}},
//	}
//
// A specification loaded from saved storage instead carries a generic
// nodes/edges pair; [Spec.IsSaved] detects this case and the compiler
// short-circuits to a pass-through loader.
package spec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Archetype identifies a diagram kind. Each archetype has its own
// specification payload and its own layout compiler routine.
type Archetype string

// Supported archetypes.
const (
	ArchetypeCircle       Archetype = "circle_map"
	ArchetypeBubble       Archetype = "bubble_map"
	ArchetypeDoubleBubble Archetype = "double_bubble_map"
	ArchetypeTree         Archetype = "tree_map"
	ArchetypeBrace        Archetype = "brace_map"
	ArchetypeFlow         Archetype = "flow_map"
	ArchetypeMultiFlow    Archetype = "multi_flow_map"
	ArchetypeBridge       Archetype = "bridge_map"
	ArchetypeMindMap      Archetype = "mindmap"
	ArchetypeConcept      Archetype = "concept_map"
)

// All returns every supported archetype in display order.
func All() []Archetype {
	return []Archetype{
		ArchetypeCircle,
		ArchetypeBubble,
		ArchetypeDoubleBubble,
		ArchetypeTree,
		ArchetypeBrace,
		ArchetypeFlow,
		ArchetypeMultiFlow,
		ArchetypeBridge,
		ArchetypeMindMap,
		ArchetypeConcept,
	}
}

// Valid reports whether a is a supported archetype.
func (a Archetype) Valid() bool {
	switch a {
	case ArchetypeCircle, ArchetypeBubble, ArchetypeDoubleBubble,
		ArchetypeTree, ArchetypeBrace, ArchetypeFlow, ArchetypeMultiFlow,
		ArchetypeBridge, ArchetypeMindMap, ArchetypeConcept:
		return true
	}
	return false
}

// Orientation selects the main axis for flow maps. Toggling it fully
// re-derives all coordinates; it is not an incremental transform.
type Orientation string

// Flow map orientations.
const (
	OrientationVertical   Orientation = "vertical"
	OrientationHorizontal Orientation = "horizontal"
)

// =============================================================================
// Spec - Tagged Union
// =============================================================================

// Spec is the archetype-typed specification document. Exactly one payload
// field matching Archetype is populated for freshly generated diagrams.
// Diagrams loaded from storage carry Nodes/Edges instead; a non-empty Nodes
// slice takes priority over any archetype payload.
//
// Spec must remain plain data: no cyclic references and no non-serializable
// fields. The history stack depends on this invariant for snapshotting.
type Spec struct {
	Archetype Archetype `json:"archetype,omitempty" bson:"archetype,omitempty"`

	Circle       *CircleMap       `json:"circle,omitempty" bson:"circle,omitempty"`
	Bubble       *BubbleMap       `json:"bubble,omitempty" bson:"bubble,omitempty"`
	DoubleBubble *DoubleBubbleMap `json:"double_bubble,omitempty" bson:"double_bubble,omitempty"`
	Tree         *TreeMap         `json:"tree,omitempty" bson:"tree,omitempty"`
	Brace        *BraceMap        `json:"brace,omitempty" bson:"brace,omitempty"`
	Flow         *FlowMap         `json:"flow,omitempty" bson:"flow,omitempty"`
	MultiFlow    *MultiFlowMap    `json:"multi_flow,omitempty" bson:"multi_flow,omitempty"`
	Bridge       *BridgeMap       `json:"bridge,omitempty" bson:"bridge,omitempty"`
	MindMap      *MindMap         `json:"mindmap,omitempty" bson:"mindmap,omitempty"`
	Concept      *ConceptMap      `json:"concept,omitempty" bson:"concept,omitempty"`

	// Saved diagrams round-trip through storage as generic geometry.
	Nodes []SavedNode `json:"nodes,omitempty" bson:"nodes,omitempty"`
	Edges []SavedEdge `json:"edges,omitempty" bson:"edges,omitempty"`
}

// IsSaved reports whether this specification was loaded from saved storage
// rather than freshly generated. Saved specifications bypass archetype
// compilation entirely.
func (s *Spec) IsSaved() bool { return len(s.Nodes) > 0 }

// =============================================================================
// Archetype Payloads
// =============================================================================

// CircleMap defines a topic in context: a center topic surrounded by context
// satellites inside a boundary ring, with no connecting edges.
type CircleMap struct {
	Topic   string   `json:"topic" bson:"topic"`
	Context []string `json:"context" bson:"context"`
}

// BubbleMap defines a topic and its attributes, each attribute connected to
// the topic by a spoke edge.
type BubbleMap struct {
	Topic      string   `json:"topic" bson:"topic"`
	Attributes []string `json:"attributes" bson:"attributes"`
}

// DoubleBubbleMap compares two topics: shared similarities in a center
// column, topic-specific differences in outer columns. Difference rows are
// paired left/right at identical vertical offsets.
type DoubleBubbleMap struct {
	TopicLeft        string   `json:"topic_left" bson:"topic_left"`
	TopicRight       string   `json:"topic_right" bson:"topic_right"`
	Similarities     []string `json:"similarities" bson:"similarities"`
	DifferencesLeft  []string `json:"differences_left" bson:"differences_left"`
	DifferencesRight []string `json:"differences_right" bson:"differences_right"`
}

// TreeNode is one entry in a classification tree. Children preserve reading
// order.
type TreeNode struct {
	Text     string     `json:"text" bson:"text"`
	Children []TreeNode `json:"children,omitempty" bson:"children,omitempty"`
}

// TreeMap defines a classification hierarchy rooted at a single concept.
type TreeMap struct {
	Root TreeNode `json:"root" bson:"root"`
}

// BracePart is one physical part of a whole, optionally split into subparts.
type BracePart struct {
	Name     string   `json:"name" bson:"name"`
	Subparts []string `json:"subparts,omitempty" bson:"subparts,omitempty"`
}

// BraceMap defines a whole/part decomposition laid out left to right.
type BraceMap struct {
	Whole string      `json:"whole" bson:"whole"`
	Parts []BracePart `json:"parts" bson:"parts"`
}

// FlowStep is one step of a sequence, optionally annotated with substeps
// stacked perpendicular to the main axis.
type FlowStep struct {
	Text     string   `json:"text" bson:"text"`
	Substeps []string `json:"substeps,omitempty" bson:"substeps,omitempty"`
}

// FlowMap defines an ordered sequence of steps along one axis.
type FlowMap struct {
	Title       string      `json:"title,omitempty" bson:"title,omitempty"`
	Steps       []FlowStep  `json:"steps" bson:"steps"`
	Orientation Orientation `json:"orientation,omitempty" bson:"orientation,omitempty"`
}

// MultiFlowMap defines a cause/effect analysis around one central event.
type MultiFlowMap struct {
	Event   string   `json:"event" bson:"event"`
	Causes  []string `json:"causes" bson:"causes"`
	Effects []string `json:"effects" bson:"effects"`
}

// BridgePair is one analogy pair: the upper and lower terms share the
// relating factor with every other pair in the map.
type BridgePair struct {
	Upper string `json:"upper" bson:"upper"`
	Lower string `json:"lower" bson:"lower"`
}

// BridgeMap defines an analogy bridge: pairs along a shared baseline with a
// relating factor.
type BridgeMap struct {
	Relation string       `json:"relation,omitempty" bson:"relation,omitempty"`
	Pairs    []BridgePair `json:"pairs" bson:"pairs"`
}

// MindBranch is one branch of a mind map. Branches alternate sides around
// the central topic; children nest arbitrarily deep.
type MindBranch struct {
	Text     string       `json:"text" bson:"text"`
	Children []MindBranch `json:"children,omitempty" bson:"children,omitempty"`
}

// MindMap defines a two-sided radial hierarchy around a central topic.
type MindMap struct {
	Topic    string       `json:"topic" bson:"topic"`
	Branches []MindBranch `json:"branches" bson:"branches"`
}

// ConceptNode is a freeform node with author-controlled position. Concept
// maps are the only archetype whose shapes are draggable.
type ConceptNode struct {
	ID   string  `json:"id" bson:"id"`
	Text string  `json:"text" bson:"text"`
	X    float64 `json:"x" bson:"x"`
	Y    float64 `json:"y" bson:"y"`
	// Placed is false for nodes the author has not positioned yet; the
	// compiler assigns those a position with the graph layout engine.
	Placed bool `json:"placed,omitempty" bson:"placed,omitempty"`
}

// ConceptLink is a labeled relation between two concept nodes.
type ConceptLink struct {
	From  string `json:"from" bson:"from"`
	To    string `json:"to" bson:"to"`
	Label string `json:"label,omitempty" bson:"label,omitempty"`
}

// ConceptMap defines a freeform labeled graph of concepts.
type ConceptMap struct {
	Nodes []ConceptNode `json:"nodes" bson:"nodes"`
	Links []ConceptLink `json:"links,omitempty" bson:"links,omitempty"`
}

// =============================================================================
// Saved Geometry
// =============================================================================

// SavedNode is a node from a previously saved diagram, geometry included.
type SavedNode struct {
	ID     string  `json:"id" bson:"id"`
	Text   string  `json:"text,omitempty" bson:"text,omitempty"`
	Type   string  `json:"type,omitempty" bson:"type,omitempty"`
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width,omitempty" bson:"width,omitempty"`
	Height float64 `json:"height,omitempty" bson:"height,omitempty"`
}

// SavedEdge is an edge from a previously saved diagram.
type SavedEdge struct {
	ID     string `json:"id" bson:"id"`
	Source string `json:"source" bson:"source"`
	Target string `json:"target" bson:"target"`
	Label  string `json:"label,omitempty" bson:"label,omitempty"`
}

// =============================================================================
// Serialization API
// =============================================================================

// Marshal serializes a specification to pretty-printed JSON bytes.
func Marshal(s *Spec) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTo(s, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal deserializes JSON bytes into a specification and validates it.
func Unmarshal(data []byte) (*Spec, error) {
	return readFrom(bytes.NewReader(data))
}

// WriteFile writes a specification to a JSON file.
// The file is created with 0644 permissions.
func WriteFile(s *Spec, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeTo(s, f)
}

// ReadFile reads a JSON file and returns the decoded specification.
// Returns validation errors for malformed documents.
func ReadFile(path string) (*Spec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readFrom(f)
}

// Read decodes a JSON specification from an io.Reader.
func Read(r io.Reader) (*Spec, error) {
	return readFrom(r)
}

func writeTo(s *Spec, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readFrom(r io.Reader) (*Spec, error) {
	var s Spec
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Clone returns a deep, independent copy of the specification via a JSON
// round trip. This relies on the plain-data invariant and is how the history
// stack snapshots state.
func (s *Spec) Clone() *Spec {
	data, err := json.Marshal(s)
	if err != nil {
		// Unreachable while the plain-data invariant holds.
		panic(fmt.Sprintf("spec: clone marshal: %v", err))
	}
	var out Spec
	if err := json.Unmarshal(data, &out); err != nil {
		panic(fmt.Sprintf("spec: clone unmarshal: %v", err))
	}
	return &out
}
