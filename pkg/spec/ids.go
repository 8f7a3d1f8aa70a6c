package spec

import (
	"fmt"
	"strconv"
	"strings"
)

// Node IDs are derived deterministically from specification paths so that
// re-compilation after an edit can re-associate rendered shapes with spec
// entries. The grammar is archetype-scoped:
//
//	circle:        topic, boundary, context-{i}
//	bubble:        topic, bubble-{i}
//	double bubble: topic-left, topic-right, similarity-{i}, diff-left-{i}, diff-right-{i}
//	tree:          root, branch-{i}[-{j}...]
//	brace:         whole, part-{i}, subpart-{i}-{j}
//	flow:          title, step-{i}, substep-{i}-{j}
//	multi-flow:    event, cause-{i}, effect-{i}
//	bridge:        relation, upper-{i}, lower-{i}
//	mindmap:       topic, branch-l-{i}[-{j}...], branch-r-{i}[-{j}...]
//	concept:       author-assigned IDs
const (
	IDTopic      = "topic"
	IDBoundary   = "boundary"
	IDTopicLeft  = "topic-left"
	IDTopicRight = "topic-right"
	IDRoot       = "root"
	IDWhole      = "whole"
	IDTitle      = "title"
	IDEvent      = "event"
	IDRelation   = "relation"
)

// ContextID returns the node ID for circle-map context entry i.
func ContextID(i int) string { return fmt.Sprintf("context-%d", i) }

// BubbleID returns the node ID for bubble-map attribute i.
func BubbleID(i int) string { return fmt.Sprintf("bubble-%d", i) }

// SimilarityID returns the node ID for double-bubble similarity i.
func SimilarityID(i int) string { return fmt.Sprintf("similarity-%d", i) }

// DiffLeftID returns the node ID for the left difference at row i.
func DiffLeftID(i int) string { return fmt.Sprintf("diff-left-%d", i) }

// DiffRightID returns the node ID for the right difference at row i.
func DiffRightID(i int) string { return fmt.Sprintf("diff-right-%d", i) }

// BranchID returns the node ID for the tree entry at the given child path
// under the root, e.g. BranchID(1, 0) == "branch-1-0".
func BranchID(path ...int) string {
	parts := make([]string, 0, len(path)+1)
	parts = append(parts, "branch")
	for _, i := range path {
		parts = append(parts, strconv.Itoa(i))
	}
	return strings.Join(parts, "-")
}

// MindBranchID returns the node ID for a mind-map branch on the given side
// ("l" or "r") at the given path, e.g. MindBranchID("r", 1, 0) == "branch-r-1-0".
func MindBranchID(side string, path ...int) string {
	parts := make([]string, 0, len(path)+2)
	parts = append(parts, "branch", side)
	for _, i := range path {
		parts = append(parts, strconv.Itoa(i))
	}
	return strings.Join(parts, "-")
}

// PartID returns the node ID for brace-map part i.
func PartID(i int) string { return fmt.Sprintf("part-%d", i) }

// SubpartID returns the node ID for subpart j of brace-map part i.
func SubpartID(i, j int) string { return fmt.Sprintf("subpart-%d-%d", i, j) }

// StepID returns the node ID for flow-map step i.
func StepID(i int) string { return fmt.Sprintf("step-%d", i) }

// SubstepID returns the node ID for substep j of flow-map step i.
func SubstepID(i, j int) string { return fmt.Sprintf("substep-%d-%d", i, j) }

// CauseID returns the node ID for multi-flow cause i.
func CauseID(i int) string { return fmt.Sprintf("cause-%d", i) }

// EffectID returns the node ID for multi-flow effect i.
func EffectID(i int) string { return fmt.Sprintf("effect-%d", i) }

// UpperID returns the node ID for the upper term of bridge pair i.
func UpperID(i int) string { return fmt.Sprintf("upper-%d", i) }

// LowerID returns the node ID for the lower term of bridge pair i.
func LowerID(i int) string { return fmt.Sprintf("lower-%d", i) }

// ParseIndexedID splits an ID of the form "{prefix}-{i}" and returns the
// index. Reconstruction from rendered nodes uses this to recover spec order.
func ParseIndexedID(id, prefix string) (int, bool) { return indexedID(id, prefix) }

// ParsePathID splits an ID of the form "{prefix}-{i}-{j}..." into its index
// path.
func ParsePathID(id, prefix string) ([]int, bool) { return pathID(id, prefix) }

// ParseMindBranchID splits a mind-map branch ID into its side tag ("l" or
// "r") and side-relative index path.
func ParseMindBranchID(id string) (side string, path []int, ok bool) {
	return mindPath(id)
}

// indexedID splits an id of the form "{prefix}-{i}" and returns the index.
func indexedID(id, prefix string) (int, bool) {
	rest, ok := strings.CutPrefix(id, prefix+"-")
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(rest)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}

// pathID splits an id of the form "{prefix}-{i}-{j}..." into its index path.
func pathID(id, prefix string) ([]int, bool) {
	rest, ok := strings.CutPrefix(id, prefix+"-")
	if !ok {
		return nil, false
	}
	fields := strings.Split(rest, "-")
	path := make([]int, len(fields))
	for k, f := range fields {
		i, err := strconv.Atoi(f)
		if err != nil || i < 0 {
			return nil, false
		}
		path[k] = i
	}
	return path, true
}
