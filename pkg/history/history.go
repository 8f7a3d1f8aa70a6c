// Package history implements the bounded undo/redo stack for editing
// sessions.
//
// The stack stores full specification snapshots rather than inverse
// operations: every mutation pushes a deep copy of the document after the
// change, and undo/redo move a cursor across the stored states. Snapshots
// make replay trivially correct at the cost of memory, which the capacity
// bound keeps fixed.
//
// # Branch cutting
//
// Pushing while the cursor sits behind the newest entry discards the entries
// ahead of the cursor. There is no redo tree; the timeline is linear and the
// abandoned branch is gone.
package history

import (
	"time"

	"github.com/google/uuid"

	"github.com/mapweaver/mapweaver/pkg/errors"
	"github.com/mapweaver/mapweaver/pkg/spec"
)

// DefaultCapacity bounds the stack when the caller does not.
const DefaultCapacity = 50

// Entry is one recorded document state.
type Entry struct {
	ID       string         `json:"id"`
	Action   string         `json:"action"`
	Meta     map[string]any `json:"meta,omitempty"`
	Snapshot *spec.Spec     `json:"snapshot"`
	At       time.Time      `json:"at"`
}

// Stack is a bounded, branch-cutting undo/redo stack. It is not safe for
// concurrent use; sessions own their stack and serialize access.
type Stack struct {
	entries  []Entry
	cursor   int // index of the current state, -1 when empty
	capacity int
}

// New returns an empty stack. A non-positive capacity falls back to
// DefaultCapacity.
func New(capacity int) *Stack {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Stack{
		entries:  make([]Entry, 0, capacity),
		cursor:   -1,
		capacity: capacity,
	}
}

// Push records the document state after an action. The snapshot is deep
// copied on the way in, so later edits to the live document cannot reach
// back into history. Entries ahead of the cursor are cut; when the stack is
// full the oldest entry is evicted instead of advancing the cursor, which
// preserves how far back undo can reach relative to the newest state.
func (st *Stack) Push(action string, meta map[string]any, snapshot *spec.Spec) Entry {
	if st.cursor < len(st.entries)-1 {
		st.entries = st.entries[:st.cursor+1]
	}

	e := Entry{
		ID:       uuid.NewString(),
		Action:   action,
		Meta:     meta,
		Snapshot: snapshot.Clone(),
		At:       time.Now().UTC(),
	}
	st.entries = append(st.entries, e)

	if len(st.entries) > st.capacity {
		st.entries = st.entries[1:]
	} else {
		st.cursor++
	}
	return e
}

// CanUndo reports whether an older state exists.
func (st *Stack) CanUndo() bool {
	return st.cursor > 0
}

// CanRedo reports whether an abandoned-not-yet state exists ahead of the
// cursor.
func (st *Stack) CanRedo() bool {
	return st.cursor < len(st.entries)-1
}

// Undo steps back one state and returns a copy of it. At the oldest state it
// returns a HISTORY_BOUNDARY warning and leaves the cursor alone.
func (st *Stack) Undo() (*spec.Spec, error) {
	if !st.CanUndo() {
		return nil, errors.New(errors.ErrCodeHistoryBoundary, "nothing to undo")
	}
	st.cursor--
	return st.entries[st.cursor].Snapshot.Clone(), nil
}

// Redo steps forward one state and returns a copy of it. At the newest state
// it returns a HISTORY_BOUNDARY warning and leaves the cursor alone.
func (st *Stack) Redo() (*spec.Spec, error) {
	if !st.CanRedo() {
		return nil, errors.New(errors.ErrCodeHistoryBoundary, "nothing to redo")
	}
	st.cursor++
	return st.entries[st.cursor].Snapshot.Clone(), nil
}

// Current returns a copy of the state under the cursor, or nil on an empty
// stack.
func (st *Stack) Current() *spec.Spec {
	if st.cursor < 0 {
		return nil
	}
	return st.entries[st.cursor].Snapshot.Clone()
}

// Entries returns the recorded entries oldest-first, without snapshots
// copied; callers must treat the snapshots as read-only.
func (st *Stack) Entries() []Entry {
	out := make([]Entry, len(st.entries))
	copy(out, st.entries)
	return out
}

// Len returns the number of stored states.
func (st *Stack) Len() int { return len(st.entries) }

// Clear drops all history.
func (st *Stack) Clear() {
	st.entries = st.entries[:0]
	st.cursor = -1
}
