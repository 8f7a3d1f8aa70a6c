package interact

import (
	"reflect"
	"testing"
	"time"

	"github.com/mapweaver/mapweaver/pkg/events"
	"github.com/mapweaver/mapweaver/pkg/geometry"
	"github.com/mapweaver/mapweaver/pkg/layout"
)

// fakeTarget is an in-memory render target.
type fakeTarget struct {
	shapes map[string]Shape
	texts  map[string]string
	ends   []EdgeEnd

	shapeMoves map[string]geometry.Point
	endMoves   map[string]geometry.Point // keyed by edgeID+"/"+end
}

func newFakeTarget() *fakeTarget {
	return &fakeTarget{
		shapes:     make(map[string]Shape),
		texts:      make(map[string]string),
		shapeMoves: make(map[string]geometry.Point),
		endMoves:   make(map[string]geometry.Point),
	}
}

func (f *fakeTarget) addShape(id string, cx, cy float64, text string) {
	f.shapes[id] = Shape{NodeID: id, Bounds: geometry.RectAround(geometry.Point{X: cx, Y: cy}, 40, 40)}
	f.texts[id] = text
}

func (f *fakeTarget) ShapeByNodeID(id string) (Shape, bool) {
	s, ok := f.shapes[id]
	return s, ok
}

func (f *fakeTarget) AssociatedText(id string) (string, bool) {
	t, ok := f.texts[id]
	return t, ok
}

func (f *fakeTarget) EdgeEnds() []EdgeEnd { return f.ends }

func (f *fakeTarget) MoveShape(id string, to geometry.Point) {
	f.shapeMoves[id] = to
}

func (f *fakeTarget) MoveEdgeEnd(edgeID, end string, to geometry.Point) {
	f.endMoves[edgeID+"/"+end] = to
}

func newMachine(t *fakeTarget) (*Machine, *events.Bus) {
	bus := events.NewBus()
	return New(DefaultConfig(), t, bus), bus
}

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestDoubleClickOpensEditor(t *testing.T) {
	target := newFakeTarget()
	target.addShape("bubble-0", 100, 100, "Apples")
	m, bus := newMachine(target)

	var selections int
	bus.Subscribe(events.TopicSelectionChanged, func(events.Event) { selections++ })

	if r := m.Click("bubble-0", false, t0); r.Kind != ResolvedNothing {
		t.Fatalf("first click resolved immediately: %+v", r)
	}
	if m.State() != StatePendingSingleClick {
		t.Fatalf("state = %s, want pending", m.State())
	}

	r := m.Click("bubble-0", false, t0.Add(120*time.Millisecond))
	if r.Kind != ResolvedEditor || r.NodeID != "bubble-0" || r.Text != "Apples" {
		t.Fatalf("second click resolution = %+v, want editor on bubble-0", r)
	}
	if m.State() != StateIdle {
		t.Errorf("state = %s after double click, want idle", m.State())
	}

	// The cancelled timer firing late must be a no-op.
	if r := m.ResolvePending(t0.Add(300 * time.Millisecond)); r.Kind != ResolvedNothing {
		t.Errorf("stale timer resolved %+v", r)
	}
	if selections != 0 {
		t.Errorf("double click produced %d selection transitions, want 0", selections)
	}
}

func TestTwoDifferentNodesSelectBoth(t *testing.T) {
	target := newFakeTarget()
	target.addShape("bubble-0", 100, 100, "a")
	target.addShape("bubble-1", 200, 100, "b")
	m, bus := newMachine(target)

	var selections int
	bus.Subscribe(events.TopicSelectionChanged, func(events.Event) { selections++ })

	m.Click("bubble-0", false, t0)
	// Second click on a different node within the window: the first
	// commits immediately.
	r := m.Click("bubble-1", false, t0.Add(100*time.Millisecond))
	if r.Kind != ResolvedSelected || r.NodeID != "bubble-0" {
		t.Fatalf("forced resolution = %+v, want selection of bubble-0", r)
	}

	deadline, ok := m.Deadline()
	if !ok {
		t.Fatal("no pending deadline for the second click")
	}
	r = m.ResolvePending(deadline)
	if r.Kind != ResolvedSelected || r.NodeID != "bubble-1" {
		t.Fatalf("second resolution = %+v, want selection of bubble-1", r)
	}

	if selections != 2 {
		t.Errorf("selection transitions = %d, want 2", selections)
	}
	// Plain clicks replace; only the second node remains selected.
	if got := m.Selection(); !reflect.DeepEqual(got, []string{"bubble-1"}) {
		t.Errorf("selection = %v, want [bubble-1]", got)
	}
}

func TestModifierTogglesSelection(t *testing.T) {
	target := newFakeTarget()
	target.addShape("bubble-0", 100, 100, "a")
	target.addShape("bubble-1", 200, 100, "b")
	m, _ := newMachine(target)

	click := func(id string, modifier bool, at time.Time) {
		m.Click(id, modifier, at)
		m.ResolvePending(at.Add(DefaultDebounce))
	}

	click("bubble-0", false, t0)
	click("bubble-1", true, t0.Add(time.Second))
	if got := m.Selection(); !reflect.DeepEqual(got, []string{"bubble-0", "bubble-1"}) {
		t.Fatalf("selection = %v, want both", got)
	}

	// Toggling an already-selected node removes it.
	click("bubble-0", true, t0.Add(2*time.Second))
	if got := m.Selection(); !reflect.DeepEqual(got, []string{"bubble-1"}) {
		t.Errorf("selection = %v, want [bubble-1]", got)
	}
}

func TestDuplicateHandlerEventIgnored(t *testing.T) {
	target := newFakeTarget()
	target.addShape("bubble-0", 100, 100, "a")
	m, _ := newMachine(target)

	m.Click("bubble-0", false, t0)
	// The same physical click delivered again through a second handler.
	if r := m.Click("bubble-0", false, t0.Add(20*time.Millisecond)); r.Kind != ResolvedNothing {
		t.Fatalf("duplicate event resolved %+v", r)
	}

	// It did not count as a double click; the pending selection still
	// commits.
	r := m.ResolvePending(t0.Add(DefaultDebounce))
	if r.Kind != ResolvedSelected {
		t.Errorf("pending click lost to dedupe: %+v", r)
	}
}

func TestUnresolvableClickIgnored(t *testing.T) {
	m, _ := newMachine(newFakeTarget())

	if r := m.Click("", false, t0); r.Kind != ResolvedNothing {
		t.Errorf("empty node id resolved %+v", r)
	}
	if m.State() != StateIdle {
		t.Errorf("state = %s, want idle", m.State())
	}
}

func TestClearSelectionOnReplace(t *testing.T) {
	target := newFakeTarget()
	target.addShape("bubble-0", 100, 100, "a")
	m, _ := newMachine(target)

	m.Click("bubble-0", false, t0)
	m.ResolvePending(t0.Add(DefaultDebounce))
	m.ClearSelection()

	if got := m.Selection(); len(got) != 0 {
		t.Errorf("selection after clear = %v", got)
	}
}

func TestHoverSuppression(t *testing.T) {
	m, _ := newMachine(newFakeTarget())

	tests := []struct {
		typ  layout.NodeType
		want bool
	}{
		{layout.TypeTopic, false},
		{layout.TypeBoundary, false},
		{layout.TypeBubble, true},
		{layout.TypeLeaf, true},
	}
	for _, tt := range tests {
		if got := m.HoverAllowed(tt.typ); got != tt.want {
			t.Errorf("HoverAllowed(%s) = %v, want %v", tt.typ, got, tt.want)
		}
	}
}

func TestDragTracksCoincidentEdges(t *testing.T) {
	target := newFakeTarget()
	target.addShape("sun", 100, 100, "Sun")
	target.ends = []EdgeEnd{
		{EdgeID: "edge-sun-earth", End: EndSource, At: geometry.Point{X: 101, Y: 100}}, // within tolerance
		{EdgeID: "edge-moon-earth", End: EndSource, At: geometry.Point{X: 400, Y: 300}},
	}
	m, _ := newMachine(target)
	m.SetDraggable(true)

	if !m.DragStart("sun") {
		t.Fatal("DragStart refused")
	}
	m.DragMove(geometry.Point{X: 150, Y: 130})
	res, ok := m.DragEnd(geometry.Point{X: 200, Y: 160})
	if !ok {
		t.Fatal("DragEnd reported no drag")
	}

	if res.NodeID != "sun" || res.To.X != 200 || res.To.Y != 160 {
		t.Errorf("drag result = %+v", res)
	}
	if got := target.shapeMoves["sun"]; got.X != 200 || got.Y != 160 {
		t.Errorf("shape final position = %v", got)
	}
	// The attached endpoint kept its offset from the shape center.
	if got := target.endMoves["edge-sun-earth/source"]; got.X != 201 || got.Y != 160 {
		t.Errorf("tracked endpoint = %v, want (201, 160)", got)
	}
	// The far edge never moved.
	if _, moved := target.endMoves["edge-moon-earth/source"]; moved {
		t.Error("unrelated edge endpoint moved")
	}
	if m.State() != StateIdle {
		t.Errorf("state = %s after drag, want idle", m.State())
	}
}

func TestDragDisabledForFixedLayouts(t *testing.T) {
	target := newFakeTarget()
	target.addShape("bubble-0", 100, 100, "a")
	m, _ := newMachine(target)

	if m.DragStart("bubble-0") {
		t.Error("drag started with dragging disabled")
	}
}

func TestDragWithNoEdgesCompletes(t *testing.T) {
	target := newFakeTarget()
	target.addShape("island", 100, 100, "alone")
	m, _ := newMachine(target)
	m.SetDraggable(true)

	if !m.DragStart("island") {
		t.Fatal("DragStart refused")
	}
	if _, ok := m.DragEnd(geometry.Point{X: 1, Y: 2}); !ok {
		t.Error("isolated shape drag did not complete")
	}
}
