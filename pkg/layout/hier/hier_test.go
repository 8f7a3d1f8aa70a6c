package hier

import (
	"fmt"
	"testing"
)

func box(id string) Node { return Node{ID: id, Width: 100, Height: 40} }

func smallTree() Graph {
	return Graph{
		Nodes: []Node{box("root"), box("a"), box("b"), box("a1"), box("a2")},
		Edges: []Edge{
			{From: "root", To: "a"},
			{From: "root", To: "b"},
			{From: "a", To: "a1"},
			{From: "a", To: "a2"},
		},
	}
}

func TestLayoutRanksTopToBottom(t *testing.T) {
	pos := Layout(smallTree(), TopToBottom, DefaultOptions())

	if len(pos) != 5 {
		t.Fatalf("positions = %d, want 5", len(pos))
	}

	// Ranks map to increasing Y.
	if !(pos["root"].Y < pos["a"].Y && pos["a"].Y < pos["a1"].Y) {
		t.Errorf("rank ordering broken: root=%v a=%v a1=%v", pos["root"].Y, pos["a"].Y, pos["a1"].Y)
	}
	// Siblings share a rank.
	if pos["a"].Y != pos["b"].Y {
		t.Errorf("siblings a/b at %v and %v, want same Y", pos["a"].Y, pos["b"].Y)
	}
	if pos["a1"].Y != pos["a2"].Y {
		t.Errorf("siblings a1/a2 at %v and %v, want same Y", pos["a1"].Y, pos["a2"].Y)
	}
}

func TestLayoutParentCenteredOverChildren(t *testing.T) {
	pos := Layout(smallTree(), TopToBottom, DefaultOptions())

	mid := (pos["a1"].X + pos["a2"].X) / 2
	if pos["a"].X != mid {
		t.Errorf("parent a at X=%v, want centered over children at %v", pos["a"].X, mid)
	}
}

func TestLayoutSiblingsDoNotOverlap(t *testing.T) {
	opts := DefaultOptions()
	pos := Layout(smallTree(), TopToBottom, opts)

	gap := pos["a2"].X - pos["a1"].X
	if gap < 100+opts.NodeSep {
		t.Errorf("sibling gap = %v, want >= %v", gap, 100+opts.NodeSep)
	}
}

func TestLayoutDirections(t *testing.T) {
	g := Graph{
		Nodes: []Node{box("r"), box("c")},
		Edges: []Edge{{From: "r", To: "c"}},
	}

	lr := Layout(g, LeftToRight, DefaultOptions())
	if !(lr["c"].X > lr["r"].X) {
		t.Errorf("LeftToRight: child X %v not right of root X %v", lr["c"].X, lr["r"].X)
	}

	rl := Layout(g, RightToLeft, DefaultOptions())
	if !(rl["c"].X < rl["r"].X) {
		t.Errorf("RightToLeft: child X %v not left of root X %v", rl["c"].X, rl["r"].X)
	}
}

func TestLayoutDeterministic(t *testing.T) {
	a := Layout(smallTree(), TopToBottom, DefaultOptions())
	b := Layout(smallTree(), TopToBottom, DefaultOptions())
	for id := range a {
		if a[id] != b[id] {
			t.Fatalf("node %s differs between runs: %v vs %v", id, a[id], b[id])
		}
	}
}

func TestLayoutEmptyGraph(t *testing.T) {
	pos := Layout(Graph{}, TopToBottom, DefaultOptions())
	if len(pos) != 0 {
		t.Errorf("positions = %v, want empty", pos)
	}
}

func TestLayoutCenteredOnZero(t *testing.T) {
	pos := Layout(smallTree(), TopToBottom, DefaultOptions())

	lo, hi := pos["a1"].X-50, pos["b"].X+50
	for _, p := range pos {
		if p.X-50 < lo {
			lo = p.X - 50
		}
		if p.X+50 > hi {
			hi = p.X + 50
		}
	}
	if center := (lo + hi) / 2; center < -1e-9 || center > 1e-9 {
		t.Errorf("forest center = %v, want 0", center)
	}
}

func TestLayoutIgnoresDanglingEdges(t *testing.T) {
	g := Graph{
		Nodes: []Node{box("r")},
		Edges: []Edge{{From: "r", To: "ghost"}},
	}
	pos := Layout(g, TopToBottom, DefaultOptions())
	if _, ok := pos["r"]; !ok {
		t.Error("node r missing from layout")
	}
	if _, ok := pos["ghost"]; ok {
		t.Error("dangling edge target appeared in layout")
	}
}

func ExampleLayout() {
	g := Graph{
		Nodes: []Node{
			{ID: "root", Width: 100, Height: 40},
			{ID: "left", Width: 100, Height: 40},
			{ID: "right", Width: 100, Height: 40},
		},
		Edges: []Edge{
			{From: "root", To: "left"},
			{From: "root", To: "right"},
		},
	}
	pos := Layout(g, TopToBottom, DefaultOptions())

	fmt.Println("placed:", len(pos))
	fmt.Println("root above children:", pos["root"].Y < pos["left"].Y)
	fmt.Println("siblings level:", pos["left"].Y == pos["right"].Y)
	// Output:
	// placed: 3
	// root above children: true
	// siblings level: true
}
