package hier

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/mapweaver/mapweaver/pkg/geometry"
)

// PositionGraph places an arbitrary (possibly cyclic) labeled graph with the
// Graphviz layout engine. It is used for freeform concept-map nodes the
// author has not positioned yet, where the layered forest algorithm does not
// apply.
//
// The graph is emitted as DOT, rendered to SVG, and node centers are read
// back from the ellipse elements. Graphviz output is deterministic for a
// given input, so this path preserves the compiler's purity guarantee.
func PositionGraph(g Graph) (map[string]geometry.Point, error) {
	if len(g.Nodes) == 0 {
		return map[string]geometry.Point{}, nil
	}

	dot := toDOT(g)

	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	parsed, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer parsed.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, parsed, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	return parsePositions(buf.Bytes(), g.Nodes)
}

// toDOT emits the graph in DOT format. Node statements carry explicit sizes
// (in points) so Graphviz spaces shapes the way the canvas will draw them.
func toDOT(g Graph) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("  ranksep=0.7;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		fmt.Fprintf(&buf, "  %q [width=%.2f, height=%.2f, fixedsize=true];\n",
			n.ID, n.Width/72, n.Height/72)
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// nodeEllipseRe matches one rendered node: its title (the node ID) followed
// by the ellipse carrying the center coordinates.
var nodeEllipseRe = regexp.MustCompile(
	`<title>([^<]+)</title>\s*<ellipse[^>]*\bcx="(-?[0-9.]+)"[^>]*\bcy="(-?[0-9.]+)"`)

// parsePositions extracts node centers from Graphviz SVG output. SVG Y grows
// downward already, matching the canvas convention; coordinates are shifted
// so the layout's top-left corner sits at the origin.
func parsePositions(svg []byte, nodes []Node) (map[string]geometry.Point, error) {
	raw := make(map[string]geometry.Point, len(nodes))
	for _, m := range nodeEllipseRe.FindAllSubmatch(svg, -1) {
		x, errX := strconv.ParseFloat(string(m[2]), 64)
		y, errY := strconv.ParseFloat(string(m[3]), 64)
		if errX != nil || errY != nil {
			continue
		}
		raw[string(m[1])] = geometry.Point{X: x, Y: y}
	}

	out := make(map[string]geometry.Point, len(nodes))
	minX, minY := 0.0, 0.0
	first := true
	for _, n := range nodes {
		p, ok := raw[n.ID]
		if !ok {
			return nil, fmt.Errorf("graphviz output missing node %q", n.ID)
		}
		if first || p.X < minX {
			minX = p.X
		}
		if first || p.Y < minY {
			minY = p.Y
		}
		first = false
		out[n.ID] = p
	}

	for id, p := range out {
		out[id] = geometry.Point{X: p.X - minX, Y: p.Y - minY}
	}
	return out, nil
}
