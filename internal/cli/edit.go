package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mapweaver/mapweaver/pkg/config"
	"github.com/mapweaver/mapweaver/pkg/geometry"
	"github.com/mapweaver/mapweaver/pkg/interact"
	"github.com/mapweaver/mapweaver/pkg/layout"
	"github.com/mapweaver/mapweaver/pkg/session"
	"github.com/mapweaver/mapweaver/pkg/spec"
	"github.com/mapweaver/mapweaver/pkg/viewport"
)

// newEditCmd creates the edit command: an interactive terminal session.
func newEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit [spec.json]",
		Short: "Edit a diagram interactively in the terminal",
		Long: `Edit a diagram interactively in the terminal.

The edit command compiles the specification and renders it as a character
canvas. Click a node to select it (a second click within the double-click
window opens its text editor), shift-click to multi-select, and use the
keyboard for structural edits. Changes are written back to the file on save.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(configFromContext(cmd.Context()), args[0])
		},
	}
	return cmd
}

func runEdit(cfg config.Config, input string) error {
	doc, err := spec.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load specification %s: %w", input, err)
	}

	m, err := newEditModel(cfg, input, doc)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

// =============================================================================
// Render Target
// =============================================================================

// canvasTarget adapts the session's compiled layout to the interaction
// machine's view of the world. Geometry changes flow through session edits,
// so the move callbacks only touch a scratch overlay used mid-drag.
type canvasTarget struct {
	result  func() layout.Result
	overlay map[string]geometry.Point
}

func (t *canvasTarget) current(n layout.Node) geometry.Point {
	if p, ok := t.overlay[n.ID]; ok {
		return p
	}
	return n.Position
}

func (t *canvasTarget) ShapeByNodeID(nodeID string) (interact.Shape, bool) {
	res := t.result()
	n := res.NodeByID(nodeID)
	if n == nil {
		return interact.Shape{}, false
	}
	shifted := *n
	shifted.Position = t.current(*n)
	return interact.Shape{NodeID: n.ID, Bounds: shifted.Bounds()}, true
}

func (t *canvasTarget) AssociatedText(nodeID string) (string, bool) {
	n := t.result().NodeByID(nodeID)
	if n == nil {
		return "", false
	}
	return n.Text, true
}

func (t *canvasTarget) EdgeEnds() []interact.EdgeEnd {
	res := t.result()
	ends := make([]interact.EdgeEnd, 0, 2*len(res.Edges))
	for _, e := range res.Edges {
		if src := res.NodeByID(e.Source); src != nil {
			ends = append(ends, interact.EdgeEnd{EdgeID: e.ID, End: interact.EndSource, At: t.current(*src)})
		}
		if dst := res.NodeByID(e.Target); dst != nil {
			ends = append(ends, interact.EdgeEnd{EdgeID: e.ID, End: interact.EndTarget, At: t.current(*dst)})
		}
	}
	return ends
}

func (t *canvasTarget) MoveShape(nodeID string, to geometry.Point) {
	t.overlay[nodeID] = to
}

func (t *canvasTarget) MoveEdgeEnd(edgeID, end string, to geometry.Point) {
	// Edges re-derive their endpoints from node positions at render time.
}

var _ interact.RenderTarget = (*canvasTarget)(nil)

// =============================================================================
// Model
// =============================================================================

// resolveTickMsg fires when the pending-click window may have expired.
type resolveTickMsg struct{}

type editModel struct {
	path   string
	sess   *session.Session
	target *canvasTarget

	width  int
	height int
	win    viewport.Window

	editing    bool
	editNodeID string
	editText   string

	status string
	dirty  bool
}

func newEditModel(cfg config.Config, path string, doc *spec.Spec) (*editModel, error) {
	m := &editModel{path: path, status: "click to select · e edit · u undo · r redo · s save · q quit"}

	target := &canvasTarget{overlay: make(map[string]geometry.Point)}
	opts := sessionOptions(cfg, target)
	sess, err := session.New(doc, opts)
	if err != nil {
		return nil, err
	}
	target.result = sess.Result

	m.sess = sess
	m.target = target
	return m, nil
}

func (m *editModel) Init() tea.Cmd {
	return nil
}

// scheduleResolve arms a tick for the machine's pending-click deadline.
func (m *editModel) scheduleResolve() tea.Cmd {
	deadline, ok := m.sess.Machine().Deadline()
	if !ok {
		return nil
	}
	return tea.Tick(time.Until(deadline)+time.Millisecond, func(time.Time) tea.Msg {
		return resolveTickMsg{}
	})
}

func (m *editModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.refit()
		return m, nil

	case resolveTickMsg:
		res := m.sess.Machine().ResolvePending(time.Now())
		if res.Kind == interact.ResolvedSelected {
			m.status = "selected " + res.NodeID
		}
		return m, nil

	case tea.MouseMsg:
		if m.editing {
			return m, nil
		}
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			return m.handleClick(msg.X, msg.Y, msg.Shift)
		}
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.handleEditKey(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *editModel) handleClick(cellX, cellY int, shift bool) (tea.Model, tea.Cmd) {
	nodeID := m.nodeAt(cellX, cellY)
	res := m.sess.Machine().Click(nodeID, shift, time.Now())
	switch res.Kind {
	case interact.ResolvedEditor:
		m.editing = true
		m.editNodeID = res.NodeID
		m.editText = res.Text
		m.status = "editing " + res.NodeID + " · enter apply · esc cancel"
		return m, nil
	case interact.ResolvedSelected:
		// A click on another node forced the previous pending click
		// through; the new click is still pending its own window.
		m.status = "selected " + res.NodeID
	}
	return m, m.scheduleResolve()
}

func (m *editModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sel := m.sess.Machine().Selection()

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "u":
		m.applyStep(m.sess.Undo(), "undid")
	case "r":
		m.applyStep(m.sess.Redo(), "redid")

	case "e":
		if len(sel) == 1 {
			if text, ok := m.target.AssociatedText(sel[0]); ok {
				m.editing = true
				m.editNodeID = sel[0]
				m.editText = text
				m.status = "editing " + sel[0] + " · enter apply · esc cancel"
			}
		}

	case "a":
		if len(sel) == 1 {
			m.applyStep(m.sess.AddSibling(sel[0], "New"), "added sibling")
		}
	case "A":
		if len(sel) == 1 {
			m.applyStep(m.sess.AddChild(sel[0], "New"), "added child")
		}
	case "d", "backspace":
		if len(sel) == 1 {
			m.applyStep(m.sess.DeleteNode(sel[0]), "deleted "+sel[0])
		}
	case "o":
		m.applyStep(m.sess.ToggleOrientation(), "toggled orientation")

	case "s":
		if err := spec.WriteFile(m.sess.Spec(), m.path); err != nil {
			m.status = "save failed: " + err.Error()
		} else {
			m.dirty = false
			m.status = "saved " + m.path
		}

	case "esc":
		m.sess.Machine().ClearSelection()
		m.status = "selection cleared"
	}
	return m, nil
}

func (m *editModel) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.applyStep(m.sess.UpdateText(m.editNodeID, m.editText), "updated "+m.editNodeID)
		m.editing = false
	case tea.KeyEscape:
		m.editing = false
		m.status = "edit cancelled"
	case tea.KeyBackspace:
		if len(m.editText) > 0 {
			runes := []rune(m.editText)
			m.editText = string(runes[:len(runes)-1])
		}
	case tea.KeySpace:
		m.editText += " "
	case tea.KeyRunes:
		m.editText += string(msg.Runes)
	}
	return m, nil
}

// applyStep records an edit or history step result in the status line.
// Warning-grade failures (history boundary, forbidden edits) just report.
func (m *editModel) applyStep(err error, ok string) {
	if err != nil {
		m.status = err.Error()
		return
	}
	m.dirty = true
	m.status = ok
	m.refit()
}

func (m *editModel) refit() {
	if m.width == 0 || m.height == 0 {
		return
	}
	m.win = m.sess.Fit(float64(m.width), float64(m.height-2), viewport.ModeFullCanvas, false)
}

// =============================================================================
// Hit Testing & View
// =============================================================================

// toContent maps a terminal cell to content coordinates through the fitted
// window. Terminal cells are roughly twice as tall as wide; the vertical
// scale is halved to compensate.
func (m *editModel) toContent(cellX, cellY int) geometry.Point {
	if m.win.Scale == 0 {
		return geometry.Point{}
	}
	return geometry.Point{
		X: m.win.OriginX + float64(cellX)/m.win.Scale,
		Y: m.win.OriginY + float64(cellY)*2/m.win.Scale,
	}
}

// toCell is the inverse mapping, content to terminal cell.
func (m *editModel) toCell(p geometry.Point) (int, int) {
	return int((p.X - m.win.OriginX) * m.win.Scale), int((p.Y - m.win.OriginY) * m.win.Scale / 2)
}

func (m *editModel) nodeAt(cellX, cellY int) string {
	p := m.toContent(cellX, cellY)
	res := m.sess.Result()
	// Walk back to front so overlapping top shapes win.
	for i := len(res.Nodes) - 1; i >= 0; i-- {
		n := res.Nodes[i]
		if !m.sess.Machine().HoverAllowed(n.Type) {
			continue
		}
		if n.Bounds().Contains(p) {
			return n.ID
		}
	}
	return ""
}

func (m *editModel) View() string {
	if m.width == 0 {
		return "loading..."
	}

	rows := m.height - 2
	if rows < 1 {
		rows = 1
	}
	grid := make([][]rune, rows)
	for i := range grid {
		grid[i] = make([]rune, m.width)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	selected := make(map[string]bool)
	for _, id := range m.sess.Machine().Selection() {
		selected[id] = true
	}

	res := m.sess.Result()
	for _, n := range res.Nodes {
		label := n.Text
		if label == "" {
			continue
		}
		if selected[n.ID] {
			label = "[" + label + "]"
		}
		cx, cy := m.toCell(n.Position)
		m.blit(grid, cx-len([]rune(label))/2, cy, label)
	}

	var b strings.Builder
	for _, row := range grid {
		b.WriteString(strings.TrimRight(string(row), " "))
		b.WriteByte('\n')
	}

	if m.editing {
		b.WriteString(StyleHighlight.Render("text: "+m.editText+"▌") + "\n")
	} else {
		title := string(m.sess.Spec().Archetype)
		if m.dirty {
			title += " *"
		}
		b.WriteString(StyleTitle.Render(title) + "  " + StyleDim.Render(m.status) + "\n")
	}
	return b.String()
}

// blit writes text into the grid, clipping at the edges.
func (m *editModel) blit(grid [][]rune, x, y int, text string) {
	if y < 0 || y >= len(grid) {
		return
	}
	for i, r := range []rune(text) {
		cx := x + i
		if cx < 0 || cx >= len(grid[y]) {
			continue
		}
		grid[y][cx] = r
	}
}
