package cli

import (
	"fmt"
	"math"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/rrgraph/pkg/interact"
	"github.com/matzehuels/rrgraph/pkg/layout"
	"github.com/matzehuels/rrgraph/pkg/pipeline"
	"github.com/matzehuels/rrgraph/pkg/rrg"
)

// inspectCommand creates the inspect command: an interactive terminal view
// of the chart driven by the same hover machine as the SVG and websocket
// clients.
func (c *CLI) inspectCommand() *cobra.Command {
	var noCache bool
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "inspect [sectors.json | sectors.layout.json]",
		Short: "Explore a chart interactively in the terminal",
		Long: `Explore a chart interactively in the terminal.

Markers are drawn on a character grid. Hover them with the mouse, or step
through them with tab / arrow keys; esc leaves the hovered marker, q quits.

The argument may be a sector file or a stored layout (*.layout.json).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := c.inspectLayout(cmd, args[0], opts, noCache)
			if err != nil {
				return err
			}
			p := tea.NewProgram(newInspectModel(l), tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	layoutFlags(cmd, &opts)
	return cmd
}

func (c *CLI) inspectLayout(cmd *cobra.Command, input string, opts pipeline.Options, noCache bool) (layout.Layout, error) {
	if strings.HasSuffix(basePathNoExt(input), ".layout") {
		return pipeline.LoadLayout(input)
	}

	sectors, err := c.loadSectors(input)
	if err != nil {
		return layout.Layout{}, err
	}
	runner, err := c.newRunner(cmd.Context(), noCache)
	if err != nil {
		return layout.Layout{}, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	c.Config.ApplyLayout(&opts)
	return runner.GenerateLayout(cmd.Context(), sectors, opts)
}

func basePathNoExt(path string) string {
	for _, ext := range []string{".json", ".mpk", ".msgpack"} {
		if strings.HasSuffix(path, ext) {
			return strings.TrimSuffix(path, ext)
		}
	}
	return path
}

// =============================================================================
// inspectModel - bubbletea hover session
// =============================================================================

const (
	gridCols = 72
	gridRows = 24

	// headerLines is the number of lines above the grid in View.
	headerLines = 2
)

var (
	inspectCrossStyle = lipgloss.NewStyle().Foreground(colorDim)
	inspectTrailStyle = lipgloss.NewStyle().Foreground(colorGray)
	inspectPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1).
				Width(30)
)

// inspectModel owns one hover machine. Markers are visited in screen
// order, left to right.
type inspectModel struct {
	layout  layout.Layout
	machine *interact.Machine
	order   []string
	cursor  int

	// pointer is the last mouse position in screen pixels.
	pointer    rrg.Screen
	hasPointer bool

	transitions int
}

func newInspectModel(l layout.Layout) *inspectModel {
	order := make([]string, len(l.Markers))
	idx := make([]int, len(l.Markers))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return l.Markers[idx[a]].X < l.Markers[idx[b]].X })
	for i, j := range idx {
		order[i] = l.Markers[j].ID
	}

	m := &inspectModel{layout: l, machine: interact.NewMachine(), order: order, cursor: -1}
	m.machine.OnTransition = func(from, to interact.State) { m.transitions++ }
	return m
}

func (m *inspectModel) Init() tea.Cmd {
	return nil
}

func (m *inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab", "right", "l", "down", "j":
			m.step(1)
		case "shift+tab", "left", "h", "up", "k":
			m.step(-1)
		case "esc":
			if id, ok := m.machine.Hovered(); ok {
				m.machine.Leave(id)
			}
		case "r":
			m.machine.Reset()
			m.cursor = -1
		}
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionMotion || msg.Action == tea.MouseActionPress {
			m.pointerAt(msg.X, msg.Y-headerLines)
		}
	}
	return m, nil
}

// step hovers the next or previous marker. Moving between markers hands
// over directly without passing through idle.
func (m *inspectModel) step(delta int) {
	n := len(m.order)
	if n == 0 {
		return
	}
	if m.cursor < 0 && delta < 0 {
		m.cursor = 0
	}
	m.cursor = ((m.cursor+delta)%n + n) % n
	id := m.order[m.cursor]
	mk, _ := m.layout.Marker(id)
	m.machine.Enter(id, mk.Center())
}

// pointerAt feeds a mouse position in grid cells to the machine.
func (m *inspectModel) pointerAt(col, row int) {
	p := m.cellToScreen(col, row)
	m.pointer, m.hasPointer = p, true
	hit := m.hitTest(p)

	cur, hovering := m.machine.Hovered()
	switch {
	case hit != "" && hit != cur:
		m.machine.Enter(hit, p)
		m.cursor = m.indexOf(hit)
	case hit != "":
		m.machine.Move(p)
	case hovering:
		m.machine.Leave(cur)
	}
}

// hitTest returns the marker under p, preferring the nearest centre.
func (m *inspectModel) hitTest(p rrg.Screen) string {
	// One cell is much larger than a marker; widen the target to a cell.
	reach := math.Max(m.layout.Radius, math.Max(m.layout.Frame.Width/gridCols, m.layout.Frame.Height/gridRows))
	best, bestDist := "", math.Inf(1)
	for _, mk := range m.layout.Markers {
		d := math.Hypot(mk.X-p.X, mk.Y-p.Y)
		if d <= reach && d < bestDist {
			best, bestDist = mk.ID, d
		}
	}
	return best
}

func (m *inspectModel) indexOf(id string) int {
	for i, o := range m.order {
		if o == id {
			return i
		}
	}
	return -1
}

func (m *inspectModel) cellToScreen(col, row int) rrg.Screen {
	f := m.layout.Frame
	return rrg.Screen{
		X: (float64(col) + 0.5) * f.Width / gridCols,
		Y: (float64(row) + 0.5) * f.Height / gridRows,
	}
}

func (m *inspectModel) screenToCell(p rrg.Screen) (int, int) {
	f := m.layout.Frame
	col := int(p.X / f.Width * gridCols)
	row := int(p.Y / f.Height * gridRows)
	return clampInt(col, 0, gridCols-1), clampInt(row, 0, gridRows-1)
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func (m *inspectModel) View() string {
	view := interact.Render(m.layout, m.machine, interact.Options{})

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Relative Rotation Graph"))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render("tab/←→ step  esc leave  r reset  q quit"))
	b.WriteString("\n\n")

	chart := m.renderGrid(view)
	panel := inspectPanelStyle.Render(m.renderPanel(view))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, chart, "  ", panel))
	b.WriteString("\n")
	return b.String()
}

// renderGrid rasterises the crosshair, the hovered trail and the markers.
func (m *inspectModel) renderGrid(view interact.View) string {
	cells := make([][]string, gridRows)
	for r := range cells {
		cells[r] = make([]string, gridCols)
		for c := range cells[r] {
			cells[r][c] = " "
		}
	}

	cc, cr := m.screenToCell(m.layout.Crosshair)
	for c := 0; c < gridCols; c++ {
		cells[cr][c] = inspectCrossStyle.Render("─")
	}
	for r := 0; r < gridRows; r++ {
		cells[r][cc] = inspectCrossStyle.Render("│")
	}
	cells[cr][cc] = inspectCrossStyle.Render("┼")

	for _, region := range m.layout.Regions {
		c, r := m.screenToCell(rrg.Screen{X: region.X + 4, Y: region.Y + 4})
		label := region.Quadrant.Label()
		for i, ch := range label {
			if c+i < gridCols {
				cells[r][c+i] = quadrantStyle(region.Quadrant).Faint(true).Render(string(ch))
			}
		}
	}

	for _, p := range view.Trail {
		c, r := m.screenToCell(p)
		cells[r][c] = inspectTrailStyle.Render("·")
	}

	hovered, _ := m.machine.Hovered()
	for _, mk := range m.layout.Markers {
		c, r := m.screenToCell(mk.Center())
		style := quadrantStyle(mk.Quadrant)
		glyph := "●"
		if mk.ID == hovered && view.Active() {
			glyph = "◉"
			style = style.Bold(true).Reverse(true)
		}
		cells[r][c] = style.Render(glyph)
	}

	rows := make([]string, gridRows)
	for r := range cells {
		rows[r] = strings.Join(cells[r], "")
	}
	return strings.Join(rows, "\n")
}

// renderPanel shows the tooltip payload, or the legend when idle.
func (m *inspectModel) renderPanel(view interact.View) string {
	var b strings.Builder
	if !view.Active() || view.Tooltip == nil {
		b.WriteString(StyleTitle.Render("Quadrants"))
		b.WriteString("\n")
		for _, q := range rrg.Quadrants {
			fmt.Fprintf(&b, "%s %s\n", quadrantStyle(q).Render("●"),
				StyleValue.Render(fmt.Sprintf("%-10s %d", q.Label(), m.layout.Count(q))))
		}
		b.WriteString("\n")
		b.WriteString(StyleDim.Render("hover a marker for details"))
		b.WriteString(m.pointerLine())
		return b.String()
	}

	p := view.Tooltip.Payload
	b.WriteString(StyleTitle.Render(p.SectorID))
	if p.Name != p.SectorID {
		b.WriteString(" " + StyleDim.Render(p.Name))
	}
	b.WriteString("\n")
	b.WriteString(quadrantStyle(p.Quadrant).Bold(true).Render(p.Quadrant.Label()))
	b.WriteString("\n\n")
	rows := [][2]string{
		{"RS-Ratio", fmt.Sprintf("%.2f", p.Ratio)},
		{"RS-Mom", fmt.Sprintf("%.2f", p.Momentum)},
		{"Heading", fmt.Sprintf("%.0f°", p.HeadingDegrees)},
		{"Change", fmt.Sprintf("%+.2f%%", p.ChangePercent)},
	}
	for _, r := range rows {
		fmt.Fprintf(&b, "%s %s\n", StyleDim.Render(fmt.Sprintf("%-9s", r[0])), StyleNumber.Render(r[1]))
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("transitions: %d", m.transitions)))
	b.WriteString(m.pointerLine())
	return b.String()
}

// pointerLine reports the domain value under the mouse, or nothing when
// the pointer is outside the plot.
func (m *inspectModel) pointerLine() string {
	if !m.hasPointer || !m.layout.Bounds.Contains(m.pointer) {
		return ""
	}
	v := m.layout.Mapper().Unmap(m.pointer)
	return "\n" + StyleDim.Render("pointer ") +
		StyleNumber.Render(fmt.Sprintf("%.2f / %+.2f", v.Ratio, v.Momentum))
}
