package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/webring/pkg/layout"
	"github.com/matzehuels/webring/pkg/source"
)

const (
	// frameRate drives the simulation and redraw cadence.
	frameRate = time.Second / 30

	// keyPanStep is the pan distance per arrow key press in screen units.
	keyPanStep = 40.0

	// zoomStep is the zoom factor per wheel notch or +/- press.
	zoomStep = 1.2
)

// viewCommand creates the interactive terminal viewer.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		width, height float64
		flags         directoryFlags
	)

	cmd := &cobra.Command{
		Use:   "view [directory.toml]",
		Short: "View and drag the ring interactively in the terminal",
		Long: `View and drag the ring interactively in the terminal.

The simulation runs live. Drag nodes with the mouse to reheat it, scroll to
zoom, drag empty space or use the arrow keys to pan. Clicking a node without
moving opens its link in the browser.

Keys:
  arrows   pan
  + / -    zoom
  g        cycle group highlight
  q        quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := c.loadDirectory(cmd.Context(), flags, args)
			if err != nil {
				return err
			}
			return c.runView(doc, width, height, flags.seed)
		},
	}

	flags.register(cmd)
	cmd.Flags().Float64Var(&width, "width", 800, "layout surface width")
	cmd.Flags().Float64Var(&height, "height", 600, "layout surface height")

	return cmd
}

func (c *CLI) runView(doc *source.Document, width, height float64, seed uint64) error {
	sched := newFrameScheduler()
	opts := c.layoutOptions(doc, width, height, seed)
	opts.Navigator = newOpener()
	opts.Scheduler = sched
	l := layout.New(doc.Sites, opts)
	defer l.Close()

	m := newViewModel(l, sched, doc, width, height)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}

// =============================================================================
// Frame Scheduler
// =============================================================================

// frameScheduler coalesces scene draw requests onto the TUI frame tick.
type frameScheduler struct {
	pending []func()
}

func newFrameScheduler() *frameScheduler {
	return &frameScheduler{}
}

// RequestFrame implements scene.Scheduler.
func (s *frameScheduler) RequestFrame(fn func()) {
	s.pending = append(s.pending, fn)
}

// runFrame executes and clears all pending draw callbacks.
func (s *frameScheduler) runFrame() {
	for _, fn := range s.pending {
		fn()
	}
	s.pending = s.pending[:0]
}

// =============================================================================
// ViewModel - Interactive Ring Viewer
// =============================================================================

type frameMsg time.Time

// viewModel is the bubbletea model for the interactive viewer.
type viewModel struct {
	layout *layout.Layout
	sched  *frameScheduler
	title  string
	colors source.Colors

	// world and cell dimensions
	width, height float64
	cols, rows    int

	// groups holds the distinct site groups for highlight cycling; -1
	// means no group highlighted.
	groups   []string
	groupIdx int

	// panning is set while a mouse drag started on empty space.
	panning      bool
	lastX, lastY float64

	nodeStyle   lipgloss.Style
	accentStyle lipgloss.Style
	dimStyle    lipgloss.Style
}

func newViewModel(l *layout.Layout, sched *frameScheduler, doc *source.Document, width, height float64) *viewModel {
	colors := doc.Colors.Resolve()
	return &viewModel{
		layout:      l,
		sched:       sched,
		title:       doc.Title,
		colors:      colors,
		width:       width,
		height:      height,
		cols:        80,
		rows:        24,
		groups:      siteGroups(doc),
		groupIdx:    -1,
		nodeStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Foreground)),
		accentStyle: lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Accent)).Bold(true),
		dimStyle:    lipgloss.NewStyle().Foreground(colorDim),
	}
}

// siteGroups returns the distinct non-empty groups in directory order.
func siteGroups(doc *source.Document) []string {
	seen := map[string]bool{}
	var groups []string
	for _, s := range doc.Sites {
		if s.Group != "" && !seen[s.Group] {
			seen[s.Group] = true
			groups = append(groups, s.Group)
		}
	}
	sort.Strings(groups)
	return groups
}

func frameTick() tea.Cmd {
	return tea.Tick(frameRate, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m *viewModel) Init() tea.Cmd {
	return frameTick()
}

func (m *viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.layout.Step(frameRate)
		m.sched.runFrame()
		return m, frameTick()

	case tea.KeyMsg:
		return m.updateKey(msg)

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.WindowSizeMsg:
		m.cols = msg.Width
		// Reserve two rows for the status line.
		m.rows = max(msg.Height-2, 5)
	}
	return m, nil
}

func (m *viewModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up":
		m.layout.Camera.Pan(0, keyPanStep)
	case "down":
		m.layout.Camera.Pan(0, -keyPanStep)
	case "left":
		m.layout.Camera.Pan(keyPanStep, 0)
	case "right":
		m.layout.Camera.Pan(-keyPanStep, 0)
	case "+", "=":
		m.layout.Camera.ZoomAt(zoomStep, m.width/2, m.height/2)
	case "-", "_":
		m.layout.Camera.ZoomAt(1/zoomStep, m.width/2, m.height/2)
	case "g":
		m.cycleGroup()
	}
	return m, nil
}

// cycleGroup advances the highlighted group: none, each group in order,
// back to none.
func (m *viewModel) cycleGroup() {
	if len(m.groups) == 0 {
		return
	}
	m.groupIdx++
	if m.groupIdx >= len(m.groups) {
		m.groupIdx = -1
		m.layout.Interact.SetHoveredGroup("")
		return
	}
	m.layout.Interact.SetHoveredGroup(m.groups[m.groupIdx])
}

func (m *viewModel) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	sx, sy := m.cellToScreen(msg.X, msg.Y)

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.layout.Camera.ZoomAt(zoomStep, sx, sy)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.layout.Camera.ZoomAt(1/zoomStep, sx, sy)
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if !m.layout.Interact.PointerDown(sx, sy) {
			m.panning = true
			m.lastX, m.lastY = sx, sy
		}
	case tea.MouseActionMotion:
		if m.panning {
			m.layout.Camera.Pan(sx-m.lastX, sy-m.lastY)
			m.lastX, m.lastY = sx, sy
			return m, nil
		}
		m.layout.Interact.PointerMove(sx, sy)
	case tea.MouseActionRelease:
		if m.panning {
			m.panning = false
			return m, nil
		}
		m.layout.Interact.PointerUp(sx, sy)
	}
	return m, nil
}

// cellToScreen maps a terminal cell to layout screen coordinates. Cells
// are roughly twice as tall as wide, which the row scale absorbs.
func (m *viewModel) cellToScreen(cx, cy int) (float64, float64) {
	sx := (float64(cx) + 0.5) * m.width / float64(m.cols)
	sy := (float64(cy) + 0.5) * m.height / float64(m.rows)
	return sx, sy
}

// screenToCell is the inverse mapping used when drawing.
func (m *viewModel) screenToCell(sx, sy float64) (int, int) {
	cx := int(sx * float64(m.cols) / m.width)
	cy := int(sy * float64(m.rows) / m.height)
	return cx, cy
}

func (m *viewModel) View() string {
	type cell struct {
		ch     rune
		accent bool
	}
	grid := make([][]cell, m.rows)
	for i := range grid {
		grid[i] = make([]cell, m.cols)
	}

	t := m.layout.Camera.Transform()
	set := func(sx, sy float64, ch rune, accent bool) {
		cx, cy := m.screenToCell(sx, sy)
		if cx < 0 || cx >= m.cols || cy < 0 || cy >= m.rows {
			return
		}
		grid[cy][cx] = cell{ch: ch, accent: accent}
	}

	// Edges first so nodes draw over them.
	for _, e := range m.layout.Scene.Edges() {
		x1, y1 := t.Apply(e.X1, e.Y1)
		x2, y2 := t.Apply(e.X2, e.Y2)
		const steps = 32
		for i := 0; i <= steps; i++ {
			f := float64(i) / steps
			set(x1+(x2-x1)*f, y1+(y2-y1)*f, '·', false)
		}
	}

	for _, n := range m.layout.Scene.Nodes() {
		sx, sy := t.Apply(n.X, n.Y)
		set(sx, sy, '●', n.Highlight >= 0.5)
	}

	var b strings.Builder
	for _, row := range grid {
		for _, c := range row {
			switch {
			case c.ch == 0:
				b.WriteByte(' ')
			case c.accent:
				b.WriteString(m.accentStyle.Render(string(c.ch)))
			case c.ch == '·':
				b.WriteString(m.dimStyle.Render(string(c.ch)))
			default:
				b.WriteString(m.nodeStyle.Render(string(c.ch)))
			}
		}
		b.WriteByte('\n')
	}

	b.WriteString(m.statusLine())
	return b.String()
}

func (m *viewModel) statusLine() string {
	title := m.title
	if title == "" {
		title = appName
	}

	group := "all"
	if m.groupIdx >= 0 && m.groupIdx < len(m.groups) {
		group = m.groups[m.groupIdx]
	}

	eng := m.layout.Engine
	status := fmt.Sprintf("%s · %d sites · %s · group: ",
		title, m.layout.Ring.NodeCount(), strings.ToLower(eng.State().String()))
	help := "drag nodes · scroll zoom · g group · q quit"

	return StyleTitle.Render(status) + StyleHighlight.Render(group) + "\n" + StyleDim.Render(help)
}
