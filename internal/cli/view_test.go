package cli

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/webring/pkg/layout"
	"github.com/matzehuels/webring/pkg/site"
	"github.com/matzehuels/webring/pkg/source"
)

func testViewModel(t *testing.T) *viewModel {
	t.Helper()
	doc := &source.Document{
		Title: "Test Ring",
		Sites: []site.Site{
			{Name: "A", Link: "https://a.example", Group: "x"},
			{Name: "B", Link: "https://b.example", Group: "y"},
			{Name: "C", Link: "https://c.example", Group: "x"},
		},
	}
	sched := newFrameScheduler()
	l := layout.New(doc.Sites, layout.Options{
		Width:     800,
		Height:    600,
		Scheduler: sched,
		Logger:    log.New(io.Discard),
	})
	t.Cleanup(l.Close)
	return newViewModel(l, sched, doc, 800, 600)
}

func TestCellScreenRoundTrip(t *testing.T) {
	m := testViewModel(t)
	m.cols, m.rows = 100, 40

	for _, cell := range [][2]int{{0, 0}, {50, 20}, {99, 39}} {
		sx, sy := m.cellToScreen(cell[0], cell[1])
		cx, cy := m.screenToCell(sx, sy)
		if cx != cell[0] || cy != cell[1] {
			t.Errorf("round trip (%d,%d) -> (%g,%g) -> (%d,%d)", cell[0], cell[1], sx, sy, cx, cy)
		}
	}
}

func TestSiteGroupsDistinctSorted(t *testing.T) {
	doc := &source.Document{Sites: []site.Site{
		{Name: "A", Group: "zeta"},
		{Name: "B", Group: "alpha"},
		{Name: "C", Group: "zeta"},
		{Name: "D"},
	}}
	groups := siteGroups(doc)
	if len(groups) != 2 || groups[0] != "alpha" || groups[1] != "zeta" {
		t.Errorf("siteGroups() = %v, want [alpha zeta]", groups)
	}
}

func TestCycleGroupWrapsToNone(t *testing.T) {
	m := testViewModel(t)

	// groups are [x y]; start with none highlighted
	if m.groupIdx != -1 {
		t.Fatalf("groupIdx = %d, want -1", m.groupIdx)
	}

	m.cycleGroup()
	if m.groupIdx != 0 {
		t.Errorf("groupIdx = %d, want 0", m.groupIdx)
	}
	m.cycleGroup()
	if m.groupIdx != 1 {
		t.Errorf("groupIdx = %d, want 1", m.groupIdx)
	}
	m.cycleGroup()
	if m.groupIdx != -1 {
		t.Errorf("groupIdx = %d, want -1 after wrap", m.groupIdx)
	}
}

func TestFrameSchedulerRunsPendingOnce(t *testing.T) {
	s := newFrameScheduler()

	runs := 0
	s.RequestFrame(func() { runs++ })
	s.RequestFrame(func() { runs++ })

	s.runFrame()
	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}

	s.runFrame()
	if runs != 2 {
		t.Errorf("runs = %d after empty frame, want 2", runs)
	}
}

func TestViewRendersGrid(t *testing.T) {
	m := testViewModel(t)
	m.cols, m.rows = 60, 20

	// Advance a few frames so the scene has drawn at least once.
	for i := 0; i < 5; i++ {
		m.layout.Step(frameRate)
		m.sched.runFrame()
	}

	out := m.View()
	if out == "" {
		t.Fatal("View() returned empty string")
	}
	if got := len([]rune(out)); got == 0 {
		t.Fatal("View() rendered nothing")
	}
	// The status line names the ring.
	if !strings.Contains(out, "Test Ring") {
		t.Errorf("View() missing title in status line")
	}
}
