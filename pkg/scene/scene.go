// Package scene coalesces simulation ticks into per-frame draws.
//
// The sync loop subscribes to engine ticks and schedules at most one draw
// per animation frame through an injectable Scheduler, no matter how many
// ticks land in between. A draw copies current node, edge, and label
// positions into an arena of plain visual records that renderers read;
// nothing in the arena points back into the simulation. After each draw a
// single convergence check hands off to the camera's one-time
// frame-to-fit.
package scene

import (
	"github.com/matzehuels/webring/pkg/camera"
	"github.com/matzehuels/webring/pkg/ring"
	"github.com/matzehuels/webring/pkg/sim"
)

// Scheduler defers fn to the host's next animation frame. The TUI viewer
// runs deferred callbacks on its tick; tests invoke them directly.
type Scheduler interface {
	RequestFrame(fn func())
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(fn func())

// RequestFrame calls s.
func (s SchedulerFunc) RequestFrame(fn func()) { s(fn) }

// labelOffset is how far above its node a label sits, in world units.
const labelOffset = 20.0

// frameAlpha is the mid energy threshold below which the settled layout
// is considered ready for the one-time frame-to-fit.
const frameAlpha = 0.5

// highlightStep is the per-draw blend increment for the hover color
// transition, tuned so the fade completes in a handful of frames.
const highlightStep = 0.25

// NodeVisual is one node's drawable state in world coordinates.
type NodeVisual struct {
	X, Y float64
	Name string
	// Highlight blends from 0 (base color) to 1 (highlight color) over a
	// short fixed duration as hover state changes.
	Highlight float64
}

// EdgeVisual is one edge's drawable endpoints.
type EdgeVisual struct {
	X1, Y1 float64
	X2, Y2 float64
}

// LabelVisual is one node label, positioned above its node.
type LabelVisual struct {
	X, Y float64
	Text string
}

// Sync owns the visual arena for one layout instance.
type Sync struct {
	ring  *ring.Ring
	eng   *sim.Engine
	cam   *camera.Camera
	sched Scheduler

	// highlight reports whether a node currently wants the highlight
	// color; the interaction controller provides it.
	highlight func(*ring.Node) bool

	scheduled bool
	draws     int

	nodes  []NodeVisual
	edges  []EdgeVisual
	labels []LabelVisual
}

// New creates a sync loop and subscribes it to the engine's ticks.
// highlight may be nil, in which case no node highlights.
func New(r *ring.Ring, eng *sim.Engine, cam *camera.Camera, sched Scheduler, highlight func(*ring.Node) bool) *Sync {
	s := &Sync{
		ring:      r,
		eng:       eng,
		cam:       cam,
		sched:     sched,
		highlight: highlight,
		nodes:     make([]NodeVisual, r.NodeCount()),
		edges:     make([]EdgeVisual, r.EdgeCount()),
		labels:    make([]LabelVisual, r.NodeCount()),
	}
	for i, n := range r.Nodes {
		s.nodes[i] = NodeVisual{X: n.X, Y: n.Y, Name: n.Site.Name}
		s.labels[i] = LabelVisual{X: n.X, Y: n.Y - labelOffset, Text: n.Site.Name}
	}
	eng.OnTick(s.scheduleDraw)
	return s
}

// Nodes returns the node visuals as of the latest draw. Read-only.
func (s *Sync) Nodes() []NodeVisual { return s.nodes }

// Edges returns the edge visuals as of the latest draw. Read-only.
func (s *Sync) Edges() []EdgeVisual { return s.edges }

// Labels returns the label visuals as of the latest draw. Read-only.
func (s *Sync) Labels() []LabelVisual { return s.labels }

// Draws returns how many draws have been performed.
func (s *Sync) Draws() int { return s.draws }

// scheduleDraw requests one draw for the upcoming frame. Further ticks
// before that frame are coalesced into it.
func (s *Sync) scheduleDraw() {
	if s.scheduled {
		return
	}
	s.scheduled = true
	s.sched.RequestFrame(s.draw)
}

// draw copies current simulation state into the visual arena, then runs
// the one convergence check that triggers the camera's frame-to-fit.
func (s *Sync) draw() {
	s.scheduled = false
	s.draws++

	for i, n := range s.ring.Nodes {
		v := &s.nodes[i]
		v.X, v.Y = n.X, n.Y

		target := 0.0
		if s.highlight != nil && s.highlight(n) {
			target = 1.0
		}
		v.Highlight = blend(v.Highlight, target)

		s.labels[i].X = n.X
		s.labels[i].Y = n.Y - labelOffset
	}
	for i, e := range s.ring.Edges {
		a := s.ring.Nodes[e.Source]
		b := s.ring.Nodes[e.Target]
		s.edges[i] = EdgeVisual{X1: a.X, Y1: a.Y, X2: b.X, Y2: b.Y}
	}

	if s.eng.State() != sim.Cold && s.eng.Alpha() < frameAlpha {
		s.cam.FrameToFit(s.ring.NodeCount(), s.ring.Width, s.ring.Height)
	}
}

// blend steps cur toward target by the fixed per-frame increment.
func blend(cur, target float64) float64 {
	switch {
	case cur < target:
		return min(cur+highlightStep, target)
	case cur > target:
		return max(cur-highlightStep, target)
	default:
		return cur
	}
}
