// Package sim integrates per-node forces into a settling 2D layout.
//
// The engine owns node kinematics for one layout run. Each Step applies
// four force contributors (link attraction, range-limited many-body
// repulsion, pairwise collision separation, weak centering), integrates
// velocities with damping, and decays a global energy scalar ("alpha")
// toward its current target. Observers are notified after every step and
// re-read node state directly; nothing is passed with the signal.
//
// The engine never returns errors: degenerate inputs (zero or one node)
// simply produce no motion.
package sim

import "github.com/matzehuels/webring/pkg/ring"

// State describes how much activity remains in the simulation.
type State int

// Engine states. A drag forces the engine back to Running by holding
// alpha at Config.AlphaActive; releasing the drag resumes natural decay.
const (
	// Cold means the engine has no nodes and never steps.
	Cold State = iota
	// Running means alpha is above the settle threshold.
	Running
	// Settled means alpha has fallen below the settle threshold but the
	// layout is still relaxing.
	Settled
	// Idle means alpha is below AlphaMin; no further motion occurs.
	Idle
)

func (s State) String() string {
	switch s {
	case Cold:
		return "cold"
	case Running:
		return "running"
	case Settled:
		return "settled"
	case Idle:
		return "idle"
	}
	return "unknown"
}

// Engine steps the force simulation for a single ring.
type Engine struct {
	cfg  Config
	ring *ring.Ring

	alpha       float64
	alphaTarget float64

	observers []func()
}

// New creates an engine seeded from the ring. Alpha starts at 1. A ring
// with no nodes yields a Cold engine whose Step is a no-op.
func New(r *ring.Ring, cfg Config) *Engine {
	return &Engine{cfg: cfg, ring: r, alpha: 1}
}

// OnTick registers fn to be called after every step. Observers receive no
// payload; they read current node and edge state directly.
func (e *Engine) OnTick(fn func()) {
	e.observers = append(e.observers, fn)
}

// Alpha returns the current energy scalar.
func (e *Engine) Alpha() float64 { return e.alpha }

// AlphaTarget returns the value alpha is decaying toward.
func (e *Engine) AlphaTarget() float64 { return e.alphaTarget }

// SetAlphaTarget changes the decay target. The interaction controller
// raises it to Config.AlphaActive for the duration of a drag and returns
// it to 0 on release.
func (e *Engine) SetAlphaTarget(t float64) { e.alphaTarget = t }

// ActiveAlpha returns the configured alpha floor held during drags.
func (e *Engine) ActiveAlpha() float64 { return e.cfg.AlphaActive }

// State classifies the engine by node count, alpha, and alpha target.
// A raised target counts as Running even while alpha is still climbing.
func (e *Engine) State() State {
	switch {
	case e.ring.NodeCount() == 0:
		return Cold
	case e.alphaTarget > 0 || e.alpha >= e.cfg.SettleAlpha:
		return Running
	case e.alpha >= e.cfg.AlphaMin:
		return Settled
	default:
		return Idle
	}
}

// Step advances the simulation by one Euler integration step and notifies
// observers. Cold engines do nothing. An Idle engine with no raised alpha
// target still notifies (positions are simply unchanged), so a render
// loop may keep calling Step without special-casing.
func (e *Engine) Step() {
	if e.ring.NodeCount() == 0 {
		return
	}

	if e.State() != Idle {
		e.applyLink(e.alpha)
		e.applyCharge(e.alpha)
		e.applyCollide()
		e.applyCenter(e.alpha)
		e.integrate()
		e.decay()
	}

	for _, fn := range e.observers {
		fn()
	}
}

// integrate folds accumulated velocity into position. Pinned nodes take
// their pin verbatim and carry no velocity.
func (e *Engine) integrate() {
	for _, n := range e.ring.Nodes {
		if n.Pin != nil {
			n.X, n.Y = n.Pin.X, n.Pin.Y
			n.VX, n.VY = 0, 0
			continue
		}
		n.VX *= e.cfg.VelocityDamping
		n.VY *= e.cfg.VelocityDamping
		n.X += n.VX
		n.Y += n.VY
	}
}

// decay moves alpha toward its target. With a zero target this is a
// multiplicative decay toward 0, so alpha is monotone non-increasing and
// strictly positive.
func (e *Engine) decay() {
	e.alpha += (e.alphaTarget - e.alpha) * e.cfg.AlphaDecay
}
