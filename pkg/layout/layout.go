// Package layout assembles the topology, simulation, camera, scene, and
// interaction controller into one layout instance.
//
// A Layout is created whole and discarded whole: any structural change
// (new site list, different sort field or direction) tears down the old
// instance and builds a fresh one. Close stops the stepper and detaches
// all wiring before a replacement is created, so two instances never
// mutate the same render surface. State carried by an in-flight drag is
// discarded with the old instance.
package layout

import (
	"context"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/webring/pkg/camera"
	"github.com/matzehuels/webring/pkg/interact"
	"github.com/matzehuels/webring/pkg/observability"
	"github.com/matzehuels/webring/pkg/ring"
	"github.com/matzehuels/webring/pkg/scene"
	"github.com/matzehuels/webring/pkg/sim"
	"github.com/matzehuels/webring/pkg/site"
)

// maxSettleTicks caps RunToSettled against parameter sets whose decay
// never crosses AlphaMin.
const maxSettleTicks = 2000

// Options configures one layout instance. Zero-value fields fall back to
// defaults.
type Options struct {
	// Width and Height are the render surface dimensions in world units.
	Width, Height float64

	// Sim, Camera, and Interact are the per-instance parameter sets.
	Sim      sim.Config
	Camera   camera.Config
	Interact interact.Config

	// Navigator handles click navigation. May be nil.
	Navigator interact.Navigator

	// Scheduler defers scene draws to the host's frame callback. When
	// nil, draws run immediately on each tick (headless mode).
	Scheduler scene.Scheduler

	// Rand seeds initial node placement. When nil a fresh source is used.
	Rand *rand.Rand

	// Logger receives lifecycle events. When nil, logging is disabled.
	Logger *log.Logger
}

func (o *Options) fill() {
	if o.Width == 0 {
		o.Width = 800
	}
	if o.Height == 0 {
		o.Height = 600
	}
	if o.Sim == (sim.Config{}) {
		o.Sim = sim.DefaultConfig()
	}
	if o.Camera == (camera.Config{}) {
		o.Camera = camera.DefaultConfig()
	}
	if o.Interact == (interact.Config{}) {
		o.Interact = interact.DefaultConfig()
	}
	if o.Scheduler == nil {
		o.Scheduler = scene.SchedulerFunc(func(fn func()) { fn() })
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// Layout is one live layout instance.
type Layout struct {
	Ring     *ring.Ring
	Engine   *sim.Engine
	Camera   *camera.Camera
	Scene    *scene.Sync
	Interact *interact.Controller

	logger *log.Logger
	closed bool
}

// New builds the ring from the already-sorted site list and wires all
// components. An empty site list yields a valid but inert layout: the
// engine stays Cold and Step does nothing.
func New(sites []site.Site, opts Options) *Layout {
	opts.fill()

	r := ring.Build(sites, opts.Width, opts.Height, opts.Rand)
	eng := sim.New(r, opts.Sim)
	cam := camera.New(opts.Camera)
	ctrl := interact.New(r, eng, cam, opts.Navigator, opts.Interact)
	scn := scene.New(r, eng, cam, opts.Scheduler, ctrl.Highlighted)

	observability.Layout().OnBuild(context.Background(), r.RunID, r.NodeCount())
	opts.Logger.Debug("layout built", "run", r.RunID, "nodes", r.NodeCount(), "edges", r.EdgeCount())

	return &Layout{
		Ring:     r,
		Engine:   eng,
		Camera:   cam,
		Scene:    scn,
		Interact: ctrl,
		logger:   opts.Logger,
	}
}

// Step advances the instance by one frame: one simulation tick plus
// camera animation progress. Closed layouts do nothing.
func (l *Layout) Step(dt time.Duration) {
	if l.closed {
		return
	}
	l.Engine.Step()
	l.Camera.Advance(dt)
}

// Settled reports whether the simulation has decayed to Idle.
func (l *Layout) Settled() bool {
	return l.Engine.State() == sim.Idle
}

// RunToSettled steps the simulation until it reaches Idle, for headless
// (export and serve) paths. Cold layouts return immediately. The tick
// cap guards against non-decaying parameter sets; ctx cancellation stops
// early with the context's error.
func (l *Layout) RunToSettled(ctx context.Context) error {
	if l.Engine.State() == sim.Cold {
		return nil
	}

	start := time.Now()
	ticks := 0
	for l.Engine.State() != sim.Idle && ticks < maxSettleTicks {
		if err := ctx.Err(); err != nil {
			return err
		}
		l.Step(16 * time.Millisecond)
		ticks++
	}

	observability.Layout().OnSettled(ctx, l.Ring.RunID, ticks, time.Since(start))
	l.logger.Debug("layout settled", "run", l.Ring.RunID, "ticks", ticks,
		"alpha", l.Engine.Alpha(), "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

// Close tears the instance down. The stepper becomes a no-op and any
// in-flight drag state is dropped with the instance; callers must Close
// before building a replacement over the same surface.
func (l *Layout) Close() {
	if l.closed {
		return
	}
	l.closed = true
	l.logger.Debug("layout closed", "run", l.Ring.RunID)
}

// Closed reports whether the instance has been torn down.
func (l *Layout) Closed() bool { return l.closed }
