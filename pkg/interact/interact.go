// Package interact turns pointer events into drag, hover, and click
// behavior on ring nodes.
//
// Pointer events arrive through an injectable surface (PointerDown,
// PointerMove, PointerUp) in screen coordinates, so the controller runs
// headless under test. A drag pins the node under the pointer and holds
// the simulation's energy open; releasing without crossing the movement
// threshold classifies the gesture as a click and opens the node's link
// through the injected Navigator.
//
// Highlighting combines two sources with OR semantics: direct pointer
// hover and an externally supplied hovered site name or group key.
// Clearing one source never clears a highlight still requested by the
// other.
package interact

import (
	"math"
	"strings"

	"github.com/matzehuels/webring/pkg/camera"
	"github.com/matzehuels/webring/pkg/ring"
	"github.com/matzehuels/webring/pkg/sim"
)

// Navigator opens a site's external link in a new browsing context.
// Implementations live outside the core; link validation is delegated to
// them as well.
type Navigator interface {
	Open(link string) error
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(link string) error

// Open calls f.
func (f NavigatorFunc) Open(link string) error { return f(link) }

// Config tunes hit testing and click classification.
type Config struct {
	// HitRadius is the world-space radius within which a pointer-down
	// grabs a node.
	HitRadius float64
	// ClickThreshold is the screen-space distance a pointer may travel
	// between down and up and still count as a click. Crossing it
	// reclassifies the gesture as a drag and suppresses the click.
	ClickThreshold float64
}

// DefaultConfig returns interaction tuning that matches the default
// collision radius.
func DefaultConfig() Config {
	return Config{HitRadius: 16, ClickThreshold: 3}
}

const noNode = -1

// Controller consumes pointer events and mutates node state directly.
// It runs on the same goroutine as the simulation stepper, interleaved
// between frames, so no locking is involved.
type Controller struct {
	cfg  Config
	ring *ring.Ring
	eng  *sim.Engine
	cam  *camera.Camera
	nav  Navigator

	dragID       int
	dragMoved    bool
	downX, downY float64
	raisedAlpha  bool

	hoverID      int
	hoveredSite  string
	hoveredGroup string
}

// New creates a controller for one layout instance. nav may be nil, in
// which case clicks are silently dropped.
func New(r *ring.Ring, eng *sim.Engine, cam *camera.Camera, nav Navigator, cfg Config) *Controller {
	return &Controller{
		cfg:     cfg,
		ring:    r,
		eng:     eng,
		cam:     cam,
		nav:     nav,
		dragID:  noNode,
		hoverID: noNode,
	}
}

// HitTest returns the node under the screen coordinate, or nil. The
// nearest node within HitRadius (in world units) wins.
func (c *Controller) HitTest(sx, sy float64) *ring.Node {
	wx, wy := c.cam.Transform().Invert(sx, sy)

	var best *ring.Node
	bestDist := c.cfg.HitRadius
	for _, n := range c.ring.Nodes {
		d := math.Hypot(n.X-wx, n.Y-wy)
		if d <= bestDist {
			best = n
			bestDist = d
		}
	}
	return best
}

// PointerDown begins a drag if a node is under the pointer. It reports
// whether a node was grabbed; callers route misses to camera panning.
func (c *Controller) PointerDown(sx, sy float64) bool {
	if c.dragID != noNode {
		return true // a drag is already active for this pointer
	}
	n := c.HitTest(sx, sy)
	if n == nil {
		return false
	}

	c.dragID = n.ID
	c.dragMoved = false
	c.downX, c.downY = sx, sy

	// Pin at the current position; the pin follows the pointer from the
	// first move on.
	n.Pin = &ring.Point{X: n.X, Y: n.Y}

	if c.eng.AlphaTarget() < c.eng.ActiveAlpha() {
		c.eng.SetAlphaTarget(c.eng.ActiveAlpha())
		c.raisedAlpha = true
	}
	return true
}

// PointerMove updates the active drag's pin, or the hover state when no
// drag is active.
func (c *Controller) PointerMove(sx, sy float64) {
	if c.dragID == noNode {
		c.updateHover(sx, sy)
		return
	}

	if math.Hypot(sx-c.downX, sy-c.downY) > c.cfg.ClickThreshold {
		c.dragMoved = true
	}

	n := c.ring.Node(c.dragID)
	if n == nil {
		return
	}
	wx, wy := c.cam.Transform().Invert(sx, sy)
	n.Pin = &ring.Point{X: wx, Y: wy}
}

// PointerUp ends the active drag. A gesture that never crossed the click
// threshold fires the node's link through the Navigator instead.
func (c *Controller) PointerUp(sx, sy float64) {
	if c.dragID == noNode {
		return
	}
	n := c.ring.Node(c.dragID)
	c.dragID = noNode

	if n != nil {
		n.Pin = nil
	}
	if c.raisedAlpha {
		c.eng.SetAlphaTarget(0)
		c.raisedAlpha = false
	}

	if !c.dragMoved && n != nil && c.nav != nil && n.Site.Link != "" {
		// Navigation failures are the host's concern, not the layout's.
		_ = c.nav.Open(n.Site.Link)
	}
}

// Dragging returns the id of the node being dragged, or -1.
func (c *Controller) Dragging() int { return c.dragID }

// SetHoveredSite sets the externally driven hovered site name. An empty
// string clears it.
func (c *Controller) SetHoveredSite(name string) { c.hoveredSite = name }

// SetHoveredGroup sets the externally driven hovered group key. An empty
// string clears it.
func (c *Controller) SetHoveredGroup(group string) { c.hoveredGroup = group }

// Highlighted reports whether a node should render in the highlight
// color: direct pointer hover, external site-name match, and external
// group match all light it, independently of one another.
func (c *Controller) Highlighted(n *ring.Node) bool {
	if n == nil {
		return false
	}
	if n.ID == c.hoverID {
		return true
	}
	if c.hoveredSite != "" && strings.EqualFold(n.Site.Name, c.hoveredSite) {
		return true
	}
	if c.hoveredGroup != "" && strings.EqualFold(n.Site.Group, c.hoveredGroup) {
		return true
	}
	return false
}

func (c *Controller) updateHover(sx, sy float64) {
	n := c.HitTest(sx, sy)
	if n == nil {
		c.hoverID = noNode
		return
	}
	c.hoverID = n.ID
}
