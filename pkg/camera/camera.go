// Package camera owns the pan/zoom transform applied to the rendered
// scene.
//
// The transform is a translate plus uniform scale. User gestures mutate
// it immediately; the one automatic transition is a frame-to-fit
// animation triggered once per layout lifetime when the simulation has
// mostly settled. A user gesture received while that animation is in
// flight cancels it and takes precedence.
package camera

import (
	"math"
	"time"
)

// Config bounds the transform and times the frame-to-fit transition.
type Config struct {
	// MinScale and MaxScale clamp the zoom factor.
	MinScale float64 `toml:"min_scale"`
	MaxScale float64 `toml:"max_scale"`
	// FrameDuration is the length of the frame-to-fit animation.
	FrameDuration time.Duration `toml:"frame_duration"`
}

// DefaultConfig returns the camera limits used when a ring file does not
// override them.
func DefaultConfig() Config {
	return Config{
		MinScale:      0.1,
		MaxScale:      2.0,
		FrameDuration: 750 * time.Millisecond,
	}
}

// Transform is a 2D translate plus uniform scale.
type Transform struct {
	TX, TY float64
	K      float64
}

// Apply maps a world coordinate to the screen.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return x*t.K + t.TX, y*t.K + t.TY
}

// Invert maps a screen coordinate back to the world.
func (t Transform) Invert(sx, sy float64) (float64, float64) {
	return (sx - t.TX) / t.K, (sy - t.TY) / t.K
}

// Camera owns the scene transform for one layout instance.
type Camera struct {
	cfg Config
	cur Transform

	framed bool // frame-to-fit already consumed for this lifetime
	anim   *animation
}

type animation struct {
	from, to Transform
	elapsed  time.Duration
	duration time.Duration
}

// New creates a camera at the identity transform.
func New(cfg Config) *Camera {
	return &Camera{cfg: cfg, cur: Transform{K: 1}}
}

// Transform returns the current transform.
func (c *Camera) Transform() Transform { return c.cur }

// Animating reports whether a frame-to-fit transition is in flight.
func (c *Camera) Animating() bool { return c.anim != nil }

// Framed reports whether the one-time frame-to-fit has already fired.
func (c *Camera) Framed() bool { return c.framed }

// Pan shifts the view by a screen-space delta. Cancels any in-flight
// frame-to-fit animation.
func (c *Camera) Pan(dx, dy float64) {
	c.anim = nil
	c.cur.TX += dx
	c.cur.TY += dy
}

// ZoomAt scales the view by factor, keeping the screen point (sx, sy)
// fixed. The resulting scale is clamped to [MinScale, MaxScale]. Cancels
// any in-flight frame-to-fit animation.
func (c *Camera) ZoomAt(factor, sx, sy float64) {
	c.anim = nil
	k := c.clamp(c.cur.K * factor)
	// Keep the world point under (sx, sy) stationary.
	c.cur.TX = sx - (sx-c.cur.TX)*k/c.cur.K
	c.cur.TY = sy - (sy-c.cur.TY)*k/c.cur.K
	c.cur.K = k
}

// FrameScale returns the frame-to-fit zoom for a node count, before
// clamping: max(0.1, 1/sqrt(n/20)). Dense rings shrink the view so the
// layout stays legible.
func FrameScale(nodeCount int) float64 {
	if nodeCount <= 0 {
		return 1
	}
	return math.Max(0.1, 1/math.Sqrt(float64(nodeCount)/20))
}

// FrameToFit starts the one-time settle-then-frame animation toward the
// node-count scale, centered on the surface midpoint. It reports whether
// the animation was started; once consumed, further calls are no-ops for
// the rest of the layout's lifetime.
func (c *Camera) FrameToFit(nodeCount int, width, height float64) bool {
	if c.framed {
		return false
	}
	c.framed = true

	k := c.clamp(FrameScale(nodeCount))
	target := Transform{
		K:  k,
		TX: width / 2 * (1 - k),
		TY: height / 2 * (1 - k),
	}
	c.anim = &animation{from: c.cur, to: target, duration: c.cfg.FrameDuration}
	return true
}

// Advance progresses an in-flight animation by dt. It is a no-op when no
// animation is active.
func (c *Camera) Advance(dt time.Duration) {
	if c.anim == nil {
		return
	}
	c.anim.elapsed += dt
	if c.anim.elapsed >= c.anim.duration {
		c.cur = c.anim.to
		c.anim = nil
		return
	}

	t := easeCubicInOut(float64(c.anim.elapsed) / float64(c.anim.duration))
	c.cur = Transform{
		TX: lerp(c.anim.from.TX, c.anim.to.TX, t),
		TY: lerp(c.anim.from.TY, c.anim.to.TY, t),
		K:  lerp(c.anim.from.K, c.anim.to.K, t),
	}
}

func (c *Camera) clamp(k float64) float64 {
	return math.Min(c.cfg.MaxScale, math.Max(c.cfg.MinScale, k))
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

func easeCubicInOut(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := 2*t - 2
	return 1 + u*u*u/2
}
