package sim

import "math"

// jiggleDist is the separation below which two nodes are treated as
// coincident and nudged apart along a fixed direction instead of by an
// undefined unit vector.
const jiggleDist = 1e-6

// applyLink pulls every edge's endpoints toward LinkDistance. The
// correction is split evenly between the two endpoints (every ring node
// has degree 2, so an even split is exact) and accumulates into velocity.
func (e *Engine) applyLink(alpha float64) {
	for _, edge := range e.ring.Edges {
		a := e.ring.Nodes[edge.Source]
		b := e.ring.Nodes[edge.Target]

		dx := b.X + b.VX - a.X - a.VX
		dy := b.Y + b.VY - a.Y - a.VY
		dist := math.Hypot(dx, dy)
		if dist < jiggleDist {
			dx, dy, dist = jiggleDist, 0, jiggleDist
		}

		f := (dist - e.cfg.LinkDistance) / dist * e.cfg.LinkStrength * alpha
		b.VX -= dx * f * 0.5
		b.VY -= dy * f * 0.5
		a.VX += dx * f * 0.5
		a.VY += dy * f * 0.5
	}
}

// applyCharge repels every unordered node pair within ChargeDistanceMax.
// Force falls off with the inverse of separation. The pass is O(N^2);
// ring layouts stay small enough that a spatial index would not pay for
// itself, and the range cutoff already skips most distant pairs.
func (e *Engine) applyCharge(alpha float64) {
	nodes := e.ring.Nodes
	maxSq := e.cfg.ChargeDistanceMax * e.cfg.ChargeDistanceMax

	for i := 0; i < len(nodes); i++ {
		a := nodes[i]
		for j := i + 1; j < len(nodes); j++ {
			b := nodes[j]

			dx := b.X - a.X
			dy := b.Y - a.Y
			distSq := dx*dx + dy*dy
			if distSq > maxSq {
				continue
			}
			if distSq < jiggleDist {
				dx, dy = jiggleDist, 0
				distSq = jiggleDist * jiggleDist
			}

			w := e.cfg.ChargeStrength * alpha / distSq
			b.VX += dx * w
			b.VY += dy * w
			a.VX -= dx * w
			a.VY -= dy * w
		}
	}
}

// applyCollide runs CollideIterations passes that push overlapping pairs
// (separation under twice CollideRadius) apart. Each pass corrects only a
// CollideStrength fraction of the overlap so tight clusters relax instead
// of oscillating. Positions are adjusted directly; a pinned node's
// position is restored at integration.
func (e *Engine) applyCollide() {
	nodes := e.ring.Nodes
	r := 2 * e.cfg.CollideRadius

	for iter := 0; iter < e.cfg.CollideIterations; iter++ {
		for i := 0; i < len(nodes); i++ {
			a := nodes[i]
			for j := i + 1; j < len(nodes); j++ {
				b := nodes[j]

				dx := b.X - a.X
				dy := b.Y - a.Y
				dist := math.Hypot(dx, dy)
				if dist >= r {
					continue
				}
				if dist < jiggleDist {
					dx, dy, dist = jiggleDist, 0, jiggleDist
				}

				push := (r - dist) / dist * e.cfg.CollideStrength * 0.5
				b.X += dx * push
				b.Y += dy * push
				a.X -= dx * push
				a.Y -= dy * push
			}
		}
	}
}

// applyCenter pulls every free node weakly toward the surface midpoint.
// This bounds drift without producing a rigid rest position.
func (e *Engine) applyCenter(alpha float64) {
	cx := e.ring.Width / 2
	cy := e.ring.Height / 2
	for _, n := range e.ring.Nodes {
		if n.Pin != nil {
			continue
		}
		n.VX += (cx - n.X) * e.cfg.CenterStrength * alpha
		n.VY += (cy - n.Y) * e.cfg.CenterStrength * alpha
	}
}
