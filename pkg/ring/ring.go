// Package ring builds the cyclic topology laid out by the force engine.
//
// Given an already-sorted list of sites, Build produces one node per site
// with a freshly assigned id and a random initial position, and one edge
// per node connecting it to its successor (wrapping around), so the edge
// set forms a single Hamiltonian cycle. Edges are derived state: rebuilding
// the topology discards and regenerates all of them.
package ring

import (
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/matzehuels/webring/pkg/site"
)

// Point is a position on the render surface.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Node is one site placed on the 2D surface.
//
// While a node is dragged its Pin is non-nil and its effective position is
// the pin, not the integrated position. A nil Pin means the node is free
// and moves under force integration. Exactly one of the two interpretations
// holds at any time.
type Node struct {
	ID   int
	Site site.Site

	X, Y   float64
	VX, VY float64

	Pin *Point
}

// Pinned reports whether the node's position is externally driven.
func (n *Node) Pinned() bool { return n.Pin != nil }

// Edge is an undirected connection between two node ids.
type Edge struct {
	Source int
	Target int
}

// Ring holds the node arena and derived edge set for one layout run.
type Ring struct {
	// RunID identifies this layout run. It is regenerated on every
	// rebuild and is never persisted across rebuilds.
	RunID string

	Nodes []*Node
	Edges []Edge

	// Width and Height are the render surface bounds used for initial
	// placement and centering.
	Width  float64
	Height float64
}

// Build constructs a ring from an ordered site list. Node i is linked to
// node (i+1) mod N, so for N >= 2 every node has degree exactly 2 and the
// edges form a single cycle. N=0 yields no nodes or edges; N=1 yields one
// node and no edges (the self-loop is omitted).
//
// Initial positions are drawn uniformly at random within the surface
// bounds so rebuilds never start from overlapping layouts. Structure is
// deterministic for a given order; placement intentionally is not.
func Build(sites []site.Site, width, height float64, rng *rand.Rand) *Ring {
	r := &Ring{
		RunID:  uuid.NewString(),
		Width:  width,
		Height: height,
	}

	r.Nodes = make([]*Node, len(sites))
	for i, s := range sites {
		r.Nodes[i] = &Node{
			ID:   i,
			Site: s,
			X:    rng.Float64() * width,
			Y:    rng.Float64() * height,
		}
	}

	if len(sites) < 2 {
		return r
	}

	r.Edges = make([]Edge, len(sites))
	for i := range sites {
		r.Edges[i] = Edge{Source: i, Target: (i + 1) % len(sites)}
	}
	return r
}

// Node returns the node with the given id, or nil if out of range.
func (r *Ring) Node(id int) *Node {
	if id < 0 || id >= len(r.Nodes) {
		return nil
	}
	return r.Nodes[id]
}

// NodeCount returns the number of nodes.
func (r *Ring) NodeCount() int { return len(r.Nodes) }

// EdgeCount returns the number of edges.
func (r *Ring) EdgeCount() int { return len(r.Edges) }
