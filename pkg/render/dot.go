// Package render turns a laid-out ring snapshot into static images.
//
// The snapshot already carries final positions from the force simulation,
// so Graphviz is used purely as a drawing backend: every node is emitted
// with a fixed pos pin and rendered with the neato engine, which honors
// pinned coordinates instead of recomputing a layout.
//
//	snap := r.TakeSnapshot()
//	dot := render.ToDOT(snap, render.Options{})
//	svg, err := render.RenderSVG(ctx, dot)
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/webring/pkg/ring"
)

// dotScale converts world coordinates to Graphviz points. Graphviz pos
// values are in points with 72 per inch, so layout pixels are shrunk to
// keep the drawing at a sane physical size.
const dotScale = 1.0 / 72.0

// Options configures DOT generation.
type Options struct {
	// Highlight marks site names (case-insensitive) drawn in the accent
	// color.
	Highlight []string

	// Background, Foreground, and Accent are Graphviz color strings.
	// Empty fields fall back to a monochrome scheme.
	Background string
	Foreground string
	Accent     string

	// Detailed includes the group and year in node labels.
	Detailed bool
}

func (o Options) background() string {
	if o.Background == "" {
		return "transparent"
	}
	return o.Background
}

func (o Options) foreground() string {
	if o.Foreground == "" {
		return "black"
	}
	return o.Foreground
}

func (o Options) accent() string {
	if o.Accent == "" {
		return "crimson"
	}
	return o.Accent
}

func (o Options) highlighted(name string) bool {
	for _, h := range o.Highlight {
		if strings.EqualFold(h, name) {
			return true
		}
	}
	return false
}

// ToDOT converts a snapshot to a Graphviz graph with pinned positions.
// Render the result with the neato engine so the pins are honored.
func ToDOT(snap ring.Snapshot, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph webring {\n")
	buf.WriteString("  layout=neato;\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", opts.background())
	buf.WriteString("  node [shape=circle, width=0.25, fixedsize=true, fontsize=10, fontname=\"SF Mono, Menlo, monospace\"];\n")
	fmt.Fprintf(&buf, "  edge [color=%q];\n", opts.foreground())
	buf.WriteString("\n")

	for _, n := range snap.Nodes {
		label := fmtLabel(n, opts.Detailed)
		attrs := []string{
			fmt.Sprintf("label=%q", label),
			// Trailing ! pins the node for neato.
			fmt.Sprintf("pos=\"%.3f,%.3f!\"", n.X*dotScale, -n.Y*dotScale),
			fmt.Sprintf("URL=%q", n.Site.Link),
		}
		if opts.highlighted(n.Site.Name) {
			attrs = append(attrs, "style=filled", fmt.Sprintf("fillcolor=%q", opts.accent()))
		} else {
			attrs = append(attrs, fmt.Sprintf("color=%q", opts.foreground()))
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range snap.Edges {
		fmt.Fprintf(&buf, "  n%d -- n%d;\n", e.Source, e.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n ring.SnapshotNode, detailed bool) string {
	if !detailed {
		return n.Site.Name
	}
	parts := []string{n.Site.Name}
	if n.Site.Group != "" {
		parts = append(parts, n.Site.Group)
	}
	if n.Site.Year != 0 {
		parts = append(parts, fmt.Sprintf("%d", n.Site.Year))
	}
	return strings.Join(parts, "\n")
}
