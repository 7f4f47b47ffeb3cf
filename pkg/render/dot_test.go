package render

import (
	"strings"
	"testing"

	"github.com/matzehuels/webring/pkg/ring"
	"github.com/matzehuels/webring/pkg/site"
)

func sampleSnapshot() ring.Snapshot {
	return ring.Snapshot{
		RunID:  "test-run",
		Width:  800,
		Height: 600,
		Nodes: []ring.SnapshotNode{
			{ID: 0, Site: site.Site{Name: "Ada", Link: "https://ada.example", Group: "systems", Year: 2021}, X: 72, Y: 144},
			{ID: 1, Site: site.Site{Name: "Grace", Link: "https://grace.example", Group: "compilers", Year: 2023}, X: 216, Y: 144},
			{ID: 2, Site: site.Site{Name: "Edsger", Link: "https://edsger.example"}, X: 144, Y: 288},
		},
		Edges: []ring.SnapshotEdge{
			{Source: 0, Target: 1},
			{Source: 1, Target: 2},
			{Source: 2, Target: 0},
		},
	}
}

func TestToDOTShape(t *testing.T) {
	dot := ToDOT(sampleSnapshot(), Options{})

	for _, want := range []string{
		"graph webring {",
		"layout=neato;",
		`n0 [label="Ada"`,
		`URL="https://ada.example"`,
		"n0 -- n1;",
		"n1 -- n2;",
		"n2 -- n0;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}

	// Undirected graph, never a digraph.
	if strings.Contains(dot, "digraph") {
		t.Error("DOT uses digraph, want graph")
	}
}

func TestToDOTPinsPositions(t *testing.T) {
	dot := ToDOT(sampleSnapshot(), Options{})

	// 72 world units scale to 1 point-inch; y is flipped for Graphviz's
	// upward axis.
	if !strings.Contains(dot, `pos="1.000,-2.000!"`) {
		t.Errorf("node 0 not pinned at expected position:\n%s", dot)
	}

	// Every node must carry a pin, else neato relayouts.
	if got := strings.Count(dot, "!\""); got != 3 {
		t.Errorf("pinned positions = %d, want 3", got)
	}
}

func TestToDOTHighlight(t *testing.T) {
	dot := ToDOT(sampleSnapshot(), Options{Highlight: []string{"grace"}, Accent: "orange"})

	lines := strings.Split(dot, "\n")
	var graceLine string
	for _, l := range lines {
		if strings.Contains(l, `label="Grace"`) {
			graceLine = l
		}
	}
	if graceLine == "" {
		t.Fatalf("no Grace node in DOT:\n%s", dot)
	}
	if !strings.Contains(graceLine, `fillcolor="orange"`) {
		t.Errorf("highlighted node not filled with accent: %s", graceLine)
	}
	if strings.Count(dot, `fillcolor="orange"`) != 1 {
		t.Errorf("accent fill applied to more than the highlighted node:\n%s", dot)
	}
}

func TestToDOTDetailedLabels(t *testing.T) {
	dot := ToDOT(sampleSnapshot(), Options{Detailed: true})

	if !strings.Contains(dot, `label="Ada\nsystems\n2021"`) {
		t.Errorf("detailed label missing group and year:\n%s", dot)
	}
	// Missing optional fields are omitted, not rendered as zeros.
	if !strings.Contains(dot, `label="Edsger"`) {
		t.Errorf("node without group/year should keep plain label:\n%s", dot)
	}
}

func TestToDOTEmptySnapshot(t *testing.T) {
	dot := ToDOT(ring.Snapshot{RunID: "empty"}, Options{})
	if !strings.Contains(dot, "graph webring {") || !strings.Contains(dot, "}") {
		t.Errorf("empty snapshot should still emit a valid graph:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<?xml version="1.0"?>
<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg">
<g></g>
</svg>`)
	out := string(normalizeViewBox(in))

	if !strings.Contains(out, `viewBox="0 0 100.00 50.00"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if !strings.Contains(out, `width="100" height="50"`) {
		t.Errorf("pixel dimensions missing: %s", out)
	}
	if strings.Contains(out, "pt") {
		t.Errorf("pt sizing survived normalization: %s", out)
	}
}

func TestNormalizeViewBoxPassthrough(t *testing.T) {
	in := []byte("<svg>no viewbox here</svg>")
	if got := normalizeViewBox(in); string(got) != string(in) {
		t.Errorf("input without viewBox should pass through unchanged")
	}
}
