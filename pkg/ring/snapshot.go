package ring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/webring/pkg/site"
)

// =============================================================================
// Snapshot - Settled Layout Serialization
// =============================================================================

// Snapshot is the serialization format for a settled layout. It captures
// node positions at a point in time; it is an export artifact, never an
// input to a later simulation run.
type Snapshot struct {
	RunID  string         `json:"run_id" bson:"run_id"`
	Width  float64        `json:"width" bson:"width"`
	Height float64        `json:"height" bson:"height"`
	Nodes  []SnapshotNode `json:"nodes" bson:"nodes"`
	Edges  []SnapshotEdge `json:"edges" bson:"edges"`
}

// SnapshotNode is one node with its resolved position.
type SnapshotNode struct {
	ID   int       `json:"id" bson:"id"`
	Site site.Site `json:"site" bson:"site"`
	X    float64   `json:"x" bson:"x"`
	Y    float64   `json:"y" bson:"y"`
}

// SnapshotEdge mirrors Edge for serialization.
type SnapshotEdge struct {
	Source int `json:"source" bson:"source"`
	Target int `json:"target" bson:"target"`
}

// TakeSnapshot captures the ring's current positions. A pinned node
// contributes its pin, matching what the renderer would draw.
func (r *Ring) TakeSnapshot() Snapshot {
	snap := Snapshot{
		RunID:  r.RunID,
		Width:  r.Width,
		Height: r.Height,
		Nodes:  make([]SnapshotNode, len(r.Nodes)),
		Edges:  make([]SnapshotEdge, len(r.Edges)),
	}
	for i, n := range r.Nodes {
		x, y := n.X, n.Y
		if n.Pin != nil {
			x, y = n.Pin.X, n.Pin.Y
		}
		snap.Nodes[i] = SnapshotNode{ID: n.ID, Site: n.Site, X: x, Y: y}
	}
	for i, e := range r.Edges {
		snap.Edges[i] = SnapshotEdge{Source: e.Source, Target: e.Target}
	}
	return snap
}

// MarshalSnapshot converts a snapshot to indented JSON bytes.
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeSnapshotTo(s, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteSnapshot writes a snapshot as JSON to an io.Writer.
func WriteSnapshot(s Snapshot, w io.Writer) error {
	return writeSnapshotTo(s, w)
}

// WriteSnapshotFile writes a snapshot to a JSON file.
// The file is created with 0644 permissions.
func WriteSnapshotFile(s Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeSnapshotTo(s, f)
}

// ReadSnapshot decodes a JSON snapshot from an io.Reader.
func ReadSnapshot(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("decode: %w", err)
	}
	return s, nil
}

// ReadSnapshotFile reads a JSON file and returns the decoded snapshot.
func ReadSnapshotFile(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadSnapshot(f)
}

func writeSnapshotTo(s Snapshot, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
