// Package pkg provides the core libraries for the webring layout engine.
//
// # Overview
//
// Webring arranges the member sites of a web ring as a force-directed
// graph: each site is a node, consecutive ring neighbors are linked, and
// a physics simulation relaxes the layout until it settles. The pkg
// directory is organized into three main areas:
//
//  1. Domain logic - ring topology, force simulation, camera, interaction
//  2. Data plumbing - directory sources, caching, HTTP fetching
//  3. Output - scene synchronization and static rendering
//
// # Architecture
//
// The typical data flow:
//
//	Ring Directory (TOML/JSON file, URL, or MongoDB)
//	         ↓
//	    [source] package (load + validate sites)
//	         ↓
//	    [ring] package (cycle topology + initial placement)
//	         ↓
//	    [sim] package (force simulation until settled)
//	         ↓
//	    [scene] / [render] packages (live frames or SVG/PNG)
//
// # Quick Start
//
// Settle a ring headless and take a snapshot:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/webring/pkg/layout"
//	    "github.com/matzehuels/webring/pkg/source"
//	)
//
//	doc, _ := source.NewFileSource("ring.toml").Load(context.Background())
//	l := layout.New(doc.Sites, layout.Options{Width: 800, Height: 600})
//	defer l.Close()
//	_ = l.RunToSettled(context.Background())
//	snap := l.Ring.TakeSnapshot()
//
// # Main Packages
//
// [site] - The Site record (name, link, group, year) and ring ordering.
//
// [ring] - Cycle topology: nodes, neighbor edges, random initial
// placement, and JSON snapshots of settled positions.
//
// [sim] - The force simulation engine: link springs, charge repulsion,
// collision passes, weak centering, and the alpha energy state machine.
//
// [camera] - Pan, zoom, and the one-shot animated frame-to-fit.
//
// [interact] - Pointer handling: hit testing, drag (with simulation
// reheat), click navigation, and hover highlighting.
//
// [scene] - Frame-coalesced synchronization from simulation state to a
// drawable visual arena.
//
// [layout] - Wires all of the above into one instance per ring.
//
// [source] - Directory loading from files, HTTP, or MongoDB, with
// parameter overrides.
//
// [cache] / [httputil] - Directory caching (file or Redis) and retrying
// HTTP fetches.
//
// [render] - Static SVG/PNG export of settled snapshots via Graphviz.
//
// [errors] / [observability] / [buildinfo] - Structured errors, metric
// hooks, and build metadata.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...        # All tests
//	go test ./pkg/sim/...    # Specific package
//
// [site]: https://pkg.go.dev/github.com/matzehuels/webring/pkg/site
// [ring]: https://pkg.go.dev/github.com/matzehuels/webring/pkg/ring
// [sim]: https://pkg.go.dev/github.com/matzehuels/webring/pkg/sim
// [camera]: https://pkg.go.dev/github.com/matzehuels/webring/pkg/camera
// [interact]: https://pkg.go.dev/github.com/matzehuels/webring/pkg/interact
// [scene]: https://pkg.go.dev/github.com/matzehuels/webring/pkg/scene
// [layout]: https://pkg.go.dev/github.com/matzehuels/webring/pkg/layout
// [source]: https://pkg.go.dev/github.com/matzehuels/webring/pkg/source
// [cache]: https://pkg.go.dev/github.com/matzehuels/webring/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/webring/pkg/httputil
// [render]: https://pkg.go.dev/github.com/matzehuels/webring/pkg/render
// [errors]: https://pkg.go.dev/github.com/matzehuels/webring/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/webring/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/webring/pkg/buildinfo
package pkg
