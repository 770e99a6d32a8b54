// Package pkg provides the core libraries for flipgraph chain replay.
//
// # Overview
//
// Flipgraph replays sequences of node flips over a partitioned graph and
// tracks statistics incrementally at each step. The pkg directory is
// organized into a small set of focused packages:
//
//  1. [graph] - Undirected graph with node metadata and JSON serialization
//  2. [partition] - Assignments, flows, and the partition chain
//  3. [updaters] - Built-in statistics (sizes, cut edges, tallies)
//  4. [replay] - The load → replay → render pipeline
//  5. [render] - Graphviz DOT generation and SVG/PNG rendering
//  6. [cache] - Content-addressed result caching
//
// # Architecture
//
// The typical data flow through flipgraph:
//
//	Graph JSON + assignment
//	         ↓
//	    [partition] package (initial partition + updaters)
//	         ↓
//	    steps merged one at a time, statistics patched via flows
//	         ↓
//	    [render] package (DOT → SVG/PNG)
//
// # Quick Start
//
// Build a partition and merge a flip:
//
//	import (
//	    "github.com/flipgraph/flipgraph/pkg/partition"
//	    "github.com/flipgraph/flipgraph/pkg/updaters"
//	)
//
//	p, _ := partition.NewFromAttribute(g, "district", updaters.Standard("population"))
//	next, _ := p.Merge(map[string]string{"node-7": "B"})
//	sizes, _ := next.Value("sizes")
//
// Or run the whole pipeline:
//
//	runner := replay.NewRunner(cache, nil, logger)
//	result, _ := runner.Execute(ctx, replay.Options{
//	    GraphPath:      "iowa.json",
//	    AssignmentAttr: "district",
//	    StepsPath:      "chain.json",
//	})
//
// # Main Packages
//
// [graph] - Immutable-after-build undirected graph. Nodes carry arbitrary
// JSON metadata; edges are canonical unordered pairs. Round-trips through a
// deterministic JSON format.
//
// [partition] - The partition chain. Each partition links to its parent and
// carries the node and edge flows that describe the flip, so updaters can
// patch the parent's value instead of recomputing from scratch.
//
// [updaters] - Standard updater set: part sizes, cut edges (whole-graph and
// per part), and numeric attribute tallies.
//
// [replay] - Runner orchestrating load, replay, and render with caching.
// Used by the CLI and by library consumers.
//
// [render] - DOT generation with per-part coloring and cut-edge
// highlighting, rendered to SVG or PNG via Graphviz.
//
// [cache] - File-backed cache keyed by content hashes of the inputs, so
// repeated runs of the same chain are served without replaying.
//
// [errors] - Coded errors and input validation shared across packages.
//
// [observability] - Hook interfaces for replay, cache, and render events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/partition/...    # Specific package
//	go test -run Example           # Examples only
//
// [graph]: https://pkg.go.dev/github.com/flipgraph/flipgraph/pkg/graph
// [partition]: https://pkg.go.dev/github.com/flipgraph/flipgraph/pkg/partition
// [updaters]: https://pkg.go.dev/github.com/flipgraph/flipgraph/pkg/updaters
// [replay]: https://pkg.go.dev/github.com/flipgraph/flipgraph/pkg/replay
// [render]: https://pkg.go.dev/github.com/flipgraph/flipgraph/pkg/render
// [cache]: https://pkg.go.dev/github.com/flipgraph/flipgraph/pkg/cache
// [errors]: https://pkg.go.dev/github.com/flipgraph/flipgraph/pkg/errors
// [observability]: https://pkg.go.dev/github.com/flipgraph/flipgraph/pkg/observability
package pkg
