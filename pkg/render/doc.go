// Package render draws partitions as colored graph diagrams using Graphviz.
//
// # Overview
//
// Each part gets a stable fill color and edges crossing part boundaries are
// drawn bold and red, making the boundary structure of an assignment visible
// at a glance. Rendering happens in two steps:
//
//	Partition → ToDOT() → DOT string → RenderSVG()/RenderPNG() → image
//
// The DOT string is a plain-text intermediate, so it can be written to disk
// and re-rendered later without reloading the graph.
//
// # Layout Engines
//
// Graphviz provides several layout engines via the Engine option:
//
//   - neato: Spring model (default) - suits undirected graphs
//   - fdp: Force-directed - for clustering
//   - dot: Hierarchical - for layered structures
//   - circo: Circular - for cyclic structures
//
// # Usage
//
//	dot, err := render.ToDOT(p, render.Options{})
//	svg, err := render.RenderSVG(ctx, dot)
package render
