// Package graph provides the undirected adjacency graph that partition
// chains are built over.
//
// # Overview
//
// Flipgraph explores partitions of a graph's nodes into labeled parts (for
// example, census units into districts). This package provides the substrate:
// a simple undirected graph with string node IDs, per-node attribute metadata,
// and an incidence index tuned for the one query the partition engine leans
// on - "which edges touch this node?" ([Graph.IncidentEdges]). When a node
// changes part, only its incident edges can change boundary status, so that
// query is what keeps each update step proportional to the size of the change
// rather than the size of the graph.
//
// # Basic Usage
//
// Create a graph with [New], add nodes with [Graph.AddNode], and edges with
// [Graph.AddEdge]. Nodes must have unique non-empty IDs; edges are undirected,
// simple (no duplicates), and loop-free:
//
//	g := graph.New(nil)
//	g.AddNode(graph.Node{ID: "1", Meta: graph.Metadata{"district": "A"}})
//	g.AddNode(graph.Node{ID: "2", Meta: graph.Metadata{"district": "A"}})
//	g.AddEdge("1", "2")
//
// Query structure with [Graph.Neighbors], [Graph.IncidentEdges], and
// [Graph.Degree]. Use [Graph.Validate] after decoding a graph from an
// external source.
//
// # Edges as Values
//
// [Edge] stores its endpoints in canonical orientation (smaller ID first),
// so the same unordered pair always produces the same comparable value.
// This lets higher layers keep sets of edges in plain maps - the cut-edge
// bookkeeping in the partition engine depends on it.
//
// # Serialization
//
// The [NodeLink] type defines the canonical JSON format, with deterministic
// ordering so encoded bytes double as a content fingerprint. Use
// [ReadGraphFile] / [WriteGraphFile] for files and [MarshalGraph] /
// [UnmarshalGraph] for in-memory data.
//
// # Concurrency
//
// Graph instances are not safe for concurrent mutation. Once construction is
// finished and the graph is shared with a partition chain, it must be treated
// as read-only; concurrent reads are then safe.
package graph
