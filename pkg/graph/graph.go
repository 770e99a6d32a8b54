package graph

import (
	"errors"
	"maps"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph. Node IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownEndpoint is returned by [Graph.AddEdge] when either endpoint
	// does not exist in the graph.
	ErrUnknownEndpoint = errors.New("unknown edge endpoint")

	// ErrSelfLoop is returned by [Graph.AddEdge] when both endpoints are the
	// same node. Self-loops never cross a part boundary and carry no
	// adjacency information, so they are rejected outright.
	ErrSelfLoop = errors.New("self-loop edges are not allowed")

	// ErrDuplicateEdge is returned by [Graph.AddEdge] when the edge already
	// exists. The graph is simple: at most one edge per node pair.
	ErrDuplicateEdge = errors.New("duplicate edge")

	// ErrInvalidEdgeEndpoint is returned by [Graph.Validate] when an edge
	// references a node that doesn't exist. This indicates graph corruption.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")
)

// Metadata stores arbitrary key-value attributes attached to nodes or the
// graph. It is commonly used for per-node data such as population counts or
// an initial district assignment. Metadata maps are never nil - they are
// automatically initialized to empty maps when needed.
type Metadata map[string]any

// Node represents a vertex in an adjacency graph.
//
// The zero value is not usable - ID must be set before adding to a Graph.
type Node struct {
	ID   string   // Unique identifier
	Meta Metadata // Arbitrary key-value attributes (never nil after AddNode)
}

// Edge is an undirected connection between two nodes, stored in canonical
// orientation (U is the lexicographically smaller endpoint). Because both
// fields are strings, an Edge value is comparable and can be used directly
// as a map key.
type Edge struct {
	U string
	V string
}

// NewEdge returns the canonical Edge for the unordered pair {a, b}.
// NewEdge("b", "a") and NewEdge("a", "b") produce the same value.
func NewEdge(a, b string) Edge {
	if b < a {
		a, b = b, a
	}
	return Edge{U: a, V: b}
}

// Other returns the endpoint opposite to id, and true if id is an endpoint
// of the edge at all.
func (e Edge) Other(id string) (string, bool) {
	switch id {
	case e.U:
		return e.V, true
	case e.V:
		return e.U, true
	}
	return "", false
}

// Graph is a simple undirected graph backed by adjacency maps. It is the
// substrate a partition chain is built over: once a chain borrows a Graph,
// the graph must be treated as read-only for the lifetime of the chain.
//
// The zero value is not usable - use New to create a valid Graph instance.
// Graph is not safe for concurrent mutation without external synchronization;
// concurrent reads are safe once construction is finished.
type Graph struct {
	nodes    map[string]*Node
	edges    []Edge
	edgeSet  map[Edge]struct{}
	adjacent map[string][]string // nodeID -> neighbor IDs
	incident map[string][]Edge   // nodeID -> edges touching the node
	meta     Metadata
}

// New creates an empty Graph with optional graph-level metadata.
// The metadata parameter can be nil, in which case an empty map is created.
func New(meta Metadata) *Graph {
	if meta == nil {
		meta = Metadata{}
	}
	return &Graph{
		nodes:    make(map[string]*Node),
		edgeSet:  make(map[Edge]struct{}),
		adjacent: make(map[string][]string),
		incident: make(map[string][]Edge),
		meta:     meta,
	}
}

// Meta returns the graph-level metadata map.
// The returned map is never nil and can be safely modified before the graph
// is shared with a partition chain.
func (g *Graph) Meta() Metadata { return g.meta }

// AddNode adds a node to the graph. Returns ErrInvalidNodeID if the node ID
// is empty, or ErrDuplicateNodeID if a node with the same ID already exists.
// The node's Meta field is automatically initialized to an empty map if nil.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	node := &n
	g.nodes[node.ID] = node
	return nil
}

// AddEdge adds an undirected edge between two existing nodes. The endpoint
// order does not matter; the edge is stored in canonical orientation.
// Returns ErrUnknownEndpoint if either node doesn't exist, ErrSelfLoop if
// both endpoints are the same node, or ErrDuplicateEdge if the pair is
// already connected.
func (g *Graph) AddEdge(a, b string) error {
	if a == b {
		return ErrSelfLoop
	}
	if _, ok := g.nodes[a]; !ok {
		return ErrUnknownEndpoint
	}
	if _, ok := g.nodes[b]; !ok {
		return ErrUnknownEndpoint
	}
	e := NewEdge(a, b)
	if _, dup := g.edgeSet[e]; dup {
		return ErrDuplicateEdge
	}
	g.edges = append(g.edges, e)
	g.edgeSet[e] = struct{}{}
	g.adjacent[a] = append(g.adjacent[a], b)
	g.adjacent[b] = append(g.adjacent[b], a)
	g.incident[a] = append(g.incident[a], e)
	g.incident[b] = append(g.incident[b], e)
	return nil
}

// Nodes returns all nodes in the graph.
// The order is not guaranteed. The returned slice contains pointers to the
// actual node structs, so modifications affect the graph.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		nodes = append(nodes, n)
	}
	return nodes
}

// NodeIDs returns all node IDs in sorted order.
func (g *Graph) NodeIDs() []string {
	return slices.Sorted(maps.Keys(g.nodes))
}

// Edges returns a copy of all edges in the graph.
// The order matches insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// Node returns the node with the given ID and true, or nil and false if not
// found.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// HasNode reports whether a node with the given ID exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// HasEdge reports whether the unordered pair {a, b} is connected.
func (g *Graph) HasEdge(a, b string) bool {
	_, ok := g.edgeSet[NewEdge(a, b)]
	return ok
}

// Neighbors returns the IDs of nodes adjacent to the given node.
// Returns nil if the node has no neighbors or doesn't exist. The returned
// slice should not be modified - use it as a read-only view.
func (g *Graph) Neighbors(id string) []string { return g.adjacent[id] }

// IncidentEdges returns the edges touching the given node. This is the hot
// path for incremental boundary updates: when a node changes part, only its
// incident edges can change crossing status. Returns nil if the node has no
// edges or doesn't exist. The returned slice should not be modified.
func (g *Graph) IncidentEdges(id string) []Edge { return g.incident[id] }

// Degree returns the number of edges touching the node.
// Returns 0 if the node doesn't exist.
func (g *Graph) Degree(id string) int { return len(g.incident[id]) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Attribute collects the value of a named node attribute for every node that
// carries it. The result maps node ID to the raw metadata value; nodes
// without the attribute are absent. This is the lookup used to build an
// initial assignment from a stored attribute.
func (g *Graph) Attribute(name string) map[string]any {
	out := make(map[string]any)
	for id, n := range g.nodes {
		if v, ok := n.Meta[name]; ok {
			out[id] = v
		}
	}
	return out
}

// Validate checks graph integrity and returns nil if valid.
// It verifies that every edge connects existing nodes. Use this after
// decoding a graph from an external source.
func (g *Graph) Validate() error {
	for _, e := range g.edges {
		if _, ok := g.nodes[e.U]; !ok {
			return ErrInvalidEdgeEndpoint
		}
		if _, ok := g.nodes[e.V]; !ok {
			return ErrInvalidEdgeEndpoint
		}
	}
	return nil
}
