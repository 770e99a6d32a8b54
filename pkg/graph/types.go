package graph

import (
	"encoding/json"
	"fmt"
	"slices"
)

// =============================================================================
// NodeLink - Canonical Graph Serialization Format
// =============================================================================

// NodeLink is the canonical serialization format for adjacency graphs.
// Used for file storage, caching keys, and cross-tool compatibility.
//
// The format is human-readable and designed for round-trip fidelity:
// import → partition → export → re-import produces identical results.
type NodeLink struct {
	Meta  Metadata   `json:"meta,omitempty"`
	Nodes []NodeData `json:"nodes"`
	Edges []EdgeData `json:"edges"`
}

// NodeData is the serialized form of a node.
type NodeData struct {
	ID   string         `json:"id"`
	Meta map[string]any `json:"meta,omitempty"`
}

// EdgeData represents an undirected edge between two node IDs.
type EdgeData struct {
	U string `json:"u"`
	V string `json:"v"`
}

// =============================================================================
// Graph ↔ NodeLink Conversion
// =============================================================================

// FromGraph converts a Graph to its serialization format.
// Nodes are sorted by ID and edges by canonical orientation for deterministic
// output, so the encoded bytes are a stable fingerprint of the graph.
func FromGraph(g *Graph) NodeLink {
	nodes := g.Nodes()
	slices.SortFunc(nodes, func(a, b *Node) int {
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})

	edges := g.Edges()
	slices.SortFunc(edges, func(a, b Edge) int {
		if a.U != b.U {
			if a.U < b.U {
				return -1
			}
			return 1
		}
		if a.V < b.V {
			return -1
		}
		if a.V > b.V {
			return 1
		}
		return 0
	})

	out := NodeLink{
		Nodes: make([]NodeData, len(nodes)),
		Edges: make([]EdgeData, len(edges)),
	}
	if len(g.Meta()) > 0 {
		out.Meta = copyMeta(g.Meta())
	}

	for i, n := range nodes {
		out.Nodes[i] = NodeData{ID: n.ID, Meta: cleanMeta(n.Meta)}
	}
	for i, e := range edges {
		out.Edges[i] = EdgeData{U: e.U, V: e.V}
	}
	return out
}

// ToGraph converts a NodeLink document to a Graph.
// Returns an error for duplicate nodes, unknown endpoints, self-loops, or
// duplicate edges.
func (nl NodeLink) ToGraph() (*Graph, error) {
	g := New(copyMeta(nl.Meta))

	for _, nd := range nl.Nodes {
		n := Node{ID: nd.ID, Meta: copyMeta(nd.Meta)}
		if n.Meta == nil {
			n.Meta = Metadata{}
		}
		if err := g.AddNode(n); err != nil {
			return nil, fmt.Errorf("add node %s: %w", nd.ID, err)
		}
	}

	for _, ed := range nl.Edges {
		if err := g.AddEdge(ed.U, ed.V); err != nil {
			return nil, fmt.Errorf("add edge %s-%s: %w", ed.U, ed.V, err)
		}
	}

	return g, nil
}

// UnmarshalGraph deserializes JSON bytes to a NodeLink document.
func UnmarshalGraph(data []byte) (NodeLink, error) {
	var nl NodeLink
	if err := json.Unmarshal(data, &nl); err != nil {
		return NodeLink{}, err
	}
	return nl, nil
}

// copyMeta creates a shallow copy of metadata to avoid mutation.
func copyMeta(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	result := make(map[string]any, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}

// cleanMeta returns a copy of node metadata, or nil if it is empty so the
// encoder can omit the field.
func cleanMeta(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	return copyMeta(m)
}
