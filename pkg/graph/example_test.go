package graph_test

import (
	"fmt"

	"github.com/flipgraph/flipgraph/pkg/graph"
)

func ExampleGraph_basic() {
	// Build a path graph: 1 - 2 - 3
	g := graph.New(nil)
	_ = g.AddNode(graph.Node{ID: "1"})
	_ = g.AddNode(graph.Node{ID: "2"})
	_ = g.AddNode(graph.Node{ID: "3"})
	_ = g.AddEdge("1", "2")
	_ = g.AddEdge("2", "3")

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Degree of 2:", g.Degree("2"))
	// Output:
	// Nodes: 3
	// Edges: 2
	// Degree of 2: 2
}

func ExampleNewEdge() {
	// Edges are canonical: endpoint order does not matter.
	a := graph.NewEdge("2", "1")
	b := graph.NewEdge("1", "2")

	fmt.Println(a == b)
	fmt.Println(a.U, a.V)
	// Output:
	// true
	// 1 2
}

func ExampleGraph_IncidentEdges() {
	g := graph.New(nil)
	_ = g.AddNode(graph.Node{ID: "1"})
	_ = g.AddNode(graph.Node{ID: "2"})
	_ = g.AddNode(graph.Node{ID: "3"})
	_ = g.AddEdge("1", "2")
	_ = g.AddEdge("2", "3")

	// Only edges touching node 2 are inspected when node 2 changes part.
	for _, e := range g.IncidentEdges("2") {
		fmt.Println(e.U, "-", e.V)
	}
	// Output:
	// 1 - 2
	// 2 - 3
}
