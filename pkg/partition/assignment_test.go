package partition

import (
	"errors"
	"testing"

	"github.com/flipgraph/flipgraph/pkg/graph"
)

// pathGraph builds the path 1-2-3-4.
func pathGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New(nil)
	for _, id := range []string{"1", "2", "3", "4"} {
		if err := g.AddNode(graph.Node{ID: id}); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
	}
	for _, pair := range [][2]string{{"1", "2"}, {"2", "3"}, {"3", "4"}} {
		if err := g.AddEdge(pair[0], pair[1]); err != nil {
			t.Fatalf("AddEdge(%v): %v", pair, err)
		}
	}
	return g
}

func initialMapping() map[string]string {
	return map[string]string{"1": "A", "2": "A", "3": "B", "4": "B"}
}

func TestFromMapping(t *testing.T) {
	a := FromMapping(initialMapping())

	if got := a.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}

	tests := []struct {
		part string
		want []string
	}{
		{"A", []string{"1", "2"}},
		{"B", []string{"3", "4"}},
	}
	for _, tt := range tests {
		set := a.NodesIn(tt.part)
		if set.Len() != len(tt.want) {
			t.Errorf("NodesIn(%s) = %v, want %v", tt.part, set.Sorted(), tt.want)
			continue
		}
		for _, id := range tt.want {
			if !set.Contains(id) {
				t.Errorf("NodesIn(%s) missing %s", tt.part, id)
			}
		}
	}
}

func TestPartOf(t *testing.T) {
	a := FromMapping(initialMapping())

	part, err := a.PartOf("3")
	if err != nil {
		t.Fatalf("PartOf(3): %v", err)
	}
	if part != "B" {
		t.Errorf("PartOf(3) = %s, want B", part)
	}

	_, err = a.PartOf("ghost")
	if !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("PartOf(ghost) error = %v, want ErrNodeNotFound", err)
	}
}

func TestFromAttribute(t *testing.T) {
	g := graph.New(nil)
	_ = g.AddNode(graph.Node{ID: "1", Meta: graph.Metadata{"district": "A"}})
	_ = g.AddNode(graph.Node{ID: "2", Meta: graph.Metadata{"district": float64(3)}})

	a, err := FromAttribute(g, "district")
	if err != nil {
		t.Fatalf("FromAttribute: %v", err)
	}
	if part, _ := a.PartOf("1"); part != "A" {
		t.Errorf("PartOf(1) = %s, want A", part)
	}
	// JSON numbers decode to float64; integer values become canonical labels.
	if part, _ := a.PartOf("2"); part != "3" {
		t.Errorf("PartOf(2) = %s, want 3", part)
	}
}

func TestFromAttributeErrors(t *testing.T) {
	tests := []struct {
		name string
		meta graph.Metadata
	}{
		{"Missing", graph.Metadata{}},
		{"WrongType", graph.Metadata{"district": []string{"A"}}},
		{"FractionalNumber", graph.Metadata{"district": 1.5}},
		{"EmptyString", graph.Metadata{"district": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := graph.New(nil)
			_ = g.AddNode(graph.Node{ID: "1", Meta: tt.meta})
			_, err := FromAttribute(g, "district")
			if !errors.Is(err, ErrInvalidAssignment) {
				t.Errorf("FromAttribute error = %v, want ErrInvalidAssignment", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	g := pathGraph(t)

	tests := []struct {
		name    string
		mapping map[string]string
		wantOK  bool
	}{
		{"Total", initialMapping(), true},
		{"MissingNode", map[string]string{"1": "A", "2": "A", "3": "B"}, false},
		{"ForeignNode", map[string]string{"1": "A", "2": "A", "3": "B", "4": "B", "9": "B"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromMapping(tt.mapping).Validate(g)
			if tt.wantOK && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.wantOK && !errors.Is(err, ErrInvalidAssignment) {
				t.Errorf("Validate() = %v, want ErrInvalidAssignment", err)
			}
		})
	}
}

func TestCopySharesSets(t *testing.T) {
	a := FromMapping(initialMapping())
	b := a.Copy()

	// The copy shares the underlying per-part sets. Applying a flow to the
	// copy must replace its sets without disturbing the original.
	flow := Flow{
		"A": {Out: NewNodeSet("2")},
		"B": {In: NewNodeSet("2")},
	}
	if err := b.ApplyFlow(flow); err != nil {
		t.Fatalf("ApplyFlow: %v", err)
	}

	if part, _ := a.PartOf("2"); part != "A" {
		t.Errorf("original assignment changed: PartOf(2) = %s, want A", part)
	}
	if part, _ := b.PartOf("2"); part != "B" {
		t.Errorf("copy not updated: PartOf(2) = %s, want B", part)
	}
	if got := a.NodesIn("A").Len(); got != 2 {
		t.Errorf("original part A has %d nodes, want 2", got)
	}
	if got := b.NodesIn("A").Len(); got != 1 {
		t.Errorf("copy part A has %d nodes, want 1", got)
	}
}

func TestApplyFlowInconsistent(t *testing.T) {
	a := FromMapping(initialMapping())
	flow := Flow{
		"A": {In: NewNodeSet("3"), Out: NewNodeSet("3")},
	}
	if err := a.ApplyFlow(flow); !errors.Is(err, ErrInconsistentFlow) {
		t.Errorf("ApplyFlow error = %v, want ErrInconsistentFlow", err)
	}
}

func TestApplyFlowCreatesAndDrainsParts(t *testing.T) {
	a := FromMapping(map[string]string{"1": "A", "2": "B"})
	flow := Flow{
		"B": {Out: NewNodeSet("2")},
		"C": {In: NewNodeSet("2")},
	}
	if err := a.ApplyFlow(flow); err != nil {
		t.Fatalf("ApplyFlow: %v", err)
	}

	if part, _ := a.PartOf("2"); part != "C" {
		t.Errorf("PartOf(2) = %s, want C", part)
	}
	// The drained part stays present with an empty set.
	if set := a.NodesIn("B"); set == nil || set.Len() != 0 {
		t.Errorf("NodesIn(B) = %v, want empty set", set)
	}
}

func TestItems(t *testing.T) {
	a := FromMapping(initialMapping())

	collect := func() map[string]string {
		out := make(map[string]string)
		for node, part := range a.Items() {
			if _, dup := out[node]; dup {
				t.Fatalf("node %s yielded twice", node)
			}
			out[node] = part
		}
		return out
	}

	first := collect()
	if len(first) != 4 {
		t.Fatalf("Items() yielded %d pairs, want 4", len(first))
	}
	for node, part := range initialMapping() {
		if first[node] != part {
			t.Errorf("Items()[%s] = %s, want %s", node, first[node], part)
		}
	}

	// The sequence is restartable: a second pass yields everything again.
	second := collect()
	if len(second) != 4 {
		t.Errorf("second Items() pass yielded %d pairs, want 4", len(second))
	}
}

func TestItemsEarlyStop(t *testing.T) {
	a := FromMapping(initialMapping())
	count := 0
	for range a.Items() {
		count++
		if count == 2 {
			break
		}
	}
	if count != 2 {
		t.Errorf("stopped after %d pairs, want 2", count)
	}
}

func TestMapping(t *testing.T) {
	want := initialMapping()
	got := FromMapping(want).Mapping()
	if len(got) != len(want) {
		t.Fatalf("Mapping() has %d entries, want %d", len(got), len(want))
	}
	for node, part := range want {
		if got[node] != part {
			t.Errorf("Mapping()[%s] = %s, want %s", node, got[node], part)
		}
	}
}
