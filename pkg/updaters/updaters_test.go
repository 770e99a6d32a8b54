package updaters

import (
	"maps"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/flipgraph/flipgraph/pkg/graph"
	"github.com/flipgraph/flipgraph/pkg/partition"
)

// gridGraph builds a 3x3 grid with node IDs "r,c" and a pop attribute
// of r*3+c+1 (1..9).
func gridGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New(nil)
	id := func(r, c int) string {
		return strconv.Itoa(r) + "," + strconv.Itoa(c)
	}
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			n := graph.Node{ID: id(r, c), Meta: graph.Metadata{"pop": r*3 + c + 1}}
			if err := g.AddNode(n); err != nil {
				t.Fatalf("AddNode: %v", err)
			}
		}
	}
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			if c < 2 {
				if err := g.AddEdge(id(r, c), id(r, c+1)); err != nil {
					t.Fatalf("AddEdge: %v", err)
				}
			}
			if r < 2 {
				if err := g.AddEdge(id(r, c), id(r+1, c)); err != nil {
					t.Fatalf("AddEdge: %v", err)
				}
			}
		}
	}
	return g
}

// columnMapping assigns each grid column to its own part: L, M, R.
func columnMapping() map[string]string {
	m := make(map[string]string)
	parts := []string{"L", "M", "R"}
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			m[strconv.Itoa(r)+","+strconv.Itoa(c)] = parts[c]
		}
	}
	return m
}

// scratchValue recomputes an updater with a full root scan over the same
// assignment, giving the ground truth the incremental path must match. The
// assignment is taken from the chain rather than rebuilt from a mapping so
// both sides see the same part universe: a part drained to zero nodes stays
// present (ApplyFlow keeps it), and a node→part mapping cannot express it.
func scratchValue(t *testing.T, g *graph.Graph, a *partition.Assignment, alias string, up partition.Updater) any {
	t.Helper()
	p, err := partition.New(g, a.Copy(), partition.Updaters{alias: up})
	if err != nil {
		t.Fatalf("scratch partition: %v", err)
	}
	v, err := p.Value(alias)
	if err != nil {
		t.Fatalf("scratch value: %v", err)
	}
	return v
}

func mustValue(t *testing.T, p *partition.Partition, name string) any {
	t.Helper()
	v, err := p.Value(name)
	if err != nil {
		t.Fatalf("Value(%q): %v", name, err)
	}
	return v
}

func TestSizesScenario(t *testing.T) {
	g := graph.New(nil)
	for _, id := range []string{"1", "2", "3", "4"} {
		if err := g.AddNode(graph.Node{ID: id}); err != nil {
			t.Fatalf("AddNode: %v", err)
		}
	}
	for _, e := range [][2]string{{"1", "2"}, {"2", "3"}, {"3", "4"}} {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			t.Fatalf("AddEdge: %v", err)
		}
	}

	root, err := partition.NewFromMapping(g,
		map[string]string{"1": "A", "2": "A", "3": "B", "4": "B"},
		partition.Updaters{NameSizes: Sizes(NameSizes)})
	if err != nil {
		t.Fatalf("NewFromMapping: %v", err)
	}
	if got := mustValue(t, root, NameSizes); !reflect.DeepEqual(got, map[string]int{"A": 2, "B": 2}) {
		t.Fatalf("root sizes = %v", got)
	}

	child, err := root.Merge(map[string]string{"2": "B"})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if got := mustValue(t, child, NameSizes); !reflect.DeepEqual(got, map[string]int{"A": 1, "B": 3}) {
		t.Fatalf("child sizes = %v", got)
	}
}

// Chain of flips exercising part growth, shrinkage, and a swap. After each
// merge every incremental updater must equal a from-scratch recomputation.
func TestIncrementalMatchesScratch(t *testing.T) {
	g := gridGraph(t)
	mapping := columnMapping()

	ups := partition.Updaters{
		NameSizes:          Sizes(NameSizes),
		NameCutEdges:       CutEdges(NameCutEdges),
		NameCutEdgesByPart: CutEdgesByPart(NameCutEdgesByPart),
		"pop":              Tally("pop", "pop"),
	}
	p, err := partition.NewFromMapping(g, mapping, ups)
	if err != nil {
		t.Fatalf("NewFromMapping: %v", err)
	}

	deltas := []map[string]string{
		{"0,1": "L"},
		{"1,1": "L", "2,1": "L"},
		{"0,2": "M", "0,1": "M"},
		{"2,2": "M", "2,1": "R"},
	}
	for i, delta := range deltas {
		p, err = p.Merge(delta)
		if err != nil {
			t.Fatalf("merge %d: %v", i, err)
		}
		maps.Copy(mapping, delta)

		if got := p.Assignment().Mapping(); !reflect.DeepEqual(got, mapping) {
			t.Fatalf("merge %d: assignment %v, want %v", i, got, mapping)
		}

		for alias, up := range ups {
			got := mustValue(t, p, alias)
			want := scratchValue(t, g, p.Assignment(), alias, up)
			if !reflect.DeepEqual(got, want) {
				t.Errorf("merge %d, %s: incremental %v, scratch %v", i, alias, got, want)
			}
		}
	}
}

// Draining a part keeps it in every statistic with a zero value, mirroring
// what the assignment does: the part survives with an empty node set.
func TestDrainedPartKeepsZeroValues(t *testing.T) {
	g := gridGraph(t)
	p, err := partition.NewFromMapping(g, columnMapping(), Standard("pop"))
	if err != nil {
		t.Fatalf("NewFromMapping: %v", err)
	}
	p, err = p.Merge(map[string]string{"0,1": "L", "1,1": "L", "2,1": "L"})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	sizes := mustValue(t, p, NameSizes).(map[string]int)
	if n, ok := sizes["M"]; !ok || n != 0 {
		t.Errorf("sizes[M] = %d (present %v), want 0 present", n, ok)
	}
	pop := mustValue(t, p, "pop").(map[string]float64)
	if v, ok := pop["M"]; !ok || v != 0 {
		t.Errorf("pop[M] = %v (present %v), want 0 present", v, ok)
	}
	byPart := mustValue(t, p, NameCutEdgesByPart).(map[string]partition.EdgeSet)
	if set, ok := byPart["M"]; !ok || set.Len() != 0 {
		t.Errorf("cut_edges_by_part[M] = %v (present %v), want empty present", set, ok)
	}
}

func TestCutEdges(t *testing.T) {
	g := gridGraph(t)
	p, err := partition.NewFromMapping(g, columnMapping(),
		partition.Updaters{NameCutEdges: CutEdges(NameCutEdges)})
	if err != nil {
		t.Fatalf("NewFromMapping: %v", err)
	}

	cut := mustValue(t, p, NameCutEdges).(partition.EdgeSet)
	// Columns only cut the six horizontal edges.
	if cut.Len() != 6 {
		t.Fatalf("cut edges = %d, want 6", cut.Len())
	}
	for e := range cut {
		if !strings.Contains(e.U, ",") || e.U[2] == e.V[2] {
			t.Errorf("unexpected cut edge %s", e)
		}
	}
}

func TestCutEdgesByPart(t *testing.T) {
	g := gridGraph(t)
	p, err := partition.NewFromMapping(g, columnMapping(),
		partition.Updaters{NameCutEdgesByPart: CutEdgesByPart(NameCutEdgesByPart)})
	if err != nil {
		t.Fatalf("NewFromMapping: %v", err)
	}

	byPart := mustValue(t, p, NameCutEdgesByPart).(map[string]partition.EdgeSet)
	want := map[string]int{"L": 3, "M": 6, "R": 3}
	for part, n := range want {
		if got := byPart[part].Len(); got != n {
			t.Errorf("part %s boundary = %d, want %d", part, got, n)
		}
	}

	// A boundary edge is filed under both endpoint parts.
	for part, set := range byPart {
		for e := range set {
			pu, _ := p.PartOf(e.U)
			pv, _ := p.PartOf(e.V)
			if pu != part && pv != part {
				t.Errorf("edge %s filed under %s but joins %s and %s", e, part, pu, pv)
			}
		}
	}
}

func TestCutEdgesByPartSharesUnchangedSets(t *testing.T) {
	g := gridGraph(t)
	root, err := partition.NewFromMapping(g, columnMapping(),
		partition.Updaters{NameCutEdgesByPart: CutEdgesByPart(NameCutEdgesByPart)})
	if err != nil {
		t.Fatalf("NewFromMapping: %v", err)
	}
	// Flipping inside the L/M boundary leaves R's boundary untouched.
	child, err := root.Merge(map[string]string{"0,1": "L"})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	before := mustValue(t, root, NameCutEdgesByPart).(map[string]partition.EdgeSet)
	after := mustValue(t, child, NameCutEdgesByPart).(map[string]partition.EdgeSet)
	if !reflect.DeepEqual(before["R"], after["R"]) {
		t.Fatalf("R boundary changed: %v -> %v", before["R"], after["R"])
	}
}

func TestCutEdgesByPartNewPartWithoutBoundary(t *testing.T) {
	g := graph.New(nil)
	for _, id := range []string{"1", "2", "3"} {
		if err := g.AddNode(graph.Node{ID: id}); err != nil {
			t.Fatalf("AddNode: %v", err)
		}
	}
	if err := g.AddEdge("1", "2"); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	up := CutEdgesByPart(NameCutEdgesByPart)
	root, err := partition.NewFromMapping(g,
		map[string]string{"1": "A", "2": "A", "3": "A"},
		partition.Updaters{NameCutEdgesByPart: up})
	if err != nil {
		t.Fatalf("NewFromMapping: %v", err)
	}

	// Node 3 has no edges, so part C is born with an empty boundary.
	child, err := root.Merge(map[string]string{"3": "C"})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	byPart := mustValue(t, child, NameCutEdgesByPart).(map[string]partition.EdgeSet)
	if set, ok := byPart["C"]; !ok || set.Len() != 0 {
		t.Fatalf("new part C = %v (present %v), want empty present", set, ok)
	}
	want := scratchValue(t, g, child.Assignment(), NameCutEdgesByPart, up)
	if !reflect.DeepEqual(mustValue(t, child, NameCutEdgesByPart), want) {
		t.Fatalf("incremental %v, scratch %v", byPart, want)
	}
}

func TestTally(t *testing.T) {
	g := gridGraph(t)
	p, err := partition.NewFromMapping(g, columnMapping(),
		partition.Updaters{"pop": Tally("pop", "pop")})
	if err != nil {
		t.Fatalf("NewFromMapping: %v", err)
	}

	// Column sums of 1..9 laid out row-major.
	want := map[string]float64{"L": 12, "M": 15, "R": 18}
	if got := mustValue(t, p, "pop"); !reflect.DeepEqual(got, want) {
		t.Fatalf("pop = %v, want %v", got, want)
	}
}

func TestTallyErrors(t *testing.T) {
	tests := []struct {
		name string
		meta graph.Metadata
	}{
		{"MissingAttribute", graph.Metadata{}},
		{"NonNumeric", graph.Metadata{"pop": "many"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := graph.New(nil)
			if err := g.AddNode(graph.Node{ID: "1", Meta: tt.meta}); err != nil {
				t.Fatalf("AddNode: %v", err)
			}
			_, err := partition.NewFromMapping(g, map[string]string{"1": "A"},
				partition.Updaters{"pop": Tally("pop", "pop")})
			if err == nil {
				t.Fatal("expected construction to fail")
			}
		})
	}
}

func TestStandard(t *testing.T) {
	ups := Standard("pop", "area")
	for _, name := range []string{NameSizes, NameCutEdges, NameCutEdgesByPart, "pop", "area"} {
		if _, ok := ups[name]; !ok {
			t.Errorf("Standard missing %q", name)
		}
	}
	if len(ups) != 5 {
		t.Fatalf("Standard registered %d updaters, want 5", len(ups))
	}

	// Each call builds an independent registry.
	other := Standard()
	other["extra"] = Sizes("extra")
	if _, ok := Standard()["extra"]; ok {
		t.Fatal("registries share state")
	}
}

func TestAliasMismatch(t *testing.T) {
	g := gridGraph(t)
	// Registered under a name different from its alias: the root computes
	// fine, but a merge cannot find the parent value.
	root, err := partition.NewFromMapping(g, columnMapping(),
		partition.Updaters{"n": Sizes("wrong")})
	if err != nil {
		t.Fatalf("NewFromMapping: %v", err)
	}
	if _, err := root.Merge(map[string]string{"0,1": "L"}); err == nil {
		t.Fatal("expected merge to fail on alias mismatch")
	}
}
