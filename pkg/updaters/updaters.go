// Package updaters provides ready-made statistics for partition chains.
//
// Every updater here follows the same pattern: at a root partition it
// computes its value by scanning the graph once; at a child it patches the
// parent's cached value using the child's flow and edge flow, doing work
// proportional to the size of the step instead of the size of the graph.
// This is the incremental capability the partition engine exposes, exercised
// end to end.
//
// Each constructor takes the alias the updater is registered under, because
// an updater reads its own previous value from the parent's cache by name:
//
//	ups := partition.Updaters{
//	    "sizes":     updaters.Sizes("sizes"),
//	    "cut_edges": updaters.CutEdges("cut_edges"),
//	    "pop":       updaters.Tally("pop", "population"),
//	}
//
// [Standard] bundles the common set.
package updaters

import (
	"fmt"
	"maps"

	"github.com/flipgraph/flipgraph/pkg/partition"
)

// Conventional aliases used by [Standard].
const (
	NameSizes          = "sizes"
	NameCutEdges       = "cut_edges"
	NameCutEdgesByPart = "cut_edges_by_part"
)

// Standard returns a fresh registry with the common statistics: part sizes,
// cut edges (global and per part), and one [Tally] per given numeric node
// attribute, registered under the attribute's own name. A new map is built
// on every call so chains never share a mutable registry.
func Standard(tallyAttrs ...string) partition.Updaters {
	ups := partition.Updaters{
		NameSizes:          Sizes(NameSizes),
		NameCutEdges:       CutEdges(NameCutEdges),
		NameCutEdgesByPart: CutEdgesByPart(NameCutEdgesByPart),
	}
	for _, attr := range tallyAttrs {
		ups[attr] = Tally(attr, attr)
	}
	return ups
}

// Sizes returns an updater computing the number of nodes per part as a
// map[string]int. Incremental cost per step: one map clone plus O(affected
// parts).
func Sizes(alias string) partition.Updater {
	return func(p *partition.Partition) (any, error) {
		if p.Parent() == nil {
			sizes := make(map[string]int, p.Len())
			for _, part := range p.Parts() {
				sizes[part] = p.Assignment().NodesIn(part).Len()
			}
			return sizes, nil
		}

		prev, err := parentValue[map[string]int](p, alias)
		if err != nil {
			return nil, err
		}
		sizes := maps.Clone(prev)
		for part, pf := range p.Flow() {
			sizes[part] = sizes[part] - pf.Out.Len() + pf.In.Len()
		}
		return sizes, nil
	}
}

// CutEdges returns an updater computing the set of edges whose endpoints lie
// in different parts, as a [partition.EdgeSet]. Incremental cost per step:
// O(edge flow).
func CutEdges(alias string) partition.Updater {
	return func(p *partition.Partition) (any, error) {
		if p.Parent() == nil {
			cut := make(partition.EdgeSet)
			for _, e := range p.Graph().Edges() {
				crossing, err := p.CrossesParts(e)
				if err != nil {
					return nil, err
				}
				if crossing {
					cut[e] = struct{}{}
				}
			}
			return cut, nil
		}

		prev, err := parentValue[partition.EdgeSet](p, alias)
		if err != nil {
			return nil, err
		}
		cut := prev.Clone()
		for e := range p.EdgeFlow().Lost() {
			delete(cut, e)
		}
		for e := range p.EdgeFlow().Gained() {
			cut[e] = struct{}{}
		}
		return cut, nil
	}
}

// CutEdgesByPart returns an updater computing, for every part, the set of
// boundary edges touching it, as a map[string]partition.EdgeSet. Parts whose
// boundary did not change keep the parent's set object.
func CutEdgesByPart(alias string) partition.Updater {
	return func(p *partition.Partition) (any, error) {
		if p.Parent() == nil {
			cut := make(map[string]partition.EdgeSet, p.Len())
			for _, part := range p.Parts() {
				cut[part] = make(partition.EdgeSet)
			}
			for _, e := range p.Graph().Edges() {
				crossing, err := p.CrossesParts(e)
				if err != nil {
					return nil, err
				}
				if !crossing {
					continue
				}
				for _, endpoint := range []string{e.U, e.V} {
					part, err := p.PartOf(endpoint)
					if err != nil {
						return nil, err
					}
					cut[part][e] = struct{}{}
				}
			}
			return cut, nil
		}

		prev, err := parentValue[map[string]partition.EdgeSet](p, alias)
		if err != nil {
			return nil, err
		}
		cut := maps.Clone(prev)
		// A part born in this step gets a key even with no boundary edges,
		// matching the root scan's part universe.
		for part := range p.Flow() {
			if _, ok := cut[part]; !ok {
				cut[part] = make(partition.EdgeSet)
			}
		}
		for part, pef := range p.EdgeFlow() {
			set := cut[part].Clone()
			if set == nil {
				set = make(partition.EdgeSet)
			}
			for e := range pef.Lost {
				delete(set, e)
			}
			for e := range pef.Gained {
				set[e] = struct{}{}
			}
			cut[part] = set
		}
		return cut, nil
	}
}

// Tally returns an updater summing a numeric node attribute per part, as a
// map[string]float64. Typical use: population totals per district. Every
// node must carry the attribute with an int, int64, or float64 value.
// Incremental cost per step: O(moved nodes).
func Tally(alias, attr string) partition.Updater {
	return func(p *partition.Partition) (any, error) {
		if p.Parent() == nil {
			totals := make(map[string]float64, p.Len())
			for _, part := range p.Parts() {
				sum, err := sumAttr(p, p.Assignment().NodesIn(part), attr)
				if err != nil {
					return nil, err
				}
				totals[part] = sum
			}
			return totals, nil
		}

		prev, err := parentValue[map[string]float64](p, alias)
		if err != nil {
			return nil, err
		}
		totals := maps.Clone(prev)
		for part, pf := range p.Flow() {
			gained, err := sumAttr(p, pf.In, attr)
			if err != nil {
				return nil, err
			}
			lost, err := sumAttr(p, pf.Out, attr)
			if err != nil {
				return nil, err
			}
			totals[part] = totals[part] + gained - lost
		}
		return totals, nil
	}
}

func sumAttr(p *partition.Partition, nodes partition.NodeSet, attr string) (float64, error) {
	total := 0.0
	for id := range nodes {
		n, ok := p.Graph().Node(id)
		if !ok {
			return 0, fmt.Errorf("tally %q: node %s not in graph", attr, id)
		}
		v, ok := n.Meta[attr]
		if !ok {
			return 0, fmt.Errorf("tally %q: node %s has no such attribute", attr, id)
		}
		switch x := v.(type) {
		case int:
			total += float64(x)
		case int64:
			total += float64(x)
		case float64:
			total += x
		default:
			return 0, fmt.Errorf("tally %q: node %s has non-numeric value %T", attr, id, v)
		}
	}
	return total, nil
}

// parentValue fetches and type-asserts the parent's cached value for alias.
func parentValue[T any](p *partition.Partition, alias string) (T, error) {
	var zero T
	v, err := p.Parent().Value(alias)
	if err != nil {
		return zero, err
	}
	tv, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("updater %q: parent cached %T, want %T", alias, v, zero)
	}
	return tv, nil
}
