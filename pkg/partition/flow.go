package partition

import (
	"maps"
	"slices"

	"github.com/flipgraph/flipgraph/pkg/graph"
)

// PartFlow records one part's side of an update step: the nodes it gained
// and the nodes it lost.
type PartFlow struct {
	In  NodeSet
	Out NodeSet
}

// Flow is the structural delta of one update step, keyed by part. Parts with
// no change are absent - not present with empty sets - so a statistic can
// test membership to decide whether it must recompute for that part at all.
//
// A Flow is immutable once derived and belongs to the Partition instance it
// was derived for.
type Flow map[string]PartFlow

// ChangedNodes returns the set of nodes that actually moved in this flow.
// Every moved node appears in exactly one part's In and one other part's
// Out, so collecting the In sides covers them all.
func (f Flow) ChangedNodes() NodeSet {
	out := make(NodeSet)
	for _, pf := range f {
		for node := range pf.In {
			out[node] = struct{}{}
		}
	}
	return out
}

// Parts returns the affected part identifiers in sorted order.
func (f Flow) Parts() []string {
	return slices.Sorted(maps.Keys(f))
}

// DeriveFlow computes the per-part flow produced by applying delta (a
// mapping from a subset of nodes to their new part) to old. For every node
// whose new part differs from its current one, the old part records the node
// in Out and the new part records it in In. Nodes mapped to their current
// part are excluded entirely, keeping the flow proportional to actual change
// rather than proposal size.
//
// Returns ErrNodeNotFound (wrapped) if delta mentions a node outside the
// assignment's universe.
func DeriveFlow(old *Assignment, delta map[string]string) (Flow, error) {
	flow := make(Flow)
	for node, newPart := range delta {
		oldPart, err := old.PartOf(node)
		if err != nil {
			return nil, err
		}
		if oldPart == newPart {
			continue
		}

		from := flow[oldPart]
		if from.Out == nil {
			from.Out = make(NodeSet)
		}
		from.Out[node] = struct{}{}
		flow[oldPart] = from

		to := flow[newPart]
		if to.In == nil {
			to.In = make(NodeSet)
		}
		to.In[node] = struct{}{}
		flow[newPart] = to
	}
	return flow, nil
}

// EdgeSet is a set of graph edges. Like NodeSet, hand-outs are read-only.
type EdgeSet map[graph.Edge]struct{}

// Contains reports whether the set holds the given edge.
func (s EdgeSet) Contains(e graph.Edge) bool {
	_, ok := s[e]
	return ok
}

// Len returns the number of edges in the set.
func (s EdgeSet) Len() int { return len(s) }

// Clone returns an independent copy of the set.
func (s EdgeSet) Clone() EdgeSet {
	return maps.Clone(s)
}

// Sorted returns the edges ordered by endpoints, for deterministic output.
func (s EdgeSet) Sorted() []graph.Edge {
	out := slices.Collect(maps.Keys(s))
	slices.SortFunc(out, func(a, b graph.Edge) int {
		if a.U != b.U {
			if a.U < b.U {
				return -1
			}
			return 1
		}
		switch {
		case a.V < b.V:
			return -1
		case a.V > b.V:
			return 1
		}
		return 0
	})
	return out
}

// PartEdgeFlow records, for one part, the boundary edges it gained and lost
// in an update step.
type PartEdgeFlow struct {
	Gained EdgeSet
	Lost   EdgeSet
}

// EdgeFlow is the per-part delta of boundary edges produced by a flow. An
// edge belongs to a part's boundary when it crosses parts and one of its
// endpoints lies in that part; the flow records, per part, which edges
// entered and left its boundary. An edge that keeps crossing but moves to a
// different pair of parts therefore shows up as lost under its old parts and
// gained under its new ones.
type EdgeFlow map[string]PartEdgeFlow

// Gained returns the union of all edges that entered some part's boundary.
// An edge in Gained but not in Lost became crossing in this step.
func (ef EdgeFlow) Gained() EdgeSet {
	out := make(EdgeSet)
	for _, pf := range ef {
		maps.Copy(out, pf.Gained)
	}
	return out
}

// Lost returns the union of all edges that left some part's boundary. An
// edge in Lost but not in Gained stopped crossing in this step.
func (ef EdgeFlow) Lost() EdgeSet {
	out := make(EdgeSet)
	for _, pf := range ef {
		maps.Copy(out, pf.Lost)
	}
	return out
}

// DeriveEdgeFlow computes the edge flow for a partition derived from a
// parent. Only edges incident to nodes in the partition's flow are examined,
// so the cost is O(total degree of changed nodes), never a full edge scan.
//
// An edge enters the flow iff its boundary membership changed for some part:
// it joined that part's boundary (gained) or left it (lost). Edges whose
// endpoint parts are identical before and after are skipped.
func DeriveEdgeFlow(p *Partition) (EdgeFlow, error) {
	parent := p.Parent()
	if parent == nil {
		return nil, nil
	}

	ef := make(EdgeFlow)
	seen := make(EdgeSet)
	for node := range p.Flow().ChangedNodes() {
		for _, e := range p.Graph().IncidentEdges(node) {
			if seen.Contains(e) {
				continue
			}
			seen[e] = struct{}{}

			oldParts, err := boundaryParts(parent.Assignment(), e)
			if err != nil {
				return nil, err
			}
			newParts, err := boundaryParts(p.Assignment(), e)
			if err != nil {
				return nil, err
			}

			for part := range newParts {
				if _, ok := oldParts[part]; !ok {
					recordEdge(ef, part, e, true)
				}
			}
			for part := range oldParts {
				if _, ok := newParts[part]; !ok {
					recordEdge(ef, part, e, false)
				}
			}
		}
	}
	return ef, nil
}

// boundaryParts returns the parts whose boundary the edge belongs to under
// the given assignment: both endpoint parts if the edge crosses, nothing
// otherwise.
func boundaryParts(a *Assignment, e graph.Edge) (map[string]struct{}, error) {
	pu, err := a.PartOf(e.U)
	if err != nil {
		return nil, err
	}
	pv, err := a.PartOf(e.V)
	if err != nil {
		return nil, err
	}
	if pu == pv {
		return nil, nil
	}
	return map[string]struct{}{pu: {}, pv: {}}, nil
}

// recordEdge files an edge under one part's gained or lost set.
func recordEdge(ef EdgeFlow, part string, e graph.Edge, gained bool) {
	pf := ef[part]
	if gained {
		if pf.Gained == nil {
			pf.Gained = make(EdgeSet)
		}
		pf.Gained[e] = struct{}{}
	} else {
		if pf.Lost == nil {
			pf.Lost = make(EdgeSet)
		}
		pf.Lost[e] = struct{}{}
	}
	ef[part] = pf
}
