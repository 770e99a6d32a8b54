package partition

import (
	"fmt"
	"iter"
	"maps"
	"math"
	"slices"

	"github.com/flipgraph/flipgraph/pkg/graph"
)

// Assignment maps every node of a graph to exactly one named part, stored as
// part → node set. A node's part is derived by membership lookup rather than
// kept in a second node → part index, so there is a single source of truth
// that cannot drift.
//
// Assignments are built once (from a mapping or a node attribute) and then
// only advanced by [Assignment.ApplyFlow] on a copy; the per-part sets are
// shared between copies and never mutated in place.
type Assignment struct {
	parts map[string]NodeSet
}

// FromMapping builds an Assignment by grouping a node → part mapping into
// per-part sets (the level sets of the mapping).
//
// Totality over a particular graph is not checked here - the mapping may
// cover any node universe. Use [Assignment.Validate] to check an assignment
// against a graph before building a partition on it.
func FromMapping(mapping map[string]string) *Assignment {
	parts := make(map[string]NodeSet)
	for node, part := range mapping {
		set, ok := parts[part]
		if !ok {
			set = make(NodeSet)
			parts[part] = set
		}
		set[node] = struct{}{}
	}
	return &Assignment{parts: parts}
}

// FromAttribute builds an Assignment from a named node attribute on the
// graph, e.g. a stored district column. Returns ErrInvalidAssignment if any
// node lacks the attribute or carries a value that cannot serve as a part
// label.
func FromAttribute(g *graph.Graph, attr string) (*Assignment, error) {
	values := g.Attribute(attr)
	mapping := make(map[string]string, len(values))
	for _, id := range g.NodeIDs() {
		v, ok := values[id]
		if !ok {
			return nil, fmt.Errorf("%w: node %s has no attribute %q", ErrInvalidAssignment, id, attr)
		}
		label, ok := partLabel(v)
		if !ok {
			return nil, fmt.Errorf("%w: node %s attribute %q has unusable type %T", ErrInvalidAssignment, id, attr, v)
		}
		mapping[id] = label
	}
	return FromMapping(mapping), nil
}

// partLabel coerces an attribute value to a part label. Strings pass
// through; integers, bools, and integer-valued floats (the shape JSON
// numbers decode to) get a canonical text form. Anything else is rejected so
// a typo'd attribute fails loudly instead of producing parts like
// "map[...]".
func partLabel(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, x != ""
	case int:
		return fmt.Sprintf("%d", x), true
	case int64:
		return fmt.Sprintf("%d", x), true
	case float64:
		if x == math.Trunc(x) && !math.IsInf(x, 0) {
			return fmt.Sprintf("%d", int64(x)), true
		}
		return "", false
	case bool:
		return fmt.Sprintf("%t", x), true
	}
	return "", false
}

// PartOf returns the part containing node. Returns ErrNodeNotFound if no
// part contains it - under the partition invariant that means the caller
// passed a node from outside the assignment's universe, or an invariant was
// broken upstream.
func (a *Assignment) PartOf(node string) (string, error) {
	for part, set := range a.parts {
		if set.Contains(node) {
			return part, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNodeNotFound, node)
}

// Has reports whether some part contains node.
func (a *Assignment) Has(node string) bool {
	for _, set := range a.parts {
		if set.Contains(node) {
			return true
		}
	}
	return false
}

// Parts returns the part identifiers in sorted order.
func (a *Assignment) Parts() []string {
	return slices.Sorted(maps.Keys(a.parts))
}

// NodesIn returns the node set of the given part, or nil if the part does
// not exist. The returned set is shared and must not be modified.
func (a *Assignment) NodesIn(part string) NodeSet { return a.parts[part] }

// Len returns the number of parts.
func (a *Assignment) Len() int { return len(a.parts) }

// NodeCount returns the total number of assigned nodes across all parts.
func (a *Assignment) NodeCount() int {
	total := 0
	for _, set := range a.parts {
		total += len(set)
	}
	return total
}

// Copy returns a new Assignment sharing the same per-part node sets. Only
// the outer part index is duplicated, so this is cheap regardless of graph
// size. The shared sets are safe because ApplyFlow replaces sets instead of
// mutating them.
func (a *Assignment) Copy() *Assignment {
	return &Assignment{parts: maps.Clone(a.parts)}
}

// ApplyFlow advances the assignment by one step: for each part in the flow,
// the part's node set is replaced with (old - out) ∪ in. The old sets are
// left untouched for ancestors that still reference them.
//
// Returns ErrInconsistentFlow if a node appears on both sides of the same
// part's record. A part mentioned only in "in" is created; a part drained to
// zero nodes remains present with an empty set, keeping the part universe
// stable across a chain.
func (a *Assignment) ApplyFlow(f Flow) error {
	for part, pf := range f {
		for node := range pf.In {
			if pf.Out.Contains(node) {
				return fmt.Errorf("%w: node %s both enters and leaves part %s", ErrInconsistentFlow, node, part)
			}
		}
	}
	for part, pf := range f {
		a.parts[part] = a.parts[part].replace(pf.In, pf.Out)
	}
	return nil
}

// Items yields every (node, part) pair exactly once. The sequence is
// restartable: ranging over it a second time replays all pairs. Iteration
// order is deterministic (parts and nodes in sorted order) so serialized
// output is stable.
func (a *Assignment) Items() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, part := range a.Parts() {
			for _, node := range a.parts[part].Sorted() {
				if !yield(node, part) {
					return
				}
			}
		}
	}
}

// Mapping materializes the full node → part mapping. This is the snapshot a
// serialization layer embeds as a node attribute for persistence.
func (a *Assignment) Mapping() map[string]string {
	out := make(map[string]string, a.NodeCount())
	for node, part := range a.Items() {
		out[node] = part
	}
	return out
}

// Validate checks that the assignment is a partition of exactly the graph's
// node set: every graph node in some part, no node in two parts, and no
// foreign nodes. Returns ErrInvalidAssignment describing the first violation
// found.
func (a *Assignment) Validate(g *graph.Graph) error {
	seen := make(map[string]string, g.NodeCount())
	for part, set := range a.parts {
		for node := range set {
			if prev, dup := seen[node]; dup {
				return fmt.Errorf("%w: node %s in parts %s and %s", ErrInvalidAssignment, node, prev, part)
			}
			seen[node] = part
			if !g.HasNode(node) {
				return fmt.Errorf("%w: node %s is not in the graph", ErrInvalidAssignment, node)
			}
		}
	}
	for _, id := range g.NodeIDs() {
		if _, ok := seen[id]; !ok {
			return fmt.Errorf("%w: node %s is not assigned to any part", ErrInvalidAssignment, id)
		}
	}
	return nil
}
