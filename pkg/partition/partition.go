package partition

import (
	"fmt"
	"maps"
	"slices"

	"github.com/flipgraph/flipgraph/pkg/graph"
)

// Updater computes a named statistic for a fully-formed Partition. The
// engine invokes each registered updater exactly once per Partition instance
// and caches the result; an updater is free to reach for the parent's cached
// value plus the instance's flow and edge flow to compute incrementally, or
// to recompute from scratch (correct, just slower).
//
// Updaters must be pure with respect to shared state: the same registry is
// invoked for every partition in a chain, possibly from sibling merges
// running in parallel.
type Updater func(*Partition) (any, error)

// Updaters is a registry of named updater functions. It is supplied at root
// construction and inherited unchanged through the whole chain.
type Updaters map[string]Updater

// Partition is an immutable snapshot of a graph partition: which part each
// node belongs to, how this snapshot differs from its parent, and a
// write-once cache of every registered statistic.
//
// A Partition is created either as a root (from a full initial assignment)
// or as the child of exactly one parent via [Partition.Merge]. Once the
// constructor returns, the instance never changes - advancing the chain
// always means constructing a new Partition. Finished instances are safe for
// concurrent reads.
type Partition struct {
	graph      *graph.Graph // borrowed, read-only for the chain's lifetime
	assignment *Assignment
	updaters   Updaters

	parent   *Partition // nil for a root
	flips    map[string]string
	flow     Flow
	edgeFlow EdgeFlow

	cache map[string]any
}

// New builds a root Partition from a graph and an assignment. The assignment
// must be a total partition of the graph's node set (checked eagerly,
// ErrInvalidAssignment otherwise). Every registered updater runs once before
// New returns; an updater error aborts construction entirely.
//
// The updater registry is copied, so later mutation of the caller's map does
// not leak into the chain.
func New(g *graph.Graph, a *Assignment, ups Updaters) (*Partition, error) {
	if err := a.Validate(g); err != nil {
		return nil, err
	}
	p := &Partition{
		graph:      g,
		assignment: a,
		updaters:   maps.Clone(ups),
	}
	if p.updaters == nil {
		p.updaters = Updaters{}
	}
	if err := p.evaluate(); err != nil {
		return nil, err
	}
	return p, nil
}

// NewFromMapping builds a root Partition from a total node → part mapping.
func NewFromMapping(g *graph.Graph, mapping map[string]string, ups Updaters) (*Partition, error) {
	return New(g, FromMapping(mapping), ups)
}

// NewFromAttribute builds a root Partition from a named node attribute
// holding part labels (e.g. a stored district column).
func NewFromAttribute(g *graph.Graph, attr string, ups Updaters) (*Partition, error) {
	a, err := FromAttribute(g, attr)
	if err != nil {
		return nil, err
	}
	return New(g, a, ups)
}

// Merge returns the new Partition obtained by reassigning the nodes in delta
// to their given parts. The receiver is untouched and remains valid; the
// child holds a back-reference to it along with the flow and edge flow that
// produced the step.
//
// Nodes mapped to their current part are ignored. Construction is
// all-or-nothing: on any error (unknown node, inconsistent flow, updater
// failure) no partially-built Partition is observable.
func (p *Partition) Merge(delta map[string]string) (*Partition, error) {
	flow, err := DeriveFlow(p.assignment, delta)
	if err != nil {
		return nil, err
	}

	next := p.assignment.Copy()
	if err := next.ApplyFlow(flow); err != nil {
		return nil, err
	}

	child := &Partition{
		graph:      p.graph,
		assignment: next,
		updaters:   p.updaters,
		parent:     p,
		flips:      maps.Clone(delta),
		flow:       flow,
	}

	child.edgeFlow, err = DeriveEdgeFlow(child)
	if err != nil {
		return nil, err
	}
	if err := child.evaluate(); err != nil {
		return nil, err
	}
	return child, nil
}

// evaluate populates the cache by running every registered updater once, in
// name order for deterministic failure behavior. The cache is written
// exactly once, here, and never invalidated.
func (p *Partition) evaluate() error {
	p.cache = make(map[string]any, len(p.updaters))
	for _, name := range slices.Sorted(maps.Keys(p.updaters)) {
		value, err := p.updaters[name](p)
		if err != nil {
			return fmt.Errorf("updater %q: %w", name, err)
		}
		p.cache[name] = value
	}
	return nil
}

// Value returns the cached result of the named updater. The value was
// computed during construction; repeated calls return the identical object
// without re-invoking the updater. Returns ErrUnknownUpdater for a name that
// was never registered.
func (p *Partition) Value(name string) (any, error) {
	if _, ok := p.updaters[name]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownUpdater, name)
	}
	return p.cache[name], nil
}

// CrossesParts reports whether the edge's two endpoints currently resolve to
// different parts.
func (p *Partition) CrossesParts(e graph.Edge) (bool, error) {
	pu, err := p.assignment.PartOf(e.U)
	if err != nil {
		return false, err
	}
	pv, err := p.assignment.PartOf(e.V)
	if err != nil {
		return false, err
	}
	return pu != pv, nil
}

// PartOf returns the part containing the given node.
func (p *Partition) PartOf(node string) (string, error) {
	return p.assignment.PartOf(node)
}

// Graph returns the underlying graph. It is shared by the entire chain and
// must not be mutated.
func (p *Partition) Graph() *graph.Graph { return p.graph }

// Assignment returns the partition's assignment. Read-only.
func (p *Partition) Assignment() *Assignment { return p.assignment }

// Parent returns the Partition this one was merged from, or nil for a root.
func (p *Partition) Parent() *Partition { return p.parent }

// Flips returns the delta that produced this Partition, or nil for a root.
// The returned map is the engine's private copy; treat it as read-only.
func (p *Partition) Flips() map[string]string { return p.flips }

// Flow returns the per-part node flow that produced this Partition from its
// parent, or nil for a root.
func (p *Partition) Flow() Flow { return p.flow }

// EdgeFlow returns the per-part boundary-edge delta for this step, or nil
// for a root.
func (p *Partition) EdgeFlow() EdgeFlow { return p.edgeFlow }

// UpdaterNames returns the registered updater names in sorted order.
func (p *Partition) UpdaterNames() []string {
	return slices.Sorted(maps.Keys(p.updaters))
}

// Parts returns the part identifiers in sorted order.
func (p *Partition) Parts() []string { return p.assignment.Parts() }

// Len returns the number of parts.
func (p *Partition) Len() int { return p.assignment.Len() }

// String returns a short human-readable description.
func (p *Partition) String() string {
	n := p.Len()
	if n == 1 {
		return "partition of a graph into 1 part"
	}
	return fmt.Sprintf("partition of a graph into %d parts", n)
}
