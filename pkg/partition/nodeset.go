package partition

import (
	"maps"
	"slices"
)

// NodeSet is a set of node IDs. The engine treats every NodeSet it hands out
// as immutable: flow application builds new sets instead of mutating shared
// ones, which is what makes [Assignment.Copy] cheap and ancestor partitions
// safe to keep around. Callers must not modify a NodeSet obtained from an
// Assignment, Flow, or Partition.
type NodeSet map[string]struct{}

// NewNodeSet builds a set from the given node IDs.
func NewNodeSet(ids ...string) NodeSet {
	s := make(NodeSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports whether the set holds the given node.
func (s NodeSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of nodes in the set.
func (s NodeSet) Len() int { return len(s) }

// Sorted returns the set's nodes as a sorted slice. Useful for deterministic
// output and tests.
func (s NodeSet) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

// Clone returns an independent copy of the set.
func (s NodeSet) Clone() NodeSet {
	return maps.Clone(s)
}

// replace returns a new set equal to (s - out) ∪ in. The receiver is never
// modified; ancestors sharing it keep their view.
func (s NodeSet) replace(in, out NodeSet) NodeSet {
	next := make(NodeSet, len(s)+len(in))
	for id := range s {
		if _, gone := out[id]; !gone {
			next[id] = struct{}{}
		}
	}
	for id := range in {
		next[id] = struct{}{}
	}
	return next
}
