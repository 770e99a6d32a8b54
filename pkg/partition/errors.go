package partition

import "errors"

// Sentinel errors for the partition engine. Callers should match with
// errors.Is; all of them are wrapped with node/part context where it exists.
var (
	// ErrInvalidAssignment is returned when an initial assignment is not a
	// total mapping over the graph's node set, or cannot be built from the
	// given input (missing attribute, unsupported label type). Fatal to the
	// construction attempt; nothing partially built is observable.
	ErrInvalidAssignment = errors.New("invalid assignment")

	// ErrNodeNotFound is returned when a part lookup is requested for a node
	// that no part contains. Given the partition invariant this indicates a
	// programming error, not a recoverable condition.
	ErrNodeNotFound = errors.New("node not found in any part")

	// ErrInconsistentFlow is returned when a node appears on both the "in"
	// and "out" side of the same part's flow record. Such a flow is
	// contradictory and is rejected rather than silently resolved.
	ErrInconsistentFlow = errors.New("inconsistent flow")

	// ErrUnknownUpdater is returned by [Partition.Value] when the requested
	// name was never registered. A caller or configuration error.
	ErrUnknownUpdater = errors.New("unknown updater")
)
