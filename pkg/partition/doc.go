// Package partition implements incremental graph partitioning: assignments
// of nodes to named parts, the flows that advance them one reassignment step
// at a time, and immutable [Partition] snapshots with a write-once statistic
// cache.
//
// # Overview
//
// Long-running stochastic exploration (a Markov chain over districting
// plans, say) takes millions of small steps, each reassigning a handful of
// nodes between parts. Recomputing aggregate statistics from the whole graph
// at every step would dominate the run, so this package is organized around
// deltas instead:
//
//   - [DeriveFlow] turns a proposed reassignment into exact per-part
//     gain/loss sets, dropping no-op moves.
//   - [Assignment.ApplyFlow] advances an assignment by pure replacement -
//     old node sets are shared with ancestors, never mutated.
//   - [DeriveEdgeFlow] finds, per part, every edge that entered or left
//     that part's boundary, touching only edges incident to moved nodes.
//   - [Partition.Merge] packages all of this into a new immutable snapshot
//     and evaluates every registered [Updater] once, caching the results.
//
// An updater receives the full child partition - parent link, flow, edge
// flow - and can patch the parent's cached value in work proportional to the
// size of the change. That capability is offered, not enforced: an updater
// that rescans the graph is merely slow.
//
// # Basic Usage
//
//	a := partition.FromMapping(map[string]string{
//	    "1": "A", "2": "A", "3": "B", "4": "B",
//	})
//	root, err := partition.New(g, a, partition.Updaters{
//	    "sizes": updaters.Sizes("sizes"),
//	})
//	if err != nil {
//	    return err
//	}
//	next, err := root.Merge(map[string]string{"2": "B"})
//
// # Failure Model
//
// Construction is all-or-nothing. Invalid input (non-total assignment,
// unknown node in a delta, contradictory flow, failing updater) returns an
// error and leaves no partially-built Partition reachable. Nothing is
// retried internally: the engine is deterministic, so the same inputs fail
// the same way - retry policy belongs to the driver proposing deltas.
//
// # Concurrency
//
// Building a partition is synchronous and single-threaded. Finished
// partitions never change, so an entire chain may be read concurrently, and
// independent children of one parent may be merged in parallel provided the
// updaters are pure and the shared graph stays read-only.
package partition
