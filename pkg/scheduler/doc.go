// Package scheduler turns dirtiness into deterministic execution.
//
// It has two cooperating pieces. The propagation Engine converts the
// graph's dirty set into a topological execution order keyed by
// (tier, depth, handle) and runs update thunks until the dirty set is
// exhausted, with a re-entry budget against runaway write loops. The
// TaskRunner paces platform-tier work: three FIFO queues (microtasks,
// effects, layout effects) drained in that order on each Tick.
//
// Everything here is single-threaded and cooperative; nothing preempts
// a running thunk.
package scheduler
