// Package runtime glues the cores together: it owns the arena, the
// scope table, the mutation buffer and the scheduler, and drives the
// render → propagate → diff → drain cycle.
//
// The root render is itself a dirty-tracked effect node, so any signal
// it (or a component under it) read re-enters the cycle on write. An
// external applier drains the mutation buffer atomically after each
// update and applies the records in order.
package runtime
