// Package reactive provides the typed signals layer over the
// dependency graph: source cells (Signal), memoized computations (Memo)
// and side-effecting observers (Effect).
//
// Reading a Signal or Memo during a tracked context (a memo
// computation, an effect body, or a component render) automatically
// records a dependency edge, so writes propagate to exactly the nodes
// that read the value. Writes are equality-gated: setting a value equal
// to the current one is a no-op.
//
// Execution is single-threaded and cooperative. Each goroutine has its
// own runtime (graph, observer stack, batch depth); reactive handles
// capture their runtime at creation, so all access to one graph happens
// through one goroutine's loop.
package reactive
