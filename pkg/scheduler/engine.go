package scheduler

import (
	"container/heap"
	"log/slog"

	"github.com/krishpranav/nexa/internal/errors"
	"github.com/krishpranav/nexa/pkg/graph"
)

// DefaultBudget bounds how many times a single Propagate call may
// rebuild its execution order because re-entrant writes refilled the
// dirty set. Exceeding it is treated as developer error.
const DefaultBudget = 100

// Engine executes the graph's dirty closure in deterministic order.
type Engine struct {
	graph  *graph.Graph
	budget int
	logger *slog.Logger

	propagating bool

	// Passes counts completed propagation passes, for devtools.
	Passes uint64

	// Panics counts isolated thunk panics, for devtools.
	Panics uint64
}

// NewEngine creates a propagation engine over g.
func NewEngine(g *graph.Graph) *Engine {
	return &Engine{
		graph:  g,
		budget: DefaultBudget,
		logger: slog.Default(),
	}
}

// SetBudget overrides the re-entry budget. Values below 1 are ignored.
func (e *Engine) SetBudget(n int) {
	if n >= 1 {
		e.budget = n
	}
}

// SetLogger replaces the logger used for warnings.
func (e *Engine) SetLogger(l *slog.Logger) {
	if l != nil {
		e.logger = l
	}
}

// Propagating reports whether a propagation pass is currently running.
// Writes made while true are picked up by the running pass.
func (e *Engine) Propagating() bool {
	return e.propagating
}

// Propagate drains the dirty set and executes affected update thunks in
// (tier, depth, handle) order until no dirtiness remains.
//
// A node's thunk runs only if the node was actually marked dirty, either
// up front or by an upstream thunk during the pass; the rest of the
// forward closure exists purely to order execution. This is what lets an
// equality-gated memo cut propagation short.
//
// Re-entrant writes that land outside the current closure trigger
// another pass. When the number of passes exceeds the budget the dirty
// set is cleared and an E005 error is returned; a cycle detected during
// ordering returns E006.
func (e *Engine) Propagate() error {
	if e.propagating {
		return nil
	}
	e.propagating = true
	defer func() { e.propagating = false }()

	passes := 0
	for e.graph.DirtyCount() > 0 {
		passes++
		if passes > e.budget {
			// Abort the tick: clear whatever is pending so the next
			// write starts from a clean slate.
			e.graph.DrainDirty()
			err := errors.New("E005").WithDetailf("aborted after %d passes", e.budget)
			e.logger.Warn("propagation budget exceeded", "passes", e.budget, "code", "E005")
			return err
		}

		dirty := e.graph.DrainDirty()
		order, err := e.order(dirty)
		if err != nil {
			return err
		}

		pending := make(map[graph.Handle]struct{}, len(dirty))
		for _, h := range dirty {
			pending[h] = struct{}{}
		}

		for _, h := range order {
			_, wasDirty := pending[h]
			// Upstream thunks in this pass mark their subscribers
			// dirty; consume those flags as we reach them in order.
			if !wasDirty && !e.graph.TakeDirty(h) {
				continue
			}
			delete(pending, h)
			e.run(h)
		}
		e.Passes++
	}
	return nil
}

// order computes the deterministic execution order for the forward
// closure of dirty: Kahn's algorithm over in-degrees restricted to the
// closure, fed through a priority queue keyed by (tier, depth, handle).
func (e *Engine) order(dirty []graph.Handle) ([]graph.Handle, error) {
	if len(dirty) == 0 {
		return nil, nil
	}

	// Transitive forward closure along subscriber edges.
	closure := make(map[graph.Handle]struct{}, len(dirty)*2)
	queue := make([]graph.Handle, 0, len(dirty))
	for _, h := range dirty {
		if _, ok := closure[h]; ok {
			continue
		}
		closure[h] = struct{}{}
		queue = append(queue, h)
	}
	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		for _, sub := range e.graph.Subs(h) {
			if _, ok := closure[sub]; ok {
				continue
			}
			closure[sub] = struct{}{}
			queue = append(queue, sub)
		}
	}

	// In-degrees restricted to the closure.
	indeg := make(map[graph.Handle]int, len(closure))
	for h := range closure {
		for _, sub := range e.graph.Subs(h) {
			if _, ok := closure[sub]; ok {
				indeg[sub]++
			}
		}
	}

	pq := &nodeQueue{graph: e.graph}
	heap.Init(pq)
	for h := range closure {
		if indeg[h] == 0 {
			heap.Push(pq, h)
		}
	}

	order := make([]graph.Handle, 0, len(closure))
	for pq.Len() > 0 {
		h := heap.Pop(pq).(graph.Handle)
		order = append(order, h)
		for _, sub := range e.graph.Subs(h) {
			if _, ok := closure[sub]; !ok {
				continue
			}
			indeg[sub]--
			if indeg[sub] == 0 {
				heap.Push(pq, sub)
			}
		}
	}

	if len(order) != len(closure) {
		return nil, errors.New("E006").
			WithDetailf("ordered %d of %d nodes", len(order), len(closure))
	}
	return order, nil
}

// run executes one node's update thunk with panic isolation. A panic in
// a user thunk is recorded and the remainder of the order continues;
// the thunk's tracking scope is released on its own unwind, so no
// shared state is left corrupted.
func (e *Engine) run(h graph.Handle) {
	thunk := e.graph.Update(h)
	if thunk == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			e.Panics++
			e.logger.Error("update thunk panicked",
				"handle", h.String(),
				"panic", r,
				"code", "E008",
			)
		}
	}()
	thunk()
}

// nodeQueue is a min-heap of handles keyed by (tier, depth, handle).
// All value producers at depth d sort before any consumer at depth d+1,
// and effects sort after producers at equal depth.
type nodeQueue struct {
	graph *graph.Graph
	items []graph.Handle
}

func (q *nodeQueue) Len() int { return len(q.items) }

func (q *nodeQueue) Less(i, j int) bool {
	a, b := q.items[i], q.items[j]
	ka, _ := q.graph.KindOf(a)
	kb, _ := q.graph.KindOf(b)
	if ka.Tier() != kb.Tier() {
		return ka.Tier() < kb.Tier()
	}
	da, db := q.graph.Depth(a), q.graph.Depth(b)
	if da != db {
		return da < db
	}
	return a.Less(b)
}

func (q *nodeQueue) Swap(i, j int) {
	q.items[i], q.items[j] = q.items[j], q.items[i]
}

func (q *nodeQueue) Push(x any) {
	q.items = append(q.items, x.(graph.Handle))
}

func (q *nodeQueue) Pop() any {
	n := len(q.items)
	h := q.items[n-1]
	q.items = q.items[:n-1]
	return h
}
